// Command benchguard runs the coder benchmarks and fails when any of them
// exceeds its configured time or allocation budget.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"

	"github.com/thesyncim/celtlaplace/internal/logger"
)

type budget struct {
	MaxNsOp     float64 `yaml:"maxNsOp"`
	MaxBOp      float64 `yaml:"maxBOp"`
	MaxAllocsOp float64 `yaml:"maxAllocsOp"`
}

type packageGuard struct {
	Package    string            `yaml:"package"`
	Benchmarks map[string]budget `yaml:"benchmarks"`
}

type guardConfig struct {
	Count     int            `yaml:"count"`
	Benchtime string         `yaml:"benchtime"`
	Packages  []packageGuard `yaml:"packages"`
}

type sample struct {
	NsOp     float64
	BOp      float64
	AllocsOp float64
}

type commandLine struct {
	Config string `short:"c" long:"config" default:"tools/benchguard/guardrails.yaml" description:"path to the guardrail file"`
}

func main() {
	var opts commandLine
	if _, err := flags.Parse(&opts); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg, err := loadConfig(opts.Config)
	if err != nil {
		logger.WithError(err).Fatal("could not load guardrails")
	}

	var violations []string
	for _, pg := range cfg.Packages {
		out, err := runBench(cfg, pg)
		if err != nil {
			logger.WithError(err).WithField("package", pg.Package).Fatal("benchmark run failed")
		}
		samples, err := parseBenchmarkOutput(out)
		if err != nil {
			logger.WithError(err).WithField("package", pg.Package).Fatal("could not parse benchmark output")
		}
		violations = append(violations, evaluate(pg, samples)...)
	}

	if len(violations) > 0 {
		for _, v := range violations {
			logger.Error(v)
		}
		os.Exit(1)
	}
	logger.Info("all benchmarks within guardrails")
}

func loadConfig(path string) (*guardConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg guardConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *guardConfig) error {
	if cfg.Count <= 0 {
		return errors.New("count must be > 0")
	}
	if cfg.Benchtime == "" {
		return errors.New("benchtime must be set")
	}
	if len(cfg.Packages) == 0 {
		return errors.New("packages must be non-empty")
	}
	for _, pg := range cfg.Packages {
		if pg.Package == "" {
			return errors.New("package must be set")
		}
		if len(pg.Benchmarks) == 0 {
			return fmt.Errorf("%s: benchmarks must be non-empty", pg.Package)
		}
	}
	return nil
}

// benchRegex matches exactly the guarded benchmarks of one package.
func benchRegex(pg packageGuard) string {
	names := make([]string, 0, len(pg.Benchmarks))
	for name := range pg.Benchmarks {
		names = append(names, regexp.QuoteMeta(name))
	}
	sort.Strings(names)
	return "^(" + strings.Join(names, "|") + ")$"
}

func runBench(cfg *guardConfig, pg packageGuard) ([]byte, error) {
	args := []string{
		"test",
		"-run", "^$",
		"-bench", benchRegex(pg),
		"-benchmem",
		"-count", strconv.Itoa(cfg.Count),
		"-benchtime", cfg.Benchtime,
		"-cpu", "1",
		pg.Package,
	}
	logger.WithField("args", strings.Join(args, " ")).Debug("running go")

	cmd := exec.Command("go", args...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s", err, buf.String())
	}
	return buf.Bytes(), nil
}

var benchLineRe = regexp.MustCompile(`^(Benchmark\S+?)(?:-\d+)?\s+\d+\s+([0-9.eE+\-]+)\s+ns/op\s+([0-9.eE+\-]+)\s+B/op\s+([0-9.eE+\-]+)\s+allocs/op$`)

func parseBenchmarkOutput(out []byte) (map[string][]sample, error) {
	result := make(map[string][]sample)
	for _, line := range strings.Split(string(out), "\n") {
		m := benchLineRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		var s sample
		for i, dst := range []*float64{&s.NsOp, &s.BOp, &s.AllocsOp} {
			v, err := strconv.ParseFloat(m[i+2], 64)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", m[1], err)
			}
			*dst = v
		}
		result[m[1]] = append(result[m[1]], s)
	}
	if len(result) == 0 {
		return nil, errors.New("no benchmark rows parsed")
	}
	return result, nil
}

func evaluate(pg packageGuard, samples map[string][]sample) []string {
	names := make([]string, 0, len(pg.Benchmarks))
	for name := range pg.Benchmarks {
		names = append(names, name)
	}
	sort.Strings(names)

	var violations []string
	for _, name := range names {
		b := pg.Benchmarks[name]
		rows := samples[name]
		if len(rows) == 0 {
			violations = append(violations, fmt.Sprintf("%s: missing benchmark %s", pg.Package, name))
			continue
		}
		m := medianSample(rows)
		logger.WithFields(map[string]any{
			"benchmark": name,
			"ns_op":     m.NsOp,
			"b_op":      m.BOp,
			"allocs_op": m.AllocsOp,
		}).Info("measured")

		if m.NsOp > b.MaxNsOp {
			violations = append(violations, fmt.Sprintf("%s ns/op regression: measured %.1f > max %.1f", name, m.NsOp, b.MaxNsOp))
		}
		if m.BOp > b.MaxBOp {
			violations = append(violations, fmt.Sprintf("%s B/op regression: measured %.1f > max %.1f", name, m.BOp, b.MaxBOp))
		}
		if m.AllocsOp > b.MaxAllocsOp {
			violations = append(violations, fmt.Sprintf("%s allocs/op regression: measured %.1f > max %.1f", name, m.AllocsOp, b.MaxAllocsOp))
		}
	}
	return violations
}

func medianSample(rows []sample) sample {
	pick := func(get func(sample) float64) float64 {
		vals := make([]float64, len(rows))
		for i, r := range rows {
			vals[i] = get(r)
		}
		return median(vals)
	}
	return sample{
		NsOp:     pick(func(s sample) float64 { return s.NsOp }),
		BOp:      pick(func(s sample) float64 { return s.BOp }),
		AllocsOp: pick(func(s sample) float64 { return s.AllocsOp }),
	}
}

func median(values []float64) float64 {
	sort.Float64s(values)
	n := len(values)
	if n%2 == 1 {
		return values[n/2]
	}
	return (values[n/2-1] + values[n/2]) / 2
}
