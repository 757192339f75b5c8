// Package config loads the sweep profile used by laplacectl.
//
// A profile is a YAML file decoded over Default; unknown keys are
// rejected. Environment variables, optionally seeded from a .env file in
// the working directory, override individual settings:
//
//	LAPLACE_PROFILE       profile path used when none is given
//	LAPLACE_BUFFER_SIZE   encoder buffer size in bytes
//	LAPLACE_METRICS_FILE  textfile-collector output path
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/thesyncim/celtlaplace/internal/logger"
)

// maxDecay is the largest Q14 decay value.
const maxDecay = 16383

// ValueRange is an inclusive range of residuals swept for every decay.
type ValueRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Random describes a seeded stream of random residuals with random decays,
// coded as one range coder stream.
type Random struct {
	Count    int   `yaml:"count"`
	Seed     int64 `yaml:"seed"`
	Spread   int   `yaml:"spread"` // residuals drawn from [-Spread, Spread]
	MinDecay int   `yaml:"minDecay"`
	MaxDecay int   `yaml:"maxDecay"`
}

// Profile is a complete sweep description.
type Profile struct {
	Decays      []int      `yaml:"decays"`
	Values      ValueRange `yaml:"values"`
	Random      Random     `yaml:"random"`
	BufferSize  int        `yaml:"bufferSize"`
	MetricsFile string     `yaml:"metricsFile"`
}

// Default returns the built-in profile: the whole decay range in steps of
// 512 plus both ends, residuals -64..64, and the random stream of the
// libopus Laplace unit test.
func Default() Profile {
	p := Profile{
		Values: ValueRange{Min: -64, Max: 64},
		Random: Random{
			Count:    10000,
			Seed:     42,
			Spread:   7,
			MinDecay: 5000,
			MaxDecay: 15999,
		},
		BufferSize: 1 << 16,
	}
	for d := 0; d <= maxDecay; d += 512 {
		p.Decays = append(p.Decays, d)
	}
	p.Decays = append(p.Decays, maxDecay)
	return p
}

var loadEnvOnce sync.Once

func loadEnv() {
	if err := godotenv.Load(); err != nil {
		logger.WithError(err).Debug("no .env file loaded")
	}
}

// Load reads the profile at path, or the one named by LAPLACE_PROFILE when
// path is empty, or Default when neither is set. Environment overrides
// are applied last and the result is validated.
func Load(path string) (Profile, error) {
	loadEnvOnce.Do(loadEnv)

	if path == "" {
		path = os.Getenv("LAPLACE_PROFILE")
	}

	p := Default()
	if path != "" {
		if err := decodeFile(path, &p); err != nil {
			return p, err
		}
	}

	var errs []error
	if v := os.Getenv("LAPLACE_BUFFER_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid LAPLACE_BUFFER_SIZE %q: %w", v, err))
		} else {
			p.BufferSize = n
		}
	}
	if v := os.Getenv("LAPLACE_METRICS_FILE"); v != "" {
		p.MetricsFile = v
	}

	errs = append(errs, p.Validate())
	return p, errors.Join(errs...)
}

func decodeFile(path string, p *Profile) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open profile: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil {
		return fmt.Errorf("parse profile %s: %w", path, err)
	}
	return nil
}

// Validate reports every inconsistent setting.
func (p Profile) Validate() error {
	var errs []error
	if len(p.Decays) == 0 && p.Random.Count == 0 {
		errs = append(errs, errors.New("profile sweeps nothing: no decays and no random values"))
	}
	for _, d := range p.Decays {
		if d < 0 || d > maxDecay {
			errs = append(errs, fmt.Errorf("decay %d out of range [0, %d]", d, maxDecay))
		}
	}
	if p.Values.Min > p.Values.Max {
		errs = append(errs, fmt.Errorf("values.min %d > values.max %d", p.Values.Min, p.Values.Max))
	}
	if p.Random.Count < 0 {
		errs = append(errs, fmt.Errorf("random.count %d is negative", p.Random.Count))
	}
	if p.Random.Count > 0 {
		if p.Random.Spread < 0 {
			errs = append(errs, fmt.Errorf("random.spread %d is negative", p.Random.Spread))
		}
		if p.Random.MinDecay < 0 || p.Random.MaxDecay > maxDecay || p.Random.MinDecay > p.Random.MaxDecay {
			errs = append(errs, fmt.Errorf("random decay range [%d, %d] invalid", p.Random.MinDecay, p.Random.MaxDecay))
		}
	}
	if p.BufferSize <= 0 {
		errs = append(errs, fmt.Errorf("bufferSize %d must be > 0", p.BufferSize))
	}
	return errors.Join(errs...)
}
