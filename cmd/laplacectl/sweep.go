package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/thesyncim/celtlaplace/internal/config"
	"github.com/thesyncim/celtlaplace/internal/logger"
	"github.com/thesyncim/celtlaplace/internal/metrics"
	"github.com/thesyncim/celtlaplace/internal/sweep"
)

type sweepCommand struct {
	Profile     string `short:"c" long:"profile" description:"YAML sweep profile (default: $LAPLACE_PROFILE or built-in)"`
	MetricsFile string `short:"m" long:"metrics-file" description:"write Prometheus textfile metrics here"`
}

func (c *sweepCommand) Execute(args []string) error {
	p, err := config.Load(c.Profile)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	if c.MetricsFile != "" {
		p.MetricsFile = c.MetricsFile
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := sweep.Run(ctx, p)
	if err != nil {
		return err
	}
	log := logger.WithField("run", res.RunID.String())

	for _, f := range res.Failures {
		log.WithField("failure", f.String()).Error("round trip mismatch")
	}
	log.WithFields(map[string]any{
		"streams":    res.Streams,
		"symbols":    res.Symbols,
		"saturated":  res.Saturated,
		"mismatches": res.Mismatches,
		"bytes":      res.Bytes,
		"max_walk":   res.MaxWalk,
	}).Info("sweep finished")

	if p.MetricsFile != "" {
		if err := metrics.WriteTextfile(p.MetricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		log.WithField("path", p.MetricsFile).Debug("metrics written")
	}

	if !res.Passed() {
		return fmt.Errorf("%d of %d residuals did not round trip", res.Mismatches, res.Symbols)
	}
	fmt.Fprintf(stdout, "sweep %s: %d residuals in %d streams round tripped\n", res.RunID, res.Symbols, res.Streams)
	return nil
}
