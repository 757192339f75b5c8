// Package metrics holds the Prometheus collectors filled in by sweeps.
//
// The collectors live on a private registry rather than the default one
// so that only codec figures end up in the textfile written by
// WriteTextfile.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry gathers every collector in this package.
var Registry = prometheus.NewRegistry()

var (
	symbols = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "laplace_symbols_total",
		Help: "Total number of residuals coded, by operation.",
	}, []string{"op"})
	mismatches = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "laplace_mismatches_total",
		Help: "Total number of residuals that decoded to a different value than was coded.",
	})
	saturated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "laplace_saturated_total",
		Help: "Total number of residuals coded with a smaller magnitude than requested.",
	})
	streamBytes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "laplace_stream_bytes_total",
		Help: "Total number of range coder bytes produced.",
	})
	ringWalk = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "laplace_ring_walk",
		Help:    "Number of rings walked to code one residual.",
		Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64, 136},
	})
	sweeps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "laplace_sweeps_total",
		Help: "Total number of sweeps run, by result.",
	}, []string{"result"})
)

func init() {
	Registry.MustRegister(symbols, mismatches, saturated, streamBytes, ringWalk, sweeps)
}

// RecordEncoded counts one encoded residual and the number of rings walked
// to reach it.
func RecordEncoded(walk int, wasSaturated bool) {
	symbols.WithLabelValues("encode").Inc()
	ringWalk.Observe(float64(walk))
	if wasSaturated {
		saturated.Inc()
	}
}

// RecordDecoded counts one decoded residual; ok is false on a mismatch.
func RecordDecoded(ok bool) {
	symbols.WithLabelValues("decode").Inc()
	if !ok {
		mismatches.Inc()
	}
}

// RecordStream adds n bytes of finished stream.
func RecordStream(n int) {
	streamBytes.Add(float64(n))
}

// RecordSweep counts one finished sweep by outcome.
func RecordSweep(passed bool) {
	if passed {
		sweeps.WithLabelValues("pass").Inc()
	} else {
		sweeps.WithLabelValues("fail").Inc()
	}
}

// WriteTextfile writes the current values in the node exporter textfile
// collector format. The file is replaced atomically.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
