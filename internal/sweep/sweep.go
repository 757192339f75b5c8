// Package sweep verifies the Laplace coder end to end over a profile of
// decays and residuals: every case is range coded, decoded again and
// compared against the value the encoder reported as coded.
package sweep

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/thesyncim/celtlaplace"
	"github.com/thesyncim/celtlaplace/internal/config"
	"github.com/thesyncim/celtlaplace/internal/metrics"
	"github.com/thesyncim/celtlaplace/laplace"
)

// maxFailures caps how many individual failures a Result keeps.
const maxFailures = 16

// Failure describes one residual that did not survive the round trip.
type Failure struct {
	Stream  string // "decay=N" or "random"
	Index   int    // position in the stream
	Decay   int
	Value   int // requested residual
	Coded   int // value the encoder reported
	Decoded int
}

func (f Failure) String() string {
	return fmt.Sprintf("%s[%d]: decay %d value %d coded %d decoded %d",
		f.Stream, f.Index, f.Decay, f.Value, f.Coded, f.Decoded)
}

// Result summarizes a sweep.
type Result struct {
	RunID      uuid.UUID
	Streams    int
	Symbols    int
	Mismatches int
	Saturated  int
	Bytes      int
	MaxWalk    int // largest ring index reached by any residual
	Failures   []Failure
}

// Passed reports whether every residual decoded as coded.
func (r Result) Passed() bool { return r.Mismatches == 0 }

type stream struct {
	name   string
	values []int
	decays []int
}

// Run executes the sweep described by p. The error is non-nil only when
// the sweep could not be carried out (cancelled context, encoder buffer
// too small); decoding mismatches are reported in the Result.
func Run(ctx context.Context, p config.Profile) (Result, error) {
	res := Result{RunID: uuid.New()}
	buf := make([]byte, p.BufferSize)

	for _, s := range streams(p) {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := res.run(s, buf); err != nil {
			metrics.RecordSweep(false)
			return res, fmt.Errorf("stream %s: %w", s.name, err)
		}
	}
	metrics.RecordSweep(res.Passed())
	return res, nil
}

func streams(p config.Profile) []stream {
	var out []stream
	if p.Values.Min <= p.Values.Max {
		n := p.Values.Max - p.Values.Min + 1
		for _, decay := range p.Decays {
			s := stream{name: fmt.Sprintf("decay=%d", decay), values: make([]int, n), decays: make([]int, n)}
			for i := range s.values {
				s.values[i] = p.Values.Min + i
				s.decays[i] = decay
			}
			out = append(out, s)
		}
	}

	if r := p.Random; r.Count > 0 {
		rng := rand.New(rand.NewSource(r.Seed))
		s := stream{name: "random", values: make([]int, r.Count), decays: make([]int, r.Count)}
		for i := range s.values {
			s.values[i] = rng.Intn(2*r.Spread+1) - r.Spread
			s.decays[i] = r.MinDecay + rng.Intn(r.MaxDecay-r.MinDecay+1)
		}
		out = append(out, s)
	}
	return out
}

func (res *Result) run(s stream, buf []byte) error {
	enc := celtlaplace.NewResidualEncoder(buf)
	coded := make([]int, len(s.values))
	for i, v := range s.values {
		c, err := enc.Encode(v, s.decays[i])
		if err != nil {
			return err
		}
		coded[i] = c
		walk := abs(c)
		if walk > res.MaxWalk {
			res.MaxWalk = walk
		}
		metrics.RecordEncoded(walk, c != v)
	}
	res.Saturated += enc.Saturated()

	data, err := enc.Finish()
	if err != nil {
		return err
	}
	res.Streams++
	res.Bytes += len(data)
	metrics.RecordStream(len(data))

	dec := celtlaplace.NewResidualDecoder(data)
	for i, want := range coded {
		got, err := dec.Decode(s.decays[i])
		if err != nil {
			return err
		}
		res.Symbols++
		// A representable residual must also be coded exactly.
		ok := got == want && (want == s.values[i] || abs(s.values[i]) > laplace.MaxMagnitude(s.decays[i]))
		metrics.RecordDecoded(ok)
		if ok {
			continue
		}
		res.Mismatches++
		if len(res.Failures) < maxFailures {
			res.Failures = append(res.Failures, Failure{
				Stream:  s.name,
				Index:   i,
				Decay:   s.decays[i],
				Value:   s.values[i],
				Coded:   want,
				Decoded: got,
			})
		}
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
