// Package laplace codes signed integers with a two-sided geometric
// (Laplace-like) distribution through a range coder.
//
// The model splits the total frequency Total into nested rings around
// zero. Ring 0 holds the value 0 and is StartFreq(decay) wide. Ring k >= 1
// holds the values +k and -k: it is 2*fs_k wide, where
//
//	fs_k = (fs_{k-1} * decay) >> 14
//
// and the positive value takes the lower half [fl_k, fl_k+fs_k) while the
// negative value takes the upper half [fl_k+fs_k, fl_k+2*fs_k). Rings are
// generated until their half-width underflows to zero.
//
// decay is a Q14 fraction in [0, 16384). Passing a value outside that
// range is a programming error and produces meaningless intervals.
//
// Reference: libopus celt/laplace.c (2007 revision)
package laplace

// Total is the total frequency the model distributes. It stays one unit
// below 2^15 so the coder's per-symbol scale keeps its precision.
const Total = 32767

// decayShift is the Q format of decay.
const decayShift = 14

// StartFreq returns the width of ring 0, the frequency of the value 0:
//
//	floor(32767 * (16384 - decay) / (16384 + decay))
//
// This is the closed form of the geometric series that makes the widths
// of all rings sum to at most Total.
func StartFreq(decay int) int {
	return int(uint32(Total) * uint32((1<<decayShift)-decay) / uint32((1<<decayShift)+decay))
}

// shrink computes the half-width of the ring following one of half-width fs.
func shrink(fs, decay int) int {
	return int(int32(fs) * int32(decay) >> decayShift)
}

// Rings walks the nested rings of the model for one decay value. The zero
// value is not usable; start a walk with NewRings. Rings is a plain value,
// so copying it saves the walk position.
//
// Both Encode and Decode drive their search through Rings, which keeps the
// two sides of the coder generating exactly the same intervals.
type Rings struct {
	decay int
	k     int // ring index, equal to the magnitude it codes
	fl    int // lower edge of ring k
	fs    int // width of ring 0, half-width of any other ring
}

// NewRings returns a walk positioned on ring 0.
func NewRings(decay int) Rings {
	return Rings{decay: decay, fs: StartFreq(decay)}
}

// Next advances to the following ring and reports whether that ring has
// a non-zero width. Once Next has returned false the walk has run past
// the end of the model and further calls keep producing empty rings.
func (r *Rings) Next() bool {
	r.fl = r.High()
	r.fs = shrink(r.fs, r.decay)
	r.k++
	return r.fs != 0
}

// Index returns the ring number, i.e. the magnitude coded by this ring.
func (r Rings) Index() int { return r.k }

// Low returns the lower edge of the ring.
func (r Rings) Low() int { return r.fl }

// Width returns the width of ring 0, or the half-width of any later ring
// (the share of one sign).
func (r Rings) Width() int { return r.fs }

// High returns the upper edge of the ring.
func (r Rings) High() int {
	if r.k == 0 {
		return r.fl + r.fs
	}
	return r.fl + 2*r.fs
}

// MaxMagnitude returns the largest magnitude the model can represent for
// decay. Larger magnitudes saturate to it on encode.
//
// It also bounds the work done per symbol: Encode and Decode each advance
// the walk at most MaxMagnitude(decay)+1 times. Every step shrinks the
// width by at least one unit, so the bound never exceeds StartFreq(decay);
// for moderate decay the geometric shrink dominates and it is close to
// log(StartFreq(decay))/log(16384/decay): 13 at decay 8192, 60 at 15000,
// and never more than 135 over the whole decay range.
func MaxMagnitude(decay int) int {
	r := NewRings(decay)
	if r.Width() == 0 {
		return 0
	}
	for r.Next() {
	}
	return r.Index() - 1
}
