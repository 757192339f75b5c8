package laplace

// IntervalEncoder is the part of a range encoder the model writes through.
// *rangecoding.Encoder satisfies it.
type IntervalEncoder interface {
	// Encode codes the symbol [fl, fh) out of ft, 0 <= fl < fh <= ft.
	Encode(fl, fh, ft uint32)
}

// IntervalDecoder is the part of a range decoder the model reads through.
// *rangecoding.Decoder satisfies it.
type IntervalDecoder interface {
	// Decode returns the cumulative frequency in [0, ft) of the next
	// symbol without consuming it.
	Decode(ft uint32) uint32
	// Update consumes the symbol [fl, fh) out of ft, fl < fh <= ft.
	Update(fl, fh, ft uint32)
}

// locate walks to the ring coding |value| and returns the symbol's lower
// edge and width together with the value the symbol actually represents.
//
// Magnitudes past the last non-empty ring saturate onto that ring. When
// not even ring 1 exists every value collapses onto ring 0, which is not
// split by sign.
func locate(value, decay int) (fl, fs, coded int) {
	neg := value < 0
	// Any magnitude beyond the last ring saturates, so clamping keeps
	// the negation from overflowing at math.MinInt.
	mag := value
	if neg {
		mag = -max(value, -Total)
	}

	r := NewRings(decay)
	for r.Index() < mag {
		prev := r
		if !r.Next() {
			r = prev
			break
		}
	}

	fl, fs, coded = r.Low(), r.Width(), r.Index()
	if neg && coded > 0 {
		fl += fs
		coded = -coded
	}
	return fl, fs, coded
}

// Interval returns the symbol [fl, fh) out of Total that Encode emits for
// value.
func Interval(value, decay int) (fl, fh uint32) {
	l, s, _ := locate(value, decay)
	return uint32(l), uint32(l + s)
}

// Saturate returns the value Decode will recover after Encode(enc, value,
// decay): value itself when it is representable, otherwise the nearest
// representable value of the same sign.
func Saturate(value, decay int) int {
	_, _, coded := locate(value, decay)
	return coded
}

// Encode codes value with the model for decay and returns the value
// actually coded, which differs from value only when its magnitude exceeds
// MaxMagnitude(decay).
//
// Reference: libopus celt/laplace.c ec_laplace_encode()
func Encode(enc IntervalEncoder, value, decay int) int {
	fl, fs, coded := locate(value, decay)
	enc.Encode(uint32(fl), uint32(fl+fs), Total)
	return coded
}

// Decode reads one value coded with the model for decay. decay must match
// the one used by Encode; a mismatch, like a corrupted stream, silently
// yields a wrong value. Decode never fails: for every frequency the range
// decoder may return it terminates and consumes a non-empty symbol.
//
// Reference: libopus celt/laplace.c ec_laplace_decode()
func Decode(dec IntervalDecoder, decay int) int {
	fm := int(dec.Decode(Total))

	r := NewRings(decay)
	for fm >= r.High() && r.Width() != 0 {
		r.Next()
	}

	val := r.Index()
	fl, fs, fh := r.Low(), r.Width(), r.High()
	if fl > 0 {
		if fm >= fl+fs {
			val = -val
			fl += fs
		} else {
			fh -= fs
		}
	}
	// Only reachable when fm lies past the last ring, i.e. on corrupt input.
	if fl == fh {
		fl--
	}

	dec.Update(uint32(fl), uint32(fh), Total)
	return val
}
