package celtlaplace

import (
	"github.com/thesyncim/celtlaplace/laplace"
	"github.com/thesyncim/celtlaplace/rangecoding"
)

// ResidualEncoder range codes a sequence of residuals into a fixed buffer.
//
// Residuals whose magnitude the model cannot represent for their decay
// are coded saturated; Encode returns the value actually coded so the
// host can keep its predictor in step with the decoder.
type ResidualEncoder struct {
	rc        rangecoding.Encoder
	count     int
	saturated int
	done      bool
}

// NewResidualEncoder creates an encoder writing into buf.
func NewResidualEncoder(buf []byte) *ResidualEncoder {
	e := &ResidualEncoder{}
	e.Reset(buf)
	return e
}

// Reset discards any state and starts a new stream in buf.
func (e *ResidualEncoder) Reset(buf []byte) {
	e.rc.Init(buf)
	e.count = 0
	e.saturated = 0
	e.done = false
}

// Encode codes one residual and returns the value the decoder will see.
func (e *ResidualEncoder) Encode(value, decay int) (int, error) {
	if e.done {
		return 0, ErrEncoderFinished
	}
	if !validDecay(decay) {
		return 0, ErrInvalidDecay
	}
	coded := laplace.Encode(&e.rc, value, decay)
	if coded != value {
		e.saturated++
	}
	e.count++
	return coded, nil
}

// Finish flushes the coder and returns the stream, a prefix of the buffer.
func (e *ResidualEncoder) Finish() ([]byte, error) {
	if e.done {
		return nil, ErrEncoderFinished
	}
	e.done = true
	data := e.rc.Done()
	if e.rc.Error() != 0 {
		return nil, ErrBufferTooSmall
	}
	return data, nil
}

// Count returns the number of residuals coded since the last Reset.
func (e *ResidualEncoder) Count() int { return e.count }

// Saturated returns how many residuals were coded with a smaller
// magnitude than requested.
func (e *ResidualEncoder) Saturated() int { return e.saturated }

// Tell returns the number of bits used so far.
func (e *ResidualEncoder) Tell() int { return e.rc.Tell() }

// ResidualDecoder reads residuals back from a stream produced by
// ResidualEncoder. It never fails on corrupt input; it only returns
// wrong values.
type ResidualDecoder struct {
	rc rangecoding.Decoder
}

// NewResidualDecoder creates a decoder reading data.
func NewResidualDecoder(data []byte) *ResidualDecoder {
	d := &ResidualDecoder{}
	d.Reset(data)
	return d
}

// Reset starts decoding a new stream.
func (d *ResidualDecoder) Reset(data []byte) {
	d.rc.Init(data)
}

// Decode reads one residual coded with decay.
func (d *ResidualDecoder) Decode(decay int) (int, error) {
	if !validDecay(decay) {
		return 0, ErrInvalidDecay
	}
	return laplace.Decode(&d.rc, decay), nil
}

// Tell returns the number of bits consumed so far.
func (d *ResidualDecoder) Tell() int { return d.rc.Tell() }

// EncodeResiduals codes values with a single decay into buf. The values
// are overwritten with the values actually coded.
func EncodeResiduals(buf []byte, values []int, decay int) ([]byte, error) {
	if !validDecay(decay) {
		return nil, ErrInvalidDecay
	}
	e := NewResidualEncoder(buf)
	for i, v := range values {
		coded, err := e.Encode(v, decay)
		if err != nil {
			return nil, err
		}
		values[i] = coded
	}
	return e.Finish()
}

// EncodeResidualsWithDecays is EncodeResiduals with one decay per value.
// On error the values before the failing one have already been replaced.
func EncodeResidualsWithDecays(buf []byte, values, decays []int) ([]byte, error) {
	if len(values) != len(decays) {
		return nil, ErrLengthMismatch
	}
	e := NewResidualEncoder(buf)
	for i, v := range values {
		coded, err := e.Encode(v, decays[i])
		if err != nil {
			return nil, err
		}
		values[i] = coded
	}
	return e.Finish()
}

// DecodeResiduals fills out with len(out) residuals coded with decay.
func DecodeResiduals(data []byte, out []int, decay int) error {
	if !validDecay(decay) {
		return ErrInvalidDecay
	}
	d := NewResidualDecoder(data)
	for i := range out {
		v, err := d.Decode(decay)
		if err != nil {
			return err
		}
		out[i] = v
	}
	return nil
}

// DecodeResidualsWithDecays is DecodeResiduals with one decay per value.
func DecodeResidualsWithDecays(data []byte, out, decays []int) error {
	if len(out) != len(decays) {
		return ErrLengthMismatch
	}
	d := NewResidualDecoder(data)
	for i := range out {
		v, err := d.Decode(decays[i])
		if err != nil {
			return err
		}
		out[i] = v
	}
	return nil
}
