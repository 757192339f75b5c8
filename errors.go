// errors.go defines public error types for the celtlaplace package.

package celtlaplace

import "errors"

// Public error types for encoding and decoding operations.
var (
	// ErrInvalidDecay indicates a decay outside the Q14 range [0, 16384).
	ErrInvalidDecay = errors.New("celtlaplace: invalid decay (must be 0-16383)")

	// ErrBufferTooSmall indicates the output buffer filled up before all
	// residuals were coded.
	ErrBufferTooSmall = errors.New("celtlaplace: output buffer too small")

	// ErrLengthMismatch indicates a per-residual decay slice whose length
	// differs from the residual slice.
	ErrLengthMismatch = errors.New("celtlaplace: decays and residuals differ in length")

	// ErrEncoderFinished indicates use of an encoder after Finish.
	ErrEncoderFinished = errors.New("celtlaplace: encoder already finished")
)

// MaxDecay is the largest valid decay value.
const MaxDecay = 16383

// validDecay returns true if decay is a valid Q14 fraction.
func validDecay(decay int) bool {
	return decay >= 0 && decay <= MaxDecay
}
