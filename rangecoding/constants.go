// Package rangecoding implements the range coder of RFC 6716 Section 4.1.
//
// Only the arithmetic needed to code symbols against an arbitrary total
// frequency is provided: Encoder.Encode on one side, Decoder.Decode and
// Decoder.Update on the other. The byte stream is identical to the one
// produced by libopus ec_encode/ec_enc_done.
package rangecoding

// Coder geometry from libopus celt/mfrngcod.h.
const (
	symBits   = 8                        // bits emitted per renormalization step
	codeBits  = 32                       // state register width
	symMax    = (1 << symBits) - 1       // 255
	codeTop   = 1 << (codeBits - 1)      // 0x80000000
	codeBot   = codeTop >> symBits       // 0x00800000
	codeShift = codeBits - symBits - 1   // 23
	codeExtra = (codeBits-2)%symBits + 1 // 7
)

