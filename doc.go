// Package celtlaplace codes prediction residuals with the CELT Laplace
// model in pure Go.
//
// Residuals are small signed integers whose magnitudes fall off roughly
// geometrically. Each one is coded as a single range coder symbol whose
// probability is given by a decay parameter in Q14 (0 to 16383): the larger
// the decay, the flatter the distribution and the cheaper large
// magnitudes become.
//
// # Packages
//
//   - laplace: the probability model itself, written against a two-method
//     range coder contract so hosts can plug in their own coder.
//   - rangecoding: the RFC 6716 range coder the model is normally used with.
//
// This package ties the two together for hosts that just want bytes:
//
//	enc := celtlaplace.NewResidualEncoder(make([]byte, 256))
//	for _, r := range residuals {
//		enc.Encode(r, decay)
//	}
//	data, err := enc.Finish()
//
// The output is the raw range coder stream; framing it is up to the host.
package celtlaplace
