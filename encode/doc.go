// Package encode provides bit-level transforms applied to samples before they
// reach a model.
//
// Every encoder implements Encoder and works in place on a sample.Values. The
// available encoders are:
//
//   - Permutation: seeded shuffle of all sample bits (xoshiro256++ driven).
//   - LogThermometer: unary code of the bit length of each value.
//   - LinearThermometer: unary code proportional to each value.
//   - Slice: keeps a bit range of each value.
//
// Encoders compose with Chain:
//
//	enc := encode.NewChain(
//		encode.MustNewSlice(0, 4),
//		encode.MustNewLinearThermometer(8),
//	)
//	s, err := encode.Encode(enc, s)
package encode
