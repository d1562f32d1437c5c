// Package sample provides the bit-packed, labeled feature vector consumed by
// the encoders, filters and models of wisard.
//
// A Sample stores its bits in a github.com/bits-and-blooms/bitset.BitSet and
// divides them into equal-size values of ValueWidth bits. The bit length is
// always a multiple of the value width; every constructor and mutator that
// could break this returns errs.ErrInvalidValueWidth.
//
// # Bit order
//
// Bits are addressed by index. When a chunk of bits has to be read as an
// integer (a thermometer level, a filter address), the sample BitOrder decides
// which bit is least significant:
//
//	LSB0: chunk bit i is integer bit i            (default)
//	MSB0: chunk bit i is integer bit width-1-i
//
// Example:
//
//	s, _ := sample.FromBools([]bool{false, true, true, false}, 2, "hot")
//	for i, v := range s.IterValues() {
//	    fmt.Println(i, v.Uint64()) // 0 2, then 1 1
//	}
package sample
