package encode

import "math/bits"

// xoshiro256pp is the xoshiro256++ generator. Its state is expanded from a
// 64-bit seed with SplitMix64, which makes the output sequence identical on
// every platform.
type xoshiro256pp struct {
	s [4]uint64
}

const splitMixGamma = 0x9e3779b97f4a7c15

func newXoshiro256pp(seed uint64) *xoshiro256pp {
	r := &xoshiro256pp{}
	x := seed
	for i := range r.s {
		x += splitMixGamma
		z := x
		z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
		z = (z ^ (z >> 27)) * 0x94d049bb133111eb
		r.s[i] = z ^ (z >> 31)
	}

	return r
}

func (r *xoshiro256pp) next() uint64 {
	s := &r.s
	result := bits.RotateLeft64(s[0]+s[3], 23) + s[0]
	t := s[1] << 17

	s[2] ^= s[0]
	s[3] ^= s[1]
	s[1] ^= s[2]
	s[0] ^= s[3]
	s[2] ^= t
	s[3] = bits.RotateLeft64(s[3], 45)

	return result
}
