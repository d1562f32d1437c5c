package encode

import (
	"github.com/arloliu/wisard/sample"
)

// Encoder is a bit-level transform applied to a sample in place.
//
// An encoder may replace the sample bits and change its value width; the
// result is always a valid input for the next encoder of a chain.
type Encoder interface {
	EncodeInPlace(v sample.Values) error
}

// Encode applies enc to s and returns s.
func Encode[L comparable](enc Encoder, s *sample.Sample[L]) (*sample.Sample[L], error) {
	if err := enc.EncodeInPlace(s); err != nil {
		return nil, err
	}

	return s, nil
}

// Chain applies its encoders left to right.
type Chain []Encoder

var _ Encoder = Chain(nil)

// NewChain returns a chain of the given encoders. Nil encoders are dropped.
func NewChain(encs ...Encoder) Chain {
	c := make(Chain, 0, len(encs))
	for _, e := range encs {
		if e != nil {
			c = append(c, e)
		}
	}

	return c
}

// EncodeInPlace runs every encoder of the chain in order and stops at the
// first error.
func (c Chain) EncodeInPlace(v sample.Values) error {
	for _, e := range c {
		if err := e.EncodeInPlace(v); err != nil {
			return err
		}
	}

	return nil
}
