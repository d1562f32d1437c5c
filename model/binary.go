package model

import (
	"context"
	"iter"

	"github.com/arloliu/wisard/encode"
	"github.com/arloliu/wisard/filter"
	"github.com/arloliu/wisard/sample"
)

// BinaryWisard is the classic WiSARD model: single-bit packed tables with a
// threshold of 0, fed with a fixed pseudo-random permutation of every
// sample.
//
// The permutation is applied to a copy, so caller samples are never
// modified.
type BinaryWisard[L comparable] struct {
	base *Wisard[L]
	perm encode.Permutation
}

// NewBinary creates a BinaryWisard whose permutation seed is drawn once from
// the process-wide random source.
func NewBinary[L comparable](inputWidth, addrWidth int, labels []L, opts ...Option) (*BinaryWisard[L], error) {
	return NewBinaryWithSeed(inputWidth, addrWidth, labels, encode.NewRandomPermutation().Seed(), opts...)
}

// NewBinaryWithSeed creates a BinaryWisard with an explicit permutation seed.
func NewBinaryWithSeed[L comparable](inputWidth, addrWidth int, labels []L, seed uint64, opts ...Option) (*BinaryWisard[L], error) {
	builder, err := filter.NewPackedLUTBuilder(addrWidth, 1, 0)
	if err != nil {
		return nil, err
	}

	base, err := New(inputWidth, addrWidth, labels, builder, opts...)
	if err != nil {
		return nil, err
	}

	return &BinaryWisard[L]{base: base, perm: encode.NewPermutation(seed)}, nil
}

// Seed returns the permutation seed.
func (b *BinaryWisard[L]) Seed() uint64 {
	return b.perm.Seed()
}

// Base returns the underlying model, which expects permuted samples.
func (b *BinaryWisard[L]) Base() *Wisard[L] {
	return b.base
}

// Labels returns a copy of the label set in model order.
func (b *BinaryWisard[L]) Labels() []L {
	return b.base.Labels()
}

// InputWidth returns the expected sample length in bits.
func (b *BinaryWisard[L]) InputWidth() int {
	return b.base.InputWidth()
}

// AddressWidth returns the filter address width.
func (b *BinaryWisard[L]) AddressWidth() int {
	return b.base.AddressWidth()
}

// Fit trains the model with a permuted copy of s.
func (b *BinaryWisard[L]) Fit(s *sample.Sample[L]) error {
	p, err := b.permute(s)
	if err != nil {
		return err
	}

	return b.base.Fit(p)
}

// Scores returns the label scores of a permuted copy of s.
func (b *BinaryWisard[L]) Scores(s *sample.Sample[L]) ([]Score[L], error) {
	p, err := b.permute(s)
	if err != nil {
		return nil, err
	}

	return b.base.Scores(p)
}

// Predict returns the best label for a permuted copy of s.
func (b *BinaryWisard[L]) Predict(s *sample.Sample[L]) (L, error) {
	p, err := b.permute(s)
	if err != nil {
		var zero L
		return zero, err
	}

	return b.base.Predict(p)
}

// FitAll is Wisard.FitAll on permuted copies of the samples.
func (b *BinaryWisard[L]) FitAll(ctx context.Context, samples iter.Seq[*sample.Sample[L]]) error {
	return b.base.fitAll(ctx, samples, b.permute)
}

// Evaluate is Wisard.Evaluate on permuted copies of the samples.
func (b *BinaryWisard[L]) Evaluate(ctx context.Context, samples iter.Seq[*sample.Sample[L]]) (*Report[L], error) {
	return b.base.evaluate(ctx, samples, b.permute)
}

func (b *BinaryWisard[L]) permute(s *sample.Sample[L]) (*sample.Sample[L], error) {
	c := s.Clone()
	if err := b.perm.EncodeInPlace(c); err != nil {
		return nil, err
	}

	return c, nil
}
