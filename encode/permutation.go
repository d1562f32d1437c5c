package encode

import (
	"fmt"
	"math/rand/v2"

	"github.com/arloliu/wisard/errs"
	"github.com/arloliu/wisard/sample"
)

// Permutation shuffles sample bits with a seeded Fisher-Yates pass.
//
// The same seed applied to samples of the same length always produces the
// same permutation, so a model can apply it consistently on every fit and
// score call. Permuting decorrelates which feature bits end up in the same
// address chunk.
type Permutation struct {
	seed uint64
}

var _ Encoder = Permutation{}

// NewPermutation returns a permutation driven by seed.
func NewPermutation(seed uint64) Permutation {
	return Permutation{seed: seed}
}

// NewRandomPermutation returns a permutation whose seed is drawn once from
// the process-wide random source.
func NewRandomPermutation() Permutation {
	return Permutation{seed: rand.Uint64()}
}

// Seed returns the permutation seed.
func (p Permutation) Seed() uint64 {
	return p.seed
}

// EncodeInPlace permutes the sample bits. The value width is unchanged.
//
// For i from the last bit down to 0 it swaps bit i with bit next() % (i+1).
func (p Permutation) EncodeInPlace(v sample.Values) error {
	n := v.Len()
	if n == 0 {
		return fmt.Errorf("permutation: %w", errs.ErrEmptySample)
	}

	rng := newXoshiro256pp(p.seed)
	for i := n - 1; i >= 0; i-- {
		j := int(rng.next() % uint64(i+1))
		v.Swap(i, j)
	}

	return nil
}

// Indices returns the source index of every output bit for an n-bit sample:
// after encoding, output bit k holds input bit Indices(n)[k].
func (p Permutation) Indices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	rng := newXoshiro256pp(p.seed)
	for i := n - 1; i >= 0; i-- {
		j := int(rng.next() % uint64(i+1))
		idx[i], idx[j] = idx[j], idx[i]
	}

	return idx
}

// Clone returns a permutation with the same seed.
func (p Permutation) Clone() Permutation {
	return p
}
