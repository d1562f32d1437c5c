package dataset

import (
	"fmt"
	"iter"
	"slices"

	"github.com/arloliu/wisard/encode"
	"github.com/arloliu/wisard/sample"
)

// Dataset is an ordered collection of labeled samples.
type Dataset[L comparable] struct {
	samples []*sample.Sample[L]
}

// New returns an empty dataset.
func New[L comparable]() *Dataset[L] {
	return &Dataset[L]{}
}

// FromSamples returns a dataset holding samples. The slice is not copied.
func FromSamples[L comparable](samples []*sample.Sample[L]) *Dataset[L] {
	return &Dataset[L]{samples: samples}
}

// Push appends s.
func (d *Dataset[L]) Push(s *sample.Sample[L]) {
	d.samples = append(d.samples, s)
}

// Len returns the number of samples.
func (d *Dataset[L]) Len() int {
	return len(d.samples)
}

// IsEmpty reports whether the dataset has no samples.
func (d *Dataset[L]) IsEmpty() bool {
	return len(d.samples) == 0
}

// At returns sample i.
func (d *Dataset[L]) At(i int) *sample.Sample[L] {
	return d.samples[i]
}

// All returns a sequence over the samples in order.
func (d *Dataset[L]) All() iter.Seq[*sample.Sample[L]] {
	return slices.Values(d.samples)
}

// Labels returns the distinct labels in first-seen order.
func (d *Dataset[L]) Labels() []L {
	seen := make(map[L]struct{})
	var out []L
	for _, s := range d.samples {
		l := s.Label()
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}

	return out
}

// InputWidth returns the bit length of the first sample, or 0 for an empty
// dataset.
func (d *Dataset[L]) InputWidth() int {
	if len(d.samples) == 0 {
		return 0
	}

	return d.samples[0].Len()
}

// Encode applies enc to every sample in place. It stops at the first error,
// leaving earlier samples encoded.
func (d *Dataset[L]) Encode(enc encode.Encoder) error {
	for i, s := range d.samples {
		if err := enc.EncodeInPlace(s); err != nil {
			return fmt.Errorf("encode sample %d: %w", i, err)
		}
	}

	return nil
}
