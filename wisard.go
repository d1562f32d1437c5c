// Package wisard implements WiSARD weightless neural network classifiers.
//
// A WiSARD model keeps one discriminator per label. Each discriminator splits
// a binary input into fixed-width addresses and records them in a bank of
// small filters (RAM nodes). A sample's score for a label is the number of
// filters that recognize their address; the label with the highest score wins.
//
// # Core Features
//
//   - Bit-packed samples with configurable value width and bit order
//   - Thermometer, slice and permutation encoders that compose into chains
//   - Three filter backends: exact LUT, bit-packed LUT and counting Bloom filter
//   - Concurrent batch training and evaluation
//   - Checksummed model files with optional compression (None, Zstd, S2, LZ4)
//
// # Basic Usage
//
// Training and predicting with a binary model:
//
//	import "github.com/arloliu/wisard"
//
//	m, _ := wisard.NewBinary(16, 4, []string{"cold", "hot"}, 7)
//	for _, s := range training {
//	    _ = m.Fit(s)
//	}
//	label, _ := m.Predict(query)
//
// Saving and restoring it:
//
//	data, _ := wisard.SaveBinary(m)
//	restored, _ := wisard.LoadBinary(data)
//
// # Package Structure
//
// This package provides convenient top-level wrappers for the most common use
// cases with string labels. For advanced usage, use the sample, encode, filter,
// model and persist packages directly.
package wisard

import (
	"github.com/arloliu/wisard/filter"
	"github.com/arloliu/wisard/model"
	"github.com/arloliu/wisard/persist"
)

// NewBinary creates a BinaryWisard, the classic WiSARD configuration.
//
// Every filter is a 1-bit packed LUT and samples are permuted with a fixed
// pseudo-random permutation before addressing.
//
// Parameters:
//   - inputWidth: Sample length in bits
//   - addrWidth: Address width of every filter
//   - labels: The label set; duplicates are ignored
//   - seed: Permutation seed; 0 draws a random one
//   - opts: Model options (see model.Option)
//
// Returns:
//   - *model.BinaryWisard[L]: The created model
//   - error: An error if a width is invalid or labels is empty
func NewBinary[L comparable](inputWidth, addrWidth int, labels []L, seed uint64, opts ...model.Option) (*model.BinaryWisard[L], error) {
	if seed == 0 {
		return model.NewBinary(inputWidth, addrWidth, labels, opts...)
	}

	return model.NewBinaryWithSeed(inputWidth, addrWidth, labels, seed, opts...)
}

// NewLUT creates a model backed by exact lookup tables with counterWidth-bit
// counters (8, 16, 32 or 64).
//
// An address is recognized once its counter exceeds threshold.
//
// Example:
//
//	m, err := wisard.NewLUT(784, 16, 8, 1, digits)
func NewLUT[L comparable](inputWidth, addrWidth, counterWidth int, threshold uint64, labels []L, opts ...model.Option) (*model.Wisard[L], error) {
	b, err := filter.NewLUTBuilder(addrWidth, counterWidth, threshold)
	if err != nil {
		return nil, err
	}

	return model.New(inputWidth, addrWidth, labels, b, opts...)
}

// NewPackedLUT creates a model backed by bit-packed lookup tables with
// counters of any width from 1 to 64 bits.
func NewPackedLUT[L comparable](inputWidth, addrWidth, counterWidth int, threshold uint64, labels []L, opts ...model.Option) (*model.Wisard[L], error) {
	b, err := filter.NewPackedLUTBuilder(addrWidth, counterWidth, threshold)
	if err != nil {
		return nil, err
	}

	return model.New(inputWidth, addrWidth, labels, b, opts...)
}

// NewBloom creates a model backed by counting Bloom filters.
//
// The filters are sized for all 2^addrWidth addresses at the false positive
// rate and hash with seeded xxHash, so the model can be saved.
//
// Parameters:
//   - inputWidth: Sample length in bits
//   - addrWidth: Address width of every filter
//   - counterWidth: Bits per Bloom counter
//   - threshold: Minimum counter value for recognition, exclusive
//   - rate: Target false positive rate in (0, 1)
//   - seed: Hasher seed
//   - labels: The label set
//   - opts: Model options
//
// Returns:
//   - *model.Wisard[L]: The created model
//   - error: An error if any parameter is invalid
func NewBloom[L comparable](inputWidth, addrWidth, counterWidth int, threshold uint64, rate float64, seed uint64, labels []L, opts ...model.Option) (*model.Wisard[L], error) {
	h1, h2 := filter.NewXXHasherPair(seed)
	b, err := filter.NewBloomBuilder(addrWidth, counterWidth, threshold, rate, h1, h2)
	if err != nil {
		return nil, err
	}

	return model.New(inputWidth, addrWidth, labels, b, opts...)
}

// Save encodes a model with string labels. See persist.Encode.
func Save(m *model.Wisard[string], opts ...persist.Option) ([]byte, error) {
	return persist.Encode(m, persist.StringLabels{}, opts...)
}

// Load decodes a model written by Save.
func Load(data []byte, opts ...model.Option) (*model.Wisard[string], error) {
	m, _, err := persist.Decode(data, persist.StringLabels{}, opts...)
	return m, err
}

// SaveBinary encodes a BinaryWisard with string labels.
func SaveBinary(m *model.BinaryWisard[string], opts ...persist.Option) ([]byte, error) {
	return persist.EncodeBinary(m, persist.StringLabels{}, opts...)
}

// LoadBinary decodes a model written by SaveBinary.
func LoadBinary(data []byte, opts ...model.Option) (*model.BinaryWisard[string], error) {
	m, _, err := persist.DecodeBinary(data, persist.StringLabels{}, opts...)
	return m, err
}
