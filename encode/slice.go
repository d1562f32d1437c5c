package encode

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/arloliu/wisard/errs"
	"github.com/arloliu/wisard/sample"
)

// Slice keeps bits [start, end) of every value and drops the rest.
type Slice struct {
	start int
	end   int
}

var _ Encoder = Slice{}

// NewSlice returns a slice encoder. It requires 0 <= start < end <= 64.
func NewSlice(start, end int) (Slice, error) {
	if start < 0 || start >= end || end > sample.MaxLoadWidth {
		return Slice{}, fmt.Errorf("%w: [%d, %d) must satisfy 0 <= start < end <= %d",
			errs.ErrInvalidSlice, start, end, sample.MaxLoadWidth)
	}

	return Slice{start: start, end: end}, nil
}

// MustNewSlice is like NewSlice but panics on error.
func MustNewSlice(start, end int) Slice {
	s, err := NewSlice(start, end)
	if err != nil {
		panic(err)
	}

	return s
}

// Start returns the first kept bit.
func (s Slice) Start() int {
	return s.start
}

// End returns one past the last kept bit.
func (s Slice) End() int {
	return s.end
}

// EncodeInPlace slices every value. The value width becomes end - start.
func (s Slice) EncodeInPlace(v sample.Values) error {
	w := v.ValueWidth()
	if s.end > w {
		return fmt.Errorf("%w: slice end %d exceeds value width %d", errs.ErrInvalidSlice, s.end, w)
	}
	if v.Len() == 0 {
		return fmt.Errorf("slice: %w", errs.ErrEmptySample)
	}

	k := s.end - s.start
	count := v.Len() / w
	order := v.Order()

	out := bitset.New(uint(count * k))
	words := out.Words()
	for i := range count {
		sample.StoreUint64(words, i*k, k, order, v.Load(i*w+s.start, k))
	}

	return v.Replace(out, k)
}
