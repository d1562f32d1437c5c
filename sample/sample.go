package sample

import (
	"fmt"
	"iter"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/arloliu/wisard/errs"
	"github.com/arloliu/wisard/internal/bitpack"
	"github.com/arloliu/wisard/internal/options"
)

// MaxLoadWidth is the widest chunk that can be loaded as a single integer.
const MaxLoadWidth = 64

// Values is the label-free view of a sample consumed by encoders and
// discriminators. *Sample[L] implements it for every label type.
type Values interface {
	// Len returns the number of bits.
	Len() int
	// ValueWidth returns the number of bits per value.
	ValueWidth() int
	// Order returns the bit order used to interpret chunks as integers.
	Order() BitOrder
	// Bit returns bit i.
	Bit(i int) bool
	// Load interprets width bits starting at off as an unsigned integer.
	Load(off, width int) uint64
	// Swap exchanges bits i and j.
	Swap(i, j int)
	// Replace swaps in a whole new bit buffer together with its value width.
	Replace(bits *bitset.BitSet, valueWidth int) error
}

// Option configures a sample at construction time.
type Option = options.Option[*config]

type config struct {
	order BitOrder
}

// WithBitOrder selects how value chunks map to integers. The default is LSB0.
func WithBitOrder(order BitOrder) Option {
	return options.New(func(c *config) error {
		if !order.Valid() {
			return fmt.Errorf("%w: %d", errs.ErrInvalidBitOrder, order)
		}
		c.order = order

		return nil
	})
}

// Sample is a labeled, bit-packed feature vector divided into equal-size values.
//
// The bit length is always a multiple of the value width. A Sample is not safe
// for concurrent mutation.
type Sample[L comparable] struct {
	bits       *bitset.BitSet
	valueWidth int
	label      L
	order      BitOrder
}

var _ Values = (*Sample[string])(nil)

// FromRawParts creates a sample from its raw parts.
//
// The bit length is bits.Len(). A nil bits is treated as an empty buffer.
// It returns ErrInvalidValueWidth if valueWidth is not positive or does not
// divide the bit length.
func FromRawParts[L comparable](bits *bitset.BitSet, valueWidth int, label L, opts ...Option) (*Sample[L], error) {
	cfg := config{order: LSB0}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	if bits == nil {
		bits = bitset.New(0)
	}
	if err := checkWidth(int(bits.Len()), valueWidth); err != nil {
		return nil, err
	}

	return &Sample[L]{
		bits:       bits,
		valueWidth: valueWidth,
		label:      label,
		order:      cfg.order,
	}, nil
}

// MustFromRawParts is like FromRawParts but panics on error.
func MustFromRawParts[L comparable](bits *bitset.BitSet, valueWidth int, label L, opts ...Option) *Sample[L] {
	s, err := FromRawParts(bits, valueWidth, label, opts...)
	if err != nil {
		panic(err)
	}

	return s
}

// FromBools creates a sample whose bit i is bools[i].
func FromBools[L comparable](bools []bool, valueWidth int, label L, opts ...Option) (*Sample[L], error) {
	bs := bitset.New(uint(len(bools)))
	for i, b := range bools {
		if b {
			bs.Set(uint(i))
		}
	}

	return FromRawParts(bs, valueWidth, label, opts...)
}

// FromValues creates a sample by storing every value as a valueWidth-bit chunk
// using the configured bit order. Values that do not fit in valueWidth bits are
// rejected.
func FromValues[L comparable](values []uint64, valueWidth int, label L, opts ...Option) (*Sample[L], error) {
	cfg := config{order: LSB0}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}
	if valueWidth <= 0 || valueWidth > MaxLoadWidth {
		return nil, fmt.Errorf("%w: %d (must be in [1, %d])", errs.ErrInvalidValueWidth, valueWidth, MaxLoadWidth)
	}

	n := len(values) * valueWidth
	bs := bitset.New(uint(n))
	words := bs.Words()
	for i, v := range values {
		if v&^bitpack.Mask(uint(valueWidth)) != 0 {
			return nil, fmt.Errorf("%w: value %d at index %d does not fit in %d bits",
				errs.ErrInvalidValueWidth, v, i, valueWidth)
		}
		StoreUint64(words, i*valueWidth, valueWidth, cfg.order, v)
	}

	return FromRawParts(bs, valueWidth, label, WithBitOrder(cfg.order))
}

// IntoRawParts breaks the sample into its bit buffer, value width and label.
// The sample must not be used afterwards.
func (s *Sample[L]) IntoRawParts() (*bitset.BitSet, int, L) {
	bits, width, label := s.bits, s.valueWidth, s.label
	s.bits = nil

	return bits, width, label
}

// Len returns the number of bits of the sample.
func (s *Sample[L]) Len() int {
	return int(s.bits.Len())
}

// IsEmpty reports whether the sample has no bits.
func (s *Sample[L]) IsEmpty() bool {
	return s.bits.Len() == 0
}

// NumValues returns Len() / ValueWidth().
func (s *Sample[L]) NumValues() int {
	return s.Len() / s.valueWidth
}

// Bit returns bit i.
func (s *Sample[L]) Bit(i int) bool {
	return s.bits.Test(uint(i))
}

// Load interprets width bits starting at off as an unsigned integer using the
// sample bit order. Bits past the end read as zero. width must be at most 64.
func (s *Sample[L]) Load(off, width int) uint64 {
	return LoadUint64(s.bits.Words(), off, width, s.order)
}

// Swap exchanges bits i and j.
func (s *Sample[L]) Swap(i, j int) {
	bi, bj := s.bits.Test(uint(i)), s.bits.Test(uint(j))
	if bi == bj {
		return
	}
	s.bits.SetTo(uint(i), bj)
	s.bits.SetTo(uint(j), bi)
}

// IterBits returns a sequence over the individual bits.
func (s *Sample[L]) IterBits() iter.Seq[bool] {
	return func(yield func(bool) bool) {
		n := s.bits.Len()
		for i := uint(0); i < n; i++ {
			if !yield(s.bits.Test(i)) {
				return
			}
		}
	}
}

// IterValues returns a sequence over the value chunks, in order.
// Each chunk is a read-only view into the sample and must not be retained
// across mutations.
func (s *Sample[L]) IterValues() iter.Seq2[int, Chunk] {
	return func(yield func(int, Chunk) bool) {
		n := s.NumValues()
		for i := range n {
			c := Chunk{bits: s.bits, off: i * s.valueWidth, width: s.valueWidth, order: s.order}
			if !yield(i, c) {
				return
			}
		}
	}
}

// RawBits returns a copy of the bit buffer.
func (s *Sample[L]) RawBits() *bitset.BitSet {
	return s.bits.Clone()
}

// SetRawBits replaces the bit buffer, keeping the value width.
func (s *Sample[L]) SetRawBits(bits *bitset.BitSet) error {
	return s.Replace(bits, s.valueWidth)
}

// Replace replaces the bit buffer and value width in one step.
func (s *Sample[L]) Replace(bits *bitset.BitSet, valueWidth int) error {
	if bits == nil {
		bits = bitset.New(0)
	}
	if err := checkWidth(int(bits.Len()), valueWidth); err != nil {
		return err
	}
	s.bits = bits
	s.valueWidth = valueWidth

	return nil
}

// ValueWidth returns the number of bits per value.
func (s *Sample[L]) ValueWidth() int {
	return s.valueWidth
}

// SetValueWidth changes the value width. The new width must divide the bit length.
func (s *Sample[L]) SetValueWidth(valueWidth int) error {
	if err := checkWidth(s.Len(), valueWidth); err != nil {
		return err
	}
	s.valueWidth = valueWidth

	return nil
}

// Label returns the sample label.
func (s *Sample[L]) Label() L {
	return s.label
}

// SetLabel sets the sample label.
func (s *Sample[L]) SetLabel(label L) {
	s.label = label
}

// Order returns the sample bit order.
func (s *Sample[L]) Order() BitOrder {
	return s.order
}

// Clone returns a deep copy of the sample.
func (s *Sample[L]) Clone() *Sample[L] {
	return &Sample[L]{
		bits:       s.bits.Clone(),
		valueWidth: s.valueWidth,
		label:      s.label,
		order:      s.order,
	}
}

// Equal reports whether both samples have the same bits, width, order and label.
func (s *Sample[L]) Equal(other *Sample[L]) bool {
	if s == nil || other == nil {
		return s == other
	}

	return s.valueWidth == other.valueWidth &&
		s.label == other.label &&
		s.order == other.order &&
		s.bits.Equal(other.bits)
}

// String renders the bits in index order with a separator between values.
func (s *Sample[L]) String() string {
	var sb strings.Builder
	sb.Grow(s.Len() + s.NumValues() + 16)
	for i, c := range s.IterValues() {
		if i > 0 {
			sb.WriteByte('|')
		}
		for j := range c.Len() {
			if c.Bit(j) {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
	}
	fmt.Fprintf(&sb, " (%v)", s.label)

	return sb.String()
}

func checkWidth(n, valueWidth int) error {
	if valueWidth <= 0 {
		return fmt.Errorf("%w: %d (must be positive)", errs.ErrInvalidValueWidth, valueWidth)
	}
	if n%valueWidth != 0 {
		return fmt.Errorf("%w: %d bits are not divisible by value width %d", errs.ErrInvalidValueWidth, n, valueWidth)
	}

	return nil
}
