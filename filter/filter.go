package filter

import (
	"fmt"

	"github.com/arloliu/wisard/endian"
	"github.com/arloliu/wisard/errs"
	"github.com/arloliu/wisard/format"
)

// MaxAddressWidth is the widest address a dense table accepts.
const MaxAddressWidth = 32

// MaxCounterWidth is the widest counter any filter keeps.
const MaxCounterWidth = 64

// Filter is a membership memory addressed by a fixed-width integer.
type Filter interface {
	// Include records one occurrence of addr. It returns false if addr is
	// outside the filter address space, in which case nothing is recorded.
	Include(addr uint64) bool
	// Contains reports whether addr was included more than threshold times.
	// Out of range addresses are never contained.
	Contains(addr uint64) bool
}

// CountingFilter is a Filter that exposes its occurrence counters.
type CountingFilter interface {
	Filter
	// Counter returns the number of recorded occurrences of addr, clamped
	// at the counter capacity. ok is false if addr is out of range.
	Counter(addr uint64) (count uint64, ok bool)
}

// Builder creates fresh, independent filters with fixed parameters.
type Builder interface {
	Build() Filter
	AddressWidth() int
}

// Stateful is implemented by filters whose counters can be written to and
// restored from a byte stream.
type Stateful interface {
	Kind() format.FilterKind
	// AppendState appends the raw counter state to dst.
	AppendState(dst []byte, engine endian.EndianEngine) []byte
	// ReadState restores the counter state from the front of src and
	// returns the unread remainder.
	ReadState(src []byte, engine endian.EndianEngine) ([]byte, error)
}

// Describer is implemented by builders whose construction parameters can be
// persisted and handed back to FromParams.
type Describer interface {
	Params() (Params, error)
}

// Params holds every construction scalar of a filter builder.
type Params struct {
	Kind         format.FilterKind
	AddressWidth int
	CounterWidth int
	Threshold    uint64
	// Rate and the hasher seeds are only used by Bloom filters.
	Rate  float64
	Seed1 uint64
	Seed2 uint64
}

// FromParams rebuilds the builder described by p.
// Bloom builders are rebuilt with XXHasher seeded by Seed1 and Seed2.
func FromParams(p Params) (Builder, error) {
	switch p.Kind {
	case format.FilterLUT:
		return NewLUTBuilder(p.AddressWidth, p.CounterWidth, p.Threshold)
	case format.FilterPackedLUT:
		return NewPackedLUTBuilder(p.AddressWidth, p.CounterWidth, p.Threshold)
	case format.FilterBloom:
		return NewBloomBuilder(p.AddressWidth, p.CounterWidth, p.Threshold, p.Rate,
			NewXXHasher(p.Seed1), NewXXHasher(p.Seed2))
	default:
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidFilterKind, p.Kind)
	}
}

func checkAddressWidth(addrWidth int) error {
	if addrWidth < 0 || addrWidth > MaxAddressWidth {
		return fmt.Errorf("%w: %d (must be in [0, %d])", errs.ErrInvalidAddressWidth, addrWidth, MaxAddressWidth)
	}

	return nil
}

func checkThreshold(threshold, maxCount uint64) error {
	if threshold > maxCount {
		return fmt.Errorf("%w: threshold %d, counter max %d", errs.ErrInvalidThreshold, threshold, maxCount)
	}

	return nil
}

func truncated(kind format.FilterKind, need, have int) error {
	return fmt.Errorf("%w: %s state needs %d bytes, got %d", errs.ErrTruncatedPayload, kind, need, have)
}
