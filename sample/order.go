package sample

import (
	"github.com/arloliu/wisard/format"
	"github.com/arloliu/wisard/internal/bitpack"
)

// BitOrder selects how a chunk of sample bits maps to an unsigned integer.
type BitOrder uint8

const (
	// LSB0 maps bit i of a chunk to bit i of the integer.
	LSB0 BitOrder = iota
	// MSB0 maps bit i of a w-bit chunk to bit w-1-i of the integer.
	MSB0
)

// Valid reports whether o is a known bit order.
func (o BitOrder) Valid() bool {
	return o == LSB0 || o == MSB0
}

func (o BitOrder) String() string {
	return o.Format().String()
}

// Format returns the persisted identifier of the bit order.
func (o BitOrder) Format() format.BitOrderType {
	if o == MSB0 {
		return format.OrderMSB0
	}

	return format.OrderLSB0
}

// BitOrderFromFormat converts a persisted identifier back to a BitOrder.
func BitOrderFromFormat(t format.BitOrderType) (BitOrder, bool) {
	switch t {
	case format.OrderLSB0:
		return LSB0, true
	case format.OrderMSB0:
		return MSB0, true
	default:
		return 0, false
	}
}

// LoadUint64 reads width bits starting at bit offset off from words and
// interprets them as an unsigned integer in the given order.
// width must be in [0, 64].
func LoadUint64(words []uint64, off, width int, order BitOrder) uint64 {
	v := bitpack.Load(words, uint(off), uint(width))
	if order == MSB0 {
		return bitpack.Reverse(v, uint(width))
	}

	return v
}

// StoreUint64 writes the low width bits of v at bit offset off in the given
// order. It is the inverse of LoadUint64.
func StoreUint64(words []uint64, off, width int, order BitOrder, v uint64) {
	if order == MSB0 {
		v = bitpack.Reverse(v&bitpack.Mask(uint(width)), uint(width))
	}
	bitpack.Store(words, uint(off), uint(width), v)
}
