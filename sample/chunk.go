package sample

import "github.com/bits-and-blooms/bitset"

// Chunk is a read-only view of one value of a sample.
type Chunk struct {
	bits  *bitset.BitSet
	off   int
	width int
	order BitOrder
}

// Len returns the chunk width in bits.
func (c Chunk) Len() int {
	return c.width
}

// Offset returns the position of the first chunk bit within the sample.
func (c Chunk) Offset() int {
	return c.off
}

// Bit returns bit i of the chunk.
func (c Chunk) Bit(i int) bool {
	return c.bits.Test(uint(c.off + i))
}

// Uint64 interprets the chunk as an unsigned integer using the sample bit
// order. It panics if the chunk is wider than MaxLoadWidth bits.
func (c Chunk) Uint64() uint64 {
	if c.width > MaxLoadWidth {
		panic("sample: chunk wider than 64 bits cannot be loaded as an integer")
	}

	return LoadUint64(c.bits.Words(), c.off, c.width, c.order)
}

// Bools returns the chunk bits in order.
func (c Chunk) Bools() []bool {
	out := make([]bool, c.width)
	for i := range out {
		out[i] = c.Bit(i)
	}

	return out
}
