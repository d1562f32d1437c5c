// Package bitpack reads and writes fixed-width unsigned fields packed
// LSB-first into uint64 words. Fields may straddle a word boundary.
package bitpack

import "math/bits"

// Mask returns a mask with the low width bits set. width must be in [0, 64].
func Mask(width uint) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}

	return (uint64(1) << width) - 1
}

// WordsFor returns the number of words needed to hold n bits.
func WordsFor(n uint) int {
	return int((n + 63) >> 6)
}

// Load returns the width-bit field starting at bit offset off.
// Bits beyond the end of words read as zero. width must be in [0, 64].
func Load(words []uint64, off, width uint) uint64 {
	if width == 0 {
		return 0
	}

	idx := int(off >> 6)
	shift := off & 63
	if idx >= len(words) {
		return 0
	}

	v := words[idx] >> shift
	if shift+width > 64 && idx+1 < len(words) {
		v |= words[idx+1] << (64 - shift)
	}

	return v & Mask(width)
}

// Store writes the low width bits of v at bit offset off without touching
// neighbouring bits. The caller must size words to cover [off, off+width).
func Store(words []uint64, off, width uint, v uint64) {
	if width == 0 {
		return
	}

	mask := Mask(width)
	v &= mask

	idx := int(off >> 6)
	shift := off & 63

	words[idx] = (words[idx] &^ (mask << shift)) | (v << shift)
	if shift+width > 64 {
		spill := shift + width - 64
		hiMask := Mask(spill)
		words[idx+1] = (words[idx+1] &^ hiMask) | (v >> (64 - shift))
	}
}

// Reverse reverses the order of the low width bits of v.
func Reverse(v uint64, width uint) uint64 {
	if width == 0 {
		return 0
	}

	return bits.Reverse64(v) >> (64 - width)
}
