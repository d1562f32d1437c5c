package persist

import (
	"fmt"

	"github.com/arloliu/wisard/endian"
	"github.com/arloliu/wisard/errs"
	"github.com/arloliu/wisard/format"
)

// Flag is the leading 4 bytes of a model header.
type Flag struct {
	// Options packs the model kind bit, the endianness bit and the magic
	// number. It is always stored little-endian so the byte order of the
	// remaining fields can be read from it.
	Options uint16
	// FilterKind identifies the filter backend of every discriminator.
	FilterKind format.FilterKind
	// Compression identifies the payload codec.
	Compression format.CompressionType
}

// NewFlag returns a little-endian flag for a plain model.
func NewFlag(kind format.FilterKind, compression format.CompressionType) Flag {
	return Flag{
		Options:     MagicModelV1Opt,
		FilterKind:  kind,
		Compression: compression,
	}
}

// IsBinary reports whether the file holds a BinaryWisard.
func (f Flag) IsBinary() bool {
	return f.Options&BinaryModelMask != 0
}

// SetBinary marks the file as holding a BinaryWisard.
func (f *Flag) SetBinary(binary bool) {
	if binary {
		f.Options |= BinaryModelMask
	} else {
		f.Options &^= BinaryModelMask
	}
}

// IsBigEndian reports whether the header and payload are big-endian.
func (f Flag) IsBigEndian() bool {
	return f.Options&EndiannessMask != 0
}

// WithBigEndian selects big-endian byte order.
func (f *Flag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// WithLittleEndian selects little-endian byte order.
func (f *Flag) WithLittleEndian() {
	f.Options &^= EndiannessMask
}

// MagicNumber returns the magic bits of Options.
func (f Flag) MagicNumber() uint16 {
	return f.Options & MagicNumberMask
}

// GetEndianEngine returns the engine matching the endianness bit.
func (f Flag) GetEndianEngine() endian.EndianEngine {
	return endian.ForFlag(f.IsBigEndian())
}

// Validate checks the magic number, reserved bits and enum values.
func (f Flag) Validate() error {
	if f.MagicNumber() != MagicModelV1Opt {
		return fmt.Errorf("%w: 0x%04X", errs.ErrInvalidMagicNumber, f.MagicNumber())
	}
	if f.Options&ReservedBitsMask != 0 {
		return fmt.Errorf("%w: reserved option bits set (0x%04X)", errs.ErrInvalidMagicNumber, f.Options)
	}
	if !f.FilterKind.Valid() {
		return fmt.Errorf("%w: %d", errs.ErrInvalidFilterKind, f.FilterKind)
	}
	if !f.Compression.Valid() {
		return fmt.Errorf("%w: %d", errs.ErrInvalidCompression, f.Compression)
	}

	return nil
}
