package format

type (
	FilterKind      uint8
	CompressionType uint8
	BitOrderType    uint8
)

const (
	FilterLUT       FilterKind = 0x1 // FilterLUT represents an exact dense lookup table.
	FilterPackedLUT FilterKind = 0x2 // FilterPackedLUT represents a bit-packed lookup table.
	FilterBloom     FilterKind = 0x3 // FilterBloom represents a counting Bloom filter.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.

	OrderLSB0 BitOrderType = 0x1 // OrderLSB0 stores the least significant bit of a value first.
	OrderMSB0 BitOrderType = 0x2 // OrderMSB0 stores the most significant bit of a value first.
)

func (k FilterKind) String() string {
	switch k {
	case FilterLUT:
		return "LUT"
	case FilterPackedLUT:
		return "PackedLUT"
	case FilterBloom:
		return "Bloom"
	default:
		return "Unknown"
	}
}

// Valid reports whether k is one of the known filter kinds.
func (k FilterKind) Valid() bool {
	return k >= FilterLUT && k <= FilterBloom
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Valid reports whether c is one of the known compression types.
func (c CompressionType) Valid() bool {
	return c >= CompressionNone && c <= CompressionLZ4
}

func (o BitOrderType) String() string {
	switch o {
	case OrderLSB0:
		return "LSB0"
	case OrderMSB0:
		return "MSB0"
	default:
		return "Unknown"
	}
}

// ParseCompression maps a lower-case compression name to its type.
// It returns false for unknown names.
func ParseCompression(name string) (CompressionType, bool) {
	switch name {
	case "", "none":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}
