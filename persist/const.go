package persist

const (
	// Bit masks of Flag.Options
	BinaryModelMask  = 0x0001 // bit 0: BinaryWisard with a permutation seed
	EndiannessMask   = 0x0002 // bit 1: 0=little-endian, 1=big-endian
	ReservedBitsMask = 0x000C // bits 2-3: must be zero
	MagicNumberMask  = 0xFFF0 // bits 4-15: format magic

	// MagicModelV1Opt identifies a wisard model file.
	MagicModelV1Opt = 0xA510

	// Version is the current payload layout version.
	Version = 1

	// HeaderSize is the fixed header length in bytes.
	HeaderSize = 32
)

// byte offsets of the header fields
const (
	offOptions      = 0
	offFilterKind   = 2
	offCompression  = 3
	offVersion      = 4
	offBitOrder     = 6
	offInputWidth   = 8
	offAddressWidth = 12
	offLabelCount   = 16
	offPayloadSize  = 20
	offChecksum     = 24
)

// sanity bounds applied while decoding untrusted payloads
const (
	maxMetadataEntries = 1 << 16
	maxStringLen       = 1 << 20
)
