package persist

import (
	"fmt"

	"github.com/arloliu/wisard/errs"
	"github.com/arloliu/wisard/format"
	"github.com/arloliu/wisard/sample"
)

// Header is the fixed 32-byte section at the start of a model file.
type Header struct {
	Flag Flag // byte offset 0-3

	// Version is the payload layout version.
	Version uint16 // byte offset 4-5
	// BitOrder is the order the model reads address chunks with.
	BitOrder format.BitOrderType // byte offset 6, offset 7 reserved
	// InputWidth is the sample length in bits.
	InputWidth uint32 // byte offset 8-11
	// AddressWidth is the filter address width in bits.
	AddressWidth uint32 // byte offset 12-15
	// LabelCount is the number of discriminators.
	LabelCount uint32 // byte offset 16-19
	// PayloadSize is the stored (possibly compressed) payload length.
	PayloadSize uint32 // byte offset 20-23
	// Checksum is the xxHash64 of header bytes 0-23 followed by the stored payload.
	Checksum uint64 // byte offset 24-31
}

// Parse reads the header from exactly HeaderSize bytes.
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return fmt.Errorf("%w: got %d bytes, want %d", errs.ErrInvalidHeaderSize, len(data), HeaderSize)
	}

	h.Flag.Options = uint16(data[offOptions]) | uint16(data[offOptions+1])<<8
	h.Flag.FilterKind = format.FilterKind(data[offFilterKind])
	h.Flag.Compression = format.CompressionType(data[offCompression])
	if err := h.Flag.Validate(); err != nil {
		return err
	}

	engine := h.Flag.GetEndianEngine()
	h.Version = engine.Uint16(data[offVersion:])
	h.BitOrder = format.BitOrderType(data[offBitOrder])
	h.InputWidth = engine.Uint32(data[offInputWidth:])
	h.AddressWidth = engine.Uint32(data[offAddressWidth:])
	h.LabelCount = engine.Uint32(data[offLabelCount:])
	h.PayloadSize = engine.Uint32(data[offPayloadSize:])
	h.Checksum = engine.Uint64(data[offChecksum:])

	if h.Version != Version {
		return fmt.Errorf("%w: %d", errs.ErrUnsupportedVersion, h.Version)
	}
	if _, ok := sample.BitOrderFromFormat(h.BitOrder); !ok {
		return fmt.Errorf("%w: %d", errs.ErrInvalidBitOrder, h.BitOrder)
	}

	return nil
}

// Bytes serializes the header.
func (h *Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	engine := h.Flag.GetEndianEngine()

	b[offOptions] = byte(h.Flag.Options)
	b[offOptions+1] = byte(h.Flag.Options >> 8)
	b[offFilterKind] = byte(h.Flag.FilterKind)
	b[offCompression] = byte(h.Flag.Compression)
	engine.PutUint16(b[offVersion:], h.Version)
	b[offBitOrder] = byte(h.BitOrder)
	engine.PutUint32(b[offInputWidth:], h.InputWidth)
	engine.PutUint32(b[offAddressWidth:], h.AddressWidth)
	engine.PutUint32(b[offLabelCount:], h.LabelCount)
	engine.PutUint32(b[offPayloadSize:], h.PayloadSize)
	engine.PutUint64(b[offChecksum:], h.Checksum)

	return b
}

// SampleOrder returns the header bit order as a sample.BitOrder.
func (h *Header) SampleOrder() sample.BitOrder {
	order, _ := sample.BitOrderFromFormat(h.BitOrder)
	return order
}

// ParseHeader parses the header at the start of data.
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: got %d bytes, want at least %d", errs.ErrInvalidHeaderSize, len(data), HeaderSize)
	}

	h := &Header{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return nil, err
	}

	return h, nil
}
