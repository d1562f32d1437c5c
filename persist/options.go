package persist

import (
	"fmt"
	"maps"

	"github.com/arloliu/wisard/errs"
	"github.com/arloliu/wisard/format"
	"github.com/arloliu/wisard/internal/options"
	"github.com/arloliu/wisard/sample"
)

// Option configures Encode and EncodeBinary.
type Option = options.Option[*encodeConfig]

type encodeConfig struct {
	compression format.CompressionType
	bigEndian   bool
	order       sample.BitOrder
	metadata    map[string]string
}

func defaultEncodeConfig() encodeConfig {
	return encodeConfig{
		compression: format.CompressionNone,
		order:       sample.LSB0,
	}
}

// WithCompression selects the payload codec. The default is no compression.
func WithCompression(ct format.CompressionType) Option {
	return options.New(func(c *encodeConfig) error {
		if !ct.Valid() {
			return fmt.Errorf("%w: %d", errs.ErrInvalidCompression, ct)
		}
		c.compression = ct

		return nil
	})
}

// WithBigEndian stores multi-byte fields most significant byte first.
func WithBigEndian() Option {
	return options.NoError(func(c *encodeConfig) {
		c.bigEndian = true
	})
}

// WithLittleEndian stores multi-byte fields least significant byte first.
// This is the default.
func WithLittleEndian() Option {
	return options.NoError(func(c *encodeConfig) {
		c.bigEndian = false
	})
}

// WithBitOrder records the sample bit order the model was trained with.
func WithBitOrder(order sample.BitOrder) Option {
	return options.New(func(c *encodeConfig) error {
		if !order.Valid() {
			return fmt.Errorf("%w: %d", errs.ErrInvalidBitOrder, order)
		}
		c.order = order

		return nil
	})
}

// WithMetadata stores free-form key/value pairs alongside the model.
// Later calls merge into earlier ones.
func WithMetadata(md map[string]string) Option {
	return options.NoError(func(c *encodeConfig) {
		if c.metadata == nil {
			c.metadata = make(map[string]string, len(md))
		}
		maps.Copy(c.metadata, md)
	})
}
