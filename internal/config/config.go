// Package config loads the wisard command configuration.
package config

import (
	"fmt"

	"github.com/arloliu/wisard/format"
	"github.com/arloliu/wisard/internal/logging"
)

// Model kinds.
const (
	KindBinary = "binary"
	KindLUT    = "lut"
	KindPacked = "packed"
	KindBloom  = "bloom"
)

// Thermometer kinds.
const (
	ThermometerNone   = "none"
	ThermometerLog    = "log"
	ThermometerLinear = "linear"
)

// Config is the full command configuration.
type Config struct {
	Model    ModelConfig    `koanf:"model"`
	Dataset  DatasetConfig  `koanf:"dataset"`
	Encoding EncodingConfig `koanf:"encoding"`
	Output   OutputConfig   `koanf:"output"`
	Log      LogConfig      `koanf:"log"`
}

// ModelConfig selects the classifier and its filter backend.
type ModelConfig struct {
	Kind string `koanf:"kind"`
	// InputWidth of 0 infers the width from the encoded training set.
	InputWidth        int     `koanf:"input_width"`
	AddressWidth      int     `koanf:"address_width"`
	CounterWidth      int     `koanf:"counter_width"`
	Threshold         uint64  `koanf:"threshold"`
	FalsePositiveRate float64 `koanf:"false_positive_rate"`
	// Seed of 0 draws a random seed.
	Seed        uint64 `koanf:"seed"`
	Parallelism int    `koanf:"parallelism"`
}

// DatasetConfig controls CSV parsing.
type DatasetConfig struct {
	ValueWidth int `koanf:"value_width"`
	// LabelColumn counts from the end when negative.
	LabelColumn int  `koanf:"label_column"`
	HasHeader   bool `koanf:"has_header"`
}

// EncodingConfig describes the encoder chain applied before the model.
type EncodingConfig struct {
	Thermometer string `koanf:"thermometer"`
	Resolution  int    `koanf:"resolution"`
	SliceStart  int    `koanf:"slice_start"`
	// SliceEnd of 0 disables slicing.
	SliceEnd int `koanf:"slice_end"`
}

// OutputConfig controls how models are written.
type OutputConfig struct {
	Compression string `koanf:"compression"`
}

// LogConfig controls the command logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Model: ModelConfig{
			Kind:              KindBinary,
			AddressWidth:      8,
			CounterWidth:      8,
			FalsePositiveRate: 0.01,
			Parallelism:       1,
		},
		Dataset: DatasetConfig{
			ValueWidth:  8,
			LabelColumn: -1,
			HasHeader:   true,
		},
		Encoding: EncodingConfig{
			Thermometer: ThermometerNone,
			Resolution:  8,
		},
		Output: OutputConfig{
			Compression: "zstd",
		},
		Log: LogConfig{
			Level:  "info",
			Format: logging.FormatConsole,
		},
	}
}

// Validate checks enum values and simple ranges. Width and counter limits of
// the individual backends are enforced by their constructors.
func (c *Config) Validate() error {
	switch c.Model.Kind {
	case KindBinary, KindLUT, KindPacked, KindBloom:
	default:
		return fmt.Errorf("model.kind must be one of binary, lut, packed, bloom, got %q", c.Model.Kind)
	}
	if c.Model.InputWidth < 0 {
		return fmt.Errorf("model.input_width must not be negative, got %d", c.Model.InputWidth)
	}
	if c.Model.AddressWidth <= 0 || c.Model.AddressWidth > 64 {
		return fmt.Errorf("model.address_width must be in [1, 64], got %d", c.Model.AddressWidth)
	}
	if c.Model.Kind != KindBinary && c.Model.CounterWidth <= 0 {
		return fmt.Errorf("model.counter_width must be positive, got %d", c.Model.CounterWidth)
	}
	if c.Model.Kind == KindBloom && (c.Model.FalsePositiveRate <= 0 || c.Model.FalsePositiveRate >= 1) {
		return fmt.Errorf("model.false_positive_rate must be in (0, 1), got %g", c.Model.FalsePositiveRate)
	}
	if c.Model.Parallelism < 1 {
		return fmt.Errorf("model.parallelism must be positive, got %d", c.Model.Parallelism)
	}

	if c.Dataset.ValueWidth <= 0 || c.Dataset.ValueWidth > 64 {
		return fmt.Errorf("dataset.value_width must be in [1, 64], got %d", c.Dataset.ValueWidth)
	}

	switch c.Encoding.Thermometer {
	case ThermometerNone, "":
	case ThermometerLog, ThermometerLinear:
		if c.Encoding.Resolution <= 0 || c.Encoding.Resolution > 64 {
			return fmt.Errorf("encoding.resolution must be in [1, 64], got %d", c.Encoding.Resolution)
		}
	default:
		return fmt.Errorf("encoding.thermometer must be one of none, log, linear, got %q", c.Encoding.Thermometer)
	}
	if c.Encoding.SliceEnd != 0 && (c.Encoding.SliceStart < 0 || c.Encoding.SliceStart >= c.Encoding.SliceEnd) {
		return fmt.Errorf("encoding slice [%d, %d) is empty or negative", c.Encoding.SliceStart, c.Encoding.SliceEnd)
	}

	if _, ok := format.ParseCompression(c.Output.Compression); !ok {
		return fmt.Errorf("output.compression must be one of none, zstd, s2, lz4, got %q", c.Output.Compression)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if !logging.ValidFormat(c.Log.Format) {
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}

	return nil
}

// Compression returns the configured payload codec.
func (c *Config) Compression() format.CompressionType {
	ct, _ := format.ParseCompression(c.Output.Compression)
	return ct
}
