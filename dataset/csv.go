package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arloliu/wisard/errs"
	"github.com/arloliu/wisard/internal/bitpack"
	"github.com/arloliu/wisard/internal/options"
	"github.com/arloliu/wisard/sample"
)

// CSVOption configures LoadCSV.
type CSVOption = options.Option[*csvConfig]

type csvConfig struct {
	valueWidth  int
	labelColumn int
	hasHeader   bool
	order       sample.BitOrder
}

// WithValueWidth sets the number of bits each feature is quantized to.
// The default is 8.
func WithValueWidth(width int) CSVOption {
	return options.New(func(c *csvConfig) error {
		if width < 1 || width > sample.MaxLoadWidth {
			return fmt.Errorf("%w: %d (must be in [1, %d])", errs.ErrInvalidValueWidth, width, sample.MaxLoadWidth)
		}
		c.valueWidth = width

		return nil
	})
}

// WithLabelColumn selects the column holding the label. Negative values
// count from the end; the default -1 is the last column.
func WithLabelColumn(col int) CSVOption {
	return options.NoError(func(c *csvConfig) {
		c.labelColumn = col
	})
}

// WithHeader makes LoadCSV skip the first record.
func WithHeader(hasHeader bool) CSVOption {
	return options.NoError(func(c *csvConfig) {
		c.hasHeader = hasHeader
	})
}

// WithBitOrder sets the bit order of the loaded samples.
func WithBitOrder(order sample.BitOrder) CSVOption {
	return options.New(func(c *csvConfig) error {
		if !order.Valid() {
			return fmt.Errorf("%w: %d", errs.ErrInvalidBitOrder, order)
		}
		c.order = order

		return nil
	})
}

// LoadCSV reads one sample per record. Every column except the label column
// is a non-negative integer feature stored as a valueWidth-bit value;
// features larger than 2^valueWidth-1 saturate. All records must have the
// same number of columns.
func LoadCSV(r io.Reader, opts ...CSVOption) (*Dataset[string], error) {
	cfg := csvConfig{valueWidth: 8, labelColumn: -1}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	ds := New[string]()
	maxValue := bitpack.Mask(uint(cfg.valueWidth))
	columns := -1
	var values []uint64

	for row := 0; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if errors.Is(err, csv.ErrFieldCount) {
				return nil, fmt.Errorf("%w: %v", errs.ErrDatasetInconsistentRows, err)
			}

			return nil, fmt.Errorf("read csv: %w", err)
		}
		if row == 0 && cfg.hasHeader {
			continue
		}

		if columns < 0 {
			columns = len(rec)
		}
		labelCol := cfg.labelColumn
		if labelCol < 0 {
			labelCol += columns
		}
		if labelCol < 0 || labelCol >= columns {
			return nil, fmt.Errorf("%w: column %d of %d", errs.ErrDatasetLabelColumn, cfg.labelColumn, columns)
		}

		values = values[:0]
		for col, field := range rec {
			if col == labelCol {
				continue
			}
			v, err := strconv.ParseUint(strings.TrimSpace(field), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", row+1, col+1, err)
			}
			values = append(values, min(v, maxValue))
		}

		s, err := sample.FromValues(values, cfg.valueWidth, strings.Clone(rec[labelCol]), sample.WithBitOrder(cfg.order))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row+1, err)
		}
		ds.Push(s)
	}

	return ds, nil
}
