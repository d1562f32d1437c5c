package model

import (
	"fmt"

	"github.com/arloliu/wisard/errs"
	"github.com/arloliu/wisard/filter"
	"github.com/arloliu/wisard/sample"
)

// Discriminator is a bank of filters that together recognise one class.
//
// The input is cut into ceil(inputWidth/addrWidth) consecutive chunks of
// addrWidth bits; chunk i, read as an integer with the sample bit order,
// addresses filter i. The last chunk is shorter when addrWidth does not
// divide inputWidth.
type Discriminator struct {
	inputWidth int
	addrWidth  int
	filters    []filter.Filter
}

// NewDiscriminator allocates one filter per address chunk from builder.
//
// Both widths must be positive, addrWidth must not exceed inputWidth or 64,
// and the builder must produce filters of the same address width.
func NewDiscriminator(inputWidth, addrWidth int, builder filter.Builder) (*Discriminator, error) {
	if inputWidth <= 0 {
		return nil, fmt.Errorf("%w: %d (must be positive)", errs.ErrInvalidInputWidth, inputWidth)
	}
	if addrWidth <= 0 || addrWidth > inputWidth || addrWidth > sample.MaxLoadWidth {
		return nil, fmt.Errorf("%w: %d (must be in [1, min(%d, %d)])",
			errs.ErrInvalidAddressWidth, addrWidth, inputWidth, sample.MaxLoadWidth)
	}
	if builder == nil {
		return nil, errs.ErrNilBuilder
	}
	if builder.AddressWidth() != addrWidth {
		return nil, fmt.Errorf("%w: builder address width %d, discriminator address width %d",
			errs.ErrInvalidAddressWidth, builder.AddressWidth(), addrWidth)
	}

	n := (inputWidth + addrWidth - 1) / addrWidth
	filters := make([]filter.Filter, n)
	for i := range filters {
		filters[i] = builder.Build()
	}

	return &Discriminator{
		inputWidth: inputWidth,
		addrWidth:  addrWidth,
		filters:    filters,
	}, nil
}

// InputWidth returns the expected sample length in bits.
func (d *Discriminator) InputWidth() int {
	return d.inputWidth
}

// AddressWidth returns the chunk width in bits.
func (d *Discriminator) AddressWidth() int {
	return d.addrWidth
}

// NumFilters returns the number of filters, which is also the maximum score.
func (d *Discriminator) NumFilters() int {
	return len(d.filters)
}

// Filter returns filter i.
func (d *Discriminator) Filter(i int) filter.Filter {
	return d.filters[i]
}

// Fit records every chunk of v in its filter.
func (d *Discriminator) Fit(v sample.Values) error {
	if err := d.checkWidth(v); err != nil {
		return err
	}

	for i, f := range d.filters {
		f.Include(d.address(v, i))
	}

	return nil
}

// Score returns how many filters contain their chunk of v.
func (d *Discriminator) Score(v sample.Values) (int, error) {
	if err := d.checkWidth(v); err != nil {
		return 0, err
	}

	score := 0
	for i, f := range d.filters {
		if f.Contains(d.address(v, i)) {
			score++
		}
	}

	return score, nil
}

func (d *Discriminator) address(v sample.Values, i int) uint64 {
	off := i * d.addrWidth

	return v.Load(off, min(d.addrWidth, d.inputWidth-off))
}

func (d *Discriminator) checkWidth(v sample.Values) error {
	if v.Len() != d.inputWidth {
		return fmt.Errorf("%w: got %d bits, want %d", errs.ErrWidthMismatch, v.Len(), d.inputWidth)
	}

	return nil
}
