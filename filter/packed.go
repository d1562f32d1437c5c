package filter

import (
	"fmt"

	"github.com/arloliu/wisard/endian"
	"github.com/arloliu/wisard/errs"
	"github.com/arloliu/wisard/format"
	"github.com/arloliu/wisard/internal/bitpack"
)

// PackedLUT is a dense lookup table whose counters are countWidth bits wide
// and packed LSB-first into 64-bit words. A counter may straddle two words.
type PackedLUT struct {
	addrWidth  int
	countWidth int
	threshold  uint64
	maxCount   uint64
	size       uint64
	words      []uint64
}

var (
	_ CountingFilter = (*PackedLUT)(nil)
	_ Stateful       = (*PackedLUT)(nil)
)

// NewPackedLUT creates a table of 2^addrWidth counters of countWidth bits.
// countWidth must be in [1, 64].
func NewPackedLUT(addrWidth, countWidth int, threshold uint64) (*PackedLUT, error) {
	if err := checkPackedParams(addrWidth, countWidth, threshold); err != nil {
		return nil, err
	}

	return newPackedLUT(addrWidth, countWidth, threshold), nil
}

func newPackedLUT(addrWidth, countWidth int, threshold uint64) *PackedLUT {
	size := uint64(1) << addrWidth

	return &PackedLUT{
		addrWidth:  addrWidth,
		countWidth: countWidth,
		threshold:  threshold,
		maxCount:   bitpack.Mask(uint(countWidth)),
		size:       size,
		words:      make([]uint64, bitpack.WordsFor(uint(size)*uint(countWidth))),
	}
}

func checkPackedParams(addrWidth, countWidth int, threshold uint64) error {
	if err := checkAddressWidth(addrWidth); err != nil {
		return err
	}
	if countWidth < 1 || countWidth > MaxCounterWidth {
		return fmt.Errorf("%w: %d (must be in [1, %d])", errs.ErrInvalidCounterWidth, countWidth, MaxCounterWidth)
	}

	return checkThreshold(threshold, bitpack.Mask(uint(countWidth)))
}

// Include increments the counter of addr, saturating at 2^countWidth-1.
func (p *PackedLUT) Include(addr uint64) bool {
	if addr >= p.size {
		return false
	}

	off := uint(addr) * uint(p.countWidth)
	c := bitpack.Load(p.words, off, uint(p.countWidth))
	if c < p.maxCount {
		bitpack.Store(p.words, off, uint(p.countWidth), c+1)
	}

	return true
}

// Contains reports whether the counter of addr exceeds the threshold.
func (p *PackedLUT) Contains(addr uint64) bool {
	c, ok := p.Counter(addr)
	return ok && c > p.threshold
}

// Counter returns the counter of addr.
func (p *PackedLUT) Counter(addr uint64) (uint64, bool) {
	if addr >= p.size {
		return 0, false
	}

	return bitpack.Load(p.words, uint(addr)*uint(p.countWidth), uint(p.countWidth)), true
}

// Kind returns format.FilterPackedLUT.
func (p *PackedLUT) Kind() format.FilterKind {
	return format.FilterPackedLUT
}

// AppendState appends the packed words.
func (p *PackedLUT) AppendState(dst []byte, engine endian.EndianEngine) []byte {
	return appendWords(dst, p.words, engine)
}

// ReadState restores the packed words written by AppendState.
func (p *PackedLUT) ReadState(src []byte, engine endian.EndianEngine) ([]byte, error) {
	return readWords(src, p.words, p.Kind(), engine)
}

// PackedLUTBuilder builds PackedLUT filters.
type PackedLUTBuilder struct {
	addrWidth  int
	countWidth int
	threshold  uint64
}

var (
	_ Builder   = PackedLUTBuilder{}
	_ Describer = PackedLUTBuilder{}
)

// NewPackedLUTBuilder validates the parameters once so that Build cannot fail.
func NewPackedLUTBuilder(addrWidth, countWidth int, threshold uint64) (PackedLUTBuilder, error) {
	if err := checkPackedParams(addrWidth, countWidth, threshold); err != nil {
		return PackedLUTBuilder{}, err
	}

	return PackedLUTBuilder{addrWidth: addrWidth, countWidth: countWidth, threshold: threshold}, nil
}

// Build returns a new empty *PackedLUT.
func (b PackedLUTBuilder) Build() Filter {
	return newPackedLUT(b.addrWidth, b.countWidth, b.threshold)
}

// AddressWidth returns the address width of built filters.
func (b PackedLUTBuilder) AddressWidth() int {
	return b.addrWidth
}

// Params returns the builder parameters.
func (b PackedLUTBuilder) Params() (Params, error) {
	return Params{
		Kind:         format.FilterPackedLUT,
		AddressWidth: b.addrWidth,
		CounterWidth: b.countWidth,
		Threshold:    b.threshold,
	}, nil
}

func appendWords(dst []byte, words []uint64, engine endian.EndianEngine) []byte {
	for _, w := range words {
		dst = engine.AppendUint64(dst, w)
	}

	return dst
}

func readWords(src []byte, words []uint64, kind format.FilterKind, engine endian.EndianEngine) ([]byte, error) {
	need := len(words) * 8
	if len(src) < need {
		return src, truncated(kind, need, len(src))
	}
	for i := range words {
		words[i] = engine.Uint64(src[i*8:])
	}

	return src[need:], nil
}
