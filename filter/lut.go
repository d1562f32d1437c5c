package filter

import (
	"fmt"

	"github.com/arloliu/wisard/endian"
	"github.com/arloliu/wisard/errs"
	"github.com/arloliu/wisard/format"
	"github.com/arloliu/wisard/internal/bitpack"
)

// LUT is an exact dense lookup table with one counter per address.
//
// Counters are held in uint64 cells but saturate at 2^counterWidth-1, so the
// behaviour matches a table of counterWidth-bit integers.
type LUT struct {
	addrWidth    int
	counterWidth int
	threshold    uint64
	maxCount     uint64
	counters     []uint64
}

var (
	_ CountingFilter = (*LUT)(nil)
	_ Stateful       = (*LUT)(nil)
)

// NewLUT creates a table of 2^addrWidth counters of counterWidth bits.
// counterWidth must be 8, 16, 32 or 64.
func NewLUT(addrWidth, counterWidth int, threshold uint64) (*LUT, error) {
	if err := checkLUTParams(addrWidth, counterWidth, threshold); err != nil {
		return nil, err
	}

	return newLUT(addrWidth, counterWidth, threshold), nil
}

func newLUT(addrWidth, counterWidth int, threshold uint64) *LUT {
	return &LUT{
		addrWidth:    addrWidth,
		counterWidth: counterWidth,
		threshold:    threshold,
		maxCount:     bitpack.Mask(uint(counterWidth)),
		counters:     make([]uint64, 1<<addrWidth),
	}
}

func checkLUTParams(addrWidth, counterWidth int, threshold uint64) error {
	if err := checkAddressWidth(addrWidth); err != nil {
		return err
	}
	switch counterWidth {
	case 8, 16, 32, 64:
	default:
		return fmt.Errorf("%w: %d (must be 8, 16, 32 or 64)", errs.ErrInvalidCounterWidth, counterWidth)
	}

	return checkThreshold(threshold, bitpack.Mask(uint(counterWidth)))
}

// Include increments the counter of addr, saturating at the counter max.
func (l *LUT) Include(addr uint64) bool {
	if addr >= uint64(len(l.counters)) {
		return false
	}
	if l.counters[addr] < l.maxCount {
		l.counters[addr]++
	}

	return true
}

// Contains reports whether the counter of addr exceeds the threshold.
func (l *LUT) Contains(addr uint64) bool {
	c, ok := l.Counter(addr)
	return ok && c > l.threshold
}

// Counter returns the counter of addr.
func (l *LUT) Counter(addr uint64) (uint64, bool) {
	if addr >= uint64(len(l.counters)) {
		return 0, false
	}

	return l.counters[addr], true
}

// Kind returns format.FilterLUT.
func (l *LUT) Kind() format.FilterKind {
	return format.FilterLUT
}

// AppendState appends every counter using counterWidth/8 bytes each.
func (l *LUT) AppendState(dst []byte, engine endian.EndianEngine) []byte {
	for _, c := range l.counters {
		switch l.counterWidth {
		case 8:
			dst = append(dst, byte(c))
		case 16:
			dst = engine.AppendUint16(dst, uint16(c))
		case 32:
			dst = engine.AppendUint32(dst, uint32(c))
		default:
			dst = engine.AppendUint64(dst, c)
		}
	}

	return dst
}

// ReadState restores the counters written by AppendState.
func (l *LUT) ReadState(src []byte, engine endian.EndianEngine) ([]byte, error) {
	size := l.counterWidth / 8
	need := len(l.counters) * size
	if len(src) < need {
		return src, truncated(l.Kind(), need, len(src))
	}

	for i := range l.counters {
		b := src[i*size:]
		switch size {
		case 1:
			l.counters[i] = uint64(b[0])
		case 2:
			l.counters[i] = uint64(engine.Uint16(b))
		case 4:
			l.counters[i] = uint64(engine.Uint32(b))
		default:
			l.counters[i] = engine.Uint64(b)
		}
	}

	return src[need:], nil
}

// LUTBuilder builds LUT filters.
type LUTBuilder struct {
	addrWidth    int
	counterWidth int
	threshold    uint64
}

var (
	_ Builder   = LUTBuilder{}
	_ Describer = LUTBuilder{}
)

// NewLUTBuilder validates the parameters once so that Build cannot fail.
func NewLUTBuilder(addrWidth, counterWidth int, threshold uint64) (LUTBuilder, error) {
	if err := checkLUTParams(addrWidth, counterWidth, threshold); err != nil {
		return LUTBuilder{}, err
	}

	return LUTBuilder{addrWidth: addrWidth, counterWidth: counterWidth, threshold: threshold}, nil
}

// Build returns a new empty *LUT.
func (b LUTBuilder) Build() Filter {
	return newLUT(b.addrWidth, b.counterWidth, b.threshold)
}

// AddressWidth returns the address width of built filters.
func (b LUTBuilder) AddressWidth() int {
	return b.addrWidth
}

// Params returns the builder parameters.
func (b LUTBuilder) Params() (Params, error) {
	return Params{
		Kind:         format.FilterLUT,
		AddressWidth: b.addrWidth,
		CounterWidth: b.counterWidth,
		Threshold:    b.threshold,
	}, nil
}
