package encode

import (
	"fmt"
	"math/bits"

	"github.com/bits-and-blooms/bitset"

	"github.com/arloliu/wisard/errs"
	"github.com/arloliu/wisard/internal/bitpack"
	"github.com/arloliu/wisard/sample"
)

// MaxResolution is the widest thermometer output.
const MaxResolution = 64

// LogThermometer replaces every value with a unary code of its bit length:
// value v becomes level = bits.Len64(v) set bits, scaled from the source
// width to the resolution.
//
// Both the resolution and the source value width must be powers of two no
// larger than 64 so that the scale factor is exact.
type LogThermometer struct {
	resolution int
}

var _ Encoder = LogThermometer{}

// NewLogThermometer returns a log thermometer producing resolution-bit values.
func NewLogThermometer(resolution int) (LogThermometer, error) {
	if !isPow2(resolution) || resolution > MaxResolution {
		return LogThermometer{}, fmt.Errorf("%w: log thermometer resolution %d must be a power of two in [1, %d]",
			errs.ErrInvalidResolution, resolution, MaxResolution)
	}

	return LogThermometer{resolution: resolution}, nil
}

// MustNewLogThermometer is like NewLogThermometer but panics on error.
func MustNewLogThermometer(resolution int) LogThermometer {
	t, err := NewLogThermometer(resolution)
	if err != nil {
		panic(err)
	}

	return t
}

// Resolution returns the output value width.
func (t LogThermometer) Resolution() int {
	return t.resolution
}

// EncodeInPlace encodes every value and sets the value width to the resolution.
func (t LogThermometer) EncodeInPlace(v sample.Values) error {
	w := v.ValueWidth()
	if !isPow2(w) || w > sample.MaxLoadWidth {
		return fmt.Errorf("%w: log thermometer input width %d must be a power of two in [1, %d]",
			errs.ErrInvalidValueWidth, w, sample.MaxLoadWidth)
	}
	if v.Len() == 0 {
		return fmt.Errorf("log thermometer: %w", errs.ErrEmptySample)
	}

	res := t.resolution

	return rewrite(v, res, func(x uint64) int {
		level := bits.Len64(x)
		if w < res {
			level *= res / w
		} else {
			level /= w / res
		}

		return level
	})
}

// LinearThermometer replaces every value with a unary code proportional to
// its magnitude: a w-bit value v becomes round((res+1) * v / 2^w) set bits.
type LinearThermometer struct {
	resolution int
}

var _ Encoder = LinearThermometer{}

// NewLinearThermometer returns a linear thermometer producing
// resolution-bit values. resolution must be in [1, 64].
func NewLinearThermometer(resolution int) (LinearThermometer, error) {
	if resolution < 1 || resolution > MaxResolution {
		return LinearThermometer{}, fmt.Errorf("%w: linear thermometer resolution %d must be in [1, %d]",
			errs.ErrInvalidResolution, resolution, MaxResolution)
	}

	return LinearThermometer{resolution: resolution}, nil
}

// MustNewLinearThermometer is like NewLinearThermometer but panics on error.
func MustNewLinearThermometer(resolution int) LinearThermometer {
	t, err := NewLinearThermometer(resolution)
	if err != nil {
		panic(err)
	}

	return t
}

// Resolution returns the output value width.
func (t LinearThermometer) Resolution() int {
	return t.resolution
}

// EncodeInPlace encodes every value and sets the value width to the resolution.
func (t LinearThermometer) EncodeInPlace(v sample.Values) error {
	w := v.ValueWidth()
	if w > sample.MaxLoadWidth {
		return fmt.Errorf("%w: linear thermometer input width %d exceeds %d",
			errs.ErrInvalidValueWidth, w, sample.MaxLoadWidth)
	}
	if v.Len() == 0 {
		return fmt.Errorf("linear thermometer: %w", errs.ErrEmptySample)
	}

	res := t.resolution

	return rewrite(v, res, func(x uint64) int {
		return linearLevel(x, uint(w), uint64(res))
	})
}

// linearLevel computes ((res+1)*x + w/2) >> w without overflow.
func linearLevel(x uint64, w uint, res uint64) int {
	hi, lo := bits.Mul64(res+1, x)
	lo, carry := bits.Add64(lo, uint64(w>>1), 0)
	hi += carry

	var level uint64
	if w >= 64 {
		level = hi
	} else {
		level = lo>>w | hi<<(64-w)
	}

	return int(min(level, res))
}

// rewrite replaces every value of v by a unary code of width res whose
// number of set bits is given by level.
func rewrite(v sample.Values, res int, level func(uint64) int) error {
	w := v.ValueWidth()
	count := v.Len() / w
	order := v.Order()

	out := bitset.New(uint(count * res))
	words := out.Words()
	for i := range count {
		l := level(v.Load(i*w, w))
		sample.StoreUint64(words, i*res, res, order, bitpack.Mask(uint(l)))
	}

	return v.Replace(out, res)
}

func isPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}
