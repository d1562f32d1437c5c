package filter

import (
	"fmt"
	"math"

	"github.com/arloliu/wisard/endian"
	"github.com/arloliu/wisard/errs"
	"github.com/arloliu/wisard/format"
	"github.com/arloliu/wisard/internal/bitpack"
)

// MaxProbes bounds the number of slots a Bloom filter touches per address.
const MaxProbes = 32

// Bloom is a counting Bloom filter sized for 2^addrWidth distinct addresses.
//
// Each address probes k slots chosen by double hashing, h1 + i*h2 mod m,
// where a step h2 that is a multiple of m is replaced by 1.
// Include increments every distinct probed slot, saturating at the counter
// max; Counter reports the minimum over the probed slots. The estimate can
// overcount because of collisions but never undercounts.
type Bloom struct {
	countWidth int
	threshold  uint64
	maxCount   uint64
	slots      uint64
	probes     int
	h1, h2     Hasher
	words      []uint64
}

var (
	_ CountingFilter = (*Bloom)(nil)
	_ Stateful       = (*Bloom)(nil)
)

// NewBloom creates a counting Bloom filter with the given false positive rate
// for 2^addrWidth expected items. h1 and h2 must be distinct hashers.
func NewBloom(addrWidth, countWidth int, threshold uint64, rate float64, h1, h2 Hasher) (*Bloom, error) {
	if err := checkBloomParams(addrWidth, countWidth, threshold, rate, h1, h2); err != nil {
		return nil, err
	}

	return newBloom(addrWidth, countWidth, threshold, rate, h1, h2), nil
}

func newBloom(addrWidth, countWidth int, threshold uint64, rate float64, h1, h2 Hasher) *Bloom {
	slots, probes := BloomGeometry(addrWidth, rate)

	return &Bloom{
		countWidth: countWidth,
		threshold:  threshold,
		maxCount:   bitpack.Mask(uint(countWidth)),
		slots:      slots,
		probes:     probes,
		h1:         h1,
		h2:         h2,
		words:      make([]uint64, bitpack.WordsFor(uint(slots)*uint(countWidth))),
	}
}

func checkBloomParams(addrWidth, countWidth int, threshold uint64, rate float64, h1, h2 Hasher) error {
	if err := checkPackedParams(addrWidth, countWidth, threshold); err != nil {
		return err
	}
	if !(rate > 0 && rate < 1) {
		return fmt.Errorf("%w: %v", errs.ErrInvalidRate, rate)
	}
	if h1 == nil || h2 == nil {
		return errs.ErrNilHasher
	}

	return nil
}

// BloomGeometry returns the slot count m and probe count k of a filter sized
// for 2^addrWidth items at the given false positive rate:
//
//	m = ceil(-n ln(rate) / ln(2)^2)
//	k = clamp(round(m/n ln 2), 1, 32)
func BloomGeometry(addrWidth int, rate float64) (slots uint64, probes int) {
	n := math.Ldexp(1, addrWidth)
	m := math.Ceil(-n * math.Log(rate) / (math.Ln2 * math.Ln2))
	slots = max(uint64(m), 1)

	k := int(math.Round(float64(slots) / n * math.Ln2))

	return slots, min(max(k, 1), MaxProbes)
}

// Slots returns the number of counters.
func (b *Bloom) Slots() uint64 {
	return b.slots
}

// Probes returns the number of hash probes per address.
func (b *Bloom) Probes() int {
	return b.probes
}

// positions fills buf with the distinct probe slots of addr and returns them.
func (b *Bloom) positions(addr uint64, buf *[MaxProbes]uint64) []uint64 {
	x, step := b.h1.Sum64(addr)%b.slots, b.h2.Sum64(addr)%b.slots
	if step == 0 {
		step = 1
	}
	out := buf[:0]
	for i := range b.probes {
		pos := (x + uint64(i)*step) % b.slots
		dup := false
		for _, p := range out {
			if p == pos {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, pos)
		}
	}

	return out
}

// Include increments every probed counter. Any address is accepted.
func (b *Bloom) Include(addr uint64) bool {
	var buf [MaxProbes]uint64
	w := uint(b.countWidth)
	for _, pos := range b.positions(addr, &buf) {
		off := uint(pos) * w
		c := bitpack.Load(b.words, off, w)
		if c < b.maxCount {
			bitpack.Store(b.words, off, w, c+1)
		}
	}

	return true
}

// Contains reports whether the estimated count of addr exceeds the threshold.
func (b *Bloom) Contains(addr uint64) bool {
	c, _ := b.Counter(addr)
	return c > b.threshold
}

// Counter returns the minimum of the probed counters.
func (b *Bloom) Counter(addr uint64) (uint64, bool) {
	var buf [MaxProbes]uint64
	w := uint(b.countWidth)
	est := b.maxCount
	for _, pos := range b.positions(addr, &buf) {
		est = min(est, bitpack.Load(b.words, uint(pos)*w, w))
	}

	return est, true
}

// Kind returns format.FilterBloom.
func (b *Bloom) Kind() format.FilterKind {
	return format.FilterBloom
}

// AppendState appends the packed counter words. Hasher seeds are part of the
// builder parameters, not of the state.
func (b *Bloom) AppendState(dst []byte, engine endian.EndianEngine) []byte {
	return appendWords(dst, b.words, engine)
}

// ReadState restores the packed counter words written by AppendState.
func (b *Bloom) ReadState(src []byte, engine endian.EndianEngine) ([]byte, error) {
	return readWords(src, b.words, b.Kind(), engine)
}

// BloomBuilder builds Bloom filters sharing the same pair of hashers.
type BloomBuilder struct {
	addrWidth  int
	countWidth int
	threshold  uint64
	rate       float64
	h1, h2     Hasher
}

var (
	_ Builder   = BloomBuilder{}
	_ Describer = BloomBuilder{}
)

// NewBloomBuilder validates the parameters once so that Build cannot fail.
func NewBloomBuilder(addrWidth, countWidth int, threshold uint64, rate float64, h1, h2 Hasher) (BloomBuilder, error) {
	if err := checkBloomParams(addrWidth, countWidth, threshold, rate, h1, h2); err != nil {
		return BloomBuilder{}, err
	}

	return BloomBuilder{
		addrWidth:  addrWidth,
		countWidth: countWidth,
		threshold:  threshold,
		rate:       rate,
		h1:         h1,
		h2:         h2,
	}, nil
}

// Build returns a new empty *Bloom.
func (b BloomBuilder) Build() Filter {
	return newBloom(b.addrWidth, b.countWidth, b.threshold, b.rate, b.h1, b.h2)
}

// AddressWidth returns the address width of built filters.
func (b BloomBuilder) AddressWidth() int {
	return b.addrWidth
}

// Params returns the builder parameters. It fails with
// ErrUnpersistableHasher unless both hashers are SeededHasher values.
func (b BloomBuilder) Params() (Params, error) {
	s1, ok1 := b.h1.(SeededHasher)
	s2, ok2 := b.h2.(SeededHasher)
	if !ok1 || !ok2 {
		return Params{}, fmt.Errorf("%w: bloom hashers %T, %T", errs.ErrUnpersistableHasher, b.h1, b.h2)
	}

	return Params{
		Kind:         format.FilterBloom,
		AddressWidth: b.addrWidth,
		CounterWidth: b.countWidth,
		Threshold:    b.threshold,
		Rate:         b.rate,
		Seed1:        s1.Seed(),
		Seed2:        s2.Seed(),
	}, nil
}
