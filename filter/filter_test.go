package filter

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/wisard/endian"
	"github.com/arloliu/wisard/errs"
	"github.com/arloliu/wisard/format"
)

// requireSingleAddressSequence includes address 0 twice into a filter with
// threshold 1 and checks the counter and membership after every step.
func requireSingleAddressSequence(t *testing.T, f CountingFilter) {
	t.Helper()

	for step := uint64(0); step <= 2; step++ {
		if step > 0 {
			require.True(t, f.Include(0))
		}
		c, ok := f.Counter(0)
		require.True(t, ok)
		require.Equal(t, step, c)
		require.Equal(t, step == 2, f.Contains(0))
	}
}

func TestSingleAddressSequence(t *testing.T) {
	t.Run("lut", func(t *testing.T) {
		b, err := NewLUTBuilder(0, 8, 1)
		require.NoError(t, err)
		requireSingleAddressSequence(t, b.Build().(*LUT))
	})

	t.Run("packed lut", func(t *testing.T) {
		b, err := NewPackedLUTBuilder(0, 2, 1)
		require.NoError(t, err)
		requireSingleAddressSequence(t, b.Build().(*PackedLUT))
	})

	t.Run("bloom with random hashers", func(t *testing.T) {
		h1, h2 := NewRandomHasherPair()
		b, err := NewBloomBuilder(1, 2, 1, 0.01, h1, h2)
		require.NoError(t, err)
		requireSingleAddressSequence(t, b.Build().(*Bloom))
	})

	t.Run("bloom with xxhash hashers", func(t *testing.T) {
		h1, h2 := NewXXHasherPair(11)
		b, err := NewBloomBuilder(1, 2, 1, 0.01, h1, h2)
		require.NoError(t, err)
		requireSingleAddressSequence(t, b.Build().(*Bloom))
	})
}

func TestLUT(t *testing.T) {
	t.Run("saturates at counter width", func(t *testing.T) {
		l, err := NewLUT(1, 8, 0)
		require.NoError(t, err)
		for range 300 {
			require.True(t, l.Include(1))
		}
		c, ok := l.Counter(1)
		require.True(t, ok)
		require.Equal(t, uint64(255), c)

		c, ok = l.Counter(0)
		require.True(t, ok)
		require.Zero(t, c)
	})

	t.Run("out of range addresses", func(t *testing.T) {
		l, err := NewLUT(2, 16, 0)
		require.NoError(t, err)
		require.False(t, l.Include(4))
		require.False(t, l.Contains(4))
		_, ok := l.Counter(4)
		require.False(t, ok)
	})

	t.Run("parameter validation", func(t *testing.T) {
		_, err := NewLUT(-1, 8, 0)
		require.ErrorIs(t, err, errs.ErrInvalidAddressWidth)
		_, err = NewLUT(33, 8, 0)
		require.ErrorIs(t, err, errs.ErrInvalidAddressWidth)
		_, err = NewLUT(2, 12, 0)
		require.ErrorIs(t, err, errs.ErrInvalidCounterWidth)
		_, err = NewLUT(2, 8, 256)
		require.ErrorIs(t, err, errs.ErrInvalidThreshold)
		_, err = NewLUT(2, 64, ^uint64(0))
		require.NoError(t, err)
	})
}

func TestPackedLUT(t *testing.T) {
	t.Run("saturates at count width", func(t *testing.T) {
		p, err := NewPackedLUT(3, 3, 0)
		require.NoError(t, err)
		for range 20 {
			p.Include(5)
		}
		c, _ := p.Counter(5)
		require.Equal(t, uint64(7), c)
	})

	t.Run("neighbours are isolated across word boundaries", func(t *testing.T) {
		// 3-bit counters: counter 21 occupies bits 63..65.
		p, err := NewPackedLUT(6, 3, 0)
		require.NoError(t, err)

		want := make([]uint64, 64)
		rng := rand.New(rand.NewPCG(1, 2))
		for range 2000 {
			addr := rng.Uint64N(64)
			require.True(t, p.Include(addr))
			want[addr] = min(want[addr]+1, 7)
		}
		for _, addr := range []uint64{20, 21, 22} {
			for range 9 {
				p.Include(addr)
			}
			want[addr] = 7
		}
		for addr, w := range want {
			c, ok := p.Counter(uint64(addr))
			require.True(t, ok)
			require.Equal(t, w, c, "addr %d", addr)
		}
	})

	t.Run("single include touches one counter", func(t *testing.T) {
		p, err := NewPackedLUT(6, 5, 0)
		require.NoError(t, err)
		require.True(t, p.Include(12))
		for addr := range uint64(64) {
			c, _ := p.Counter(addr)
			if addr == 12 {
				require.Equal(t, uint64(1), c)
			} else {
				require.Zero(t, c, "addr %d", addr)
			}
		}
	})

	t.Run("64-bit counters", func(t *testing.T) {
		p, err := NewPackedLUT(2, 64, 0)
		require.NoError(t, err)
		p.Include(3)
		p.Include(3)
		c, _ := p.Counter(3)
		require.Equal(t, uint64(2), c)
	})

	t.Run("out of range", func(t *testing.T) {
		p, err := NewPackedLUT(0, 1, 0)
		require.NoError(t, err)
		require.False(t, p.Include(1))
		require.False(t, p.Contains(1))
	})

	t.Run("parameter validation", func(t *testing.T) {
		_, err := NewPackedLUT(2, 0, 0)
		require.ErrorIs(t, err, errs.ErrInvalidCounterWidth)
		_, err = NewPackedLUT(2, 65, 0)
		require.ErrorIs(t, err, errs.ErrInvalidCounterWidth)
		_, err = NewPackedLUT(2, 1, 1)
		require.ErrorIs(t, err, errs.ErrInvalidThreshold)
	})
}

func TestBloom(t *testing.T) {
	t.Run("geometry", func(t *testing.T) {
		m, k := BloomGeometry(1, 0.01)
		require.Equal(t, uint64(20), m)
		require.Equal(t, 7, k)

		m, k = BloomGeometry(0, 0.5)
		require.Equal(t, uint64(2), m)
		require.Equal(t, 1, k)
	})

	t.Run("never undercounts", func(t *testing.T) {
		h1, h2 := NewXXHasherPair(3)
		b, err := NewBloom(6, 4, 0, 0.05, h1, h2)
		require.NoError(t, err)

		truth := make(map[uint64]uint64)
		rng := rand.New(rand.NewPCG(7, 8))
		for range 500 {
			addr := rng.Uint64N(1 << 10)
			b.Include(addr)
			truth[addr]++
		}
		for addr, n := range truth {
			c, ok := b.Counter(addr)
			require.True(t, ok)
			require.GreaterOrEqual(t, c, min(n, 15), "addr %d", addr)
		}
	})

	t.Run("zero step still spreads probes", func(t *testing.T) {
		b, err := NewBloom(1, 4, 0, 0.01, fixedHasher(3), fixedHasher(40))
		require.NoError(t, err)
		require.Equal(t, uint64(20), b.Slots())

		var buf [MaxProbes]uint64
		pos := b.positions(9, &buf)
		require.Equal(t, []uint64{3, 4, 5, 6, 7, 8, 9}, pos)

		b.Include(9)
		c, _ := b.Counter(9)
		require.Equal(t, uint64(1), c)
	})

	t.Run("accepts any address", func(t *testing.T) {
		h1, h2 := NewXXHasherPair(3)
		b, err := NewBloom(2, 2, 0, 0.1, h1, h2)
		require.NoError(t, err)
		require.True(t, b.Include(^uint64(0)))
		require.True(t, b.Contains(^uint64(0)))
	})

	t.Run("parameter validation", func(t *testing.T) {
		h1, h2 := NewXXHasherPair(3)
		for _, rate := range []float64{0, 1, -0.5, 2} {
			_, err := NewBloom(2, 2, 0, rate, h1, h2)
			require.ErrorIs(t, err, errs.ErrInvalidRate, "rate %v", rate)
		}
		_, err := NewBloom(2, 2, 0, 0.1, nil, h2)
		require.ErrorIs(t, err, errs.ErrNilHasher)
		_, err = NewBloom(2, 2, 4, 0.1, h1, h2)
		require.ErrorIs(t, err, errs.ErrInvalidThreshold)
	})
}

func TestBuilderIndependence(t *testing.T) {
	b, err := NewPackedLUTBuilder(2, 4, 0)
	require.NoError(t, err)
	require.Equal(t, 2, b.AddressWidth())

	f1, f2 := b.Build(), b.Build()
	f1.Include(1)
	require.True(t, f1.Contains(1))
	require.False(t, f2.Contains(1))
}

func TestHashers(t *testing.T) {
	a, b := NewXXHasherPair(5)
	require.NotEqual(t, a.Seed(), b.Seed())
	require.Equal(t, a.Sum64(42), NewXXHasher(5).Sum64(42))
	require.NotEqual(t, a.Sum64(42), b.Sum64(42))

	r := NewRandomHasher()
	require.Equal(t, r.Sum64(9), r.Sum64(9))
}

func TestStateRoundTrip(t *testing.T) {
	h1, h2 := NewXXHasherPair(77)
	lut, err := NewLUTBuilder(3, 16, 2)
	require.NoError(t, err)
	packed, err := NewPackedLUTBuilder(4, 5, 1)
	require.NoError(t, err)
	bloom, err := NewBloomBuilder(3, 3, 0, 0.02, h1, h2)
	require.NoError(t, err)

	engines := map[string]endian.EndianEngine{
		"little": endian.GetLittleEndianEngine(),
		"big":    endian.GetBigEndianEngine(),
	}

	for _, builder := range []Builder{lut, packed, bloom} {
		for name, engine := range engines {
			params, err := builder.(Describer).Params()
			require.NoError(t, err)

			src := builder.Build()
			for addr := range uint64(1 << builder.AddressWidth()) {
				for range addr % 4 {
					src.Include(addr)
				}
			}
			state := src.(Stateful).AppendState([]byte{0xAA}, engine)
			require.Equal(t, byte(0xAA), state[0])

			rebuilt, err := FromParams(params)
			require.NoError(t, err)
			dst := rebuilt.Build()
			rest, err := dst.(Stateful).ReadState(append(state[1:], 0xBB), engine)
			require.NoError(t, err, "%s/%s", params.Kind, name)
			require.Equal(t, []byte{0xBB}, rest)

			for addr := range uint64(1 << builder.AddressWidth()) {
				want, _ := src.(CountingFilter).Counter(addr)
				got, _ := dst.(CountingFilter).Counter(addr)
				require.Equal(t, want, got, "%s/%s addr %d", params.Kind, name, addr)
			}

			_, err = rebuilt.Build().(Stateful).ReadState(state[1:len(state)-1], engine)
			require.ErrorIs(t, err, errs.ErrTruncatedPayload)
		}
	}
}

func TestParams(t *testing.T) {
	t.Run("random hashers cannot be described", func(t *testing.T) {
		h1, h2 := NewRandomHasherPair()
		b, err := NewBloomBuilder(1, 2, 0, 0.1, h1, h2)
		require.NoError(t, err)
		_, err = b.Params()
		require.ErrorIs(t, err, errs.ErrUnpersistableHasher)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := FromParams(Params{Kind: format.FilterKind(9)})
		require.ErrorIs(t, err, errs.ErrInvalidFilterKind)
	})

	t.Run("bloom seeds survive", func(t *testing.T) {
		b, err := NewBloomBuilder(2, 4, 1, 0.05, NewXXHasher(1), NewXXHasher(2))
		require.NoError(t, err)
		p, err := b.Params()
		require.NoError(t, err)
		require.Equal(t, Params{
			Kind: format.FilterBloom, AddressWidth: 2, CounterWidth: 4,
			Threshold: 1, Rate: 0.05, Seed1: 1, Seed2: 2,
		}, p)
	})
}

// fixedHasher returns the same digest for every address.
type fixedHasher uint64

func (h fixedHasher) Sum64(uint64) uint64 {
	return uint64(h)
}
