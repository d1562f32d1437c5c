package encode

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/wisard/errs"
	"github.com/arloliu/wisard/sample"
)

func fromString(t *testing.T, bits string, width int) *sample.Sample[string] {
	t.Helper()

	bools := make([]bool, len(bits))
	for i, c := range bits {
		bools[i] = c == '1'
	}
	s, err := sample.FromBools(bools, width, "a")
	require.NoError(t, err)

	return s
}

func twoBitValues(t *testing.T) *sample.Sample[string] {
	t.Helper()

	s, err := sample.FromValues([]uint64{0, 1, 2, 3}, 2, "a")
	require.NoError(t, err)

	return s
}

func TestPermutation(t *testing.T) {
	t.Run("reference vectors", func(t *testing.T) {
		p := NewPermutation(7)
		cases := map[string]string{
			"00001111": "10010011",
			"01010101": "01011001",
		}
		for in, want := range cases {
			s := fromString(t, in, 1)
			require.NoError(t, p.EncodeInPlace(s))
			require.Equal(t, fromString(t, want, 1).String(), s.String(), "input %s", in)
		}
	})

	t.Run("indices", func(t *testing.T) {
		require.Equal(t, []int{4, 3, 0, 7, 1, 2, 6, 5}, NewPermutation(7).Indices(8))
		require.Equal(t, []int{6, 7, 4, 1, 2, 5, 3, 0}, NewPermutation(0xABAD5EED).Indices(8))
		require.Equal(t, []int{3, 1, 10, 0, 9, 2, 13, 7, 6, 14, 5, 11, 4, 12, 8, 15}, NewPermutation(42).Indices(16))
	})

	t.Run("generator stream", func(t *testing.T) {
		rng := newXoshiro256pp(7)
		require.Equal(t, uint64(0x0e2c1a002aae913d), rng.next())
		require.Equal(t, uint64(0x2c0fc8ddfa4e9e14), rng.next())
		require.Equal(t, uint64(0xb7b311b3b0d45872), rng.next())
	})

	t.Run("deterministic and popcount preserving", func(t *testing.T) {
		p := NewRandomPermutation()
		a := fromString(t, "1101001110001011", 4)
		b := a.Clone()
		require.NoError(t, p.EncodeInPlace(a))
		require.NoError(t, p.Clone().EncodeInPlace(b))
		require.True(t, a.Equal(b))
		require.Equal(t, 4, a.ValueWidth())

		require.Equal(t, 9, countOnes(slices.Collect(a.IterBits())))
	})

	t.Run("bijection for any seed", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(1, 2))
		for range 50 {
			seed := rng.Uint64()
			n := 1 + rng.IntN(130)
			p := NewPermutation(seed)

			idx := p.Indices(n)
			sorted := slices.Sorted(slices.Values(idx))
			for i, v := range sorted {
				require.Equal(t, i, v, "seed %#x length %d", seed, n)
			}

			k := rng.IntN(n)
			bools := make([]bool, n)
			bools[k] = true
			s, err := sample.FromBools(bools, 1, "a")
			require.NoError(t, err)
			require.NoError(t, p.EncodeInPlace(s))

			pos := slices.Index(idx, k)
			require.True(t, s.Bit(pos), "seed %#x length %d bit %d", seed, n, k)
			require.Equal(t, 1, countOnes(slices.Collect(s.IterBits())))
		}
	})

	t.Run("seed is reported", func(t *testing.T) {
		require.Equal(t, uint64(99), NewPermutation(99).Seed())
	})

	t.Run("empty sample", func(t *testing.T) {
		s, err := sample.FromBools(nil, 1, "a")
		require.NoError(t, err)
		require.ErrorIs(t, NewPermutation(1).EncodeInPlace(s), errs.ErrEmptySample)
	})
}

func TestLogThermometer(t *testing.T) {
	cases := []struct {
		res  int
		want string
	}{
		{1, "0|0|1|1 (a)"},
		{2, "00|10|11|11 (a)"},
		{4, "0000|1100|1111|1111 (a)"},
	}
	for _, tc := range cases {
		s := twoBitValues(t)
		enc := MustNewLogThermometer(tc.res)
		require.NoError(t, enc.EncodeInPlace(s))
		require.Equal(t, tc.want, s.String(), "resolution %d", tc.res)
		require.Equal(t, tc.res, s.ValueWidth())
	}

	t.Run("invalid resolution", func(t *testing.T) {
		for _, res := range []int{0, 3, 6, 128, -2} {
			_, err := NewLogThermometer(res)
			require.ErrorIs(t, err, errs.ErrInvalidResolution, "resolution %d", res)
		}
	})

	t.Run("input width must be a power of two", func(t *testing.T) {
		s := fromString(t, "000111", 3)
		require.ErrorIs(t, MustNewLogThermometer(4).EncodeInPlace(s), errs.ErrInvalidValueWidth)
		require.Equal(t, 3, s.ValueWidth())
	})

	t.Run("monotone in the value", func(t *testing.T) {
		values := make([]uint64, 256)
		for i := range values {
			values[i] = uint64(i)
		}
		s, err := sample.FromValues(values, 8, "a")
		require.NoError(t, err)
		require.NoError(t, MustNewLogThermometer(16).EncodeInPlace(s))

		prev := -1
		for _, c := range s.IterValues() {
			ones := countOnes(c.Bools())
			require.GreaterOrEqual(t, ones, prev)
			prev = ones
		}
		require.Equal(t, 16, prev)
	})
}

func TestLinearThermometer(t *testing.T) {
	cases := []struct {
		res  int
		want string
	}{
		{1, "0|0|1|1 (a)"},
		{2, "00|10|10|11 (a)"},
		{3, "000|100|110|111 (a)"},
		{4, "0000|1000|1100|1111 (a)"},
	}
	for _, tc := range cases {
		s := twoBitValues(t)
		require.NoError(t, MustNewLinearThermometer(tc.res).EncodeInPlace(s))
		require.Equal(t, tc.want, s.String(), "resolution %d", tc.res)
	}

	t.Run("invalid resolution", func(t *testing.T) {
		_, err := NewLinearThermometer(0)
		require.ErrorIs(t, err, errs.ErrInvalidResolution)
		_, err = NewLinearThermometer(65)
		require.ErrorIs(t, err, errs.ErrInvalidResolution)
	})

	t.Run("full-width values do not overflow", func(t *testing.T) {
		s, err := sample.FromValues([]uint64{0, ^uint64(0)}, 64, "a")
		require.NoError(t, err)
		require.NoError(t, MustNewLinearThermometer(64).EncodeInPlace(s))
		require.Equal(t, uint64(0), s.Load(0, 64))
		require.Equal(t, ^uint64(0), s.Load(64, 64))
	})

	t.Run("monotone in the value", func(t *testing.T) {
		values := make([]uint64, 256)
		for i := range values {
			values[i] = uint64(i)
		}
		for _, res := range []int{3, 8, 64} {
			s, err := sample.FromValues(values, 8, "a")
			require.NoError(t, err)
			require.NoError(t, MustNewLinearThermometer(res).EncodeInPlace(s))

			prev := -1
			for i, c := range s.IterValues() {
				ones := countOnes(c.Bools())
				require.GreaterOrEqual(t, ones, prev, "resolution %d value %d", res, i)
				prev = ones
			}
			require.Equal(t, res, prev, "resolution %d", res)
		}
	})

	t.Run("input width bound", func(t *testing.T) {
		wide := fromString(t, "", 1)
		require.NoError(t, wide.Replace(nil, 65))
		require.ErrorIs(t, MustNewLinearThermometer(4).EncodeInPlace(wide), errs.ErrInvalidValueWidth)
	})
}

func TestSlice(t *testing.T) {
	t.Run("two-bit values", func(t *testing.T) {
		s := twoBitValues(t)
		require.NoError(t, MustNewSlice(1, 2).EncodeInPlace(s))
		require.Equal(t, "0|0|1|1 (a)", s.String())
	})

	t.Run("three-bit values", func(t *testing.T) {
		s, err := sample.FromValues([]uint64{0, 1, 2, 3}, 3, "a")
		require.NoError(t, err)
		require.Equal(t, "000|100|010|110 (a)", s.String())
		require.NoError(t, MustNewSlice(1, 2).EncodeInPlace(s))
		require.Equal(t, "0|0|1|1 (a)", s.String())
	})

	t.Run("keeps raw bits under msb0", func(t *testing.T) {
		s, err := sample.FromBools([]bool{true, false, true, true, false, false}, 3, "a", sample.WithBitOrder(sample.MSB0))
		require.NoError(t, err)
		require.NoError(t, MustNewSlice(0, 2).EncodeInPlace(s))
		require.Equal(t, "10|10 (a)", s.String())
	})

	t.Run("construction bounds", func(t *testing.T) {
		for _, r := range [][2]int{{2, 2}, {3, 1}, {-1, 2}, {0, 65}} {
			_, err := NewSlice(r[0], r[1])
			require.ErrorIs(t, err, errs.ErrInvalidSlice, "range %v", r)
		}
	})

	t.Run("end beyond value width", func(t *testing.T) {
		s := twoBitValues(t)
		require.ErrorIs(t, MustNewSlice(1, 3).EncodeInPlace(s), errs.ErrInvalidSlice)
	})
}

func TestEncodersRejectEmptySample(t *testing.T) {
	encoders := map[string]Encoder{
		"permutation": NewPermutation(1),
		"log":         MustNewLogThermometer(4),
		"linear":      MustNewLinearThermometer(4),
		"slice":       MustNewSlice(0, 1),
	}
	for name, enc := range encoders {
		t.Run(name, func(t *testing.T) {
			s, err := sample.FromBools(nil, 2, "a")
			require.NoError(t, err)
			require.ErrorIs(t, enc.EncodeInPlace(s), errs.ErrEmptySample)
			require.Equal(t, 2, s.ValueWidth())
		})
	}
}

func TestChain(t *testing.T) {
	s := twoBitValues(t)
	enc := NewChain(MustNewSlice(0, 2), nil, MustNewLinearThermometer(4))
	require.Len(t, enc, 2)

	out, err := Encode(enc, s)
	require.NoError(t, err)
	require.Same(t, s, out)
	require.Equal(t, "0000|1000|1100|1111 (a)", out.String())

	_, err = Encode(NewChain(MustNewSlice(0, 1), MustNewSlice(0, 2)), twoBitValues(t))
	require.ErrorIs(t, err, errs.ErrInvalidSlice)
}

func countOnes(bits []bool) int {
	n := 0
	for _, b := range bits {
		if b {
			n++
		}
	}

	return n
}
