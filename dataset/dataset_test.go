package dataset

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/wisard/encode"
	"github.com/arloliu/wisard/errs"
	"github.com/arloliu/wisard/sample"
)

func mustValues(t *testing.T, values []uint64, label string) *sample.Sample[string] {
	t.Helper()

	s, err := sample.FromValues(values, 2, label)
	require.NoError(t, err)

	return s
}

func TestDataset(t *testing.T) {
	ds := New[string]()
	require.True(t, ds.IsEmpty())
	require.Zero(t, ds.InputWidth())
	require.Empty(t, ds.Labels())

	ds.Push(mustValues(t, []uint64{0, 1}, "b"))
	ds.Push(mustValues(t, []uint64{2, 3}, "a"))
	ds.Push(mustValues(t, []uint64{3, 3}, "b"))

	require.Equal(t, 3, ds.Len())
	require.False(t, ds.IsEmpty())
	require.Equal(t, 4, ds.InputWidth())
	require.Equal(t, []string{"b", "a"}, ds.Labels())
	require.Equal(t, "a", ds.At(1).Label())
	require.Len(t, slices.Collect(ds.All()), 3)

	require.NoError(t, ds.Encode(encode.MustNewLinearThermometer(4)))
	require.Equal(t, "0000|1000 (b)", ds.At(0).String())
	require.Equal(t, 8, ds.InputWidth())

	err := ds.Encode(encode.MustNewSlice(0, 6))
	require.ErrorIs(t, err, errs.ErrInvalidSlice)
}

func TestFromSamples(t *testing.T) {
	samples := []*sample.Sample[string]{mustValues(t, []uint64{1}, "x")}
	ds := FromSamples(samples)
	require.Equal(t, 1, ds.Len())
	require.Same(t, samples[0], ds.At(0))
}

func TestLoadCSV(t *testing.T) {
	t.Run("header and last label column", func(t *testing.T) {
		in := "f1,f2,label\n1, 2,cold\n3,300,hot\n"
		ds, err := LoadCSV(strings.NewReader(in), WithHeader(true), WithValueWidth(2))
		require.NoError(t, err)
		require.Equal(t, 2, ds.Len())
		require.Equal(t, []string{"cold", "hot"}, ds.Labels())
		require.Equal(t, "10|01 (cold)", ds.At(0).String())
		require.Equal(t, "11|11 (hot)", ds.At(1).String())
	})

	t.Run("first label column", func(t *testing.T) {
		ds, err := LoadCSV(strings.NewReader("a,5\nb,7\n"), WithLabelColumn(0), WithValueWidth(4))
		require.NoError(t, err)
		require.Equal(t, uint64(5), ds.At(0).Load(0, 4))
		require.Equal(t, "b", ds.At(1).Label())
	})

	t.Run("msb0", func(t *testing.T) {
		ds, err := LoadCSV(strings.NewReader("1,x\n"), WithValueWidth(2), WithBitOrder(sample.MSB0))
		require.NoError(t, err)
		require.Equal(t, "01 (x)", ds.At(0).String())
	})

	t.Run("inconsistent rows", func(t *testing.T) {
		_, err := LoadCSV(strings.NewReader("1,2,a\n3,b\n"))
		require.ErrorIs(t, err, errs.ErrDatasetInconsistentRows)
	})

	t.Run("label column out of range", func(t *testing.T) {
		_, err := LoadCSV(strings.NewReader("1,2,a\n"), WithLabelColumn(3))
		require.ErrorIs(t, err, errs.ErrDatasetLabelColumn)
		_, err = LoadCSV(strings.NewReader("1,2,a\n"), WithLabelColumn(-4))
		require.ErrorIs(t, err, errs.ErrDatasetLabelColumn)
	})

	t.Run("non-integer feature", func(t *testing.T) {
		_, err := LoadCSV(strings.NewReader("1,-2,a\n"))
		require.Error(t, err)
		require.Contains(t, err.Error(), "row 1 column 2")
	})

	t.Run("invalid value width", func(t *testing.T) {
		_, err := LoadCSV(strings.NewReader(""), WithValueWidth(0))
		require.ErrorIs(t, err, errs.ErrInvalidValueWidth)
	})

	t.Run("empty input", func(t *testing.T) {
		ds, err := LoadCSV(strings.NewReader(""))
		require.NoError(t, err)
		require.True(t, ds.IsEmpty())
	})
}
