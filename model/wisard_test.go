package model

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/arloliu/wisard/errs"
	"github.com/arloliu/wisard/filter"
	"github.com/arloliu/wisard/sample"
)

var hotCold = []struct {
	bits  string
	label string
}{
	{"11100000", "cold"},
	{"11110000", "cold"},
	{"00001111", "hot"},
	{"00000111", "hot"},
}

func hotColdSamples(t *testing.T) []*sample.Sample[string] {
	t.Helper()

	out := make([]*sample.Sample[string], len(hotCold))
	for i, hc := range hotCold {
		out[i] = bitSample(t, hc.bits, 2, hc.label)
	}

	return out
}

func TestWisardNew(t *testing.T) {
	b, err := filter.NewLUTBuilder(2, 8, 0)
	require.NoError(t, err)

	t.Run("labels are deduplicated in first-seen order", func(t *testing.T) {
		m, err := New(8, 2, []string{"b", "a", "b", "c", "a"}, b)
		require.NoError(t, err)
		require.Equal(t, []string{"b", "a", "c"}, m.Labels())
		require.Equal(t, 8, m.InputWidth())
		require.Equal(t, 2, m.AddressWidth())

		d, ok := m.Discriminator("c")
		require.True(t, ok)
		require.Equal(t, 4, d.NumFilters())
		_, ok = m.Discriminator("z")
		require.False(t, ok)
	})

	t.Run("labels copy is detached", func(t *testing.T) {
		m, err := New(8, 2, []string{"a", "b"}, b)
		require.NoError(t, err)
		labels := m.Labels()
		labels[0] = "z"
		require.Equal(t, []string{"a", "b"}, m.Labels())
	})

	t.Run("errors", func(t *testing.T) {
		_, err := New[string](8, 2, nil, b)
		require.ErrorIs(t, err, errs.ErrNoLabels)
		_, err = New(8, 3, []string{"a"}, b)
		require.ErrorIs(t, err, errs.ErrInvalidAddressWidth)
		_, err = New(8, 2, []string{"a"}, nil)
		require.ErrorIs(t, err, errs.ErrNilBuilder)
		_, err = New(8, 2, []string{"a"}, b, WithParallelism(0))
		require.ErrorIs(t, err, errs.ErrInvalidParallelism)
	})
}

func TestWisardFitPredict(t *testing.T) {
	b, err := filter.NewPackedLUTBuilder(2, 1, 0)
	require.NoError(t, err)

	for _, parallelism := range []int{1, 4} {
		m, err := New(8, 2, []string{"cold", "hot"}, b, WithParallelism(parallelism))
		require.NoError(t, err)

		samples := hotColdSamples(t)
		for _, s := range samples {
			require.NoError(t, m.Fit(s))
		}
		for _, s := range samples {
			got, err := m.Predict(s)
			require.NoError(t, err)
			require.Equal(t, s.Label(), got, "parallelism %d sample %s", parallelism, s)
		}

		scores, err := m.Scores(samples[0])
		require.NoError(t, err)
		require.Equal(t, []Score[string]{{"cold", 4}, {"hot", 0}}, scores)
	}
}

func TestWisardTieBreak(t *testing.T) {
	b, err := filter.NewPackedLUTBuilder(2, 1, 0)
	require.NoError(t, err)
	m, err := New(4, 2, []string{"z", "a"}, b)
	require.NoError(t, err)

	got, err := m.Predict(bitSample(t, "1010", 1, "a"))
	require.NoError(t, err)
	require.Equal(t, "z", got)
}

func TestWisardErrors(t *testing.T) {
	b, err := filter.NewPackedLUTBuilder(2, 1, 0)
	require.NoError(t, err)
	m, err := New(4, 2, []string{"a"}, b)
	require.NoError(t, err)

	require.ErrorIs(t, m.Fit(bitSample(t, "1010", 1, "b")), errs.ErrUnknownLabel)
	require.ErrorIs(t, m.Fit(bitSample(t, "10", 1, "a")), errs.ErrWidthMismatch)
	_, err = m.Predict(bitSample(t, "101010", 1, "a"))
	require.ErrorIs(t, err, errs.ErrWidthMismatch)
}

func TestFitAll(t *testing.T) {
	b, err := filter.NewPackedLUTBuilder(2, 4, 0)
	require.NoError(t, err)

	t.Run("matches sequential fit", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		batch, err := New(8, 2, []string{"cold", "hot"}, b, WithParallelism(2), WithLogger(zap.New(core)))
		require.NoError(t, err)
		seq, err := New(8, 2, []string{"cold", "hot"}, b)
		require.NoError(t, err)

		samples := hotColdSamples(t)
		require.NoError(t, batch.FitAll(context.Background(), slices.Values(samples)))
		for _, s := range samples {
			require.NoError(t, seq.Fit(s))
		}

		for _, label := range []string{"cold", "hot"} {
			db, _ := batch.Discriminator(label)
			ds, _ := seq.Discriminator(label)
			for i := range db.NumFilters() {
				for addr := range uint64(4) {
					cb, _ := db.Filter(i).(filter.CountingFilter).Counter(addr)
					cs, _ := ds.Filter(i).(filter.CountingFilter).Counter(addr)
					require.Equal(t, cs, cb)
				}
			}
		}

		require.Equal(t, 2, logs.FilterMessage("discriminator trained").Len())
		done := logs.FilterMessage("fit completed").All()
		require.Len(t, done, 1)
		require.Equal(t, int64(4), done[0].ContextMap()["samples"])
	})

	t.Run("unknown label aborts before training", func(t *testing.T) {
		m, err := New(8, 2, []string{"cold"}, b)
		require.NoError(t, err)
		err = m.FitAll(context.Background(), slices.Values(hotColdSamples(t)))
		require.ErrorIs(t, err, errs.ErrUnknownLabel)

		d, _ := m.Discriminator("cold")
		c, _ := d.Filter(0).(filter.CountingFilter).Counter(3)
		require.Zero(t, c)
	})

	t.Run("cancelled context", func(t *testing.T) {
		m, err := New(8, 2, []string{"cold", "hot"}, b)
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		require.ErrorIs(t, m.FitAll(ctx, slices.Values(hotColdSamples(t))), context.Canceled)
	})
}

func TestEvaluate(t *testing.T) {
	b, err := filter.NewPackedLUTBuilder(2, 1, 0)
	require.NoError(t, err)
	core, logs := observer.New(zapcore.InfoLevel)
	m, err := New(8, 2, []string{"cold", "hot"}, b, WithParallelism(3), WithLogger(zap.New(core)))
	require.NoError(t, err)

	samples := hotColdSamples(t)
	require.NoError(t, m.FitAll(context.Background(), slices.Values(samples)))

	query := append(slices.Clone(samples), bitSample(t, "11111111", 2, "hot"))
	report, err := m.Evaluate(context.Background(), slices.Values(query))
	require.NoError(t, err)
	require.Equal(t, 5, report.Total)
	require.Equal(t, 4, report.Correct)
	// 11111111 scores 2 for both labels and the tie goes to cold.
	require.Equal(t, map[string]map[string]int{
		"cold": {"cold": 2},
		"hot":  {"hot": 2, "cold": 1},
	}, report.Confusion)
	require.InDelta(t, 0.8, report.Accuracy(), 1e-9)
	require.Equal(t, 1, logs.FilterMessage("evaluation completed").Len())

	empty := &Report[string]{}
	require.Zero(t, empty.Accuracy())

	_, err = m.Evaluate(context.Background(), slices.Values([]*sample.Sample[string]{bitSample(t, "1", 1, "hot")}))
	require.ErrorIs(t, err, errs.ErrWidthMismatch)
}
