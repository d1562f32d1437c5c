package model

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/arloliu/wisard/errs"
	"github.com/arloliu/wisard/filter"
	"github.com/arloliu/wisard/internal/options"
	"github.com/arloliu/wisard/sample"
)

// Score is the familiarity of one label with a sample.
type Score[L comparable] struct {
	Label L
	Score int
}

// Wisard is a WiSARD classifier holding one Discriminator per label.
//
// Labels keep the order in which they were given to New; Scores reports them
// in that order and Predict breaks ties in favour of the earliest label.
//
// Scoring is safe for concurrent use. Fit and FitAll mutate the filters and
// must not run concurrently with any other method.
type Wisard[L comparable] struct {
	inputWidth int
	addrWidth  int
	builder    filter.Builder
	labels     []L
	index      map[L]int
	discs      []*Discriminator
	cfg        config
}

// New creates a model with one discriminator per distinct label, each
// backed by filters from builder. Duplicate labels are dropped, keeping the
// first occurrence.
func New[L comparable](inputWidth, addrWidth int, labels []L, builder filter.Builder, opts ...Option) (*Wisard[L], error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	uniq := make([]L, 0, len(labels))
	index := make(map[L]int, len(labels))
	for _, l := range labels {
		if _, ok := index[l]; ok {
			continue
		}
		index[l] = len(uniq)
		uniq = append(uniq, l)
	}
	if len(uniq) == 0 {
		return nil, errs.ErrNoLabels
	}

	discs := make([]*Discriminator, len(uniq))
	for i := range discs {
		d, err := NewDiscriminator(inputWidth, addrWidth, builder)
		if err != nil {
			return nil, err
		}
		discs[i] = d
	}

	return &Wisard[L]{
		inputWidth: inputWidth,
		addrWidth:  addrWidth,
		builder:    builder,
		labels:     uniq,
		index:      index,
		discs:      discs,
		cfg:        cfg,
	}, nil
}

// InputWidth returns the expected sample length in bits.
func (w *Wisard[L]) InputWidth() int {
	return w.inputWidth
}

// AddressWidth returns the filter address width.
func (w *Wisard[L]) AddressWidth() int {
	return w.addrWidth
}

// Builder returns the builder that created the filters.
func (w *Wisard[L]) Builder() filter.Builder {
	return w.builder
}

// Labels returns a copy of the label set in model order.
func (w *Wisard[L]) Labels() []L {
	return slices.Clone(w.labels)
}

// Discriminator returns the discriminator of label.
func (w *Wisard[L]) Discriminator(label L) (*Discriminator, bool) {
	i, ok := w.index[label]
	if !ok {
		return nil, false
	}

	return w.discs[i], true
}

// Fit trains the discriminator of the sample label.
func (w *Wisard[L]) Fit(s *sample.Sample[L]) error {
	d, ok := w.Discriminator(s.Label())
	if !ok {
		return fmt.Errorf("%w: %v", errs.ErrUnknownLabel, s.Label())
	}

	return d.Fit(s)
}

// Scores returns the score of every label for s, in label order.
// The sample label is ignored.
func (w *Wisard[L]) Scores(s *sample.Sample[L]) ([]Score[L], error) {
	return w.scores(s)
}

func (w *Wisard[L]) scores(v sample.Values) ([]Score[L], error) {
	return w.scoresLimit(v, w.cfg.parallelism)
}

// scoresLimit scores v with at most limit discriminators in flight.
func (w *Wisard[L]) scoresLimit(v sample.Values, limit int) ([]Score[L], error) {
	out := make([]Score[L], len(w.labels))
	for i, l := range w.labels {
		out[i].Label = l
	}

	if limit <= 1 || len(w.discs) == 1 {
		for i, d := range w.discs {
			score, err := d.Score(v)
			if err != nil {
				return nil, err
			}
			out[i].Score = score
		}

		return out, nil
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, d := range w.discs {
		g.Go(func() error {
			score, err := d.Score(v)
			if err != nil {
				return err
			}
			out[i].Score = score

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// Predict returns the label with the highest score. Ties go to the label
// that comes first in model order.
func (w *Wisard[L]) Predict(s *sample.Sample[L]) (L, error) {
	return w.predict(s)
}

func (w *Wisard[L]) predict(v sample.Values) (L, error) {
	scores, err := w.scores(v)
	if err != nil {
		var zero L
		return zero, err
	}

	return argmax(scores).Label, nil
}

func argmax[L comparable](scores []Score[L]) Score[L] {
	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}

	return best
}

func (w *Wisard[L]) logger() *zap.Logger {
	return w.cfg.logger
}
