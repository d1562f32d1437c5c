package model

import (
	"context"
	"fmt"
	"iter"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/arloliu/wisard/errs"
	"github.com/arloliu/wisard/sample"
)

// prepareFunc turns a caller sample into the sample seen by the discriminators.
type prepareFunc[L comparable] func(*sample.Sample[L]) (*sample.Sample[L], error)

// Report summarises an evaluation run.
type Report[L comparable] struct {
	// Total is the number of evaluated samples.
	Total int
	// Correct is the number of samples whose prediction matched their label.
	Correct int
	// Confusion counts predictions per actual label: Confusion[actual][predicted].
	Confusion map[L]map[L]int
}

// Accuracy returns Correct / Total, or 0 for an empty report.
func (r *Report[L]) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}

	return float64(r.Correct) / float64(r.Total)
}

func (r *Report[L]) add(actual, predicted L) {
	r.Total++
	if actual == predicted {
		r.Correct++
	}

	row, ok := r.Confusion[actual]
	if !ok {
		row = make(map[L]int)
		r.Confusion[actual] = row
	}
	row[predicted]++
}

// FitAll trains the model on every sample of the sequence.
//
// Samples are grouped by label first; every label with samples is then
// trained on its own goroutine, bounded by WithParallelism. Each
// discriminator has a single writer, so the result equals calling Fit on
// every sample in sequence order. A sample with an unknown label aborts the
// call before any training happens. A width error stops training, leaving
// the model partially trained.
func (w *Wisard[L]) FitAll(ctx context.Context, samples iter.Seq[*sample.Sample[L]]) error {
	return w.fitAll(ctx, samples, nil)
}

func (w *Wisard[L]) fitAll(ctx context.Context, samples iter.Seq[*sample.Sample[L]], prepare prepareFunc[L]) error {
	start := time.Now()

	groups := make([][]*sample.Sample[L], len(w.labels))
	total := 0
	for s := range samples {
		if err := ctx.Err(); err != nil {
			return err
		}
		i, ok := w.index[s.Label()]
		if !ok {
			return fmt.Errorf("%w: %v", errs.ErrUnknownLabel, s.Label())
		}
		if prepare != nil {
			var err error
			if s, err = prepare(s); err != nil {
				return err
			}
		}
		groups[i] = append(groups[i], s)
		total++
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.cfg.parallelism)
	for i, group := range groups {
		if len(group) == 0 {
			continue
		}
		d, label := w.discs[i], w.labels[i]
		g.Go(func() error {
			for _, s := range group {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := d.Fit(s); err != nil {
					return fmt.Errorf("fit label %v: %w", label, err)
				}
			}
			w.logger().Debug("discriminator trained",
				zap.Any("label", label),
				zap.Int("samples", len(group)))

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	w.logger().Info("fit completed",
		zap.Int("samples", total),
		zap.Int("labels", len(w.labels)),
		zap.Duration("elapsed", time.Since(start)))

	return nil
}

// Evaluate predicts every sample of the sequence and compares the
// prediction with the sample label. Samples are scored concurrently,
// bounded by WithParallelism.
func (w *Wisard[L]) Evaluate(ctx context.Context, samples iter.Seq[*sample.Sample[L]]) (*Report[L], error) {
	return w.evaluate(ctx, samples, nil)
}

func (w *Wisard[L]) evaluate(ctx context.Context, samples iter.Seq[*sample.Sample[L]], prepare prepareFunc[L]) (*Report[L], error) {
	start := time.Now()

	var batch []*sample.Sample[L]
	for s := range samples {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		batch = append(batch, s)
	}

	predicted := make([]L, len(batch))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.cfg.parallelism)
	for i, s := range batch {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if prepare != nil {
				var err error
				if s, err = prepare(s); err != nil {
					return err
				}
			}
			scores, err := w.scoresLimit(s, 1)
			if err != nil {
				return fmt.Errorf("evaluate sample %d: %w", i, err)
			}
			predicted[i] = argmax(scores).Label

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report[L]{Confusion: make(map[L]map[L]int)}
	for i, s := range batch {
		report.add(s.Label(), predicted[i])
	}

	w.logger().Info("evaluation completed",
		zap.Int("samples", report.Total),
		zap.Int("correct", report.Correct),
		zap.Float64("accuracy", report.Accuracy()),
		zap.Duration("elapsed", time.Since(start)))

	return report, nil
}
