package main

import (
	"context"
	"fmt"
	"iter"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/wisard/model"
	"github.com/arloliu/wisard/persist"
	"github.com/arloliu/wisard/sample"
)

// classifier is the part of Wisard and BinaryWisard used by eval and predict.
type classifier interface {
	InputWidth() int
	Predict(s *sample.Sample[string]) (string, error)
	Evaluate(ctx context.Context, samples iter.Seq[*sample.Sample[string]]) (*model.Report[string], error)
}

var (
	_ classifier = (*model.Wisard[string])(nil)
	_ classifier = (*model.BinaryWisard[string])(nil)
)

type runOptions struct {
	model string
	data  string
}

func (o *runOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.model, "model", "model.wsd", "model file")
	cmd.Flags().StringVar(&o.data, "data", "", "CSV file laid out like the training data")
	_ = cmd.MarkFlagRequired("data")
}

func newEvalCmd(g *globalFlags) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Report model accuracy on a labeled CSV file",
		Long: `Evaluate a model on a labeled CSV file and print the accuracy together
with per-label counts.

Examples:
  wisard eval --model model.wsd --data test.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEval(cmd, g, opts)
		},
	}
	opts.bind(cmd)

	return cmd
}

func newPredictCmd(g *globalFlags) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Print the predicted label of every CSV row",
		Long: `Predict a label for every row of a CSV file.

The file must have the same layout as the training data; the value in the
label column is ignored.

Examples:
  wisard predict --model model.wsd --data rows.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPredict(cmd, g, opts)
		},
	}
	opts.bind(cmd)

	return cmd
}

func runEval(cmd *cobra.Command, g *globalFlags, opts *runOptions) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	m, info, err := loadModel(opts.model, logger, cfg.Model.Parallelism)
	if err != nil {
		return err
	}
	pipe, err := pipelineFromMetadata(info.Metadata)
	if err != nil {
		return err
	}
	ds, err := pipe.load(opts.data)
	if err != nil {
		return err
	}

	rep, err := m.Evaluate(cmd.Context(), ds.All())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "samples:  %d\n", rep.Total)
	fmt.Fprintf(out, "correct:  %d\n", rep.Correct)
	fmt.Fprintf(out, "accuracy: %.4f\n", rep.Accuracy())
	fmt.Fprintln(out, "label\ttotal\tcorrect")
	for _, label := range slices.Sorted(maps.Keys(rep.Confusion)) {
		row := rep.Confusion[label]
		total := 0
		for _, n := range row {
			total += n
		}
		fmt.Fprintf(out, "%s\t%d\t%d\n", label, total, row[label])
	}

	return nil
}

func runPredict(cmd *cobra.Command, g *globalFlags, opts *runOptions) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	m, info, err := loadModel(opts.model, logger, cfg.Model.Parallelism)
	if err != nil {
		return err
	}
	pipe, err := pipelineFromMetadata(info.Metadata)
	if err != nil {
		return err
	}
	ds, err := pipe.load(opts.data)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i := range ds.Len() {
		label, err := m.Predict(ds.At(i))
		if err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
		fmt.Fprintf(out, "%d\t%s\n", i+1, label)
	}

	return nil
}

// loadModel reads a model file of either kind.
func loadModel(path string, logger *zap.Logger, parallelism int) (classifier, *persist.Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read model: %w", err)
	}

	opts := []model.Option{model.WithParallelism(parallelism), model.WithLogger(logger)}

	info, err := persist.Inspect(data)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid model file %s: %w", path, err)
	}
	if info.Header.Flag.IsBinary() {
		m, _, err := persist.DecodeBinary(data, persist.StringLabels{}, opts...)
		if err != nil {
			return nil, nil, err
		}

		return m, info, nil
	}

	m, _, err := persist.Decode(data, persist.StringLabels{}, opts...)
	if err != nil {
		return nil, nil, err
	}

	return m, info, nil
}
