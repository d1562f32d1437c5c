package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/wisard/internal/config"
	"github.com/arloliu/wisard/model"
	"github.com/arloliu/wisard/persist"
)

type trainOptions struct {
	data string
	out  string
}

func newTrainCmd(g *globalFlags) *cobra.Command {
	opts := &trainOptions{}

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a model from a CSV file",
		Long: `Train a model on a labeled CSV file and write it to disk.

The encoder chain and dataset layout are stored in the model file so eval and
predict read their CSV input the same way.

Examples:
  # Train with the default binary model
  wisard train --data train.csv --out model.wsd

  # Train a Bloom model described in a config file
  wisard train --config bloom.yaml --data train.csv --out model.wsd`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTrain(cmd, g, opts)
		},
	}

	cmd.Flags().StringVar(&opts.data, "data", "", "training CSV file")
	cmd.Flags().StringVar(&opts.out, "out", "model.wsd", "output model file")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func runTrain(cmd *cobra.Command, g *globalFlags, opts *trainOptions) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	pipe := pipelineFromConfig(cfg)
	ds, err := pipe.load(opts.data)
	if err != nil {
		return err
	}
	if ds.IsEmpty() {
		return fmt.Errorf("dataset %s has no rows", opts.data)
	}

	inputWidth := cfg.Model.InputWidth
	if inputWidth == 0 {
		inputWidth = ds.InputWidth()
	}
	labels := ds.Labels()

	md := pipe.metadata()
	md[metaModelID] = uuid.NewString()
	md[metaCreatedAt] = time.Now().UTC().Format(time.RFC3339)
	md[metaKind] = cfg.Model.Kind

	modelOpts := []model.Option{
		model.WithParallelism(cfg.Model.Parallelism),
		model.WithLogger(logger),
	}
	persistOpts := []persist.Option{
		persist.WithCompression(cfg.Compression()),
		persist.WithMetadata(md),
	}

	var data []byte
	if cfg.Model.Kind == config.KindBinary {
		var m *model.BinaryWisard[string]
		if cfg.Model.Seed == 0 {
			m, err = model.NewBinary(inputWidth, cfg.Model.AddressWidth, labels, modelOpts...)
		} else {
			m, err = model.NewBinaryWithSeed(inputWidth, cfg.Model.AddressWidth, labels, cfg.Model.Seed, modelOpts...)
		}
		if err != nil {
			return err
		}
		if err := m.FitAll(cmd.Context(), ds.All()); err != nil {
			return err
		}
		data, err = persist.EncodeBinary(m, persist.StringLabels{}, persistOpts...)
	} else {
		builder, berr := filterBuilder(cfg.Model)
		if berr != nil {
			return berr
		}
		m, merr := model.New(inputWidth, cfg.Model.AddressWidth, labels, builder, modelOpts...)
		if merr != nil {
			return merr
		}
		if err := m.FitAll(cmd.Context(), ds.All()); err != nil {
			return err
		}
		data, err = persist.Encode(m, persist.StringLabels{}, persistOpts...)
	}
	if err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}

	if err := os.WriteFile(opts.out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write model: %w", err)
	}

	logger.Info("model written",
		zap.String("path", opts.out),
		zap.String("model_id", md[metaModelID]),
		zap.Int("bytes", len(data)),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "trained %s model on %d samples with %d labels (input %d bits), wrote %s\n",
		cfg.Model.Kind, ds.Len(), len(labels), inputWidth, opts.out)

	return nil
}
