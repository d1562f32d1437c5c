// Package main implements the wisard CLI for training, evaluating and
// inspecting WiSARD models stored on disk.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/wisard/internal/config"
	"github.com/arloliu/wisard/internal/logging"
)

// version information
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "wisard",
		Short: "Train and run WiSARD weightless classifiers",
		Long: `wisard trains WiSARD weightless neural network classifiers on CSV data,
writes them to compact model files and uses them for evaluation and prediction.

Configuration is read from a YAML file (--config) and can be overridden with
WISARD_* environment variables, e.g. WISARD_MODEL_ADDRESS_WIDTH=12.`,
		Version:      version,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&g.configPath, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level (overrides log.level)")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "", "log format, json or console (overrides log.format)")

	root.AddCommand(newTrainCmd(g))
	root.AddCommand(newEvalCmd(g))
	root.AddCommand(newPredictCmd(g))
	root.AddCommand(newInspectCmd())

	return root
}

// load reads the configuration and builds the command logger.
func (g *globalFlags) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, nil, err
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.logFormat != "" {
		cfg.Log.Format = g.logFormat
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}

	return cfg, logger, nil
}
