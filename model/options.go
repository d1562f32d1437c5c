package model

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/wisard/errs"
	"github.com/arloliu/wisard/internal/options"
)

// Option configures a model at construction time.
type Option = options.Option[*config]

type config struct {
	parallelism int
	logger      *zap.Logger
}

func defaultConfig() config {
	return config{
		parallelism: 1,
		logger:      zap.NewNop(),
	}
}

// WithParallelism bounds the number of goroutines used by Scores, FitAll and
// Evaluate. The default of 1 keeps every operation on the calling goroutine.
func WithParallelism(n int) Option {
	return options.New(func(c *config) error {
		if n < 1 {
			return fmt.Errorf("%w: %d", errs.ErrInvalidParallelism, n)
		}
		c.parallelism = n

		return nil
	})
}

// WithLogger sets the logger used by batch operations. A nil logger
// disables logging.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(c *config) {
		if logger == nil {
			logger = zap.NewNop()
		}
		c.logger = logger
	})
}
