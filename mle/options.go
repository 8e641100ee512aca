package mle

import (
	"github.com/YuminosukeSato/fisherscore/pkg/errors"
	"github.com/YuminosukeSato/fisherscore/pkg/log"
)

const (
	// DefaultTolerance is the convergence threshold on parameter changes.
	DefaultTolerance = 1e-6
	// DefaultMaxIter is the iteration budget.
	DefaultMaxIter = 1000
)

// Option configures a scoring run or a GaussianMLE estimator.
type Option func(*config)

type config struct {
	tol     float64
	maxIter int
	logger  log.Logger
	initial *Parameters
	history bool
}

func defaultConfig() config {
	return config{
		tol:     DefaultTolerance,
		maxIter: DefaultMaxIter,
		history: true,
	}
}

func newConfig(opts ...Option) (config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return config{}, err
	}
	if cfg.logger == nil {
		cfg.logger = log.GetLogger()
	}
	return cfg, nil
}

func (c config) validate() error {
	if !(c.tol > 0) {
		return errors.NewValidationError("tol", "must be positive", c.tol)
	}
	if c.maxIter < 1 {
		return errors.NewValidationError("max_iter", "must be at least 1", c.maxIter)
	}
	if c.initial != nil && !(c.initial.SigmaSq > 0) {
		return errors.NewValidationError("initial.sigma_sq", "must be positive", c.initial.SigmaSq)
	}
	return nil
}

// WithTolerance sets the convergence tolerance (default 1e-6).
func WithTolerance(tol float64) Option {
	return func(c *config) {
		c.tol = tol
	}
}

// WithMaxIter sets the iteration budget (default 1000).
func WithMaxIter(n int) Option {
	return func(c *config) {
		c.maxIter = n
	}
}

// WithLogger sets the logger. Defaults to log.GetLogger().
func WithLogger(l log.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithInitialParameters replaces the β = 0, σ² = 1 starting point.
func WithInitialParameters(p Parameters) Option {
	return func(c *config) {
		start := p.Clone()
		c.initial = &start
	}
}

// WithHistory toggles per-iteration records on the result (default on).
func WithHistory(enabled bool) Option {
	return func(c *config) {
		c.history = enabled
	}
}
