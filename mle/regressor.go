package mle

import (
	"context"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/fisherscore/core/linalg"
	"github.com/YuminosukeSato/fisherscore/core/model"
	"github.com/YuminosukeSato/fisherscore/metrics"
	"github.com/YuminosukeSato/fisherscore/pkg/errors"
)

const estimatorName = "GaussianMLE"

// GaussianMLE wraps Estimate behind the Fit/Predict/Score estimator
// interface. X is the full design matrix; include a column of ones for an
// intercept.
//
// A GaussianMLE is safe for concurrent use. A Fit running alongside
// Predict swaps in its result only once estimation has finished.
type GaussianMLE struct {
	mu     sync.RWMutex // guards opts, cfg and result
	state  *model.StateManager
	opts   []Option
	cfg    config
	result *Result
}

var (
	_ model.Fitter      = (*GaussianMLE)(nil)
	_ model.Predictor   = (*GaussianMLE)(nil)
	_ model.LinearModel = (*GaussianMLE)(nil)
)

// NewGaussianMLE returns an unfitted estimator. Option errors surface from
// Fit.
func NewGaussianMLE(opts ...Option) *GaussianMLE {
	return &GaussianMLE{
		state: model.NewStateManager(),
		opts:  opts,
		cfg:   defaultConfig(),
	}
}

// Fit estimates β and σ² from X (n×p) and y (n×1).
func (g *GaussianMLE) Fit(X, y mat.Matrix) error {
	return g.FitContext(context.Background(), X, y)
}

// FitContext is Fit with cancellation between iterations. A failed fit
// leaves the estimator unfitted.
func (g *GaussianMLE) FitContext(ctx context.Context, X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "GaussianMLE.Fit")

	g.mu.RLock()
	opts := g.opts
	g.mu.RUnlock()

	cfg, err := newConfig(opts...)
	if err != nil {
		return err
	}

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("GaussianMLE.Fit", "empty data", errors.ErrEmptyData)
	}

	res, err := Estimate(ctx, linalg.FromMatrix(X), linalg.FromMatrix(y), opts...)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.cfg = cfg
	if err != nil {
		g.state.Reset()
		g.result = nil
		return err
	}
	g.result = res
	g.state.SetFitted(c, r)
	return nil
}

// Predict returns Xβ as an n×1 matrix.
func (g *GaussianMLE) Predict(X mat.Matrix) (mat.Matrix, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if err := g.state.RequireFitted(estimatorName, "Predict"); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	if r == 0 {
		return nil, errors.NewValueError("GaussianMLE.Predict", "empty input")
	}
	if err := g.state.RequireFeatures("GaussianMLE.Predict", c); err != nil {
		return nil, err
	}
	pred, err := linalg.MulVec(linalg.FromMatrix(X), g.result.Params.Beta)
	if err != nil {
		return nil, err
	}
	return mat.NewDense(r, 1, pred), nil
}

// Score returns the R² of the predictions on X against y.
func (g *GaussianMLE) Score(X, y mat.Matrix) (float64, error) {
	pred, err := g.Predict(X)
	if err != nil {
		return 0, err
	}
	yTrue, err := metrics.ColumnVector("GaussianMLE.Score", y)
	if err != nil {
		return 0, err
	}
	yHat, err := metrics.ColumnVector("GaussianMLE.Score", pred)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(yTrue, yHat)
}

// Coefficients returns a copy of β, or nil before Fit.
func (g *GaussianMLE) Coefficients() []float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.state.IsFitted() {
		return nil
	}
	return g.result.Params.Clone().Beta
}

// SigmaSq returns the error-variance estimate, or 0 before Fit.
func (g *GaussianMLE) SigmaSq() float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.state.IsFitted() {
		return 0
	}
	return g.result.Params.SigmaSq
}

// Result returns the full scoring result of the last successful fit.
func (g *GaussianMLE) Result() (*Result, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if err := g.state.RequireFitted(estimatorName, "Result"); err != nil {
		return nil, err
	}
	return g.result, nil
}

// GetParams returns the hyper-parameters.
func (g *GaussianMLE) GetParams() map[string]interface{} {
	g.mu.RLock()
	defer g.mu.RUnlock()
	cfg := g.cfg
	if c, err := newConfig(g.opts...); err == nil {
		cfg = c
	}
	return map[string]interface{}{
		"tol":      cfg.tol,
		"max_iter": cfg.maxIter,
		"history":  cfg.history,
	}
}

// snapshot is the gob form of a fitted GaussianMLE. History and warnings
// are not persisted.
type snapshot struct {
	State               model.ModelState
	Beta                []float64
	SigmaSq             float64
	Covariance          []float64
	Iterations          int
	LogLikelihood       float64
	Converged           bool
	VarianceCorrections int
	Tol                 float64
	MaxIter             int
}

// Save writes the fitted estimator to filename.
func (g *GaussianMLE) Save(filename string) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if err := g.state.RequireFitted(estimatorName, "Save"); err != nil {
		return err
	}
	res := g.result
	snap := snapshot{
		State:               g.state.GetState(),
		Beta:                res.Params.Beta,
		SigmaSq:             res.Params.SigmaSq,
		Covariance:          res.Covariance.RawData(),
		Iterations:          res.Iterations,
		LogLikelihood:       res.LogLikelihood,
		Converged:           res.Converged,
		VarianceCorrections: res.VarianceCorrections,
		Tol:                 g.cfg.tol,
		MaxIter:             g.cfg.maxIter,
	}
	return model.SaveModel(&snap, filename)
}

// Load restores an estimator written by Save. The options it was created
// with are replaced by the persisted tolerance and iteration budget.
func (g *GaussianMLE) Load(filename string) error {
	var snap snapshot
	if err := model.LoadModel(&snap, filename); err != nil {
		return err
	}
	p := len(snap.Beta)
	if p == 0 || p != snap.State.NFeatures {
		return errors.NewModelError("GaussianMLE.Load", "corrupt snapshot", errors.ErrDimensionMismatch)
	}
	cov, err := linalg.NewDense(p, p, snap.Covariance)
	if err != nil {
		return errors.Wrap(err, "GaussianMLE.Load: covariance")
	}

	status := StatusConverged
	if !snap.Converged {
		status = StatusMaxIterationsReached
	}
	res := &Result{
		Params:              Parameters{Beta: snap.Beta, SigmaSq: snap.SigmaSq},
		Iterations:          snap.Iterations,
		LogLikelihood:       snap.LogLikelihood,
		Covariance:          cov,
		Converged:           snap.Converged,
		Status:              status,
		NSamples:            snap.State.NSamples,
		VarianceCorrections: snap.VarianceCorrections,
	}

	opts := []Option{WithTolerance(snap.Tol), WithMaxIter(snap.MaxIter)}
	cfg, err := newConfig(opts...)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.opts, g.cfg = opts, cfg
	g.result = res
	g.state.SetState(snap.State)
	return nil
}
