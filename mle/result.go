package mle

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/fisherscore/core/linalg"
	"github.com/YuminosukeSato/fisherscore/pkg/errors"
)

// Result is the outcome of a scoring run.
type Result struct {
	Params        Parameters
	Iterations    int
	LogLikelihood float64
	// Covariance is the asymptotic covariance of β, the inverse of the
	// β block of the Fisher information at Params.
	Covariance *linalg.Dense
	Converged  bool
	Status     Status
	NSamples   int

	// VarianceCorrections counts steps where the σ² halving fallback was
	// applied. Each one also appears in Warnings.
	VarianceCorrections int
	Warnings            []error
	History             []IterationRecord
}

// packageResult recomputes the log-likelihood and Fisher information at the
// final parameters and inverts the latter into the covariance of β.
func packageResult(X, y *linalg.Dense, params Parameters, iterations int, converged bool) (*Result, error) {
	ll, err := LogLikelihood(X, y, params)
	if err != nil {
		return nil, err
	}
	info, err := ComputeFisherInformation(X, params)
	if err != nil {
		return nil, err
	}
	cov, err := linalg.Invert(info.Beta)
	if err != nil {
		return nil, errors.Wrap(err, "mle.Estimate: covariance of final estimate")
	}

	n, p := X.Dims()
	if err := errors.CheckMatrix("covariance", cov, p, p, iterations); err != nil {
		return nil, err
	}
	status := StatusConverged
	if !converged {
		status = StatusMaxIterationsReached
	}
	return &Result{
		Params:        params,
		Iterations:    iterations,
		LogLikelihood: ll,
		Covariance:    cov,
		Converged:     converged,
		Status:        status,
		NSamples:      n,
	}, nil
}

// StandardErrors returns √diag(Covariance).
func (r *Result) StandardErrors() []float64 {
	se := r.Covariance.Diag()
	for i, v := range se {
		se[i] = math.Sqrt(v)
	}
	return se
}

// SigmaSqStandardError returns the asymptotic standard error of σ²,
// √(2σ⁴/n), the inverse root of its Fisher information.
func (r *Result) SigmaSqStandardError() float64 {
	return math.Sqrt(2/float64(r.NSamples)) * r.Params.SigmaSq
}

// CoefficientSummary is one row of the Wald coefficient table.
type CoefficientSummary struct {
	Index    int
	Estimate float64
	StdErr   float64
	ZScore   float64
	PValue   float64 // two-sided, standard normal reference
}

// Summary returns Wald statistics for every coefficient.
func (r *Result) Summary() []CoefficientSummary {
	normal := distuv.UnitNormal
	se := r.StandardErrors()
	out := make([]CoefficientSummary, len(se))
	for i := range se {
		est := r.Params.Beta[i]
		z := est / se[i]
		out[i] = CoefficientSummary{
			Index:    i,
			Estimate: est,
			StdErr:   se[i],
			ZScore:   z,
			PValue:   2 * normal.Survival(math.Abs(z)),
		}
	}
	return out
}

// Interval is a closed confidence interval.
type Interval struct {
	Lower, Upper float64
}

// ConfidenceIntervals returns Wald intervals β_i ± z·SE_i at the given
// level, which must lie in (0, 1).
func (r *Result) ConfidenceIntervals(level float64) ([]Interval, error) {
	if !(level > 0 && level < 1) {
		return nil, errors.NewValidationError("level", "must lie in (0, 1)", level)
	}
	z := distuv.UnitNormal.Quantile(1 - (1-level)/2)
	se := r.StandardErrors()
	out := make([]Interval, len(se))
	for i := range se {
		est := r.Params.Beta[i]
		out[i] = Interval{Lower: est - z*se[i], Upper: est + z*se[i]}
	}
	return out, nil
}
