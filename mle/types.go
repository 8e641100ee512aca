package mle

import (
	"github.com/YuminosukeSato/fisherscore/core/linalg"
)

// Parameters holds an estimate of the Gaussian linear model.
// len(Beta) is the parameter count p; it is never inferred from contents.
type Parameters struct {
	Beta    []float64
	SigmaSq float64
}

// NewParameters returns the scoring start point: β = 0, σ² = 1.
func NewParameters(p int) Parameters {
	return Parameters{Beta: make([]float64, p), SigmaSq: 1.0}
}

// P returns the number of regression coefficients.
func (p Parameters) P() int {
	return len(p.Beta)
}

// Clone returns a deep copy.
func (p Parameters) Clone() Parameters {
	beta := make([]float64, len(p.Beta))
	copy(beta, p.Beta)
	return Parameters{Beta: beta, SigmaSq: p.SigmaSq}
}

// Gradient is the score vector of the log-likelihood.
type Gradient struct {
	Beta    []float64 // Xᵀr / σ²
	SigmaSq float64   // -n/(2σ²) + SSR/(2σ⁴)
}

// FisherInformation is the expected information at a parameter value.
// The β and σ² blocks are independent, so no cross term is kept.
type FisherInformation struct {
	Beta    *linalg.Dense // XᵀX / σ², p×p
	SigmaSq float64       // n / (2σ⁴)
}

// Status is the terminal state of a scoring run.
type Status int

const (
	// StatusConverged means successive estimates moved by at most the tolerance.
	StatusConverged Status = iota
	// StatusMaxIterationsReached means the iteration budget ran out first.
	StatusMaxIterationsReached
)

func (s Status) String() string {
	switch s {
	case StatusConverged:
		return "converged"
	case StatusMaxIterationsReached:
		return "max_iterations_reached"
	default:
		return "unknown"
	}
}

// IterationRecord describes one completed scoring step. Record 0 holds the
// starting point.
type IterationRecord struct {
	Iteration         int
	LogLikelihood     float64
	SigmaSq           float64
	MaxBetaStep       float64 // max_i |β'_i - β_i|
	SigmaSqStep       float64 // |σ²' - σ²|
	VarianceCorrected bool    // the σ² halving fallback was applied
}
