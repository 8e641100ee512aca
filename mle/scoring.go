// Package mle estimates the Gaussian linear model y = Xβ + ε, ε ~ N(0, σ²)
// by maximum likelihood using Fisher scoring.
//
// Each iteration evaluates the score and the expected information at the
// current estimate, inverts the β block and takes the Newton-type step
//
//	β' = β + I_β⁻¹ g_β
//	σ²' = σ² + g_σ² / I_σ²
//
// until successive estimates differ by at most the tolerance or the
// iteration budget is spent. A run that exhausts its budget is not an error:
// the best available estimate is returned with Converged set to false.
package mle

import (
	"context"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/fisherscore/core/linalg"
	"github.com/YuminosukeSato/fisherscore/pkg/errors"
	"github.com/YuminosukeSato/fisherscore/pkg/log"
)

const algorithmName = "FisherScoring"

// stepOutcome is what a single scoring step produces besides the new
// parameters.
type stepOutcome struct {
	maxBetaStep       float64
	sigmaSqStep       float64
	varianceCorrected bool
	proposedSigmaSq   float64
}

// Estimate runs Fisher scoring on design X (n×p) and response y (n×1).
//
// Linear-algebra failures (DimensionMismatch, SingularMatrix) abort the
// call with an error. Iteration exhaustion does not: the result carries
// Converged == false, Status == StatusMaxIterationsReached and a
// ConvergenceWarning.
//
// ctx is only consulted between iterations; a step that has started always
// finishes its matrix work.
func Estimate(ctx context.Context, X, y *linalg.Dense, opts ...Option) (*Result, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	n, p, err := validateDesign("mle.Estimate", X, y)
	if err != nil {
		return nil, err
	}

	current := NewParameters(p)
	if cfg.initial != nil {
		if cfg.initial.P() != p {
			return nil, errors.NewDimensionError("mle.Estimate", p, cfg.initial.P(), 1)
		}
		current = cfg.initial.Clone()
	}

	logger := cfg.logger.With(
		log.ModelNameKey, algorithmName,
		log.ComponentKey, "mle",
	)
	logger.Info("Estimation started",
		log.OperationKey, log.OperationEstimate,
		log.SamplesKey, n,
		log.FeaturesKey, p,
		log.ToleranceKey, cfg.tol,
		log.MaxIterKey, cfg.maxIter,
	)
	started := time.Now()

	var (
		history     []IterationRecord
		warnings    []error
		corrections int
		converged   bool
		iter        int
	)
	if cfg.history {
		ll, err := LogLikelihood(X, y, current)
		if err != nil {
			return nil, err
		}
		history = append(history, IterationRecord{Iteration: 0, LogLikelihood: ll, SigmaSq: current.SigmaSq})
	}

	for iter < cfg.maxIter {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "mle.Estimate: stopped after %d iterations", iter)
		}

		next, outcome, err := scoringStep(X, y, current, iter)
		if err != nil {
			logger.Error("Estimation failed", err,
				log.IterationKey, iter,
				log.ErrorCodeKey, errorCode(err),
			)
			return nil, err
		}

		if outcome.varianceCorrected {
			corrections++
			w := errors.NewNonPositiveVarianceWarning(iter+1, outcome.proposedSigmaSq, next.SigmaSq)
			warnings = append(warnings, w)
			logger.Warn("Variance correction applied",
				log.IterationKey, iter+1,
				log.ErrorCodeKey, log.ErrorNonPositiveVar,
				log.SigmaSqKey, next.SigmaSq,
			)
			// The zerolog sink would repeat the line just logged.
			if !errors.HasZerologWarnFunc() {
				errors.Warn(w)
			}
		}

		if cfg.history || logger.Enabled(ctx, log.LevelDebug) {
			ll, err := LogLikelihood(X, y, next)
			if err != nil {
				return nil, err
			}
			if cfg.history {
				history = append(history, IterationRecord{
					Iteration:         iter + 1,
					LogLikelihood:     ll,
					SigmaSq:           next.SigmaSq,
					MaxBetaStep:       outcome.maxBetaStep,
					SigmaSqStep:       outcome.sigmaSqStep,
					VarianceCorrected: outcome.varianceCorrected,
				})
			}
			logger.Debug("Scoring step",
				log.IterationKey, iter+1,
				log.LossKey, -ll,
				log.StepSizeKey, outcome.maxBetaStep,
				log.SigmaSqKey, next.SigmaSq,
			)
		}

		done := outcome.maxBetaStep <= cfg.tol && outcome.sigmaSqStep <= cfg.tol
		current = next
		if done {
			converged = true
			break
		}
		iter++
	}

	result, err := packageResult(X, y, current, iter, converged)
	if err != nil {
		logger.Error("Result packaging failed", err, log.ErrorCodeKey, errorCode(err))
		return nil, err
	}
	result.VarianceCorrections = corrections
	result.History = history
	result.Warnings = warnings

	if !converged {
		w := errors.NewConvergenceWarning(algorithmName, iter, "")
		result.Warnings = append(result.Warnings, w)
		errors.Warn(w)
	}

	logger.Info("Estimation finished",
		log.IterationKey, result.Iterations,
		log.ConvergedKey, result.Converged,
		log.LogLikelihoodKey, result.LogLikelihood,
		log.SigmaSqKey, result.Params.SigmaSq,
		log.DurationMsKey, time.Since(started).Milliseconds(),
	)
	return result, nil
}

// scoringStep performs one Fisher-scoring update from current. It never
// mutates current.
func scoringStep(X, y *linalg.Dense, current Parameters, iter int) (Parameters, stepOutcome, error) {
	grad, err := ComputeGradient(X, y, current)
	if err != nil {
		return Parameters{}, stepOutcome{}, err
	}
	info, err := ComputeFisherInformation(X, current)
	if err != nil {
		return Parameters{}, stepOutcome{}, err
	}

	infoInv, err := linalg.Invert(info.Beta)
	if err != nil {
		return Parameters{}, stepOutcome{}, errors.Wrapf(err, "mle.Estimate: fisher information at iteration %d", iter)
	}

	delta, err := linalg.MulVec(infoInv, grad.Beta)
	if err != nil {
		return Parameters{}, stepOutcome{}, err
	}

	next := Parameters{Beta: make([]float64, current.P())}
	floats.AddTo(next.Beta, current.Beta, delta)
	next.SigmaSq = current.SigmaSq + grad.SigmaSq/info.SigmaSq

	outcome := stepOutcome{proposedSigmaSq: next.SigmaSq}
	if next.SigmaSq <= 0 {
		next.SigmaSq = current.SigmaSq / 2
		outcome.varianceCorrected = true
	}

	if err := errors.CheckNumericalStability("beta_update", next.Beta, iter); err != nil {
		return Parameters{}, stepOutcome{}, err
	}
	if err := errors.CheckScalar("sigma_sq_update", next.SigmaSq, iter); err != nil {
		return Parameters{}, stepOutcome{}, err
	}

	outcome.maxBetaStep = maxAbsDiff(next.Beta, current.Beta)
	outcome.sigmaSqStep = math.Abs(next.SigmaSq - current.SigmaSq)
	return next, outcome, nil
}

// maxAbsDiff returns max_i |a_i - b_i| over the explicit length of a.
func maxAbsDiff(a, b []float64) float64 {
	if len(a) == 0 {
		return 0
	}
	return floats.Distance(a, b, math.Inf(1))
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, errors.ErrSingularMatrix):
		return log.ErrorSingularMatrix
	case errors.Is(err, errors.ErrDimensionMismatch):
		return log.ErrorDimensionMismatch
	case errors.As(err, new(*errors.NumericalInstabilityError)):
		return log.ErrorNumericalInstability
	default:
		return log.ErrorInvalidInput
	}
}
