package mle

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/fisherscore/core/linalg"
	"github.com/YuminosukeSato/fisherscore/datasets"
	"github.com/YuminosukeSato/fisherscore/linear"
	"github.com/YuminosukeSato/fisherscore/pkg/errors"
	"github.com/YuminosukeSato/fisherscore/pkg/log"
)

// captureWarnings routes errors.Warn into a slice for the duration of a test.
func captureWarnings(t *testing.T) func() []error {
	t.Helper()
	var (
		mu  sync.Mutex
		got []error
	)
	errors.SetWarningHandler(func(w error) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, w)
	})
	t.Cleanup(func() { errors.SetWarningHandler(func(w error) {}) })
	return func() []error {
		mu.Lock()
		defer mu.Unlock()
		return append([]error(nil), got...)
	}
}

func TestEstimateFivePoint(t *testing.T) {
	X, y := fivePoint(t)

	res, err := Estimate(context.Background(), X, y)
	require.NoError(t, err)

	assert.True(t, res.Converged)
	assert.Equal(t, StatusConverged, res.Status)
	assert.Equal(t, "converged", res.Status.String())
	// step 1 reaches the OLS β, step 2 the OLS σ², step 3 confirms
	assert.Equal(t, 2, res.Iterations)
	assert.Equal(t, 5, res.NSamples)
	assert.Zero(t, res.VarianceCorrections)
	assert.Empty(t, res.Warnings)

	assert.InDeltaSlice(t, []float64{2.2, 0.6}, res.Params.Beta, 1e-9)
	assert.InDelta(t, 0.48, res.Params.SigmaSq, 1e-9)
	assert.InDelta(t, -5.259769728, res.LogLikelihood, 1e-8)

	want, err := linalg.NewDense(2, 2, []float64{0.528, -0.144, -0.144, 0.048})
	require.NoError(t, err)
	assert.True(t, linalg.EqualApprox(want, res.Covariance, 1e-9), "covariance %v", res.Covariance)
}

func TestEstimateFirstStepIsOLS(t *testing.T) {
	X, y := fivePoint(t)

	res, err := Estimate(context.Background(), X, y, WithMaxIter(1))
	require.NoError(t, err)

	assert.False(t, res.Converged)
	assert.Equal(t, StatusMaxIterationsReached, res.Status)
	assert.Equal(t, 1, res.Iterations)
	assert.InDeltaSlice(t, []float64{2.2, 0.6}, res.Params.Beta, 1e-9)
	// one scoring step from σ² = 1 lands on SSR(0)/n = 86/5
	assert.InDelta(t, 17.2, res.Params.SigmaSq, 1e-9)

	require.Len(t, res.Warnings, 1)
	var conv *errors.ConvergenceWarning
	assert.True(t, errors.As(res.Warnings[0], &conv))
}

func TestEstimateMatchesOLS(t *testing.T) {
	g := datasets.NewGenerator(2024)
	ds, err := g.LinearRegression(200, []float64{-1, 0.5, 3, 2}, 0.7)
	require.NoError(t, err)

	res, err := Estimate(context.Background(), ds.X, ds.Y)
	require.NoError(t, err)
	require.True(t, res.Converged)

	ols, err := linear.OLS(ds.X, ds.Y)
	require.NoError(t, err)
	assert.InDeltaSlice(t, ols.Beta, res.Params.Beta, 1e-6)
	assert.InDelta(t, ols.SigmaSq, res.Params.SigmaSq, 1e-6)
	assert.InDelta(t, ols.LogLikelihood, res.LogLikelihood, 1e-6)
	assert.True(t, linalg.EqualApprox(ols.Covariance(), res.Covariance, 1e-6))
}

func TestEstimateSyntheticRecovery(t *testing.T) {
	trueBeta := []float64{2.5, 1.5, -0.8}
	const trueSigma = 1.2

	g := datasets.NewGenerator(12345)
	ds, err := g.LinearRegression(100, trueBeta, trueSigma)
	require.NoError(t, err)

	res, err := Estimate(context.Background(), ds.X, ds.Y)
	require.NoError(t, err)
	require.True(t, res.Converged)

	se := res.StandardErrors()
	for i, b := range trueBeta {
		assert.InDelta(t, b, res.Params.Beta[i], 4*se[i], "beta[%d]", i)
	}
	// σ² has standard error ≈ 1.44·√(2/100) ≈ 0.2 at this size
	assert.InDelta(t, trueSigma*trueSigma, res.Params.SigmaSq, 0.8)
}

func TestEstimateSigmaSqRecoveryLargeSample(t *testing.T) {
	g := datasets.NewGenerator(12345)
	ds, err := g.LinearRegression(2000, []float64{2.5, 1.5, -0.8}, 1.2)
	require.NoError(t, err)

	res, err := Estimate(context.Background(), ds.X, ds.Y, WithHistory(false))
	require.NoError(t, err)
	assert.InEpsilon(t, 1.44, res.Params.SigmaSq, 0.2)
	assert.Nil(t, res.History)
}

func TestEstimateLogLikelihoodNonDecreasing(t *testing.T) {
	g := datasets.NewGenerator(99)
	ds, err := g.LinearRegression(60, []float64{0.3, -2, 4}, 2)
	require.NoError(t, err)

	res, err := Estimate(context.Background(), ds.X, ds.Y)
	require.NoError(t, err)
	require.Len(t, res.History, res.Iterations+2)

	assert.Equal(t, 0, res.History[0].Iteration)
	assert.Equal(t, 1.0, res.History[0].SigmaSq)
	for i := 1; i < len(res.History); i++ {
		prev, cur := res.History[i-1], res.History[i]
		assert.Equal(t, i, cur.Iteration)
		assert.GreaterOrEqual(t, cur.LogLikelihood, prev.LogLikelihood-1e-9,
			"log-likelihood dropped at iteration %d", i)
	}
	assert.InDelta(t, res.LogLikelihood, res.History[len(res.History)-1].LogLikelihood, 1e-12)
}

func TestEstimateVarianceCorrection(t *testing.T) {
	warnings := captureWarnings(t)
	X, _ := fivePoint(t)
	y := linalg.New(5, 1)

	res, err := Estimate(context.Background(), X, y)
	require.NoError(t, err)

	// every step proposes σ² = SSR/n = 0 and falls back to halving, so
	// σ² = 2⁻ᵏ after step k and the change first drops below 1e-6 at k = 20
	assert.True(t, res.Converged)
	assert.Equal(t, 20, res.VarianceCorrections)
	assert.Equal(t, 19, res.Iterations)
	assert.Equal(t, math.Ldexp(1, -20), res.Params.SigmaSq)
	assert.Equal(t, []float64{0, 0}, res.Params.Beta)

	require.Len(t, res.Warnings, 20)
	var vw *errors.NonPositiveVarianceWarning
	require.True(t, errors.As(res.Warnings[0], &vw))
	assert.Equal(t, 1, vw.Iteration)
	assert.Equal(t, 0.5, vw.Applied)
	assert.LessOrEqual(t, vw.Proposed, 0.0)

	assert.Len(t, warnings(), 20)
	for _, rec := range res.History[1:] {
		assert.True(t, rec.VarianceCorrected)
	}
}

func TestEstimateErrors(t *testing.T) {
	X, y := fivePoint(t)

	t.Run("singular information", func(t *testing.T) {
		dup, err := linalg.NewDense(5, 3, []float64{
			1, 1, 1,
			1, 2, 2,
			1, 3, 3,
			1, 4, 4,
			1, 5, 5,
		})
		require.NoError(t, err)
		_, err = Estimate(context.Background(), dup, y)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrSingularMatrix), "got %v", err)
		assert.Contains(t, err.Error(), "iteration 0")
	})

	t.Run("row mismatch", func(t *testing.T) {
		_, err := Estimate(context.Background(), X, linalg.NewColumn([]float64{1, 2, 3}))
		assert.True(t, errors.Is(err, errors.ErrDimensionMismatch), "got %v", err)
	})

	t.Run("initial parameters of wrong length", func(t *testing.T) {
		_, err := Estimate(context.Background(), X, y, WithInitialParameters(NewParameters(3)))
		assert.True(t, errors.Is(err, errors.ErrDimensionMismatch), "got %v", err)
	})

	t.Run("nil design", func(t *testing.T) {
		_, err := Estimate(context.Background(), nil, y)
		assert.True(t, errors.Is(err, errors.ErrEmptyData), "got %v", err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Estimate(ctx, X, y)
		assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	})
}

func TestEstimateInvalidOptions(t *testing.T) {
	X, y := fivePoint(t)
	tests := []struct {
		name string
		opt  Option
	}{
		{"zero tolerance", WithTolerance(0)},
		{"nan tolerance", WithTolerance(math.NaN())},
		{"zero iterations", WithMaxIter(0)},
		{"non-positive start variance", WithInitialParameters(Parameters{Beta: []float64{0, 0}, SigmaSq: 0})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Estimate(context.Background(), X, y, tt.opt)
			var valErr *errors.ValidationError
			assert.True(t, errors.As(err, &valErr), "got %v", err)
		})
	}
}

func TestEstimateFromInitialParameters(t *testing.T) {
	X, y := fivePoint(t)

	res, err := Estimate(context.Background(), X, y,
		WithInitialParameters(Parameters{Beta: []float64{2.2, 0.6}, SigmaSq: 0.48}))
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Equal(t, 0, res.Iterations)
}

func TestEstimateLogging(t *testing.T) {
	X, y := fivePoint(t)
	logger, _ := log.NewTestLogger(log.LevelDebug)

	_, err := Estimate(context.Background(), X, y, WithLogger(logger))
	require.NoError(t, err)

	assert.Len(t, logger.EntriesWithMessage("Estimation started"), 1)
	assert.Len(t, logger.EntriesWithMessage("Scoring step"), 3)
	assert.True(t, logger.ContainsField(log.ModelNameKey, "FisherScoring"))
	assert.True(t, logger.ContainsField(log.ConvergedKey, true))
	assert.True(t, logger.ContainsField(log.SamplesKey, float64(5)))

	logger.Clear()
	captureWarnings(t)
	_, err = Estimate(context.Background(), X, linalg.New(5, 1), WithLogger(logger))
	require.NoError(t, err)
	corrections := logger.EntriesWithMessage("Variance correction applied")
	require.Len(t, corrections, 20)
	assert.Equal(t, log.ErrorNonPositiveVar, corrections[0][log.ErrorCodeKey])
}

func TestEstimateLogsFailure(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelInfo)
	dup, err := linalg.NewDense(3, 2, []float64{1, 1, 2, 2, 3, 3})
	require.NoError(t, err)

	_, err = Estimate(context.Background(), dup, linalg.NewColumn([]float64{1, 2, 3}), WithLogger(logger))
	require.Error(t, err)
	assert.True(t, logger.ContainsField(log.ErrorCodeKey, log.ErrorSingularMatrix))
}

func TestEstimateLogsNumericalInstability(t *testing.T) {
	X, _ := fivePoint(t)
	logger, _ := log.NewTestLogger(log.LevelInfo)

	_, err := Estimate(context.Background(), X,
		linalg.NewColumn([]float64{2, 4, math.Inf(1), 4, 5}), WithLogger(logger))
	var numErr *errors.NumericalInstabilityError
	require.True(t, errors.As(err, &numErr), "got %v", err)
	assert.True(t, logger.ContainsField(log.ErrorCodeKey, log.ErrorNumericalInstability))
	assert.False(t, logger.ContainsField(log.ErrorCodeKey, log.ErrorInvalidInput))
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"singular", errors.NewSingularMatrixError("invert", 1, 0), log.ErrorSingularMatrix},
		{"dimension", errors.NewDimensionError("op", 2, 3, 1), log.ErrorDimensionMismatch},
		{"instability", errors.NewNumericalInstabilityError("beta_update", []float64{math.NaN()}, 1), log.ErrorNumericalInstability},
		{"other", errors.NewValueError("op", "bad"), log.ErrorInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorCode(errors.Wrap(tt.err, "wrapped")))
		})
	}
}

func TestVarianceCorrectionLoggedOnceWithZerologSink(t *testing.T) {
	X, _ := fivePoint(t)
	logger, _ := log.NewTestLogger(log.LevelInfo)
	handled := captureWarnings(t)

	var (
		mu   sync.Mutex
		sunk []error
	)
	errors.SetZerologWarnFunc(func(w error) {
		mu.Lock()
		defer mu.Unlock()
		sunk = append(sunk, w)
	})
	t.Cleanup(func() { errors.SetZerologWarnFunc(nil) })

	res, err := Estimate(context.Background(), X, linalg.New(5, 1), WithLogger(logger))
	require.NoError(t, err)
	assert.Len(t, res.Warnings, 20)
	assert.Len(t, logger.EntriesWithMessage("Variance correction applied"), 20)

	mu.Lock()
	defer mu.Unlock()
	assert.Empty(t, sunk)
	assert.Empty(t, handled())
}

func BenchmarkEstimate(b *testing.B) {
	g := datasets.NewGenerator(1)
	ds, err := g.LinearRegression(1000, []float64{1, 2, 3, 4, 5}, 1)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Estimate(context.Background(), ds.X, ds.Y, WithHistory(false)); err != nil {
			b.Fatal(err)
		}
	}
}
