package mle

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/fisherscore/core/linalg"
	"github.com/YuminosukeSato/fisherscore/pkg/errors"
)

var log2Pi = math.Log(2 * math.Pi)

// validateDesign checks X (n×p), y (n×1) and returns n and p.
func validateDesign(op string, X, y *linalg.Dense) (n, p int, err error) {
	if X == nil || y == nil {
		return 0, 0, errors.NewModelError(op, "nil input", errors.ErrEmptyData)
	}
	n, p = X.Dims()
	ry, cy := y.Dims()
	if ry != n {
		return 0, 0, errors.NewDimensionError(op, n, ry, 0)
	}
	if cy != 1 {
		return 0, 0, errors.NewDimensionError(op, 1, cy, 1)
	}
	return n, p, nil
}

func validateParameters(op string, p int, params Parameters) error {
	if params.P() != p {
		return errors.NewDimensionError(op, p, params.P(), 1)
	}
	if !(params.SigmaSq > 0) {
		return errors.NewValueError(op, fmt.Sprintf("sigma_sq must be positive, got %g", params.SigmaSq))
	}
	return nil
}

// Residuals returns r = y - Xβ.
func Residuals(X, y *linalg.Dense, beta []float64) ([]float64, error) {
	fitted, err := linalg.MulVec(X, beta)
	if err != nil {
		return nil, err
	}
	r := y.Col(0)
	floats.Sub(r, fitted)
	return r, nil
}

// SSR returns the sum of squared residuals at beta.
func SSR(X, y *linalg.Dense, beta []float64) (float64, error) {
	r, err := Residuals(X, y, beta)
	if err != nil {
		return 0, err
	}
	return floats.Dot(r, r), nil
}

// LogLikelihood returns -n/2·ln(2π) - n/2·ln(σ²) - SSR/(2σ²).
func LogLikelihood(X, y *linalg.Dense, params Parameters) (float64, error) {
	n, p, err := validateDesign("mle.LogLikelihood", X, y)
	if err != nil {
		return 0, err
	}
	if err := validateParameters("mle.LogLikelihood", p, params); err != nil {
		return 0, err
	}
	ssr, err := SSR(X, y, params.Beta)
	if err != nil {
		return 0, err
	}
	return gaussianLogLikelihood(n, ssr, params.SigmaSq), nil
}

func gaussianLogLikelihood(n int, ssr, sigmaSq float64) float64 {
	fn := float64(n)
	return -0.5*fn*log2Pi - 0.5*fn*math.Log(sigmaSq) - ssr/(2*sigmaSq)
}

// ComputeGradient returns the score: Xᵀr/σ² for β and
// -n/(2σ²) + SSR/(2σ⁴) for σ².
func ComputeGradient(X, y *linalg.Dense, params Parameters) (Gradient, error) {
	n, p, err := validateDesign("mle.ComputeGradient", X, y)
	if err != nil {
		return Gradient{}, err
	}
	if err := validateParameters("mle.ComputeGradient", p, params); err != nil {
		return Gradient{}, err
	}

	r, err := Residuals(X, y, params.Beta)
	if err != nil {
		return Gradient{}, err
	}

	s2 := params.SigmaSq
	grad := Gradient{Beta: make([]float64, p)}
	data := X.RawData()
	for i := 0; i < n; i++ {
		ri := r[i]
		row := data[i*p : (i+1)*p]
		for j, x := range row {
			grad.Beta[j] += x * ri
		}
	}
	floats.Scale(1/s2, grad.Beta)

	ssr := floats.Dot(r, r)
	grad.SigmaSq = -float64(n)/(2*s2) + ssr/(2*s2*s2)
	return grad, nil
}

// ComputeFisherInformation returns XᵀX/σ² and n/(2σ⁴).
func ComputeFisherInformation(X *linalg.Dense, params Parameters) (FisherInformation, error) {
	if X == nil {
		return FisherInformation{}, errors.NewModelError("mle.ComputeFisherInformation", "nil input", errors.ErrEmptyData)
	}
	n, p := X.Dims()
	if err := validateParameters("mle.ComputeFisherInformation", p, params); err != nil {
		return FisherInformation{}, err
	}
	s2 := params.SigmaSq
	return FisherInformation{
		Beta:    linalg.Gram(X).Scale(1 / s2),
		SigmaSq: float64(n) / (2 * s2 * s2),
	}, nil
}
