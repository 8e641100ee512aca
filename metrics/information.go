package metrics

import (
	"math"

	"github.com/YuminosukeSato/fisherscore/pkg/errors"
)

// AIC returns Akaike's information criterion 2k - 2·logLik, where k counts
// every estimated parameter (for the Gaussian linear model, p + 1).
func AIC(logLik float64, k int) (float64, error) {
	if k < 1 {
		return 0, errors.NewValidationError("k", "must be at least 1", k)
	}
	return 2*float64(k) - 2*logLik, nil
}

// BIC returns the Bayesian information criterion k·ln(n) - 2·logLik.
func BIC(logLik float64, k, n int) (float64, error) {
	if k < 1 {
		return 0, errors.NewValidationError("k", "must be at least 1", k)
	}
	if n < 1 {
		return 0, errors.NewValidationError("n", "must be at least 1", n)
	}
	return float64(k)*math.Log(float64(n)) - 2*logLik, nil
}
