// Package datasets builds design matrices for the estimators: a seeded
// synthetic generator for the Gaussian linear model and a CSV loader.
package datasets

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/fisherscore/core/linalg"
	"github.com/YuminosukeSato/fisherscore/pkg/errors"
)

// Dataset is a design matrix with an intercept column and its response.
type Dataset struct {
	X *linalg.Dense // n×p, column 0 is all ones
	Y *linalg.Dense // n×1
}

// Generator draws reproducible samples. It holds its own source, so two
// generators with the same seed produce the same stream regardless of any
// other random activity in the process. A Generator is not safe for
// concurrent use.
type Generator struct {
	src     rand.Source
	rng     *rand.Rand
	uniform distuv.Uniform
}

// NewGenerator returns a generator seeded with seed.
func NewGenerator(seed uint64) *Generator {
	src := rand.NewPCG(seed, seed)
	return &Generator{
		src:     src,
		rng:     rand.New(src),
		uniform: distuv.Uniform{Min: -1, Max: 1, Src: src},
	}
}

// StandardNormal draws from N(0, 1) with the Box–Muller transform.
func (g *Generator) StandardNormal() float64 {
	// Float64 is in [0,1); flip it so the logarithm never sees zero.
	u1 := 1 - g.rng.Float64()
	u2 := g.rng.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// LinearRegression draws n observations of y = Xβ + σz. Column 0 of X is the
// intercept; the remaining len(beta)-1 columns are uniform on [-1, 1].
func (g *Generator) LinearRegression(n int, beta []float64, sigma float64) (*Dataset, error) {
	if n < 1 {
		return nil, errors.NewValidationError("n", "must be at least 1", n)
	}
	if len(beta) == 0 {
		return nil, errors.NewValidationError("beta", "must not be empty", beta)
	}
	if !(sigma >= 0) || math.IsInf(sigma, 1) {
		return nil, errors.NewValidationError("sigma", "must be finite and non-negative", sigma)
	}

	p := len(beta)
	X := linalg.New(n, p)
	Y := linalg.New(n, 1)
	for i := 0; i < n; i++ {
		X.Set(i, 0, 1)
		mean := beta[0]
		for j := 1; j < p; j++ {
			x := g.uniform.Rand()
			X.Set(i, j, x)
			mean += beta[j] * x
		}
		Y.Set(i, 0, mean+sigma*g.StandardNormal())
	}
	return &Dataset{X: X, Y: Y}, nil
}

// Dims returns the number of samples and columns of the design.
func (d *Dataset) Dims() (n, p int) {
	return d.X.Dims()
}
