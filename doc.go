// Package fisherscore estimates the Gaussian linear model
//
//	y = Xβ + ε,  ε ~ N(0, σ²I)
//
// by maximum likelihood using Fisher scoring, with a small self-contained
// dense linear-algebra kernel.
//
// Each scoring iteration evaluates the gradient of the log-likelihood and the
// expected (Fisher) information at the current estimate, inverts the β block
// by Gauss-Jordan elimination with partial pivoting and takes the
// Newton-type step. The result carries the estimate, the log-likelihood, the
// asymptotic covariance of β, the convergence status and any warnings.
//
// # Installation
//
//	go get github.com/YuminosukeSato/fisherscore
//
// # Quick Start
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/fisherscore/datasets"
//	    "github.com/YuminosukeSato/fisherscore/mle"
//	)
//
//	func main() {
//	    ds, err := datasets.NewGenerator(12345).LinearRegression(100, []float64{2.5, 1.5, -0.8}, 1.2)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    res, err := mle.Estimate(context.Background(), ds.X, ds.Y)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(res.Params.Beta, res.Params.SigmaSq, res.Status)
//	}
//
// The same estimator is available behind a Fit/Predict/Score interface as
// mle.GaussianMLE.
//
// # Packages
//
//   - core/linalg: Dense matrix, transpose, multiply, Gauss-Jordan inverse
//   - mle: log-likelihood, gradient, Fisher information, scoring loop, results
//   - linear: closed-form least squares used as a reference
//   - datasets: seeded synthetic data and CSV loading
//   - metrics: regression metrics (MSE, RMSE, MAE, R²) and AIC/BIC
//   - report: text summaries and convergence-trace plots
//   - core/model: estimator state, interfaces and gob persistence
//   - pkg/errors, pkg/log: error taxonomy and structured logging
//
// The mlefit command in cmd/mlefit runs the whole pipeline from the shell.
//
// # License
//
// fisherscore is released under the MIT License.
package fisherscore
