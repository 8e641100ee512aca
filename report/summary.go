// Package report renders estimation results: an aligned text summary and a
// log-likelihood trace plot.
package report

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/YuminosukeSato/fisherscore/linear"
	"github.com/YuminosukeSato/fisherscore/metrics"
	"github.com/YuminosukeSato/fisherscore/mle"
	"github.com/YuminosukeSato/fisherscore/pkg/errors"
)

// ConfidenceLevel is the level of the intervals printed by WriteSummary.
const ConfidenceLevel = 0.95

func coefficientNames(names []string, p int) []string {
	if len(names) == p {
		return names
	}
	out := make([]string, p)
	for i := range out {
		out[i] = fmt.Sprintf("beta[%d]", i)
	}
	return out
}

// WriteSummary writes the fit statistics and the Wald coefficient table.
// names labels the coefficients; when its length does not match the
// coefficient count the rows are labelled beta[i].
func WriteSummary(w io.Writer, res *mle.Result, names []string) error {
	if res == nil {
		return errors.NewValueError("report.WriteSummary", "nil result")
	}
	p := res.Params.P()
	k := p + 1 // β and σ²
	aic, err := metrics.AIC(res.LogLikelihood, k)
	if err != nil {
		return err
	}
	bic, err := metrics.BIC(res.LogLikelihood, k, res.NSamples)
	if err != nil {
		return err
	}
	ci, err := res.ConfidenceIntervals(ConfidenceLevel)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Status:\t%s\t\n", res.Status)
	fmt.Fprintf(tw, "Iterations:\t%d\t\n", res.Iterations)
	fmt.Fprintf(tw, "Observations:\t%d\t\n", res.NSamples)
	fmt.Fprintf(tw, "Log-likelihood:\t%.4f\t\n", res.LogLikelihood)
	fmt.Fprintf(tw, "AIC:\t%.4f\t\n", aic)
	fmt.Fprintf(tw, "BIC:\t%.4f\t\n", bic)
	fmt.Fprintf(tw, "sigma^2:\t%.6f\t(se %.6f)\t\n", res.Params.SigmaSq, res.SigmaSqStandardError())
	if res.VarianceCorrections > 0 {
		fmt.Fprintf(tw, "Variance corrections:\t%d\t\n", res.VarianceCorrections)
	}
	fmt.Fprintln(tw)

	fmt.Fprintf(tw, "\tcoef\tstd err\tz\tP>|z|\t[%.3g\t%.3g]\t\n", (1-ConfidenceLevel)/2, 1-(1-ConfidenceLevel)/2)
	labels := coefficientNames(names, p)
	for i, row := range res.Summary() {
		fmt.Fprintf(tw, "%s\t%.6f\t%.6f\t%.3f\t%.4f\t%.6f\t%.6f\t\n",
			labels[i], row.Estimate, row.StdErr, row.ZScore, row.PValue, ci[i].Lower, ci[i].Upper)
	}
	return tw.Flush()
}

// WriteComparison writes the scoring estimate beside the closed-form OLS
// solution together with the largest absolute difference.
func WriteComparison(w io.Writer, res *mle.Result, ols *linear.OLSResult, names []string) error {
	if res == nil || ols == nil {
		return errors.NewValueError("report.WriteComparison", "nil result")
	}
	p := res.Params.P()
	if len(ols.Beta) != p {
		return errors.NewDimensionError("report.WriteComparison", p, len(ols.Beta), 0)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "\tscoring\tOLS\t|diff|\t")
	labels := coefficientNames(names, p)
	var maxDiff float64
	for i := 0; i < p; i++ {
		d := math.Abs(res.Params.Beta[i] - ols.Beta[i])
		maxDiff = math.Max(maxDiff, d)
		fmt.Fprintf(tw, "%s\t%.8f\t%.8f\t%.2e\t\n", labels[i], res.Params.Beta[i], ols.Beta[i], d)
	}
	d := math.Abs(res.Params.SigmaSq - ols.SigmaSq)
	maxDiff = math.Max(maxDiff, d)
	fmt.Fprintf(tw, "sigma^2\t%.8f\t%.8f\t%.2e\t\n", res.Params.SigmaSq, ols.SigmaSq, d)
	fmt.Fprintf(tw, "max |diff|\t\t\t%.2e\t\n", maxDiff)
	return tw.Flush()
}
