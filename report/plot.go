package report

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/fisherscore/mle"
	"github.com/YuminosukeSato/fisherscore/pkg/errors"
)

// TraceSize is the width and height of the trace image.
var TraceSize = 5 * vg.Inch

// TracePlot builds a plot of the log-likelihood at every recorded iteration.
// The result must have been produced with history enabled.
func TracePlot(res *mle.Result) (*plot.Plot, error) {
	if res == nil || len(res.History) == 0 {
		return nil, errors.NewValueError("report.TracePlot", "result has no iteration history")
	}

	pts := make(plotter.XYs, len(res.History))
	for i, rec := range res.History {
		pts[i].X = float64(rec.Iteration)
		pts[i].Y = rec.LogLikelihood
	}

	p := plot.New()
	p.Title.Text = "Fisher scoring trace"
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "log-likelihood"
	p.Add(plotter.NewGrid())

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, errors.Wrap(err, "report.TracePlot")
	}
	p.Add(line, points)
	return p, nil
}

// PlotTrace renders TracePlot to path. The image format follows the file
// extension (png, svg, pdf, ...).
func PlotTrace(res *mle.Result, path string) error {
	p, err := TracePlot(res)
	if err != nil {
		return err
	}
	if err := p.Save(TraceSize, TraceSize*3/4, path); err != nil {
		return errors.Wrapf(err, "report.PlotTrace: saving %s", path)
	}
	return nil
}
