package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/fisherscore/datasets"
	"github.com/YuminosukeSato/fisherscore/linear"
	"github.com/YuminosukeSato/fisherscore/mle"
	"github.com/YuminosukeSato/fisherscore/pkg/errors"
	"github.com/YuminosukeSato/fisherscore/pkg/log"
	"github.com/YuminosukeSato/fisherscore/report"
)

type estimateFlags struct {
	tol      float64
	maxIter  int
	plotPath string
	logLevel string
	console  bool
}

func (f *estimateFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.tol, "tol", mle.DefaultTolerance, "convergence tolerance on parameter changes")
	cmd.Flags().IntVar(&f.maxIter, "max-iter", mle.DefaultMaxIter, "maximum number of scoring iterations")
	cmd.Flags().StringVar(&f.plotPath, "plot", "", "write the log-likelihood trace to this image file")
}

func newRootCommand() *cobra.Command {
	var common estimateFlags

	root := &cobra.Command{
		Use:           "mlefit",
		Short:         "Maximum-likelihood fit of the Gaussian linear model by Fisher scoring",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return log.SetupLogger(common.logLevel, cmd.ErrOrStderr(), common.console)
		},
	}
	root.PersistentFlags().StringVar(&common.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&common.console, "console", false, "human-readable log output instead of JSON")

	root.AddCommand(newSynthCommand(&common), newFitCommand(&common))
	return root
}

func newSynthCommand(common *estimateFlags) *cobra.Command {
	var (
		n     int
		beta  []float64
		sigma float64
		seed  uint64
	)
	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Generate a synthetic dataset and fit it",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.GetLogger().Info("Generating dataset",
				log.OperationKey, log.OperationGenerate,
				log.SamplesKey, n,
				log.FeaturesKey, len(beta),
				log.RandomSeedKey, seed,
			)
			ds, err := datasets.NewGenerator(seed).LinearRegression(n, beta, sigma)
			if err != nil {
				return err
			}
			names := make([]string, len(beta))
			names[0] = "intercept"
			for j := 1; j < len(names); j++ {
				names[j] = fmt.Sprintf("x%d", j)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "True beta: %v, true sigma^2: %g\n\n", beta, sigma*sigma)
			return run(cmd.Context(), cmd.OutOrStdout(), ds, names, common)
		},
	}
	cmd.Flags().IntVar(&n, "n", 100, "number of observations")
	cmd.Flags().Float64SliceVar(&beta, "beta", []float64{2.5, 1.5, -0.8}, "true coefficients, intercept first")
	cmd.Flags().Float64Var(&sigma, "sigma", 1.2, "true error standard deviation")
	cmd.Flags().Uint64Var(&seed, "seed", 12345, "random seed")
	common.register(cmd)
	return cmd
}

func newFitCommand(common *estimateFlags) *cobra.Command {
	var (
		path      string
		hasHeader bool
	)
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit a dataset read from CSV (regressors then response; an intercept is added)",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(path)
			if err != nil {
				return errors.Wrapf(err, "opening %s", path)
			}
			defer f.Close()

			ds, names, err := datasets.ReadCSV(f, hasHeader)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout(), ds, names, common)
		},
	}
	cmd.Flags().StringVar(&path, "csv", "", "input CSV file")
	cmd.Flags().BoolVar(&hasHeader, "header", false, "first CSV row holds column names")
	_ = cmd.MarkFlagRequired("csv")
	common.register(cmd)
	return cmd
}

// run estimates, prints the summary and OLS comparison and optionally plots
// the trace.
func run(ctx context.Context, w io.Writer, ds *datasets.Dataset, names []string, f *estimateFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := mle.Estimate(ctx, ds.X, ds.Y,
		mle.WithTolerance(f.tol),
		mle.WithMaxIter(f.maxIter),
	)
	if err != nil {
		return err
	}

	if err := report.WriteSummary(w, res, names); err != nil {
		return err
	}
	fmt.Fprintln(w)

	ols, err := linear.OLS(ds.X, ds.Y)
	if err != nil {
		return err
	}
	if err := report.WriteComparison(w, res, ols, names); err != nil {
		return err
	}

	if f.plotPath != "" {
		if err := report.PlotTrace(res, f.plotPath); err != nil {
			return err
		}
		fmt.Fprintf(w, "\nTrace written to %s\n", f.plotPath)
	}
	return nil
}
