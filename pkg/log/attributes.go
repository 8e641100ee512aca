// Standard attribute keys for estimation logs.
//
// Keys follow a hierarchical naming convention ("model.name",
// "data.samples") so logs can be filtered consistently across packages.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the estimator type.
	// Examples: "GaussianMLE", "LinearRegression"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "score", "estimate"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "mle", "linear", "datasets"
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of model lifecycle.
	PhaseKey = "ml.phase"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of columns of the design matrix.
	FeaturesKey = "data.features"
)

// Performance and Convergence
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// LossKey records the objective being minimised (negative log-likelihood).
	LossKey = "metrics.loss"

	// LogLikelihoodKey records the log-likelihood at the current estimate.
	LogLikelihoodKey = "metrics.log_likelihood"

	// R2ScoreKey records R² coefficient of determination for regression.
	R2ScoreKey = "metrics.r2_score"

	// IterationKey records the current iteration number during iterative processes.
	IterationKey = "training.iteration"

	// StepSizeKey records the largest absolute parameter change of a step.
	StepSizeKey = "training.step_size"

	// SigmaSqKey records the current error-variance estimate.
	SigmaSqKey = "training.sigma_sq"

	// ConvergedKey records whether the optimizer met its tolerance.
	ConvergedKey = "training.converged"
)

// Error and Warning Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"

	// StacktraceKey contains stack trace information for debugging.
	// Populated automatically when an error carries a cockroachdb stack.
	StacktraceKey = "error.stacktrace"

	// SuggestionKey provides helpful suggestions for resolving issues.
	SuggestionKey = "error.suggestion"
)

// Hyperparameters and Configuration
const (
	// ToleranceKey records the convergence tolerance.
	ToleranceKey = "hyperparams.tol"

	// MaxIterKey records the iteration budget.
	MaxIterKey = "hyperparams.max_iter"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"
)

// Standard attribute value constants.
const (
	OperationFit      = "fit"
	OperationPredict  = "predict"
	OperationScore    = "score"
	OperationEstimate = "estimate"
	OperationGenerate = "generate"

	PhaseTraining  = "training"
	PhaseInference = "inference"

	ErrorNotFitted            = "NOT_FITTED"
	ErrorDimensionMismatch    = "DIMENSION_MISMATCH"
	ErrorInvalidInput         = "INVALID_INPUT"
	ErrorConvergence          = "CONVERGENCE_FAILURE"
	ErrorSingularMatrix       = "SINGULAR_MATRIX"
	ErrorNonPositiveVar       = "NON_POSITIVE_VARIANCE"
	ErrorNumericalInstability = "NUMERICAL_INSTABILITY"
)
