package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/fisherscore/core/linalg"
	"github.com/YuminosukeSato/fisherscore/core/model"
	"github.com/YuminosukeSato/fisherscore/metrics"
	"github.com/YuminosukeSato/fisherscore/pkg/errors"
	"github.com/YuminosukeSato/fisherscore/pkg/log"
)

// LinearRegression は正規方程式による線形回帰モデル
type LinearRegression struct {
	model.BaseEstimator

	Coef      []float64 // 係数（fitIntercept のときは先頭が切片）
	SigmaSq   float64   // 残差分散の最尤推定量
	NFeatures int       // 入力 X の列数

	fitIntercept bool
	logger       log.Logger
}

var _ model.LinearModel = (*LinearRegression)(nil)

// NewLinearRegression は新しい線形回帰モデルを作成する
func NewLinearRegression(opts ...Option) *LinearRegression {
	lr := &LinearRegression{}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

func (lr *LinearRegression) log() log.Logger {
	if lr.logger == nil {
		return log.GetLogger()
	}
	return lr.logger
}

// design は入力を linalg.Dense に写し、必要なら切片列を補う
func (lr *LinearRegression) design(X mat.Matrix) *linalg.Dense {
	if !lr.fitIntercept {
		return linalg.FromMatrix(X)
	}
	r, c := X.Dims()
	d := linalg.New(r, c+1)
	for i := 0; i < r; i++ {
		d.Set(i, 0, 1)
		for j := 0; j < c; j++ {
			d.Set(i, j+1, X.At(i, j))
		}
	}
	return d
}

// Fit はモデルを訓練データで学習させる
func (lr *LinearRegression) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "LinearRegression.Fit")

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("LinearRegression.Fit", "empty data", errors.ErrEmptyData)
	}

	res, err := OLS(lr.design(X), linalg.FromMatrix(y))
	if err != nil {
		lr.log().Error("Fit failed", err, log.ModelNameKey, "LinearRegression")
		return err
	}

	lr.Coef = res.Beta
	lr.SigmaSq = res.SigmaSq
	lr.NFeatures = c
	lr.SetFitted()

	lr.log().Debug("Fit completed",
		log.ModelNameKey, "LinearRegression",
		log.SamplesKey, r,
		log.FeaturesKey, c,
		log.SigmaSqKey, res.SigmaSq,
	)
	return nil
}

// Predict は入力データに対する予測を行う
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "Predict")
	}
	r, c := X.Dims()
	if r == 0 {
		return nil, errors.NewValueError("LinearRegression.Predict", "empty input")
	}
	if c != lr.NFeatures {
		return nil, errors.NewDimensionError("LinearRegression.Predict", lr.NFeatures, c, 1)
	}

	pred, err := linalg.MulVec(lr.design(X), lr.Coef)
	if err != nil {
		return nil, err
	}
	return mat.NewDense(r, 1, pred), nil
}

// Coefficients は学習された係数のコピーを返す
func (lr *LinearRegression) Coefficients() []float64 {
	if lr.Coef == nil {
		return nil
	}
	out := make([]float64, len(lr.Coef))
	copy(out, lr.Coef)
	return out
}

// Score はモデルの決定係数（R²）を計算する
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	if !lr.IsFitted() {
		return 0, errors.NewNotFittedError("LinearRegression", "Score")
	}
	yPred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	yTrue, err := metrics.ColumnVector("LinearRegression.Score", y)
	if err != nil {
		return 0, err
	}
	yHat, err := metrics.ColumnVector("LinearRegression.Score", yPred)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(yTrue, yHat)
}
