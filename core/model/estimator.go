package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習データから推定できるモデル
type Fitter interface {
	// Fit は X (n×p) と y (n×1) からパラメータを推定する
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデル
type Predictor interface {
	// Predict は X の各行に対する予測値を n×1 行列で返す
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer は決定係数 R² でモデルを評価できる
type Scorer interface {
	Score(X, y mat.Matrix) (float64, error)
}

// LinearModel は係数ベクトルを公開する線形モデル。
// 切片は計画行列の列として扱うため、係数に含まれる。
type LinearModel interface {
	Fitter
	Predictor
	Scorer
	Coefficients() []float64
}
