// Package linear は閉形式の最小二乗推定を提供する。
// 最尤推定の反復解と比較するための基準として使う。
package linear

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/fisherscore/core/linalg"
	"github.com/YuminosukeSato/fisherscore/pkg/errors"
)

// OLSResult は正規方程式の解
type OLSResult struct {
	Beta []float64
	// SigmaSq は最尤推定量 SSR/n（不偏推定量 SSR/(n-p) ではない）
	SigmaSq       float64
	SSR           float64
	LogLikelihood float64
	// XtXInv は (XᵀX)⁻¹。σ²·XtXInv が β の共分散になる
	XtXInv *linalg.Dense
}

// OLS は β = (XᵀX)⁻¹Xᵀy を計算する。X は切片列を含む n×p 計画行列、y は n×1。
func OLS(X, y *linalg.Dense) (*OLSResult, error) {
	if X == nil || y == nil {
		return nil, errors.NewModelError("linear.OLS", "nil input", errors.ErrEmptyData)
	}
	n, _ := X.Dims()
	ry, cy := y.Dims()
	if ry != n {
		return nil, errors.NewDimensionError("linear.OLS", n, ry, 0)
	}
	if cy != 1 {
		return nil, errors.NewDimensionError("linear.OLS", 1, cy, 1)
	}

	xtxInv, err := linalg.Invert(linalg.Gram(X))
	if err != nil {
		return nil, errors.Wrap(err, "linear.OLS: XᵀX")
	}
	xty, err := linalg.MulVec(X.Transpose(), y.Col(0))
	if err != nil {
		return nil, err
	}
	beta, err := linalg.MulVec(xtxInv, xty)
	if err != nil {
		return nil, err
	}

	fitted, err := linalg.MulVec(X, beta)
	if err != nil {
		return nil, err
	}
	resid := make([]float64, n)
	floats.SubTo(resid, y.Col(0), fitted)
	ssr := floats.Dot(resid, resid)
	sigmaSq := ssr / float64(n)

	res := &OLSResult{
		Beta:    beta,
		SigmaSq: sigmaSq,
		SSR:     ssr,
		XtXInv:  xtxInv,
	}
	// 完全に当てはまる場合 σ² = 0 で対数尤度は +Inf に発散する
	if sigmaSq > 0 {
		res.LogLikelihood = -0.5*float64(n)*math.Log(2*math.Pi*sigmaSq) - 0.5*float64(n)
	} else {
		res.LogLikelihood = math.Inf(1)
	}
	return res, nil
}

// Covariance は β の漸近共分散 σ²(XᵀX)⁻¹ を返す
func (r *OLSResult) Covariance() *linalg.Dense {
	return r.XtXInv.Scale(r.SigmaSq)
}
