package linear

import "github.com/YuminosukeSato/fisherscore/pkg/log"

// Option は LinearRegression を設定する関数
type Option func(*LinearRegression)

// WithFitIntercept は計画行列の先頭に 1 の列を補うかどうかを設定する。
// 既定では X が切片列を含むものとして扱う。
func WithFitIntercept(fit bool) Option {
	return func(lr *LinearRegression) {
		lr.fitIntercept = fit
	}
}

// WithLogger はロガーを設定する
func WithLogger(l log.Logger) Option {
	return func(lr *LinearRegression) {
		lr.logger = l
	}
}
