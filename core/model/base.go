package model

// EstimatorState はモデルの推定状態を表す
type EstimatorState int

const (
	// NotFitted は未推定の状態
	NotFitted EstimatorState = iota
	// Fitted は推定済みの状態
	Fitted
)

func (s EstimatorState) String() string {
	if s == Fitted {
		return "fitted"
	}
	return "not_fitted"
}

// BaseEstimator は単純な推定器に埋め込む状態フラグ。
// 並行アクセスを伴う推定器は StateManager を使う。
type BaseEstimator struct {
	State EstimatorState // gob 用に公開
}

// IsFitted は推定済みかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.State == Fitted
}

// SetFitted は推定済み状態に設定する
func (e *BaseEstimator) SetFitted() {
	e.State = Fitted
}

// Reset は初期状態に戻す
func (e *BaseEstimator) Reset() {
	e.State = NotFitted
}
