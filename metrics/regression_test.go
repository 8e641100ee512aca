package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/fisherscore/pkg/errors"
)

type metricCase struct {
	name    string
	yTrue   *mat.VecDense
	yPred   *mat.VecDense
	want    float64
	wantErr bool
}

func vec(values ...float64) *mat.VecDense {
	return mat.NewVecDense(len(values), values)
}

func runMetricCases(t *testing.T, metric string, fn func(yTrue, yPred mat.Vector) (float64, error), cases []metricCase) {
	t.Helper()
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fn(tt.yTrue, tt.yPred)

			if (err != nil) != tt.wantErr {
				t.Errorf("%s() error = %v, wantErr %v", metric, err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("%s() = %v, want %v", metric, got, tt.want)
			}
		})
	}
}

func TestMSE(t *testing.T) {
	runMetricCases(t, "MSE", MSE, []metricCase{
		{name: "perfect prediction", yTrue: vec(1, 2, 3, 4, 5), yPred: vec(1, 2, 3, 4, 5), want: 0},
		// (0.25 + 0.25 + 0.25 + 0.25) / 4
		{name: "symmetric residuals", yTrue: vec(1, 2, 3, 4), yPred: vec(1.5, 2.5, 2.5, 3.5), want: 0.25},
		// (4 + 4 + 9) / 3
		{name: "larger errors", yTrue: vec(10, 20, 30), yPred: vec(12, 18, 33), want: 17.0 / 3.0},
		{name: "dimension mismatch", yTrue: vec(1, 2, 3), yPred: vec(1, 2), wantErr: true},
		{name: "empty vectors", yTrue: &mat.VecDense{}, yPred: &mat.VecDense{}, wantErr: true},
	})
}

func TestMSEDimensionErrorKind(t *testing.T) {
	_, err := MSE(vec(1, 2, 3), vec(1, 2))
	if !errors.Is(err, errors.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestMSEMatrix(t *testing.T) {
	got, err := MSEMatrix(
		mat.NewDense(4, 1, []float64{1, 2, 3, 4}),
		mat.NewDense(4, 1, []float64{1.5, 2.5, 2.5, 3.5}),
	)
	if err != nil {
		t.Fatalf("MSEMatrix() error = %v", err)
	}
	if math.Abs(got-0.25) > 1e-10 {
		t.Errorf("MSEMatrix() = %v, want 0.25", got)
	}

	wide := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	if _, err := MSEMatrix(wide, wide); err == nil {
		t.Error("MSEMatrix() should reject a matrix with more than one column")
	}
}

func TestRMSE(t *testing.T) {
	runMetricCases(t, "RMSE", RMSE, []metricCase{
		{name: "perfect prediction", yTrue: vec(1, 2, 3), yPred: vec(1, 2, 3), want: 0},
		{name: "unit offset", yTrue: vec(0, 0, 0, 0), yPred: vec(1, 1, 1, 1), want: 1},
		{name: "dimension mismatch", yTrue: vec(1, 2, 3), yPred: vec(1, 2), wantErr: true},
	})
}

func TestMAE(t *testing.T) {
	runMetricCases(t, "MAE", MAE, []metricCase{
		{name: "perfect prediction", yTrue: vec(1, 2, 3, 4, 5), yPred: vec(1, 2, 3, 4, 5), want: 0},
		{name: "swapped neighbours", yTrue: vec(1, 2, 3, 4), yPred: vec(2, 1, 4, 3), want: 1},
		{name: "half unit", yTrue: vec(1, 2, 3, 4), yPred: vec(1.5, 2.5, 2.5, 3.5), want: 0.5},
		{name: "dimension mismatch", yTrue: vec(1, 2, 3), yPred: vec(1, 2), wantErr: true},
	})
}

func TestR2Score(t *testing.T) {
	runMetricCases(t, "R2Score", R2Score, []metricCase{
		{name: "perfect prediction", yTrue: vec(1, 2, 3, 4, 5), yPred: vec(1, 2, 3, 4, 5), want: 1},
		// TSS = 5, RSS = 20
		{name: "worse than mean baseline", yTrue: vec(1, 2, 3, 4), yPred: vec(4, 3, 2, 1), want: -3},
		// 5-point fit y = 2.2 + 0.6x: SSR = 2.4, TSS = 6
		{name: "least squares fit", yTrue: vec(2, 4, 5, 4, 5), yPred: vec(2.8, 3.4, 4.0, 4.6, 5.2), want: 0.6},
		{name: "no variance in yTrue", yTrue: vec(3, 3, 3, 3, 3), yPred: vec(2, 3, 4, 3, 3), wantErr: true},
		{name: "dimension mismatch", yTrue: vec(1, 2, 3), yPred: vec(1, 2), wantErr: true},
	})
}

func TestExplainedVarianceScore(t *testing.T) {
	runMetricCases(t, "ExplainedVarianceScore", ExplainedVarianceScore, []metricCase{
		// a constant bias costs nothing in explained variance
		{name: "constant bias", yTrue: vec(1, 2, 3, 4), yPred: vec(2, 3, 4, 5), want: 1},
		{name: "least squares fit", yTrue: vec(2, 4, 5, 4, 5), yPred: vec(2.8, 3.4, 4.0, 4.6, 5.2), want: 0.6},
		{name: "no variance in yTrue", yTrue: vec(2, 2, 2), yPred: vec(1, 2, 3), wantErr: true},
	})
}

func BenchmarkMSE(b *testing.B) {
	size := 10000
	yTrue := mat.NewVecDense(size, nil)
	yPred := mat.NewVecDense(size, nil)
	for i := 0; i < size; i++ {
		yTrue.SetVec(i, float64(i))
		yPred.SetVec(i, float64(i)+0.1*float64(i%10))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = MSE(yTrue, yPred)
	}
}
