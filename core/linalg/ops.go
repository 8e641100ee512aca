package linalg

import (
	"github.com/YuminosukeSato/fisherscore/pkg/errors"
)

// Transpose returns a new cols×rows matrix with result[j,i] = a[i,j].
func Transpose(a *Dense) *Dense {
	out := New(a.cols, a.rows)
	for i := 0; i < a.rows; i++ {
		for j := 0; j < a.cols; j++ {
			out.data[j*out.cols+i] = a.data[i*a.cols+j]
		}
	}
	return out
}

// Transpose returns a materialised transpose of m.
func (m *Dense) Transpose() *Dense {
	return Transpose(m)
}

// Multiply returns a·b. It fails with a DimensionError (ErrDimensionMismatch)
// when a.cols != b.rows.
func Multiply(a, b *Dense) (*Dense, error) {
	if a.cols != b.rows {
		return nil, errors.NewDimensionError("linalg.Multiply", a.cols, b.rows, 0)
	}
	out := New(a.rows, b.cols)
	for i := 0; i < a.rows; i++ {
		for j := 0; j < b.cols; j++ {
			var sum float64
			for k := 0; k < a.cols; k++ {
				sum += a.data[i*a.cols+k] * b.data[k*b.cols+j]
			}
			out.data[i*out.cols+j] = sum
		}
	}
	return out, nil
}

// MulVec returns a·v for a vector v of length a.cols.
func MulVec(a *Dense, v []float64) ([]float64, error) {
	if a.cols != len(v) {
		return nil, errors.NewDimensionError("linalg.MulVec", a.cols, len(v), 0)
	}
	out := make([]float64, a.rows)
	for i := 0; i < a.rows; i++ {
		row := a.data[i*a.cols : (i+1)*a.cols]
		var sum float64
		for k, x := range row {
			sum += x * v[k]
		}
		out[i] = sum
	}
	return out, nil
}

// Gram returns aᵀa without materialising the transpose.
func Gram(a *Dense) *Dense {
	p := a.cols
	out := New(p, p)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			var sum float64
			for k := 0; k < a.rows; k++ {
				sum += a.data[k*p+i] * a.data[k*p+j]
			}
			out.data[i*p+j] = sum
			out.data[j*p+i] = sum
		}
	}
	return out
}
