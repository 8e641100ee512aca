// Package linalg provides the small dense linear-algebra kernel used by the
// estimators: a row-major matrix type, transpose, multiplication and
// Gauss-Jordan inversion with partial pivoting.
//
// Dense satisfies gonum's mat.Matrix, so values can be handed to gonum
// routines and gonum matrices can be copied in with FromMatrix.
package linalg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/fisherscore/pkg/errors"
)

// Dense is a row-major matrix of float64 values.
// Invariant: len(data) == rows*cols.
type Dense struct {
	rows, cols int
	data       []float64
}

var _ mat.Matrix = (*Dense)(nil)

// New returns a zero-filled rows×cols matrix.
func New(rows, cols int) *Dense {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("linalg: invalid dimensions %dx%d", rows, cols))
	}
	return &Dense{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// NewDense wraps data as a rows×cols matrix. The slice is used directly,
// not copied. A nil slice allocates a zero matrix.
func NewDense(rows, cols int, data []float64) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errors.NewValueError("linalg.NewDense", fmt.Sprintf("dimensions must be positive, got %dx%d", rows, cols))
	}
	if data == nil {
		return New(rows, cols), nil
	}
	if len(data) != rows*cols {
		return nil, errors.NewDimensionError("linalg.NewDense", rows*cols, len(data), 1)
	}
	return &Dense{rows: rows, cols: cols, data: data}, nil
}

// Identity returns the n×n identity matrix.
func Identity(n int) *Dense {
	m := New(n, n)
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
	return m
}

// NewColumn returns a len(v)×1 matrix holding a copy of v.
func NewColumn(v []float64) *Dense {
	m := New(len(v), 1)
	copy(m.data, v)
	return m
}

// FromMatrix copies any gonum matrix into a new Dense.
func FromMatrix(a mat.Matrix) *Dense {
	if d, ok := a.(*Dense); ok {
		return d.Clone()
	}
	r, c := a.Dims()
	m := New(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.data[i*c+j] = a.At(i, j)
		}
	}
	return m
}

// Dims returns the number of rows and columns.
func (m *Dense) Dims() (r, c int) {
	return m.rows, m.cols
}

// Rows returns the number of rows.
func (m *Dense) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Dense) Cols() int { return m.cols }

// At returns the element at (i, j). It panics when out of range, matching
// gonum's mat.Matrix contract.
func (m *Dense) At(i, j int) float64 {
	m.checkIndex(i, j)
	return m.data[i*m.cols+j]
}

// Set stores v at (i, j).
func (m *Dense) Set(i, j int, v float64) {
	m.checkIndex(i, j)
	m.data[i*m.cols+j] = v
}

func (m *Dense) checkIndex(i, j int) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("linalg: index (%d,%d) out of range for %dx%d matrix", i, j, m.rows, m.cols))
	}
}

// T returns an implicit transpose for gonum interoperability. Use
// Transpose for a materialised copy.
func (m *Dense) T() mat.Matrix {
	return mat.Transpose{Matrix: m}
}

// Row returns a copy of row i.
func (m *Dense) Row(i int) []float64 {
	m.checkIndex(i, 0)
	out := make([]float64, m.cols)
	copy(out, m.data[i*m.cols:(i+1)*m.cols])
	return out
}

// Col returns a copy of column j.
func (m *Dense) Col(j int) []float64 {
	m.checkIndex(0, j)
	out := make([]float64, m.rows)
	for i := range out {
		out[i] = m.data[i*m.cols+j]
	}
	return out
}

// RawData returns the backing slice in row-major order.
func (m *Dense) RawData() []float64 {
	return m.data
}

// Clone returns a deep copy.
func (m *Dense) Clone() *Dense {
	data := make([]float64, len(m.data))
	copy(data, m.data)
	return &Dense{rows: m.rows, cols: m.cols, data: data}
}

// Diag returns a copy of the main diagonal.
func (m *Dense) Diag() []float64 {
	n := min(m.rows, m.cols)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = m.data[i*m.cols+i]
	}
	return out
}

// Scale returns a new matrix with every element multiplied by s.
func (m *Dense) Scale(s float64) *Dense {
	out := m.Clone()
	for i := range out.data {
		out.data[i] *= s
	}
	return out
}

// MaxAbs returns the largest absolute element.
func (m *Dense) MaxAbs() float64 {
	var best float64
	for _, v := range m.data {
		if a := math.Abs(v); a > best {
			best = a
		}
	}
	return best
}

// EqualApprox reports whether a and b have equal shape and every element
// differs by at most tol.
func EqualApprox(a, b *Dense, tol float64) bool {
	if a.rows != b.rows || a.cols != b.cols {
		return false
	}
	for i := range a.data {
		if math.Abs(a.data[i]-b.data[i]) > tol {
			return false
		}
	}
	return true
}

// String renders the matrix for debugging.
func (m *Dense) String() string {
	return fmt.Sprintf("%v", mat.Formatted(m, mat.Squeeze()))
}
