package linalg

import (
	"math"

	"github.com/YuminosukeSato/fisherscore/pkg/errors"
)

// SingularTolerance scales the largest absolute entry of the input to give
// the threshold below which a pivot is treated as zero.
const SingularTolerance = 1e-12

// Invert returns the inverse of the square matrix a using Gauss-Jordan
// elimination on the augmented matrix [a | I] with partial pivoting.
//
// At step i the row at or below i with the largest |value| in column i is
// swapped into place, the pivot row is scaled so the pivot becomes 1, and
// column i is eliminated from every other row. The right half of the final
// augmented matrix is the inverse.
//
// Errors:
//   - DimensionError (ErrDimensionMismatch) if a is not square.
//   - SingularMatrixError (ErrSingularMatrix) if a pivot is numerically zero.
func Invert(a *Dense) (*Dense, error) {
	n := a.rows
	if a.cols != n {
		return nil, errors.NewDimensionError("linalg.Invert", a.rows, a.cols, 1)
	}

	threshold := SingularTolerance * a.MaxAbs()
	w := 2 * n
	aug := make([]float64, n*w)
	for i := 0; i < n; i++ {
		copy(aug[i*w:i*w+n], a.data[i*n:(i+1)*n])
		aug[i*w+n+i] = 1
	}

	for i := 0; i < n; i++ {
		pivotRow := i
		maxVal := math.Abs(aug[i*w+i])
		for k := i + 1; k < n; k++ {
			if v := math.Abs(aug[k*w+i]); v > maxVal {
				maxVal = v
				pivotRow = k
			}
		}
		if maxVal == 0 || maxVal <= threshold {
			return nil, errors.NewSingularMatrixError("linalg.Invert", i, maxVal)
		}

		if pivotRow != i {
			ri := aug[i*w : (i+1)*w]
			rp := aug[pivotRow*w : (pivotRow+1)*w]
			for j := range ri {
				ri[j], rp[j] = rp[j], ri[j]
			}
		}

		row := aug[i*w : (i+1)*w]
		pivot := row[i]
		for j := range row {
			row[j] /= pivot
		}

		for k := 0; k < n; k++ {
			if k == i {
				continue
			}
			other := aug[k*w : (k+1)*w]
			factor := other[i]
			if factor == 0 {
				continue
			}
			for j := range other {
				other[j] -= factor * row[j]
			}
		}
	}

	inv := New(n, n)
	for i := 0; i < n; i++ {
		copy(inv.data[i*n:(i+1)*n], aug[i*w+n:(i+1)*w])
	}
	return inv, nil
}
