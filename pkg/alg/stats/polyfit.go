package stats

import (
	"errors"
	"fmt"
	"math"
)

// ErrSingular is returned when the normal equations have no unique solution.
var ErrSingular = errors.New("singular system")

const pivotTolerance = 1e-12

// PolyFit fits a polynomial of the given degree to (xs, ys) by least squares.
// Coefficients are returned lowest order first.
func PolyFit(xs, ys []float64, degree int) ([]float64, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(xs), len(ys))
	}

	if degree < 0 || len(xs) <= degree {
		return nil, fmt.Errorf("%w: %d points for degree %d", ErrTooFewSamples, len(xs), degree)
	}

	size := degree + 1

	// powerSums[k] = sum(x^k) for k in [0, 2*degree].
	powerSums := make([]float64, 2*degree+1)
	rhs := make([]float64, size)

	for i, x := range xs {
		p := 1.0

		for k := range powerSums {
			powerSums[k] += p

			if k < size {
				rhs[k] += p * ys[i]
			}

			p *= x
		}
	}

	normal := make([][]float64, size)

	for row := range normal {
		normal[row] = make([]float64, size+1)
		copy(normal[row], powerSums[row:row+size])
		normal[row][size] = rhs[row]
	}

	return solve(normal)
}

// PolyEval evaluates the polynomial with coefficients lowest order first at x.
func PolyEval(coef []float64, x float64) float64 {
	var y float64

	for i := len(coef) - 1; i >= 0; i-- {
		y = y*x + coef[i]
	}

	return y
}

// PolyEvalAll evaluates coef at every x.
func PolyEvalAll(coef, xs []float64) []float64 {
	out := make([]float64, len(xs))

	for i, x := range xs {
		out[i] = PolyEval(coef, x)
	}

	return out
}

// solve runs Gaussian elimination with partial pivoting on an augmented matrix.
func solve(aug [][]float64) ([]float64, error) {
	size := len(aug)

	for col := range size {
		pivot := col

		for row := col + 1; row < size; row++ {
			if math.Abs(aug[row][col]) > math.Abs(aug[pivot][col]) {
				pivot = row
			}
		}

		if math.Abs(aug[pivot][col]) < pivotTolerance {
			return nil, ErrSingular
		}

		aug[col], aug[pivot] = aug[pivot], aug[col]

		for row := col + 1; row < size; row++ {
			factor := aug[row][col] / aug[col][col]

			for k := col; k <= size; k++ {
				aug[row][k] -= factor * aug[col][k]
			}
		}
	}

	out := make([]float64, size)

	for row := size - 1; row >= 0; row-- {
		acc := aug[row][size]

		for k := row + 1; k < size; k++ {
			acc -= aug[row][k] * out[k]
		}

		out[row] = acc / aug[row][row]
	}

	return out, nil
}
