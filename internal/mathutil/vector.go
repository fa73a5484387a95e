package mathutil

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrDimensionMismatch is returned when two coordinate vectors differ in length.
var ErrDimensionMismatch = errors.New("vectors must have the same dimensions")

// EuclideanDistance computes sqrt(Σ (a_i - b_i)^2), accumulated in index order.
func EuclideanDistance(a, b []float64) (float64, error) {
	sum, err := SquaredDistance(a, b)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(sum), nil
}

// SquaredDistance is EuclideanDistance without the final square root.
// Each square is rounded before it is added; the conversion keeps the compiler
// from fusing the multiply and add.
func SquaredDistance(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += float64(diff * diff)
	}
	return sum, nil
}

// Mean returns the arithmetic mean of values, summed left to right.
// The second return value is false for an empty slice.
func Mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}

// Equal reports whether a and b hold exactly the same coordinates.
func Equal(a, b []float64) bool {
	return floats.Equal(a, b)
}

// WithinTolerance reports whether every coordinate of a is within tol of b,
// either absolutely or relative to the larger magnitude.
func WithinTolerance(a, b []float64, tol float64) bool {
	return floats.EqualApprox(a, b, tol)
}

// Clone returns a copy of v that shares no memory with it.
func Clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
