package kmeans

import (
	"errors"

	"github.com/oho/kmeans-daemon/internal/mathutil"
)

// ErrInvalidInput is returned when an engine cannot be built from the supplied
// cluster count and data, or when a training option is out of range.
var ErrInvalidInput = errors.New("kmeans: invalid input")

// ErrDimensionMismatch is returned when a distance is computed between vectors of
// different lengths. Once an engine is built this indicates a broken invariant.
var ErrDimensionMismatch = mathutil.ErrDimensionMismatch
