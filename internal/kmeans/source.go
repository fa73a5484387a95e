package kmeans

import (
	"math/rand"
	"time"
)

// Source supplies uniform random numbers in [0, 1) for centroid initialization.
// *rand.Rand satisfies it. A Source is used by one engine only.
type Source interface {
	Float64() float64
}

// NewSource returns a deterministic Source for the given seed.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

func clockSource() Source {
	return NewSource(time.Now().UnixNano())
}
