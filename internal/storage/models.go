package storage

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Dataset is a named, fixed set of equal-length points.
type Dataset struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Dimension int         `json:"dimension"`
	Points    [][]float64 `json:"points"`
	CreatedAt string      `json:"created_at"`
}

// DatasetSummary is a Dataset without its points.
type DatasetSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Dimension  int    `json:"dimension"`
	PointCount int    `json:"point_count"`
	CreatedAt  string `json:"created_at"`
}

// NewDataset builds a Dataset with a fresh ID, taking its dimension from the
// first point.
func NewDataset(name string, points [][]float64) (Dataset, error) {
	if name == "" {
		return Dataset{}, fmt.Errorf("dataset name must not be empty")
	}
	if len(points) == 0 {
		return Dataset{}, fmt.Errorf("dataset %q has no points", name)
	}
	dim := len(points[0])
	for i, p := range points {
		if len(p) != dim || dim == 0 {
			return Dataset{}, fmt.Errorf("dataset %q: point %d has %d coordinates, expected %d",
				name, i, len(p), dim)
		}
	}
	return Dataset{
		ID:        uuid.NewString(),
		Name:      name,
		Dimension: dim,
		Points:    points,
		CreatedAt: nowISO(),
	}, nil
}

func float64ToBlob(v []float64) []byte {
	buf := make([]byte, len(v)*8)
	for i, f := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return buf
}

func blobToFloat64(b []byte) []float64 {
	n := len(b) / 8
	v := make([]float64, n)
	for i := 0; i < n; i++ {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return v
}
