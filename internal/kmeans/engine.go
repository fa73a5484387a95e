// Package kmeans implements Lloyd's k-means over a fixed set of points.
//
// An Engine owns the points and k centroids. Train alternates an assignment
// pass (each point takes the name of its nearest centroid) and an update pass
// (each centroid moves to the mean of its points) until no centroid coordinate
// changes. An Engine is not safe for concurrent use; run independent engines
// instead.
package kmeans

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/oho/kmeans-daemon/internal/mathutil"
)

// Option configures an Engine at construction.
type Option func(*engineOptions)

type engineOptions struct {
	source Source
	logger *slog.Logger
}

// WithSource sets the random source used to place the initial centroids.
func WithSource(src Source) Option {
	return func(o *engineOptions) {
		o.source = src
	}
}

// WithSeed is shorthand for WithSource(NewSource(seed)).
func WithSeed(seed int64) Option {
	return WithSource(NewSource(seed))
}

// WithLogger sets the logger for training progress. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *engineOptions) {
		o.logger = l
	}
}

// Engine runs k-means over a fixed point set.
type Engine struct {
	k        int
	dim      int
	points   []Point
	clusters []Centroid
	logger   *slog.Logger
}

// New validates data, copies it, and places nClusters centroids with
// coordinates drawn uniformly from [0, 1).
func New(nClusters int, data [][]float64, opts ...Option) (*Engine, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: data must not be empty", ErrInvalidInput)
	}
	if nClusters < 1 {
		return nil, fmt.Errorf("%w: n_clusters must be at least 1, got %d", ErrInvalidInput, nClusters)
	}
	dim := len(data[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: points must have at least one coordinate", ErrInvalidInput)
	}
	for i, p := range data {
		if len(p) != dim {
			return nil, fmt.Errorf("%w: point %d has %d coordinates, expected %d",
				ErrInvalidInput, i, len(p), dim)
		}
	}

	o := engineOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.source == nil {
		o.source = clockSource()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	points := make([]Point, len(data))
	for i, p := range data {
		points[i] = Point{Coordinates: mathutil.Clone(p)}
	}

	e := &Engine{
		k:      nClusters,
		dim:    dim,
		points: points,
		logger: o.logger,
	}
	e.initializeClusters(o.source)
	return e, nil
}

func (e *Engine) initializeClusters(src Source) {
	e.clusters = make([]Centroid, e.k)
	for i := range e.clusters {
		coords := make([]float64, e.dim)
		for j := range coords {
			coords[j] = src.Float64()
		}
		e.clusters[i] = Centroid{Name: clusterName(i), Coordinates: coords}
	}
}

// Distance is the Euclidean distance between two equal-length vectors.
func Distance(a, b []float64) (float64, error) {
	return mathutil.EuclideanDistance(a, b)
}

// AssignPointsToClusters labels every point with its nearest centroid.
// On an exact tie the centroid listed first wins.
func (e *Engine) AssignPointsToClusters() error {
	for i := range e.points {
		p := &e.points[i]
		minDist := math.Inf(1)
		for _, c := range e.clusters {
			d, err := Distance(c.Coordinates, p.Coordinates)
			if err != nil {
				return fmt.Errorf("assign point %d to %s: %w", i, c.Name, err)
			}
			if d < minDist {
				p.Cluster = c.Name
				minDist = d
			}
		}
	}
	return nil
}

// UpdateClusters moves every centroid to the mean of the points labeled with
// it. A centroid without points keeps its coordinates.
func (e *Engine) UpdateClusters() {
	values := make([]float64, 0, len(e.points))
	for ci := range e.clusters {
		c := &e.clusters[ci]
		for d := 0; d < e.dim; d++ {
			values = values[:0]
			for _, p := range e.points {
				if p.Cluster == c.Name {
					values = append(values, p.Coordinates[d])
				}
			}
			if mean, ok := mathutil.Mean(values); ok {
				c.Coordinates[d] = mean
			}
		}
		if len(values) == 0 {
			e.logger.Debug("Cluster has no points, keeping coordinates", "cluster", c.Name)
		}
	}
}

// K returns the number of clusters.
func (e *Engine) K() int {
	return e.k
}

// Dimension returns the number of coordinates per point.
func (e *Engine) Dimension() int {
	return e.dim
}

// Clusters returns a copy of the current centroids in creation order.
func (e *Engine) Clusters() []Centroid {
	out := make([]Centroid, len(e.clusters))
	for i, c := range e.clusters {
		out[i] = Centroid{Name: c.Name, Coordinates: mathutil.Clone(c.Coordinates)}
	}
	return out
}

// Points returns a copy of the points in input order with their current labels.
func (e *Engine) Points() []Point {
	out := make([]Point, len(e.points))
	for i, p := range e.points {
		out[i] = Point{Coordinates: mathutil.Clone(p.Coordinates), Cluster: p.Cluster}
	}
	return out
}

// Inertia is the sum of squared distances from each labeled point to its centroid.
func (e *Engine) Inertia() (float64, error) {
	byName := make(map[string][]float64, len(e.clusters))
	for _, c := range e.clusters {
		byName[c.Name] = c.Coordinates
	}
	var total float64
	for i, p := range e.points {
		coords, ok := byName[p.Cluster]
		if !ok {
			continue
		}
		d, err := mathutil.SquaredDistance(p.Coordinates, coords)
		if err != nil {
			return 0, fmt.Errorf("inertia of point %d in %s: %w", i, p.Cluster, err)
		}
		total += d
	}
	return total, nil
}
