package kmeans

import (
	"context"
	"fmt"

	"github.com/oho/kmeans-daemon/internal/mathutil"
)

// TrainOption configures a single call to Train.
type TrainOption func(*trainOptions)

type trainOptions struct {
	maxIterations int     // 0 means unbounded
	tolerance     float64 // 0 means exact equality
}

// WithMaxIterations stops training after n passes. A run that hits the cap
// returns Converged == false and no error.
func WithMaxIterations(n int) TrainOption {
	return func(o *trainOptions) {
		o.maxIterations = n
		if n < 1 {
			o.maxIterations = -1
		}
	}
}

// WithTolerance treats a pass as converged when no centroid coordinate moved
// by more than eps. Without it convergence requires exact equality.
func WithTolerance(eps float64) TrainOption {
	return func(o *trainOptions) {
		o.tolerance = eps
	}
}

// Train alternates assignment and update passes until the centroids stop
// moving. By default there is no iteration cap and convergence means every
// coordinate is bit-for-bit unchanged, so a run whose centroids oscillate never
// returns unless ctx is cancelled or WithMaxIterations is given.
func (e *Engine) Train(ctx context.Context, opts ...TrainOption) (Result, error) {
	o := trainOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxIterations < 0 {
		return Result{}, fmt.Errorf("%w: max iterations must be at least 1", ErrInvalidInput)
	}
	if o.tolerance < 0 {
		return Result{}, fmt.Errorf("%w: tolerance must not be negative", ErrInvalidInput)
	}

	var res Result
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if o.maxIterations > 0 && res.Iterations >= o.maxIterations {
			e.logger.Warn("Training stopped before convergence",
				"iterations", res.Iterations, "clusters", e.k)
			return res, nil
		}

		res.Iterations++
		snapshot := e.snapshot()
		if err := e.AssignPointsToClusters(); err != nil {
			return res, err
		}
		e.UpdateClusters()

		if e.unchangedSince(snapshot, o.tolerance) {
			res.Converged = true
			e.logger.Info("Training converged", "iterations", res.Iterations, "clusters", e.k)
			return res, nil
		}
		e.logger.Debug("Training pass", "iteration", res.Iterations)
	}
}

func (e *Engine) snapshot() [][]float64 {
	out := make([][]float64, len(e.clusters))
	for i, c := range e.clusters {
		out[i] = mathutil.Clone(c.Coordinates)
	}
	return out
}

func (e *Engine) unchangedSince(snapshot [][]float64, tol float64) bool {
	for i, c := range e.clusters {
		if tol > 0 {
			if !mathutil.WithinTolerance(snapshot[i], c.Coordinates, tol) {
				return false
			}
			continue
		}
		if !mathutil.Equal(snapshot[i], c.Coordinates) {
			return false
		}
	}
	return true
}
