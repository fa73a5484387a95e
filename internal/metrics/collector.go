// Package metrics exports training statistics to Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oho/kmeans-daemon/internal/kmeans"
)

// Status labels for kmeans_train_runs_total.
const (
	StatusConverged = "converged"
	StatusCapped    = "capped"
	StatusInvalid   = "invalid"
	StatusError     = "error"
)

// Collector records one observation per training run.
type Collector struct {
	registry   *prometheus.Registry
	runs       *prometheus.CounterVec
	iterations prometheus.Histogram
	latency    prometheus.Histogram
	points     prometheus.Histogram
}

// NewCollector registers the training metrics on a fresh registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kmeans_train_runs_total",
			Help: "Training runs by outcome",
		}, []string{"status"}),
		iterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kmeans_train_iterations",
			Help:    "Assign+update passes per training run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 11),
		}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kmeans_train_duration_seconds",
			Help:    "Wall time of a training run",
			Buckets: prometheus.DefBuckets,
		}),
		points: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kmeans_train_points",
			Help:    "Points per training run",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
	}
	c.registry.MustRegister(c.runs, c.iterations, c.latency, c.points)
	return c
}

// ObserveTrain records a finished run. res is ignored when err is non-nil.
func (c *Collector) ObserveTrain(d time.Duration, nPoints int, res kmeans.Result, err error) {
	c.runs.WithLabelValues(status(res, err)).Inc()
	c.latency.Observe(d.Seconds())
	if err != nil {
		return
	}
	c.iterations.Observe(float64(res.Iterations))
	c.points.Observe(float64(nPoints))
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func status(res kmeans.Result, err error) string {
	switch {
	case errors.Is(err, kmeans.ErrInvalidInput):
		return StatusInvalid
	case err != nil:
		return StatusError
	case res.Converged:
		return StatusConverged
	default:
		return StatusCapped
	}
}
