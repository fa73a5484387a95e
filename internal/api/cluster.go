package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/oho/kmeans-daemon/internal/config"
	"github.com/oho/kmeans-daemon/internal/display"
	"github.com/oho/kmeans-daemon/internal/kmeans"
	"github.com/oho/kmeans-daemon/internal/storage"
)

// TrainObserver is notified after every training run.
type TrainObserver interface {
	ObserveTrain(d time.Duration, nPoints int, res kmeans.Result, err error)
}

type noopObserver struct{}

func (noopObserver) ObserveTrain(time.Duration, int, kmeans.Result, error) {}

type clusterRequest struct {
	NClusters     *int        `json:"n_clusters"`
	Data          [][]float64 `json:"data"`
	Dataset       string      `json:"dataset"`
	Seed          *int64      `json:"seed"`
	MaxIterations *int        `json:"max_iterations"`
}

type clusterResponse struct {
	RunID      string            `json:"run_id"`
	Dataset    string            `json:"dataset,omitempty"`
	Iterations int               `json:"iterations"`
	Converged  bool              `json:"converged"`
	Inertia    float64           `json:"inertia"`
	Clusters   []kmeans.Centroid `json:"clusters"`
	Points     []kmeans.Point    `json:"points"`
}

// ClusterRouter trains a fresh engine per request. Results are returned,
// never stored.
func ClusterRouter(db *storage.Database, cfg config.TrainingConfig, obs TrainObserver) chi.Router {
	if obs == nil {
		obs = noopObserver{}
	}
	r := chi.NewRouter()

	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		var req clusterRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		data := req.Data
		if req.Dataset != "" {
			if db == nil {
				http.Error(w, "dataset catalog unavailable", http.StatusServiceUnavailable)
				return
			}
			ds, err := db.GetDataset(req.Dataset)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			if ds == nil {
				http.Error(w, "Dataset not found: "+req.Dataset, http.StatusNotFound)
				return
			}
			data = ds.Points
		}

		k := cfg.DefaultClusters
		if req.NClusters != nil {
			k = *req.NClusters
		}
		if cfg.MaxClusters > 0 && k > cfg.MaxClusters {
			http.Error(w, fmt.Sprintf("n_clusters %d exceeds the limit of %d", k, cfg.MaxClusters),
				http.StatusBadRequest)
			return
		}
		maxIter := cfg.MaxIterations
		if req.MaxIterations != nil {
			maxIter = *req.MaxIterations
			if cfg.MaxIterations > 0 && maxIter > cfg.MaxIterations {
				maxIter = cfg.MaxIterations
			}
		}
		opts := []kmeans.Option{}
		switch {
		case req.Seed != nil:
			opts = append(opts, kmeans.WithSeed(*req.Seed))
		case cfg.Seed != 0:
			opts = append(opts, kmeans.WithSeed(cfg.Seed))
		}

		runID := uuid.NewString()
		start := time.Now()
		engine, res, err := train(r.Context(), k, data, maxIter, opts)
		obs.ObserveTrain(time.Since(start), len(data), res, err)
		if err != nil {
			writeTrainError(w, err)
			return
		}
		slog.Info("Clustering run finished", "run_id", runID, "points", len(data),
			"clusters", k, "iterations", res.Iterations, "converged", res.Converged)

		if r.URL.Query().Get("format") == "table" {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			display.Render(w, engine.Clusters(), engine.Points())
			return
		}

		inertia, err := engine.Inertia()
		if err != nil {
			writeTrainError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(clusterResponse{
			RunID:      runID,
			Dataset:    req.Dataset,
			Iterations: res.Iterations,
			Converged:  res.Converged,
			Inertia:    inertia,
			Clusters:   engine.Clusters(),
			Points:     engine.Points(),
		})
	})

	return r
}

func train(ctx context.Context, k int, data [][]float64, maxIter int, opts []kmeans.Option) (*kmeans.Engine, kmeans.Result, error) {
	engine, err := kmeans.New(k, data, opts...)
	if err != nil {
		return nil, kmeans.Result{}, err
	}
	res, err := engine.Train(ctx, kmeans.WithMaxIterations(maxIter))
	if err != nil {
		return nil, res, err
	}
	return engine, res, nil
}

// decodeJSON reads the request body into v. On failure it writes 413 for a
// body over the size limit and 400 otherwise, and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		return false
	}
	http.Error(w, err.Error(), http.StatusBadRequest)
	return false
}

func writeTrainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, kmeans.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		http.Error(w, "training cancelled", http.StatusServiceUnavailable)
	default:
		slog.Error("Clustering run failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
