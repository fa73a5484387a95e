package server

import (
	"encoding/json"
	"net/http"

	"github.com/oho/kmeans-daemon/internal/config"
	"github.com/oho/kmeans-daemon/internal/storage"
)

type HealthResponse struct {
	Status          string `json:"status"`
	DB              string `json:"db"`
	DatasetCount    int    `json:"dataset_count"`
	DataDir         string `json:"data_dir"`
	Port            int    `json:"port"`
	DefaultClusters int    `json:"default_clusters"`
	MaxIterations   int    `json:"max_iterations"`
}

// HealthHandler returns a handler for GET /health.
func HealthHandler(cfg config.Config, db *storage.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbStatus := "unavailable"
		count := 0
		if db != nil {
			if n, err := db.CountDatasets(); err == nil {
				dbStatus = "connected"
				count = n
			}
		}

		resp := HealthResponse{
			Status:          "ok",
			DB:              dbStatus,
			DatasetCount:    count,
			DataDir:         cfg.DataDir,
			Port:            cfg.Port,
			DefaultClusters: cfg.Training.DefaultClusters,
			MaxIterations:   cfg.Training.MaxIterations,
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}
