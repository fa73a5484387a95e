package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oho/kmeans-daemon/internal/features"
	"github.com/oho/kmeans-daemon/internal/storage"
)

type addDatasetRequest struct {
	Name   string      `json:"name"`
	Points [][]float64 `json:"points"`
}

type addTextDatasetRequest struct {
	Name  string   `json:"name"`
	Lines []string `json:"lines"`
}

type datasetResponse struct {
	storage.DatasetSummary
	Lines []string `json:"lines,omitempty"`
}

// Names that collide with the static routes below.
var reservedNames = map[string]bool{"add": true, "text": true, "list": true, "remove": true}

func summarize(ds storage.Dataset) storage.DatasetSummary {
	return storage.DatasetSummary{
		ID: ds.ID, Name: ds.Name, Dimension: ds.Dimension,
		PointCount: len(ds.Points), CreatedAt: ds.CreatedAt,
	}
}

func DatasetsRouter(db *storage.Database) chi.Router {
	r := chi.NewRouter()

	add := func(w http.ResponseWriter, name string, points [][]float64, lines []string) {
		if reservedNames[name] {
			http.Error(w, "Dataset name is reserved: "+name, http.StatusBadRequest)
			return
		}
		existing, err := db.GetDataset(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if existing != nil {
			http.Error(w, "Dataset already exists: "+name, http.StatusConflict)
			return
		}

		ds, err := storage.NewDataset(name, points)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := db.AddDataset(ds); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(datasetResponse{DatasetSummary: summarize(ds), Lines: lines})
	}

	r.Post("/add", func(w http.ResponseWriter, r *http.Request) {
		var req addDatasetRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		add(w, req.Name, req.Points, nil)
	})

	r.Post("/text", func(w http.ResponseWriter, r *http.Request) {
		var req addTextDatasetRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		lines, points := features.TextPoints(req.Lines)
		add(w, req.Name, points, lines)
	})

	r.Get("/list", func(w http.ResponseWriter, r *http.Request) {
		list, err := db.ListDatasets()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if list == nil {
			list = []storage.DatasetSummary{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(list)
	})

	r.Get("/{name}", func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		ds, err := db.GetDataset(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if ds == nil {
			http.Error(w, "Dataset not found: "+name, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ds)
	})

	r.Delete("/remove", func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		removed, err := db.RemoveDataset(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if !removed {
			http.Error(w, "Dataset not found: "+name, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "removed", "name": name})
	})

	return r
}
