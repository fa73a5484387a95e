package kmeans

import "fmt"

// Point is one input record. Cluster holds the name of the nearest centroid
// and stays empty until the first assignment pass.
type Point struct {
	Coordinates []float64 `json:"coordinates"`
	Cluster     string    `json:"cluster"`
}

// Assigned reports whether the point has been labeled yet.
func (p Point) Assigned() bool {
	return p.Cluster != ""
}

// Centroid is the representative vector of one cluster.
type Centroid struct {
	Name        string    `json:"name"`
	Coordinates []float64 `json:"coordinates"`
}

// Result reports how a training run ended.
type Result struct {
	// Iterations counts every assign+update pass, including the one that
	// detected convergence.
	Iterations int `json:"iterations"`

	// Converged is false when training stopped on an iteration cap or a
	// cancelled context.
	Converged bool `json:"converged"`
}

func clusterName(i int) string {
	return fmt.Sprintf("cluster_%d", i)
}
