// Package display renders clustering results as console tables.
package display

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/oho/kmeans-daemon/internal/kmeans"
)

// Precision is the number of decimals shown for coordinates.
const Precision = 3

// FormatCoordinate rounds the exact binary value of x to Precision decimals
// and prints the shortest form of the result. Magnitudes from 1e16 up switch
// to exponent notation.
func FormatCoordinate(x float64) string {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', Precision, 64), 64)
	if err != nil {
		rounded = x
	}
	if math.Abs(rounded) >= 1e16 {
		return strconv.FormatFloat(rounded, 'g', -1, 64)
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

func axisHeaders(dim int) []string {
	headers := make([]string, dim)
	for i := range headers {
		headers[i] = fmt.Sprintf("x_%d", i)
	}
	return headers
}

func formatRow(coords []float64) []string {
	row := make([]string, len(coords))
	for i, x := range coords {
		row[i] = FormatCoordinate(x)
	}
	return row
}

func newTable(w io.Writer, title string, headers []string) *tablewriter.Table {
	fmt.Fprintln(w, title)
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	return table
}

// RenderClusters writes one row per centroid: its name, then its coordinates.
func RenderClusters(w io.Writer, clusters []kmeans.Centroid) {
	dim := 0
	if len(clusters) > 0 {
		dim = len(clusters[0].Coordinates)
	}
	table := newTable(w, "Clusters Table", append([]string{"clusters"}, axisHeaders(dim)...))
	for _, c := range clusters {
		table.Append(append([]string{c.Name}, formatRow(c.Coordinates)...))
	}
	table.Render()
}

// RenderPoints writes one table per centroid listing the coordinates of the
// points labeled with it, in input order.
func RenderPoints(w io.Writer, clusters []kmeans.Centroid, points []kmeans.Point) {
	dim := 0
	switch {
	case len(points) > 0:
		dim = len(points[0].Coordinates)
	case len(clusters) > 0:
		dim = len(clusters[0].Coordinates)
	}
	for _, c := range clusters {
		table := newTable(w, c.Name, axisHeaders(dim))
		for _, p := range points {
			if p.Cluster == c.Name {
				table.Append(formatRow(p.Coordinates))
			}
		}
		table.Render()
	}
}

// Render writes the clusters table followed by the per-cluster point tables.
func Render(w io.Writer, clusters []kmeans.Centroid, points []kmeans.Point) {
	RenderClusters(w, clusters)
	RenderPoints(w, clusters, points)
}
