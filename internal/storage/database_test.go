package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := NewDatabase(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.Initialize())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDataset(t *testing.T) {
	ds, err := NewDataset("pairs", [][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	assert.NotEmpty(t, ds.ID)
	assert.Equal(t, 2, ds.Dimension)
	assert.NotEmpty(t, ds.CreatedAt)

	_, err = NewDataset("", [][]float64{{1}})
	assert.Error(t, err)
	_, err = NewDataset("empty", nil)
	assert.Error(t, err)
	_, err = NewDataset("ragged", [][]float64{{1, 2}, {3}})
	assert.Error(t, err)
	_, err = NewDataset("zero-dim", [][]float64{{}})
	assert.Error(t, err)
}

func TestDatasetCRUD(t *testing.T) {
	db := newTestDB(t)

	points := [][]float64{{2, 3}, {3, 3}, {6, 8}, {0.1, -1e-9}}
	ds, err := NewDataset("example", points)
	require.NoError(t, err)
	require.NoError(t, db.AddDataset(ds))

	got, err := db.GetDataset("example")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ds.ID, got.ID)
	assert.Equal(t, 2, got.Dimension)
	assert.Equal(t, points, got.Points)

	n, err := db.CountDatasets()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	list, err := db.ListDatasets()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "example", list[0].Name)
	assert.Equal(t, 4, list[0].PointCount)

	removed, err := db.RemoveDataset("example")
	require.NoError(t, err)
	assert.True(t, removed)

	got, err = db.GetDataset("example")
	require.NoError(t, err)
	assert.Nil(t, got)

	var orphans int
	require.NoError(t, db.DB().QueryRow("SELECT COUNT(*) FROM dataset_points").Scan(&orphans))
	assert.Zero(t, orphans)
}

func TestDatasetNameUnique(t *testing.T) {
	db := newTestDB(t)

	a, err := NewDataset("dup", [][]float64{{1}})
	require.NoError(t, err)
	b, err := NewDataset("dup", [][]float64{{2}})
	require.NoError(t, err)

	require.NoError(t, db.AddDataset(a))
	assert.Error(t, db.AddDataset(b))

	got, err := db.GetDataset("dup")
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1}}, got.Points)
}

func TestRemoveMissingDataset(t *testing.T) {
	db := newTestDB(t)
	removed, err := db.RemoveDataset("nope")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestListDatasetsOrdered(t *testing.T) {
	db := newTestDB(t)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		ds, err := NewDataset(name, [][]float64{{1, 1}})
		require.NoError(t, err)
		require.NoError(t, db.AddDataset(ds))
	}

	list, err := db.ListDatasets()
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, "mid", list[1].Name)
	assert.Equal(t, "zeta", list[2].Name)
}

func TestBlobRoundTrip(t *testing.T) {
	v := []float64{0, -2.5, 1e300, 8.0 / 3.0}
	assert.Equal(t, v, blobToFloat64(float64ToBlob(v)))
}
