package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oho/kmeans-daemon/internal/storage"
)

func TestRunDemo(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runDemo([]string{"-seed", "42"}, &out))

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "Clusters Table\n"))
	assert.Contains(t, text, "cluster_0")
	assert.Contains(t, text, "cluster_1")
}

func TestRunDemoRejectsBadK(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, runDemo([]string{"-k", "0"}, &out))
	assert.Empty(t, out.String())
}

func TestSeedExampleDatasetIdempotent(t *testing.T) {
	db, err := storage.NewDatabase(filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Initialize())

	require.NoError(t, seedExampleDataset(db))
	require.NoError(t, seedExampleDataset(db))

	n, err := db.CountDatasets()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	ds, err := db.GetDataset(exampleDatasetName)
	require.NoError(t, err)
	require.NotNil(t, ds)
	assert.Equal(t, exampleData, ds.Points)
}
