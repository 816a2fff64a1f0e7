package transit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transit.sullia.org/internal/appconf"
	"transit.sullia.org/internal/ors"
)

// fakeORSServer answers every directions request with a fixed summary
func fakeORSServer(t *testing.T, distanceMeters, durationSeconds float64) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"features": []map[string]interface{}{
				{
					"properties": map[string]interface{}{
						"summary": map[string]float64{
							"distance": distanceMeters,
							"duration": durationSeconds,
						},
					},
				},
			},
		})
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func createTestManagerWithORS(t *testing.T, serverURL string) *Manager {
	t.Helper()
	manager, err := InitManager(Config{
		DBPath: ":memory:",
		Env:    appconf.Test,
		ORS: appconf.ORSConfig{
			BaseURL:           serverURL,
			APIKey:            "test-key",
			RequestsPerSecond: 1000,
		},
	})
	require.NoError(t, err)
	t.Cleanup(manager.Shutdown)
	return manager
}

func TestRefreshEdgeMetricsWithORS(t *testing.T) {
	server, calls := fakeORSServer(t, 1500, 300)
	manager := createTestManagerWithORS(t, server.URL)
	ctx := context.Background()

	a, _, c := seedTriangle(t, manager)

	outcome, err := manager.RefreshEdgeMetricsWithORS(ctx, RefreshOptions{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, outcome.Updated)
	assert.EqualValues(t, 0, outcome.Skipped)
	assert.EqualValues(t, 3, calls.Load())

	edges, err := manager.TransitDB.Queries.ListEdges(ctx)
	require.NoError(t, err)
	for _, e := range edges {
		assert.InDelta(t, 1.5, e.DistanceKm, 1e-9)
		require.True(t, e.DurationMin.Valid)
		assert.InDelta(t, 5.0, e.DurationMin.Float64, 1e-9)
	}

	// A refresh stats row was recorded
	stats, err := manager.Statistics(ctx)
	require.NoError(t, err)
	require.NotNil(t, stats.ORS)
	assert.EqualValues(t, 3, stats.ORS.Updated)

	// The rebuilt snapshot now carries travel times
	result, err := manager.ShortestPath(ctx, a.ID, c.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotNil(t, result.TotalDurationMin)
}

func TestRefreshEdgeMetricsDryRun(t *testing.T) {
	server, _ := fakeORSServer(t, 1500, 300)
	manager := createTestManagerWithORS(t, server.URL)
	ctx := context.Background()

	seedTriangle(t, manager)

	outcome, err := manager.RefreshEdgeMetricsWithORS(ctx, RefreshOptions{DryRun: true})
	require.NoError(t, err)
	assert.EqualValues(t, 3, outcome.Updated)

	edges, err := manager.TransitDB.Queries.ListEdges(ctx)
	require.NoError(t, err)
	for _, e := range edges {
		assert.False(t, e.DurationMin.Valid)
	}

	stats, err := manager.Statistics(ctx)
	require.NoError(t, err)
	assert.Nil(t, stats.ORS)
}

func TestRefreshEdgeMetricsLimitAndSkipExisting(t *testing.T) {
	server, calls := fakeORSServer(t, 1500, 300)
	manager := createTestManagerWithORS(t, server.URL)
	ctx := context.Background()

	seedTriangle(t, manager)

	outcome, err := manager.RefreshEdgeMetricsWithORS(ctx, RefreshOptions{Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 1, outcome.Updated)
	assert.EqualValues(t, 1, calls.Load())

	// The already refreshed edge is left alone
	outcome, err = manager.RefreshEdgeMetricsWithORS(ctx, RefreshOptions{SkipExisting: true})
	require.NoError(t, err)
	assert.EqualValues(t, 2, outcome.Updated)
	assert.EqualValues(t, 3, calls.Load())
}

func TestRefreshEdgeMetricsRequiresAPIKey(t *testing.T) {
	manager := createTestManager(t)
	seedTriangle(t, manager)

	_, err := manager.RefreshEdgeMetricsWithORS(context.Background(), RefreshOptions{})
	assert.ErrorIs(t, err, ors.ErrDisabled)
}

func TestRefreshEdgeMetricsCountsFailuresAsSkipped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	manager := createTestManagerWithORS(t, server.URL)
	seedTriangle(t, manager)

	outcome, err := manager.RefreshEdgeMetricsWithORS(context.Background(), RefreshOptions{Retries: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 0, outcome.Updated)
	assert.EqualValues(t, 3, outcome.Skipped)
}

func TestBuildDistanceMatrixWithORS(t *testing.T) {
	server, _ := fakeORSServer(t, 1500, 300)
	manager := createTestManagerWithORS(t, server.URL)
	ctx := context.Background()

	a, b, _ := seedTriangle(t, manager)

	outputPath := filepath.Join(t.TempDir(), "matrix.json")
	summary, err := manager.BuildDistanceMatrix(ctx, MatrixOptions{OutputPath: outputPath})
	require.NoError(t, err)
	// Three stops give six ordered pairs
	assert.Equal(t, 6, summary.Pairs)
	assert.Zero(t, summary.Fallbacks)

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	var matrix map[string]MatrixEntry
	require.NoError(t, json.Unmarshal(data, &matrix))
	require.Len(t, matrix, 6)

	entry, ok := matrix[fmt.Sprintf("%d-%d", a.ID, b.ID)]
	require.True(t, ok)
	assert.Equal(t, "ors", entry.Source)
	assert.InDelta(t, 1.5, entry.DistanceKm, 1e-9)
}

func TestBuildDistanceMatrixFallsBackToHaversine(t *testing.T) {
	manager := createTestManager(t)
	ctx := context.Background()

	seedTriangle(t, manager)

	outputPath := filepath.Join(t.TempDir(), "matrix.json")
	summary, err := manager.BuildDistanceMatrix(ctx, MatrixOptions{OutputPath: outputPath})
	require.NoError(t, err)
	assert.Equal(t, 6, summary.Pairs)
	assert.Equal(t, 6, summary.Fallbacks)

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	var matrix map[string]MatrixEntry
	require.NoError(t, json.Unmarshal(data, &matrix))
	for _, entry := range matrix {
		assert.Equal(t, "haversine", entry.Source)
		assert.Positive(t, entry.DistanceKm)
		// 30 km/h assumed speed
		assert.InDelta(t, entry.DistanceKm/30.0*60.0, entry.DurationMin, 1e-9)
	}
}
