package restapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transit.sullia.org/transitdb"
)

func TestStatsEndpoint(t *testing.T) {
	api := createTestApi(t)
	seedTransitGraph(t, api)
	server := serveApi(t, api)

	resp, response := getEndpoint(t, server, "/api/stats?key=TEST")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	entry := entryFromResponse(t, response)
	// Counts include the hidden demo-named stops
	assert.EqualValues(t, 5, entry["nodes"].(float64))
	assert.EqualValues(t, 3, entry["edges"].(float64))
	assert.Nil(t, entry["ors"])
}

func TestStatsEndpointIncludesLatestRefresh(t *testing.T) {
	api := createTestApi(t)
	seedTransitGraph(t, api)

	err := api.TransitManager.TransitDB.Queries.InsertRefreshStats(context.Background(),
		transitdb.InsertRefreshStatsParams{
			Updated:     2,
			Skipped:     1,
			RefreshedAt: "2026-08-01T10:00:00Z",
		})
	require.NoError(t, err)

	server := serveApi(t, api)
	_, response := getEndpoint(t, server, "/api/stats?key=TEST")

	entry := entryFromResponse(t, response)
	ors, ok := entry["ors"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 2, ors["updated"].(float64))
	assert.EqualValues(t, 1, ors["skipped"].(float64))
	assert.Equal(t, "2026-08-01T10:00:00Z", ors["timestamp"])
}
