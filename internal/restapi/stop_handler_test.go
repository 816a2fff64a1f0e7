package restapi

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopEndpointReturnsStopWithEdges(t *testing.T) {
	api := createTestApi(t)
	stops := seedTransitGraph(t, api)
	server := serveApi(t, api)

	central := stops["Central Station"]
	resp, response := getEndpoint(t, server, fmt.Sprintf("/api/stops/%d?key=TEST", central.ID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	entry := entryFromResponse(t, response)
	assert.Equal(t, "Central Station", entry["name"])
	assert.InDelta(t, 12.560, entry["latitude"].(float64), 1e-9)

	// Central Station touches two edges
	edges, ok := entry["edges"].([]interface{})
	require.True(t, ok)
	assert.Len(t, edges, 2)

	first, ok := edges[0].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, first, "start_stop")
	assert.Contains(t, first, "end_stop")
	assert.Contains(t, first, "distance")
	// No refresh has run, so travel time is null
	assert.Nil(t, first["duration"])
}

func TestStopEndpointAcceptsJSONSuffix(t *testing.T) {
	api := createTestApi(t)
	stops := seedTransitGraph(t, api)
	server := serveApi(t, api)

	resp, response := getEndpoint(t, server, fmt.Sprintf("/api/stops/%d.json?key=TEST", stops["Harbor View"].ID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Harbor View", entryFromResponse(t, response)["name"])
}

func TestStopEndpointUnknownStop(t *testing.T) {
	api := createTestApi(t)
	seedTransitGraph(t, api)
	server := serveApi(t, api)

	resp, response := getEndpoint(t, server, "/api/stops/99999?key=TEST")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "resource not found", response.Text)
}

func TestStopEndpointInvalidID(t *testing.T) {
	api := createTestApi(t)
	server := serveApi(t, api)

	for _, id := range []string{"abc", "-1", "0", "1.5"} {
		resp, body := getEndpointRaw(t, server, "/api/stops/"+id+"?key=TEST")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "id %q", id)

		fieldErrors, ok := body["fieldErrors"].(map[string]interface{})
		require.True(t, ok)
		assert.Contains(t, fieldErrors, "id")
	}
}
