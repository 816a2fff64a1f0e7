package restapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopsEndpointReturnsStops(t *testing.T) {
	api := createTestApi(t)
	seedTransitGraph(t, api)
	server := serveApi(t, api)

	resp, response := getEndpoint(t, server, "/api/stops?key=TEST")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 200, response.Code)
	assert.Equal(t, "OK", response.Text)

	list := listFromResponse(t, response)
	// The demo-named stops ("Stop A", "B") are hidden
	require.Len(t, list, 3)

	names := make([]string, 0, len(list))
	for _, item := range list {
		stop, ok := item.(map[string]interface{})
		require.True(t, ok)
		names = append(names, stop["name"].(string))
		assert.Contains(t, stop, "latitude")
		assert.Contains(t, stop, "longitude")
	}
	// ListStops orders by name
	assert.Equal(t, []string{"Central Station", "Harbor View", "Market Square"}, names)
}

func TestStopsEndpointEmptyDatabase(t *testing.T) {
	api := createTestApi(t)
	server := serveApi(t, api)

	resp, response := getEndpoint(t, server, "/api/stops?key=TEST")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, listFromResponse(t, response))
}

func TestStopsEndpointRequiresAPIKey(t *testing.T) {
	api := createTestApi(t)
	server := serveApi(t, api)

	resp, response := getEndpoint(t, server, "/api/stops")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "permission denied", response.Text)

	resp, _ = getEndpoint(t, server, "/api/stops?key=WRONG")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
