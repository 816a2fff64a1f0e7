package restapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutesEndpointReturnsEdgesWithStops(t *testing.T) {
	api := createTestApi(t)
	seedTransitGraph(t, api)
	server := serveApi(t, api)

	resp, response := getEndpoint(t, server, "/api/routes?key=TEST")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	list := listFromResponse(t, response)
	require.Len(t, list, 3)

	edge, ok := list[0].(map[string]interface{})
	require.True(t, ok)

	start, ok := edge["start_stop"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Central Station", start["name"])

	end, ok := edge["end_stop"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Market Square", end["name"])

	assert.InDelta(t, 1.0, edge["distance"].(float64), 1e-9)
	assert.Nil(t, edge["duration"])
}

func TestRoutesEndpointEmptyDatabase(t *testing.T) {
	api := createTestApi(t)
	server := serveApi(t, api)

	resp, response := getEndpoint(t, server, "/api/routes?key=TEST")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, listFromResponse(t, response))
}
