package restapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"

	"transit.sullia.org/internal/app"
	"transit.sullia.org/internal/appconf"
	"transit.sullia.org/internal/models"
	"transit.sullia.org/internal/transit"
	"transit.sullia.org/transitdb"
)

func createTestApi(t *testing.T) *RestAPI {
	t.Helper()

	transitManager, err := transit.InitManager(transit.Config{
		DBPath: ":memory:",
		Env:    appconf.EnvFlagToEnvironment("test"),
	})
	require.NoError(t, err)
	t.Cleanup(transitManager.Shutdown)

	application := &app.Application{
		Config: appconf.Config{
			Env:       appconf.EnvFlagToEnvironment("test"),
			ApiKeys:   []string{"TEST"},
			RateLimit: 100,
		},
		Logger:         slog.New(slog.NewJSONHandler(io.Discard, nil)),
		TransitManager: transitManager,
	}

	return NewRestAPI(application)
}

// seedTransitGraph inserts three stops where the two-hop route beats the
// direct edge, plus a couple of demo-named stops that listings must hide.
func seedTransitGraph(t *testing.T, api *RestAPI) map[string]transitdb.Stop {
	t.Helper()
	ctx := context.Background()
	queries := api.TransitManager.TransitDB.Queries

	stops := make(map[string]transitdb.Stop)
	for _, s := range []struct {
		name     string
		lat, lon float64
	}{
		{"Central Station", 12.560, 75.390},
		{"Market Square", 12.565, 75.395},
		{"Harbor View", 12.570, 75.400},
		{"Stop A", 12.561, 75.391},
		{"B", 12.562, 75.392},
	} {
		stop, err := queries.UpsertStop(ctx, transitdb.UpsertStopParams{Name: s.name, Lat: s.lat, Lon: s.lon})
		require.NoError(t, err)
		stops[s.name] = stop
	}

	for _, e := range []transitdb.UpsertEdgeParams{
		{FromStopID: stops["Central Station"].ID, ToStopID: stops["Market Square"].ID, DistanceKm: 1.0},
		{FromStopID: stops["Market Square"].ID, ToStopID: stops["Harbor View"].ID, DistanceKm: 1.0},
		{FromStopID: stops["Central Station"].ID, ToStopID: stops["Harbor View"].ID, DistanceKm: 5.0},
	} {
		require.NoError(t, queries.UpsertEdge(ctx, e))
	}

	require.NoError(t, api.TransitManager.RebuildSnapshot(ctx))
	return stops
}

func serveApi(t *testing.T, api *RestAPI) *httptest.Server {
	t.Helper()
	router := httprouter.New()
	api.SetRoutes(router)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func getEndpoint(t *testing.T, server *httptest.Server, endpoint string) (*http.Response, models.ResponseModel) {
	t.Helper()
	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	defer resp.Body.Close() // nolint:errcheck

	var response models.ResponseModel
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
	return resp, response
}

// getEndpointRaw decodes the body into a generic map, for responses that do
// not use the standard envelope (validation errors).
func getEndpointRaw(t *testing.T, server *httptest.Server, endpoint string) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	defer resp.Body.Close() // nolint:errcheck

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func dataMap(t *testing.T, response models.ResponseModel) map[string]interface{} {
	t.Helper()
	data, ok := response.Data.(map[string]interface{})
	require.True(t, ok, "response data should be an object")
	return data
}

func listFromResponse(t *testing.T, response models.ResponseModel) []interface{} {
	t.Helper()
	list, ok := dataMap(t, response)["list"].([]interface{})
	require.True(t, ok, "response data should contain a list")
	return list
}

func entryFromResponse(t *testing.T, response models.ResponseModel) map[string]interface{} {
	t.Helper()
	entry, ok := dataMap(t, response)["entry"].(map[string]interface{})
	require.True(t, ok, "response data should contain an entry")
	return entry
}
