package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"transit.sullia.org/internal/metrics"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

func validateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

// SetRoutes registers the API endpoints on the given router
func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.Handler(http.MethodGet, "/api/stops", validateAPIKey(api, api.stopsHandler))
	router.Handler(http.MethodGet, "/api/stops/:id", validateAPIKey(api, api.stopHandler))
	router.Handler(http.MethodGet, "/api/stops-for-location", validateAPIKey(api, api.stopsForLocationHandler))
	router.Handler(http.MethodGet, "/api/routes", validateAPIKey(api, api.routesHandler))
	router.Handler(http.MethodGet, "/api/shortest-route", validateAPIKey(api, api.shortestRouteGetHandler))
	router.Handler(http.MethodPost, "/api/shortest-route", validateAPIKey(api, api.shortestRoutePostHandler))
	router.Handler(http.MethodGet, "/api/stats", validateAPIKey(api, api.statsHandler))
	router.Handler(http.MethodGet, "/metrics", metrics.Handler())
}

// Handler assembles the middleware chain around the router
func (api *RestAPI) Handler(router *httprouter.Router) http.Handler {
	var handler http.Handler = router
	handler = api.rateLimiter(handler)
	handler = NewMetricsMiddleware()(handler)
	handler = NewRequestLoggingMiddleware(api.Logger)(handler)
	handler = applyGzipMiddleware(handler)
	handler = securityHeaders(handler)
	return handler
}
