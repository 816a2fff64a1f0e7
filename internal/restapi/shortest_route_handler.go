package restapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"transit.sullia.org/internal/models"
	"transit.sullia.org/internal/transit"
	"transit.sullia.org/internal/utils"
)

// shortestRouteGetHandler computes the shortest route between two stops.
// Query params: origin and destination (stop ids).
func (api *RestAPI) shortestRouteGetHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	fieldErrors := map[string][]string{}
	originID, err := utils.ParseStopID(query.Get("origin"))
	if err != nil {
		fieldErrors["origin"] = []string{err.Error()}
	}
	destinationID, err := utils.ParseStopID(query.Get("destination"))
	if err != nil {
		fieldErrors["destination"] = []string{err.Error()}
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	api.respondWithShortestRoute(w, r, originID, destinationID)
}

type shortestRouteRequest struct {
	OriginStopID      int64 `json:"origin_stop_id"`
	DestinationStopID int64 `json:"destination_stop_id"`
}

// shortestRoutePostHandler computes the shortest route between two stops.
// Body: {"origin_stop_id": ..., "destination_stop_id": ...}.
func (api *RestAPI) shortestRoutePostHandler(w http.ResponseWriter, r *http.Request) {
	var req shortestRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{
			"body": {"request body must be valid JSON"},
		})
		return
	}

	fieldErrors := map[string][]string{}
	if req.OriginStopID <= 0 {
		fieldErrors["origin_stop_id"] = []string{"origin_stop_id must be a positive integer"}
	}
	if req.DestinationStopID <= 0 {
		fieldErrors["destination_stop_id"] = []string{"destination_stop_id must be a positive integer"}
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	api.respondWithShortestRoute(w, r, req.OriginStopID, req.DestinationStopID)
}

func (api *RestAPI) respondWithShortestRoute(w http.ResponseWriter, r *http.Request, originID, destinationID int64) {
	result, err := api.TransitManager.ShortestPath(r.Context(), originID, destinationID)
	if errors.Is(err, transit.ErrStopNotFound) {
		api.sendNotFound(w, r)
		return
	}
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	if result == nil {
		api.notFoundResponse(w, r, "no path found between the selected stops")
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(result))
}
