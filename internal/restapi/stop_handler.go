package restapi

import (
	"database/sql"
	"errors"
	"net/http"

	"transit.sullia.org/internal/models"
	"transit.sullia.org/internal/utils"
)

// stopHandler returns a single stop with the edges touching it
func (api *RestAPI) stopHandler(w http.ResponseWriter, r *http.Request) {
	queryParamID := utils.ExtractIDFromParams(r, "id")

	stopID, err := utils.ParseStopID(queryParamID)
	if err != nil {
		fieldErrors := map[string][]string{
			"id": {err.Error()},
		}
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	ctx := r.Context()

	stop, err := api.TransitManager.TransitDB.Queries.GetStop(ctx, stopID)
	if errors.Is(err, sql.ErrNoRows) {
		api.sendNotFound(w, r)
		return
	}
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	edges, err := api.TransitManager.TransitDB.Queries.EdgesForStop(ctx, stopID)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	detail := models.StopDetail{
		Stop:  models.NewStop(stop.ID, stop.Name, stop.Lat, stop.Lon),
		Edges: make([]models.RouteEdge, 0, len(edges)),
	}

	for _, edge := range edges {
		from, fromOK := api.TransitManager.StopByID(edge.FromStopID)
		to, toOK := api.TransitManager.StopByID(edge.ToStopID)
		if !fromOK || !toOK {
			continue
		}
		var duration *float64
		if edge.DurationMin.Valid {
			d := edge.DurationMin.Float64
			duration = &d
		}
		detail.Edges = append(detail.Edges, models.NewRouteEdge(
			edge.ID,
			models.NewStop(from.ID, from.Name, from.Lat, from.Lon),
			models.NewStop(to.ID, to.Name, to.Lat, to.Lon),
			edge.DistanceKm,
			duration,
		))
	}

	api.sendResponse(w, r, models.NewEntryResponse(detail))
}
