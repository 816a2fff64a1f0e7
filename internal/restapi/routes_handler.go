package restapi

import (
	"net/http"

	"transit.sullia.org/internal/models"
)

// routesHandler returns all route edges with nested stops for base map rendering
func (api *RestAPI) routesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := api.TransitManager.TransitDB.Queries.ListEdgesWithStops(ctx)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	list := make([]models.RouteEdge, 0, len(rows))
	for _, row := range rows {
		var duration *float64
		if row.Edge.DurationMin.Valid {
			d := row.Edge.DurationMin.Float64
			duration = &d
		}
		list = append(list, models.NewRouteEdge(
			row.Edge.ID,
			models.NewStop(row.From.ID, row.From.Name, row.From.Lat, row.From.Lon),
			models.NewStop(row.To.ID, row.To.Name, row.To.Lat, row.To.Lon),
			row.Edge.DistanceKm,
			duration,
		))
	}

	api.sendResponse(w, r, models.NewListResponse(list))
}
