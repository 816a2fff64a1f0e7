package restapi

import (
	"net/http"

	"transit.sullia.org/internal/models"
	"transit.sullia.org/internal/utils"
)

// stopsHandler returns all stops for marker rendering and selects
func (api *RestAPI) stopsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stops, err := api.TransitManager.TransitDB.Queries.ListStops(ctx)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	list := make([]models.Stop, 0, len(stops))
	for _, stop := range stops {
		if utils.IsExcludedStopName(stop.Name) {
			continue
		}
		list = append(list, models.NewStop(stop.ID, stop.Name, stop.Lat, stop.Lon))
	}

	api.sendResponse(w, r, models.NewListResponse(list))
}
