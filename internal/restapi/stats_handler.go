package restapi

import (
	"net/http"

	"transit.sullia.org/internal/models"
)

// statsHandler returns node/edge counts and the latest ORS refresh stats
func (api *RestAPI) statsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := api.TransitManager.Statistics(r.Context())
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(stats))
}
