package restapi

import (
	"math"
	"net/http"
	"sort"
	"strconv"

	"transit.sullia.org/internal/models"
	"transit.sullia.org/internal/utils"
	"transit.sullia.org/transitdb"
)

const defaultLocationRadiusMeters = 1000.0

// stopsForLocationHandler returns stops near a point, using the R*Tree index
// for the initial bounding-box cut and haversine for the final filter.
func (api *RestAPI) stopsForLocationHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lat, latErr := strconv.ParseFloat(query.Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(query.Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		fieldErrors := map[string][]string{}
		if latErr != nil {
			fieldErrors["lat"] = []string{"lat is required and must be a number"}
		}
		if lonErr != nil {
			fieldErrors["lon"] = []string{"lon is required and must be a number"}
		}
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	radius := defaultLocationRadiusMeters
	if rawRadius := query.Get("radius"); rawRadius != "" {
		parsed, err := strconv.ParseFloat(rawRadius, 64)
		if err != nil {
			api.validationErrorResponse(w, r, map[string][]string{
				"radius": {"radius must be a number"},
			})
			return
		}
		radius = parsed
	}

	if fieldErrors := utils.ValidateLocationParams(lat, lon, radius); len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	// Convert the radius in meters to an approximate bounding box in degrees.
	// 1 degree latitude ≈ 111km, 1 degree longitude varies by latitude.
	latDegreeInMeters := 111000.0
	lonDegreeInMeters := 111000.0 * math.Cos(lat*math.Pi/180)

	bounds := transitdb.GetStopsWithinBoundsParams{
		MinLat: lat - radius/latDegreeInMeters,
		MaxLat: lat + radius/latDegreeInMeters,
		MinLon: lon - radius/lonDegreeInMeters,
		MaxLon: lon + radius/lonDegreeInMeters,
	}

	ctx := r.Context()
	candidates, err := api.TransitManager.TransitDB.Queries.GetStopsWithinBounds(ctx, bounds)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	type stopWithDistance struct {
		stop     transitdb.Stop
		distance float64
	}

	var within []stopWithDistance
	for _, stop := range candidates {
		if utils.IsExcludedStopName(stop.Name) {
			continue
		}
		distance := utils.Haversine(lat, lon, stop.Lat, stop.Lon)
		if distance <= radius {
			within = append(within, stopWithDistance{stop, distance})
		}
	}

	sort.Slice(within, func(i, j int) bool {
		return within[i].distance < within[j].distance
	})

	list := make([]models.Stop, 0, len(within))
	for _, candidate := range within {
		list = append(list, models.NewStop(candidate.stop.ID, candidate.stop.Name, candidate.stop.Lat, candidate.stop.Lon))
	}

	api.sendResponse(w, r, models.NewListResponse(list))
}
