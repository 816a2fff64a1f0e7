package models

// RouteEdge is a directed connection between two stops with its road metrics.
// DurationMin is null until an OpenRouteService refresh has run for the edge.
type RouteEdge struct {
	ID          int64    `json:"id"`
	StartStop   Stop     `json:"start_stop"`
	EndStop     Stop     `json:"end_stop"`
	DistanceKm  float64  `json:"distance"`
	DurationMin *float64 `json:"duration"`
}

func NewRouteEdge(id int64, start, end Stop, distanceKm float64, durationMin *float64) RouteEdge {
	return RouteEdge{
		ID:          id,
		StartStop:   start,
		EndStop:     end,
		DistanceKm:  distanceKm,
		DurationMin: durationMin,
	}
}
