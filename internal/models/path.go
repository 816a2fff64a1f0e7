package models

import "encoding/json"

// ORSLeg is the OpenRouteService enrichment attached to a computed path
type ORSLeg struct {
	GeoJSON     json.RawMessage `json:"geojson"`
	DistanceKm  float64         `json:"distance_km"`
	DurationMin float64         `json:"duration_min"`
}

// PathResult is the outcome of a shortest-route query
type PathResult struct {
	Path             []int64  `json:"path"`
	TotalDistance    float64  `json:"total_distance"`
	Stops            []Stop   `json:"stops"`
	TotalDurationMin *float64 `json:"total_duration_min,omitempty"`
	ORS              *ORSLeg  `json:"ors,omitempty"`
}
