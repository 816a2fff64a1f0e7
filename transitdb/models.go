package transitdb

import "database/sql"

// Stop is a named point on the map that edges connect
type Stop struct {
	ID   int64   // stop_id
	Name string  // name
	Lat  float64 // lat
	Lon  float64 // lon
}

// Edge is a directed connection between two stops. DurationMin is only set
// once an OpenRouteService refresh has run for the edge.
type Edge struct {
	ID          int64           // edge_id
	FromStopID  int64           // from_stop_id
	ToStopID    int64           // to_stop_id
	DistanceKm  float64         // distance_km
	DurationMin sql.NullFloat64 // duration_min
}

// RefreshStats records the outcome of one OpenRouteService edge refresh run
type RefreshStats struct {
	ID          int64  // refresh_id
	Updated     int64  // updated
	Skipped     int64  // skipped
	RefreshedAt string // refreshed_at (RFC3339)
}
