package models

// RefreshStats describes the latest OpenRouteService edge refresh run
type RefreshStats struct {
	Updated   int64  `json:"updated"`
	Skipped   int64  `json:"skipped"`
	Timestamp string `json:"timestamp"`
}

// Stats is the aggregate graph statistics payload
type Stats struct {
	Nodes int64         `json:"nodes"`
	Edges int64         `json:"edges"`
	ORS   *RefreshStats `json:"ors"`
}
