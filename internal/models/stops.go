package models

// Stop is a bus stop as rendered on the map
type Stop struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"latitude"`
	Lon  float64 `json:"longitude"`
}

func NewStop(id int64, name string, lat, lon float64) Stop {
	return Stop{
		ID:   id,
		Name: name,
		Lat:  lat,
		Lon:  lon,
	}
}

// StopDetail is a stop plus the edges touching it
type StopDetail struct {
	Stop
	Edges []RouteEdge `json:"edges"`
}
