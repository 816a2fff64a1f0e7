package models

// CoordinatePoint is a latitude/longitude pair
type CoordinatePoint struct {
	Lat float64
	Lon float64
}
