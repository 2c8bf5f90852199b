package domain

import "github.com/golang/geo/s2"

const earthRadiusKm = 6371.0

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64
	Lng float64
}

// DistanceKm returns the great-circle distance to another coordinate in kilometers.
func (c Coordinates) DistanceKm(o Coordinates) float64 {
	p1 := s2.LatLngFromDegrees(c.Lat, c.Lng)
	p2 := s2.LatLngFromDegrees(o.Lat, o.Lng)
	return p1.Distance(p2).Radians() * earthRadiusKm
}
