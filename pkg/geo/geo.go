package geo

import (
	"math"
)

const earthRadiusKm = 6371.0

// Coordinate is a latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Match points back into the caller's slice and carries the computed
// distance, rounded to two decimals.
type Match struct {
	Index    int
	Distance float64
}

// DistanceKm returns the great-circle distance between two coordinate pairs
// using the Haversine formula.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// WithinRadius returns the points whose distance from the origin does not
// exceed radiusKm, in input order. Distance is informational, not a ranking
// key; callers sort by their own criteria.
func WithinRadius(origin Coordinate, radiusKm float64, points []Coordinate) []Match {
	matches := make([]Match, 0, len(points))
	for i, p := range points {
		d := DistanceKm(origin.Latitude, origin.Longitude, p.Latitude, p.Longitude)
		if d > radiusKm {
			continue
		}
		matches = append(matches, Match{Index: i, Distance: RoundKm(d)})
	}
	return matches
}

// RoundKm rounds a distance to two decimal places.
func RoundKm(km float64) float64 {
	return math.Round(km*100) / 100
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
