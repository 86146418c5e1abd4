package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKmCoincidentPoints(t *testing.T) {
	points := []Coordinate{
		{0, 0},
		{17.3850, 78.4867},
		{-33.8688, 151.2093},
		{89.9, -179.9},
	}
	for _, p := range points {
		assert.Zero(t, DistanceKm(p.Latitude, p.Longitude, p.Latitude, p.Longitude))
	}
}

func TestDistanceKmSymmetry(t *testing.T) {
	a := Coordinate{17.3850, 78.4867}
	b := Coordinate{12.9716, 77.5946}

	ab := DistanceKm(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
	ba := DistanceKm(b.Latitude, b.Longitude, a.Latitude, a.Longitude)

	assert.InDelta(t, ab, ba, 1e-9)
}

func TestDistanceKmKnownDistance(t *testing.T) {
	// Hyderabad to Bengaluru, roughly 500 km great-circle.
	d := DistanceKm(17.3850, 78.4867, 12.9716, 77.5946)
	assert.InDelta(t, 500, d, 15)
}

func TestDistanceKmShortHop(t *testing.T) {
	// ~1.2 km apart in Hyderabad.
	d := DistanceKm(17.3850, 78.4867, 17.3950, 78.4900)
	assert.InDelta(t, 1.2, d, 0.1)
}

func TestWithinRadiusFiltersAndAnnotates(t *testing.T) {
	origin := Coordinate{17.3950, 78.4900}
	points := []Coordinate{
		{17.3850, 78.4867},   // ~1.2 km
		{17.3950, 78.4900},   // coincident
		{12.9716, 77.5946},   // ~500 km
		{17.4000, 78.4950},   // well under 2 km
	}

	matches := WithinRadius(origin, 2, points)

	assert.Len(t, matches, 3)
	assert.Equal(t, 0, matches[0].Index)
	assert.Equal(t, 1, matches[1].Index)
	assert.Equal(t, 3, matches[2].Index)
	assert.InDelta(t, 1.2, matches[0].Distance, 0.1)
	assert.Zero(t, matches[1].Distance)

	for _, m := range matches {
		p := points[m.Index]
		exact := DistanceKm(origin.Latitude, origin.Longitude, p.Latitude, p.Longitude)
		assert.InDelta(t, exact, m.Distance, 0.01)
	}
}

func TestWithinRadiusZeroRadius(t *testing.T) {
	origin := Coordinate{17.3850, 78.4867}
	points := []Coordinate{
		{17.3850, 78.4867},
		{17.3851, 78.4867},
	}

	matches := WithinRadius(origin, 0, points)

	assert.Len(t, matches, 1)
	assert.Equal(t, 0, matches[0].Index)
}

func TestWithinRadiusEmptyInput(t *testing.T) {
	matches := WithinRadius(Coordinate{17.3850, 78.4867}, 5, nil)
	assert.Empty(t, matches)
}

func TestRoundKm(t *testing.T) {
	assert.Equal(t, 1.23, RoundKm(1.2345))
	assert.Equal(t, 0.0, RoundKm(0.001))
	assert.True(t, math.Abs(RoundKm(499.998)-500.0) < 1e-9)
}
