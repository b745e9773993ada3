package spatial

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// EarthRadiusKm is the sphere radius used for every distance in this module.
const EarthRadiusKm = orb.EarthRadius / 1000

// DistanceKm returns the great-circle (haversine) distance between a and b in kilometres.
func DistanceKm(a, b Point) float64 {
	return geo.DistanceHaversine(a, b) / 1000
}
