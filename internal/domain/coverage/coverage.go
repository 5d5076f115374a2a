// Package coverage computes which population points fall inside a
// resource's service radius and aggregates per-resource coverage
// statistics. All functions are pure and safe for concurrent use.
package coverage

import (
	"math"

	"github.com/twinvillage/planner/internal/domain/house"
	"github.com/twinvillage/planner/internal/domain/resource"
)

// earthRadiusMeters is the mean Earth radius used for great-circle
// distances. Pinned by property tests; do not change without updating
// the coverage contract.
const earthRadiusMeters = 6371000

// Distance returns the Haversine great-circle distance in meters
// between two WGS84 coordinate pairs given in degrees. Antimeridian
// and polar edge cases are not handled; village-scale inputs are
// assumed.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// HousesCoveredBy returns the subsequence of houses whose distance
// from the resource position is within the service radius, boundary
// inclusive. A resource without a position or a positive radius
// covers nothing.
func HousesCoveredBy(res resource.Resource, houses []house.House) []house.House {
	if res.Position == nil || res.Radius <= 0 {
		return nil
	}

	var covered []house.House
	for _, h := range houses {
		d := Distance(res.Position.Lat, res.Position.Lng, h.Lat, h.Lng)
		if d <= res.Radius {
			covered = append(covered, h)
		}
	}
	return covered
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
