// Package geometry places comps relative to the subject property.
package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"leadintel/server/internal/models"
)

const metersPerMile = 1609.344

// DistanceMiles returns the great-circle distance between two points in miles.
func DistanceMiles(a, b orb.Point) float64 {
	return geo.DistanceHaversine(a, b) / metersPerMile
}

// AnnotateDistances returns a copy of comps with DistanceMiles set, rounded
// to two decimals. Comps are left at 0 when either side has no location.
func AnnotateDistances(subject models.SubjectProperty, comps []models.Comp) []models.Comp {
	out := make([]models.Comp, len(comps))
	copy(out, comps)
	if subject.Location == nil {
		return out
	}

	for i := range out {
		if out[i].Location == nil {
			continue
		}
		d := DistanceMiles(*subject.Location, *out[i].Location)
		out[i].DistanceMiles = math.Round(d*100) / 100
	}
	return out
}

// Bound returns the bounding box of the subject and every located comp.
// ok is false when nothing has a location.
func Bound(subject models.SubjectProperty, comps []models.Comp) (orb.Bound, bool) {
	var points orb.MultiPoint
	if subject.Location != nil {
		points = append(points, *subject.Location)
	}
	for _, c := range comps {
		if c.Location != nil {
			points = append(points, *c.Location)
		}
	}
	if len(points) == 0 {
		return orb.Bound{}, false
	}
	return points.Bound(), true
}
