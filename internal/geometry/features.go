package geometry

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"leadintel/server/internal/models"
)

// FeatureCollection renders the subject and its located comps as GeoJSON
// points for the CMA map. The collection carries the bounding box when at
// least one point is known.
func FeatureCollection(subject models.SubjectProperty, comps []models.Comp) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	if subject.Location != nil {
		f := geojson.NewFeature(*subject.Location)
		f.Properties = geojson.Properties{
			"role":           "subject",
			"address":        subject.Address,
			"list_price":     subject.Ask(),
			"days_on_market": subject.DaysOnMarket,
		}
		fc.Append(f)
	}

	for _, c := range comps {
		if c.Location == nil {
			continue
		}
		f := geojson.NewFeature(*c.Location)
		f.Properties = geojson.Properties{
			"role":           "comp",
			"address":        c.Address,
			"sold_price":     c.SoldPrice,
			"sold_date":      c.SoldDate.Format("2006-01-02"),
			"distance_miles": c.DistanceMiles,
		}
		fc.Append(f)
	}

	if b, ok := Bound(subject, comps); ok {
		fc.BBox = geojson.NewBBox(b)
	}
	return fc
}

// Point is a convenience for building locations from latitude/longitude.
func Point(lat, lng float64) *orb.Point {
	return &orb.Point{lng, lat}
}
