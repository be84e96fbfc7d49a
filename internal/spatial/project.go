// Package spatial selects centerlines within a radius of a point and projects
// them into a local planar frame for rendering.
package spatial

import (
	"math"

	"github.com/sells-group/streetline/internal/dataset"
)

// WGS84 equatorial radius in meters.
const earthRadius = 6378137.0

// Projection maps geographic coordinates to planar meters east/north of a
// fixed origin using a local equirectangular approximation. Accurate to well
// under a meter for spans of a few kilometers, which is all the radius filter
// and exporters need; a naive degree-based distance would be off by ~25% in
// the east-west direction at NYC latitudes.
type Projection struct {
	originLon float64
	originLat float64
	cosLat    float64
}

// NewProjection creates a Projection centered on the given point.
func NewProjection(lon, lat float64) Projection {
	return Projection{
		originLon: lon,
		originLat: lat,
		cosLat:    math.Cos(lat * math.Pi / 180),
	}
}

// Forward converts lon/lat degrees to meters east/north of the origin.
func (p Projection) Forward(lon, lat float64) (x, y float64) {
	x = earthRadius * p.cosLat * (lon - p.originLon) * math.Pi / 180
	y = earthRadius * (lat - p.originLat) * math.Pi / 180
	return x, y
}

// Inverse converts meters east/north back to lon/lat degrees.
func (p Projection) Inverse(x, y float64) (lon, lat float64) {
	lon = p.originLon + x/(earthRadius*p.cosLat)*180/math.Pi
	lat = p.originLat + y/earthRadius*180/math.Pi
	return lon, lat
}

// Point is a planar coordinate in meters east/north of the query point.
type Point struct {
	X float64
	Y float64
}

// ProjectedCenterline pairs a matched record with its planar geometry. Parts
// mirror the record's MultiLineString parts.
type ProjectedCenterline struct {
	Centerline dataset.Centerline
	Parts      [][]Point
}

// Project converts each matched record's vertices into the planar frame.
func Project(matched []dataset.Centerline, p Projection) []ProjectedCenterline {
	out := make([]ProjectedCenterline, 0, len(matched))
	for _, cl := range matched {
		pc := ProjectedCenterline{Centerline: cl}
		for i := 0; i < cl.Geom.NumLineStrings(); i++ {
			ls := cl.Geom.LineString(i)
			part := make([]Point, 0, ls.NumCoords())
			for j := 0; j < ls.NumCoords(); j++ {
				c := ls.Coord(j)
				x, y := p.Forward(c[0], c[1])
				part = append(part, Point{X: x, Y: y})
			}
			pc.Parts = append(pc.Parts, part)
		}
		out = append(out, pc)
	}
	return out
}
