// Package dataset loads street centerline shapefiles into memory.
package dataset

import (
	"github.com/twpayne/go-geom"
)

// Centerline is one street segment record: attributes plus its polyline
// geometry in geographic (lon/lat, SRID 4326) coordinates.
type Centerline struct {
	ID     string
	Street string
	Geom   *geom.MultiLineString
}

// Collection holds every centerline record loaded from a dataset.
type Collection struct {
	Centerlines []Centerline
	Path        string
}

// Len returns the number of records.
func (c *Collection) Len() int {
	return len(c.Centerlines)
}

// Bounds returns the geographic bounding box of all records, or nil for an
// empty collection.
func (c *Collection) Bounds() *geom.Bounds {
	var b *geom.Bounds
	for _, cl := range c.Centerlines {
		if cl.Geom == nil {
			continue
		}
		if b == nil {
			b = geom.NewBounds(geom.XY)
		}
		b.Extend(cl.Geom)
	}
	return b
}
