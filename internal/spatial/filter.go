package spatial

import (
	"math"

	"go.uber.org/zap"

	"github.com/sells-group/streetline/internal/dataset"
)

// WithinRadius returns every centerline whose geometry intersects the
// circular buffer of radiusMeters around the center point (lon/lat degrees).
// A record is matched when the planar distance from the center to its nearest
// segment is at most the radius, so lines crossing the buffer between
// vertices are caught. Each record appears at most once and input order is
// preserved. Zero matches is a valid empty result.
func WithinRadius(coll *dataset.Collection, centerLon, centerLat, radiusMeters float64) []dataset.Centerline {
	proj := NewProjection(centerLon, centerLat)

	var matched []dataset.Centerline
	for _, cl := range coll.Centerlines {
		if cl.Geom == nil {
			continue
		}
		if intersectsBuffer(cl, proj, radiusMeters) {
			matched = append(matched, cl)
		}
	}

	zap.L().Debug("radius filter",
		zap.Float64("radius_m", radiusMeters),
		zap.Int("candidates", coll.Len()),
		zap.Int("matched", len(matched)),
	)
	return matched
}

// intersectsBuffer tests one record against the buffer. The record's
// geographic bounds are checked first so far-away records skip the per-segment
// work.
func intersectsBuffer(cl dataset.Centerline, proj Projection, radius float64) bool {
	b := cl.Geom.Bounds()
	minX, minY := proj.Forward(b.Min(0), b.Min(1))
	maxX, maxY := proj.Forward(b.Max(0), b.Max(1))
	if minX > radius || maxX < -radius || minY > radius || maxY < -radius {
		return false
	}

	for i := 0; i < cl.Geom.NumLineStrings(); i++ {
		ls := cl.Geom.LineString(i)
		n := ls.NumCoords()
		if n == 0 {
			continue
		}

		px, py := proj.Forward(ls.Coord(0)[0], ls.Coord(0)[1])
		if math.Hypot(px, py) <= radius {
			return true
		}
		for j := 1; j < n; j++ {
			qx, qy := proj.Forward(ls.Coord(j)[0], ls.Coord(j)[1])
			if distToSegment(px, py, qx, qy) <= radius {
				return true
			}
			px, py = qx, qy
		}
	}
	return false
}

// distToSegment returns the distance from the origin to the segment (p, q)
// in the planar frame.
func distToSegment(px, py, qx, qy float64) float64 {
	dx := qx - px
	dy := qy - py

	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(px, py)
	}

	// Project the origin onto the segment, clamped to its endpoints.
	t := -(px*dx + py*dy) / lenSq
	t = math.Max(0, math.Min(1, t))

	return math.Hypot(px+t*dx, py+t*dy)
}
