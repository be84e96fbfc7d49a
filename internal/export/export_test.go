package export

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/streetline/internal/dataset"
	"github.com/sells-group/streetline/internal/spatial"
)

const (
	testLon = -73.9857
	testLat = 40.7484
)

// testCenterline builds a single-part centerline from flat lon/lat coords.
func testCenterline(t *testing.T, id, street string, flat []float64) dataset.Centerline {
	t.Helper()

	mls := geom.NewMultiLineString(geom.XY).SetSRID(4326)
	require.NoError(t, mls.Push(geom.NewLineStringFlat(geom.XY, flat)))
	return dataset.Centerline{ID: id, Street: street, Geom: mls}
}

// testProjected projects centerlines into the frame centered on the test point.
func testProjected(matched []dataset.Centerline) []spatial.ProjectedCenterline {
	return spatial.Project(matched, spatial.NewProjection(testLon, testLat))
}
