package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/streetline/internal/dataset"
)

func TestRenderMap_OneFeaturePerRecord(t *testing.T) {
	matched := []dataset.Centerline{
		testCenterline(t, "100", "5 Avenue", []float64{testLon, testLat, testLon + 0.001, testLat + 0.001}),
	}

	out, err := RenderMap(matched, MapOptions{
		CenterLon:    testLon,
		CenterLat:    testLat,
		RadiusMeters: 200,
		Label:        "350 5th Ave, New York, NY",
	})
	require.NoError(t, err)
	doc := string(out)

	assert.Equal(t, 1, strings.Count(doc, `"MultiLineString"`))
	assert.Contains(t, doc, `"street":"5 Avenue"`)
	assert.Contains(t, doc, "L.geoJSON")
	assert.Contains(t, doc, "L.circle")
	// Features carry original geographic coordinates, not planar offsets.
	assert.Contains(t, doc, "-73.9857")
}

func TestRenderMap_EmptySetIsValid(t *testing.T) {
	out, err := RenderMap(nil, MapOptions{
		CenterLon:    testLon,
		CenterLat:    testLat,
		RadiusMeters: 200,
		Label:        "somewhere",
	})
	require.NoError(t, err)
	doc := string(out)

	assert.Equal(t, 0, strings.Count(doc, `"MultiLineString"`))
	assert.Contains(t, doc, "<!DOCTYPE html>")
	assert.Contains(t, doc, "</html>")
	assert.Contains(t, doc, "L.tileLayer")
	assert.Contains(t, doc, `"features":[]`)
}

func TestRenderMap_EscapesLabel(t *testing.T) {
	out, err := RenderMap(nil, MapOptions{
		CenterLon:    testLon,
		CenterLat:    testLat,
		RadiusMeters: 100,
		Label:        `</script><script>alert(1)</script>`,
	})
	require.NoError(t, err)

	assert.NotContains(t, string(out), "<script>alert(1)</script>")
}
