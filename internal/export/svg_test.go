package export

import (
	"encoding/xml"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/streetline/internal/dataset"
)

func TestRenderSVG_OnePathPerRecord(t *testing.T) {
	matched := []dataset.Centerline{
		testCenterline(t, "100", "5 Avenue", []float64{testLon, testLat, testLon + 0.001, testLat + 0.001}),
	}

	out := RenderSVG(testProjected(matched), SVGOptions{RadiusMeters: 200})
	doc := string(out)

	assert.Equal(t, 1, strings.Count(doc, "<path"))
	assert.Contains(t, doc, `data-street="5 Avenue"`)
	assert.Contains(t, doc, `id="100"`)
}

func TestRenderSVG_EmptySetIsValid(t *testing.T) {
	out := RenderSVG(nil, SVGOptions{RadiusMeters: 200})
	doc := string(out)

	assert.Equal(t, 0, strings.Count(doc, "<path"))
	assert.Contains(t, doc, "<svg")
	assert.Contains(t, doc, "</svg>")

	// The document must stay well-formed XML.
	require.NoError(t, xml.Unmarshal(stripXMLProlog(out), &struct {
		XMLName xml.Name `xml:"svg"`
	}{}))
}

func TestRenderSVG_CenterMapsToCanvasMiddle(t *testing.T) {
	// A segment starting exactly at the query point starts at the canvas center.
	matched := []dataset.Centerline{
		testCenterline(t, "1", "Center St", []float64{testLon, testLat, testLon + 0.001, testLat}),
	}

	out := RenderSVG(testProjected(matched), SVGOptions{RadiusMeters: 500, CanvasPx: 1000})
	assert.Contains(t, string(out), "M 500.00 500.00")
}

func TestRenderSVG_ScaleFitsRadius(t *testing.T) {
	// A vertex one radius north of the center lands on the canvas top edge.
	north := testLat + 500.0/111195.0 // ~500 m in degrees of latitude
	matched := []dataset.Centerline{
		testCenterline(t, "1", "North St", []float64{testLon, testLat, testLon, north}),
	}

	out := RenderSVG(testProjected(matched), SVGOptions{RadiusMeters: 500, CanvasPx: 1000})
	doc := string(out)

	require.Equal(t, 1, strings.Count(doc, "<path"))
	// y = 500 - 500m*scale(=1 px/m) ≈ 0 at the top edge.
	assert.Contains(t, doc, "L 500.00 ")
	idx := strings.Index(doc, "L 500.00 ")
	rest := doc[idx+len("L 500.00 "):]
	var y float64
	_, err := fmt.Sscanf(rest, "%f", &y)
	require.NoError(t, err)
	assert.InDelta(t, 0, y, 5)
}

func TestRenderSVG_AttributeEscaping(t *testing.T) {
	matched := []dataset.Centerline{
		testCenterline(t, `a"b`, `Jones & "Laughlin" <Way>`, []float64{testLon, testLat, testLon + 0.001, testLat}),
	}

	out := RenderSVG(testProjected(matched), SVGOptions{RadiusMeters: 200})
	doc := string(out)

	assert.Contains(t, doc, `id="a&quot;b"`)
	assert.Contains(t, doc, "Jones &amp; &quot;Laughlin&quot; &lt;Way&gt;")
}

// stripXMLProlog removes everything before the root element so xml.Unmarshal
// accepts svgo's prolog and doctype.
func stripXMLProlog(doc []byte) []byte {
	s := string(doc)
	if i := strings.Index(s, "<svg"); i >= 0 {
		return []byte(s[i:])
	}
	return doc
}
