package export

import (
	"bytes"
	"encoding/json"
	"html/template"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/streetline/internal/dataset"
)

// MapOptions parameterizes the interactive map document.
type MapOptions struct {
	CenterLon    float64
	CenterLat    float64
	RadiusMeters float64
	Label        string // popup text for the query point marker
}

const leafletVersion = "1.9.4"

var mapTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Street Map</title>
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<link rel="stylesheet" href="https://unpkg.com/leaflet@{{.LeafletVersion}}/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@{{.LeafletVersion}}/dist/leaflet.js"></script>
<style>
html, body, #map { height: 100%; margin: 0; }
.legend { position: fixed; bottom: 50px; left: 50px; z-index: 1000; background: white; padding: 10px; border: 2px solid grey; border-radius: 5px; font: 14px sans-serif; }
</style>
</head>
<body>
<div id="map"></div>
<div class="legend">
<p><strong>Legend</strong></p>
<p><span style="color: red;">&#9679;</span> Search Radius</p>
<p><span style="color: blue;">&#9473;</span> Street</p>
</div>
<script>
var map = L.map('map').setView([{{.CenterLat}}, {{.CenterLon}}], 15);
L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
	maxZoom: 19,
	attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);
L.marker([{{.CenterLat}}, {{.CenterLon}}]).addTo(map).bindPopup({{.Label}});
L.circle([{{.CenterLat}}, {{.CenterLon}}], {
	radius: {{.RadiusMeters}},
	color: 'red',
	fill: true,
	fillOpacity: 0.2
}).addTo(map);
var streets = {{.GeoJSON}};
L.geoJSON(streets, {
	style: { color: 'blue', weight: 2, opacity: 0.8 },
	onEachFeature: function (feature, layer) {
		if (feature.properties && feature.properties.street) {
			layer.bindPopup(feature.properties.street);
		}
	}
}).addTo(map);
</script>
</body>
</html>
`))

// RenderMap produces a self-contained Leaflet document showing the query
// point, the search radius and every matched centerline in its original
// geographic coordinates. An empty matched set yields a valid document with
// just the base map.
func RenderMap(matched []dataset.Centerline, opts MapOptions) ([]byte, error) {
	fc := &geojson.FeatureCollection{Features: []*geojson.Feature{}}
	for _, cl := range matched {
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       cl.ID,
			Geometry: cl.Geom,
			Properties: map[string]interface{}{
				"street": cl.Street,
			},
		})
	}

	geoJSON, err := json.Marshal(fc)
	if err != nil {
		return nil, eris.Wrap(err, "export: marshal geojson")
	}

	data := struct {
		LeafletVersion string
		CenterLon      float64
		CenterLat      float64
		RadiusMeters   float64
		Label          string
		GeoJSON        template.JS
	}{
		LeafletVersion: leafletVersion,
		CenterLon:      opts.CenterLon,
		CenterLat:      opts.CenterLat,
		RadiusMeters:   opts.RadiusMeters,
		Label:          opts.Label,
		GeoJSON:        template.JS(geoJSON), //nolint:gosec // marshaled by encoding/json above
	}

	var buf bytes.Buffer
	if err := mapTemplate.Execute(&buf, data); err != nil {
		return nil, eris.Wrap(err, "export: render map template")
	}
	return buf.Bytes(), nil
}
