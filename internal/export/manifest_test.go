package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRenderManifest_RoundTrip(t *testing.T) {
	m := Manifest{
		RunID:        "7f9c24e8-1a2b-4c3d-9e8f-0123456789ab",
		CreatedAt:    time.Date(2025, 8, 25, 14, 30, 5, 0, time.UTC),
		Address:      "350 5th Ave, New York, NY",
		Latitude:     40.7484,
		Longitude:    -73.9857,
		RadiusMeters: 200,
		Dataset:      "/data/centerline/centerline.shp",
		MatchCount:   12,
		Outputs:      []string{"street_map_20250825_143005.html"},
	}

	out, err := RenderManifest(m)
	require.NoError(t, err)

	var got Manifest
	require.NoError(t, yaml.Unmarshal(out, &got))
	assert.Equal(t, m, got)
}
