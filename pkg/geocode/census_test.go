package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCensusProvider_Match(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocoder/locations/onelineaddress", r.URL.Path)
		assert.Equal(t, "Public_AR_Current", r.URL.Query().Get("benchmark"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":{"addressMatches":[{"coordinates":{"x":-73.9857,"y":40.7484},"matchedAddress":"350 5TH AVE, NEW YORK, NY, 10118"}]}}`))
	}))
	defer server.Close()

	p := NewCensusProvider(server.URL, true)
	p.setTransport(server.Client(), "streetline-test/1.0", newTestLimiter())

	result, err := p.Geocode(context.Background(), "350 5th Ave, New York, NY")
	require.NoError(t, err)

	assert.True(t, result.Matched)
	assert.InDelta(t, 40.7484, result.Latitude, 1e-6)
	assert.InDelta(t, -73.9857, result.Longitude, 1e-6)
	assert.Equal(t, "census", result.Source)
}

func TestCensusProvider_NoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"addressMatches":[]}}`))
	}))
	defer server.Close()

	p := NewCensusProvider(server.URL, true)
	p.setTransport(server.Client(), "streetline-test/1.0", newTestLimiter())

	result, err := p.Geocode(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.False(t, result.Matched)
}

func TestCensusProvider_DisabledIsUnavailable(t *testing.T) {
	p := NewCensusProvider("", false)
	assert.False(t, p.Available())
}
