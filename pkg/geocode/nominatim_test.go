package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// newTestLimiter creates a rate limiter that effectively does not limit for tests.
func newTestLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Inf, 1)
}

// newTestNominatim wires a provider to a test server the way the cascade does.
func newTestNominatim(server *httptest.Server) *NominatimProvider {
	p := NewNominatimProvider(server.URL)
	p.setTransport(server.Client(), "streetline-test/1.0", newTestLimiter())
	return p
}

func TestNominatimProvider_Match(t *testing.T) {
	var gotUA, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQuery = r.URL.Query().Get("q")
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"40.7484","lon":"-73.9857","display_name":"Empire State Building, 350, 5th Avenue, New York","class":"tourism","type":"attraction"}]`))
	}))
	defer server.Close()

	p := newTestNominatim(server)

	result, err := p.Geocode(context.Background(), "350 5th Ave, New York, NY")
	require.NoError(t, err)

	assert.True(t, result.Matched)
	assert.InDelta(t, 40.7484, result.Latitude, 1e-6)
	assert.InDelta(t, -73.9857, result.Longitude, 1e-6)
	assert.Equal(t, "nominatim", result.Source)
	assert.Contains(t, result.DisplayName, "Empire State Building")

	assert.Equal(t, "streetline-test/1.0", gotUA)
	assert.Equal(t, "350 5th Ave, New York, NY", gotQuery)
}

func TestNominatimProvider_NoMatchIsNotError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	p := newTestNominatim(server)

	result, err := p.Geocode(context.Background(), "nowhere at all")
	require.NoError(t, err)
	assert.False(t, result.Matched)
}

func TestNominatimProvider_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := newTestNominatim(server)

	_, err := p.Geocode(context.Background(), "anywhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestNominatimProvider_BadCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"lat":"not-a-number","lon":"-73.9857"}]`))
	}))
	defer server.Close()

	p := newTestNominatim(server)

	_, err := p.Geocode(context.Background(), "anywhere")
	require.Error(t, err)
}
