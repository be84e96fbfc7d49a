package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const (
	defaultCensusBaseURL = "https://geocoding.geo.census.gov"
	censusOneLinePath    = "/geocoder/locations/onelineaddress"
	censusBenchmark      = "Public_AR_Current"
)

// censusOneLineResponse is the JSON response from the Census single-address API.
type censusOneLineResponse struct {
	Result struct {
		AddressMatches []censusAddressMatch `json:"addressMatches"`
	} `json:"result"`
}

type censusAddressMatch struct {
	Coordinates struct {
		X float64 `json:"x"` // longitude
		Y float64 `json:"y"` // latitude
	} `json:"coordinates"`
	MatchedAddress string `json:"matchedAddress"`
}

// CensusProvider geocodes via the Census Bureau one-line address API.
// US-only; used as a fallback when Nominatim misses.
type CensusProvider struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	enabled    bool
}

// NewCensusProvider creates a CensusProvider. A baseURL of "" uses the public
// Census geocoder. The HTTP client, User-Agent, and rate limiter come from
// the cascade via setTransport.
func NewCensusProvider(baseURL string, enabled bool) *CensusProvider {
	if baseURL == "" {
		baseURL = defaultCensusBaseURL
	}
	return &CensusProvider{
		baseURL:    baseURL,
		userAgent:  defaultUserAgent,
		httpClient: http.DefaultClient,
		enabled:    enabled,
	}
}

func (p *CensusProvider) setTransport(hc *http.Client, userAgent string, limiter *rate.Limiter) {
	p.httpClient = hc
	p.userAgent = userAgent
	p.limiter = limiter
}

// Name implements Provider.
func (p *CensusProvider) Name() string { return "census" }

// Available implements Provider.
func (p *CensusProvider) Available() bool { return p.enabled }

// Geocode implements Provider.
func (p *CensusProvider) Geocode(ctx context.Context, query string) (*Result, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "geocode: census rate limit")
		}
	}

	params := url.Values{
		"address":   {query},
		"benchmark": {censusBenchmark},
		"format":    {"json"},
	}

	reqURL := p.baseURL + censusOneLinePath + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: census build request")
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: census request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("geocode: census returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: census read body")
	}

	var censusResp censusOneLineResponse
	if err := json.Unmarshal(body, &censusResp); err != nil {
		return nil, eris.Wrap(err, "geocode: census parse response")
	}

	if len(censusResp.Result.AddressMatches) == 0 {
		return &Result{Matched: false, Source: "census"}, nil
	}

	match := censusResp.Result.AddressMatches[0]
	return &Result{
		Latitude:    match.Coordinates.Y,
		Longitude:   match.Coordinates.X,
		DisplayName: match.MatchedAddress,
		Source:      "census",
		Matched:     true,
	}, nil
}
