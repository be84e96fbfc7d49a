// Package geocode resolves free-text addresses to coordinates via Nominatim
// (primary) and the Census one-line geocoder (optional fallback).
package geocode

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultUserAgent = "streetline/1.0"

// Client geocodes a free-text address query.
type Client interface {
	// Geocode resolves a single address query.
	Geocode(ctx context.Context, query string) (*Result, error)
}

// Result holds the geocoding output for a query.
type Result struct {
	Latitude    float64
	Longitude   float64
	DisplayName string
	Source      string // "nominatim" or "census"
	Matched     bool
}

// Provider represents a single geocoding backend.
type Provider interface {
	Name() string
	Geocode(ctx context.Context, query string) (*Result, error)
	Available() bool
}

// transportSetter is implemented by providers that take their HTTP client,
// User-Agent, and rate limiter from the cascade instead of owning them.
type transportSetter interface {
	setTransport(hc *http.Client, userAgent string, limiter *rate.Limiter)
}

// Option configures the geocoder and every provider in its cascade.
type Option func(*geocoder)

// WithHTTPClient sets the HTTP client used for all provider requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *geocoder) {
		g.httpClient = hc
	}
}

// WithRateLimit sets the requests-per-second rate limit shared by all
// provider calls.
func WithRateLimit(rps float64) Option {
	return func(g *geocoder) {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithUserAgent sets the User-Agent header sent to providers. Nominatim
// rejects requests without an identifying agent.
func WithUserAgent(ua string) Option {
	return func(g *geocoder) {
		g.userAgent = ua
	}
}

// WithCache attaches a result cache checked before any provider call.
func WithCache(c *Cache) Option {
	return func(g *geocoder) {
		g.cache = c
	}
}

// WithTimeout bounds each provider HTTP call.
func WithTimeout(d time.Duration) Option {
	return func(g *geocoder) {
		g.httpClient.Timeout = d
	}
}

type geocoder struct {
	providers  []Provider
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter
	cache      *Cache
}

// NewClient creates a geocoding Client that tries providers in order. The
// configured HTTP client, User-Agent, and rate limiter are handed to every
// provider that accepts them, so options configure the whole cascade.
func NewClient(providers []Provider, opts ...Option) Client {
	g := &geocoder{
		providers:  providers,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		userAgent:  defaultUserAgent,
		limiter:    rate.NewLimiter(1, 1), // Nominatim policy: 1 req/s
	}
	for _, opt := range opts {
		opt(g)
	}
	for _, p := range g.providers {
		if ts, ok := p.(transportSetter); ok {
			ts.setTransport(g.httpClient, g.userAgent, g.limiter)
		}
	}
	return g
}

// Geocode resolves a query by trying each provider in order. A query no
// provider can match yields Matched=false, not an error.
func (g *geocoder) Geocode(ctx context.Context, query string) (*Result, error) {
	if g.cache != nil {
		if cached, err := g.cache.Check(ctx, query); err == nil && cached != nil {
			return cached, nil
		}
	}

	var definitiveMiss bool
	for _, p := range g.providers {
		if !p.Available() {
			continue
		}
		result, err := p.Geocode(ctx, query)
		if err != nil {
			zap.L().Debug("geocode: provider error, trying next",
				zap.String("provider", p.Name()),
				zap.Error(err),
			)
			continue
		}
		if result == nil {
			continue
		}
		if result.Matched {
			if g.cache != nil {
				_ = g.cache.Store(ctx, query, result)
			}
			return result, nil
		}
		definitiveMiss = true
	}

	// Cache the negative only when a provider actually answered; a run where
	// every provider failed on transport must retry next time.
	noMatch := &Result{Matched: false}
	if g.cache != nil && definitiveMiss {
		_ = g.cache.Store(ctx, query, noMatch)
	}
	return noMatch, nil
}
