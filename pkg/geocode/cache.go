package geocode

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"
)

// Cache stores geocode results in a local SQLite database so repeated runs
// against the same address skip the network call. Negative results are cached
// too.
type Cache struct {
	db      *sql.DB
	ttlDays int
}

const cacheMigration = `
CREATE TABLE IF NOT EXISTS geocode_cache (
	query_hash   TEXT PRIMARY KEY,
	query        TEXT NOT NULL,
	latitude     REAL NOT NULL,
	longitude    REAL NOT NULL,
	display_name TEXT,
	source       TEXT,
	matched      INTEGER NOT NULL,
	cached_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_geocode_cache_cached_at ON geocode_cache(cached_at);
`

// OpenCache opens (creating if needed) the cache database at the given path
// and configures WAL mode. A ttlDays of 0 disables expiry.
func OpenCache(path string, ttlDays int) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: open cache")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "geocode: cache exec %s", pragma)
		}
	}
	if _, err := db.Exec(cacheMigration); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "geocode: cache migrate")
	}
	return &Cache{db: db, ttlDays: ttlDays}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// cacheKey returns SHA-256 hex of the normalized query. Normalization folds
// case, applies NFC, and collapses whitespace so trivially different spellings
// of the same address share an entry.
func cacheKey(query string) string {
	folded := cases.Fold().String(norm.NFC.String(query))
	normalized := strings.Join(strings.Fields(folded), " ")
	h := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", h)
}

// Check looks up a cached result, respecting TTL if configured. A nil result
// with nil error means no usable entry.
func (c *Cache) Check(ctx context.Context, query string) (*Result, error) {
	key := cacheKey(query)

	q := "SELECT latitude, longitude, display_name, source, matched FROM geocode_cache WHERE query_hash = ?"
	args := []any{key}

	if c.ttlDays > 0 {
		q += " AND cached_at > datetime('now', ?)"
		args = append(args, fmt.Sprintf("-%d days", c.ttlDays))
	}

	var lat, lon float64
	var displayName, source sql.NullString
	var matched bool

	row := c.db.QueryRowContext(ctx, q, args...)
	if err := row.Scan(&lat, &lon, &displayName, &source, &matched); err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "geocode: cache check")
	}

	r := &Result{
		Latitude:  lat,
		Longitude: lon,
		Matched:   matched,
	}
	if displayName.Valid {
		r.DisplayName = displayName.String
	}
	if source.Valid {
		r.Source = source.String
	}

	zap.L().Debug("geocode cache hit", zap.String("key", key[:12]), zap.Bool("matched", matched))
	return r, nil
}

// Store upserts a geocode result (match or non-match) into the cache.
func (c *Cache) Store(ctx context.Context, query string, result *Result) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO geocode_cache (query_hash, query, latitude, longitude, display_name, source, matched, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (query_hash) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			display_name = excluded.display_name,
			source = excluded.source,
			matched = excluded.matched,
			cached_at = excluded.cached_at`,
		cacheKey(query), query, result.Latitude, result.Longitude,
		result.DisplayName, result.Source, result.Matched,
		time.Now().UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return eris.Wrap(err, "geocode: cache store")
	}
	return nil
}

// CacheStats summarizes the cache contents.
type CacheStats struct {
	Entries int
	Matched int
	Oldest  time.Time
}

// Stats reports entry counts and the oldest entry time.
func (c *Cache) Stats(ctx context.Context) (*CacheStats, error) {
	var s CacheStats
	var oldest sql.NullString

	row := c.db.QueryRowContext(ctx, `
		SELECT count(*), coalesce(sum(matched), 0), min(cached_at)
		FROM geocode_cache`)
	if err := row.Scan(&s.Entries, &s.Matched, &oldest); err != nil {
		return nil, eris.Wrap(err, "geocode: cache stats")
	}

	if oldest.Valid {
		if t, err := time.Parse("2006-01-02 15:04:05", oldest.String); err == nil {
			s.Oldest = t
		} else if t, err := time.Parse(time.RFC3339, oldest.String); err == nil {
			s.Oldest = t
		}
	}
	return &s, nil
}

// Clear removes all cache entries.
func (c *Cache) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM geocode_cache`); err != nil {
		return eris.Wrap(err, "geocode: cache clear")
	}
	return nil
}
