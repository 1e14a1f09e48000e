// Package cache stores responses of slow remote services in Postgres, keyed
// by a caller chosen string.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

type Cacher interface {
	// Get returns true on a fresh hit that deserializes into the provided
	// value.
	Get(ctx context.Context, key string, into any) bool

	// Set serializes the value and stores it under key.
	Set(ctx context.Context, key string, val any)

	Stats() Statistics
}

type entry struct {
	body     []byte
	storedAt time.Time
}

type Statistics struct {
	TotalRequests int
	TotalHits     int
	TotalMisses   int
}

type Client struct {
	expiresAfter time.Duration
	db           *sql.DB
	log          zerolog.Logger
	now          func() time.Time

	requests atomic.Int64
	hits     atomic.Int64
}

func (c *Client) Get(ctx context.Context, key string, into any) bool {
	c.requests.Add(1)

	e := entry{}

	err := c.db.QueryRowContext(ctx, `SELECT response_body, created_at FROM http_cache WHERE endpoint = $1`, key).
		Scan(&e.body, &e.storedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.log.Debug().Str("key", key).Msg("cache miss")
			return false
		}

		c.log.Info().Err(err).Str("key", key).Msg("fetching cached value")

		return false
	}

	if c.now().Sub(e.storedAt) > c.expiresAfter {
		c.log.Debug().Str("key", key).Msg("cache expired")
		return false
	}

	err = json.Unmarshal(e.body, into)
	if err != nil {
		c.log.Info().Err(err).Str("key", key).Msg("deserializing cached value")
		return false
	}

	c.hits.Add(1)

	return true
}

func (c *Client) Set(ctx context.Context, key string, val any) {
	data, err := json.Marshal(val)
	if err != nil {
		c.log.Info().Err(err).Str("key", key).Msg("serializing value for cache")
		return
	}

	_, err = c.db.ExecContext(ctx, `INSERT INTO http_cache (endpoint, response_body, created_at, last_tried_update_at)
		VALUES ($1, $2, $3, $3) ON CONFLICT (endpoint) DO UPDATE SET response_body = $2, created_at = $3, last_tried_update_at = $3`, key, data, c.now().UTC())
	if err != nil {
		c.log.Info().Err(err).Str("key", key).Msg("updating cache")
	}
}

func (c *Client) Stats() Statistics {
	requests := c.requests.Load()
	hits := c.hits.Load()

	return Statistics{
		TotalRequests: int(requests),
		TotalHits:     int(hits),
		TotalMisses:   int(requests - hits),
	}
}

// Collectors exposes the cache statistics as counters.
func (c *Client) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "mesh_console",
			Name:      "cache_requests_total",
			Help:      "Number of cache lookups.",
		}, func() float64 {
			return float64(c.Stats().TotalRequests)
		}),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "mesh_console",
			Name:      "cache_hits_total",
			Help:      "Number of cache lookups answered from the cache.",
		}, func() float64 {
			return float64(c.Stats().TotalHits)
		}),
	}
}

func New(expiresAfter time.Duration, db *sql.DB, log zerolog.Logger) *Client {
	return &Client{
		expiresAfter: expiresAfter,
		db:           db,
		log:          log,
		now:          time.Now,
	}
}
