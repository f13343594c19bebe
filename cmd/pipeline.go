package main

import (
	"time"

	"github.com/gbdata/roadsync/internal/db"
	"github.com/gbdata/roadsync/internal/feed"
)

// newFeedClient builds the provider client from config. probe selects the
// shorter timeout used by ad-hoc test calls.
func newFeedClient(probe bool) *feed.Client {
	secs := cfg.API.TimeoutSecs
	if probe {
		secs = cfg.API.ProbeTimeoutSecs
	}
	return feed.NewClient(feed.ClientOptions{
		BaseURL:    cfg.API.BaseURL,
		ServiceKey: cfg.API.ServiceKey,
		Timeout:    time.Duration(secs) * time.Second,
	})
}

// newStore builds the feed store with the configured pagination bounds.
func newStore(pool db.Pool, reg *feed.Registry) *feed.Store {
	return feed.NewStore(pool, reg, feed.StoreOptions{
		MaxPageSize:     cfg.Query.MaxPageSize,
		DefaultPageSize: cfg.Query.DefaultPageSize,
	})
}

// newCollector wires client, store, and collect log over one pool.
func newCollector(pool db.Pool, reg *feed.Registry) *feed.Collector {
	store := newStore(pool, reg)
	return feed.NewCollector(newFeedClient(false), store, feed.NewCollectLog(pool), reg)
}
