package feed

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Source fetches a raw feed payload. *Client is the production
// implementation.
type Source interface {
	Fetch(ctx context.Context, feedID string, extra url.Values) ([]byte, error)
}

// Collector runs the fetch, normalize, sync pipeline over selected feeds.
type Collector struct {
	source Source
	store  *Store
	log    *CollectLog
	reg    *Registry
}

// CollectOpts selects which feeds to collect and with what request
// parameters.
type CollectOpts struct {
	Feeds  []string   // subset of feed names; empty means every registered feed
	Params url.Values // extra request parameters applied to every fetch (laeId, routeId, ...)
}

// Outcome is the per-feed result of a collection run.
type Outcome struct {
	Feed   string `json:"feed"`
	Counts Counts `json:"counts"`
	Err    error  `json:"-"`
}

// NewCollector creates a collector. log may be nil when run bookkeeping is
// not wanted (ad-hoc CLI collections against a scratch database).
func NewCollector(source Source, store *Store, log *CollectLog, reg *Registry) *Collector {
	return &Collector{source: source, store: store, log: log, reg: reg}
}

// Run collects each selected feed in registration order. A feed that fails
// is recorded and skipped; the run continues with the next feed. The
// returned error is non-nil only for cancellation or an unknown feed name.
func (c *Collector) Run(ctx context.Context, opts CollectOpts) ([]Outcome, error) {
	log := zap.L().With(zap.String("component", "feed.collector"))

	names := opts.Feeds
	if len(names) == 0 {
		names = c.reg.Names()
	} else {
		// Surface a bad name before touching the network.
		for _, name := range names {
			if _, err := c.reg.Get(name); err != nil {
				return nil, err
			}
		}
	}

	outcomes := make([]Outcome, 0, len(names))
	for _, name := range names {
		select {
		case <-ctx.Done():
			return outcomes, ctx.Err()
		default:
		}

		feedLog := log.With(zap.String("feed", name))
		start := time.Now()

		counts, err := c.collectOne(ctx, name, opts.Params)
		outcomes = append(outcomes, Outcome{Feed: name, Counts: counts, Err: err})

		if err != nil {
			feedLog.Error("collection failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
			continue
		}
		feedLog.Info("collection complete",
			zap.Int("inserted", counts.Inserted),
			zap.Int("updated", counts.Updated),
			zap.Duration("elapsed", time.Since(start)),
		)
	}

	return outcomes, nil
}

func (c *Collector) collectOne(ctx context.Context, feedID string, params url.Values) (Counts, error) {
	runID := uuid.Nil
	if c.log != nil {
		id, err := c.log.Start(ctx, feedID)
		if err != nil {
			return Counts{}, err
		}
		runID = id
	}

	counts, err := c.fetchAndSync(ctx, feedID, params)
	if c.log != nil {
		if err != nil {
			if logErr := c.log.Fail(ctx, runID, err.Error()); logErr != nil {
				zap.L().Error("failed to record collection failure", zap.Error(logErr))
			}
		} else {
			if logErr := c.log.Complete(ctx, runID, counts); logErr != nil {
				zap.L().Error("failed to record collection completion", zap.Error(logErr))
			}
		}
	}
	return counts, err
}

func (c *Collector) fetchAndSync(ctx context.Context, feedID string, params url.Values) (Counts, error) {
	raw, err := c.source.Fetch(ctx, feedID, params)
	if err != nil {
		return Counts{}, err
	}

	records, err := Normalize(raw)
	if err != nil {
		return Counts{}, err
	}

	return c.store.Sync(ctx, feedID, records)
}
