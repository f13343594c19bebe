package feed

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/gbdata/roadsync/internal/db"
)

// CollectEntry represents a row in road_data.collect_log.
type CollectEntry struct {
	ID          uuid.UUID  `json:"id"`
	Feed        string     `json:"feed"`
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Inserted    int        `json:"inserted"`
	Updated     int        `json:"updated"`
	Error       string     `json:"error,omitempty"`
}

// CollectLog provides read/write access to the road_data.collect_log table.
type CollectLog struct {
	pool db.Pool
}

// NewCollectLog creates a CollectLog backed by the given connection pool.
func NewCollectLog(pool db.Pool) *CollectLog {
	return &CollectLog{pool: pool}
}

// Start records the beginning of a collection run for a feed and returns the
// run id.
func (l *CollectLog) Start(ctx context.Context, feed string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := l.pool.Exec(ctx,
		`INSERT INTO road_data.collect_log (id, feed, status, started_at)
		 VALUES ($1, $2, 'running', now())`,
		id, feed,
	)
	if err != nil {
		return uuid.Nil, eris.Wrapf(err, "collectlog: start run for %s", feed)
	}
	return id, nil
}

// Complete marks a run as successful with its sync counts.
func (l *CollectLog) Complete(ctx context.Context, runID uuid.UUID, counts Counts) error {
	_, err := l.pool.Exec(ctx,
		`UPDATE road_data.collect_log
		 SET status = 'complete', completed_at = now(), inserted = $1, updated = $2
		 WHERE id = $3`,
		counts.Inserted, counts.Updated, runID,
	)
	if err != nil {
		return eris.Wrapf(err, "collectlog: complete run %s", runID)
	}
	return nil
}

// Fail marks a run as failed with an error message.
func (l *CollectLog) Fail(ctx context.Context, runID uuid.UUID, errMsg string) error {
	_, err := l.pool.Exec(ctx,
		`UPDATE road_data.collect_log
		 SET status = 'failed', completed_at = now(), error = $1
		 WHERE id = $2`,
		errMsg, runID,
	)
	if err != nil {
		return eris.Wrapf(err, "collectlog: fail run %s", runID)
	}
	return nil
}

// LastSuccess returns the started_at time of the most recent successful run
// for a feed, or nil if the feed has never been collected successfully.
func (l *CollectLog) LastSuccess(ctx context.Context, feed string) (*time.Time, error) {
	var t time.Time
	err := l.pool.QueryRow(ctx,
		`SELECT started_at FROM road_data.collect_log
		 WHERE feed = $1 AND status = 'complete'
		 ORDER BY started_at DESC LIMIT 1`,
		feed,
	).Scan(&t)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "collectlog: last success for %s", feed)
	}
	return &t, nil
}

// Recent returns the most recent runs across all feeds.
func (l *CollectLog) Recent(ctx context.Context, limit int) ([]CollectEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.pool.Query(ctx,
		`SELECT id, feed, status, started_at, completed_at, inserted, updated, error
		 FROM road_data.collect_log ORDER BY started_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "collectlog: list recent")
	}
	defer rows.Close()

	var entries []CollectEntry
	for rows.Next() {
		var (
			e      CollectEntry
			errStr *string
		)
		if err := rows.Scan(&e.ID, &e.Feed, &e.Status, &e.StartedAt, &e.CompletedAt, &e.Inserted, &e.Updated, &errStr); err != nil {
			return nil, eris.Wrap(err, "collectlog: scan entry")
		}
		if errStr != nil {
			e.Error = *errStr
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
