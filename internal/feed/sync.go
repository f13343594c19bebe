package feed

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/gbdata/roadsync/internal/db"
)

// Counts reports the outcome of one sync batch.
type Counts struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
}

// StoreOptions tunes the query layer.
type StoreOptions struct {
	MaxPageSize     int // default 100
	DefaultPageSize int // default 10
}

// Store reconciles normalized records against the road_data tables and serves
// filtered reads back out.
type Store struct {
	pool db.Pool
	reg  *Registry
	opts StoreOptions
}

// NewStore creates a Store over the given pool and registry.
func NewStore(pool db.Pool, reg *Registry, opts StoreOptions) *Store {
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = 100
	}
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = 10
	}
	return &Store{pool: pool, reg: reg, opts: opts}
}

// Sync reconciles a batch of records against the feed's table. Records are
// applied in input order inside a single transaction: a record whose full key
// matches an existing row updates only the fields it carries; otherwise it is
// inserted. A record missing any key field is always inserted, since it can
// never be reconciled later. The batch commits as a unit or not at all.
func (s *Store) Sync(ctx context.Context, feedID string, records []Record) (Counts, error) {
	d, err := s.reg.Get(feedID)
	if err != nil {
		return Counts{}, err
	}

	if len(records) == 0 {
		return Counts{}, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Counts{}, wrapKind(ErrPersistence, err, "feed: begin sync batch for %q", feedID)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var counts Counts
	for _, rec := range records {
		keyVals, haveKey := keyValues(d, rec)

		if !haveKey {
			if err := insertRecord(ctx, tx, d, rec); err != nil {
				return Counts{}, wrapKind(ErrPersistence, err, "feed: insert orphan record for %q", feedID)
			}
			counts.Inserted++
			continue
		}

		rowID, found, err := lookupByKey(ctx, tx, d, keyVals)
		if err != nil {
			return Counts{}, wrapKind(ErrPersistence, err, "feed: key lookup for %q", feedID)
		}

		if found {
			if err := updateRecord(ctx, tx, d, rowID, rec); err != nil {
				return Counts{}, wrapKind(ErrPersistence, err, "feed: update record for %q", feedID)
			}
			counts.Updated++
		} else {
			if err := insertRecord(ctx, tx, d, rec); err != nil {
				return Counts{}, wrapKind(ErrPersistence, err, "feed: insert record for %q", feedID)
			}
			counts.Inserted++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Counts{}, wrapKind(ErrPersistence, err, "feed: commit sync batch for %q", feedID)
	}
	return counts, nil
}

// Clear deletes every row of the feed's table and returns the count.
func (s *Store) Clear(ctx context.Context, feedID string) (int64, error) {
	d, err := s.reg.Get(feedID)
	if err != nil {
		return 0, err
	}

	tag, err := s.pool.Exec(ctx, "DELETE FROM "+db.SanitizeTable(d.Table))
	if err != nil {
		return 0, wrapKind(ErrPersistence, err, "feed: clear %q", feedID)
	}
	return tag.RowsAffected(), nil
}

// keyValues extracts the key tuple from a record. ok is false when any key
// field is absent.
func keyValues(d *Descriptor, rec Record) ([]any, bool) {
	vals := make([]any, 0, len(d.Key))
	for _, k := range d.Key {
		v, ok := rec[k]
		if !ok {
			return nil, false
		}
		f, _ := d.Field(k)
		vals = append(vals, bindValue(f, v))
	}
	return vals, true
}

// lookupByKey finds the surrogate row id for a key tuple. The row is locked
// so a concurrent sync cannot race this read-modify-write within its own
// transaction.
func lookupByKey(ctx context.Context, tx pgx.Tx, d *Descriptor, keyVals []any) (int64, bool, error) {
	conds := make([]string, len(d.Key))
	for i, k := range d.Key {
		conds[i] = fmt.Sprintf("%s = $%d", db.QuoteColumn(k), i+1)
	}
	sql := fmt.Sprintf("SELECT id FROM %s WHERE %s FOR UPDATE",
		db.SanitizeTable(d.Table), strings.Join(conds, " AND "))

	var id int64
	err := tx.QueryRow(ctx, sql, keyVals...).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// insertRecord inserts the fields the record carries, in descriptor order.
func insertRecord(ctx context.Context, tx pgx.Tx, d *Descriptor, rec Record) error {
	var (
		cols         []string
		args         []any
		placeholders []string
	)
	for _, f := range d.Fields {
		v, ok := rec[f.Name]
		if !ok {
			continue
		}
		cols = append(cols, f.Name)
		args = append(args, bindValue(f, v))
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}
	if len(cols) == 0 {
		return nil
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		db.SanitizeTable(d.Table), db.QuoteAndJoin(cols), strings.Join(placeholders, ", "))
	_, err := tx.Exec(ctx, sql, args...)
	return err
}

// updateRecord overwrites the non-key fields the record carries, leaving
// every other column untouched.
func updateRecord(ctx context.Context, tx pgx.Tx, d *Descriptor, rowID int64, rec Record) error {
	var (
		sets []string
		args []any
	)
	for _, f := range d.Fields {
		if d.isKey(f.Name) {
			continue
		}
		v, ok := rec[f.Name]
		if !ok {
			continue
		}
		args = append(args, bindValue(f, v))
		sets = append(sets, fmt.Sprintf("%s = $%d", db.QuoteColumn(f.Name), len(args)))
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, rowID)
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d",
		db.SanitizeTable(d.Table), strings.Join(sets, ", "), len(args))
	_, err := tx.Exec(ctx, sql, args...)
	return err
}

// bindValue converts a record value to the column's type. Normalization
// coerces digit runs to int64 even when the column is text (e.g. a numeric
// pkplcId), so text columns get the string form back; integer columns accept
// int64 directly and leave other strings to the database's cast, which fails
// the batch rather than silently dropping data.
func bindValue(f Field, v any) any {
	if f.Kind == KindText {
		if n, ok := v.(int64); ok {
			return strconv.FormatInt(n, 10)
		}
	}
	return v
}
