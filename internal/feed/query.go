package feed

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gbdata/roadsync/internal/db"
)

// PredicateOp selects the comparison a predicate performs.
type PredicateOp int

const (
	OpEq       PredicateOp = iota // exact match on any field
	OpContains                    // substring containment on a text field
	OpRange                       // numeric range on an integer field
)

// Predicate is one filter condition. Predicates in a list are ANDed.
type Predicate struct {
	Field string
	Op    PredicateOp
	Value string // Eq / Contains
	Min   *int64 // Range; nil bound is open
	Max   *int64
}

// QueryResult is one page of a feed's stored rows.
//
// Predicates are applied to the fetched page window, not pushed into the
// scan: Count can therefore be smaller than len of a full page even when
// more matching rows exist on other pages. Total is the feed's row count
// before any filtering, so callers can detect exactly that. Filtering the
// whole table instead is a known alternative; this order is kept for
// compatibility with the behavior consumers already depend on.
type QueryResult struct {
	Items []Record `json:"items"`
	Count int      `json:"count"` // items after filtering
	Total int64    `json:"total"` // feed rows before filtering
}

// Query returns one page of the feed's rows in key order, with predicates
// applied to the page. page is 1-based; pageSize 0 takes the configured
// default and must otherwise be within [1, max].
func (s *Store) Query(ctx context.Context, feedID string, page, pageSize int, preds []Predicate) (*QueryResult, error) {
	d, err := s.reg.Get(feedID)
	if err != nil {
		return nil, err
	}

	if pageSize == 0 {
		pageSize = s.opts.DefaultPageSize
	}
	if page < 1 {
		return nil, wrapKind(ErrInvalidArgument, nil, "feed: page must be >= 1, got %d", page)
	}
	if pageSize < 1 || pageSize > s.opts.MaxPageSize {
		return nil, wrapKind(ErrInvalidArgument, nil,
			"feed: page size must be within [1, %d], got %d", s.opts.MaxPageSize, pageSize)
	}
	if err := validatePredicates(d, preds); err != nil {
		return nil, err
	}

	table := db.SanitizeTable(d.Table)

	var total int64
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&total); err != nil {
		return nil, wrapKind(ErrPersistence, err, "feed: count rows for %q", feedID)
	}

	sql := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s, id OFFSET $1 LIMIT $2",
		db.QuoteAndJoin(d.ColumnNames()), table, db.QuoteAndJoin(d.Key))

	offset := (page - 1) * pageSize
	rows, err := s.pool.Query(ctx, sql, offset, pageSize)
	if err != nil {
		return nil, wrapKind(ErrPersistence, err, "feed: scan page for %q", feedID)
	}
	defer rows.Close()

	var pageItems []Record
	for rows.Next() {
		rec, err := scanRecord(d, rows.Scan)
		if err != nil {
			return nil, wrapKind(ErrPersistence, err, "feed: scan row for %q", feedID)
		}
		pageItems = append(pageItems, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapKind(ErrPersistence, err, "feed: iterate rows for %q", feedID)
	}

	items := make([]Record, 0, len(pageItems))
	for _, rec := range pageItems {
		if matchesAll(rec, preds) {
			items = append(items, rec)
		}
	}

	return &QueryResult{Items: items, Count: len(items), Total: total}, nil
}

// validatePredicates rejects predicates naming unknown fields or pairing an
// operator with an incompatible field type, before any store access.
func validatePredicates(d *Descriptor, preds []Predicate) error {
	for _, p := range preds {
		f, ok := d.Field(p.Field)
		if !ok {
			return wrapKind(ErrInvalidArgument, nil,
				"feed: %q has no field %q", d.Name, p.Field)
		}
		switch p.Op {
		case OpContains:
			if f.Kind != KindText {
				return wrapKind(ErrInvalidArgument, nil,
					"feed: contains filter needs a text field, %q is numeric", p.Field)
			}
		case OpRange:
			if f.Kind != KindInt {
				return wrapKind(ErrInvalidArgument, nil,
					"feed: range filter needs a numeric field, %q is text", p.Field)
			}
			if p.Min == nil && p.Max == nil {
				return wrapKind(ErrInvalidArgument, nil,
					"feed: range filter on %q needs at least one bound", p.Field)
			}
		case OpEq:
		default:
			return wrapKind(ErrInvalidArgument, nil, "feed: unknown predicate op %d", p.Op)
		}
	}
	return nil
}

// scanRecord builds a record from one row, leaving NULL columns absent.
func scanRecord(d *Descriptor, scan func(dest ...any) error) (Record, error) {
	dests := make([]any, len(d.Fields))
	texts := make([]*string, len(d.Fields))
	ints := make([]*int64, len(d.Fields))
	for i, f := range d.Fields {
		if f.Kind == KindInt {
			dests[i] = &ints[i]
		} else {
			dests[i] = &texts[i]
		}
	}
	if err := scan(dests...); err != nil {
		return nil, err
	}

	rec := Record{}
	for i, f := range d.Fields {
		if f.Kind == KindInt {
			if ints[i] != nil {
				rec[f.Name] = *ints[i]
			}
		} else {
			if texts[i] != nil {
				rec[f.Name] = *texts[i]
			}
		}
	}
	return rec, nil
}

func matchesAll(rec Record, preds []Predicate) bool {
	for _, p := range preds {
		if !matches(rec, p) {
			return false
		}
	}
	return true
}

// matches evaluates one predicate; an absent field never matches.
func matches(rec Record, p Predicate) bool {
	v, ok := rec[p.Field]
	if !ok {
		return false
	}

	switch p.Op {
	case OpEq:
		return valueString(v) == p.Value
	case OpContains:
		return strings.Contains(valueString(v), p.Value)
	case OpRange:
		n, ok := v.(int64)
		if !ok {
			return false
		}
		if p.Min != nil && n < *p.Min {
			return false
		}
		if p.Max != nil && n > *p.Max {
			return false
		}
		return true
	default:
		return false
	}
}

func valueString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprint(t)
	}
}
