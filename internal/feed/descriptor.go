// Package feed implements the collection-and-sync pipeline for the provider's
// road-traffic and parking feeds: descriptor registry, payload fetch, XML
// normalization, upsert reconciliation, and the filtered pagination query
// layer over the road_data tables.
package feed

import (
	"github.com/rotisserie/eris"
)

// FieldKind is the storage type of a feed field.
type FieldKind int

const (
	KindText FieldKind = iota
	KindInt
)

// Field is one named, typed column of a feed.
type Field struct {
	Name string
	Kind FieldKind
}

// Descriptor identifies one external feed: its provider operation name, the
// target table, the ordered field set, and the field(s) forming the
// reconciliation key. Descriptors are immutable after registration.
type Descriptor struct {
	Name   string
	Table  string
	Fields []Field
	Key    []string
}

// Field returns the named field, if the descriptor declares it.
func (d *Descriptor) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// ColumnNames returns the field names in declaration order.
func (d *Descriptor) ColumnNames() []string {
	cols := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		cols[i] = f.Name
	}
	return cols
}

// isKey reports whether name is one of the key fields.
func (d *Descriptor) isKey(name string) bool {
	for _, k := range d.Key {
		if k == name {
			return true
		}
	}
	return false
}

// Registry maps feed names to their descriptors. It is populated once at
// startup and read-only afterwards, so concurrent readers need no locking.
type Registry struct {
	feeds map[string]*Descriptor
	order []string // registration order for deterministic iteration
}

// NewRegistry creates a registry populated with all provider feeds.
func NewRegistry() *Registry {
	r := &Registry{feeds: make(map[string]*Descriptor)}
	for _, d := range providerFeeds() {
		r.Register(d)
	}
	return r
}

// Register adds a descriptor to the registry.
func (r *Registry) Register(d *Descriptor) {
	r.feeds[d.Name] = d
	r.order = append(r.order, d.Name)
}

// Get returns the descriptor for the named feed.
func (r *Registry) Get(name string) (*Descriptor, error) {
	d, ok := r.feeds[name]
	if !ok {
		return nil, wrapKind(ErrUnknownFeed, eris.Errorf("feed: %q is not registered", name), "feed: resolve %q", name)
	}
	return d, nil
}

// All returns all descriptors in registration order.
func (r *Registry) All() []*Descriptor {
	result := make([]*Descriptor, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.feeds[name])
	}
	return result
}

// Names returns all registered feed names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
