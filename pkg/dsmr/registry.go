package dsmr

import (
	"fmt"
	"sort"
	"sync"

	"github.com/zuidwijk/dsmr/internal/obis"
)

// Registry is an ordered, immutable field table for one meter variant.
// It is safe for concurrent use once built.
type Registry struct {
	fields []Field
	byName map[string]int
}

// NewRegistry builds a registry from an ordered field list. OBIS
// references and names must be distinct.
func NewRegistry(fields []Field) (*Registry, error) {
	r := &Registry{
		fields: append([]Field(nil), fields...),
		byName: make(map[string]int, len(fields)),
	}
	seen := make(map[obis.ID]string, len(fields))
	for i, f := range r.fields {
		if f.Name == "" {
			return nil, fmt.Errorf("dsmr: field %d has no name", i)
		}
		if prev, dup := seen[f.ID]; dup {
			return nil, fmt.Errorf("dsmr: fields %q and %q share OBIS reference %s", prev, f.Name, f.ID)
		}
		seen[f.ID] = f.Name
		if _, dup := r.byName[f.Name]; dup {
			return nil, fmt.Errorf("dsmr: duplicate field name %q", f.Name)
		}
		r.byName[f.Name] = i
	}
	return r, nil
}

// Len returns the number of fields.
func (r *Registry) Len() int { return len(r.fields) }

// Fields returns the descriptors in registry order.
func (r *Registry) Fields() []Field {
	return append([]Field(nil), r.fields...)
}

// lookup scans for the first field matching id.
func (r *Registry) lookup(id obis.ID) (int, bool) {
	for i := range r.fields {
		if r.fields[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

func (r *Registry) index(name string) (int, bool) {
	i, ok := r.byName[name]
	return i, ok
}

var (
	variantMu sync.RWMutex
	variants  = make(map[string]*Registry)
)

// RegisterVariant stores a named field registry. Built-in country
// variants register themselves at init time; callers may add their
// own.
func RegisterVariant(name string, r *Registry) {
	variantMu.Lock()
	defer variantMu.Unlock()
	variants[name] = r
}

// Variant returns the registry registered under name.
func Variant(name string) (*Registry, error) {
	variantMu.RLock()
	defer variantMu.RUnlock()
	if r, ok := variants[name]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("dsmr: unknown variant %q (have %v)", name, variantNamesLocked())
}

// Variants lists the registered variant names, sorted.
func Variants() []string {
	variantMu.RLock()
	defer variantMu.RUnlock()
	return variantNamesLocked()
}

func variantNamesLocked() []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func mustRegistry(fields []Field) *Registry {
	r, err := NewRegistry(fields)
	if err != nil {
		panic(err)
	}
	return r
}
