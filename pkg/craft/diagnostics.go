package craft

import (
	"fmt"
	"sort"
	"sync"
)

// Diagnostics accumulates attribute keys that no dispatch table recognized.
// Unknown keys are ordinary data quality findings, not errors; callers
// inspect them after a load batch. Safe for concurrent use.
type Diagnostics struct {
	mu      sync.Mutex
	unknown map[string][]unknownRecord
}

// unknownRecord keeps the entity reference, not its rendered label. Labels
// often depend on attributes read after the unknown key, so rendering is
// deferred to snapshot time.
type unknownRecord struct {
	entity fmt.Stringer
	value  string
}

// UnknownKey is one recorded sighting of an unrecognized attribute key.
type UnknownKey struct {
	Key    string
	Entity string
	Value  string
}

func NewDiagnostics() *Diagnostics {
	return &Diagnostics{unknown: make(map[string][]unknownRecord)}
}

// Record notes one sighting of an unrecognized key on the given entity.
func (d *Diagnostics) Record(key string, entity fmt.Stringer, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.unknown[key] = append(d.unknown[key], unknownRecord{entity: entity, value: value})
}

// Keys returns the distinct unrecognized keys, sorted.
func (d *Diagnostics) Keys() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	keys := make([]string, 0, len(d.unknown))
	for k := range d.unknown {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ByKey returns every sighting recorded under the literal key text, in
// recording order, with entity labels rendered.
func (d *Diagnostics) ByKey(key string) []UnknownKey {
	d.mu.Lock()
	defer d.mu.Unlock()
	return renderAll(key, d.unknown[key])
}

// Entries returns every recorded sighting, sorted by key then recording
// order.
func (d *Diagnostics) Entries() []UnknownKey {
	d.mu.Lock()
	defer d.mu.Unlock()
	keys := make([]string, 0, len(d.unknown))
	for k := range d.unknown {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var out []UnknownKey
	for _, k := range keys {
		out = append(out, renderAll(k, d.unknown[k])...)
	}
	return out
}

// Len returns the number of distinct unrecognized keys.
func (d *Diagnostics) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.unknown)
}

func renderAll(key string, records []unknownRecord) []UnknownKey {
	out := make([]UnknownKey, 0, len(records))
	for _, r := range records {
		entity := ""
		if r.entity != nil {
			entity = r.entity.String()
		}
		out = append(out, UnknownKey{Key: key, Entity: entity, Value: r.value})
	}
	return out
}
