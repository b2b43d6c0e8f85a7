// Package event keeps named handler registrations and dispatches to them.
package event

import (
	"sync"

	"github.com/reoring/gviz"
)

// Event names used by chart wrappers.
const (
	Ready  = "ready"
	Error  = "error"
	Select = "select"
)

// Event is one dispatched occurrence. Properties may be nil.
type Event struct {
	Name       string
	Properties *gviz.Bag
}

// Handler receives events.
type Handler func(Event)

// Ref identifies one registration. The zero Ref matches nothing.
type Ref struct{ id uint64 }

// Valid reports whether r was issued by a registry.
func (r Ref) Valid() bool { return r.id != 0 }

type entry struct {
	id   uint64
	name string
	fn   Handler
}

// Registry holds handlers by event name. Ids are issued monotonically and
// never reused. It is safe for concurrent use, and handlers may register or
// remove handlers while being dispatched: Trigger works on a snapshot, so a
// removal takes effect from the next Trigger on.
type Registry struct {
	mu      sync.Mutex
	nextID  uint64
	entries []entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry { return &Registry{} }

// Add registers fn for the named event. A nil fn is ignored and yields the
// zero Ref.
func (r *Registry) Add(name string, fn Handler) Ref {
	if fn == nil {
		return Ref{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.entries = append(r.entries, entry{id: r.nextID, name: name, fn: fn})
	return Ref{id: r.nextID}
}

// Remove deregisters exactly the handler behind ref and reports whether it
// was still registered.
func (r *Registry) Remove(ref Ref) bool {
	if !ref.Valid() {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.id == ref.id {
			// copy so snapshots taken by running dispatches stay intact
			next := make([]entry, 0, len(r.entries)-1)
			next = append(next, r.entries[:i]...)
			r.entries = append(next, r.entries[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveAll deregisters every handler.
func (r *Registry) RemoveAll() {
	r.mu.Lock()
	r.entries = nil
	r.mu.Unlock()
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Count returns the number of handlers registered for name.
func (r *Registry) Count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.name == name {
			n++
		}
	}
	return n
}

// Trigger calls the handlers registered for name in registration order and
// returns how many were called.
func (r *Registry) Trigger(name string, props *gviz.Bag) int {
	r.mu.Lock()
	var snapshot []Handler
	for _, e := range r.entries {
		if e.name == name {
			snapshot = append(snapshot, e.fn)
		}
	}
	r.mu.Unlock()

	ev := Event{Name: name, Properties: props}
	for _, fn := range snapshot {
		fn(ev)
	}
	return len(snapshot)
}
