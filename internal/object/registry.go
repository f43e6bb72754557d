package object

import (
	"errors"
	"fmt"
	"iter"
)

// ErrDuplicateID reports Register called with an ID already present.
var ErrDuplicateID = errors.New("object id already registered")

// Registry is the dual-indexed store of live proxies: by kernel ID and
// by host native handle. Both lookups are O(1).
//
// The registry never fires lifecycle notifications itself — proxies and
// the lifecycle manager own that, which keeps the layering acyclic.
type Registry struct {
	byID     map[ID]*Proxy
	byNative map[NativeID]*Proxy
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:     make(map[ID]*Proxy, 256),
		byNative: make(map[NativeID]*Proxy, 256),
	}
}

// Register inserts the proxy under both indices. A duplicate proxy ID
// is a configuration error.
func (r *Registry) Register(p *Proxy) error {
	if _, exists := r.byID[p.ID()]; exists {
		return fmt.Errorf("proxy %d: %w", p.ID(), ErrDuplicateID)
	}
	r.byID[p.ID()] = p
	r.byNative[p.NativeID()] = p
	return nil
}

// Unregister removes the proxy from both indices and reports whether
// it was present. The native index entry is only dropped when it still
// points at this proxy, so a host that recycled the handle for a newer
// proxy keeps its mapping.
func (r *Registry) Unregister(p *Proxy) bool {
	if _, ok := r.byID[p.ID()]; !ok {
		return false
	}
	delete(r.byID, p.ID())
	if cur, ok := r.byNative[p.NativeID()]; ok && cur == p {
		delete(r.byNative, p.NativeID())
	}
	return true
}

// UnregisterID removes by proxy ID.
func (r *Registry) UnregisterID(id ID) bool {
	p, ok := r.byID[id]
	if !ok {
		return false
	}
	return r.Unregister(p)
}

// ByID looks up a proxy by kernel ID.
func (r *Registry) ByID(id ID) (*Proxy, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// ByNativeID looks up a proxy by host handle.
func (r *Registry) ByNativeID(id NativeID) (*Proxy, bool) {
	p, ok := r.byNative[id]
	return p, ok
}

// Len returns the number of registered proxies.
func (r *Registry) Len() int { return len(r.byID) }

// All yields every registered proxy. The sequence is lazy and
// restartable; callers that register or unregister while iterating
// must iterate Snapshot instead.
func (r *Registry) All() iter.Seq[*Proxy] {
	return func(yield func(*Proxy) bool) {
		for _, p := range r.byID {
			if !yield(p) {
				return
			}
		}
	}
}

// Snapshot copies the current proxy set. Safe to iterate while
// registration or unregistration happens as a side effect, e.g. the
// shutdown destroy sweep.
func (r *Registry) Snapshot() []*Proxy {
	out := make([]*Proxy, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out
}

// Clear drops every entry without notifications.
func (r *Registry) Clear() {
	clear(r.byID)
	clear(r.byNative)
}
