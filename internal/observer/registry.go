package observer

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrDuplicateObserver reports two definitions constructing the same
// concrete type.
var ErrDuplicateObserver = errors.New("observer type already registered")

type entry struct {
	obs     Observer
	typ     reflect.Type
	enabled bool
}

// Registry holds the discovered observers in discovery order plus
// their enabled subset.
type Registry struct {
	entries []*entry
	index   map[reflect.Type]*entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[reflect.Type]*entry)}
}

// Discover instantiates every definition once, in order. Testing
// definitions are skipped unless includeTesting is set. An observer
// whose StartsDisabled capability reports true is registered but left
// out of the enabled set.
func (r *Registry) Discover(defs []Definition, includeTesting bool) error {
	for _, def := range defs {
		if def.Testing && !includeTesting {
			continue
		}
		obs := def.New()
		typ := reflect.TypeOf(obs)
		if _, dup := r.index[typ]; dup {
			return fmt.Errorf("observer %s: %w", typ, ErrDuplicateObserver)
		}
		enabled := true
		if sd, ok := obs.(StartsDisabled); ok && sd.StartsDisabled() {
			enabled = false
		}
		e := &entry{obs: obs, typ: typ, enabled: enabled}
		r.entries = append(r.entries, e)
		r.index[typ] = e
	}
	return nil
}

// Enabled returns the enabled observers in discovery order. The slice
// is a copy, so toggling membership mid-dispatch never corrupts an
// in-flight iteration.
func (r *Registry) Enabled() []Observer {
	out := make([]Observer, 0, len(r.entries))
	for _, e := range r.entries {
		if e.enabled {
			out = append(out, e.obs)
		}
	}
	return out
}

// All returns every registered observer in discovery order.
func (r *Registry) All() []Observer {
	out := make([]Observer, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.obs)
	}
	return out
}

// Len returns the number of registered observers.
func (r *Registry) Len() int { return len(r.entries) }

// Enable adds observer type T to the enabled set. Idempotent; reports
// whether the type is registered.
func Enable[T Observer](r *Registry) bool {
	return r.setEnabled(reflect.TypeFor[T](), true)
}

// Disable removes observer type T from the enabled set. Idempotent;
// reports whether the type is registered.
func Disable[T Observer](r *Registry) bool {
	return r.setEnabled(reflect.TypeFor[T](), false)
}

// IsEnabled reports whether observer type T is in the enabled set.
func IsEnabled[T Observer](r *Registry) bool {
	e, ok := r.index[reflect.TypeFor[T]()]
	return ok && e.enabled
}

// Get returns the registered instance of observer type T.
func Get[T Observer](r *Registry) (T, bool) {
	if e, ok := r.index[reflect.TypeFor[T]()]; ok {
		return e.obs.(T), true
	}
	var zero T
	return zero, false
}

func (r *Registry) setEnabled(typ reflect.Type, enabled bool) bool {
	e, ok := r.index[typ]
	if !ok {
		return false
	}
	e.enabled = enabled
	return true
}

// Clear drops every registration.
func (r *Registry) Clear() {
	r.entries = nil
	clear(r.index)
}
