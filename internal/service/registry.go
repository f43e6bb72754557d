package service

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/framekit/framekit/internal/logsink"
)

// Registry owns the discovered service singletons.
type Registry struct {
	byCap   map[Key]any
	ordered []any
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byCap: make(map[Key]any)}
}

// Discover instantiates every definition once and stores it under its
// capability. Violations of the exactly-one-capability invariant are
// configuration errors naming the offending type (and, for multiples,
// every conflicting interface).
func (r *Registry) Discover(defs []Definition) error {
	for _, def := range defs {
		inst := def.New()
		typ := reflect.TypeOf(inst)
		switch len(def.Capabilities) {
		case 1:
		case 0:
			return fmt.Errorf("service %s: %w", typ, ErrNoCapability)
		default:
			names := make([]string, len(def.Capabilities))
			for i, c := range def.Capabilities {
				names[i] = c.String()
			}
			return fmt.Errorf("service %s [%s]: %w", typ, strings.Join(names, ", "), ErrMultipleCapabilities)
		}
		key := def.Capabilities[0]
		if key.Kind() == reflect.Interface && !typ.Implements(key) {
			return fmt.Errorf("service %s (capability %s): %w", typ, key, ErrNotImplemented)
		}
		if _, dup := r.byCap[key]; dup {
			return fmt.Errorf("capability %s (service %s): %w", key, typ, ErrDuplicateCapability)
		}
		r.byCap[key] = inst
		r.ordered = append(r.ordered, inst)
	}
	return nil
}

// Get returns the service registered under capability T. Missing a
// mandatory service is a configuration error.
func Get[T any](r *Registry) (T, error) {
	if inst, ok := r.byCap[Capability[T]()]; ok {
		return inst.(T), nil
	}
	var zero T
	return zero, fmt.Errorf("capability %s: %w", Capability[T](), ErrNotFound)
}

// TryGet returns the service under capability T without failing.
func TryGet[T any](r *Registry) (T, bool) {
	if inst, ok := r.byCap[Capability[T]()]; ok {
		return inst.(T), true
	}
	var zero T
	return zero, false
}

// Has reports whether capability T is registered.
func Has[T any](r *Registry) bool {
	_, ok := r.byCap[Capability[T]()]
	return ok
}

// Len returns the number of registered services.
func (r *Registry) Len() int { return len(r.ordered) }

// Startup runs every Startable hook in registration order, stopping at
// the first error.
func (r *Registry) Startup() error {
	for _, inst := range r.ordered {
		s, ok := inst.(Startable)
		if !ok {
			continue
		}
		if err := s.Startup(); err != nil {
			return fmt.Errorf("service %T startup: %w", inst, err)
		}
	}
	return nil
}

// Shutdown runs every Shutdowner hook in registration order. Errors
// are logged so later services still shut down.
func (r *Registry) Shutdown() {
	for _, inst := range r.ordered {
		s, ok := inst.(Shutdowner)
		if !ok {
			continue
		}
		if err := s.Shutdown(); err != nil {
			logsink.L().Exception(err, "service shutdown failed", "service", fmt.Sprintf("%T", inst))
		}
	}
}

// PreUpdate fans out to every PreUpdater in registration order.
func (r *Registry) PreUpdate() {
	for _, inst := range r.ordered {
		if s, ok := inst.(PreUpdater); ok {
			s.PreUpdate()
		}
	}
}

// PostUpdate fans out to every PostUpdater in registration order.
func (r *Registry) PostUpdate() {
	for _, inst := range r.ordered {
		if s, ok := inst.(PostUpdater); ok {
			s.PostUpdate()
		}
	}
}

// Clear drops every registration.
func (r *Registry) Clear() {
	clear(r.byCap)
	r.ordered = nil
}
