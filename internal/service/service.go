// Package service owns singleton engine services, keyed by the single
// capability interface each implements. Discovery runs once at engine
// initialization from an explicit manifest of definitions and fails
// loudly on capability violations.
package service

import (
	"errors"
	"reflect"
)

var (
	// ErrNotFound reports a mandatory service lookup that missed.
	ErrNotFound = errors.New("service not found")
	// ErrNoCapability reports a definition declaring zero capability
	// interfaces.
	ErrNoCapability = errors.New("service declares no capability interface")
	// ErrMultipleCapabilities reports a definition declaring more than
	// one capability interface.
	ErrMultipleCapabilities = errors.New("service declares multiple capability interfaces")
	// ErrDuplicateCapability reports two definitions claiming the same
	// capability.
	ErrDuplicateCapability = errors.New("capability already registered")
	// ErrNotImplemented reports an instance that does not implement its
	// declared capability.
	ErrNotImplemented = errors.New("service does not implement declared capability")
)

// Key identifies a capability interface.
type Key = reflect.Type

// Capability returns the key for interface type T.
func Capability[T any]() Key {
	return reflect.TypeFor[T]()
}

// Definition declares one service for discovery: a constructor plus
// the capability keys the concrete type claims. Exactly one capability
// is valid; zero or several fail discovery.
type Definition struct {
	New          func() any
	Capabilities []Key
}

// Def builds the single-capability definition for the common case.
func Def[TCap any](ctor func() TCap) Definition {
	return Definition{
		New:          func() any { return ctor() },
		Capabilities: []Key{Capability[TCap]()},
	}
}

// Optional lifecycle hooks. A service "is-a" capability and "has-a"
// lifecycle behavior; the registry fans out to whichever hooks an
// instance implements, in registration order.

// Startable runs once when the host starts the engine.
type Startable interface {
	Startup() error
}

// Shutdowner runs once at engine shutdown.
type Shutdowner interface {
	Shutdown() error
}

// PreUpdater runs at the start of every frame, before observers.
type PreUpdater interface {
	PreUpdate()
}

// PostUpdater runs at the end of every frame, after observers.
type PostUpdater interface {
	PostUpdate()
}
