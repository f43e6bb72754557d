// Package object holds the kernel's proxy lifecycle machinery: proxy
// IDs, the managed proxy state machine, the dual-indexed registry and
// the deferred ready/destroy lifecycle manager.
//
// Everything here is single-threaded by contract — the host drives the
// kernel from one thread, so there are no locks.
package object

import (
	"errors"
	"fmt"
)

var (
	// ErrDoubleInitialize reports Initialize called twice on one proxy.
	ErrDoubleInitialize = errors.New("proxy already initialized")
	// ErrReleaseWithoutDestroy reports a deferred-destroy step running
	// for a proxy that never had Destroy requested.
	ErrReleaseWithoutDestroy = errors.New("native release without destroy request")
)

// State is the proxy state bitset.
type State uint8

const (
	StateInitialized State = 1 << iota
	StateEnabled
	StateVisible
	StateDestroyed
	StateReady
)

// Native is the host-side entity a proxy wraps. Release frees the
// host resource and is called exactly once, during the end-of-frame
// destroy drain.
type Native interface {
	NativeID() NativeID
	Release() error
}

// Listener receives proxy transition events. Listeners fire
// synchronously, in registration order, at the defined transition
// points.
type Listener interface {
	OnCreated(p *Proxy)
	OnEnabled(p *Proxy)
	OnDisabled(p *Proxy)
	OnReady(p *Proxy)
	OnDestroyed(p *Proxy)
}

// NopListener implements Listener with no-ops; embed it when only a
// subset of events matters.
type NopListener struct{}

func (NopListener) OnCreated(*Proxy)   {}
func (NopListener) OnEnabled(*Proxy)   {}
func (NopListener) OnDisabled(*Proxy)  {}
func (NopListener) OnReady(*Proxy)     {}
func (NopListener) OnDestroyed(*Proxy) {}

// Proxy represents one host-native entity inside the kernel.
//
// Lifecycle: construct via Runtime.NewProxy, call Initialize once,
// toggle SetEnabled as the host entity changes, call Destroy when the
// entity goes away. Logical destruction (events, unregistration) is
// immediate; the native resource is released at the end-of-frame
// drain.
type Proxy struct {
	id       ID
	native   Native
	parent   *Proxy
	state    State
	released bool

	listeners []Listener
	rt        *Runtime
}

// Option configures a proxy at construction.
type Option func(*Proxy)

// WithParent links a parent proxy, used by the hierarchy-aware ready
// policy.
func WithParent(parent *Proxy) Option {
	return func(p *Proxy) { p.parent = parent }
}

// WithListeners appends transition listeners in order.
func WithListeners(ls ...Listener) Option {
	return func(p *Proxy) { p.listeners = append(p.listeners, ls...) }
}

// ID returns the proxy's kernel handle.
func (p *Proxy) ID() ID { return p.id }

// NativeID returns the host handle of the wrapped entity.
func (p *Proxy) NativeID() NativeID { return p.native.NativeID() }

// Native returns the wrapped host entity.
func (p *Proxy) Native() Native { return p.native }

// Parent returns the parent proxy, or nil.
func (p *Proxy) Parent() *Proxy { return p.parent }

// Is reports whether every bit in s is set.
func (p *Proxy) Is(s State) bool { return p.state&s == s }

// Enabled reports whether the proxy is enabled and not destroyed.
func (p *Proxy) Enabled() bool {
	return p.state&StateEnabled != 0 && p.state&StateDestroyed == 0
}

// EnabledInHierarchy reports whether the proxy and every ancestor are
// enabled.
func (p *Proxy) EnabledInHierarchy() bool {
	for cur := p; cur != nil; cur = cur.parent {
		if !cur.Enabled() {
			return false
		}
	}
	return true
}

// Destroyed reports whether Destroy was requested. Monotonic.
func (p *Proxy) Destroyed() bool { return p.state&StateDestroyed != 0 }

// Ready reports whether the one-time Ready notification fired.
func (p *Proxy) Ready() bool { return p.state&StateReady != 0 }

// AddListener appends a transition listener after construction.
func (p *Proxy) AddListener(l Listener) {
	p.listeners = append(p.listeners, l)
}

// Initialize registers the proxy and fires Created, then Enabled when
// starting enabled. Calling it twice is a configuration error.
func (p *Proxy) Initialize(startEnabled bool) error {
	if p.state&StateInitialized != 0 {
		return fmt.Errorf("proxy %d: %w", p.id, ErrDoubleInitialize)
	}
	if startEnabled {
		p.state |= StateEnabled
	}
	if err := p.rt.Objects.Register(p); err != nil {
		return err
	}
	p.state |= StateInitialized
	p.rt.Lifecycle.ObjectCreated(p)
	for _, l := range p.listeners {
		l.OnCreated(p)
	}
	if startEnabled {
		for _, l := range p.listeners {
			l.OnEnabled(p)
		}
	}
	return nil
}

// SetEnabled toggles the enabled flag. Idempotent; a destroyed proxy
// ignores the call.
func (p *Proxy) SetEnabled(enabled bool) {
	if p.Destroyed() {
		return
	}
	if enabled == (p.state&StateEnabled != 0) {
		return
	}
	if enabled {
		p.state |= StateEnabled
		p.rt.Lifecycle.ObjectEnabled(p)
		for _, l := range p.listeners {
			l.OnEnabled(p)
		}
		return
	}
	p.state &^= StateEnabled
	p.rt.Lifecycle.ObjectDisabled(p)
	for _, l := range p.listeners {
		l.OnDisabled(p)
	}
}

// SetVisible toggles the visibility flag. No dispatch consequences at
// this layer.
func (p *Proxy) SetVisible(visible bool) {
	if visible {
		p.state |= StateVisible
	} else {
		p.state &^= StateVisible
	}
}

// Destroy performs logical destruction: fires Disabled when the proxy
// was enabled, fires Destroyed, unregisters, and queues the native
// release for the end-of-frame drain. Idempotent.
func (p *Proxy) Destroy() {
	if p.Destroyed() {
		return
	}
	if p.state&StateEnabled != 0 {
		p.state &^= StateEnabled
		for _, l := range p.listeners {
			l.OnDisabled(p)
		}
	}
	p.state |= StateDestroyed
	// Unregistration and the destroyed notification are one logical
	// step: nothing may observe a destroyed-but-registered proxy.
	p.rt.Objects.Unregister(p)
	for _, l := range p.listeners {
		l.OnDestroyed(p)
	}
	p.rt.Lifecycle.ObjectDestroyed(p)
}

// markReady sets the Ready bit and fires the one-time Ready event.
// Called only by the lifecycle manager's ready drain.
func (p *Proxy) markReady() {
	if p.state&StateReady != 0 {
		return
	}
	p.state |= StateReady
	for _, l := range p.listeners {
		l.OnReady(p)
	}
}

// forceDestroyed marks the proxy destroyed without running the normal
// transition. Used when the destroy queue disagrees with the proxy.
func (p *Proxy) forceDestroyed() {
	p.state |= StateDestroyed
}

// releaseNative frees the host resource. A release without a prior
// destroy request is a configuration error; a second release is a
// no-op.
func (p *Proxy) releaseNative() error {
	if p.state&StateDestroyed == 0 {
		return fmt.Errorf("proxy %d: %w", p.id, ErrReleaseWithoutDestroy)
	}
	if p.released {
		return nil
	}
	p.released = true
	return p.native.Release()
}
