// Package engine is the orchestrator: it owns the registries, the
// lifecycle manager, the profiler and the clock, and sequences every
// cross-component call of the per-frame protocol.
//
// There is no package-level instance. The host creates an Engine,
// wires it with Initialize, then binds the single Adapter whose
// methods are the only entry points.
package engine

import (
	"errors"
	"fmt"

	"github.com/framekit/framekit/internal/config"
	"github.com/framekit/framekit/internal/logsink"
	"github.com/framekit/framekit/internal/object"
	"github.com/framekit/framekit/internal/observer"
	"github.com/framekit/framekit/internal/profile"
	"github.com/framekit/framekit/internal/service"
)

var (
	// ErrNotInitialized reports an entry point hit before Initialize.
	ErrNotInitialized = errors.New("engine not initialized")
	// ErrAlreadyInitialized reports a second Initialize.
	ErrAlreadyInitialized = errors.New("engine already initialized")
	// ErrNotRunning reports a per-frame call outside the Running state.
	ErrNotRunning = errors.New("engine not running")
	// ErrDisposed reports any host call after Shutdown completed.
	ErrDisposed = errors.New("engine disposed")
	// ErrAlreadyBound reports a second Bind while an adapter is live.
	ErrAlreadyBound = errors.New("host adapter already bound")
	// ErrAdapterMismatch reports an entry point driven by an adapter
	// other than the bound one.
	ErrAdapterMismatch = errors.New("host adapter mismatch")
)

// State is the engine run-lifetime state machine.
type State int32

const (
	StateUninitialized State = iota
	StateInitialized
	StateRunning
	StateShuttingDown
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting_down"
	case StateDisposed:
		return "disposed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Manifest is the explicit discovery list: what New/Initialize wires
// instead of a reflection scan.
type Manifest struct {
	Services  []service.Definition
	Observers []observer.Definition
	// IncludeTesting admits observer definitions marked Testing.
	IncludeTesting bool
}

// Engine sequences the per-frame protocol. Strictly single-threaded:
// all entry points must be driven from one host thread.
type Engine struct {
	cfg   config.Kernel
	state State

	services  *service.Registry
	observers *observer.Registry
	objects   *object.Runtime
	profiler  *profile.Profiler
	clock     *Clock

	adapter *Adapter
	// frameOpen is the pre-update latch: set by the first per-frame
	// call, reset only in post-update.
	frameOpen bool
}

// New allocates an engine. Initialize wires it (allocate-then-wire
// split so hosts can hold the engine before discovery runs).
func New(cfg config.Kernel) *Engine {
	return &Engine{cfg: cfg}
}

// Initialize builds the registries, runs discovery from the manifest
// and resolves the profiler and clock. Uninitialized → Initialized.
func (e *Engine) Initialize(m Manifest) error {
	if e.state == StateDisposed {
		return ErrDisposed
	}
	if e.state != StateUninitialized {
		return fmt.Errorf("state %s: %w", e.state, ErrAlreadyInitialized)
	}

	policy := object.ReadySelfOnly
	if e.cfg.ReadyPolicy == "hierarchy" {
		policy = object.ReadyHierarchy
	}
	e.objects = object.NewRuntime(policy)
	e.services = service.NewRegistry()
	e.observers = observer.NewRegistry()
	if e.cfg.Profiler.Enabled {
		e.profiler = profile.New(e.cfg.Profiler.Window)
	} else {
		e.profiler = profile.Disabled()
	}
	e.clock = NewClock()

	if err := e.services.Discover(m.Services); err != nil {
		return fmt.Errorf("service discovery: %w", err)
	}
	if err := e.observers.Discover(m.Observers, m.IncludeTesting); err != nil {
		return fmt.Errorf("observer discovery: %w", err)
	}

	e.state = StateInitialized
	logsink.L().Info("engine initialized",
		"services", e.services.Len(),
		"observers", e.observers.Len(),
		"readyPolicy", e.cfg.ReadyPolicy,
		"profiler", e.profiler.Enabled())
	return nil
}

// State returns the current engine state.
func (e *Engine) State() State { return e.state }

// Objects returns the proxy runtime (registry + lifecycle manager).
func (e *Engine) Objects() *object.Runtime { return e.objects }

// Services returns the service registry.
func (e *Engine) Services() *service.Registry { return e.services }

// Observers returns the observer registry.
func (e *Engine) Observers() *observer.Registry { return e.observers }

// Clock returns the kernel time source.
func (e *Engine) Clock() *Clock { return e.clock }

// ProfileSnapshot copies the current profiler records.
func (e *Engine) ProfileSnapshot() profile.Snapshot { return e.profiler.Snapshot() }

// startup runs enabled observers' startup callbacks, then the
// services' startup hooks. Observer faults are isolated (logged and
// recorded) in startup exactly like steady-state phases; a service
// startup error is a configuration error and propagates.
func (e *Engine) startup() error {
	if e.state == StateDisposed {
		return ErrDisposed
	}
	if e.state != StateInitialized {
		return fmt.Errorf("startup in state %s: %w", e.state, ErrNotRunning)
	}
	e.state = StateRunning
	e.dispatch(profile.PhaseStartup, func(o observer.Observer) error {
		return o.OnStartup()
	})
	if err := e.services.Startup(); err != nil {
		return err
	}
	logsink.L().Info("engine started")
	return nil
}

// openFrame is the idempotent pre-update gate. Only the first
// per-frame call in a new frame advances the counters, runs service
// pre-update hooks, drains the ready queue and dispatches FrameBegin.
func (e *Engine) openFrame() {
	if e.frameOpen {
		return
	}
	e.frameOpen = true
	e.clock.advanceFrame()
	e.profiler.SetFrame(e.clock.Frame())
	e.services.PreUpdate()
	e.objects.Lifecycle.DrainReady()
	frame := e.clock.Frame()
	e.dispatch(profile.PhaseFrameBegin, func(o observer.Observer) error {
		return o.OnFrameBegin(frame)
	})
}

// closeFrame is post-update: FrameEnd dispatch, service post-update
// hooks, destroy drain last (no observer may see a proxy
// mid-destruction), then the latch resets.
func (e *Engine) closeFrame() {
	e.dispatch(profile.PhaseFrameEnd, func(o observer.Observer) error {
		return o.OnFrameEnd()
	})
	e.services.PostUpdate()
	e.objects.Lifecycle.DrainDestroy()
	e.frameOpen = false
}

// shutdown dispatches observer shutdown callbacks and tears the
// kernel down. Teardown runs in defers so it completes even when a
// callback panics past the dispatch boundary. Terminal: the engine is
// Disposed afterwards and rejects every further call.
func (e *Engine) shutdown() error {
	if e.state == StateDisposed {
		return ErrDisposed
	}
	if e.state != StateRunning && e.state != StateInitialized {
		return fmt.Errorf("shutdown in state %s: %w", e.state, ErrNotRunning)
	}
	e.state = StateShuttingDown

	defer func() {
		e.objects.Lifecycle.Shutdown(e.objects.Objects)
		e.observers.Clear()
		e.services.Clear()
		e.profiler.Reset()
		e.adapter = nil
		e.frameOpen = false
		e.state = StateDisposed
		logsink.L().Info("engine disposed")
	}()

	e.dispatch(profile.PhaseShutdown, func(o observer.Observer) error {
		return o.OnShutdown()
	})
	e.services.Shutdown()
	return nil
}

// dispatch visits the enabled observers in discovery order. Each
// callback runs inside a failure boundary: a returned error or a
// recovered panic is logged, recorded against the observer's metrics
// and never blocks its siblings or the frame.
func (e *Engine) dispatch(phase profile.Phase, invoke func(observer.Observer) error) {
	for _, o := range e.observers.Enabled() {
		e.profiler.Begin(o)
		err := guard(o, invoke)
		e.profiler.End(o, phase)
		if err != nil {
			e.profiler.RecordError(o, phase, err)
			logsink.L().Exception(err, "observer callback failed",
				"observer", fmt.Sprintf("%T", o),
				"phase", string(phase))
		}
	}
}

func guard(o observer.Observer, invoke func(observer.Observer) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("observer panic: %v", r)
		}
	}()
	return invoke(o)
}
