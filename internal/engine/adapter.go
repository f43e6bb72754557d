package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/framekit/framekit/internal/observer"
	"github.com/framekit/framekit/internal/profile"
)

// Adapter is the single host-facing handle. Every entry point verifies
// the caller is the currently bound adapter; a duplicate or stale
// adapter is a configuration error, not a condition to recover from.
type Adapter struct {
	id     uuid.UUID
	engine *Engine
}

// Bind issues the engine's host adapter. Only one adapter may be live
// per engine; binding again while one exists is a configuration error.
func (e *Engine) Bind() (*Adapter, error) {
	if e.state == StateDisposed {
		return nil, ErrDisposed
	}
	if e.state == StateUninitialized {
		return nil, ErrNotInitialized
	}
	if e.adapter != nil {
		return nil, ErrAlreadyBound
	}
	a := &Adapter{id: uuid.New(), engine: e}
	e.adapter = a
	return a, nil
}

func (e *Engine) verify(a *Adapter) error {
	if e.state == StateDisposed {
		return ErrDisposed
	}
	if e.adapter == nil || e.adapter.id != a.id {
		return fmt.Errorf("adapter %s: %w", a.id, ErrAdapterMismatch)
	}
	return nil
}

func (e *Engine) requireRunning() error {
	if e.state != StateRunning {
		return fmt.Errorf("state %s: %w", e.state, ErrNotRunning)
	}
	return nil
}

// Startup runs once before any per-frame call: enabled observers'
// startup callbacks, then service startup hooks.
func (a *Adapter) Startup() error {
	if err := a.engine.verify(a); err != nil {
		return err
	}
	return a.engine.startup()
}

// FixedStep dispatches the fixed-step callback to every enabled
// observer. Callable zero or more times per frame; the first per-frame
// call opens the frame.
func (a *Adapter) FixedStep(dt time.Duration) error {
	e := a.engine
	if err := e.verify(a); err != nil {
		return err
	}
	if err := e.requireRunning(); err != nil {
		return err
	}
	e.openFrame()
	e.clock.setFixedDelta(dt)
	e.dispatch(profile.PhaseFixedStep, func(o observer.Observer) error {
		return o.OnFixedStep(dt)
	})
	return nil
}

// FrameUpdate dispatches the per-frame update callback. Called exactly
// once per frame.
func (a *Adapter) FrameUpdate(dt time.Duration) error {
	e := a.engine
	if err := e.verify(a); err != nil {
		return err
	}
	if err := e.requireRunning(); err != nil {
		return err
	}
	e.openFrame()
	e.clock.setDelta(dt)
	e.dispatch(profile.PhaseFrameUpdate, func(o observer.Observer) error {
		return o.OnFrameUpdate(dt)
	})
	return nil
}

// LateFrameUpdate dispatches the late-update callback, strictly after
// FrameUpdate, then immediately performs post-update (FrameEnd
// dispatch, service post-update hooks, destroy drain, latch reset).
func (a *Adapter) LateFrameUpdate() error {
	e := a.engine
	if err := e.verify(a); err != nil {
		return err
	}
	if err := e.requireRunning(); err != nil {
		return err
	}
	e.openFrame()
	e.dispatch(profile.PhaseLateUpdate, func(o observer.Observer) error {
		return o.OnLateUpdate()
	})
	e.closeFrame()
	return nil
}

// Shutdown is terminal: observer shutdown callbacks, service shutdown
// hooks, forced destruction of remaining proxies, registry teardown.
// The engine is Disposed afterwards.
func (a *Adapter) Shutdown() error {
	if err := a.engine.verify(a); err != nil {
		return err
	}
	return a.engine.shutdown()
}
