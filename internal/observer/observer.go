// Package observer owns the lifecycle observers the engine dispatches
// frame-phase callbacks to. Observers are discovered once at engine
// initialization from an explicit manifest and visited in discovery
// order.
package observer

import "time"

// Observer receives the per-phase lifecycle callbacks. A returned
// error is a dispatch fault: the engine logs it, records it against
// the observer's metrics and continues with the next observer.
type Observer interface {
	OnStartup() error
	OnFrameBegin(frame uint64) error
	OnFixedStep(dt time.Duration) error
	OnFrameUpdate(dt time.Duration) error
	OnLateUpdate() error
	OnFrameEnd() error
	OnShutdown() error
}

// Nop implements Observer with no-ops. Embed it and override the
// phases that matter.
type Nop struct{}

func (Nop) OnStartup() error                  { return nil }
func (Nop) OnFrameBegin(uint64) error         { return nil }
func (Nop) OnFixedStep(time.Duration) error   { return nil }
func (Nop) OnFrameUpdate(time.Duration) error { return nil }
func (Nop) OnLateUpdate() error               { return nil }
func (Nop) OnFrameEnd() error                 { return nil }
func (Nop) OnShutdown() error                 { return nil }

// StartsDisabled marks an observer that registers disabled; it stays
// out of dispatch until explicitly enabled.
type StartsDisabled interface {
	StartsDisabled() bool
}

// Definition declares one observer for discovery. Testing definitions
// are skipped unless the host signals a test context.
type Definition struct {
	New     func() Observer
	Testing bool
}

// Def builds a plain definition.
func Def(ctor func() Observer) Definition {
	return Definition{New: ctor}
}
