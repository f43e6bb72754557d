package main

import (
	"log/slog"
	"time"

	"github.com/framekit/framekit/internal/object"
	"github.com/framekit/framekit/internal/observer"
)

// demoEntity stands in for a host-native object.
type demoEntity struct {
	handle object.NativeID
}

func (d *demoEntity) NativeID() object.NativeID { return d.handle }

func (d *demoEntity) Release() error {
	slog.Debug("releasing native entity", "handle", uint64(d.handle))
	return nil
}

// spawner creates a proxy every few frames and destroys the oldest
// past a cap, exercising the deferred ready/destroy queues.
type spawner struct {
	observer.Nop

	objects    *object.Runtime
	nextHandle object.NativeID
	live       []*object.Proxy
}

func newSpawner(objects *object.Runtime) *spawner {
	return &spawner{objects: objects}
}

func (s *spawner) OnFrameUpdate(dt time.Duration) error {
	if s.objects == nil {
		return nil
	}
	if len(s.live) >= 32 {
		oldest := s.live[0]
		s.live = s.live[1:]
		oldest.Destroy()
	}

	s.nextHandle++
	p, err := s.objects.Spawn(&demoEntity{handle: s.nextHandle}, true)
	if err != nil {
		return err
	}
	s.live = append(s.live, p)
	return nil
}

func (s *spawner) OnShutdown() error {
	s.live = nil
	return nil
}

// heartbeat logs a liveness line once a second's worth of frames.
type heartbeat struct {
	observer.Nop

	frames uint64
}

func (h *heartbeat) OnFrameBegin(frame uint64) error {
	h.frames = frame
	return nil
}

func (h *heartbeat) OnFrameEnd() error {
	if h.frames%60 == 0 {
		slog.Debug("heartbeat", "frame", h.frames)
	}
	return nil
}

// FrameStats is a demo service capability: frame accounting other
// components can query.
type FrameStats interface {
	Frames() uint64
}

type frameStats struct {
	frames uint64
}

func (f *frameStats) Frames() uint64 { return f.frames }

// PreUpdate implements the service pre-update hook.
func (f *frameStats) PreUpdate() { f.frames++ }

// Startup implements the service startup hook.
func (f *frameStats) Startup() error {
	slog.Info("frame stats service started")
	return nil
}

// Shutdown implements the service shutdown hook.
func (f *frameStats) Shutdown() error {
	slog.Info("frame stats service stopped", "frames", f.frames)
	return nil
}
