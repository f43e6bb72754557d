// Package profile collects per-observer, per-phase timing and error
// statistics with a rolling average window. A disabled profiler is
// inert: every operation is a no-op and callers must not depend on
// side effects.
package profile

import (
	"fmt"
	"time"
)

// Phase names one point of the per-frame protocol.
type Phase string

const (
	PhaseStartup     Phase = "startup"
	PhaseFrameBegin  Phase = "frame_begin"
	PhaseFixedStep   Phase = "fixed_step"
	PhaseFrameUpdate Phase = "frame_update"
	PhaseLateUpdate  Phase = "late_update"
	PhaseFrameEnd    Phase = "frame_end"
	PhaseShutdown    Phase = "shutdown"
)

// Record aggregates one (observer type, phase) pair.
type Record struct {
	Observer string
	Phase    Phase
	Calls    uint64
	Errors   uint64
	Total    time.Duration
	// Avg is the rolling average over the configured window. Min and
	// Max reset at each window start and widen within it.
	Avg time.Duration
	Min time.Duration
	Max time.Duration

	winCount int
	winTotal time.Duration
}

type recordKey struct {
	observer string
	phase    Phase
}

// Profiler tracks timing brackets keyed by observer identity. Begin
// and End must alternate strictly per observer within a phase; Begin
// restarts the bracket.
type Profiler struct {
	enabled bool
	window  int
	now     func() time.Time
	frame   uint64

	active  map[any]time.Time
	records map[recordKey]*Record
}

// Option configures a profiler.
type Option func(*Profiler)

// WithClock substitutes the time source. Tests only.
func WithClock(now func() time.Time) Option {
	return func(p *Profiler) { p.now = now }
}

// New creates an enabled profiler. The rolling window clamps to a
// minimum of 1; a window of 1 disables averaging and reports the
// latest sample.
func New(window int, opts ...Option) *Profiler {
	if window < 1 {
		window = 1
	}
	p := &Profiler{
		enabled: true,
		window:  window,
		now:     time.Now,
		active:  make(map[any]time.Time),
		records: make(map[recordKey]*Record),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Disabled creates an inert profiler.
func Disabled() *Profiler {
	return &Profiler{}
}

// Enabled reports whether the profiler collects anything.
func (p *Profiler) Enabled() bool { return p.enabled }

// SetFrame records the current frame counter for snapshots.
func (p *Profiler) SetFrame(n uint64) {
	if !p.enabled {
		return
	}
	p.frame = n
}

// Begin starts (or restarts) the timing bracket for an observer.
func (p *Profiler) Begin(obs any) {
	if !p.enabled {
		return
	}
	p.active[obs] = p.now()
}

// End closes the bracket and folds the elapsed time into the
// (observer type, phase) record. An End without a matching Begin is
// ignored.
func (p *Profiler) End(obs any, phase Phase) {
	if !p.enabled {
		return
	}
	started, ok := p.active[obs]
	if !ok {
		return
	}
	delete(p.active, obs)
	p.fold(obs, phase, p.now().Sub(started))
}

// RecordError increments the error counter for the (observer type,
// phase) record without touching its timing.
func (p *Profiler) RecordError(obs any, phase Phase, err error) {
	if !p.enabled {
		return
	}
	p.record(obs, phase).Errors++
}

func (p *Profiler) fold(obs any, phase Phase, sample time.Duration) {
	rec := p.record(obs, phase)
	rec.Calls++
	rec.Total += sample
	if rec.winCount == 0 || rec.winCount >= p.window {
		rec.winCount = 0
		rec.winTotal = 0
		rec.Min = sample
		rec.Max = sample
	} else {
		if sample < rec.Min {
			rec.Min = sample
		}
		if sample > rec.Max {
			rec.Max = sample
		}
	}
	rec.winCount++
	rec.winTotal += sample
	rec.Avg = rec.winTotal / time.Duration(rec.winCount)
}

func (p *Profiler) record(obs any, phase Phase) *Record {
	key := recordKey{observer: observerName(obs), phase: phase}
	rec, ok := p.records[key]
	if !ok {
		rec = &Record{Observer: key.observer, Phase: phase}
		p.records[key] = rec
	}
	return rec
}

// Reset drops every record and open bracket.
func (p *Profiler) Reset() {
	if !p.enabled {
		return
	}
	clear(p.active)
	clear(p.records)
	p.frame = 0
}

func observerName(obs any) string {
	return fmt.Sprintf("%T", obs)
}
