package engine

import "time"

// Clock is the kernel time source: frame counter, elapsed real time
// and the delta values the host pushed most recently. The engine
// advances the frame counter once per frame and pushes deltas once per
// relevant entry point; everything else only reads.
type Clock struct {
	now   func() time.Time
	start time.Time

	frame      uint64
	delta      time.Duration
	fixedDelta time.Duration
}

// NewClock creates a clock on real time.
func NewClock() *Clock {
	return newClock(time.Now)
}

func newClock(now func() time.Time) *Clock {
	return &Clock{now: now, start: now()}
}

// Frame returns the number of frames opened so far.
func (c *Clock) Frame() uint64 { return c.frame }

// Elapsed returns real time since the clock was created.
func (c *Clock) Elapsed() time.Duration { return c.now().Sub(c.start) }

// Delta returns the last frame-update delta the host pushed.
func (c *Clock) Delta() time.Duration { return c.delta }

// FixedDelta returns the last fixed-step delta the host pushed.
func (c *Clock) FixedDelta() time.Duration { return c.fixedDelta }

func (c *Clock) advanceFrame()                 { c.frame++ }
func (c *Clock) setDelta(d time.Duration)      { c.delta = d }
func (c *Clock) setFixedDelta(d time.Duration) { c.fixedDelta = d }
