package profile

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noisyObserver struct{}

// fakeClock advances by a fixed step on every read, so each Begin/End
// bracket measures exactly one step.
type fakeClock struct {
	now  time.Time
	step time.Duration
}

func (c *fakeClock) read() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

func newTestProfiler(window int, step time.Duration) (*Profiler, *fakeClock) {
	clk := &fakeClock{now: time.Unix(0, 0), step: step}
	return New(window, WithClock(clk.read)), clk
}

func sample(p *Profiler, obs any, phase Phase, d time.Duration, clk *fakeClock) {
	clk.step = d / 2
	p.Begin(obs)
	p.End(obs, phase)
}

func record(t *testing.T, snap Snapshot, phase Phase) Record {
	t.Helper()
	recs := snap.Phases[phase]
	require.Len(t, recs, 1)
	return recs[0]
}

func TestWindowOne_ReportsLatestSample(t *testing.T) {
	p, clk := newTestProfiler(1, time.Millisecond)
	obs := &noisyObserver{}

	sample(p, obs, PhaseFrameUpdate, 10*time.Millisecond, clk)
	sample(p, obs, PhaseFrameUpdate, 30*time.Millisecond, clk)

	rec := record(t, p.Snapshot(), PhaseFrameUpdate)
	assert.Equal(t, 15*time.Millisecond, rec.Avg, "window 1 disables averaging")
	assert.Equal(t, uint64(2), rec.Calls)
}

func TestWindowN_ConvergesToConstantSample(t *testing.T) {
	const window = 4
	p, clk := newTestProfiler(window, time.Millisecond)
	obs := &noisyObserver{}

	x := 20 * time.Millisecond
	for range window + 1 {
		sample(p, obs, PhaseFixedStep, x, clk)
	}

	rec := record(t, p.Snapshot(), PhaseFixedStep)
	assert.Equal(t, x/2, rec.Avg)
	assert.Equal(t, x/2, rec.Min)
	assert.Equal(t, x/2, rec.Max)
}

func TestWindow_MinMaxResetAtWindowStart(t *testing.T) {
	p, clk := newTestProfiler(2, time.Millisecond)
	obs := &noisyObserver{}

	sample(p, obs, PhaseFrameUpdate, 2*time.Millisecond, clk)
	sample(p, obs, PhaseFrameUpdate, 40*time.Millisecond, clk)
	// Third sample opens a new window: min/max collapse to it.
	sample(p, obs, PhaseFrameUpdate, 10*time.Millisecond, clk)

	rec := record(t, p.Snapshot(), PhaseFrameUpdate)
	assert.Equal(t, 5*time.Millisecond, rec.Min)
	assert.Equal(t, 5*time.Millisecond, rec.Max)
	assert.Equal(t, uint64(3), rec.Calls)
}

func TestRecordError_DoesNotTouchTiming(t *testing.T) {
	p, clk := newTestProfiler(8, time.Millisecond)
	obs := &noisyObserver{}

	sample(p, obs, PhaseLateUpdate, 10*time.Millisecond, clk)
	p.RecordError(obs, PhaseLateUpdate, errors.New("boom"))
	p.RecordError(obs, PhaseLateUpdate, errors.New("boom again"))

	rec := record(t, p.Snapshot(), PhaseLateUpdate)
	assert.Equal(t, uint64(2), rec.Errors)
	assert.Equal(t, uint64(1), rec.Calls)
	assert.Equal(t, 5*time.Millisecond, rec.Avg)
}

func TestEndWithoutBegin_Ignored(t *testing.T) {
	p, _ := newTestProfiler(4, time.Millisecond)
	p.End(&noisyObserver{}, PhaseFrameBegin)

	assert.Empty(t, p.Snapshot().Phases)
}

func TestBegin_RestartsBracket(t *testing.T) {
	p, clk := newTestProfiler(1, time.Millisecond)
	obs := &noisyObserver{}

	p.Begin(obs)
	clk.step = 500 * time.Millisecond
	p.Begin(obs) // restart discards the first bracket
	clk.step = 5 * time.Millisecond
	p.End(obs, PhaseFrameUpdate)

	rec := record(t, p.Snapshot(), PhaseFrameUpdate)
	assert.Equal(t, uint64(1), rec.Calls)
	assert.Equal(t, 5*time.Millisecond, rec.Avg)
}

func TestDisabledProfiler_Inert(t *testing.T) {
	p := Disabled()
	obs := &noisyObserver{}

	p.Begin(obs)
	p.End(obs, PhaseFrameUpdate)
	p.RecordError(obs, PhaseFrameUpdate, errors.New("boom"))
	p.SetFrame(42)

	assert.False(t, p.Enabled())
	snap := p.Snapshot()
	assert.Empty(t, snap.Phases)
	assert.Zero(t, snap.Frame)
}

func TestSnapshot_IsACopy(t *testing.T) {
	p, clk := newTestProfiler(4, time.Millisecond)
	obs := &noisyObserver{}
	p.SetFrame(7)
	sample(p, obs, PhaseFrameUpdate, 10*time.Millisecond, clk)

	snap := p.Snapshot()
	require.Equal(t, uint64(7), snap.Frame)

	// Mutating the live profiler must not bleed into the snapshot.
	sample(p, obs, PhaseFrameUpdate, 30*time.Millisecond, clk)
	rec := record(t, snap, PhaseFrameUpdate)
	assert.Equal(t, uint64(1), rec.Calls)
}

func TestWindow_ClampedToOne(t *testing.T) {
	p := New(0)
	assert.True(t, p.Enabled())
	// A zero window behaves as 1: latest sample only.
	clk := &fakeClock{now: time.Unix(0, 0), step: time.Millisecond}
	p.now = clk.read
	obs := &noisyObserver{}
	sample(p, obs, PhaseFrameEnd, 4*time.Millisecond, clk)
	sample(p, obs, PhaseFrameEnd, 8*time.Millisecond, clk)

	rec := record(t, p.Snapshot(), PhaseFrameEnd)
	assert.Equal(t, 4*time.Millisecond, rec.Avg)
}
