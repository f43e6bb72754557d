package object

import (
	"github.com/framekit/framekit/internal/logsink"
)

// ReadyPolicy selects which enabled-check gates the ready queue.
type ReadyPolicy int

const (
	// ReadySelfOnly requires only the proxy's own enabled flag.
	ReadySelfOnly ReadyPolicy = iota
	// ReadyHierarchy requires the proxy and all ancestors enabled.
	ReadyHierarchy
)

// Lifecycle sequences the two deferred proxy transitions — becoming
// ready and physical destruction — so neither happens mid-dispatch.
//
// Queue bookkeeping always dequeues before invoking any callback, so
// the structures stay consistent even when a downstream notification
// panics.
type Lifecycle struct {
	policy ReadyPolicy

	ready   []*Proxy       // FIFO, pending Ready notification
	waiting map[ID]*Proxy  // created disabled, waiting for first enable
	destroy []*Proxy       // FIFO, pending native release
}

// NewLifecycle creates a lifecycle manager with the given ready policy.
func NewLifecycle(policy ReadyPolicy) *Lifecycle {
	return &Lifecycle{
		policy:  policy,
		waiting: make(map[ID]*Proxy),
	}
}

func (l *Lifecycle) eligible(p *Proxy) bool {
	if l.policy == ReadyHierarchy {
		return p.EnabledInHierarchy()
	}
	return p.Enabled()
}

// ObjectCreated queues the proxy for Ready when eligible, otherwise
// parks it until its first enable.
func (l *Lifecycle) ObjectCreated(p *Proxy) {
	if l.eligible(p) {
		l.ready = append(l.ready, p)
		return
	}
	l.waiting[p.ID()] = p
}

// ObjectEnabled moves a parked proxy onto the ready queue. A proxy is
// never in both structures at once.
func (l *Lifecycle) ObjectEnabled(p *Proxy) {
	if _, ok := l.waiting[p.ID()]; !ok {
		return
	}
	if !l.eligible(p) {
		return
	}
	delete(l.waiting, p.ID())
	l.ready = append(l.ready, p)
}

// ObjectDisabled has no queue effect: a disabled proxy simply is not
// visited again until destroyed or re-enabled.
func (l *Lifecycle) ObjectDisabled(p *Proxy) {}

// ObjectDestroyed queues the proxy for native release. The caller must
// already have unregistered it.
func (l *Lifecycle) ObjectDestroyed(p *Proxy) {
	delete(l.waiting, p.ID())
	l.destroy = append(l.destroy, p)
}

// DrainReady fires the one-time Ready notification for every queued
// proxy in FIFO order, skipping proxies destroyed before their turn.
// Runs until the queue is empty, so proxies created re-entrantly by a
// Ready listener are included in the same pass. Called once per frame,
// before any per-frame observer callback.
func (l *Lifecycle) DrainReady() {
	for len(l.ready) > 0 {
		p := l.ready[0]
		l.ready = l.ready[1:]
		if p.Destroyed() || p.Ready() {
			continue
		}
		p.markReady()
	}
}

// DrainDestroy releases the native resource of every queued proxy in
// destroy-request order. Called once per frame, after all per-frame
// observer callbacks. A proxy still reporting itself valid is logged
// and destroyed anyway — the queue is the source of truth once destroy
// was requested.
func (l *Lifecycle) DrainDestroy() {
	for len(l.destroy) > 0 {
		p := l.destroy[0]
		l.destroy = l.destroy[1:]
		if !p.Destroyed() {
			logsink.L().Warn("proxy in destroy queue still reports valid, forcing destruction",
				"objectID", uint64(p.ID()))
			p.forceDestroyed()
		}
		if err := p.releaseNative(); err != nil {
			logsink.L().Exception(err, "native release failed", "objectID", uint64(p.ID()))
		}
	}
}

// Shutdown force-destroys every still-registered proxy (over a
// snapshot, since destruction mutates the registry), runs one final
// destroy drain and clears all internal structures.
func (l *Lifecycle) Shutdown(reg *Registry) {
	for _, p := range reg.Snapshot() {
		p.Destroy()
	}
	l.DrainDestroy()
	l.ready = nil
	l.destroy = nil
	clear(l.waiting)
}

// PendingReady returns the ready queue depth.
func (l *Lifecycle) PendingReady() int { return len(l.ready) }

// PendingDestroy returns the destroy queue depth.
func (l *Lifecycle) PendingDestroy() int { return len(l.destroy) }

// WaitingEnable returns the number of proxies parked for first enable.
func (l *Lifecycle) WaitingEnable() int { return len(l.waiting) }
