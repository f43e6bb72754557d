package object

import "sync/atomic"

// ID identifies one managed proxy. IDs are process-unique, assigned
// monotonically at proxy construction and never reused within a run.
type ID uint64

// InvalidID is never assigned to a live proxy.
const InvalidID ID = 0

// NativeID is the host-supplied handle of the native entity a proxy
// wraps. It lives in a separate numeric space from ID and is only
// guaranteed unique while the owning proxy is registered; hosts may
// recycle handles after destruction.
type NativeID uint64

// IDGenerator hands out proxy IDs via an atomic counter.
type IDGenerator struct {
	next atomic.Uint64
}

// NewIDGenerator creates a generator starting at 1 (0 is InvalidID).
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// Next returns the next unique proxy ID.
func (g *IDGenerator) Next() ID {
	return ID(g.next.Add(1))
}

var globalIDs = NewIDGenerator()

// NextID returns the next process-unique proxy ID.
func NextID() ID {
	return globalIDs.Next()
}

// ResetIDs restarts the global generator from 1. Test isolation only —
// never call this while proxies are live.
func ResetIDs() {
	globalIDs.next.Store(0)
}
