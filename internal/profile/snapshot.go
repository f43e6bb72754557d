package profile

import (
	"sort"
	"time"
)

// Snapshot is an immutable copy of all records partitioned by phase,
// safe to read while the live profiler keeps mutating.
type Snapshot struct {
	TakenAt time.Time
	Frame   uint64
	Phases  map[Phase][]Record
}

// Snapshot copies the current records. Records within a phase are
// sorted by observer name for stable output. A disabled profiler
// returns an empty snapshot.
func (p *Profiler) Snapshot() Snapshot {
	snap := Snapshot{Phases: make(map[Phase][]Record)}
	if !p.enabled {
		return snap
	}
	snap.TakenAt = p.now()
	snap.Frame = p.frame
	for _, rec := range p.records {
		snap.Phases[rec.Phase] = append(snap.Phases[rec.Phase], *rec)
	}
	for _, recs := range snap.Phases {
		sort.Slice(recs, func(i, j int) bool { return recs[i].Observer < recs[j].Observer })
	}
	return snap
}
