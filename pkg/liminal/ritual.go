package liminal

import (
	"sync"
	"time"
)

// RitualPhase is the five-stage startup lifecycle gating traffic admission.
type RitualPhase int

const (
	Preparation RitualPhase = iota
	Invocation
	Resonance
	Alignment
	Production
)

func (p RitualPhase) String() string {
	switch p {
	case Preparation:
		return "preparation"
	case Invocation:
		return "invocation"
	case Resonance:
		return "resonance"
	case Alignment:
		return "alignment"
	case Production:
		return "production"
	default:
		return "unknown"
	}
}

// DefaultRitualBoundaries are the cumulative elapsed-time offsets, from
// process start, at which the ritual advances to Invocation, Resonance,
// Alignment, and Production respectively.
func DefaultRitualBoundaries() [4]time.Duration {
	return [4]time.Duration{5 * time.Second, 15 * time.Second, 30 * time.Second, 40 * time.Second}
}

// RitualTracker advances through RitualPhase on a fixed schedule measured
// from process start.
type RitualTracker struct {
	startedAt  time.Time
	boundaries [4]time.Duration

	mu    sync.RWMutex
	phase RitualPhase
}

// NewRitualTracker starts the ritual clock at now, using boundaries to
// schedule phase advancement.
func NewRitualTracker(now time.Time, boundaries [4]time.Duration) *RitualTracker {
	return &RitualTracker{startedAt: now, boundaries: boundaries}
}

// Advance recomputes the current phase from elapsed wall-clock time and
// returns it. Call once per update tick.
func (r *RitualTracker) Advance(now time.Time) RitualPhase {
	elapsed := now.Sub(r.startedAt)
	var phase RitualPhase
	switch {
	case elapsed < r.boundaries[0]:
		phase = Preparation
	case elapsed < r.boundaries[1]:
		phase = Invocation
	case elapsed < r.boundaries[2]:
		phase = Resonance
	case elapsed < r.boundaries[3]:
		phase = Alignment
	default:
		phase = Production
	}

	r.mu.Lock()
	r.phase = phase
	r.mu.Unlock()
	return phase
}

// Phase returns the last phase computed by Advance.
func (r *RitualTracker) Phase() RitualPhase {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.phase
}

// IsProductionReady reports whether the ritual has reached Production.
func (r *RitualTracker) IsProductionReady() bool {
	return r.Phase() == Production
}

// TimeUntilProduction estimates the remaining wait, used for the
// Retry-After header on the ritual-gate 503. Zero once in Production.
func (r *RitualTracker) TimeUntilProduction(now time.Time) time.Duration {
	remaining := r.boundaries[3] - now.Sub(r.startedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}
