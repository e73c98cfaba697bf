package liminal

import (
	"testing"
	"time"
)

func TestRitualAdvancesThroughPhases(t *testing.T) {
	start := time.Now()
	boundaries := [4]time.Duration{1 * time.Millisecond, 2 * time.Millisecond, 3 * time.Millisecond, 4 * time.Millisecond}
	r := NewRitualTracker(start, boundaries)

	if got := r.Advance(start); got != Preparation {
		t.Fatalf("got %v, want Preparation at t=0", got)
	}
	if got := r.Advance(start.Add(5 * time.Millisecond)); got != Production {
		t.Fatalf("got %v, want Production past last boundary", got)
	}
	if !r.IsProductionReady() {
		t.Fatal("expected IsProductionReady true in Production")
	}
}

func TestRitualNotProductionReadyBeforeBoundary(t *testing.T) {
	start := time.Now()
	r := NewRitualTracker(start, DefaultRitualBoundaries())
	r.Advance(start)
	if r.IsProductionReady() {
		t.Fatal("expected not production-ready immediately after start")
	}
	if got := r.TimeUntilProduction(start); got <= 0 {
		t.Fatalf("TimeUntilProduction() = %v, want > 0", got)
	}
}
