package profile

import (
	"testing"
	"time"
)

func TestAcceptsIntentAllowsAllWhenNoPreference(t *testing.T) {
	p := NewServiceProfile("svc")
	if !p.AcceptsIntent("anything") {
		t.Fatal("empty preferred list should allow any intent")
	}
}

func TestAcceptsIntentRequiresMatchWhenPreferenceSet(t *testing.T) {
	p := NewServiceProfile("svc")
	p.PreferredIntents = []string{"summarize"}
	if !p.AcceptsIntent("summarize") {
		t.Error("preferred intent should be accepted")
	}
	if p.AcceptsIntent("translate") {
		t.Error("non-preferred intent should be rejected once a preference list exists")
	}
}

func TestAcceptsIntentForbiddenTakesPriority(t *testing.T) {
	p := NewServiceProfile("svc")
	p.PreferredIntents = []string{"summarize"}
	p.ForbiddenIntents = []string{"summarize"}
	if p.AcceptsIntent("summarize") {
		t.Fatal("forbidden intent should be rejected even if also preferred")
	}
}

func TestLearnFromObservationFailureForbids(t *testing.T) {
	p := NewServiceProfile("svc")
	now := time.Now()
	p.LearnFromObservation("translate", 10, 200, false, now)

	if p.AcceptsIntent("translate") {
		t.Fatal("failed intent should become forbidden")
	}
	if p.LastUpdated != now {
		t.Errorf("LastUpdated = %v, want %v", p.LastUpdated, now)
	}
}

func TestLearnFromObservationSuccessWidensEnvelope(t *testing.T) {
	p := NewServiceProfile("svc")
	now := time.Now()

	p.LearnFromObservation("summarize", 50, 100, true, now)
	if !p.HasRPSRange() || p.MinRPS != 50 || p.MaxRPS != 50 {
		t.Fatalf("after first observation RPS range = [%v, %v], want [50, 50]", p.MinRPS, p.MaxRPS)
	}
	if !p.HasLatencyCeiling() || p.MaxAcceptableLatencyMs != 100 {
		t.Fatalf("latency ceiling = %v, want 100", p.MaxAcceptableLatencyMs)
	}

	p.LearnFromObservation("summarize", 120, 50, true, now.Add(time.Second))
	if p.MinRPS != 50 || p.MaxRPS != 120 {
		t.Fatalf("RPS range should widen to [50, 120], got [%v, %v]", p.MinRPS, p.MaxRPS)
	}
	if p.MaxAcceptableLatencyMs != 100 {
		t.Fatalf("latency ceiling should stay at the max seen (100), got %v", p.MaxAcceptableLatencyMs)
	}

	p.LearnFromObservation("summarize", 80, 400, true, now.Add(2*time.Second))
	if p.MaxAcceptableLatencyMs != 400 {
		t.Fatalf("latency ceiling should rise to 400, got %v", p.MaxAcceptableLatencyMs)
	}

	if !p.AcceptsIntent("summarize") {
		t.Error("successful intent should be accepted")
	}
}
