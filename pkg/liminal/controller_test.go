package liminal

import (
	"testing"
	"time"
)

type fakeTransition struct {
	ticks int
}

func (f *fakeTransition) Tick(now time.Time) { f.ticks++ }

func TestControllerUpdateDebouncesDrop(t *testing.T) {
	c := New(time.Now())
	c.Update(AwarenessFactors{AnomalyCount: 5}) // force Transcendent
	if got := c.CurrentLevel(); got != Transcendent {
		t.Fatalf("got %v, want Transcendent", got)
	}
	c.Update(AwarenessFactors{}) // would evaluate to Dormant
	if got := c.CurrentLevel(); got != Vigilant {
		t.Fatalf("got %v, want Vigilant (one-level drop cap)", got)
	}
}

func TestControllerTicksRegisteredTransitions(t *testing.T) {
	c := New(time.Now())
	tr := &fakeTransition{}
	c.RegisterTransition(tr)
	c.Update(AwarenessFactors{})
	if tr.ticks != 1 {
		t.Fatalf("ticks = %d, want 1", tr.ticks)
	}
	c.UnregisterTransition(tr)
	c.Update(AwarenessFactors{})
	if tr.ticks != 1 {
		t.Fatalf("ticks = %d after unregister, want still 1", tr.ticks)
	}
}

func TestControllerRecordEchoAndShadowDiff(t *testing.T) {
	c := New(time.Now())
	c.RecordEcho("route-a", 200, 10*time.Millisecond)
	c.RecordShadowDiff("route-a", 200, 500)
	if len(c.ShadowDiffs("route-a")) != 1 {
		t.Fatal("expected one shadow diff recorded")
	}
}
