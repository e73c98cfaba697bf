package upstream

import (
	"testing"
	"time"
)

func TestPresenceDetectorUnknownUntilFull(t *testing.T) {
	d := NewPresenceDetector(PresenceConfig{HistorySize: 4})
	for i := 0; i < 3; i++ {
		d.RecordOutcome(true)
		if got := d.State(); got != Unknown {
			t.Fatalf("iteration %d: got %v, want Unknown", i, got)
		}
	}
	d.RecordOutcome(true)
	if got := d.State(); got != Present {
		t.Fatalf("got %v, want Present", got)
	}
}

func TestPresenceDetectorDemotionOn16of20Failures(t *testing.T) {
	d := NewPresenceDetector(DefaultPresenceConfig())
	for i := 0; i < 4; i++ {
		d.RecordOutcome(true)
	}
	for i := 0; i < 16; i++ {
		d.RecordOutcome(false)
	}
	if got := d.State(); got != Absent {
		t.Fatalf("got %v, want Absent after 16/20 failures", got)
	}
	if d.CanSendTraffic() {
		t.Fatal("CanSendTraffic true for Absent upstream")
	}
}

func TestPresenceDetectorAbsentOnTimeout(t *testing.T) {
	cfg := DefaultPresenceConfig()
	cfg.AbsentTimeout = 10 * time.Millisecond
	d := NewPresenceDetector(cfg)
	for i := 0; i < cfg.HistorySize; i++ {
		d.RecordOutcome(true)
	}
	if got := d.State(); got != Present {
		t.Fatalf("got %v, want Present", got)
	}
	time.Sleep(20 * time.Millisecond)
	if got := d.State(); got != Absent {
		t.Fatalf("got %v, want Absent after silence timeout", got)
	}
}

func TestPresenceDetectorLiminalBand(t *testing.T) {
	cfg := DefaultPresenceConfig()
	cfg.HistorySize = 10
	cfg.PresentThreshold = 0.8
	cfg.LiminalThreshold = 0.3
	d := NewPresenceDetector(cfg)
	for i := 0; i < 5; i++ {
		d.RecordOutcome(true)
	}
	for i := 0; i < 5; i++ {
		d.RecordOutcome(false)
	}
	if got := d.State(); got != Liminal {
		t.Fatalf("got %v, want Liminal at 50%% ratio", got)
	}
	if !d.CanSendTraffic() {
		t.Fatal("CanSendTraffic false for Liminal upstream")
	}
}
