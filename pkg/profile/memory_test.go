package profile

import (
	"testing"
	"time"

	"dao-gateway/core/pkg/config"
)

func validTestConfig(name string) *config.Config {
	cfg := &config.Config{
		Routes: []config.RouteConfig{
			{
				Name: name,
				Host: "api.example.com",
				Upstreams: []config.UpstreamConfig{
					{Name: "a", URL: "http://10.0.0.1:9000"},
				},
			},
		},
	}
	config.ApplyDefaults(cfg)
	return cfg
}

func TestMemoryUpdateConfigSnapshotsBeforeReplacing(t *testing.T) {
	initial := validTestConfig("default")
	m := NewMemory(initial, 10, nil)

	next := validTestConfig("next")
	now := time.Now()
	if err := m.UpdateConfig(next, "reload", now); err != nil {
		t.Fatalf("UpdateConfig() error = %v", err)
	}

	if m.GetConfig() != next {
		t.Fatal("GetConfig() should return the newly installed config")
	}

	snaps := m.Snapshots()
	if len(snaps) != 1 {
		t.Fatalf("Snapshots() length = %d, want 1", len(snaps))
	}
	if snaps[0].Config != initial {
		t.Fatal("the snapshot taken before replacement should hold the previous config")
	}
}

func TestMemoryUpdateConfigRejectsInvalid(t *testing.T) {
	m := NewMemory(validTestConfig("default"), 10, nil)
	invalid := &config.Config{}
	if err := m.UpdateConfig(invalid, "bad reload", time.Now()); err == nil {
		t.Fatal("expected UpdateConfig to reject an invalid config")
	}
	if len(m.Snapshots()) != 0 {
		t.Fatal("a rejected update should not produce a snapshot")
	}
}

func TestMemorySnapshotHistoryCapsWithFIFOEviction(t *testing.T) {
	m := NewMemory(validTestConfig("r0"), 3, nil)

	base := time.Now()
	for i := 1; i <= 5; i++ {
		next := validTestConfig("r" + string(rune('0'+i)))
		if err := m.UpdateConfig(next, "reload", base.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("UpdateConfig(%d) error = %v", i, err)
		}
	}

	snaps := m.Snapshots()
	if len(snaps) != 3 {
		t.Fatalf("Snapshots() length = %d, want 3 (capped)", len(snaps))
	}
	if snaps[0].Config.Routes[0].Name != "r2" {
		t.Fatalf("oldest retained snapshot = %q, want r2 (r0 and r1 evicted)", snaps[0].Config.Routes[0].Name)
	}
	if snaps[2].Config.Routes[0].Name != "r4" {
		t.Fatalf("newest retained snapshot = %q, want r4", snaps[2].Config.Routes[0].Name)
	}
}

func TestMemoryRollbackToSnapshot(t *testing.T) {
	m := NewMemory(validTestConfig("r0"), 10, nil)
	now := time.Now()

	_ = m.UpdateConfig(validTestConfig("r1"), "reload", now.Add(time.Second))
	_ = m.UpdateConfig(validTestConfig("r2"), "reload", now.Add(2*time.Second))

	if err := m.RollbackToSnapshot(0); err != nil {
		t.Fatalf("RollbackToSnapshot(0) error = %v", err)
	}
	if m.GetConfig().Routes[0].Name != "r0" {
		t.Fatalf("after rollback to index 0, config = %q, want r0", m.GetConfig().Routes[0].Name)
	}
	if len(m.Snapshots()) != 1 {
		t.Fatalf("Snapshots() length after rollback = %d, want 1", len(m.Snapshots()))
	}
}

func TestMemoryRollbackToSnapshotOutOfRange(t *testing.T) {
	m := NewMemory(validTestConfig("r0"), 10, nil)
	if err := m.RollbackToSnapshot(0); err == nil {
		t.Fatal("expected an error rolling back with no snapshots")
	}
}

func TestMemoryGetProfileCreatesOnFirstAccess(t *testing.T) {
	m := NewMemory(validTestConfig("r0"), 10, nil)
	p := m.GetProfile("svc-a")
	if p == nil {
		t.Fatal("GetProfile() returned nil")
	}
	if p != m.GetProfile("svc-a") {
		t.Fatal("GetProfile() should return the same profile instance on repeat calls")
	}
}

func TestMemoryUpdateProfileLearns(t *testing.T) {
	m := NewMemory(validTestConfig("r0"), 10, nil)
	m.UpdateProfile("svc-a", "summarize", 10, 50, true, time.Now())

	p := m.GetProfile("svc-a")
	if !p.AcceptsIntent("summarize") {
		t.Fatal("profile should have learned to accept the observed intent")
	}
}
