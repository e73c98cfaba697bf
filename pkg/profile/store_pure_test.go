package profile

import (
	"path/filepath"
	"testing"
	"time"

	"dao-gateway/core/pkg/config"
)

func TestPureSQLiteStoreRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "profile.db")

	store, err := NewPureSQLiteStore(DefaultPureSQLiteConfig(dbPath))
	if err != nil {
		t.Fatalf("NewPureSQLiteStore() error = %v", err)
	}
	defer store.Close()

	cfg := validTestConfig("r0")
	taken := time.Now().Truncate(time.Second)
	snap := NewSnapshot("initial load", cfg, taken)

	if err := store.Save(snap); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("Load() returned %d snapshots, want 1", len(loaded))
	}

	got := loaded[0]
	if got.Reason != snap.Reason {
		t.Errorf("Reason = %q, want %q", got.Reason, snap.Reason)
	}
	if !got.Timestamp.Equal(taken) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, taken)
	}
	if got.Config.Routes[0].Name != cfg.Routes[0].Name {
		t.Errorf("round-tripped route name = %q, want %q", got.Config.Routes[0].Name, cfg.Routes[0].Name)
	}
	if got.Config.Routes[0].Upstreams[0].URL != cfg.Routes[0].Upstreams[0].URL {
		t.Errorf("round-tripped upstream URL = %q, want %q", got.Config.Routes[0].Upstreams[0].URL, cfg.Routes[0].Upstreams[0].URL)
	}
}

func TestPureSQLiteStoreRejectsEmptyPath(t *testing.T) {
	if _, err := NewPureSQLiteStore(DefaultPureSQLiteConfig("")); err == nil {
		t.Fatal("expected an error opening a store with an empty path")
	}
}

func TestOpenStoreDefaultsToPureBackend(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "profile.db")
	store, err := OpenStore(config.ProfileConfig{Backend: "", Path: dbPath})
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	defer store.Close()

	if _, ok := store.(*PureSQLiteStore); !ok {
		t.Fatalf("OpenStore() with empty backend = %T, want *PureSQLiteStore", store)
	}
}
