package config

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"
)

func TestNewFileWatcher(t *testing.T) {
	path := writeTempConfig(t, sampleYAML)
	cfg := DefaultFileWatcherConfig(path)

	fw, err := NewFileWatcher(cfg, nil)
	if err != nil {
		t.Fatalf("NewFileWatcher() error = %v", err)
	}
	if fw.watcher == nil {
		t.Error("fw.watcher is nil")
	}
	if fw.debounce == nil {
		t.Error("fw.debounce is nil")
	}
	_ = fw.Stop()
}

func TestFileWatcherReloadsOnWrite(t *testing.T) {
	path := writeTempConfig(t, sampleYAML)
	watcherCfg := &FileWatcherConfig{Path: path, DebounceInterval: 10 * time.Millisecond}

	fw, err := NewFileWatcher(watcherCfg, nil)
	if err != nil {
		t.Fatalf("NewFileWatcher() error = %v", err)
	}

	var mu sync.Mutex
	var reloaded *Config

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = fw.Watch(ctx, func(c *Config) {
			mu.Lock()
			reloaded = c
			mu.Unlock()
		})
	}()

	time.Sleep(20 * time.Millisecond)
	if err := os.WriteFile(path, []byte(sampleYAML+"\n"), 0o644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		got := reloaded
		mu.Unlock()
		if got != nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	mu.Lock()
	got := reloaded
	mu.Unlock()
	if got == nil {
		t.Fatal("expected onReload to fire after file write")
	}

	cancel()
	<-done
}

func TestDebouncerCollapsesTriggers(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	defer d.Stop()

	var mu sync.Mutex
	count := 0
	cb := func() {
		mu.Lock()
		count++
		mu.Unlock()
	}

	for i := 0; i < 5; i++ {
		d.Trigger(cb)
		time.Sleep(time.Millisecond)
	}

	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if count != 1 {
		t.Fatalf("count = %d, want 1 (rapid triggers should collapse)", count)
	}
}
