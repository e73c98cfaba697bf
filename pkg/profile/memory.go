package profile

import (
	"fmt"
	"sync"
	"time"

	"dao-gateway/core/pkg/config"
)

// DefaultMaxSnapshots is used when a Memory is constructed with a
// non-positive cap.
const DefaultMaxSnapshots = 100

// Memory is the gateway's learned-state store: the current
// configuration, one ServiceProfile per upstream, and a capped history
// of configuration snapshots usable for rollback. All methods are safe
// for concurrent use.
type Memory struct {
	mu sync.RWMutex

	cfg          *config.Config
	profiles     map[string]*ServiceProfile
	snapshots    []Snapshot
	maxSnapshots int

	store SnapshotStore
}

// NewMemory returns a Memory seeded with cfg, retaining at most
// maxSnapshots snapshots. store may be nil, in which case snapshots are
// kept in memory only.
func NewMemory(cfg *config.Config, maxSnapshots int, store SnapshotStore) *Memory {
	if maxSnapshots <= 0 {
		maxSnapshots = DefaultMaxSnapshots
	}
	return &Memory{
		cfg:          cfg,
		profiles:     make(map[string]*ServiceProfile),
		maxSnapshots: maxSnapshots,
		store:        store,
	}
}

// GetConfig returns the current configuration.
func (m *Memory) GetConfig() *config.Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// UpdateConfig validates next, snapshots the current configuration
// under reason, then installs next as current. The snapshot is taken
// before replacement so RollbackToSnapshot can always restore the
// configuration that preceded any given update.
func (m *Memory) UpdateConfig(next *config.Config, reason string, now time.Time) error {
	if err := config.Validate(next); err != nil {
		return fmt.Errorf("profile: reject config update: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.appendSnapshotLocked(NewSnapshot(reason, m.cfg, now))
	m.cfg = next
	return nil
}

// GetProfile returns the profile for serviceName, creating an empty one
// if none exists yet.
func (m *Memory) GetProfile(serviceName string) *ServiceProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[serviceName]
	if !ok {
		p = NewServiceProfile(serviceName)
		m.profiles[serviceName] = p
	}
	return p
}

// UpdateProfile folds one observation into serviceName's profile.
func (m *Memory) UpdateProfile(serviceName, intent string, rps, latencyMs float64, success bool, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[serviceName]
	if !ok {
		p = NewServiceProfile(serviceName)
		m.profiles[serviceName] = p
	}
	p.LearnFromObservation(intent, rps, latencyMs, success, now)
}

// CreateSnapshot explicitly captures the current configuration under
// reason, independent of an UpdateConfig call.
func (m *Memory) CreateSnapshot(reason string, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appendSnapshotLocked(NewSnapshot(reason, m.cfg, now))
}

func (m *Memory) appendSnapshotLocked(s Snapshot) {
	m.snapshots = append(m.snapshots, s)
	if over := len(m.snapshots) - m.maxSnapshots; over > 0 {
		m.snapshots = m.snapshots[over:]
	}
	if m.store != nil {
		// Best-effort: persistence failures never block the in-memory
		// transition, they only risk the snapshot not surviving a restart.
		_ = m.store.Save(s)
	}
}

// Snapshots returns the retained snapshot history, oldest first.
func (m *Memory) Snapshots() []Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Snapshot, len(m.snapshots))
	copy(out, m.snapshots)
	return out
}

// RollbackToSnapshot installs the configuration held at index (0 is the
// oldest retained snapshot) as current, and truncates history to drop
// everything after it.
func (m *Memory) RollbackToSnapshot(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.snapshots) {
		return fmt.Errorf("profile: snapshot index %d out of range [0, %d)", index, len(m.snapshots))
	}

	m.cfg = m.snapshots[index].Config
	m.snapshots = m.snapshots[:index+1]
	return nil
}
