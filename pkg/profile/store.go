package profile

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"dao-gateway/core/pkg/config"
)

// SnapshotStore persists configuration snapshots so history survives a
// restart. Implementations are provided by store_pure.go (default,
// pure-Go modernc.org/sqlite) and store_sqlite.go (cgo
// mattn/go-sqlite3, built only with the cgosqlite tag).
type SnapshotStore interface {
	// Save appends one snapshot to durable storage.
	Save(s Snapshot) error

	// Load returns every persisted snapshot, oldest first.
	Load() ([]Snapshot, error)

	// Close releases the underlying database handle.
	Close() error
}

// StorageError wraps a persistence failure with the backend and
// operation that produced it.
type StorageError struct {
	Backend string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("profile storage [%s]: %s: %v", e.Backend, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError constructs a StorageError.
func NewStorageError(backend, op string, err error) *StorageError {
	return &StorageError{Backend: backend, Op: op, Err: err}
}

// decodeSnapshot reconstructs a Snapshot from the columns shared by both
// SQLite backends.
func decodeSnapshot(takenAtNanos int64, reason, configYAML string) (Snapshot, error) {
	var cfg config.Config
	if err := yaml.Unmarshal([]byte(configYAML), &cfg); err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Timestamp: time.Unix(0, takenAtNanos),
		Reason:    reason,
		Config:    &cfg,
	}, nil
}
