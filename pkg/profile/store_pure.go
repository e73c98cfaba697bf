package profile

import (
	"database/sql"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	_ "modernc.org/sqlite"
)

const pureBackendName = "pure"

// PureSQLiteStore persists snapshots with the pure-Go modernc.org/sqlite
// driver. It is the default SnapshotStore and requires no cgo toolchain.
type PureSQLiteStore struct {
	db *sql.DB
}

// PureSQLiteConfig configures PureSQLiteStore.
type PureSQLiteConfig struct {
	// Path is the database file path.
	Path string

	// BusyTimeout is how long to wait for the write lock before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultPureSQLiteConfig returns the default pure-Go store configuration.
func DefaultPureSQLiteConfig(path string) PureSQLiteConfig {
	return PureSQLiteConfig{Path: path, BusyTimeout: 5 * time.Second}
}

// NewPureSQLiteStore opens (creating if necessary) the snapshot database
// at cfg.Path in WAL mode.
func NewPureSQLiteStore(cfg PureSQLiteConfig) (*PureSQLiteStore, error) {
	if cfg.Path == "" {
		return nil, NewStorageError(pureBackendName, "open", fmt.Errorf("path cannot be empty"))
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.Path, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, NewStorageError(pureBackendName, "open", err)
	}
	db.SetMaxOpenConns(1) // SQLite only supports a single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &PureSQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PureSQLiteStore) initSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS snapshots (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	taken_at INTEGER NOT NULL,
	reason TEXT NOT NULL,
	config_yaml TEXT NOT NULL
);`
	if _, err := s.db.Exec(ddl); err != nil {
		return NewStorageError(pureBackendName, "init_schema", err)
	}
	return nil
}

// Save appends s to the snapshots table.
func (s *PureSQLiteStore) Save(snap Snapshot) error {
	configYAML, err := yaml.Marshal(snap.Config)
	if err != nil {
		return NewStorageError(pureBackendName, "save", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO snapshots (taken_at, reason, config_yaml) VALUES (?, ?, ?)`,
		snap.Timestamp.UnixNano(), snap.Reason, string(configYAML),
	)
	if err != nil {
		return NewStorageError(pureBackendName, "save", err)
	}
	return nil
}

// Load returns every persisted snapshot, oldest first.
func (s *PureSQLiteStore) Load() ([]Snapshot, error) {
	rows, err := s.db.Query(`SELECT taken_at, reason, config_yaml FROM snapshots ORDER BY id ASC`)
	if err != nil {
		return nil, NewStorageError(pureBackendName, "load", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var takenAtNanos int64
		var reason, configYAML string
		if err := rows.Scan(&takenAtNanos, &reason, &configYAML); err != nil {
			return nil, NewStorageError(pureBackendName, "load", err)
		}
		snap, err := decodeSnapshot(takenAtNanos, reason, configYAML)
		if err != nil {
			return nil, NewStorageError(pureBackendName, "load", err)
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError(pureBackendName, "load", err)
	}
	return out, nil
}

// Close releases the database handle.
func (s *PureSQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return NewStorageError(pureBackendName, "close", err)
	}
	return nil
}
