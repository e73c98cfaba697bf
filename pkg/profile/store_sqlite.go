//go:build cgosqlite

package profile

import (
	"database/sql"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	_ "github.com/mattn/go-sqlite3"
)

const cgoBackendName = "cgo"

const schemaVersion = 1

// CGOSQLiteConfig configures CGOSQLiteStore.
type CGOSQLiteConfig struct {
	Path         string
	MaxOpenConns int
	MaxIdleConns int
	WALMode      bool
	BusyTimeout  time.Duration
}

// DefaultCGOSQLiteConfig returns the default cgo store configuration.
func DefaultCGOSQLiteConfig(path string) CGOSQLiteConfig {
	return CGOSQLiteConfig{
		Path:         path,
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// CGOSQLiteStore persists snapshots with the cgo mattn/go-sqlite3
// driver. Built only when the cgosqlite tag is set; it offers a faster
// driver at the cost of requiring a C toolchain.
type CGOSQLiteStore struct {
	db     *sql.DB
	config CGOSQLiteConfig
}

// NewCGOSQLiteStore opens (creating if necessary) the snapshot database
// at cfg.Path.
func NewCGOSQLiteStore(cfg CGOSQLiteConfig) (*CGOSQLiteStore, error) {
	if cfg.Path == "" {
		return nil, NewStorageError(cgoBackendName, "open", fmt.Errorf("path cannot be empty"))
	}
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = 10
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 5
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, NewStorageError(cgoBackendName, "open", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	s := &CGOSQLiteStore{db: db, config: cfg}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *CGOSQLiteStore) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return NewStorageError(cgoBackendName, "pragma_journal_mode", err)
		}
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return NewStorageError(cgoBackendName, "pragma_busy_timeout", err)
	}

	const schemaDDL = `
CREATE TABLE IF NOT EXISTS snapshots (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	taken_at INTEGER NOT NULL,
	reason TEXT NOT NULL,
	config_yaml TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);`
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return NewStorageError(cgoBackendName, "init_schema", err)
	}

	var existing int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&existing)
	switch {
	case err == sql.ErrNoRows:
		if _, err := s.db.Exec("INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return NewStorageError(cgoBackendName, "insert_schema_version", err)
		}
	case err != nil:
		return NewStorageError(cgoBackendName, "get_schema_version", err)
	case existing != schemaVersion:
		return NewStorageError(cgoBackendName, "schema_version_mismatch",
			fmt.Errorf("database schema version %d does not match expected %d", existing, schemaVersion))
	}
	return nil
}

// Save appends snap to the snapshots table.
func (s *CGOSQLiteStore) Save(snap Snapshot) error {
	configYAML, err := yaml.Marshal(snap.Config)
	if err != nil {
		return NewStorageError(cgoBackendName, "save", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO snapshots (taken_at, reason, config_yaml) VALUES (?, ?, ?)`,
		snap.Timestamp.UnixNano(), snap.Reason, string(configYAML),
	)
	if err != nil {
		return NewStorageError(cgoBackendName, "save", err)
	}
	return nil
}

// Load returns every persisted snapshot, oldest first.
func (s *CGOSQLiteStore) Load() ([]Snapshot, error) {
	rows, err := s.db.Query(`SELECT taken_at, reason, config_yaml FROM snapshots ORDER BY id ASC`)
	if err != nil {
		return nil, NewStorageError(cgoBackendName, "load", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var takenAtNanos int64
		var reason, configYAML string
		if err := rows.Scan(&takenAtNanos, &reason, &configYAML); err != nil {
			return nil, NewStorageError(cgoBackendName, "load", err)
		}
		snap, err := decodeSnapshot(takenAtNanos, reason, configYAML)
		if err != nil {
			return nil, NewStorageError(cgoBackendName, "load", err)
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError(cgoBackendName, "load", err)
	}
	return out, nil
}

// Close releases the database handle.
func (s *CGOSQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return NewStorageError(cgoBackendName, "close", err)
	}
	return nil
}
