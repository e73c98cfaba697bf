//go:build cgosqlite

package profile

import (
	"fmt"

	"dao-gateway/core/pkg/config"
)

// OpenStore opens the SnapshotStore named by cfg.Backend.
func OpenStore(cfg config.ProfileConfig) (SnapshotStore, error) {
	switch cfg.Backend {
	case "", "pure":
		return NewPureSQLiteStore(DefaultPureSQLiteConfig(cfg.Path))
	case "cgo":
		return NewCGOSQLiteStore(DefaultCGOSQLiteConfig(cfg.Path))
	default:
		return nil, fmt.Errorf("profile: unknown backend %q", cfg.Backend)
	}
}
