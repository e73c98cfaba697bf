//go:build !cgosqlite

package profile

import (
	"fmt"

	"dao-gateway/core/pkg/config"
)

// OpenStore opens the SnapshotStore named by cfg.Backend. The cgo
// backend is only available in binaries built with the cgosqlite tag.
func OpenStore(cfg config.ProfileConfig) (SnapshotStore, error) {
	switch cfg.Backend {
	case "", "pure":
		return NewPureSQLiteStore(DefaultPureSQLiteConfig(cfg.Path))
	case "cgo":
		return nil, fmt.Errorf("profile: backend %q requires a binary built with -tags cgosqlite", cfg.Backend)
	default:
		return nil, fmt.Errorf("profile: unknown backend %q", cfg.Backend)
	}
}
