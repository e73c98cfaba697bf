package profile

import (
	"time"

	"dao-gateway/core/pkg/config"
)

// Snapshot is a point-in-time capture of the gateway configuration,
// taken before a change takes effect so a bad reload can be rolled
// back.
type Snapshot struct {
	Timestamp time.Time
	Reason    string
	Config    *config.Config
}

// NewSnapshot captures config under reason, stamped at takenAt.
func NewSnapshot(reason string, cfg *config.Config, takenAt time.Time) Snapshot {
	return Snapshot{Timestamp: takenAt, Reason: reason, Config: cfg}
}

// AgeSeconds returns how long ago the snapshot was taken, measured from
// now.
func (s Snapshot) AgeSeconds(now time.Time) int64 {
	return int64(now.Sub(s.Timestamp).Seconds())
}
