package upstream

import (
	"sync"
	"time"
)

// PresenceState classifies an upstream's recent health.
type PresenceState int

const (
	// Unknown applies while the outcome ring buffer has not yet filled.
	Unknown PresenceState = iota
	Present
	Liminal
	Absent
)

func (s PresenceState) String() string {
	switch s {
	case Present:
		return "present"
	case Liminal:
		return "liminal"
	case Absent:
		return "absent"
	default:
		return "unknown"
	}
}

// PresenceConfig parameterizes a PresenceDetector.
type PresenceConfig struct {
	HistorySize       int
	PresentThreshold  float64
	LiminalThreshold  float64
	AbsentTimeout     time.Duration
}

// DefaultPresenceConfig matches the defaults named in the configuration
// schema: a 20-slot outcome window, 0.8/0.3 health ratios, 30s silence cap.
func DefaultPresenceConfig() PresenceConfig {
	return PresenceConfig{
		HistorySize:      20,
		PresentThreshold: 0.8,
		LiminalThreshold: 0.3,
		AbsentTimeout:    30 * time.Second,
	}
}

// PresenceDetector tracks the last HistorySize outcomes for one upstream
// and classifies its current health from them.
type PresenceDetector struct {
	cfg PresenceConfig

	mu          sync.RWMutex
	outcomes    []bool
	filled      bool
	lastSuccess time.Time
	hasSuccess  bool
}

// NewPresenceDetector constructs a detector with the given configuration,
// falling back to DefaultPresenceConfig for any zero field.
func NewPresenceDetector(cfg PresenceConfig) *PresenceDetector {
	d := DefaultPresenceConfig()
	if cfg.HistorySize > 0 {
		d.HistorySize = cfg.HistorySize
	}
	if cfg.PresentThreshold > 0 {
		d.PresentThreshold = cfg.PresentThreshold
	}
	if cfg.LiminalThreshold > 0 {
		d.LiminalThreshold = cfg.LiminalThreshold
	}
	if cfg.AbsentTimeout > 0 {
		d.AbsentTimeout = cfg.AbsentTimeout
	}
	return &PresenceDetector{
		cfg:      d,
		outcomes: make([]bool, 0, d.HistorySize),
	}
}

// RecordOutcome pushes one success/failure observation into the ring
// buffer, evicting the oldest entry once the buffer is full.
func (d *PresenceDetector) RecordOutcome(success bool) {
	now := time.Now()
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.outcomes) >= d.cfg.HistorySize {
		d.outcomes = d.outcomes[1:]
	}
	d.outcomes = append(d.outcomes, success)
	if len(d.outcomes) >= d.cfg.HistorySize {
		d.filled = true
	}
	if success {
		d.lastSuccess = now
		d.hasSuccess = true
	}
}

// State classifies the current presence per the ratio/timeout rules.
func (d *PresenceDetector) State() PresenceState {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.filled {
		return Unknown
	}

	if d.hasSuccess && time.Since(d.lastSuccess) > d.cfg.AbsentTimeout {
		return Absent
	}
	if !d.hasSuccess {
		return Absent
	}

	ratio := d.successRatioLocked()
	if ratio >= d.cfg.PresentThreshold {
		return Present
	}
	if ratio >= d.cfg.LiminalThreshold {
		return Liminal
	}
	return Absent
}

func (d *PresenceDetector) successRatioLocked() float64 {
	if len(d.outcomes) == 0 {
		return 0
	}
	n := 0
	for _, ok := range d.outcomes {
		if ok {
			n++
		}
	}
	return float64(n) / float64(len(d.outcomes))
}

// CanSendTraffic reports whether this upstream is eligible to receive a
// request: true for Present and Liminal, false for Absent and Unknown.
func (d *PresenceDetector) CanSendTraffic() bool {
	switch d.State() {
	case Present, Liminal:
		return true
	default:
		return false
	}
}
