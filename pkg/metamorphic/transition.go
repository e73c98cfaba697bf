package metamorphic

import (
	"sync"
	"time"

	"dao-gateway/core/pkg/config"
)

// Transition is a time-bounded linear blend between two configuration
// versions. Progress advances linearly with wall clock from 0 to 1; the
// effective configuration at any point is produced by Effective.
type Transition struct {
	mu sync.RWMutex

	from      *config.Config
	to        *config.Config
	startedAt time.Time
	duration  time.Duration
	progress  float64
}

// NewTransition starts a transition from from to to, over duration,
// beginning at startedAt. Progress is 0 until the first Tick.
func NewTransition(from, to *config.Config, startedAt time.Time, duration time.Duration) *Transition {
	return &Transition{
		from:      from,
		to:        to,
		startedAt: startedAt,
		duration:  duration,
	}
}

// Tick advances progress to reflect elapsed wall-clock time since
// startedAt, clamped to [0, 1]. Satisfies the liminal.Transition
// interface; registered with liminal.Controller.RegisterTransition.
func (t *Transition) Tick(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.progress = t.computeProgressLocked(now)
}

func (t *Transition) computeProgressLocked(now time.Time) float64 {
	if t.duration <= 0 {
		return 1
	}
	elapsed := now.Sub(t.startedAt)
	p := float64(elapsed) / float64(t.duration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Progress returns the current blend progress in [0, 1].
func (t *Transition) Progress() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.progress
}

// Done reports whether the transition has reached progress = 1.
func (t *Transition) Done() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.progress >= 1
}

// Effective returns the blended configuration at the current progress.
// At progress = 0 every blended field equals from's value exactly (routes
// and upstreams that exist only in to are already present); at progress = 1
// every field equals to's value exactly.
func (t *Transition) Effective() *config.Config {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return blendConfig(t.from, t.to, t.progress)
}

// Replace installs a new target configuration, collapsing the current
// blend into a new starting point and resetting progress to 0. This is
// the "second reload during an active transition" rule: the transition
// is serial, and the new blend starts from wherever the old one had
// gotten to, not from the original from.
func (t *Transition) Replace(to *config.Config, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	current := blendConfig(t.from, t.to, t.progress)
	t.from = current
	t.to = to
	t.startedAt = now
	t.progress = 0
}
