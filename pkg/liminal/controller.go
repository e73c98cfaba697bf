package liminal

import (
	"sync"
	"time"
)

// Transition is ticked once per update, advancing whatever time-bounded
// blend it owns. MetamorphicTransition (pkg/metamorphic) satisfies this
// implicitly; the Controller never imports that package.
type Transition interface {
	Tick(now time.Time)
}

// Controller holds all process-wide liminal state: consciousness level,
// temporal profile, echo analyzer, ritual phase, and any registered
// metamorphic transitions. update() is the sole mutator; everything else
// is a narrow accessor or the RecordEcho hot-path call.
type Controller struct {
	mu    sync.Mutex
	level ConsciousnessLevel

	temporal        *TemporalTracker
	temporalProfile TemporalProfile

	echo   *EchoAnalyzer
	ritual *RitualTracker

	transitions []Transition
}

// New returns a Controller with a ritual clock started at now.
func New(now time.Time) *Controller {
	return &Controller{
		level:    Dormant,
		temporal: NewTemporalTracker(),
		echo:     NewEchoAnalyzer(),
		ritual:   NewRitualTracker(now, DefaultRitualBoundaries()),
	}
}

// CurrentLevel returns the consciousness level as of the last Update.
func (c *Controller) CurrentLevel() ConsciousnessLevel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.level
}

// CurrentTemporal returns the temporal profile as of the last Update.
func (c *Controller) CurrentTemporal() TemporalProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.temporalProfile
}

// IsProductionReady reports whether the ritual has reached Production.
func (c *Controller) IsProductionReady() bool {
	return c.ritual.IsProductionReady()
}

// RetryAfter estimates the remaining wait until Production, for the
// ritual-gate 503 response.
func (c *Controller) RetryAfter(now time.Time) time.Duration {
	return c.ritual.TimeUntilProduction(now)
}

// AnomalyCount returns the echo analyzer's anomaly tally from the most
// recent AdvanceWindows, for a caller assembling the next AwarenessFactors.
func (c *Controller) AnomalyCount() int {
	return c.echo.AnomalyCount()
}

// Update recomputes consciousness (honoring debounce), temporal profile,
// advances the echo analyzer's windows, progresses the ritual phase, and
// ticks every registered metamorphic transition. Invoked once per
// scheduled interval (default 10s).
func (c *Controller) Update(factors AwarenessFactors) {
	now := time.Now()

	c.mu.Lock()
	raw := evaluateLevel(factors)
	c.level = debounce(c.level, raw)
	c.temporalProfile = c.temporal.Observe(factors.P95LatencyMs, now)
	transitions := append([]Transition{}, c.transitions...)
	c.mu.Unlock()

	c.echo.AdvanceWindows(now)
	c.ritual.Advance(now)
	for _, t := range transitions {
		t.Tick(now)
	}
}

// RecordEcho registers one request outcome into the per-route echo
// buckets. Safe to call concurrently with Update; it never blocks on the
// controller mutex.
func (c *Controller) RecordEcho(route string, statusCode int, latency time.Duration) {
	c.echo.RecordEcho(route, statusCode, latency)
}

// RecordShadowDiff registers a Compare-mode shadow/primary status
// divergence against the echo analyzer's shadow diff log.
func (c *Controller) RecordShadowDiff(route string, primaryStatus, shadowStatus int) {
	c.echo.RecordShadowDiff(route, primaryStatus, shadowStatus)
}

// ShadowDiffs returns the recorded shadow diffs for a route.
func (c *Controller) ShadowDiffs(route string) []ShadowDiff {
	return c.echo.ShadowDiffs(route)
}

// RegisterTransition adds a metamorphic transition to be ticked on every
// future Update call, until it is unregistered.
func (c *Controller) RegisterTransition(t Transition) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transitions = append(c.transitions, t)
}

// UnregisterTransition removes a previously registered transition.
func (c *Controller) UnregisterTransition(t Transition) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.transitions {
		if existing == t {
			c.transitions = append(c.transitions[:i], c.transitions[i+1:]...)
			return
		}
	}
}
