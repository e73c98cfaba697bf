package upstream

import "time"

// CollapseStrategy names a quantum-routing hedge collapse rule.
type CollapseStrategy string

const (
	FirstSuccess CollapseStrategy = "first_success"
	FirstAny     CollapseStrategy = "first_any"
	FastestOfN   CollapseStrategy = "fastest_of_n"
)

// QuantumSpec configures hedged (quantum) routing for one route.
type QuantumSpec struct {
	Enabled     bool
	Factor      int
	HedgeTimeout time.Duration
	Collapse    CollapseStrategy
}

// ShadowMode names how a route's shadow traffic is dispatched.
type ShadowMode string

const (
	ShadowAsync   ShadowMode = "async"
	ShadowSync    ShadowMode = "sync"
	ShadowCompare ShadowMode = "compare"
)

// ShadowSpec configures shadow traffic duplication for one route.
type ShadowSpec struct {
	Enabled        bool
	ShadowUpstream string
	Rate           float64
	Mode           ShadowMode
}

// ZoneBand maps one elapsed-time-ratio range to a canned intermediate
// response. Lo and Hi are fractions of the route deadline; Hi == 0 means
// "no upper bound" (i.e. past the deadline).
type ZoneBand struct {
	Lo, Hi     float64
	StatusCode int
	Body       string
}

// DefaultZoneBands are the bands named in the zone-fallback table: 50-80%
// of deadline yields 202, 80-100% yields 503, beyond the deadline 504.
func DefaultZoneBands() []ZoneBand {
	return []ZoneBand{
		{Lo: 0.50, Hi: 0.80, StatusCode: 202, Body: "processing"},
		{Lo: 0.80, Hi: 1.00, StatusCode: 503, Body: "please retry"},
		{Lo: 1.00, Hi: 0, StatusCode: 504, Body: "gateway timeout"},
	}
}

// Route binds a host/path match to an ordered set of upstreams and the
// per-route adaptive-feature configuration.
type Route struct {
	Name       string
	Host       string
	PathPrefix string

	Upstreams []*Upstream

	Deadline time.Duration
	HedgeAll bool

	Shadow  ShadowSpec
	Quantum QuantumSpec
	Zones   []ZoneBand

	MaxBufferBytes int64
}

// DefaultDeadline is the per-request deadline T when a route does not
// override it.
const DefaultDeadline = 30 * time.Second

// DefaultMaxBufferBytes bounds eager body materialization.
const DefaultMaxBufferBytes = 10 << 20 // 10 MiB

// EffectiveDeadline returns the route's deadline, or DefaultDeadline if unset.
func (r *Route) EffectiveDeadline() time.Duration {
	if r.Deadline <= 0 {
		return DefaultDeadline
	}
	return r.Deadline
}

// EffectiveZones returns the route's zone bands, or the defaults if unset.
func (r *Route) EffectiveZones() []ZoneBand {
	if len(r.Zones) == 0 {
		return DefaultZoneBands()
	}
	return r.Zones
}

// EffectiveMaxBufferBytes returns the route's buffering cap, or the default.
func (r *Route) EffectiveMaxBufferBytes() int64 {
	if r.MaxBufferBytes <= 0 {
		return DefaultMaxBufferBytes
	}
	return r.MaxBufferBytes
}

// HedgeEligible reports whether method is allowed to be quantum-hedged on
// this route: idempotent methods always, any method if HedgeAll is set.
func (r *Route) HedgeEligible(method string) bool {
	if r.HedgeAll {
		return true
	}
	switch method {
	case "GET", "HEAD", "OPTIONS":
		return true
	default:
		return false
	}
}
