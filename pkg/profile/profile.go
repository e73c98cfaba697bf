package profile

import "time"

// ServiceProfile records what a single upstream has been observed to
// tolerate: which intents it accepts or refuses, the request rate range
// it handles comfortably, and the slowest latency seen on a successful
// call. LearnFromObservation is the only method that changes a profile
// after construction.
type ServiceProfile struct {
	ServiceName string

	PreferredIntents []string
	ForbiddenIntents []string

	hasRPSRange  bool
	MinRPS       float64
	MaxRPS       float64

	hasLatency             bool
	MaxAcceptableLatencyMs float64

	LastUpdated time.Time
}

// NewServiceProfile returns an empty profile for the named service. An
// empty PreferredIntents list means "no preference recorded yet", which
// AcceptsIntent treats as allow-all.
func NewServiceProfile(serviceName string) *ServiceProfile {
	return &ServiceProfile{
		ServiceName: serviceName,
		LastUpdated: time.Time{},
	}
}

// AcceptsIntent reports whether intent is compatible with this profile.
// A forbidden intent is always rejected, even if it also appears as
// preferred. Otherwise, an empty preferred list allows any intent;
// a non-empty list requires an exact match.
func (p *ServiceProfile) AcceptsIntent(intent string) bool {
	for _, forbidden := range p.ForbiddenIntents {
		if forbidden == intent {
			return false
		}
	}
	if len(p.PreferredIntents) == 0 {
		return true
	}
	for _, preferred := range p.PreferredIntents {
		if preferred == intent {
			return true
		}
	}
	return false
}

// LearnFromObservation folds one completed request into the profile. A
// failed request marks its intent forbidden. A successful request
// widens the preferred-intent set, extends the tolerated RPS range to
// cover the observed rate, and raises the acceptable latency ceiling if
// this call was slower than anything seen before.
func (p *ServiceProfile) LearnFromObservation(intent string, rps, latencyMs float64, success bool, observedAt time.Time) {
	if !success {
		if !containsString(p.ForbiddenIntents, intent) {
			p.ForbiddenIntents = append(p.ForbiddenIntents, intent)
		}
		p.LastUpdated = observedAt
		return
	}

	if !containsString(p.PreferredIntents, intent) {
		p.PreferredIntents = append(p.PreferredIntents, intent)
	}

	if !p.hasRPSRange {
		p.MinRPS = rps
		p.MaxRPS = rps
		p.hasRPSRange = true
	} else {
		if rps < p.MinRPS {
			p.MinRPS = rps
		}
		if rps > p.MaxRPS {
			p.MaxRPS = rps
		}
	}

	if !p.hasLatency || latencyMs > p.MaxAcceptableLatencyMs {
		p.MaxAcceptableLatencyMs = latencyMs
		p.hasLatency = true
	}

	p.LastUpdated = observedAt
}

// HasRPSRange reports whether at least one successful observation has
// been recorded, making MinRPS/MaxRPS meaningful.
func (p *ServiceProfile) HasRPSRange() bool { return p.hasRPSRange }

// HasLatencyCeiling reports whether MaxAcceptableLatencyMs reflects a
// real observation rather than its zero value.
func (p *ServiceProfile) HasLatencyCeiling() bool { return p.hasLatency }

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
