package metamorphic

import "dao-gateway/core/pkg/config"

// blendConfig produces the effective configuration at progress p. Numeric
// fields (weights, timeouts, thresholds, counts) are linearly interpolated;
// string and boolean fields (strategy names, backends, enable flags) switch
// from old to new at p >= 0.5; route and upstream membership uses
// add-from-zero / drain-until-one semantics keyed by name.
func blendConfig(from, to *config.Config, p float64) *config.Config {
	if from == nil {
		return to
	}
	if to == nil {
		return from
	}

	out := *from // shallow copy; every blended field below is reassigned

	out.Server = blendServer(from.Server, to.Server, p)
	out.Logging = switchCategorical(p, from.Logging, to.Logging)
	out.Policy = blendPolicy(from.Policy, to.Policy, p)
	out.Presence = blendPresence(from.Presence, to.Presence, p)
	out.Quantum = blendQuantum(from.Quantum, to.Quantum, p)
	out.Shadow = blendShadow(from.Shadow, to.Shadow, p)
	out.Zones = switchCategorical(p, from.Zones, to.Zones)
	out.Liminal = config.LiminalConfig{
		UpdateIntervalMs: lerpInt(from.Liminal.UpdateIntervalMs, to.Liminal.UpdateIntervalMs, p),
	}
	out.Metamorphic = config.MetamorphicConfig{
		DurationMs: lerpInt(from.Metamorphic.DurationMs, to.Metamorphic.DurationMs, p),
	}
	out.Profile = blendProfile(from.Profile, to.Profile, p)
	out.Routes = blendRoutes(from.Routes, to.Routes, p)

	return &out
}

func lerp(a, b float64, p float64) float64 {
	return a*(1-p) + b*p
}

func lerpInt(a, b int, p float64) int {
	return int(lerp(float64(a), float64(b), p))
}

func lerpInt64(a, b int64, p float64) int64 {
	return int64(lerp(float64(a), float64(b), p))
}

func switchCategorical[T any](p float64, from, to T) T {
	if p >= 0.5 {
		return to
	}
	return from
}

func blendServer(from, to config.ServerConfig, p float64) config.ServerConfig {
	return config.ServerConfig{
		ListenAddr:      switchCategorical(p, from.ListenAddr, to.ListenAddr),
		ReadTimeoutMs:   lerpInt(from.ReadTimeoutMs, to.ReadTimeoutMs, p),
		WriteTimeoutMs:  lerpInt(from.WriteTimeoutMs, to.WriteTimeoutMs, p),
		ShutdownGraceMs: lerpInt(from.ShutdownGraceMs, to.ShutdownGraceMs, p),
	}
}

func blendPolicy(from, to config.PolicyConfig, p float64) config.PolicyConfig {
	return config.PolicyConfig{
		WLoad:   lerp(from.WLoad, to.WLoad, p),
		WIntent: lerp(from.WIntent, to.WIntent, p),
		WTempo:  lerp(from.WTempo, to.WTempo, p),
	}
}

func blendPresence(from, to config.PresenceConfig, p float64) config.PresenceConfig {
	return config.PresenceConfig{
		HistorySize:      lerpInt(from.HistorySize, to.HistorySize, p),
		PresentThreshold: lerp(from.PresentThreshold, to.PresentThreshold, p),
		LiminalThreshold: lerp(from.LiminalThreshold, to.LiminalThreshold, p),
		AbsentTimeoutMs:  lerpInt(from.AbsentTimeoutMs, to.AbsentTimeoutMs, p),
	}
}

func blendQuantum(from, to config.QuantumConfig, p float64) config.QuantumConfig {
	return config.QuantumConfig{
		Enabled:   switchCategorical(p, from.Enabled, to.Enabled),
		Factor:    lerpInt(from.Factor, to.Factor, p),
		TimeoutMs: lerpInt(from.TimeoutMs, to.TimeoutMs, p),
		Collapse:  switchCategorical(p, from.Collapse, to.Collapse),
	}
}

func blendShadow(from, to config.ShadowConfig, p float64) config.ShadowConfig {
	return config.ShadowConfig{
		Enabled:  switchCategorical(p, from.Enabled, to.Enabled),
		Upstream: switchCategorical(p, from.Upstream, to.Upstream),
		Rate:     lerp(from.Rate, to.Rate, p),
		Mode:     switchCategorical(p, from.Mode, to.Mode),
	}
}

func blendProfile(from, to config.ProfileConfig, p float64) config.ProfileConfig {
	return config.ProfileConfig{
		Backend:      switchCategorical(p, from.Backend, to.Backend),
		Path:         switchCategorical(p, from.Path, to.Path),
		MaxSnapshots: lerpInt(from.MaxSnapshots, to.MaxSnapshots, p),
	}
}

// blendRoutes unions routes by name. A route present only in to (added)
// is included from p = 0; a route present only in from (removed) drains
// and is dropped only once p reaches 1. A route present in both is
// blended field by field, including its upstream set.
func blendRoutes(from, to []config.RouteConfig, p float64) []config.RouteConfig {
	fromByName := make(map[string]config.RouteConfig, len(from))
	for _, r := range from {
		fromByName[r.Name] = r
	}
	toByName := make(map[string]config.RouteConfig, len(to))
	for _, r := range to {
		toByName[r.Name] = r
	}

	order := make([]string, 0, len(from)+len(to))
	seen := make(map[string]bool, len(from)+len(to))
	for _, r := range from {
		if !seen[r.Name] {
			order = append(order, r.Name)
			seen[r.Name] = true
		}
	}
	for _, r := range to {
		if !seen[r.Name] {
			order = append(order, r.Name)
			seen[r.Name] = true
		}
	}

	var out []config.RouteConfig
	for _, name := range order {
		f, inFrom := fromByName[name]
		t, inTo := toByName[name]

		switch {
		case inFrom && inTo:
			out = append(out, blendRoute(f, t, p))
		case inTo && !inFrom:
			// Added route: present from progress = 0.
			out = append(out, t)
		case inFrom && !inTo:
			// Removed route: drains, dropped only at progress = 1.
			if p < 1 {
				out = append(out, f)
			}
		}
	}
	return out
}

func blendRoute(from, to config.RouteConfig, p float64) config.RouteConfig {
	out := config.RouteConfig{
		Name:           from.Name,
		Host:           switchCategorical(p, from.Host, to.Host),
		PathPrefix:     switchCategorical(p, from.PathPrefix, to.PathPrefix),
		DeadlineMs:     lerpInt(from.DeadlineMs, to.DeadlineMs, p),
		HedgeAll:       switchCategorical(p, from.HedgeAll, to.HedgeAll),
		MaxBufferBytes: lerpInt64(from.MaxBufferBytes, to.MaxBufferBytes, p),
		Upstreams:      blendUpstreams(from.Upstreams, to.Upstreams, p),
	}

	switch {
	case from.Quantum != nil && to.Quantum != nil:
		blended := blendQuantum(*from.Quantum, *to.Quantum, p)
		out.Quantum = &blended
	default:
		out.Quantum = switchCategorical(p, from.Quantum, to.Quantum)
	}

	switch {
	case from.Shadow != nil && to.Shadow != nil:
		blended := blendShadow(*from.Shadow, *to.Shadow, p)
		out.Shadow = &blended
	default:
		out.Shadow = switchCategorical(p, from.Shadow, to.Shadow)
	}

	out.Zones = switchCategorical(p, from.Zones, to.Zones)

	return out
}

// blendUpstreams unions upstreams by name within a route. Added
// upstreams appear from progress = 0; removed upstreams linger
// (draining, still eligible for in-flight traffic) until progress = 1.
func blendUpstreams(from, to []config.UpstreamConfig, p float64) []config.UpstreamConfig {
	fromByName := make(map[string]config.UpstreamConfig, len(from))
	for _, u := range from {
		fromByName[u.Name] = u
	}
	toByName := make(map[string]config.UpstreamConfig, len(to))
	for _, u := range to {
		toByName[u.Name] = u
	}

	order := make([]string, 0, len(from)+len(to))
	seen := make(map[string]bool, len(from)+len(to))
	for _, u := range from {
		if !seen[u.Name] {
			order = append(order, u.Name)
			seen[u.Name] = true
		}
	}
	for _, u := range to {
		if !seen[u.Name] {
			order = append(order, u.Name)
			seen[u.Name] = true
		}
	}

	var out []config.UpstreamConfig
	for _, name := range order {
		f, inFrom := fromByName[name]
		t, inTo := toByName[name]

		switch {
		case inFrom && inTo:
			out = append(out, config.UpstreamConfig{
				Name:    name,
				URL:     switchCategorical(p, f.URL, t.URL),
				Intents: switchCategorical(p, f.Intents, t.Intents),
				Weight:  uint(lerpInt(int(f.Weight), int(t.Weight), p)),
			})
		case inTo && !inFrom:
			out = append(out, t)
		case inFrom && !inTo:
			if p < 1 {
				out = append(out, f)
			}
		}
	}
	return out
}
