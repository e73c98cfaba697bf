package config

// Default values for configuration fields.
const (
	DefaultListenAddr      = "0.0.0.0:8080"
	DefaultReadTimeoutMs   = 30000
	DefaultWriteTimeoutMs  = 30000
	DefaultShutdownGraceMs = 15000

	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "json"

	DefaultPolicyWLoad   = 0.5
	DefaultPolicyWIntent = 0.3
	DefaultPolicyWTempo  = 0.2

	DefaultPresenceHistorySize      = 20
	DefaultPresencePresentThreshold = 0.8
	DefaultPresenceLiminalThreshold = 0.3
	DefaultPresenceAbsentTimeoutMs  = 30000

	DefaultQuantumFactor    = 2
	DefaultQuantumTimeoutMs = 5000
	DefaultQuantumCollapse  = "first_success"

	DefaultShadowMode = "async"

	DefaultLiminalUpdateIntervalMs = 10000

	DefaultMetamorphicDurationMs = 60000

	DefaultProfileBackend      = "pure"
	DefaultProfilePath         = "data/profile.db"
	DefaultProfileMaxSnapshots = 100

	DefaultRouteDeadlineMs     = 30000
	DefaultRouteMaxBufferBytes = 10 << 20
)

// defaultZoneBands holds the bounds and status codes of
// upstream.DefaultZoneBands in configuration form; the open-ended top band
// is written with a large Hi, and its body reads "deadline exceeded".
func defaultZoneBands() []ZoneBandConfig {
	return []ZoneBandConfig{
		{Lo: 0.50, Hi: 0.80, Status: 202, Body: "processing"},
		{Lo: 0.80, Hi: 1.00, Status: 503, Body: "please retry"},
		{Lo: 1.00, Hi: 1 << 30, Status: 504, Body: "deadline exceeded"},
	}
}

// ApplyDefaults applies default values to a Config struct for any fields
// that carry their zero value. Idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = DefaultListenAddr
	}
	if cfg.Server.ReadTimeoutMs == 0 {
		cfg.Server.ReadTimeoutMs = DefaultReadTimeoutMs
	}
	if cfg.Server.WriteTimeoutMs == 0 {
		cfg.Server.WriteTimeoutMs = DefaultWriteTimeoutMs
	}
	if cfg.Server.ShutdownGraceMs == 0 {
		cfg.Server.ShutdownGraceMs = DefaultShutdownGraceMs
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}

	applyPolicyDefaults(&cfg.Policy)
	applyPresenceDefaults(&cfg.Presence)
	applyQuantumDefaults(&cfg.Quantum)
	applyShadowDefaults(&cfg.Shadow)

	if len(cfg.Zones.Bands) == 0 {
		cfg.Zones.Bands = defaultZoneBands()
	}

	if cfg.Liminal.UpdateIntervalMs == 0 {
		cfg.Liminal.UpdateIntervalMs = DefaultLiminalUpdateIntervalMs
	}
	if cfg.Metamorphic.DurationMs == 0 {
		cfg.Metamorphic.DurationMs = DefaultMetamorphicDurationMs
	}

	if cfg.Profile.Backend == "" {
		cfg.Profile.Backend = DefaultProfileBackend
	}
	if cfg.Profile.Path == "" {
		cfg.Profile.Path = DefaultProfilePath
	}
	if cfg.Profile.MaxSnapshots == 0 {
		cfg.Profile.MaxSnapshots = DefaultProfileMaxSnapshots
	}

	for i := range cfg.Routes {
		applyRouteDefaults(&cfg.Routes[i])
	}
}

// applyPolicyDefaults fills unset weights and renormalizes the triple so
// w_load + w_intent + w_tempo == 1.
func applyPolicyDefaults(p *PolicyConfig) {
	if p.WLoad == 0 && p.WIntent == 0 && p.WTempo == 0 {
		p.WLoad = DefaultPolicyWLoad
		p.WIntent = DefaultPolicyWIntent
		p.WTempo = DefaultPolicyWTempo
		return
	}
	total := p.WLoad + p.WIntent + p.WTempo
	if total > 0 {
		p.WLoad /= total
		p.WIntent /= total
		p.WTempo /= total
	}
}

func applyPresenceDefaults(p *PresenceConfig) {
	if p.HistorySize == 0 {
		p.HistorySize = DefaultPresenceHistorySize
	}
	if p.PresentThreshold == 0 {
		p.PresentThreshold = DefaultPresencePresentThreshold
	}
	if p.LiminalThreshold == 0 {
		p.LiminalThreshold = DefaultPresenceLiminalThreshold
	}
	if p.AbsentTimeoutMs == 0 {
		p.AbsentTimeoutMs = DefaultPresenceAbsentTimeoutMs
	}
}

func applyQuantumDefaults(q *QuantumConfig) {
	if q.Factor == 0 {
		q.Factor = DefaultQuantumFactor
	}
	if q.TimeoutMs == 0 {
		q.TimeoutMs = DefaultQuantumTimeoutMs
	}
	if q.Collapse == "" {
		q.Collapse = DefaultQuantumCollapse
	}
}

func applyShadowDefaults(s *ShadowConfig) {
	if s.Mode == "" {
		s.Mode = DefaultShadowMode
	}
}

func applyRouteDefaults(r *RouteConfig) {
	if r.DeadlineMs == 0 {
		r.DeadlineMs = DefaultRouteDeadlineMs
	}
	if r.MaxBufferBytes == 0 {
		r.MaxBufferBytes = DefaultRouteMaxBufferBytes
	}
	for i := range r.Upstreams {
		if r.Upstreams[i].Weight == 0 {
			r.Upstreams[i].Weight = 1
		}
	}
	if r.Quantum != nil {
		applyQuantumDefaults(r.Quantum)
	}
	if r.Shadow != nil {
		applyShadowDefaults(r.Shadow)
	}
	if r.Zones != nil && len(r.Zones.Bands) == 0 {
		r.Zones.Bands = defaultZoneBands()
	}
}
