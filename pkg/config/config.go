package config

// Config is the root configuration structure for the gateway. It mirrors
// the recognized configuration schema: policy weights, presence
// thresholds, quantum and shadow controls, zone bands, the Liminal update
// cadence, metamorphic transition duration, and the route table.
type Config struct {
	// Server contains the outer HTTP listener configuration. Ambient to
	// the adaptive core; consumed only by pkg/server.
	Server ServerConfig `yaml:"server"`

	// Logging contains the slog handler configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Policy contains the initial Aligner weights, normalized on load.
	Policy PolicyConfig `yaml:"policy"`

	// Presence contains per-upstream health classification parameters.
	Presence PresenceConfig `yaml:"presence"`

	// Quantum contains the gateway-level hedged-routing defaults.
	Quantum QuantumConfig `yaml:"quantum"`

	// Shadow contains the gateway-level shadow-traffic defaults.
	Shadow ShadowConfig `yaml:"shadow"`

	// Zones contains the gateway-level zone-fallback band table.
	Zones ZonesConfig `yaml:"zones"`

	// Liminal contains the scheduled Liminal.update() cadence.
	Liminal LiminalConfig `yaml:"liminal"`

	// Metamorphic contains hot-reload transition duration.
	Metamorphic MetamorphicConfig `yaml:"metamorphic"`

	// Profile contains the service-profile/snapshot persistence backend.
	Profile ProfileConfig `yaml:"profile"`

	// Routes declares every route and its upstream set.
	Routes []RouteConfig `yaml:"routes"`
}

// ServerConfig controls the outer HTTP listener.
type ServerConfig struct {
	// ListenAddr is the address and port to listen on.
	// Default: "0.0.0.0:8080"
	ListenAddr string `yaml:"listen_addr"`

	// ReadTimeoutMs bounds reading the request, including the body.
	// Default: 30000
	ReadTimeoutMs int `yaml:"read_timeout_ms"`

	// WriteTimeoutMs bounds writing the response.
	// Default: 30000
	WriteTimeoutMs int `yaml:"write_timeout_ms"`

	// ShutdownGraceMs bounds graceful shutdown before forcing close.
	// Default: 15000
	ShutdownGraceMs int `yaml:"shutdown_grace_ms"`
}

// LoggingConfig controls the slog handler pkg/telemetry/logging builds.
type LoggingConfig struct {
	// Level is the minimum log level to emit: debug, info, warn, error.
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls output encoding: "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`
}

// PolicyConfig is the initial, normalized-on-load set of Aligner weights.
type PolicyConfig struct {
	WLoad   float64 `yaml:"w_load"`
	WIntent float64 `yaml:"w_intent"`
	WTempo  float64 `yaml:"w_tempo"`
}

// PresenceConfig parameterizes per-upstream health classification.
type PresenceConfig struct {
	// HistorySize is the outcome ring buffer length.
	// Default: 20
	HistorySize int `yaml:"history_size"`

	// PresentThreshold is the success ratio above which an upstream is Present.
	// Default: 0.8
	PresentThreshold float64 `yaml:"present_threshold"`

	// LiminalThreshold is the success ratio above which an upstream is
	// at least Liminal rather than Absent.
	// Default: 0.3
	LiminalThreshold float64 `yaml:"liminal_threshold"`

	// AbsentTimeoutMs is the maximum silence since last success before
	// an upstream is forced Absent regardless of its ratio.
	// Default: 30000
	AbsentTimeoutMs int `yaml:"absent_timeout_ms"`
}

// QuantumConfig configures hedged routing, defaulted at the gateway level
// and optionally overridden per route.
type QuantumConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Factor    int    `yaml:"factor"`
	TimeoutMs int    `yaml:"timeout_ms"`
	Collapse  string `yaml:"collapse"`
}

// ShadowConfig configures shadow traffic duplication, defaulted at the
// gateway level and optionally overridden per route.
type ShadowConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Upstream string  `yaml:"upstream"`
	Rate     float64 `yaml:"rate"`
	Mode     string  `yaml:"mode"`
}

// ZoneBandConfig is one elapsed-ratio band in the zone-fallback table.
type ZoneBandConfig struct {
	Lo     float64 `yaml:"lo"`
	Hi     float64 `yaml:"hi"`
	Status int     `yaml:"status"`
	Body   string  `yaml:"body"`
}

// ZonesConfig is the zone-fallback band table, defaulted at the gateway
// level and optionally overridden per route.
type ZonesConfig struct {
	Bands []ZoneBandConfig `yaml:"bands"`
}

// LiminalConfig controls the scheduled Liminal.update() cadence.
type LiminalConfig struct {
	// UpdateIntervalMs is how often the background job recomputes
	// consciousness, temporal profile, and ritual/metamorphic progress.
	// Default: 10000
	UpdateIntervalMs int `yaml:"update_interval_ms"`
}

// MetamorphicConfig controls hot-reload transition duration.
type MetamorphicConfig struct {
	// DurationMs is how long a reload's blend runs before the new
	// configuration takes full effect.
	// Default: 60000
	DurationMs int `yaml:"duration_ms"`
}

// ProfileConfig controls the ServiceProfile/Snapshot persistence backend.
type ProfileConfig struct {
	// Backend selects the SQLite driver: "pure" (modernc.org/sqlite,
	// default) or "cgo" (mattn/go-sqlite3, requires the cgosqlite build tag).
	// Default: "pure"
	Backend string `yaml:"backend"`

	// Path is the database file path.
	// Default: "data/profile.db"
	Path string `yaml:"path"`

	// MaxSnapshots caps retained config snapshot history.
	// Default: 100
	MaxSnapshots int `yaml:"max_snapshots"`
}

// UpstreamConfig declares one backend within a route.
type UpstreamConfig struct {
	Name    string   `yaml:"name"`
	URL     string   `yaml:"url"`
	Intents []string `yaml:"intents"`
	Weight  uint     `yaml:"weight"`
}

// RouteConfig declares one route and its upstream set, plus any
// per-route overrides of the gateway-level shadow/quantum/zone defaults.
type RouteConfig struct {
	Name           string           `yaml:"name"`
	Host           string           `yaml:"host"`
	PathPrefix     string           `yaml:"path_prefix"`
	DeadlineMs     int              `yaml:"deadline_ms"`
	HedgeAll       bool             `yaml:"hedge_all"`
	MaxBufferBytes int64            `yaml:"max_buffer_bytes"`
	Upstreams      []UpstreamConfig `yaml:"upstreams"`
	Shadow         *ShadowConfig    `yaml:"shadow,omitempty"`
	Quantum        *QuantumConfig   `yaml:"quantum,omitempty"`
	Zones          *ZonesConfig     `yaml:"zones,omitempty"`
}
