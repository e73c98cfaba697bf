package config

import (
	"fmt"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_addr").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateLogging(&cfg.Logging)...)
	errs = append(errs, validatePolicy(&cfg.Policy)...)
	errs = append(errs, validatePresence(&cfg.Presence)...)
	errs = append(errs, validateQuantum("quantum", &cfg.Quantum)...)
	errs = append(errs, validateShadow("shadow", &cfg.Shadow)...)
	errs = append(errs, validateZones("zones", &cfg.Zones)...)
	errs = append(errs, validateProfile(&cfg.Profile)...)

	if len(cfg.Routes) == 0 {
		errs = append(errs, FieldError{
			Field:   "routes",
			Message: "at least one route must be configured",
		})
	}
	seen := make(map[string]bool)
	for i, route := range cfg.Routes {
		prefix := fmt.Sprintf("routes[%d]", i)
		if route.Name == "" {
			errs = append(errs, FieldError{Field: prefix + ".name", Message: "name is required"})
		} else if seen[route.Name] {
			errs = append(errs, FieldError{Field: prefix + ".name", Message: fmt.Sprintf("duplicate route name %q", route.Name)})
		}
		seen[route.Name] = true
		errs = append(errs, validateRoute(prefix, &route)...)
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError
	if cfg.ListenAddr == "" {
		errs = append(errs, FieldError{Field: "server.listen_addr", Message: "listen address is required"})
	}
	if cfg.ReadTimeoutMs < 0 {
		errs = append(errs, FieldError{Field: "server.read_timeout_ms", Message: "must be non-negative"})
	}
	if cfg.WriteTimeoutMs < 0 {
		errs = append(errs, FieldError{Field: "server.write_timeout_ms", Message: "must be non-negative"})
	}
	if cfg.ShutdownGraceMs < 0 {
		errs = append(errs, FieldError{Field: "server.shutdown_grace_ms", Message: "must be non-negative"})
	}
	return errs
}

func validateLogging(cfg *LoggingConfig) []FieldError {
	var errs []FieldError
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Level] {
		errs = append(errs, FieldError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level %q: must be debug, info, warn, or error", cfg.Level),
		})
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.Format] {
		errs = append(errs, FieldError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid format %q: must be json or text", cfg.Format),
		})
	}
	return errs
}

// validatePolicy checks that the three Aligner weights are non-negative and
// sum to 1 within floating-point tolerance. ApplyDefaults normalizes the
// weights read from the file; environment overrides are applied after that
// and are not renormalized, so this catches overrides that break the sum as
// well as callers that bypass the loader.
func validatePolicy(cfg *PolicyConfig) []FieldError {
	var errs []FieldError
	if cfg.WLoad < 0 || cfg.WIntent < 0 || cfg.WTempo < 0 {
		errs = append(errs, FieldError{Field: "policy", Message: "weights must be non-negative"})
	}
	total := cfg.WLoad + cfg.WIntent + cfg.WTempo
	if total < 0.99 || total > 1.01 {
		errs = append(errs, FieldError{
			Field:   "policy",
			Message: fmt.Sprintf("weights must sum to 1.0, got %.4f", total),
		})
	}
	return errs
}

func validatePresence(cfg *PresenceConfig) []FieldError {
	var errs []FieldError
	if cfg.HistorySize < 1 {
		errs = append(errs, FieldError{Field: "presence.history_size", Message: "must be at least 1"})
	}
	if cfg.PresentThreshold < 0 || cfg.PresentThreshold > 1 {
		errs = append(errs, FieldError{Field: "presence.present_threshold", Message: "must be between 0.0 and 1.0"})
	}
	if cfg.LiminalThreshold < 0 || cfg.LiminalThreshold > 1 {
		errs = append(errs, FieldError{Field: "presence.liminal_threshold", Message: "must be between 0.0 and 1.0"})
	}
	if cfg.LiminalThreshold > cfg.PresentThreshold {
		errs = append(errs, FieldError{
			Field:   "presence.liminal_threshold",
			Message: "liminal_threshold must not exceed present_threshold",
		})
	}
	if cfg.AbsentTimeoutMs < 0 {
		errs = append(errs, FieldError{Field: "presence.absent_timeout_ms", Message: "must be non-negative"})
	}
	return errs
}

func validateQuantum(prefix string, cfg *QuantumConfig) []FieldError {
	var errs []FieldError
	if !cfg.Enabled {
		return errs
	}
	if cfg.Factor < 2 {
		errs = append(errs, FieldError{Field: prefix + ".factor", Message: "factor must be at least 2 when quantum routing is enabled"})
	}
	if cfg.TimeoutMs < 0 {
		errs = append(errs, FieldError{Field: prefix + ".timeout_ms", Message: "must be non-negative"})
	}
	validCollapse := map[string]bool{"first_success": true, "first_any": true, "fastest_of_n": true}
	if !validCollapse[cfg.Collapse] {
		errs = append(errs, FieldError{
			Field:   prefix + ".collapse",
			Message: fmt.Sprintf("invalid collapse strategy %q: must be first_success, first_any, or fastest_of_n", cfg.Collapse),
		})
	}
	return errs
}

func validateShadow(prefix string, cfg *ShadowConfig) []FieldError {
	var errs []FieldError
	if !cfg.Enabled {
		return errs
	}
	if cfg.Upstream == "" {
		errs = append(errs, FieldError{Field: prefix + ".upstream", Message: "upstream is required when shadow traffic is enabled"})
	}
	if cfg.Rate < 0 || cfg.Rate > 1 {
		errs = append(errs, FieldError{Field: prefix + ".rate", Message: "must be between 0.0 and 1.0"})
	}
	validModes := map[string]bool{"async": true, "sync": true, "compare": true}
	if !validModes[cfg.Mode] {
		errs = append(errs, FieldError{
			Field:   prefix + ".mode",
			Message: fmt.Sprintf("invalid mode %q: must be async, sync, or compare", cfg.Mode),
		})
	}
	return errs
}

func validateZones(prefix string, cfg *ZonesConfig) []FieldError {
	var errs []FieldError
	for i, band := range cfg.Bands {
		bp := fmt.Sprintf("%s.bands[%d]", prefix, i)
		if band.Lo < 0 {
			errs = append(errs, FieldError{Field: bp + ".lo", Message: "must be non-negative"})
		}
		if band.Hi < band.Lo {
			errs = append(errs, FieldError{Field: bp + ".hi", Message: "hi must not be less than lo"})
		}
		if band.Status < 100 || band.Status > 599 {
			errs = append(errs, FieldError{Field: bp + ".status", Message: "must be a valid HTTP status code"})
		}
	}
	return errs
}

func validateProfile(cfg *ProfileConfig) []FieldError {
	var errs []FieldError
	validBackends := map[string]bool{"pure": true, "cgo": true}
	if !validBackends[cfg.Backend] {
		errs = append(errs, FieldError{
			Field:   "profile.backend",
			Message: fmt.Sprintf("invalid backend %q: must be pure or cgo", cfg.Backend),
		})
	}
	if cfg.Path == "" {
		errs = append(errs, FieldError{Field: "profile.path", Message: "path is required"})
	}
	if cfg.MaxSnapshots < 1 {
		errs = append(errs, FieldError{Field: "profile.max_snapshots", Message: "must be at least 1"})
	}
	return errs
}

func validateRoute(prefix string, r *RouteConfig) []FieldError {
	var errs []FieldError
	if r.Host == "" && r.PathPrefix == "" {
		errs = append(errs, FieldError{Field: prefix, Message: "at least one of host or path_prefix is required"})
	}
	if r.DeadlineMs < 0 {
		errs = append(errs, FieldError{Field: prefix + ".deadline_ms", Message: "must be non-negative"})
	}
	if r.MaxBufferBytes < 0 {
		errs = append(errs, FieldError{Field: prefix + ".max_buffer_bytes", Message: "must be non-negative"})
	}
	if len(r.Upstreams) == 0 {
		errs = append(errs, FieldError{Field: prefix + ".upstreams", Message: "at least one upstream is required"})
	}
	names := make(map[string]bool)
	for i, u := range r.Upstreams {
		up := fmt.Sprintf("%s.upstreams[%d]", prefix, i)
		if u.Name == "" {
			errs = append(errs, FieldError{Field: up + ".name", Message: "name is required"})
		} else if names[u.Name] {
			errs = append(errs, FieldError{Field: up + ".name", Message: fmt.Sprintf("duplicate upstream name %q within route", u.Name)})
		}
		names[u.Name] = true
		if u.URL == "" {
			errs = append(errs, FieldError{Field: up + ".url", Message: "url is required"})
		}
	}
	if r.Quantum != nil {
		errs = append(errs, validateQuantum(prefix+".quantum", r.Quantum)...)
		if r.Quantum.Enabled && r.Quantum.Factor > len(r.Upstreams) {
			errs = append(errs, FieldError{
				Field:   prefix + ".quantum.factor",
				Message: "factor must not exceed the number of upstreams in the route",
			})
		}
	}
	if r.Shadow != nil {
		errs = append(errs, validateShadow(prefix+".shadow", r.Shadow)...)
	}
	if r.Zones != nil {
		errs = append(errs, validateZones(prefix+".zones", r.Zones)...)
	}
	return errs
}
