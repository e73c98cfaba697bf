package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. Use LoadConfigWithEnvOverrides for environment-variable support.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Environment variables follow
// the naming convention DAO_SECTION_FIELD (e.g. DAO_SERVER_LISTEN_ADDR)
// and always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file (this already applies defaults)
// 2. Apply environment variable overrides
// 3. Re-validate
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides using the
// DAO_SECTION_FIELD naming convention.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("DAO_SERVER_LISTEN_ADDR"); val != "" {
		cfg.Server.ListenAddr = val
	}
	if val := os.Getenv("DAO_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("DAO_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}

	if val := os.Getenv("DAO_POLICY_W_LOAD"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Policy.WLoad = f
		}
	}
	if val := os.Getenv("DAO_POLICY_W_INTENT"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Policy.WIntent = f
		}
	}
	if val := os.Getenv("DAO_POLICY_W_TEMPO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Policy.WTempo = f
		}
	}

	if val := os.Getenv("DAO_PRESENCE_ABSENT_TIMEOUT_MS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Presence.AbsentTimeoutMs = i
		}
	}

	if val := os.Getenv("DAO_QUANTUM_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Quantum.Enabled = b
		}
	}
	if val := os.Getenv("DAO_SHADOW_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Shadow.Enabled = b
		}
	}

	if val := os.Getenv("DAO_LIMINAL_UPDATE_INTERVAL_MS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Liminal.UpdateIntervalMs = i
		}
	}
	if val := os.Getenv("DAO_METAMORPHIC_DURATION_MS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Metamorphic.DurationMs = i
		}
	}

	if val := os.Getenv("DAO_PROFILE_BACKEND"); val != "" {
		cfg.Profile.Backend = val
	}
	if val := os.Getenv("DAO_PROFILE_PATH"); val != "" {
		cfg.Profile.Path = val
	}
}
