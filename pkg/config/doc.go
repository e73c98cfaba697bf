// Package config provides configuration management for the gateway.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides. It provides a type-safe
// configuration system with comprehensive validation and sensible defaults
// for the server, policy, presence, quantum routing, shadow traffic, zone
// fallback, Liminal update cadence, metamorphic transitions, profile
// persistence, and route table sections.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("config.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention DAO_SECTION_FIELD.
// For example:
//
//   - DAO_SERVER_LISTEN_ADDR overrides server.listen_addr
//   - DAO_POLICY_W_LOAD overrides policy.w_load
//   - DAO_PRESENCE_ABSENT_TIMEOUT_MS overrides presence.absent_timeout_ms
//
// Environment variables always take precedence over file-based configuration.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Singleton Pattern
//
// For application-wide configuration access, use the singleton pattern:
//
//	// At application startup
//	if err := config.Initialize("config.yaml"); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Anywhere in the application
//	cfg := config.GetConfig()
//	fmt.Println(cfg.Server.ListenAddr)
//
// For testing, prefer dependency injection with explicit Config instances
// rather than the global singleton.
//
// # Hot Reload
//
// Watch watches the configuration file for changes and invokes a callback
// with the newly loaded and validated Config on every debounced write. The
// caller is responsible for driving a metamorphic transition from the old
// to the new configuration; this package only detects and parses changes.
//
// # Validation
//
// All configuration is validated automatically during loading. Validation includes:
//
//   - Required field checks (e.g., route host/path_prefix, upstream URLs)
//   - Range validation (e.g., presence thresholds in [0,1])
//   - Format validation (e.g., valid collapse strategy names)
//   - Logical validation (e.g., quantum factor must not exceed upstream count)
//
// Validation errors include field paths and helpful messages:
//
//	configuration validation failed with 2 errors:
//	  - routes[0].upstreams: at least one upstream is required
//	  - presence.liminal_threshold: liminal_threshold must not exceed present_threshold
//
// # Example Configuration
//
// Here is a minimal configuration file:
//
//	server:
//	  listen_addr: "0.0.0.0:8080"
//
//	policy:
//	  w_load: 0.5
//	  w_intent: 0.3
//	  w_tempo: 0.2
//
//	routes:
//	  - name: "default"
//	    host: "api.example.com"
//	    upstreams:
//	      - name: "origin-a"
//	        url: "http://10.0.0.1:9000"
//	        weight: 1
//
// # Thread Safety
//
// All configuration access is thread-safe. The singleton pattern uses read-write
// locks to allow concurrent reads while protecting against concurrent writes during
// reload operations.
package config
