// Package health provides liveness and readiness probes for the gateway.
//
// # Overview
//
// The health package implements liveness and readiness probes for
// Kubernetes and other orchestration systems, along with version
// information endpoints. Checker is a generic registry of named
// CheckFunc callbacks; checks.go supplies the gateway-specific ones
// that bind it to the liminal controller and the upstream registry.
//
// # Endpoints
//
//   - /health: Liveness probe - indicates if the process is running
//   - /ready: Readiness probe - indicates if the system can serve traffic
//   - /version: Build information - version, commit, build time
//
// # Usage
//
//	checker := health.New(5 * time.Second)
//	checker.RegisterCheck("liminal", health.LiminalReadinessCheck(controller))
//	checker.RegisterCheck("upstreams", health.UpstreamRegistryCheck(registry, routes))
//
//	http.HandleFunc("/health", checker.LivenessHandler())
//	http.HandleFunc("/ready", checker.ReadinessHandler())
//
// # Liveness vs Readiness
//
// Liveness (/health) answers whether the process is alive; it never
// depends on upstream state and stays fast (<10ms). Readiness (/ready)
// runs every registered check and reports "degraded" if any of them
// fail - in particular, a gateway that has not yet reached production
// consciousness, or a route with no present upstreams, is not ready to
// take traffic even though the process itself is healthy.
package health
