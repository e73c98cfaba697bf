// Package server provides the outer HTTP listener fronting the request
// pipeline.
//
// TLS termination, ALPN negotiation, and HTTP wire parsing are treated
// as external collaborators; this package configures only the Go
// net/http server on top of an already-decoded request stream.
//
// # Architecture
//
// The server package is the top-level orchestrator that:
//   - Routes liveness/readiness probes and all other paths to the pipeline
//   - Renders a pipeline Result onto the wire, including the
//     X-Dao-Upstream, X-Dao-Consciousness, and X-Dao-Shadow headers
//   - Manages graceful shutdown within the configured grace period
//
// # Basic Usage
//
//	checker := health.New(5 * time.Second)
//	checker.RegisterCheck("liminal", health.LiminalReadinessCheck(controller))
//
//	srv := server.New(cfg.Server, pipeline, checker, logger)
//	if err := srv.Start(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
//	if err := srv.Shutdown(context.Background()); err != nil {
//	    logger.Error("shutdown error", "error", err.Error())
//	}
//
// Shutdown stops accepting new connections, waits for in-flight ones to
// complete up to ShutdownGraceMs, then forces closure.
package server
