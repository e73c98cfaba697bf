// Package logging provides structured logging for the gateway, wrapping
// log/slog with request-context propagation and secret redaction.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON and text formats
//   - Secret redaction (bearer tokens, API keys, IPv4 addresses)
//   - Context-aware logging carrying request id, route, upstream,
//     intent, consciousness level, and trace id
//   - Configurable log levels (debug, info, warn, error)
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:         "info",
//	    Format:        "json",
//	    RedactSecrets: true,
//	})
//
//	logger.Info("forwarded request",
//	    "route", "payments",
//	    "status", 200,
//	)
//
//	ctx := logging.WithRequestID(ctx, "req-123")
//	ctx = logging.WithRoute(ctx, "payments")
//	logger.InfoContext(ctx, "handled")  // includes request_id and route automatically
//
// # Redaction
//
// When RedactSecrets is enabled, values that look like bearer tokens or
// API keys are stripped from log output, and any field keyed by a
// sensitive name (password, token, authorization, ...) is fully masked
// regardless of its shape.
package logging
