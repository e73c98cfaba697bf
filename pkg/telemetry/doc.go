// Package telemetry groups the gateway's observability subpackages.
//
// logging provides structured request/route/upstream logging with secret
// redaction. health exposes liveness and readiness HTTP endpoints backed by
// checks against the liminal controller and upstream registry. Each
// subpackage is self-contained; there is no shared aggregator type.
package telemetry
