package logging

import (
	"bytes"
	"context"
	"testing"
)

// BenchmarkLoggerInfoEnabled measures logging performance when the level
// is enabled and the line is actually encoded and written.
func BenchmarkLoggerInfoEnabled(b *testing.B) {
	logger, err := New(Config{Level: "info", Format: "json", Writer: &bytes.Buffer{}})
	if err != nil {
		b.Fatalf("New: %v", err)
	}
	for i := 0; i < b.N; i++ {
		logger.Info("forwarded request", "route", "payments", "status", 200)
	}
}

// BenchmarkLoggerDebugDisabled measures the fast path when the configured
// level filters the call out before encoding.
func BenchmarkLoggerDebugDisabled(b *testing.B) {
	logger, err := New(Config{Level: "warn", Format: "json", Writer: &bytes.Buffer{}})
	if err != nil {
		b.Fatalf("New: %v", err)
	}
	for i := 0; i < b.N; i++ {
		logger.Debug("forwarded request", "route", "payments", "status", 200)
	}
}

// BenchmarkLoggerInfoContext measures the cost of extracting context
// fields on every call.
func BenchmarkLoggerInfoContext(b *testing.B) {
	logger, err := New(Config{Level: "info", Format: "json", Writer: &bytes.Buffer{}})
	if err != nil {
		b.Fatalf("New: %v", err)
	}
	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithRoute(ctx, "payments")
	for i := 0; i < b.N; i++ {
		logger.InfoContext(ctx, "forwarded request", "status", 200)
	}
}

// BenchmarkRedactArgs measures redaction overhead on a typical field set.
func BenchmarkRedactArgs(b *testing.B) {
	r := NewRedactor()
	for i := 0; i < b.N; i++ {
		r.RedactArgs("authorization", "Bearer sometoken123", "route", "payments")
	}
}
