package logging

import (
	"context"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	if got := GetRequestID(ctx); got != "req-1" {
		t.Fatalf("GetRequestID() = %q, want req-1", got)
	}
}

func TestGetRequestIDMissingReturnsEmpty(t *testing.T) {
	if got := GetRequestID(context.Background()); got != "" {
		t.Fatalf("GetRequestID() = %q, want empty", got)
	}
}

func TestRouteAndUpstreamRoundTrip(t *testing.T) {
	ctx := WithRoute(context.Background(), "payments")
	ctx = WithUpstream(ctx, "payments-b")

	if got := GetRoute(ctx); got != "payments" {
		t.Fatalf("GetRoute() = %q, want payments", got)
	}
	if got := GetUpstream(ctx); got != "payments-b" {
		t.Fatalf("GetUpstream() = %q, want payments-b", got)
	}
}

func TestIntentAndConsciousnessLevelRoundTrip(t *testing.T) {
	ctx := WithIntent(context.Background(), "batch")
	ctx = WithConsciousnessLevel(ctx, "vigilant")

	if got := GetIntent(ctx); got != "batch" {
		t.Fatalf("GetIntent() = %q, want batch", got)
	}
	if got := GetConsciousnessLevel(ctx); got != "vigilant" {
		t.Fatalf("GetConsciousnessLevel() = %q, want vigilant", got)
	}
}

func TestExtractContextFieldsOnlyIncludesSetFields(t *testing.T) {
	ctx := WithRoute(context.Background(), "payments")
	fields := extractContextFields(ctx)

	if len(fields) != 2 {
		t.Fatalf("fields = %v, want 2 entries", fields)
	}
	if fields[0] != "route" || fields[1] != "payments" {
		t.Fatalf("fields = %v, want [route payments]", fields)
	}
}

func TestExtractContextFieldsEmptyWhenNothingSet(t *testing.T) {
	fields := extractContextFields(context.Background())
	if len(fields) != 0 {
		t.Fatalf("fields = %v, want empty", fields)
	}
}
