package health

import (
	"context"
	"testing"
	"time"

	"dao-gateway/core/pkg/liminal"
	"dao-gateway/core/pkg/upstream"
)

func TestLiminalReadinessCheckFailsBeforeProduction(t *testing.T) {
	controller := liminal.New(time.Now())
	check := LiminalReadinessCheck(controller)

	if err := check(context.Background()); err == nil {
		t.Fatal("expected error before ritual reaches production")
	}
}

func TestLiminalReadinessCheckPassesOnceProductionReady(t *testing.T) {
	start := time.Now().Add(-24 * time.Hour)
	controller := liminal.New(start)
	now := start
	for i := 0; i < 10; i++ {
		now = now.Add(time.Hour)
		controller.Update(liminal.AwarenessFactors{})
	}

	check := LiminalReadinessCheck(controller)
	if err := check(context.Background()); err != nil {
		t.Fatalf("expected no error once production ready, got %v", err)
	}
}

func TestUpstreamRegistryCheckFailsWithNoPresentUpstreams(t *testing.T) {
	registry := upstream.NewRegistry()
	u, err := upstream.New(upstream.Config{Name: "b", URL: "http://b", Weight: 1}, upstream.DefaultPresenceConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	route := &upstream.Route{Name: "payments", Upstreams: []*upstream.Upstream{u}}
	registry.SetRoutes([]*upstream.Route{route})

	check := UpstreamRegistryCheck(registry, []*upstream.Route{route})
	if err := check(context.Background()); err == nil {
		t.Fatal("expected error when no upstream has reached present")
	}
}

func TestUpstreamRegistryCheckPassesWithPresentUpstream(t *testing.T) {
	registry := upstream.NewRegistry()
	u, err := upstream.New(upstream.Config{Name: "b", URL: "http://b", Weight: 1}, upstream.DefaultPresenceConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 20; i++ {
		u.Presence.RecordOutcome(true)
	}
	route := &upstream.Route{Name: "payments", Upstreams: []*upstream.Upstream{u}}
	registry.SetRoutes([]*upstream.Route{route})

	check := UpstreamRegistryCheck(registry, []*upstream.Route{route})
	if err := check(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestUpstreamRegistryCheckPassesWithNoRoutes(t *testing.T) {
	registry := upstream.NewRegistry()
	check := UpstreamRegistryCheck(registry, nil)
	if err := check(context.Background()); err != nil {
		t.Fatalf("expected no error with no routes, got %v", err)
	}
}
