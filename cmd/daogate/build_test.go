package main

import (
	"testing"

	"dao-gateway/core/pkg/config"
	"dao-gateway/core/pkg/upstream"
)

func TestBuildPresenceConfigAppliesOverrides(t *testing.T) {
	pc := buildPresenceConfig(config.PresenceConfig{
		HistorySize:      50,
		PresentThreshold: 0.9,
	})

	if pc.HistorySize != 50 {
		t.Errorf("HistorySize = %d, want 50", pc.HistorySize)
	}
	if pc.PresentThreshold != 0.9 {
		t.Errorf("PresentThreshold = %v, want 0.9", pc.PresentThreshold)
	}

	defaults := upstream.DefaultPresenceConfig()
	if pc.LiminalThreshold != defaults.LiminalThreshold {
		t.Errorf("LiminalThreshold = %v, want default %v", pc.LiminalThreshold, defaults.LiminalThreshold)
	}
	if pc.AbsentTimeout != defaults.AbsentTimeout {
		t.Errorf("AbsentTimeout = %v, want default %v", pc.AbsentTimeout, defaults.AbsentTimeout)
	}
}

func TestBuildRoutesRejectsZeroWeight(t *testing.T) {
	cfg := &config.Config{
		Routes: []config.RouteConfig{
			{
				Name: "default",
				Upstreams: []config.UpstreamConfig{
					{Name: "a", URL: "http://a.internal", Weight: 0},
				},
			},
		},
	}

	if _, err := buildRoutes(cfg); err == nil {
		t.Fatal("expected error for zero-weight upstream, got nil")
	}
}

func TestBuildRoutesUsesRouteOverridesOverGatewayDefaults(t *testing.T) {
	cfg := &config.Config{
		Quantum: config.QuantumConfig{Enabled: false, Factor: 1, TimeoutMs: 100, Collapse: "first"},
		Shadow:  config.ShadowConfig{Enabled: false},
		Zones:   config.ZonesConfig{Bands: []config.ZoneBandConfig{{Lo: 0, Hi: 1, Status: 504, Body: "timeout"}}},
		Routes: []config.RouteConfig{
			{
				Name: "hedged",
				Upstreams: []config.UpstreamConfig{
					{Name: "a", URL: "http://a.internal", Weight: 1},
					{Name: "b", URL: "http://b.internal", Weight: 1},
				},
				Quantum: &config.QuantumConfig{Enabled: true, Factor: 2, TimeoutMs: 50, Collapse: "first"},
			},
		},
	}

	routes, err := buildRoutes(cfg)
	if err != nil {
		t.Fatalf("buildRoutes: %v", err)
	}
	if len(routes) != 1 {
		t.Fatalf("len(routes) = %d, want 1", len(routes))
	}

	route := routes[0]
	if !route.Quantum.Enabled || route.Quantum.Factor != 2 {
		t.Errorf("route.Quantum = %+v, want route-level override applied", route.Quantum)
	}
	if route.Shadow.Enabled {
		t.Errorf("route.Shadow.Enabled = true, want gateway default (false) to apply")
	}
	if len(route.Zones) != 1 || route.Zones[0].StatusCode != 504 {
		t.Errorf("route.Zones = %+v, want gateway default band to apply", route.Zones)
	}
}
