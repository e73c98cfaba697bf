package main

import (
	"fmt"
	"time"

	"dao-gateway/core/pkg/config"
	"dao-gateway/core/pkg/upstream"
)

// buildPresenceConfig converts the configured presence thresholds into
// upstream.PresenceConfig, falling back to the package defaults for any
// zero field.
func buildPresenceConfig(cfg config.PresenceConfig) upstream.PresenceConfig {
	pc := upstream.DefaultPresenceConfig()
	if cfg.HistorySize > 0 {
		pc.HistorySize = cfg.HistorySize
	}
	if cfg.PresentThreshold > 0 {
		pc.PresentThreshold = cfg.PresentThreshold
	}
	if cfg.LiminalThreshold > 0 {
		pc.LiminalThreshold = cfg.LiminalThreshold
	}
	if cfg.AbsentTimeoutMs > 0 {
		pc.AbsentTimeout = msToDuration(cfg.AbsentTimeoutMs)
	}
	return pc
}

// buildRoutes translates the declared route table into upstream.Route
// values, attaching a fresh Stats/PresenceDetector pair to every
// upstream.
func buildRoutes(cfg *config.Config) ([]*upstream.Route, error) {
	pc := buildPresenceConfig(cfg.Presence)

	routes := make([]*upstream.Route, 0, len(cfg.Routes))
	for _, rc := range cfg.Routes {
		ups := make([]*upstream.Upstream, 0, len(rc.Upstreams))
		for _, uc := range rc.Upstreams {
			u, err := upstream.New(upstream.Config{
				Name:    uc.Name,
				URL:     uc.URL,
				Intents: uc.Intents,
				Weight:  uc.Weight,
			}, pc)
			if err != nil {
				return nil, fmt.Errorf("route %s: upstream %s: %w", rc.Name, uc.Name, err)
			}
			ups = append(ups, u)
		}

		route := &upstream.Route{
			Name:           rc.Name,
			Host:           rc.Host,
			PathPrefix:     rc.PathPrefix,
			Upstreams:      ups,
			Deadline:       msToDuration(rc.DeadlineMs),
			HedgeAll:       rc.HedgeAll,
			MaxBufferBytes: rc.MaxBufferBytes,
		}

		if rc.Shadow != nil {
			route.Shadow = upstream.ShadowSpec{
				Enabled:        rc.Shadow.Enabled,
				ShadowUpstream: rc.Shadow.Upstream,
				Rate:           rc.Shadow.Rate,
				Mode:           upstream.ShadowMode(rc.Shadow.Mode),
			}
		} else {
			route.Shadow = upstream.ShadowSpec{
				Enabled:        cfg.Shadow.Enabled,
				ShadowUpstream: cfg.Shadow.Upstream,
				Rate:           cfg.Shadow.Rate,
				Mode:           upstream.ShadowMode(cfg.Shadow.Mode),
			}
		}

		if rc.Quantum != nil {
			route.Quantum = upstream.QuantumSpec{
				Enabled:      rc.Quantum.Enabled,
				Factor:       rc.Quantum.Factor,
				HedgeTimeout: msToDuration(rc.Quantum.TimeoutMs),
				Collapse:     upstream.CollapseStrategy(rc.Quantum.Collapse),
			}
		} else {
			route.Quantum = upstream.QuantumSpec{
				Enabled:      cfg.Quantum.Enabled,
				Factor:       cfg.Quantum.Factor,
				HedgeTimeout: msToDuration(cfg.Quantum.TimeoutMs),
				Collapse:     upstream.CollapseStrategy(cfg.Quantum.Collapse),
			}
		}

		zonesCfg := cfg.Zones
		if rc.Zones != nil {
			zonesCfg = *rc.Zones
		}
		for _, zb := range zonesCfg.Bands {
			route.Zones = append(route.Zones, upstream.ZoneBand{
				Lo:         zb.Lo,
				Hi:         zb.Hi,
				StatusCode: zb.Status,
				Body:       zb.Body,
			})
		}

		routes = append(routes, route)
	}

	return routes, nil
}

func msToDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
