package health

import (
	"context"
	"fmt"

	"dao-gateway/core/pkg/liminal"
	"dao-gateway/core/pkg/upstream"
)

// LiminalReadinessCheck reports unhealthy until the controller's ritual
// phase reaches production. Register it under the name "liminal".
func LiminalReadinessCheck(controller *liminal.Controller) CheckFunc {
	return func(ctx context.Context) error {
		if !controller.IsProductionReady() {
			return fmt.Errorf("consciousness level %s, not production ready", controller.CurrentLevel())
		}
		return nil
	}
}

// UpstreamRegistryCheck reports unhealthy when any configured route has
// no upstream outside the Absent state (Present, Liminal and Unknown all
// count). Register it under the name "upstreams".
func UpstreamRegistryCheck(registry *upstream.Registry, routes []*upstream.Route) CheckFunc {
	return func(ctx context.Context) error {
		if len(routes) == 0 {
			return nil
		}
		for _, route := range routes {
			healthy := 0
			for _, u := range registry.UpstreamsFor(route) {
				if u.Presence.State() != upstream.Absent {
					healthy++
				}
			}
			if healthy == 0 {
				return fmt.Errorf("route %s has no present or liminal upstreams", route.Name)
			}
		}
		return nil
	}
}
