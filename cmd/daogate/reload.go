package main

import (
	"log/slog"
	"time"

	"dao-gateway/core/pkg/config"
	"dao-gateway/core/pkg/liminal"
	"dao-gateway/core/pkg/metamorphic"
	"dao-gateway/core/pkg/profile"
	"dao-gateway/core/pkg/upstream"
)

// reloadTickInterval is how often an active metamorphic transition's
// blended configuration is re-applied to the route table.
const reloadTickInterval = 500 * time.Millisecond

// reloadCoordinator bridges pkg/config's file watcher to the liminal
// controller's metamorphic transition machinery: every reload starts a
// time-bounded blend from the currently effective configuration to the
// newly loaded one, and re-derives the route table from the blend on
// every tick until it completes.
type reloadCoordinator struct {
	controller *liminal.Controller
	registry   *upstream.Registry
	memory     *profile.Memory
	duration   time.Duration
	logger     *slog.Logger

	current *config.Config
}

func newReloadCoordinator(controller *liminal.Controller, registry *upstream.Registry, memory *profile.Memory, duration time.Duration, logger *slog.Logger, initial *config.Config) *reloadCoordinator {
	return &reloadCoordinator{
		controller: controller,
		registry:   registry,
		memory:     memory,
		duration:   duration,
		logger:     logger,
		current:    initial,
	}
}

// onReload is the callback pkg/config.FileWatcher invokes with the newly
// loaded configuration.
func (r *reloadCoordinator) onReload(next *config.Config) {
	now := time.Now()
	from := r.current
	transition := metamorphic.NewTransition(from, next, now, r.duration)

	r.controller.RegisterTransition(transition)
	r.logger.Info("metamorphic transition started", "duration", r.duration)

	go r.drive(transition, next)
}

func (r *reloadCoordinator) drive(transition *metamorphic.Transition, next *config.Config) {
	ticker := time.NewTicker(reloadTickInterval)
	defer ticker.Stop()

	for range ticker.C {
		transition.Tick(time.Now())
		effective := transition.Effective()
		routes, err := buildRoutes(effective)
		if err != nil {
			r.logger.Error("metamorphic: failed to rebuild routes from blend", "error", err.Error())
			continue
		}
		r.registry.SetRoutes(routes)

		if transition.Done() {
			r.current = next
			if err := r.memory.UpdateConfig(next, "config file reload", time.Now()); err != nil {
				r.logger.Error("metamorphic: failed to persist post-transition config", "error", err.Error())
			}
			r.controller.UnregisterTransition(transition)
			r.logger.Info("metamorphic transition complete")
			return
		}
	}
}
