package liminal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"dao-gateway/core/pkg/upstream"
)

// RegistrySnapshotter is the minimal view the scheduler needs of the
// upstream registry: a consistent aggregate snapshot per tick.
type RegistrySnapshotter interface {
	Snapshot() upstream.Snapshot
}

// DefaultUpdateInterval is the scheduled-job cadence named in §2 and the
// `liminal.update_interval_ms` configuration key.
const DefaultUpdateInterval = 10 * time.Second

// Scheduler drives Controller.Update on a fixed interval, gathering
// AwarenessFactors from the registry's snapshot plus the controller's own
// echo-analyzer anomaly tally from the previous tick.
type Scheduler struct {
	controller *Controller
	registry   RegistrySnapshotter
	interval   time.Duration

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
	logger  *slog.Logger
}

// NewScheduler returns a scheduler that will drive controller from
// registry snapshots every interval once started. interval <= 0 uses
// DefaultUpdateInterval.
func NewScheduler(controller *Controller, registry RegistrySnapshotter, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultUpdateInterval
	}
	return &Scheduler{
		controller: controller,
		registry:   registry,
		interval:   interval,
		cron:       cron.New(cron.WithSeconds()),
		logger:     slog.Default().With("component", "liminal.scheduler"),
	}
}

// Start registers the periodic job and begins running it. It stops
// automatically when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	spec := fmt.Sprintf("@every %s", s.interval)
	_, err := s.cron.AddFunc(spec, s.tick)
	if err != nil {
		return fmt.Errorf("liminal: schedule update job: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("liminal update scheduler started", "interval", s.interval)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

func (s *Scheduler) tick() {
	snap := s.registry.Snapshot()
	factors := AwarenessFactors{
		CurrentRPS:   snap.CurrentRPS,
		BaselineRPS:  snap.BaselineRPS,
		ErrorRate:    snap.ErrorRate,
		P95LatencyMs: snap.P95Ms,
		AnomalyCount: s.controller.AnomalyCount(),
	}
	s.controller.Update(factors)
	s.logger.Debug("liminal update tick",
		"level", s.controller.CurrentLevel(),
		"temporal", s.controller.CurrentTemporal(),
		"anomalies", factors.AnomalyCount,
	)
}

// Stop halts the scheduler and waits for any in-flight tick to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil && s.running {
		stopCtx := s.cron.Stop()
		<-stopCtx.Done()
		s.running = false
		s.logger.Info("liminal update scheduler stopped")
	}
}

// IsRunning reports whether the scheduler is currently active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
