package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"dao-gateway/core/pkg/cli"
	"dao-gateway/core/pkg/config"
	"dao-gateway/core/pkg/liminal"
	"dao-gateway/core/pkg/pipeline"
	"dao-gateway/core/pkg/policy"
	"dao-gateway/core/pkg/pool"
	"dao-gateway/core/pkg/profile"
	"dao-gateway/core/pkg/server"
	"dao-gateway/core/pkg/telemetry/health"
	"dao-gateway/core/pkg/telemetry/logging"
	"dao-gateway/core/pkg/upstream"
)

var runFlags struct {
	listenAddr string
	logLevel   string
	dryRun     bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the gateway",
	Long: `Start the gateway with the specified configuration.

The gateway listens on the configured address, matches requests to routes,
and forwards them through the adaptive pipeline: policy-weighted upstream
selection, optional quantum (hedged) routing, optional shadow traffic
duplication, and liminal-zone timeout fallbacks.

Examples:
  # Start with default config
  daogate run

  # Start with custom config
  daogate run --config /etc/daogate/config.yaml

  # Override listen address
  daogate run --listen 0.0.0.0:8080

  # Validate config without starting the listener
  daogate run --dry-run`,
	RunE: runGateway,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddr, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the listener")
}

func runGateway(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	if runFlags.listenAddr != "" {
		cfg.Server.ListenAddr = runFlags.listenAddr
	}
	if runFlags.logLevel != "" {
		cfg.Logging.Level = runFlags.logLevel
	}

	logger, err := logging.New(logging.Config{
		Level:         cfg.Logging.Level,
		Format:        cfg.Logging.Format,
		RedactSecrets: true,
	})
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	if runFlags.dryRun {
		fmt.Println("configuration valid")
		return nil
	}

	fmt.Printf("daogate v%s\n", Version)
	fmt.Printf("loading configuration from: %s\n", cfgFile)

	routes, err := buildRoutes(cfg)
	if err != nil {
		return fmt.Errorf("failed to build routes from config: %w", err)
	}

	registry := upstream.NewRegistry()
	registry.SetRoutes(routes)
	fmt.Printf("routes loaded (%d routes)\n", len(routes))

	store, err := profile.OpenStore(cfg.Profile)
	if err != nil {
		return fmt.Errorf("failed to open profile store: %w", err)
	}
	memory := profile.NewMemory(cfg, cfg.Profile.MaxSnapshots, store)

	controller := liminal.New(time.Now())

	updateInterval := time.Duration(cfg.Liminal.UpdateIntervalMs) * time.Millisecond
	scheduler := liminal.NewScheduler(controller, registry, updateInterval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start liminal scheduler: %w", err)
	}

	connPool := pool.New(pool.Config{Logger: slog.Default()})
	connPool.Start(ctx)
	defer connPool.Stop()

	weights := policy.NewWeights(cfg.Policy.WLoad, cfg.Policy.WIntent, cfg.Policy.WTempo)

	pipe := &pipeline.Pipeline{
		Registry:         registry,
		Controller:       controller,
		RouteMatcher:     pipeline.RegistryRouteMatcher{Registry: registry},
		IntentClassifier: pipeline.HeaderIntentClassifier{},
		Pool:             pipeline.PoolConnectionPool{Pool: connPool},
		Weights:          func() policy.Weights { return weights },
		Logger:           slog.Default(),
	}

	checker := health.New(5 * time.Second)
	checker.RegisterCheck("liminal", health.LiminalReadinessCheck(controller))
	checker.RegisterCheck("upstreams", health.UpstreamRegistryCheck(registry, routes))

	watcherCfg := config.DefaultFileWatcherConfig(cfgFile)
	watcher, err := config.NewFileWatcher(watcherCfg, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}

	reloader := newReloadCoordinator(controller, registry, memory, time.Duration(cfg.Metamorphic.DurationMs)*time.Millisecond, slog.Default(), cfg)
	go func() {
		if err := watcher.Watch(ctx, reloader.onReload); err != nil {
			slog.Error("config watcher stopped", "error", err.Error())
		}
	}()
	defer watcher.Stop()

	srv := server.New(cfg.Server, pipe, checker, logger)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	fmt.Println()
	fmt.Printf("listening on %s\n", cfg.Server.ListenAddr)
	fmt.Printf("health endpoint: http://%s/health\n", cfg.Server.ListenAddr)
	fmt.Println("press ctrl+c to stop")

	sigChan := cli.WaitForShutdown()

	select {
	case err := <-errChan:
		return cli.NewCommandError("run", err)
	case sig := <-sigChan:
		fmt.Printf("\nreceived signal %s, shutting down gracefully...\n", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownGraceMs)*time.Millisecond)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return cli.NewCommandError("run", err)
		}

		fmt.Println("gateway stopped")
		return nil
	}
}
