// Package main is the entry point for the footfall locomotion simulator.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/footfall/internal/config"
	"github.com/Faultbox/footfall/internal/logger"
	"github.com/Faultbox/footfall/internal/runner"
	"github.com/Faultbox/footfall/internal/scene"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== footfall ===", zap.String("scene", cfg.Simulation.Scene))
	logger.Sugar.Debugf("Config: %+v", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := runner.New(cfg, logger.Named("runner"))
	if _, err := r.Run(ctx); err != nil {
		logger.Error("run failed", zap.Error(err))
		if !cfg.Simulation.Watch {
			logger.Sync()
			os.Exit(1)
		}
	}

	if cfg.Simulation.Watch {
		if err := watch(ctx, cfg, r); err != nil {
			logger.Error("watch failed", zap.Error(err))
			logger.Sync()
			os.Exit(1)
		}
	}
}

// watch reruns the scene whenever the scene file changes until ctx ends.
func watch(ctx context.Context, cfg *config.Config, r *runner.Runner) error {
	w, err := scene.Watch(cfg.Simulation.Scene)
	if err != nil {
		return err
	}
	defer w.Close()

	log := logger.Named("watch")
	log.Info("watching scene", zap.String("path", cfg.Simulation.Scene))
	for {
		select {
		case <-ctx.Done():
			log.Info("stopped")
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", zap.Error(err))
		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			log.Info("scene changed, rerunning", zap.String("path", path))
			if _, err := r.Run(ctx); err != nil {
				log.Error("run failed", zap.Error(err))
			}
		}
	}
}
