// Package main renders the demo scene headlessly and writes a snapshot.
package main

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/softcore/internal/assets"
	"github.com/Faultbox/softcore/internal/config"
	"github.com/Faultbox/softcore/internal/demo"
	"github.com/Faultbox/softcore/internal/logger"
	"github.com/Faultbox/softcore/internal/renderer"
	"github.com/Faultbox/softcore/internal/snapshot"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("render failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	am := assets.NewManager()
	defer closeAssets(am)
	if err := am.AddDirs(cfg.Assets.Dirs); err != nil {
		return fmt.Errorf("asset dirs: %w", err)
	}

	s, err := demo.New(cfg, am)
	if err != nil {
		return fmt.Errorf("building scene: %w", err)
	}

	start := time.Now()
	var stats renderer.FrameStats
	for i := 0; i < cfg.Output.Frames; i++ {
		s.Step(cfg.Output.Timestep)
		if stats, err = s.Render(); err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	logger.Info("rendered",
		zap.Int("frames", cfg.Output.Frames),
		zap.Duration("elapsed", elapsed),
		zap.Int("entities", stats.Entities),
		zap.Int("culled", stats.Culled),
		zap.Uint32("triangles", stats.Stage.Triangles),
		zap.Uint32("clipped", stats.Stage.Clipped),
		zap.Uint32("backfaced", stats.Stage.BackFaced),
		zap.Uint32("drawn", stats.Raster.Drawn),
		zap.Uint32("pixels", stats.Raster.Pixels))

	if err := snapshot.Save(s.Context(), cfg.Output.Snapshot, cfg.Display.Scale); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	logger.Info("snapshot saved", zap.String("path", cfg.Output.Snapshot))
	return nil
}

// closeAssets logs the asset cache counters and releases the manager.
func closeAssets(am *assets.Manager) {
	hits, misses := am.Cache().Stats()
	logger.Info("asset cache", zap.Int("hits", hits), zap.Int("misses", misses))
	am.Close()
}
