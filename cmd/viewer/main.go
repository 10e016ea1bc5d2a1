// Package main is the entry point for the interactive viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/softcore/internal/assets"
	"github.com/Faultbox/softcore/internal/config"
	"github.com/Faultbox/softcore/internal/demo"
	"github.com/Faultbox/softcore/internal/logger"
	"github.com/Faultbox/softcore/internal/viewer"
)

func main() {
	// Parse CLI flags first
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

	logger.Info("=== softcore viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	am := assets.NewManager()
	defer closeAssets(am)
	if err := am.AddDirs(cfg.Assets.Dirs); err != nil {
		logger.Error("failed to add asset dirs", zap.Error(err))
		os.Exit(1)
	}

	s, err := demo.New(cfg, am)
	if err != nil {
		logger.Error("failed to build scene", zap.Error(err))
		os.Exit(1)
	}

	v, err := viewer.New(cfg, s)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}

// closeAssets logs the asset cache counters and releases the manager.
func closeAssets(am *assets.Manager) {
	hits, misses := am.Cache().Stats()
	logger.Info("asset cache", zap.Int("hits", hits), zap.Int("misses", misses))
	am.Close()
}
