// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/NVlabs/GraspGen/internal/api"
	"github.com/NVlabs/GraspGen/internal/config"
	"github.com/NVlabs/GraspGen/internal/log"
)

// runServe starts the admin server with hot configuration reloading.
// Training and evaluation workers read the current configuration through
// the holder and receive listener notifications on reload.
func runServe(args []string) int {
	fs := flag.NewFlagSet("graspgen serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var configPath string
	var listen string
	fs.StringVar(&configPath, "config", "", "path to YAML configuration file")
	fs.StringVar(&listen, "listen", "", "admin server listen address (overrides GRASPGEN_LISTEN)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	configureLogging()
	logger := log.WithComponent("serve")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	effectivePath := strings.TrimSpace(configPath)
	if effectivePath == "" {
		effectivePath = resolveDefaultConfigPath()
	}

	loader := config.NewLoader(effectivePath, version)
	cfg, err := loader.Load()
	if err != nil {
		logger.Error().
			Err(err).
			Str("event", "config.load_failed").
			Str("config_path", effectivePath).
			Msg("failed to load configuration")
		return 1
	}

	if effectivePath != "" {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "file").
			Str("path", effectivePath).
			Msg("loaded configuration from file")
	} else {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "env").
			Msg("loaded configuration from environment and defaults")
	}

	config.NewSnapshot(cfg).Log()

	holder := config.NewConfigHolder(cfg, loader, effectivePath)
	defer holder.Stop()

	if err := holder.StartWatcher(ctx); err != nil {
		logger.Error().Err(err).Msg("failed to start config watcher")
		return 1
	}

	serverCfg := config.ParseServerConfig()
	if strings.TrimSpace(listen) != "" {
		serverCfg.ListenAddr = listen
	}

	srv := api.NewServer(serverCfg, holder)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "serve failed: %v\n", err)
		return 1
	}
	return 0
}
