package main

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/Simon666Z/quantforge/internal/api"
	"github.com/Simon666Z/quantforge/internal/store"
)

func serveCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "addr",
			Usage: "Listen address",
			Value: api.DefaultConfig().Addr,
		},
		&cli.StringFlag{
			Name:  "presets",
			Usage: "DuckDB file for saved presets. Empty keeps them in memory",
			Value: "data/presets.duckdb",
		},
		&cli.IntFlag{
			Name:  "concurrency",
			Usage: "Maximum number of backtests a screener or stress test runs at once",
			Value: api.DefaultConfig().Concurrency,
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Per request timeout",
			Value: 2 * time.Minute,
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the default backtest engine YAML configuration",
		},
	}

	flags = slices.Concat(flags, sourceFlags())

	return &cli.Command{
		Name:   "serve",
		Usage:  "Serve the JSON API",
		Flags:  flags,
		Action: serveAction,
	}
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	engineConfig, err := loadEngineConfig(cmd)
	if err != nil {
		return err
	}

	source, closeSource, err := openSource(cmd, log)
	if err != nil {
		return err
	}
	defer closeSource()

	presetPath := cmd.String("presets")
	if presetPath != "" {
		if err := os.MkdirAll(filepath.Dir(presetPath), 0755); err != nil {
			return err
		}
	}

	presets, err := store.NewDuckDBPresetStore(presetPath, log)
	if err != nil {
		return err
	}
	defer presets.Close()

	config := api.Config{
		Addr:           cmd.String("addr"),
		Engine:         engineConfig,
		Source:         source,
		Presets:        presets,
		Concurrency:    cmd.Int("concurrency"),
		RequestTimeout: cmd.Duration("timeout"),
	}

	server, err := api.NewServer(config, log)
	if err != nil {
		return err
	}

	return server.ListenAndServe(ctx)
}
