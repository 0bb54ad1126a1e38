package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	enginev1 "github.com/Simon666Z/quantforge/internal/backtest/engine/engine_v1"
	"github.com/Simon666Z/quantforge/internal/types"
	"github.com/Simon666Z/quantforge/pkg/errors"
)

func backtestCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:     "ticker",
			Aliases:  []string{"t"},
			Usage:    "Ticker symbol",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Directory to write the result YAML to",
		},
	}

	flags = slices.Concat(flags, sourceFlags(), strategyFlags(), dateRangeFlags())

	return &cli.Command{
		Name:   "backtest",
		Usage:  "Run one strategy on one ticker",
		Flags:  flags,
		Action: backtestAction,
	}
}

func backtestAction(ctx context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	config, err := loadEngineConfig(cmd)
	if err != nil {
		return err
	}

	strategyType, params, err := parseStrategy(cmd)
	if err != nil {
		return err
	}

	start, end, err := dateRange(cmd)
	if err != nil {
		return err
	}

	source, closeSource, err := openSource(cmd, log)
	if err != nil {
		return err
	}
	defer closeSource()

	engine, err := enginev1.NewBacktestEngineV1(config, log)
	if err != nil {
		return err
	}

	bars, err := source.Fetch(ctx, cmd.String("ticker"), start, end)
	if err != nil {
		return err
	}

	result, err := engine.Run(bars, strategyType, params)
	if err != nil {
		return err
	}

	result.ID = uuid.New().String()

	fmt.Fprint(cmd.Root().Writer, renderResult(result))

	if output := cmd.String("output"); output != "" {
		path, err := writeResult(output, result, config)
		if err != nil {
			return err
		}

		log.Info("Backtest result written", zap.String("path", path))
		fmt.Fprintf(cmd.Root().Writer, "Result written to %s\n", path)
	}

	return nil
}

// writeResult stores result as <root>/<strategy>/<symbol>[/<window>]/<id>.yaml.
func writeResult(root string, result types.BacktestResult, config enginev1.BacktestEngineV1Config) (string, error) {
	folder := enginev1.GetResultFolder(root, result.Symbol, result.Strategy, config)
	if err := os.MkdirAll(folder, 0755); err != nil {
		return "", errors.Wrapf(errors.ErrCodeInvalidParameter, err, "failed to create result folder %s", folder)
	}

	path := filepath.Join(folder, result.ID+".yaml")
	if err := types.WriteBacktestResult(path, result); err != nil {
		return "", err
	}

	return path, nil
}
