package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/Simon666Z/quantforge/internal/scan"
)

func scanCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringSliceFlag{
			Name:     "tickers",
			Aliases:  []string{"t"},
			Usage:    "Tickers to screen, comma separated or repeated",
			Required: true,
		},
		&cli.IntFlag{
			Name:  "concurrency",
			Usage: "Maximum number of backtests running at once",
			Value: scan.DefaultConcurrency,
		},
	}

	flags = slices.Concat(flags, sourceFlags(), strategyFlags(), dateRangeFlags())

	return &cli.Command{
		Name:   "scan",
		Usage:  "Screen many tickers with one strategy and report the latest signals",
		Flags:  flags,
		Action: scanAction,
	}
}

func scanAction(ctx context.Context, cmd *cli.Command) error {
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

	tickers := splitTickers(cmd.StringSlice("tickers"))
	bar := progressbar.Default(int64(len(tickers)), "Screening")

	runner, err := scan.NewRunner(source, config, log,
		scan.WithConcurrency(cmd.Int("concurrency")),
		scan.WithProgress(func(done int, _ int) { _ = bar.Set(done) }),
	)
	if err != nil {
		return err
	}

	results, err := runner.Screen(ctx, scan.ScreenRequest{
		Tickers:  tickers,
		Start:    start,
		End:      end,
		Strategy: strategyType,
		Params:   params,
	})
	_ = bar.Finish()

	if err != nil {
		return err
	}

	fmt.Fprint(cmd.Root().Writer, renderUnits(fmt.Sprintf("%s screen", strategyType), results))

	return nil
}

func stressCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "ticker",
			Aliases: []string{"t"},
			Usage:   "Ticker symbol",
		},
		&cli.StringSliceFlag{
			Name:  "scenario",
			Usage: "Scenario name, repeatable. Defaults to every scenario",
		},
		&cli.IntFlag{
			Name:  "warmup",
			Usage: "Days of history fetched before each scenario",
			Value: scan.DefaultWarmupDays,
		},
		&cli.BoolFlag{
			Name:  "list",
			Usage: "List the scenarios and exit",
		},
	}

	strategyOpts := strategyFlags()
	// --list works without a strategy
	strategyOpts[0].(*cli.StringFlag).Required = false

	flags = slices.Concat(flags, sourceFlags(), strategyOpts)

	return &cli.Command{
		Name:   "stress",
		Usage:  "Backtest one ticker over historical crash windows",
		Flags:  flags,
		Action: stressAction,
	}
}

func stressAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("list") {
		for _, s := range scan.Scenarios() {
			fmt.Fprintf(cmd.Root().Writer, "%-18s %s .. %s  %s\n", s.Name,
				s.Start.Format("2006-01-02"), s.End.Format("2006-01-02"), s.Description)
		}

		return nil
	}

	if cmd.String("ticker") == "" || cmd.String("strategy") == "" {
		return fmt.Errorf("--ticker and --strategy are required")
	}

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

	scenarios := cmd.StringSlice("scenario")
	if len(scenarios) == 0 {
		for _, s := range scan.Scenarios() {
			scenarios = append(scenarios, s.Name)
		}
	}

	source, closeSource, err := openSource(cmd, log)
	if err != nil {
		return err
	}
	defer closeSource()

	runner, err := scan.NewRunner(source, config, log)
	if err != nil {
		return err
	}

	results, err := runner.StressTest(ctx, scan.StressRequest{
		Ticker:     cmd.String("ticker"),
		Scenarios:  scenarios,
		Strategy:   strategyType,
		Params:     params,
		WarmupDays: cmd.Int("warmup"),
	})
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.Root().Writer, renderUnits(fmt.Sprintf("%s stress test on %s", strategyType, cmd.String("ticker")), results))

	return nil
}

// splitTickers accepts both repeated flags and comma separated values.
func splitTickers(values []string) []string {
	var tickers []string

	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if ticker := strings.ToUpper(strings.TrimSpace(part)); ticker != "" {
				tickers = append(tickers, ticker)
			}
		}
	}

	return tickers
}
