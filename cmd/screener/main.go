package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	enginev1 "github.com/Simon666Z/quantforge/internal/backtest/engine/engine_v1"
	"github.com/Simon666Z/quantforge/internal/logger"
	"github.com/Simon666Z/quantforge/internal/scan"
	"github.com/Simon666Z/quantforge/internal/types"
	"github.com/Simon666Z/quantforge/pkg/marketdata/provider"
)

func screenerAction(ctx context.Context, cmd *cli.Command) error {
	// the TUI owns the terminal, so logs are discarded
	log := logger.NewNopLogger()

	source, err := provider.NewDuckDBSource(cmd.String("data"), log)
	if err != nil {
		return err
	}
	defer source.Close()

	runner, err := scan.NewRunner(source, enginev1.DefaultConfig(), log, scan.WithConcurrency(cmd.Int("concurrency")))
	if err != nil {
		return err
	}

	end := types.DateOf(cmd.Timestamp("end"))
	start := end.AddDate(0, 0, -cmd.Int("days"))

	p := tea.NewProgram(NewModel(runner, start, end), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

func main() {
	cmd := &cli.Command{
		Name:  "screener",
		Usage: "Interactively screen tickers from local market data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Parquet or CSV file or glob",
				Value:   "data/*.parquet",
			},
			&cli.TimestampFlag{
				Name:  "end",
				Usage: "Last date in `YYYY-MM-DD` format. Defaults to today.",
				Value: time.Now(),
				Config: cli.TimestampConfig{
					Layouts: []string{types.DateLayout},
				},
			},
			&cli.IntFlag{
				Name:  "days",
				Usage: "Calendar days of history before the end date",
				Value: 365,
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "Maximum number of backtests running at once",
				Value: scan.DefaultConcurrency,
			},
		},
		Action: screenerAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
