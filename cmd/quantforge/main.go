package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/Simon666Z/quantforge/internal/logger"
	"github.com/Simon666Z/quantforge/internal/version"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "quantforge",
		Usage:   "Backtest technical trading strategies on daily bars",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: "warn",
			},
		},
		Commands: []*cli.Command{
			backtestCommand(),
			showCommand(),
			downloadCommand(),
			scanCommand(),
			stressCommand(),
			codegenCommand(),
			schemaCommand(),
			serveCommand(),
		},
	}
}

func newLogger(cmd *cli.Command) (*logger.Logger, error) {
	log, err := logger.NewLoggerWithLevel(cmd.String("log-level"))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		stop()
		os.Exit(1)
	}
}
