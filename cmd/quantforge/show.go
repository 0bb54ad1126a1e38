package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/Simon666Z/quantforge/internal/types"
	"github.com/Simon666Z/quantforge/internal/version"
)

func showCommand() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Print a backtest result written by backtest --output",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "result",
				Aliases:  []string{"r"},
				Usage:    "Path to the result YAML",
				Required: true,
			},
		},
		Action: showAction,
	}
}

func showAction(_ context.Context, cmd *cli.Command) error {
	result, err := types.ReadBacktestResult(cmd.String("result"))
	if err != nil {
		return err
	}

	if err := version.CheckResultCompatibility(version.GetVersion(), result.EngineVersion); err != nil {
		return err
	}

	fmt.Fprint(cmd.Root().Writer, renderResult(result))

	return nil
}
