package main

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/Simon666Z/quantforge/pkg/codegen"
)

func codegenCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "framework",
			Aliases: []string{"f"},
			Usage: fmt.Sprintf("Target framework (%s, %s, %s)",
				codegen.FrameworkPseudocode, codegen.FrameworkVectorBT, codegen.FrameworkBacktrader),
			Value: string(codegen.FrameworkPseudocode),
		},
		&cli.StringFlag{
			Name:     "ticker",
			Aliases:  []string{"t"},
			Usage:    "Ticker symbol used by the generated script",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "File to write the code to. Defaults to stdout",
		},
	}

	flags = slices.Concat(flags, strategyFlags())

	return &cli.Command{
		Name:   "codegen",
		Usage:  "Export a strategy as pseudocode or a Python backtesting script",
		Flags:  flags,
		Action: codegenAction,
	}
}

func codegenAction(_ context.Context, cmd *cli.Command) error {
	config, err := loadEngineConfig(cmd)
	if err != nil {
		return err
	}

	strategyType, params, err := parseStrategy(cmd)
	if err != nil {
		return err
	}

	code, err := codegen.Generate(codegen.Framework(cmd.String("framework")), codegen.Request{
		Ticker:         cmd.String("ticker"),
		Strategy:       strategyType,
		Params:         params,
		Fees:           config.Fees,
		Slippage:       config.Slippage,
		InitialCapital: config.InitialCapital,
	})
	if err != nil {
		return err
	}

	output := cmd.String("output")
	if output == "" {
		fmt.Fprint(cmd.Root().Writer, code)

		return nil
	}

	if err := os.WriteFile(output, []byte(code), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	return nil
}
