package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	enginev1 "github.com/Simon666Z/quantforge/internal/backtest/engine/engine_v1"
	"github.com/Simon666Z/quantforge/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/Simon666Z/quantforge/internal/strategy"
	"github.com/Simon666Z/quantforge/internal/types"
	"github.com/Simon666Z/quantforge/pkg/marketdata"
)

const (
	schemaName       = "backtest-engine-v1-config.json"
	sampleConfigName = "backtest-engine-v1-config.yaml"
)

// sampleConfig is the part of the engine configuration written to the sample YAML.
type sampleConfig struct {
	InitialCapital   float64               `yaml:"initial_capital"`
	Fees             float64               `yaml:"fees"`
	Slippage         float64               `yaml:"slippage"`
	Broker           commission_fee.Broker `yaml:"broker"`
	SizePercent      float64               `yaml:"size_percent"`
	Accumulate       bool                  `yaml:"accumulate"`
	DecimalPrecision int                   `yaml:"decimal_precision"`
}

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Write the engine config JSON schema and a sample config, or print other schemas",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Directory for the schema and sample config",
				Value:   "config",
			},
			&cli.BoolFlag{
				Name:  "strategies",
				Usage: "Print the strategy catalog as JSON",
			},
			&cli.StringFlag{
				Name:  "strategy",
				Usage: "Print the parameter schema of a strategy",
			},
			&cli.StringFlag{
				Name:  "provider",
				Usage: "Print the download config schema of a market data provider",
			},
		},
		Action: schemaAction,
	}
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	out := cmd.Root().Writer

	if cmd.Bool("strategies") {
		data, err := json.MarshalIndent(strategy.Catalog(), "", "  ")
		if err != nil {
			return err
		}

		fmt.Fprintln(out, string(data))

		return nil
	}

	if name := cmd.String("strategy"); name != "" {
		schema, err := strategy.ParamsSchema(types.StrategyType(strings.ToUpper(name)))
		if err != nil {
			return err
		}

		fmt.Fprintln(out, schema)

		return nil
	}

	if name := cmd.String("provider"); name != "" {
		schema, err := marketdata.GetDownloadConfigSchema(name)
		if err != nil {
			return err
		}

		fmt.Fprintln(out, schema)

		return nil
	}

	schemaPath, samplePath, err := writeSchema(cmd.String("output"))
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Schema written to %s\n", schemaPath)

	if samplePath != "" {
		fmt.Fprintf(out, "Sample config written to %s\n", samplePath)
	}

	return nil
}

// writeSchema writes the JSON schema into dir, plus a sample config when none exists yet.
// samplePath is empty when the sample was kept.
func writeSchema(dir string) (schemaPath string, samplePath string, err error) {
	config := enginev1.DefaultConfig()

	schemaJSON, err := config.GenerateSchemaJSON()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate schema: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create directory: %w", err)
	}

	schemaPath = filepath.Join(dir, schemaName)
	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0644); err != nil {
		return "", "", fmt.Errorf("failed to write schema: %w", err)
	}

	path := filepath.Join(dir, sampleConfigName)
	if _, err := os.Stat(path); err == nil {
		return schemaPath, "", nil
	}

	yamlBytes, err := yaml.Marshal(sampleConfig{
		InitialCapital:   config.InitialCapital,
		Fees:             config.Fees,
		Slippage:         config.Slippage,
		Broker:           config.Broker,
		SizePercent:      config.SizePercent,
		Accumulate:       config.Accumulate,
		DecimalPrecision: config.DecimalPrecision,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal sample config: %w", err)
	}

	yamlBytes = append([]byte("# yaml-language-server: $schema="+schemaName+"\n"), yamlBytes...)
	if err := os.WriteFile(path, yamlBytes, 0644); err != nil {
		return "", "", fmt.Errorf("failed to write sample config: %w", err)
	}

	return schemaPath, path, nil
}
