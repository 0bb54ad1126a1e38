package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	enginev1 "github.com/Simon666Z/quantforge/internal/backtest/engine/engine_v1"
	"github.com/Simon666Z/quantforge/internal/logger"
	"github.com/Simon666Z/quantforge/internal/strategy"
	"github.com/Simon666Z/quantforge/internal/types"
	"github.com/Simon666Z/quantforge/pkg/errors"
	"github.com/Simon666Z/quantforge/pkg/marketdata"
	"github.com/Simon666Z/quantforge/pkg/marketdata/provider"
)

func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "provider",
			Aliases: []string{"p"},
			Usage:   fmt.Sprintf("Market data provider (%s, %s)", provider.ProviderFile, provider.ProviderPolygon),
			Value:   string(provider.ProviderFile),
		},
		&cli.StringFlag{
			Name:    "data",
			Aliases: []string{"d"},
			Usage:   "Parquet or CSV file or glob for the file provider",
			Value:   "data/*.parquet",
		},
		&cli.StringFlag{
			Name:    "polygon-api-key",
			Usage:   "Polygon API key for the polygon provider",
			Sources: cli.EnvVars("POLYGON_API_KEY"),
		},
	}
}

func strategyFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "strategy",
			Aliases:  []string{"s"},
			Usage:    "Strategy id, run quantforge schema --strategies for the list",
			Required: true,
		},
		&cli.StringSliceFlag{
			Name:  "param",
			Usage: "Strategy parameter as `key=value`, repeatable",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a backtest engine YAML configuration",
		},
	}
}

func dateRangeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.TimestampFlag{
			Name:     "start",
			Usage:    "First date in `YYYY-MM-DD` format",
			Required: true,
			Config: cli.TimestampConfig{
				Layouts: []string{types.DateLayout},
			},
		},
		&cli.TimestampFlag{
			Name:  "end",
			Usage: "Last date in `YYYY-MM-DD` format. Defaults to today.",
			Value: time.Now(),
			Config: cli.TimestampConfig{
				Layouts: []string{types.DateLayout},
			},
		},
	}
}

// openSource builds the market data source selected by the provider flags.
// The returned close function is never nil.
func openSource(cmd *cli.Command, log *logger.Logger) (marketdata.Source, func(), error) {
	providerType := provider.ProviderType(cmd.String("provider"))

	var config string

	switch providerType {
	case provider.ProviderFile:
		config = cmd.String("data")
	case provider.ProviderPolygon:
		config = cmd.String("polygon-api-key")
	default:
		return nil, func() {}, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerType)
	}

	source, err := provider.NewMarketDataProvider(providerType, config, log)
	if err != nil {
		return nil, func() {}, err
	}

	closeFn := func() {}
	if closer, ok := source.(io.Closer); ok {
		closeFn = func() { _ = closer.Close() }
	}

	return source, closeFn, nil
}

// loadEngineConfig reads the --config file, falling back to the defaults.
func loadEngineConfig(cmd *cli.Command) (enginev1.BacktestEngineV1Config, error) {
	path := cmd.String("config")
	if path == "" {
		return enginev1.DefaultConfig(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return enginev1.BacktestEngineV1Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
	}

	config, err := enginev1.LoadConfig(content)
	if err != nil {
		return enginev1.BacktestEngineV1Config{}, err
	}

	if err := config.Validate(); err != nil {
		return enginev1.BacktestEngineV1Config{}, err
	}

	return config, nil
}

// parseParams turns key=value pairs into strategy params.
func parseParams(pairs []string) (strategy.Params, error) {
	params := strategy.Params{}

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)

		if !ok || key == "" {
			return nil, errors.Newf(errors.ErrCodeInvalidParameter, "param %q must look like key=value", pair)
		}

		number, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "param %s must be a number", key)
		}

		params[key] = number
	}

	return params, nil
}

func parseStrategy(cmd *cli.Command) (types.StrategyType, strategy.Params, error) {
	params, err := parseParams(cmd.StringSlice("param"))
	if err != nil {
		return "", nil, err
	}

	return types.StrategyType(strings.ToUpper(cmd.String("strategy"))), params, nil
}

func dateRange(cmd *cli.Command) (time.Time, time.Time, error) {
	start := types.DateOf(cmd.Timestamp("start"))
	end := types.DateOf(cmd.Timestamp("end"))

	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.New(errors.ErrCodeInvalidParameter, "end must not be before start")
	}

	return start, end, nil
}
