package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	enginev1 "github.com/Simon666Z/quantforge/internal/backtest/engine/engine_v1"
	"github.com/Simon666Z/quantforge/internal/scan"
	"github.com/Simon666Z/quantforge/internal/strategy"
	"github.com/Simon666Z/quantforge/internal/types"
	"github.com/Simon666Z/quantforge/internal/version"
	"github.com/Simon666Z/quantforge/pkg/errors"
)

type CLITestSuite struct {
	suite.Suite
	dir string
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLITestSuite))
}

func (suite *CLITestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
}

func (suite *CLITestSuite) run(args ...string) (string, error) {
	var out bytes.Buffer

	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out

	err := app.Run(context.Background(), append([]string{"quantforge", "--log-level", "error"}, args...))

	return out.String(), err
}

// writeCSV writes daily bars for symbol starting 2024-01-01.
func (suite *CLITestSuite) writeCSV(symbol string, closes []float64) string {
	var b bytes.Buffer
	b.WriteString("time,symbol,open,high,low,close,volume\n")

	for i, c := range closes {
		fmt.Fprintf(&b, "2024-01-%02d 00:00:00,%s,%v,%v,%v,%v,1000\n", i+1, symbol, c, c, c, c)
	}

	path := filepath.Join(suite.dir, symbol+".csv")
	suite.Require().NoError(os.WriteFile(path, b.Bytes(), 0644))

	return path
}

func (suite *CLITestSuite) TestParseParams() {
	tests := []struct {
		name     string
		pairs    []string
		expected strategy.Params
		code     errors.ErrorCode
	}{
		{"empty", nil, strategy.Params{}, 0},
		{"numbers", []string{"shortWindow=5", " longWindow = 30 "}, strategy.Params{"shortWindow": 5, "longWindow": 30}, 0},
		{"fraction", []string{"bbStdDev=2.5"}, strategy.Params{"bbStdDev": 2.5}, 0},
		{"missing equals", []string{"shortWindow"}, nil, errors.ErrCodeInvalidParameter},
		{"missing key", []string{"=5"}, nil, errors.ErrCodeInvalidParameter},
		{"not a number", []string{"shortWindow=fast"}, nil, errors.ErrCodeInvalidParameter},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			params, err := parseParams(tt.pairs)
			if tt.code != 0 {
				suite.True(errors.HasCode(err, tt.code))

				return
			}

			suite.Require().NoError(err)
			suite.Equal(tt.expected, params)
		})
	}
}

func (suite *CLITestSuite) TestSplitTickers() {
	suite.Equal([]string{"AAPL", "MSFT", "TSLA"}, splitTickers([]string{"aapl, msft", "", "TSLA"}))
	suite.Nil(splitTickers(nil))
}

func (suite *CLITestSuite) TestBacktestWritesResult() {
	data := suite.writeCSV("AAPL", []float64{10, 9, 8, 7, 6, 10, 11, 12})
	output := filepath.Join(suite.dir, "results")

	out, err := suite.run("backtest",
		"--data", data,
		"--ticker", "AAPL",
		"--strategy", "sma_crossover",
		"--param", "shortWindow=2",
		"--param", "longWindow=3",
		"--start", "2024-01-01",
		"--end", "2024-01-31",
		"--output", output,
	)
	suite.Require().NoError(err, out)
	suite.Contains(out, "SMA_CROSSOVER on AAPL")
	suite.Contains(out, "Result written to")

	files, err := filepath.Glob(filepath.Join(output, "SMA_CROSSOVER", "AAPL", "*.yaml"))
	suite.Require().NoError(err)
	suite.Require().Len(files, 1)

	result, err := types.ReadBacktestResult(files[0])
	suite.Require().NoError(err)
	suite.Equal("AAPL", result.Symbol)
	suite.Equal(types.OutcomeSignals, result.Outcome)
	suite.NotEmpty(result.Orders)
	suite.Equal(version.GetVersion(), result.EngineVersion)

	out, err = suite.run("show", "--result", files[0])
	suite.Require().NoError(err)
	suite.Contains(out, "SMA_CROSSOVER on AAPL")
}

func (suite *CLITestSuite) TestShowRejectsIncompatibleResult() {
	path := filepath.Join(suite.dir, "old.yaml")
	suite.Require().NoError(types.WriteBacktestResult(path, types.BacktestResult{
		ID:            "old",
		EngineVersion: "1.0.0",
		Symbol:        "AAPL",
		Strategy:      types.StrategyTypeMACD,
		Outcome:       types.OutcomeFlat,
	}))

	previous := version.Version
	version.Version = "2.0.0"
	defer func() { version.Version = previous }()

	_, err := suite.run("show", "--result", path)
	suite.True(errors.HasCode(err, errors.ErrCodeIncompatibleResult))
}

func (suite *CLITestSuite) TestBacktestRejectsBadInput() {
	data := suite.writeCSV("AAPL", []float64{10, 11, 12})

	_, err := suite.run("backtest", "--data", data, "--ticker", "AAPL", "--strategy", "MACD",
		"--param", "macdFast", "--start", "2024-01-01")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

	_, err = suite.run("backtest", "--data", data, "--ticker", "AAPL", "--strategy", "MACD",
		"--start", "2024-01-05", "--end", "2024-01-01")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

	_, err = suite.run("backtest", "--provider", "binance", "--ticker", "AAPL", "--strategy", "MACD",
		"--start", "2024-01-01")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidProvider))

	_, err = suite.run("backtest", "--data", data, "--ticker", "MSFT", "--strategy", "MACD",
		"--start", "2024-01-01")
	suite.True(errors.HasCode(err, errors.ErrCodeNoDataFound))
}

func (suite *CLITestSuite) TestBacktestUsesConfigFile() {
	data := suite.writeCSV("AAPL", []float64{10, 11, 12})
	config := filepath.Join(suite.dir, "config.yaml")
	suite.Require().NoError(os.WriteFile(config, []byte("initial_capital: 2500\n"), 0644))

	out, err := suite.run("backtest", "--data", data, "--ticker", "AAPL", "--strategy", "RSI_REVERSAL",
		"--config", config, "--start", "2024-01-01")
	suite.Require().NoError(err, out)
	suite.Contains(out, "2500.00")

	suite.Require().NoError(os.WriteFile(config, []byte("fees: 2\n"), 0644))
	_, err = suite.run("backtest", "--data", data, "--ticker", "AAPL", "--strategy", "RSI_REVERSAL",
		"--config", config, "--start", "2024-01-01")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *CLITestSuite) TestScan() {
	suite.writeCSV("AAPL", []float64{10, 9, 8, 7, 6, 10})
	suite.writeCSV("MSFT", []float64{10, 10, 10, 10, 10, 10})

	out, err := suite.run("scan",
		"--data", filepath.Join(suite.dir, "*.csv"),
		"--tickers", "AAPL,MSFT,TSLA",
		"--strategy", "SMA_CROSSOVER",
		"--param", "shortWindow=2",
		"--param", "longWindow=3",
		"--start", "2024-01-01",
		"--end", "2024-01-06",
	)
	suite.Require().NoError(err, out)
	suite.Contains(out, "AAPL")
	suite.Contains(out, "BUY")
	suite.Contains(out, "MSFT")
	suite.Contains(out, "TSLA")
}

func (suite *CLITestSuite) TestStressList() {
	out, err := suite.run("stress", "--list")
	suite.Require().NoError(err)

	for _, s := range scan.Scenarios() {
		suite.Contains(out, s.Name)
	}

	_, err = suite.run("stress", "--ticker", "SPY")
	suite.Error(err)
}

func (suite *CLITestSuite) TestCodegen() {
	out, err := suite.run("codegen", "--ticker", "AAPL", "--strategy", "RSI_REVERSAL", "--param", "rsiPeriod=21")
	suite.Require().NoError(err)
	suite.Contains(out, "21")

	path := filepath.Join(suite.dir, "strategy.py")
	_, err = suite.run("codegen", "--framework", "backtrader", "--ticker", "AAPL", "--strategy", "SMA_CROSSOVER", "--output", path)
	suite.Require().NoError(err)

	content, err := os.ReadFile(path)
	suite.Require().NoError(err)
	suite.Contains(string(content), "AAPL")
}

func (suite *CLITestSuite) TestSchemaWritesSchemaAndSample() {
	dir := filepath.Join(suite.dir, "config")

	out, err := suite.run("schema", "--output", dir)
	suite.Require().NoError(err)
	suite.Contains(out, "Sample config written")

	schema, err := os.ReadFile(filepath.Join(dir, schemaName))
	suite.Require().NoError(err)
	suite.Contains(string(schema), "initial_capital")

	sample, err := os.ReadFile(filepath.Join(dir, sampleConfigName))
	suite.Require().NoError(err)

	config, err := enginev1.LoadConfig(sample)
	suite.Require().NoError(err)
	suite.Equal(enginev1.DefaultConfig(), config)

	out, err = suite.run("schema", "--output", dir)
	suite.Require().NoError(err)
	suite.NotContains(out, "Sample config written")
}

func (suite *CLITestSuite) TestSchemaPrintsCatalogAndProviderSchema() {
	out, err := suite.run("schema", "--strategies")
	suite.Require().NoError(err)
	suite.Contains(out, "KELTNER")

	out, err = suite.run("schema", "--strategy", "turtle")
	suite.Require().NoError(err)
	suite.Contains(out, "turtleEntry")

	out, err = suite.run("schema", "--provider", "polygon")
	suite.Require().NoError(err)
	suite.Contains(out, "apiKey")

	_, err = suite.run("schema", "--provider", "binance")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidProvider))
}

func (suite *CLITestSuite) TestDownloadFromFile() {
	source := suite.writeCSV("IBM", []float64{190, 191, 192})
	output := filepath.Join(suite.dir, "out")

	out, err := suite.run("download",
		"--provider", "file",
		"--source", source,
		"--ticker", "IBM",
		"--start", "2024-01-01",
		"--end", "2024-01-31",
		"--output", output,
	)
	suite.Require().NoError(err, out)
	suite.FileExists(filepath.Join(output, "IBM_2024-01-01_2024-01-31.parquet"))
}

func (suite *CLITestSuite) TestDownloadRejectsInvalidConfig() {
	_, err := suite.run("download", "--provider", "file", "--ticker", "IBM", "--start", "2024-01-01", "--end", "2024-01-31")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	_, err = suite.run("download", "--provider", "binance", "--ticker", "IBM", "--start", "2024-01-01", "--end", "2024-01-31")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidProvider))
}

func (suite *CLITestSuite) TestRenderUnitsShowsFailures() {
	out := renderUnits("screen", []scan.UnitResult{
		{Ticker: "AAPL", Outcome: types.OutcomeSignals, EntrySignal: true, Bars: 10},
		{Ticker: "MSFT", Error: "no bars for MSFT"},
	})

	suite.Contains(out, "AAPL")
	suite.Contains(out, "BUY")
	suite.Contains(out, "no bars for MSFT")
}

func (suite *CLITestSuite) TestRenderResultSummarizesRoundTrips() {
	out := renderResult(types.BacktestResult{
		ID:       "run",
		Symbol:   "AAPL",
		Strategy: types.StrategyTypeMACD,
		Outcome:  types.OutcomeSignals,
		Orders: []types.Order{
			{Side: types.PurchaseTypeBuy, Price: 100, Quantity: 10},
			{Side: types.PurchaseTypeSell, Price: 110, Quantity: 10},
			{Side: types.PurchaseTypeBuy, Price: 50, Quantity: 2},
			{Side: types.PurchaseTypeSell, Price: 50, Quantity: 2},
		},
		RoundTrips: []types.RoundTrip{
			{EntryIndex: 1, ExitIndex: 4},
			{EntryIndex: 6, ExitIndex: 12},
		},
	})

	suite.Contains(out, "2300.00")
	suite.Contains(out, "Round trips")
	suite.Contains(out, "4.5 bars")
}

func (suite *CLITestSuite) TestFillSecrets() {
	config := `{"ticker":"IBM","startDate":"2024-01-01","endDate":"2024-01-31"}`

	filled, err := fillSecrets("polygon", config, map[string]string{"apiKey": "from-env"})
	suite.Require().NoError(err)
	suite.Contains(filled, `"apiKey":"from-env"`)

	kept, err := fillSecrets("polygon", `{"apiKey":"in-file"}`, map[string]string{"apiKey": "from-env"})
	suite.Require().NoError(err)
	suite.Equal(`{"apiKey":"in-file"}`, kept)

	unchanged, err := fillSecrets("file", config, map[string]string{"apiKey": "from-env"})
	suite.Require().NoError(err)
	suite.Equal(config, unchanged)

	_, err = fillSecrets("binance", config, nil)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidProvider))
}
