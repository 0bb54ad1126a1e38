package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Metrics is the aggregate performance of a run. Percent fields are already multiplied by 100.
type Metrics struct {
	// Return of the final equity over the starting equity, in percent.
	TotalReturn    float64 `yaml:"total_return" json:"totalReturn"`
	FinalCapital   float64 `yaml:"final_capital" json:"finalCapital"`
	InitialCapital float64 `yaml:"initial_capital" json:"initialCapital"`
	// Largest peak-to-trough decline of equity, in percent. Always >= 0.
	MaxDrawdown float64 `yaml:"max_drawdown" json:"maxDrawdown"`
	// Share of closed round trips with positive realized P&L, in percent.
	WinRate float64 `yaml:"win_rate" json:"winRate"`
	// Number of orders, not round trips.
	TradeCount  int     `yaml:"trade_count" json:"tradeCount"`
	SharpeRatio float64 `yaml:"sharpe_ratio" json:"sharpeRatio"`
}

// LedgerEntry is one human readable order record.
type LedgerEntry struct {
	Date   string       `yaml:"date" json:"date"`
	Type   PurchaseType `yaml:"type" json:"type"`
	Price  float64      `yaml:"price" json:"price"`
	Reason string       `yaml:"reason" json:"reason"`
}

// BacktestResult is everything a single engine run produces. All series are aligned with the
// input BarSeries.
type BacktestResult struct {
	ID            string            `yaml:"id" json:"id"`
	EngineVersion string            `yaml:"engine_version,omitempty" json:"engineVersion,omitempty"`
	Symbol        string            `yaml:"symbol" json:"symbol"`
	Strategy      StrategyType      `yaml:"strategy" json:"strategy"`
	Outcome       Outcome           `yaml:"outcome" json:"outcome"`
	FlatReason    string            `yaml:"flat_reason,omitempty" json:"flatReason,omitempty"`
	Indicators    map[string]Series `yaml:"-" json:"indicators"`
	Entries       []bool            `yaml:"-" json:"entries"`
	Exits         []bool            `yaml:"-" json:"exits"`
	Metrics       Metrics           `yaml:"metrics" json:"metrics"`
	Trades        []LedgerEntry     `yaml:"trades" json:"trades"`
	Times         []time.Time       `yaml:"-" json:"times"`
	Equity        []float64         `yaml:"-" json:"equity"`
	Orders        []Order           `yaml:"orders" json:"orders"`
	RoundTrips    []RoundTrip       `yaml:"round_trips" json:"roundTrips"`
}

// WriteBacktestResult writes the summary part of a result (metrics, ledger, orders) as YAML.
func WriteBacktestResult(path string, result BacktestResult) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest result to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backtest result to file: %w", err)
	}

	return nil
}

// ReadBacktestResult reads a file written by WriteBacktestResult.
func ReadBacktestResult(path string) (BacktestResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BacktestResult{}, fmt.Errorf("failed to read backtest result: %w", err)
	}

	var result BacktestResult
	if err := yaml.Unmarshal(data, &result); err != nil {
		return BacktestResult{}, fmt.Errorf("failed to unmarshal backtest result: %w", err)
	}

	return result, nil
}
