package engine

import (
	"github.com/Simon666Z/quantforge/internal/strategy"
	"github.com/Simon666Z/quantforge/internal/types"
)

// Engine runs one strategy over one bar series and reports signals, orders and metrics.
//
// A run keeps no state between calls, so one engine may serve concurrent runs as long as each
// call receives its own bars and params.
type Engine interface {
	// Run validates bars, generates signals, simulates orders and builds metrics.
	// Only malformed bars are reported as errors. An unknown strategy or invalid params
	// yield a flat result with no orders.
	Run(bars types.BarSeries, strategy types.StrategyType, params strategy.Params) (types.BacktestResult, error)
	// GetConfigSchema returns the JSON schema of the engine configuration
	GetConfigSchema() (string, error)
}
