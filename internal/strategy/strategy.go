// Package strategy turns a strategy id and a parameter map into entry and exit signals.
//
// The set of strategies is closed. Each variant has a typed parameter struct and a pure
// evaluation function. Evaluation never fails: an unknown id or invalid parameters produce a
// Flat result carrying the reason, and missing history simply leaves signals false.
package strategy

import (
	"github.com/Simon666Z/quantforge/internal/types"
	"github.com/Simon666Z/quantforge/pkg/errors"
)

// Params maps parameter names such as "shortWindow" to numeric values.
// Unknown keys are ignored and missing keys fall back to defaults.
type Params map[string]float64

// Result is the outcome of evaluating one strategy over one bar series.
type Result struct {
	Strategy types.StrategyType
	Outcome  types.Outcome
	// Reason explains a Flat outcome. It is nil when Outcome is OutcomeSignals.
	Reason     error
	Signals    types.SignalSet
	Indicators map[string]types.Series
}

// IsFlat reports whether the strategy degraded to no signals.
func (r Result) IsFlat() bool {
	return r.Outcome == types.OutcomeFlat
}

type evaluator[P paramSet] func(bars types.BarSeries, params P) (types.SignalSet, map[string]types.Series)

// Generate evaluates the strategy over bars.
func Generate(bars types.BarSeries, strategy types.StrategyType, params Params) Result {
	switch strategy {
	case types.StrategyTypeSMACrossover:
		return run(bars, strategy, params, DefaultCrossoverParams(), smaCrossover)
	case types.StrategyTypeEMACrossover:
		return run(bars, strategy, params, DefaultCrossoverParams(), emaCrossover)
	case types.StrategyTypeRSIReversal:
		return run(bars, strategy, params, DefaultRSIReversalParams(), rsiReversal)
	case types.StrategyTypeBollingerBands:
		return run(bars, strategy, params, DefaultBollingerParams(), bollingerBands)
	case types.StrategyTypeMACD:
		return run(bars, strategy, params, DefaultMACDParams(), macdCrossover)
	case types.StrategyTypeMomentum:
		return run(bars, strategy, params, DefaultMomentumParams(), momentum)
	case types.StrategyTypeTrendRSI:
		return run(bars, strategy, params, DefaultTrendRSIParams(), trendRSI)
	case types.StrategyTypeVolatilityFilter:
		return run(bars, strategy, params, DefaultVolatilityFilterParams(), volatilityFilter)
	case types.StrategyTypeTurtle:
		return run(bars, strategy, params, DefaultTurtleParams(), turtle)
	case types.StrategyTypeKeltner:
		return run(bars, strategy, params, DefaultKeltnerParams(), keltner)
	default:
		return flat(bars.Len(), strategy, errors.Newf(errors.ErrCodeUnsupportedStrategy, "unsupported strategy %q", strategy))
	}
}

func run[P paramSet](bars types.BarSeries, strategy types.StrategyType, raw Params, defaults P, eval evaluator[P]) Result {
	params, err := decodeParams(raw, defaults)
	if err != nil {
		return flat(bars.Len(), strategy, err)
	}

	signals, indicators := eval(bars, params)
	maskWarmup(signals, params.lookback()-1)

	return Result{
		Strategy:   strategy,
		Outcome:    types.OutcomeSignals,
		Signals:    signals,
		Indicators: indicators,
	}
}

func flat(n int, strategy types.StrategyType, reason error) Result {
	return Result{
		Strategy:   strategy,
		Outcome:    types.OutcomeFlat,
		Reason:     reason,
		Signals:    types.NewSignalSet(n),
		Indicators: map[string]types.Series{},
	}
}

// maskWarmup clears signals on bars before the longest window has filled.
func maskWarmup(signals types.SignalSet, warmup int) {
	for i := 0; i < warmup && i < signals.Len(); i++ {
		signals.Entries[i] = false
		signals.Exits[i] = false
	}
}
