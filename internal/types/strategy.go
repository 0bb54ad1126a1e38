package types

// StrategyType identifies one of the built-in signal generators.
type StrategyType string

const (
	StrategyTypeSMACrossover     StrategyType = "SMA_CROSSOVER"
	StrategyTypeEMACrossover     StrategyType = "EMA_CROSSOVER"
	StrategyTypeRSIReversal      StrategyType = "RSI_REVERSAL"
	StrategyTypeBollingerBands   StrategyType = "BOLLINGER_BANDS"
	StrategyTypeMACD             StrategyType = "MACD"
	StrategyTypeMomentum         StrategyType = "MOMENTUM"
	StrategyTypeTrendRSI         StrategyType = "TREND_RSI"
	StrategyTypeVolatilityFilter StrategyType = "VOLATILITY_FILTER"
	StrategyTypeTurtle           StrategyType = "TURTLE"
	StrategyTypeKeltner          StrategyType = "KELTNER"
)

// AllStrategyTypes lists every built-in strategy in display order.
var AllStrategyTypes = []StrategyType{
	StrategyTypeSMACrossover,
	StrategyTypeEMACrossover,
	StrategyTypeRSIReversal,
	StrategyTypeBollingerBands,
	StrategyTypeMACD,
	StrategyTypeMomentum,
	StrategyTypeTrendRSI,
	StrategyTypeVolatilityFilter,
	StrategyTypeTurtle,
	StrategyTypeKeltner,
}

// IsKnown reports whether s is one of the built-in strategies.
func (s StrategyType) IsKnown() bool {
	for _, known := range AllStrategyTypes {
		if s == known {
			return true
		}
	}

	return false
}

// Outcome tells whether a strategy evaluation produced signals or degraded to flat.
type Outcome string

const (
	// OutcomeSignals means the strategy was evaluated. The signals may still be all false.
	OutcomeSignals Outcome = "signals"
	// OutcomeFlat means the strategy could not be evaluated and no orders will be placed.
	OutcomeFlat Outcome = "flat"
)
