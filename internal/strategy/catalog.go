package strategy

import "github.com/Simon666Z/quantforge/internal/types"

// CatalogEntry describes a built-in strategy for listings.
type CatalogEntry struct {
	ID          types.StrategyType    `json:"id" yaml:"id"`
	Name        string                `json:"name" yaml:"name"`
	Description string                `json:"description" yaml:"description"`
	Defaults    Params                `json:"defaults" yaml:"defaults"`
	Indicators  []types.IndicatorType `json:"indicators" yaml:"indicators"`

	params any
}

// Catalog lists every built-in strategy with its default parameters.
func Catalog() []CatalogEntry {
	entries := make([]CatalogEntry, 0, len(types.AllStrategyTypes))
	for _, t := range types.AllStrategyTypes {
		entry, _ := Describe(t)
		entries = append(entries, entry)
	}

	return entries
}

// Describe returns the catalog entry of one strategy. ok is false for unknown ids.
func Describe(strategy types.StrategyType) (CatalogEntry, bool) {
	switch strategy {
	case types.StrategyTypeSMACrossover:
		return entry(strategy, "SMA Crossover", "Buy when the short SMA crosses above the long SMA, sell on the cross back down.",
			DefaultCrossoverParams(), types.IndicatorTypeSMA), true
	case types.StrategyTypeEMACrossover:
		return entry(strategy, "EMA Crossover", "Buy when the short EMA crosses above the long EMA, sell on the cross back down.",
			DefaultCrossoverParams(), types.IndicatorTypeEMA), true
	case types.StrategyTypeRSIReversal:
		return entry(strategy, "RSI Reversal", "Buy when RSI drops below the oversold level, sell when it rises above the overbought level.",
			DefaultRSIReversalParams(), types.IndicatorTypeRSI), true
	case types.StrategyTypeBollingerBands:
		return entry(strategy, "Bollinger Bands", "Buy while the close is under the lower band, sell while it is over the upper band.",
			DefaultBollingerParams(), types.IndicatorTypeBollingerBands), true
	case types.StrategyTypeMACD:
		return entry(strategy, "MACD", "Buy when the MACD line crosses above its signal line, sell on the cross back down.",
			DefaultMACDParams(), types.IndicatorTypeMACD), true
	case types.StrategyTypeMomentum:
		return entry(strategy, "Momentum", "Buy when the rate of change turns positive, sell when it turns negative.",
			DefaultMomentumParams(), types.IndicatorTypeROC), true
	case types.StrategyTypeTrendRSI:
		return entry(strategy, "Trend RSI", "Buy oversold RSI dips above the trend MA, sell on overbought RSI or a close under the MA.",
			DefaultTrendRSIParams(), types.IndicatorTypeSMA, types.IndicatorTypeRSI), true
	case types.StrategyTypeVolatilityFilter:
		return entry(strategy, "Volatility Filter", "Take fast/slow SMA crosses only while ADX is above the threshold.",
			DefaultVolatilityFilterParams(), types.IndicatorTypeSMA, types.IndicatorTypeADX), true
	case types.StrategyTypeTurtle:
		return entry(strategy, "Turtle", "Buy a close above the prior entry-window high, sell a close below the prior exit-window low.",
			DefaultTurtleParams(), types.IndicatorTypeDonchian), true
	case types.StrategyTypeKeltner:
		return entry(strategy, "Keltner Channel", "Buy a close above the upper Keltner band, sell a close below the middle line.",
			DefaultKeltnerParams(), types.IndicatorTypeKeltner, types.IndicatorTypeEMA, types.IndicatorTypeATR), true
	default:
		return CatalogEntry{}, false
	}
}

// DefaultParams returns the default parameters of a strategy.
func DefaultParams(strategy types.StrategyType) (Params, bool) {
	e, ok := Describe(strategy)

	return e.Defaults, ok
}

func entry(id types.StrategyType, name, description string, defaults any, indicators ...types.IndicatorType) CatalogEntry {
	return CatalogEntry{
		ID:          id,
		Name:        name,
		Description: description,
		Defaults:    toParams(defaults),
		Indicators:  indicators,
		params:      defaults,
	}
}
