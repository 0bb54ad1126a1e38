package codegen

import (
	"text/template"

	"github.com/Simon666Z/quantforge/internal/strategy"
	"github.com/Simon666Z/quantforge/internal/types"
	"github.com/Simon666Z/quantforge/pkg/errors"
)

var pseudocodeTemplates = map[types.StrategyType]*template.Template{
	types.StrategyTypeSMACrossover: mustParse("pseudocode_sma", `LOGIC EXPLANATION:
1. Calculate the short simple moving average (SMA) over {{.P.shortWindow}} days.
2. Calculate the long simple moving average (SMA) over {{.P.longWindow}} days.
3. BUY SIGNAL: the short SMA crosses ABOVE the long SMA (golden cross).
4. SELL SIGNAL: the short SMA crosses BELOW the long SMA (death cross).
5. Orders fill at the NEXT day's open.
`),
	types.StrategyTypeEMACrossover: mustParse("pseudocode_ema", `LOGIC EXPLANATION:
1. Calculate the short exponential moving average (EMA) over {{.P.shortWindow}} days.
2. Calculate the long exponential moving average (EMA) over {{.P.longWindow}} days.
3. BUY SIGNAL: the short EMA crosses ABOVE the long EMA.
4. SELL SIGNAL: the short EMA crosses BELOW the long EMA.
5. Orders fill at the NEXT day's open.
`),
	types.StrategyTypeRSIReversal: mustParse("pseudocode_rsi", `LOGIC EXPLANATION:
1. Calculate the Relative Strength Index (RSI) over {{.P.rsiPeriod}} days.
2. BUY SIGNAL: RSI drops below {{.P.rsiOversold}}.
   -> The asset is considered oversold and might bounce back.
3. SELL SIGNAL: RSI rises above {{.P.rsiOverbought}}.
   -> The asset is considered overbought and might correct.
4. Orders fill at the NEXT day's open.
`),
	types.StrategyTypeBollingerBands: mustParse("pseudocode_bollinger", `LOGIC EXPLANATION:
1. Calculate the {{.P.bbPeriod}}-day SMA of the close and its rolling standard deviation.
2. Upper band = SMA + {{.P.bbStdDev}} x std, lower band = SMA - {{.P.bbStdDev}} x std.
3. BUY SIGNAL: the close is below the lower band.
4. SELL SIGNAL: the close is above the upper band.
5. Orders fill at the NEXT day's open.
`),
	types.StrategyTypeMACD: mustParse("pseudocode_macd", `LOGIC EXPLANATION:
1. MACD line = EMA({{.P.macdFast}}) - EMA({{.P.macdSlow}}) of the close.
2. Signal line = EMA({{.P.macdSignal}}) of the MACD line.
3. BUY SIGNAL: the MACD line crosses ABOVE the signal line.
4. SELL SIGNAL: the MACD line crosses BELOW the signal line.
5. Orders fill at the NEXT day's open.
`),
	types.StrategyTypeMomentum: mustParse("pseudocode_momentum", `LOGIC EXPLANATION:
1. Calculate the {{.P.rocPeriod}}-day rate of change (ROC) of the close.
2. BUY SIGNAL: ROC turns positive.
3. SELL SIGNAL: ROC turns negative.
4. Orders fill at the NEXT day's open.
`),
	types.StrategyTypeTrendRSI: mustParse("pseudocode_trend_rsi", `LOGIC EXPLANATION:
1. Calculate the {{.P.trendMa}}-day SMA as the trend filter.
2. Calculate the Relative Strength Index (RSI) over {{.P.rsiPeriod}} days.
3. BUY SIGNAL: the close is above the trend SMA AND RSI is below {{.P.rsiOversold}}.
   -> Buy dips inside an uptrend.
4. SELL SIGNAL: RSI is above {{.P.rsiOverbought}} OR the close falls below the trend SMA.
5. Orders fill at the NEXT day's open.
`),
	types.StrategyTypeVolatilityFilter: mustParse("pseudocode_volatility", `LOGIC EXPLANATION:
1. Calculate the Average Directional Index (ADX) over {{.P.adxPeriod}} days.
2. Calculate a fast {{.P.fastWindow}}-day SMA and a slow {{.P.slowWindow}}-day SMA.
3. BUY SIGNAL: the fast SMA crosses ABOVE the slow SMA while ADX is above {{.P.adxThreshold}}.
   -> Only trade crosses when a trend is present.
4. SELL SIGNAL: the fast SMA crosses BELOW the slow SMA.
5. Orders fill at the NEXT day's open.
`),
	types.StrategyTypeTurtle: mustParse("pseudocode_turtle", `LOGIC EXPLANATION:
1. Track the highest high of the previous {{.P.turtleEntry}} days.
2. Track the lowest low of the previous {{.P.turtleExit}} days.
3. BUY SIGNAL: the close breaks above the {{.P.turtleEntry}}-day high.
4. SELL SIGNAL: the close breaks below the {{.P.turtleExit}}-day low.
5. Orders fill at the NEXT day's open.
`),
	types.StrategyTypeKeltner: mustParse("pseudocode_keltner", `LOGIC EXPLANATION:
1. Middle line = {{.P.keltnerPeriod}}-day EMA of the close.
2. Upper band = middle + {{.P.keltnerMult}} x ATR({{.P.keltnerPeriod}}).
3. BUY SIGNAL: the close breaks above the upper band.
4. SELL SIGNAL: the close falls below the middle line.
5. Orders fill at the NEXT day's open.
`),
}

var pseudocodeFallback = mustParse("pseudocode_unavailable", `LOGIC EXPLANATION:
Logic description not available for strategy {{.Strategy}}.
`)

// Pseudocode explains the entry and exit rules of a strategy in plain language.
// Parameters missing from params take their default values.
func Pseudocode(strategyType types.StrategyType, params strategy.Params) (string, error) {
	if strategyType == "" {
		return "", errors.New(errors.ErrCodeCodegenUnsupported, "strategy is required for code generation")
	}

	return render(pseudocodeTemplates, pseudocodeFallback, newView(strategyType, params))
}
