package indicator

import "github.com/Simon666Z/quantforge/internal/types"

// MACDResult holds the three MACD lines.
type MACDResult struct {
	MACD      types.Series
	Signal    types.Series
	Histogram types.Series
}

// MACD returns EMA(fast) - EMA(slow), its EMA(signal) and the difference between the two.
func MACD(values []float64, fast, slow, signal int) MACDResult {
	line := combine(EMA(values, fast), EMA(values, slow), func(f, s float64) float64 {
		return f - s
	})
	signalLine := emaOf(line, signal)

	return MACDResult{
		MACD:   line,
		Signal: signalLine,
		Histogram: combine(line, signalLine, func(m, s float64) float64 {
			return m - s
		}),
	}
}
