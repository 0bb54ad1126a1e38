package strategy

import "github.com/Simon666Z/quantforge/internal/types"

// Indicator keys reported in Result.Indicators.
const (
	KeySMAShort      = "smaShort"
	KeySMALong       = "smaLong"
	KeyEMAShort      = "emaShort"
	KeyEMALong       = "emaLong"
	KeyRSI           = "rsi"
	KeyUpperBand     = "upperBand"
	KeyMiddleBand    = "middleBand"
	KeyLowerBand     = "lowerBand"
	KeyMACD          = "macd"
	KeyMACDSignal    = "macdSignal"
	KeyMACDHist      = "macdHist"
	KeyROC           = "roc"
	KeyTrendMA       = "trendMa"
	KeySMAFast       = "smaFast"
	KeySMASlow       = "smaSlow"
	KeyADX           = "adx"
	KeyDonchianHigh  = "donchianHigh"
	KeyDonchianLow   = "donchianLow"
	KeyKeltnerUpper  = "keltnerUpper"
	KeyKeltnerMiddle = "keltnerMiddle"
	KeyKeltnerLower  = "keltnerLower"
)

// compare evaluates pred where both a and b are defined. Undefined positions are false.
func compare(a, b types.Series, pred func(x, y float64) bool) []bool {
	out := make([]bool, len(a))
	for i := range a {
		x, okX := a.At(i)
		y, okY := b.At(i)
		out[i] = okX && okY && pred(x, y)
	}

	return out
}

// compareLevel evaluates pred against a fixed level where a is defined.
func compareLevel(a types.Series, level float64, pred func(x, y float64) bool) []bool {
	out := make([]bool, len(a))
	for i := range a {
		x, ok := a.At(i)
		out[i] = ok && pred(x, level)
	}

	return out
}

// compareClose evaluates pred(close, band) where band is defined.
func compareClose(closes []float64, band types.Series, pred func(x, y float64) bool) []bool {
	return compare(types.SeriesFromFloats(closes), band, pred)
}

// transitions marks the bars where cond turns true after being false on the previous bar.
// The first bar has no previous bar and is never a transition.
func transitions(cond []bool) []bool {
	out := make([]bool, len(cond))
	for i := 1; i < len(cond); i++ {
		out[i] = cond[i] && !cond[i-1]
	}

	return out
}

// crossAbove marks the bars where a moves from not-above b to above b.
func crossAbove(a, b types.Series) []bool {
	return transitions(compare(a, b, above))
}

// crossBelow marks the bars where a moves from not-below b to below b.
func crossBelow(a, b types.Series) []bool {
	return transitions(compare(a, b, below))
}

func and(a, b []bool) []bool {
	out := make([]bool, len(a))
	for i := range a {
		out[i] = a[i] && b[i]
	}

	return out
}

func or(a, b []bool) []bool {
	out := make([]bool, len(a))
	for i := range a {
		out[i] = a[i] || b[i]
	}

	return out
}

func above(x, y float64) bool { return x > y }

func below(x, y float64) bool { return x < y }
