package indicator

import (
	"github.com/markcheno/go-talib"
	"github.com/moznion/go-optional"

	"github.com/Simon666Z/quantforge/internal/types"
)

// SMA returns the rolling arithmetic mean over window values.
func SMA(values []float64, window int) types.Series {
	if !hasHistory(len(values), window) {
		return types.NewSeries(len(values))
	}

	if window == 1 {
		return types.SeriesFromFloats(values)
	}

	return fromTalib(talib.Sma(values, window), window-1)
}

// MA returns SMA, or EMA when ewm is set.
func MA(values []float64, window int, ewm bool) types.Series {
	if ewm {
		return EMA(values, window)
	}

	return SMA(values, window)
}

// EMA returns the exponential moving average with alpha = 2/(window+1).
// The first value is the SMA of the first window values.
func EMA(values []float64, window int) types.Series {
	return emaOf(types.SeriesFromFloats(values), window)
}

// emaOf runs an EMA over a series that may start with undefined values, such as the MACD line.
func emaOf(s types.Series, window int) types.Series {
	out := types.NewSeries(len(s))

	start := s.FirstDefined()
	if window <= 0 || start < 0 || len(s)-start < window {
		return out
	}

	seedEnd := start + window - 1

	sum := 0.0
	for i := start; i <= seedEnd; i++ {
		v, ok := s.At(i)
		if !ok {
			return out
		}

		sum += v
	}

	alpha := 2.0 / float64(window+1)
	ema := sum / float64(window)
	out[seedEnd] = optional.Some(ema)

	for i := seedEnd + 1; i < len(s); i++ {
		v, ok := s.At(i)
		if !ok {
			continue
		}

		ema = v*alpha + ema*(1-alpha)
		out[i] = optional.Some(ema)
	}

	return out
}
