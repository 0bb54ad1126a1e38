package indicator

import (
	"github.com/markcheno/go-talib"

	"github.com/Simon666Z/quantforge/internal/types"
)

// ChannelResult holds the upper and lower bounds of a price channel.
type ChannelResult struct {
	Upper types.Series
	Lower types.Series
}

// Donchian returns the highest high over entryWindow bars and the lowest low over exitWindow
// bars, each shifted one bar forward so the value at t only covers bars before t.
func Donchian(high, low []float64, entryWindow, exitWindow int) ChannelResult {
	return ChannelResult{
		Upper: shift(rollingMax(high, entryWindow)),
		Lower: shift(rollingMin(low, exitWindow)),
	}
}

func rollingMax(values []float64, window int) types.Series {
	if !hasHistory(len(values), window) {
		return types.NewSeries(len(values))
	}

	if window == 1 {
		return types.SeriesFromFloats(values)
	}

	return fromTalib(talib.Max(values, window), window-1)
}

func rollingMin(values []float64, window int) types.Series {
	if !hasHistory(len(values), window) {
		return types.NewSeries(len(values))
	}

	if window == 1 {
		return types.SeriesFromFloats(values)
	}

	return fromTalib(talib.Min(values, window), window-1)
}
