// Package indicator computes technical indicators over daily price arrays.
//
// Every function is pure and returns output aligned with its input. Positions without
// enough history are undefined (None) instead of raising: a 20 bar SMA has 19 leading
// undefined values. A non-positive window or a series shorter than the window yields an
// all-undefined result.
package indicator

import (
	"github.com/moznion/go-optional"

	"github.com/Simon666Z/quantforge/internal/types"
)

// hasHistory reports whether n values are enough for a rolling window of the given size.
func hasHistory(n, window int) bool {
	return window > 0 && n >= window
}

// fromTalib converts go-talib output into a Series. talib pads positions before lookback
// with zeros, which become undefined here.
func fromTalib(out []float64, lookback int) types.Series {
	s := types.NewSeries(len(out))
	for i := lookback; i < len(out); i++ {
		s[i] = optional.Some(out[i])
	}

	return s
}

// combine applies fn where both a and b are defined.
func combine(a, b types.Series, fn func(x, y float64) float64) types.Series {
	out := types.NewSeries(len(a))
	for i := range a {
		x, okX := a.At(i)
		y, okY := b.At(i)

		if okX && okY {
			out[i] = optional.Some(fn(x, y))
		}
	}

	return out
}

// shift moves every value one position forward. The first position becomes undefined.
func shift(s types.Series) types.Series {
	out := types.NewSeries(len(s))
	for i := 1; i < len(s); i++ {
		out[i] = s[i-1]
	}

	return out
}
