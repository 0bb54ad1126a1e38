package indicator

import (
	"math"

	"github.com/moznion/go-optional"

	"github.com/Simon666Z/quantforge/internal/types"
)

// ADX returns Wilder's average directional index.
// True range and directional movement start at bar 1 and are smoothed with factor 1/window,
// so DX is first defined at bar window and ADX at bar 2*window-1.
func ADX(high, low, close []float64, window int) types.Series {
	n := len(close)
	if window <= 0 || n < 2*window {
		return types.NewSeries(n)
	}

	tr := TrueRange(high, low, close)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)

	for i := 1; i < n; i++ {
		up := high[i] - high[i-1]
		down := low[i-1] - low[i]

		if up > down && up > 0 {
			plusDM[i] = up
		}

		if down > up && down > 0 {
			minusDM[i] = down
		}
	}

	smoothTR := wilder(tr, 1, window)
	smoothPlus := wilder(plusDM, 1, window)
	smoothMinus := wilder(minusDM, 1, window)

	dx := make([]float64, n)
	for i := window; i < n; i++ {
		atr, _ := smoothTR.At(i)
		plus, _ := smoothPlus.At(i)
		minus, _ := smoothMinus.At(i)

		plusDI, minusDI := 0.0, 0.0
		if atr > 0 {
			plusDI = 100 * plus / atr
			minusDI = 100 * minus / atr
		}

		if sum := plusDI + minusDI; sum > 0 {
			dx[i] = 100 * math.Abs(plusDI-minusDI) / sum
		}
	}

	return wilder(dx, window, window)
}

// wilder smooths values[start:] with factor 1/window. The seed is the mean of the first
// window values and lands at start+window-1.
func wilder(values []float64, start, window int) types.Series {
	out := types.NewSeries(len(values))

	seedEnd := start + window - 1
	if window <= 0 || seedEnd >= len(values) {
		return out
	}

	sum := 0.0
	for i := start; i <= seedEnd; i++ {
		sum += values[i]
	}

	smoothed := sum / float64(window)
	out[seedEnd] = optional.Some(smoothed)

	for i := seedEnd + 1; i < len(values); i++ {
		smoothed += (values[i] - smoothed) / float64(window)
		out[i] = optional.Some(smoothed)
	}

	return out
}
