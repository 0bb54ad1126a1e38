package indicator

import (
	"github.com/markcheno/go-talib"

	"github.com/Simon666Z/quantforge/internal/types"
)

// BandsResult holds an envelope around a middle line.
type BandsResult struct {
	Upper  types.Series
	Middle types.Series
	Lower  types.Series
}

// BollingerBands returns SMA(window) plus and minus mult population standard deviations.
func BollingerBands(values []float64, window int, mult float64) BandsResult {
	middle := SMA(values, window)
	if !hasHistory(len(values), window) {
		return BandsResult{Upper: middle, Middle: middle, Lower: middle}
	}

	std := fromTalib(talib.StdDev(values, window, 1.0), window-1)

	return BandsResult{
		Upper: combine(middle, std, func(m, s float64) float64 {
			return m + mult*s
		}),
		Middle: middle,
		Lower: combine(middle, std, func(m, s float64) float64 {
			return m - mult*s
		}),
	}
}
