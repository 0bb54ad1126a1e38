package indicator

import (
	"math"

	"github.com/markcheno/go-talib"

	"github.com/Simon666Z/quantforge/internal/types"
)

// TrueRange returns max(high-low, |high-prevClose|, |low-prevClose|). The first bar has no
// previous close and uses high-low.
func TrueRange(high, low, close []float64) []float64 {
	if len(close) == 0 {
		return []float64{}
	}

	tr := talib.TRange(high, low, close)
	tr[0] = math.Abs(high[0] - low[0])

	return tr
}

// ATR returns the rolling mean of the true range over window bars.
func ATR(high, low, close []float64, window int) types.Series {
	return SMA(TrueRange(high, low, close), window)
}
