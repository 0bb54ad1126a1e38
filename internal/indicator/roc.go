package indicator

import (
	"github.com/markcheno/go-talib"

	"github.com/Simon666Z/quantforge/internal/types"
)

// ROC returns (close[t] - close[t-period]) / close[t-period] * 100, defined from position period.
func ROC(values []float64, period int) types.Series {
	if period <= 0 || len(values) <= period {
		return types.NewSeries(len(values))
	}

	return fromTalib(talib.Roc(values, period), period)
}
