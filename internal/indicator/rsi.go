package indicator

import (
	"github.com/moznion/go-optional"

	"github.com/Simon666Z/quantforge/internal/types"
)

// RSI returns Wilder's relative strength index in [0, 100].
// The first value is at position window, since window price changes are needed.
// A window with neither gains nor losses reads 50.
func RSI(values []float64, window int) types.Series {
	out := types.NewSeries(len(values))
	if window <= 0 || len(values) <= window {
		return out
	}

	avgGain, avgLoss := 0.0, 0.0

	for i := 1; i <= window; i++ {
		gain, loss := change(values[i-1], values[i])
		avgGain += gain
		avgLoss += loss
	}

	avgGain /= float64(window)
	avgLoss /= float64(window)
	out[window] = optional.Some(rsiValue(avgGain, avgLoss))

	w := float64(window)
	for i := window + 1; i < len(values); i++ {
		gain, loss := change(values[i-1], values[i])
		avgGain = (avgGain*(w-1) + gain) / w
		avgLoss = (avgLoss*(w-1) + loss) / w
		out[i] = optional.Some(rsiValue(avgGain, avgLoss))
	}

	return out
}

func change(prev, curr float64) (gain, loss float64) {
	diff := curr - prev
	if diff > 0 {
		return diff, 0
	}

	return 0, -diff
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}

		return 100
	}

	rs := avgGain / avgLoss

	return 100 - 100/(1+rs)
}
