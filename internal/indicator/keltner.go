package indicator

// KeltnerATRWindow is the fixed ATR window used for the channel width.
const KeltnerATRWindow = 10

// Keltner returns EMA(period) plus and minus mult times ATR(10).
func Keltner(high, low, close []float64, period int, mult float64) BandsResult {
	middle := EMA(close, period)
	atr := ATR(high, low, close, KeltnerATRWindow)

	return BandsResult{
		Upper: combine(middle, atr, func(m, a float64) float64 {
			return m + mult*a
		}),
		Middle: middle,
		Lower: combine(middle, atr, func(m, a float64) float64 {
			return m - mult*a
		}),
	}
}
