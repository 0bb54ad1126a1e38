package strategy

import (
	"github.com/Simon666Z/quantforge/internal/indicator"
	"github.com/Simon666Z/quantforge/internal/types"
)

func smaCrossover(bars types.BarSeries, p CrossoverParams) (types.SignalSet, map[string]types.Series) {
	short := indicator.SMA(bars.Close, p.ShortWindow)
	long := indicator.SMA(bars.Close, p.LongWindow)

	signals := types.SignalSet{
		Entries: crossAbove(short, long),
		Exits:   crossBelow(short, long),
	}

	return signals, map[string]types.Series{
		KeySMAShort: short,
		KeySMALong:  long,
	}
}

func emaCrossover(bars types.BarSeries, p CrossoverParams) (types.SignalSet, map[string]types.Series) {
	short := indicator.EMA(bars.Close, p.ShortWindow)
	long := indicator.EMA(bars.Close, p.LongWindow)

	signals := types.SignalSet{
		Entries: crossAbove(short, long),
		Exits:   crossBelow(short, long),
	}

	return signals, map[string]types.Series{
		KeyEMAShort: short,
		KeyEMALong:  long,
	}
}

func macdCrossover(bars types.BarSeries, p MACDParams) (types.SignalSet, map[string]types.Series) {
	m := indicator.MACD(bars.Close, p.MACDFast, p.MACDSlow, p.MACDSignal)

	signals := types.SignalSet{
		Entries: crossAbove(m.MACD, m.Signal),
		Exits:   crossBelow(m.MACD, m.Signal),
	}

	return signals, map[string]types.Series{
		KeyMACD:       m.MACD,
		KeyMACDSignal: m.Signal,
		KeyMACDHist:   m.Histogram,
	}
}

func momentum(bars types.BarSeries, p MomentumParams) (types.SignalSet, map[string]types.Series) {
	roc := indicator.ROC(bars.Close, p.ROCPeriod)

	signals := types.SignalSet{
		Entries: transitions(compareLevel(roc, 0, above)),
		Exits:   transitions(compareLevel(roc, 0, below)),
	}

	return signals, map[string]types.Series{
		KeyROC: roc,
	}
}

// volatilityFilter only takes fast/slow SMA crosses while ADX shows a trend.
func volatilityFilter(bars types.BarSeries, p VolatilityFilterParams) (types.SignalSet, map[string]types.Series) {
	fast := indicator.SMA(bars.Close, p.FastWindow)
	slow := indicator.SMA(bars.Close, p.SlowWindow)
	adx := indicator.ADX(bars.High, bars.Low, bars.Close, p.ADXPeriod)

	signals := types.SignalSet{
		Entries: and(crossAbove(fast, slow), compareLevel(adx, p.ADXThreshold, above)),
		Exits:   crossBelow(fast, slow),
	}

	return signals, map[string]types.Series{
		KeySMAFast: fast,
		KeySMASlow: slow,
		KeyADX:     adx,
	}
}
