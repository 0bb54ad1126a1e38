package strategy

import (
	"github.com/Simon666Z/quantforge/internal/indicator"
	"github.com/Simon666Z/quantforge/internal/types"
)

func rsiReversal(bars types.BarSeries, p RSIReversalParams) (types.SignalSet, map[string]types.Series) {
	rsi := indicator.RSI(bars.Close, p.RSIPeriod)

	signals := types.SignalSet{
		Entries: transitions(compareLevel(rsi, p.RSIOversold, below)),
		Exits:   transitions(compareLevel(rsi, p.RSIOverbought, above)),
	}

	return signals, map[string]types.Series{
		KeyRSI: rsi,
	}
}

// trendRSI buys oversold dips only above the long trend MA, and exits on overbought RSI or a
// close under the MA.
func trendRSI(bars types.BarSeries, p TrendRSIParams) (types.SignalSet, map[string]types.Series) {
	ma := indicator.SMA(bars.Close, p.TrendMA)
	rsi := indicator.RSI(bars.Close, p.RSIPeriod)

	signals := types.SignalSet{
		Entries: and(
			compareClose(bars.Close, ma, above),
			transitions(compareLevel(rsi, p.RSIOversold, below)),
		),
		Exits: or(
			transitions(compareLevel(rsi, p.RSIOverbought, above)),
			compareClose(bars.Close, ma, below),
		),
	}

	return signals, map[string]types.Series{
		KeyTrendMA: ma,
		KeyRSI:     rsi,
	}
}
