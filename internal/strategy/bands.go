package strategy

import (
	"github.com/Simon666Z/quantforge/internal/indicator"
	"github.com/Simon666Z/quantforge/internal/types"
)

func bollingerBands(bars types.BarSeries, p BollingerParams) (types.SignalSet, map[string]types.Series) {
	bands := indicator.BollingerBands(bars.Close, p.BBPeriod, p.BBStdDev)

	signals := types.SignalSet{
		Entries: compareClose(bars.Close, bands.Lower, below),
		Exits:   compareClose(bars.Close, bands.Upper, above),
	}

	return signals, map[string]types.Series{
		KeyUpperBand:  bands.Upper,
		KeyMiddleBand: bands.Middle,
		KeyLowerBand:  bands.Lower,
	}
}

// turtle trades Donchian breakouts. The channel is already shifted so it never includes the
// bar being compared.
func turtle(bars types.BarSeries, p TurtleParams) (types.SignalSet, map[string]types.Series) {
	channel := indicator.Donchian(bars.High, bars.Low, p.TurtleEntry, p.TurtleExit)

	signals := types.SignalSet{
		Entries: compareClose(bars.Close, channel.Upper, above),
		Exits:   compareClose(bars.Close, channel.Lower, below),
	}

	return signals, map[string]types.Series{
		KeyDonchianHigh: channel.Upper,
		KeyDonchianLow:  channel.Lower,
	}
}

func keltner(bars types.BarSeries, p KeltnerParams) (types.SignalSet, map[string]types.Series) {
	channel := indicator.Keltner(bars.High, bars.Low, bars.Close, p.KeltnerPeriod, p.KeltnerMult)

	signals := types.SignalSet{
		Entries: compareClose(bars.Close, channel.Upper, above),
		Exits:   compareClose(bars.Close, channel.Middle, below),
	}

	return signals, map[string]types.Series{
		KeyKeltnerUpper:  channel.Upper,
		KeyKeltnerMiddle: channel.Middle,
		KeyKeltnerLower:  channel.Lower,
	}
}
