package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/Simon666Z/quantforge/internal/types"
)

// DataGenerator generates realistic daily bars for testing and benchmarking.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how bars are generated.
type GeneratorConfig struct {
	// Symbol is the ticker (e.g., "AAPL", "SPY")
	Symbol string
	// StartTime is the date of the first bar
	StartTime time.Time
	// Count is the number of bars to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement (0.015 = 1.5% typical daily move)
	Volatility float64
	// Trend is the total drift over the whole series (-0.5 to 0.5 for bearish to bullish)
	Trend float64
	// VolumeBase is the average volume per bar
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "TEST",
		StartTime:      time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Count:          500,
		InitialPrice:   100.0,
		Volatility:     0.015,
		Trend:          0.0,
		VolumeBase:     1_000_000,
		VolumeVariance: 0.3,
	}
}

// Generate creates one bar per calendar day following a geometric Brownian motion.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.Bar {
	bars := make([]types.Bar, config.Count)
	currentPrice := config.InitialPrice
	currentTime := types.DateOf(config.StartTime)

	for i := 0; i < config.Count; i++ {
		open := currentPrice

		// Box-Muller transform for a normal draw
		u1 := 1 - g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		drift := config.Trend / float64(config.Count)

		closePrice := open * (1 + config.Volatility*z + drift)
		if closePrice <= 0 {
			closePrice = open * 0.99
		}

		highExtension := g.rng.Float64() * config.Volatility * open * 0.5
		lowExtension := g.rng.Float64() * config.Volatility * open * 0.5

		high := math.Max(open, closePrice) + highExtension

		low := math.Min(open, closePrice) - lowExtension
		if low <= 0 {
			low = math.Min(open, closePrice) * 0.99
		}

		volume := config.VolumeBase * (1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance)
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		bars[i] = types.Bar{
			Time:   currentTime,
			Open:   roundToDecimals(open, 4),
			High:   roundToDecimals(high, 4),
			Low:    roundToDecimals(low, 4),
			Close:  roundToDecimals(closePrice, 4),
			Volume: int64(volume),
		}

		currentPrice = closePrice
		currentTime = currentTime.AddDate(0, 0, 1)
	}

	return bars
}

// Series generates count bars with the default configuration as a BarSeries.
func (g *DataGenerator) Series(symbol string, count int) types.BarSeries {
	config := DefaultConfig()
	config.Symbol = symbol
	config.Count = count

	return FromBars(symbol, g.Generate(config))
}

// FromBars lays bars out as a BarSeries without validation.
func FromBars(symbol string, bars []types.Bar) types.BarSeries {
	series := types.BarSeries{Symbol: symbol}
	for _, bar := range bars {
		series.Times = append(series.Times, bar.Time)
		series.Open = append(series.Open, bar.Open)
		series.High = append(series.High, bar.High)
		series.Low = append(series.Low, bar.Low)
		series.Close = append(series.Close, bar.Close)
		series.Volume = append(series.Volume, bar.Volume)
	}

	return series
}

// FromCloses builds daily bars whose open, high and low all equal the close, starting at start.
func FromCloses(symbol string, start time.Time, closes []float64) types.BarSeries {
	bars := make([]types.Bar, len(closes))
	for i, c := range closes {
		bars[i] = types.Bar{
			Time:   types.DateOf(start).AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}

	return FromBars(symbol, bars)
}

// GenerateMultiSymbol generates one series per symbol.
func (g *DataGenerator) GenerateMultiSymbol(symbols []string, baseConfig GeneratorConfig) map[string]types.BarSeries {
	all := make(map[string]types.BarSeries, len(symbols))

	for _, symbol := range symbols {
		config := baseConfig
		config.Symbol = symbol
		// Vary initial price and volatility slightly per symbol
		config.InitialPrice = baseConfig.InitialPrice * (0.8 + g.rng.Float64()*0.4)
		config.Volatility = baseConfig.Volatility * (0.8 + g.rng.Float64()*0.4)

		all[symbol] = FromBars(symbol, g.Generate(config))
	}

	return all
}

// Generate10K is a convenience function to generate 10,000 bars
// with default settings for benchmarking.
func Generate10K(symbol string) types.BarSeries {
	gen := NewDataGenerator(42)
	config := DefaultConfig()
	config.Symbol = symbol
	config.Count = 10000

	return FromBars(symbol, gen.Generate(config))
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
