package strategy

import (
	"testing"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/assert"

	"github.com/Simon666Z/quantforge/internal/types"
)

func some(v float64) optional.Option[float64] {
	return optional.Some(v)
}

func none() optional.Option[float64] {
	return optional.None[float64]()
}

func TestCatalog(t *testing.T) {
	entries := Catalog()
	assert.Len(t, entries, len(types.AllStrategyTypes))

	for i, e := range entries {
		assert.Equal(t, types.AllStrategyTypes[i], e.ID)
		assert.NotEmpty(t, e.Name)
		assert.NotEmpty(t, e.Description)
		assert.NotEmpty(t, e.Defaults)
		assert.NotEmpty(t, e.Indicators)
	}
}

func TestDefaultParams(t *testing.T) {
	tests := []struct {
		strategy types.StrategyType
		expected Params
	}{
		{strategy: types.StrategyTypeSMACrossover, expected: Params{"shortWindow": 20, "longWindow": 50}},
		{strategy: types.StrategyTypeRSIReversal, expected: Params{"rsiPeriod": 14, "rsiOversold": 30, "rsiOverbought": 70}},
		{strategy: types.StrategyTypeBollingerBands, expected: Params{"bbPeriod": 20, "bbStdDev": 2}},
		{strategy: types.StrategyTypeMACD, expected: Params{"macdFast": 12, "macdSlow": 26, "macdSignal": 9}},
		{strategy: types.StrategyTypeMomentum, expected: Params{"rocPeriod": 12}},
		{strategy: types.StrategyTypeTrendRSI, expected: Params{"trendMa": 200, "rsiPeriod": 14, "rsiOversold": 30, "rsiOverbought": 70}},
		{strategy: types.StrategyTypeVolatilityFilter, expected: Params{"adxPeriod": 14, "adxThreshold": 25, "fastWindow": 10, "slowWindow": 50}},
		{strategy: types.StrategyTypeTurtle, expected: Params{"turtleEntry": 20, "turtleExit": 10}},
		{strategy: types.StrategyTypeKeltner, expected: Params{"keltnerPeriod": 20, "keltnerMult": 2}},
	}

	for _, tc := range tests {
		t.Run(string(tc.strategy), func(t *testing.T) {
			params, ok := DefaultParams(tc.strategy)
			assert.True(t, ok)
			assert.Equal(t, tc.expected, params)
		})
	}

	_, ok := DefaultParams("UNKNOWN")
	assert.False(t, ok)
}
