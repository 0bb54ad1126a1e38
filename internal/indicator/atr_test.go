package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Simon666Z/quantforge/internal/types"
)

type ATRTestSuite struct {
	suite.Suite
}

func TestATRSuite(t *testing.T) {
	suite.Run(t, new(ATRTestSuite))
}

func (suite *ATRTestSuite) TestTrueRange() {
	tests := []struct {
		name     string
		high     []float64
		low      []float64
		close    []float64
		expected []float64
	}{
		{
			name:     "first bar uses high minus low",
			high:     []float64{10},
			low:      []float64{8},
			close:    []float64{9},
			expected: []float64{2},
		},
		{
			name:     "gap up uses previous close",
			high:     []float64{10, 15},
			low:      []float64{9, 14},
			close:    []float64{9.5, 14.5},
			expected: []float64{1, 5.5},
		},
		{
			name:     "gap down uses previous close",
			high:     []float64{20, 12},
			low:      []float64{19, 11},
			close:    []float64{19.5, 11.5},
			expected: []float64{1, 8.5},
		},
		{
			name:     "empty",
			high:     []float64{},
			low:      []float64{},
			close:    []float64{},
			expected: []float64{},
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			tr := TrueRange(tc.high, tc.low, tc.close)
			suite.Len(tr, len(tc.expected))

			for i := range tc.expected {
				suite.InDelta(tc.expected[i], tr[i], 1e-9)
			}
		})
	}
}

func (suite *ATRTestSuite) TestATR() {
	high := []float64{10, 11, 12}
	low := []float64{8, 9, 10}
	closes := []float64{9, 10, 11}

	suite.Equal(types.Series{none(), some(2), some(2)}, ATR(high, low, closes, 2))
	suite.True(allUndefined(ATR(high, low, closes, 5)))
}
