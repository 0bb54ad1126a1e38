package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Simon666Z/quantforge/internal/types"
)

type MATestSuite struct {
	suite.Suite
}

func TestMASuite(t *testing.T) {
	suite.Run(t, new(MATestSuite))
}

func (suite *MATestSuite) TestSMA() {
	tests := []struct {
		name     string
		values   []float64
		window   int
		expected types.Series
	}{
		{
			name:     "window of three",
			values:   []float64{1, 2, 3, 4, 5},
			window:   3,
			expected: types.Series{none(), none(), some(2), some(3), some(4)},
		},
		{
			name:     "window equals length",
			values:   []float64{2, 4},
			window:   2,
			expected: types.Series{none(), some(3)},
		},
		{
			name:     "window of one is identity",
			values:   []float64{1, 2},
			window:   1,
			expected: types.Series{some(1), some(2)},
		},
		{
			name:     "window longer than data",
			values:   []float64{1, 2, 3},
			window:   20,
			expected: types.Series{none(), none(), none()},
		},
		{
			name:     "zero window",
			values:   []float64{1, 2},
			window:   0,
			expected: types.Series{none(), none()},
		},
		{
			name:     "empty input",
			values:   []float64{},
			window:   5,
			expected: types.Series{},
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.expected, SMA(tc.values, tc.window))
		})
	}
}

func (suite *MATestSuite) TestEMA() {
	result := EMA([]float64{1, 2, 3, 4, 5}, 3)

	suite.Len(result, 5)
	suite.Equal(2, result.FirstDefined())

	expected := []float64{0, 0, 2, 3, 4}
	for i := 2; i < 5; i++ {
		v, ok := result.At(i)
		suite.True(ok)
		suite.InDelta(expected[i], v, 1e-9)
	}
}

func (suite *MATestSuite) TestEMAShortSeries() {
	suite.True(allUndefined(EMA([]float64{1, 2}, 3)))
	suite.True(allUndefined(EMA([]float64{1, 2}, 0)))
}

func (suite *MATestSuite) TestEMAOverLeadingUndefined() {
	s := types.Series{none(), none(), some(1), some(2), some(3), some(4)}
	result := emaOf(s, 2)

	suite.Equal(3, result.FirstDefined())

	v, _ := result.At(3)
	suite.InDelta(1.5, v, 1e-9)

	// alpha = 2/3
	v, _ = result.At(4)
	suite.InDelta(3*2.0/3+1.5/3, v, 1e-9)
}

func (suite *MATestSuite) TestMA() {
	values := ramp(30, 10, 1)
	suite.Equal(SMA(values, 5), MA(values, 5, false))
	suite.Equal(EMA(values, 5), MA(values, 5, true))
}

func (suite *MATestSuite) TestConstantSeries() {
	values := constant(40, 7)
	for _, s := range []types.Series{SMA(values, 10), EMA(values, 10)} {
		for i := 9; i < 40; i++ {
			v, ok := s.At(i)
			suite.True(ok)
			suite.InDelta(7.0, v, 1e-9)
		}
	}
}
