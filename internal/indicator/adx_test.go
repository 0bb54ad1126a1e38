package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type ADXTestSuite struct {
	suite.Suite
}

func TestADXSuite(t *testing.T) {
	suite.Run(t, new(ADXTestSuite))
}

func (suite *ADXTestSuite) TestWarmup() {
	closes := ramp(40, 100, 1)
	high := ramp(40, 101, 1)
	low := ramp(40, 99, 1)

	result := ADX(high, low, closes, 14)
	suite.Len(result, 40)
	suite.Equal(27, result.FirstDefined())
}

func (suite *ADXTestSuite) TestSteadyUptrendIsMaximal() {
	closes := ramp(40, 100, 1)
	high := ramp(40, 101, 1)
	low := ramp(40, 99, 1)

	result := ADX(high, low, closes, 5)
	for i := 9; i < 40; i++ {
		v, ok := result.At(i)
		suite.True(ok)
		suite.InDelta(100.0, v, 1e-9)
	}
}

func (suite *ADXTestSuite) TestFlatMarketIsZero() {
	flat := constant(30, 10)

	result := ADX(flat, flat, flat, 5)
	v, ok := result.At(29)
	suite.True(ok)
	suite.InDelta(0.0, v, 1e-9)
}

func (suite *ADXTestSuite) TestShortSeries() {
	flat := constant(27, 10)
	suite.True(allUndefined(ADX(flat, flat, flat, 14)))
	suite.True(allUndefined(ADX(flat, flat, flat, 0)))
}

func (suite *ADXTestSuite) TestWilder() {
	result := wilder([]float64{0, 2, 4, 6, 8}, 1, 2)

	suite.Equal(2, result.FirstDefined())

	v, _ := result.At(2)
	suite.InDelta(3.0, v, 1e-9)

	v, _ = result.At(3)
	suite.InDelta(4.5, v, 1e-9)

	v, _ = result.At(4)
	suite.InDelta(6.25, v, 1e-9)
}
