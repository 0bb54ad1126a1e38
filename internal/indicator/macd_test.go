package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type MACDTestSuite struct {
	suite.Suite
}

func TestMACDSuite(t *testing.T) {
	suite.Run(t, new(MACDTestSuite))
}

func (suite *MACDTestSuite) TestWarmup() {
	result := MACD(ramp(60, 10, 0.5), 12, 26, 9)

	suite.Len(result.MACD, 60)
	suite.Equal(25, result.MACD.FirstDefined())
	suite.Equal(33, result.Signal.FirstDefined())
	suite.Equal(33, result.Histogram.FirstDefined())
}

func (suite *MACDTestSuite) TestConstantSeriesIsZero() {
	result := MACD(constant(60, 100), 12, 26, 9)

	for i := 33; i < 60; i++ {
		m, _ := result.MACD.At(i)
		s, _ := result.Signal.At(i)
		h, _ := result.Histogram.At(i)
		suite.InDelta(0.0, m, 1e-9)
		suite.InDelta(0.0, s, 1e-9)
		suite.InDelta(0.0, h, 1e-9)
	}
}

func (suite *MACDTestSuite) TestRisingSeriesIsPositive() {
	result := MACD(ramp(80, 10, 1), 12, 26, 9)

	m, ok := result.MACD.At(79)
	suite.True(ok)
	suite.Greater(m, 0.0)

	h, _ := result.Histogram.At(79)
	s, _ := result.Signal.At(79)
	suite.InDelta(m-s, h, 1e-9)
}

func (suite *MACDTestSuite) TestShortSeries() {
	result := MACD(ramp(10, 1, 1), 12, 26, 9)
	suite.True(allUndefined(result.MACD))
	suite.True(allUndefined(result.Signal))
	suite.True(allUndefined(result.Histogram))
}
