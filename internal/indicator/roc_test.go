package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type ROCTestSuite struct {
	suite.Suite
}

func TestROCSuite(t *testing.T) {
	suite.Run(t, new(ROCTestSuite))
}

func (suite *ROCTestSuite) TestROC() {
	result := ROC([]float64{100, 110, 121, 99}, 1)

	suite.Equal(1, result.FirstDefined())

	expected := []float64{0, 10, 10, -18.181818181818}
	for i := 1; i < 4; i++ {
		v, ok := result.At(i)
		suite.True(ok)
		suite.InDelta(expected[i], v, 1e-9)
	}
}

func (suite *ROCTestSuite) TestLongerPeriod() {
	result := ROC(ramp(20, 100, 1), 12)
	suite.Equal(12, result.FirstDefined())

	v, _ := result.At(12)
	suite.InDelta(12.0, v, 1e-9)
}

func (suite *ROCTestSuite) TestShortSeries() {
	suite.True(allUndefined(ROC([]float64{1, 2, 3}, 3)))
	suite.True(allUndefined(ROC([]float64{1, 2, 3}, 0)))
}
