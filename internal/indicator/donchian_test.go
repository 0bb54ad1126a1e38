package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Simon666Z/quantforge/internal/types"
)

type DonchianTestSuite struct {
	suite.Suite
}

func TestDonchianSuite(t *testing.T) {
	suite.Run(t, new(DonchianTestSuite))
}

func (suite *DonchianTestSuite) TestChannelExcludesCurrentBar() {
	high := []float64{1, 5, 3, 4, 2}
	low := []float64{0.5, 4, 2, 1, 1.5}

	result := Donchian(high, low, 2, 3)

	suite.Equal(types.Series{none(), none(), some(5), some(5), some(4)}, result.Upper)
	suite.Equal(types.Series{none(), none(), none(), some(0.5), some(1)}, result.Lower)
}

func (suite *DonchianTestSuite) TestBreakoutNeverTouchesOwnHigh() {
	high := ramp(30, 10, 1)
	result := Donchian(high, high, 20, 10)

	for i := 20; i < 30; i++ {
		upper, ok := result.Upper.At(i)
		suite.True(ok)
		suite.Less(upper, high[i])
	}
}

func (suite *DonchianTestSuite) TestShortSeries() {
	result := Donchian([]float64{1, 2, 3}, []float64{1, 2, 3}, 20, 10)
	suite.True(allUndefined(result.Upper))
	suite.True(allUndefined(result.Lower))
}
