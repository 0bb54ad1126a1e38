package utils

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Simon666Z/quantforge/internal/backtest/engine/engine_v1/commission_fee"
)

type UtilsTestSuite struct {
	suite.Suite
}

func TestUtilsTestSuite(t *testing.T) {
	suite.Run(t, new(UtilsTestSuite))
}

func (suite *UtilsTestSuite) TestCalculateMaxQuantity() {
	tests := []struct {
		name          string
		balance       float64
		price         float64
		commissionFee commission_fee.CommissionFee
		expectedQty   float64
	}{
		{
			name:          "Simple case with no commission",
			balance:       1000.0,
			price:         100.0,
			commissionFee: commission_fee.NewZeroCommissionFee(),
			expectedQty:   10,
		},
		{
			name:          "Case with per share commission",
			balance:       1000.0,
			price:         100.0,
			commissionFee: commission_fee.NewInteractiveBrokerCommissionFee(),
			expectedQty:   9.99,
		},
		{
			name:          "Case with percentage commission",
			balance:       1001.0,
			price:         100.0,
			commissionFee: commission_fee.NewPercentageCommissionFee(0.001),
			expectedQty:   10,
		},
		{
			name:          "Zero balance",
			balance:       0.0,
			price:         100.0,
			commissionFee: commission_fee.NewInteractiveBrokerCommissionFee(),
			expectedQty:   0,
		},
		{
			name:          "Zero price",
			balance:       1000.0,
			price:         0.0,
			commissionFee: commission_fee.NewInteractiveBrokerCommissionFee(),
			expectedQty:   0,
		},
		{
			name:          "Minimum fee above balance",
			balance:       0.5,
			price:         100.0,
			commissionFee: commission_fee.NewInteractiveBrokerCommissionFee(),
			expectedQty:   0,
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			qty := CalculateMaxQuantity(tc.balance, tc.price, tc.commissionFee)
			suite.InDelta(tc.expectedQty, qty, 1e-6, "Quantity mismatch")

			cost := qty*tc.price + tc.commissionFee.Calculate(qty, tc.price)
			if qty > 0 {
				suite.LessOrEqual(cost, tc.balance)
			}
		})
	}
}

func (suite *UtilsTestSuite) TestCalculateOrderQuantityByPercentage() {
	tests := []struct {
		name          string
		balance       float64
		price         float64
		percentage    float64
		commissionFee commission_fee.CommissionFee
		expectedQty   float64
	}{
		{
			name:          "Half of the balance without commission",
			balance:       1000.0,
			price:         100.0,
			percentage:    0.5,
			commissionFee: commission_fee.NewZeroCommissionFee(),
			expectedQty:   5,
		},
		{
			name:          "Whole balance",
			balance:       1000.0,
			price:         50.0,
			percentage:    1,
			commissionFee: commission_fee.NewZeroCommissionFee(),
			expectedQty:   20,
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			qty := CalculateOrderQuantityByPercentage(tc.balance, tc.price, tc.commissionFee, tc.percentage)
			suite.InDelta(tc.expectedQty, qty, 1e-9, "Quantity mismatch")
		})
	}
}

func (suite *UtilsTestSuite) TestRoundToDecimalPrecision() {
	tests := []struct {
		name      string
		quantity  float64
		precision int
		expected  float64
	}{
		{"whole shares", 9.99, 0, 9},
		{"two decimals", 1.23456, 2, 1.23},
		{"negative precision keeps fractions", 1.23456, -1, 1.23456},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.InDelta(tc.expected, RoundToDecimalPrecision(tc.quantity, tc.precision), 1e-12)
		})
	}
}
