package utils

import (
	"math"

	"github.com/Simon666Z/quantforge/internal/backtest/engine/engine_v1/commission_fee"
)

// CalculateMaxQuantity calculates the maximum quantity that can be bought with the given balance, fees included.
func CalculateMaxQuantity(balance float64, price float64, commissionFee commission_fee.CommissionFee) float64 {
	// Handle edge cases
	if price <= 0 || balance <= 0 {
		return 0
	}

	// Initial rough estimate (ignoring fees)
	maxQty := balance / price

	// Iteratively refine by accounting for fees
	for i := 0; i < 20; i++ { // Usually converges quickly, limit iterations
		totalCost := maxQty*price + commissionFee.Calculate(maxQty, price)
		if totalCost <= balance {
			break
		}
		// Adjust quantity down proportionally
		adjustment := balance / totalCost
		maxQty = maxQty * adjustment
	}

	if maxQty*price+commissionFee.Calculate(maxQty, price) > balance {
		// a minimum fee larger than the balance leaves nothing to buy
		return 0
	}

	return maxQty
}

// RoundToDecimalPrecision rounds the quantity down to the specified decimal precision.
// A negative precision leaves the quantity untouched.
func RoundToDecimalPrecision(quantity float64, decimalPrecision int) float64 {
	if decimalPrecision < 0 {
		return quantity
	}

	multiplier := math.Pow10(decimalPrecision)

	return math.Floor(quantity*multiplier) / multiplier
}

// CalculateOrderQuantityByPercentage calculates the quantity of an order by the given percentage of the balance.
func CalculateOrderQuantityByPercentage(balance float64, price float64, commissionFee commission_fee.CommissionFee, percentage float64) float64 {
	quantity := balance * percentage

	return CalculateMaxQuantity(quantity, price, commissionFee)
}
