package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Simon666Z/quantforge/pkg/errors"
)

func TestOrderValidate(t *testing.T) {
	valid := Order{
		Timestamp:        time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		BarIndex:         1,
		Side:             PurchaseTypeBuy,
		Price:            100.1,
		QuotedPrice:      100,
		Quantity:         10,
		QuantityFraction: 1,
		Fee:              1.0,
		Reason:           NewReason(OrderReasonStrategy),
	}

	tests := []struct {
		name        string
		mutate      func(o *Order)
		shouldError bool
	}{
		{name: "valid order", mutate: func(o *Order) {}},
		{name: "invalid side", mutate: func(o *Order) { o.Side = "HOLD" }, shouldError: true},
		{name: "zero price", mutate: func(o *Order) { o.Price = 0 }, shouldError: true},
		{name: "zero quantity", mutate: func(o *Order) { o.Quantity = 0 }, shouldError: true},
		{name: "negative fee", mutate: func(o *Order) { o.Fee = -1 }, shouldError: true},
		{name: "fraction above one", mutate: func(o *Order) { o.QuantityFraction = 1.5 }, shouldError: true},
		{name: "missing reason", mutate: func(o *Order) { o.Reason = Reason{} }, shouldError: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			order := valid
			tc.mutate(&order)

			err := order.Validate()
			if tc.shouldError {
				assert.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidOrder))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewReason(t *testing.T) {
	tests := []struct {
		reason  string
		message string
	}{
		{reason: OrderReasonStrategy, message: "Signal Triggered"},
		{reason: OrderReasonStopLoss, message: "Stop Loss Triggered"},
		{reason: OrderReasonTakeProfit, message: "Take Profit Triggered"},
		{reason: OrderReasonTrailingStop, message: "Trailing Stop Triggered"},
		{reason: "manual", message: "manual"},
	}

	for _, tc := range tests {
		t.Run(tc.reason, func(t *testing.T) {
			r := NewReason(tc.reason)
			assert.Equal(t, tc.reason, r.Reason)
			assert.Equal(t, tc.message, r.Message)
		})
	}
}

func TestOrderNotional(t *testing.T) {
	o := Order{Price: 10.5, Quantity: 4}
	assert.Equal(t, 42.0, o.Notional())
}
