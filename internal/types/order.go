package types

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Simon666Z/quantforge/pkg/errors"
)

type PurchaseType string

const (
	PurchaseTypeBuy  PurchaseType = "BUY"
	PurchaseTypeSell PurchaseType = "SELL"
)

const (
	OrderReasonStopLoss     string = "stop_loss"
	OrderReasonTakeProfit   string = "take_profit"
	OrderReasonTrailingStop string = "trailing_stop"
	OrderReasonStrategy     string = "strategy"
)

// reasonMessages are the human readable ledger texts for each order reason.
var reasonMessages = map[string]string{
	OrderReasonStrategy:     "Signal Triggered",
	OrderReasonStopLoss:     "Stop Loss Triggered",
	OrderReasonTakeProfit:   "Take Profit Triggered",
	OrderReasonTrailingStop: "Trailing Stop Triggered",
}

type Reason struct {
	Reason  string `yaml:"reason" json:"reason" csv:"reason" validate:"required"`
	Message string `yaml:"message" json:"message" csv:"message" validate:"required"`
}

// NewReason builds a Reason with the standard ledger message for the given reason code.
func NewReason(reason string) Reason {
	message, ok := reasonMessages[reason]
	if !ok {
		message = reason
	}

	return Reason{Reason: reason, Message: message}
}

// Order is one executed market order. Orders are immutable once emitted.
type Order struct {
	Timestamp time.Time    `yaml:"timestamp" json:"timestamp" csv:"timestamp" validate:"required"`
	BarIndex  int          `yaml:"bar_index" json:"bar_index" csv:"bar_index" validate:"gte=0"`
	Side      PurchaseType `yaml:"side" json:"side" csv:"side" validate:"required,oneof=BUY SELL"`
	// Price is the executed price after slippage.
	Price float64 `yaml:"price" json:"price" csv:"price" validate:"required,gt=0"`
	// QuotedPrice is the bar open the order was filled against.
	QuotedPrice float64 `yaml:"quoted_price" json:"quoted_price" csv:"quoted_price" validate:"required,gt=0"`
	Quantity    float64 `yaml:"quantity" json:"quantity" csv:"quantity" validate:"required,gt=0"`
	// QuantityFraction is the share of equity committed by a buy, or the share of the
	// position closed by a sell.
	QuantityFraction float64 `yaml:"quantity_fraction" json:"quantity_fraction" csv:"quantity_fraction" validate:"gt=0,lte=1"`
	Fee              float64 `yaml:"fee" json:"fee" csv:"fee" validate:"gte=0"`
	Reason           Reason  `yaml:"reason" json:"reason" csv:"reason" validate:"required"`
}

// Validate validates the Order struct.
func (o *Order) Validate() error {
	validate := validator.New()
	if err := validate.Struct(o); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOrder, "invalid order", err)
	}

	return nil
}

// Notional returns executed price times quantity.
func (o *Order) Notional() float64 {
	return o.Price * o.Quantity
}
