package engine

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"

	"github.com/Simon666Z/quantforge/internal/types"
	"github.com/Simon666Z/quantforge/pkg/errors"
)

// cashEpsilon absorbs float noise when a buy spends the whole balance.
var cashEpsilon = decimal.New(1, -9)

type position struct {
	quantity   decimal.Decimal
	cost       decimal.Decimal
	fees       decimal.Decimal
	entryPrice float64
	entryIndex int
	entryTime  time.Time
	// highestClose is 0 until the first close after entry and only moves up.
	highestClose float64
}

// BacktestState tracks the cash, the open position and the orders of one simulation.
// It is owned by a single run and is not safe for concurrent use.
type BacktestState struct {
	cash       decimal.Decimal
	position   optional.Option[position]
	orders     []types.Order
	roundTrips []types.RoundTrip
}

func NewBacktestState(initialCapital float64) *BacktestState {
	return &BacktestState{
		cash:       decimal.NewFromFloat(initialCapital),
		position:   optional.None[position](),
		orders:     []types.Order{},
		roundTrips: []types.RoundTrip{},
	}
}

// Cash returns the uninvested balance.
func (b *BacktestState) Cash() float64 {
	return b.cash.InexactFloat64()
}

// HasPosition reports whether a position is open.
func (b *BacktestState) HasPosition() bool {
	return b.position.IsSome()
}

// Quantity returns the size of the open position, or 0.
func (b *BacktestState) Quantity() float64 {
	if b.position.IsNone() {
		return 0
	}

	return b.position.Unwrap().quantity.InexactFloat64()
}

// EntryPrice returns the average executed entry price of the open position, or 0.
func (b *BacktestState) EntryPrice() float64 {
	if b.position.IsNone() {
		return 0
	}

	return b.position.Unwrap().entryPrice
}

// HighestClose returns the highest close observed since the position was opened, or 0.
func (b *BacktestState) HighestClose() float64 {
	if b.position.IsNone() {
		return 0
	}

	return b.position.Unwrap().highestClose
}

// MarkClose records a closing price for the trailing stop.
func (b *BacktestState) MarkClose(price float64) {
	if b.position.IsNone() {
		return
	}

	pos := b.position.Unwrap()
	if price > pos.highestClose {
		pos.highestClose = price
		b.position = optional.Some(pos)
	}
}

// Equity returns cash plus the open position valued at price.
func (b *BacktestState) Equity(price float64) float64 {
	equity := b.cash
	if b.position.IsSome() {
		equity = equity.Add(b.position.Unwrap().quantity.Mul(decimal.NewFromFloat(price)))
	}

	return equity.InexactFloat64()
}

// Buy books a BUY order. Buying while a position is open adds to it and averages the entry price.
func (b *BacktestState) Buy(order types.Order) error {
	if order.Side != types.PurchaseTypeBuy {
		return errors.Newf(errors.ErrCodeInvalidOrder, "expected a BUY order, got %s", order.Side)
	}

	quantity := decimal.NewFromFloat(order.Quantity)
	fee := decimal.NewFromFloat(order.Fee)
	cost := quantity.Mul(decimal.NewFromFloat(order.Price)).Add(fee)

	if cost.Sub(b.cash).GreaterThan(cashEpsilon) {
		return errors.Newf(errors.ErrCodeOrderFailed, "insufficient cash: need %s, have %s",
			cost.StringFixed(2), b.cash.StringFixed(2))
	}

	b.cash = b.cash.Sub(cost)
	if b.cash.IsNegative() {
		b.cash = decimal.Zero
	}

	pos := position{
		quantity:   quantity,
		cost:       cost,
		fees:       fee,
		entryPrice: order.Price,
		entryIndex: order.BarIndex,
		entryTime:  order.Timestamp,
	}

	if b.position.IsSome() {
		existing := b.position.Unwrap()
		total := existing.quantity.Add(quantity)
		notional := existing.quantity.Mul(decimal.NewFromFloat(existing.entryPrice)).
			Add(quantity.Mul(decimal.NewFromFloat(order.Price)))

		pos = existing
		pos.quantity = total
		pos.cost = existing.cost.Add(cost)
		pos.fees = existing.fees.Add(fee)
		pos.entryPrice = notional.Div(total).InexactFloat64()
	}

	b.position = optional.Some(pos)
	b.orders = append(b.orders, order)

	return nil
}

// Sell books a SELL order that closes the whole position and returns the completed round trip.
func (b *BacktestState) Sell(order types.Order) (types.RoundTrip, error) {
	if order.Side != types.PurchaseTypeSell {
		return types.RoundTrip{}, errors.Newf(errors.ErrCodeInvalidOrder, "expected a SELL order, got %s", order.Side)
	}

	pos, err := b.position.Take()
	if err != nil {
		return types.RoundTrip{}, errors.New(errors.ErrCodeOrderFailed, "no open position to sell")
	}

	fee := decimal.NewFromFloat(order.Fee)
	proceeds := pos.quantity.Mul(decimal.NewFromFloat(order.Price)).Sub(fee)

	b.cash = b.cash.Add(proceeds)
	if b.cash.IsNegative() {
		b.cash = decimal.Zero
	}

	trip := types.RoundTrip{
		EntryTime:    pos.entryTime,
		ExitTime:     order.Timestamp,
		EntryIndex:   pos.entryIndex,
		ExitIndex:    order.BarIndex,
		Quantity:     pos.quantity.InexactFloat64(),
		EntryCost:    pos.cost.InexactFloat64(),
		ExitProceeds: proceeds.InexactFloat64(),
		Fees:         pos.fees.Add(fee).InexactFloat64(),
		ExitReason:   order.Reason.Reason,
	}

	b.position = optional.None[position]()
	b.orders = append(b.orders, order)
	b.roundTrips = append(b.roundTrips, trip)

	return trip, nil
}

// Orders returns every booked order in booking order.
func (b *BacktestState) Orders() []types.Order {
	return b.orders
}

// RoundTrips returns every closed round trip.
func (b *BacktestState) RoundTrips() []types.RoundTrip {
	return b.roundTrips
}
