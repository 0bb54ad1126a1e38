package engine

import (
	"math"

	"github.com/Simon666Z/quantforge/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/Simon666Z/quantforge/internal/types"
	"github.com/Simon666Z/quantforge/internal/utils"
	"github.com/Simon666Z/quantforge/pkg/errors"
)

// Simulation is the bar-by-bar outcome of replaying signals against a bar series.
type Simulation struct {
	// Shifted are the signals actually acted on: raw signals moved one bar forward.
	Shifted types.SignalSet
	// RiskExits marks bars whose close triggered a risk rule.
	// The position is closed at the next bar's open.
	RiskExits  []bool
	Orders     []types.Order
	RoundTrips []types.RoundTrip
	// Equity[i] is cash plus the open position valued at bar i's close.
	Equity    []float64
	FinalCash float64
}

// FinalEquity returns the equity at the last bar.
func (s Simulation) FinalEquity() float64 {
	if len(s.Equity) == 0 {
		return 0
	}

	return s.Equity[len(s.Equity)-1]
}

// BacktestTrading replays entry and exit signals as market orders filled at the open.
type BacktestTrading struct {
	config     BacktestEngineV1Config
	commission commission_fee.CommissionFee
}

func NewBacktestTrading(config BacktestEngineV1Config) *BacktestTrading {
	return &BacktestTrading{
		config:     config,
		commission: commission_fee.GetCommissionFeeHandler(config.Broker, config.Fees),
	}
}

// Simulate walks the bars once. On every bar it first closes the position if a risk rule fired at
// the previous close, otherwise on a shifted exit. It then opens (or, with accumulation, adds to)
// a position on a shifted entry, unless an order was already filled on that bar or the same bar
// also carries an exit. Risk rules are checked at each close while a position is open.
func (b *BacktestTrading) Simulate(bars types.BarSeries, signals types.SignalSet) (Simulation, error) {
	if signals.Len() != bars.Len() {
		return Simulation{}, errors.Newf(errors.ErrCodeMalformedBarSeries,
			"signals cover %d bars but the series has %d", signals.Len(), bars.Len())
	}

	state := NewBacktestState(b.config.InitialCapital)
	shifted := signals.Shift()
	riskExits := make([]bool, bars.Len())
	equity := make([]float64, bars.Len())
	pendingRisk := ""

	for i := 0; i < bars.Len(); i++ {
		filled := false

		if state.HasPosition() {
			reason := pendingRisk
			if reason == "" && shifted.Exits[i] {
				reason = types.OrderReasonStrategy
			}

			if reason != "" {
				if err := b.sell(state, bars, i, reason); err != nil {
					return Simulation{}, err
				}

				filled = true
			}
		}

		pendingRisk = ""

		if !filled && shifted.Entries[i] && !shifted.Exits[i] && (!state.HasPosition() || b.config.Accumulate) {
			if err := b.buy(state, bars, i); err != nil {
				return Simulation{}, err
			}
		}

		if state.HasPosition() {
			state.MarkClose(bars.Close[i])
			pendingRisk = b.riskTrigger(state, bars.Close[i])
			riskExits[i] = pendingRisk != ""
		}

		equity[i] = state.Equity(bars.Close[i])
	}

	return Simulation{
		Shifted:    shifted,
		RiskExits:  riskExits,
		Orders:     state.Orders(),
		RoundTrips: state.RoundTrips(),
		Equity:     equity,
		FinalCash:  state.Cash(),
	}, nil
}

// riskTrigger returns the reason of the first risk rule met at closePrice, or "".
// A trailing stop replaces the static stop loss, and stops are checked before take profit.
func (b *BacktestTrading) riskTrigger(state *BacktestState, closePrice float64) string {
	entry := state.EntryPrice()

	if b.config.TrailingStop.IsSome() {
		if closePrice <= state.HighestClose()*(1-b.config.TrailingStop.Unwrap()) {
			return types.OrderReasonTrailingStop
		}
	} else if b.config.StopLoss.IsSome() {
		if closePrice <= entry*(1-b.config.StopLoss.Unwrap()) {
			return types.OrderReasonStopLoss
		}
	}

	if b.config.TakeProfit.IsSome() && closePrice >= entry*(1+b.config.TakeProfit.Unwrap()) {
		return types.OrderReasonTakeProfit
	}

	return ""
}

// buy sizes an order as a share of current equity, capped by the available cash.
// Nothing is bought when the budget cannot cover a single unit at the configured precision.
func (b *BacktestTrading) buy(state *BacktestState, bars types.BarSeries, i int) error {
	quoted := bars.Open[i]
	price := quoted * (1 + b.config.Slippage)
	equity := state.Equity(quoted)

	budget := math.Min(state.Cash(), equity*b.config.SizePercent)
	if budget <= 0 || equity <= 0 {
		return nil
	}

	quantity := math.Min(
		utils.CalculateOrderQuantityByPercentage(equity, price, b.commission, b.config.SizePercent),
		utils.CalculateMaxQuantity(state.Cash(), price, b.commission),
	)
	quantity = utils.RoundToDecimalPrecision(quantity, b.config.DecimalPrecision)

	if quantity <= 0 {
		return nil
	}

	order := types.Order{
		Timestamp:        bars.Times[i],
		BarIndex:         i,
		Side:             types.PurchaseTypeBuy,
		Price:            price,
		QuotedPrice:      quoted,
		Quantity:         quantity,
		QuantityFraction: math.Min(1, budget/equity),
		Fee:              b.commission.Calculate(quantity, price),
		Reason:           types.NewReason(types.OrderReasonStrategy),
	}

	if err := order.Validate(); err != nil {
		return err
	}

	return state.Buy(order)
}

// sell closes the whole position at the bar open.
func (b *BacktestTrading) sell(state *BacktestState, bars types.BarSeries, i int, reason string) error {
	quoted := bars.Open[i]
	price := quoted * (1 - b.config.Slippage)
	quantity := state.Quantity()

	order := types.Order{
		Timestamp:        bars.Times[i],
		BarIndex:         i,
		Side:             types.PurchaseTypeSell,
		Price:            price,
		QuotedPrice:      quoted,
		Quantity:         quantity,
		QuantityFraction: 1,
		Fee:              b.commission.Calculate(quantity, price),
		Reason:           types.NewReason(reason),
	}

	if err := order.Validate(); err != nil {
		return err
	}

	_, err := state.Sell(order)

	return err
}
