package engine

import (
	"math"
	"slices"

	"github.com/Simon666Z/quantforge/internal/types"
)

// TradingDaysPerYear annualizes the Sharpe ratio.
const TradingDaysPerYear = 252

// window is the inclusive range of bars that metrics and the ledger report on.
type window struct {
	first int
	last  int
	// startEquity is the equity right before the first bar of the window.
	startEquity float64
}

func (w window) contains(i int) bool {
	return i >= w.first && i <= w.last
}

// reportingWindow resolves the configured metrics window. ok is false when no bar falls inside it.
func (b *BacktestEngineV1) reportingWindow(bars types.BarSeries, equity []float64) (window, bool) {
	first, last, ok := bars.IndexRange(b.config.MetricsStart, b.config.MetricsEnd)
	if !ok {
		return window{}, false
	}

	start := b.config.InitialCapital
	if first > 0 {
		start = equity[first-1]
	}

	return window{first: first, last: last, startEquity: start}, true
}

// calculateMetrics re-scopes a finished simulation to the window. It never re-runs the simulation.
func calculateMetrics(sim Simulation, w window) types.Metrics {
	equity := sim.Equity[w.first : w.last+1]
	final := equity[len(equity)-1]

	metrics := types.Metrics{
		InitialCapital: w.startEquity,
		FinalCapital:   final,
		MaxDrawdown:    maxDrawdown(w.startEquity, equity),
		SharpeRatio:    sharpeRatio(dailyReturns(w.startEquity, equity)),
	}

	if w.startEquity > 0 {
		metrics.TotalReturn = (final/w.startEquity - 1) * 100
	}

	for _, order := range sim.Orders {
		if w.contains(order.BarIndex) {
			metrics.TradeCount++
		}
	}

	wins, closed := 0, 0

	for _, trip := range sim.RoundTrips {
		if !w.contains(trip.ExitIndex) {
			continue
		}

		closed++

		if trip.IsWin() {
			wins++
		}
	}

	if closed > 0 {
		metrics.WinRate = float64(wins) / float64(closed) * 100
	}

	return metrics
}

// maxDrawdown returns the largest decline from a running peak, in percent.
// The peak starts at start, the equity right before the first value.
func maxDrawdown(start float64, equity []float64) float64 {
	peak := start
	worst := 0.0

	for _, value := range equity {
		if value > peak {
			peak = value
		}

		if peak <= 0 {
			continue
		}

		if dd := (peak - value) / peak; dd > worst {
			worst = dd
		}
	}

	return worst * 100
}

// dailyReturns returns the bar-over-bar returns of equity. The first return is measured against start.
func dailyReturns(start float64, equity []float64) []float64 {
	returns := make([]float64, 0, len(equity))
	prev := start

	for _, value := range equity {
		r := 0.0
		if prev > 0 {
			r = value/prev - 1
		}

		returns = append(returns, r)
		prev = value
	}

	return returns
}

// sharpeRatio annualizes mean over sample standard deviation of returns.
// Fewer than two returns or zero variance give 0.
func sharpeRatio(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}

	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}

	std := math.Sqrt(variance / float64(len(returns)-1))
	if std == 0 || math.IsNaN(std) {
		return 0
	}

	sharpe := mean / std * math.Sqrt(TradingDaysPerYear)
	if math.IsNaN(sharpe) || math.IsInf(sharpe, 0) {
		return 0
	}

	return sharpe
}

// buildLedger lists the orders filled inside the window, oldest first.
func buildLedger(orders []types.Order, w window) []types.LedgerEntry {
	inWindow := make([]types.Order, 0, len(orders))
	for _, order := range orders {
		if w.contains(order.BarIndex) {
			inWindow = append(inWindow, order)
		}
	}

	slices.SortStableFunc(inWindow, func(a, b types.Order) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	ledger := make([]types.LedgerEntry, 0, len(inWindow))
	for _, order := range inWindow {
		ledger = append(ledger, types.LedgerEntry{
			Date:   order.Timestamp.Format(types.DateLayout),
			Type:   order.Side,
			Price:  order.Price,
			Reason: order.Reason.Message,
		})
	}

	return ledger
}
