package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoundTrip is a matched open-then-close position pair.
type RoundTrip struct {
	EntryTime  time.Time `yaml:"entry_time" json:"entry_time" csv:"entry_time"`
	ExitTime   time.Time `yaml:"exit_time" json:"exit_time" csv:"exit_time"`
	EntryIndex int       `yaml:"entry_index" json:"entry_index" csv:"entry_index"`
	ExitIndex  int       `yaml:"exit_index" json:"exit_index" csv:"exit_index"`
	Quantity   float64   `yaml:"quantity" json:"quantity" csv:"quantity"`
	// EntryCost is the cash spent opening the position, fees included.
	EntryCost float64 `yaml:"entry_cost" json:"entry_cost" csv:"entry_cost"`
	// ExitProceeds is the cash received closing the position, fees deducted.
	ExitProceeds float64 `yaml:"exit_proceeds" json:"exit_proceeds" csv:"exit_proceeds"`
	Fees         float64 `yaml:"fees" json:"fees" csv:"fees"`
	ExitReason   string  `yaml:"exit_reason" json:"exit_reason" csv:"exit_reason"`
}

// PnL returns the realized profit and loss of the round trip.
// For example, buying 10 shares for $1,001 (fee included) and selling them for $1,097
// (fee deducted) realizes $96.
func (r RoundTrip) PnL() decimal.Decimal {
	return decimal.NewFromFloat(r.ExitProceeds).Sub(decimal.NewFromFloat(r.EntryCost))
}

// ReturnPct returns the realized return of the round trip in percent.
func (r RoundTrip) ReturnPct() float64 {
	if r.EntryCost == 0 {
		return 0
	}

	pct, _ := r.PnL().Div(decimal.NewFromFloat(r.EntryCost)).Mul(decimal.NewFromInt(100)).Float64()

	return pct
}

// IsWin reports whether the round trip realized a positive P&L.
func (r RoundTrip) IsWin() bool {
	return r.PnL().IsPositive()
}

// HoldingBars returns the number of bars between entry and exit.
func (r RoundTrip) HoldingBars() int {
	return r.ExitIndex - r.EntryIndex
}
