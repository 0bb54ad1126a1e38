package api

import (
	"time"

	"github.com/moznion/go-optional"

	enginev1 "github.com/Simon666Z/quantforge/internal/backtest/engine/engine_v1"
	"github.com/Simon666Z/quantforge/internal/scan"
	"github.com/Simon666Z/quantforge/internal/strategy"
	"github.com/Simon666Z/quantforge/internal/types"
	"github.com/Simon666Z/quantforge/pkg/codegen"
	"github.com/Simon666Z/quantforge/pkg/errors"
)

// MarketDataPoint is one daily bar in the market data response.
type MarketDataPoint struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// SearchResultItem is one ticker match.
type SearchResultItem struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Exchange string `json:"exchange"`
}

// BacktestRequest runs one strategy on one ticker. Nil overrides keep the server defaults.
type BacktestRequest struct {
	Ticker         string             `json:"ticker" validate:"required"`
	StartDate      string             `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate        string             `json:"endDate" validate:"required,datetime=2006-01-02"`
	Strategy       types.StrategyType `json:"strategy" validate:"required"`
	Params         strategy.Params    `json:"params"`
	InitialCapital *float64           `json:"initialCapital,omitempty"`
	Fees           *float64           `json:"fees,omitempty"`
	Slippage       *float64           `json:"slippage,omitempty"`
	SizePercent    *float64           `json:"sizePercent,omitempty"`
	StopLoss       *float64           `json:"stopLoss,omitempty"`
	TakeProfit     *float64           `json:"takeProfit,omitempty"`
	TrailingStop   *float64           `json:"trailingStop,omitempty"`
	MetricsStart   string             `json:"metricsStart,omitempty" validate:"omitempty,datetime=2006-01-02"`
	MetricsEnd     string             `json:"metricsEnd,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// engineConfig overlays the request on base and validates the result.
func (r BacktestRequest) engineConfig(base enginev1.BacktestEngineV1Config) (enginev1.BacktestEngineV1Config, error) {
	config := base

	if r.InitialCapital != nil {
		config.InitialCapital = *r.InitialCapital
	}

	if r.Fees != nil {
		config.Fees = *r.Fees
	}

	if r.Slippage != nil {
		config.Slippage = *r.Slippage
	}

	if r.SizePercent != nil {
		config.SizePercent = *r.SizePercent
	}

	if r.StopLoss != nil {
		config.StopLoss = optional.Some(*r.StopLoss)
	}

	if r.TakeProfit != nil {
		config.TakeProfit = optional.Some(*r.TakeProfit)
	}

	if r.TrailingStop != nil {
		config.TrailingStop = optional.Some(*r.TrailingStop)
	}

	if r.MetricsStart != "" {
		config.MetricsStart = optional.Some(mustDate(r.MetricsStart))
	}

	if r.MetricsEnd != "" {
		config.MetricsEnd = optional.Some(mustDate(r.MetricsEnd))
	}

	if err := config.Validate(); err != nil {
		return enginev1.BacktestEngineV1Config{}, err
	}

	return config, nil
}

// ScreenerRequest is the JSON form of scan.ScreenRequest.
type ScreenerRequest struct {
	Tickers   []string           `json:"tickers" validate:"required,min=1,max=200,dive,required"`
	StartDate string             `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string             `json:"endDate" validate:"required,datetime=2006-01-02"`
	Strategy  types.StrategyType `json:"strategy" validate:"required"`
	Params    strategy.Params    `json:"params"`
}

func (r ScreenerRequest) toScan() scan.ScreenRequest {
	return scan.ScreenRequest{
		Tickers:  r.Tickers,
		Start:    mustDate(r.StartDate),
		End:      mustDate(r.EndDate),
		Strategy: r.Strategy,
		Params:   r.Params,
	}
}

// StressTestRequest is the JSON form of scan.StressRequest. An empty scenario list runs all of them.
type StressTestRequest struct {
	Ticker     string             `json:"ticker" validate:"required"`
	Scenarios  []string           `json:"scenarios"`
	Strategy   types.StrategyType `json:"strategy" validate:"required"`
	Params     strategy.Params    `json:"params"`
	WarmupDays int                `json:"warmupDays" validate:"gte=0,lte=3650"`
}

func (r StressTestRequest) toScan() scan.StressRequest {
	scenarios := r.Scenarios
	if len(scenarios) == 0 {
		for _, s := range scan.Scenarios() {
			scenarios = append(scenarios, s.Name)
		}
	}

	return scan.StressRequest{
		Ticker:     r.Ticker,
		Scenarios:  scenarios,
		Strategy:   r.Strategy,
		Params:     r.Params,
		WarmupDays: r.WarmupDays,
	}
}

// CodegenRequest selects a framework and describes the strategy to render.
type CodegenRequest struct {
	Framework      codegen.Framework  `json:"framework" validate:"required,oneof=pseudocode vectorbt backtrader"`
	Ticker         string             `json:"ticker" validate:"required"`
	Strategy       types.StrategyType `json:"strategy"`
	Params         strategy.Params    `json:"params"`
	Fees           float64            `json:"fees"`
	Slippage       float64            `json:"slippage"`
	InitialCapital float64            `json:"initialCapital"`
}

// CodegenResponse carries the generated source.
type CodegenResponse struct {
	Framework codegen.Framework `json:"framework"`
	Code      string            `json:"code"`
}

// PresetRequest is the body of a preset save. The user is taken from the URL.
type PresetRequest struct {
	Name     string             `json:"name" validate:"required"`
	Strategy types.StrategyType `json:"strategy" validate:"required"`
	Params   strategy.Params    `json:"params"`
}

// ScanResponse wraps the unit results of a screener or stress test.
type ScanResponse struct {
	Results []scan.UnitResult `json:"results"`
}

// parseDate parses a YYYY-MM-DD query value.
func parseDate(name string, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.Newf(errors.ErrCodeMissingParameter, "%s is required", name)
	}

	t, err := time.Parse(types.DateLayout, value)
	if err != nil {
		return time.Time{}, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "%s must be YYYY-MM-DD", name)
	}

	return t, nil
}

// mustDate parses a value already checked by the datetime validator.
func mustDate(value string) time.Time {
	t, _ := time.Parse(types.DateLayout, value)

	return t
}
