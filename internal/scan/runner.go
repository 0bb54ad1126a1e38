package scan

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	enginev1 "github.com/Simon666Z/quantforge/internal/backtest/engine/engine_v1"
	"github.com/Simon666Z/quantforge/internal/logger"
	"github.com/Simon666Z/quantforge/internal/strategy"
	"github.com/Simon666Z/quantforge/internal/types"
	"github.com/Simon666Z/quantforge/pkg/errors"
	"github.com/Simon666Z/quantforge/pkg/marketdata"
)

const (
	DefaultConcurrency = 4
	DefaultWarmupDays  = 365
)

// OnProgress is called after every finished unit. It may be called from several goroutines.
type OnProgress func(done int, total int)

// ScreenRequest runs one strategy over many tickers on the same date range.
type ScreenRequest struct {
	Tickers  []string           `json:"tickers" validate:"required,min=1,dive,required"`
	Start    time.Time          `json:"start" validate:"required"`
	End      time.Time          `json:"end" validate:"required,gtefield=Start"`
	Strategy types.StrategyType `json:"strategy" validate:"required"`
	Params   strategy.Params    `json:"params"`
}

// StressRequest runs one strategy on one ticker over named historical windows.
type StressRequest struct {
	Ticker    string             `json:"ticker" validate:"required"`
	Scenarios []string           `json:"scenarios" validate:"required,min=1"`
	Strategy  types.StrategyType `json:"strategy" validate:"required"`
	Params    strategy.Params    `json:"params"`
	// WarmupDays of history are fetched before each window so indicators are defined at its start.
	// Zero selects DefaultWarmupDays.
	WarmupDays int `json:"warmupDays" validate:"gte=0"`
}

// UnitResult is the outcome of one ticker or one scenario. Err is set when the unit failed,
// in which case the remaining fields are zero.
type UnitResult struct {
	Ticker   string        `json:"ticker"`
	Scenario string        `json:"scenario,omitempty"`
	Outcome  types.Outcome `json:"outcome,omitempty"`
	Metrics  types.Metrics `json:"metrics"`
	// EntrySignal and ExitSignal are the strategy signals on the most recent bar.
	EntrySignal bool   `json:"entrySignal"`
	ExitSignal  bool   `json:"exitSignal"`
	Bars        int    `json:"bars"`
	Error       string `json:"error,omitempty"`
	Err         error  `json:"-"`
}

// Failed reports whether the unit produced no result.
func (u UnitResult) Failed() bool {
	return u.Err != nil
}

type Option func(*Runner)

// WithConcurrency bounds the number of units running at once. Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n >= 1 {
			r.concurrency = n
		}
	}
}

func WithProgress(onProgress OnProgress) Option {
	return func(r *Runner) {
		r.onProgress = onProgress
	}
}

// Runner fans backtests out over tickers or scenarios. Every unit gets its own engine.
type Runner struct {
	source      marketdata.Source
	config      enginev1.BacktestEngineV1Config
	log         *logger.Logger
	validate    *validator.Validate
	concurrency int
	onProgress  OnProgress
}

// NewRunner validates config and returns a runner reading bars from source.
func NewRunner(source marketdata.Source, config enginev1.BacktestEngineV1Config, log *logger.Logger, opts ...Option) (*Runner, error) {
	if source == nil {
		return nil, errors.New(errors.ErrCodeMissingParameter, "market data source is required")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	r := &Runner{
		source:      source,
		config:      config,
		log:         log,
		validate:    validator.New(),
		concurrency: DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Screen backtests req.Strategy on every ticker. Results follow the order of req.Tickers.
// A failing ticker is recorded in its UnitResult and does not stop the others.
// The returned error is non-nil only for an invalid request or a cancelled ctx.
func (r *Runner) Screen(ctx context.Context, req ScreenRequest) ([]UnitResult, error) {
	if err := r.validate.Struct(req); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid screen request", err)
	}

	units := make([]unit, len(req.Tickers))
	for i, ticker := range req.Tickers {
		units[i] = unit{
			result: UnitResult{Ticker: ticker},
			run: func(ctx context.Context, result UnitResult) UnitResult {
				return r.runUnit(ctx, result, r.config, req.Start, req.End, req.Strategy, req.Params)
			},
		}
	}

	return r.fanOut(ctx, "screen", units)
}

// StressTest backtests req.Strategy on req.Ticker once per scenario, scoping metrics to the
// scenario window. Results follow the order of req.Scenarios.
func (r *Runner) StressTest(ctx context.Context, req StressRequest) ([]UnitResult, error) {
	if err := r.validate.Struct(req); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid stress test request", err)
	}

	warmup := req.WarmupDays
	if warmup == 0 {
		warmup = DefaultWarmupDays
	}

	units := make([]unit, len(req.Scenarios))
	for i, name := range req.Scenarios {
		units[i] = unit{
			result: UnitResult{Ticker: req.Ticker, Scenario: name},
			run: func(ctx context.Context, result UnitResult) UnitResult {
				scenario, err := LookupScenario(name)
				if err != nil {
					return r.logFailure(failed(result, err))
				}

				config := r.config
				config.MetricsStart = optional.Some(scenario.Start)
				config.MetricsEnd = optional.Some(scenario.End)

				return r.runUnit(ctx, result, config, scenario.Start.AddDate(0, 0, -warmup), scenario.End, req.Strategy, req.Params)
			},
		}
	}

	return r.fanOut(ctx, "stress", units)
}

// unit is one backtest of a fan-out. result carries the identity fields before it runs.
type unit struct {
	result UnitResult
	run    func(ctx context.Context, result UnitResult) UnitResult
}

func (r *Runner) fanOut(ctx context.Context, kind string, units []unit) ([]UnitResult, error) {
	results := make([]UnitResult, len(units))

	var done atomic.Int64

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.concurrency)

	for i, u := range units {
		group.Go(func() error {
			// abandoned once the caller cancels
			if err := groupCtx.Err(); err != nil {
				results[i] = failed(u.result, err)
			} else {
				results[i] = u.run(groupCtx, u.result)
			}

			if r.onProgress != nil {
				r.onProgress(int(done.Add(1)), len(units))
			}

			return nil
		})
	}

	_ = group.Wait()

	failures := 0

	for _, res := range results {
		if res.Failed() {
			failures++
		}
	}

	r.log.Debug("Scan finished",
		zap.String("kind", kind),
		zap.Int("units", len(units)),
		zap.Int("failed", failures),
	)

	return results, ctx.Err()
}

func (r *Runner) runUnit(ctx context.Context, result UnitResult, config enginev1.BacktestEngineV1Config,
	start time.Time, end time.Time, strategyType types.StrategyType, params strategy.Params) UnitResult {
	bars, err := r.source.Fetch(ctx, result.Ticker, start, end)
	if err != nil {
		return r.logFailure(failed(result, err))
	}

	engine, err := enginev1.NewBacktestEngineV1(config, r.log)
	if err != nil {
		return r.logFailure(failed(result, err))
	}

	backtest, err := engine.Run(bars, strategyType, params)
	if err != nil {
		return r.logFailure(failed(result, err))
	}

	result.Outcome = backtest.Outcome
	result.Metrics = backtest.Metrics
	result.Bars = bars.Len()

	if n := len(backtest.Entries); n > 0 {
		result.EntrySignal = backtest.Entries[n-1]
		result.ExitSignal = backtest.Exits[n-1]
	}

	return result
}

func (r *Runner) logFailure(result UnitResult) UnitResult {
	r.log.Warn("Scan unit failed",
		zap.String("ticker", result.Ticker),
		zap.String("scenario", result.Scenario),
		zap.Error(result.Err),
	)

	return result
}

func failed(result UnitResult, err error) UnitResult {
	result.Err = err
	result.Error = err.Error()

	return result
}
