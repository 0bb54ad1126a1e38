package engine

import (
	"go.uber.org/zap"

	"github.com/Simon666Z/quantforge/internal/backtest/engine"
	"github.com/Simon666Z/quantforge/internal/logger"
	"github.com/Simon666Z/quantforge/internal/strategy"
	"github.com/Simon666Z/quantforge/internal/types"
	"github.com/Simon666Z/quantforge/internal/version"
)

type BacktestEngineV1 struct {
	config  BacktestEngineV1Config
	log     *logger.Logger
	trading *BacktestTrading
}

// NewBacktestEngineV1 validates config and returns an engine. A nil log discards output.
func NewBacktestEngineV1(config BacktestEngineV1Config, log *logger.Logger) (engine.Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &BacktestEngineV1{
		config:  config,
		log:     log,
		trading: NewBacktestTrading(config),
	}, nil
}

// NewBacktestEngineV1FromYAML builds an engine from a YAML configuration document.
func NewBacktestEngineV1FromYAML(content []byte, log *logger.Logger) (engine.Engine, error) {
	config, err := LoadConfig(content)
	if err != nil {
		return nil, err
	}

	return NewBacktestEngineV1(config, log)
}

// Config returns the validated configuration.
func (b *BacktestEngineV1) Config() BacktestEngineV1Config {
	return b.config
}

// Run implements engine.Engine.
func (b *BacktestEngineV1) Run(bars types.BarSeries, strategyType types.StrategyType, params strategy.Params) (types.BacktestResult, error) {
	if err := bars.Validate(); err != nil {
		return types.BacktestResult{}, err
	}

	b.log.Debug("Backtest started",
		zap.String("symbol", bars.Symbol),
		zap.String("strategy", string(strategyType)),
		zap.Int("bars", bars.Len()),
	)

	generated := strategy.Generate(bars, strategyType, params)
	if generated.IsFlat() {
		b.log.Warn("Strategy degraded to flat",
			zap.String("strategy", string(strategyType)),
			zap.Error(generated.Reason),
		)
	}

	sim, err := b.trading.Simulate(bars, generated.Signals)
	if err != nil {
		return types.BacktestResult{}, err
	}

	result := types.BacktestResult{
		EngineVersion: version.Version,
		Symbol:        bars.Symbol,
		Strategy:      strategyType,
		Outcome:       generated.Outcome,
		Indicators:    generated.Indicators,
		Entries:       generated.Signals.Entries,
		Exits:         generated.Signals.Exits,
		Times:         bars.Times,
		Equity:        sim.Equity,
		Orders:        sim.Orders,
		RoundTrips:    sim.RoundTrips,
		Trades:        []types.LedgerEntry{},
	}

	if generated.Reason != nil {
		result.FlatReason = generated.Reason.Error()
	}

	w, ok := b.reportingWindow(bars, sim.Equity)
	if ok {
		result.Metrics = calculateMetrics(sim, w)
		result.Trades = buildLedger(sim.Orders, w)
	} else {
		b.log.Warn("Metrics window contains no bars",
			zap.String("symbol", bars.Symbol),
			zap.Int("bars", bars.Len()),
		)
	}

	b.log.Debug("Backtest finished",
		zap.String("symbol", bars.Symbol),
		zap.String("strategy", string(strategyType)),
		zap.String("outcome", string(result.Outcome)),
		zap.Int("entries", generated.Signals.CountEntries()),
		zap.Int("exits", generated.Signals.CountExits()),
		zap.Int("orders", len(sim.Orders)),
		zap.Float64("final_equity", sim.FinalEquity()),
		zap.Float64("total_return", result.Metrics.TotalReturn),
	)

	return result, nil
}

// GetConfigSchema implements engine.Engine.
func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	return b.config.GenerateSchemaJSON()
}
