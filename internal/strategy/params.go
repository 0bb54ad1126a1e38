package strategy

import (
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/Simon666Z/quantforge/internal/indicator"
	"github.com/Simon666Z/quantforge/pkg/errors"
)

// paramSet is implemented by every typed parameter struct.
type paramSet interface {
	// lookback is the longest window the strategy reads.
	lookback() int
}

// CrossoverParams configures SMA_CROSSOVER and EMA_CROSSOVER.
type CrossoverParams struct {
	ShortWindow int `mapstructure:"shortWindow" validate:"gte=1"`
	LongWindow  int `mapstructure:"longWindow" validate:"gte=1"`
}

func (p CrossoverParams) lookback() int {
	return max(p.ShortWindow, p.LongWindow)
}

func DefaultCrossoverParams() CrossoverParams {
	return CrossoverParams{ShortWindow: 20, LongWindow: 50}
}

// RSIReversalParams configures RSI_REVERSAL.
type RSIReversalParams struct {
	RSIPeriod     int     `mapstructure:"rsiPeriod" validate:"gte=1"`
	RSIOversold   float64 `mapstructure:"rsiOversold" validate:"gte=0,lte=100,ltfield=RSIOverbought"`
	RSIOverbought float64 `mapstructure:"rsiOverbought" validate:"gte=0,lte=100"`
}

func (p RSIReversalParams) lookback() int {
	return p.RSIPeriod
}

func DefaultRSIReversalParams() RSIReversalParams {
	return RSIReversalParams{RSIPeriod: 14, RSIOversold: 30, RSIOverbought: 70}
}

// BollingerParams configures BOLLINGER_BANDS.
type BollingerParams struct {
	BBPeriod int     `mapstructure:"bbPeriod" validate:"gte=1"`
	BBStdDev float64 `mapstructure:"bbStdDev" validate:"gt=0"`
}

func (p BollingerParams) lookback() int {
	return p.BBPeriod
}

func DefaultBollingerParams() BollingerParams {
	return BollingerParams{BBPeriod: 20, BBStdDev: 2.0}
}

// MACDParams configures MACD.
type MACDParams struct {
	MACDFast   int `mapstructure:"macdFast" validate:"gte=1"`
	MACDSlow   int `mapstructure:"macdSlow" validate:"gte=1"`
	MACDSignal int `mapstructure:"macdSignal" validate:"gte=1"`
}

func (p MACDParams) lookback() int {
	return max(p.MACDFast, p.MACDSlow, p.MACDSignal)
}

func DefaultMACDParams() MACDParams {
	return MACDParams{MACDFast: 12, MACDSlow: 26, MACDSignal: 9}
}

// MomentumParams configures MOMENTUM.
type MomentumParams struct {
	ROCPeriod int `mapstructure:"rocPeriod" validate:"gte=1"`
}

func (p MomentumParams) lookback() int {
	return p.ROCPeriod
}

func DefaultMomentumParams() MomentumParams {
	return MomentumParams{ROCPeriod: 12}
}

// TrendRSIParams configures TREND_RSI.
type TrendRSIParams struct {
	TrendMA       int     `mapstructure:"trendMa" validate:"gte=1"`
	RSIPeriod     int     `mapstructure:"rsiPeriod" validate:"gte=1"`
	RSIOversold   float64 `mapstructure:"rsiOversold" validate:"gte=0,lte=100,ltfield=RSIOverbought"`
	RSIOverbought float64 `mapstructure:"rsiOverbought" validate:"gte=0,lte=100"`
}

func (p TrendRSIParams) lookback() int {
	return max(p.TrendMA, p.RSIPeriod)
}

func DefaultTrendRSIParams() TrendRSIParams {
	return TrendRSIParams{TrendMA: 200, RSIPeriod: 14, RSIOversold: 30, RSIOverbought: 70}
}

// VolatilityFilterParams configures VOLATILITY_FILTER.
type VolatilityFilterParams struct {
	ADXPeriod    int     `mapstructure:"adxPeriod" validate:"gte=1"`
	ADXThreshold float64 `mapstructure:"adxThreshold" validate:"gte=0,lte=100"`
	FastWindow   int     `mapstructure:"fastWindow" validate:"gte=1"`
	SlowWindow   int     `mapstructure:"slowWindow" validate:"gte=1"`
}

func (p VolatilityFilterParams) lookback() int {
	return max(p.ADXPeriod, p.FastWindow, p.SlowWindow)
}

func DefaultVolatilityFilterParams() VolatilityFilterParams {
	return VolatilityFilterParams{ADXPeriod: 14, ADXThreshold: 25, FastWindow: 10, SlowWindow: 50}
}

// TurtleParams configures TURTLE.
type TurtleParams struct {
	TurtleEntry int `mapstructure:"turtleEntry" validate:"gte=1"`
	TurtleExit  int `mapstructure:"turtleExit" validate:"gte=1"`
}

func (p TurtleParams) lookback() int {
	return max(p.TurtleEntry, p.TurtleExit)
}

func DefaultTurtleParams() TurtleParams {
	return TurtleParams{TurtleEntry: 20, TurtleExit: 10}
}

// KeltnerParams configures KELTNER.
type KeltnerParams struct {
	KeltnerPeriod int     `mapstructure:"keltnerPeriod" validate:"gte=1"`
	KeltnerMult   float64 `mapstructure:"keltnerMult" validate:"gt=0"`
}

func (p KeltnerParams) lookback() int {
	return max(p.KeltnerPeriod, indicator.KeltnerATRWindow)
}

func DefaultKeltnerParams() KeltnerParams {
	return KeltnerParams{KeltnerPeriod: 20, KeltnerMult: 2.0}
}

// decodeParams overlays raw onto defaults and validates the result.
// Fractional values for integer fields are truncated.
func decodeParams[P paramSet](raw Params, defaults P) (P, error) {
	params := defaults

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &params,
	})
	if err != nil {
		return defaults, errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to create parameter decoder", err)
	}

	if err := decoder.Decode(map[string]float64(raw)); err != nil {
		return defaults, errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to decode strategy parameters", err)
	}

	if err := validator.New().Struct(params); err != nil {
		return defaults, errors.Wrap(errors.ErrCodeStrategyConfigError, "invalid strategy parameters", err)
	}

	return params, nil
}

// toParams flattens a typed parameter struct back into a Params map.
func toParams(v any) Params {
	raw := map[string]any{}
	if err := mapstructure.Decode(v, &raw); err != nil {
		return Params{}
	}

	params := make(Params, len(raw))

	for k, value := range raw {
		switch n := value.(type) {
		case int:
			params[k] = float64(n)
		case float64:
			params[k] = n
		}
	}

	return params
}
