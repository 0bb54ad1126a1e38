package engine

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"gopkg.in/yaml.v3"

	"github.com/Simon666Z/quantforge/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/Simon666Z/quantforge/pkg/errors"
)

// NoDecimalPrecision keeps fractional order quantities.
const NoDecimalPrecision = -1

type BacktestEngineV1Config struct {
	InitialCapital float64               `yaml:"initial_capital" json:"initial_capital" jsonschema:"title=Initial Capital,description=Starting capital for the backtest in USD,minimum=0,default=10000" validate:"gt=0"`
	Fees           float64               `yaml:"fees" json:"fees" jsonschema:"title=Fees,description=Transaction fee as a fraction of order notional,minimum=0,maximum=1,default=0.001" validate:"gte=0,lt=1"`
	Slippage       float64               `yaml:"slippage" json:"slippage" jsonschema:"title=Slippage,description=Fraction of the open price lost on every fill,minimum=0,maximum=1,default=0.001" validate:"gte=0,lt=1"`
	Broker         commission_fee.Broker `yaml:"broker" json:"broker" jsonschema:"title=Broker,description=The broker to use for commission calculations" validate:"omitempty,oneof=percentage interactive_broker zero_commission"`
	// SizePercent is the fraction of equity committed by each entry.
	SizePercent float64 `yaml:"size_percent" json:"size_percent" jsonschema:"title=Size Percent,description=Fraction of equity used by each entry,minimum=0,maximum=1,default=1" validate:"gt=0,lte=1"`
	// Accumulate allows buying more while a position is already open.
	Accumulate       bool `yaml:"accumulate" json:"accumulate" jsonschema:"title=Accumulate,description=Add to an open position on repeated entry signals,default=false"`
	DecimalPrecision int  `yaml:"decimal_precision" json:"decimal_precision" jsonschema:"title=Decimal Precision,description=Decimal places of order quantities. -1 keeps fractional shares,default=-1" validate:"gte=-1,lte=8"`
	// StopLoss, TakeProfit and TrailingStop are fractions such as 0.05 for 5%.
	StopLoss     optional.Option[float64]   `yaml:"stop_loss" json:"stop_loss" jsonschema:"title=Stop Loss,description=Exit when the close falls this fraction below the entry price"`
	TakeProfit   optional.Option[float64]   `yaml:"take_profit" json:"take_profit" jsonschema:"title=Take Profit,description=Exit when the close rises this fraction above the entry price"`
	TrailingStop optional.Option[float64]   `yaml:"trailing_stop" json:"trailing_stop" jsonschema:"title=Trailing Stop,description=Exit when the close falls this fraction below the highest close since entry. Replaces the stop loss when set"`
	MetricsStart optional.Option[time.Time] `yaml:"metrics_start" json:"metrics_start" jsonschema:"title=Metrics Start,description=Optional first date of the reporting window"`
	MetricsEnd   optional.Option[time.Time] `yaml:"metrics_end" json:"metrics_end" jsonschema:"title=Metrics End,description=Optional last date of the reporting window"`
}

// UnmarshalYAML implements custom unmarshaling for BacktestEngineV1Config.
// Missing fields keep their defaults.
func (c *BacktestEngineV1Config) UnmarshalYAML(value *yaml.Node) error {
	type Config struct {
		InitialCapital   *float64              `yaml:"initial_capital"`
		Fees             *float64              `yaml:"fees"`
		Slippage         *float64              `yaml:"slippage"`
		Broker           commission_fee.Broker `yaml:"broker"`
		SizePercent      *float64              `yaml:"size_percent"`
		Accumulate       bool                  `yaml:"accumulate"`
		DecimalPrecision *int                  `yaml:"decimal_precision"`
		StopLoss         *float64              `yaml:"stop_loss"`
		TakeProfit       *float64              `yaml:"take_profit"`
		TrailingStop     *float64              `yaml:"trailing_stop"`
		MetricsStart     *time.Time            `yaml:"metrics_start"`
		MetricsEnd       *time.Time            `yaml:"metrics_end"`
	}

	var config Config
	if err := value.Decode(&config); err != nil {
		return err
	}

	*c = DefaultConfig()

	if config.InitialCapital != nil {
		c.InitialCapital = *config.InitialCapital
	}

	if config.Fees != nil {
		c.Fees = *config.Fees
	}

	if config.Slippage != nil {
		c.Slippage = *config.Slippage
	}

	if config.Broker != "" {
		c.Broker = config.Broker
	}

	if config.SizePercent != nil {
		c.SizePercent = *config.SizePercent
	}

	c.Accumulate = config.Accumulate

	if config.DecimalPrecision != nil {
		c.DecimalPrecision = *config.DecimalPrecision
	}

	c.StopLoss = fromPointer(config.StopLoss)
	c.TakeProfit = fromPointer(config.TakeProfit)
	c.TrailingStop = fromPointer(config.TrailingStop)
	c.MetricsStart = fromPointer(config.MetricsStart)
	c.MetricsEnd = fromPointer(config.MetricsEnd)

	return nil
}

func fromPointer[T any](v *T) optional.Option[T] {
	if v == nil {
		return optional.None[T]()
	}

	return optional.Some(*v)
}

// Validate checks the configuration before a run.
func (c *BacktestEngineV1Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid backtest configuration", err)
	}

	if c.StopLoss.IsSome() {
		if v := c.StopLoss.Unwrap(); v <= 0 || v >= 1 {
			return errors.Newf(errors.ErrCodeInvalidThreshold, "stop_loss must be in (0, 1), got %v", v)
		}
	}

	if c.TrailingStop.IsSome() {
		if v := c.TrailingStop.Unwrap(); v <= 0 || v >= 1 {
			return errors.Newf(errors.ErrCodeInvalidThreshold, "trailing_stop must be in (0, 1), got %v", v)
		}
	}

	if c.TakeProfit.IsSome() {
		if v := c.TakeProfit.Unwrap(); v <= 0 {
			return errors.Newf(errors.ErrCodeInvalidThreshold, "take_profit must be positive, got %v", v)
		}
	}

	if c.MetricsStart.IsSome() && c.MetricsEnd.IsSome() && c.MetricsStart.Unwrap().After(c.MetricsEnd.Unwrap()) {
		return errors.Newf(errors.ErrCodeInvalidMetricsWindow, "metrics_start %s is after metrics_end %s",
			c.MetricsStart.Unwrap().Format(time.DateOnly), c.MetricsEnd.Unwrap().Format(time.DateOnly))
	}

	return nil
}

// HasMetricsWindow reports whether reporting is scoped to a sub-range.
func (c *BacktestEngineV1Config) HasMetricsWindow() bool {
	return c.MetricsStart.IsSome() || c.MetricsEnd.IsSome()
}

// GenerateSchema generates a JSON schema for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			switch {
			case t.String() == "optional.Option[time.Time]":
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			case t.String() == "optional.Option[float64]":
				return &jsonschema.Schema{
					Type: "number",
				}
			case strings.Contains(t.String(), "commission_fee.Broker"):
				return &jsonschema.Schema{
					Type: "string",
					Enum: commission_fee.AllBrokers,
				}
			}

			return nil
		},
	}

	// Generate schema from BacktestEngineV1Config struct
	schema := reflector.Reflect(c)

	// Set schema metadata
	schema.Title = "backtest-engine-v1-config"
	schema.Description = "Configuration schema for BacktestEngineV1"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

// LoadConfig parses a YAML configuration. Empty content yields the defaults.
func LoadConfig(content []byte) (BacktestEngineV1Config, error) {
	config := DefaultConfig()
	if len(strings.TrimSpace(string(content))) == 0 {
		return config, nil
	}

	if err := yaml.Unmarshal(content, &config); err != nil {
		return BacktestEngineV1Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse backtest configuration", err)
	}

	return config, nil
}

func TestConfig(startTime time.Time, endTime time.Time, broker commission_fee.Broker) BacktestEngineV1Config {
	config := DefaultConfig()
	config.Broker = broker
	config.MetricsStart = optional.Some(startTime)
	config.MetricsEnd = optional.Some(endTime)

	return config
}

// DefaultConfig returns a BacktestEngineV1Config with default values
func DefaultConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		InitialCapital:   10000,
		Fees:             0.001,
		Slippage:         0.001,
		Broker:           commission_fee.BrokerPercentage,
		SizePercent:      1.0,
		Accumulate:       false,
		DecimalPrecision: NoDecimalPrecision,
		StopLoss:         optional.None[float64](),
		TakeProfit:       optional.None[float64](),
		TrailingStop:     optional.None[float64](),
		MetricsStart:     optional.None[time.Time](),
		MetricsEnd:       optional.None[time.Time](),
	}
}
