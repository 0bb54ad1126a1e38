package marketdata

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Simon666Z/quantforge/internal/types"
	"github.com/Simon666Z/quantforge/pkg/errors"
)

// BaseDownloadConfig contains common fields for all download configurations.
type BaseDownloadConfig struct {
	Ticker    string `json:"ticker" jsonschema:"title=Ticker,description=The trading symbol to download data for (e.g. SPY),required" validate:"required"`
	StartDate string `json:"startDate" jsonschema:"title=Start Date,description=First calendar date (YYYY-MM-DD),format=date,required" validate:"required"`
	EndDate   string `json:"endDate" jsonschema:"title=End Date,description=Last calendar date (YYYY-MM-DD),format=date,required" validate:"required"`
}

// PolygonDownloadConfig contains configuration for downloading from Polygon.io.
type PolygonDownloadConfig struct {
	BaseDownloadConfig

	ApiKey string `json:"apiKey" jsonschema:"title=API Key,description=Polygon.io API key for authentication,required" keychain:"true" validate:"required"`
}

// FileDownloadConfig copies bars of one ticker out of a local parquet or CSV file.
type FileDownloadConfig struct {
	BaseDownloadConfig

	SourcePath string `json:"sourcePath" jsonschema:"title=Source Path,description=Parquet or CSV file or glob to read from,required" validate:"required"`
}

// Validate validates the BaseDownloadConfig fields.
func (c *BaseDownloadConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	start, err := time.Parse(types.DateLayout, c.StartDate)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid startDate format, expected YYYY-MM-DD", err)
	}

	end, err := time.Parse(types.DateLayout, c.EndDate)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid endDate format, expected YYYY-MM-DD", err)
	}

	if end.Before(start) {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "endDate %s is before startDate %s", c.EndDate, c.StartDate)
	}

	return nil
}

// Validate validates the PolygonDownloadConfig.
func (c *PolygonDownloadConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	return c.BaseDownloadConfig.Validate()
}

// Validate validates the FileDownloadConfig.
func (c *FileDownloadConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	return c.BaseDownloadConfig.Validate()
}

// ToDownloadParams converts a BaseDownloadConfig to DownloadParams.
func (c *BaseDownloadConfig) ToDownloadParams() (DownloadParams, error) {
	startDate, err := time.Parse(types.DateLayout, c.StartDate)
	if err != nil {
		return DownloadParams{}, errors.Wrap(errors.ErrCodeInvalidParameter, "failed to parse startDate", err)
	}

	endDate, err := time.Parse(types.DateLayout, c.EndDate)
	if err != nil {
		return DownloadParams{}, errors.Wrap(errors.ErrCodeInvalidParameter, "failed to parse endDate", err)
	}

	return DownloadParams{
		Ticker:    c.Ticker,
		StartDate: startDate,
		EndDate:   endDate,
	}, nil
}

// ToClientConfig converts a PolygonDownloadConfig to ClientConfig.
func (c *PolygonDownloadConfig) ToClientConfig(dataPath string) ClientConfig {
	return ClientConfig{
		ProviderType:  ProviderPolygon,
		DataPath:      dataPath,
		PolygonApiKey: c.ApiKey,
		SourcePath:    "",
	}
}

// ToClientConfig converts a FileDownloadConfig to ClientConfig.
func (c *FileDownloadConfig) ToClientConfig(dataPath string) ClientConfig {
	return ClientConfig{
		ProviderType:  ProviderFile,
		DataPath:      dataPath,
		PolygonApiKey: "",
		SourcePath:    c.SourcePath,
	}
}

// ParsePolygonConfig parses JSON into a PolygonDownloadConfig.
func ParsePolygonConfig(jsonConfig string) (*PolygonDownloadConfig, error) {
	var config PolygonDownloadConfig
	if err := json.Unmarshal([]byte(jsonConfig), &config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse JSON config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// ParseFileConfig parses JSON into a FileDownloadConfig.
func ParseFileConfig(jsonConfig string) (*FileDownloadConfig, error) {
	var config FileDownloadConfig
	if err := json.Unmarshal([]byte(jsonConfig), &config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse JSON config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
