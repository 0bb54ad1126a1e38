package marketdata

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Simon666Z/quantforge/internal/logger"
	"github.com/Simon666Z/quantforge/internal/types"
	"github.com/Simon666Z/quantforge/pkg/errors"
	"github.com/Simon666Z/quantforge/pkg/marketdata/provider"
	"github.com/Simon666Z/quantforge/pkg/marketdata/writer"
)

// ProviderType is re-exported so callers only need this package.
type ProviderType = provider.ProviderType

const (
	ProviderPolygon = provider.ProviderPolygon
	ProviderFile    = provider.ProviderFile
)

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	ProviderType ProviderType `validate:"required,oneof=polygon file"`
	DataPath     string       `validate:"required"`
	// PolygonApiKey is required for polygon. For file it is unused and SourcePath names the data.
	PolygonApiKey string `validate:"required_if=ProviderType polygon"`
	SourcePath    string `validate:"required_if=ProviderType file"`
}

// DownloadParams holds the parameters for a market data download request.
type DownloadParams struct {
	Ticker    string    `validate:"required"`
	StartDate time.Time `validate:"required"`
	EndDate   time.Time `validate:"required,gtefield=StartDate"`
}

// OutputFileName returns TICKER_START_END.parquet.
func (p DownloadParams) OutputFileName() string {
	return fmt.Sprintf("%s_%s_%s.parquet",
		p.Ticker,
		p.StartDate.Format(types.DateLayout),
		p.EndDate.Format(types.DateLayout))
}

// Client downloads daily bars from a Source and stores them as parquet files.
type Client struct {
	source    Source
	config    ClientConfig
	validate  *validator.Validate
	logger    *logger.Logger
	newWriter func(outputPath string) writer.MarketDataWriter
}

// NewClient creates a new market data client with the given configuration.
// onProgress is forwarded to providers that report progress and may be nil.
func NewClient(config ClientConfig, onProgress provider.OnDownloadProgress, log *logger.Logger) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	var source Source

	switch config.ProviderType {
	case ProviderPolygon:
		polygonClient, err := provider.NewPolygonClient(config.PolygonApiKey, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create Polygon client: %w", err)
		}

		polygonClient.OnProgress(onProgress)
		source = polygonClient
	case ProviderFile:
		fileSource, err := provider.NewDuckDBSource(config.SourcePath, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open data file: %w", err)
		}

		source = fileSource
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported provider type: %s", config.ProviderType)
	}

	return NewClientWithSource(source, config, log), nil
}

// NewClientWithSource creates a client over an existing Source.
func NewClientWithSource(source Source, config ClientConfig, log *logger.Logger) *Client {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Client{
		source:   source,
		config:   config,
		validate: validator.New(),
		logger:   log,
		newWriter: func(outputPath string) writer.MarketDataWriter {
			return writer.NewDuckDBWriter(outputPath, log)
		},
	}
}

// Download fetches the bars described by params and writes them to DataPath.
// It returns the path of the parquet file.
func (c *Client) Download(ctx context.Context, params DownloadParams) (string, error) {
	if err := c.validate.Struct(params); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidParameter, "invalid download parameters", err)
	}

	series, err := c.source.Fetch(ctx, params.Ticker, params.StartDate, params.EndDate)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}

	marketWriter := c.newWriter(filepath.Join(c.config.DataPath, params.OutputFileName()))

	defer func() {
		if err := marketWriter.Close(); err != nil {
			c.logger.Warn("failed to close writer", zap.Error(err))
		}
	}()

	outputPath, err := writer.WriteSeries(marketWriter, series)
	if err != nil {
		return "", err
	}

	c.logger.Info("Market data downloaded",
		zap.String("ticker", params.Ticker),
		zap.Int("bars", series.Len()),
		zap.String("path", outputPath),
	)

	return outputPath, nil
}
