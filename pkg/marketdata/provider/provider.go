package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/Simon666Z/quantforge/internal/logger"
	"github.com/Simon666Z/quantforge/internal/types"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderPolygon ProviderType = "polygon"
	ProviderFile    ProviderType = "file"
)

type OnDownloadProgress = func(current float64, total float64, message string)

// Provider returns daily bars for a ticker. start and end are inclusive calendar dates.
type Provider interface {
	Fetch(ctx context.Context, ticker string, start time.Time, end time.Time) (types.BarSeries, error)
}

// NewMarketDataProvider creates a new market data provider based on the provider type.
// config is the API key for polygon and the file path or glob for file.
func NewMarketDataProvider(providerType ProviderType, config string, log *logger.Logger) (Provider, error) {
	switch providerType {
	case ProviderPolygon:
		return NewPolygonClient(config, log)
	case ProviderFile:
		return NewDuckDBSource(config, log)
	default:
		return nil, fmt.Errorf("unsupported market data provider: %s", providerType)
	}
}
