package provider

import (
	"context"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"go.uber.org/zap"

	"github.com/Simon666Z/quantforge/internal/logger"
	"github.com/Simon666Z/quantforge/internal/types"
	"github.com/Simon666Z/quantforge/pkg/errors"
)

// PolygonAggsIterator is the part of the polygon aggregates iterator the client reads.
type PolygonAggsIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

// PolygonAPIClient lists aggregates. The polygon REST client satisfies it through polygonAPI.
type PolygonAPIClient interface {
	ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator
}

type polygonAPI struct {
	client *polygon.Client
}

func (p polygonAPI) ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator {
	return p.client.ListAggs(ctx, params, options...)
}

// PolygonClient fetches adjusted daily aggregates from Polygon.io.
type PolygonClient struct {
	apiClient  PolygonAPIClient
	logger     *logger.Logger
	onProgress OnDownloadProgress
}

func NewPolygonClient(apiKey string, log *logger.Logger) (*PolygonClient, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "apiKey is required")
	}

	return NewPolygonClientWithAPI(polygonAPI{client: polygon.New(apiKey)}, log), nil
}

// NewPolygonClientWithAPI creates a client over any PolygonAPIClient.
func NewPolygonClientWithAPI(apiClient PolygonAPIClient, log *logger.Logger) *PolygonClient {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &PolygonClient{
		apiClient: apiClient,
		logger:    log,
	}
}

// OnProgress registers a callback invoked while aggregates are read.
func (c *PolygonClient) OnProgress(onProgress OnDownloadProgress) {
	c.onProgress = onProgress
}

// Fetch implements Provider.
func (c *PolygonClient) Fetch(ctx context.Context, ticker string, start time.Time, end time.Time) (types.BarSeries, error) {
	if ticker == "" {
		return types.BarSeries{}, errors.New(errors.ErrCodeMissingParameter, "ticker is required")
	}

	startDate := types.DateOf(start)
	endDate := types.DateOf(end)
	totalDays := float64(int(endDate.Sub(startDate).Hours()/24) + 1)

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     ticker,
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(startDate),
		To:         models.Millis(endDate),
	}.WithLimit(50000)

	iter := c.apiClient.ListAggs(ctx, params)

	var bars []types.Bar

	for iter.Next() {
		agg := iter.Item()
		day := types.DateOf(time.Time(agg.Timestamp))

		// one bar per date
		if n := len(bars); n > 0 && !day.After(bars[n-1].Time) {
			continue
		}

		bars = append(bars, types.Bar{
			Time:   day,
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: int64(agg.Volume),
		})

		if c.onProgress != nil {
			c.onProgress(day.Sub(startDate).Hours()/24+1, totalDays, "Downloading "+ticker)
		}
	}

	if err := iter.Err(); err != nil {
		return types.BarSeries{}, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "error iterating polygon aggregates for %s", ticker)
	}

	if len(bars) == 0 {
		return types.BarSeries{}, errors.Newf(errors.ErrCodeNoDataFound, "no bars for %s between %s and %s",
			ticker, startDate.Format(types.DateLayout), endDate.Format(types.DateLayout))
	}

	c.logger.Debug("Fetched polygon aggregates",
		zap.String("ticker", ticker),
		zap.Int("bars", len(bars)),
	)

	return types.NewBarSeries(ticker, bars)
}
