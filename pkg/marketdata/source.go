package marketdata

import (
	"context"
	"time"

	"github.com/Simon666Z/quantforge/internal/types"
)

// Source returns daily bars for a ticker. start and end are inclusive calendar dates.
// Every provider in pkg/marketdata/provider satisfies it.
type Source interface {
	Fetch(ctx context.Context, ticker string, start time.Time, end time.Time) (types.BarSeries, error)
}
