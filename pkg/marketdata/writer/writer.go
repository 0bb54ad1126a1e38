package writer

import (
	"github.com/Simon666Z/quantforge/internal/types"
)

// MarketDataWriter defines the interface for writing bars to a destination.
type MarketDataWriter interface {
	// Initialize sets up the writer, potentially creating tables or files.
	Initialize() error
	// Write persists a single bar of symbol.
	Write(symbol string, bar types.Bar) error
	// Finalize completes the writing process (e.g., commits transactions, exports files).
	Finalize() (outputPath string, err error)
	// Close releases any resources held by the writer.
	Close() error
	// GetOutputPath returns the configured output file path.
	GetOutputPath() string
}

// WriteSeries writes every bar of series and finalizes the writer.
func WriteSeries(w MarketDataWriter, series types.BarSeries) (string, error) {
	if err := w.Initialize(); err != nil {
		return "", err
	}

	for i := 0; i < series.Len(); i++ {
		if err := w.Write(series.Symbol, series.Bar(i)); err != nil {
			return "", err
		}
	}

	return w.Finalize()
}
