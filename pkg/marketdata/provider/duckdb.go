package provider

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/Simon666Z/quantforge/internal/logger"
	"github.com/Simon666Z/quantforge/internal/types"
	"github.com/Simon666Z/quantforge/pkg/errors"
)

// DuckDBSource reads bars from parquet or CSV files with the columns
// time, symbol, open, high, low, close, volume. Intraday rows are resampled to daily bars.
type DuckDBSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
	path   string
}

// NewDuckDBSource opens an in-memory DuckDB database with a market_data view over path.
// path may be a single file or a glob such as "data/*.parquet".
func NewDuckDBSource(path string, log *logger.Logger) (*DuckDBSource, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "data path is required")
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open DuckDB connection", err)
	}

	source := &DuckDBSource{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		path:   path,
	}

	if err := source.initialize(); err != nil {
		db.Close()

		return nil, err
	}

	return source, nil
}

func (d *DuckDBSource) initialize() error {
	d.logger.Debug("Initializing DuckDB data source", zap.String("path", d.path))

	reader := "read_parquet"
	if strings.EqualFold(filepath.Ext(d.path), ".csv") {
		reader = "read_csv_auto"
	}

	// Squirrel doesn't support CREATE VIEW
	query := fmt.Sprintf(`
		CREATE OR REPLACE VIEW market_data AS
		SELECT * FROM %s('%s');
	`, reader, strings.ReplaceAll(d.path, "'", "''"))

	if _, err := d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to read market data from %s", d.path)
	}

	return nil
}

// Fetch implements Provider.
func (d *DuckDBSource) Fetch(ctx context.Context, ticker string, start time.Time, end time.Time) (types.BarSeries, error) {
	query, args, err := d.buildFetchQuery(ticker, start, end)
	if err != nil {
		return types.BarSeries{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return types.BarSeries{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query market data", err)
	}
	defer rows.Close()

	var bars []types.Bar

	for rows.Next() {
		var (
			day                         time.Time
			open, high, low, closePrice float64
			volume                      float64
		)

		if err := rows.Scan(&day, &open, &high, &low, &closePrice, &volume); err != nil {
			return types.BarSeries{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan row", err)
		}

		bars = append(bars, types.Bar{
			Time:   day,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: int64(volume),
		})
	}

	if err := rows.Err(); err != nil {
		return types.BarSeries{}, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating rows", err)
	}

	if len(bars) == 0 {
		return types.BarSeries{}, errors.Newf(errors.ErrCodeNoDataFound, "no bars for %s between %s and %s",
			ticker, start.Format(types.DateLayout), end.Format(types.DateLayout))
	}

	d.logger.Debug("Fetched bars",
		zap.String("ticker", ticker),
		zap.Int("bars", len(bars)),
	)

	return types.NewBarSeries(ticker, bars)
}

func (d *DuckDBSource) buildFetchQuery(ticker string, start time.Time, end time.Time) (string, []interface{}, error) {
	from := types.DateOf(start)
	to := types.DateOf(end).AddDate(0, 0, 1)

	return d.sq.
		Select(
			"CAST(time AS DATE) AS day",
			"arg_min(open, time) AS open",
			"max(high) AS high",
			"min(low) AS low",
			"arg_max(close, time) AS close",
			"CAST(sum(volume) AS DOUBLE) AS volume",
		).
		From("market_data").
		Where(squirrel.And{
			squirrel.Eq{"symbol": ticker},
			squirrel.GtOrEq{"time": from},
			squirrel.Lt{"time": to},
			squirrel.NotEq{"open": nil},
			squirrel.NotEq{"high": nil},
			squirrel.NotEq{"low": nil},
			squirrel.NotEq{"close": nil},
			squirrel.NotEq{"volume": nil},
		}).
		GroupBy("day").
		OrderBy("day ASC").
		ToSql()
}

// Symbols returns every distinct symbol in the data.
func (d *DuckDBSource) Symbols(ctx context.Context) ([]string, error) {
	query, args, err := d.sq.
		Select("DISTINCT symbol").
		From("market_data").
		OrderBy("symbol").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query symbols", err)
	}
	defer rows.Close()

	var symbols []string

	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan symbol", err)
		}

		symbols = append(symbols, symbol)
	}

	return symbols, rows.Err()
}

// Close closes the data source and releases any resources
func (d *DuckDBSource) Close() error {
	if d.db != nil {
		return d.db.Close()
	}

	return nil
}
