package writer

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/Simon666Z/quantforge/internal/logger"
	"github.com/Simon666Z/quantforge/internal/types"
	"github.com/Simon666Z/quantforge/pkg/errors"
)

// DuckDBWriter buffers bars in an in-memory DuckDB table and exports them as one parquet file.
type DuckDBWriter struct {
	db         *sql.DB
	tx         *sql.Tx
	stmt       *sql.Stmt
	outputPath string
	logger     *logger.Logger
}

// NewDuckDBWriter creates a new DuckDBWriter that exports to outputPath.
func NewDuckDBWriter(outputPath string, log *logger.Logger) MarketDataWriter {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &DuckDBWriter{
		outputPath: outputPath,
		logger:     log,
	}
}

// Initialize opens the database, creates the market_data table, begins a transaction
// and prepares the insert statement.
func (w *DuckDBWriter) Initialize() (err error) {
	w.db, err = sql.Open("duckdb", ":memory:")
	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to open DuckDB connection", err)
	}

	_, err = w.db.Exec(`
		CREATE TABLE IF NOT EXISTS market_data (
			id TEXT,
			time TIMESTAMP,
			symbol TEXT,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			volume DOUBLE
		)
	`)
	if err != nil {
		w.db.Close()
		w.db = nil

		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to create table", err)
	}

	w.tx, err = w.db.Begin()
	if err != nil {
		w.db.Close()
		w.db = nil

		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to begin transaction", err)
	}

	w.stmt, err = w.tx.Prepare(`
		INSERT INTO market_data (id, time, symbol, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		w.tx.Rollback()
		w.db.Close()
		w.tx = nil
		w.db = nil

		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to prepare statement", err)
	}

	return nil
}

// Write persists a single bar using the prepared statement within the transaction.
func (w *DuckDBWriter) Write(symbol string, bar types.Bar) error {
	if w.stmt == nil {
		return errors.New(errors.ErrCodeMarketDataWriteFailed, "writer not initialized or statement is nil")
	}

	_, err := w.stmt.Exec(
		uuid.New().String(),
		bar.Time,
		symbol,
		bar.Open,
		bar.High,
		bar.Low,
		bar.Close,
		float64(bar.Volume),
	)
	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to insert bar", err)
	}

	return nil
}

// Finalize commits the transaction and exports the data to a Parquet file.
func (w *DuckDBWriter) Finalize() (outputPath string, err error) {
	if w.tx == nil {
		return "", errors.New(errors.ErrCodeMarketDataWriteFailed, "writer not initialized or transaction is nil")
	}

	if err = w.tx.Commit(); err != nil {
		w.tx.Rollback()

		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to commit transaction", err)
	}

	w.tx = nil

	if dir := filepath.Dir(w.outputPath); dir != "" {
		if err = os.MkdirAll(dir, 0755); err != nil {
			return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to create output directory", err)
		}
	}

	// COPY does not accept a bound parameter for the file name
	_, err = w.db.Exec(fmt.Sprintf(`COPY (SELECT * FROM market_data ORDER BY symbol, time) TO '%s' (FORMAT PARQUET)`,
		strings.ReplaceAll(w.outputPath, "'", "''")))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to export to Parquet", err)
	}

	w.logger.Info("Exported market data", zap.String("path", w.outputPath))

	return w.outputPath, nil
}

// Close closes the statement and the database, rolling back an unfinished transaction.
func (w *DuckDBWriter) Close() error {
	var closeErrors []string

	if w.stmt != nil {
		if err := w.stmt.Close(); err != nil {
			closeErrors = append(closeErrors, fmt.Sprintf("failed to close statement: %v", err))
		}

		w.stmt = nil
	}

	if w.tx != nil {
		if err := w.tx.Rollback(); err != nil {
			w.logger.Warn("Failed to rollback transaction during close", zap.Error(err))
		}

		w.tx = nil
	}

	if w.db != nil {
		if err := w.db.Close(); err != nil {
			closeErrors = append(closeErrors, fmt.Sprintf("failed to close db connection: %v", err))
		}

		w.db = nil
	}

	if len(closeErrors) > 0 {
		return errors.Newf(errors.ErrCodeMarketDataWriteFailed, "errors occurred during close: %s", strings.Join(closeErrors, "; "))
	}

	return nil
}

// GetOutputPath implements MarketDataWriter.
func (w *DuckDBWriter) GetOutputPath() string {
	return w.outputPath
}
