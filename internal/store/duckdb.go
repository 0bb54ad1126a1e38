package store

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/Simon666Z/quantforge/internal/logger"
	"github.com/Simon666Z/quantforge/internal/strategy"
	"github.com/Simon666Z/quantforge/internal/types"
	"github.com/Simon666Z/quantforge/pkg/errors"
)

const presetTable = "strategy_presets"

var presetColumns = []string{"id", "user_id", "name", "strategy", "params", "created_at", "updated_at"}

// DuckDBPresetStore keeps presets in a DuckDB database file, or in memory when the path is empty.
type DuckDBPresetStore struct {
	db       *sql.DB
	logger   *logger.Logger
	sq       squirrel.StatementBuilderType
	validate *validator.Validate
	now      func() time.Time
}

// NewDuckDBPresetStore opens the database at path and creates the presets table.
func NewDuckDBPresetStore(path string, log *logger.Logger) (*DuckDBPresetStore, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		log.Error("Failed to open database", zap.Error(err))

		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open preset database", err)
	}

	if err := db.Ping(); err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to connect to preset database", err)
	}

	s := &DuckDBPresetStore{
		db:       db,
		logger:   log,
		sq:       squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		validate: validator.New(),
		now:      time.Now,
	}

	if err := s.initialize(); err != nil {
		db.Close()

		return nil, err
	}

	return s, nil
}

func (s *DuckDBPresetStore) initialize() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS strategy_presets (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			strategy TEXT NOT NULL,
			params TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE (user_id, name)
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to create presets table", err)
	}

	return nil
}

// Save implements PresetStore.
func (s *DuckDBPresetStore) Save(ctx context.Context, preset Preset) (Preset, error) {
	if err := s.validate.Struct(preset); err != nil {
		return Preset{}, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid preset", err)
	}

	if !preset.Strategy.IsKnown() {
		return Preset{}, errors.Newf(errors.ErrCodeUnsupportedStrategy, "unknown strategy: %s", preset.Strategy)
	}

	params := preset.Params
	if params == nil {
		params = strategy.Params{}
	}

	encoded, err := json.Marshal(params)
	if err != nil {
		return Preset{}, errors.Wrap(errors.ErrCodeInvalidParameter, "failed to encode preset params", err)
	}

	// TIMESTAMP keeps microseconds
	now := s.now().UTC().Truncate(time.Microsecond)

	_, err = s.sq.
		Insert(presetTable).
		Columns(presetColumns...).
		Values(uuid.New().String(), preset.UserID, preset.Name, string(preset.Strategy), string(encoded), now, now).
		Suffix("ON CONFLICT (user_id, name) DO UPDATE SET " +
			"strategy = excluded.strategy, params = excluded.params, updated_at = excluded.updated_at").
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return Preset{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to save preset", err)
	}

	s.logger.Debug("Preset saved",
		zap.String("user", preset.UserID),
		zap.String("name", preset.Name),
		zap.String("strategy", string(preset.Strategy)),
	)

	return s.Get(ctx, preset.UserID, preset.Name)
}

// Get implements PresetStore.
func (s *DuckDBPresetStore) Get(ctx context.Context, userID string, name string) (Preset, error) {
	row := s.sq.
		Select(presetColumns...).
		From(presetTable).
		Where(squirrel.Eq{"user_id": userID, "name": name}).
		RunWith(s.db).
		QueryRowContext(ctx)

	preset, err := scanPreset(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return Preset{}, errors.Newf(errors.ErrCodePresetNotFound, "preset %q not found for user %q", name, userID)
	}

	if err != nil {
		return Preset{}, err
	}

	return preset, nil
}

// List implements PresetStore.
func (s *DuckDBPresetStore) List(ctx context.Context, userID string) ([]Preset, error) {
	rows, err := s.sq.
		Select(presetColumns...).
		From(presetTable).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("name ASC").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query presets", err)
	}
	defer rows.Close()

	presets := []Preset{}

	for rows.Next() {
		preset, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}

		presets = append(presets, preset)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating presets", err)
	}

	return presets, nil
}

// Delete implements PresetStore.
func (s *DuckDBPresetStore) Delete(ctx context.Context, userID string, name string) error {
	result, err := s.sq.
		Delete(presetTable).
		Where(squirrel.Eq{"user_id": userID, "name": name}).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to delete preset", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to read deleted rows", err)
	}

	if affected == 0 {
		return errors.Newf(errors.ErrCodePresetNotFound, "preset %q not found for user %q", name, userID)
	}

	return nil
}

// Close closes the database connection.
func (s *DuckDBPresetStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

func scanPreset(row squirrel.RowScanner) (Preset, error) {
	var (
		preset     Preset
		strategyID string
		params     string
	)

	err := row.Scan(&preset.ID, &preset.UserID, &preset.Name, &strategyID, &params, &preset.CreatedAt, &preset.UpdatedAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		return Preset{}, err
	}

	if err != nil {
		return Preset{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan preset", err)
	}

	preset.Strategy = types.StrategyType(strategyID)
	if err := json.Unmarshal([]byte(params), &preset.Params); err != nil {
		return Preset{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to decode preset params", err)
	}

	preset.CreatedAt = preset.CreatedAt.UTC()
	preset.UpdatedAt = preset.UpdatedAt.UTC()

	return preset, nil
}
