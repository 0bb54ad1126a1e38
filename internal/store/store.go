package store

import (
	"context"
	"time"

	"github.com/Simon666Z/quantforge/internal/strategy"
	"github.com/Simon666Z/quantforge/internal/types"
)

// Preset is a named strategy configuration saved by a user. (UserID, Name) is unique.
type Preset struct {
	ID        string             `json:"id" yaml:"id"`
	UserID    string             `json:"userId" yaml:"user_id" validate:"required,max=128"`
	Name      string             `json:"name" yaml:"name" validate:"required,max=128"`
	Strategy  types.StrategyType `json:"strategy" yaml:"strategy" validate:"required"`
	Params    strategy.Params    `json:"params" yaml:"params"`
	CreatedAt time.Time          `json:"createdAt" yaml:"created_at"`
	UpdatedAt time.Time          `json:"updatedAt" yaml:"updated_at"`
}

// PresetStore persists presets. Get and Delete return ErrCodePresetNotFound for unknown names.
type PresetStore interface {
	// Save inserts the preset or replaces the strategy and params of an existing one with the
	// same user and name. It returns the stored preset.
	Save(ctx context.Context, preset Preset) (Preset, error)
	Get(ctx context.Context, userID string, name string) (Preset, error)
	// List returns the presets of a user ordered by name.
	List(ctx context.Context, userID string) ([]Preset, error)
	Delete(ctx context.Context, userID string, name string) error
}
