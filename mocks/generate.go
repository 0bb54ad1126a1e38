package mocks

//go:generate mockgen -destination=./mock_source.go -package=mocks github.com/Simon666Z/quantforge/pkg/marketdata Source
//go:generate mockgen -destination=./mock_preset_store.go -package=mocks github.com/Simon666Z/quantforge/internal/store PresetStore
