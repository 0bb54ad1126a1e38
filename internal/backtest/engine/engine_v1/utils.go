package engine

import (
	"fmt"
	"path/filepath"

	"github.com/Simon666Z/quantforge/internal/types"
)

// GetResultFolder returns where a run's files go: <root>/<strategy>/<symbol>[/<start>_<end>].
// The date segment only appears when a metrics window is configured.
func GetResultFolder(root string, symbol string, strategyType types.StrategyType, config BacktestEngineV1Config) string {
	folder := filepath.Join(root, string(strategyType), symbol)

	if !config.HasMetricsWindow() {
		return folder
	}

	startTimeStr := "all"
	endTimeStr := "all"

	if config.MetricsStart.IsSome() {
		startTimeStr = config.MetricsStart.Unwrap().Format("20060102")
	}

	if config.MetricsEnd.IsSome() {
		endTimeStr = config.MetricsEnd.Unwrap().Format("20060102")
	}

	return filepath.Join(folder, fmt.Sprintf("%s_%s", startTimeStr, endTimeStr))
}
