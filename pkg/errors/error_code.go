package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidOrder         ErrorCode = 105
	ErrCodeInvalidType          ErrorCode = 107
	ErrCodeInvalidPeriod        ErrorCode = 108
	ErrCodeMissingParameter     ErrorCode = 109
	ErrCodeInvalidMultiplier    ErrorCode = 111
	ErrCodeInvalidThreshold     ErrorCode = 112
	ErrCodeMalformedBarSeries   ErrorCode = 120
	ErrCodeInvalidMetricsWindow ErrorCode = 121
	ErrCodeInvalidRequest       ErrorCode = 122

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeNoDataFound           ErrorCode = 204
	ErrCodePresetNotFound        ErrorCode = 206

	// Indicator errors (300-399)
	ErrCodeIndicatorCalculation ErrorCode = 302

	// Strategy errors (400-499)
	ErrCodeStrategyConfigError ErrorCode = 401
	ErrCodeUnsupportedStrategy ErrorCode = 403
	ErrCodeCodegenUnsupported  ErrorCode = 405

	// Trading errors (500-599)
	ErrCodeOrderFailed ErrorCode = 500

	// Backtest errors (600-699)
	ErrCodeBacktestConfigError ErrorCode = 602
	ErrCodeUnknownScenario     ErrorCode = 609
	ErrCodeIncompatibleResult  ErrorCode = 610

	// Market data errors (700-799)
	ErrCodeMarketDataFetchFailed ErrorCode = 700
	ErrCodeMarketDataWriteFailed ErrorCode = 701
	ErrCodeMarketDataParseFailed ErrorCode = 702
	ErrCodeInvalidProvider       ErrorCode = 704
)
