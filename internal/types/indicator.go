package types

type IndicatorType string

const (
	IndicatorTypeSMA            IndicatorType = "sma"
	IndicatorTypeEMA            IndicatorType = "ema"
	IndicatorTypeRSI            IndicatorType = "rsi"
	IndicatorTypeMACD           IndicatorType = "macd"
	IndicatorTypeBollingerBands IndicatorType = "bollinger_bands"
	IndicatorTypeADX            IndicatorType = "adx"
	IndicatorTypeATR            IndicatorType = "atr"
	IndicatorTypeDonchian       IndicatorType = "donchian"
	IndicatorTypeKeltner        IndicatorType = "keltner"
	IndicatorTypeROC            IndicatorType = "roc"
)
