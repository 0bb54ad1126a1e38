package codegen

import (
	"text/template"

	"github.com/Simon666Z/quantforge/internal/types"
)

const vectorbtHeader = `import vectorbt as vbt
import yfinance as yf

# 1. Configuration
SYMBOL = "{{.Ticker}}"
FEES = {{.Fees}}
SLIPPAGE = {{.Slippage}}
CAPITAL = {{.Capital}}

# 2. Fetch Data
print(f"Fetching data for {SYMBOL}...")
data = yf.Ticker(SYMBOL).history(period="2y", auto_adjust=True)
close = data["Close"]
open_price = data["Open"]

# 3. Strategy Logic: {{.Name}}
`

const vectorbtFooter = `
# 4. Execute on the NEXT open to avoid look-ahead bias
real_entries = entries.vbt.signals.fshift(1)
real_exits = exits.vbt.signals.fshift(1)

# 5. Run Backtest
pf = vbt.Portfolio.from_signals(
    close=close,
    entries=real_entries,
    exits=real_exits,
    price=open_price,
    fees=FEES,
    slippage=SLIPPAGE,
    init_cash=CAPITAL,
    freq="1D",
    size=1.0,
    size_type="percent",
)

# 6. Print Stats
print(pf.stats())
pf.plot().show()
`

func vectorbtTemplate(name string, logic string) *template.Template {
	return mustParse(name, vectorbtHeader+logic+vectorbtFooter)
}

var vectorbtTemplates = map[types.StrategyType]*template.Template{
	types.StrategyTypeSMACrossover: vectorbtTemplate("vectorbt_sma", `
fast_ma = vbt.MA.run(close, {{.P.shortWindow}})
slow_ma = vbt.MA.run(close, {{.P.longWindow}})

entries = fast_ma.ma_crossed_above(slow_ma)
exits = fast_ma.ma_crossed_below(slow_ma)
`),
	types.StrategyTypeEMACrossover: vectorbtTemplate("vectorbt_ema", `
fast_ma = vbt.MA.run(close, {{.P.shortWindow}}, ewm=True)
slow_ma = vbt.MA.run(close, {{.P.longWindow}}, ewm=True)

entries = fast_ma.ma_crossed_above(slow_ma)
exits = fast_ma.ma_crossed_below(slow_ma)
`),
	types.StrategyTypeRSIReversal: vectorbtTemplate("vectorbt_rsi", `
rsi = vbt.RSI.run(close, window={{.P.rsiPeriod}})
entries = rsi.rsi_below({{.P.rsiOversold}})
exits = rsi.rsi_above({{.P.rsiOverbought}})
`),
	types.StrategyTypeBollingerBands: vectorbtTemplate("vectorbt_bollinger", `
bb = vbt.BBANDS.run(close, window={{.P.bbPeriod}}, alpha={{.P.bbStdDev}})
entries = close < bb.lower
exits = close > bb.upper
`),
	types.StrategyTypeMACD: vectorbtTemplate("vectorbt_macd", `
macd = vbt.MACD.run(close, fast_window={{.P.macdFast}}, slow_window={{.P.macdSlow}}, signal_window={{.P.macdSignal}})
entries = macd.macd_crossed_above(macd.signal)
exits = macd.macd_crossed_below(macd.signal)
`),
	types.StrategyTypeMomentum: vectorbtTemplate("vectorbt_momentum", `
roc = close.pct_change({{.P.rocPeriod}})
entries = (roc > 0) & (roc.shift(1) <= 0)
exits = (roc < 0) & (roc.shift(1) >= 0)
`),
}

var vectorbtFallback = vectorbtTemplate("vectorbt_placeholder", `
# PLACEHOLDER: no vectorbt template for {{.Strategy}}.
# Replace the two lines below with the strategy's entry and exit rules.
{{- range .Params}}
# {{.Name}} = {{.Value}}
{{- end}}
entries = close > close.shift(1)
exits = close < close.shift(1)
`)

// VectorBT renders a vectorbt script that reproduces the strategy with next-open execution.
// Strategies without a template get a clearly marked placeholder signal block.
func VectorBT(req Request) (string, error) {
	v, err := newRequestView(req)
	if err != nil {
		return "", err
	}

	return render(vectorbtTemplates, vectorbtFallback, v)
}
