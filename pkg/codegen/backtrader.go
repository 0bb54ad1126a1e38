package codegen

import (
	"strings"
	"text/template"

	"github.com/Simon666Z/quantforge/internal/types"
)

type backtraderLogic struct {
	init  string
	entry string
	exit  string
}

const backtraderTemplate = `import backtrader as bt
import yfinance as yf


class MyStrategy(bt.Strategy):
    params = (
{{- range .Params}}
        ("{{.Name}}", {{.Value}}),
{{- end}}
    )

    def __init__(self):
        self.dataclose = self.datas[0].close
        self.order = None
{{INIT}}
    def next(self):
        if self.order:
            return  # pending order exists

        if not self.position:
{{ENTRY}}        else:
{{EXIT}}

if __name__ == "__main__":
    cerebro = bt.Cerebro()
    cerebro.addstrategy(MyStrategy)

    data = bt.feeds.PandasData(dataname=yf.download("{{.Ticker}}", period="2y", auto_adjust=True))
    cerebro.adddata(data)

    cerebro.broker.setcash({{.Capital}})
    cerebro.broker.setcommission(commission={{.Fees}})
    cerebro.broker.set_slippage_perc({{.Slippage}})
    # fill at the next bar's open
    cerebro.broker.set_coc(False)

    print("Starting Portfolio Value: %.2f" % cerebro.broker.getvalue())
    cerebro.run()
    print("Final Portfolio Value: %.2f" % cerebro.broker.getvalue())
    cerebro.plot()
`

func backtraderStrategy(name string, logic backtraderLogic) *template.Template {
	text := strings.NewReplacer(
		"{{INIT}}", logic.init,
		"{{ENTRY}}", logic.entry,
		"{{EXIT}}", logic.exit,
	).Replace(backtraderTemplate)

	return mustParse(name, text)
}

var backtraderTemplates = map[types.StrategyType]*template.Template{
	types.StrategyTypeSMACrossover: backtraderStrategy("backtrader_sma", backtraderLogic{
		init: `
        self.fast_ma = bt.indicators.SimpleMovingAverage(self.datas[0], period=self.params.shortWindow)
        self.slow_ma = bt.indicators.SimpleMovingAverage(self.datas[0], period=self.params.longWindow)
        self.crossover = bt.ind.CrossOver(self.fast_ma, self.slow_ma)
`,
		entry: `            if self.crossover > 0:
                self.buy()
`,
		exit: `            if self.crossover < 0:
                self.close()
`,
	}),
	types.StrategyTypeEMACrossover: backtraderStrategy("backtrader_ema", backtraderLogic{
		init: `
        self.fast_ma = bt.indicators.ExponentialMovingAverage(self.datas[0], period=self.params.shortWindow)
        self.slow_ma = bt.indicators.ExponentialMovingAverage(self.datas[0], period=self.params.longWindow)
        self.crossover = bt.ind.CrossOver(self.fast_ma, self.slow_ma)
`,
		entry: `            if self.crossover > 0:
                self.buy()
`,
		exit: `            if self.crossover < 0:
                self.close()
`,
	}),
	types.StrategyTypeRSIReversal: backtraderStrategy("backtrader_rsi", backtraderLogic{
		init: `
        self.rsi = bt.indicators.RSI(self.datas[0], period=self.params.rsiPeriod)
`,
		entry: `            if self.rsi < self.params.rsiOversold:
                self.buy()
`,
		exit: `            if self.rsi > self.params.rsiOverbought:
                self.close()
`,
	}),
	types.StrategyTypeBollingerBands: backtraderStrategy("backtrader_bollinger", backtraderLogic{
		init: `
        self.bb = bt.indicators.BollingerBands(self.datas[0], period=self.params.bbPeriod, devfactor=self.params.bbStdDev)
`,
		entry: `            if self.dataclose[0] < self.bb.lines.bot[0]:
                self.buy()
`,
		exit: `            if self.dataclose[0] > self.bb.lines.top[0]:
                self.close()
`,
	}),
	types.StrategyTypeMACD: backtraderStrategy("backtrader_macd", backtraderLogic{
		init: `
        self.macd = bt.indicators.MACD(
            self.datas[0],
            period_me1=self.params.macdFast,
            period_me2=self.params.macdSlow,
            period_signal=self.params.macdSignal,
        )
        self.crossover = bt.ind.CrossOver(self.macd.macd, self.macd.signal)
`,
		entry: `            if self.crossover > 0:
                self.buy()
`,
		exit: `            if self.crossover < 0:
                self.close()
`,
	}),
}

var backtraderFallback = backtraderStrategy("backtrader_placeholder", backtraderLogic{
	init: `
        # PLACEHOLDER: no backtrader template for {{.Strategy}}.
`,
	entry: `            pass  # PLACEHOLDER: add the entry rule and call self.buy()
`,
	exit: `            pass  # PLACEHOLDER: add the exit rule and call self.close()
`,
})

// Backtrader renders a backtrader script with the strategy parameters as class params.
// Strategies without a template get a clearly marked placeholder strategy body.
func Backtrader(req Request) (string, error) {
	v, err := newRequestView(req)
	if err != nil {
		return "", err
	}

	return render(backtraderTemplates, backtraderFallback, v)
}
