package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/Simon666Z/quantforge/internal/scan"
	"github.com/Simon666Z/quantforge/internal/strategy"
	"github.com/Simon666Z/quantforge/internal/types"
)

// listItem implements list.Item for the strategy list.
type listItem struct {
	id          types.StrategyType
	name        string
	description string
}

func (i listItem) Title() string       { return i.name }
func (i listItem) Description() string { return i.description }
func (i listItem) FilterValue() string { return i.name }

// NewStrategyList creates the strategy selection list from the catalog.
func NewStrategyList() list.Model {
	catalog := strategy.Catalog()
	items := make([]list.Item, 0, len(catalog))

	for _, entry := range catalog {
		items = append(items, listItem{id: entry.ID, name: entry.Name, description: entry.Description})
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true

	l := list.New(items, delegate, 0, 0)
	l.Title = "Select Strategy"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

// NewTickerInput creates the text input for ticker entry.
func NewTickerInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "AAPL,MSFT,NVDA"
	ti.CharLimit = 400
	ti.Width = 50
	ti.Prompt = "> "

	return ti
}

// NewSpinner creates the spinner shown while a screen runs.
func NewSpinner() spinner.Model {
	return spinner.New(spinner.WithSpinner(spinner.Dot))
}

// ParseTickers parses comma-separated tickers into a slice.
func ParseTickers(input string) []string {
	parts := strings.Split(input, ",")
	tickers := make([]string, 0, len(parts))

	for _, p := range parts {
		s := strings.TrimSpace(strings.ToUpper(p))
		if s != "" {
			tickers = append(tickers, s)
		}
	}

	return tickers
}

// NewResultTable creates the table for screen results.
func NewResultTable() table.Model {
	columns := []table.Column{
		{Title: "Ticker", Width: 10},
		{Title: "Signal", Width: 8},
		{Title: "Return", Width: 14},
		{Title: "Drawdown", Width: 10},
		{Title: "Sharpe", Width: 8},
		{Title: "Win rate", Width: 10},
		{Title: "Orders", Width: 8},
		{Title: "Status", Width: 30},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	t.SetStyles(s)

	return t
}

// UpdateTableRows fills the table with results in screen order.
func UpdateTableRows(t table.Model, results []scan.UnitResult) table.Model {
	rows := make([]table.Row, 0, len(results))

	for _, r := range results {
		if r.Failed() {
			rows = append(rows, table.Row{r.Ticker, "-", "-", "-", "-", "-", "-", r.Error})

			continue
		}

		signal := "-"
		if r.EntrySignal {
			signal = "BUY"
		} else if r.ExitSignal {
			signal = "SELL"
		}

		status := string(r.Outcome)
		if r.Outcome == types.OutcomeFlat {
			status = "flat, no orders"
		}

		rows = append(rows, table.Row{
			r.Ticker,
			signal,
			FormatReturn(r.Metrics.TotalReturn),
			fmt.Sprintf("%.2f%%", r.Metrics.MaxDrawdown),
			fmt.Sprintf("%.2f", r.Metrics.SharpeRatio),
			fmt.Sprintf("%.1f%%", r.Metrics.WinRate),
			fmt.Sprintf("%d", r.Metrics.TradeCount),
			status,
		})
	}

	t.SetRows(rows)

	return t
}
