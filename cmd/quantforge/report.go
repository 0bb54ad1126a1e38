package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Simon666Z/quantforge/internal/scan"
	"github.com/Simon666Z/quantforge/internal/types"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle = lipgloss.NewStyle().Faint(true).Width(16)
	gainStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	lossStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	headStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func signed(value float64, format string) string {
	text := fmt.Sprintf(format, value)

	switch {
	case value > 0:
		return gainStyle.Render(text)
	case value < 0:
		return lossStyle.Render(text)
	default:
		return text
	}
}

func row(label string, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}

// renderResult formats the summary of one backtest.
func renderResult(result types.BacktestResult) string {
	m := result.Metrics

	lines := []string{
		titleStyle.Render(fmt.Sprintf("%s on %s", result.Strategy, result.Symbol)),
		row("Run", result.ID),
		row("Outcome", string(result.Outcome)),
	}

	if result.FlatReason != "" {
		lines = append(lines, row("Flat reason", result.FlatReason))
	}

	lines = append(lines,
		row("Initial capital", fmt.Sprintf("%.2f", m.InitialCapital)),
		row("Final capital", fmt.Sprintf("%.2f", m.FinalCapital)),
		row("Total return", signed(m.TotalReturn, "%.2f%%")),
		row("Max drawdown", fmt.Sprintf("%.2f%%", m.MaxDrawdown)),
		row("Sharpe ratio", signed(m.SharpeRatio, "%.2f")),
		row("Win rate", fmt.Sprintf("%.2f%%", m.WinRate)),
		row("Orders", fmt.Sprintf("%d", m.TradeCount)),
	)

	if len(result.Orders) > 0 {
		turnover := 0.0
		for i := range result.Orders {
			turnover += result.Orders[i].Notional()
		}

		lines = append(lines, row("Turnover", fmt.Sprintf("%.2f", turnover)))
	}

	if n := len(result.RoundTrips); n > 0 {
		holding := 0
		for _, trip := range result.RoundTrips {
			holding += trip.HoldingBars()
		}

		lines = append(lines,
			row("Round trips", fmt.Sprintf("%d", n)),
			row("Avg holding", fmt.Sprintf("%.1f bars", float64(holding)/float64(n))),
		)
	}

	var b strings.Builder
	b.WriteString(boxStyle.Render(strings.Join(lines, "\n")))
	b.WriteString("\n")

	if len(result.Trades) > 0 {
		b.WriteString(headStyle.Render("Trades"))
		b.WriteString("\n")

		for _, trade := range result.Trades {
			fmt.Fprintf(&b, "%s  %-4s %10.2f  %s\n", trade.Date, trade.Type, trade.Price, trade.Reason)
		}
	}

	return b.String()
}

// renderUnits formats screener or stress test results, one line per unit.
func renderUnits(title string, results []scan.UnitResult) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(headStyle.Render(fmt.Sprintf("%-10s %-18s %-8s %10s %10s %8s %6s %s",
		"TICKER", "SCENARIO", "OUTCOME", "RETURN", "DRAWDOWN", "SHARPE", "BARS", "SIGNAL")))
	b.WriteString("\n")

	for _, r := range results {
		if r.Failed() {
			fmt.Fprintf(&b, "%-10s %-18s %s\n", r.Ticker, r.Scenario, errorStyle.Render(r.Error))

			continue
		}

		fmt.Fprintf(&b, "%-10s %-18s %-8s %10s %9.2f%% %8.2f %6d %s\n",
			r.Ticker,
			r.Scenario,
			r.Outcome,
			signed(r.Metrics.TotalReturn, "%.2f%%"),
			r.Metrics.MaxDrawdown,
			r.Metrics.SharpeRatio,
			r.Bars,
			signalOf(r),
		)
	}

	return b.String()
}

func signalOf(r scan.UnitResult) string {
	switch {
	case r.EntrySignal:
		return gainStyle.Render("BUY")
	case r.ExitSignal:
		return lossStyle.Render("SELL")
	default:
		return "-"
	}
}
