package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Simon666Z/quantforge/internal/scan"
	"github.com/Simon666Z/quantforge/internal/types"
)

// Application states.
const (
	StateStrategySelect = iota
	StateTickerInput
	StateRunning
	StateResults
)

// Screener runs a screen. *scan.Runner implements it.
type Screener interface {
	Screen(ctx context.Context, req scan.ScreenRequest) ([]scan.UnitResult, error)
}

// Model is the main Bubble Tea model for the interactive screener.
type Model struct {
	state        int
	strategyList list.Model
	tickerInput  textinput.Model
	spinner      spinner.Model
	resultTable  table.Model
	screener     Screener
	start        time.Time
	end          time.Time
	strategy     types.StrategyType
	strategyName string
	tickers      []string
	results      []scan.UnitResult
	err          error
	width        int
	height       int

	cancel context.CancelFunc
}

// NewModel creates a new Model screening bars between start and end.
func NewModel(screener Screener, start time.Time, end time.Time) Model {
	return Model{
		state:        StateStrategySelect,
		strategyList: NewStrategyList(),
		tickerInput:  NewTickerInput(),
		spinner:      NewSpinner(),
		resultTable:  NewResultTable(),
		screener:     screener,
		start:        start,
		end:          end,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.cancel != nil {
				m.cancel()
			}

			return m, tea.Quit
		case "q":
			// Only quit on 'q' if not in text input mode
			if m.state != StateTickerInput {
				if m.cancel != nil {
					m.cancel()
				}

				return m, tea.Quit
			}
		case "esc":
			return m.handleEsc()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.strategyList.SetSize(msg.Width, msg.Height-4)
		m.resultTable.SetWidth(msg.Width)
		m.resultTable.SetHeight(msg.Height - 6)

		return m, nil

	case ScreenDoneMsg:
		m.cancel = nil
		m.results = msg.Results
		m.resultTable = UpdateTableRows(m.resultTable, msg.Results)
		m.state = StateResults

		return m, nil

	case ScreenErrorMsg:
		m.cancel = nil
		m.err = msg.Err
		m.state = StateResults

		return m, nil
	}

	// Delegate to state-specific update
	switch m.state {
	case StateStrategySelect:
		return m.updateStrategySelect(msg)
	case StateTickerInput:
		return m.updateTickerInput(msg)
	case StateRunning:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case StateResults:
		var cmd tea.Cmd
		m.resultTable, cmd = m.resultTable.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m Model) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case StateTickerInput:
		m.tickerInput.Blur()
		m.state = StateStrategySelect
	case StateRunning, StateResults:
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}

		m.results = nil
		m.err = nil
		m.resultTable.SetRows(nil)
		m.state = StateTickerInput

		return m, m.tickerInput.Focus()
	}

	return m, nil
}

func (m Model) updateStrategySelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if item, ok := m.strategyList.SelectedItem().(listItem); ok {
			m.strategy = item.id
			m.strategyName = item.name
			m.state = StateTickerInput

			return m, m.tickerInput.Focus()
		}
	}

	var cmd tea.Cmd
	m.strategyList, cmd = m.strategyList.Update(msg)

	return m, cmd
}

func (m Model) updateTickerInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		tickers := ParseTickers(m.tickerInput.Value())
		if len(tickers) > 0 {
			m.tickers = tickers
			m.tickerInput.Blur()
			m.state = StateRunning

			ctx, cancel := context.WithCancel(context.Background())
			m.cancel = cancel

			return m, tea.Batch(m.spinner.Tick, m.runScreen(ctx))
		}
	}

	var cmd tea.Cmd
	m.tickerInput, cmd = m.tickerInput.Update(msg)

	return m, cmd
}

// runScreen returns a command that runs the screen and reports the outcome as a message.
func (m Model) runScreen(ctx context.Context) tea.Cmd {
	screener := m.screener
	req := scan.ScreenRequest{
		Tickers:  m.tickers,
		Start:    m.start,
		End:      m.end,
		Strategy: m.strategy,
	}

	return func() tea.Msg {
		results, err := screener.Screen(ctx, req)
		if err != nil {
			return ScreenErrorMsg{Err: err}
		}

		return ScreenDoneMsg{Results: results}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var s strings.Builder

	switch m.state {
	case StateStrategySelect:
		s.WriteString(TitleStyle.Render("QuantForge - Screener"))
		s.WriteString("\n\n")
		s.WriteString(m.strategyList.View())
		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("Press Enter to select, q to quit"))

	case StateTickerInput:
		s.WriteString(TitleStyle.Render("Enter Tickers"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("Tickers to screen with %s (comma-separated):\n\n", m.strategyName))
		s.WriteString(m.tickerInput.View())
		s.WriteString("\n\n")
		s.WriteString(HelpStyle.Render("Press Enter to run, Esc to go back"))

	case StateRunning:
		s.WriteString(TitleStyle.Render("Screening"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("%s Running %s on %d tickers...\n", m.spinner.View(), m.strategyName, len(m.tickers)))
		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("Esc: cancel"))

	case StateResults:
		s.WriteString(TitleStyle.Render(fmt.Sprintf("Results - %s (%s to %s)", m.strategyName,
			m.start.Format(types.DateLayout), m.end.Format(types.DateLayout))))
		s.WriteString("\n\n")

		if m.err != nil {
			s.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			s.WriteString("\n\n")
		} else {
			s.WriteString(m.resultTable.View())
		}

		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("q: quit | Esc: new tickers"))
	}

	return s.String()
}
