// Package tui is the terminal rendering target of the dashboard: a ticker
// list, a braille price chart with period buttons, and the summary panel.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"stockdash/internal/chart"
	"stockdash/internal/dashboard"
)

// Actions is the part of *dashboard.Session the terminal drives.
type Actions interface {
	LoadList(ctx context.Context, mode dashboard.SortMode) ([]dashboard.StockRow, error)
	Show(ctx context.Context, symbol string) error
	SelectPeriod(period string) error
}

// Layout.
const (
	listWidth     = 34
	minChartWidth = 20
	summaryLines  = 6
)

// actionDoneMsg reports the end of a session call.
type actionDoneMsg struct {
	action string
	err    error
}

// Model is the bubbletea model of the terminal dashboard.
type Model struct {
	actions  Actions
	ctx      context.Context
	logger   *slog.Logger
	sortMode dashboard.SortMode

	rows    []dashboard.StockRow
	cursor  int
	symbol  string
	buttons []dashboard.PeriodButton
	summary *dashboard.SummaryPanel
	chartID string
	chart   *chart.Chart
	hover   int
	status  string
	pending int

	list          viewport.Model
	ready         bool
	width, height int
}

// NewModel creates the model. ctx bounds every session call it issues.
func NewModel(ctx context.Context, actions Actions, sortMode dashboard.SortMode, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	return Model{
		actions:  actions,
		ctx:      ctx,
		logger:   logger,
		sortMode: sortMode,
		hover:    -1,
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadListCmd()
}

func (m Model) loadListCmd() tea.Cmd {
	actions, ctx, mode := m.actions, m.ctx, m.sortMode
	return func() tea.Msg {
		_, err := actions.LoadList(ctx, mode)
		return actionDoneMsg{action: "list", err: err}
	}
}

func (m Model) showCmd(symbol string) tea.Cmd {
	actions, ctx := m.actions, m.ctx
	return func() tea.Msg {
		return actionDoneMsg{action: "show", err: actions.Show(ctx, symbol)}
	}
}

func (m Model) periodCmd(period string) tea.Cmd {
	actions := m.actions
	return func() tea.Msg {
		return actionDoneMsg{action: "period", err: actions.SelectPeriod(period)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := m.height - 3 // header, column header, footer
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.list = viewport.New(listWidth, vpHeight)
			m.list.MouseWheelEnabled = true
			m.ready = true
		} else {
			m.list.Width = listWidth
			m.list.Height = vpHeight
		}
		m.list.SetContent(m.renderList())
		m.ensureVisible()
		return m, nil

	case listMsg:
		selected := m.selectedSymbol()
		m.rows = msg.rows
		m.cursor = 0
		for i, r := range m.rows {
			if r.Symbol == selected {
				m.cursor = i
				break
			}
		}
		m.refreshList()
		return m, nil

	case periodsMsg:
		m.symbol = msg.symbol
		m.buttons = msg.buttons
		return m, nil

	case summaryMsg:
		p := msg.panel
		m.summary = &p
		return m, nil

	case chartMsg:
		m.chartID = msg.id
		m.chart = msg.chart
		m.hover = -1
		return m, nil

	case chartDestroyedMsg:
		if msg.id == m.chartID {
			m.chartID = ""
			m.chart = nil
			m.hover = -1
		}
		return m, nil

	case errorMsg:
		m.status = fmt.Sprintf("%s: %v", msg.action, msg.err)
		m.logger.Warn("dashboard error", "action", msg.action, "error", msg.err)
		return m, nil

	case actionDoneMsg:
		if m.pending > 0 {
			m.pending--
		}
		switch {
		case msg.err == nil, errors.Is(msg.err, dashboard.ErrSuperseded):
		case errors.Is(msg.err, dashboard.ErrNoActiveSymbol):
			m.status = "select a stock first"
		default:
			m.logger.Debug("action failed", "action", msg.action, "error", msg.err)
		}
		return m, nil
	}

	if m.ready {
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k", "down", "j":
		if len(m.rows) == 0 {
			return m, nil
		}
		if key == "up" || key == "k" {
			if m.cursor > 0 {
				m.cursor--
			}
		} else if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		m.refreshList()
		return m, nil
	case "enter":
		symbol := m.selectedSymbol()
		if symbol == "" {
			return m, nil
		}
		m.status = ""
		m.pending++
		return m, m.showCmd(symbol)
	case "left", "h", "right", "l":
		delta := 1
		if key == "left" || key == "h" {
			delta = -1
		}
		period := m.stepPeriod(delta)
		if period == "" {
			return m, nil
		}
		m.status = ""
		return m, m.periodCmd(period)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		i := int(key[0] - '1')
		if i >= len(m.buttons) || m.buttons[i].Disabled {
			return m, nil
		}
		m.status = ""
		return m, m.periodCmd(m.buttons[i].Period)
	case "[", "]":
		n := 0
		if m.chart != nil {
			n = m.chart.Len()
		}
		if n == 0 {
			return m, nil
		}
		switch {
		case m.hover < 0 && key == "[":
			m.hover = n - 1
		case m.hover < 0:
			m.hover = 0
		case key == "[" && m.hover > 0:
			m.hover--
		case key == "]" && m.hover < n-1:
			m.hover++
		}
		return m, nil
	case "esc":
		m.hover = -1
		return m, nil
	case "s":
		modes := dashboard.SortModes()
		for i, mode := range modes {
			if mode == m.sortMode {
				m.sortMode = modes[(i+1)%len(modes)]
				break
			}
		}
		m.pending++
		return m, m.loadListCmd()
	case "r":
		m.pending++
		return m, m.loadListCmd()
	}
	return m, nil
}

// stepPeriod returns the enabled period delta buttons away from the active
// one, or "" at either end.
func (m Model) stepPeriod(delta int) string {
	active := -1
	for i, b := range m.buttons {
		if b.Active {
			active = i
			break
		}
	}
	if active < 0 {
		return ""
	}
	for i := active + delta; i >= 0 && i < len(m.buttons); i += delta {
		if !m.buttons[i].Disabled {
			return m.buttons[i].Period
		}
	}
	return ""
}

func (m Model) selectedSymbol() string {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return ""
	}
	return m.rows[m.cursor].Symbol
}

func (m *Model) refreshList() {
	if !m.ready {
		return
	}
	m.list.SetContent(m.renderList())
	m.ensureVisible()
}

// ensureVisible scrolls the list so the cursor row is visible.
func (m *Model) ensureVisible() {
	yOff := m.list.YOffset
	if m.cursor < yOff {
		m.list.SetYOffset(m.cursor)
	} else if m.cursor >= yOff+m.list.Height {
		m.list.SetYOffset(m.cursor - m.list.Height + 1)
	}
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	headerText := " stockdash"
	if m.symbol != "" {
		headerText += fmt.Sprintf("  %s  %s", m.symbol, dashboard.ActivePeriod(m.buttons))
	}
	headerText += fmt.Sprintf("    sort: %s", m.sortMode)
	if m.pending > 0 {
		headerText += "    loading..."
	}
	headerBar := headerStyle.Render(padOrTrunc(headerText+" ", m.width))

	left := colHeaderStyle.Render(padOrTrunc(fmt.Sprintf("  %-8s %11s %10s", "SYMBOL", "BOOK VALUE", "CHANGE"), listWidth)) +
		"\n" + m.list.View()
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", m.renderDetail())

	footerText := " q quit  up/dn select  enter show  left/right period  [/] cursor  s sort  r reload"
	footerBar := footerStyle.Render(padOrTrunc(footerText, m.width))
	if m.status != "" {
		footerBar = errorStyle.Render(padOrTrunc(" "+m.status, m.width))
	}

	return headerBar + "\n" + body + "\n" + footerBar
}

func (m Model) renderList() string {
	var b strings.Builder
	for i, r := range m.rows {
		hl := i == m.cursor
		sym := symbolStyle
		if hl {
			sym = symbolHlStyle
		}
		b.WriteString(hlStyle(dimStyle, hl).Render("  "))
		b.WriteString(hlStyle(sym, hl).Render(fmt.Sprintf("%-8s", r.Symbol)))
		b.WriteString(hlStyle(priceStyle, hl).Render(fmt.Sprintf(" %11s", r.BookValue)))
		b.WriteString(hlStyle(classStyle(r.ChangeClass), hl).Render(fmt.Sprintf(" %10s", r.Change)))
		if i < len(m.rows)-1 {
			b.WriteString("\n")
		}
	}
	if len(m.rows) == 0 {
		b.WriteString(dimStyle.Render("  (no stocks)"))
	}
	return b.String()
}

// renderDetail draws the right pane: period buttons, chart and summary.
func (m Model) renderDetail() string {
	width := m.width - listWidth - 1
	if width < minChartWidth {
		return ""
	}
	if m.symbol == "" && m.chart == nil {
		return dimStyle.Render("select a stock and press enter")
	}

	var b strings.Builder
	b.WriteString(m.renderButtons())
	b.WriteString("\n")

	chartHeight := m.height - summaryLines - 5
	if m.chart != nil && chartHeight >= 4 {
		if tip := tooltip(m.chart, m.hover); tip != "" {
			b.WriteString(paneTitleStyle.Render(tip))
		}
		b.WriteString("\n")
		b.WriteString(RenderChart(m.chart, m.hover, width, chartHeight))
		b.WriteString("\n")
	}

	if p := m.summary; p != nil {
		b.WriteString(paneTitleStyle.Render(p.Symbol))
		b.WriteString("  ")
		b.WriteString(priceStyle.Render(p.BookValue))
		b.WriteString("  ")
		b.WriteString(classStyle(p.ChangeClass).Render(p.Change))
		b.WriteString("\n")
		b.WriteString(summaryTextStyle.Width(width).MaxHeight(summaryLines - 1).Render(p.Summary))
	}
	return b.String()
}

func (m Model) renderButtons() string {
	parts := make([]string, 0, len(m.buttons))
	for i, btn := range m.buttons {
		label := fmt.Sprintf(" %d %s ", i+1, btn.Period)
		parts = append(parts, buttonStyleFor(btn).Render(label))
	}
	return strings.Join(parts, " ")
}

// buttonStyleFor picks a button's style. The active button is also
// disabled, so Active is checked first.
func buttonStyleFor(btn dashboard.PeriodButton) lipgloss.Style {
	switch {
	case btn.Active:
		return buttonOnStyle
	case btn.Disabled:
		return buttonOffStyle
	default:
		return buttonStyle
	}
}
