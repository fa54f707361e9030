package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"stockdash/internal/chart"
	"stockdash/internal/dashboard"
)

var (
	_ dashboard.Surface = (*Bridge)(nil)
	_ chart.Canvas      = (*Bridge)(nil)
)

// Messages delivered by the Bridge.
type (
	listMsg struct{ rows []dashboard.StockRow }

	periodsMsg struct {
		symbol  string
		buttons []dashboard.PeriodButton
	}

	summaryMsg struct{ panel dashboard.SummaryPanel }

	errorMsg struct {
		action string
		err    error
	}

	chartMsg struct {
		id    string
		chart *chart.Chart
	}

	chartDestroyedMsg struct{ id string }
)

// Bridge is the terminal's Surface and Canvas. Each commit is forwarded to
// the running program as a message; commits made before Attach are dropped.
type Bridge struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

// NewBridge creates a detached bridge.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach routes commits to send, usually (*tea.Program).Send.
func (b *Bridge) Attach(send func(tea.Msg)) {
	b.mu.Lock()
	b.send = send
	b.mu.Unlock()
}

func (b *Bridge) emit(msg tea.Msg) {
	b.mu.Lock()
	send := b.send
	b.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

func (b *Bridge) CommitList(rows []dashboard.StockRow) {
	b.emit(listMsg{rows: append([]dashboard.StockRow(nil), rows...)})
}

func (b *Bridge) CommitPeriods(symbol string, buttons []dashboard.PeriodButton) {
	b.emit(periodsMsg{symbol: symbol, buttons: append([]dashboard.PeriodButton(nil), buttons...)})
}

func (b *Bridge) CommitSummary(panel dashboard.SummaryPanel) {
	b.emit(summaryMsg{panel: panel})
}

func (b *Bridge) CommitError(action string, err error) {
	b.emit(errorMsg{action: action, err: err})
}

// Create hands c to the program's chart pane. target is ignored; the
// terminal has a single chart pane.
func (b *Bridge) Create(_ string, c *chart.Chart) (chart.Handle, error) {
	h := &termHandle{id: uuid.NewString(), bridge: b}
	b.emit(chartMsg{id: h.id, chart: c})
	return h, nil
}

// termHandle is a chart shown in the chart pane.
type termHandle struct {
	id     string
	bridge *Bridge

	once sync.Once
}

func (h *termHandle) ID() string { return h.id }

// Destroy clears the chart pane if it still shows this chart.
func (h *termHandle) Destroy() error {
	h.once.Do(func() {
		h.bridge.emit(chartDestroyedMsg{id: h.id})
	})
	return nil
}
