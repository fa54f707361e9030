package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"stockdash/internal/chart"
	"stockdash/internal/dashboard"
	"stockdash/internal/domain"
)

type fakeActions struct {
	mu      sync.Mutex
	lists   []dashboard.SortMode
	shows   []string
	periods []string
	showErr error
}

func (f *fakeActions) LoadList(_ context.Context, mode dashboard.SortMode) ([]dashboard.StockRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, mode)
	return nil, nil
}

func (f *fakeActions) Show(_ context.Context, symbol string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shows = append(f.shows, symbol)
	return f.showErr
}

func (f *fakeActions) SelectPeriod(period string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.periods = append(f.periods, period)
	return nil
}

func testChart(t *testing.T, values ...float64) *chart.Chart {
	t.Helper()
	ts := make([]int64, len(values))
	for i := range ts {
		ts[i] = int64(i) * 86400
	}
	c, err := chart.Build("ACME", "1mo", domain.TimeSeries{Timestamps: ts, Values: values},
		chart.Options{Location: time.UTC})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return c
}

func testRows() []dashboard.StockRow {
	return []dashboard.StockRow{
		{Symbol: "AAPL", BookValue: "$4.382", Change: "1.25%", ChangeClass: dashboard.ClassGreen},
		{Symbol: "MSFT", BookValue: "$29.000", Change: "-0.40%", ChangeClass: dashboard.ClassRed},
		{Symbol: "ACME", BookValue: "$10.000", Change: "0.00%", ChangeClass: dashboard.ClassRed},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// step feeds msg to m and returns the updated model and command.
func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

func readyModel(t *testing.T, actions Actions) Model {
	t.Helper()
	m := NewModel(context.Background(), actions, dashboard.SortAPI, nil)
	m, _ = step(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = step(t, m, listMsg{rows: testRows()})
	return m
}

func TestBridgeDetachedDrops(t *testing.T) {
	b := NewBridge()
	b.CommitList(testRows())
	h, err := b.Create("myChart", testChart(t, 1, 2))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := h.Destroy(); err != nil {
		t.Errorf("Destroy: %v", err)
	}
}

func TestBridgeForwardsCommits(t *testing.T) {
	var got []tea.Msg
	b := NewBridge()
	b.Attach(func(msg tea.Msg) { got = append(got, msg) })

	b.CommitList(testRows())
	b.CommitPeriods("ACME", []dashboard.PeriodButton{{Period: "1mo", Active: true}})
	b.CommitSummary(dashboard.SummaryPanel{Symbol: "ACME"})
	b.CommitError("show", errors.New("boom"))
	h, _ := b.Create("myChart", testChart(t, 1, 2))
	_ = h.Destroy()
	_ = h.Destroy()

	if len(got) != 6 {
		t.Fatalf("got %d messages, want 6", len(got))
	}
	if _, ok := got[0].(listMsg); !ok {
		t.Errorf("msg[0] = %T, want listMsg", got[0])
	}
	if pm, ok := got[1].(periodsMsg); !ok || pm.symbol != "ACME" {
		t.Errorf("msg[1] = %#v, want periodsMsg for ACME", got[1])
	}
	if _, ok := got[2].(summaryMsg); !ok {
		t.Errorf("msg[2] = %T, want summaryMsg", got[2])
	}
	if em, ok := got[3].(errorMsg); !ok || em.action != "show" {
		t.Errorf("msg[3] = %#v, want errorMsg for show", got[3])
	}
	cm, ok := got[4].(chartMsg)
	if !ok || cm.id != h.ID() {
		t.Errorf("msg[4] = %#v, want chartMsg %s", got[4], h.ID())
	}
	if dm, ok := got[5].(chartDestroyedMsg); !ok || dm.id != h.ID() {
		t.Errorf("msg[5] = %#v, want chartDestroyedMsg %s", got[5], h.ID())
	}
}

func TestBridgeListIsCopied(t *testing.T) {
	var got listMsg
	b := NewBridge()
	b.Attach(func(msg tea.Msg) { got = msg.(listMsg) })
	rows := testRows()
	b.CommitList(rows)
	rows[0].Symbol = "ZZZ"
	if got.rows[0].Symbol != "AAPL" {
		t.Errorf("rows[0].Symbol = %q, want AAPL", got.rows[0].Symbol)
	}
}

func TestModelInitLoadsList(t *testing.T) {
	fa := &fakeActions{}
	m := NewModel(context.Background(), fa, dashboard.SortBookValue, nil)
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("Init returned nil command")
	}
	msg := cmd()
	if done, ok := msg.(actionDoneMsg); !ok || done.action != "list" || done.err != nil {
		t.Errorf("Init cmd = %#v, want list done", msg)
	}
	if len(fa.lists) != 1 || fa.lists[0] != dashboard.SortBookValue {
		t.Errorf("LoadList calls = %v, want [bookvalue]", fa.lists)
	}
}

func TestModelNavigateAndShow(t *testing.T) {
	fa := &fakeActions{}
	m := readyModel(t, fa)

	m, _ = step(t, m, key("down"))
	m, _ = step(t, m, key("down"))
	m, _ = step(t, m, key("down"))
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2 (clamped)", m.cursor)
	}
	m, _ = step(t, m, key("k"))
	if got := m.selectedSymbol(); got != "MSFT" {
		t.Fatalf("selected = %q, want MSFT", got)
	}

	m, cmd := step(t, m, key("enter"))
	if cmd == nil {
		t.Fatal("enter returned nil command")
	}
	if m.pending != 1 {
		t.Errorf("pending = %d, want 1", m.pending)
	}
	m, _ = step(t, m, cmd())
	if len(fa.shows) != 1 || fa.shows[0] != "MSFT" {
		t.Errorf("Show calls = %v, want [MSFT]", fa.shows)
	}
	if m.pending != 0 {
		t.Errorf("pending = %d, want 0", m.pending)
	}
}

func TestModelListKeepsSelection(t *testing.T) {
	m := readyModel(t, &fakeActions{})
	m, _ = step(t, m, key("down"))

	rows := testRows()
	rows[0], rows[1] = rows[1], rows[0]
	m, _ = step(t, m, listMsg{rows: rows})
	if m.cursor != 0 || m.selectedSymbol() != "MSFT" {
		t.Errorf("cursor = %d (%s), want 0 (MSFT)", m.cursor, m.selectedSymbol())
	}
}

func TestModelPeriodKeys(t *testing.T) {
	fa := &fakeActions{}
	m := readyModel(t, fa)
	m, _ = step(t, m, periodsMsg{symbol: "ACME", buttons: []dashboard.PeriodButton{
		{Period: "1d"},
		{Period: "1mo", Active: true, Disabled: true},
		{Period: "1y"},
	}})

	for _, tt := range []struct {
		key  string
		want string
	}{
		{"right", "1y"},
		{"left", "1d"},
		{"3", "1y"},
	} {
		_, cmd := step(t, m, key(tt.key))
		if cmd == nil {
			t.Fatalf("key %q returned nil command", tt.key)
		}
		cmd()
		if got := fa.periods[len(fa.periods)-1]; got != tt.want {
			t.Errorf("key %q selected %q, want %q", tt.key, got, tt.want)
		}
	}

	if _, cmd := step(t, m, key("2")); cmd != nil {
		t.Error("selecting the active period returned a command")
	}
	if _, cmd := step(t, m, key("9")); cmd != nil {
		t.Error("selecting a missing period returned a command")
	}
}

func TestModelStepPeriodAtEnds(t *testing.T) {
	m := Model{buttons: []dashboard.PeriodButton{
		{Period: "1d", Active: true, Disabled: true},
		{Period: "1mo"},
	}}
	if got := m.stepPeriod(-1); got != "" {
		t.Errorf("stepPeriod(-1) = %q, want empty", got)
	}
	if got := m.stepPeriod(1); got != "1mo" {
		t.Errorf("stepPeriod(1) = %q, want 1mo", got)
	}
}

func TestModelHoverCursor(t *testing.T) {
	m := readyModel(t, &fakeActions{})
	c := testChart(t, 10, 5, 20)
	m, _ = step(t, m, chartMsg{id: "c1", chart: c})

	m, _ = step(t, m, key("]"))
	if m.hover != 0 {
		t.Errorf("hover = %d, want 0", m.hover)
	}
	m, _ = step(t, m, key("["))
	if m.hover != 0 {
		t.Errorf("hover = %d, want 0 (clamped)", m.hover)
	}
	m, _ = step(t, m, key("]"))
	m, _ = step(t, m, key("]"))
	m, _ = step(t, m, key("]"))
	if m.hover != 2 {
		t.Errorf("hover = %d, want 2 (clamped)", m.hover)
	}
	m, _ = step(t, m, key("esc"))
	if m.hover != -1 {
		t.Errorf("hover = %d, want -1", m.hover)
	}
	m, _ = step(t, m, key("["))
	if m.hover != 2 {
		t.Errorf("hover = %d, want 2 (from the end)", m.hover)
	}

	m, _ = step(t, m, chartDestroyedMsg{id: "other"})
	if m.chart == nil {
		t.Error("destroying another chart cleared the pane")
	}
	m, _ = step(t, m, chartDestroyedMsg{id: "c1"})
	if m.chart != nil || m.chartID != "" || m.hover != -1 {
		t.Errorf("after destroy chart=%v id=%q hover=%d, want cleared", m.chart, m.chartID, m.hover)
	}
}

func TestModelSortCycles(t *testing.T) {
	fa := &fakeActions{}
	m := readyModel(t, fa)
	m, cmd := step(t, m, key("s"))
	if m.sortMode != dashboard.SortSymbol {
		t.Errorf("sortMode = %s, want symbol", m.sortMode)
	}
	cmd()
	if len(fa.lists) != 1 || fa.lists[0] != dashboard.SortSymbol {
		t.Errorf("LoadList calls = %v, want [symbol]", fa.lists)
	}

	for range dashboard.SortModes() {
		m, _ = step(t, m, key("s"))
	}
	if m.sortMode != dashboard.SortSymbol {
		t.Errorf("sortMode after a full cycle = %s, want symbol", m.sortMode)
	}
}

func TestModelStatus(t *testing.T) {
	m := readyModel(t, &fakeActions{})

	m, _ = step(t, m, errorMsg{action: "show", err: errors.New("stocks api down")})
	if !strings.Contains(m.View(), "show: stocks api down") {
		t.Error("View does not show the committed error")
	}

	m, _ = step(t, m, key("enter"))
	if m.status != "" {
		t.Errorf("status = %q, want cleared by a new action", m.status)
	}

	m, _ = step(t, m, actionDoneMsg{action: "period", err: dashboard.ErrNoActiveSymbol})
	if m.status != "select a stock first" {
		t.Errorf("status = %q, want hint", m.status)
	}

	m.status = ""
	m, _ = step(t, m, actionDoneMsg{action: "show", err: dashboard.ErrSuperseded})
	if m.status != "" {
		t.Errorf("status = %q, want empty for a superseded action", m.status)
	}
}

func TestModelView(t *testing.T) {
	m := NewModel(context.Background(), &fakeActions{}, dashboard.SortAPI, nil)
	if got := m.View(); got != "Loading..." {
		t.Errorf("View before size = %q, want Loading...", got)
	}

	m = readyModel(t, &fakeActions{})
	m, _ = step(t, m, periodsMsg{symbol: "ACME", buttons: []dashboard.PeriodButton{
		{Period: "1d"},
		{Period: "1mo", Active: true, Disabled: true},
	}})
	m, _ = step(t, m, chartMsg{id: "c1", chart: testChart(t, 10, 5, 20)})
	m, _ = step(t, m, summaryMsg{panel: dashboard.SummaryPanel{
		Symbol: "ACME", BookValue: "$10", Change: "0%", ChangeClass: dashboard.ClassRed,
		Summary: "Makes anvils.",
	}})
	m, _ = step(t, m, key("]"))

	view := m.View()
	for _, want := range []string{"ACME  1mo", "sort: api", "AAPL", "$29.000", "1 1d", "2 1mo", "ACME:$10", "Makes anvils."} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q", want)
		}
	}
}

func TestOverlayOpsAndCaption(t *testing.T) {
	c := testChart(t, 1, 5, 3)
	sc := c.ScaleFor(chartArea(40, 10))

	if ops := overlayOps(c, sc, -1); ops != nil {
		t.Errorf("overlayOps(-1) = %v, want nil", ops)
	}
	if ops := overlayOps(c, sc, 3); ops != nil {
		t.Errorf("overlayOps(3) = %v, want nil", ops)
	}

	ops := overlayOps(c, sc, 1)
	if len(ops) != 2 {
		t.Fatalf("overlayOps(1) = %d ops, want 2", len(ops))
	}
	line := ops[0]
	if line.Kind != chart.OpLine || line.From.X != 40 || line.To.Y != 40-chart.BottomOffset {
		t.Errorf("hover line = %+v, want x=40 down to y=%v", line, 40-chart.BottomOffset)
	}
	if _, v := sc.Unproject(line.From); v != 5 {
		t.Errorf("hover line starts at value %v, want 5", v)
	}

	label := c.Labels()[1]
	got := caption(ops, 40, 0)
	if strings.TrimSpace(got) != label {
		t.Errorf("caption = %q, want %q", got, label)
	}
	if want := 20 - len(label)/2; strings.Index(got, label) != want {
		t.Errorf("caption column = %d, want %d", strings.Index(got, label), want)
	}
	if got := caption(ops, 40, 100); !strings.HasSuffix(got, label) || len(got) != 40 {
		t.Errorf("caption past the edge = %q, want right aligned in 40 cells", got)
	}
}

func TestTooltip(t *testing.T) {
	c := testChart(t, 1, 5.5)
	if got := tooltip(c, 1); got != "ACME:$5.5" {
		t.Errorf("tooltip(1) = %q, want ACME:$5.5", got)
	}
	if got := tooltip(c, -1); got != "" {
		t.Errorf("tooltip(-1) = %q, want empty", got)
	}
	if got := tooltip(nil, 0); got != "" {
		t.Errorf("tooltip(nil) = %q, want empty", got)
	}
}

func TestRenderChart(t *testing.T) {
	c := testChart(t, 10, 5, 20, 15)
	if got := RenderChart(c, -1, 5, 2); got != "" {
		t.Errorf("RenderChart too small = %q, want empty", got)
	}
	plain := RenderChart(c, -1, 60, 12)
	if plain == "" {
		t.Fatal("RenderChart returned empty output")
	}
	hovered := RenderChart(c, 2, 60, 12)
	if !strings.Contains(hovered, c.Labels()[2]) {
		t.Errorf("hovered chart missing label %q", c.Labels()[2])
	}
	if single := RenderChart(testChart(t, 7), 0, 60, 12); single == "" {
		t.Error("RenderChart of one point returned empty output")
	}
}

func TestButtonStyleFor(t *testing.T) {
	active := buttonStyleFor(dashboard.PeriodButton{Period: "1mo", Active: true, Disabled: true})
	if !active.GetBold() || active.GetBackground() != buttonOnStyle.GetBackground() {
		t.Error("active button not highlighted")
	}
	idle := buttonStyleFor(dashboard.PeriodButton{Period: "1y"})
	if idle.GetBold() || idle.GetBackground() != buttonStyle.GetBackground() {
		t.Error("idle button highlighted")
	}
}

func TestPadOrTrunc(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"abc", 5, "abc  "},
		{"abcdef", 3, "abc"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := padOrTrunc(tt.in, tt.width); got != tt.want {
			t.Errorf("padOrTrunc(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
