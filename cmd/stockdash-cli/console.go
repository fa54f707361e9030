package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"

	"stockdash/internal/chart"
	"stockdash/internal/dashboard"
	"stockdash/internal/tui"
)

// console is a one-shot Surface and Canvas that keeps the last commit of
// each kind for printing once the session call returns.
type console struct {
	mu      sync.Mutex
	rows    []dashboard.StockRow
	symbol  string
	buttons []dashboard.PeriodButton
	panel   *dashboard.SummaryPanel
	chart   *chart.Chart
	chartID string
	errs    []string
}

func newConsole() *console { return &console{} }

func (c *console) CommitList(rows []dashboard.StockRow) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = rows
}

func (c *console) CommitPeriods(symbol string, buttons []dashboard.PeriodButton) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.symbol, c.buttons = symbol, buttons
}

func (c *console) CommitSummary(panel dashboard.SummaryPanel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.panel = &panel
}

func (c *console) CommitError(action string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs = append(c.errs, fmt.Sprintf("%s: %v", action, err))
}

func (c *console) Create(_ string, ch *chart.Chart) (chart.Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chart = ch
	c.chartID = uuid.NewString()
	return &consoleHandle{id: c.chartID, c: c}, nil
}

type consoleHandle struct {
	id string
	c  *console
}

func (h *consoleHandle) ID() string { return h.id }

func (h *consoleHandle) Destroy() error {
	h.c.mu.Lock()
	defer h.c.mu.Unlock()
	if h.c.chartID == h.id {
		h.c.chart = nil
		h.c.chartID = ""
	}
	return nil
}

// print writes what the session committed: periods, chart and summary.
func (c *console) print(w io.Writer, width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.buttons) > 0 {
		var parts []string
		for _, b := range c.buttons {
			if b.Active {
				parts = append(parts, "["+b.Period+"]")
			} else {
				parts = append(parts, b.Period)
			}
		}
		fmt.Fprintf(w, "%s  %s\n\n", c.symbol, strings.Join(parts, " "))
	}
	if c.chart != nil {
		values := c.chart.Values()
		labels := c.chart.Labels()
		fmt.Fprintln(w, tui.RenderChart(c.chart, -1, width, height))
		fmt.Fprintf(w, "low  %s on %s\nhigh %s on %s\n\n",
			chart.TooltipLabel(c.chart.Symbol, values[c.chart.MinIndex]), labels[c.chart.MinIndex],
			chart.TooltipLabel(c.chart.Symbol, values[c.chart.MaxIndex]), labels[c.chart.MaxIndex])
	}
	if p := c.panel; p != nil {
		fmt.Fprintf(w, "%s  book value %s  change %s\n%s\n", p.Symbol, p.BookValue, p.Change, p.Summary)
	}
	for _, e := range c.errs {
		fmt.Fprintf(w, "error: %s\n", e)
	}
}

// writeRows prints the ticker list as a fixed-width table.
func writeRows(w io.Writer, rows []dashboard.StockRow) {
	fmt.Fprintf(w, "%-8s %12s %10s\n", "SYMBOL", "BOOK VALUE", "CHANGE")
	for _, r := range rows {
		fmt.Fprintf(w, "%-8s %12s %10s\n", r.Symbol, r.BookValue, r.Change)
	}
}

// writePeriods prints one line per chart: period, points, date range, low
// and high.
func writePeriods(w io.Writer, charts []*chart.Chart) {
	fmt.Fprintf(w, "%-6s %6s  %-23s %12s %12s\n", "PERIOD", "POINTS", "RANGE", "LOW", "HIGH")
	for _, ch := range charts {
		labels := ch.Labels()
		values := ch.Values()
		fmt.Fprintf(w, "%-6s %6d  %-23s %12s %12s\n",
			ch.Period,
			ch.Len(),
			labels[0]+" - "+labels[len(labels)-1],
			dashboard.FormatRawBookValue(values[ch.MinIndex]),
			dashboard.FormatRawBookValue(values[ch.MaxIndex]),
		)
	}
}
