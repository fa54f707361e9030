package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"stockdash/internal/chart"
	"stockdash/internal/dashboard"
	"stockdash/internal/domain"
	"stockdash/pkg/stockdash"
)

func buildChart(t *testing.T, period string, values ...float64) *chart.Chart {
	t.Helper()
	ts := make([]int64, len(values))
	for i := range ts {
		ts[i] = int64(i) * 86400
	}
	c, err := chart.Build("ACME", period, domain.TimeSeries{Timestamps: ts, Values: values},
		chart.Options{Location: time.UTC})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return c
}

func TestWriteRows(t *testing.T) {
	var buf bytes.Buffer
	writeRows(&buf, []dashboard.StockRow{{Symbol: "ACME", BookValue: "$10.000", Change: "1.50%"}})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if fields := strings.Fields(lines[1]); len(fields) != 3 || fields[0] != "ACME" || fields[2] != "1.50%" {
		t.Errorf("row = %q", lines[1])
	}
}

func TestWritePeriods(t *testing.T) {
	var buf bytes.Buffer
	writePeriods(&buf, []*chart.Chart{buildChart(t, "1mo", 10, 5, 20)})
	out := buf.String()
	for _, want := range []string{"1mo", "1/1/1970 - 1/3/1970", "$5", "$20"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConsoleHandles(t *testing.T) {
	c := newConsole()
	first, _ := c.Create("myChart", buildChart(t, "1mo", 1, 2))
	second, _ := c.Create("myChart", buildChart(t, "1y", 3, 4))

	if err := first.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if c.chart == nil || c.chart.Period != "1y" {
		t.Errorf("destroying a stale handle cleared the live chart")
	}
	if err := second.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if c.chart != nil {
		t.Errorf("chart = %v, want nil", c.chart)
	}
}

func TestConsolePrint(t *testing.T) {
	c := newConsole()
	c.CommitPeriods("ACME", []dashboard.PeriodButton{{Period: "1d"}, {Period: "1mo", Active: true}})
	c.CommitSummary(dashboard.SummaryPanel{Symbol: "ACME", BookValue: "$10", Change: "2%", Summary: "Anvils."})
	c.CommitError("show", errors.New("boom"))
	if _, err := c.Create("myChart", buildChart(t, "1mo", 10, 5, 20)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	var buf bytes.Buffer
	c.print(&buf, 60, 10)
	out := buf.String()
	for _, want := range []string{
		"ACME  1d [1mo]",
		"low  ACME:$5 on 1/2/1970",
		"high ACME:$20 on 1/3/1970",
		"ACME  book value $10  change 2%",
		"Anvils.",
		"error: show: boom",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteState(t *testing.T) {
	var buf bytes.Buffer
	writeState(&buf, &stockdash.State{Rows: make([]stockdash.StockRow, 3), Sort: "symbol"})
	if got := buf.String(); got != "no stock open (3 in list, sort symbol)\n" {
		t.Errorf("empty state = %q", got)
	}

	buf.Reset()
	writeState(&buf, &stockdash.State{
		Symbol:        "ACME",
		ChartID:       "c1",
		PeriodRenders: 2,
		Buttons:       []stockdash.PeriodButton{{Period: "5d", Active: true}, {Period: "1mo"}},
		Summary:       &stockdash.SummaryPanel{BookValue: "$1", Change: "2%", Summary: "Anvils."},
	})
	want := "ACME  [5d] 1mo  chart c1  period renders 2\nbook value $1  change 2%\nAnvils.\n"
	if got := buf.String(); got != want {
		t.Errorf("state = %q, want %q", got, want)
	}
}
