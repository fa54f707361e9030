package events

import (
	"sync"

	"github.com/google/uuid"

	"stockdash/internal/chart"
	"stockdash/internal/dashboard"
)

var (
	_ dashboard.Surface = (*Publisher)(nil)
	_ chart.Canvas      = (*Publisher)(nil)
)

// Publisher is the dashboard's Surface and Canvas for remote targets. Every
// commit becomes an event on the hub.
type Publisher struct {
	hub *Hub
}

// NewPublisher creates a publisher writing to hub.
func NewPublisher(hub *Hub) *Publisher {
	return &Publisher{hub: hub}
}

func (p *Publisher) CommitList(rows []dashboard.StockRow) {
	p.hub.Publish(TypeList, ContainerList, rows)
}

func (p *Publisher) CommitPeriods(symbol string, buttons []dashboard.PeriodButton) {
	p.hub.Publish(TypePeriods, ContainerPeriods, PeriodsPayload{Symbol: symbol, Buttons: buttons})
}

func (p *Publisher) CommitSummary(panel dashboard.SummaryPanel) {
	p.hub.Publish(TypeSummary, ContainerInfo, panel)
}

func (p *Publisher) CommitError(action string, err error) {
	p.hub.Publish(TypeError, "", ErrorPayload{Action: action, Message: err.Error()})
}

// Create announces a new chart on target and returns its handle.
func (p *Publisher) Create(target string, c *chart.Chart) (chart.Handle, error) {
	h := &webHandle{id: uuid.NewString(), target: target, hub: p.hub}
	p.hub.Publish(TypeChartCreate, target, ChartPayload{Handle: h.id, Chart: c})
	return h, nil
}

// webHandle is a chart living in remote pages.
type webHandle struct {
	id     string
	target string
	hub    *Hub

	once sync.Once
}

func (h *webHandle) ID() string { return h.id }

// Destroy announces the chart's removal. Repeated calls do nothing.
func (h *webHandle) Destroy() error {
	h.once.Do(func() {
		h.hub.Publish(TypeChartDestroy, h.target, ChartPayload{Handle: h.id})
	})
	return nil
}
