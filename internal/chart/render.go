package chart

import (
	"fmt"
	"log/slog"

	"stockdash/internal/domain"
)

// Handle is a live chart on a rendering target.
type Handle interface {
	ID() string
	Destroy() error
}

// Canvas creates charts on a rendering target.
type Canvas interface {
	Create(target string, c *Chart) (Handle, error)
}

// Renderer builds charts and swaps them onto a Canvas.
type Renderer struct {
	canvas Canvas
	opts   Options
	logger *slog.Logger
}

// NewRenderer creates a renderer drawing on canvas.
func NewRenderer(canvas Canvas, opts Options, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{canvas: canvas, opts: opts.withDefaults(), logger: logger}
}

// Options returns the renderer's label and target options.
func (r *Renderer) Options() Options { return r.opts }

// Render builds the chart for series, destroys prev and creates the new
// chart. An invalid series leaves prev untouched and returns it. If prev
// cannot be destroyed it is returned as well, so the caller keeps tracking
// the still-live chart.
func (r *Renderer) Render(prev Handle, symbol, period string, series domain.TimeSeries) (Handle, *Chart, error) {
	c, err := Build(symbol, period, series, r.opts)
	if err != nil {
		return prev, nil, err
	}

	if prev != nil {
		if err := prev.Destroy(); err != nil {
			return prev, nil, fmt.Errorf("destroy chart %s: %w", prev.ID(), err)
		}
	}

	h, err := r.canvas.Create(r.opts.Target, c)
	if err != nil {
		return nil, nil, fmt.Errorf("create chart %s %s: %w", symbol, period, err)
	}
	r.logger.Debug("chart rendered",
		"symbol", symbol,
		"period", period,
		"points", c.Len(),
		"handle", h.ID(),
	)
	return h, c, nil
}
