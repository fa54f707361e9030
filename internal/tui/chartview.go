package tui

import (
	"math"
	"strings"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/linechart"
	"github.com/shopspring/decimal"

	"stockdash/internal/chart"
)

// A braille cell holds 2x4 dots. Overlays are laid out in dot space so the
// bottom offset keeps its proportion on a terminal.
const (
	dotsPerCol = 2
	dotsPerRow = 4
)

// chartArea is the overlay area of a w x h cell chart.
func chartArea(w, h int) chart.Rect {
	return chart.Rect{Right: float64(w * dotsPerCol), Bottom: float64(h * dotsPerRow)}
}

// overlayOps runs the chart overlays for the point at hover. A hover outside
// the series yields no ops.
func overlayOps(c *chart.Chart, sc chart.Scale, hover int) []chart.DrawOp {
	if hover < 0 || hover >= c.Len() {
		return nil
	}
	f := chart.Frame{Area: sc.Area, Active: []chart.ActivePoint{sc.Active(c, hover)}}
	return chart.DrawOverlays(c, f)
}

// caption lays the text ops out on a single line of width cells, each
// centred under its dot column. offset shifts columns right past the y axis.
func caption(ops []chart.DrawOp, width, offset int) string {
	line := []rune(strings.Repeat(" ", width))
	for _, op := range ops {
		if op.Kind != chart.OpText || op.Text == "" {
			continue
		}
		text := []rune(op.Text)
		col := offset + int(op.From.X)/dotsPerCol
		start := col - len(text)/2
		if start+len(text) > width {
			start = width - len(text)
		}
		if start < 0 {
			start = 0
		}
		for i, r := range text {
			if start+i < width {
				line[start+i] = r
			}
		}
	}
	return strings.TrimRight(string(line), " ")
}

// tooltip returns the hover tooltip of point hover, or "".
func tooltip(c *chart.Chart, hover int) string {
	if c == nil || len(c.Config.Data.Datasets) == 0 {
		return ""
	}
	labels := c.Config.Data.Datasets[0].TooltipLabels
	if hover < 0 || hover >= len(labels) {
		return ""
	}
	return labels[hover]
}

func formatAxisValue(v float64) string {
	return decimal.NewFromFloat(v).Round(2).String()
}

// RenderChart draws c as a braille line chart w cells wide and h rows tall,
// with its extreme points marked and the hover overlays applied. When a
// point is hovered a caption line is appended.
func RenderChart(c *chart.Chart, hover, w, h int) string {
	n := c.Len()
	if n == 0 || w < 10 || h < 4 {
		return ""
	}
	values := c.Values()
	labels := c.Labels()
	sc := c.ScaleFor(chartArea(w, h))

	maxX := float64(n - 1)
	if n == 1 {
		maxX = 1
	}
	lc := linechart.New(w, h, 0, maxX, sc.Min, sc.Max,
		linechart.WithXYSteps(4, 4),
		linechart.WithXLabelFormatter(func(_ int, v float64) string {
			i := int(math.Round(v))
			if i < 0 || i >= len(labels) {
				return ""
			}
			return labels[i]
		}),
		linechart.WithYLabelFormatter(func(_ int, v float64) string {
			return formatAxisValue(v)
		}),
		linechart.WithStyles(axisStyle, labelStyle, lineStyle),
	)
	lc.DrawXYAxisAndLabel()

	pt := func(i int) canvas.Float64Point {
		return canvas.Float64Point{X: float64(i), Y: values[i]}
	}
	if n == 1 {
		lc.DrawBrailleLineWithStyle(pt(0), pt(0), lineStyle)
	}
	for i := 1; i < n; i++ {
		lc.DrawBrailleLineWithStyle(pt(i-1), pt(i), lineStyle)
	}
	radii := c.Config.Data.Datasets[0].PointRadius
	for i, r := range radii {
		if r > 0 && i < n {
			lc.DrawBrailleLineWithStyle(pt(i), pt(i), markerStyle)
		}
	}

	ops := overlayOps(c, sc, hover)
	for _, op := range ops {
		if op.Kind != chart.OpLine {
			continue
		}
		fx, fy := sc.Unproject(op.From)
		tx, ty := sc.Unproject(op.To)
		lc.DrawBrailleLineWithStyle(
			canvas.Float64Point{X: fx, Y: fy},
			canvas.Float64Point{X: tx, Y: ty},
			hoverStyle,
		)
	}

	view := lc.View()
	if len(ops) == 0 {
		return view
	}
	offset := len(formatAxisValue(sc.Max)) + 1
	if m := len(formatAxisValue(sc.Min)) + 1; m > offset {
		offset = m
	}
	return view + "\n" + labelStyle.Render(caption(ops, w, offset))
}
