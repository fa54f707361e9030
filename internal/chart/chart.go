// Package chart turns a price series into a line chart configuration and
// manages the lifecycle of the drawn chart on a rendering target.
//
// Build is pure: it produces a Chart whose Config marshals to the JSON shape
// Chart.js accepts. Renderer pairs Build with a Canvas and guarantees that at
// most one chart is live per target.
package chart

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"stockdash/internal/domain"
)

// ErrInvalidSeries is returned when a series cannot be charted.
var ErrInvalidSeries = errors.New("chart: invalid series")

// Marker radii for highlighted and ordinary points.
const (
	HighlightRadius = 5
	PlainRadius     = 0
)

// Headroom is subtracted from the series minimum to get the suggested lower
// bound of the y axis.
const Headroom = 10.0

// Colours used by the chart and its overlays.
const (
	LineColor    = "#50f291"
	OverlayColor = "#FFFFFF"
)

// DefaultDateLayout renders the date portion of a timestamp, e.g. 3/14/2024.
const DefaultDateLayout = "1/2/2006"

// DefaultTarget is the id of the rendering surface charts are drawn on.
const DefaultTarget = "myChart"

// Options controls label formatting and the rendering target.
type Options struct {
	Location   *time.Location
	DateLayout string
	Target     string
}

// DefaultOptions returns local time, DefaultDateLayout and DefaultTarget.
func DefaultOptions() Options {
	return Options{
		Location:   time.Local,
		DateLayout: DefaultDateLayout,
		Target:     DefaultTarget,
	}
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.DateLayout == "" {
		o.DateLayout = DefaultDateLayout
	}
	if o.Target == "" {
		o.Target = DefaultTarget
	}
	return o
}

// Chart is a built chart plus the facts derived while building it.
type Chart struct {
	Target       string  `json:"target"`
	Symbol       string  `json:"symbol"`
	Period       string  `json:"period"`
	MinIndex     int     `json:"minIndex"`
	MaxIndex     int     `json:"maxIndex"`
	SuggestedMin float64 `json:"suggestedMin"`
	Config       Config  `json:"config"`
}

// Config is the Chart.js configuration object.
type Config struct {
	Type    string        `json:"type"`
	Data    Data          `json:"data"`
	Options ConfigOptions `json:"options"`
	// Plugins lists the overlay ids the target must run after each draw.
	Plugins []string `json:"plugins"`
}

type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type Dataset struct {
	Data                 []float64 `json:"data"`
	BorderColor          string    `json:"borderColor"`
	BorderWidth          int       `json:"borderWidth"`
	PointBorderColor     string    `json:"pointBorderColor"`
	PointBackgroundColor string    `json:"pointBackgroundColor"`
	PointRadius          []int     `json:"pointRadius"`
	// TooltipLabels holds the preformatted tooltip label of each point.
	TooltipLabels []string `json:"tooltipLabels"`
}

type ConfigOptions struct {
	Scales  Scales  `json:"scales"`
	Plugins Plugins `json:"plugins"`
}

type Scales struct {
	X Axis `json:"x"`
	Y Axis `json:"y"`
}

type Axis struct {
	SuggestedMin *float64 `json:"suggestedMin,omitempty"`
	Ticks        Display  `json:"ticks"`
}

type Display struct {
	Display bool `json:"display"`
}

type Plugins struct {
	Legend  Display `json:"legend"`
	Tooltip Tooltip `json:"tooltip"`
}

type Tooltip struct {
	Enabled       bool `json:"enabled"`
	DisplayColors bool `json:"displayColors"`
	ShowTitle     bool `json:"showTitle"`
}

// Build produces the chart configuration for one symbol and period.
func Build(symbol, period string, series domain.TimeSeries, opts Options) (*Chart, error) {
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrInvalidSeries, symbol, period, err)
	}
	opts = opts.withDefaults()

	minIdx, maxIdx := MinMaxIndex(series.Values)
	suggestedMin := series.Values[minIdx] - Headroom

	n := series.Len()
	labels := make([]string, n)
	radii := make([]int, n)
	tooltips := make([]string, n)
	for i := 0; i < n; i++ {
		labels[i] = FormatLabel(series.Timestamps[i], opts.Location, opts.DateLayout)
		tooltips[i] = TooltipLabel(symbol, series.Values[i])
		if i == minIdx || i == maxIdx {
			radii[i] = HighlightRadius
		} else {
			radii[i] = PlainRadius
		}
	}

	values := make([]float64, n)
	copy(values, series.Values)

	return &Chart{
		Target:       opts.Target,
		Symbol:       symbol,
		Period:       period,
		MinIndex:     minIdx,
		MaxIndex:     maxIdx,
		SuggestedMin: suggestedMin,
		Config: Config{
			Type: "line",
			Data: Data{
				Labels: labels,
				Datasets: []Dataset{{
					Data:                 values,
					BorderColor:          LineColor,
					BorderWidth:          1,
					PointBorderColor:     LineColor,
					PointBackgroundColor: LineColor,
					PointRadius:          radii,
					TooltipLabels:        tooltips,
				}},
			},
			Options: ConfigOptions{
				Scales: Scales{
					X: Axis{Ticks: Display{Display: false}},
					Y: Axis{SuggestedMin: &suggestedMin, Ticks: Display{Display: false}},
				},
				Plugins: Plugins{
					Legend:  Display{Display: false},
					Tooltip: Tooltip{Enabled: true, DisplayColors: true, ShowTitle: false},
				},
			},
			Plugins: []string{HoverLineID, PointLabelID},
		},
	}, nil
}

// Values returns the charted values.
func (c *Chart) Values() []float64 {
	if len(c.Config.Data.Datasets) == 0 {
		return nil
	}
	return c.Config.Data.Datasets[0].Data
}

// Labels returns the x label of every point.
func (c *Chart) Labels() []string { return c.Config.Data.Labels }

// Len returns the number of points.
func (c *Chart) Len() int { return len(c.Values()) }

// MinMaxIndex returns the index of the smallest and the largest value in a
// single pass. The first occurrence wins on ties. values must not be empty.
func MinMaxIndex(values []float64) (minIdx, maxIdx int) {
	for i := 1; i < len(values); i++ {
		if values[i] < values[minIdx] {
			minIdx = i
		}
		if values[i] > values[maxIdx] {
			maxIdx = i
		}
	}
	return minIdx, maxIdx
}

// FormatLabel renders a Unix-seconds timestamp as a date in loc.
func FormatLabel(ts int64, loc *time.Location, layout string) string {
	if loc == nil {
		loc = time.Local
	}
	if layout == "" {
		layout = DefaultDateLayout
	}
	return time.Unix(ts, 0).In(loc).Format(layout)
}

// TooltipLabel renders the hover label of one point, e.g. "AAPL:$182.5".
func TooltipLabel(symbol string, value float64) string {
	return symbol + ":$" + decimal.NewFromFloat(value).String()
}
