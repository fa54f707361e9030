package chart

// Overlay ids as registered on the rendering target.
const (
	HoverLineID  = "hoverline"
	PointLabelID = "pointLabel"
)

// BottomOffset is the distance above the chart area's bottom edge where the
// guide line ends and the point label starts.
const BottomOffset = 10.0

// LabelFont is the font of the active point label.
const LabelFont = "bolder 80 sans-serif"

// Rect is the drawable chart area in pixels.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Width returns Right - Left.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns Bottom - Top.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Point is a pixel coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ActivePoint is a hovered or selected data point and its pixel position.
type ActivePoint struct {
	Index int   `json:"index"`
	At    Point `json:"at"`
}

// Frame is what an overlay sees after the datasets are drawn.
type Frame struct {
	Area   Rect
	Active []ActivePoint
}

// OpKind names a drawing primitive.
type OpKind string

const (
	OpLine OpKind = "line"
	OpText OpKind = "text"
)

// DrawOp is one drawing instruction produced by an overlay.
type DrawOp struct {
	Kind     OpKind  `json:"kind"`
	From     Point   `json:"from"`
	To       Point   `json:"to"`
	Text     string  `json:"text,omitempty"`
	Font     string  `json:"font,omitempty"`
	Color    string  `json:"color"`
	Width    float64 `json:"width,omitempty"`
	Align    string  `json:"align,omitempty"`
	Baseline string  `json:"baseline,omitempty"`
}

// Overlay draws on top of the datasets after every redraw.
type Overlay interface {
	ID() string
	AfterDatasetsDraw(c *Chart, f Frame) []DrawOp
}

// HoverLine draws a vertical guide from the active point down to just above
// the bottom of the chart area.
type HoverLine struct{}

func (HoverLine) ID() string { return HoverLineID }

func (HoverLine) AfterDatasetsDraw(_ *Chart, f Frame) []DrawOp {
	if len(f.Active) == 0 {
		return nil
	}
	p := f.Active[0].At
	return []DrawOp{{
		Kind:  OpLine,
		From:  p,
		To:    Point{X: p.X, Y: f.Area.Bottom - BottomOffset},
		Color: OverlayColor,
		Width: 1,
	}}
}

// PointLabel writes the x label of each active point under it.
type PointLabel struct{}

func (PointLabel) ID() string { return PointLabelID }

func (PointLabel) AfterDatasetsDraw(c *Chart, f Frame) []DrawOp {
	if c == nil || len(f.Active) == 0 {
		return nil
	}
	labels := c.Labels()
	var ops []DrawOp
	for _, a := range f.Active {
		if a.Index < 0 || a.Index >= len(labels) {
			continue
		}
		ops = append(ops, DrawOp{
			Kind:     OpText,
			From:     Point{X: a.At.X, Y: f.Area.Bottom - BottomOffset},
			Text:     labels[a.Index],
			Font:     LabelFont,
			Color:    OverlayColor,
			Align:    "center",
			Baseline: "top",
		})
	}
	return ops
}

// Overlays returns the overlays every chart registers, in draw order.
func Overlays() []Overlay {
	return []Overlay{HoverLine{}, PointLabel{}}
}

// DrawOverlays runs every overlay against f and concatenates their ops.
func DrawOverlays(c *Chart, f Frame) []DrawOp {
	var ops []DrawOp
	for _, o := range Overlays() {
		ops = append(ops, o.AfterDatasetsDraw(c, f)...)
	}
	return ops
}
