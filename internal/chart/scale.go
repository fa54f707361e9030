package chart

import "math"

// Scale maps data indexes and values to pixels inside a chart area. The y
// range spans from the lower of the suggested minimum and the data minimum up
// to the data maximum, matching how the page's line chart lays out.
type Scale struct {
	Area  Rect
	Count int
	Min   float64
	Max   float64
}

// ScaleFor returns the scale of c drawn inside area.
func (c *Chart) ScaleFor(area Rect) Scale {
	values := c.Values()
	s := Scale{Area: area, Count: len(values)}
	if len(values) == 0 {
		s.Max = 1
		return s
	}
	s.Min = math.Min(c.SuggestedMin, values[c.MinIndex])
	s.Max = values[c.MaxIndex]
	if s.Max <= s.Min {
		s.Max = s.Min + 1
	}
	return s
}

// X returns the horizontal pixel of the point at index.
func (s Scale) X(index int) float64 {
	if s.Count <= 1 {
		return s.Area.Left
	}
	return s.Area.Left + s.Area.Width()*float64(index)/float64(s.Count-1)
}

// Y returns the vertical pixel of value. Larger values sit higher.
func (s Scale) Y(value float64) float64 {
	return s.Area.Bottom - (value-s.Min)/(s.Max-s.Min)*s.Area.Height()
}

// IndexAt returns the point index nearest to horizontal pixel x.
func (s Scale) IndexAt(x float64) int {
	if s.Count <= 1 || s.Area.Width() <= 0 {
		return 0
	}
	i := int(math.Round((x - s.Area.Left) / s.Area.Width() * float64(s.Count-1)))
	if i < 0 {
		return 0
	}
	if i >= s.Count {
		return s.Count - 1
	}
	return i
}

// Active returns the active point for index with its pixel position.
func (s Scale) Active(c *Chart, index int) ActivePoint {
	values := c.Values()
	if index < 0 || index >= len(values) {
		return ActivePoint{Index: index}
	}
	return ActivePoint{
		Index: index,
		At:    Point{X: s.X(index), Y: s.Y(values[index])},
	}
}

// Unproject maps a pixel back to a fractional point index and a value.
func (s Scale) Unproject(p Point) (index, value float64) {
	if s.Count > 1 && s.Area.Width() > 0 {
		index = (p.X - s.Area.Left) / s.Area.Width() * float64(s.Count-1)
	}
	if s.Area.Height() > 0 {
		value = s.Min + (s.Area.Bottom-p.Y)/s.Area.Height()*(s.Max-s.Min)
	}
	return index, value
}
