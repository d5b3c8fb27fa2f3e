package core

import "math"

// Viewport maps a square normalized coordinate space ([0, Extent] on both
// axes) onto a rectangle of screen cells. Rendering projects world points
// into cells; input maps clicked cells back into world points.
type Viewport struct {
	Area   Rect
	Extent float64
}

// NewViewport creates a viewport covering area for a world of the given extent.
func NewViewport(area Rect, extent float64) Viewport {
	return Viewport{Area: area, Extent: extent}
}

// Project converts a world point to the nearest screen cell.
// Points outside the world are clamped to the area edge.
func (v Viewport) Project(x, y float64) (col, row int) {
	col = v.Area.X + project(x, v.Extent, v.Area.W)
	row = v.Area.Y + project(y, v.Extent, v.Area.H)
	return col, row
}

// Normalize converts a screen cell to a world point.
// The second return value is false when the cell lies outside the area.
func (v Viewport) Normalize(col, row int) (x, y float64, ok bool) {
	if !v.Area.Contains(col, row) {
		return 0, 0, false
	}
	x = normalize(col-v.Area.X, v.Extent, v.Area.W)
	y = normalize(row-v.Area.Y, v.Extent, v.Area.H)
	return x, y, true
}

func project(p, extent float64, cells int) int {
	if cells <= 1 || extent <= 0 {
		return 0
	}
	idx := int(math.Round(p / extent * float64(cells-1)))
	return Clamp(idx, 0, cells-1)
}

func normalize(idx int, extent float64, cells int) float64 {
	if cells <= 1 {
		return extent / 2
	}
	return float64(idx) / float64(cells-1) * extent
}
