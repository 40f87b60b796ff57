package rasterize

import "math"

// MakeUniform snaps a natural-coordinate element rectangle, scaled by
// scale, to integer pixel boundaries so that repeated elements
// composited side-by-side (e.g. a progress bar's tiled fill) align
// without seams between tiles (spec.md §4.3).
func MakeUniform(rect Rect, scale float64) (x, y, width, height int) {
	left := math.Floor(rect.X * scale)
	top := math.Floor(rect.Y * scale)
	right := math.Ceil((rect.X + rect.W) * scale)
	bottom := math.Ceil((rect.Y + rect.H) * scale)
	return int(left), int(top), int(right - left), int(bottom - top)
}
