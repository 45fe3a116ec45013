package stroke

import (
	"image/color"

	"github.com/example/pebbledraw/internal/grid"
)

// Surface is the part of the drawing surface the rasterizer writes to.
// Implementations ignore cells outside their bounds.
type Surface interface {
	FillCell(c grid.Cell, col color.RGBA)
}

// Rasterizer fills cells on a Surface. It never refreshes any view; callers
// do that after each step.
type Rasterizer struct {
	Surface Surface
	Mode    Mode
}

// Dot fills a single cell, the degenerate stroke produced by a pointer press.
func (r *Rasterizer) Dot(c grid.Cell, col color.RGBA) {
	r.Surface.FillCell(c, col)
}

// Segment fills every cell between p0 and p1 inclusive and returns the number
// of cells visited.
func (r *Rasterizer) Segment(p0, p1 grid.Cell, col color.RGBA) int {
	n := 0
	Line(p0, p1, r.Mode, func(c grid.Cell) {
		r.Surface.FillCell(c, col)
		n++
	})
	return n
}
