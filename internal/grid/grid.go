package grid

import (
	"image"
	"math"
)

// Cell addresses one block of the drawing grid.
type Cell struct {
	X, Y int
}

// Pt returns the cell as an image.Point in grid space.
func (c Cell) Pt() image.Point { return image.Pt(c.X, c.Y) }

// Rect returns the device-pixel rectangle covered by the cell.
func (c Cell) Rect(blockSize int) image.Rectangle {
	x0 := c.X * blockSize
	y0 := c.Y * blockSize
	return image.Rect(x0, y0, x0+blockSize, y0+blockSize)
}

// ToCell maps a surface-local coordinate to the grid cell that contains it.
// blockSize must be positive.
func ToCell(x, y float64, blockSize int) Cell {
	if blockSize <= 0 {
		panic("grid: block size must be positive")
	}
	b := float64(blockSize)
	return Cell{
		X: int(math.Floor(x / b)),
		Y: int(math.Floor(y / b)),
	}
}

// Clamp pins c inside a grid of cols x rows cells.
func Clamp(c Cell, cols, rows int) Cell {
	return Cell{X: clampInt(c.X, 0, cols-1), Y: clampInt(c.Y, 0, rows-1)}
}

// In reports whether c lies inside a grid of cols x rows cells.
func (c Cell) In(cols, rows int) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < cols && c.Y < rows
}

// Sanitize maps a coordinate that may be NaN or infinite onto a finite value
// in [0, max]. Finite values pass through untouched.
func Sanitize(v, max float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case math.IsInf(v, -1):
		return 0
	case math.IsInf(v, 1):
		return max
	}
	return v
}

// Origin is the on-screen position of the drawing surface. The input boundary
// uses it to translate window coordinates into surface-local ones.
type Origin image.Point

// Local translates a window coordinate into surface-local space.
func (o Origin) Local(x, y float64) (float64, float64) {
	return x - float64(o.X), y - float64(o.Y)
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
