// Package raster holds the persistent drawing surface: a grid of blocks backed
// by an RGBA image at device-pixel resolution.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/example/pebbledraw/internal/grid"
)

// ErrInvalidSize is returned when a surface cannot be allocated with the
// requested dimensions.
var ErrInvalidSize = errors.New("invalid surface size")

// maxPixels bounds the backing image so a bad config cannot exhaust memory.
const maxPixels = 64 << 20

// Surface is a cols x rows grid of blocks, each blockSize device pixels square.
// Empty cells are fully transparent.
type Surface struct {
	img   *image.RGBA
	cols  int
	rows  int
	block int
}

// New allocates a blank surface.
func New(cols, rows, blockSize int) (*Surface, error) {
	if cols <= 0 || rows <= 0 || blockSize <= 0 {
		return nil, fmt.Errorf("%w: %dx%d cells of %dpx", ErrInvalidSize, cols, rows, blockSize)
	}
	w := cols * blockSize
	h := rows * blockSize
	if w/blockSize != cols || h/blockSize != rows || w*h > maxPixels || w*h/h != w {
		return nil, fmt.Errorf("%w: %dx%d pixels exceeds limit", ErrInvalidSize, w, h)
	}
	return &Surface{
		img:   image.NewRGBA(image.Rect(0, 0, w, h)),
		cols:  cols,
		rows:  rows,
		block: blockSize,
	}, nil
}

// Cols returns the grid width in cells.
func (s *Surface) Cols() int { return s.cols }

// Rows returns the grid height in cells.
func (s *Surface) Rows() int { return s.rows }

// BlockSize returns the edge length of one cell in device pixels.
func (s *Surface) BlockSize() int { return s.block }

// Bounds returns the device-pixel bounds of the surface.
func (s *Surface) Bounds() image.Rectangle { return s.img.Bounds() }

// Image exposes the backing image for read-only use by compositors and
// encoders. Callers must not mutate it.
func (s *Surface) Image() *image.RGBA { return s.img }

// FillCell paints one block with col. Cells outside the grid are ignored.
func (s *Surface) FillCell(c grid.Cell, col color.RGBA) {
	if !c.In(s.cols, s.rows) {
		return
	}
	draw.Draw(s.img, c.Rect(s.block), &image.Uniform{col}, image.Point{}, draw.Src)
}

// CellAt reports the color of a cell, sampled at its anchor pixel. ok is false
// for cells outside the grid.
func (s *Surface) CellAt(c grid.Cell) (col color.RGBA, ok bool) {
	if !c.In(s.cols, s.rows) {
		return color.RGBA{}, false
	}
	r := c.Rect(s.block)
	return s.img.RGBAAt(r.Min.X, r.Min.Y), true
}

// Empty reports whether the cell holds no color.
func (s *Surface) Empty(c grid.Cell) bool {
	col, ok := s.CellAt(c)
	return !ok || col.A == 0
}

// Filled returns every non-empty cell in row-major order.
func (s *Surface) Filled() []grid.Cell {
	var out []grid.Cell
	for y := 0; y < s.rows; y++ {
		for x := 0; x < s.cols; x++ {
			c := grid.Cell{X: x, Y: y}
			if !s.Empty(c) {
				out = append(out, c)
			}
		}
	}
	return out
}

// Clear blanks the whole surface.
func (s *Surface) Clear() {
	clear(s.img.Pix)
}

// DrawStretched replaces the surface content with img scaled to the surface
// bounds. The aspect ratio of img is not preserved.
func (s *Surface) DrawStretched(img image.Image) {
	s.Clear()
	if img == nil || img.Bounds().Empty() {
		return
	}
	xdraw.ApproxBiLinear.Scale(s.img, s.img.Bounds(), img, img.Bounds(), draw.Src, nil)
}
