// Package session ties the drawing surface, its history and the composited
// view together behind pointer and command entry points. A Session is not
// safe for concurrent use; the UI calls it from its event loop only.
package session

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/example/pebbledraw/internal/grid"
	"github.com/example/pebbledraw/internal/history"
	"github.com/example/pebbledraw/internal/palette"
	"github.com/example/pebbledraw/internal/raster"
	"github.com/example/pebbledraw/internal/render"
	"github.com/example/pebbledraw/internal/stroke"
)

const (
	DefaultBlockSize = 4
	DefaultCols      = 160
	DefaultRows      = 120
	// DefaultExportName is the file name suggested when saving.
	DefaultExportName = "pebbletest.png"
)

// Options configures a new Session.
type Options struct {
	Cols      int
	Rows      int
	BlockSize int
	Mode      stroke.Mode
	// HistoryLimit caps undo depth; zero means unbounded.
	HistoryLimit int
	// SnapshotOnImport records an undo entry before an import replaces the
	// surface.
	SnapshotOnImport bool
	Palette          *palette.Palette
	// OnChange runs after every refresh of the view.
	OnChange func()
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Cols:         DefaultCols,
		Rows:         DefaultRows,
		BlockSize:    DefaultBlockSize,
		Mode:         stroke.ModeSymmetric,
		HistoryLimit: history.DefaultLimit,
	}
}

type strokeState struct {
	active bool
	last   grid.Cell
}

// Session is one drawing: surface, preview layer, view, history, current
// color and the in-progress stroke.
type Session struct {
	surface  *raster.Surface
	preview  *render.Preview
	view     *render.View
	history  *history.Manager
	raster   stroke.Rasterizer
	palette  *palette.Palette
	color    color.RGBA
	stroke   strokeState
	onChange func()
	closed   bool

	snapshotOnImport bool
}

// New allocates a blank session. An invalid size is reported as an error
// wrapping raster.ErrInvalidSize.
func New(opts Options) (*Session, error) {
	surface, err := raster.New(opts.Cols, opts.Rows, opts.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	pal := opts.Palette
	if pal == nil {
		pal = palette.Default()
	}
	s := &Session{
		surface:          surface,
		preview:          render.NewPreview(surface.Bounds()),
		view:             render.NewView(surface.Bounds()),
		history:          history.New(surface, opts.HistoryLimit),
		raster:           stroke.Rasterizer{Surface: surface, Mode: opts.Mode},
		palette:          pal,
		color:            palette.Black,
		onChange:         opts.OnChange,
		snapshotOnImport: opts.SnapshotOnImport,
	}
	s.history.OnRestore = s.refresh
	s.view.Refresh(surface.Image(), s.preview.Image())
	return s, nil
}

// Surface exposes the persistent drawing surface.
func (s *Session) Surface() *raster.Surface { return s.surface }

// Image returns the composited view. It is rewritten on every refresh.
func (s *Session) Image() *image.RGBA { return s.view.Image() }

// View returns the composited view for presentation.
func (s *Session) View() *render.View { return s.view }

// Palette returns the palette colors are selected from.
func (s *Session) Palette() *palette.Palette { return s.palette }

// Mode returns the line algorithm used for strokes.
func (s *Session) Mode() stroke.Mode { return s.raster.Mode }

// Drawing reports whether a stroke is in progress.
func (s *Session) Drawing() bool { return s.stroke.active }

// Closed reports whether Close has been called.
func (s *Session) Closed() bool { return s.closed }

// CanUndo reports whether an undo entry exists.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether a redo entry exists.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// Color returns the current drawing color.
func (s *Session) Color() color.RGBA { return s.color }

// SelectColor makes palette entry index the current color. An index outside
// the palette leaves the selection unchanged.
func (s *Session) SelectColor(index int) error {
	c, err := s.palette.At(index)
	if err != nil {
		return err
	}
	s.color = c
	return nil
}

// SetColor sets an arbitrary current color. Strokes already in progress pick
// it up on their next fill.
func (s *Session) SetColor(c color.RGBA) { s.color = c }

// cell maps a surface-local coordinate onto a cell inside the surface.
func (s *Session) cell(x, y float64) grid.Cell {
	b := s.surface.Bounds()
	x = clampCoord(grid.Sanitize(x, float64(b.Dx())), float64(b.Dx()))
	y = clampCoord(grid.Sanitize(y, float64(b.Dy())), float64(b.Dy()))
	c := grid.ToCell(x, y, s.surface.BlockSize())
	return grid.Clamp(c, s.surface.Cols(), s.surface.Rows())
}

func clampCoord(v, max float64) float64 {
	return math.Min(math.Max(v, 0), max-1)
}

// PointerDown starts a stroke: it records an undo entry and fills the cell
// under the pointer.
func (s *Session) PointerDown(x, y float64) {
	if s.closed {
		return
	}
	c := s.cell(x, y)
	s.history.Begin()
	s.stroke = strokeState{active: true, last: c}
	s.raster.Dot(c, s.color)
	s.refresh()
}

// PointerMove extends an active stroke from the last sampled cell.
func (s *Session) PointerMove(x, y float64) {
	if s.closed || !s.stroke.active {
		return
	}
	c := s.cell(x, y)
	s.raster.Segment(s.stroke.last, c, s.color)
	s.stroke.last = c
	s.refresh()
}

// PointerUp ends the active stroke.
func (s *Session) PointerUp() {
	s.stroke = strokeState{}
}

// PointerLeave draws the last segment to where the pointer left the surface
// and ends the stroke.
func (s *Session) PointerLeave(x, y float64) {
	if s.stroke.active {
		s.PointerMove(x, y)
	}
	s.PointerUp()
}

// Undo restores the state before the last stroke, clear or undoable import.
func (s *Session) Undo() bool {
	if s.closed {
		return false
	}
	s.PointerUp()
	return s.history.Undo()
}

// Redo re-applies the last undone action.
func (s *Session) Redo() bool {
	if s.closed {
		return false
	}
	s.PointerUp()
	return s.history.Redo()
}

// Clear records an undo entry, blanks the surface and drops the preview.
func (s *Session) Clear() {
	if s.closed {
		return
	}
	s.PointerUp()
	s.history.Begin()
	s.surface.Clear()
	s.preview.Clear()
	s.refresh()
}

// Close drops history and stops the session from accepting input.
func (s *Session) Close() {
	s.closed = true
	s.stroke = strokeState{}
	s.history.Reset()
}

func (s *Session) refresh() {
	s.view.Refresh(s.surface.Image(), s.preview.Image())
	if s.onChange != nil {
		s.onChange()
	}
}
