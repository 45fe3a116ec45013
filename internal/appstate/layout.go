package appstate

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/example/pebbledraw/internal/grid"
	"github.com/example/pebbledraw/internal/palette"
)

const (
	titleHeight  = 24
	bottomHeight = 24
	buttonHeight = 24
	swatchSize   = 16
	swatchPitch  = 18
	toolbarPad   = 4
)

// minToolbarWidth is used when the labels and palette are all narrower.
const minToolbarWidth = 48

// region names the part of the window a point falls in.
type region int

const (
	regionNone region = iota
	regionTitle
	regionButton
	regionSwatch
	regionCanvas
	regionStatus
)

// Layout positions every element of the window. The canvas keeps its
// top-left corner next to the toolbar no matter how the window is resized,
// so pointer coordinates map to the surface with a fixed offset.
type Layout struct {
	Width, Height int
	Toolbar       int
	Canvas        image.Rectangle
	Buttons       []image.Rectangle
	// Swatches is indexed by flat palette index.
	Swatches []image.Rectangle
}

// newLayout sizes the toolbar to fit the title, the button labels and the
// widest palette row, then places the canvas beside it.
func newLayout(canvas image.Point, pal *palette.Palette, title string, labels []string) Layout {
	meas := &font.Drawer{Face: basicfont.Face7x13}
	tw := meas.MeasureString(title).Ceil() + 2*toolbarPad
	if tw < minToolbarWidth {
		tw = minToolbarWidth
	}
	for _, lbl := range labels {
		if w := meas.MeasureString(lbl).Ceil() + 2*toolbarPad; w > tw {
			tw = w
		}
	}
	rows := pal.Rows()
	for _, row := range rows {
		if w := 2*toolbarPad + len(row)*swatchPitch; w > tw {
			tw = w
		}
	}

	l := Layout{Toolbar: tw}
	y := titleHeight
	for range labels {
		l.Buttons = append(l.Buttons, image.Rect(0, y, tw, y+buttonHeight))
		y += buttonHeight
	}
	y += toolbarPad
	for _, row := range rows {
		x := toolbarPad
		for range row {
			l.Swatches = append(l.Swatches, image.Rect(x, y, x+swatchSize, y+swatchSize))
			x += swatchPitch
		}
		y += swatchPitch
	}
	l.Canvas = image.Rectangle{Min: image.Pt(tw, titleHeight), Max: image.Pt(tw+canvas.X, titleHeight+canvas.Y)}

	w := l.Canvas.Max.X
	h := l.Canvas.Max.Y
	if y > h {
		h = y
	}
	return l.withSize(w, h+bottomHeight)
}

// withSize returns a copy of l for a window of the given size.
func (l Layout) withSize(w, h int) Layout {
	l.Width = w
	l.Height = h
	return l
}

// Status is the shortcut bar along the bottom edge.
func (l Layout) Status() image.Rectangle {
	return image.Rect(0, l.Height-bottomHeight, l.Width, l.Height)
}

// Origin maps window coordinates onto the surface.
func (l Layout) Origin() grid.Origin { return grid.Origin(l.Canvas.Min) }

// hit reports which element is under p along with its index for buttons
// and swatches.
func (l Layout) hit(p image.Point) (region, int) {
	if p.Y >= l.Height-bottomHeight {
		return regionStatus, -1
	}
	if p.Y < titleHeight {
		return regionTitle, -1
	}
	if p.In(l.Canvas) {
		return regionCanvas, -1
	}
	if p.X >= l.Toolbar {
		return regionNone, -1
	}
	for i, r := range l.Buttons {
		if p.In(r) {
			return regionButton, i
		}
	}
	for i, r := range l.Swatches {
		if p.In(r) {
			return regionSwatch, i
		}
	}
	return regionNone, -1
}

// shortcutRects lays out the bottom bar labels left to right.
func (l Layout) shortcutRects(labels []string) []image.Rectangle {
	meas := &font.Drawer{Face: basicfont.Face7x13}
	x := toolbarPad + 2
	y := l.Height - bottomHeight + 16
	rects := make([]image.Rectangle, 0, len(labels))
	for _, lbl := range labels {
		w := meas.MeasureString(lbl).Ceil()
		r := image.Rect(x-2, y-14, x+w+2, y+4)
		rects = append(rects, r)
		x = r.Max.X + 8
	}
	return rects
}
