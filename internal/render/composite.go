// Package render builds the visible image from the drawing surface and the
// transient preview layer.
package render

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Preview is the transient layer drawn above the surface. Nothing writes to
// it yet; it exists so shape tools can show an outline before committing.
type Preview struct {
	img *image.RGBA
}

// NewPreview allocates a transparent preview layer with the given bounds.
func NewPreview(bounds image.Rectangle) *Preview {
	return &Preview{img: image.NewRGBA(bounds)}
}

// Image returns the preview pixels.
func (p *Preview) Image() *image.RGBA {
	if p == nil {
		return nil
	}
	return p.img
}

// Clear discards anything drawn on the preview layer.
func (p *Preview) Clear() {
	if p == nil {
		return
	}
	clear(p.img.Pix)
}

// View is the composited image shown on screen and written on export.
type View struct {
	img *image.RGBA
}

// NewView allocates a view with the given bounds.
func NewView(bounds image.Rectangle) *View {
	return &View{img: image.NewRGBA(bounds)}
}

// Image returns the composited pixels from the last Refresh.
func (v *View) Image() *image.RGBA { return v.img }

// Refresh recomposes the view: clear, then the surface, then the preview on
// top. Only the view image is written, so repeated calls give the same result.
func (v *View) Refresh(surface, preview *image.RGBA) {
	clear(v.img.Pix)
	b := v.img.Bounds()
	if surface != nil {
		draw.Draw(v.img, b, surface, surface.Bounds().Min, draw.Over)
	}
	if preview != nil {
		draw.Draw(v.img, b, preview, preview.Bounds().Min, draw.Over)
	}
}

// Present scales the view into r on dst with nearest-neighbour sampling so
// blocks stay sharp at any window size.
func (v *View) Present(dst draw.Image, r image.Rectangle) {
	if r.Empty() {
		return
	}
	xdraw.NearestNeighbor.Scale(dst, r, v.img, v.img.Bounds(), draw.Over, nil)
}
