package render

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func TestRefreshLayersPreviewOverSurface(t *testing.T) {
	b := image.Rect(0, 0, 8, 8)
	surface := image.NewRGBA(b)
	surface.SetRGBA(1, 1, color.RGBA{R: 255, A: 255})
	surface.SetRGBA(2, 2, color.RGBA{R: 255, A: 255})
	preview := NewPreview(b)
	preview.Image().SetRGBA(2, 2, color.RGBA{B: 255, A: 255})

	v := NewView(b)
	v.Refresh(surface, preview.Image())
	if got := v.Image().RGBAAt(1, 1); got != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("surface pixel = %+v", got)
	}
	if got := v.Image().RGBAAt(2, 2); got != (color.RGBA{B: 255, A: 255}) {
		t.Fatalf("preview should cover surface, got %+v", got)
	}
	if got := v.Image().RGBAAt(0, 0); got.A != 0 {
		t.Fatalf("empty pixel = %+v", got)
	}
}

func TestRefreshIdempotent(t *testing.T) {
	b := image.Rect(0, 0, 6, 6)
	surface := image.NewRGBA(b)
	surface.SetRGBA(3, 4, color.RGBA{G: 128, A: 128})
	v := NewView(b)
	v.Refresh(surface, nil)
	first := append([]byte(nil), v.Image().Pix...)
	v.Refresh(surface, nil)
	if !bytes.Equal(first, v.Image().Pix) {
		t.Fatal("second refresh changed the view")
	}
}

func TestRefreshDropsStaleContent(t *testing.T) {
	b := image.Rect(0, 0, 4, 4)
	surface := image.NewRGBA(b)
	surface.SetRGBA(0, 0, color.RGBA{A: 255})
	v := NewView(b)
	v.Refresh(surface, nil)
	clear(surface.Pix)
	v.Refresh(surface, nil)
	if v.Image().RGBAAt(0, 0).A != 0 {
		t.Fatal("view kept a pixel the surface no longer has")
	}
}

func TestPreviewClear(t *testing.T) {
	p := NewPreview(image.Rect(0, 0, 2, 2))
	p.Image().SetRGBA(1, 1, color.RGBA{A: 255})
	p.Clear()
	for _, v := range p.Image().Pix {
		if v != 0 {
			t.Fatal("preview not cleared")
		}
	}
}

func TestPresentScalesNearest(t *testing.T) {
	b := image.Rect(0, 0, 2, 2)
	surface := image.NewRGBA(b)
	red := color.RGBA{R: 255, A: 255}
	surface.SetRGBA(1, 0, red)
	v := NewView(b)
	v.Refresh(surface, nil)

	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	v.Present(dst, image.Rect(10, 10, 20, 20))
	if got := dst.RGBAAt(19, 10); got != red {
		t.Fatalf("scaled pixel = %+v", got)
	}
	if got := dst.RGBAAt(10, 10); got.A != 0 {
		t.Fatalf("empty scaled pixel = %+v", got)
	}
	if got := dst.RGBAAt(5, 5); got.A != 0 {
		t.Fatalf("pixel outside target rect written: %+v", got)
	}
}
