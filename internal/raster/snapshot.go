package raster

import (
	"fmt"
	"image"
)

// Snapshot is an immutable copy of a surface's pixels.
type Snapshot struct {
	bounds image.Rectangle
	stride int
	pix    []byte
}

// Snapshot captures the current surface content.
func (s *Surface) Snapshot() *Snapshot {
	pix := make([]byte, len(s.img.Pix))
	copy(pix, s.img.Pix)
	return &Snapshot{bounds: s.img.Bounds(), stride: s.img.Stride, pix: pix}
}

// Bounds returns the device-pixel bounds the snapshot was taken with.
func (sn *Snapshot) Bounds() image.Rectangle { return sn.bounds }

// Size returns the number of bytes held by the snapshot.
func (sn *Snapshot) Size() int { return len(sn.pix) }

// Image returns a fresh RGBA copy of the snapshot.
func (sn *Snapshot) Image() *image.RGBA {
	img := image.NewRGBA(sn.bounds)
	copy(img.Pix, sn.pix)
	return img
}

// Restore replaces the surface content with sn. A snapshot from a surface of
// a different size is rejected and the surface is left untouched.
func (s *Surface) Restore(sn *Snapshot) error {
	if sn == nil {
		return fmt.Errorf("restore: nil snapshot")
	}
	if sn.bounds != s.img.Bounds() || sn.stride != s.img.Stride || len(sn.pix) != len(s.img.Pix) {
		return fmt.Errorf("restore: snapshot %v does not match surface %v", sn.bounds, s.img.Bounds())
	}
	copy(s.img.Pix, sn.pix)
	return nil
}
