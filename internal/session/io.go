package session

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"log"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrDecode wraps any failure to read an imported image.
var ErrDecode = errors.New("decode image")

// ErrClosed is returned for I/O on a closed session.
var ErrClosed = errors.New("session closed")

// ImportResult is the outcome of a background decode.
type ImportResult struct {
	Image  image.Image
	Format string
	Err    error
}

// Export writes the composited view as PNG.
func (s *Session) Export(w io.Writer) error {
	if err := png.Encode(w, s.view.Image()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// ExportFile writes the composited view to path as PNG.
func (s *Session) ExportFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.Export(f); err != nil {
		if cerr := f.Close(); cerr != nil {
			log.Printf("error closing %q: %v", f.Name(), cerr)
		}
		return err
	}
	return f.Close()
}

// Decode reads any registered image format from r.
func Decode(r io.Reader) ImportResult {
	img, format, err := image.Decode(r)
	if err != nil {
		return ImportResult{Err: fmt.Errorf("%w: %v", ErrDecode, err)}
	}
	return ImportResult{Image: img, Format: format}
}

// Import decodes r and stretches the image over the whole surface.
func (s *Session) Import(r io.Reader) error {
	return s.ApplyImport(Decode(r))
}

// ImportImage stretches an already decoded image over the surface.
func (s *Session) ImportImage(img image.Image) error {
	return s.ApplyImport(ImportResult{Image: img})
}

// StartImport decodes r on a new goroutine and passes the result to deliver
// from that goroutine. deliver must hand it back to whoever owns the session
// (the UI posts it to its event loop) and call ApplyImport there. Strokes
// made before the result is applied are overwritten by it; nothing orders the
// two.
func (s *Session) StartImport(r io.Reader, deliver func(ImportResult)) {
	go func() {
		res := Decode(r)
		if c, ok := r.(io.Closer); ok {
			if err := c.Close(); err != nil {
				log.Printf("import: close: %v", err)
			}
		}
		deliver(res)
	}()
}

// ApplyImport draws a decoded result over the surface and refreshes. A failed
// result leaves the surface untouched and returns its error.
func (s *Session) ApplyImport(res ImportResult) error {
	if res.Err != nil {
		return res.Err
	}
	if res.Image == nil {
		return fmt.Errorf("%w: no image", ErrDecode)
	}
	if s.closed {
		return ErrClosed
	}
	s.PointerUp()
	if s.snapshotOnImport {
		s.history.Begin()
	}
	s.surface.DrawStretched(res.Image)
	s.refresh()
	return nil
}
