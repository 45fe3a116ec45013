package session

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/example/pebbledraw/internal/grid"
	"github.com/example/pebbledraw/internal/palette"
	"github.com/example/pebbledraw/internal/raster"
)

func newSession(t *testing.T, mutate ...func(*Options)) *Session {
	t.Helper()
	opts := DefaultOptions()
	opts.Cols, opts.Rows, opts.BlockSize = 16, 16, 4
	for _, m := range mutate {
		m(&opts)
	}
	s, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func cells(xy ...int) []grid.Cell {
	var out []grid.Cell
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, grid.Cell{X: xy[i], Y: xy[i+1]})
	}
	return out
}

func TestStrokeUndoRedoScenario(t *testing.T) {
	s := newSession(t)
	s.PointerDown(0, 0)
	s.PointerMove(8, 0)
	s.PointerUp()

	want := cells(0, 0, 1, 0, 2, 0)
	if got := s.Surface().Filled(); !reflect.DeepEqual(got, want) {
		t.Fatalf("filled = %v, want %v", got, want)
	}
	for _, c := range want {
		if col, _ := s.Surface().CellAt(c); col != palette.Black {
			t.Fatalf("cell %v = %v, want black", c, col)
		}
	}

	if !s.Undo() {
		t.Fatal("undo reported nothing to undo")
	}
	if got := s.Surface().Filled(); len(got) != 0 {
		t.Fatalf("after undo filled = %v", got)
	}
	if !s.Redo() {
		t.Fatal("redo reported nothing to redo")
	}
	if got := s.Surface().Filled(); !reflect.DeepEqual(got, want) {
		t.Fatalf("after redo filled = %v, want %v", got, want)
	}
}

func TestSelectedColorClickScenario(t *testing.T) {
	s := newSession(t)
	red := color.RGBA{R: 255, A: 255}
	idx := s.Palette().IndexOf(red)
	if err := s.SelectColor(idx); err != nil {
		t.Fatalf("SelectColor: %v", err)
	}
	s.PointerDown(5, 5)
	s.PointerUp()

	if got := s.Surface().Filled(); !reflect.DeepEqual(got, cells(1, 1)) {
		t.Fatalf("filled = %v, want [(1,1)]", got)
	}
	if col, _ := s.Surface().CellAt(grid.Cell{X: 1, Y: 1}); col != red {
		t.Fatalf("cell color = %v", col)
	}
	if got := s.Image().RGBAAt(5, 5); got != red {
		t.Fatalf("view pixel = %v, want red", got)
	}
}

func TestSelectColorOutOfRange(t *testing.T) {
	s := newSession(t)
	if err := s.SelectColor(3); err != nil {
		t.Fatal(err)
	}
	before := s.Color()
	if err := s.SelectColor(s.Palette().Len()); !errors.Is(err, palette.ErrIndex) {
		t.Fatalf("err = %v", err)
	}
	if s.Color() != before {
		t.Fatal("failed selection changed the color")
	}
}

func TestNewStrokeDiscardsRedo(t *testing.T) {
	s := newSession(t)
	s.PointerDown(0, 0)
	s.PointerUp()
	s.PointerDown(20, 20)
	s.PointerUp()
	s.Undo()
	if !s.CanRedo() {
		t.Fatal("expected redo entry")
	}
	s.PointerDown(40, 40)
	s.PointerUp()
	before := s.Surface().Filled()
	if s.Redo() {
		t.Fatal("redo after a new stroke should be a no-op")
	}
	if !reflect.DeepEqual(before, s.Surface().Filled()) {
		t.Fatal("no-op redo changed the surface")
	}
}

func TestWholeStrokeIsOneUndoUnit(t *testing.T) {
	s := newSession(t)
	s.PointerDown(0, 0)
	for x := 4.0; x < 60; x += 4 {
		s.PointerMove(x, x/2)
	}
	s.PointerUp()
	s.Undo()
	if got := s.Surface().Filled(); len(got) != 0 {
		t.Fatalf("single undo left %d cells", len(got))
	}
	if s.CanUndo() {
		t.Fatal("moves created extra undo entries")
	}
}

func TestMoveWithoutDownDoesNothing(t *testing.T) {
	s := newSession(t)
	s.PointerMove(10, 10)
	if len(s.Surface().Filled()) != 0 || s.CanUndo() {
		t.Fatal("hover drew or snapshotted")
	}
}

func TestLeaveFinishesSegment(t *testing.T) {
	s := newSession(t)
	s.PointerDown(0, 0)
	s.PointerLeave(12, 0)
	if s.Drawing() {
		t.Fatal("stroke still active after leave")
	}
	if got := s.Surface().Filled(); !reflect.DeepEqual(got, cells(0, 0, 1, 0, 2, 0, 3, 0)) {
		t.Fatalf("filled = %v", got)
	}
	s.PointerMove(40, 40)
	if len(s.Surface().Filled()) != 4 {
		t.Fatal("move after leave kept drawing")
	}
}

func TestOutOfRangeInputIsClamped(t *testing.T) {
	s := newSession(t)
	s.PointerDown(-100, -100)
	s.PointerMove(math.Inf(1), math.NaN())
	s.PointerMove(1e300, -1e300)
	s.PointerUp()
	for _, c := range s.Surface().Filled() {
		if !c.In(16, 16) {
			t.Fatalf("cell %v outside surface", c)
		}
	}
	if s.Surface().Empty(grid.Cell{X: 0, Y: 0}) || s.Surface().Empty(grid.Cell{X: 15, Y: 0}) {
		t.Fatal("clamped endpoints were not filled")
	}
}

func TestClear(t *testing.T) {
	s := newSession(t)
	s.PointerDown(8, 8)
	s.PointerUp()
	s.Clear()
	if len(s.Surface().Filled()) != 0 {
		t.Fatal("clear left cells behind")
	}
	for _, v := range s.Image().Pix {
		if v != 0 {
			t.Fatal("view not blank after clear")
		}
	}
	s.Undo()
	if !reflect.DeepEqual(s.Surface().Filled(), cells(2, 2)) {
		t.Fatal("undo did not restore the cleared stroke")
	}
	s.Redo()
	if len(s.Surface().Filled()) != 0 {
		t.Fatal("redo did not re-clear")
	}
}

func TestOnChangeFollowsRefresh(t *testing.T) {
	n := 0
	s := newSession(t, func(o *Options) { o.OnChange = func() { n++ } })
	s.PointerDown(0, 0) // 1
	s.PointerMove(4, 0) // 2
	s.PointerUp()
	s.Undo() // 3
	s.Undo() // empty, no refresh
	s.Redo() // 4
	s.Clear() // 5
	if n != 5 {
		t.Fatalf("OnChange called %d times, want 5", n)
	}
}

func TestInvalidSize(t *testing.T) {
	_, err := New(Options{Cols: 0, Rows: 10, BlockSize: 4})
	if !errors.Is(err, raster.ErrInvalidSize) {
		t.Fatalf("err = %v", err)
	}
}

func TestClose(t *testing.T) {
	s := newSession(t)
	s.PointerDown(0, 0)
	s.PointerUp()
	s.Close()
	if !s.Closed() || s.CanUndo() {
		t.Fatal("Close kept history")
	}
	s.PointerDown(20, 20)
	if len(s.Surface().Filled()) != 1 {
		t.Fatal("closed session accepted input")
	}
	if s.Undo() {
		t.Fatal("closed session undid")
	}
}

func TestExport(t *testing.T) {
	s := newSession(t)
	s.PointerDown(0, 0)
	s.PointerUp()
	var buf bytes.Buffer
	if err := s.Export(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 64, 64) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if _, _, _, a := img.At(3, 3).RGBA(); a != 0xffff {
		t.Fatal("stroke missing from export")
	}
	if _, _, _, a := img.At(4, 4).RGBA(); a != 0 {
		t.Fatal("empty cell not transparent in export")
	}
}

func TestExportFile(t *testing.T) {
	s := newSession(t)
	path := filepath.Join(t.TempDir(), DefaultExportName)
	if err := s.ExportFile(path); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Fatalf("export file missing: %v", err)
	}
	if err := s.ExportFile(filepath.Join(t.TempDir(), "missing", "x.png")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestImportStretchesWithoutSnapshot(t *testing.T) {
	s := newSession(t)
	s.PointerDown(0, 0)
	s.PointerUp()
	blue := color.RGBA{B: 255, A: 255}
	if err := s.Import(bytes.NewReader(encodePNG(t, solid(3, 7, blue)))); err != nil {
		t.Fatal(err)
	}
	if len(s.Surface().Filled()) != 256 {
		t.Fatalf("import did not cover the surface: %d cells", len(s.Surface().Filled()))
	}
	if col, _ := s.Surface().CellAt(grid.Cell{X: 15, Y: 15}); col != blue {
		t.Fatalf("corner = %v", col)
	}
	// The only undo entry is the one from the stroke, so undo goes to blank.
	s.Undo()
	if len(s.Surface().Filled()) != 0 {
		t.Fatal("undo after import should restore the pre-stroke state")
	}
}

func TestImportUndoable(t *testing.T) {
	s := newSession(t, func(o *Options) { o.SnapshotOnImport = true })
	s.PointerDown(0, 0)
	s.PointerUp()
	if err := s.ImportImage(solid(2, 2, color.RGBA{G: 255, A: 255})); err != nil {
		t.Fatal(err)
	}
	s.Undo()
	if !reflect.DeepEqual(s.Surface().Filled(), cells(0, 0)) {
		t.Fatalf("undo should return to the stroke, got %v", s.Surface().Filled())
	}
}

func TestImportDecodeFailure(t *testing.T) {
	s := newSession(t)
	s.PointerDown(0, 0)
	s.PointerUp()
	err := s.Import(bytes.NewReader([]byte("not an image")))
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("err = %v, want ErrDecode", err)
	}
	if !reflect.DeepEqual(s.Surface().Filled(), cells(0, 0)) {
		t.Fatal("failed import changed the surface")
	}
}

func TestStartImportDeliversResult(t *testing.T) {
	s := newSession(t)
	results := make(chan ImportResult, 1)
	s.StartImport(bytes.NewReader(encodePNG(t, solid(4, 4, palette.Black))), func(r ImportResult) {
		results <- r
	})
	select {
	case res := <-results:
		if res.Format != "png" {
			t.Fatalf("format = %q", res.Format)
		}
		if err := s.ApplyImport(res); err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("import result never delivered")
	}
	if len(s.Surface().Filled()) != 256 {
		t.Fatal("async import not applied")
	}

	s.StartImport(bytes.NewReader(nil), func(r ImportResult) { results <- r })
	res := <-results
	if err := s.ApplyImport(res); !errors.Is(err, ErrDecode) {
		t.Fatalf("err = %v", err)
	}
}
