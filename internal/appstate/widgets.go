package appstate

import (
	"image"
	"image/color"
	"image/draw"
	"log"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"

	"github.com/example/pebbledraw/internal/theme"
)

var messageFace font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	messageFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 32, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Fatalf("font face: %v", err)
	}
}

// KeyShortcut describes a keyboard combination that triggers an action.
// Either Rune or Code identifies the key.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// keymap resolves key events to action names.
type keymap map[KeyShortcut]string

func (km keymap) bind(name string, keys KeyboardShortcuts) {
	if keys == nil {
		return
	}
	for _, sc := range keys.KeyboardShortcuts() {
		km[sc] = name
	}
}

// lookup matches by rune first and falls back to the key code, since some
// drivers report no rune while Control is held.
func (km keymap) lookup(e key.Event) (string, bool) {
	if e.Rune > 0 {
		if name, ok := km[KeyShortcut{Rune: unicode.ToLower(e.Rune), Modifiers: e.Modifiers}]; ok {
			return name, true
		}
	}
	name, ok := km[KeyShortcut{Code: e.Code, Modifiers: e.Modifiers}]
	return name, ok
}

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
	StateDisabled
)

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	cache [4]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) Rect() image.Rectangle { return cb.Button.Rect() }

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [4]*image.RGBA{}
	}
}

func (cb *CacheButton) Activate() { cb.Button.Activate() }

// CommandButton is a labelled toolbar button running a named action.
type CommandButton struct {
	label      string
	theme      *theme.Theme
	rect       image.Rectangle
	onActivate func()
}

func (b *CommandButton) Draw(dst *image.RGBA, state ButtonState) {
	th := b.theme
	bg := th.ButtonBackground
	switch state {
	case StateHover:
		bg = th.ButtonBackgroundHover
	case StatePressed:
		bg = th.ButtonBackgroundPress
	case StateDisabled:
		bg = th.ButtonBackgroundOff
	}
	draw.Draw(dst, b.rect, &image.Uniform{bg}, image.Point{}, draw.Src)
	drawRect(dst, b.rect, th.ButtonBorder)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.ButtonText), Face: basicfont.Face7x13,
		Dot: fixed.P(b.rect.Min.X+toolbarPad, b.rect.Min.Y+16)}
	d.DrawString(b.label)
}

func (b *CommandButton) Rect() image.Rectangle { return b.rect }

func (b *CommandButton) SetRect(r image.Rectangle) { b.rect = r }

func (b *CommandButton) Activate() {
	if b.onActivate != nil {
		b.onActivate()
	}
}

// Shortcut is a clickable hint in the bottom bar.
type Shortcut struct {
	label  string
	action func()
	rect   image.Rectangle
}

func (s *Shortcut) draw(dst *image.RGBA, th *theme.Theme, state ButtonState) {
	col := th.ButtonBackground
	switch state {
	case StateHover:
		col = th.ButtonBackgroundHover
	case StatePressed:
		col = th.ButtonBackgroundPress
	}
	draw.Draw(dst, s.rect, &image.Uniform{col}, image.Point{}, draw.Src)
	drawRect(dst, s.rect, th.ButtonBorder)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.StatusText), Face: basicfont.Face7x13,
		Dot: fixed.P(s.rect.Min.X+2, s.rect.Min.Y+14)}
	d.DrawString(s.label)
}

func (s *Shortcut) Activate() {
	if s.action != nil {
		s.action()
	}
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

// backdrop caches the checkerboard drawn behind the canvas.
type backdrop struct {
	img *image.RGBA
}

func (bd *backdrop) draw(dst *image.RGBA, rect image.Rectangle, th *theme.Theme) {
	if bd.img == nil || bd.img.Bounds() != rect {
		bd.img = image.NewRGBA(rect)
		drawCheckerboard(bd.img, rect, 8, th.CheckerLight, th.CheckerDark)
	}
	draw.Draw(dst, rect, bd.img, rect.Min, draw.Src)
}

// drawRect outlines rect with a one pixel border.
func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color) {
	for x := rect.Min.X; x < rect.Max.X; x++ {
		img.Set(x, rect.Min.Y, col)
		img.Set(x, rect.Max.Y-1, col)
	}
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		img.Set(rect.Min.X, y, col)
		img.Set(rect.Max.X-1, y, col)
	}
}

func drawTitle(dst *image.RGBA, l Layout, th *theme.Theme, title string) {
	draw.Draw(dst, image.Rect(0, 0, l.Width, titleHeight), &image.Uniform{th.TitleBackground}, image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.TitleText), Face: basicfont.Face7x13,
		Dot: fixed.P(toolbarPad, 16)}
	d.DrawString(title)
}

// drawSwatches paints the palette, outlining the hovered swatch and the one
// matching the current color.
func drawSwatches(dst *image.RGBA, l Layout, th *theme.Theme, colors []color.RGBA, selected, hover int) {
	for i, r := range l.Swatches {
		if i >= len(colors) {
			break
		}
		draw.Draw(dst, r, &image.Uniform{colors[i]}, image.Point{}, draw.Src)
		border := th.SwatchBorder
		if i == selected {
			border = th.SwatchSelected
			drawRect(dst, r.Inset(-1), border)
		} else if i == hover {
			draw.Draw(dst, r, &image.Uniform{color.RGBA{255, 255, 255, 80}}, image.Point{}, draw.Over)
		}
		drawRect(dst, r, border)
	}
}

// drawMessage centres msg over the window.
func drawMessage(dst *image.RGBA, width, height int, th *theme.Theme, msg string) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.MessageText), Face: messageFace}
	wmsg := d.MeasureString(msg).Ceil()
	ascent := messageFace.Metrics().Ascent.Ceil()
	descent := messageFace.Metrics().Descent.Ceil()
	px := (width - wmsg) / 2
	py := (height-ascent-descent)/2 + ascent
	rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
	draw.Draw(dst, rect, &image.Uniform{th.MessageBackground}, image.Point{}, draw.Over)
	drawRect(dst, rect, th.ButtonBorder)
	drawRect(dst, rect.Inset(1), th.ButtonBorder)
	d.Dot = fixed.P(px, py)
	d.DrawString(msg)
}

// cloneRGBA copies src so the paint goroutine never reads pixels the event
// loop is writing.
func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

// drawStatus right-aligns text in the bottom bar.
func drawStatus(dst *image.RGBA, l Layout, th *theme.Theme, text string) {
	if text == "" {
		return
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.StatusText), Face: basicfont.Face7x13}
	w := d.MeasureString(text).Ceil()
	d.Dot = fixed.P(l.Width-w-toolbarPad, l.Height-bottomHeight+16)
	d.DrawString(text)
}
