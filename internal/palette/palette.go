// Package palette holds the fixed color table offered by the toolbar.
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ErrIndex is returned for a palette index outside the table.
var ErrIndex = errors.New("palette index out of range")

// Black is the color selected when a session starts.
var Black = color.RGBA{A: 255}

// table is laid out the way the toolbar shows it, one slice per row.
var table = [][]string{
	{"#FFFFFF", "#AAAAAA", "#555555", "#000000"},
	{"#FFFFAA"},
	{"#FFFF55", "#FFAAAA"},
	{"#FFAA55"},
	{"#AAFF55", "#FFFF00", "#FF5500", "#FF5555"},
	{"#AAFF00", "#FFAA00", "#FF0000"},
	{"#55FF00", "#AAAA00", "#AA5500", "#FF0055"},
	{"#AAAA55", "#AA5555"},
	{"#AAFFAA", "#00FF00", "#55AA00", "#555500", "#AA0000"},
	{"#55FF55", "#00AA00", "#005500", "#550000", "#FF00AA"},
	{"#00FF55", "#55AA55", "#005555", "#AA0055", "#FF55AA"},
	{"#00AA55", "#55AAAA", "#550055", "#FF00FF", "#FFAAFF"},
	{"#55FFAA", "#00AAAA", "#0055AA", "#000055", "#AA00AA", "#FF55FF"},
	{"#00FFAA", "#0000AA", "#5500AA", "#AA55AA"},
	{"#00FFFF", "#00AAFF", "#5500FF", "#AA00FF"},
	{"#55FFFF", "#0000FF", "#5555AA", "#AA55FF"},
	{"#55AAFF", "#5555FF"},
	{"#AAFFFF", "#0055FF", "#AAAAFF"},
}

// Palette is an immutable ordered color table. Entries are addressed by a
// flat index running row by row.
type Palette struct {
	rows [][]color.RGBA
	flat []color.RGBA
}

var def = mustNew(table)

// Default returns the built-in table.
func Default() *Palette { return def }

// New builds a palette from rows of hex strings.
func New(rows [][]string) (*Palette, error) {
	p := &Palette{}
	for r, row := range rows {
		if len(row) == 0 {
			return nil, fmt.Errorf("palette row %d is empty", r)
		}
		out := make([]color.RGBA, 0, len(row))
		for _, h := range row {
			c, err := Parse(h)
			if err != nil {
				return nil, fmt.Errorf("palette row %d: %w", r, err)
			}
			out = append(out, c)
		}
		p.rows = append(p.rows, out)
		p.flat = append(p.flat, out...)
	}
	return p, nil
}

func mustNew(rows [][]string) *Palette {
	p, err := New(rows)
	if err != nil {
		panic(err)
	}
	return p
}

// Len returns the number of entries.
func (p *Palette) Len() int { return len(p.flat) }

// At returns the color at flat index i.
func (p *Palette) At(i int) (color.RGBA, error) {
	if i < 0 || i >= len(p.flat) {
		return color.RGBA{}, fmt.Errorf("%w: %d not in [0,%d)", ErrIndex, i, len(p.flat))
	}
	return p.flat[i], nil
}

// IndexOf returns the first index holding c, or -1.
func (p *Palette) IndexOf(c color.RGBA) int {
	for i, v := range p.flat {
		if v == c {
			return i
		}
	}
	return -1
}

// Rows returns a copy of the table in display layout.
func (p *Palette) Rows() [][]color.RGBA {
	out := make([][]color.RGBA, len(p.rows))
	for i, r := range p.rows {
		out[i] = append([]color.RGBA(nil), r...)
	}
	return out
}

// Position converts a flat index into its row and column.
func (p *Palette) Position(i int) (row, col int, ok bool) {
	if i < 0 {
		return 0, 0, false
	}
	for r, entries := range p.rows {
		if i < len(entries) {
			return r, i, true
		}
		i -= len(entries)
	}
	return 0, 0, false
}

// Parse reads #RGB or #RRGGBB (the leading # is optional). The result is
// always opaque.
func Parse(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(h) {
	case 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	case 6:
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// Hex formats c as #RRGGBB.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Name returns the SVG color name for c when one exists, else its hex form.
func Name(c color.RGBA) string {
	for _, n := range colornames.Names {
		if colornames.Map[n] == c {
			return n
		}
	}
	return Hex(c)
}

// Lookup resolves a hex string or an SVG color name.
func Lookup(s string) (color.RGBA, error) {
	if c, ok := colornames.Map[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	return Parse(s)
}
