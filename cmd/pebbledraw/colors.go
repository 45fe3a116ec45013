package main

import (
	"flag"
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/example/pebbledraw/internal/palette"
)

type colorsCmd struct {
	*root
	fs     *flag.FlagSet
	swatch string
	stdout io.Writer
}

func parseColorsCmd(args []string, r *root) (*colorsCmd, error) {
	fs := flag.NewFlagSet("colors", flag.ExitOnError)
	cmd := &colorsCmd{root: r.subcommand("colors"), fs: fs, stdout: os.Stdout}
	fs.Usage = usageFunc(cmd)
	fs.StringVar(&cmd.swatch, "swatch", "", "also write the palette as a PNG swatch sheet")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *colorsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *colorsCmd) Run() error {
	pal := palette.Default()
	if pal.Len() == 0 {
		fmt.Fprintln(c.stdout, "no colors available")
		return nil
	}
	listColors(c.stdout, pal)
	if c.swatch != "" {
		if err := writeSwatch(c.swatch, pal); err != nil {
			return fmt.Errorf("swatch: %w", err)
		}
		fmt.Fprintf(os.Stderr, "saved %s\n", c.swatch)
		c.notifyExport(c.swatch)
	}
	return nil
}

// listColors prints the palette grouped by toolbar row, one entry per line.
func listColors(w io.Writer, pal *palette.Palette) {
	fmt.Fprintln(w, "available palette colors (* marks the starting color):")
	defaultIdx := pal.IndexOf(palette.Black)
	idx := 0
	for r, row := range pal.Rows() {
		for _, col := range row {
			marker := " "
			if idx == defaultIdx {
				marker = "*"
			}
			hex := palette.Hex(col)
			name := palette.Name(col)
			if name == hex {
				name = ""
			}
			block := lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("    ")
			fmt.Fprintf(w, "%s %2d: row %2d %s %-12s %s\n", marker, idx, r, hex, name, block)
			idx++
		}
	}
}

const (
	swatchCell = 24
	swatchPad  = 8
	swatchText = 64
)

// writeSwatch renders the palette in toolbar layout with the flat index of
// the first entry of each row printed beside it.
func writeSwatch(path string, pal *palette.Palette) error {
	rows := pal.Rows()
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	w := 2*swatchPad + cols*swatchCell + swatchText
	h := 2*swatchPad + len(rows)*swatchCell

	dc := gg.NewContext(w, h)
	dc.SetColor(color.White)
	dc.Clear()

	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %v", err)
	}
	dc.SetFontFace(truetype.NewFace(ttf, &truetype.Options{Size: 11, DPI: 72, Hinting: font.HintingFull}))

	idx := 0
	for r, row := range rows {
		y := float64(swatchPad + r*swatchCell)
		for c, col := range row {
			x := float64(swatchPad + c*swatchCell)
			dc.DrawRectangle(x+1, y+1, swatchCell-2, swatchCell-2)
			dc.SetColor(col)
			dc.FillPreserve()
			dc.SetColor(color.Black)
			dc.SetLineWidth(1)
			dc.Stroke()
		}
		label := fmt.Sprintf("%d", idx)
		if len(row) > 1 {
			label = fmt.Sprintf("%d-%d", idx, idx+len(row)-1)
		}
		dc.SetColor(color.Black)
		dc.DrawStringAnchored(label, float64(swatchPad+cols*swatchCell+swatchPad), y+swatchCell/2, 0, 0.5)
		idx += len(row)
	}
	return dc.SavePNG(path)
}
