package config

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/example/pebbledraw/internal/session"
	"github.com/example/pebbledraw/internal/stroke"
	"github.com/example/pebbledraw/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Export bool
	Copy   bool
	Import bool
}

// Config holds the application configuration.
type Config struct {
	Theme      string
	SaveDir    string
	ExportName string

	BlockSize    int
	Columns      int
	Rows         int
	HistoryLimit int
	LineMode     stroke.Mode
	// ImportUndoable records an undo entry before an import replaces the
	// drawing.
	ImportUndoable bool

	Notify Notify
	Themes map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	d := session.DefaultOptions()
	return &Config{
		Theme:        "", // Default to empty to allow fallback to Env/Default
		ExportName:   session.DefaultExportName,
		BlockSize:    d.BlockSize,
		Columns:      d.Cols,
		Rows:         d.Rows,
		HistoryLimit: d.HistoryLimit,
		LineMode:     d.Mode,
		Themes:       make(map[string]*theme.Theme),
	}
}

// SessionOptions converts the drawing settings into options for a new
// session.
func (c *Config) SessionOptions() session.Options {
	opts := session.DefaultOptions()
	opts.Cols = c.Columns
	opts.Rows = c.Rows
	opts.BlockSize = c.BlockSize
	opts.HistoryLimit = c.HistoryLimit
	opts.Mode = c.LineMode
	opts.SnapshotOnImport = c.ImportUndoable
	return opts
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	fmt.Fprintf(&sb, "export_name = %s\n", c.ExportName)
	fmt.Fprintf(&sb, "block_size = %d\n", c.BlockSize)
	fmt.Fprintf(&sb, "columns = %d\n", c.Columns)
	fmt.Fprintf(&sb, "rows = %d\n", c.Rows)
	fmt.Fprintf(&sb, "history_limit = %d\n", c.HistoryLimit)
	fmt.Fprintf(&sb, "line_mode = %s\n", c.LineMode)
	fmt.Fprintf(&sb, "import_undoable = %v\n", c.ImportUndoable)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "import = %v\n", c.Notify.Import)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		t.Each(func(key string, col color.RGBA) {
			fmt.Fprintf(&sb, "%s: %s\n", key, theme.FormatColor(col))
		})
		sb.WriteString("\n")
	}

	return sb.String()
}
