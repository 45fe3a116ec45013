package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/pebbledraw/internal/stroke"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
save_dir = /tmp/drawings
block_size = 8
columns = 32
rows = 24
history_limit = 0
line_mode = reference
import_undoable = true

[notify]
export = true
copy = false
import = true

[theme.my_custom_theme]
Background = #111111
Foreground = #FFFFFF
`
	r := strings.NewReader(input)
	cfg, err := Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/drawings" {
		t.Errorf("Expected save_dir '/tmp/drawings', got '%s'", cfg.SaveDir)
	}
	if cfg.BlockSize != 8 || cfg.Columns != 32 || cfg.Rows != 24 {
		t.Errorf("unexpected size %dx%d@%d", cfg.Columns, cfg.Rows, cfg.BlockSize)
	}
	if cfg.HistoryLimit != 0 {
		t.Errorf("history_limit = %d", cfg.HistoryLimit)
	}
	if cfg.LineMode != stroke.ModeReference {
		t.Errorf("line_mode = %v", cfg.LineMode)
	}
	if !cfg.ImportUndoable {
		t.Error("Expected import_undoable to be true")
	}
	if cfg.ExportName != "pebbletest.png" {
		t.Errorf("export_name default = %q", cfg.ExportName)
	}

	if !cfg.Notify.Export || cfg.Notify.Copy || !cfg.Notify.Import {
		t.Errorf("unexpected notify settings %+v", cfg.Notify)
	}

	theme, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if theme.Background.R != 0x11 || theme.Background.G != 0x11 || theme.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", theme.Background)
	}

	opts := cfg.SessionOptions()
	if opts.Cols != 32 || opts.Rows != 24 || opts.BlockSize != 8 || !opts.SnapshotOnImport || opts.Mode != stroke.ModeReference {
		t.Errorf("SessionOptions = %+v", opts)
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"block_size = 0",
		"columns = wide",
		"history_limit = -1",
		"line_mode = wobbly",
		"[notify]\nexport = sometimes",
		"[theme.x]\nBackground = red",
	} {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("Parse(%q) succeeded", input)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/art
export_name = out.png
columns = 50
line_mode = reference

[notify]
export = true
copy = true
import = false

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
MessageBackground = #00000080
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	generated := cfg.String()

	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v\n%s", err, generated)
	}

	if cfg.Theme != cfg2.Theme || cfg.SaveDir != cfg2.SaveDir || cfg.ExportName != cfg2.ExportName {
		t.Errorf("root mismatch: %+v vs %+v", cfg, cfg2)
	}
	if cfg.Columns != cfg2.Columns || cfg.LineMode != cfg2.LineMode || cfg.HistoryLimit != cfg2.HistoryLimit {
		t.Errorf("drawing settings mismatch")
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestLoaderPaths(t *testing.T) {
	home := t.TempDir()
	l := &Loader{Version: "1.0.0", HomeDir: home}
	if p := l.GetConfigPath(); p != "" {
		t.Fatalf("unexpected config path %q", p)
	}
	cfg, err := l.Load()
	if err != nil || cfg.BlockSize != 4 {
		t.Fatalf("defaults: %+v, %v", cfg, err)
	}

	path := l.DefaultPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("rows = 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = l.Load()
	if err != nil || cfg.Rows != 7 {
		t.Fatalf("xdg config: %+v, %v", cfg, err)
	}

	override := filepath.Join(t.TempDir(), "custom.rc")
	if err := os.WriteFile(override, []byte("rows = 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l.OverridePath = override
	if got := l.GetConfigPath(); got != override {
		t.Fatalf("override ignored: %q", got)
	}
}
