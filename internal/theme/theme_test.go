package theme

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseOverridesDefaults(t *testing.T) {
	th, err := Parse(strings.NewReader(`
# comment
Name: Custom
background: #101010
MessageBackground: #00000080
Unknown: #FFFFFF
`))
	if err != nil {
		t.Fatal(err)
	}
	if th.Name != "Custom" {
		t.Errorf("Name = %q", th.Name)
	}
	if th.Background != (color.RGBA{0x10, 0x10, 0x10, 255}) {
		t.Errorf("Background = %v", th.Background)
	}
	if th.MessageBackground.A != 0x80 {
		t.Errorf("MessageBackground = %v", th.MessageBackground)
	}
	if th.Foreground != Default().Foreground {
		t.Error("unset key lost its default")
	}
}

func TestParseBadColor(t *testing.T) {
	_, err := Parse(strings.NewReader("Name: x\nForeground: 123456\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("err = %v", err)
	}
}

func TestFormatColorRoundTrip(t *testing.T) {
	for _, c := range []color.RGBA{{1, 2, 3, 255}, {0xAA, 0xBB, 0xCC, 0x40}} {
		got, err := ParseColor(FormatColor(c))
		if err != nil || got != c {
			t.Errorf("round trip %v = %v, %v", c, got, err)
		}
	}
}

func TestEachVisitsColorFields(t *testing.T) {
	th := Default()
	seen := map[string]bool{}
	th.Each(func(k string, _ color.RGBA) { seen[k] = true })
	if seen["Name"] {
		t.Error("Each visited Name")
	}
	for _, k := range []string{"Background", "SwatchSelected", "MessageText"} {
		if !seen[k] {
			t.Errorf("Each skipped %s", k)
		}
	}
}

func TestBuiltinThemesLoad(t *testing.T) {
	names := Builtin()
	if len(names) == 0 {
		t.Fatal("no embedded themes")
	}
	l := &Loader{}
	for _, n := range names {
		if _, err := l.Load(n); err != nil {
			t.Errorf("Load(%q): %v", n, err)
		}
	}
}

func TestLoaderOrder(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mine.theme"), []byte("Name: Mine\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := &Loader{ConfigDir: dir}
	th, err := l.Load("mine")
	if err != nil || th.Name != "Mine" {
		t.Fatalf("Load(mine) = %v, %v", th, err)
	}
	th, err = l.Load(filepath.Join(dir, "mine.theme"))
	if err != nil || th.Name != "Mine" {
		t.Fatalf("Load(path) = %v, %v", th, err)
	}
	if th, _ := l.Load(""); th.Name != "Default" {
		t.Fatalf("empty name gave %q", th.Name)
	}
	if _, err := l.Load("missing"); err == nil {
		t.Fatal("expected error for unknown theme")
	}
}
