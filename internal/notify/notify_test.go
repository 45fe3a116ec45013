package notify

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/pebbledraw/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
}

func capture(t *testing.T) *[]sent {
	t.Helper()
	var got []sent
	orig := send
	send = func(title, body string, opts platform.Options) error {
		got = append(got, sent{title, body, opts})
		return nil
	}
	t.Cleanup(func() { send = orig })
	return &got
}

func TestDisabledEventsAreSilent(t *testing.T) {
	got := capture(t)
	n := New(DefaultPreferences())
	n.Export("x.png")
	n.Copy("", nil)
	n.Import("a.png")
	n.Failed(EventImport, "a.png", errors.New("bad"))
	if len(*got) != 0 {
		t.Fatalf("sent %d notifications while disabled", len(*got))
	}
	var nilNotifier *Notifier
	nilNotifier.Export("x.png")
}

func TestExportUsesFileAsIcon(t *testing.T) {
	got := capture(t)
	path := filepath.Join(t.TempDir(), "out.png")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	n := New(DefaultPreferences())
	n.Enable(EventExport, true)
	n.Export(path)
	if len(*got) != 1 {
		t.Fatalf("sent %d notifications", len(*got))
	}
	s := (*got)[0]
	if s.title != "pebbledraw" || !strings.HasPrefix(s.body, "Saved ") || s.opts.IconPath != path {
		t.Fatalf("unexpected notification %+v", s)
	}
}

func TestCopyPreviewIsRemoved(t *testing.T) {
	got := capture(t)
	n := New(DefaultPreferences())
	n.Enable(EventCopy, true)
	n.Copy("", image.NewRGBA(image.Rect(0, 0, 2, 2)))
	if len(*got) != 1 {
		t.Fatal("no copy notification")
	}
	icon := (*got)[0].opts.IconPath
	if icon == "" {
		t.Fatal("expected preview icon")
	}
	if _, err := os.Stat(icon); !os.IsNotExist(err) {
		t.Fatalf("preview %s left behind", icon)
	}
	if !strings.Contains((*got)[0].body, "drawing") {
		t.Fatalf("body = %q", (*got)[0].body)
	}
}

func TestImportFailureIsCritical(t *testing.T) {
	got := capture(t)
	n := New(DefaultPreferences())
	n.Enable(EventImport, true)
	n.Failed(EventImport, "cat.png", errors.New("unknown format"))
	if len(*got) != 1 {
		t.Fatal("no failure notification")
	}
	s := (*got)[0]
	if s.opts.Urgency != platform.UrgencyCritical || s.body != "Could not import cat.png: unknown format" {
		t.Fatalf("unexpected notification %+v", s)
	}
}

func TestLoadPreferencesFromEnv(t *testing.T) {
	t.Setenv("PEBBLEDRAW_NOTIFY_TITLE", "Art")
	t.Setenv("PEBBLEDRAW_NOTIFY_EXPORT_TEXT", "Wrote %s")
	prefs := LoadPreferences()
	if prefs.Title != "Art" || prefs.Events[EventExport].Template != "Wrote %s" {
		t.Fatalf("prefs = %+v", prefs)
	}
	if prefs.Events[EventExport].FailTemplate == "" {
		t.Fatal("env override dropped the failure template")
	}
}
