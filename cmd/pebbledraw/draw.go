package main

import (
	"flag"
	"fmt"

	"github.com/example/pebbledraw/internal/appstate"
	"github.com/example/pebbledraw/internal/script"
	"github.com/example/pebbledraw/internal/session"
)

// drawCmd opens the drawing window.
type drawCmd struct {
	*root
	fs        *flag.FlagSet
	open      string
	output    string
	colorSpec string
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r.subcommand("draw"), fs: fs}
	fs.Usage = usageFunc(d)
	fs.StringVar(&d.open, "open", "", "image to import into the canvas on start")
	fs.StringVar(&d.output, "output", "", "file written by Save (defaults to the configured export name)")
	fs.StringVar(&d.colorSpec, "color", "", "initial color: palette index, hex value or color name")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: d}
	}
	return d, nil
}

// newSession builds a session from the configured options and applies the
// requested starting color.
func newSession(r *root, colorSpec string) (*session.Session, error) {
	sess, err := session.New(r.sessionOptions())
	if err != nil {
		return nil, err
	}
	if colorSpec != "" {
		runner := &script.Runner{Session: sess}
		if err := runner.Exec("color " + colorSpec); err != nil {
			return nil, fmt.Errorf("color %q: %w", colorSpec, err)
		}
	}
	return sess, nil
}

func (d *drawCmd) Run() error {
	sess, err := newSession(d.root, d.colorSpec)
	if err != nil {
		return err
	}
	output := d.exportPath(d.output)
	st := appstate.New(
		appstate.WithSession(sess),
		appstate.WithOutput(output),
		appstate.WithOpen(d.open),
		appstate.WithTheme(d.activeTheme),
		appstate.WithNotifier(d.notifier),
		appstate.WithTitle(windowTitle(titleOptions{File: d.open, Output: output, Mode: sess.Mode().String()})),
	)
	st.Run()
	return nil
}
