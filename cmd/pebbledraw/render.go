package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/example/pebbledraw/internal/clipboard"
	"github.com/example/pebbledraw/internal/notify"
	"github.com/example/pebbledraw/internal/script"
	"github.com/example/pebbledraw/internal/session"
)

// renderCmd replays a stroke script without opening a window.
type renderCmd struct {
	*root
	fs          *flag.FlagSet
	scriptPath  string
	output      string
	open        string
	colorSpec   string
	toClipboard bool
	stdin       io.Reader
	stderr      io.Writer
}

func (c *renderCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseRenderCmd(args []string, r *root) (*renderCmd, error) {
	set := flag.NewFlagSet("render", flag.ExitOnError)
	c := &renderCmd{root: r.subcommand("render"), fs: set, stdin: os.Stdin, stderr: os.Stderr}
	set.Usage = usageFunc(c)
	set.StringVar(&c.scriptPath, "script", "", "stroke script to replay (- reads standard input)")
	set.StringVar(&c.output, "output", "", "output PNG path (defaults to the configured export name)")
	set.StringVar(&c.open, "open", "", "image to import before the script runs")
	set.StringVar(&c.colorSpec, "color", "", "initial color: palette index, hex value or color name")
	set.BoolVar(&c.toClipboard, "to-clipboard", false, "also copy the result to the clipboard")
	set.BoolVar(&c.toClipboard, "to-clip", false, "also copy the result to the clipboard (alias)")
	if err := set.Parse(args); err != nil {
		return nil, err
	}
	if c.scriptPath == "" || set.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *renderCmd) Run() error {
	sess, err := newSession(c.root, c.colorSpec)
	if err != nil {
		return err
	}
	runner := &script.Runner{
		Session:  sess,
		Out:      c.stderr,
		OnExport: c.notifyExport,
		OnImport: c.notifyImport,
	}

	if c.open != "" {
		if err := importFile(sess, c.open); err != nil {
			c.notifier.Failed(notify.EventImport, c.open, err)
			return fmt.Errorf("render: %w", err)
		}
		fmt.Fprintf(c.stderr, "imported %s\n", c.open)
		c.notifyImport(c.open)
	}

	if c.scriptPath == "-" {
		err = runner.Run(c.stdin)
	} else {
		runner.Dir = filepath.Dir(c.scriptPath)
		err = runner.RunFile(c.scriptPath)
	}
	if err != nil {
		if errors.Is(err, session.ErrDecode) || errors.Is(err, os.ErrNotExist) {
			c.notifier.Failed(notify.EventImport, c.scriptPath, err)
		}
		return fmt.Errorf("render: %w", err)
	}

	output := c.exportPath(c.output)
	if err := sess.ExportFile(output); err != nil {
		c.notifier.Failed(notify.EventExport, output, err)
		return fmt.Errorf("render: %w", err)
	}
	fmt.Fprintf(c.stderr, "saved %s\n", output)
	c.notifyExport(output)

	if c.toClipboard {
		if err := clipboard.WriteImage(sess.Image()); err != nil {
			c.notifier.Failed(notify.EventCopy, output, err)
			return fmt.Errorf("render: copy to clipboard: %w", err)
		}
		fmt.Fprintln(c.stderr, "copied to clipboard")
		c.notifier.Copy(output, sess.Image())
	}
	return nil
}

// importFile replaces the drawing with the image at path.
func importFile(sess *session.Session, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("closing %s: %v", path, err)
		}
	}()
	if err := sess.Import(f); err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	return nil
}
