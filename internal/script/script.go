// Package script replays line-oriented drawing commands against a session.
//
// Each non-blank line holds one command; text after # is ignored.
//
//	color <index|#hex|name>
//	down x y | move x y | up | leave x y
//	stroke x0 y0 x1 y1 [xn yn ...]
//	undo | redo | clear
//	import <path> | export [path]
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/pebbledraw/internal/palette"
	"github.com/example/pebbledraw/internal/session"
)

// ErrUnknownCommand is returned for a command name the runner does not know.
var ErrUnknownCommand = errors.New("unknown command")

// LineError ties a failure to the script line that caused it.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *LineError) Unwrap() error { return e.Err }

// Runner executes commands against Session. Relative paths resolve against
// Dir.
type Runner struct {
	Session *session.Session
	Dir     string
	// Out receives status lines such as "saved x.png". Nil discards them.
	Out io.Writer
	// OnExport and OnImport are called after a successful file operation.
	OnExport func(path string)
	OnImport func(path string)
}

// Run executes every command read from src, stopping at the first error.
func (r *Runner) Run(src io.Reader) error {
	scanner := bufio.NewScanner(src)
	n := 0
	for scanner.Scan() {
		n++
		if err := r.Exec(scanner.Text()); err != nil {
			return &LineError{Line: n, Err: err}
		}
	}
	return scanner.Err()
}

// RunFile executes the script at path.
func (r *Runner) RunFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer closeWithLog(f)
	if err := r.Run(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Exec runs a single command line. Blank lines and comments are accepted and
// do nothing.
func (r *Runner) Exec(line string) error {
	args := stripComment(strings.Fields(line))
	if len(args) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(args[0]), args[1:]
	s := r.Session
	switch cmd {
	case "color", "colour":
		if len(args) != 1 {
			return fmt.Errorf("color requires one argument")
		}
		return r.color(args[0])
	case "down", "move", "leave":
		x, y, err := point(cmd, args)
		if err != nil {
			return err
		}
		switch cmd {
		case "down":
			s.PointerDown(x, y)
		case "move":
			s.PointerMove(x, y)
		default:
			s.PointerLeave(x, y)
		}
	case "up":
		s.PointerUp()
	case "stroke":
		if len(args) < 2 || len(args)%2 != 0 {
			return fmt.Errorf("stroke requires x y pairs")
		}
		pts, err := floats(args)
		if err != nil {
			return err
		}
		s.PointerDown(pts[0], pts[1])
		for i := 2; i < len(pts); i += 2 {
			s.PointerMove(pts[i], pts[i+1])
		}
		s.PointerUp()
	case "undo":
		s.Undo()
	case "redo":
		s.Redo()
	case "clear":
		s.Clear()
	case "import", "open":
		if len(args) != 1 {
			return fmt.Errorf("import requires a path")
		}
		return r.importFile(r.resolve(args[0]))
	case "export", "save":
		path := session.DefaultExportName
		if len(args) > 1 {
			return fmt.Errorf("export takes at most one path")
		}
		if len(args) == 1 {
			path = args[0]
		}
		return r.exportFile(r.resolve(path))
	default:
		return fmt.Errorf("%w %q", ErrUnknownCommand, cmd)
	}
	return nil
}

// stripComment drops everything from the first field starting with #, except
// the hex argument of a color command.
func stripComment(fields []string) []string {
	for i, f := range fields {
		if !strings.HasPrefix(f, "#") {
			continue
		}
		if i == 1 && len(f) > 1 && (strings.EqualFold(fields[0], "color") || strings.EqualFold(fields[0], "colour")) {
			continue
		}
		return fields[:i]
	}
	return fields
}

func (r *Runner) color(arg string) error {
	if idx, err := strconv.Atoi(arg); err == nil {
		return r.Session.SelectColor(idx)
	}
	c, err := palette.Lookup(arg)
	if err != nil {
		return err
	}
	r.Session.SetColor(c)
	return nil
}

func (r *Runner) importFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer closeWithLog(f)
	if err := r.Session.Import(f); err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	r.printf("imported %s\n", path)
	if r.OnImport != nil {
		r.OnImport(path)
	}
	return nil
}

func (r *Runner) exportFile(path string) error {
	if err := r.Session.ExportFile(path); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	saved := path
	if abs, err := filepath.Abs(path); err == nil {
		saved = abs
	}
	r.printf("saved %s\n", saved)
	if r.OnExport != nil {
		r.OnExport(saved)
	}
	return nil
}

func (r *Runner) resolve(path string) string {
	if r.Dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.Dir, path)
}

func (r *Runner) printf(format string, args ...any) {
	if r.Out != nil {
		fmt.Fprintf(r.Out, format, args...)
	}
}

func point(cmd string, args []string) (float64, float64, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("%s requires x y", cmd)
	}
	v, err := floats(args)
	if err != nil {
		return 0, 0, err
	}
	return v[0], v[1], nil
}

func floats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q", a)
		}
		out[i] = v
	}
	return out, nil
}

func closeWithLog(f *os.File) {
	if err := f.Close(); err != nil {
		log.Printf("error closing %q: %v", f.Name(), err)
	}
}
