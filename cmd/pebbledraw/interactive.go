package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/pebbledraw/internal/appstate"
	"github.com/example/pebbledraw/internal/script"
	"github.com/example/pebbledraw/internal/session"
)

type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, ";")
}

func (c *commandList) Set(value string) error {
	*c = append(*c, value)
	return nil
}

// interactiveCmd reads drawing commands from a prompt. With -window the
// drawing is shown and every command runs on the window's event loop.
type interactiveCmd struct {
	*root
	fs     *flag.FlagSet
	execs  commandList
	window bool
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (i *interactiveCmd) FlagSet() *flag.FlagSet {
	return i.fs
}

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	fs := flag.NewFlagSet("interactive", flag.ExitOnError)
	i := &interactiveCmd{root: r.subcommand("interactive"), fs: fs, stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	fs.Usage = usageFunc(i)
	fs.Var(&i.execs, "e", "execute a command in immediate mode (may be specified multiple times)")
	fs.BoolVar(&i.window, "window", false, "show the drawing in a window while reading commands")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: i}
	}
	return i, nil
}

// executor runs one line against the drawing, reporting whether the
// session should end.
type executor func(line string) (done bool, err error)

func (i *interactiveCmd) Run() error {
	sess, err := session.New(i.sessionOptions())
	if err != nil {
		return err
	}
	runner := &script.Runner{
		Session:  sess,
		Out:      i.stderr,
		OnExport: i.notifyExport,
		OnImport: i.notifyImport,
	}
	exec := func(line string) (bool, error) {
		return executeLine(runner, line)
	}

	if !i.window {
		return i.drive(exec)
	}

	st := appstate.New(
		appstate.WithSession(sess),
		appstate.WithOutput(i.exportPath("")),
		appstate.WithTheme(i.activeTheme),
		appstate.WithNotifier(i.notifier),
		appstate.WithTitle(windowTitle(titleOptions{Mode: "interactive"})),
	)
	windowed := func(line string) (bool, error) {
		var done bool
		var err error
		if derr := st.Do(func(*session.Session) { done, err = exec(line) }); derr != nil {
			return true, nil
		}
		return done, err
	}
	go func() {
		select {
		case <-st.Ready():
		case <-st.Done():
			return
		}
		if err := i.drive(windowed); err != nil {
			fmt.Fprintln(i.stderr, err)
		}
	}()
	st.Run()
	return nil
}

// drive runs the -e commands, or the prompt when none were given.
func (i *interactiveCmd) drive(exec executor) error {
	if len(i.execs) > 0 {
		for _, line := range i.execs {
			done, err := exec(line)
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
		return nil
	}

	fmt.Fprintln(i.stdout, "Enter commands (type 'exit' to quit)")
	scanner := bufio.NewScanner(i.stdin)
	for {
		fmt.Fprint(i.stdout, "> ")
		if !scanner.Scan() {
			break
		}
		done, err := exec(scanner.Text())
		if err != nil {
			fmt.Fprintln(i.stderr, err)
		}
		if done {
			break
		}
	}
	return scanner.Err()
}

func executeLine(runner *script.Runner, line string) (bool, error) {
	line = strings.TrimSpace(line)
	switch strings.ToLower(line) {
	case "exit", "quit":
		return true, nil
	}
	return false, runner.Exec(line)
}
