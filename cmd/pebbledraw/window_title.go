package main

import (
	"fmt"
	"strings"

	"github.com/example/pebbledraw/internal/appstate"
)

type titleOptions struct {
	File   string
	Output string
	Mode   string
	Extras []string
}

func windowTitle(opts titleOptions) string {
	parts := []string{appstate.ProgramTitle}

	if file := strings.TrimSpace(opts.File); file != "" {
		parts = append(parts, file)
	}
	if out := strings.TrimSpace(opts.Output); out != "" {
		parts = append(parts, fmt.Sprintf("saves to %s", out))
	}
	if mode := strings.TrimSpace(opts.Mode); mode != "" {
		parts = append(parts, mode)
	}

	if v := strings.TrimSpace(version); v != "" {
		parts = append(parts, fmt.Sprintf("v%s", v))
	}
	if c := strings.TrimSpace(commit); c != "" {
		parts = append(parts, fmt.Sprintf("commit %s", c))
	}
	if d := strings.TrimSpace(date); d != "" {
		parts = append(parts, d)
	}
	parts = append(parts, opts.Extras...)

	return strings.Join(parts, " - ")
}
