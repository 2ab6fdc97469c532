package ui

import (
	"context"
	"fmt"
	"io"
	"os"
)

type terminalUI struct {
	out    io.Writer
	errOut io.Writer
	quiet  bool
}

// NewTerminal écrit sur os.Stdout / os.Stderr.
// quiet supprime les messages d'info (les erreurs restent affichées).
func NewTerminal(quiet bool) Interface {
	return NewWriters(os.Stdout, os.Stderr, quiet)
}

// NewWriters permet de rediriger les sorties (tests).
func NewWriters(out, errOut io.Writer, quiet bool) Interface {
	return &terminalUI{out: out, errOut: errOut, quiet: quiet}
}

func (t *terminalUI) PrintDocument(ctx context.Context, s string) {
	fmt.Fprintln(t.out, s)
}

func (t *terminalUI) PrintInfo(ctx context.Context, s string) {
	if t.quiet {
		return
	}
	fmt.Fprintln(t.errOut, s)
}

func (t *terminalUI) PrintWarning(ctx context.Context, s string) {
	fmt.Fprintln(t.errOut, "⚠️ "+s)
}

func (t *terminalUI) PrintError(ctx context.Context, s string) {
	fmt.Fprintln(t.errOut, s)
}
