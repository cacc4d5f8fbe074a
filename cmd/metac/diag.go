package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// printer renders CLI output, colorizing diagnostics when stderr/stdout is
// an actual terminal and falling back to plain text otherwise (redirected
// output, CI logs). This is the standard isatty-gated termenv pattern;
// nothing in the teacher repo prints to a terminal, so it's grounded on
// the pack's 0x4d5352-regolith go.mod, which lists termenv/go-isatty as
// exactly this kind of CLI presentation dependency.
type printer struct {
	colorizeOut bool
	colorizeErr bool
	profile     termenv.Profile
}

func newPrinter() *printer {
	return &printer{
		colorizeOut: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
		colorizeErr: isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()),
		profile:     termenv.EnvColorProfile(),
	}
}

func (p *printer) style(s string, color termenv.Color, colorize bool) string {
	if !colorize {
		return s
	}
	return termenv.String(s).Foreground(color).String()
}

func (p *printer) ruleName(s string) string {
	return p.style(s, p.profile.Color("6"), p.colorizeOut) // cyan
}

func (p *printer) errorLabel(s string) string {
	return p.style(s, p.profile.Color("9"), p.colorizeErr) // bright red
}

func (p *printer) reportError(rule string, err error) {
	fmt.Fprintf(os.Stderr, "%s %s: %v\n", p.errorLabel("error:"), p.style(rule, p.profile.Color("6"), p.colorizeErr), err)
}
