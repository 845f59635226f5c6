package prompt

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Display prints user-facing results to stdout. It is distinct from the
// logger: the logger carries diagnostics, Display carries the answer.
// Quiet suppresses everything except warnings.
type Display struct {
	out   io.Writer
	quiet bool

	success *color.Color
	info    *color.Color
	warn    *color.Color
}

// NewDisplay creates a Display writing to stdout.
func NewDisplay(quiet bool) *Display {
	return &Display{
		out:     os.Stdout,
		quiet:   quiet,
		success: color.New(color.FgGreen, color.Bold),
		info:    color.New(color.FgCyan),
		warn:    color.New(color.FgYellow),
	}
}

// Successf prints a green checkmarked line.
func (d *Display) Successf(format string, args ...any) {
	if d.quiet {
		return
	}
	d.success.Fprint(d.out, "✓ ")
	fmt.Fprintf(d.out, format+"\n", args...)
}

// Infof prints an informational line.
func (d *Display) Infof(format string, args ...any) {
	if d.quiet {
		return
	}
	d.info.Fprint(d.out, "ℹ ")
	fmt.Fprintf(d.out, format+"\n", args...)
}

// Warnf prints a warning line. Warnings show even in quiet mode.
func (d *Display) Warnf(format string, args ...any) {
	d.warn.Fprint(d.out, "⚠ ")
	fmt.Fprintf(d.out, format+"\n", args...)
}

// Plainf prints an unstyled line, still honoring quiet.
func (d *Display) Plainf(format string, args ...any) {
	if d.quiet {
		return
	}
	fmt.Fprintf(d.out, format+"\n", args...)
}
