// Package terminal holds the interactive bits of the CLI: the confirmation
// prompt, colored status lines and the report summary table.
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Confirm writes question to out and reads one answer line from in. Only
// "y" and "yes" (any case) accept. End of input declines.
func Confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	_, err := fmt.Fprintf(out, "%s ", question)
	if err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// IsInteractive reports whether r is a terminal. Readers that are not files
// never are.
func IsInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int.
}

// Printer writes status lines, colored unless disabled.
type Printer struct {
	w       io.Writer
	success *color.Color
	info    *color.Color
	warn    *color.Color
	err     *color.Color
}

// NewPrinter returns a Printer on w. Colors follow color.NoColor, which honors
// NO_COLOR, unless noColor forces them off.
func NewPrinter(w io.Writer, noColor bool) *Printer {
	p := &Printer{
		w:       w,
		success: color.New(color.FgGreen),
		info:    color.New(color.FgCyan),
		warn:    color.New(color.FgYellow),
		err:     color.New(color.FgRed, color.Bold),
	}

	disable := noColor || color.NoColor

	for _, c := range []*color.Color{p.success, p.info, p.warn, p.err} {
		if disable {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}

	return p
}

// Successf prints a green line.
func (p *Printer) Successf(format string, args ...any) {
	p.line(p.success, format, args...)
}

// Infof prints a cyan line.
func (p *Printer) Infof(format string, args ...any) {
	p.line(p.info, format, args...)
}

// Warnf prints a yellow line.
func (p *Printer) Warnf(format string, args ...any) {
	p.line(p.warn, format, args...)
}

// Errorf prints a bold red line.
func (p *Printer) Errorf(format string, args ...any) {
	p.line(p.err, format, args...)
}

func (p *Printer) line(c *color.Color, format string, args ...any) {
	_, _ = c.Fprintln(p.w, fmt.Sprintf(format, args...))
}
