// Package console renders user-facing messages on the terminal.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Symbols for output.
const (
	crossMark = "✗"
	bullet    = "•"
)

// Printer writes styled messages. Colours are dropped when the target is not a terminal.
type Printer struct {
	out io.Writer
	err io.Writer

	successStyle lipgloss.Style
	errorStyle   lipgloss.Style
	warnStyle    lipgloss.Style
	labelStyle   lipgloss.Style
	mutedStyle   lipgloss.Style
}

// NewPrinter creates a Printer writing messages to out and errOut.
//
//nolint:misspell // lipgloss uses American spelling (Color) for its API
func NewPrinter(out, errOut io.Writer) *Printer {
	outRenderer := lipgloss.NewRenderer(out)
	errRenderer := lipgloss.NewRenderer(errOut)

	return &Printer{
		out:          out,
		err:          errOut,
		successStyle: outRenderer.NewStyle().Foreground(lipgloss.Color("42")),            // Green
		errorStyle:   errRenderer.NewStyle().Foreground(lipgloss.Color("196")).Bold(true), // Red
		warnStyle:    errRenderer.NewStyle().Foreground(lipgloss.Color("226")),            // Yellow
		labelStyle:   outRenderer.NewStyle().Foreground(lipgloss.Color("245")),            // Grey
		mutedStyle:   outRenderer.NewStyle().Foreground(lipgloss.Color("240")),            // Dark grey
	}
}

// Success prints msg to standard output.
func (p *Printer) Success(format string, args ...any) {
	_, _ = fmt.Fprintln(p.out, p.successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints msg to standard error.
func (p *Printer) Error(format string, args ...any) {
	_, _ = fmt.Fprintln(p.err, p.errorStyle.Render(crossMark+" ")+fmt.Sprintf(format, args...))
}

// Warning prints msg to standard error.
func (p *Printer) Warning(format string, args ...any) {
	_, _ = fmt.Fprintln(p.err, p.warnStyle.Render("! ")+fmt.Sprintf(format, args...))
}

// Raw copies text to standard error without styling. Scanner output is echoed through it verbatim.
func (p *Printer) Raw(text string) {
	if text == "" {
		return
	}
	_, _ = io.WriteString(p.err, text)
	if !strings.HasSuffix(text, "\n") {
		_, _ = io.WriteString(p.err, "\n")
	}
}

// KeyValue prints a label and value pair.
func (p *Printer) KeyValue(label, value string) {
	_, _ = fmt.Fprintf(p.out, "%s %s\n", p.labelStyle.Render(label+":"), value)
}

// List prints one bulleted item per line.
func (p *Printer) List(items []string) {
	for _, item := range items {
		_, _ = fmt.Fprintf(p.out, "%s %s\n", p.mutedStyle.Render(bullet), item)
	}
}
