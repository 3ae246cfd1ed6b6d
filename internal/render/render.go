// Package render formats expected and actual diagnostics for operator
// display. Pure formatting: every function writes to the sink it is
// given and never mutates fixture state.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"syntest/internal/analyzer"
	"syntest/internal/fixture"
	"syntest/internal/match"
)

// Opts configures rendering of expectation and diagnostic blocks.
type Opts struct {
	Color          bool
	Indent         string
	IgnoreWarnings bool
	LineNumbers    bool
	HeaderLen      int // exact byte length of the analyzer's synthetic header
	MaxWidth       int // display cells for source lines, 0 = unlimited
}

func newColor(attrs ...color.Attribute) func(enabled bool) *color.Color {
	return func(enabled bool) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
}

var (
	successColor = newColor(color.FgGreen, color.Bold)
	warningColor = newColor(color.FgYellow, color.Bold)
	failureColor = newColor(color.FgRed, color.Bold)
)

func kindColor(kind string, enabled bool) *color.Color {
	if kind == "Warning" {
		return warningColor(enabled)
	}
	return failureColor(enabled)
}

// Expectations prints the declared expectation block, one line per
// entry, or a green Success line when the fixture expects none.
func Expectations(w io.Writer, exps []fixture.Expectation, opts Opts) {
	if len(exps) == 0 {
		successColor(opts.Color).Fprintf(w, "%sSuccess\n", opts.Indent)
		return
	}
	for _, e := range exps {
		kindColor(e.Kind, opts.Color).Fprintf(w, "%s%s: ", opts.Indent, e.Kind)
		fmt.Fprintf(w, "%s\n", e.Message)
	}
}

// Diagnostics prints the actual analyzer findings in the same shape as
// the expectation block. Warnings are dropped when IgnoreWarnings is
// set; LineNumbers prefixes each entry with the header-corrected line
// when it can be resolved.
func Diagnostics(w io.Writer, diags []analyzer.Diagnostic, source string, opts Opts) {
	if len(diags) == 0 {
		successColor(opts.Color).Fprintf(w, "%sSuccess\n", opts.Indent)
		return
	}
	for _, d := range diags {
		if d.IsWarning() && opts.IgnoreWarnings {
			continue
		}
		label := opts.Indent
		if opts.LineNumbers {
			if line, ok := match.LineNumber(source, d.Offset, opts.HeaderLen); ok {
				label = fmt.Sprintf("%s(%d): ", opts.Indent, line)
			}
		}
		kindColor(d.Kind, opts.Color).Fprintf(w, "%s%s: ", label, d.Kind)
		fmt.Fprintf(w, "%s\n", match.Message(d))
	}
}

// Source prints the fixture source indented line by line, clipping
// long lines to MaxWidth display cells.
func Source(w io.Writer, source string, opts Opts) {
	if source == "" {
		return
	}
	for _, line := range strings.Split(strings.TrimSuffix(source, "\n"), "\n") {
		if opts.MaxWidth > 0 {
			line = runewidth.Truncate(line, opts.MaxWidth, "…")
		}
		fmt.Fprintf(w, "%s%s\n", opts.Indent, line)
	}
}
