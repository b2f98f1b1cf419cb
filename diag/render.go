package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/dgllghr/cboragen/sourcemap"
)

// Render writes every diagnostic in the bag to w, ariadne-style:
//
//	<severity>: <message>
//	  --> <filename>:<line>:<col>
//	   |
//	 N | <line text>
//	   | <underline>
//	   = help: <note message>
//
// Color is a presentation flag only: with useColor false, the byte layout
// is identical minus ANSI escapes.
func Render(w io.Writer, src []byte, filename string, b *Bag, useColor bool) {
	lines := sourcemap.NewLineIndex(src)
	for _, d := range b.Slice() {
		renderOne(w, src, lines, filename, d, useColor)
	}
}

func renderOne(
	w io.Writer,
	src []byte,
	lines *sourcemap.LineIndex,
	filename string,
	d Diagnostic,
	useColor bool,
) {
	severityHead := severityColor(d.Severity, useColor).Sprintf("%s:", d.Severity)
	fmt.Fprintf(w, "%s %s\n", severityHead, d.Message)

	line, col := lines.Resolve(d.Span.Start)
	arrow := gutterColor(useColor).Sprint("  -->")
	fmt.Fprintf(w, "%s %s:%d:%d\n", arrow, filename, line, col)

	lineText, lineNum := lines.LineText(d.Span.Start, src)
	gutterWidth := len(fmt.Sprintf("%d", lineNum))
	pad := strings.Repeat(" ", gutterWidth)

	fmt.Fprintf(w, "%s %s\n", pad, gutterColor(useColor).Sprint("|"))
	fmt.Fprintf(w, "%s %s %s\n", gutterColor(useColor).Sprint(lineNum), gutterColor(useColor).Sprint("|"), lineText)

	lineStart := d.Span.Start - uint32(col-1)
	lineEnd := lineStart + uint32(len(lineText))
	underlineLen := d.Span.End
	if underlineLen > lineEnd {
		underlineLen = lineEnd
	}
	ulen := int(underlineLen) - int(lineStart) - (col - 1)
	if ulen < 1 {
		ulen = 1
	}
	underline := severityColor(d.Severity, useColor).Sprint(strings.Repeat("^", ulen))
	fmt.Fprintf(w, "%s %s %s%s\n", pad, gutterColor(useColor).Sprint("|"), strings.Repeat(" ", col-1), underline)

	for _, n := range d.Notes {
		fmt.Fprintf(w, "%s %s %s\n", pad, helpColor(useColor).Sprint("= help:"), n.Message)
	}
	fmt.Fprintln(w)
}

func severityColor(s Severity, useColor bool) *color.Color {
	var c *color.Color
	switch s {
	case SeverityError:
		c = color.New(color.FgRed, color.Bold)
	case SeverityWarning:
		c = color.New(color.FgYellow, color.Bold)
	default:
		c = color.New(color.Bold)
	}
	if !useColor {
		c.DisableColor()
	}
	return c
}

func gutterColor(useColor bool) *color.Color {
	c := color.New(color.FgBlue)
	if !useColor {
		c.DisableColor()
	}
	return c
}

func helpColor(useColor bool) *color.Color {
	c := color.New(color.FgCyan)
	if !useColor {
		c.DisableColor()
	}
	return c
}
