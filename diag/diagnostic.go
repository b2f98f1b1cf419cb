// Package diag accumulates severity-tagged diagnostics emitted while
// lexing, parsing, or resolving a schema, and renders them in an
// ariadne-style format with source snippets and carets.
package diag

import "github.com/dgllghr/cboragen/sourcemap"

// Severity classifies a diagnostic.
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Note is an optional annotation attached to a Diagnostic, rendered as a
// trailing "= help: ..." line.
type Note struct {
	Span    sourcemap.Span
	HasSpan bool
	Message string
}

// Diagnostic is a single severity-tagged message with an optional list of
// notes.
type Diagnostic struct {
	Severity Severity
	Span     sourcemap.Span
	Message  string
	Notes    []Note
}

// Bag is an append-only, ordered accumulator of diagnostics.
type Bag struct {
	diagnostics []Diagnostic
}

// Emit appends a diagnostic with no notes.
func (b *Bag) Emit(severity Severity, span sourcemap.Span, message string) {
	b.diagnostics = append(b.diagnostics, Diagnostic{
		Severity: severity,
		Span:     span,
		Message:  message,
	})
}

// EmitWithNote appends a diagnostic carrying a single help note.
func (b *Bag) EmitWithNote(
	severity Severity,
	span sourcemap.Span,
	message string,
	noteSpan sourcemap.Span,
	hasNoteSpan bool,
	noteMessage string,
) {
	b.diagnostics = append(b.diagnostics, Diagnostic{
		Severity: severity,
		Span:     span,
		Message:  message,
		Notes: []Note{{
			Span:    noteSpan,
			HasSpan: hasNoteSpan,
			Message: noteMessage,
		}},
	})
}

// HasErrors reports whether any accumulated diagnostic is an error.
func (b *Bag) HasErrors() bool {
	for _, d := range b.diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of error-severity diagnostics.
func (b *Bag) ErrorCount() int {
	n := 0
	for _, d := range b.diagnostics {
		if d.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Slice returns the accumulated diagnostics in emission order.
func (b *Bag) Slice() []Diagnostic {
	return b.diagnostics
}
