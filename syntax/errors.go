package syntax

import (
	"fmt"

	"github.com/dgllghr/cboragen/sourcemap"
)

// Error is a self-describing parser/lexer failure: a stable numeric code,
// a message, and the span it concerns. Lexical errors use the 1000s,
// syntactic errors the 2000s (spec.md §7's taxonomy).
type Error struct {
	code    uint32
	message string
	span    sourcemap.Span
}

var _ error = (*Error)(nil)

func (e *Error) Error() string          { return fmt.Sprintf("E%d: %s", e.code, e.message) }
func (e *Error) Code() uint32           { return e.code }
func (e *Error) Message() string        { return e.message }
func (e *Error) Span() sourcemap.Span   { return e.span }

func errExpectedToken(want TokenKind, gotKind TokenKind, gotText string, span sourcemap.Span) *Error {
	return &Error{
		code:    2000,
		message: fmt.Sprintf("expected %s, found %s %q", want, gotKind, gotText),
		span:    span,
	}
}

func errExpectedOneOf(want string, gotKind TokenKind, gotText string, span sourcemap.Span) *Error {
	return &Error{
		code:    2001,
		message: fmt.Sprintf("expected %s, found %s %q", want, gotKind, gotText),
		span:    span,
	}
}

func errExpectedTopLevelForm(gotKind TokenKind, gotText string, span sourcemap.Span) *Error {
	return &Error{
		code:    2002,
		message: fmt.Sprintf("expected an import or type definition, found %s %q", gotKind, gotText),
		span:    span,
	}
}

func errMissingSeparator(span sourcemap.Span) *Error {
	return &Error{
		code:    2003,
		message: "expected ',' or a newline between fields",
		span:    span,
	}
}

func errMalformedArraySpecifier(gotKind TokenKind, gotText string, span sourcemap.Span) *Error {
	return &Error{
		code:    2004,
		message: fmt.Sprintf("malformed array specifier: found %s %q", gotKind, gotText),
		span:    span,
	}
}

func errIntLitOverflow(text string, span sourcemap.Span) *Error {
	return &Error{
		code:    1009,
		message: fmt.Sprintf("integer literal %q exceeds 64 bits", text),
		span:    span,
	}
}

func errUnknownPrimitiveType(gotText string, span sourcemap.Span) *Error {
	return &Error{
		code:    2006,
		message: fmt.Sprintf("unknown type %q", gotText),
		span:    span,
	}
}

// Lexer errors (1000s). errIntLitOverflow above is also in this tier:
// it is raised while parsing an integer literal's text, the same
// lexical concern as these, even though detection happens downstream
// of the lexer itself.

func errUnexpectedChar(r rune, span sourcemap.Span) *Error {
	return &Error{
		code:    1000,
		message: fmt.Sprintf("unexpected character %q (U+%04X)", r, r),
		span:    span,
	}
}

func errIsolatedSlash(span sourcemap.Span) *Error {
	return &Error{
		code:    1001,
		message: "isolated '/' is not a valid token",
		span:    span,
	}
}

func errUnterminatedString(span sourcemap.Span) *Error {
	return &Error{
		code:    1002,
		message: "unterminated string literal",
		span:    span,
	}
}

func errUnescapedNewlineInString(span sourcemap.Span) *Error {
	return &Error{
		code:    1003,
		message: "string literal contains an unescaped newline",
		span:    span,
	}
}
