package syntax

import (
	"unicode/utf8"

	"github.com/dgllghr/cboragen/diag"
	"github.com/dgllghr/cboragen/sourcemap"
)

// Lexer is an on-demand, allocation-free tokenizer over a source buffer.
// Calling Next repeatedly yields tokens until T_EOF; it never stops early,
// even on lexical errors — those are reported through the diagnostics bag
// passed to Next, and a best-effort token is still produced.
type Lexer struct {
	src    []byte
	offset uint32
}

// NewLexer creates a lexer over src. src must outlive every token span
// the lexer produces.
func NewLexer(src []byte) *Lexer {
	return &Lexer{src: src}
}

// Next scans and returns the next token, skipping horizontal whitespace
// and collapsing runs of newlines into a single T_NEWLINE. Diagnostics
// for lexical errors are appended to diags; the lexer always returns a
// token, never a fatal error.
func (lx *Lexer) Next(diags *diag.Bag) Token {
	lx.skipHorizontalSpace()

	if lx.offset >= uint32(len(lx.src)) {
		return Token{Kind: T_EOF, Span: sourcemap.NewSpan(lx.offset, 0)}
	}

	c := lx.src[lx.offset]
	switch {
	case c == '\n' || c == '\r':
		return lx.lexNewlineRun()
	case c == '/':
		return lx.lexSlash(diags)
	case c == '"':
		return lx.lexString(diags)
	case c >= '0' && c <= '9':
		return lx.lexInt()
	case c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
		return lx.lexIdent()
	}

	if sym, ok := symbolKind(c); ok {
		start := lx.offset
		lx.offset++
		return Token{Kind: sym, Span: sourcemap.NewSpan(start, 1)}
	}

	r, size := utf8.DecodeRune(lx.src[lx.offset:])
	start := lx.offset
	err := errUnexpectedChar(r, sourcemap.NewSpan(start, uint32(size)))
	diags.Emit(diag.SeverityError, err.Span(), err.Message())
	lx.offset += uint32(size)
	return Token{Kind: T_INVALID, Span: sourcemap.NewSpan(start, uint32(size))}
}

func symbolKind(c byte) (TokenKind, bool) {
	switch c {
	case '=':
		return T_EQ, true
	case ':':
		return T_COLON, true
	case '@':
		return T_AT, true
	case '.':
		return T_DOT, true
	case '?':
		return T_QUESTION, true
	case '[':
		return T_OPEN_SQUARE, true
	case ']':
		return T_CLOSE_SQUARE, true
	case '{':
		return T_OPEN_CURL, true
	case '}':
		return T_CLOSE_CURL, true
	case '(':
		return T_OPEN_PAREN, true
	case ')':
		return T_CLOSE_PAREN, true
	case ',':
		return T_COMMA, true
	}
	return 0, false
}

func (lx *Lexer) skipHorizontalSpace() {
	for lx.offset < uint32(len(lx.src)) {
		c := lx.src[lx.offset]
		if c != ' ' && c != '\t' {
			return
		}
		lx.offset++
	}
}

// lexNewlineRun consumes one or more newlines (\n, \r, \r\n), collapsing
// any horizontal whitespace found between them, and returns a single
// T_NEWLINE token.
func (lx *Lexer) lexNewlineRun() Token {
	start := lx.offset
	for {
		if !lx.consumeOneNewline() {
			break
		}
		save := lx.offset
		lx.skipHorizontalSpace()
		if lx.offset >= uint32(len(lx.src)) || (lx.src[lx.offset] != '\n' && lx.src[lx.offset] != '\r') {
			lx.offset = save
			break
		}
	}
	return Token{Kind: T_NEWLINE, Span: sourcemap.NewSpan(start, lx.offset-start)}
}

func (lx *Lexer) consumeOneNewline() bool {
	if lx.offset >= uint32(len(lx.src)) {
		return false
	}
	c := lx.src[lx.offset]
	if c == '\n' {
		lx.offset++
		return true
	}
	if c == '\r' {
		lx.offset++
		if lx.offset < uint32(len(lx.src)) && lx.src[lx.offset] == '\n' {
			lx.offset++
		}
		return true
	}
	return false
}

// lexSlash disambiguates a line comment ("//"), a doc comment ("///"),
// and an isolated '/' (an error).
func (lx *Lexer) lexSlash(diags *diag.Bag) Token {
	start := lx.offset
	if start+1 >= uint32(len(lx.src)) || lx.src[start+1] != '/' {
		lx.offset++
		err := errIsolatedSlash(sourcemap.NewSpan(start, 1))
		diags.Emit(diag.SeverityError, err.Span(), err.Message())
		return Token{Kind: T_INVALID, Span: sourcemap.NewSpan(start, 1)}
	}

	isDoc := start+2 < uint32(len(lx.src)) && lx.src[start+2] == '/'
	lx.offset += 2
	if isDoc {
		lx.offset++
	}
	for lx.offset < uint32(len(lx.src)) && lx.src[lx.offset] != '\n' && lx.src[lx.offset] != '\r' {
		lx.offset++
	}
	if !isDoc {
		// Plain line comments are skipped silently: recurse for the next
		// real token rather than returning a comment token.
		return lx.Next(diags)
	}
	return Token{Kind: T_DOC_COMMENT, Span: sourcemap.NewSpan(start, lx.offset-start)}
}

// DocCommentContent extracts a doc comment token's text, stripping the
// leading "///" and a single optional leading space.
func DocCommentContent(src []byte, tok Token) string {
	body := tok.Span.Slice(src)
	if len(body) < 3 {
		return ""
	}
	body = body[3:]
	if len(body) > 0 && body[0] == ' ' {
		body = body[1:]
	}
	return string(body)
}

func (lx *Lexer) lexString(diags *diag.Bag) Token {
	start := lx.offset
	lx.offset++ // opening quote
	for {
		if lx.offset >= uint32(len(lx.src)) {
			err := errUnterminatedString(sourcemap.NewSpan(start, lx.offset-start))
			diags.Emit(diag.SeverityError, err.Span(), err.Message())
			return Token{Kind: T_STRING_LIT, Span: sourcemap.NewSpan(start, lx.offset-start)}
		}
		c := lx.src[lx.offset]
		if c == '"' {
			lx.offset++
			return Token{Kind: T_STRING_LIT, Span: sourcemap.NewSpan(start, lx.offset-start)}
		}
		if c == '\n' || c == '\r' {
			err := errUnescapedNewlineInString(sourcemap.NewSpan(lx.offset, 1))
			diags.Emit(diag.SeverityError, err.Span(), err.Message())
			return Token{Kind: T_STRING_LIT, Span: sourcemap.NewSpan(start, lx.offset-start)}
		}
		if c == '\\' && lx.offset+1 < uint32(len(lx.src)) {
			lx.offset += 2
			continue
		}
		lx.offset++
	}
}

func (lx *Lexer) lexInt() Token {
	start := lx.offset
	for lx.offset < uint32(len(lx.src)) && lx.src[lx.offset] >= '0' && lx.src[lx.offset] <= '9' {
		lx.offset++
	}
	return Token{Kind: T_INT_LIT, Span: sourcemap.NewSpan(start, lx.offset-start)}
}

func (lx *Lexer) lexIdent() Token {
	start := lx.offset
	for lx.offset < uint32(len(lx.src)) {
		c := lx.src[lx.offset]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			lx.offset++
			continue
		}
		break
	}
	text := string(lx.src[start:lx.offset])
	if kind, ok := keywords[text]; ok {
		return Token{Kind: kind, Span: sourcemap.NewSpan(start, lx.offset-start)}
	}
	leading := lx.src[start]
	if leading >= 'A' && leading <= 'Z' {
		return Token{Kind: T_TYPE_IDENT, Span: sourcemap.NewSpan(start, lx.offset-start)}
	}
	return Token{Kind: T_IDENT, Span: sourcemap.NewSpan(start, lx.offset-start)}
}
