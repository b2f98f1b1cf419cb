package syntax

import (
	"fmt"

	"github.com/dgllghr/cboragen/sourcemap"
)

// TokenKind is a closed alphabet: every byte of schema source lexes into
// exactly one of these.
type TokenKind uint8

const (
	T_EOF TokenKind = iota

	T_INT_LIT
	T_STRING_LIT
	T_IDENT
	T_TYPE_IDENT
	T_DOC_COMMENT
	T_NEWLINE
	T_INVALID

	// Primitive-type keywords.
	T_BOOL
	T_STRING
	T_U8
	T_U16
	T_U32
	T_U64
	T_I8
	T_I16
	T_I32
	T_I64
	T_UVARINT
	T_IVARINT
	T_F16
	T_F32
	T_F64

	// Compound-type keywords.
	T_STRUCT
	T_ENUM
	T_UNION

	// Symbols.
	T_EQ
	T_COLON
	T_AT
	T_DOT
	T_QUESTION
	T_OPEN_SQUARE
	T_CLOSE_SQUARE
	T_OPEN_CURL
	T_CLOSE_CURL
	T_OPEN_PAREN
	T_CLOSE_PAREN
	T_COMMA
)

// keywords maps the eighteen type/compound keyword spellings to their
// token kind. Identifiers matching one of these lex as the keyword
// instead of T_IDENT.
// keywords holds exactly eighteen entries: the fifteen primitive-type
// spellings (not counting "bytes", which the grammar only ever produces
// through "[]u8" — spec.md §9's open question on a bare bytes keyword)
// plus the three compound-type spellings.
var keywords = map[string]TokenKind{
	"bool":     T_BOOL,
	"string":   T_STRING,
	"u8":       T_U8,
	"u16":      T_U16,
	"u32":      T_U32,
	"u64":      T_U64,
	"i8":       T_I8,
	"i16":      T_I16,
	"i32":      T_I32,
	"i64":      T_I64,
	"uvarint":  T_UVARINT,
	"ivarint":  T_IVARINT,
	"f16":      T_F16,
	"f32":      T_F32,
	"f64":      T_F64,
	"struct":   T_STRUCT,
	"enum":     T_ENUM,
	"union":    T_UNION,
}

func (k TokenKind) String() string {
	switch k {
	case T_EOF:
		return "EOF"
	case T_INT_LIT:
		return "INT_LIT"
	case T_STRING_LIT:
		return "STRING_LIT"
	case T_IDENT:
		return "IDENT"
	case T_TYPE_IDENT:
		return "TYPE_IDENT"
	case T_DOC_COMMENT:
		return "DOC_COMMENT"
	case T_NEWLINE:
		return "NEWLINE"
	case T_INVALID:
		return "INVALID"
	case T_EQ:
		return "EQ"
	case T_COLON:
		return "COLON"
	case T_AT:
		return "AT"
	case T_DOT:
		return "DOT"
	case T_QUESTION:
		return "QUESTION"
	case T_OPEN_SQUARE:
		return "OPEN_SQUARE"
	case T_CLOSE_SQUARE:
		return "CLOSE_SQUARE"
	case T_OPEN_CURL:
		return "OPEN_CURL"
	case T_CLOSE_CURL:
		return "CLOSE_CURL"
	case T_OPEN_PAREN:
		return "OPEN_PAREN"
	case T_CLOSE_PAREN:
		return "CLOSE_PAREN"
	case T_COMMA:
		return "COMMA"
	default:
		for kw, kind := range keywords {
			if kind == k {
				return kw
			}
		}
		return fmt.Sprintf("TokenKind(%d)", uint8(k))
	}
}

// Token is a (tag, span) pair: the lexer never allocates, every token
// span is a zero-copy view into the source buffer.
type Token struct {
	Kind TokenKind
	Span sourcemap.Span
}
