package syntax

import (
	"testing"

	"github.com/dgllghr/cboragen/diag"
	"github.com/dgllghr/cboragen/internal/testutil"
)

func lexAll(t *testing.T, src string) ([]Token, *diag.Bag) {
	t.Helper()
	lx := NewLexer([]byte(src))
	diags := &diag.Bag{}
	var toks []Token
	for {
		tok := lx.Next(diags)
		toks = append(toks, tok)
		if tok.Kind == T_EOF {
			break
		}
	}
	return toks, diags
}

func kinds(toks []Token) []TokenKind {
	out := make([]TokenKind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexKeywordsAndIdents(t *testing.T) {
	toks, diags := lexAll(t, "u32 Foo bar_baz struct")
	testutil.ExpectFalse(t, diags.HasErrors())
	testutil.ExpectSliceEq(t, []TokenKind{T_U32, T_TYPE_IDENT, T_IDENT, T_STRUCT, T_EOF}, kinds(toks))
}

func TestLexCollapsesNewlineRuns(t *testing.T) {
	toks, diags := lexAll(t, "a\n\n  \nb")
	testutil.ExpectFalse(t, diags.HasErrors())
	testutil.ExpectSliceEq(t, []TokenKind{T_IDENT, T_NEWLINE, T_IDENT, T_EOF}, kinds(toks))
}

func TestLexLineCommentSkipped(t *testing.T) {
	toks, diags := lexAll(t, "a // comment\nb")
	testutil.ExpectFalse(t, diags.HasErrors())
	testutil.ExpectSliceEq(t, []TokenKind{T_IDENT, T_NEWLINE, T_IDENT, T_EOF}, kinds(toks))
}

func TestLexDocComment(t *testing.T) {
	toks, diags := lexAll(t, "/// hello world")
	testutil.ExpectFalse(t, diags.HasErrors())
	testutil.ExpectEq(t, T_DOC_COMMENT, toks[0].Kind)
	testutil.ExpectEq(t, "hello world", DocCommentContent([]byte("/// hello world"), toks[0]))
}

func TestLexUnterminatedStringStillProducesToken(t *testing.T) {
	toks, diags := lexAll(t, `"abc`)
	testutil.ExpectTrue(t, diags.HasErrors())
	testutil.ExpectEq(t, T_STRING_LIT, toks[0].Kind)
}

func TestLexStringWithUnescapedNewline(t *testing.T) {
	toks, diags := lexAll(t, "\"ab\nc\"")
	testutil.ExpectTrue(t, diags.HasErrors())
	testutil.ExpectEq(t, T_STRING_LIT, toks[0].Kind)
}

func TestLexIsolatedSlashIsError(t *testing.T) {
	toks, diags := lexAll(t, "/ a")
	testutil.ExpectTrue(t, diags.HasErrors())
	testutil.ExpectEq(t, T_INVALID, toks[0].Kind)
}

func TestLexSymbols(t *testing.T) {
	toks, diags := lexAll(t, "=:@.?[]{}(),")
	testutil.ExpectFalse(t, diags.HasErrors())
	testutil.ExpectSliceEq(t, []TokenKind{
		T_EQ, T_COLON, T_AT, T_DOT, T_QUESTION,
		T_OPEN_SQUARE, T_CLOSE_SQUARE, T_OPEN_CURL, T_CLOSE_CURL,
		T_OPEN_PAREN, T_CLOSE_PAREN, T_COMMA, T_EOF,
	}, kinds(toks))
}

func TestLexUnexpectedCharacter(t *testing.T) {
	toks, diags := lexAll(t, "a # b")
	testutil.ExpectTrue(t, diags.HasErrors())
	testutil.ExpectEq(t, T_INVALID, toks[1].Kind)
}

func TestLexDeterministic(t *testing.T) {
	const src = "Foo = struct { 0 x: u32, 1 y: ?string }\n"
	toks1, _ := lexAll(t, src)
	toks2, _ := lexAll(t, src)
	testutil.ExpectSliceEq(t, kinds(toks1), kinds(toks2))
}
