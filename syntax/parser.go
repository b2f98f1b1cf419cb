package syntax

import (
	"strconv"

	"github.com/dgllghr/cboragen/diag"
	"github.com/dgllghr/cboragen/sourcemap"
)

// ParseResult is the outcome of parsing one schema buffer: a best-effort
// AST plus every diagnostic emitted along the way. Callers must check
// Diagnostics.HasErrors before trusting Schema.
type ParseResult struct {
	Schema      *Schema
	Diagnostics *diag.Bag
}

// Parse lexes and parses src into a Schema. It always returns a non-nil
// Schema — even a source full of garbage yields an (empty) Schema, with
// the damage recorded in the returned diagnostics.
func Parse(src []byte) *ParseResult {
	p := &parser{
		src:   src,
		lex:   NewLexer(src),
		diags: &diag.Bag{},
	}
	p.advance()
	schema := p.parseSchema()
	return &ParseResult{Schema: schema, Diagnostics: p.diags}
}

type parser struct {
	src     []byte
	lex     *Lexer
	diags   *diag.Bag
	tok     Token
	lookBuf []Token // lookahead queue beyond tok, filled on demand
	panicking bool
}

func (p *parser) text(tok Token) string {
	return string(tok.Span.Slice(p.src))
}

func (p *parser) advance() Token {
	prev := p.tok
	if len(p.lookBuf) > 0 {
		p.tok = p.lookBuf[0]
		p.lookBuf = p.lookBuf[1:]
	} else {
		p.tok = p.lex.Next(p.diags)
	}
	return prev
}

// peek2 returns the token that follows the current one, without
// consuming it, for the two-token lookahead import disambiguation needs.
func (p *parser) peek2() Token {
	if len(p.lookBuf) == 0 {
		p.lookBuf = append(p.lookBuf, p.lex.Next(p.diags))
	}
	return p.lookBuf[0]
}

func (p *parser) at(kind TokenKind) bool {
	return p.tok.Kind == kind
}

func (p *parser) accept(kind TokenKind) (Token, bool) {
	if p.tok.Kind != kind {
		return Token{}, false
	}
	return p.advance(), true
}

// expect consumes the current token if it matches kind, otherwise raises
// a panic-mode episode. The caller's enclosing loop is responsible for
// checking p.panicking and breaking out once recovery has happened.
func (p *parser) expect(kind TokenKind) (Token, bool) {
	if tok, ok := p.accept(kind); ok {
		return tok, true
	}
	p.raise(errExpectedToken(kind, p.tok.Kind, p.text(p.tok), p.tok.Span))
	return Token{}, false
}

// raise records exactly one diagnostic per panic-mode episode; while
// panicking is set, further raises are suppressed until recovery clears
// the flag (spec.md §4.4's "exactly one diagnostic per episode").
func (p *parser) raise(err *Error) {
	if p.panicking {
		return
	}
	p.panicking = true
	p.diags.Emit(diag.SeverityError, err.Span(), err.Message())
}

func (p *parser) clearPanic() {
	p.panicking = false
}

// recoverTopLevel advances past the offending token, then skips forward
// until a plausible resynchronization point: a type_identifier,
// doc_comment, or identifier immediately following a newline, or EOF.
func (p *parser) recoverTopLevel() {
	p.advance()
	afterNewline := false
	for {
		switch p.tok.Kind {
		case T_EOF:
			p.clearPanic()
			return
		case T_NEWLINE:
			afterNewline = true
			p.advance()
			continue
		case T_TYPE_IDENT, T_DOC_COMMENT:
			p.clearPanic()
			return
		case T_IDENT:
			if afterNewline {
				p.clearPanic()
				return
			}
		}
		afterNewline = false
		p.advance()
	}
}

// recoverBody skips to the next ',', newline, or '}'.
func (p *parser) recoverBody() {
	for {
		switch p.tok.Kind {
		case T_COMMA, T_NEWLINE, T_CLOSE_CURL, T_EOF:
			p.clearPanic()
			return
		}
		p.advance()
	}
}

// skipSeparators consumes a run of ',' and newline tokens, as permitted
// between fields/variants in any mix.
func (p *parser) skipSeparators() {
	for p.at(T_COMMA) || p.at(T_NEWLINE) {
		p.advance()
	}
}

func (p *parser) parseSchema() *Schema {
	schema := &Schema{}

	for p.at(T_NEWLINE) {
		p.advance()
	}

	for !p.at(T_EOF) {
		if p.at(T_IDENT) && p.peek2().Kind == T_EQ {
			// Two-token lookahead: identifier '=' '@' marks an import;
			// anything else at top level starting with an identifier is
			// an error (spec.md §4.4's import-detection rule).
			savedTok := p.tok
			p.advance() // consume identifier, now positioned on '='
			isImport := p.peek2().Kind == T_AT
			// Push the '=' back in front of the lookahead queue (which now
			// also holds the peeked token) and restore the identifier.
			p.lookBuf = append([]Token{p.tok}, p.lookBuf...)
			p.tok = savedTok
			if isImport {
				if imp := p.parseImport(); imp != nil {
					schema.Imports = append(schema.Imports, imp)
				}
				p.afterTopLevelForm()
				continue
			}
		}

		doc := p.parseLeadingDoc()

		switch {
		case p.at(T_TYPE_IDENT):
			if def := p.parseDefinition(doc); def != nil {
				schema.Definitions = append(schema.Definitions, def)
			}
		case p.at(T_EOF):
			// A trailing doc comment with nothing to attach to.
		default:
			p.raise(errExpectedTopLevelForm(p.tok.Kind, p.text(p.tok), p.tok.Span))
		}

		if p.panicking {
			p.recoverTopLevel()
			continue
		}
		p.afterTopLevelForm()
	}

	return schema
}

func (p *parser) afterTopLevelForm() {
	for p.at(T_NEWLINE) {
		p.advance()
	}
}

// parseLeadingDoc gathers consecutive "///" lines (separated by single
// newline tokens) preceding a definition into one doc string. A single
// line is returned zero-copy-equivalent; multiple lines are newline-
// joined (spec.md §4.4's doc-comment attachment rule). The newline that
// follows the final doc-comment line is consumed along with it, since
// newlines carry no meaning once the doc text has been gathered.
func (p *parser) parseLeadingDoc() *string {
	var lines []string
	for p.at(T_DOC_COMMENT) {
		lines = append(lines, DocCommentContent(p.src, p.tok))
		p.advance()
		if p.at(T_NEWLINE) {
			p.advance()
		}
	}
	if len(lines) == 0 {
		return nil
	}
	joined := lines[0]
	for _, l := range lines[1:] {
		joined += "\n" + l
	}
	return &joined
}

func (p *parser) parseImport() *Import {
	nameTok, ok := p.expect(T_IDENT)
	if !ok {
		return nil
	}
	start := nameTok.Span.Start
	if _, ok := p.expect(T_EQ); !ok {
		return nil
	}
	if _, ok := p.expect(T_AT); !ok {
		return nil
	}
	importTok, ok := p.expect(T_IDENT) // the "import" keyword, lexed as identifier
	if !ok {
		return nil
	}
	if p.text(importTok) != "import" {
		p.raise(errExpectedOneOf(`"import"`, importTok.Kind, p.text(importTok), importTok.Span))
		return nil
	}
	if _, ok := p.expect(T_OPEN_PAREN); !ok {
		return nil
	}
	pathTok, ok := p.expect(T_STRING_LIT)
	if !ok {
		return nil
	}
	closeTok, ok := p.expect(T_CLOSE_PAREN)
	if !ok {
		return nil
	}
	path, err := unquoteString(p.text(pathTok))
	if err != nil {
		p.raise(err)
		return nil
	}
	return &Import{
		Namespace: p.text(nameTok),
		Path:      path,
		Span:      sourcemap.Span{Start: start, End: closeTok.Span.End},
	}
}

func (p *parser) parseDefinition(doc *string) *Definition {
	nameTok := p.tok
	p.advance()
	start := nameTok.Span.Start
	if _, ok := p.expect(T_EQ); !ok {
		return nil
	}
	ty := p.parseTypeExpr()
	if ty == nil {
		return nil
	}
	return &Definition{
		Doc:      doc,
		Name:     p.text(nameTok),
		Type:     ty,
		Span:     sourcemap.Span{Start: start, End: ty.Span().End},
		NameSpan: nameTok.Span,
	}
}

func (p *parser) parseTypeExpr() TypeExpr {
	switch p.tok.Kind {
	case T_BOOL:
		tok := p.advance()
		return NewBoolType(tok.Span)
	case T_STRING:
		tok := p.advance()
		return NewStringType(tok.Span)
	case T_U8, T_U16, T_U32, T_U64, T_I8, T_I16, T_I32, T_I64, T_UVARINT, T_IVARINT:
		kind := intKindForToken(p.tok.Kind)
		tok := p.advance()
		return NewIntType(kind, tok.Span)
	case T_F16, T_F32, T_F64:
		kind := floatKindForToken(p.tok.Kind)
		tok := p.advance()
		return NewFloatType(kind, tok.Span)
	case T_QUESTION:
		start := p.tok.Span.Start
		p.advance()
		inner := p.parseTypeExpr()
		if inner == nil {
			return nil
		}
		return NewOptionType(inner, sourcemap.Span{Start: start, End: inner.Span().End})
	case T_OPEN_SQUARE:
		return p.parseArrayType()
	case T_STRUCT:
		return p.parseStructType()
	case T_ENUM:
		return p.parseEnumType()
	case T_UNION:
		return p.parseUnionType()
	case T_TYPE_IDENT:
		tok := p.advance()
		return NewNamedType(p.text(tok), tok.Span)
	case T_IDENT:
		nsTok := p.advance()
		if !p.at(T_DOT) {
			// A lowercase identifier in type position that isn't a
			// namespace prefix (no '.' follows) is most plausibly a
			// mistyped primitive-type keyword (e.g. "float32"), not a
			// malformed qualified type.
			p.raise(errUnknownPrimitiveType(p.text(nsTok), nsTok.Span))
			return nil
		}
		p.advance()
		nameTok, ok := p.expect(T_TYPE_IDENT)
		if !ok {
			return nil
		}
		return NewQualifiedType(p.text(nsTok), p.text(nameTok), sourcemap.Span{Start: nsTok.Span.Start, End: nameTok.Span.End})
	default:
		p.raise(errExpectedOneOf("a type expression", p.tok.Kind, p.text(p.tok), p.tok.Span))
		return nil
	}
}

func intKindForToken(k TokenKind) IntKind {
	switch k {
	case T_U8:
		return IntU8
	case T_U16:
		return IntU16
	case T_U32:
		return IntU32
	case T_U64:
		return IntU64
	case T_I8:
		return IntI8
	case T_I16:
		return IntI16
	case T_I32:
		return IntI32
	case T_I64:
		return IntI64
	case T_UVARINT:
		return IntUvarint
	case T_IVARINT:
		return IntIvarint
	default:
		panic("unreachable: not an int-keyword token")
	}
}

func floatKindForToken(k TokenKind) FloatKind {
	switch k {
	case T_F16:
		return FloatF16
	case T_F32:
		return FloatF32
	case T_F64:
		return FloatF64
	default:
		panic("unreachable: not a float-keyword token")
	}
}

func (p *parser) parseArrayType() TypeExpr {
	openTok, _ := p.expect(T_OPEN_SQUARE)
	start := openTok.Span.Start

	switch {
	case p.at(T_CLOSE_SQUARE):
		p.advance()
		element := p.parseTypeExpr()
		if element == nil {
			return nil
		}
		if intEl, ok := element.(*IntType); ok && intEl.IntKind == IntU8 {
			return &BytesType{span: sourcemap.Span{Start: start, End: element.Span().End}}
		}
		return NewVariableArrayType(element, sourcemap.Span{Start: start, End: element.Span().End})

	case p.at(T_INT_LIT):
		lenTok := p.advance()
		length, err := strconv.ParseUint(p.text(lenTok), 10, 64)
		if err != nil {
			p.raise(errIntLitOverflow(p.text(lenTok), lenTok.Span))
			return nil
		}
		if _, ok := p.expect(T_CLOSE_SQUARE); !ok {
			return nil
		}
		element := p.parseTypeExpr()
		if element == nil {
			return nil
		}
		return NewFixedArrayType(length, element, sourcemap.Span{Start: start, End: element.Span().End})

	case p.at(T_DOT):
		p.advance()
		var fieldName string
		switch {
		case p.at(T_IDENT):
			fieldName = p.text(p.advance())
		case p.at(T_INT_LIT):
			fieldName = p.text(p.advance())
		default:
			p.raise(errMalformedArraySpecifier(p.tok.Kind, p.text(p.tok), p.tok.Span))
			return nil
		}
		if _, ok := p.expect(T_CLOSE_SQUARE); !ok {
			return nil
		}
		element := p.parseTypeExpr()
		if element == nil {
			return nil
		}
		return NewExternalLengthArrayType(fieldName, element, sourcemap.Span{Start: start, End: element.Span().End})

	default:
		p.raise(errMalformedArraySpecifier(p.tok.Kind, p.text(p.tok), p.tok.Span))
		return nil
	}
}

func (p *parser) parseStructType() TypeExpr {
	kwTok, _ := p.expect(T_STRUCT)
	start := kwTok.Span.Start
	if _, ok := p.expect(T_OPEN_CURL); !ok {
		return nil
	}
	var fields []*StructField
	p.skipSeparators()
	for !p.at(T_CLOSE_CURL) && !p.at(T_EOF) {
		field := p.parseStructField()
		if p.panicking {
			p.recoverBody()
			p.skipSeparators()
			continue
		}
		if field != nil {
			fields = append(fields, field)
		}
		if !p.at(T_CLOSE_CURL) {
			if !p.at(T_COMMA) && !p.at(T_NEWLINE) {
				p.raise(errMissingSeparator(p.tok.Span))
				p.recoverBody()
			}
			p.skipSeparators()
		}
	}
	closeTok, _ := p.expect(T_CLOSE_CURL)
	return NewStructType(fields, sourcemap.Span{Start: start, End: closeTok.Span.End})
}

func (p *parser) parseStructField() *StructField {
	doc := p.parseLeadingDoc()
	if !p.at(T_INT_LIT) {
		p.raise(errExpectedOneOf("a field rank", p.tok.Kind, p.text(p.tok), p.tok.Span))
		return nil
	}
	rankTok := p.advance()
	rank, err := strconv.ParseUint(p.text(rankTok), 10, 64)
	if err != nil {
		p.raise(errIntLitOverflow(p.text(rankTok), rankTok.Span))
		return nil
	}

	var nameTok Token
	switch {
	case p.at(T_IDENT), p.at(T_TYPE_IDENT), p.at(T_INT_LIT):
		nameTok = p.advance()
	default:
		p.raise(errExpectedOneOf("a field name", p.tok.Kind, p.text(p.tok), p.tok.Span))
		return nil
	}

	if _, ok := p.expect(T_COLON); !ok {
		return nil
	}
	ty := p.parseTypeExpr()
	if ty == nil {
		return nil
	}
	return &StructField{
		Doc:      doc,
		Rank:     rank,
		Name:     p.text(nameTok),
		Type:     ty,
		Span:     sourcemap.Span{Start: rankTok.Span.Start, End: ty.Span().End},
		NameSpan: nameTok.Span,
	}
}

func (p *parser) parseEnumType() TypeExpr {
	kwTok, _ := p.expect(T_ENUM)
	start := kwTok.Span.Start
	if _, ok := p.expect(T_OPEN_CURL); !ok {
		return nil
	}
	var variants []*EnumVariant
	p.skipSeparators()
	for !p.at(T_CLOSE_CURL) && !p.at(T_EOF) {
		v := p.parseEnumVariant()
		if p.panicking {
			p.recoverBody()
			p.skipSeparators()
			continue
		}
		if v != nil {
			variants = append(variants, v)
		}
		if !p.at(T_CLOSE_CURL) {
			if !p.at(T_COMMA) && !p.at(T_NEWLINE) {
				p.raise(errMissingSeparator(p.tok.Span))
				p.recoverBody()
			}
			p.skipSeparators()
		}
	}
	closeTok, _ := p.expect(T_CLOSE_CURL)
	return NewEnumType(variants, sourcemap.Span{Start: start, End: closeTok.Span.End})
}

func (p *parser) parseEnumVariant() *EnumVariant {
	doc := p.parseLeadingDoc()
	if !p.at(T_INT_LIT) {
		p.raise(errExpectedOneOf("a variant tag", p.tok.Kind, p.text(p.tok), p.tok.Span))
		return nil
	}
	tagTok := p.advance()
	tag, err := strconv.ParseUint(p.text(tagTok), 10, 64)
	if err != nil {
		p.raise(errIntLitOverflow(p.text(tagTok), tagTok.Span))
		return nil
	}

	var nameTok Token
	switch {
	case p.at(T_IDENT), p.at(T_TYPE_IDENT):
		nameTok = p.advance()
	default:
		p.raise(errExpectedOneOf("a variant name", p.tok.Kind, p.text(p.tok), p.tok.Span))
		return nil
	}
	return &EnumVariant{
		Doc:  doc,
		Tag:  tag,
		Name: p.text(nameTok),
		Span: sourcemap.Span{Start: tagTok.Span.Start, End: nameTok.Span.End},
	}
}

func (p *parser) parseUnionType() TypeExpr {
	kwTok, _ := p.expect(T_UNION)
	start := kwTok.Span.Start
	if _, ok := p.expect(T_OPEN_CURL); !ok {
		return nil
	}
	var variants []*UnionVariant
	p.skipSeparators()
	for !p.at(T_CLOSE_CURL) && !p.at(T_EOF) {
		v := p.parseUnionVariant()
		if p.panicking {
			p.recoverBody()
			p.skipSeparators()
			continue
		}
		if v != nil {
			variants = append(variants, v)
		}
		if !p.at(T_CLOSE_CURL) {
			if !p.at(T_COMMA) && !p.at(T_NEWLINE) {
				p.raise(errMissingSeparator(p.tok.Span))
				p.recoverBody()
			}
			p.skipSeparators()
		}
	}
	closeTok, _ := p.expect(T_CLOSE_CURL)
	return NewUnionType(variants, sourcemap.Span{Start: start, End: closeTok.Span.End})
}

func (p *parser) parseUnionVariant() *UnionVariant {
	doc := p.parseLeadingDoc()
	if !p.at(T_INT_LIT) {
		p.raise(errExpectedOneOf("a variant tag", p.tok.Kind, p.text(p.tok), p.tok.Span))
		return nil
	}
	tagTok := p.advance()
	tag, err := strconv.ParseUint(p.text(tagTok), 10, 64)
	if err != nil {
		p.raise(errIntLitOverflow(p.text(tagTok), tagTok.Span))
		return nil
	}

	var nameTok Token
	switch {
	case p.at(T_IDENT), p.at(T_TYPE_IDENT):
		nameTok = p.advance()
	default:
		p.raise(errExpectedOneOf("a variant name", p.tok.Kind, p.text(p.tok), p.tok.Span))
		return nil
	}

	end := nameTok.Span.End
	var payload TypeExpr
	if p.at(T_COLON) {
		p.advance()
		payload = p.parseTypeExpr()
		if payload == nil {
			return nil
		}
		end = payload.Span().End
	}
	return &UnionVariant{
		Doc:     doc,
		Tag:     tag,
		Name:    p.text(nameTok),
		Payload: payload,
		Span:    sourcemap.Span{Start: tagTok.Span.Start, End: end},
	}
}

func unquoteString(raw string) (string, *Error) {
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return raw, nil
	}
	body := raw[1 : len(raw)-1]
	out := make([]byte, 0, len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '\\' && i+1 < len(body) {
			i++
			switch body[i] {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case '"':
				out = append(out, '"')
			case '\\':
				out = append(out, '\\')
			default:
				out = append(out, body[i])
			}
			continue
		}
		out = append(out, c)
	}
	return string(out), nil
}
