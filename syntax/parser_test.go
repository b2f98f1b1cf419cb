package syntax

import (
	"testing"

	"github.com/dgllghr/cboragen/internal/testutil"
)

func TestParseValidSourceNoDiagnostics(t *testing.T) {
	src := `geo = @import("geo.cbora")

/// A point in 2D space.
Point = struct {
	0 x: f32,
	1 y: f32
}

Shade = enum {
	0 light
	1 dark
}

Shape = union {
	0 circle: Point
	1 blank
}

Tag = u8
`
	result := Parse([]byte(src))
	testutil.ExpectFalse(t, result.Diagnostics.HasErrors())
	testutil.ExpectEq(t, 0, len(result.Diagnostics.Slice()))
	testutil.ExpectEq(t, 1, len(result.Schema.Imports))
	testutil.ExpectEq(t, 4, len(result.Schema.Definitions))
}

func TestParseImport(t *testing.T) {
	result := Parse([]byte(`geo = @import("geo.cbora")` + "\n"))
	testutil.ExpectFalse(t, result.Diagnostics.HasErrors())
	testutil.ExpectEq(t, 1, len(result.Schema.Imports))
	imp := result.Schema.Imports[0]
	testutil.ExpectEq(t, "geo", imp.Namespace)
	testutil.ExpectEq(t, "geo.cbora", imp.Path)
}

func TestParseArrayForms(t *testing.T) {
	src := `
A = []u32
B = [4]u8
C = struct {
	0 count: u8
	1 items: [.count]u32
}
Raw = []u8
`
	result := Parse([]byte(src))
	testutil.ExpectFalse(t, result.Diagnostics.HasErrors())

	defByName := make(map[string]*Definition)
	for _, d := range result.Schema.Definitions {
		defByName[d.Name] = d
	}

	aArr, ok := defByName["A"].Type.(*ArrayType)
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, ArrayVariable, aArr.ArrayKind)

	bArr, ok := defByName["B"].Type.(*ArrayType)
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, ArrayFixed, bArr.ArrayKind)
	testutil.ExpectEq(t, uint64(4), bArr.Length)

	cStruct, ok := defByName["C"].Type.(*StructType)
	testutil.ExpectTrue(t, ok)
	itemsField := cStruct.Fields[1]
	itemsArr, ok := itemsField.Type.(*ArrayType)
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, ArrayExternalLength, itemsArr.ArrayKind)
	testutil.ExpectEq(t, "count", itemsArr.LengthField)

	// `[]u8` must parse to a BytesType node, not a generic ArrayType.
	_, isBytes := defByName["Raw"].Type.(*BytesType)
	testutil.ExpectTrue(t, isBytes)
}

func TestParseStructFieldsAndRanks(t *testing.T) {
	src := "S = struct {\n\t0 x: u32,\n\t2 y: bool\n}\n"
	result := Parse([]byte(src))
	testutil.ExpectFalse(t, result.Diagnostics.HasErrors())
	st := result.Schema.Definitions[0].Type.(*StructType)
	testutil.ExpectEq(t, 2, len(st.Fields))
	testutil.ExpectEq(t, uint64(0), st.Fields[0].Rank)
	testutil.ExpectEq(t, uint64(2), st.Fields[1].Rank)
}

func TestParseOptionType(t *testing.T) {
	result := Parse([]byte("X = ?string\n"))
	testutil.ExpectFalse(t, result.Diagnostics.HasErrors())
	opt, ok := result.Schema.Definitions[0].Type.(*OptionType)
	testutil.ExpectTrue(t, ok)
	_, isString := opt.Element.(*StringType)
	testutil.ExpectTrue(t, isString)
}

func TestParseQualifiedType(t *testing.T) {
	result := Parse([]byte("X = geo.Point\n"))
	testutil.ExpectFalse(t, result.Diagnostics.HasErrors())
	qt, ok := result.Schema.Definitions[0].Type.(*QualifiedType)
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, "geo", qt.Namespace)
	testutil.ExpectEq(t, "Point", qt.Name)
}

func TestParseErrorRecoveryBetweenTopLevelForms(t *testing.T) {
	src := "A = u8\n@\nB = u16\n"
	result := Parse([]byte(src))
	testutil.ExpectTrue(t, result.Diagnostics.HasErrors())
	testutil.ExpectEq(t, 1, result.Diagnostics.ErrorCount())
	testutil.ExpectEq(t, 2, len(result.Schema.Definitions))
	testutil.ExpectEq(t, "A", result.Schema.Definitions[0].Name)
	testutil.ExpectEq(t, "B", result.Schema.Definitions[1].Name)
}

func TestParseMissingSeparatorInStructBody(t *testing.T) {
	src := "S = struct {\n\t0 x: u32 1 y: u32\n}\n"
	result := Parse([]byte(src))
	testutil.ExpectTrue(t, result.Diagnostics.HasErrors())
}

func TestParseDocCommentAttachesToDefinition(t *testing.T) {
	src := "/// first line\n/// second line\nX = u8\n"
	result := Parse([]byte(src))
	testutil.ExpectFalse(t, result.Diagnostics.HasErrors())
	doc := result.Schema.Definitions[0].Doc
	testutil.ExpectTrue(t, doc != nil)
	testutil.ExpectEq(t, "first line\nsecond line", *doc)
}

func TestParseUnknownPrimitiveTypeKeyword(t *testing.T) {
	result := Parse([]byte("X = float32\n"))
	testutil.ExpectTrue(t, result.Diagnostics.HasErrors())
	diags := result.Diagnostics.Slice()
	testutil.ExpectEq(t, 1, len(diags))
	testutil.ExpectMatch(t, `unknown type "float32"`, diags[0].Message)
}

func TestParseStructFieldRankOverflowReportsIntLitOverflow(t *testing.T) {
	src := "S = struct {\n\t99999999999999999999 x: u8\n}\n"
	result := Parse([]byte(src))
	testutil.ExpectTrue(t, result.Diagnostics.HasErrors())
	diags := result.Diagnostics.Slice()
	testutil.ExpectEq(t, 1, len(diags))
	testutil.ExpectMatch(t, `integer literal "99999999999999999999" exceeds 64 bits`, diags[0].Message)
}

func TestParseUnionUnitAndPayloadVariants(t *testing.T) {
	src := "R = union {\n\t0 none\n\t1 ok: string\n}\n"
	result := Parse([]byte(src))
	testutil.ExpectFalse(t, result.Diagnostics.HasErrors())
	ut := result.Schema.Definitions[0].Type.(*UnionType)
	testutil.ExpectEq(t, 2, len(ut.Variants))
	testutil.ExpectTrue(t, ut.Variants[0].Payload == nil)
	testutil.ExpectTrue(t, ut.Variants[1].Payload != nil)
}
