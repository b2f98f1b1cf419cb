package wire

import (
	"testing"

	"github.com/dgllghr/cboragen/sourcemap"
	"github.com/dgllghr/cboragen/syntax"
)

// entitySchema mirrors the shape of a typical struct in the reference
// benchmark corpus (id + name), used here to exercise forward/backward
// struct compatibility rather than the scalar-only scenarios in the
// concrete-scenario tests.
func entitySchema(extra ...*syntax.StructField) *syntax.StructType {
	fields := []*syntax.StructField{
		{Rank: 0, Name: "id", Type: syntax.NewIntType(syntax.IntU64, sourcemap.Span{})},
		{Rank: 1, Name: "name", Type: syntax.NewStringType(sourcemap.Span{})},
	}
	fields = append(fields, extra...)
	return syntax.NewStructType(fields, sourcemap.Span{})
}

func TestDecodeNewerSchemaIgnoresHigherRanks(t *testing.T) {
	newer := entitySchema(&syntax.StructField{
		Rank: 2,
		Name: "tag",
		Type: syntax.NewIntType(syntax.IntU32, sourcemap.Span{}),
	})
	older := entitySchema()

	encoded := mustEncode(t, newer, Value{Fields: map[uint64]Value{
		0: {Uint: 7},
		1: {String: "widget"},
		2: {Uint: 99},
	}})

	decoded, err := Decode(NewReader(encoded), older)
	if err != nil {
		t.Fatalf("decode with older schema: %v", err)
	}
	if decoded.Fields[0].Uint != 7 || decoded.Fields[1].String != "widget" {
		t.Fatalf("unexpected fields: %+v", decoded.Fields)
	}
	if _, present := decoded.Fields[2]; present {
		t.Fatalf("older schema should not see rank 2")
	}
}

func TestDecodeOlderSchemaTreatsMissingTrailingAsAbsent(t *testing.T) {
	older := entitySchema()
	newer := entitySchema(&syntax.StructField{
		Rank:     2,
		Name:     "tag",
		Type:     syntax.NewOptionType(syntax.NewIntType(syntax.IntU32, sourcemap.Span{}), sourcemap.Span{}),
	})

	encoded := mustEncode(t, older, Value{Fields: map[uint64]Value{
		0: {Uint: 7},
		1: {String: "widget"},
	}})

	decoded, err := Decode(NewReader(encoded), newer)
	if err != nil {
		t.Fatalf("decode with newer schema: %v", err)
	}
	if _, present := decoded.Fields[2]; present {
		t.Fatalf("missing trailing field should be absent, got %+v", decoded.Fields[2])
	}
}

func TestDecodeNullAtOptionalRankYieldsAbsent(t *testing.T) {
	ty := entitySchema(&syntax.StructField{
		Rank: 2,
		Name: "tag",
		Type: syntax.NewOptionType(syntax.NewIntType(syntax.IntU32, sourcemap.Span{}), sourcemap.Span{}),
	})

	w := NewWriter()
	w.WriteArrayHeader(3)
	w.WriteU64(7)
	w.WriteString("widget")
	w.WriteNull()

	decoded, err := Decode(NewReader(w.Bytes()), ty)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tagVal, present := decoded.Fields[2]; present {
		t.Fatalf("null at an optional rank should decode as absent, got %+v", tagVal)
	}
	if decoded.Fields[0].Uint != 7 || decoded.Fields[1].String != "widget" {
		t.Fatalf("unexpected fields: %+v", decoded.Fields)
	}
}

func TestDeterministicEncoding(t *testing.T) {
	ty := entitySchema()
	v := Value{Fields: map[uint64]Value{0: {Uint: 42}, 1: {String: "x"}}}
	a := mustEncode(t, ty, v)
	b := mustEncode(t, ty, v)
	if string(a) != string(b) {
		t.Fatalf("encoding is not deterministic: % X vs % X", a, b)
	}
}

func TestNestedStructInsideUnionInsideStruct(t *testing.T) {
	// Grounded on minicbor_types.rs's ColoredShape{color: Color, shape:
	// Shape}, where the Shape::Rect variant carries a nested ShapeRect
	// struct — exercises struct-in-union-in-struct recursive dispatch.
	rectType := syntax.NewStructType([]*syntax.StructField{
		{Rank: 0, Name: "w", Type: syntax.NewFloatType(syntax.FloatF64, sourcemap.Span{})},
		{Rank: 1, Name: "h", Type: syntax.NewFloatType(syntax.FloatF64, sourcemap.Span{})},
	}, sourcemap.Span{})
	shapeType := syntax.NewUnionType([]*syntax.UnionVariant{
		{Tag: 0, Name: "circle", Payload: syntax.NewFloatType(syntax.FloatF64, sourcemap.Span{})},
		{Tag: 1, Name: "rect", Payload: rectType},
		{Tag: 2, Name: "point"},
	}, sourcemap.Span{})
	colorType := syntax.NewEnumType([]*syntax.EnumVariant{
		{Tag: 0, Name: "red"},
		{Tag: 1, Name: "green"},
		{Tag: 2, Name: "blue"},
	}, sourcemap.Span{})
	coloredShapeType := syntax.NewStructType([]*syntax.StructField{
		{Rank: 0, Name: "color", Type: colorType},
		{Rank: 1, Name: "shape", Type: shapeType},
	}, sourcemap.Span{})

	rectVal := Value{Fields: map[uint64]Value{
		0: {Float: 3},
		1: {Float: 4},
	}}
	v := Value{Fields: map[uint64]Value{
		0: {EnumTag: 2},
		1: {Variant: &VariantValue{Tag: 1, Payload: &rectVal}},
	}}

	encoded := mustEncode(t, coloredShapeType, v)
	decoded, err := Decode(NewReader(encoded), coloredShapeType)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Fields[0].EnumTag != 2 {
		t.Fatalf("color: got %+v", decoded.Fields[0])
	}
	shapeField := decoded.Fields[1]
	if shapeField.Variant == nil || shapeField.Variant.Tag != 1 {
		t.Fatalf("shape: got %+v", shapeField)
	}
	nested := shapeField.Variant.Payload
	if nested == nil || nested.Fields[0].Float != 3 || nested.Fields[1].Float != 4 {
		t.Fatalf("nested rect: got %+v", nested)
	}
}

func TestArrayOfStructs(t *testing.T) {
	// Grounded on minicbor_types.rs's Matrix{rows: Vec<Vec<f64>>}, adapted
	// to an array whose elements are themselves structs rather than
	// arrays, to exercise the recursive struct-in-array decode path.
	pointType := syntax.NewStructType([]*syntax.StructField{
		{Rank: 0, Name: "x", Type: syntax.NewFloatType(syntax.FloatF64, sourcemap.Span{})},
		{Rank: 1, Name: "y", Type: syntax.NewFloatType(syntax.FloatF64, sourcemap.Span{})},
	}, sourcemap.Span{})
	arrType := syntax.NewVariableArrayType(pointType, sourcemap.Span{})

	v := Value{Array: []Value{
		{Fields: map[uint64]Value{0: {Float: 1}, 1: {Float: 2}}},
		{Fields: map[uint64]Value{0: {Float: 3}, 1: {Float: 4}}},
	}}
	encoded := mustEncode(t, arrType, v)
	decoded, err := Decode(NewReader(encoded), arrType)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded.Array) != 2 {
		t.Fatalf("got %d elements, want 2", len(decoded.Array))
	}
	if decoded.Array[0].Fields[0].Float != 1 || decoded.Array[1].Fields[1].Float != 4 {
		t.Fatalf("unexpected elements: %+v", decoded.Array)
	}
}

func TestWireSizeInvariantsForFixedWidthScalars(t *testing.T) {
	cases := []struct {
		kind syntax.IntKind
		val  Value
		size int
	}{
		{syntax.IntU8, Value{Uint: 200}, 2},
		{syntax.IntU16, Value{Uint: 50000}, 3},
		{syntax.IntU32, Value{Uint: 1}, 5},
		{syntax.IntU64, Value{Uint: 1}, 9},
	}
	for _, c := range cases {
		ty := syntax.NewIntType(c.kind, sourcemap.Span{})
		got := mustEncode(t, ty, c.val)
		if len(got) != c.size {
			t.Fatalf("%s: got size %d, want %d (% X)", c.kind, len(got), c.size, got)
		}
	}
}
