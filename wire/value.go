package wire

import "github.com/dgllghr/cboragen/syntax"

// Value is a dynamically-typed wire value used by the reference
// encode/decode path and by conformance tests; generated code in a real
// target language would use static types instead, but the contract
// itself is type-driven, so a tagged runtime value is enough to exercise
// every encoding rule against an AST.
type Value struct {
	Bool    bool
	Int     int64
	Uint    uint64
	Float   float64
	String  string
	Bytes   []byte
	Option  *Value // nil means none
	Array   []Value
	Fields  map[uint64]Value // struct: rank -> value
	EnumTag uint64
	Variant *VariantValue // union
}

// VariantValue is one tagged union payload; Payload is nil for unit
// variants.
type VariantValue struct {
	Tag     uint64
	Payload *Value
}

// Encode writes v's wire form for the type described by ty into w. This
// is the reference encoder the contract (spec §4.5) is checked against.
func Encode(w *Writer, ty syntax.TypeExpr, v Value) error {
	switch ty.Kind() {
	case syntax.TypeBool:
		w.WriteBool(v.Bool)
		return nil
	case syntax.TypeString:
		w.WriteString(v.String)
		return nil
	case syntax.TypeBytes:
		w.WriteBytes(v.Bytes)
		return nil
	case syntax.TypeInt:
		return encodeInt(w, ty.(*syntax.IntType).IntKind, v)
	case syntax.TypeFloat:
		return encodeFloat(w, ty.(*syntax.FloatType).FloatKind, v)
	case syntax.TypeOption:
		return encodeOption(w, ty.(*syntax.OptionType), v)
	case syntax.TypeArray:
		return encodeArray(w, ty.(*syntax.ArrayType), v)
	case syntax.TypeStruct:
		return encodeStruct(w, ty.(*syntax.StructType), v)
	case syntax.TypeEnum:
		w.WriteUvarint(v.EnumTag)
		return nil
	case syntax.TypeUnion:
		return encodeUnion(w, ty.(*syntax.UnionType), v)
	default:
		return errUnresolvedTypeRef()
	}
}

func encodeInt(w *Writer, kind syntax.IntKind, v Value) error {
	switch kind {
	case syntax.IntU8:
		w.WriteU8(uint8(v.Uint))
	case syntax.IntU16:
		w.WriteU16(uint16(v.Uint))
	case syntax.IntU32:
		w.WriteU32(uint32(v.Uint))
	case syntax.IntU64:
		w.WriteU64(v.Uint)
	case syntax.IntI8:
		w.WriteI8(int8(v.Int))
	case syntax.IntI16:
		w.WriteI16(int16(v.Int))
	case syntax.IntI32:
		w.WriteI32(int32(v.Int))
	case syntax.IntI64:
		w.WriteI64(v.Int)
	case syntax.IntUvarint:
		w.WriteUvarint(v.Uint)
	case syntax.IntIvarint:
		w.WriteIvarint(v.Int)
	}
	return nil
}

func encodeFloat(w *Writer, kind syntax.FloatKind, v Value) error {
	switch kind {
	case syntax.FloatF16:
		w.WriteF16(float32(v.Float))
	case syntax.FloatF32:
		w.WriteF32(float32(v.Float))
	case syntax.FloatF64:
		w.WriteF64(v.Float)
	}
	return nil
}

// encodeOption implements `?T` as `union { 0 none, 1 some: T }` directly
// on the wire (0x00 for none, 0xC1-prefixed payload for some), matching
// spec §4.5 rather than going through a synthesized UnionType.
func encodeOption(w *Writer, ty *syntax.OptionType, v Value) error {
	if v.Option == nil {
		w.WriteUvarint(0)
		return nil
	}
	w.WriteTagHeader(1)
	return Encode(w, ty.Element, *v.Option)
}

func encodeArray(w *Writer, ty *syntax.ArrayType, v Value) error {
	if isByteArray(ty) {
		w.WriteBytes(v.Bytes)
		return nil
	}
	switch ty.ArrayKind {
	case syntax.ArrayVariable:
		w.WriteArrayHeader(uint64(len(v.Array)))
		for _, el := range v.Array {
			if err := Encode(w, ty.Element, el); err != nil {
				return err
			}
		}
		return nil
	case syntax.ArrayFixed:
		if uint64(len(v.Array)) != ty.Length {
			return errLengthMismatch(ty.Length, uint64(len(v.Array)))
		}
		w.WriteArrayHeader(ty.Length)
		for _, el := range v.Array {
			if err := Encode(w, ty.Element, el); err != nil {
				return err
			}
		}
		return nil
	case syntax.ArrayExternalLength:
		w.WriteIndefiniteArrayHeader()
		for _, el := range v.Array {
			if err := Encode(w, ty.Element, el); err != nil {
				return err
			}
		}
		w.WriteBreak()
		return nil
	}
	return nil
}

// isByteArray reports whether ty is the `[]u8` special case, which
// encodes as a CBOR byte string rather than an array of integers.
func isByteArray(ty *syntax.ArrayType) bool {
	if ty.ArrayKind != syntax.ArrayVariable {
		return false
	}
	it, ok := ty.Element.(*syntax.IntType)
	return ok && it.IntKind == syntax.IntU8
}

// encodeStruct writes fields in ascending rank order up through the
// maximum rank actually present, filling gaps below it with null and
// omitting anything past it (spec §4.5).
func encodeStruct(w *Writer, ty *syntax.StructType, v Value) error {
	maxRank := uint64(0)
	any := false
	for rank := range v.Fields {
		if !any || rank > maxRank {
			maxRank = rank
			any = true
		}
	}
	if !any {
		w.WriteArrayHeader(0)
		return nil
	}
	w.WriteArrayHeader(maxRank + 1)

	fieldByRank := make(map[uint64]*syntax.StructField, len(ty.Fields))
	for _, f := range ty.Fields {
		fieldByRank[f.Rank] = f
	}

	for rank := uint64(0); rank <= maxRank; rank++ {
		fv, present := v.Fields[rank]
		if !present {
			w.WriteNull()
			continue
		}
		field := fieldByRank[rank]
		if field != nil && isOptionKind(field.Type) && fv.Option == nil {
			w.WriteNull()
			continue
		}
		if field == nil {
			w.WriteNull()
			continue
		}
		if err := Encode(w, field.Type, fv); err != nil {
			return err
		}
	}
	return nil
}

func isOptionKind(ty syntax.TypeExpr) bool {
	return ty.Kind() == syntax.TypeOption
}

// encodeUnion emits a tag header around the payload for carrying
// variants, or a bare uvarint for unit variants.
func encodeUnion(w *Writer, ty *syntax.UnionType, v Value) error {
	if v.Variant == nil {
		return errUnionMissingVariant()
	}
	variant := variantByTag(ty, v.Variant.Tag)
	if variant == nil {
		return errUnknownTag(v.Variant.Tag)
	}
	if variant.Payload == nil {
		w.WriteUvarint(variant.Tag)
		return nil
	}
	if v.Variant.Payload == nil {
		return errUnionPayloadRequired()
	}
	w.WriteTagHeader(variant.Tag)
	return Encode(w, variant.Payload, *v.Variant.Payload)
}

func variantByTag(ty *syntax.UnionType, tag uint64) *syntax.UnionVariant {
	for _, variant := range ty.Variants {
		if variant.Tag == tag {
			return variant
		}
	}
	return nil
}
