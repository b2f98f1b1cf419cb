package wire

import "github.com/dgllghr/cboragen/syntax"

// Decode reads one wire value for the type described by ty from r. It is
// the left-inverse Encode is checked against: decode(encode(v)) == v for
// every admissible v (spec §8's roundtrip law).
func Decode(r *Reader, ty syntax.TypeExpr) (Value, error) {
	switch ty.Kind() {
	case syntax.TypeBool:
		b, err := r.ReadBool()
		return Value{Bool: b}, err
	case syntax.TypeString:
		s, err := r.ReadString()
		return Value{String: s}, err
	case syntax.TypeBytes:
		b, err := r.ReadBytes()
		return Value{Bytes: b}, err
	case syntax.TypeInt:
		return decodeInt(r, ty.(*syntax.IntType).IntKind)
	case syntax.TypeFloat:
		return decodeFloat(r, ty.(*syntax.FloatType).FloatKind)
	case syntax.TypeOption:
		return decodeOption(r, ty.(*syntax.OptionType))
	case syntax.TypeArray:
		return decodeArray(r, ty.(*syntax.ArrayType))
	case syntax.TypeStruct:
		return decodeStruct(r, ty.(*syntax.StructType))
	case syntax.TypeEnum:
		tag, err := r.ReadUvarint()
		return Value{EnumTag: tag}, err
	case syntax.TypeUnion:
		return decodeUnion(r, ty.(*syntax.UnionType))
	default:
		return Value{}, errUnresolvedTypeRef()
	}
}

func decodeInt(r *Reader, kind syntax.IntKind) (Value, error) {
	switch kind {
	case syntax.IntU8:
		n, err := r.ReadU8()
		return Value{Uint: uint64(n)}, err
	case syntax.IntU16:
		n, err := r.ReadU16()
		return Value{Uint: uint64(n)}, err
	case syntax.IntU32:
		n, err := r.ReadU32()
		return Value{Uint: uint64(n)}, err
	case syntax.IntU64:
		n, err := r.ReadU64()
		return Value{Uint: n}, err
	case syntax.IntI8:
		n, err := r.ReadI8()
		return Value{Int: int64(n)}, err
	case syntax.IntI16:
		n, err := r.ReadI16()
		return Value{Int: int64(n)}, err
	case syntax.IntI32:
		n, err := r.ReadI32()
		return Value{Int: int64(n)}, err
	case syntax.IntI64:
		n, err := r.ReadI64()
		return Value{Int: n}, err
	case syntax.IntUvarint:
		n, err := r.ReadUvarint()
		return Value{Uint: n}, err
	case syntax.IntIvarint:
		n, err := r.ReadIvarint()
		return Value{Int: n}, err
	}
	return Value{}, errUnreachableKind("int")
}

func decodeFloat(r *Reader, kind syntax.FloatKind) (Value, error) {
	switch kind {
	case syntax.FloatF16:
		v, err := r.ReadF16()
		return Value{Float: float64(v)}, err
	case syntax.FloatF32:
		v, err := r.ReadF32()
		return Value{Float: float64(v)}, err
	case syntax.FloatF64:
		v, err := r.ReadF64()
		return Value{Float: v}, err
	}
	return Value{}, errUnreachableKind("float")
}

// decodeOption reads the `?T` wire form directly: 0x00 for none, a
// major-6 tag-1 header followed by T's encoding for some.
func decodeOption(r *Reader, ty *syntax.OptionType) (Value, error) {
	major, err := r.PeekMajor()
	if err != nil {
		return Value{}, err
	}
	if major == 6 {
		tag, err := r.ReadTagHeader()
		if err != nil {
			return Value{}, err
		}
		if tag != 1 {
			return Value{}, errUnknownTag(tag)
		}
		inner, err := Decode(r, ty.Element)
		if err != nil {
			return Value{}, err
		}
		return Value{Option: &inner}, nil
	}
	tag, err := r.ReadUvarint()
	if err != nil {
		return Value{}, err
	}
	if tag != 0 {
		return Value{}, errUnknownTag(tag)
	}
	return Value{Option: nil}, nil
}

func decodeArray(r *Reader, ty *syntax.ArrayType) (Value, error) {
	if isByteArray(ty) {
		b, err := r.ReadBytes()
		return Value{Bytes: b}, err
	}
	switch ty.ArrayKind {
	case syntax.ArrayVariable:
		n, err := r.ReadArrayHeader()
		if err != nil {
			return Value{}, err
		}
		return decodeElements(r, ty.Element, n)
	case syntax.ArrayFixed:
		if err := r.ReadFixedArrayHeader(ty.Length); err != nil {
			return Value{}, err
		}
		return decodeElements(r, ty.Element, ty.Length)
	case syntax.ArrayExternalLength:
		return Value{}, errExternalLengthArrayNeedsCount()
	}
	return Value{}, errUnreachableKind("array")
}

func decodeElements(r *Reader, element syntax.TypeExpr, n uint64) (Value, error) {
	out := make([]Value, 0, n)
	for i := uint64(0); i < n; i++ {
		v, err := Decode(r, element)
		if err != nil {
			return Value{}, err
		}
		out = append(out, v)
	}
	return Value{Array: out}, nil
}

// DecodeExternalLengthArray reads an indefinite-length array whose
// element count is supplied by the caller (decoded from the sibling
// struct field named in the schema), then asserts the terminating break.
func DecodeExternalLengthArray(r *Reader, element syntax.TypeExpr, count uint64) (Value, error) {
	if err := r.ReadIndefiniteArrayHeader(); err != nil {
		return Value{}, err
	}
	v, err := decodeElements(r, element, count)
	if err != nil {
		return Value{}, err
	}
	if err := r.ReadBreak(); err != nil {
		return Value{}, err
	}
	return v, nil
}

// decodeStruct reads the array length, then for each rank either decodes
// the schema's field type (mapping a null to an absent value, a rank left
// out of Fields, when the field is optional, erroring when it is not) or
// skips one item for
// ranks the schema does not know about — the forward/backward
// compatibility behavior spec §4.5 and §8 require.
func decodeStruct(r *Reader, ty *syntax.StructType) (Value, error) {
	length, err := r.ReadArrayHeader()
	if err != nil {
		return Value{}, err
	}
	fieldByRank := make(map[uint64]*syntax.StructField, len(ty.Fields))
	for _, f := range ty.Fields {
		fieldByRank[f.Rank] = f
	}

	fields := make(map[uint64]Value)
	for rank := uint64(0); rank < length; rank++ {
		field, known := fieldByRank[rank]
		if !known {
			if err := r.Skip(); err != nil {
				return Value{}, err
			}
			continue
		}

		isNull, err := r.PeekIsNull()
		if err != nil {
			return Value{}, err
		}
		if isNull {
			r.offset++
			if field.Type.Kind() != syntax.TypeOption {
				return Value{}, errNullAtNonOptionalRank(rank)
			}
			continue
		}

		v, err := Decode(r, field.Type)
		if err != nil {
			return Value{}, err
		}
		fields[rank] = v
	}
	return Value{Fields: fields}, nil
}

// decodeUnion peeks the initial byte's major type to dispatch between a
// tag-carrying variant (major 6) and a unit variant (major 0), then
// validates the decoded tag number against the schema.
func decodeUnion(r *Reader, ty *syntax.UnionType) (Value, error) {
	major, err := r.PeekMajor()
	if err != nil {
		return Value{}, err
	}
	if major == 6 {
		tag, err := r.ReadTagHeader()
		if err != nil {
			return Value{}, err
		}
		variant := variantByTag(ty, tag)
		if variant == nil || variant.Payload == nil {
			// The payload bytes still follow the tag header even though
			// this schema doesn't recognize the tag; skip them so the
			// reader stays positioned at the next item, the same
			// forward-compatibility discipline decodeStruct applies to
			// unknown field ranks.
			if err := r.Skip(); err != nil {
				return Value{}, err
			}
			return Value{}, errUnknownTag(tag)
		}
		payload, err := Decode(r, variant.Payload)
		if err != nil {
			return Value{}, err
		}
		return Value{Variant: &VariantValue{Tag: tag, Payload: &payload}}, nil
	}
	tag, err := r.ReadUvarint()
	if err != nil {
		return Value{}, err
	}
	variant := variantByTag(ty, tag)
	if variant == nil || variant.Payload != nil {
		return Value{}, errUnknownTag(tag)
	}
	return Value{Variant: &VariantValue{Tag: tag}}, nil
}
