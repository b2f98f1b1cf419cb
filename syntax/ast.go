package syntax

import "github.com/dgllghr/cboragen/sourcemap"

// Schema is the parsed form of one schema file: zero or more imports
// followed by zero or more type definitions, in source order.
type Schema struct {
	Imports     []*Import
	Definitions []*Definition
}

// Import binds a local namespace alias to a relative schema file path.
type Import struct {
	Namespace string
	Path      string
	Span      sourcemap.Span
}

// Definition names a top-level type-expression.
type Definition struct {
	Doc      *string
	Name     string
	Type     TypeExpr
	Span     sourcemap.Span
	NameSpan sourcemap.Span
}

// IntKind enumerates the fixed-width and variable-width integer shapes.
type IntKind uint8

const (
	IntU8 IntKind = iota
	IntU16
	IntU32
	IntU64
	IntI8
	IntI16
	IntI32
	IntI64
	IntUvarint
	IntIvarint
)

func (k IntKind) String() string {
	switch k {
	case IntU8:
		return "u8"
	case IntU16:
		return "u16"
	case IntU32:
		return "u32"
	case IntU64:
		return "u64"
	case IntI8:
		return "i8"
	case IntI16:
		return "i16"
	case IntI32:
		return "i32"
	case IntI64:
		return "i64"
	case IntUvarint:
		return "uvarint"
	case IntIvarint:
		return "ivarint"
	default:
		return "int(?)"
	}
}

// FloatKind enumerates the supported IEEE-754 widths.
type FloatKind uint8

const (
	FloatF16 FloatKind = iota
	FloatF32
	FloatF64
)

func (k FloatKind) String() string {
	switch k {
	case FloatF16:
		return "f16"
	case FloatF32:
		return "f32"
	case FloatF64:
		return "f64"
	default:
		return "float(?)"
	}
}

// ArrayKind distinguishes the three array length disciplines.
type ArrayKind uint8

const (
	ArrayVariable ArrayKind = iota
	ArrayFixed
	ArrayExternalLength
)

// TypeExprKind is the closed tag of the TypeExpr sum type.
type TypeExprKind uint8

const (
	TypeBool TypeExprKind = iota
	TypeString
	TypeBytes
	TypeInt
	TypeFloat
	TypeOption
	TypeArray
	TypeStruct
	TypeEnum
	TypeUnion
	TypeNamed
	TypeQualified
)

func (k TypeExprKind) String() string {
	switch k {
	case TypeBool:
		return "bool"
	case TypeString:
		return "string"
	case TypeBytes:
		return "bytes"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeOption:
		return "option"
	case TypeArray:
		return "array"
	case TypeStruct:
		return "struct"
	case TypeEnum:
		return "enum"
	case TypeUnion:
		return "union"
	case TypeNamed:
		return "named"
	case TypeQualified:
		return "qualified"
	default:
		return "?"
	}
}

// TypeExpr is the tagged sum over every type-expression form a schema can
// write. Implementers should switch exhaustively on Kind(); the closed
// set of TypeExprKind values is the contract, not this interface's
// method set.
type TypeExpr interface {
	Kind() TypeExprKind
	Span() sourcemap.Span
}

type BoolType struct{ span sourcemap.Span }

func NewBoolType(span sourcemap.Span) *BoolType   { return &BoolType{span} }
func (t *BoolType) Kind() TypeExprKind             { return TypeBool }
func (t *BoolType) Span() sourcemap.Span           { return t.span }

type StringType struct{ span sourcemap.Span }

func NewStringType(span sourcemap.Span) *StringType { return &StringType{span} }
func (t *StringType) Kind() TypeExprKind             { return TypeString }
func (t *StringType) Span() sourcemap.Span           { return t.span }

type BytesType struct{ span sourcemap.Span }

func NewBytesType(span sourcemap.Span) *BytesType { return &BytesType{span} }
func (t *BytesType) Kind() TypeExprKind            { return TypeBytes }
func (t *BytesType) Span() sourcemap.Span          { return t.span }

type IntType struct {
	IntKind IntKind
	span    sourcemap.Span
}

func NewIntType(kind IntKind, span sourcemap.Span) *IntType {
	return &IntType{IntKind: kind, span: span}
}
func (t *IntType) Kind() TypeExprKind   { return TypeInt }
func (t *IntType) Span() sourcemap.Span { return t.span }

type FloatType struct {
	FloatKind FloatKind
	span      sourcemap.Span
}

func NewFloatType(kind FloatKind, span sourcemap.Span) *FloatType {
	return &FloatType{FloatKind: kind, span: span}
}
func (t *FloatType) Kind() TypeExprKind   { return TypeFloat }
func (t *FloatType) Span() sourcemap.Span { return t.span }

// OptionType is `?T`, sugar for `union { 0 none, 1 some: T }` (spec.md §4.5).
type OptionType struct {
	Element TypeExpr
	span    sourcemap.Span
}

func NewOptionType(element TypeExpr, span sourcemap.Span) *OptionType {
	return &OptionType{Element: element, span: span}
}
func (t *OptionType) Kind() TypeExprKind   { return TypeOption }
func (t *OptionType) Span() sourcemap.Span { return t.span }

// ArrayType covers `[]T`, `[N]T`, and `[.field]T`.
type ArrayType struct {
	ArrayKind   ArrayKind
	Length      uint64 // valid when ArrayKind == ArrayFixed
	LengthField string // valid when ArrayKind == ArrayExternalLength
	Element     TypeExpr
	span        sourcemap.Span
}

func NewVariableArrayType(element TypeExpr, span sourcemap.Span) *ArrayType {
	return &ArrayType{ArrayKind: ArrayVariable, Element: element, span: span}
}

func NewFixedArrayType(length uint64, element TypeExpr, span sourcemap.Span) *ArrayType {
	return &ArrayType{ArrayKind: ArrayFixed, Length: length, Element: element, span: span}
}

func NewExternalLengthArrayType(lengthField string, element TypeExpr, span sourcemap.Span) *ArrayType {
	return &ArrayType{ArrayKind: ArrayExternalLength, LengthField: lengthField, Element: element, span: span}
}

func (t *ArrayType) Kind() TypeExprKind   { return TypeArray }
func (t *ArrayType) Span() sourcemap.Span { return t.span }

// StructField is one ranked member of a StructType.
type StructField struct {
	Doc      *string
	Rank     uint64
	Name     string
	Type     TypeExpr
	Span     sourcemap.Span
	NameSpan sourcemap.Span
}

type StructType struct {
	Fields []*StructField
	span   sourcemap.Span
}

func NewStructType(fields []*StructField, span sourcemap.Span) *StructType {
	return &StructType{Fields: fields, span: span}
}
func (t *StructType) Kind() TypeExprKind   { return TypeStruct }
func (t *StructType) Span() sourcemap.Span { return t.span }

// EnumVariant is one tagged member of an EnumType.
type EnumVariant struct {
	Doc  *string
	Tag  uint64
	Name string
	Span sourcemap.Span
}

type EnumType struct {
	Variants []*EnumVariant
	span     sourcemap.Span
}

func NewEnumType(variants []*EnumVariant, span sourcemap.Span) *EnumType {
	return &EnumType{Variants: variants, span: span}
}
func (t *EnumType) Kind() TypeExprKind   { return TypeEnum }
func (t *EnumType) Span() sourcemap.Span { return t.span }

// UnionVariant is one tagged member of a UnionType, with an optional
// payload type (unit variants carry none).
type UnionVariant struct {
	Doc     *string
	Tag     uint64
	Name    string
	Payload TypeExpr // nil for unit variants
	Span    sourcemap.Span
}

type UnionType struct {
	Variants []*UnionVariant
	span     sourcemap.Span
}

func NewUnionType(variants []*UnionVariant, span sourcemap.Span) *UnionType {
	return &UnionType{Variants: variants, span: span}
}
func (t *UnionType) Kind() TypeExprKind   { return TypeUnion }
func (t *UnionType) Span() sourcemap.Span { return t.span }

// NamedType refers to another definition in the same schema file.
type NamedType struct {
	Name string
	span sourcemap.Span
}

func NewNamedType(name string, span sourcemap.Span) *NamedType {
	return &NamedType{Name: name, span: span}
}
func (t *NamedType) Kind() TypeExprKind   { return TypeNamed }
func (t *NamedType) Span() sourcemap.Span { return t.span }

// QualifiedType refers to a definition imported under a namespace alias.
type QualifiedType struct {
	Namespace string
	Name      string
	span      sourcemap.Span
}

func NewQualifiedType(namespace, name string, span sourcemap.Span) *QualifiedType {
	return &QualifiedType{Namespace: namespace, Name: name, span: span}
}
func (t *QualifiedType) Kind() TypeExprKind   { return TypeQualified }
func (t *QualifiedType) Span() sourcemap.Span { return t.span }
