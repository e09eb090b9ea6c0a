package sourceast

// Ownership is the source-level spelling of an ownership wrapper
// (`own<T>`, `share<T>`, `use<T>`); see §3.2 and §4.2's type lowering
// rules. The zero value, OwnershipNone, means the wrapper was omitted and
// the lowerer must fall back to its default (§4.2: "Unresolved type
// references are lowered to NamedType(name, Own) as a default").
type Ownership int

const (
	OwnershipNone Ownership = iota
	OwnershipOwn
	OwnershipShare
	OwnershipUse
)

func (o Ownership) String() string {
	switch o {
	case OwnershipOwn:
		return "own"
	case OwnershipShare:
		return "share"
	case OwnershipUse:
		return "use"
	default:
		return ""
	}
}

// SourceType is the surface-syntax counterpart of internal/ir.Type: what
// the front-end's resolved type system hands the lowerer, before ownership
// tags and anonymous records have been fully worked out.
type SourceType interface {
	sourceTypeNode()
}

// PrimitiveName enumerates the source dialect's primitive type keywords.
type PrimitiveName string

const (
	PrimNumber     PrimitiveName = "number"
	PrimInteger    PrimitiveName = "integer"
	PrimInteger53  PrimitiveName = "integer53"
	PrimString     PrimitiveName = "string"
	PrimBoolean    PrimitiveName = "boolean"
	PrimVoid       PrimitiveName = "void"
	PrimNever      PrimitiveName = "never"
	PrimNull       PrimitiveName = "null"
	PrimUndefined  PrimitiveName = "undefined"
	PrimUnknown    PrimitiveName = "unknown" // good-parts replacement for the dynamic catch-all
)

// PrimitiveType is a primitive keyword type.
type PrimitiveType struct{ Name PrimitiveName }

func (PrimitiveType) sourceTypeNode() {}

// NamedTypeRef refers to a declared class/interface/type-alias by name,
// optionally wrapped in an ownership annotation and carrying type
// arguments.
type NamedTypeRef struct {
	Name      string
	Ownership Ownership
	TypeArgs  []SourceType
}

func (NamedTypeRef) sourceTypeNode() {}

// ArrayTypeRef is `Array<T>` or the `T[]` shorthand; both map to the same
// node (§4.2).
type ArrayTypeRef struct {
	Element   SourceType
	Ownership Ownership
}

func (ArrayTypeRef) sourceTypeNode() {}

// MapTypeRef is `Map<K, V>`.
type MapTypeRef struct {
	Key, Value SourceType
	Ownership  Ownership
}

func (MapTypeRef) sourceTypeNode() {}

// FunctionTypeRef is a function/lambda type.
type FunctionTypeRef struct {
	Params []SourceType
	Return SourceType
}

func (FunctionTypeRef) sourceTypeNode() {}

// UnionTypeRef is an ordered set of alternative types, used primarily for
// `T | null` and `T | undefined` before nullable normalization.
type UnionTypeRef struct {
	Members []SourceType
}

func (UnionTypeRef) sourceTypeNode() {}

// NullableTypeRef is `T?`, semantically `T | null` (§3.1).
type NullableTypeRef struct {
	Inner SourceType
}

func (NullableTypeRef) sourceTypeNode() {}

// PromiseTypeRef is `Promise<T>`.
type PromiseTypeRef struct {
	Result SourceType
}

func (PromiseTypeRef) sourceTypeNode() {}

// AnonymousObjectType is the source-level shape of an object literal seen
// with a contextual type hint absent: an ordered field-name/type list that
// the lowerer will deduplicate into an anonymous record (§4.2, §9).
type AnonymousObjectType struct {
	Fields []ObjectTypeField
}

func (AnonymousObjectType) sourceTypeNode() {}

// ObjectTypeField is one property of an object literal's inferred shape.
type ObjectTypeField struct {
	Name string
	Type SourceType
}

// DynamicTypeRef is the source dialect's dynamic catch-all type annotation
// (spelled `any` at the surface). The validator rejects every occurrence,
// code 109; PrimUnknown above is the good-parts replacement programs are
// expected to use instead.
type DynamicTypeRef struct{}

func (DynamicTypeRef) sourceTypeNode() {}
