// Package ir is the typed, ownership-aware intermediate representation
// described in §3 of the specification: the data model shared by every
// stage from lowering through the backend. This file carries the IR type
// universe (§3.1); program.go, expr.go, tree.go and ssa.go carry the
// remaining structure.
package ir

import "strings"

// Type is the IR's tagged-sum type universe (§3.1). Invariant: every IR
// expression and every declaration slot carries a fully resolved Type — no
// stage may insert a nil or "unknown" placeholder (§3.7 invariant 1); a
// stage that cannot infer one must emit a diagnostic instead.
type Type interface {
	typeNode()
	// String renders the type for diagnostics and for deterministic
	// identity comparisons (anonymous-record deduplication, §4.2, relies
	// on structural String equality of field types).
	String() string
}

// PrimitiveKind enumerates the primitive type universe (§3.1).
type PrimitiveKind int

const (
	KindNumber PrimitiveKind = iota
	KindInteger
	KindInteger53
	KindString
	KindBoolean
	KindVoid
	KindNever
)

func (k PrimitiveKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	case KindInteger53:
		return "integer53"
	case KindString:
		return "string"
	case KindBoolean:
		return "boolean"
	case KindVoid:
		return "void"
	case KindNever:
		return "never"
	default:
		return "?"
	}
}

// Primitive is one of number/integer/integer53/string/boolean/void/never.
type Primitive struct{ Kind PrimitiveKind }

func (Primitive) typeNode()        {}
func (p Primitive) String() string { return p.Kind.String() }

// NamedType references a declared class or interface by name, carrying an
// Ownership tag and optional type arguments (§3.1).
type NamedType struct {
	Name      string
	Ownership Ownership
	TypeArgs  []Type
}

func (NamedType) typeNode() {}
func (n NamedType) String() string {
	var sb strings.Builder
	sb.WriteString(n.Ownership.String())
	sb.WriteByte('<')
	sb.WriteString(n.Name)
	if len(n.TypeArgs) > 0 {
		sb.WriteByte('<')
		for i, a := range n.TypeArgs {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(a.String())
		}
		sb.WriteByte('>')
	}
	sb.WriteByte('>')
	return sb.String()
}

// Array is an element type plus the ownership of the container itself
// (§3.1). `Array<T>` and `T[]` both lower to this with a Value-tagged
// container (§4.2).
type Array struct {
	Element   Type
	Ownership Ownership
}

func (Array) typeNode() {}
func (a Array) String() string {
	return a.Ownership.String() + "<array of " + a.Element.String() + ">"
}

// Map is a key type, a value type, and the ownership of the container.
type Map struct {
	Key, Value Type
	Ownership  Ownership
}

func (Map) typeNode() {}
func (m Map) String() string {
	return m.Ownership.String() + "<map<" + m.Key.String() + ", " + m.Value.String() + ">>"
}

// Function is parameter types plus a return type.
type Function struct {
	Params []Type
	Return Type
}

func (Function) typeNode() {}
func (f Function) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, p := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(") => ")
	sb.WriteString(f.Return.String())
	return sb.String()
}

// Union is an ordered set of alternative types, used primarily for
// `T | null` / `T | undefined` before Nullable normalization (§3.1).
type Union struct {
	Members []Type
}

func (Union) typeNode() {}
func (u Union) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}

// Nullable is `T?`, semantically `T | null`. The normalized form of a
// `T | null` Union is implementation-chosen (this IR keeps Nullable as a
// first-class node rather than eagerly folding into Union) but must be
// preserved through lowering (§3.1).
type Nullable struct{ Inner Type }

func (Nullable) typeNode()        {}
func (n Nullable) String() string { return n.Inner.String() + "?" }

// Promise denotes an asynchronous computation yielding Result (§3.1).
type Promise struct{ Result Type }

func (Promise) typeNode()        {}
func (p Promise) String() string { return "Promise<" + p.Result.String() + ">" }

// Record is a synthesized structural type for an object literal (§4.2,
// §9): an ordered field-name/type list. Two Records with the same ordered
// field names and field-for-field equal types (by String()) are the same
// anonymous record (see anonymous.go's Table for the deduplication this
// backs).
type Record struct {
	// Name is the backend-facing synthesized identifier, assigned once by
	// anonymous.Table at first registration; empty until then.
	Name   string
	Fields []RecordField
}

// RecordField is one field of a synthesized Record.
type RecordField struct {
	Name string
	Type Type
}

func (Record) typeNode() {}
func (r Record) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, f := range r.Fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Name)
		sb.WriteString(": ")
		sb.WriteString(f.Type.String())
	}
	sb.WriteString("}")
	return sb.String()
}

// shape is the part of Record's identity used for structural
// deduplication: the ordered field names paired with each field type's
// String(). Two literals produce the same shape iff they should share one
// synthesized struct (§4.2: "structural deduplication").
func (r Record) shape() string {
	var sb strings.Builder
	for i, f := range r.Fields {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(f.Name)
		sb.WriteByte(':')
		sb.WriteString(f.Type.String())
	}
	return sb.String()
}

var (
	_ Type = Primitive{}
	_ Type = NamedType{}
	_ Type = Array{}
	_ Type = Map{}
	_ Type = Function{}
	_ Type = Union{}
	_ Type = Nullable{}
	_ Type = Promise{}
	_ Type = Record{}
)

// IsHeapOwnership reports whether an Ownership tag denotes a heap
// reference subject to the ownership DAG (Own/Share/Use), as opposed to
// Value which never does (§3.2, §4.3).
func IsHeapOwnership(o Ownership) bool {
	return o == Own || o == Share || o == Use
}
