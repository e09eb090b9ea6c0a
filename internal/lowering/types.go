// Package lowering translates a validated internal/sourceast.Program into
// internal/ir (§4.2). It performs type resolution from SourceType to
// ir.Type, ownership-annotation parsing, control-flow construction,
// desugaring of compound assignment and increment/decrement, and anonymous
// record synthesis. Lowering never sees a program the validator has
// rejected: callers run internal/validator first and abort on errors
// before reaching here.
package lowering

import (
	"github.com/cwbudde/nullforge/internal/diag"
	"github.com/cwbudde/nullforge/internal/ir"
	"github.com/cwbudde/nullforge/internal/sourceast"
)

// lowerType implements §4.2's type lowering rules. records is the
// anonymous-record table shared by the whole program, used to intern
// object-literal shapes.
func (l *Lowerer) lowerType(t sourceast.SourceType) ir.Type {
	switch ty := t.(type) {
	case nil:
		// Absent annotation: callers resolve from a contextual hint before
		// calling lowerType; reaching here with nil means no hint existed
		// either, which the unresolved-reference default below also covers
		// for named types. For a genuinely absent primitive slot we have no
		// better answer than a diagnostic-bearing placeholder.
		return ir.Primitive{Kind: ir.KindNever}
	case sourceast.PrimitiveType:
		return l.lowerPrimitive(ty.Name)
	case sourceast.NamedTypeRef:
		args := make([]ir.Type, len(ty.TypeArgs))
		for i, a := range ty.TypeArgs {
			args[i] = l.lowerType(a)
		}
		return ir.NamedType{Name: ty.Name, Ownership: lowerOwnership(ty.Ownership), TypeArgs: args}
	case sourceast.ArrayTypeRef:
		return ir.Array{Element: l.lowerType(ty.Element), Ownership: ir.Value}
	case sourceast.MapTypeRef:
		return ir.Map{Key: l.lowerType(ty.Key), Value: l.lowerType(ty.Value), Ownership: ir.Value}
	case sourceast.FunctionTypeRef:
		params := make([]ir.Type, len(ty.Params))
		for i, p := range ty.Params {
			params[i] = l.lowerType(p)
		}
		return ir.Function{Params: params, Return: l.lowerType(ty.Return)}
	case sourceast.UnionTypeRef:
		members := make([]ir.Type, len(ty.Members))
		for i, m := range ty.Members {
			members[i] = l.lowerType(m)
		}
		return ir.Union{Members: members}
	case sourceast.NullableTypeRef:
		return ir.Nullable{Inner: l.lowerType(ty.Inner)}
	case sourceast.PromiseTypeRef:
		return ir.Promise{Result: l.lowerType(ty.Result)}
	case sourceast.AnonymousObjectType:
		fields := make([]ir.RecordField, len(ty.Fields))
		for i, f := range ty.Fields {
			fields[i] = ir.RecordField{Name: f.Name, Type: l.lowerType(f.Type)}
		}
		return l.records.Intern(fields)
	default:
		// Unresolved type references lower to NamedType(name, Own) by
		// default (§4.2); reaching the default arm means the front-end
		// produced a SourceType this package doesn't recognize, which we
		// treat the same way.
		l.bag.AddError(diag.New(diag.CodeLoweringFailure, diag.Position{}, "lowering: unrecognized source type %T", t), l.fileOrder)
		return ir.NamedType{Name: "?", Ownership: ir.Own}
	}
}

func (l *Lowerer) lowerPrimitive(name sourceast.PrimitiveName) ir.Type {
	switch name {
	case sourceast.PrimNumber:
		return ir.Primitive{Kind: ir.KindNumber}
	case sourceast.PrimInteger:
		return ir.Primitive{Kind: ir.KindInteger}
	case sourceast.PrimInteger53:
		return ir.Primitive{Kind: ir.KindInteger53}
	case sourceast.PrimString:
		return ir.Primitive{Kind: ir.KindString}
	case sourceast.PrimBoolean:
		return ir.Primitive{Kind: ir.KindBoolean}
	case sourceast.PrimVoid:
		return ir.Primitive{Kind: ir.KindVoid}
	case sourceast.PrimNever:
		return ir.Primitive{Kind: ir.KindNever}
	default:
		// unknown/null/undefined have no direct ir.Primitive counterpart at
		// this granularity; the null-checker and codegen treat an
		// unresolved named type as a heap reference (§4.2), and unknown
		// degrades to the same permissive NamedType default.
		return ir.NamedType{Name: string(name), Ownership: ir.Own}
	}
}

func lowerOwnership(o sourceast.Ownership) ir.Ownership {
	switch o {
	case sourceast.OwnershipOwn:
		return ir.Own
	case sourceast.OwnershipShare:
		return ir.Share
	case sourceast.OwnershipUse:
		return ir.Use
	default:
		// §4.2: "Unresolved type references are lowered to
		// NamedType(name, Own) as a default when no contextual information
		// is available."
		return ir.Own
	}
}
