// Package nullcheck implements the null checker (§4.4): in ownership
// mode, forbid use<T> references from escaping the owner that produced
// them. It is the fourth pipeline stage, running after the ownership
// analyzer and before the optimizer. It has nothing to do in GC mode —
// the GC guarantees lifetime soundness of borrows — and Check returns an
// empty Bag immediately when called with ir.ModeGC.
package nullcheck

import (
	"github.com/cwbudde/nullforge/internal/diag"
	"github.com/cwbudde/nullforge/internal/ir"
)

// Check walks prog and reports codes 401-403. In GC mode it is a no-op.
func Check(prog *ir.Program, mode ir.MemoryMode) *diag.Bag {
	bag := &diag.Bag{}
	if mode == ir.ModeGC {
		return bag
	}
	for fileOrder, mod := range prog.Modules {
		checkModule(mod, bag, fileOrder)
	}
	return bag
}

func checkModule(mod *ir.Module, bag *diag.Bag, fileOrder int) {
	for _, decl := range mod.Declarations {
		switch decl.Kind {
		case ir.DeclFunction:
			checkFieldLikeReturn(decl.Function, bag, fileOrder)
			checkFunctionBody(decl.Function, bag, fileOrder)
		case ir.DeclClass:
			for _, f := range decl.Class.Fields {
				checkField(f.Name, f.Typ, decl.Class.Pos, bag, fileOrder)
			}
			for _, m := range decl.Class.Methods {
				checkFieldLikeReturn(m, bag, fileOrder)
				checkFunctionBody(m, bag, fileOrder)
			}
			if decl.Class.Constructor != nil {
				checkBody(decl.Class.Constructor.Body, map[string]ir.Ownership{}, bag, fileOrder)
			}
		case ir.DeclInterface:
			for _, p := range decl.Interface.Properties {
				checkField(p.Name, p.Typ, decl.Interface.Pos, bag, fileOrder)
			}
		}
	}
}

// checkField implements code 401: a class field or interface property
// declared as use<T>, at any nesting depth (directly, or through
// Array/Map/Nullable/Promise).
func checkField(name string, t ir.Type, pos diag.Position, bag *diag.Bag, fileOrder int) {
	if containsUse(t) {
		bag.AddError(diag.New(diag.CodeUseFieldEscape, pos,
			"field or property %q may not be declared use<T>", name), fileOrder)
	}
}

// checkFieldLikeReturn implements code 402: a function's declared return
// type contains use<T> anywhere.
func checkFieldLikeReturn(fn *ir.FunctionDecl, bag *diag.Bag, fileOrder int) {
	if containsUse(fn.ReturnType) {
		bag.AddError(diag.New(diag.CodeUseReturnType, fn.Pos,
			"function %q may not return a type containing use<T>", fn.Name), fileOrder)
	}
}

// containsUse recurses into container types looking for a Use-tagged
// reference at any depth, matching the ownership analyzer's own
// "directly, or through Array<...>, Map<...>, etc." reading (§4.3, applied
// here per §4.4).
func containsUse(t ir.Type) bool {
	switch ty := t.(type) {
	case ir.NamedType:
		return ty.Ownership == ir.Use
	case ir.Array:
		return ty.Ownership == ir.Use || containsUse(ty.Element)
	case ir.Map:
		return ty.Ownership == ir.Use || containsUse(ty.Value)
	case ir.Nullable:
		return containsUse(ty.Inner)
	case ir.Promise:
		return containsUse(ty.Result)
	case ir.Union:
		for _, m := range ty.Members {
			if containsUse(m) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// checkFunctionBody implements code 403. It walks the function in a fresh
// scope: parameters enter tagged with their declared ownership, and plain
// VarDeclStmt/AssignStmt propagate the tag from the initializer/value's
// type when that type carries an ownership tag.
func checkFunctionBody(fn *ir.FunctionDecl, bag *diag.Bag, fileOrder int) {
	scope := map[string]ir.Ownership{}
	for _, p := range fn.Params {
		if own, ok := ownershipOf(p.Typ); ok {
			scope[p.Name] = own
		}
	}
	checkBody(fn.Body, scope, bag, fileOrder)
}

func checkBody(body ir.Body, scope map[string]ir.Ownership, bag *diag.Bag, fileOrder int) {
	if body.Tree != nil {
		checkBlock(body.Tree, scope, bag, fileOrder)
	}
}

func checkBlock(b *ir.StatementBlock, scope map[string]ir.Ownership, bag *diag.Bag, fileOrder int) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		checkStmt(s, scope, bag, fileOrder)
	}
}

func checkStmt(stmt ir.Stmt, scope map[string]ir.Ownership, bag *diag.Bag, fileOrder int) {
	switch s := stmt.(type) {
	case ir.VarDeclStmt:
		if own, ok := ownershipOf(s.Typ); ok {
			scope[s.Name] = own
		}
	case ir.AssignStmt:
		if ident, ok := s.Target.(ir.Ident); ok {
			if own, ok := ownershipOf(ident.Type()); ok {
				scope[ident.Name] = own
			}
		}
	case ir.ReturnStmt:
		checkReturn(s, scope, bag, fileOrder)
	case ir.StatementBlock:
		checkBlock(&s, scope, bag, fileOrder)
	case ir.IfStmt:
		checkBlock(s.Then, scope, bag, fileOrder)
		checkBlock(s.Else, scope, bag, fileOrder)
	case ir.WhileStmt:
		checkBlock(s.Body, scope, bag, fileOrder)
	case ir.ForStmt:
		checkBlock(s.Body, scope, bag, fileOrder)
	case ir.ForOfStmt:
		checkBlock(s.Body, scope, bag, fileOrder)
	case ir.TryStmt:
		checkBlock(s.Body, scope, bag, fileOrder)
		for _, c := range s.Catches {
			checkBlock(c.Body, scope, bag, fileOrder)
		}
		checkBlock(s.Finally, scope, bag, fileOrder)
	}
}

// checkReturn implements code 403 precisely as documented: only a direct
// `return v` where v is a bound use-tagged name triggers it. Indirect flow
// through member access or temporary owners is explicitly out of scope
// for this stage (§4.4).
func checkReturn(s ir.ReturnStmt, scope map[string]ir.Ownership, bag *diag.Bag, fileOrder int) {
	ident, ok := s.Value.(ir.Ident)
	if !ok {
		return
	}
	if own, bound := scope[ident.Name]; bound && own == ir.Use {
		bag.AddError(diag.New(diag.CodeUseReturnValue, s.Pos(),
			"cannot return %q: use<T> references may not escape their owner", ident.Name), fileOrder)
	}
}

func ownershipOf(t ir.Type) (ir.Ownership, bool) {
	switch ty := t.(type) {
	case ir.NamedType:
		return ty.Ownership, true
	case ir.Array:
		return ty.Ownership, true
	case ir.Map:
		return ty.Ownership, true
	case ir.Nullable:
		return ownershipOf(ty.Inner)
	default:
		return 0, false
	}
}
