// Package hoist implements the function hoister (§4.6), the sixth
// pipeline stage: it promotes nested functions that are both recursive
// and free of captures from enclosing scope to module-level declarations,
// since the backend's lambda construct cannot be self-recursive without
// explicit indirection (§4.6 motivation).
package hoist

import "github.com/cwbudde/nullforge/internal/ir"

// Hoist rewrites every module of prog in place, moving each qualifying
// nested function to the module's declaration list immediately before
// the declaration that used to enclose it (§4.6 "Transform").
func Hoist(prog *ir.Program) {
	for _, mod := range prog.Modules {
		mod.Declarations = hoistModule(mod)
	}
}

func hoistModule(mod *ir.Module) []ir.Declaration {
	out := make([]ir.Declaration, 0, len(mod.Declarations))
	for _, decl := range mod.Declarations {
		switch decl.Kind {
		case ir.DeclFunction:
			hoisted := hoistFunction(decl.Function, map[string]bool{})
			out = append(out, wrapFunctions(hoisted)...)
			out = append(out, decl)
		case ir.DeclClass:
			for _, m := range decl.Class.Methods {
				hoisted := hoistFunction(m, map[string]bool{})
				out = append(out, wrapFunctions(hoisted)...)
			}
			if ctor := decl.Class.Constructor; ctor != nil && ctor.Body.Tree != nil {
				params := map[string]bool{}
				for _, p := range ctor.Params {
					params[p.Name] = true
				}
				hoisted := hoistBody(ctor.Body.Tree, params)
				out = append(out, wrapFunctions(hoisted)...)
			}
			out = append(out, decl)
		default:
			out = append(out, decl)
		}
	}
	return out
}

func wrapFunctions(fns []*ir.FunctionDecl) []ir.Declaration {
	out := make([]ir.Declaration, len(fns))
	for i, f := range fns {
		out[i] = ir.Declaration{Kind: ir.DeclFunction, Function: f}
	}
	return out
}

// hoistFunction processes one enclosing function's body, hoisting
// whichever of its direct nested functions qualify, after first
// recursing into each nested function's own body (innermost first, so a
// grandchild hoist is resolved before its parent's eligibility is
// decided). outerNames is every param/local name bound by fn's own
// ancestors; §4.6 criterion 2 counts a free variable from "any enclosing
// function scope", not just the immediate parent.
func hoistFunction(fn *ir.FunctionDecl, outerNames map[string]bool) []*ir.FunctionDecl {
	if fn.Body.Tree == nil {
		return nil
	}
	withParams := copyNames(outerNames)
	for _, p := range fn.Params {
		withParams[p.Name] = true
	}
	return hoistBody(fn.Body.Tree, withParams)
}

func hoistBody(body *ir.StatementBlock, outerNames map[string]bool) []*ir.FunctionDecl {
	enclosingNames := unionNames(outerNames, collectLocalNames(body))

	var hoisted []*ir.FunctionDecl
	kept := make([]ir.Stmt, 0, len(body.Stmts))
	for _, s := range body.Stmts {
		nested, ok := s.(ir.NestedFuncStmt)
		if !ok {
			kept = append(kept, s)
			continue
		}

		// Innermost first: resolve this nested function's own nested
		// functions before deciding whether it itself qualifies.
		grandchildren := hoistFunction(nested.Decl, enclosingNames)
		hoisted = append(hoisted, grandchildren...)

		if isRecursive(nested.Decl.Name, nested.Decl) && !hasFreeVariable(nested.Decl, enclosingNames) {
			hoisted = append(hoisted, nested.Decl)
			continue
		}
		nested.Captures = freeVariableNames(nested.Decl, enclosingNames)
		kept = append(kept, nested)
	}
	body.Stmts = kept
	return hoisted
}

func unionNames(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool, len(a)+len(b))
	for k := range a {
		out[k] = true
	}
	for k := range b {
		out[k] = true
	}
	return out
}

// collectLocalNames gathers every name bound inside body (VarDeclStmt
// names, for-of loop variables and catch variables), including inside
// nested control-flow blocks but not descending into a NestedFuncStmt's
// own body — that is a separate function scope, not a local of the
// function being scanned. Parameters are not part of body; callers add
// them to the enclosing names themselves.
func collectLocalNames(body *ir.StatementBlock) map[string]bool {
	names := map[string]bool{}
	collectLocalsInBlock(body, names)
	return names
}

func collectLocalsInBlock(b *ir.StatementBlock, names map[string]bool) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		collectLocalsInStmt(s, names)
	}
}

func collectLocalsInStmt(stmt ir.Stmt, names map[string]bool) {
	switch s := stmt.(type) {
	case ir.VarDeclStmt:
		names[s.Name] = true
	case ir.StatementBlock:
		collectLocalsInBlock(&s, names)
	case ir.IfStmt:
		collectLocalsInBlock(s.Then, names)
		collectLocalsInBlock(s.Else, names)
	case ir.WhileStmt:
		collectLocalsInBlock(s.Body, names)
	case ir.ForStmt:
		if s.Init != nil {
			collectLocalsInStmt(s.Init, names)
		}
		collectLocalsInBlock(s.Body, names)
	case ir.ForOfStmt:
		names[s.VarName] = true
		collectLocalsInBlock(s.Body, names)
	case ir.TryStmt:
		collectLocalsInBlock(s.Body, names)
		for _, c := range s.Catches {
			names[c.ExceptionVar] = true
			collectLocalsInBlock(c.Body, names)
		}
		collectLocalsInBlock(s.Finally, names)
	}
}
