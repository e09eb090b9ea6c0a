// Package validator implements the good-parts gate (§4.1): it rejects
// source-level constructs whose presence would defeat the static analyses
// downstream. It runs over the typed AST before lowering and never mutates
// it.
package validator

import (
	"github.com/cwbudde/nullforge/internal/diag"
	"github.com/cwbudde/nullforge/internal/sourceast"
)

// Validate walks every module of prog and returns every violation found.
// Validation never short-circuits within a file: every rule is checked
// against every reachable node (§4.1, "errors accumulate").
func Validate(prog *sourceast.Program) *diag.Bag {
	bag := &diag.Bag{}
	for fileOrder, mod := range prog.Modules {
		v := &walker{bag: bag, fileOrder: fileOrder}
		v.walkModule(mod)
	}
	return bag
}

type walker struct {
	bag       *diag.Bag
	fileOrder int
}

func (w *walker) err(code diag.Code, pos diag.Position, format string, args ...any) {
	w.bag.AddError(diag.New(code, pos, format, args...), w.fileOrder)
}

func (w *walker) walkModule(mod *sourceast.Module) {
	for _, decl := range mod.Declarations {
		w.walkDeclaration(decl)
	}
}

func (w *walker) walkDeclaration(decl sourceast.Declaration) {
	switch d := decl.(type) {
	case *sourceast.FunctionDecl:
		w.walkType(d.ReturnType)
		for _, p := range d.Params {
			w.walkType(p.Type)
		}
		w.walkFunctionBody(d, true)
	case *sourceast.ClassDecl:
		for _, f := range d.Fields {
			w.walkType(f.Type)
			if f.Init != nil {
				w.walkExpr(f.Init, false)
			}
		}
		if d.Constructor != nil {
			for _, p := range d.Constructor.Params {
				w.walkType(p.Type)
			}
			w.walkBlock(d.Constructor.Body, false)
		}
		for _, m := range d.Methods {
			w.walkType(m.ReturnType)
			for _, p := range m.Params {
				w.walkType(p.Type)
			}
			w.walkFunctionBody(m, false)
		}
	case *sourceast.InterfaceDecl:
		for _, p := range d.Properties {
			w.walkType(p.Type)
		}
		for _, m := range d.Methods {
			w.walkType(m.ReturnType)
			for _, p := range m.Params {
				w.walkType(p.Type)
			}
		}
	case *sourceast.TypeAliasDecl:
		w.walkType(d.Aliased)
	case *sourceast.ConstDecl:
		w.walkType(d.Type)
		if d.Init != nil {
			w.walkExpr(d.Init, false)
		}
	}
}

func (w *walker) walkFunctionBody(f *sourceast.FunctionDecl, isFree bool) {
	if f.Body != nil {
		w.walkBlock(f.Body, isFree)
	}
}

// walkType recurses into a SourceType looking only for code 109 (the
// dynamic catch-all type). nil is tolerated since several call sites pass
// an optional, possibly-absent annotation.
func (w *walker) walkType(t sourceast.SourceType) {
	switch ty := t.(type) {
	case nil:
	case sourceast.DynamicTypeRef:
		// DynamicTypeRef carries no position of its own and walkType is
		// given none by its callers, so the finding is reported without
		// one.
		w.bag.Add(diag.Diagnostic{Code: diag.CodeDynamicCatchAll, Severity: diag.Error, Message: "dynamic catch-all type is not permitted; use explicit types, generics, or unknown"}, w.fileOrder)
	case sourceast.ArrayTypeRef:
		w.walkType(ty.Element)
	case sourceast.MapTypeRef:
		w.walkType(ty.Key)
		w.walkType(ty.Value)
	case sourceast.FunctionTypeRef:
		for _, p := range ty.Params {
			w.walkType(p)
		}
		w.walkType(ty.Return)
	case sourceast.UnionTypeRef:
		for _, m := range ty.Members {
			w.walkType(m)
		}
	case sourceast.NullableTypeRef:
		w.walkType(ty.Inner)
	case sourceast.PromiseTypeRef:
		w.walkType(ty.Result)
	case sourceast.NamedTypeRef:
		for _, a := range ty.TypeArgs {
			w.walkType(a)
		}
	case sourceast.AnonymousObjectType:
		for _, f := range ty.Fields {
			w.walkType(f.Type)
		}
	}
}

func (w *walker) walkBlock(b *sourceast.Block, isFree bool) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		w.walkStmt(s, isFree)
	}
}

func (w *walker) walkStmt(stmt sourceast.Statement, isFree bool) {
	switch s := stmt.(type) {
	case *sourceast.With:
		w.err(diag.CodeWithBlock, s.Pos(), "`with` blocks are not permitted; their scope cannot be statically analyzed")
		w.walkExpr(s.Subject, isFree)
		w.walkBlock(s.Body, isFree)
	case *sourceast.ForIn:
		w.err(diag.CodeKeyEnumeration, s.Pos(), "enumeration over an object's keys is not permitted; iterate an explicit key list instead")
		w.walkExpr(s.Subject, isFree)
		w.walkBlock(s.Body, isFree)
	case *sourceast.VarDecl:
		if s.Kind == sourceast.KindVar {
			w.err(diag.CodeFunctionScopedVar, s.Pos(), "function-scoped `var` bindings are not permitted; use `let` or `const`")
		}
		w.walkType(s.Type)
		if s.Init != nil {
			w.walkExpr(s.Init, isFree)
		}
	case *sourceast.Assign:
		w.walkExpr(s.Target, isFree)
		w.walkExpr(s.Value, isFree)
	case *sourceast.ExprStmt:
		w.walkExpr(s.X, isFree)
	case *sourceast.Return:
		if s.Value != nil {
			w.walkExpr(s.Value, isFree)
		}
	case *sourceast.Block:
		w.walkBlock(s, isFree)
	case *sourceast.If:
		w.checkExplicitBoolean(s.Cond, isFree)
		w.walkExpr(s.Cond, isFree)
		w.walkBlock(s.Then, isFree)
		w.walkBlock(s.Else, isFree)
	case *sourceast.While:
		w.checkExplicitBoolean(s.Cond, isFree)
		w.walkExpr(s.Cond, isFree)
		w.walkBlock(s.Body, isFree)
	case *sourceast.For:
		if s.Init != nil {
			w.walkStmt(s.Init, isFree)
		}
		if s.Cond != nil {
			w.checkExplicitBoolean(s.Cond, isFree)
			w.walkExpr(s.Cond, isFree)
		}
		if s.Step != nil {
			w.walkStmt(s.Step, isFree)
		}
		w.walkBlock(s.Body, isFree)
	case *sourceast.ForOf:
		w.walkExpr(s.Iter, isFree)
		w.walkBlock(s.Body, isFree)
	case *sourceast.Switch:
		w.walkSwitch(s, isFree)
	case *sourceast.Try:
		w.walkBlock(s.Body, isFree)
		for _, c := range s.Catches {
			w.walkType(c.ExceptionTyp)
			w.walkBlock(c.Body, isFree)
		}
		w.walkBlock(s.Finally, isFree)
	case *sourceast.Throw:
		w.walkExpr(s.Value, isFree)
	case *sourceast.Break, *sourceast.Continue:
		// nothing to check
	case *sourceast.FuncDeclStmt:
		w.walkType(s.Decl.ReturnType)
		for _, p := range s.Decl.Params {
			w.walkType(p.Type)
		}
		w.walkFunctionBody(s.Decl, true)
	}
}

// walkSwitch implements code 113: a case with a non-empty body must end in
// break/return/throw/continue rather than falling through into the next
// case. An empty body is permitted to fall through (the common
// `case a: case b: ...` grouping idiom).
func (w *walker) walkSwitch(sw *sourceast.Switch, isFree bool) {
	w.walkExpr(sw.Subject, isFree)
	for _, c := range sw.Cases {
		if c.Value != nil {
			w.walkExpr(c.Value, isFree)
		}
		for _, st := range c.Body {
			w.walkStmt(st, isFree)
		}
		if len(c.Body) == 0 {
			continue
		}
		if !terminatesCase(c.Body[len(c.Body)-1]) {
			w.err(diag.CodeSwitchFallthrough, sw.Pos(), "case falls through into the next case; terminate with break, return, throw, or continue")
		}
	}
}

func terminatesCase(s sourceast.Statement) bool {
	switch s.(type) {
	case *sourceast.Break, *sourceast.Return, *sourceast.Throw, *sourceast.Continue:
		return true
	default:
		return false
	}
}

// checkExplicitBoolean implements code 110: a condition must be a boolean
// literal, a comparison, a short-circuit of explicit booleans, a negation of
// an explicit boolean, or a parenthesization of one (the AST carries no
// parenthesization node, so that case is vacuous here).
func (w *walker) checkExplicitBoolean(e sourceast.Expression, isFree bool) {
	if !isExplicitBoolean(e) {
		w.err(diag.CodeTruthyCondition, e.Pos(), "condition must be an explicit boolean expression, not a truthy/falsy value")
	}
}

func isExplicitBoolean(e sourceast.Expression) bool {
	switch x := e.(type) {
	case *sourceast.Literal:
		return x.Kind == sourceast.PrimBoolean
	case *sourceast.Binary:
		switch x.Op {
		case sourceast.OpEq, sourceast.OpNe, sourceast.OpWeakEq, sourceast.OpWeakNe,
			sourceast.OpLt, sourceast.OpLe, sourceast.OpGt, sourceast.OpGe:
			return true
		case sourceast.OpAnd, sourceast.OpOr:
			return isExplicitBoolean(x.Left) && isExplicitBoolean(x.Right)
		default:
			return false
		}
	case *sourceast.Unary:
		return x.Op == sourceast.OpNot && isExplicitBoolean(x.Operand)
	default:
		return false
	}
}

func (w *walker) walkExpr(e sourceast.Expression, isFree bool) {
	if e == nil {
		return
	}
	switch x := e.(type) {
	case *sourceast.Literal:
		// nothing further to check
	case *sourceast.Ident:
		if x.Name == "arguments" {
			w.err(diag.CodeImplicitVariadic, x.Pos(), "the implicit `arguments` pseudo-variable is not permitted; use an explicit rest parameter")
		}
		if isFree && (x.Name == "this" || x.Name == "self") {
			w.err(diag.CodeThisInFreeFunction, x.Pos(), "`this`/`self` is not permitted inside a free function")
		}
	case *sourceast.Binary:
		if x.Op == sourceast.OpWeakEq {
			w.err(diag.CodeWeakEquality, x.Pos(), "weak equality `==` is not permitted; use `===`")
		}
		if x.Op == sourceast.OpWeakNe {
			w.err(diag.CodeWeakInequality, x.Pos(), "weak inequality `!=` is not permitted; use `!==`")
		}
		w.walkExpr(x.Left, isFree)
		w.walkExpr(x.Right, isFree)
	case *sourceast.Unary:
		if x.Op == sourceast.OpVoid {
			w.err(diag.CodeUnaryVoid, x.Pos(), "unary `void` is not permitted; use explicit `undefined`")
		}
		if x.Op == sourceast.OpNot {
			w.checkExplicitBoolean(x.Operand, isFree)
		}
		w.walkExpr(x.Operand, isFree)
	case *sourceast.Conditional:
		w.walkExpr(x.Cond, isFree)
		w.walkExpr(x.Then, isFree)
		w.walkExpr(x.Else, isFree)
	case *sourceast.Call:
		if callee, ok := x.Callee.(*sourceast.Ident); ok && callee.Name == "eval" {
			w.err(diag.CodeDynamicEval, x.Pos(), "dynamic eval / function-from-string is not permitted")
		}
		w.walkExpr(x.Callee, isFree)
		for _, a := range x.Args {
			w.walkExpr(a, isFree)
		}
	case *sourceast.MethodCall:
		w.walkExpr(x.Receiver, isFree)
		for _, a := range x.Args {
			w.walkExpr(a, isFree)
		}
	case *sourceast.Member:
		if x.Name == "prototype" || x.Name == "__proto__" {
			w.err(diag.CodePrototypeAccess, x.Pos(), "access to `%s` is not permitted; a closed class shape is required", x.Name)
		}
		w.walkExpr(x.Receiver, isFree)
	case *sourceast.Index:
		w.walkExpr(x.Receiver, isFree)
		w.walkExpr(x.Key, isFree)
	case *sourceast.New:
		switch x.ClassName {
		case "Number", "String", "Boolean":
			w.err(diag.CodePrimitiveWrapperNew, x.Pos(), "primitive wrapper construction `new %s(...)` is not permitted; use the conversion function form", x.ClassName)
		}
		for _, a := range x.Args {
			w.walkExpr(a, isFree)
		}
	case *sourceast.ArrayLiteral:
		for _, el := range x.Elements {
			w.walkExpr(el, isFree)
		}
	case *sourceast.ObjectLiteral:
		w.walkType(x.Typ)
		for _, f := range x.Fields {
			w.walkExpr(f.Value, isFree)
		}
	case *sourceast.Lambda:
		for _, p := range x.Params {
			w.walkType(p.Type)
		}
		w.walkType(x.Return)
		for _, s := range x.Body {
			w.walkStmt(s, isFree)
		}
	case *sourceast.Await:
		w.walkExpr(x.Operand, isFree)
	case *sourceast.TemplateConcat:
		for _, seg := range x.Segments {
			if seg.Expr != nil {
				w.walkExpr(seg.Expr, isFree)
			}
		}
	case *sourceast.Move:
		w.walkExpr(x.Operand, isFree)
	case *sourceast.Borrow:
		w.walkExpr(x.Operand, isFree)
	case *sourceast.IncDec:
		w.walkExpr(x.Operand, isFree)
	case *sourceast.Delete:
		w.err(diag.CodePropertyDelete, x.Pos(), "the property-delete operator is not permitted; use optional fields or destructuring")
		w.walkExpr(x.Target, isFree)
	case *sourceast.CommaExpr:
		w.err(diag.CodeCommaExpression, x.Pos(), "comma expressions are not permitted; use separate statements")
		for _, op := range x.Operands {
			w.walkExpr(op, isFree)
		}
	case *sourceast.DynamicImport:
		if _, ok := x.Path.(*sourceast.Literal); !ok {
			w.err(diag.CodeDynamicImportPath, x.Pos(), "dynamic import path must be a string literal; the whole-program module graph must be static")
		}
		w.walkExpr(x.Path, isFree)
	}
}
