package hoist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/nullforge/internal/ir"
)

func program(decls ...ir.Declaration) *ir.Program {
	p := ir.NewProgram(ir.ModeOwnership)
	p.Modules = append(p.Modules, &ir.Module{Path: "main", Declarations: decls})
	return p
}

func voidFn(name string, params []ir.Param, stmts ...ir.Stmt) *ir.FunctionDecl {
	return &ir.FunctionDecl{
		Name:       name,
		Params:     params,
		ReturnType: ir.Primitive{Kind: ir.KindVoid},
		Body:       ir.Body{Tree: &ir.StatementBlock{Stmts: stmts}},
	}
}

func callIdent(name string, args ...ir.Expr) ir.Expr {
	out := ir.Call{Callee: ir.Ident{Name: name}, Args: args}
	out.T = ir.Primitive{Kind: ir.KindVoid}
	return out
}

func identExpr(name string) ir.Expr {
	out := ir.Ident{Name: name}
	out.T = ir.Primitive{Kind: ir.KindNumber}
	return out
}

func numParam(name string) ir.Param {
	return ir.Param{Name: name, Typ: ir.Primitive{Kind: ir.KindNumber}}
}

func TestHoistRecursiveCaptureFreeNestedFunctionIsHoisted(t *testing.T) {
	// function outer() { function fib(n) { return fib(n-1); } fib(3); }
	fib := voidFn("fib", []ir.Param{numParam("n")},
		ir.ReturnStmt{Value: callIdent("fib", identExpr("n"))},
	)
	outer := voidFn("outer", nil,
		ir.NestedFuncStmt{Decl: fib},
		ir.ExprStmt{X: callIdent("fib", identExpr("n"))},
	)
	prog := program(ir.Declaration{Kind: ir.DeclFunction, Function: outer})

	Hoist(prog)

	mod := prog.Modules[0]
	require.Len(t, mod.Declarations, 2)
	assert.Equal(t, "fib", mod.Declarations[0].Name())
	assert.Equal(t, "outer", mod.Declarations[1].Name())
	require.Len(t, outer.Body.Tree.Stmts, 1, "the nested decl should be removed from outer's body")
	_, stillNested := outer.Body.Tree.Stmts[0].(ir.NestedFuncStmt)
	assert.False(t, stillNested)
}

func TestHoistNonRecursiveNestedFunctionIsLeftInPlace(t *testing.T) {
	double := voidFn("double", []ir.Param{numParam("n")},
		ir.ReturnStmt{Value: ir.Binary{Op: ir.OpMul, Left: identExpr("n"), Right: identExpr("n")}},
	)
	outer := voidFn("outer", nil, ir.NestedFuncStmt{Decl: double})
	prog := program(ir.Declaration{Kind: ir.DeclFunction, Function: outer})

	Hoist(prog)

	require.Len(t, prog.Modules[0].Declarations, 1)
	require.Len(t, outer.Body.Tree.Stmts, 1)
	_, stillNested := outer.Body.Tree.Stmts[0].(ir.NestedFuncStmt)
	assert.True(t, stillNested)
}

func TestHoistRecursiveNestedFunctionWithCaptureIsLeftInPlace(t *testing.T) {
	// function outer(limit) { function loop(n) { if (n < limit) return loop(n+1); return n; } }
	loop := voidFn("loop", []ir.Param{numParam("n")},
		ir.IfStmt{
			Cond: ir.Binary{Op: ir.OpLt, Left: identExpr("n"), Right: identExpr("limit")},
			Then: &ir.StatementBlock{Stmts: []ir.Stmt{
				ir.ReturnStmt{Value: callIdent("loop", identExpr("n"))},
			}},
		},
		ir.ReturnStmt{Value: identExpr("n")},
	)
	outer := voidFn("outer", []ir.Param{numParam("limit")}, ir.NestedFuncStmt{Decl: loop})
	prog := program(ir.Declaration{Kind: ir.DeclFunction, Function: outer})

	Hoist(prog)

	require.Len(t, prog.Modules[0].Declarations, 1, "a capturing recursive function must not be hoisted")
	require.Len(t, outer.Body.Tree.Stmts, 1)
	_, stillNested := outer.Body.Tree.Stmts[0].(ir.NestedFuncStmt)
	assert.True(t, stillNested)
}

func TestHoistShadowedParamIsNotCountedAsFreeVariable(t *testing.T) {
	// function outer(n) { function fib(n) { return fib(n-1); } }
	// fib's own parameter n shadows outer's n, so fib has no free variables.
	fib := voidFn("fib", []ir.Param{numParam("n")},
		ir.ReturnStmt{Value: callIdent("fib", identExpr("n"))},
	)
	outer := voidFn("outer", []ir.Param{numParam("n")}, ir.NestedFuncStmt{Decl: fib})
	prog := program(ir.Declaration{Kind: ir.DeclFunction, Function: outer})

	Hoist(prog)

	require.Len(t, prog.Modules[0].Declarations, 2)
	assert.Equal(t, "fib", prog.Modules[0].Declarations[0].Name())
}

func TestHoistSelectivelyHoistsAmongMultipleNestedFunctions(t *testing.T) {
	fib := voidFn("fib", []ir.Param{numParam("n")},
		ir.ReturnStmt{Value: callIdent("fib", identExpr("n"))},
	)
	helper := voidFn("helper", []ir.Param{numParam("n")},
		ir.ReturnStmt{Value: ir.Binary{Op: ir.OpAdd, Left: identExpr("n"), Right: identExpr("offset")}},
	)
	outer := voidFn("outer", []ir.Param{numParam("offset")},
		ir.NestedFuncStmt{Decl: fib},
		ir.NestedFuncStmt{Decl: helper},
	)
	prog := program(ir.Declaration{Kind: ir.DeclFunction, Function: outer})

	Hoist(prog)

	mod := prog.Modules[0]
	require.Len(t, mod.Declarations, 2)
	assert.Equal(t, "fib", mod.Declarations[0].Name())
	assert.Equal(t, "outer", mod.Declarations[1].Name())
	require.Len(t, outer.Body.Tree.Stmts, 1, "helper stays nested, fib is removed")
	nested, ok := outer.Body.Tree.Stmts[0].(ir.NestedFuncStmt)
	require.True(t, ok)
	assert.Equal(t, "helper", nested.Decl.Name)
}

func TestHoistDoesNotChaseCallsAcrossNameRedefinition(t *testing.T) {
	// function outer() {
	//   function fib(n) { var fib = 0; return fib; }
	// }
	// fib's own body redefines fib as a local before any call, so the
	// declaration is not recursive despite textually containing its name.
	fib := voidFn("fib", []ir.Param{numParam("n")},
		ir.VarDeclStmt{Name: "fib", Typ: ir.Primitive{Kind: ir.KindNumber}, Init: nil},
		ir.ReturnStmt{Value: identExpr("fib")},
	)
	outer := voidFn("outer", nil, ir.NestedFuncStmt{Decl: fib})
	prog := program(ir.Declaration{Kind: ir.DeclFunction, Function: outer})

	Hoist(prog)

	require.Len(t, prog.Modules[0].Declarations, 1)
	_, stillNested := outer.Body.Tree.Stmts[0].(ir.NestedFuncStmt)
	assert.True(t, stillNested)
}
