// Package examples hand-builds the six end-to-end scenarios named in §8's
// source/expected-output table. There is no surface parser in this
// repository, so each scenario is constructed directly as a
// sourceast.Program the same way internal/lowering's own tests build their
// input, rather than parsed from the literal source text shown in the
// table's comments.
package examples

import (
	"github.com/cwbudde/nullforge/internal/backend"
	"github.com/cwbudde/nullforge/internal/sourceast"
)

// Scenario is one named, runnable program plus the entry point the backend
// should emit a main for.
type Scenario struct {
	Name    string
	Program *sourceast.Program
	Entry   backend.Entry
}

func numberType() sourceast.SourceType    { return sourceast.PrimitiveType{Name: sourceast.PrimNumber} }
func integerType() sourceast.SourceType   { return sourceast.PrimitiveType{Name: sourceast.PrimInteger} }
func voidType() sourceast.SourceType      { return sourceast.PrimitiveType{Name: sourceast.PrimVoid} }
func booleanType() sourceast.SourceType   { return sourceast.PrimitiveType{Name: sourceast.PrimBoolean} }
func stringType() sourceast.SourceType    { return sourceast.PrimitiveType{Name: sourceast.PrimString} }
func promiseOf(t sourceast.SourceType) sourceast.SourceType {
	return sourceast.PromiseTypeRef{Result: t}
}

func numberLit(n float64) *sourceast.Literal {
	return &sourceast.Literal{Kind: sourceast.PrimNumber, Number: n, Typ: numberType()}
}

func integerLit(n float64) *sourceast.Literal {
	return &sourceast.Literal{Kind: sourceast.PrimNumber, Number: n, Typ: integerType()}
}

func boolLit(v bool) *sourceast.Literal {
	return &sourceast.Literal{Kind: sourceast.PrimBoolean, Boolean: v, Typ: booleanType()}
}

func stringLit(s string) *sourceast.Literal {
	return &sourceast.Literal{Kind: sourceast.PrimString, Str: s, Typ: stringType()}
}

func ident(name string, t sourceast.SourceType) *sourceast.Ident {
	return &sourceast.Ident{Name: name, Typ: t}
}

func binary(op sourceast.BinaryOp, l, r sourceast.Expression, t sourceast.SourceType) *sourceast.Binary {
	return &sourceast.Binary{Op: op, Left: l, Right: r, Typ: t}
}

// consoleLog builds console.log(arg) as a method call on a global
// receiver, the way any other namespaced runtime built-in is represented
// (§1's "the core only declares the symbols it calls into").
func consoleLog(arg sourceast.Expression) *sourceast.ExprStmt {
	return &sourceast.ExprStmt{X: &sourceast.MethodCall{
		Receiver: ident("console", sourceast.NamedTypeRef{Name: "Console"}),
		Method:   "log",
		Args:     []sourceast.Expression{arg},
		Typ:      voidType(),
	}}
}

func module(path string, decls ...sourceast.Declaration) *sourceast.Program {
	return &sourceast.Program{Modules: []*sourceast.Module{{Path: path, Declarations: decls}}}
}

// AsyncChain is scenario 1: an async function awaiting another async
// function's result, chained through a third async entry point. Expected
// output: "84\n".
func AsyncChain() Scenario {
	g := &sourceast.FunctionDecl{
		Name: "g", Async: true, ReturnType: promiseOf(integerType()),
		Body: &sourceast.Block{Stmts: []sourceast.Statement{
			&sourceast.Return{Value: integerLit(42)},
		}},
	}
	f := &sourceast.FunctionDecl{
		Name: "f", Async: true, ReturnType: promiseOf(integerType()),
		Body: &sourceast.Block{Stmts: []sourceast.Statement{
			&sourceast.Return{Value: binary(sourceast.OpMul,
				&sourceast.Await{Operand: &sourceast.Call{Callee: ident("g", sourceast.FunctionTypeRef{Return: promiseOf(integerType())}), Typ: promiseOf(integerType())}, Typ: integerType()},
				integerLit(2), integerType(),
			)},
		}},
	}
	main := &sourceast.FunctionDecl{
		Name: "main", Async: true, ReturnType: promiseOf(voidType()),
		Body: &sourceast.Block{Stmts: []sourceast.Statement{
			consoleLog(&sourceast.Await{Operand: &sourceast.Call{Callee: ident("f", sourceast.FunctionTypeRef{Return: promiseOf(integerType())}), Typ: promiseOf(integerType())}, Typ: integerType()}),
			&sourceast.Return{},
		}},
	}
	return Scenario{
		Name:    "async_double_await_chain",
		Program: module("main", g, f, main),
		Entry:   backend.Entry{Module: "main", Function: "main"},
	}
}

// HoistedFibonacci is scenario 2: a recursive function nested inside
// another function, lacking captures, which the hoister must promote to
// module scope. Expected output: "21\n".
func HoistedFibonacci() Scenario {
	fibCall := func(n sourceast.Expression) *sourceast.Call {
		return &sourceast.Call{Callee: ident("fib", sourceast.FunctionTypeRef{Return: integerType()}), Args: []sourceast.Expression{n}, Typ: integerType()}
	}
	fib := &sourceast.FunctionDecl{
		Name:       "fib",
		Params:     []sourceast.Param{{Name: "n", Type: integerType()}},
		ReturnType: integerType(),
		Body: &sourceast.Block{Stmts: []sourceast.Statement{
			&sourceast.If{
				Cond: binary(sourceast.OpLe, ident("n", integerType()), integerLit(1), booleanType()),
				Then: &sourceast.Block{Stmts: []sourceast.Statement{&sourceast.Return{Value: ident("n", integerType())}}},
			},
			&sourceast.Return{Value: binary(sourceast.OpAdd,
				fibCall(binary(sourceast.OpSub, ident("n", integerType()), integerLit(1), integerType())),
				fibCall(binary(sourceast.OpSub, ident("n", integerType()), integerLit(2), integerType())),
				integerType(),
			)},
		}},
	}
	o := &sourceast.FunctionDecl{
		Name: "o", ReturnType: integerType(),
		Body: &sourceast.Block{Stmts: []sourceast.Statement{
			&sourceast.FuncDeclStmt{Decl: fib},
			&sourceast.Return{Value: fibCall(integerLit(8))},
		}},
	}
	main := &sourceast.FunctionDecl{
		Name: "main", ReturnType: voidType(),
		Body: &sourceast.Block{Stmts: []sourceast.Statement{
			consoleLog(&sourceast.Call{Callee: ident("o", sourceast.FunctionTypeRef{Return: integerType()}), Typ: integerType()}),
			&sourceast.Return{},
		}},
	}
	return Scenario{
		Name:    "hoisted_fibonacci",
		Program: module("main", o, main),
		Entry:   backend.Entry{Module: "main", Function: "main"},
	}
}

// ConstantFolding is scenario 3: three literal-only right-hand sides that
// fold at compile time. Expected output: "14\ntrue\nHi, world\n".
func ConstantFolding() Scenario {
	main := &sourceast.FunctionDecl{
		Name: "main", ReturnType: voidType(),
		Body: &sourceast.Block{Stmts: []sourceast.Statement{
			&sourceast.VarDecl{Name: "a", Kind: sourceast.KindConst, Init: binary(sourceast.OpAdd,
				numberLit(2), binary(sourceast.OpMul, numberLit(3), numberLit(4), numberType()), numberType())},
			&sourceast.VarDecl{Name: "b", Kind: sourceast.KindConst, Init: &sourceast.Unary{
				Op: sourceast.OpNot, Operand: &sourceast.Unary{Op: sourceast.OpNot, Operand: boolLit(true), Typ: booleanType()}, Typ: booleanType(),
			}},
			&sourceast.VarDecl{Name: "c", Kind: sourceast.KindConst, Init: binary(sourceast.OpAdd,
				binary(sourceast.OpAdd, stringLit("Hi"), stringLit(", "), stringType()), stringLit("world"), stringType())},
			consoleLog(ident("a", numberType())),
			consoleLog(ident("b", booleanType())),
			consoleLog(ident("c", stringType())),
			&sourceast.Return{},
		}},
	}
	return Scenario{
		Name:    "constant_folding",
		Program: module("main", main),
		Entry:   backend.Entry{Module: "main", Function: "main"},
	}
}

// SelfCyclingShare is scenario 4: a class holding a share<Node> to its own
// type, a single self-cycle that must be rejected under ownership mode
// with code 301.
func SelfCyclingShare() Scenario {
	node := &sourceast.ClassDecl{
		Name: "Node",
		Fields: []sourceast.Field{
			{Name: "next", Type: sourceast.NamedTypeRef{Name: "Node", Ownership: sourceast.OwnershipShare}},
		},
	}
	return Scenario{
		Name:    "self_cycling_share",
		Program: module("main", node),
		// No function in this scenario is the program entry; a no-op
		// main is all the backend needs to emit once GC mode demotes the
		// cycle to a warning and the pipeline proceeds (§8's empty-program
		// boundary behavior covers the no-op-main case).
		Entry: backend.Entry{},
	}
}

// CountingForLoop is scenario 5: a classic init/cond/step loop logging
// each iteration. Expected output: "0\n1\n2\n".
func CountingForLoop() Scenario {
	t := &sourceast.FunctionDecl{
		Name: "t", ReturnType: voidType(),
		Body: &sourceast.Block{Stmts: []sourceast.Statement{
			&sourceast.For{
				Init: &sourceast.VarDecl{Name: "i", Kind: sourceast.KindLet, Type: integerType(), Init: integerLit(0)},
				Cond: binary(sourceast.OpLt, ident("i", integerType()), integerLit(3), booleanType()),
				Step: &sourceast.Assign{Target: ident("i", integerType()), Value: binary(sourceast.OpAdd, ident("i", integerType()), integerLit(1), integerType())},
				Body: &sourceast.Block{Stmts: []sourceast.Statement{consoleLog(ident("i", integerType()))}},
			},
			&sourceast.Return{},
		}},
	}
	main := &sourceast.FunctionDecl{
		Name: "main", ReturnType: voidType(),
		Body: &sourceast.Block{Stmts: []sourceast.Statement{
			&sourceast.ExprStmt{X: &sourceast.Call{Callee: ident("t", sourceast.FunctionTypeRef{Return: voidType()}), Typ: voidType()}},
			&sourceast.Return{},
		}},
	}
	return Scenario{
		Name:    "counting_for_loop",
		Program: module("main", t, main),
		Entry:   backend.Entry{Module: "main", Function: "main"},
	}
}

// DeduplicatedObjectLiterals is scenario 6: two object literals of the
// same anonymous shape used in the same module, which must synthesize
// exactly one record struct.
func DeduplicatedObjectLiterals() Scenario {
	shape := sourceast.AnonymousObjectType{Fields: []sourceast.ObjectTypeField{
		{Name: "x", Type: numberType()},
		{Name: "y", Type: numberType()},
	}}
	point := func(x, y float64) *sourceast.ObjectLiteral {
		return &sourceast.ObjectLiteral{
			Fields: []sourceast.ObjectLiteralField{{Name: "x", Value: numberLit(x)}, {Name: "y", Value: numberLit(y)}},
			Typ:    shape,
		}
	}
	main := &sourceast.FunctionDecl{
		Name: "main", ReturnType: voidType(),
		Body: &sourceast.Block{Stmts: []sourceast.Statement{
			&sourceast.VarDecl{Name: "p1", Kind: sourceast.KindConst, Type: shape, Init: point(1, 2)},
			&sourceast.VarDecl{Name: "p2", Kind: sourceast.KindConst, Type: shape, Init: point(10, 20)},
			&sourceast.Return{},
		}},
	}
	return Scenario{
		Name:    "deduplicated_object_literals",
		Program: module("main", main),
		Entry:   backend.Entry{Module: "main", Function: "main"},
	}
}

// All returns every scenario in §8's table order.
func All() []Scenario {
	return []Scenario{
		AsyncChain(),
		HoistedFibonacci(),
		ConstantFolding(),
		SelfCyclingShare(),
		CountingForLoop(),
		DeduplicatedObjectLiterals(),
	}
}
