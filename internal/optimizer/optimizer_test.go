package optimizer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/nullforge/internal/ir"
)

func numLit(n float64) ir.Literal {
	out := ir.Literal{Kind: ir.LitNumber, Number: n}
	out.T = ir.Primitive{Kind: ir.KindNumber}
	return out
}

func boolLitVal(b bool) ir.Literal {
	out := ir.Literal{Kind: ir.LitBoolean, Boolean: b}
	out.T = ir.Primitive{Kind: ir.KindBoolean}
	return out
}

func strLit(s string) ir.Literal {
	out := ir.Literal{Kind: ir.LitString, Str: s}
	out.T = ir.Primitive{Kind: ir.KindString}
	return out
}

func wrapBody(stmts ...ir.Stmt) *ir.FunctionDecl {
	return &ir.FunctionDecl{Name: "f", Body: ir.Body{Tree: &ir.StatementBlock{Stmts: stmts}}}
}

func TestOptimizeFoldsArithmetic(t *testing.T) {
	fn := wrapBody(ir.ReturnStmt{Value: ir.Binary{Op: ir.OpAdd, Left: numLit(2), Right: numLit(3)}})
	prog := ir.NewProgram(ir.ModeOwnership)
	prog.Modules = append(prog.Modules, &ir.Module{Declarations: []ir.Declaration{{Kind: ir.DeclFunction, Function: fn}}})
	Optimize(prog)
	ret := fn.Body.Tree.Stmts[0].(ir.ReturnStmt)
	lit, ok := ret.Value.(ir.Literal)
	require.True(t, ok)
	assert.Equal(t, 5.0, lit.Number)
}

func TestOptimizeFoldsNestedArithmetic(t *testing.T) {
	inner := ir.Binary{Op: ir.OpMul, Left: numLit(2), Right: numLit(3)}
	outer := ir.Binary{Op: ir.OpAdd, Left: inner, Right: numLit(1)}
	fn := wrapBody(ir.ReturnStmt{Value: outer})
	prog := ir.NewProgram(ir.ModeOwnership)
	prog.Modules = append(prog.Modules, &ir.Module{Declarations: []ir.Declaration{{Kind: ir.DeclFunction, Function: fn}}})
	Optimize(prog)
	ret := fn.Body.Tree.Stmts[0].(ir.ReturnStmt)
	lit, ok := ret.Value.(ir.Literal)
	require.True(t, ok)
	assert.Equal(t, 7.0, lit.Number)
}

func TestOptimizeDivisionByZeroFoldsToInfinity(t *testing.T) {
	fn := wrapBody(ir.ReturnStmt{Value: ir.Binary{Op: ir.OpDiv, Left: numLit(1), Right: numLit(0)}})
	prog := ir.NewProgram(ir.ModeOwnership)
	prog.Modules = append(prog.Modules, &ir.Module{Declarations: []ir.Declaration{{Kind: ir.DeclFunction, Function: fn}}})
	Optimize(prog)
	ret := fn.Body.Tree.Stmts[0].(ir.ReturnStmt)
	lit := ret.Value.(ir.Literal)
	assert.True(t, math.IsInf(lit.Number, 1))
}

func TestOptimizeStringConcatFolds(t *testing.T) {
	fn := wrapBody(ir.ReturnStmt{Value: ir.Binary{Op: ir.OpAdd, Left: strLit("a"), Right: strLit("b")}})
	prog := ir.NewProgram(ir.ModeOwnership)
	prog.Modules = append(prog.Modules, &ir.Module{Declarations: []ir.Declaration{{Kind: ir.DeclFunction, Function: fn}}})
	Optimize(prog)
	ret := fn.Body.Tree.Stmts[0].(ir.ReturnStmt)
	lit := ret.Value.(ir.Literal)
	assert.Equal(t, "ab", lit.Str)
}

func TestOptimizeTypeofLiteralFolds(t *testing.T) {
	fn := wrapBody(ir.ReturnStmt{Value: ir.Unary{Op: ir.OpTypeof, Operand: ir.Literal{Kind: ir.LitNull}}})
	prog := ir.NewProgram(ir.ModeOwnership)
	prog.Modules = append(prog.Modules, &ir.Module{Declarations: []ir.Declaration{{Kind: ir.DeclFunction, Function: fn}}})
	Optimize(prog)
	ret := fn.Body.Tree.Stmts[0].(ir.ReturnStmt)
	lit := ret.Value.(ir.Literal)
	assert.Equal(t, "object", lit.Str)
}

func TestOptimizeTernaryFoldsToLiveBranch(t *testing.T) {
	cond := ir.Conditional{Cond: boolLitVal(true), Then: numLit(1), Else: numLit(2)}
	fn := wrapBody(ir.ReturnStmt{Value: cond})
	prog := ir.NewProgram(ir.ModeOwnership)
	prog.Modules = append(prog.Modules, &ir.Module{Declarations: []ir.Declaration{{Kind: ir.DeclFunction, Function: fn}}})
	Optimize(prog)
	ret := fn.Body.Tree.Stmts[0].(ir.ReturnStmt)
	lit := ret.Value.(ir.Literal)
	assert.Equal(t, 1.0, lit.Number)
}

func TestOptimizeIndexAccessIsNeverFolded(t *testing.T) {
	idx := ir.Index{Receiver: ir.ArrayLiteral{Elements: []ir.Expr{numLit(1)}}, Key: numLit(0)}
	fn := wrapBody(ir.ReturnStmt{Value: idx})
	prog := ir.NewProgram(ir.ModeOwnership)
	prog.Modules = append(prog.Modules, &ir.Module{Declarations: []ir.Declaration{{Kind: ir.DeclFunction, Function: fn}}})
	Optimize(prog)
	ret := fn.Body.Tree.Stmts[0].(ir.ReturnStmt)
	_, stillIndex := ret.Value.(ir.Index)
	assert.True(t, stillIndex)
}

func TestOptimizeBranchSimplificationProducesJump(t *testing.T) {
	blk := &ir.BasicBlock{ID: 0, Terminator: ir.BranchTerm{Cond: boolLitVal(true), TrueBlock: 1, FalseBlock: 2}}
	fn := &ir.FunctionDecl{Name: "f", Body: ir.Body{SSA: &ir.CFG{Blocks: []*ir.BasicBlock{blk}}}}
	prog := ir.NewProgram(ir.ModeOwnership)
	prog.Modules = append(prog.Modules, &ir.Module{Declarations: []ir.Declaration{{Kind: ir.DeclFunction, Function: fn}}})
	Optimize(prog)
	jump, ok := blk.Terminator.(ir.JumpTerm)
	require.True(t, ok)
	assert.Equal(t, 1, jump.Block)
}

func TestOptimizeLeavesNonLiteralBranchAlone(t *testing.T) {
	cond := identExprFor("flag")
	blk := &ir.BasicBlock{ID: 0, Terminator: ir.BranchTerm{Cond: cond, TrueBlock: 1, FalseBlock: 2}}
	fn := &ir.FunctionDecl{Name: "f", Body: ir.Body{SSA: &ir.CFG{Blocks: []*ir.BasicBlock{blk}}}}
	prog := ir.NewProgram(ir.ModeOwnership)
	prog.Modules = append(prog.Modules, &ir.Module{Declarations: []ir.Declaration{{Kind: ir.DeclFunction, Function: fn}}})
	Optimize(prog)
	_, ok := blk.Terminator.(ir.BranchTerm)
	assert.True(t, ok)
}

func identExprFor(name string) ir.Expr {
	out := ir.Ident{Name: name}
	out.T = ir.Primitive{Kind: ir.KindBoolean}
	return out
}
