package ownership

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/nullforge/internal/diag"
	"github.com/cwbudde/nullforge/internal/ir"
)

func classDecl(name string, fields ...ir.FieldDecl) ir.Declaration {
	return ir.Declaration{Kind: ir.DeclClass, Class: &ir.ClassDecl{Name: name, Fields: fields}}
}

func shareField(name, target string) ir.FieldDecl {
	return ir.FieldDecl{Name: name, Typ: ir.NamedType{Name: target, Ownership: ir.Share}}
}

func program(decls ...ir.Declaration) *ir.Program {
	p := ir.NewProgram(ir.ModeOwnership)
	p.Modules = append(p.Modules, &ir.Module{Path: "main", Declarations: decls})
	return p
}

func TestAnalyzeCleanGraphHasNoDiagnostics(t *testing.T) {
	prog := program(
		classDecl("A", shareField("b", "B")),
		classDecl("B"),
	)
	bag := Analyze(prog, ir.ModeOwnership)
	assert.Equal(t, 0, bag.Len())
}

func TestAnalyzeDirectCycleReportsOwnershipCycle(t *testing.T) {
	prog := program(
		classDecl("A", shareField("b", "B")),
		classDecl("B", shareField("a", "A")),
	)
	bag := Analyze(prog, ir.ModeOwnership)
	require.Equal(t, 1, bag.Len())
	d := bag.Diagnostics()[0]
	assert.Equal(t, diag.CodeOwnershipCycle, d.Code)
	assert.Equal(t, diag.Error, d.Severity)
}

func TestAnalyzeSelfCycleIsDetected(t *testing.T) {
	prog := program(classDecl("Node", shareField("next", "Node")))
	bag := Analyze(prog, ir.ModeOwnership)
	require.Equal(t, 1, bag.Len())
	assert.Equal(t, diag.CodeOwnershipCycle, bag.Diagnostics()[0].Code)
}

func TestAnalyzeArrayOfShareContributesEdge(t *testing.T) {
	prog := program(
		classDecl("A", ir.FieldDecl{Name: "bs", Typ: ir.Array{Element: ir.NamedType{Name: "B", Ownership: ir.Share}, Ownership: ir.Value}}),
		classDecl("B", shareField("a", "A")),
	)
	bag := Analyze(prog, ir.ModeOwnership)
	require.Equal(t, 1, bag.Len())
	assert.Equal(t, diag.CodeOwnershipCycle, bag.Diagnostics()[0].Code)
}

func TestAnalyzeCycleIsWarningInGCMode(t *testing.T) {
	prog := program(
		classDecl("A", shareField("b", "B")),
		classDecl("B", shareField("a", "A")),
	)
	bag := Analyze(prog, ir.ModeGC)
	require.Equal(t, 1, bag.Len())
	assert.Equal(t, diag.Warning, bag.Diagnostics()[0].Severity)
	assert.False(t, bag.HasErrors())
}

func TestAnalyzeOwnDerivedToUseIsAllowed(t *testing.T) {
	fn := &ir.FunctionDecl{
		Name: "f",
		Body: ir.Body{Tree: &ir.StatementBlock{Stmts: []ir.Stmt{
			ir.VarDeclStmt{
				Name: "x",
				Typ:  ir.NamedType{Name: "Widget", Ownership: ir.Use},
				Init: ownedIdent("Widget"),
			},
		}}},
	}
	prog := program(ir.Declaration{Kind: ir.DeclFunction, Function: fn})
	bag := Analyze(prog, ir.ModeOwnership)
	assert.Equal(t, 0, bag.Len())
}

func TestAnalyzeOwnDerivedToOwnIsIllegal(t *testing.T) {
	fn := &ir.FunctionDecl{
		Name: "f",
		Body: ir.Body{Tree: &ir.StatementBlock{Stmts: []ir.Stmt{
			ir.VarDeclStmt{
				Name: "x",
				Typ:  ir.NamedType{Name: "Widget", Ownership: ir.Own},
				Init: ownedIdent("Widget"),
			},
		}}},
	}
	prog := program(ir.Declaration{Kind: ir.DeclFunction, Function: fn})
	bag := Analyze(prog, ir.ModeOwnership)
	require.Equal(t, 1, bag.Len())
	assert.Equal(t, diag.CodeIllegalDerivation, bag.Diagnostics()[0].Code)
}

func TestAnalyzeShareDerivedToShareIsAllowed(t *testing.T) {
	target := ir.Ident{Name: "w"}
	target.T = ir.NamedType{Name: "Widget", Ownership: ir.Share}
	fn := &ir.FunctionDecl{
		Name: "f",
		Body: ir.Body{Tree: &ir.StatementBlock{Stmts: []ir.Stmt{
			ir.AssignStmt{Target: target, Value: shareIdent("Widget")},
		}}},
	}
	prog := program(ir.Declaration{Kind: ir.DeclFunction, Function: fn})
	bag := Analyze(prog, ir.ModeOwnership)
	assert.Equal(t, 0, bag.Len())
}

func ownedIdent(className string) ir.Expr {
	out := ir.Ident{Name: "src"}
	out.T = ir.NamedType{Name: className, Ownership: ir.Own}
	return out
}

func shareIdent(className string) ir.Expr {
	out := ir.Ident{Name: "src"}
	out.T = ir.NamedType{Name: className, Ownership: ir.Share}
	return out
}
