package nullcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/nullforge/internal/diag"
	"github.com/cwbudde/nullforge/internal/ir"
)

func program(decls ...ir.Declaration) *ir.Program {
	p := ir.NewProgram(ir.ModeOwnership)
	p.Modules = append(p.Modules, &ir.Module{Path: "main", Declarations: decls})
	return p
}

func useType(name string) ir.Type { return ir.NamedType{Name: name, Ownership: ir.Use} }

func TestCheckSkipsEntirelyInGCMode(t *testing.T) {
	prog := program(ir.Declaration{Kind: ir.DeclClass, Class: &ir.ClassDecl{
		Name:   "Widget",
		Fields: []ir.FieldDecl{{Name: "owner", Typ: useType("Owner")}},
	}})
	bag := Check(prog, ir.ModeGC)
	assert.Equal(t, 0, bag.Len())
}

func TestCheckRejectsUseTaggedClassField(t *testing.T) {
	prog := program(ir.Declaration{Kind: ir.DeclClass, Class: &ir.ClassDecl{
		Name:   "Widget",
		Fields: []ir.FieldDecl{{Name: "owner", Typ: useType("Owner")}},
	}})
	bag := Check(prog, ir.ModeOwnership)
	require.Equal(t, 1, bag.Len())
	assert.Equal(t, diag.CodeUseFieldEscape, bag.Diagnostics()[0].Code)
}

func TestCheckRejectsUseTaggedInterfaceProperty(t *testing.T) {
	prog := program(ir.Declaration{Kind: ir.DeclInterface, Interface: &ir.InterfaceDecl{
		Name:       "HasOwner",
		Properties: []ir.InterfaceProperty{{Name: "owner", Typ: useType("Owner")}},
	}})
	bag := Check(prog, ir.ModeOwnership)
	require.Equal(t, 1, bag.Len())
	assert.Equal(t, diag.CodeUseFieldEscape, bag.Diagnostics()[0].Code)
}

func TestCheckRejectsUseInsideArrayField(t *testing.T) {
	prog := program(ir.Declaration{Kind: ir.DeclClass, Class: &ir.ClassDecl{
		Name: "Widget",
		Fields: []ir.FieldDecl{{Name: "owners", Typ: ir.Array{
			Element: useType("Owner"), Ownership: ir.Value,
		}}},
	}})
	bag := Check(prog, ir.ModeOwnership)
	require.Equal(t, 1, bag.Len())
	assert.Equal(t, diag.CodeUseFieldEscape, bag.Diagnostics()[0].Code)
}

func TestCheckAllowsOwnTaggedField(t *testing.T) {
	prog := program(ir.Declaration{Kind: ir.DeclClass, Class: &ir.ClassDecl{
		Name:   "Widget",
		Fields: []ir.FieldDecl{{Name: "child", Typ: ir.NamedType{Name: "Child", Ownership: ir.Own}}},
	}})
	bag := Check(prog, ir.ModeOwnership)
	assert.Equal(t, 0, bag.Len())
}

func TestCheckRejectsUseReturnType(t *testing.T) {
	fn := &ir.FunctionDecl{Name: "borrow", ReturnType: useType("Owner")}
	bag := Check(program(ir.Declaration{Kind: ir.DeclFunction, Function: fn}), ir.ModeOwnership)
	require.Equal(t, 1, bag.Len())
	assert.Equal(t, diag.CodeUseReturnType, bag.Diagnostics()[0].Code)
}

func TestCheckRejectsDirectReturnOfUseParam(t *testing.T) {
	param := ir.Param{Name: "o", Typ: useType("Owner")}
	ret := ir.Ident{Name: "o"}
	ret.T = useType("Owner")
	fn := &ir.FunctionDecl{
		Name:       "peek",
		Params:     []ir.Param{param},
		ReturnType: ir.Primitive{Kind: ir.KindVoid},
		Body: ir.Body{Tree: &ir.StatementBlock{Stmts: []ir.Stmt{
			ir.ReturnStmt{Value: ret},
		}}},
	}
	bag := Check(program(ir.Declaration{Kind: ir.DeclFunction, Function: fn}), ir.ModeOwnership)
	require.Equal(t, 1, bag.Len())
	assert.Equal(t, diag.CodeUseReturnValue, bag.Diagnostics()[0].Code)
}

func TestCheckAllowsReturnOfOwnParam(t *testing.T) {
	param := ir.Param{Name: "o", Typ: ir.NamedType{Name: "Owner", Ownership: ir.Own}}
	ret := ir.Ident{Name: "o"}
	ret.T = ir.NamedType{Name: "Owner", Ownership: ir.Own}
	fn := &ir.FunctionDecl{
		Name:       "take",
		Params:     []ir.Param{param},
		ReturnType: ir.NamedType{Name: "Owner", Ownership: ir.Own},
		Body: ir.Body{Tree: &ir.StatementBlock{Stmts: []ir.Stmt{
			ir.ReturnStmt{Value: ret},
		}}},
	}
	bag := Check(program(ir.Declaration{Kind: ir.DeclFunction, Function: fn}), ir.ModeOwnership)
	assert.Equal(t, 0, bag.Len())
}

func TestCheckIgnoresIndirectReturnThroughMemberAccess(t *testing.T) {
	// §4.4: indirect flow through member access is explicitly out of scope.
	param := ir.Param{Name: "o", Typ: useType("Owner")}
	member := ir.Member{Receiver: identExpr("o"), Name: "child"}
	member.T = ir.NamedType{Name: "Child", Ownership: ir.Own}
	fn := &ir.FunctionDecl{
		Name:       "peekChild",
		Params:     []ir.Param{param},
		ReturnType: ir.NamedType{Name: "Child", Ownership: ir.Own},
		Body: ir.Body{Tree: &ir.StatementBlock{Stmts: []ir.Stmt{
			ir.ReturnStmt{Value: member},
		}}},
	}
	bag := Check(program(ir.Declaration{Kind: ir.DeclFunction, Function: fn}), ir.ModeOwnership)
	assert.Equal(t, 0, bag.Len())
}

func identExpr(name string) ir.Expr {
	out := ir.Ident{Name: name}
	out.T = useType("Owner")
	return out
}
