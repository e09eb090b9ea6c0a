package backend

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/nullforge/internal/config"
	"github.com/cwbudde/nullforge/internal/ir"
)

func numLit(n float64) ir.Literal {
	out := ir.Literal{Kind: ir.LitNumber, Number: n}
	out.T = ir.Primitive{Kind: ir.KindNumber}
	return out
}

func returnBody(v ir.Expr) ir.Body {
	blk := &ir.BasicBlock{ID: 0, Terminator: ir.ReturnTerm{Value: v}}
	return ir.Body{SSA: &ir.CFG{Blocks: []*ir.BasicBlock{blk}}}
}

func simpleProgram(fn *ir.FunctionDecl) *ir.Program {
	p := ir.NewProgram(ir.ModeGC)
	p.Modules = append(p.Modules, &ir.Module{
		Path:         "main",
		Declarations: []ir.Declaration{{Kind: ir.DeclFunction, Function: fn}},
	})
	return p
}

func TestEmitFreeFunctionReturningLiteral(t *testing.T) {
	fn := &ir.FunctionDecl{
		Name:       "answer",
		ReturnType: ir.Primitive{Kind: ir.KindNumber},
		Body:       returnBody(numLit(42)),
	}
	prog := simpleProgram(fn)
	out, err := Emit(prog, Entry{Module: "main", Function: "answer"}, config.Default())
	require.NoError(t, err)
	require.Len(t, out.Modules, 1)
	assert.Contains(t, out.Modules[0].Header, "double answer();")
	assert.Contains(t, out.Modules[0].Source, "return 42;")
	assert.Contains(t, out.Main, "main::answer();")
}

func TestEmitIsDeterministicAcrossRepeatedCalls(t *testing.T) {
	fn := &ir.FunctionDecl{
		Name:       "answer",
		ReturnType: ir.Primitive{Kind: ir.KindNumber},
		Body:       returnBody(numLit(42)),
	}
	prog := simpleProgram(fn)
	entry := Entry{Module: "main", Function: "answer"}

	first, err := Emit(prog, entry, config.Default())
	require.NoError(t, err)
	second, err := Emit(prog, entry, config.Default())
	require.NoError(t, err)

	if first.Modules[0].Source != second.Modules[0].Source {
		diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(first.Modules[0].Source),
			B:        difflib.SplitLines(second.Modules[0].Source),
			FromFile: "first-emit",
			ToFile:   "second-emit",
			Context:  3,
		})
		t.Fatalf("backend emission is not deterministic:\n%s", diff)
	}
	assert.Equal(t, first.Modules[0].Header, second.Modules[0].Header)
	assert.Equal(t, first.Main, second.Main)
}

func TestEmitAsyncFunctionWithNoAwaitStillUsesCoroutineReturn(t *testing.T) {
	fn := &ir.FunctionDecl{
		Name:       "fortyTwo",
		ReturnType: ir.Promise{Result: ir.Primitive{Kind: ir.KindInteger}},
		Async:      true,
		Body:       returnBody(numLit(42)),
	}
	prog := simpleProgram(fn)
	out, err := Emit(prog, Entry{Module: "main", Function: "fortyTwo"}, config.Default())
	require.NoError(t, err)
	assert.Contains(t, out.Modules[0].Header, "nf::Task<int32_t> fortyTwo();")
	assert.Contains(t, out.Modules[0].Source, "co_return 42;")
}

func TestEmitMemberOnArrayDispatchesToSizeMethod(t *testing.T) {
	arrIdent := ir.Ident{Name: "xs"}
	arrIdent.T = ir.Array{Element: ir.Primitive{Kind: ir.KindNumber}, Ownership: ir.Value}
	member := ir.Member{Receiver: arrIdent, Name: "length"}
	member.T = ir.Primitive{Kind: ir.KindInteger}

	fn := &ir.FunctionDecl{
		Name:       "count",
		ReturnType: ir.Primitive{Kind: ir.KindInteger},
		Params:     []ir.Param{{Name: "xs", Typ: ir.Array{Element: ir.Primitive{Kind: ir.KindNumber}, Ownership: ir.Value}}},
		Body:       returnBody(member),
	}
	prog := simpleProgram(fn)
	out, err := Emit(prog, Entry{Module: "main", Function: "count"}, config.Default())
	require.NoError(t, err)
	assert.Contains(t, out.Modules[0].Source, "xs.size()")
}

func TestEmitMemberOnStructWithFieldNamedSizeStaysFieldAccess(t *testing.T) {
	widgetIdent := ir.Ident{Name: "w"}
	widgetIdent.T = ir.NamedType{Name: "Widget", Ownership: ir.Own}
	member := ir.Member{Receiver: widgetIdent, Name: "size"}
	member.T = ir.Primitive{Kind: ir.KindInteger}

	fn := &ir.FunctionDecl{
		Name:       "peek",
		ReturnType: ir.Primitive{Kind: ir.KindInteger},
		Params:     []ir.Param{{Name: "w", Typ: ir.NamedType{Name: "Widget", Ownership: ir.Own}}},
		Body:       returnBody(member),
	}
	prog := simpleProgram(fn)
	out, err := Emit(prog, Entry{Module: "main", Function: "peek"}, config.Default())
	require.NoError(t, err)
	assert.Contains(t, out.Modules[0].Source, "w.size;")
	assert.NotContains(t, out.Modules[0].Source, "w.size()")
}

func TestEmitRejectsTreeTierBodyAsInternalError(t *testing.T) {
	fn := &ir.FunctionDecl{
		Name:       "broken",
		ReturnType: ir.Primitive{Kind: ir.KindVoid},
		Body:       ir.Body{Tree: &ir.StatementBlock{}},
	}
	prog := simpleProgram(fn)
	_, err := Emit(prog, Entry{Module: "main", Function: "broken"}, config.Default())
	assert.Error(t, err)
}

func TestEmitEmptyProgramProducesNoOpMain(t *testing.T) {
	prog := ir.NewProgram(ir.ModeGC)
	out, err := Emit(prog, Entry{}, config.Default())
	require.NoError(t, err)
	assert.Empty(t, out.Modules)
	assert.Contains(t, out.Main, "int main() {\n    return 0;\n}")
}

func TestEmitBranchLowersToGotoPair(t *testing.T) {
	cond := ir.Ident{Name: "flag"}
	cond.T = ir.Primitive{Kind: ir.KindBoolean}
	entryBlk := &ir.BasicBlock{ID: 0, Terminator: ir.BranchTerm{Cond: cond, TrueBlock: 1, FalseBlock: 2}}
	thenBlk := &ir.BasicBlock{ID: 1, Terminator: ir.ReturnTerm{Value: numLit(1)}}
	elseBlk := &ir.BasicBlock{ID: 2, Terminator: ir.ReturnTerm{Value: numLit(0)}}
	fn := &ir.FunctionDecl{
		Name:       "sign",
		ReturnType: ir.Primitive{Kind: ir.KindNumber},
		Params:     []ir.Param{{Name: "flag", Typ: ir.Primitive{Kind: ir.KindBoolean}}},
		Body:       ir.Body{SSA: &ir.CFG{Blocks: []*ir.BasicBlock{entryBlk, thenBlk, elseBlk}}},
	}
	prog := simpleProgram(fn)
	out, err := Emit(prog, Entry{Module: "main", Function: "sign"}, config.Default())
	require.NoError(t, err)
	assert.Contains(t, out.Modules[0].Source, "if (flag) goto block_1; else goto block_2;")
}

func TestEmitHeaderAndSourceSnapshot(t *testing.T) {
	fn := &ir.FunctionDecl{
		Name:       "answer",
		ReturnType: ir.Primitive{Kind: ir.KindNumber},
		Body:       returnBody(numLit(42)),
	}
	prog := simpleProgram(fn)
	out, err := Emit(prog, Entry{Module: "main", Function: "answer"}, config.Default())
	require.NoError(t, err)
	snaps.MatchSnapshot(t, "header", out.Modules[0].Header)
	snaps.MatchSnapshot(t, "source", out.Modules[0].Source)
	snaps.MatchSnapshot(t, "main", out.Main)
}
