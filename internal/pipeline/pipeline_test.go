package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/nullforge/internal/backend"
	"github.com/cwbudde/nullforge/internal/config"
	"github.com/cwbudde/nullforge/internal/sourceast"
)

func numberType() sourceast.SourceType {
	return sourceast.PrimitiveType{Name: sourceast.PrimNumber}
}

func numberLit(n float64) *sourceast.Literal {
	return &sourceast.Literal{Kind: sourceast.PrimNumber, Number: n, Typ: numberType()}
}

func program(fn *sourceast.FunctionDecl) *sourceast.Program {
	return &sourceast.Program{Modules: []*sourceast.Module{
		{Path: "main", Declarations: []sourceast.Declaration{fn}},
	}}
}

func TestRunCompilesAFreeFunctionToCpp(t *testing.T) {
	fn := &sourceast.FunctionDecl{
		Name:       "answer",
		ReturnType: numberType(),
		Body:       &sourceast.Block{Stmts: []sourceast.Statement{&sourceast.Return{Value: numberLit(42)}}},
	}
	result, bag, err := Run(program(fn), backend.Entry{Module: "main", Function: "answer"}, config.Default())
	require.NoError(t, err)
	require.False(t, bag.HasErrors())
	require.NotNil(t, result)
	require.Len(t, result.Output.Modules, 1)
	assert.Contains(t, result.Output.Modules[0].Source, "return 42;")
	assert.Contains(t, result.Output.Main, "main::answer();")
}

func TestRunAbortsAtValidatorOnWeakEquality(t *testing.T) {
	fn := &sourceast.FunctionDecl{
		Name:       "broken",
		ReturnType: sourceast.PrimitiveType{Name: sourceast.PrimBoolean},
		Body: &sourceast.Block{Stmts: []sourceast.Statement{&sourceast.Return{
			Value: &sourceast.Binary{Op: sourceast.OpWeakEq, Left: numberLit(1), Right: numberLit(1)},
		}}},
	}
	result, bag, err := Run(program(fn), backend.Entry{Module: "main", Function: "broken"}, config.Default())
	require.NoError(t, err)
	assert.Nil(t, result)
	require.True(t, bag.HasErrors())
	found := false
	for _, d := range bag.Diagnostics() {
		if d.Code == "106" {
			found = true
		}
	}
	assert.True(t, found, "expected weak-equality diagnostic 106")
}

func TestRunDoesNotReachBackendWhenValidatorFails(t *testing.T) {
	// A validator failure must stop the pipeline before lowering ever runs,
	// so no backend diagnostic (502) should appear alongside the validator
	// one.
	fn := &sourceast.FunctionDecl{
		Name:       "broken",
		ReturnType: sourceast.PrimitiveType{Name: sourceast.PrimBoolean},
		Body: &sourceast.Block{Stmts: []sourceast.Statement{&sourceast.Return{
			Value: &sourceast.Binary{Op: sourceast.OpWeakEq, Left: numberLit(1), Right: numberLit(1)},
		}}},
	}
	_, bag, err := Run(program(fn), backend.Entry{Module: "main", Function: "broken"}, config.Default())
	require.NoError(t, err)
	for _, d := range bag.Diagnostics() {
		assert.NotEqual(t, "502", string(d.Code))
		assert.NotEqual(t, "501", string(d.Code))
	}
}

func TestRunEmptyProgramProducesNoOpMain(t *testing.T) {
	result, bag, err := Run(&sourceast.Program{}, backend.Entry{}, config.Default())
	require.NoError(t, err)
	require.False(t, bag.HasErrors())
	require.NotNil(t, result)
	assert.Empty(t, result.Output.Modules)
	assert.Contains(t, result.Output.Main, "int main() {\n    return 0;\n}")
}

func TestRunRecursiveNestedFunctionIsHoistedBeforeEmission(t *testing.T) {
	// fib, declared inside run, calls itself and captures nothing from run's
	// scope, so it must be hoisted to module scope (§4.6) and therefore
	// appear as its own free function in the emitted module rather than
	// inline in run's body.
	fib := &sourceast.FunctionDecl{
		Name:       "fib",
		Params:     []sourceast.Param{{Name: "n", Type: numberType()}},
		ReturnType: numberType(),
		Body: &sourceast.Block{Stmts: []sourceast.Statement{&sourceast.Return{
			Value: &sourceast.Call{
				Callee: &sourceast.Ident{Name: "fib", Typ: numberType()},
				Args:   []sourceast.Expression{numberLit(1)},
			},
		}}},
	}
	run := &sourceast.FunctionDecl{
		Name:       "run",
		ReturnType: sourceast.PrimitiveType{Name: sourceast.PrimVoid},
		Body: &sourceast.Block{Stmts: []sourceast.Statement{
			&sourceast.FuncDeclStmt{Decl: fib},
			&sourceast.Return{},
		}},
	}
	result, bag, err := Run(program(run), backend.Entry{Module: "main", Function: "run"}, config.Default())
	require.NoError(t, err)
	require.False(t, bag.HasErrors())
	require.NotNil(t, result)
	assert.Contains(t, result.Output.Modules[0].Header, "double fib(double n);")
}
