package nullforge_test

import (
	"fmt"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/nullforge/internal/sourceast"
	"github.com/cwbudde/nullforge/pkg/nullforge"
)

func numberType() sourceast.SourceType {
	return sourceast.PrimitiveType{Name: sourceast.PrimNumber}
}

func answerProgram() *sourceast.Program {
	fn := &sourceast.FunctionDecl{
		Name:       "answer",
		ReturnType: numberType(),
		Body: &sourceast.Block{Stmts: []sourceast.Statement{&sourceast.Return{
			Value: &sourceast.Literal{Kind: sourceast.PrimNumber, Number: 42, Typ: numberType()},
		}}},
	}
	return &sourceast.Program{Modules: []*sourceast.Module{
		{Path: "main", Declarations: []sourceast.Declaration{fn}},
	}}
}

// Example shows compiling a single free function to C++.
func Example() {
	engine, err := nullforge.New()
	if err != nil {
		log.Fatal(err)
	}

	result, err := engine.Compile(answerProgram(), nullforge.Entry{Module: "main", Function: "answer"})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(result.HasErrors())
	// Output: false
}

func TestCompileProducesCppOutput(t *testing.T) {
	engine, err := nullforge.New()
	require.NoError(t, err)

	result, err := engine.Compile(answerProgram(), nullforge.Entry{Module: "main", Function: "answer"})
	require.NoError(t, err)
	require.False(t, result.HasErrors())
	require.Len(t, result.Output.Modules, 1)
	assert.Contains(t, result.Output.Modules[0].Source, "return 42;")
}

func TestCompileWithOwnershipModeOption(t *testing.T) {
	engine, err := nullforge.New(nullforge.WithMemoryMode("ownership"))
	require.NoError(t, err)

	result, err := engine.Compile(answerProgram(), nullforge.Entry{Module: "main", Function: "answer"})
	require.NoError(t, err)
	require.False(t, result.HasErrors())
}

func TestNewRejectsUnknownMemoryMode(t *testing.T) {
	_, err := nullforge.New(nullforge.WithMemoryMode("bogus"))
	assert.Error(t, err)
}

func TestCompileSurfacesValidatorDiagnosticsWithoutInternalTypes(t *testing.T) {
	fn := &sourceast.FunctionDecl{
		Name:       "broken",
		ReturnType: sourceast.PrimitiveType{Name: sourceast.PrimBoolean},
		Body: &sourceast.Block{Stmts: []sourceast.Statement{&sourceast.Return{
			Value: &sourceast.Binary{
				Op:   sourceast.OpWeakEq,
				Left: &sourceast.Literal{Kind: sourceast.PrimNumber, Number: 1, Typ: numberType()},
				Right: &sourceast.Literal{Kind: sourceast.PrimNumber, Number: 1, Typ: numberType()},
			},
		}}},
	}
	prog := &sourceast.Program{Modules: []*sourceast.Module{
		{Path: "main", Declarations: []sourceast.Declaration{fn}},
	}}

	engine, err := nullforge.New()
	require.NoError(t, err)
	result, err := engine.Compile(prog, nullforge.Entry{Module: "main", Function: "broken"})
	require.NoError(t, err)
	assert.True(t, result.HasErrors())
	assert.Nil(t, result.Output)
	found := false
	for _, d := range result.Diagnostics {
		if d.Code == "106" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCompileRejectsNilProgram(t *testing.T) {
	engine, err := nullforge.New()
	require.NoError(t, err)
	_, err = engine.Compile(nil, nullforge.Entry{})
	assert.Error(t, err)
}
