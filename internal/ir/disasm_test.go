package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisassembleToStringPrintsTreeTierBody(t *testing.T) {
	prog := &Program{Modules: []*Module{{
		Path: "main",
		Declarations: []Declaration{{
			Kind: DeclFunction,
			Function: &FunctionDecl{
				Name:       "answer",
				ReturnType: Primitive{Kind: KindNumber},
				Body: Body{Tree: &StatementBlock{Stmts: []Stmt{
					ReturnStmt{Value: Literal{Kind: LitNumber, Number: 42}},
				}}},
			},
		}},
	}}}

	out := DisassembleToString(prog)
	assert.Contains(t, out, "== main ==")
	assert.Contains(t, out, "function answer()")
	assert.Contains(t, out, "return 42")
}

func TestDisassembleToStringPrintsSSATierBlocks(t *testing.T) {
	target := Variable{Name: "x", Version: 0, Typ: Primitive{Kind: KindNumber}}
	prog := &Program{Modules: []*Module{{
		Path: "main",
		Declarations: []Declaration{{
			Kind: DeclFunction,
			Function: &FunctionDecl{
				Name:       "run",
				ReturnType: Primitive{Kind: KindVoid},
				Body: Body{SSA: &CFG{Blocks: []*BasicBlock{{
					ID: 0,
					Instructions: []Instruction{
						AssignInstr{Target: target, Value: Literal{Kind: LitNumber, Number: 1}, IsDeclaration: true},
					},
					Terminator: ReturnTerm{},
				}}}},
			},
		}},
	}}}

	out := DisassembleToString(prog)
	assert.Contains(t, out, "block0:")
	assert.Contains(t, out, "x.0 := 1")
	assert.Contains(t, out, "return")
}

func TestDisassembleToStringPrintsClassFieldsAndMethods(t *testing.T) {
	prog := &Program{Modules: []*Module{{
		Path: "main",
		Declarations: []Declaration{{
			Kind: DeclClass,
			Class: &ClassDecl{
				Name:   "Node",
				Fields: []FieldDecl{{Name: "next", Typ: NamedType{Name: "Node", Ownership: Share}}},
			},
		}},
	}}}

	out := DisassembleToString(prog)
	assert.Contains(t, out, "class Node")
	assert.Contains(t, out, "field next:")
}
