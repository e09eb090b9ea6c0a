// Package sourceast models the typed AST the core consumes from the
// external surface front-end (§6.1 of the specification). The front-end
// itself — lexing, parsing, symbol resolution — is explicitly out of scope
// for this repository; this package exists only so the lowering stage
// (internal/lowering) and the stages downstream of it have something
// concrete to operate on, and so that tests can construct input programs by
// hand the way the teacher's parser tests build *ast.Program values.
//
// Every node here is assumed fully resolved: identifiers already point at
// their declaration, and every expression already carries a SourceType
// computed by the front-end's own type system (§6.1). Lowering translates
// SourceType into internal/ir.Type; it never infers types itself.
package sourceast

import "github.com/cwbudde/nullforge/internal/diag"

// Node is the base interface implemented by every AST node.
type Node interface {
	Pos() diag.Position
}

// Expression is any node that yields a value and carries a resolved
// SourceType, assigned by the external front-end.
type Expression interface {
	Node
	Type() SourceType
	exprNode()
}

// Statement is any node that performs an action without itself yielding a
// value.
type Statement interface {
	Node
	stmtNode()
}

// Declaration is one of Const, Function, Class, Interface, TypeAlias
// (§3.3).
type Declaration interface {
	Node
	DeclName() string
	declNode()
}

// base embeds a position on every concrete node so individual node structs
// don't each redeclare the same three lines.
type base struct {
	P diag.Position
}

func (b base) Pos() diag.Position { return b.P }
