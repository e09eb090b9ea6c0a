package sourceast

// This file carries the surface-syntax nodes that exist only so the
// good-parts validator (§4.1, internal/validator) has something concrete to
// reject. A front-end producing a fully good-parts-conformant program would
// never emit most of these; they are here because the validator's contract
// is to run over the *untrusted* typed AST before any later stage may
// assume a restricted subset.
//
// A few forbidden forms don't need a dedicated node at all because they are
// a property of an existing node: the implicit variadic pseudo-variable
// (code 103) is an Ident named "arguments"; primitive-wrapper construction
// (code 116) is a New whose ClassName is "Number", "String" or "Boolean";
// prototype/__proto__ access (code 126) is a Member whose Name is
// "prototype" or "__proto__"; `self`/`this` inside a free function (code
// 108) is an Ident named "this" or "self" reached from a FunctionDecl
// rather than a method or Lambda.

// With is a `with (obj) body` block. Code 101.
type With struct {
	base
	Subject Expression
	Body    *Block
}

func (*With) stmtNode() {}

// ForIn enumerates the keys of an object with source-dialect semantics.
// Code 104.
type ForIn struct {
	base
	VarName string
	Subject Expression
	Body    *Block
}

func (*ForIn) stmtNode() {}

// SwitchCase is one `case`/`default` arm of a Switch. Body is empty for a
// case that intentionally falls into the next one with no statements of its
// own (permitted); a non-empty Body not ending in break/return/throw/
// continue is what code 113 rejects.
type SwitchCase struct {
	// Value is nil for the `default` arm.
	Value Expression
	Body  []Statement
}

// Switch is a switch statement over Subject.
type Switch struct {
	base
	Subject Expression
	Cases   []SwitchCase
}

func (*Switch) stmtNode() {}

// Delete is the property-delete operator `delete obj.field`. Code 111.
type Delete struct {
	base
	Target Expression // a Member or Index
}

func (*Delete) exprNode()        {}
func (d *Delete) Type() SourceType { return PrimitiveType{Name: PrimVoid} }

// CommaExpr is the comma operator `a, b, c`, evaluated left to right with
// the value of the last operand. Code 112.
type CommaExpr struct {
	base
	Operands []Expression
	Typ      SourceType
}

func (c *CommaExpr) Type() SourceType { return c.Typ }
func (*CommaExpr) exprNode()         {}

// DynamicImport is `import(path)`. A literal-string Path is legal; any
// other expression is rejected as code 127 since the whole-program module
// graph must be statically discoverable.
type DynamicImport struct {
	base
	Path Expression
	Typ  SourceType
}

func (d *DynamicImport) Type() SourceType { return d.Typ }
func (*DynamicImport) exprNode()          {}

var (
	_ Statement  = (*With)(nil)
	_ Statement  = (*ForIn)(nil)
	_ Statement  = (*Switch)(nil)
	_ Expression = (*Delete)(nil)
	_ Expression = (*CommaExpr)(nil)
	_ Expression = (*DynamicImport)(nil)
)
