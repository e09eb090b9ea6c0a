package ir

import "github.com/cwbudde/nullforge/internal/diag"

// Stmt is a tree-tier statement (§3.5), used by the validator, the
// ownership analyzer, the null checker and the hoister. A function body
// starts life in this tier; an explicit SSA conversion (ssa.go,
// lowering.ToSSA) produces the CFG tier that the optimizer and backend
// consume.
type Stmt interface {
	Pos() diag.Position
	stmtNode()
}

type stmtBase struct{ P diag.Position }

func (s stmtBase) Pos() diag.Position { return s.P }

// VarDeclStmt binds a new name. IsDeclaration distinguishes the initial
// binding from a later reassignment of the same source name (§4.2); a
// VarDeclStmt is always a declaration (isDeclaration=true in the lowered
// `assign`), a plain AssignStmt never is.
type VarDeclStmt struct {
	stmtBase
	Name string
	Typ  Type
	Init Expr
}

func (VarDeclStmt) stmtNode() {}

// AssignStmt reassigns an already-declared place.
type AssignStmt struct {
	stmtBase
	Target Expr
	Value  Expr
}

func (AssignStmt) stmtNode() {}

type ExprStmt struct {
	stmtBase
	X Expr
}

func (ExprStmt) stmtNode() {}

type ReturnStmt struct {
	stmtBase
	Value Expr // nil for a bare return
}

func (ReturnStmt) stmtNode() {}

// StatementBlock is the tree-tier function/method body, or any nested
// `{ ... }` block.
type StatementBlock struct {
	stmtBase
	Stmts []Stmt
}

func (StatementBlock) stmtNode() {}

type IfStmt struct {
	stmtBase
	Cond       Expr
	Then, Else *StatementBlock // Else nil when absent
}

func (IfStmt) stmtNode() {}

type WhileStmt struct {
	stmtBase
	Cond Expr
	Body *StatementBlock
}

func (WhileStmt) stmtNode() {}

type ForStmt struct {
	stmtBase
	Init Stmt // VarDeclStmt or AssignStmt, may be nil
	Cond Expr
	Step Stmt // AssignStmt, may be nil
	Body *StatementBlock
}

func (ForStmt) stmtNode() {}

type ForOfStmt struct {
	stmtBase
	VarName string
	VarType Type
	Iter    Expr
	Body    *StatementBlock
}

func (ForOfStmt) stmtNode() {}

type CatchClause struct {
	ExceptionVar string
	ExceptionTyp Type // nil catches anything
	Body         *StatementBlock
}

type TryStmt struct {
	stmtBase
	Body    *StatementBlock
	Catches []CatchClause
	Finally *StatementBlock // nil when absent
}

func (TryStmt) stmtNode() {}

type ThrowStmt struct {
	stmtBase
	Value Expr
}

func (ThrowStmt) stmtNode() {}

type BreakStmt struct{ stmtBase }

func (BreakStmt) stmtNode() {}

type ContinueStmt struct{ stmtBase }

func (ContinueStmt) stmtNode() {}

// NestedFuncStmt declares a function at non-module scope; the hoister
// (§4.6) promotes the ones that qualify and leaves the rest for inline
// lambda lowering by the backend. Captures is populated by the hoister
// for a kept (non-promoted) function: the enclosing names it actually
// references, becoming its synthesized lambda's capture list.
type NestedFuncStmt struct {
	stmtBase
	Decl     *FunctionDecl
	Captures []string
}

func (NestedFuncStmt) stmtNode() {}

var (
	_ Stmt = VarDeclStmt{}
	_ Stmt = AssignStmt{}
	_ Stmt = ExprStmt{}
	_ Stmt = ReturnStmt{}
	_ Stmt = (*StatementBlock)(nil)
	_ Stmt = IfStmt{}
	_ Stmt = WhileStmt{}
	_ Stmt = ForStmt{}
	_ Stmt = ForOfStmt{}
	_ Stmt = TryStmt{}
	_ Stmt = ThrowStmt{}
	_ Stmt = BreakStmt{}
	_ Stmt = ContinueStmt{}
	_ Stmt = NestedFuncStmt{}
)
