package ir

import "github.com/cwbudde/nullforge/internal/diag"

// Expr is the expression universe shared by the tree and SSA tiers (§3.5),
// excluding the SSA-only MoveValue/BorrowValue nodes which appear only as
// instruction right-hand sides (see ssa.go).
type Expr interface {
	Pos() diag.Position
	Type() Type
	exprNode()
}

type exprBase struct {
	P diag.Position
	T Type
}

func (e exprBase) Pos() diag.Position { return e.P }
func (e exprBase) Type() Type         { return e.T }

// LiteralKind distinguishes which field of Literal is meaningful.
type LiteralKind int

const (
	LitNumber LiteralKind = iota
	LitString
	LitBoolean
	LitNull
	LitUndefined
)

type Literal struct {
	exprBase
	Kind    LiteralKind
	Number  float64
	Str     string
	Boolean bool
}

func (Literal) exprNode() {}

// Ident is a reference to a variable or parameter in the tree tier. In the
// SSA tier, references instead go through VarRef (ssa.go) which also
// carries an SSA version.
type Ident struct {
	exprBase
	Name string
}

func (Ident) exprNode() {}

type BinaryOp string

const (
	OpAdd BinaryOp = "+"
	OpSub BinaryOp = "-"
	OpMul BinaryOp = "*"
	OpDiv BinaryOp = "/"
	OpMod BinaryOp = "%"
	OpEq  BinaryOp = "=="
	OpNe  BinaryOp = "!="
	OpLt  BinaryOp = "<"
	OpLe  BinaryOp = "<="
	OpGt  BinaryOp = ">"
	OpGe  BinaryOp = ">="
	OpAnd BinaryOp = "&&"
	OpOr  BinaryOp = "||"
)

type Binary struct {
	exprBase
	Op          BinaryOp
	Left, Right Expr
}

func (Binary) exprNode() {}

type UnaryOp string

const (
	OpNot    UnaryOp = "!"
	OpNeg    UnaryOp = "-"
	OpPos    UnaryOp = "+"
	OpTypeof UnaryOp = "typeof"
)

type Unary struct {
	exprBase
	Op      UnaryOp
	Operand Expr
}

func (Unary) exprNode() {}

type Conditional struct {
	exprBase
	Cond, Then, Else Expr
}

func (Conditional) exprNode() {}

type Call struct {
	exprBase
	Callee Expr
	Args   []Expr
}

func (Call) exprNode() {}

// MethodCall is kept distinct from a Call on a Member to preserve vtable
// dispatch intent through to the backend (§4.2, §4.7).
type MethodCall struct {
	exprBase
	Receiver Expr
	Method   string
	Args     []Expr
}

func (MethodCall) exprNode() {}

// Member is a field or property access. The backend decides, by inspecting
// the receiver's Type (never the member name), whether this compiles to a
// struct field load or to a method call on a managed collection (§4.7).
type Member struct {
	exprBase
	Receiver Expr
	Name     string
}

func (Member) exprNode() {}

type Index struct {
	exprBase
	Receiver, Key Expr
}

func (Index) exprNode() {}

type New struct {
	exprBase
	ClassName string
	Args      []Expr
}

func (New) exprNode() {}

type ArrayLiteral struct {
	exprBase
	Elements []Expr
}

func (ArrayLiteral) exprNode() {}

type ObjectField struct {
	Name  string
	Value Expr
}

// Object is an object-literal expression. Typ (via exprBase.T) is always a
// Record — either the program's contextual record type, or the
// anonymous.Table-interned structural record (§4.2).
type Object struct {
	exprBase
	Fields []ObjectField
}

func (Object) exprNode() {}

type LambdaParam struct {
	Name string
	Type Type
}

// Lambda is an arrow function value. Captures is the (possibly empty)
// explicit capture list the lowerer recorded; non-trivial capture analysis
// for recursive nested functions belongs to the hoister (§4.2, §4.6).
// Body always stays in the tree tier: SSA conversion copies a Lambda
// through unchanged, and the backend renders its body with native control
// flow.
type Lambda struct {
	exprBase
	Params   []LambdaParam
	Body     *StatementBlock
	Captures []string
}

func (Lambda) exprNode() {}

type Await struct {
	exprBase
	Operand Expr
}

func (Await) exprNode() {}

// TemplateSegment mirrors sourceast.TemplateSegment but with a resolved
// ToStringNeeded flag instead of relying on the backend to re-derive it:
// §4.2 requires non-string operands to carry an explicit "to-string"
// marker.
type TemplateSegment struct {
	Literal         string
	Expr            Expr
	ToStringNeeded  bool
}

type TemplateConcat struct {
	exprBase
	Segments []TemplateSegment
}

func (TemplateConcat) exprNode() {}

var (
	_ Expr = Literal{}
	_ Expr = Ident{}
	_ Expr = Binary{}
	_ Expr = Unary{}
	_ Expr = Conditional{}
	_ Expr = Call{}
	_ Expr = MethodCall{}
	_ Expr = Member{}
	_ Expr = Index{}
	_ Expr = New{}
	_ Expr = ArrayLiteral{}
	_ Expr = Object{}
	_ Expr = Lambda{}
	_ Expr = Await{}
	_ Expr = TemplateConcat{}
)
