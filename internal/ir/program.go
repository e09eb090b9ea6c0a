package ir

import "github.com/cwbudde/nullforge/internal/diag"

// Param is an IR function parameter: name plus resolved type (§3.4).
type Param struct {
	Name string
	Typ  Type
}

// Body is a function body in one of the two tiers described by §3.5.
// Exactly one of Tree or SSA is non-nil at any time; which one a given
// stage requires is documented on that stage's package doc comment.
type Body struct {
	Tree *StatementBlock
	SSA  *CFG
}

// FunctionDecl is a function or method declaration (§3.4). ClassName is
// empty for a free function; IsStatic is meaningful only when ClassName is
// set.
type FunctionDecl struct {
	Pos        diag.Position
	Name       string
	ClassName  string
	Params     []Param
	ReturnType Type
	Body       Body
	Async      bool
	IsStatic   bool
}

// FieldDecl is one class field (§3.4).
type FieldDecl struct {
	Name     string
	Typ      Type
	ReadOnly bool
	Init     Expr // nil when there is no initializer
}

// Constructor is a class's constructor (§3.4).
type Constructor struct {
	Params []Param
	Body   Body
}

// ClassDecl is a class declaration (§3.4).
type ClassDecl struct {
	Pos         diag.Position
	Name        string
	Fields      []FieldDecl
	Methods     []*FunctionDecl
	Constructor *Constructor // nil when the class has no explicit constructor
	Parent      string       // empty when the class has no parent
	Implements  []string
	TypeParams  []string
}

// InterfaceProperty is one property signature (§3.4).
type InterfaceProperty struct {
	Name string
	Typ  Type
}

// InterfaceMethod is one method signature (§3.4).
type InterfaceMethod struct {
	Name       string
	Params     []Param
	ReturnType Type
}

// InterfaceDecl is an interface declaration (§3.4).
type InterfaceDecl struct {
	Pos        diag.Position
	Name       string
	Properties []InterfaceProperty
	Methods    []InterfaceMethod
	Extends    []string
}

// TypeAliasDecl is `type Name = AliasedType` (§3.4).
type TypeAliasDecl struct {
	Pos     diag.Position
	Name    string
	Aliased Type
}

// ConstDecl is a module-level constant (§3.4).
type ConstDecl struct {
	Pos  diag.Position
	Name string
	Typ  Type
	Init Expr
}

// Declaration is one of Const, Function, Class, Interface, TypeAlias
// (§3.3). Exactly one field is set per Declaration value; DeclKind reports
// which.
type DeclKind int

const (
	DeclConst DeclKind = iota
	DeclFunction
	DeclClass
	DeclInterface
	DeclTypeAlias
)

type Declaration struct {
	Kind      DeclKind
	Const     *ConstDecl
	Function  *FunctionDecl
	Class     *ClassDecl
	Interface *InterfaceDecl
	TypeAlias *TypeAliasDecl
}

// Name returns the declared name regardless of kind.
func (d Declaration) Name() string {
	switch d.Kind {
	case DeclConst:
		return d.Const.Name
	case DeclFunction:
		return d.Function.Name
	case DeclClass:
		return d.Class.Name
	case DeclInterface:
		return d.Interface.Name
	case DeclTypeAlias:
		return d.TypeAlias.Name
	default:
		return ""
	}
}

// ImportedName is one imported symbol, with an optional local alias
// (§3.3).
type ImportedName struct {
	Name  string
	Alias string
}

// Import is one module's import clause (§3.3).
type Import struct {
	FromModule string
	Names      []ImportedName
}

// Module carries a path, its imports, and an ordered declaration list
// (§3.3).
type Module struct {
	Path         string
	Imports      []Import
	Declarations []Declaration
}

// Program owns an ordered list of Modules (§3.3) plus the anonymous-record
// table shared across all of them (§4.2, §9).
type Program struct {
	Modules  []*Module
	Records  *Table
	Mode     MemoryMode
}

// NewProgram creates an empty Program with a fresh anonymous-record table.
func NewProgram(mode MemoryMode) *Program {
	return &Program{Records: NewTable(), Mode: mode}
}
