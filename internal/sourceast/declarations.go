package sourceast

// Param is a function parameter: name plus resolved type (§3.4).
type Param struct {
	Name string
	Type SourceType
}

// FunctionDecl is a top-level or method function/procedure declaration
// (§3.4). Body may be nil; interface method signatures are
// InterfaceMethod values, not FunctionDecls.
type FunctionDecl struct {
	base
	Name       string
	Params     []Param
	ReturnType SourceType
	Body       *Block
	Async      bool
	IsStatic   bool // meaningful only as a Class method
}

func (f *FunctionDecl) DeclName() string { return f.Name }
func (*FunctionDecl) declNode()          {}

// Field is one class field: name, type, readonly flag, optional
// initializer (§3.4).
type Field struct {
	Name     string
	Type     SourceType
	ReadOnly bool
	Init     Expression
}

// Constructor is a class's constructor (§3.4).
type Constructor struct {
	Params []Param
	Body   *Block
}

// ClassDecl is a class declaration (§3.4).
type ClassDecl struct {
	base
	Name        string
	Fields      []Field
	Methods     []*FunctionDecl
	Constructor *Constructor
	Parent      string // empty when there is no parent
	Implements  []string
	TypeParams  []string
}

func (c *ClassDecl) DeclName() string { return c.Name }
func (*ClassDecl) declNode()          {}

// InterfaceProperty is one property signature of an Interface.
type InterfaceProperty struct {
	Name string
	Type SourceType
}

// InterfaceMethod is one method signature of an Interface.
type InterfaceMethod struct {
	Name       string
	Params     []Param
	ReturnType SourceType
}

// InterfaceDecl is an interface declaration (§3.4).
type InterfaceDecl struct {
	base
	Name       string
	Properties []InterfaceProperty
	Methods    []InterfaceMethod
	Extends    []string
}

func (i *InterfaceDecl) DeclName() string { return i.Name }
func (*InterfaceDecl) declNode()          {}

// TypeAliasDecl is `type Name = AliasedType` (§3.4).
type TypeAliasDecl struct {
	base
	Name    string
	Aliased SourceType
}

func (t *TypeAliasDecl) DeclName() string { return t.Name }
func (*TypeAliasDecl) declNode()          {}

// ConstDecl is a module-level constant (§3.4).
type ConstDecl struct {
	base
	Name string
	Type SourceType
	Init Expression
}

func (c *ConstDecl) DeclName() string { return c.Name }
func (*ConstDecl) declNode()          {}

var (
	_ Declaration = (*FunctionDecl)(nil)
	_ Declaration = (*ClassDecl)(nil)
	_ Declaration = (*InterfaceDecl)(nil)
	_ Declaration = (*TypeAliasDecl)(nil)
	_ Declaration = (*ConstDecl)(nil)
)

// ImportedName is one name imported from another module, with an optional
// local alias.
type ImportedName struct {
	Name  string
	Alias string // empty when not aliased
}

// Import is one `import { a, b as c } from "./module"` clause (§3.3).
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
	// Source is the module's raw text, used only so diagnostics can show a
	// caret excerpt (internal/diag.Formatter.Sources).
	Source string
}

// Program owns an ordered list of Modules (§3.3). Order is significant: it
// is the "input order" referenced by §7's diagnostic ordering rule.
type Program struct {
	Modules []*Module
}
