package lowering

import (
	"github.com/cwbudde/nullforge/internal/diag"
	"github.com/cwbudde/nullforge/internal/ir"
	"github.com/cwbudde/nullforge/internal/sourceast"
)

// Lowerer holds the state threaded through one module's lowering: the
// program-wide anonymous-record table (§4.2, §9) and the diagnostic bag.
// A fresh scope is pushed per function to track which names have already
// been declared, which decides the assign instruction's IsDeclaration flag
// (§4.2).
type Lowerer struct {
	records   *ir.Table
	bag       *diag.Bag
	fileOrder int
	declared  map[string]bool // names declared in the current function
}

// Lower translates a whole sourceast.Program into an ir.Program under the
// given memory mode. Lowering is total (§4.2): every construct it cannot
// represent produces a diagnostic and a placeholder, and any diagnostic
// from this stage is fatal to the pipeline, so callers should treat a
// non-empty error bag as "do not proceed to the ownership analyzer".
func Lower(prog *sourceast.Program, mode ir.MemoryMode) (*ir.Program, *diag.Bag) {
	out := ir.NewProgram(mode)
	bag := &diag.Bag{}
	for fileOrder, mod := range prog.Modules {
		l := &Lowerer{records: out.Records, bag: bag, fileOrder: fileOrder}
		out.Modules = append(out.Modules, l.lowerModule(mod))
	}
	return out, bag
}

func (l *Lowerer) lowerModule(mod *sourceast.Module) *ir.Module {
	out := &ir.Module{Path: mod.Path}
	for _, imp := range mod.Imports {
		names := make([]ir.ImportedName, len(imp.Names))
		for i, n := range imp.Names {
			names[i] = ir.ImportedName{Name: n.Name, Alias: n.Alias}
		}
		out.Imports = append(out.Imports, ir.Import{FromModule: imp.FromModule, Names: names})
	}
	for _, decl := range mod.Declarations {
		out.Declarations = append(out.Declarations, l.lowerDeclaration(decl))
	}
	return out
}

func (l *Lowerer) lowerDeclaration(decl sourceast.Declaration) ir.Declaration {
	switch d := decl.(type) {
	case *sourceast.ConstDecl:
		return ir.Declaration{Kind: ir.DeclConst, Const: &ir.ConstDecl{
			Pos: d.Pos(), Name: d.Name, Typ: l.lowerType(d.Type), Init: l.lowerExpr(d.Init),
		}}
	case *sourceast.FunctionDecl:
		return ir.Declaration{Kind: ir.DeclFunction, Function: l.lowerFunction(d, "")}
	case *sourceast.ClassDecl:
		return ir.Declaration{Kind: ir.DeclClass, Class: l.lowerClass(d)}
	case *sourceast.InterfaceDecl:
		return ir.Declaration{Kind: ir.DeclInterface, Interface: l.lowerInterface(d)}
	case *sourceast.TypeAliasDecl:
		return ir.Declaration{Kind: ir.DeclTypeAlias, TypeAlias: &ir.TypeAliasDecl{
			Pos: d.Pos(), Name: d.Name, Aliased: l.lowerType(d.Aliased),
		}}
	default:
		l.fatalf(decl.Pos(), "lowering: unrecognized declaration %T", decl)
		return ir.Declaration{}
	}
}

func (l *Lowerer) lowerFunction(d *sourceast.FunctionDecl, className string) *ir.FunctionDecl {
	params := make([]ir.Param, len(d.Params))
	for i, p := range d.Params {
		params[i] = ir.Param{Name: p.Name, Typ: l.lowerType(p.Type)}
	}
	retType := l.lowerType(d.ReturnType)
	if d.Async {
		// §3.7 invariant 6: async functions have a return type of shape
		// Promise<T>. The front-end's ReturnType is expected to already be
		// a PromiseTypeRef; if not, wrap it so the invariant holds.
		if _, ok := retType.(ir.Promise); !ok {
			retType = ir.Promise{Result: retType}
		}
	}

	savedDeclared := l.declared
	l.declared = map[string]bool{}
	for _, p := range params {
		l.declared[p.Name] = true
	}
	var body ir.Body
	if d.Body != nil {
		body = ir.Body{Tree: l.lowerBlock(d.Body)}
	}
	l.declared = savedDeclared

	return &ir.FunctionDecl{
		Pos: d.Pos(), Name: d.Name, ClassName: className,
		Params: params, ReturnType: retType, Body: body,
		Async: d.Async, IsStatic: d.IsStatic,
	}
}

func (l *Lowerer) lowerClass(d *sourceast.ClassDecl) *ir.ClassDecl {
	out := &ir.ClassDecl{
		Pos: d.Pos(), Name: d.Name, Parent: d.Parent,
		Implements: append([]string(nil), d.Implements...),
		TypeParams: append([]string(nil), d.TypeParams...),
	}
	for _, f := range d.Fields {
		var init ir.Expr
		if f.Init != nil {
			savedDeclared := l.declared
			l.declared = map[string]bool{}
			init = l.lowerExpr(f.Init)
			l.declared = savedDeclared
		}
		out.Fields = append(out.Fields, ir.FieldDecl{Name: f.Name, Typ: l.lowerType(f.Type), ReadOnly: f.ReadOnly, Init: init})
	}
	for _, m := range d.Methods {
		out.Methods = append(out.Methods, l.lowerFunction(m, d.Name))
	}
	if d.Constructor != nil {
		params := make([]ir.Param, len(d.Constructor.Params))
		for i, p := range d.Constructor.Params {
			params[i] = ir.Param{Name: p.Name, Typ: l.lowerType(p.Type)}
		}
		savedDeclared := l.declared
		l.declared = map[string]bool{}
		for _, p := range params {
			l.declared[p.Name] = true
		}
		var body ir.Body
		if d.Constructor.Body != nil {
			body = ir.Body{Tree: l.lowerBlock(d.Constructor.Body)}
		}
		l.declared = savedDeclared
		out.Constructor = &ir.Constructor{Params: params, Body: body}
	}
	return out
}

func (l *Lowerer) lowerInterface(d *sourceast.InterfaceDecl) *ir.InterfaceDecl {
	out := &ir.InterfaceDecl{Pos: d.Pos(), Name: d.Name, Extends: append([]string(nil), d.Extends...)}
	for _, p := range d.Properties {
		out.Properties = append(out.Properties, ir.InterfaceProperty{Name: p.Name, Typ: l.lowerType(p.Type)})
	}
	for _, m := range d.Methods {
		params := make([]ir.Param, len(m.Params))
		for i, p := range m.Params {
			params[i] = ir.Param{Name: p.Name, Typ: l.lowerType(p.Type)}
		}
		out.Methods = append(out.Methods, ir.InterfaceMethod{Name: m.Name, Params: params, ReturnType: l.lowerType(m.ReturnType)})
	}
	return out
}

// fatalf records a LoweringFailure (§7): a construct this package cannot
// represent. Any such diagnostic aborts the pipeline.
func (l *Lowerer) fatalf(pos diag.Position, format string, args ...any) {
	l.bag.AddError(diag.New(diag.CodeLoweringFailure, pos, format, args...), l.fileOrder)
}
