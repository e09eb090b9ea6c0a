// Package ownership builds the class-level ownership graph (§4.3) and
// enforces the two families of rules the spec assigns to this stage:
// cycle detection among share<C> edges, and the pointwise derivation
// rules, which it applies at variable declarations and assignments; call
// arguments are not checked against parameter types. It is the third
// pipeline stage, running on the lowered ir.Program before the null
// checker.
package ownership

import (
	"strings"

	"github.com/cwbudde/nullforge/internal/diag"
	"github.com/cwbudde/nullforge/internal/ir"
)

// graph is the class-level ownership graph: one node per declared class or
// interface, one labelled edge per share<C> field (directly or through an
// Array/Map of share<C>).
type graph struct {
	edges map[string][]edge // ContainingType -> outgoing edges, declaration order
	nodes []string          // declared class/interface names, declaration order
}

type edge struct {
	to    string
	field string
}

// Analyze runs the ownership analyzer over prog (§4.3). mode decides
// whether a detected cycle is reported as an error or, in GC mode, demoted
// to a warning; derivation violations (303) are always errors regardless
// of mode.
func Analyze(prog *ir.Program, mode ir.MemoryMode) *diag.Bag {
	bag := &diag.Bag{}
	g := buildGraph(prog)
	detectCycles(g, mode, bag)
	for fileOrder, mod := range prog.Modules {
		checkDerivations(mod, bag, fileOrder)
	}
	return bag
}

func buildGraph(prog *ir.Program) *graph {
	g := &graph{edges: map[string][]edge{}}
	for _, mod := range prog.Modules {
		for _, decl := range mod.Declarations {
			switch decl.Kind {
			case ir.DeclClass:
				g.addNode(decl.Class.Name)
				for _, f := range decl.Class.Fields {
					addFieldEdges(g, decl.Class.Name, f.Name, f.Typ)
				}
			case ir.DeclInterface:
				g.addNode(decl.Interface.Name)
				for _, p := range decl.Interface.Properties {
					addFieldEdges(g, decl.Interface.Name, p.Name, p.Typ)
				}
			}
		}
	}
	return g
}

func (g *graph) addNode(name string) {
	if _, ok := g.edges[name]; !ok {
		g.edges[name] = nil
		g.nodes = append(g.nodes, name)
	}
}

// addFieldEdges adds a ContainingType -> C edge labelled fieldName for
// every share<C> reachable from t, looking through Array/Map element
// types as the spec requires ("directly, or through an Array<share<C>>,
// Map<K, share<C>>, etc.").
func addFieldEdges(g *graph, containingType, fieldName string, t ir.Type) {
	switch ty := t.(type) {
	case ir.NamedType:
		if ty.Ownership == ir.Share {
			g.edges[containingType] = append(g.edges[containingType], edge{to: ty.Name, field: fieldName})
		}
	case ir.Array:
		addFieldEdges(g, containingType, fieldName, ty.Element)
	case ir.Map:
		addFieldEdges(g, containingType, fieldName, ty.Value)
	case ir.Nullable:
		addFieldEdges(g, containingType, fieldName, ty.Inner)
	}
}

// color is the classical three-color DFS state (§4.3).
type color int

const (
	white color = iota
	gray
	black
)

// detectCycles walks every node with classical three-color DFS. On a
// back-edge to a node currently gray (on the traversal stack), it emits
// diagnostic 301 with the cycle path from the repeated node's first
// occurrence back to itself — one diagnostic per cycle at its first
// detection.
func detectCycles(g *graph, mode ir.MemoryMode, bag *diag.Bag) {
	colors := map[string]color{}
	var stack []string

	var visit func(name string)
	visit = func(name string) {
		colors[name] = gray
		stack = append(stack, name)
		for _, e := range g.edges[name] {
			switch colors[e.to] {
			case white:
				visit(e.to)
			case gray:
				reportCycle(stack, e.to, mode, bag)
			case black:
				// already fully explored, not part of any new cycle
			}
		}
		stack = stack[:len(stack)-1]
		colors[name] = black
	}

	for _, n := range g.nodes {
		if colors[n] == white {
			visit(n)
		}
	}
}

func reportCycle(stack []string, repeated string, mode ir.MemoryMode, bag *diag.Bag) {
	start := 0
	for i, n := range stack {
		if n == repeated {
			start = i
			break
		}
	}
	cycle := append(append([]string{}, stack[start:]...), repeated)
	d := diag.New(diag.CodeOwnershipCycle, diag.Position{}, "ownership cycle: %s", strings.Join(cycle, " -> "))
	if mode == ir.ModeGC {
		d.Severity = diag.Warning
	}
	bag.Add(d, 0)
}

// checkDerivations enforces §4.3's pointwise derivation table at every
// variable declaration and assignment in every function body (free
// functions, methods, and constructors) of the module. Call sites are not
// checked.
func checkDerivations(mod *ir.Module, bag *diag.Bag, fileOrder int) {
	for _, decl := range mod.Declarations {
		switch decl.Kind {
		case ir.DeclFunction:
			checkFunction(decl.Function, bag, fileOrder)
		case ir.DeclClass:
			for _, m := range decl.Class.Methods {
				checkFunction(m, bag, fileOrder)
			}
			if decl.Class.Constructor != nil {
				checkBody(decl.Class.Constructor.Body, bag, fileOrder)
			}
		}
	}
}

func checkFunction(fn *ir.FunctionDecl, bag *diag.Bag, fileOrder int) {
	checkBody(fn.Body, bag, fileOrder)
}

func checkBody(body ir.Body, bag *diag.Bag, fileOrder int) {
	if body.Tree != nil {
		checkBlock(body.Tree, bag, fileOrder)
	}
}

func checkBlock(b *ir.StatementBlock, bag *diag.Bag, fileOrder int) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		checkStmt(s, bag, fileOrder)
	}
}

func checkStmt(stmt ir.Stmt, bag *diag.Bag, fileOrder int) {
	switch s := stmt.(type) {
	case ir.VarDeclStmt:
		checkDerivation(s.Typ, s.Init, bag, fileOrder)
	case ir.AssignStmt:
		checkDerivation(s.Target.Type(), s.Value, bag, fileOrder)
	case ir.ExprStmt:
		checkCallArgs(s.X, bag, fileOrder)
	case ir.ReturnStmt:
		checkCallArgs(s.Value, bag, fileOrder)
	case ir.StatementBlock:
		checkBlock(&s, bag, fileOrder)
	case ir.IfStmt:
		checkBlock(s.Then, bag, fileOrder)
		checkBlock(s.Else, bag, fileOrder)
	case ir.WhileStmt:
		checkBlock(s.Body, bag, fileOrder)
	case ir.ForStmt:
		checkBlock(s.Body, bag, fileOrder)
	case ir.ForOfStmt:
		checkBlock(s.Body, bag, fileOrder)
	case ir.TryStmt:
		checkBlock(s.Body, bag, fileOrder)
		for _, c := range s.Catches {
			checkBlock(c.Body, bag, fileOrder)
		}
		checkBlock(s.Finally, bag, fileOrder)
	}
}

// checkDerivation enforces the table at one assignment/declaration site:
// dstType is the destination's declared ownership-bearing type, value is
// the expression being assigned into it.
func checkDerivation(dstType ir.Type, value ir.Expr, bag *diag.Bag, fileOrder int) {
	if value == nil {
		return
	}
	checkCallArgs(value, bag, fileOrder)
	srcOwn, dstOwn, ok := derivationPair(dstType, value.Type())
	if !ok {
		return
	}
	if !srcOwn.CanDeriveTo(dstOwn) {
		bag.AddError(diag.New(diag.CodeIllegalDerivation, value.Pos(),
			"cannot derive %s from %s", dstOwn, srcOwn), fileOrder)
	}
}

// checkCallArgs recurses into Call/MethodCall/New argument lists and the
// Binary/Unary expressions they sit under. It records no diagnostic: no
// argument is compared with the callee's parameter types, so parameter
// passing (§4.3) is not checked.
func checkCallArgs(e ir.Expr, bag *diag.Bag, fileOrder int) {
	switch x := e.(type) {
	case ir.Call:
		for _, a := range x.Args {
			checkCallArgs(a, bag, fileOrder)
		}
	case ir.MethodCall:
		checkCallArgs(x.Receiver, bag, fileOrder)
		for _, a := range x.Args {
			checkCallArgs(a, bag, fileOrder)
		}
	case ir.New:
		for _, a := range x.Args {
			checkCallArgs(a, bag, fileOrder)
		}
	case ir.Binary:
		checkCallArgs(x.Left, bag, fileOrder)
		checkCallArgs(x.Right, bag, fileOrder)
	case ir.Unary:
		checkCallArgs(x.Operand, bag, fileOrder)
	}
}

// derivationPair extracts the ownership tags to compare, when both the
// destination and source types carry one; it reports ok=false for
// Value-tagged or non-heap types, which the table doesn't constrain.
func derivationPair(dst, src ir.Type) (srcOwn, dstOwn ir.Ownership, ok bool) {
	d, dok := ownershipOf(dst)
	s, sok := ownershipOf(src)
	if !dok || !sok {
		return 0, 0, false
	}
	if d == ir.Value || s == ir.Value {
		return 0, 0, false
	}
	return s, d, true
}

func ownershipOf(t ir.Type) (ir.Ownership, bool) {
	switch ty := t.(type) {
	case ir.NamedType:
		return ty.Ownership, true
	case ir.Array:
		return ty.Ownership, true
	case ir.Map:
		return ty.Ownership, true
	case ir.Nullable:
		return ownershipOf(ty.Inner)
	default:
		return 0, false
	}
}
