package ir

import (
	"fmt"
	"io"
	"strings"
)

// Disassembler pretty-prints a Program's declarations for debugging,
// the IR counterpart of the teacher's bytecode Disassembler: a writer, a
// one-shot Disassemble over a whole unit, and per-item print helpers
// dispatched by node kind rather than by opcode.
type Disassembler struct {
	w io.Writer
}

// NewDisassembler returns a Disassembler writing to w.
func NewDisassembler(w io.Writer) *Disassembler {
	return &Disassembler{w: w}
}

// Disassemble prints every module in prog in declaration order.
func (d *Disassembler) Disassemble(prog *Program) {
	for _, mod := range prog.Modules {
		d.disassembleModule(mod)
	}
}

func (d *Disassembler) disassembleModule(mod *Module) {
	fmt.Fprintf(d.w, "== %s ==\n", mod.Path)
	for _, decl := range mod.Declarations {
		d.disassembleDeclaration(decl)
	}
	fmt.Fprintln(d.w)
}

func (d *Disassembler) disassembleDeclaration(decl Declaration) {
	switch decl.Kind {
	case DeclConst:
		c := decl.Const
		fmt.Fprintf(d.w, "const %s: %s = %s\n", c.Name, c.Typ, exprString(c.Init))
	case DeclFunction:
		d.disassembleFunction(decl.Function, "")
	case DeclClass:
		d.disassembleClass(decl.Class)
	case DeclInterface:
		i := decl.Interface
		fmt.Fprintf(d.w, "interface %s\n", i.Name)
	case DeclTypeAlias:
		t := decl.TypeAlias
		fmt.Fprintf(d.w, "type %s = %s\n", t.Name, t.Aliased)
	}
}

func (d *Disassembler) disassembleClass(c *ClassDecl) {
	fmt.Fprintf(d.w, "class %s", c.Name)
	if c.Parent != "" {
		fmt.Fprintf(d.w, " : %s", c.Parent)
	}
	fmt.Fprintln(d.w)
	for _, f := range c.Fields {
		fmt.Fprintf(d.w, "    field %s: %s\n", f.Name, f.Typ)
	}
	if c.Constructor != nil {
		fmt.Fprintf(d.w, "    constructor(%s)\n", paramsString(c.Constructor.Params))
		d.disassembleBody(c.Constructor.Body, "        ")
	}
	for _, m := range c.Methods {
		d.disassembleFunction(m, "    ")
	}
}

func (d *Disassembler) disassembleFunction(fn *FunctionDecl, indent string) {
	async := ""
	if fn.Async {
		async = "async "
	}
	fmt.Fprintf(d.w, "%s%sfunction %s(%s): %s\n", indent, async, fn.Name, paramsString(fn.Params), fn.ReturnType)
	d.disassembleBody(fn.Body, indent+"    ")
}

func paramsString(params []Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("%s: %s", p.Name, p.Typ)
	}
	return strings.Join(parts, ", ")
}

// disassembleBody prints whichever tier of b is populated: the SSA-tier
// CFG block-by-block if present, the tree-tier statement list otherwise
// (§3.5's "exactly one of Tree or SSA is non-nil at any time").
func (d *Disassembler) disassembleBody(b Body, indent string) {
	switch {
	case b.SSA != nil:
		d.disassembleCFG(b.SSA, indent)
	case b.Tree != nil:
		d.disassembleStatements(b.Tree.Stmts, indent)
	}
}

func (d *Disassembler) disassembleCFG(cfg *CFG, indent string) {
	for _, block := range cfg.Blocks {
		fmt.Fprintf(d.w, "%sblock%d:\n", indent, block.ID)
		for _, instr := range block.Instructions {
			fmt.Fprintf(d.w, "%s    %s\n", indent, instructionString(instr))
			if try, ok := instr.(TryInstr); ok {
				d.disassembleTryInstr(try, indent+"        ")
			}
		}
		fmt.Fprintf(d.w, "%s    %s\n", indent, terminatorString(block.Terminator))
	}
}

func (d *Disassembler) disassembleTryInstr(try TryInstr, indent string) {
	fmt.Fprintf(d.w, "%sprotected:\n", indent)
	d.disassembleCFG(try.ProtectedBody, indent+"    ")
	for _, c := range try.Catches {
		fmt.Fprintf(d.w, "%scatch %s:\n", indent, c.ExceptionVar)
		d.disassembleCFG(c.Body, indent+"    ")
	}
	if try.Finally != nil {
		fmt.Fprintf(d.w, "%sfinally:\n", indent)
		d.disassembleCFG(try.Finally, indent+"    ")
	}
}

func instructionString(instr Instruction) string {
	switch ins := instr.(type) {
	case AssignInstr:
		op := "="
		if ins.IsDeclaration {
			op = ":="
		}
		return fmt.Sprintf("%s %s %s", varRefString(ins.Target), op, exprString(ins.Value))
	case CallInstr:
		if ins.Target == nil {
			return exprString(ins.Call)
		}
		return fmt.Sprintf("%s = %s", varRefString(*ins.Target), exprString(ins.Call))
	case FieldAssignInstr:
		return fmt.Sprintf("%s = %s", exprString(ins.Target), exprString(ins.Value))
	case ExprInstr:
		return exprString(ins.X)
	case TryInstr:
		return fmt.Sprintf("try (%d catch clause(s), finally=%t)", len(ins.Catches), ins.Finally != nil)
	default:
		return fmt.Sprintf("<unknown instruction %T>", instr)
	}
}

func terminatorString(term Terminator) string {
	switch t := term.(type) {
	case ReturnTerm:
		if t.Value == nil {
			return "return"
		}
		return fmt.Sprintf("return %s", exprString(t.Value))
	case BranchTerm:
		return fmt.Sprintf("branch %s -> block%d, block%d", exprString(t.Cond), t.TrueBlock, t.FalseBlock)
	case JumpTerm:
		return fmt.Sprintf("jump -> block%d", t.Block)
	case UnreachableTerm:
		return "unreachable"
	case ThrowTerm:
		return fmt.Sprintf("throw %s", exprString(t.Value))
	default:
		return fmt.Sprintf("<unknown terminator %T>", term)
	}
}

func (d *Disassembler) disassembleStatements(stmts []Stmt, indent string) {
	for _, s := range stmts {
		d.disassembleStatement(s, indent)
	}
}

func (d *Disassembler) disassembleStatement(s Stmt, indent string) {
	switch st := s.(type) {
	case VarDeclStmt:
		fmt.Fprintf(d.w, "%s%s: %s = %s\n", indent, st.Name, st.Typ, exprString(st.Init))
	case AssignStmt:
		fmt.Fprintf(d.w, "%s%s = %s\n", indent, exprString(st.Target), exprString(st.Value))
	case ExprStmt:
		fmt.Fprintf(d.w, "%s%s\n", indent, exprString(st.X))
	case ReturnStmt:
		if st.Value == nil {
			fmt.Fprintf(d.w, "%sreturn\n", indent)
		} else {
			fmt.Fprintf(d.w, "%sreturn %s\n", indent, exprString(st.Value))
		}
	case *StatementBlock:
		d.disassembleStatements(st.Stmts, indent)
	case IfStmt:
		fmt.Fprintf(d.w, "%sif %s\n", indent, exprString(st.Cond))
		d.disassembleStatements(st.Then.Stmts, indent+"    ")
		if st.Else != nil {
			fmt.Fprintf(d.w, "%selse\n", indent)
			d.disassembleStatements(st.Else.Stmts, indent+"    ")
		}
	case WhileStmt:
		fmt.Fprintf(d.w, "%swhile %s\n", indent, exprString(st.Cond))
		d.disassembleStatements(st.Body.Stmts, indent+"    ")
	case ForStmt:
		fmt.Fprintf(d.w, "%sfor\n", indent)
		d.disassembleStatements(st.Body.Stmts, indent+"    ")
	case ForOfStmt:
		fmt.Fprintf(d.w, "%sfor %s of %s\n", indent, st.VarName, exprString(st.Iter))
		d.disassembleStatements(st.Body.Stmts, indent+"    ")
	case TryStmt:
		fmt.Fprintf(d.w, "%stry\n", indent)
		d.disassembleStatements(st.Body.Stmts, indent+"    ")
		for _, c := range st.Catches {
			fmt.Fprintf(d.w, "%scatch %s\n", indent, c.ExceptionVar)
			d.disassembleStatements(c.Body.Stmts, indent+"    ")
		}
	case ThrowStmt:
		fmt.Fprintf(d.w, "%sthrow %s\n", indent, exprString(st.Value))
	case BreakStmt:
		fmt.Fprintf(d.w, "%sbreak\n", indent)
	case ContinueStmt:
		fmt.Fprintf(d.w, "%scontinue\n", indent)
	case NestedFuncStmt:
		d.disassembleFunction(st.Decl, indent)
	default:
		fmt.Fprintf(d.w, "%s<unknown statement %T>\n", indent, s)
	}
}

func varRefString(v Variable) string {
	return fmt.Sprintf("%s.%d", v.Name, v.Version)
}

// exprString renders e as a single-line, debug-only textual form. It is
// not a C++ emission path (internal/backend owns that) and is not meant
// to round-trip.
func exprString(e Expr) string {
	if e == nil {
		return "<nil>"
	}
	switch x := e.(type) {
	case Literal:
		switch x.Kind {
		case LitNumber:
			return fmt.Sprintf("%g", x.Number)
		case LitString:
			return fmt.Sprintf("%q", x.Str)
		case LitBoolean:
			return fmt.Sprintf("%t", x.Boolean)
		case LitNull:
			return "null"
		default:
			return "undefined"
		}
	case Ident:
		return x.Name
	case VarRef:
		return varRefString(x.Var)
	case MoveValue:
		return fmt.Sprintf("move(%s)", varRefString(x.Source))
	case BorrowValue:
		return fmt.Sprintf("borrow(%s)", varRefString(x.Source))
	case Binary:
		return fmt.Sprintf("(%s %s %s)", exprString(x.Left), x.Op, exprString(x.Right))
	case Unary:
		return fmt.Sprintf("(%s%s)", x.Op, exprString(x.Operand))
	case Conditional:
		return fmt.Sprintf("(%s ? %s : %s)", exprString(x.Cond), exprString(x.Then), exprString(x.Else))
	case Call:
		return fmt.Sprintf("%s(%s)", exprString(x.Callee), exprListString(x.Args))
	case MethodCall:
		return fmt.Sprintf("%s.%s(%s)", exprString(x.Receiver), x.Method, exprListString(x.Args))
	case Member:
		return fmt.Sprintf("%s.%s", exprString(x.Receiver), x.Name)
	case Index:
		return fmt.Sprintf("%s[%s]", exprString(x.Receiver), exprString(x.Key))
	case New:
		return fmt.Sprintf("new %s(%s)", x.ClassName, exprListString(x.Args))
	case ArrayLiteral:
		return fmt.Sprintf("[%s]", exprListString(x.Elements))
	case Object:
		parts := make([]string, len(x.Fields))
		for i, f := range x.Fields {
			parts[i] = fmt.Sprintf("%s: %s", f.Name, exprString(f.Value))
		}
		return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
	case Lambda:
		return fmt.Sprintf("(%s) => {...}", strings.Join(lambdaParamNames(x.Params), ", "))
	case Await:
		return fmt.Sprintf("await %s", exprString(x.Operand))
	case TemplateConcat:
		parts := make([]string, len(x.Segments))
		for i, seg := range x.Segments {
			if seg.Expr != nil {
				parts[i] = fmt.Sprintf("${%s}", exprString(seg.Expr))
			} else {
				parts[i] = seg.Literal
			}
		}
		return fmt.Sprintf("`%s`", strings.Join(parts, ""))
	default:
		return fmt.Sprintf("<unknown expr %T>", e)
	}
}

func exprListString(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = exprString(e)
	}
	return strings.Join(parts, ", ")
}

func lambdaParamNames(params []LambdaParam) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return names
}

// DisassembleToString returns Disassemble's output as a string, the same
// convenience the teacher's DisassembleToString offers over its
// bytecode equivalent.
func DisassembleToString(prog *Program) string {
	var sb strings.Builder
	NewDisassembler(&sb).Disassemble(prog)
	return sb.String()
}
