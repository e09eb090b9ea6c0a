package lowering

import (
	"fmt"

	"github.com/cwbudde/nullforge/internal/ir"
)

// ssaBuilder converts one function's tree-tier StatementBlock into the
// SSA-tier CFG (§4.2's "SSA conversion" subsection). It is intentionally
// simple: the IR is "SSA-ish, not strict SSA" (§4.2) — no φ-nodes are
// materialized, and the backend reconciles multiple versions of one name
// through a mutable local.
type ssaBuilder struct {
	blocks     []*ir.BasicBlock
	nextID     int
	versions   map[string]int
	forOfCount int
}

// ToSSA converts a function's tree-tier body to a CFG. Lowering itself
// produces the tree tier and does not call this for function bodies;
// pipeline.ConvertToSSA calls it once the hoister has run, ahead of the
// backend, and convertTry calls it for each try region's nested bodies.
func ToSSA(body *ir.StatementBlock) *ir.CFG {
	b := &ssaBuilder{versions: map[string]int{}}
	entry := b.newBlock()
	cur := b.convertBlock(entry, body)
	if cur != nil && cur.Terminator == nil {
		cur.Terminator = ir.ReturnTerm{}
	}
	return &ir.CFG{Blocks: b.blocks}
}

func (b *ssaBuilder) newBlock() *ir.BasicBlock {
	blk := &ir.BasicBlock{ID: b.nextID}
	b.nextID++
	b.blocks = append(b.blocks, blk)
	return blk
}

// convertBlock appends instructions from tree to cur, creating and
// returning further blocks as control flow requires. It returns nil when
// every path out of tree already ended in a terminator (e.g. the block's
// last statement was a return), signalling the caller not to fall through.
func (b *ssaBuilder) convertBlock(cur *ir.BasicBlock, tree *ir.StatementBlock) *ir.BasicBlock {
	for _, stmt := range tree.Stmts {
		cur = b.convertStmt(cur, stmt)
		if cur == nil {
			return nil
		}
	}
	return cur
}

func (b *ssaBuilder) convertStmt(cur *ir.BasicBlock, stmt ir.Stmt) *ir.BasicBlock {
	switch s := stmt.(type) {
	case ir.VarDeclStmt:
		v := b.version(s.Name, s.Typ)
		cur.Instructions = append(cur.Instructions, ir.AssignInstr{Target: v, Value: b.convertExpr(s.Init), IsDeclaration: true})
		return cur
	case ir.AssignStmt:
		return b.convertAssign(cur, s)
	case ir.ExprStmt:
		x := b.convertExpr(s.X)
		switch x.(type) {
		case ir.Call, ir.MethodCall:
			cur.Instructions = append(cur.Instructions, ir.CallInstr{Call: x})
		default:
			cur.Instructions = append(cur.Instructions, ir.ExprInstr{X: x})
		}
		return cur
	case ir.ReturnStmt:
		var v ir.Expr
		if s.Value != nil {
			v = b.convertExpr(s.Value)
		}
		cur.Terminator = ir.ReturnTerm{Value: v}
		return nil
	case ir.StatementBlock:
		return b.convertBlock(cur, &s)
	case ir.IfStmt:
		return b.convertIf(cur, s)
	case ir.WhileStmt:
		return b.convertWhile(cur, s)
	case ir.ForStmt:
		return b.convertFor(cur, s)
	case ir.BreakStmt, ir.ContinueStmt:
		// A standalone break/continue with no enclosing loop context
		// tracked here degrades to unreachable; the validator/ownership
		// stages operate on the tree tier and already guarantee
		// break/continue only appear inside a loop, so this path is not
		// expected to be exercised by a well-formed program.
		cur.Terminator = ir.UnreachableTerm{}
		return nil
	case ir.ForOfStmt:
		return b.convertForOf(cur, s)
	case ir.TryStmt:
		return b.convertTry(cur, s)
	case ir.ThrowStmt:
		cur.Terminator = ir.ThrowTerm{Value: b.convertExpr(s.Value)}
		return nil
	case ir.NestedFuncStmt:
		return b.convertNestedFunc(cur, s)
	default:
		return cur
	}
}

// convertForOf desugars a for-of loop into an index-based header/body/exit
// block triple, mirroring convertFor. The iterable is evaluated once into
// a hidden local so it is not re-evaluated on every header visit; the
// element variable is rebound from an Index read at the top of the body
// (§4.2's for-of lowering).
func (b *ssaBuilder) convertForOf(cur *ir.BasicBlock, s ir.ForOfStmt) *ir.BasicBlock {
	b.forOfCount++
	n := b.forOfCount
	iterName := fmt.Sprintf("__forof_iter%d", n)
	idxName := fmt.Sprintf("__forof_idx%d", n)
	intType := ir.Type(ir.Primitive{Kind: ir.KindInteger})

	iterType := s.Iter.Type()
	iterVar := b.version(iterName, iterType)
	cur.Instructions = append(cur.Instructions, ir.AssignInstr{Target: iterVar, Value: b.convertExpr(s.Iter), IsDeclaration: true})

	zero := ir.Literal{Kind: ir.LitNumber, Number: 0}
	zero.T = intType
	idxVar := b.version(idxName, intType)
	cur.Instructions = append(cur.Instructions, ir.AssignInstr{Target: idxVar, Value: zero, IsDeclaration: true})

	header := b.newBlock()
	cur.Terminator = ir.JumpTerm{Block: header.ID}
	body := b.newBlock()
	exit := b.newBlock()

	length := ir.Member{Receiver: b.ref(iterName, iterType), Name: "length"}
	length.T = intType
	cond := ir.Binary{Op: ir.OpLt, Left: b.ref(idxName, intType), Right: length}
	cond.T = ir.Primitive{Kind: ir.KindBoolean}
	header.Terminator = ir.BranchTerm{Cond: cond, TrueBlock: body.ID, FalseBlock: exit.ID}

	elemType := forOfElementType(s.VarType, iterType)
	elem := ir.Index{Receiver: b.ref(iterName, iterType), Key: b.ref(idxName, intType)}
	elem.T = elemType
	elemVar := b.version(s.VarName, elemType)
	body.Instructions = append(body.Instructions, ir.AssignInstr{Target: elemVar, Value: elem, IsDeclaration: true})

	bodyEnd := b.convertBlock(body, s.Body)
	if bodyEnd != nil {
		prev := b.ref(idxName, intType)
		one := ir.Literal{Kind: ir.LitNumber, Number: 1}
		one.T = intType
		incr := ir.Binary{Op: ir.OpAdd, Left: prev, Right: one}
		incr.T = intType
		next := b.version(idxName, intType)
		bodyEnd.Instructions = append(bodyEnd.Instructions, ir.AssignInstr{Target: next, Value: incr})
		bodyEnd.Terminator = ir.JumpTerm{Block: header.ID}
	}
	return exit
}

// forOfElementType derives the loop variable's type: the tree tier's
// VarType when the lowerer populated it, else the iterable's declared
// element type, else a numeric fallback so every expression still carries
// a non-nil Type() (§3.7 invariant 1).
func forOfElementType(varType ir.Type, iterType ir.Type) ir.Type {
	if varType != nil {
		return varType
	}
	if arr, ok := iterType.(ir.Array); ok {
		return arr.Element
	}
	return ir.Primitive{Kind: ir.KindNumber}
}

// convertTry builds the protected body, every catch body, and the
// optional finally body as independent nested CFGs (via the same ToSSA
// every other caller uses) and appends a single TryInstr representing the
// whole region. Unlike a terminator, control falls through normally to
// whatever follows in cur once the region completes.
func (b *ssaBuilder) convertTry(cur *ir.BasicBlock, s ir.TryStmt) *ir.BasicBlock {
	protected := ToSSA(s.Body)
	catches := make([]ir.SSACatchClause, len(s.Catches))
	for i, c := range s.Catches {
		catches[i] = ir.SSACatchClause{
			ExceptionVar: c.ExceptionVar,
			ExceptionTyp: c.ExceptionTyp,
			Body:         ToSSA(c.Body),
		}
	}
	var finally *ir.CFG
	if s.Finally != nil {
		finally = ToSSA(s.Finally)
	}
	cur.Instructions = append(cur.Instructions, ir.TryInstr{
		ProtectedBody: protected,
		Catches:       catches,
		Finally:       finally,
	})
	return cur
}

// convertNestedFunc binds a hoister-kept nested function as a lambda
// value under its own declared name, using the hoister-computed Captures
// as the capture list (§4.6: "they can be lowered as inline lambdas by
// the backend"). The lambda body stays in the tree tier: per expr.go's
// Lambda doc comment, a lambda value is never itself SSA-converted.
func (b *ssaBuilder) convertNestedFunc(cur *ir.BasicBlock, s ir.NestedFuncStmt) *ir.BasicBlock {
	fn := s.Decl
	params := make([]ir.LambdaParam, len(fn.Params))
	paramTypes := make([]ir.Type, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = ir.LambdaParam{Name: p.Name, Type: p.Typ}
		paramTypes[i] = p.Typ
	}
	lambda := ir.Lambda{Params: params, Body: fn.Body.Tree, Captures: s.Captures}
	lambda.T = ir.Function{Params: paramTypes, Return: fn.ReturnType}
	lambda.P = fn.Pos

	v := b.version(fn.Name, lambda.Type())
	cur.Instructions = append(cur.Instructions, ir.AssignInstr{Target: v, Value: lambda, IsDeclaration: true})
	return cur
}

// ref builds a VarRef at name's current SSA version, used by desugarings
// (convertForOf) that need to read the same hidden variable more than
// once within one synthesized expression tree.
func (b *ssaBuilder) ref(name string, t ir.Type) ir.Expr {
	v := ir.VarRef{Var: b.currentVersion(name, t)}
	v.T = t
	return v
}

func (b *ssaBuilder) convertAssign(cur *ir.BasicBlock, s ir.AssignStmt) *ir.BasicBlock {
	if ident, ok := s.Target.(ir.Ident); ok {
		v := b.version(ident.Name, ident.Type())
		cur.Instructions = append(cur.Instructions, ir.AssignInstr{Target: v, Value: b.convertExpr(s.Value)})
		return cur
	}
	cur.Instructions = append(cur.Instructions, ir.FieldAssignInstr{Target: b.convertExpr(s.Target), Value: b.convertExpr(s.Value)})
	return cur
}

func (b *ssaBuilder) convertIf(cur *ir.BasicBlock, s ir.IfStmt) *ir.BasicBlock {
	thenBlock := b.newBlock()
	var elseBlock *ir.BasicBlock
	elseID := -1
	if s.Else != nil {
		elseBlock = b.newBlock()
		elseID = elseBlock.ID
	}
	join := b.newBlock()
	if elseID == -1 {
		elseID = join.ID
	}
	cur.Terminator = ir.BranchTerm{Cond: b.convertExpr(s.Cond), TrueBlock: thenBlock.ID, FalseBlock: elseID}

	thenEnd := b.convertBlock(thenBlock, s.Then)
	if thenEnd != nil {
		thenEnd.Terminator = ir.JumpTerm{Block: join.ID}
	}
	if s.Else != nil {
		elseEnd := b.convertBlock(elseBlock, s.Else)
		if elseEnd != nil {
			elseEnd.Terminator = ir.JumpTerm{Block: join.ID}
		}
	}
	return join
}

func (b *ssaBuilder) convertWhile(cur *ir.BasicBlock, s ir.WhileStmt) *ir.BasicBlock {
	header := b.newBlock()
	cur.Terminator = ir.JumpTerm{Block: header.ID}
	body := b.newBlock()
	exit := b.newBlock()
	header.Terminator = ir.BranchTerm{Cond: b.convertExpr(s.Cond), TrueBlock: body.ID, FalseBlock: exit.ID}
	bodyEnd := b.convertBlock(body, s.Body)
	if bodyEnd != nil {
		bodyEnd.Terminator = ir.JumpTerm{Block: header.ID}
	}
	return exit
}

func (b *ssaBuilder) convertFor(cur *ir.BasicBlock, s ir.ForStmt) *ir.BasicBlock {
	if s.Init != nil {
		cur = b.convertStmt(cur, s.Init)
	}
	header := b.newBlock()
	cur.Terminator = ir.JumpTerm{Block: header.ID}
	body := b.newBlock()
	exit := b.newBlock()
	var cond ir.Expr
	if s.Cond != nil {
		cond = b.convertExpr(s.Cond)
	} else {
		lit := ir.Literal{Kind: ir.LitBoolean, Boolean: true}
		lit.T = ir.Primitive{Kind: ir.KindBoolean}
		cond = lit
	}
	header.Terminator = ir.BranchTerm{Cond: cond, TrueBlock: body.ID, FalseBlock: exit.ID}
	bodyEnd := b.convertBlock(body, s.Body)
	if bodyEnd != nil {
		if s.Step != nil {
			bodyEnd = b.convertStmt(bodyEnd, s.Step)
		}
		if bodyEnd != nil {
			bodyEnd.Terminator = ir.JumpTerm{Block: header.ID}
		}
	}
	return exit
}

// version bumps name's SSA version and returns the new Variable. Reading
// the current version (for convertExpr's Ident case) uses the same map
// without bumping.
func (b *ssaBuilder) version(name string, t ir.Type) ir.Variable {
	b.versions[name]++
	return ir.Variable{Name: name, Version: b.versions[name], Typ: t}
}

func (b *ssaBuilder) currentVersion(name string, t ir.Type) ir.Variable {
	return ir.Variable{Name: name, Version: b.versions[name], Typ: t}
}

// convertExpr rewrites tree-tier Idents into SSA VarRefs carrying their
// current version; every other expression node is structurally identical
// between tiers (§3.5) and is copied through, recursing into subterms so
// nested Idents are also versioned.
func (b *ssaBuilder) convertExpr(e ir.Expr) ir.Expr {
	if e == nil {
		return nil
	}
	switch x := e.(type) {
	case ir.Ident:
		out := ir.VarRef{Var: b.currentVersion(x.Name, x.Type())}
		out.P = x.Pos()
		out.T = x.Type()
		return out
	case ir.Binary:
		x.Left = b.convertExpr(x.Left)
		x.Right = b.convertExpr(x.Right)
		return x
	case ir.Unary:
		x.Operand = b.convertExpr(x.Operand)
		return x
	case ir.Conditional:
		x.Cond = b.convertExpr(x.Cond)
		x.Then = b.convertExpr(x.Then)
		x.Else = b.convertExpr(x.Else)
		return x
	case ir.Call:
		x.Callee = b.convertExpr(x.Callee)
		for i, a := range x.Args {
			x.Args[i] = b.convertExpr(a)
		}
		return x
	case ir.MethodCall:
		x.Receiver = b.convertExpr(x.Receiver)
		for i, a := range x.Args {
			x.Args[i] = b.convertExpr(a)
		}
		return x
	case ir.Member:
		x.Receiver = b.convertExpr(x.Receiver)
		return x
	case ir.Index:
		x.Receiver = b.convertExpr(x.Receiver)
		x.Key = b.convertExpr(x.Key)
		return x
	case ir.New:
		for i, a := range x.Args {
			x.Args[i] = b.convertExpr(a)
		}
		return x
	case ir.ArrayLiteral:
		for i, el := range x.Elements {
			x.Elements[i] = b.convertExpr(el)
		}
		return x
	case ir.Object:
		for i, f := range x.Fields {
			x.Fields[i].Value = b.convertExpr(f.Value)
		}
		return x
	case ir.Await:
		x.Operand = b.convertExpr(x.Operand)
		return x
	case ir.TemplateConcat:
		for i, seg := range x.Segments {
			if seg.Expr != nil {
				x.Segments[i].Expr = b.convertExpr(seg.Expr)
			}
		}
		return x
	default:
		return e
	}
}
