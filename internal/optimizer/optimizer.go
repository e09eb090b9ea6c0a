// Package optimizer implements the fifth pipeline stage (§4.5):
// semantics-preserving constant folding, branch simplification, and
// ternary folding, composed to a fixed point bounded at 10 iterations. It
// operates in place on an already-lowered ir.Program and never introduces
// a node kind the rest of the pipeline doesn't already produce.
package optimizer

import (
	"math"

	"github.com/cwbudde/nullforge/internal/ir"
)

// maxIterations is the hard iteration bound from §4.5: "Passes repeat
// until the flag stays down or 10 iterations elapse. A program that would
// require more is accepted unoptimized."
const maxIterations = 10

// Optimize mutates prog's function and method bodies in place, folding
// each to a fixed point. It never fails: a program needing more than the
// iteration bound is simply left partially optimized, matching §4.5's
// termination contract.
func Optimize(prog *ir.Program) {
	for _, mod := range prog.Modules {
		for _, decl := range mod.Declarations {
			switch decl.Kind {
			case ir.DeclFunction:
				optimizeFunction(decl.Function)
			case ir.DeclClass:
				for _, m := range decl.Class.Methods {
					optimizeFunction(m)
				}
				if decl.Class.Constructor != nil {
					optimizeBody(&decl.Class.Constructor.Body)
				}
			}
		}
	}
}

func optimizeFunction(fn *ir.FunctionDecl) {
	optimizeBody(&fn.Body)
}

func optimizeBody(body *ir.Body) {
	for i := 0; i < maxIterations; i++ {
		modified := false
		if body.Tree != nil {
			modified = foldBlock(body.Tree) || modified
		}
		if body.SSA != nil {
			modified = foldCFG(body.SSA) || modified
		}
		if !modified {
			return
		}
	}
}

// --- tree tier -------------------------------------------------------

func foldBlock(b *ir.StatementBlock) bool {
	if b == nil {
		return false
	}
	modified := false
	for i, s := range b.Stmts {
		var changed bool
		b.Stmts[i], changed = foldStmt(s)
		modified = modified || changed
	}
	return modified
}

func foldStmt(stmt ir.Stmt) (ir.Stmt, bool) {
	switch s := stmt.(type) {
	case ir.VarDeclStmt:
		if s.Init == nil {
			return s, false
		}
		folded, changed := foldExpr(s.Init)
		s.Init = folded
		return s, changed
	case ir.AssignStmt:
		folded, changed := foldExpr(s.Value)
		s.Value = folded
		return s, changed
	case ir.ExprStmt:
		folded, changed := foldExpr(s.X)
		s.X = folded
		return s, changed
	case ir.ReturnStmt:
		if s.Value == nil {
			return s, false
		}
		folded, changed := foldExpr(s.Value)
		s.Value = folded
		return s, changed
	case ir.ThrowStmt:
		folded, changed := foldExpr(s.Value)
		s.Value = folded
		return s, changed
	case ir.StatementBlock:
		changed := foldBlock(&s)
		return s, changed
	case ir.IfStmt:
		condFolded, condChanged := foldExpr(s.Cond)
		s.Cond = condFolded
		thenChanged := foldBlock(s.Then)
		elseChanged := foldBlock(s.Else)
		return s, condChanged || thenChanged || elseChanged
	case ir.WhileStmt:
		condFolded, condChanged := foldExpr(s.Cond)
		s.Cond = condFolded
		bodyChanged := foldBlock(s.Body)
		return s, condChanged || bodyChanged
	case ir.ForStmt:
		changed := false
		if s.Cond != nil {
			var condChanged bool
			s.Cond, condChanged = foldExpr(s.Cond)
			changed = changed || condChanged
		}
		changed = foldBlock(s.Body) || changed
		return s, changed
	case ir.ForOfStmt:
		folded, changed := foldExpr(s.Iter)
		s.Iter = folded
		bodyChanged := foldBlock(s.Body)
		return s, changed || bodyChanged
	case ir.TryStmt:
		changed := foldBlock(s.Body)
		for i, c := range s.Catches {
			if foldBlock(c.Body) {
				changed = true
			}
			s.Catches[i] = c
		}
		if s.Finally != nil {
			changed = foldBlock(s.Finally) || changed
		}
		return s, changed
	default:
		return stmt, false
	}
}

// foldExpr recursively folds e's subterms first (post-order), then
// attempts to fold e itself if its (now-folded) operands are all
// literals of compatible kinds. It reports whether anything changed so
// callers can drive the fixed-point loop.
func foldExpr(e ir.Expr) (ir.Expr, bool) {
	switch x := e.(type) {
	case ir.Binary:
		left, lc := foldExpr(x.Left)
		right, rc := foldExpr(x.Right)
		x.Left, x.Right = left, right
		changed := lc || rc
		if folded, ok := foldBinary(x); ok {
			return folded, true
		}
		return x, changed
	case ir.Unary:
		operand, oc := foldExpr(x.Operand)
		x.Operand = operand
		if folded, ok := foldUnary(x); ok {
			return folded, true
		}
		return x, oc
	case ir.Conditional:
		cond, cc := foldExpr(x.Cond)
		then, tc := foldExpr(x.Then)
		els, ec := foldExpr(x.Else)
		x.Cond, x.Then, x.Else = cond, then, els
		changed := cc || tc || ec
		// Ternary folding (§4.5 item 3): literal boolean condition
		// collapses the whole ternary to the live branch.
		if lit, ok := cond.(ir.Literal); ok && lit.Kind == ir.LitBoolean {
			if lit.Boolean {
				return then, true
			}
			return els, true
		}
		return x, changed
	case ir.Call:
		changed := false
		callee, cc := foldExpr(x.Callee)
		x.Callee = callee
		changed = changed || cc
		for i, a := range x.Args {
			folded, ac := foldExpr(a)
			x.Args[i] = folded
			changed = changed || ac
		}
		return x, changed
	case ir.MethodCall:
		changed := false
		recv, rc := foldExpr(x.Receiver)
		x.Receiver = recv
		changed = changed || rc
		for i, a := range x.Args {
			folded, ac := foldExpr(a)
			x.Args[i] = folded
			changed = changed || ac
		}
		return x, changed
	case ir.New:
		changed := false
		for i, a := range x.Args {
			folded, ac := foldExpr(a)
			x.Args[i] = folded
			changed = changed || ac
		}
		return x, changed
	case ir.Member:
		recv, rc := foldExpr(x.Receiver)
		x.Receiver = recv
		return x, rc
	case ir.Index:
		// §4.5 purity contract: index access can trap (out-of-bounds),
		// so the receiver and key fold but the Index itself never does.
		recv, rc := foldExpr(x.Receiver)
		key, kc := foldExpr(x.Key)
		x.Receiver, x.Key = recv, key
		return x, rc || kc
	case ir.ArrayLiteral:
		changed := false
		for i, el := range x.Elements {
			folded, ec := foldExpr(el)
			x.Elements[i] = folded
			changed = changed || ec
		}
		return x, changed
	case ir.Object:
		changed := false
		for i, f := range x.Fields {
			folded, fc := foldExpr(f.Value)
			x.Fields[i].Value = folded
			changed = changed || fc
		}
		return x, changed
	case ir.Await:
		operand, oc := foldExpr(x.Operand)
		x.Operand = operand
		return x, oc
	case ir.TemplateConcat:
		changed := false
		for i, seg := range x.Segments {
			if seg.Expr == nil {
				continue
			}
			folded, sc := foldExpr(seg.Expr)
			x.Segments[i].Expr = folded
			changed = changed || sc
		}
		return x, changed
	default:
		return e, false
	}
}

func foldBinary(b ir.Binary) (ir.Expr, bool) {
	left, ok1 := b.Left.(ir.Literal)
	right, ok2 := b.Right.(ir.Literal)
	if !ok1 || !ok2 {
		return b, false
	}
	switch b.Op {
	case ir.OpAdd:
		if left.Kind == ir.LitNumber && right.Kind == ir.LitNumber {
			return numberLit(left.Number+right.Number, b), true
		}
		if left.Kind == ir.LitString && right.Kind == ir.LitString {
			return stringLit(left.Str+right.Str, b), true
		}
	case ir.OpSub:
		if left.Kind == ir.LitNumber && right.Kind == ir.LitNumber {
			return numberLit(left.Number-right.Number, b), true
		}
	case ir.OpMul:
		if left.Kind == ir.LitNumber && right.Kind == ir.LitNumber {
			return numberLit(left.Number*right.Number, b), true
		}
	case ir.OpDiv:
		if left.Kind == ir.LitNumber && right.Kind == ir.LitNumber {
			// §4.5: division by zero folds to Infinity/-Infinity/NaN
			// following IEEE-754, and is still a successful fold.
			return numberLit(left.Number/right.Number, b), true
		}
	case ir.OpMod:
		if left.Kind == ir.LitNumber && right.Kind == ir.LitNumber {
			return numberLit(math.Mod(left.Number, right.Number), b), true
		}
	case ir.OpLt, ir.OpLe, ir.OpGt, ir.OpGe:
		if ok, result := compareLiterals(b.Op, left, right); ok {
			return boolLit(result, b), true
		}
	case ir.OpEq:
		if left.Kind == right.Kind {
			return boolLit(literalsEqual(left, right), b), true
		}
	case ir.OpNe:
		if left.Kind == right.Kind {
			return boolLit(!literalsEqual(left, right), b), true
		}
	case ir.OpAnd:
		if left.Kind == ir.LitBoolean && right.Kind == ir.LitBoolean {
			return boolLit(left.Boolean && right.Boolean, b), true
		}
	case ir.OpOr:
		if left.Kind == ir.LitBoolean && right.Kind == ir.LitBoolean {
			return boolLit(left.Boolean || right.Boolean, b), true
		}
	}
	return b, false
}

func compareLiterals(op ir.BinaryOp, left, right ir.Literal) (ok bool, result bool) {
	switch {
	case left.Kind == ir.LitNumber && right.Kind == ir.LitNumber:
		return true, compareOrdered(op, left.Number, right.Number)
	case left.Kind == ir.LitString && right.Kind == ir.LitString:
		return true, compareOrdered(op, left.Str, right.Str)
	default:
		return false, false
	}
}

func compareOrdered[T int | float64 | string](op ir.BinaryOp, a, b T) bool {
	switch op {
	case ir.OpLt:
		return a < b
	case ir.OpLe:
		return a <= b
	case ir.OpGt:
		return a > b
	case ir.OpGe:
		return a >= b
	default:
		return false
	}
}

func literalsEqual(a, b ir.Literal) bool {
	switch a.Kind {
	case ir.LitNumber:
		return a.Number == b.Number
	case ir.LitString:
		return a.Str == b.Str
	case ir.LitBoolean:
		return a.Boolean == b.Boolean
	case ir.LitNull, ir.LitUndefined:
		return true
	default:
		return false
	}
}

func foldUnary(u ir.Unary) (ir.Expr, bool) {
	operand, ok := u.Operand.(ir.Literal)
	if !ok {
		return u, false
	}
	switch u.Op {
	case ir.OpNot:
		if operand.Kind == ir.LitBoolean {
			return boolLitUnary(!operand.Boolean, u), true
		}
	case ir.OpNeg:
		if operand.Kind == ir.LitNumber {
			return numberLitUnary(-operand.Number, u), true
		}
	case ir.OpPos:
		if operand.Kind == ir.LitNumber {
			return numberLitUnary(operand.Number, u), true
		}
	case ir.OpTypeof:
		// §4.5: typeof of a literal folds to the source-dialect
		// class-of-value string; typeof null is "object" by the
		// classical quirk, preserved intentionally.
		return stringLitUnary(typeofLiteral(operand), u), true
	}
	return u, false
}

func typeofLiteral(lit ir.Literal) string {
	switch lit.Kind {
	case ir.LitNumber:
		return "number"
	case ir.LitString:
		return "string"
	case ir.LitBoolean:
		return "boolean"
	case ir.LitNull:
		return "object"
	default:
		return "undefined"
	}
}

func numberLit(n float64, like ir.Binary) ir.Expr {
	out := ir.Literal{Kind: ir.LitNumber, Number: n}
	out.P, out.T = like.Pos(), like.Type()
	return out
}

func stringLit(s string, like ir.Binary) ir.Expr {
	out := ir.Literal{Kind: ir.LitString, Str: s}
	out.P, out.T = like.Pos(), like.Type()
	return out
}

func boolLit(v bool, like ir.Binary) ir.Expr {
	out := ir.Literal{Kind: ir.LitBoolean, Boolean: v}
	out.P, out.T = like.Pos(), like.Type()
	return out
}

func numberLitUnary(n float64, like ir.Unary) ir.Expr {
	out := ir.Literal{Kind: ir.LitNumber, Number: n}
	out.P, out.T = like.Pos(), like.Type()
	return out
}

func boolLitUnary(v bool, like ir.Unary) ir.Expr {
	out := ir.Literal{Kind: ir.LitBoolean, Boolean: v}
	out.P, out.T = like.Pos(), like.Type()
	return out
}

func stringLitUnary(s string, like ir.Unary) ir.Expr {
	out := ir.Literal{Kind: ir.LitString, Str: s}
	out.P, out.T = like.Pos(), like.Type()
	return out
}

// --- SSA tier ----------------------------------------------------------

func foldCFG(cfg *ir.CFG) bool {
	modified := false
	for _, blk := range cfg.Blocks {
		for i, instr := range blk.Instructions {
			folded, changed := foldInstruction(instr)
			blk.Instructions[i] = folded
			modified = modified || changed
		}
		if changed := foldTerminator(blk); changed {
			modified = true
		}
	}
	return modified
}

func foldInstruction(instr ir.Instruction) (ir.Instruction, bool) {
	switch in := instr.(type) {
	case ir.AssignInstr:
		folded, changed := foldExpr(in.Value)
		in.Value = folded
		return in, changed
	case ir.CallInstr:
		folded, changed := foldExpr(in.Call)
		in.Call = folded
		return in, changed
	case ir.FieldAssignInstr:
		folded, changed := foldExpr(in.Value)
		in.Value = folded
		return in, changed
	case ir.ExprInstr:
		folded, changed := foldExpr(in.X)
		in.X = folded
		return in, changed
	default:
		return instr, false
	}
}

// foldTerminator implements §4.5 item 2: a branch with a literal boolean
// condition becomes a jump to the live successor. The now-orphaned block
// is intentionally left in place (§4.5, §9) for a later cleanup pass.
func foldTerminator(blk *ir.BasicBlock) bool {
	branch, ok := blk.Terminator.(ir.BranchTerm)
	if !ok {
		return false
	}
	cond, changed := foldExpr(branch.Cond)
	branch.Cond = cond
	lit, isLit := cond.(ir.Literal)
	if !isLit || lit.Kind != ir.LitBoolean {
		blk.Terminator = branch
		return changed
	}
	target := branch.FalseBlock
	if lit.Boolean {
		target = branch.TrueBlock
	}
	jump := ir.JumpTerm{Block: target}
	jump.P = branch.Pos()
	blk.Terminator = jump
	return true
}
