package lowering

import (
	"github.com/cwbudde/nullforge/internal/ir"
	"github.com/cwbudde/nullforge/internal/sourceast"
)

func (l *Lowerer) lowerBlock(b *sourceast.Block) *ir.StatementBlock {
	out := &ir.StatementBlock{}
	if b == nil {
		return out
	}
	out.P = b.Pos()
	for i, s := range b.Stmts {
		lowered := l.lowerStmt(s)
		out.Stmts = append(out.Stmts, lowered)
		// §4.2: "subsequent statements in the same tree block are
		// unreachable and dropped" once a Return is captured.
		if _, isReturn := s.(*sourceast.Return); isReturn && i < len(b.Stmts)-1 {
			break
		}
	}
	return out
}

func (l *Lowerer) lowerStmt(stmt sourceast.Statement) ir.Stmt {
	switch s := stmt.(type) {
	case *sourceast.VarDecl:
		l.declared[s.Name] = true
		var init ir.Expr
		if s.Init != nil {
			init = l.lowerExpr(s.Init)
		}
		out := ir.VarDeclStmt{Name: s.Name, Typ: l.lowerType(s.Type), Init: init}
		out.P = s.Pos()
		return out
	case *sourceast.Assign:
		return l.lowerAssign(s)
	case *sourceast.ExprStmt:
		if inc, ok := s.X.(*sourceast.IncDec); ok {
			return l.lowerStmtAsIncDec(inc)
		}
		out := ir.ExprStmt{X: l.lowerExpr(s.X)}
		out.P = s.Pos()
		return out
	case *sourceast.Return:
		var v ir.Expr
		if s.Value != nil {
			v = l.lowerExpr(s.Value)
		}
		out := ir.ReturnStmt{Value: v}
		out.P = s.Pos()
		return out
	case *sourceast.Block:
		return *l.lowerBlock(s)
	case *sourceast.If:
		var elseBlock *ir.StatementBlock
		if s.Else != nil {
			elseBlock = l.lowerBlock(s.Else)
		}
		out := ir.IfStmt{Cond: l.lowerExpr(s.Cond), Then: l.lowerBlock(s.Then), Else: elseBlock}
		out.P = s.Pos()
		return out
	case *sourceast.While:
		out := ir.WhileStmt{Cond: l.lowerExpr(s.Cond), Body: l.lowerBlock(s.Body)}
		out.P = s.Pos()
		return out
	case *sourceast.For:
		var initStmt, stepStmt ir.Stmt
		if s.Init != nil {
			initStmt = l.lowerStmt(s.Init)
		}
		if s.Step != nil {
			stepStmt = l.lowerStmt(s.Step)
		}
		var cond ir.Expr
		if s.Cond != nil {
			cond = l.lowerExpr(s.Cond)
		}
		out := ir.ForStmt{Init: initStmt, Cond: cond, Step: stepStmt, Body: l.lowerBlock(s.Body)}
		out.P = s.Pos()
		return out
	case *sourceast.ForOf:
		l.declared[s.VarName] = true
		out := ir.ForOfStmt{VarName: s.VarName, Iter: l.lowerExpr(s.Iter), Body: l.lowerBlock(s.Body)}
		out.P = s.Pos()
		return out
	case *sourceast.Try:
		out := ir.TryStmt{Body: l.lowerBlock(s.Body)}
		for _, c := range s.Catches {
			l.declared[c.ExceptionVar] = true
			var excType ir.Type
			if c.ExceptionTyp != nil {
				excType = l.lowerType(c.ExceptionTyp)
			}
			out.Catches = append(out.Catches, ir.CatchClause{ExceptionVar: c.ExceptionVar, ExceptionTyp: excType, Body: l.lowerBlock(c.Body)})
		}
		if s.Finally != nil {
			out.Finally = l.lowerBlock(s.Finally)
		}
		out.P = s.Pos()
		return out
	case *sourceast.Throw:
		out := ir.ThrowStmt{Value: l.lowerExpr(s.Value)}
		out.P = s.Pos()
		return out
	case *sourceast.Break:
		out := ir.BreakStmt{}
		out.P = s.Pos()
		return out
	case *sourceast.Continue:
		out := ir.ContinueStmt{}
		out.P = s.Pos()
		return out
	case *sourceast.FuncDeclStmt:
		out := ir.NestedFuncStmt{Decl: l.lowerFunction(s.Decl, "")}
		out.P = s.Pos()
		return out
	default:
		l.fatalf(stmt.Pos(), "lowering: unrecognized statement %T", stmt)
		return ir.ExprStmt{}
	}
}

// lowerAssign implements §4.2's assignment lowering: plain assignment keeps
// IsDeclaration=false (the VarDecl path above is the only source of
// IsDeclaration=true); compound assignment desugars to
// assign(lhs, binary(op, lhs, rhs)).
func (l *Lowerer) lowerAssign(s *sourceast.Assign) ir.Stmt {
	target := l.lowerExpr(s.Target)
	value := l.lowerExpr(s.Value)
	if s.Op != "" {
		bin := ir.Binary{Op: lowerBinaryOp(s.Op), Left: target, Right: value}
		bin.P = target.Pos()
		bin.T = target.Type()
		value = bin
	}
	out := ir.AssignStmt{Target: target, Value: value}
	out.P = s.Pos()
	return out
}

// lowerStmtAsIncDec implements §4.2's statement form of `++x`/`--x`:
// desugars to assign(x, binary(+/-, x, 1)), the same shape lowerAssign
// produces for `x += 1`/`x -= 1`. The r-value form is rejected separately
// by lowerIncDecRValue.
func (l *Lowerer) lowerStmtAsIncDec(x *sourceast.IncDec) ir.Stmt {
	target := l.lowerExpr(x.Operand)
	one := ir.Literal{Kind: ir.LitNumber, Number: 1}
	one.P = x.Pos()
	one.T = target.Type()

	op := ir.OpAdd
	if !x.Inc {
		op = ir.OpSub
	}
	bin := ir.Binary{Op: op, Left: target, Right: one}
	bin.P = target.Pos()
	bin.T = target.Type()

	out := ir.AssignStmt{Target: target, Value: bin}
	out.P = x.Pos()
	return out
}
