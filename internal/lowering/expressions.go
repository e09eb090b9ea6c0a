package lowering

import (
	"github.com/cwbudde/nullforge/internal/diag"
	"github.com/cwbudde/nullforge/internal/ir"
	"github.com/cwbudde/nullforge/internal/sourceast"
)

func (l *Lowerer) lowerExpr(e sourceast.Expression) ir.Expr {
	switch x := e.(type) {
	case *sourceast.Literal:
		return l.lowerLiteral(x)
	case *sourceast.Ident:
		out := ir.Ident{Name: x.Name}
		out.P = x.Pos()
		out.T = l.lowerType(x.Typ)
		return out
	case *sourceast.Binary:
		left := l.lowerExpr(x.Left)
		right := l.lowerExpr(x.Right)
		out := ir.Binary{Op: lowerBinaryOp(x.Op), Left: left, Right: right}
		out.P = x.Pos()
		out.T = l.lowerType(x.Typ)
		return out
	case *sourceast.Unary:
		operand := l.lowerExpr(x.Operand)
		out := ir.Unary{Op: lowerUnaryOp(x.Op), Operand: operand}
		out.P = x.Pos()
		out.T = l.lowerType(x.Typ)
		return out
	case *sourceast.Conditional:
		out := ir.Conditional{Cond: l.lowerExpr(x.Cond), Then: l.lowerExpr(x.Then), Else: l.lowerExpr(x.Else)}
		out.P = x.Pos()
		out.T = l.lowerType(x.Typ)
		return out
	case *sourceast.Call:
		args := make([]ir.Expr, len(x.Args))
		for i, a := range x.Args {
			args[i] = l.lowerExpr(a)
		}
		out := ir.Call{Callee: l.lowerExpr(x.Callee), Args: args}
		out.P = x.Pos()
		out.T = l.lowerType(x.Typ)
		return out
	case *sourceast.MethodCall:
		// §4.2: kept distinct from call-on-member to preserve vtable
		// dispatch intent.
		args := make([]ir.Expr, len(x.Args))
		for i, a := range x.Args {
			args[i] = l.lowerExpr(a)
		}
		out := ir.MethodCall{Receiver: l.lowerExpr(x.Receiver), Method: x.Method, Args: args}
		out.P = x.Pos()
		out.T = l.lowerType(x.Typ)
		return out
	case *sourceast.Member:
		out := ir.Member{Receiver: l.lowerExpr(x.Receiver), Name: x.Name}
		out.P = x.Pos()
		out.T = l.lowerType(x.Typ)
		return out
	case *sourceast.Index:
		out := ir.Index{Receiver: l.lowerExpr(x.Receiver), Key: l.lowerExpr(x.Key)}
		out.P = x.Pos()
		out.T = l.lowerType(x.Typ)
		return out
	case *sourceast.New:
		args := make([]ir.Expr, len(x.Args))
		for i, a := range x.Args {
			args[i] = l.lowerExpr(a)
		}
		out := ir.New{ClassName: x.ClassName, Args: args}
		out.P = x.Pos()
		out.T = l.lowerType(x.Typ)
		return out
	case *sourceast.ArrayLiteral:
		elems := make([]ir.Expr, len(x.Elements))
		for i, el := range x.Elements {
			elems[i] = l.lowerExpr(el)
		}
		out := ir.ArrayLiteral{Elements: elems}
		out.P = x.Pos()
		out.T = l.lowerType(x.Typ)
		return out
	case *sourceast.ObjectLiteral:
		return l.lowerObjectLiteral(x)
	case *sourceast.Lambda:
		return l.lowerLambda(x)
	case *sourceast.Await:
		out := ir.Await{Operand: l.lowerExpr(x.Operand)}
		out.P = x.Pos()
		out.T = l.lowerType(x.Typ)
		return out
	case *sourceast.TemplateConcat:
		return l.lowerTemplateConcat(x)
	case *sourceast.Move:
		// Move/Borrow lower to their operand: a `move x` or `borrow x`
		// expression denotes the value of x, and the tree tier keeps no
		// record of the wrapper. SSA conversion (ssa.go) therefore never
		// sees it and produces no ir.MoveValue/ir.BorrowValue.
		return l.lowerExpr(x.Operand)
	case *sourceast.Borrow:
		return l.lowerExpr(x.Operand)
	case *sourceast.IncDec:
		return l.lowerIncDecRValue(x)
	default:
		l.fatalf(e.Pos(), "lowering: unrecognized expression %T", e)
		out := ir.Literal{Kind: ir.LitUndefined}
		out.P = e.Pos()
		out.T = ir.Primitive{Kind: ir.KindVoid}
		return out
	}
}

func (l *Lowerer) lowerLiteral(x *sourceast.Literal) ir.Expr {
	out := ir.Literal{}
	switch x.Kind {
	case sourceast.PrimNumber:
		out.Kind, out.Number = ir.LitNumber, x.Number
	case sourceast.PrimString:
		out.Kind, out.Str = ir.LitString, x.Str
	case sourceast.PrimBoolean:
		out.Kind, out.Boolean = ir.LitBoolean, x.Boolean
	case sourceast.PrimNull:
		out.Kind = ir.LitNull
	case sourceast.PrimUndefined:
		out.Kind = ir.LitUndefined
	}
	out.P = x.Pos()
	out.T = l.lowerType(x.Typ)
	return out
}

// lowerIncDecRValue implements §4.2/§9's documented open question: this
// lowering rejects `++x`/`--x` used as an r-value. The statement form is
// intercepted earlier, in lowerStmt's ExprStmt case, which routes to
// lowerStmtAsIncDec's `+= 1`/`-= 1` desugaring before lowerExpr (and
// therefore this function) ever sees it; only a genuine expression-position
// use — nested inside another expression — reaches here.
func (l *Lowerer) lowerIncDecRValue(x *sourceast.IncDec) ir.Expr {
	l.bag.AddError(diag.New(diag.CodeLoweringFailure, x.Pos(),
		"increment/decrement used as a value is not supported; use the statement form `%s %s= 1`",
		identName(x.Operand), incDecOpSymbol(x)), l.fileOrder)
	out := ir.Literal{Kind: ir.LitUndefined}
	out.P = x.Pos()
	out.T = l.lowerType(x.Typ)
	return out
}

func incDecOpSymbol(x *sourceast.IncDec) string {
	if x.Inc {
		return "+"
	}
	return "-"
}

func identName(e sourceast.Expression) string {
	if id, ok := e.(*sourceast.Ident); ok {
		return id.Name
	}
	return "<expr>"
}

func (l *Lowerer) lowerObjectLiteral(x *sourceast.ObjectLiteral) ir.Expr {
	fields := make([]ir.ObjectField, len(x.Fields))
	recordFields := make([]ir.RecordField, len(x.Fields))
	for i, f := range x.Fields {
		v := l.lowerExpr(f.Value)
		fields[i] = ir.ObjectField{Name: f.Name, Value: v}
		recordFields[i] = ir.RecordField{Name: f.Name, Type: v.Type()}
	}
	var recType ir.Type
	if x.Typ != nil {
		if _, anon := x.Typ.(sourceast.AnonymousObjectType); !anon {
			recType = l.lowerType(x.Typ)
		}
	}
	if recType == nil {
		// §4.2, §9: no contextual type hint, or the front-end only gave us
		// the inferred shape — synthesize/intern the structural record.
		recType = l.records.Intern(recordFields)
	}
	out := ir.Object{Fields: fields}
	out.P = x.Pos()
	out.T = recType
	return out
}

func (l *Lowerer) lowerLambda(x *sourceast.Lambda) ir.Expr {
	params := make([]ir.LambdaParam, len(x.Params))
	for i, p := range x.Params {
		params[i] = ir.LambdaParam{Name: p.Name, Type: l.lowerType(p.Type)}
	}
	savedDeclared := l.declared
	// A lambda's body is lowered in a scope seeded with the enclosing
	// function's declared names (captures are visible) plus its own
	// parameters; the hoister (§4.6), not this package, performs the
	// non-trivial free-variable/shadowing analysis.
	l.declared = map[string]bool{}
	for name := range savedDeclared {
		l.declared[name] = true
	}
	for _, p := range params {
		l.declared[p.Name] = true
	}
	body := &ir.StatementBlock{}
	for i, s := range x.Body {
		body.Stmts = append(body.Stmts, l.lowerStmt(s))
		if _, isReturn := s.(*sourceast.Return); isReturn && i < len(x.Body)-1 {
			break
		}
	}
	l.declared = savedDeclared

	out := ir.Lambda{Params: params, Body: body, Captures: append([]string(nil), x.Captures...)}
	out.P = x.Pos()
	out.T = l.lowerType(x.Typ)
	return out
}

func (l *Lowerer) lowerTemplateConcat(x *sourceast.TemplateConcat) ir.Expr {
	segs := make([]ir.TemplateSegment, len(x.Segments))
	for i, s := range x.Segments {
		seg := ir.TemplateSegment{Literal: s.Literal}
		if s.Expr != nil {
			v := l.lowerExpr(s.Expr)
			seg.Expr = v
			prim, isPrimitive := v.Type().(ir.Primitive)
			seg.ToStringNeeded = !(isPrimitive && prim.Kind == ir.KindString)
		}
		segs[i] = seg
	}
	out := ir.TemplateConcat{Segments: segs}
	out.P = x.Pos()
	out.T = l.lowerType(x.Typ)
	return out
}

func lowerBinaryOp(op sourceast.BinaryOp) ir.BinaryOp {
	switch op {
	case sourceast.OpAdd:
		return ir.OpAdd
	case sourceast.OpSub:
		return ir.OpSub
	case sourceast.OpMul:
		return ir.OpMul
	case sourceast.OpDiv:
		return ir.OpDiv
	case sourceast.OpMod:
		return ir.OpMod
	case sourceast.OpEq:
		return ir.OpEq
	case sourceast.OpNe:
		return ir.OpNe
	case sourceast.OpLt:
		return ir.OpLt
	case sourceast.OpLe:
		return ir.OpLe
	case sourceast.OpGt:
		return ir.OpGt
	case sourceast.OpGe:
		return ir.OpGe
	case sourceast.OpAnd:
		return ir.OpAnd
	case sourceast.OpOr:
		return ir.OpOr
	default:
		// OpWeakEq/OpWeakNe never reach lowering: the validator rejects
		// them first (§4.1 codes 106/107) and the pipeline aborts.
		return ir.OpEq
	}
}

func lowerUnaryOp(op sourceast.UnaryOp) ir.UnaryOp {
	switch op {
	case sourceast.OpNot:
		return ir.OpNot
	case sourceast.OpNeg:
		return ir.OpNeg
	case sourceast.OpPos:
		return ir.OpPos
	case sourceast.OpTypeof:
		return ir.OpTypeof
	default:
		// OpVoid never reaches lowering: rejected by the validator first
		// (§4.1 code 115).
		return ir.OpNot
	}
}
