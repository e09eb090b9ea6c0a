package backend

import (
	"fmt"
	"strings"

	"github.com/cwbudde/nullforge/internal/ir"
)

// cppTreeBody renders a still-tree-tier statement block directly to C++
// using native control flow rather than goto-threading. A Lambda's body
// never goes through SSA conversion (expr.go's Lambda doc comment), so it
// takes this path instead of cfgBlocks.
func (e *emitter) cppTreeBody(b *ir.StatementBlock) (string, error) {
	var sb strings.Builder
	sb.WriteString("{\n")
	if err := e.cppTreeStmts(b.Stmts, &sb); err != nil {
		return "", err
	}
	sb.WriteString("}")
	return sb.String(), nil
}

func (e *emitter) cppTreeStmts(stmts []ir.Stmt, sb *strings.Builder) error {
	for _, s := range stmts {
		if err := e.cppTreeStmt(s, sb); err != nil {
			return err
		}
	}
	return nil
}

func (e *emitter) cppTreeStmt(stmt ir.Stmt, sb *strings.Builder) error {
	switch s := stmt.(type) {
	case ir.VarDeclStmt:
		val, err := e.cppExpr(s.Init)
		if err != nil {
			return err
		}
		fmt.Fprintf(sb, "%s %s = %s;\n", e.cppType(s.Typ), s.Name, val)
	case ir.AssignStmt:
		target, err := e.cppExpr(s.Target)
		if err != nil {
			return err
		}
		val, err := e.cppExpr(s.Value)
		if err != nil {
			return err
		}
		fmt.Fprintf(sb, "%s = %s;\n", target, val)
	case ir.ExprStmt:
		x, err := e.cppExpr(s.X)
		if err != nil {
			return err
		}
		fmt.Fprintf(sb, "%s;\n", x)
	case ir.ReturnStmt:
		if s.Value == nil {
			sb.WriteString("return;\n")
			return nil
		}
		val, err := e.cppExpr(s.Value)
		if err != nil {
			return err
		}
		fmt.Fprintf(sb, "return %s;\n", val)
	case ir.StatementBlock:
		sb.WriteString("{\n")
		if err := e.cppTreeStmts(s.Stmts, sb); err != nil {
			return err
		}
		sb.WriteString("}\n")
	case ir.IfStmt:
		cond, err := e.cppExpr(s.Cond)
		if err != nil {
			return err
		}
		fmt.Fprintf(sb, "if (%s) {\n", cond)
		if err := e.cppTreeStmts(s.Then.Stmts, sb); err != nil {
			return err
		}
		if s.Else != nil {
			sb.WriteString("} else {\n")
			if err := e.cppTreeStmts(s.Else.Stmts, sb); err != nil {
				return err
			}
		}
		sb.WriteString("}\n")
	case ir.WhileStmt:
		cond, err := e.cppExpr(s.Cond)
		if err != nil {
			return err
		}
		fmt.Fprintf(sb, "while (%s) {\n", cond)
		if err := e.cppTreeStmts(s.Body.Stmts, sb); err != nil {
			return err
		}
		sb.WriteString("}\n")
	case ir.ForStmt:
		init, cond, step, err := e.cppTreeForClauses(s)
		if err != nil {
			return err
		}
		fmt.Fprintf(sb, "for (%s; %s; %s) {\n", init, cond, step)
		if err := e.cppTreeStmts(s.Body.Stmts, sb); err != nil {
			return err
		}
		sb.WriteString("}\n")
	case ir.ForOfStmt:
		iter, err := e.cppExpr(s.Iter)
		if err != nil {
			return err
		}
		typ := s.VarType
		if typ == nil {
			typ = ir.Primitive{Kind: ir.KindNumber}
		}
		fmt.Fprintf(sb, "for (%s %s : %s) {\n", e.cppType(typ), s.VarName, iter)
		if err := e.cppTreeStmts(s.Body.Stmts, sb); err != nil {
			return err
		}
		sb.WriteString("}\n")
	case ir.TryStmt:
		return e.cppTreeTry(s, sb)
	case ir.ThrowStmt:
		val, err := e.cppExpr(s.Value)
		if err != nil {
			return err
		}
		fmt.Fprintf(sb, "throw %s;\n", val)
	case ir.BreakStmt:
		sb.WriteString("break;\n")
	case ir.ContinueStmt:
		sb.WriteString("continue;\n")
	case ir.NestedFuncStmt:
		lambda := nestedFuncLambda(s)
		rendered, err := e.cppLambda(lambda)
		if err != nil {
			return err
		}
		fmt.Fprintf(sb, "auto %s = %s;\n", s.Decl.Name, rendered)
	default:
		return unreachableBackend("unrecognized tree statement %T", stmt)
	}
	return nil
}

// cppTreeForClauses renders a ForStmt's three clauses as bare expression
// text (no trailing semicolon, no statement terminator) since they sit
// inside the single `for (...; ...; ...)` header rather than as
// standalone statements.
func (e *emitter) cppTreeForClauses(s ir.ForStmt) (init, cond, step string, err error) {
	if s.Init != nil {
		init, err = e.cppTreeHeaderClause(s.Init)
		if err != nil {
			return "", "", "", err
		}
	}
	if s.Cond != nil {
		cond, err = e.cppExpr(s.Cond)
		if err != nil {
			return "", "", "", err
		}
	}
	if s.Step != nil {
		step, err = e.cppTreeHeaderClause(s.Step)
		if err != nil {
			return "", "", "", err
		}
	}
	return init, cond, step, nil
}

func (e *emitter) cppTreeHeaderClause(stmt ir.Stmt) (string, error) {
	switch s := stmt.(type) {
	case ir.VarDeclStmt:
		val, err := e.cppExpr(s.Init)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s = %s", e.cppType(s.Typ), s.Name, val), nil
	case ir.AssignStmt:
		target, err := e.cppExpr(s.Target)
		if err != nil {
			return "", err
		}
		val, err := e.cppExpr(s.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s = %s", target, val), nil
	default:
		return "", unreachableBackend("unrecognized for-header clause %T", stmt)
	}
}

// cppTreeTry renders a tree-tier try/catch/finally with native nested
// try/catch; simpler than the SSA-tier cppTry since direct-style code has
// no goto labels to collide across regions. C++ has no native finally, so
// the finally body is duplicated onto the normal-exit path and onto an
// outer catch(...) that reruns it before rethrowing.
func (e *emitter) cppTreeTry(s ir.TryStmt, sb *strings.Builder) error {
	var bodyBuf strings.Builder
	if err := e.cppTreeStmts(s.Body.Stmts, &bodyBuf); err != nil {
		return err
	}

	var innerBuf strings.Builder
	innerBuf.WriteString("try {\n")
	innerBuf.WriteString(bodyBuf.String())
	innerBuf.WriteString("}")
	for _, c := range s.Catches {
		var catchBuf strings.Builder
		if err := e.cppTreeStmts(c.Body.Stmts, &catchBuf); err != nil {
			return err
		}
		if c.ExceptionTyp != nil {
			fmt.Fprintf(&innerBuf, " catch (%s& %s) {\n", e.cppType(c.ExceptionTyp), c.ExceptionVar)
		} else {
			innerBuf.WriteString(" catch (...) {\n")
		}
		innerBuf.WriteString(catchBuf.String())
		innerBuf.WriteString("}")
	}

	if s.Finally == nil {
		innerBuf.WriteString("\n")
		sb.WriteString(innerBuf.String())
		return nil
	}

	var finallyBuf strings.Builder
	if err := e.cppTreeStmts(s.Finally.Stmts, &finallyBuf); err != nil {
		return err
	}

	if len(s.Catches) == 0 {
		sb.WriteString("try {\n")
		sb.WriteString(bodyBuf.String())
		sb.WriteString("} catch (...) {\n")
		sb.WriteString(finallyBuf.String())
		sb.WriteString("throw;\n")
		sb.WriteString("}\n")
	} else {
		sb.WriteString("try {\n")
		sb.WriteString(innerBuf.String())
		sb.WriteString("\n} catch (...) {\n")
		sb.WriteString(finallyBuf.String())
		sb.WriteString("throw;\n")
		sb.WriteString("}\n")
	}
	sb.WriteString(finallyBuf.String())
	return nil
}

// nestedFuncLambda builds the same Lambda shape lowering's
// convertNestedFunc produces, for a NestedFuncStmt reached directly
// inside an already-tree-tier Lambda body (a nested-nested function);
// those never pass through the hoister's own capture analysis, so
// Captures is whatever the hoister happened to record, possibly nil.
func nestedFuncLambda(s ir.NestedFuncStmt) ir.Lambda {
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
	return lambda
}
