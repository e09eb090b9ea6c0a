package hoist

import (
	"sort"

	"github.com/cwbudde/nullforge/internal/ir"
)

// isRecursive reports whether name is called anywhere reachable from
// fn's own body, including through nested control flow and
// further-nested function bodies, but not past a local redeclaration of
// name (§4.6 criterion 1).
func isRecursive(name string, fn *ir.FunctionDecl) bool {
	if fn.Body.Tree == nil {
		return false
	}
	found := false
	walkBlockForRecursion(fn.Body.Tree, name, &found)
	return found
}

func walkBlockForRecursion(b *ir.StatementBlock, name string, found *bool) {
	if b == nil || *found {
		return
	}
	for _, s := range b.Stmts {
		if vd, ok := s.(ir.VarDeclStmt); ok && vd.Name == name {
			if vd.Init != nil {
				walkExprForRecursion(vd.Init, name, found)
			}
			return // name is shadowed for the rest of this block
		}
		walkStmtForRecursion(s, name, found)
		if *found {
			return
		}
	}
}

func walkStmtForRecursion(stmt ir.Stmt, name string, found *bool) {
	switch s := stmt.(type) {
	case ir.ExprStmt:
		walkExprForRecursion(s.X, name, found)
	case ir.AssignStmt:
		walkExprForRecursion(s.Target, name, found)
		walkExprForRecursion(s.Value, name, found)
	case ir.ReturnStmt:
		if s.Value != nil {
			walkExprForRecursion(s.Value, name, found)
		}
	case ir.StatementBlock:
		walkBlockForRecursion(&s, name, found)
	case ir.IfStmt:
		walkExprForRecursion(s.Cond, name, found)
		walkBlockForRecursion(s.Then, name, found)
		walkBlockForRecursion(s.Else, name, found)
	case ir.WhileStmt:
		walkExprForRecursion(s.Cond, name, found)
		walkBlockForRecursion(s.Body, name, found)
	case ir.ForStmt:
		if s.Init != nil {
			walkStmtForRecursion(s.Init, name, found)
		}
		if s.Cond != nil {
			walkExprForRecursion(s.Cond, name, found)
		}
		if s.Step != nil {
			walkStmtForRecursion(s.Step, name, found)
		}
		walkBlockForRecursion(s.Body, name, found)
	case ir.ForOfStmt:
		walkExprForRecursion(s.Iter, name, found)
		if s.VarName != name {
			walkBlockForRecursion(s.Body, name, found)
		}
	case ir.TryStmt:
		walkBlockForRecursion(s.Body, name, found)
		for _, c := range s.Catches {
			if c.ExceptionVar != name {
				walkBlockForRecursion(c.Body, name, found)
			}
		}
		walkBlockForRecursion(s.Finally, name, found)
	case ir.ThrowStmt:
		walkExprForRecursion(s.Value, name, found)
	case ir.NestedFuncStmt:
		if shadowsName(s.Decl, name) {
			return
		}
		walkBlockForRecursion(s.Decl.Body.Tree, name, found)
	}
}

func shadowsName(fn *ir.FunctionDecl, name string) bool {
	if fn.Name == name {
		return true
	}
	for _, p := range fn.Params {
		if p.Name == name {
			return true
		}
	}
	return false
}

func walkExprForRecursion(expr ir.Expr, name string, found *bool) {
	if expr == nil || *found {
		return
	}
	switch e := expr.(type) {
	case ir.Call:
		if id, ok := e.Callee.(ir.Ident); ok && id.Name == name {
			*found = true
			return
		}
		walkExprForRecursion(e.Callee, name, found)
		for _, a := range e.Args {
			walkExprForRecursion(a, name, found)
		}
	case ir.MethodCall:
		walkExprForRecursion(e.Receiver, name, found)
		for _, a := range e.Args {
			walkExprForRecursion(a, name, found)
		}
	case ir.Binary:
		walkExprForRecursion(e.Left, name, found)
		walkExprForRecursion(e.Right, name, found)
	case ir.Unary:
		walkExprForRecursion(e.Operand, name, found)
	case ir.Conditional:
		walkExprForRecursion(e.Cond, name, found)
		walkExprForRecursion(e.Then, name, found)
		walkExprForRecursion(e.Else, name, found)
	case ir.Member:
		walkExprForRecursion(e.Receiver, name, found)
	case ir.Index:
		walkExprForRecursion(e.Receiver, name, found)
		walkExprForRecursion(e.Key, name, found)
	case ir.New:
		for _, a := range e.Args {
			walkExprForRecursion(a, name, found)
		}
	case ir.ArrayLiteral:
		for _, el := range e.Elements {
			walkExprForRecursion(el, name, found)
		}
	case ir.Object:
		for _, f := range e.Fields {
			walkExprForRecursion(f.Value, name, found)
		}
	case ir.Lambda:
		for _, p := range e.Params {
			if p.Name == name {
				return
			}
		}
		walkBlockForRecursion(e.Body, name, found)
	case ir.Await:
		walkExprForRecursion(e.Operand, name, found)
	case ir.TemplateConcat:
		for _, seg := range e.Segments {
			walkExprForRecursion(seg.Expr, name, found)
		}
	}
}

// hasFreeVariable reports whether fn references any name in outerNames
// that it does not itself bind via a parameter or local declaration
// (§4.6 criterion 2), at any depth including further-nested functions
// and lambdas, which inherit fn's lexical scope.
func hasFreeVariable(fn *ir.FunctionDecl, outerNames map[string]bool) bool {
	if fn.Body.Tree == nil {
		return false
	}
	bound := map[string]bool{}
	for _, p := range fn.Params {
		bound[p.Name] = true
	}
	found := false
	walkBlockForFree(fn.Body.Tree, bound, outerNames, &found)
	return found
}

func copyNames(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k := range m {
		out[k] = true
	}
	return out
}

func walkBlockForFree(b *ir.StatementBlock, bound, outer map[string]bool, found *bool) {
	if b == nil || *found {
		return
	}
	local := copyNames(bound)
	for _, s := range b.Stmts {
		walkStmtForFree(s, local, outer, found)
		if vd, ok := s.(ir.VarDeclStmt); ok {
			local[vd.Name] = true
		}
		if *found {
			return
		}
	}
}

func walkStmtForFree(stmt ir.Stmt, bound, outer map[string]bool, found *bool) {
	switch s := stmt.(type) {
	case ir.VarDeclStmt:
		if s.Init != nil {
			walkExprForFree(s.Init, bound, outer, found)
		}
	case ir.ExprStmt:
		walkExprForFree(s.X, bound, outer, found)
	case ir.AssignStmt:
		walkExprForFree(s.Target, bound, outer, found)
		walkExprForFree(s.Value, bound, outer, found)
	case ir.ReturnStmt:
		if s.Value != nil {
			walkExprForFree(s.Value, bound, outer, found)
		}
	case ir.StatementBlock:
		walkBlockForFree(&s, bound, outer, found)
	case ir.IfStmt:
		walkExprForFree(s.Cond, bound, outer, found)
		walkBlockForFree(s.Then, bound, outer, found)
		walkBlockForFree(s.Else, bound, outer, found)
	case ir.WhileStmt:
		walkExprForFree(s.Cond, bound, outer, found)
		walkBlockForFree(s.Body, bound, outer, found)
	case ir.ForStmt:
		child := copyNames(bound)
		if s.Init != nil {
			walkStmtForFree(s.Init, child, outer, found)
			if vd, ok := s.Init.(ir.VarDeclStmt); ok {
				child[vd.Name] = true
			}
		}
		if s.Cond != nil {
			walkExprForFree(s.Cond, child, outer, found)
		}
		if s.Step != nil {
			walkStmtForFree(s.Step, child, outer, found)
		}
		walkBlockForFree(s.Body, child, outer, found)
	case ir.ForOfStmt:
		walkExprForFree(s.Iter, bound, outer, found)
		child := copyNames(bound)
		child[s.VarName] = true
		walkBlockForFree(s.Body, child, outer, found)
	case ir.TryStmt:
		walkBlockForFree(s.Body, bound, outer, found)
		for _, c := range s.Catches {
			child := copyNames(bound)
			child[c.ExceptionVar] = true
			walkBlockForFree(c.Body, child, outer, found)
		}
		walkBlockForFree(s.Finally, bound, outer, found)
	case ir.ThrowStmt:
		walkExprForFree(s.Value, bound, outer, found)
	case ir.NestedFuncStmt:
		child := copyNames(bound)
		for _, p := range s.Decl.Params {
			child[p.Name] = true
		}
		walkBlockForFree(s.Decl.Body.Tree, child, outer, found)
	}
}

// freeVariableNames returns the actual names fn references from outerNames
// without itself binding them, the names-collecting counterpart of
// hasFreeVariable needed once a nested function is kept in place rather
// than promoted: those free names become its lambda's capture list
// (§4.6, ir.Lambda's doc comment: "non-trivial capture analysis for
// recursive nested functions belongs to the hoister"). The names are
// returned in sorted order, for stable output.
func freeVariableNames(fn *ir.FunctionDecl, outerNames map[string]bool) []string {
	if fn.Body.Tree == nil {
		return nil
	}
	bound := map[string]bool{}
	for _, p := range fn.Params {
		bound[p.Name] = true
	}
	found := map[string]bool{}
	walkBlockCollectFree(fn.Body.Tree, bound, outerNames, found)
	if len(found) == 0 {
		return nil
	}
	names := make([]string, 0, len(found))
	for name := range found {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func walkBlockCollectFree(b *ir.StatementBlock, bound, outer map[string]bool, found map[string]bool) {
	if b == nil {
		return
	}
	local := copyNames(bound)
	for _, s := range b.Stmts {
		walkStmtCollectFree(s, local, outer, found)
		if vd, ok := s.(ir.VarDeclStmt); ok {
			local[vd.Name] = true
		}
	}
}

func walkStmtCollectFree(stmt ir.Stmt, bound, outer map[string]bool, found map[string]bool) {
	switch s := stmt.(type) {
	case ir.VarDeclStmt:
		if s.Init != nil {
			walkExprCollectFree(s.Init, bound, outer, found)
		}
	case ir.ExprStmt:
		walkExprCollectFree(s.X, bound, outer, found)
	case ir.AssignStmt:
		walkExprCollectFree(s.Target, bound, outer, found)
		walkExprCollectFree(s.Value, bound, outer, found)
	case ir.ReturnStmt:
		if s.Value != nil {
			walkExprCollectFree(s.Value, bound, outer, found)
		}
	case ir.StatementBlock:
		walkBlockCollectFree(&s, bound, outer, found)
	case ir.IfStmt:
		walkExprCollectFree(s.Cond, bound, outer, found)
		walkBlockCollectFree(s.Then, bound, outer, found)
		walkBlockCollectFree(s.Else, bound, outer, found)
	case ir.WhileStmt:
		walkExprCollectFree(s.Cond, bound, outer, found)
		walkBlockCollectFree(s.Body, bound, outer, found)
	case ir.ForStmt:
		child := copyNames(bound)
		if s.Init != nil {
			walkStmtCollectFree(s.Init, child, outer, found)
			if vd, ok := s.Init.(ir.VarDeclStmt); ok {
				child[vd.Name] = true
			}
		}
		if s.Cond != nil {
			walkExprCollectFree(s.Cond, child, outer, found)
		}
		if s.Step != nil {
			walkStmtCollectFree(s.Step, child, outer, found)
		}
		walkBlockCollectFree(s.Body, child, outer, found)
	case ir.ForOfStmt:
		walkExprCollectFree(s.Iter, bound, outer, found)
		child := copyNames(bound)
		child[s.VarName] = true
		walkBlockCollectFree(s.Body, child, outer, found)
	case ir.TryStmt:
		walkBlockCollectFree(s.Body, bound, outer, found)
		for _, c := range s.Catches {
			child := copyNames(bound)
			child[c.ExceptionVar] = true
			walkBlockCollectFree(c.Body, child, outer, found)
		}
		walkBlockCollectFree(s.Finally, bound, outer, found)
	case ir.ThrowStmt:
		walkExprCollectFree(s.Value, bound, outer, found)
	case ir.NestedFuncStmt:
		child := copyNames(bound)
		for _, p := range s.Decl.Params {
			child[p.Name] = true
		}
		walkBlockCollectFree(s.Decl.Body.Tree, child, outer, found)
	}
}

func walkExprCollectFree(expr ir.Expr, bound, outer map[string]bool, found map[string]bool) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case ir.Ident:
		if !bound[e.Name] && outer[e.Name] {
			found[e.Name] = true
		}
	case ir.Call:
		walkExprCollectFree(e.Callee, bound, outer, found)
		for _, a := range e.Args {
			walkExprCollectFree(a, bound, outer, found)
		}
	case ir.MethodCall:
		walkExprCollectFree(e.Receiver, bound, outer, found)
		for _, a := range e.Args {
			walkExprCollectFree(a, bound, outer, found)
		}
	case ir.Binary:
		walkExprCollectFree(e.Left, bound, outer, found)
		walkExprCollectFree(e.Right, bound, outer, found)
	case ir.Unary:
		walkExprCollectFree(e.Operand, bound, outer, found)
	case ir.Conditional:
		walkExprCollectFree(e.Cond, bound, outer, found)
		walkExprCollectFree(e.Then, bound, outer, found)
		walkExprCollectFree(e.Else, bound, outer, found)
	case ir.Member:
		walkExprCollectFree(e.Receiver, bound, outer, found)
	case ir.Index:
		walkExprCollectFree(e.Receiver, bound, outer, found)
		walkExprCollectFree(e.Key, bound, outer, found)
	case ir.New:
		for _, a := range e.Args {
			walkExprCollectFree(a, bound, outer, found)
		}
	case ir.ArrayLiteral:
		for _, el := range e.Elements {
			walkExprCollectFree(el, bound, outer, found)
		}
	case ir.Object:
		for _, f := range e.Fields {
			walkExprCollectFree(f.Value, bound, outer, found)
		}
	case ir.Lambda:
		child := copyNames(bound)
		for _, p := range e.Params {
			child[p.Name] = true
		}
		walkBlockCollectFree(e.Body, child, outer, found)
	case ir.Await:
		walkExprCollectFree(e.Operand, bound, outer, found)
	case ir.TemplateConcat:
		for _, seg := range e.Segments {
			walkExprCollectFree(seg.Expr, bound, outer, found)
		}
	}
}

func walkExprForFree(expr ir.Expr, bound, outer map[string]bool, found *bool) {
	if expr == nil || *found {
		return
	}
	switch e := expr.(type) {
	case ir.Ident:
		if !bound[e.Name] && outer[e.Name] {
			*found = true
		}
	case ir.Call:
		walkExprForFree(e.Callee, bound, outer, found)
		for _, a := range e.Args {
			walkExprForFree(a, bound, outer, found)
		}
	case ir.MethodCall:
		walkExprForFree(e.Receiver, bound, outer, found)
		for _, a := range e.Args {
			walkExprForFree(a, bound, outer, found)
		}
	case ir.Binary:
		walkExprForFree(e.Left, bound, outer, found)
		walkExprForFree(e.Right, bound, outer, found)
	case ir.Unary:
		walkExprForFree(e.Operand, bound, outer, found)
	case ir.Conditional:
		walkExprForFree(e.Cond, bound, outer, found)
		walkExprForFree(e.Then, bound, outer, found)
		walkExprForFree(e.Else, bound, outer, found)
	case ir.Member:
		walkExprForFree(e.Receiver, bound, outer, found)
	case ir.Index:
		walkExprForFree(e.Receiver, bound, outer, found)
		walkExprForFree(e.Key, bound, outer, found)
	case ir.New:
		for _, a := range e.Args {
			walkExprForFree(a, bound, outer, found)
		}
	case ir.ArrayLiteral:
		for _, el := range e.Elements {
			walkExprForFree(el, bound, outer, found)
		}
	case ir.Object:
		for _, f := range e.Fields {
			walkExprForFree(f.Value, bound, outer, found)
		}
	case ir.Lambda:
		child := copyNames(bound)
		for _, p := range e.Params {
			child[p.Name] = true
		}
		walkBlockForFree(e.Body, child, outer, found)
	case ir.Await:
		walkExprForFree(e.Operand, bound, outer, found)
	case ir.TemplateConcat:
		for _, seg := range e.Segments {
			walkExprForFree(seg.Expr, bound, outer, found)
		}
	}
}
