package backend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/nullforge/internal/ir"
)

// cppExpr renders an expression to its C++ spelling. It understands both
// tiers' Ident/VarRef shapes — a VarRef's SSA version is dropped since
// the backend reconciles every version of one source name into a single
// mutable local (ir.Variable's doc comment).
func (e *emitter) cppExpr(expr ir.Expr) (string, error) {
	switch x := expr.(type) {
	case ir.Literal:
		return e.cppLiteral(x), nil
	case ir.Ident:
		return x.Name, nil
	case ir.VarRef:
		return x.Var.Name, nil
	case ir.MoveValue:
		return fmt.Sprintf("std::move(%s)", x.Source.Name), nil
	case ir.BorrowValue:
		return fmt.Sprintf("%s.get()", x.Source.Name), nil
	case ir.Binary:
		left, err := e.cppExpr(x.Left)
		if err != nil {
			return "", err
		}
		right, err := e.cppExpr(x.Right)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s %s)", left, string(x.Op), right), nil
	case ir.Unary:
		operand, err := e.cppExpr(x.Operand)
		if err != nil {
			return "", err
		}
		if x.Op == ir.OpTypeof {
			return fmt.Sprintf("nf::typeof_(%s)", operand), nil
		}
		return fmt.Sprintf("(%s%s)", string(x.Op), operand), nil
	case ir.Conditional:
		cond, err := e.cppExpr(x.Cond)
		if err != nil {
			return "", err
		}
		then, err := e.cppExpr(x.Then)
		if err != nil {
			return "", err
		}
		els, err := e.cppExpr(x.Else)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s ? %s : %s)", cond, then, els), nil
	case ir.Call:
		return e.cppCall(x)
	case ir.MethodCall:
		return e.cppMethodCall(x)
	case ir.Member:
		return e.cppMember(x)
	case ir.Index:
		receiver, err := e.cppExpr(x.Receiver)
		if err != nil {
			return "", err
		}
		key, err := e.cppExpr(x.Key)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s[%s]", receiver, key), nil
	case ir.New:
		args, err := e.cppArgs(x.Args)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("nf::make<%s>(%s)", x.ClassName, args), nil
	case ir.ArrayLiteral:
		elems, err := e.cppArgs(x.Elements)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s{%s}", e.cppType(x.Type()), elems), nil
	case ir.Object:
		return e.cppObject(x)
	case ir.Await:
		operand, err := e.cppExpr(x.Operand)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("co_await %s", operand), nil
	case ir.TemplateConcat:
		return e.cppTemplateConcat(x)
	case ir.Lambda:
		return e.cppLambda(x)
	default:
		return "", unreachableBackend("unrecognized expression %T", expr)
	}
}

// cppLambda renders an arrow function (or a hoister-kept nested function,
// synthesized as a Lambda by lowering's convertNestedFunc) as a C++
// lambda expression. An explicit, non-empty Captures list is threaded
// through by name; otherwise the lambda captures its enclosing scope by
// reference, which is always sound for a closure that only reads or
// mutates already-live outer locals.
func (e *emitter) cppLambda(x ir.Lambda) (string, error) {
	capture := "&"
	if len(x.Captures) > 0 {
		parts := make([]string, len(x.Captures))
		for i, name := range x.Captures {
			parts[i] = "&" + name
		}
		capture = strings.Join(parts, ", ")
	}
	params := make([]string, len(x.Params))
	for i, p := range x.Params {
		params[i] = fmt.Sprintf("%s %s", e.cppType(p.Type), p.Name)
	}
	body, err := e.cppTreeBody(x.Body)
	if err != nil {
		return "", err
	}
	ret := ""
	if fn, ok := x.Type().(ir.Function); ok {
		ret = fmt.Sprintf(" -> %s", e.cppType(fn.Return))
	}
	return fmt.Sprintf("[%s](%s)%s %s", capture, strings.Join(params, ", "), ret, body), nil
}

func (e *emitter) cppLiteral(lit ir.Literal) string {
	switch lit.Kind {
	case ir.LitNumber:
		return strconv.FormatFloat(lit.Number, 'g', -1, 64)
	case ir.LitString:
		return fmt.Sprintf("nf::String(%q)", lit.Str)
	case ir.LitBoolean:
		if lit.Boolean {
			return "true"
		}
		return "false"
	case ir.LitNull:
		return "nullptr"
	case ir.LitUndefined:
		return "nf::undefined()"
	default:
		return "/* literal */"
	}
}

func (e *emitter) cppArgs(args []ir.Expr) (string, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		s, err := e.cppExpr(a)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.Join(parts, ", "), nil
}

func (e *emitter) cppCall(c ir.Call) (string, error) {
	callee, err := e.cppExpr(c.Callee)
	if err != nil {
		return "", err
	}
	args, err := e.cppArgs(c.Args)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s(%s)", callee, args), nil
}

func (e *emitter) cppMethodCall(m ir.MethodCall) (string, error) {
	receiver, err := e.cppExpr(m.Receiver)
	if err != nil {
		return "", err
	}
	args, err := e.cppArgs(m.Args)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.%s(%s)", receiver, m.Method, args), nil
}

// cppMember decides, by inspecting the receiver's static type rather
// than the member name, whether this compiles to a struct field load or
// a call into a managed collection's accessor (§4.7's explicitly called
// out disambiguation invariant).
func (e *emitter) cppMember(m ir.Member) (string, error) {
	receiver, err := e.cppExpr(m.Receiver)
	if err != nil {
		return "", err
	}
	switch m.Receiver.Type().(type) {
	case ir.Array:
		if m.Name == "length" {
			return fmt.Sprintf("%s.size()", receiver), nil
		}
	case ir.Map:
		if m.Name == "size" {
			return fmt.Sprintf("%s.size()", receiver), nil
		}
	}
	return fmt.Sprintf("%s.%s", receiver, m.Name), nil
}

func (e *emitter) cppObject(o ir.Object) (string, error) {
	rec, ok := o.Type().(ir.Record)
	if !ok {
		return "", unreachableBackend("object literal with non-record type %s", o.Type())
	}
	parts := make([]string, len(o.Fields))
	for i, f := range o.Fields {
		val, err := e.cppExpr(f.Value)
		if err != nil {
			return "", err
		}
		parts[i] = fmt.Sprintf(".%s = %s", f.Name, val)
	}
	return fmt.Sprintf("%s{%s}", rec.Name, strings.Join(parts, ", ")), nil
}

func (e *emitter) cppTemplateConcat(t ir.TemplateConcat) (string, error) {
	var parts []string
	for _, seg := range t.Segments {
		if seg.Expr == nil {
			parts = append(parts, fmt.Sprintf("nf::String(%q)", seg.Literal))
			continue
		}
		val, err := e.cppExpr(seg.Expr)
		if err != nil {
			return "", err
		}
		if seg.ToStringNeeded {
			val = fmt.Sprintf("nf::toString(%s)", val)
		}
		parts = append(parts, val)
	}
	if len(parts) == 0 {
		return "nf::String(\"\")", nil
	}
	return strings.Join(parts, " + "), nil
}
