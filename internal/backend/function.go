package backend

import (
	"fmt"
	"strings"

	"github.com/cwbudde/nullforge/internal/ir"
)

func (e *emitter) functionBody(fn *ir.FunctionDecl) (string, error) {
	return e.bodyFor(fn.Body, fn.Name, fn.Async)
}

// bodyFor lowers an SSA CFG into a goto-threaded C++ function body: one
// label per basic block, straight-line instructions between labels, and
// the block's Terminator translated into a goto/return/co_return. A
// tree-tier body reaching here is an internal-error fatal (§7
// BackendFailure) — every caller in the pipeline converts to SSA before
// invoking the backend (§3.5's stage contract).
func (e *emitter) bodyFor(body ir.Body, debugName string, async bool) (string, error) {
	if body.SSA == nil {
		return "", unreachableBackend("%s: function body is not in SSA tier", debugName)
	}
	return e.cfgBlocks(body.SSA, "", map[string]bool{}, async)
}

// blockLabel names a basic block's goto label. The unprefixed top-level
// form ("block_%d") is unchanged from before nested regions existed;
// prefix is non-empty only for a block inside a TryInstr's nested CFG,
// where it disambiguates against the function-wide scope of C++ goto
// labels.
func blockLabel(prefix string, id int) string {
	if prefix == "" {
		return fmt.Sprintf("block_%d", id)
	}
	return fmt.Sprintf("%s_block_%d", prefix, id)
}

// cfgBlocks renders one CFG's blocks as a goto-threaded brace-delimited
// body. declared is shared with the caller so a TryInstr's nested regions
// never re-declare a variable the enclosing body already bound
// (declareOrAssign's doc comment); prefix disambiguates this CFG's goto
// labels from the enclosing function's when non-empty.
func (e *emitter) cfgBlocks(cfg *ir.CFG, prefix string, declared map[string]bool, async bool) (string, error) {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, blk := range cfg.Blocks {
		sb.WriteString(blockLabel(prefix, blk.ID))
		sb.WriteString(":\n")
		for _, instr := range blk.Instructions {
			line, err := e.cppInstruction(instr, declared, prefix, async)
			if err != nil {
				return "", err
			}
			sb.WriteString(line)
		}
		if blk.Terminator == nil {
			return "", unreachableBackend("block %d has no terminator", blk.ID)
		}
		term, err := e.cppTerminator(blk.Terminator, async, prefix)
		if err != nil {
			return "", err
		}
		sb.WriteString("    ")
		sb.WriteString(term)
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String(), nil
}

func (e *emitter) cppInstruction(instr ir.Instruction, declared map[string]bool, prefix string, async bool) (string, error) {
	switch v := instr.(type) {
	case ir.AssignInstr:
		val, err := e.cppExpr(v.Value)
		if err != nil {
			return "", err
		}
		return "    " + e.declareOrAssign(declared, v.Target, val) + "\n", nil
	case ir.CallInstr:
		call, err := e.cppExpr(v.Call)
		if err != nil {
			return "", err
		}
		if v.Target == nil {
			return "    " + call + ";\n", nil
		}
		return "    " + e.declareOrAssign(declared, *v.Target, call) + "\n", nil
	case ir.FieldAssignInstr:
		target, err := e.cppExpr(v.Target)
		if err != nil {
			return "", err
		}
		value, err := e.cppExpr(v.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("    %s = %s;\n", target, value), nil
	case ir.ExprInstr:
		x, err := e.cppExpr(v.X)
		if err != nil {
			return "", err
		}
		return "    " + x + ";\n", nil
	case ir.TryInstr:
		return e.cppTry(v, declared, prefix, async)
	default:
		return "", unreachableBackend("unrecognized instruction %T", instr)
	}
}

// declareOrAssign emits a typed declaration the first time a source name
// is bound in this body and a plain assignment for every later SSA
// version, reconciling multiple versions of one name into a single
// mutable local (ir.Variable's doc comment; §4.2).
func (e *emitter) declareOrAssign(declared map[string]bool, target ir.Variable, value string) string {
	if !declared[target.Name] {
		declared[target.Name] = true
		return fmt.Sprintf("%s %s = %s;", e.cppType(target.Typ), target.Name, value)
	}
	return fmt.Sprintf("%s = %s;", target.Name, value)
}

func (e *emitter) cppTerminator(term ir.Terminator, async bool, prefix string) (string, error) {
	switch t := term.(type) {
	case ir.ReturnTerm:
		if t.Value == nil {
			if async {
				return "co_return;", nil
			}
			return "return;", nil
		}
		val, err := e.cppExpr(t.Value)
		if err != nil {
			return "", err
		}
		if async {
			return fmt.Sprintf("co_return %s;", val), nil
		}
		return fmt.Sprintf("return %s;", val), nil
	case ir.BranchTerm:
		cond, err := e.cppExpr(t.Cond)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("if (%s) goto %s; else goto %s;", cond, blockLabel(prefix, t.TrueBlock), blockLabel(prefix, t.FalseBlock)), nil
	case ir.JumpTerm:
		return fmt.Sprintf("goto %s;", blockLabel(prefix, t.Block)), nil
	case ir.UnreachableTerm:
		return "nf::unreachable();", nil
	case ir.ThrowTerm:
		val, err := e.cppExpr(t.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("throw %s;", val), nil
	default:
		return "", unreachableBackend("unrecognized terminator %T", term)
	}
}

// cppTry renders a TryInstr as a nested native C++ try/catch, recursing
// through cfgBlocks for the protected body and every catch body with a
// region-unique label prefix (C++ goto labels are function-scoped, so
// sibling/nested try regions would otherwise collide on "block_0" etc.).
// C++ has no native finally: the finally body is duplicated onto the
// normal-exit path and onto an outer catch(...) that reruns it and
// rethrows, the standard idiom for this translation.
func (e *emitter) cppTry(instr ir.TryInstr, declared map[string]bool, prefix string, async bool) (string, error) {
	e.tryRegion++
	region := fmt.Sprintf("%stry%d", prefix, e.tryRegion)

	protected, err := e.cfgBlocks(instr.ProtectedBody, region+"_body", declared, async)
	if err != nil {
		return "", err
	}

	var inner strings.Builder
	inner.WriteString("try ")
	inner.WriteString(protected)
	for i, c := range instr.Catches {
		body, err := e.cfgBlocks(c.Body, fmt.Sprintf("%s_catch%d", region, i), declared, async)
		if err != nil {
			return "", err
		}
		if c.ExceptionTyp != nil {
			declared[c.ExceptionVar] = true
			fmt.Fprintf(&inner, " catch (%s& %s) %s", e.cppType(c.ExceptionTyp), c.ExceptionVar, body)
		} else {
			fmt.Fprintf(&inner, " catch (...) %s", body)
		}
	}

	if instr.Finally == nil {
		inner.WriteString("\n")
		return inner.String(), nil
	}

	// Rendered twice under distinct label prefixes, once for the
	// exceptional path and once for the normal-exit path: the two copies
	// land in separate braces within the same C++ function, and goto
	// labels are function-scoped, so reusing one rendering would collide.
	finallyOnThrow, err := e.cfgBlocks(instr.Finally, region+"_finally_throw", declared, async)
	if err != nil {
		return "", err
	}
	finallyNormal, err := e.cfgBlocks(instr.Finally, region+"_finally_normal", declared, async)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	if len(instr.Catches) == 0 {
		fmt.Fprintf(&out, "try %s catch (...) %s\n", protected, wrapRethrow(finallyOnThrow))
	} else {
		fmt.Fprintf(&out, "try {\n%s\n} catch (...) %s\n", inner.String(), wrapRethrow(finallyOnThrow))
	}
	out.WriteString(finallyNormal)
	out.WriteString("\n")
	return out.String(), nil
}

// wrapRethrow turns a finally body's rendered block into the body of the
// outer catch(...) that reruns it before propagating the original
// exception.
func wrapRethrow(finallyBody string) string {
	trimmed := strings.TrimSuffix(strings.TrimSpace(finallyBody), "}")
	return trimmed + "    throw;\n}"
}
