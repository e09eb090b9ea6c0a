// Package pipeline orchestrates the seven compilation stages in order
// (§2): Validator, Lowering, Ownership Analyzer, Null Checker, Optimizer,
// Function Hoister, C++ Backend. Each stage runs only if every stage
// before it produced zero errors (§7's fail-fast, forward-only
// requirement); diagnostics accumulate into one Bag across stages so a
// caller sees every finding from the furthest stage reached, not just the
// first stage's.
package pipeline

import (
	"github.com/cwbudde/nullforge/internal/backend"
	"github.com/cwbudde/nullforge/internal/config"
	"github.com/cwbudde/nullforge/internal/diag"
	"github.com/cwbudde/nullforge/internal/hoist"
	"github.com/cwbudde/nullforge/internal/ir"
	"github.com/cwbudde/nullforge/internal/lowering"
	"github.com/cwbudde/nullforge/internal/nullcheck"
	"github.com/cwbudde/nullforge/internal/optimizer"
	"github.com/cwbudde/nullforge/internal/ownership"
	"github.com/cwbudde/nullforge/internal/sourceast"
	"github.com/cwbudde/nullforge/internal/validator"
)

// Result is everything a successful run through every stage produces.
type Result struct {
	Program *ir.Program
	Output  *backend.Output
}

// Run compiles src under opts, emitting C++ for the function named by
// entry. It returns as far as the pipeline got: a nil Result with a
// non-empty error Bag means some stage before the backend rejected the
// program; diagnostics accumulated by stages that did run are always
// returned alongside, even on success, since earlier stages may still have
// left warnings in the bag (§7). A non-nil error is a *diag.BackendFailure,
// the one internal-error fatal §7 defines: it bypasses Bag accumulation
// entirely, since it signals an IR the validator should never have let
// through rather than a finding about the source program.
func Run(src *sourceast.Program, entry backend.Entry, opts config.Options) (*Result, *diag.Bag, error) {
	prog, bag := Analyze(src, opts)
	if prog == nil {
		return nil, bag, nil
	}

	ConvertToSSA(prog)

	out, err := backend.Emit(prog, entry, opts)
	if err != nil {
		return nil, bag, &diag.BackendFailure{Message: err.Error()}
	}

	return &Result{Program: prog, Output: out}, bag, nil
}

// Analyze runs every stage up to and including the hoister, leaving
// bodies in the tree tier (§3.5). A nil *ir.Program means the validator,
// lowering, ownership or null-check stage found an error; the caller
// should stop there rather than attempt ConvertToSSA or backend.Emit.
// Exported so tools like nullforgec's emit-ir command can inspect the IR
// without requiring a backend entry point.
func Analyze(src *sourceast.Program, opts config.Options) (*ir.Program, *diag.Bag) {
	bag := &diag.Bag{}

	bag.Merge(validator.Validate(src))
	if bag.HasErrors() {
		return nil, bag
	}

	prog, lowerBag := lowering.Lower(src, opts.MemoryMode)
	bag.Merge(lowerBag)
	if bag.HasErrors() {
		return nil, bag
	}

	bag.Merge(ownership.Analyze(prog, opts.MemoryMode))
	if bag.HasErrors() {
		return nil, bag
	}

	bag.Merge(nullcheck.Check(prog, opts.MemoryMode))
	if bag.HasErrors() {
		return nil, bag
	}

	optimizer.Optimize(prog)
	hoist.Hoist(prog)

	return prog, bag
}

// ConvertToSSA converts every function, method and constructor body from
// the tree tier to the SSA tier (§3.5's stage contract): the hoister
// still operates on trees, but the backend requires SSA. A body already
// in the SSA tier is left alone.
func ConvertToSSA(prog *ir.Program) {
	for _, mod := range prog.Modules {
		for _, decl := range mod.Declarations {
			switch decl.Kind {
			case ir.DeclFunction:
				convertBody(&decl.Function.Body)
			case ir.DeclClass:
				if decl.Class.Constructor != nil {
					convertBody(&decl.Class.Constructor.Body)
				}
				for _, m := range decl.Class.Methods {
					convertBody(&m.Body)
				}
			}
		}
	}
}

func convertBody(body *ir.Body) {
	if body.Tree == nil {
		return
	}
	body.SSA = lowering.ToSSA(body.Tree)
	body.Tree = nil
}
