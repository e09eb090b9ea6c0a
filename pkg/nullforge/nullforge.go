// Package nullforge is the embeddable entry point: the same pipeline the
// nullforgec CLI drives, wrapped the way the teacher's pkg/dwscript wraps
// its own interpreter behind an Engine value and functional options
// (dwscript.New, dwscript.WithOutput). There is no bundled front end
// (lexer/parser) — the spec treats that as out of scope — so Compile
// takes an already-resolved internal/sourceast.Program, the same typed
// AST internal/lowering consumes and internal/lowering's own tests build
// by hand.
package nullforge

import (
	"fmt"

	"github.com/cwbudde/nullforge/internal/backend"
	"github.com/cwbudde/nullforge/internal/config"
	"github.com/cwbudde/nullforge/internal/diag"
	"github.com/cwbudde/nullforge/internal/pipeline"
	"github.com/cwbudde/nullforge/internal/sourceast"
)

// Entry names the module and top-level function the generated main
// invokes.
type Entry struct {
	Module   string
	Function string
}

// Option configures an Engine. Options are applied in order on top of
// config.Default().
type Option func(*config.Options)

// WithMemoryMode selects "gc" or "ownership" (§6.4).
func WithMemoryMode(mode string) Option {
	return func(o *config.Options) { o.MemoryModeName = mode }
}

// WithOptimizationLevel sets the level passed verbatim to the C++ driver
// (0-3); it has no effect on this compiler's own optimizer, which always
// runs to its fixed point.
func WithOptimizationLevel(level int) Option {
	return func(o *config.Options) { o.OptimizationLevel = level }
}

// WithDebug sets the debug flag for the C++ driver. The backend does not
// read it: generated code carries no source locations either way.
func WithDebug(debug bool) Option {
	return func(o *config.Options) { o.Debug = debug }
}

// WithTargetTriple sets the triple passed verbatim to the C++ driver.
func WithTargetTriple(triple string) Option {
	return func(o *config.Options) { o.TargetTriple = triple }
}

// WithFilesystemFeature and WithHTTPFeature gate the corresponding
// optional runtime header, in addition to the IR actually referencing
// that built-in namespace (§4.7).
func WithFilesystemFeature(enabled bool) Option {
	return func(o *config.Options) { o.FilesystemFeature = enabled }
}

func WithHTTPFeature(enabled bool) Option {
	return func(o *config.Options) { o.HTTPFeature = enabled }
}

// Engine holds one resolved configuration, ready to compile any number of
// programs against it.
type Engine struct {
	opts config.Options
}

// New resolves a fresh Engine from config.Default() plus the given
// options. It fails only if the combination resolves to an invalid
// memory mode (§6.4).
func New(opts ...Option) (*Engine, error) {
	o := config.Default()
	for _, apply := range opts {
		apply(&o)
	}
	if err := o.Resolve(); err != nil {
		return nil, err
	}
	return &Engine{opts: o}, nil
}

// ModuleOutput is the generated header/translation-unit pair for one
// module.
type ModuleOutput struct {
	Path   string
	Header string
	Source string
}

// Output is everything a successful Compile produces.
type Output struct {
	Modules []ModuleOutput
	Main    string
	Records string
}

// Diagnostic is one finding from any stage, detached from the internal
// diag.Diagnostic so callers outside this module never need to import an
// internal package to read a compile result.
type Diagnostic struct {
	Code     string
	Severity string
	Message  string
	Position string // empty when the diagnostic has no anchored location
}

// Result is what Compile returns. Output is nil when any stage reported
// an error; Diagnostics is non-nil whenever any stage reported anything,
// including warnings from a program that still compiled successfully.
type Result struct {
	Output      *Output
	Diagnostics []Diagnostic
}

// HasErrors reports whether r's diagnostics include at least one error.
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == "error" {
			return true
		}
	}
	return false
}

// Compile runs prog through every pipeline stage under e's configuration,
// emitting C++ for the function named by entry. The returned error is
// never about the source program — that's what Result.Diagnostics is
// for. A nil prog is rejected with an error; otherwise the only error is
// a *diag.BackendFailure, the one internal-error fatal §7 defines as
// unreachable for a well-formed program.
func (e *Engine) Compile(prog *sourceast.Program, entry Entry) (*Result, error) {
	if prog == nil {
		return nil, fmt.Errorf("nullforge: prog is nil")
	}
	pipelineResult, bag, err := pipeline.Run(prog, backend.Entry{Module: entry.Module, Function: entry.Function}, e.opts)
	if err != nil {
		return nil, err
	}
	result := &Result{Diagnostics: toDiagnostics(bag)}
	if pipelineResult == nil {
		return result, nil
	}
	result.Output = toOutput(pipelineResult.Output)
	return result, nil
}

func toDiagnostics(bag *diag.Bag) []Diagnostic {
	sorted := bag.Sorted()
	if len(sorted) == 0 {
		return nil
	}
	out := make([]Diagnostic, len(sorted))
	for i, d := range sorted {
		pos := ""
		if d.HasPos {
			pos = d.Pos.String()
		}
		out[i] = Diagnostic{
			Code:     string(d.Code),
			Severity: d.Severity.String(),
			Message:  d.Message,
			Position: pos,
		}
	}
	return out
}

func toOutput(out *backend.Output) *Output {
	modules := make([]ModuleOutput, len(out.Modules))
	for i, m := range out.Modules {
		modules[i] = ModuleOutput{Path: m.Path, Header: m.Header, Source: m.Source}
	}
	return &Output{Modules: modules, Main: out.Main, Records: out.Records}
}
