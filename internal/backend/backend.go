// Package backend implements the C++ emission stage (§4.7), the seventh
// and final pipeline stage: it lowers a fully analyzed, optimized,
// hoisted ir.Program into one header and one translation unit per
// module, plus a generated program entry point. Every function body it
// consumes must already be in the SSA tier (§3.5's stage contract); the
// pipeline converts tree-tier bodies left over from the hoister before
// calling Emit.
package backend

import (
	"fmt"
	"strings"

	"github.com/cwbudde/nullforge/internal/config"
	"github.com/cwbudde/nullforge/internal/ir"
)

// ModuleOutput is the generated header/translation-unit pair for one IR
// module (§6.3).
type ModuleOutput struct {
	Path   string
	Header string // c.h
	Source string // c.cpp
}

// Output is everything Emit produces for a whole program.
type Output struct {
	Modules []ModuleOutput
	Main    string // main.cpp
	Records string // records.h, shared across all modules
}

// Entry names the module and top-level function the generated main
// invokes (§4.7 "Entry point").
type Entry struct {
	Module   string
	Function string
}

type emitter struct {
	prog      *ir.Program
	opts      config.Options
	usesFS    bool
	usesHTTP  bool
	tryRegion int // counts TryInstr regions emitted so far, for unique goto-label prefixes
}

// Emit translates prog into C++ source text per §4.7. entry identifies
// the module path and function name the generated main calls.
func Emit(prog *ir.Program, entry Entry, opts config.Options) (*Output, error) {
	e := &emitter{prog: prog, opts: opts}
	e.scanFeatureUse()

	out := &Output{Records: e.emitRecordsHeader()}
	for _, mod := range prog.Modules {
		header, err := e.emitHeader(mod)
		if err != nil {
			return nil, err
		}
		source, err := e.emitSource(mod)
		if err != nil {
			return nil, err
		}
		out.Modules = append(out.Modules, ModuleOutput{
			Path:   mod.Path,
			Header: header,
			Source: source,
		})
	}
	main, err := e.emitMain(entry)
	if err != nil {
		return nil, err
	}
	out.Main = main
	return out, nil
}

// scanFeatureUse records whether any module imports the filesystem or
// HTTP built-in namespace, gating the optional runtime headers (§4.7)
// alongside the corresponding config flag.
func (e *emitter) scanFeatureUse() {
	for _, mod := range e.prog.Modules {
		for _, imp := range mod.Imports {
			switch imp.FromModule {
			case "fs", "filesystem":
				e.usesFS = true
			case "http":
				e.usesHTTP = true
			}
		}
	}
}

// namespaceFor maps a module path's directory separators to C++
// namespace separators (§4.7).
func namespaceFor(path string) string {
	return strings.ReplaceAll(path, "/", "::")
}

func headerGuard(path string) string {
	upper := strings.ToUpper(path)
	var sb strings.Builder
	for _, r := range upper {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	sb.WriteString("_H")
	return sb.String()
}

func baseName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

func unreachableBackend(format string, args ...any) error {
	return fmt.Errorf("backend: "+format, args...)
}
