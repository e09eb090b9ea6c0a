package backend

import (
	"fmt"
	"strings"

	"github.com/cwbudde/nullforge/internal/ir"
)

// emitMain renders the generated program entry (§4.7 "Entry point"): a
// `main` that calls the designated entry module's top-level function. An
// empty Entry.Function emits a no-op main, the §8 boundary behavior for
// an empty program.
func (e *emitter) emitMain(entry Entry) (string, error) {
	var sb strings.Builder
	sb.WriteString("#include \"nf/runtime.h\"\n")
	for _, mod := range e.prog.Modules {
		sb.WriteString(fmt.Sprintf("#include \"%s.h\"\n", baseName(mod.Path)))
	}
	sb.WriteString("\n")

	if entry.Function == "" {
		sb.WriteString("int main() {\n    return 0;\n}\n")
		return sb.String(), nil
	}

	fn, err := e.findEntryFunction(entry)
	if err != nil {
		return "", err
	}

	sb.WriteString("int main() {\n")
	qualified := fmt.Sprintf("%s::%s", namespaceFor(entry.Module), entry.Function)
	if fn.Async {
		sb.WriteString(fmt.Sprintf("    nf::blockingWait(%s());\n", qualified))
	} else {
		sb.WriteString(fmt.Sprintf("    %s();\n", qualified))
	}
	sb.WriteString("    return 0;\n}\n")
	return sb.String(), nil
}

func (e *emitter) findEntryFunction(entry Entry) (*ir.FunctionDecl, error) {
	for _, mod := range e.prog.Modules {
		if mod.Path != entry.Module {
			continue
		}
		for _, decl := range mod.Declarations {
			if decl.Kind == ir.DeclFunction && decl.Function.Name == entry.Function {
				return decl.Function, nil
			}
		}
	}
	return nil, unreachableBackend("entry function %s::%s not found", entry.Module, entry.Function)
}
