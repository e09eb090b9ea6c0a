package backend

import (
	"fmt"
	"strings"
)

// emitRecordsHeader renders every anonymous record interned across the
// whole program (ir.Table, shared program-wide) into one shared header,
// included by every module. Emitting them once, program-wide, rather
// than per-module keeps the synthesized struct for a given structural
// shape unique (§4.2, §8: "exactly one anonymous record struct is
// synthesized").
func (e *emitter) emitRecordsHeader() string {
	var sb strings.Builder
	sb.WriteString("#ifndef NULLFORGE_RECORDS_H\n#define NULLFORGE_RECORDS_H\n\n")
	sb.WriteString("#include \"nf/runtime.h\"\n\n")
	for _, rec := range e.prog.Records.Records() {
		sb.WriteString(fmt.Sprintf("struct %s {\n", rec.Name))
		for _, f := range rec.Fields {
			sb.WriteString(fmt.Sprintf("    %s %s;\n", e.cppType(f.Type), f.Name))
		}
		sb.WriteString("};\n\n")
	}
	sb.WriteString("#endif // NULLFORGE_RECORDS_H\n")
	return sb.String()
}
