package backend

import (
	"fmt"
	"strings"

	"github.com/cwbudde/nullforge/internal/ir"
)

func (e *emitter) emitHeader(mod *ir.Module) (string, error) {
	var sb strings.Builder
	guard := headerGuard(mod.Path)
	sb.WriteString(fmt.Sprintf("#ifndef %s\n#define %s\n\n", guard, guard))
	sb.WriteString("#include \"nf/runtime.h\"\n")
	sb.WriteString("#include \"records.h\"\n")
	if e.usesFS && e.opts.FilesystemFeature {
		sb.WriteString("#include \"nf/fs.h\"\n")
	}
	if e.usesHTTP && e.opts.HTTPFeature {
		sb.WriteString("#include \"nf/http.h\"\n")
	}
	sb.WriteString("\n")

	ns := namespaceFor(mod.Path)
	sb.WriteString(fmt.Sprintf("namespace %s {\n\n", ns))

	for _, decl := range mod.Declarations {
		if decl.Kind == ir.DeclClass || decl.Kind == ir.DeclInterface {
			sb.WriteString(fmt.Sprintf("class %s;\n", decl.Name()))
		}
	}
	sb.WriteString("\n")

	for _, decl := range mod.Declarations {
		switch decl.Kind {
		case ir.DeclConst:
			sb.WriteString(fmt.Sprintf("extern %s %s;\n\n", e.cppType(decl.Const.Typ), decl.Const.Name))
		case ir.DeclTypeAlias:
			sb.WriteString(fmt.Sprintf("using %s = %s;\n\n", decl.TypeAlias.Name, e.cppType(decl.TypeAlias.Aliased)))
		case ir.DeclFunction:
			sb.WriteString(e.functionSignature(decl.Function))
			sb.WriteString(";\n\n")
		case ir.DeclInterface:
			sb.WriteString(e.interfaceHeader(decl.Interface))
		case ir.DeclClass:
			sb.WriteString(e.classHeader(decl.Class))
		}
	}

	sb.WriteString(fmt.Sprintf("} // namespace %s\n\n", ns))
	sb.WriteString(fmt.Sprintf("#endif // %s\n", guard))
	return sb.String(), nil
}

func (e *emitter) interfaceHeader(iface *ir.InterfaceDecl) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("class %s {\npublic:\n", iface.Name))
	sb.WriteString(fmt.Sprintf("    virtual ~%s() = default;\n", iface.Name))
	for _, p := range iface.Properties {
		sb.WriteString(fmt.Sprintf("    virtual %s %s() const = 0;\n", e.cppType(p.Typ), p.Name))
	}
	for _, m := range iface.Methods {
		sb.WriteString(fmt.Sprintf("    virtual %s %s(%s) = 0;\n", e.cppType(m.ReturnType), m.Name, e.paramList(m.Params)))
	}
	sb.WriteString("};\n\n")
	return sb.String()
}

func (e *emitter) classHeader(cls *ir.ClassDecl) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("class %s", cls.Name))
	var bases []string
	if cls.Parent != "" {
		bases = append(bases, "public "+cls.Parent)
	}
	for _, iface := range cls.Implements {
		bases = append(bases, "public "+iface)
	}
	if len(bases) > 0 {
		sb.WriteString(" : " + strings.Join(bases, ", "))
	}
	sb.WriteString(" {\npublic:\n")

	if cls.Constructor != nil {
		sb.WriteString(fmt.Sprintf("    %s(%s);\n", cls.Name, e.paramList(cls.Constructor.Params)))
	}
	for _, m := range cls.Methods {
		prefix := "    "
		if m.IsStatic {
			prefix += "static "
		}
		sb.WriteString(fmt.Sprintf("%s%s %s(%s);\n", prefix, e.cppType(m.ReturnType), m.Name, e.paramList(m.Params)))
	}
	sb.WriteString("\n")
	for _, f := range cls.Fields {
		qualifier := ""
		if f.ReadOnly {
			qualifier = "const "
		}
		sb.WriteString(fmt.Sprintf("    %s%s %s;\n", qualifier, e.cppType(f.Typ), f.Name))
	}
	sb.WriteString("};\n\n")
	return sb.String()
}

func (e *emitter) paramList(params []ir.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("%s %s", e.cppType(p.Typ), p.Name)
	}
	return strings.Join(parts, ", ")
}

func (e *emitter) functionSignature(fn *ir.FunctionDecl) string {
	ret := e.cppType(fn.ReturnType)
	if fn.Async {
		ret = fmt.Sprintf("nf::Task<%s>", e.cppType(asyncResult(fn.ReturnType)))
	}
	return fmt.Sprintf("%s %s(%s)", ret, fn.Name, e.paramList(fn.Params))
}

// asyncResult unwraps the Promise the lowerer wraps every async return
// type in (internal/lowering's lowerFunction), since the backend's
// coroutine template supplies its own Task wrapper (§4.7).
func asyncResult(t ir.Type) ir.Type {
	if p, ok := t.(ir.Promise); ok {
		return p.Result
	}
	return t
}

func (e *emitter) emitSource(mod *ir.Module) (string, error) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("#include \"%s.h\"\n\n", baseName(mod.Path)))
	ns := namespaceFor(mod.Path)
	sb.WriteString(fmt.Sprintf("namespace %s {\n\n", ns))

	for _, decl := range mod.Declarations {
		switch decl.Kind {
		case ir.DeclConst:
			expr, err := e.cppExpr(decl.Const.Init)
			if err != nil {
				return "", err
			}
			sb.WriteString(fmt.Sprintf("%s %s = %s;\n\n", e.cppType(decl.Const.Typ), decl.Const.Name, expr))
		case ir.DeclFunction:
			body, err := e.functionBody(decl.Function)
			if err != nil {
				return "", err
			}
			sb.WriteString(e.functionSignature(decl.Function))
			sb.WriteString(" ")
			sb.WriteString(body)
			sb.WriteString("\n\n")
		case ir.DeclClass:
			src, err := e.classSource(decl.Class)
			if err != nil {
				return "", err
			}
			sb.WriteString(src)
		}
	}

	sb.WriteString(fmt.Sprintf("} // namespace %s\n", ns))
	return sb.String(), nil
}

func (e *emitter) classSource(cls *ir.ClassDecl) (string, error) {
	var sb strings.Builder
	if cls.Constructor != nil {
		body, err := e.bodyFor(cls.Constructor.Body, cls.Name+"::"+cls.Name, false)
		if err != nil {
			return "", err
		}
		sb.WriteString(fmt.Sprintf("%s::%s(%s) %s\n\n", cls.Name, cls.Name, e.paramList(cls.Constructor.Params), body))
	}
	for _, m := range cls.Methods {
		body, err := e.bodyFor(m.Body, cls.Name+"::"+m.Name, m.Async)
		if err != nil {
			return "", err
		}
		sb.WriteString(fmt.Sprintf("%s %s::%s(%s) %s\n\n", e.cppType(m.ReturnType), cls.Name, m.Name, e.paramList(m.Params), body))
	}
	return sb.String(), nil
}
