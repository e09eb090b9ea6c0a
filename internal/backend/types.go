package backend

import (
	"fmt"
	"strings"

	"github.com/cwbudde/nullforge/internal/ir"
)

// cppType renders an IR type into its C++ spelling per the type lowering
// table (§4.7). Own/Share/Use realize differently depending on mode;
// every other IR type is mode-independent.
func (e *emitter) cppType(t ir.Type) string {
	switch x := t.(type) {
	case ir.Primitive:
		return cppPrimitive(x.Kind)
	case ir.NamedType:
		return e.cppNamed(x)
	case ir.Array:
		return e.cppContainer("nf::Array", x.Element)
	case ir.Map:
		return fmt.Sprintf("nf::Map<%s, %s>", e.cppType(x.Key), e.cppType(x.Value))
	case ir.Promise:
		return fmt.Sprintf("nf::Task<%s>", e.cppType(x.Result))
	case ir.Nullable:
		return fmt.Sprintf("nf::Nullable<%s>", e.cppType(x.Inner))
	case ir.Union:
		parts := make([]string, len(x.Members))
		for i, m := range x.Members {
			parts[i] = e.cppType(m)
		}
		return fmt.Sprintf("std::variant<%s>", strings.Join(parts, ", "))
	case ir.Function:
		params := make([]string, len(x.Params))
		for i, p := range x.Params {
			params[i] = e.cppType(p)
		}
		return fmt.Sprintf("std::function<%s(%s)>", e.cppType(x.Return), strings.Join(params, ", "))
	case ir.Record:
		return x.Name
	default:
		return "void"
	}
}

func cppPrimitive(k ir.PrimitiveKind) string {
	switch k {
	case ir.KindNumber:
		return "double"
	case ir.KindInteger:
		return "int32_t"
	case ir.KindInteger53:
		return "int64_t"
	case ir.KindString:
		return "nf::String"
	case ir.KindBoolean:
		return "bool"
	case ir.KindVoid:
		return "void"
	case ir.KindNever:
		return "[[noreturn]] void"
	default:
		return "void"
	}
}

// cppNamed realizes a class/interface reference per its ownership tag
// and the active memory mode (§4.7's type lowering table).
func (e *emitter) cppNamed(n ir.NamedType) string {
	if e.opts.MemoryMode == ir.ModeGC {
		return fmt.Sprintf("nf::Managed<%s>", n.Name)
	}
	switch n.Ownership {
	case ir.Own:
		return fmt.Sprintf("std::unique_ptr<%s>", n.Name)
	case ir.Share:
		return fmt.Sprintf("std::shared_ptr<%s>", n.Name)
	case ir.Use:
		return n.Name + "*"
	default:
		return n.Name
	}
}

// cppContainer renders base<element>. The container spelling is the same
// in both memory modes; only the element type's rendering (cppType) varies
// with the mode. Arrays are rendered through it; Map is rendered directly
// in cppType.
func (e *emitter) cppContainer(base string, element ir.Type) string {
	return fmt.Sprintf("%s<%s>", base, e.cppType(element))
}
