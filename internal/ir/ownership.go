package ir

// Ownership tags every reference to a heap entity (§3.2). Exactly one tag
// applies to any given NamedType, Array, or Map.
type Ownership int

const (
	// Own is exclusive ownership: moving transfers, dropping destroys.
	Own Ownership = iota
	// Share is co-ownership: lifetime is the longest surviving holder.
	Share
	// Use is a borrowed, non-owning reference that must not outlive any
	// co-owner.
	Use
	// Value is stored inline: no heap allocation, no reference counting.
	Value
)

func (o Ownership) String() string {
	switch o {
	case Own:
		return "own"
	case Share:
		return "share"
	case Use:
		return "use"
	case Value:
		return "value"
	default:
		return "unknown"
	}
}

// CanDeriveTo reports whether a value tagged `o` may be assigned to, or
// passed as, a destination tagged `dst`, per the derivation table in §4.3:
//
//	Own   -> Use
//	Share -> Share, Use
//	Use   -> Use
//
// Value is not part of the ownership DAG (it never refers to a heap
// entity) and is always a valid destination for itself only.
func (o Ownership) CanDeriveTo(dst Ownership) bool {
	if o == Value || dst == Value {
		return o == dst
	}
	switch o {
	case Own:
		return dst == Use
	case Share:
		return dst == Share || dst == Use
	case Use:
		return dst == Use
	default:
		return false
	}
}

// MemoryMode is the global backend selector (§3.2, §4.7, §6.4). It changes
// how the backend realizes ownership tags and whether the ownership
// analyzer's cycle diagnostic is an error or a warning (§4.3); it never
// changes IR meaning.
type MemoryMode int

const (
	// ModeGC collapses Own/Share/Use to managed references; cycles are
	// permitted.
	ModeGC MemoryMode = iota
	// ModeOwnership realizes Own as an exclusive handle, Share as a
	// reference-counted handle, Use as a non-owning borrow; cycles are
	// forbidden at the class-graph level.
	ModeOwnership
)

func (m MemoryMode) String() string {
	if m == ModeOwnership {
		return "ownership"
	}
	return "gc"
}
