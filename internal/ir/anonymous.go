package ir

import "fmt"

// Table deduplicates anonymous Records by structural shape (§4.2, §9: "Two
// literals with identical field-name sequences and compatible field types
// share the same anonymous record"). One Table is shared across an entire
// Program so the backend can later emit exactly one synthesized struct per
// distinct shape, program-wide (§8 boundary behavior: "Exactly one
// anonymous record struct is synthesized").
type Table struct {
	byShape map[string]*Record
	order   []*Record
	next    int
}

// NewTable creates an empty anonymous-record table.
func NewTable() *Table {
	return &Table{byShape: make(map[string]*Record)}
}

// Intern returns the canonical Record for the given field list, creating
// and naming a new one on first sight of this shape. The returned pointer
// is stable: repeated calls with an equivalent field list return the same
// *Record.
func (t *Table) Intern(fields []RecordField) *Record {
	candidate := Record{Fields: fields}
	shape := candidate.shape()

	if existing, ok := t.byShape[shape]; ok {
		return existing
	}

	t.next++
	candidate.Name = fmt.Sprintf("AnonRecord%d", t.next)
	rec := &candidate
	t.byShape[shape] = rec
	t.order = append(t.order, rec)
	return rec
}

// Records returns every distinct Record registered so far, in first-seen
// order — the order the backend emits synthesized structs in, which makes
// backend output deterministic given a deterministic lowering order (§8
// property 7).
func (t *Table) Records() []*Record {
	out := make([]*Record, len(t.order))
	copy(out, t.order)
	return out
}
