package diag

import "sort"

// Bag accumulates diagnostics for one stage, or for the whole pipeline.
// Stages never short-circuit within a single file on the first error (§4.1);
// they keep collecting into a Bag and let the caller decide whether to
// abort once the stage returns.
type Bag struct {
	items []Diagnostic
	// order records, for each appended diagnostic, the input order of the
	// module/file it belongs to, so that Sorted can implement "ordered by
	// source location within a file, files by input order" even when two
	// modules share a position.
	order []int
}

// Add appends a diagnostic produced while processing the fileOrder-th input
// file (0 for a single-file Bag).
func (b *Bag) Add(d Diagnostic, fileOrder int) {
	b.items = append(b.items, d)
	b.order = append(b.order, fileOrder)
}

// AddError is a convenience for Add with severity forced to Error.
func (b *Bag) AddError(d Diagnostic, fileOrder int) {
	d.Severity = Error
	b.Add(d, fileOrder)
}

// Merge appends every diagnostic in other to b, preserving other's internal
// file order shifted by nothing (callers merging across modules should set
// fileOrder explicitly via Add instead when distinct ordering matters).
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
	b.order = append(b.order, other.order...)
}

// Diagnostics returns the accumulated diagnostics in insertion order.
func (b *Bag) Diagnostics() []Diagnostic {
	return b.items
}

// HasErrors reports whether any accumulated diagnostic has Error severity.
// Per §7, a non-empty error list aborts the pipeline; warnings never do.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Len returns the number of accumulated diagnostics.
func (b *Bag) Len() int { return len(b.items) }

// Sorted returns a copy of the diagnostics ordered by file input order,
// then by source location within a file (§7).
func (b *Bag) Sorted() []Diagnostic {
	type indexed struct {
		d     Diagnostic
		order int
	}
	tmp := make([]indexed, len(b.items))
	for i, d := range b.items {
		tmp[i] = indexed{d: d, order: b.order[i]}
	}
	sort.SliceStable(tmp, func(i, j int) bool {
		if tmp[i].order != tmp[j].order {
			return tmp[i].order < tmp[j].order
		}
		return tmp[i].d.Pos.Less(tmp[j].d.Pos)
	})
	out := make([]Diagnostic, len(tmp))
	for i, t := range tmp {
		out[i] = t.d
	}
	return out
}
