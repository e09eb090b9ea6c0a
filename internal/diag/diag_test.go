package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosticString(t *testing.T) {
	tests := []struct {
		name string
		d    Diagnostic
		want string
	}{
		{
			name: "with position",
			d:    New(CodeOwnershipCycle, Position{File: "a.ts", Line: 3, Column: 5}, "cycle: %s", "Node -> Node"),
			want: "a.ts:3:5: error [301] cycle: Node -> Node",
		},
		{
			name: "warning severity",
			d:    Warningf(CodeOwnershipCycle, Position{Line: 1, Column: 1}, "cycle tolerated under gc mode"),
			want: "1:1: warning [301] cycle tolerated under gc mode",
		},
		{
			name: "without position",
			d:    Diagnostic{Code: "999", Severity: Info, Message: "internal note"},
			want: "info [999] internal note",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.d.String())
		})
	}
}

func TestBagHasErrorsAndSorting(t *testing.T) {
	var b Bag
	b.Add(Warningf(CodeOwnershipCycle, Position{File: "b.ts", Line: 5, Column: 1}, "w"), 1)
	b.Add(New(CodeUseFieldEscape, Position{File: "a.ts", Line: 2, Column: 1}, "e1"), 0)
	b.Add(New(CodeUseReturnType, Position{File: "a.ts", Line: 1, Column: 1}, "e2"), 0)

	require.True(t, b.HasErrors())
	require.Equal(t, 3, b.Len())

	sorted := b.Sorted()
	require.Len(t, sorted, 3)
	assert.Equal(t, CodeUseReturnType, sorted[0].Code, "file-0 diagnostics sort by line before file-1 diagnostics")
	assert.Equal(t, CodeUseFieldEscape, sorted[1].Code)
	assert.Equal(t, CodeOwnershipCycle, sorted[2].Code)
}

func TestFormatterCaret(t *testing.T) {
	f := NewFormatter(false)
	f.Sources["a.ts"] = "let x = 1;\nlet y = x + ;\n"

	d := New(CodeTruthyCondition, Position{File: "a.ts", Line: 2, Column: 13}, "expected boolean expression")
	out := f.Format(d)

	assert.Contains(t, out, "a.ts:2:13: error [110] expected boolean expression")
	assert.Contains(t, out, "let y = x + ;")
	assert.Contains(t, out, "^")
}

func TestFormatterFallsBackWithoutSource(t *testing.T) {
	f := NewFormatter(false)
	d := New(CodeTruthyCondition, Position{File: "missing.ts", Line: 1, Column: 1}, "msg")
	out := f.Format(d)
	assert.Equal(t, d.String(), out)
}
