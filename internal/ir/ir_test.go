package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnershipCanDeriveTo(t *testing.T) {
	tests := []struct {
		name string
		src  Ownership
		dst  Ownership
		want bool
	}{
		{"own to use", Own, Use, true},
		{"own to own", Own, Own, false},
		{"share to share", Share, Share, true},
		{"share to use", Share, Use, true},
		{"use to use", Use, Use, true},
		{"use to own", Use, Own, false},
		{"value to value", Value, Value, true},
		{"value to own", Value, Own, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.src.CanDeriveTo(tt.dst))
		})
	}
}

func TestAnonymousRecordTableDeduplicates(t *testing.T) {
	table := NewTable()

	a := table.Intern([]RecordField{{Name: "x", Type: Primitive{Kind: KindInteger}}, {Name: "y", Type: Primitive{Kind: KindInteger}}})
	b := table.Intern([]RecordField{{Name: "x", Type: Primitive{Kind: KindInteger}}, {Name: "y", Type: Primitive{Kind: KindInteger}}})
	c := table.Intern([]RecordField{{Name: "x", Type: Primitive{Kind: KindInteger}}})

	require.Same(t, a, b, "identical shapes must share one synthesized record")
	assert.NotSame(t, a, c)
	assert.Len(t, table.Records(), 2)
	assert.Equal(t, "AnonRecord1", a.Name)
	assert.Equal(t, "AnonRecord2", c.Name)
}

func TestValidateSSAShape(t *testing.T) {
	good := &CFG{Blocks: []*BasicBlock{
		{ID: 0, Terminator: BranchTerm{TrueBlock: 1, FalseBlock: 2}},
		{ID: 1, Terminator: JumpTerm{Block: 2}},
		{ID: 2, Terminator: ReturnTerm{}},
	}}
	require.NoError(t, ValidateSSAShape(good))

	missingTerm := &CFG{Blocks: []*BasicBlock{{ID: 0}}}
	assert.Error(t, ValidateSSAShape(missingTerm))

	danglingJump := &CFG{Blocks: []*BasicBlock{
		{ID: 0, Terminator: JumpTerm{Block: 99}},
	}}
	assert.Error(t, ValidateSSAShape(danglingJump))

	dup := &CFG{Blocks: []*BasicBlock{
		{ID: 0, Terminator: ReturnTerm{}},
		{ID: 0, Terminator: ReturnTerm{}},
	}}
	assert.Error(t, ValidateSSAShape(dup))
}

func TestRecordStringIncludesFieldShape(t *testing.T) {
	r := Record{Name: "AnonRecord1", Fields: []RecordField{
		{Name: "x", Type: Primitive{Kind: KindInteger}},
	}}
	assert.Equal(t, "{x: integer}", r.String())
}
