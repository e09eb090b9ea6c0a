package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitIRMissingExampleReturnsError(t *testing.T) {
	_, _, err := execute("emit-ir")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--example is required")
}

func TestEmitIRPrintsHoistedFunction(t *testing.T) {
	stdout, _, err := execute("emit-ir", "--example", "hoisted_fibonacci")
	require.NoError(t, err)
	assert.Contains(t, stdout, "function fib(")
	assert.Contains(t, stdout, "function main()")
}

func TestEmitIRSSAPrintsBasicBlocks(t *testing.T) {
	stdout, _, err := execute("emit-ir", "--example", "counting_for_loop", "--ssa")
	require.NoError(t, err)
	assert.Contains(t, stdout, "block0:")
}
