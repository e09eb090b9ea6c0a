package cmd

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCompileMissingExampleReturnsError(t *testing.T) {
	_, _, err := execute("compile")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--example is required")
}

func TestCompileUnknownExampleReturnsError(t *testing.T) {
	_, _, err := execute("compile", "--example", "does_not_exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown example")
}

func TestCompileWritesOutputFiles(t *testing.T) {
	outDir := t.TempDir()
	stdout, _, err := execute("compile", "--example", "constant_folding", "--out", outDir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	assert.Contains(t, names, "main.cpp")
	assert.Contains(t, names, "main.h")
	assert.Contains(t, names, "nullforge_main.cpp")
}

func TestCompileRejectsUnrecognizedMemoryMode(t *testing.T) {
	outDir := t.TempDir()
	_, _, err := execute("compile", "--example", "constant_folding", "--memory-mode", "bogus", "--out", outDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized memory mode")
}

func TestCompileRejectsSelfCyclingShareUnderOwnershipMode(t *testing.T) {
	outDir := t.TempDir()
	_, stderr, err := execute("compile", "--example", "self_cycling_share", "--memory-mode", "ownership", "--out", outDir)
	require.Error(t, err)
	assert.Contains(t, stderr, "301")
}
