package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/nullforge/internal/ir"
)

func TestDefaultIsGCMode(t *testing.T) {
	opts := Default()
	assert.Equal(t, ir.ModeGC, opts.MemoryMode)
}

func TestLoadResolvesOwnershipMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nullforge.toml")
	content := "memory_mode = \"ownership\"\noptimization_level = 2\n\n[diagnostics]\ncolor = true\nmax_errors = 20\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ir.ModeOwnership, opts.MemoryMode)
	assert.Equal(t, 2, opts.OptimizationLevel)
	assert.True(t, opts.Diagnostics.Color)
	assert.Equal(t, 20, opts.Diagnostics.MaxErrors)
}

func TestResolveRejectsUnknownMemoryMode(t *testing.T) {
	opts := Options{MemoryModeName: "bogus"}
	err := opts.Resolve()
	assert.Error(t, err)
}
