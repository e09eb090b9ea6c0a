// Package config carries the compiler's recognized configuration (§6.5):
// memory mode, optimization level, debug mode, target triple, and the
// filesystem/HTTP runtime feature flags. Options loads from an optional
// TOML file via github.com/BurntSushi/toml, then callers layer CLI flag
// overrides on top — the same file-then-flags layering the teacher's
// compile command uses for its own options.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/cwbudde/nullforge/internal/ir"
)

// Diagnostics controls how diagnostics are rendered (§9.3's formatter is
// driven by these).
type Diagnostics struct {
	Color     bool `toml:"color"`
	MaxErrors int  `toml:"max_errors"`
}

// Options is the full set of recognized configuration (§6.5).
type Options struct {
	// MemoryMode selects gc or ownership lowering (§6.4); also gates
	// null-safety checking, which reports nothing in gc mode (§4.4).
	MemoryMode ir.MemoryMode `toml:"-"`
	// MemoryModeName is the raw TOML/CLI value ("gc" or "ownership"),
	// resolved into MemoryMode by Resolve.
	MemoryModeName string `toml:"memory_mode"`

	// OptimizationLevel is 0-3, passed verbatim to the C++ driver; it does
	// not change this compiler's own optimizer (§4.5 always runs to its
	// fixed point regardless of this value).
	OptimizationLevel int `toml:"optimization_level"`

	// Debug, when explicitly set, disables the C++ driver's own
	// optimization flag. The backend does not read it: generated code
	// carries no source locations whether it is set or not.
	Debug bool `toml:"debug"`

	// TargetTriple is passed verbatim to the C++ driver.
	TargetTriple string `toml:"target_triple"`

	// FilesystemFeature and HTTPFeature gate inclusion of the
	// corresponding optional runtime header (§4.7), in addition to the
	// IR actually referencing that built-in namespace.
	FilesystemFeature bool `toml:"filesystem_feature"`
	HTTPFeature       bool `toml:"http_feature"`

	Diagnostics Diagnostics `toml:"diagnostics"`
}

// Default returns the zero-value configuration used when no file and no
// flags are supplied: gc mode, optimization level 0, release build.
func Default() Options {
	return Options{
		MemoryModeName: "gc",
		MemoryMode:     ir.ModeGC,
	}
}

// Load reads path as TOML into a fresh Options seeded with Default,
// resolving MemoryModeName into MemoryMode. A missing file is the
// caller's concern; Load itself only reports malformed TOML.
func Load(path string) (Options, error) {
	opts := Default()
	if _, err := toml.DecodeFile(path, &opts); err != nil {
		return Options{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	if err := opts.Resolve(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Resolve derives MemoryMode from MemoryModeName: an empty value or "gc"
// resolves to gc, "ownership" to ownership (§6.4), and any other value is
// an error.
func (o *Options) Resolve() error {
	switch o.MemoryModeName {
	case "", "gc":
		o.MemoryMode = ir.ModeGC
		o.MemoryModeName = "gc"
	case "ownership":
		o.MemoryMode = ir.ModeOwnership
	default:
		return fmt.Errorf("config: unrecognized memory mode %q", o.MemoryModeName)
	}
	return nil
}
