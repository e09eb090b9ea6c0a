package cmd

import (
	"github.com/cwbudde/nullforge/internal/config"
)

// These flags are persistent (bound on rootCmd) so every subcommand that
// compiles or inspects a program resolves config.Options the same way
// (§9.4's file-then-flags layering), rather than each command declaring
// its own copy.
var (
	optConfigFile   string
	optMemoryMode   string
	optLevel        int
	optDebug        bool
	optTargetTriple string
	optFilesystem   bool
	optHTTP         bool
	optColor        bool
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&optConfigFile, "config", "", "path to a nullforge.toml configuration file")
	flags.StringVar(&optMemoryMode, "memory-mode", "", "override memory mode: gc or ownership")
	flags.IntVar(&optLevel, "opt", -1, "override optimization level passed to the C++ driver (0-3)")
	flags.BoolVar(&optDebug, "debug", false, "mark a debug build for the C++ driver (generated code is unchanged)")
	flags.StringVar(&optTargetTriple, "target", "", "override the target triple passed to the C++ driver")
	flags.BoolVar(&optFilesystem, "fs", false, "enable the filesystem runtime feature")
	flags.BoolVar(&optHTTP, "http", false, "enable the http runtime feature")
	flags.BoolVar(&optColor, "color", false, "colorize diagnostic output")
}

// resolveOptions loads config.Options from --config (or config.Default())
// and applies every flag override that was actually set.
func resolveOptions() (config.Options, error) {
	var opts config.Options
	var err error
	if optConfigFile != "" {
		opts, err = config.Load(optConfigFile)
		if err != nil {
			return config.Options{}, err
		}
	} else {
		opts = config.Default()
	}

	if optMemoryMode != "" {
		opts.MemoryModeName = optMemoryMode
	}
	if optLevel >= 0 {
		opts.OptimizationLevel = optLevel
	}
	if optDebug {
		opts.Debug = true
	}
	if optTargetTriple != "" {
		opts.TargetTriple = optTargetTriple
	}
	if optFilesystem {
		opts.FilesystemFeature = true
	}
	if optHTTP {
		opts.HTTPFeature = true
	}

	if err := opts.Resolve(); err != nil {
		return config.Options{}, err
	}
	return opts, nil
}
