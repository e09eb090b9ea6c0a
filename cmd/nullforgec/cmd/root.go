// Package cmd is the nullforgec command tree, mirroring the teacher's
// cmd/dwscript/cmd layout: one file per subcommand, package-level flag
// variables bound in each command's init, and a single Execute entry
// point called from main.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "nullforgec",
	Short: "Whole-program compiler middle-end for the good-parts dialect",
	Long: `nullforgec drives the nullforge pipeline: validation, AST-to-IR
lowering, ownership analysis, null checking, optimization, function
hoisting and C++ emission.

There is no bundled front end: programs are supplied as one of the named
built-in example scenarios (--example) until a surface parser exists.`,
	Version:           Version,
	PersistentPreRunE: initLogging,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
}

// initLogging installs the default slog handler at a level selected by
// --verbose (§9.2: slog is operational tracing only, never diagnostics).
func initLogging(cmd *cobra.Command, _ []string) error {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
