package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/nullforge/internal/backend"
	"github.com/cwbudde/nullforge/internal/diag"
	"github.com/cwbudde/nullforge/internal/examples"
	"github.com/cwbudde/nullforge/internal/pipeline"
)

var (
	compileExample string
	compileOutDir  string
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile a built-in example scenario to C++",
	Long: `Compile runs one of the named example scenarios (there is no surface
parser in this tool yet, so source is selected by name rather than read
from a file) through every pipeline stage and writes the resulting
header/translation-unit pair to --out.

Examples:
  nullforgec compile --example hoisted_fibonacci
  nullforgec compile --example constant_folding --memory-mode ownership --out build/`,
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVar(&compileExample, "example", "", "name of the built-in scenario to compile (required)")
	compileCmd.Flags().StringVarP(&compileOutDir, "out", "o", ".", "output directory for generated files")
}

func runCompile(cmd *cobra.Command, _ []string) error {
	if compileExample == "" {
		return fmt.Errorf("compile: --example is required")
	}
	scenario, err := findExample(compileExample)
	if err != nil {
		return err
	}

	opts, err := resolveOptions()
	if err != nil {
		return err
	}

	start := time.Now()
	result, bag, err := pipeline.Run(scenario.Program, scenario.Entry, opts)
	slog.Debug("pipeline run complete", "example", scenario.Name, "elapsed", time.Since(start))
	if err != nil {
		var backendErr *diag.BackendFailure
		if errors.As(err, &backendErr) {
			return fmt.Errorf("internal error: %w", backendErr)
		}
		return err
	}

	formatter := diag.NewFormatter(optColor)
	if out := formatter.FormatAll(bag); out != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), out)
	}
	if bag.HasErrors() {
		return fmt.Errorf("compile: %s failed with %d diagnostic(s)", scenario.Name, bag.Len())
	}

	return writeOutput(cmd, result.Output)
}

func findExample(name string) (examples.Scenario, error) {
	for _, sc := range examples.All() {
		if sc.Name == name {
			return sc, nil
		}
	}
	return examples.Scenario{}, fmt.Errorf("compile: unknown example %q", name)
}

func writeOutput(cmd *cobra.Command, out *backend.Output) error {
	if err := os.MkdirAll(compileOutDir, 0755); err != nil {
		return fmt.Errorf("compile: creating output directory: %w", err)
	}
	for _, mod := range out.Modules {
		base := filepath.Join(compileOutDir, filepath.Base(mod.Path))
		if err := writeFile(base+".h", mod.Header); err != nil {
			return err
		}
		if err := writeFile(base+".cpp", mod.Source); err != nil {
			return err
		}
		slog.Info("wrote module", "path", mod.Path)
	}
	if out.Records != "" {
		if err := writeFile(filepath.Join(compileOutDir, "records.h"), out.Records); err != nil {
			return err
		}
	}
	// nullforge_main.cpp, not main.cpp: a module is commonly itself named
	// "main" and would otherwise collide with the generated entry point.
	if err := writeFile(filepath.Join(compileOutDir, "nullforge_main.cpp"), out.Main); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d module(s) to %s\n", len(out.Modules), compileOutDir)
	return nil
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("compile: writing %s: %w", path, err)
	}
	return nil
}
