package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/nullforge/internal/diag"
	"github.com/cwbudde/nullforge/internal/ir"
	"github.com/cwbudde/nullforge/internal/pipeline"
)

var (
	emitIRExample string
	emitIRSSA     bool
)

var emitIRCmd = &cobra.Command{
	Use:   "emit-ir",
	Short: "Print the IR for a built-in example scenario",
	Long: `emit-ir runs a named example scenario through every stage up to and
including the hoister and prints the resulting IR tree, the way
"compile --disassemble" shows bytecode for the interpreter this tool's
idiom is adapted from. Pass --ssa to additionally convert every body to
the SSA tier before printing, the same conversion the backend requires.`,
	RunE: runEmitIR,
}

func init() {
	rootCmd.AddCommand(emitIRCmd)

	emitIRCmd.Flags().StringVar(&emitIRExample, "example", "", "name of the built-in scenario to inspect (required)")
	emitIRCmd.Flags().BoolVar(&emitIRSSA, "ssa", false, "convert bodies to the SSA tier before printing")
}

func runEmitIR(cmd *cobra.Command, _ []string) error {
	if emitIRExample == "" {
		return fmt.Errorf("emit-ir: --example is required")
	}
	scenario, err := findExample(emitIRExample)
	if err != nil {
		return err
	}

	opts, err := resolveOptions()
	if err != nil {
		return err
	}

	prog, bag := pipeline.Analyze(scenario.Program, opts)
	formatter := diag.NewFormatter(optColor)
	if out := formatter.FormatAll(bag); out != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), out)
	}
	if prog == nil {
		return fmt.Errorf("emit-ir: %s did not reach the hoister", scenario.Name)
	}

	if emitIRSSA {
		pipeline.ConvertToSSA(prog)
	}

	fmt.Fprint(cmd.OutOrStdout(), ir.DisassembleToString(prog))
	return nil
}
