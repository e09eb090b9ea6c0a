// Command nullforgec is the CLI driver for the nullforge pipeline.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/nullforge/cmd/nullforgec/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
