package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/trixie-lang/trixie/spec"
)

var rootCmd = &cobra.Command{
	Use:   "trixie",
	Short: "Generate an LL(1) parse table from a grammar",
	Long: `trixie compiles a grammar into a portable LL(1) parse table:
- Eliminates direct left recursion and factors FIRST/FIRST conflicts.
- Computes the FIRST, FOLLOW, and PREDICT sets.
- Emits the parse table along with a lexical specification, ready to drive
  a predictive parser.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	return rootCmd.Execute()
}

func readCompiledGrammar(path string) (*spec.CompiledGrammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot read the compiled grammar %s: %w", path, err)
	}
	cgram := &spec.CompiledGrammar{}
	if err := json.Unmarshal(data, cgram); err != nil {
		return nil, fmt.Errorf("Cannot parse the compiled grammar %s: %w", path, err)
	}
	return cgram, nil
}
