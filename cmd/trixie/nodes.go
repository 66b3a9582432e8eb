package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/trixie-lang/trixie/nodegen"
)

var nodesFlags = struct {
	output  *string
	pkgName *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "nodes",
		Short:   "Generate Go node types for the syntax trees of a compiled grammar",
		Example: `  trixie nodes grammar.json -o nodes.go -p parser`,
		Args:    cobra.ExactArgs(1),
		RunE:    runNodes,
	}
	nodesFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	nodesFlags.pkgName = cmd.Flags().StringP("package", "p", "parser", "package name of the generated source")
	rootCmd.AddCommand(cmd)
}

func runNodes(cmd *cobra.Command, args []string) error {
	cgram, err := readCompiledGrammar(args[0])
	if err != nil {
		return err
	}

	var w io.Writer
	if *nodesFlags.output != "" {
		f, err := os.OpenFile(*nodesFlags.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("Cannot write an output file: %w", err)
		}
		defer f.Close()
		w = f
	} else {
		w = os.Stdout
	}

	return nodegen.GenNodeTypes(w, cgram, *nodesFlags.pkgName)
}
