package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"github.com/trixie-lang/trixie/driver"
	"github.com/trixie-lang/trixie/spec"
)

var parseFlags = struct {
	interactive *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse",
		Short:   "Parse a text stream with a compiled grammar and print its syntax tree",
		Example: `  trixie parse grammar.json src.txt
  trixie parse -i grammar.json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runParse,
	}
	parseFlags.interactive = cmd.Flags().BoolP("interactive", "i", false, "read lines from the terminal and parse each one")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cgram, err := readCompiledGrammar(args[0])
	if err != nil {
		return err
	}

	if *parseFlags.interactive {
		return runParseREPL(cgram)
	}

	var src io.Reader
	if len(args) > 1 {
		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("Cannot open the source file %s: %w", args[1], err)
		}
		defer f.Close()
		src = f
	} else {
		src = os.Stdin
	}

	return parseAndPrint(os.Stdout, cgram, src)
}

func parseAndPrint(w io.Writer, cgram *spec.CompiledGrammar, src io.Reader) error {
	p, err := driver.NewParser(cgram, src)
	if err != nil {
		return err
	}
	if err := p.Parse(); err != nil {
		return err
	}
	driver.PrintTree(w, p.CST())
	return nil
}

// runParseREPL reads one line at a time and parses each independently.
// Syntax errors are reported and the loop keeps going; EOF or an interrupt
// on an empty line ends the session.
func runParseREPL(cgram *spec.CompiledGrammar) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: fmt.Sprintf("%v> ", cgram.Name),
	})
	if err != nil {
		return fmt.Errorf("create readline config: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if line == "" {
					return nil
				}
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		err = parseAndPrint(os.Stdout, cgram, strings.NewReader(line))
		if err != nil {
			var synErr *driver.SyntaxError
			if errors.As(err, &synErr) {
				fmt.Fprintf(os.Stderr, "%v\n", synErr)
				continue
			}
			return err
		}
	}
}
