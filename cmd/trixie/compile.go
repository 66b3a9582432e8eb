package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	verr "github.com/trixie-lang/trixie/error"
	"github.com/trixie-lang/trixie/grammar"
	"github.com/trixie-lang/trixie/spec"
)

const projectFileName = "trixie.toml"

// projectConfig carries the compile defaults an optional trixie.toml in the
// working directory provides. Flags win over the file.
type projectConfig struct {
	Compile struct {
		Output string `toml:"output"`
	} `toml:"compile"`
}

func readProjectConfig() (*projectConfig, error) {
	data, err := os.ReadFile(projectFileName)
	if err != nil {
		if os.IsNotExist(err) {
			return &projectConfig{}, nil
		}
		return nil, err
	}
	cfg := &projectConfig{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("Cannot parse %s: %w", projectFileName, err)
	}
	return cfg, nil
}

var compileFlags = struct {
	output *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile",
		Short:   "Compile a grammar into an LL(1) parse table",
		Example: `  trixie compile grammar.trixie -o grammar.json`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout, or the [compile] output of trixie.toml)")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) (retErr error) {
	var grmPath string
	if len(args) > 0 {
		grmPath = args[0]
	}
	defer func() {
		if retErr == nil {
			return
		}
		specErrs, ok := retErr.(verr.SpecErrors)
		if !ok {
			return
		}
		for _, err := range specErrs {
			err.FilePath = grmPath
			if grmPath != "" {
				err.SourceName = grmPath
			} else {
				err.SourceName = "stdin"
			}
		}
	}()

	cfg, err := readProjectConfig()
	if err != nil {
		return err
	}
	outPath := *compileFlags.output
	if outPath == "" {
		outPath = cfg.Compile.Output
	}

	gram, err := readGrammar(grmPath)
	if err != nil {
		return err
	}

	cgram, err := grammar.Compile(gram)
	if err != nil {
		return err
	}

	return writeCompiledGrammar(cgram, outPath)
}

func readGrammar(path string) (*grammar.Grammar, error) {
	var src io.Reader
	if path == "" {
		src = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("Cannot open the grammar file %s: %w", path, err)
		}
		defer f.Close()
		src = f
	}

	ast, err := spec.Parse(src)
	if err != nil {
		return nil, err
	}

	b := grammar.GrammarBuilder{
		AST: ast,
	}
	return b.Build()
}

func writeCompiledGrammar(cgram *spec.CompiledGrammar, path string) error {
	var w io.Writer
	if path != "" {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("Cannot write an output file: %w", err)
		}
		defer f.Close()
		w = f
	} else {
		w = os.Stdout
	}

	data, err := json.Marshal(cgram)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%v\n", string(data))
	return nil
}
