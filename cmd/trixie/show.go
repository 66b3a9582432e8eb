package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/dekarrin/rosed"
	"github.com/spf13/cobra"
	"github.com/trixie-lang/trixie/spec"
)

func init() {
	cmd := &cobra.Command{
		Use:     "show",
		Short:   "Print a compiled grammar in readable format",
		Example: `  trixie show grammar.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cgram, err := readCompiledGrammar(args[0])
	if err != nil {
		return err
	}
	return writeDescription(os.Stdout, cgram)
}

const descTemplate = `{{ .Header }}

# Rules

{{ range .Rules -}}
{{ printf "%4v" .ID }}: {{ .LHS }} → {{ .RHS }}  (PREDICT: {{ .Predict }})
{{ end }}
# FIRST / FOLLOW

{{ range .NonTerminals -}}
{{ .Name }}:
    FIRST:  {{ .First }}
    FOLLOW: {{ .Follow }}
{{ end }}
# Parse table

{{ range .Cells -}}
table[{{ .NonTerminal }}, {{ .Terminal }}] = {{ .Rule }}
{{ end }}
{{- if .Transformations }}
# Transformations

{{ range .Transformations -}}
{{ .Fresh }} was derived from {{ .Origin }}
{{ end }}
{{- end }}`

type descRule struct {
	ID      int
	LHS     string
	RHS     string
	Predict string
}

type descNonTerminal struct {
	Name   string
	First  string
	Follow string
}

type descCell struct {
	NonTerminal string
	Terminal    string
	Rule        int
}

type descTransformation struct {
	Fresh  string
	Origin string
}

type description struct {
	Header          string
	Rules           []*descRule
	NonTerminals    []*descNonTerminal
	Cells           []*descCell
	Transformations []*descTransformation
}

func writeDescription(w io.Writer, cgram *spec.CompiledGrammar) error {
	pt := cgram.ParseTable

	names := map[int]string{}
	for i, t := range pt.Terminals {
		names[t] = pt.TerminalNames[i]
	}
	for i, n := range pt.NonTerminals {
		names[n] = pt.NonTerminalNames[i]
	}

	tokensText := func(toks []int) string {
		if len(toks) == 0 {
			return "∅"
		}
		texts := make([]string, len(toks))
		for i, t := range toks {
			if t == 0 {
				texts[i] = "ε"
				continue
			}
			texts[i] = names[t]
		}
		return strings.Join(texts, " ")
	}

	header := rosed.Edit(fmt.Sprintf(
		"The grammar %v compiled to %v rules over %v terminals and %v non-terminals. "+
			"Rule 0 is reserved: a parse-table cell holding 0 reports a syntax error. "+
			"The start rule is %v and the end of input is %v.",
		cgram.Name, len(pt.RuleLHS)-1, len(pt.Terminals), len(pt.NonTerminals),
		names[pt.StartRule], names[pt.EOFToken])).Wrap(76).String()

	desc := &description{
		Header: header,
	}

	for r := 1; r < len(pt.RuleLHS); r++ {
		desc.Rules = append(desc.Rules, &descRule{
			ID:      r,
			LHS:     names[pt.RuleLHS[r]],
			RHS:     tokensText(pt.RuleRHS[r]),
			Predict: tokensText(pt.Predict[r]),
		})
	}

	for i, n := range pt.NonTerminals {
		desc.NonTerminals = append(desc.NonTerminals, &descNonTerminal{
			Name:   names[n],
			First:  tokensText(pt.First[i]),
			Follow: tokensText(pt.Follow[i]),
		})
	}

	for i, n := range pt.NonTerminals {
		for j, t := range pt.Terminals {
			r := pt.Action[i*len(pt.Terminals)+j]
			if r == 0 {
				continue
			}
			desc.Cells = append(desc.Cells, &descCell{
				NonTerminal: names[n],
				Terminal:    names[t],
				Rule:        r,
			})
		}
	}

	for _, tr := range pt.Transformations {
		desc.Transformations = append(desc.Transformations, &descTransformation{
			Fresh:  names[tr.Fresh],
			Origin: names[tr.Origin],
		})
	}

	tmpl, err := template.New("description").Parse(descTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, desc)
}
