// Package nodegen emits Go source for the syntax-tree node types of a
// compiled grammar. Each non-terminal of the pre-transformation grammar
// becomes one record; the fresh non-terminals the transformations minted
// are inlined into the record of the non-terminal they were derived from.
package nodegen

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"strings"
	"text/template"

	"github.com/trixie-lang/trixie/spec"
)

type nodeField struct {
	Name  string
	Type  string
	Count int
}

type nodeType struct {
	Name   string
	Fields []*nodeField
}

type nodeFile struct {
	PkgName string
	Grammar string
	Nodes   []*nodeType
}

const nodeSrcTemplate = `// Code generated by trixie for the {{ .Grammar }} grammar. DO NOT EDIT.
package {{ .PkgName }}

{{ range .Nodes -}}
type {{ .Name }} struct {
{{- range .Fields }}
	{{ .Name }} {{ if gt .Count 1 }}[]{{ end }}{{ .Type }}
{{- end }}
}

{{ end -}}
`

// GenNodeTypes writes the node-type source of a compiled grammar. The
// emitted file belongs to package pkgName.
func GenNodeTypes(w io.Writer, g *spec.CompiledGrammar, pkgName string) error {
	file := &nodeFile{
		PkgName: pkgName,
		Grammar: g.Name,
		Nodes:   genNodeTypes(g.ParseTable),
	}

	t, err := template.New("").Parse(nodeSrcTemplate)
	if err != nil {
		return err
	}
	var b bytes.Buffer
	if err := t.Execute(&b, file); err != nil {
		return err
	}

	src, err := format.Source(b.Bytes())
	if err != nil {
		return fmt.Errorf("the generated node types do not parse: %w", err)
	}
	_, err = w.Write(src)
	return err
}

func genNodeTypes(pt *spec.ParseTable) []*nodeType {
	origin := originMap(pt)

	names := map[int]string{}
	for i, t := range pt.Terminals {
		names[t] = pt.TerminalNames[i]
	}
	for i, n := range pt.NonTerminals {
		names[n] = pt.NonTerminalNames[i]
	}

	alts := map[int][][]int{}
	for r := 1; r < len(pt.RuleLHS); r++ {
		lhs := pt.RuleLHS[r]
		alts[lhs] = append(alts[lhs], pt.RuleRHS[r])
	}

	var nodes []*nodeType
	for _, n := range pt.NonTerminals {
		if _, ok := origin[n]; ok {
			continue
		}

		counts := map[int]int{}
		seen := map[int]bool{}
		var fieldOrder []int

		// The record's own alternatives contribute the maximum count of
		// each token over any single alternative; each inlined fresh
		// non-terminal then adds its own maximum on top.
		members := append([]int{n}, freshOf(pt, n)...)
		for _, member := range members {
			memberCounts := map[int]int{}
			for _, alt := range alts[member] {
				altCounts := map[int]int{}
				for _, t := range alt {
					if t == 0 {
						continue
					}
					// References to inlined non-terminals are not fields
					// themselves.
					if _, fresh := origin[t]; fresh && resolveOrigin(origin, t) == n {
						continue
					}
					if !seen[t] {
						seen[t] = true
						fieldOrder = append(fieldOrder, t)
					}
					altCounts[t]++
					if altCounts[t] > memberCounts[t] {
						memberCounts[t] = altCounts[t]
					}
				}
			}
			for _, t := range fieldOrder {
				counts[t] += memberCounts[t]
			}
		}

		node := &nodeType{
			Name: nodeTypeName(names[n]),
		}
		for _, t := range fieldOrder {
			field := &nodeField{
				Name:  exportedName(names[t]),
				Count: counts[t],
			}
			if t < 0 {
				field.Type = "string"
			} else {
				field.Type = "*" + nodeTypeName(names[resolveOrigin(origin, t)])
			}
			node.Fields = append(node.Fields, field)
		}
		nodes = append(nodes, node)
	}

	return nodes
}

func originMap(pt *spec.ParseTable) map[int]int {
	origin := map[int]int{}
	for _, tr := range pt.Transformations {
		origin[tr.Fresh] = tr.Origin
	}
	return origin
}

// resolveOrigin follows transformation records back to the non-terminal of
// the pre-transformation grammar.
func resolveOrigin(origin map[int]int, n int) int {
	for {
		o, ok := origin[n]
		if !ok {
			return n
		}
		n = o
	}
}

// freshOf lists the fresh non-terminals whose transformation chain ends at
// n, in minting order.
func freshOf(pt *spec.ParseTable, n int) []int {
	origin := originMap(pt)
	var fresh []int
	for _, tr := range pt.Transformations {
		if resolveOrigin(origin, tr.Fresh) == n {
			fresh = append(fresh, tr.Fresh)
		}
	}
	return fresh
}

func nodeTypeName(name string) string {
	return exportedName(name) + "Node"
}

// exportedName converts a symbol name like expr_rest to ExprRest.
func exportedName(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			b.WriteString(strings.ToUpper(string(r)))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
