package driver

import (
	"fmt"
	"io"
	"strings"

	"github.com/trixie-lang/trixie/spec"
)

type SyntaxError struct {
	Row      int
	Col      int
	Message  string
	Expected []string
}

func (e *SyntaxError) Error() string {
	if len(e.Expected) > 0 {
		return fmt.Sprintf("%v:%v: %v; expected: %v", e.Row, e.Col, e.Message, strings.Join(e.Expected, ", "))
	}
	return fmt.Sprintf("%v:%v: %v", e.Row, e.Col, e.Message)
}

// Node is one node of the concrete syntax tree. Leaves carry the matched
// lexeme in Text.
type Node struct {
	KindName string
	Text     string
	Row      int
	Col      int
	Children []*Node
}

func PrintTree(w io.Writer, node *Node) {
	printTree(w, node, "", "")
}

func printTree(w io.Writer, node *Node, ruledLine string, childRuledLinePrefix string) {
	if node == nil {
		return
	}

	if node.Text != "" {
		fmt.Fprintf(w, "%v%v %q\n", ruledLine, node.KindName, node.Text)
	} else {
		fmt.Fprintf(w, "%v%v\n", ruledLine, node.KindName)
	}

	num := len(node.Children)
	for i, child := range node.Children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}

// Parser drives the LL(1) parse table over a token stream: the prediction
// stack starts as [start rule, EOF], a terminal on top must match the
// lookahead, and a non-terminal on top is replaced by the right-hand side
// the table selects for the lookahead.
type Parser struct {
	gram       *spec.CompiledGrammar
	stream     *TokenStream
	termIdx    map[int]int
	nonTermIdx map[int]int
	names      map[int]string
	cst        *Node
}

func NewParser(gram *spec.CompiledGrammar, src io.Reader) (*Parser, error) {
	stream, err := NewTokenStream(gram, src)
	if err != nil {
		return nil, err
	}
	return newParser(gram, stream), nil
}

func newParser(gram *spec.CompiledGrammar, stream *TokenStream) *Parser {
	pt := gram.ParseTable
	termIdx := make(map[int]int, len(pt.Terminals))
	names := map[int]string{}
	for i, t := range pt.Terminals {
		termIdx[t] = i
		names[t] = pt.TerminalNames[i]
	}
	nonTermIdx := make(map[int]int, len(pt.NonTerminals))
	for i, n := range pt.NonTerminals {
		nonTermIdx[n] = i
		names[n] = pt.NonTerminalNames[i]
	}

	return &Parser{
		gram:       gram,
		stream:     stream,
		termIdx:    termIdx,
		nonTermIdx: nonTermIdx,
		names:      names,
	}
}

type predictionElem struct {
	sym    int
	parent *Node
}

func (p *Parser) Parse() error {
	pt := p.gram.ParseTable
	stack := []predictionElem{
		{sym: pt.EOFToken},
		{sym: pt.StartRule},
	}

	tok, err := p.stream.Next()
	if err != nil {
		return err
	}

	for len(stack) > 0 {
		if tok.Invalid() {
			row, col := tok.Position()
			return &SyntaxError{
				Row:     row,
				Col:     col,
				Message: fmt.Sprintf("invalid token %q", tok.Text()),
			}
		}

		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.sym < 0 {
			if tok.Terminal() != top.sym {
				row, col := tok.Position()
				return &SyntaxError{
					Row:      row,
					Col:      col,
					Message:  fmt.Sprintf("unexpected token %q", tok.Text()),
					Expected: []string{p.names[top.sym]},
				}
			}
			if top.sym == pt.EOFToken {
				continue
			}
			leaf := &Node{
				KindName: p.names[top.sym],
				Text:     tok.Text(),
			}
			leaf.Row, leaf.Col = tok.Position()
			top.parent.Children = append(top.parent.Children, leaf)

			tok, err = p.stream.Next()
			if err != nil {
				return err
			}
			continue
		}

		r := p.action(top.sym, tok.Terminal())
		if r == 0 {
			row, col := tok.Position()
			return &SyntaxError{
				Row:      row,
				Col:      col,
				Message:  fmt.Sprintf("unexpected token %q", tok.Text()),
				Expected: p.expectedTerminals(top.sym),
			}
		}

		node := &Node{
			KindName: p.names[top.sym],
		}
		if top.parent == nil {
			p.cst = node
		} else {
			top.parent.Children = append(top.parent.Children, node)
		}

		rhs := pt.RuleRHS[r]
		for i := len(rhs) - 1; i >= 0; i-- {
			if rhs[i] == 0 {
				continue
			}
			stack = append(stack, predictionElem{
				sym:    rhs[i],
				parent: node,
			})
		}
	}

	return nil
}

// CST returns the concrete syntax tree Parse built. After a Parse that failed
// it holds the incomplete tree built before the error.
func (p *Parser) CST() *Node {
	return p.cst
}

func (p *Parser) action(nonTerm, term int) int {
	pt := p.gram.ParseTable
	i, ok := p.nonTermIdx[nonTerm]
	if !ok {
		return 0
	}
	j, ok := p.termIdx[term]
	if !ok {
		return 0
	}
	return pt.Action[i*len(pt.Terminals)+j]
}

// expectedTerminals lists the terminals whose table cell is non-empty for a
// non-terminal, in the table's terminal order.
func (p *Parser) expectedTerminals(nonTerm int) []string {
	pt := p.gram.ParseTable
	var expected []string
	for j, t := range pt.Terminals {
		if pt.Action[p.nonTermIdx[nonTerm]*len(pt.Terminals)+j] != 0 {
			expected = append(expected, p.names[t])
		}
	}
	return expected
}
