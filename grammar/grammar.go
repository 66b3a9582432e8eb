package grammar

import (
	"fmt"
	"io"
	"strings"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mlspec "github.com/nihei9/maleeni/spec"
	verr "github.com/trixie-lang/trixie/error"
	"github.com/trixie-lang/trixie/spec"
)

// Grammar is a grammar assembled from a parsed description, ready to be
// compiled: the core builder holds the token declarations and rules, and
// lexSpec holds the terminal patterns destined for the lexer compiler.
type Grammar struct {
	name      string
	lexSpec   *mlspec.LexSpec
	skipKinds []mlspec.LexKindName
	builder   *Builder
	name2Term map[string]Token
}

// Builder exposes the underlying core builder, mainly so tooling can
// inspect the grammar after a compile rewrote it.
func (g *Grammar) Builder() *Builder {
	return g.builder
}

func (g *Grammar) Name() string {
	return g.name
}

// GrammarBuilder assembles a Grammar from the AST of a grammar description.
// Terminals take the numeric identities -1, -2, … in definition order, with
// the EOF terminal one past the last; non-terminals take 1, 2, … in order
// of appearance as a production LHS. The first production's LHS is the
// start rule.
type GrammarBuilder struct {
	AST *spec.RootNode

	errs verr.SpecErrors
}

func (b *GrammarBuilder) Build() (*Grammar, error) {
	var name string
	for _, md := range b.AST.MetaData {
		if md.Name != "name" {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDirInvalidName,
				Detail: fmt.Sprintf("%%%v", md.Name),
				Row:    md.Pos.Row,
				Col:    md.Pos.Col,
			})
			continue
		}
		name = md.Parameter
	}
	if name == "" {
		b.errs = append(b.errs, &verr.SpecError{
			Cause: semErrNoGrammarName,
		})
	}

	if len(b.AST.Productions) == 0 {
		b.errs = append(b.errs, &verr.SpecError{
			Cause: semErrNoProduction,
		})
		return nil, b.errs
	}

	core := NewBuilder()
	name2Term := map[string]Token{}
	name2NonTerm := map[string]Token{}
	var entries []*mlspec.LexEntry
	var skipKinds []mlspec.LexKindName

	for _, prod := range b.AST.LexProductions {
		if _, ok := name2Term[prod.LHS]; ok {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDuplicateName,
				Detail: prod.LHS,
				Row:    prod.Pos.Row,
				Col:    prod.Pos.Col,
			})
			continue
		}

		t := Token(-(len(name2Term) + 1))
		name2Term[prod.LHS] = t
		if err := core.AddTerminal(prod.LHS, t); err != nil {
			return nil, err
		}
		entries = append(entries, &mlspec.LexEntry{
			Kind:    mlspec.LexKindName(prod.LHS),
			Pattern: mlspec.LexPattern(prod.RHS[0].Elements[0].Pattern),
		})

		if prod.Directive != nil {
			switch prod.Directive.Name {
			case "skip":
				skipKinds = append(skipKinds, mlspec.LexKindName(prod.LHS))
			default:
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrDirInvalidName,
					Detail: prod.Directive.Name,
					Row:    prod.Directive.Pos.Row,
					Col:    prod.Directive.Pos.Col,
				})
			}
		}
	}

	eof := Token(-(len(name2Term) + 1))
	if err := core.SetEOFToken(eof); err != nil {
		return nil, err
	}

	for _, prod := range b.AST.Productions {
		if prod.Directive != nil {
			cause := semErrDirInvalidName
			if prod.Directive.Name == "skip" {
				cause = semErrDirSyntacticSkip
			}
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  cause,
				Detail: prod.Directive.Name,
				Row:    prod.Directive.Pos.Row,
				Col:    prod.Directive.Pos.Col,
			})
		}

		if _, ok := name2NonTerm[prod.LHS]; ok {
			// A repeated LHS contributes more alternatives to the same
			// production.
			continue
		}
		if _, ok := name2Term[prod.LHS]; ok {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDuplicateName,
				Detail: prod.LHS,
				Row:    prod.Pos.Row,
				Col:    prod.Pos.Col,
			})
			continue
		}

		n := Token(len(name2NonTerm) + 1)
		name2NonTerm[prod.LHS] = n
		if err := core.AddNonTerminal(prod.LHS, n); err != nil {
			return nil, err
		}
	}

	for _, prod := range b.AST.Productions {
		lhs, ok := name2NonTerm[prod.LHS]
		if !ok {
			continue
		}
		for _, alt := range prod.RHS {
			if len(alt.Elements) == 0 {
				if err := core.AddRule(lhs, []Token{TokenEmpty}); err != nil {
					return nil, err
				}
				continue
			}

			rhs := make([]Token, 0, len(alt.Elements))
			valid := true
			for _, elem := range alt.Elements {
				if elem.Pattern != "" {
					b.errs = append(b.errs, &verr.SpecError{
						Cause:  semErrPatternInAlt,
						Detail: fmt.Sprintf("%q", elem.Pattern),
						Row:    elem.Pos.Row,
						Col:    elem.Pos.Col,
					})
					valid = false
					continue
				}
				if t, ok := name2Term[elem.ID]; ok {
					rhs = append(rhs, t)
					continue
				}
				if n, ok := name2NonTerm[elem.ID]; ok {
					rhs = append(rhs, n)
					continue
				}
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrUndefinedSym,
					Detail: elem.ID,
					Row:    elem.Pos.Row,
					Col:    elem.Pos.Col,
				})
				valid = false
			}
			if !valid {
				continue
			}
			if err := core.AddRule(lhs, rhs); err != nil {
				return nil, err
			}
		}
	}

	if len(b.errs) > 0 {
		return nil, b.errs
	}

	var lexSpec *mlspec.LexSpec
	if len(entries) > 0 {
		lexSpec = &mlspec.LexSpec{
			Name:    name,
			Entries: entries,
		}
	}

	return &Grammar{
		name:      name,
		lexSpec:   lexSpec,
		skipKinds: skipKinds,
		builder:   core,
		name2Term: name2Term,
	}, nil
}

// Compile runs the core pipeline over the grammar and compiles its terminal
// patterns, producing the portable artifact. A grammar with no terminal
// patterns compiles to an artifact without a lexical specification; such a
// table can still be inspected and driven with externally produced tokens.
func Compile(gram *Grammar) (*spec.CompiledGrammar, error) {
	tab, err := gram.builder.Build()
	if err != nil {
		return nil, err
	}

	var lexical *spec.LexicalSpecification
	if gram.lexSpec != nil {
		clspec, err, cErrs := mlcompiler.Compile(gram.lexSpec, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
		if err != nil {
			if len(cErrs) > 0 {
				var b strings.Builder
				writeCompileError(&b, cErrs[0])
				for _, cerr := range cErrs[1:] {
					fmt.Fprintf(&b, "\n")
					writeCompileError(&b, cerr)
				}
				return nil, fmt.Errorf(b.String())
			}
			return nil, err
		}

		kindToTerminal := make([]int, len(clspec.KindNames))
		skip := make([]int, len(clspec.KindNames))
		for i, k := range clspec.KindNames {
			if k == mlspec.LexKindNameNil {
				continue
			}
			t, ok := gram.name2Term[k.String()]
			if !ok {
				return nil, fmt.Errorf("terminal symbol '%v' was not found in the grammar", k)
			}
			kindToTerminal[i] = int(t)
			for _, sk := range gram.skipKinds {
				if k != sk {
					continue
				}
				skip[i] = 1
				break
			}
		}

		lexical = &spec.LexicalSpecification{
			Lexer: "maleeni",
			Maleeni: &spec.Maleeni{
				Spec:           clspec,
				KindToTerminal: kindToTerminal,
				Skip:           skip,
			},
		}
	}

	return &spec.CompiledGrammar{
		Name:                 gram.name,
		LexicalSpecification: lexical,
		ParseTable:           genTableData(gram.builder, tab),
	}, nil
}

func genTableData(b *Builder, tab *ParseTable) *spec.ParseTable {
	terms := tab.Terminals()
	nonTerms := tab.NonTerminals()

	action := make([]int, len(nonTerms)*len(terms))
	for i, n := range nonTerms {
		for j, t := range terms {
			action[i*len(terms)+j] = int(tab.Action(n, t))
		}
	}

	termVals := make([]int, len(terms))
	termNames := make([]string, len(terms))
	for i, t := range terms {
		termVals[i] = int(t)
		termNames[i] = b.TokenName(t)
	}
	nonTermVals := make([]int, len(nonTerms))
	nonTermNames := make([]string, len(nonTerms))
	firsts := make([][]int, len(nonTerms))
	follows := make([][]int, len(nonTerms))
	for i, n := range nonTerms {
		nonTermVals[i] = int(n)
		nonTermNames[i] = b.TokenName(n)
		if fst, ok := b.First(n); ok {
			firsts[i] = tokensToInts(fst.Tokens())
		}
		if flw, ok := b.Follow(n); ok {
			follows[i] = tokensToInts(flw.Tokens())
		}
	}

	ruleLHS := make([]int, tab.RuleCount()+1)
	ruleRHS := make([][]int, tab.RuleCount()+1)
	predict := make([][]int, tab.RuleCount()+1)
	for r := RuleID(1); int(r) <= tab.RuleCount(); r++ {
		ruleLHS[r] = int(tab.LHS(r))
		ruleRHS[r] = tokensToInts(tab.RHS(r))
		if pred, ok := b.Predict(r); ok {
			predict[r] = tokensToInts(pred.Tokens())
		}
	}

	var transformations []*spec.TransformationEntry
	for _, t := range b.Transformations() {
		transformations = append(transformations, &spec.TransformationEntry{
			Fresh:  int(t.Fresh),
			Origin: int(t.Origin),
		})
	}

	return &spec.ParseTable{
		Action:           action,
		Terminals:        termVals,
		TerminalNames:    termNames,
		NonTerminals:     nonTermVals,
		NonTerminalNames: nonTermNames,
		EOFToken:         int(tab.EOFToken()),
		StartRule:        int(tab.StartRule()),
		RuleLHS:          ruleLHS,
		RuleRHS:          ruleRHS,
		Predict:          predict,
		First:            firsts,
		Follow:           follows,
		Transformations:  transformations,
	}
}

func tokensToInts(toks []Token) []int {
	ints := make([]int, len(toks))
	for i, t := range toks {
		ints[i] = int(t)
	}
	return ints
}

func writeCompileError(w io.Writer, cErr *mlcompiler.CompileError) {
	if cErr.Fragment {
		fmt.Fprintf(w, "fragment ")
	}
	fmt.Fprintf(w, "%v: %v", cErr.Kind, cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(w, ": %v", cErr.Detail)
	}
}
