package grammar

import "fmt"

type tableKey struct {
	nonTerminal Token
	terminal    Token
}

// TableEntry is one non-empty cell of the parse table.
type TableEntry struct {
	NonTerminal Token
	Terminal    Token
	Rule        RuleID
}

// ParseTable is the LL(1) action table produced by Build. It maps a
// (non-terminal, terminal) pair to the rule-id a predictive parser must
// expand, with RuleIDNil meaning a syntax error, and retains the right-hand
// side bound to each rule-id. The table is self-contained: it shares no
// state with the builder that produced it.
type ParseTable struct {
	terminals    []Token
	nonTerminals []Token
	eof          Token
	start        Token
	cells        map[tableKey]RuleID
	ruleLHS      []Token
	ruleRHS      [][]Token
}

func (b *Builder) genParseTable() (*ParseTable, error) {
	terms := b.terminals.Tokens()
	terms = append(terms, b.eof)

	ruleLHS := make([]Token, len(b.ruleLHS))
	copy(ruleLHS, b.ruleLHS)
	ruleRHS := make([][]Token, len(b.ruleRHS))
	for i, rhs := range b.ruleRHS {
		if rhs == nil {
			continue
		}
		ruleRHS[i] = make([]Token, len(rhs))
		copy(ruleRHS[i], rhs)
	}

	tab := &ParseTable{
		terminals:    terms,
		nonTerminals: b.nonTerminals.Tokens(),
		eof:          b.eof,
		start:        b.start,
		cells:        map[tableKey]RuleID{},
		ruleLHS:      ruleLHS,
		ruleRHS:      ruleRHS,
	}

	for r := RuleID(1); int(r) < len(b.ruleLHS); r++ {
		lhs := b.ruleLHS[r]
		for _, t := range b.predicts[r].Tokens() {
			key := tableKey{
				nonTerminal: lhs,
				terminal:    t,
			}
			if prev, ok := tab.cells[key]; ok {
				return nil, fmt.Errorf("%w: %v on %v selects both rule %v and rule %v",
					ErrAmbiguousAfterTransform, b.TokenName(lhs), b.TokenName(t), prev, r)
			}
			tab.cells[key] = r
		}
	}

	return tab, nil
}

// Action returns the rule-id to expand when nonTerminal is on top of the
// prediction stack and terminal is the lookahead. RuleIDNil means the input
// is not in the language.
func (t *ParseTable) Action(nonTerminal, terminal Token) RuleID {
	return t.cells[tableKey{
		nonTerminal: nonTerminal,
		terminal:    terminal,
	}]
}

// LHS returns the left-hand side bound to a rule-id; TokenEmpty for
// RuleIDNil or an unassigned id.
func (t *ParseTable) LHS(r RuleID) Token {
	if r <= RuleIDNil || int(r) >= len(t.ruleLHS) {
		return TokenEmpty
	}
	return t.ruleLHS[r]
}

// RHS returns the right-hand side bound to a rule-id; nil for RuleIDNil or
// an unassigned id.
func (t *ParseTable) RHS(r RuleID) []Token {
	if r <= RuleIDNil || int(r) >= len(t.ruleRHS) {
		return nil
	}
	rhs := make([]Token, len(t.ruleRHS[r]))
	copy(rhs, t.ruleRHS[r])
	return rhs
}

// RuleCount returns the number of rule-ids the table holds, the reserved id
// 0 excluded.
func (t *ParseTable) RuleCount() int {
	return len(t.ruleLHS) - 1
}

// Terminals returns the table's terminal axis in declaration order, the EOF
// token last.
func (t *ParseTable) Terminals() []Token {
	terms := make([]Token, len(t.terminals))
	copy(terms, t.terminals)
	return terms
}

func (t *ParseTable) NonTerminals() []Token {
	nonTerms := make([]Token, len(t.nonTerminals))
	copy(nonTerms, t.nonTerminals)
	return nonTerms
}

func (t *ParseTable) EOFToken() Token {
	return t.eof
}

func (t *ParseTable) StartRule() Token {
	return t.start
}

// Entries returns the non-empty cells, non-terminal-major, both axes in
// declaration order.
func (t *ParseTable) Entries() []TableEntry {
	var entries []TableEntry
	for _, n := range t.nonTerminals {
		for _, term := range t.terminals {
			r := t.Action(n, term)
			if r == RuleIDNil {
				continue
			}
			entries = append(entries, TableEntry{
				NonTerminal: n,
				Terminal:    term,
				Rule:        r,
			})
		}
	}
	return entries
}
