package grammar

import "fmt"

// Production is a read-only view of the alternatives declared (or produced
// by the transformations) for a single LHS.
type Production struct {
	LHS          Token
	Alternatives [][]Token
}

// Transformation records that a fresh non-terminal was minted while
// rewriting the production of Origin.
type Transformation struct {
	Fresh  Token
	Origin Token
}

// Builder accumulates a context-free grammar and compiles it into an LL(1)
// parse table. Terminals, non-terminals, and rules are registered first;
// Build then rewrites the grammar (left recursion elimination, left
// factoring), computes the FIRST/FOLLOW/PREDICT sets, and emits the table.
//
// Build is destructive: it rewrites the stored grammar in place. Callers
// that need the pristine grammar afterwards must Clone the builder before
// building.
type Builder struct {
	eof   Token
	start Token

	terminals    *TokenSet
	nonTerminals *TokenSet
	termNames    map[Token]string
	nonTermNames map[Token]string

	prods *productionSet

	transformations map[Token]Token
	transformOrder  []Token

	firsts   map[Token]*TokenSet
	follows  map[Token]*TokenSet
	predicts map[RuleID]*TokenSet
	ruleLHS  []Token
	ruleRHS  [][]Token
}

func NewBuilder() *Builder {
	return &Builder{
		eof:             DefaultEOFToken,
		terminals:       NewTokenSet(),
		nonTerminals:    NewTokenSet(),
		termNames:       map[Token]string{},
		nonTermNames:    map[Token]string{},
		prods:           newProductionSet(),
		transformations: map[Token]Token{},
	}
}

// SetEOFToken chooses the end-of-input terminal. The default is
// DefaultEOFToken.
func (b *Builder) SetEOFToken(t Token) error {
	if !t.IsTerminal() {
		return fmt.Errorf("%w: %v", errNotTerminal, t)
	}
	if b.terminals.Contains(t) {
		return fmt.Errorf("%w: %v", ErrDuplicateToken, t)
	}
	b.eof = t
	return nil
}

// SetStartRule chooses the start non-terminal. The default is the first
// non-terminal added.
func (b *Builder) SetStartRule(n Token) error {
	if !n.IsNonTerminal() {
		return fmt.Errorf("%w: %v", errNotNonTerminal, n)
	}
	if !b.nonTerminals.Contains(n) {
		return fmt.Errorf("%w: %v", ErrUndeclaredToken, n)
	}
	b.start = n
	return nil
}

func (b *Builder) AddTerminal(name string, t Token) error {
	if !t.IsTerminal() {
		return fmt.Errorf("%w: %v (%v)", errNotTerminal, t, name)
	}
	if b.terminals.Contains(t) || t == b.eof {
		return fmt.Errorf("%w: %v (%v)", ErrDuplicateToken, t, name)
	}
	b.terminals.Add(t)
	b.termNames[t] = name
	return nil
}

func (b *Builder) AddNonTerminal(name string, n Token) error {
	if !n.IsNonTerminal() {
		return fmt.Errorf("%w: %v (%v)", errNotNonTerminal, n, name)
	}
	if b.nonTerminals.Contains(n) {
		return fmt.Errorf("%w: %v (%v)", ErrDuplicateToken, n, name)
	}
	b.nonTerminals.Add(n)
	b.nonTermNames[n] = name
	if b.start.IsEmpty() {
		b.start = n
	}
	return nil
}

// AddRule appends an alternative to the production of lhs, creating the
// production when lhs has none yet. The empty token is accepted only as the
// sole token of an alternative.
func (b *Builder) AddRule(lhs Token, rhs []Token) error {
	if !b.nonTerminals.Contains(lhs) {
		return fmt.Errorf("%w: LHS %v", ErrUndeclaredToken, lhs)
	}
	if len(rhs) == 0 {
		return fmt.Errorf("%w: LHS %v", errEmptyAlternative, b.TokenName(lhs))
	}
	for _, t := range rhs {
		switch {
		case t.IsEmpty():
			if len(rhs) != 1 {
				return fmt.Errorf("%w: LHS %v", errMisplacedEmpty, b.TokenName(lhs))
			}
		case t.IsTerminal():
			if !b.terminals.Contains(t) {
				return fmt.Errorf("%w: terminal %v", ErrUndeclaredToken, t)
			}
		default:
			if !b.nonTerminals.Contains(t) {
				return fmt.Errorf("%w: non-terminal %v", ErrUndeclaredToken, t)
			}
		}
	}
	alt := make([]Token, len(rhs))
	copy(alt, rhs)
	b.prods.append(lhs, alt)
	return nil
}

// Build runs the transformation pipeline and emits the parse table. The
// builder's grammar is left in its rewritten form so the final productions,
// display names, and transformation records can be inspected afterwards.
func (b *Builder) Build() (*ParseTable, error) {
	if b.start.IsEmpty() {
		return nil, ErrNoStartRule
	}
	if _, ok := b.prods.findByLHS(b.start); !ok {
		return nil, fmt.Errorf("%w: start rule %v", ErrNoStartRule, b.TokenName(b.start))
	}
	b.eliminateLeftRecursion()
	if err := b.checkIndirectLeftRecursion(); err != nil {
		return nil, err
	}
	b.factorLeft()
	b.genFirstSets()
	b.genFollowSets()
	b.genPredictSets()
	return b.genParseTable()
}

// Clone returns a deep copy of the builder. Build rewrites the grammar in
// place, so callers keep a pristine copy by cloning first.
func (b *Builder) Clone() *Builder {
	c := NewBuilder()
	c.eof = b.eof
	c.start = b.start
	c.terminals = b.terminals.Clone()
	c.nonTerminals = b.nonTerminals.Clone()
	for t, name := range b.termNames {
		c.termNames[t] = name
	}
	for n, name := range b.nonTermNames {
		c.nonTermNames[n] = name
	}
	c.prods = b.prods.clone()
	for fresh, origin := range b.transformations {
		c.transformations[fresh] = origin
	}
	c.transformOrder = append([]Token(nil), b.transformOrder...)
	return c
}

// mintNonTerminal introduces a fresh non-terminal derived from origin. Its
// numeric identity is one past the largest non-terminal declared so far.
func (b *Builder) mintNonTerminal(origin Token) Token {
	max := TokenEmpty
	for _, n := range b.nonTerminals.Tokens() {
		if n > max {
			max = n
		}
	}
	fresh := max + 1
	b.nonTerminals.Add(fresh)
	b.nonTermNames[fresh] = b.nonTermNames[origin] + "Prime"
	b.transformations[fresh] = origin
	b.transformOrder = append(b.transformOrder, fresh)
	return fresh
}

func (b *Builder) EOFToken() Token {
	return b.eof
}

func (b *Builder) StartRule() Token {
	return b.start
}

// TerminalTokens returns the declared terminals in declaration order. The
// EOF token is not a member; it is tracked separately.
func (b *Builder) TerminalTokens() []Token {
	return b.terminals.Tokens()
}

func (b *Builder) NonTerminalTokens() []Token {
	return b.nonTerminals.Tokens()
}

// TokenName returns the display name of a token. Fresh non-terminals minted
// during the transformations are named after their origin with a "Prime"
// suffix per rewrite.
func (b *Builder) TokenName(t Token) string {
	switch {
	case t.IsEmpty():
		return "ε"
	case t == b.eof:
		return "<eof>"
	case t.IsTerminal():
		return b.termNames[t]
	default:
		return b.nonTermNames[t]
	}
}

// Productions returns the current productions in LHS appearance order.
// Before Build this is the declared grammar; after Build it is the
// rewritten one.
func (b *Builder) Productions() []Production {
	prods := b.prods.productions()
	views := make([]Production, 0, len(prods))
	for _, prod := range prods {
		views = append(views, Production{
			LHS:          prod.lhs,
			Alternatives: prod.clone().alts,
		})
	}
	return views
}

// Transformations returns every fresh non-terminal minted by the rewrites,
// in minting order, paired with the non-terminal it was derived from.
func (b *Builder) Transformations() []Transformation {
	ts := make([]Transformation, 0, len(b.transformOrder))
	for _, fresh := range b.transformOrder {
		ts = append(ts, Transformation{
			Fresh:  fresh,
			Origin: b.transformations[fresh],
		})
	}
	return ts
}

// First returns FIRST(t). It is available only after Build.
func (b *Builder) First(t Token) (*TokenSet, bool) {
	s, ok := b.firsts[t]
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

// Follow returns FOLLOW(n) for a non-terminal. It is available only after
// Build.
func (b *Builder) Follow(n Token) (*TokenSet, bool) {
	s, ok := b.follows[n]
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

// Predict returns PREDICT(r) for a rule-id assigned by Build.
func (b *Builder) Predict(r RuleID) (*TokenSet, bool) {
	s, ok := b.predicts[r]
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}
