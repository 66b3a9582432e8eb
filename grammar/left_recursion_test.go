package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newAdditionBuilder declares expr → expr plus expr | primary and
// primary → one, the canonical directly left-recursive grammar.
func newAdditionBuilder(t *testing.T) *Builder {
	t.Helper()

	b := NewBuilder()
	require.NoError(t, b.AddTerminal("plus", -1))
	require.NoError(t, b.AddTerminal("one", -2))
	require.NoError(t, b.SetEOFToken(-3))
	require.NoError(t, b.AddNonTerminal("expr", 1))
	require.NoError(t, b.AddNonTerminal("primary", 2))
	require.NoError(t, b.AddRule(1, []Token{1, -1, 1}))
	require.NoError(t, b.AddRule(1, []Token{2}))
	require.NoError(t, b.AddRule(2, []Token{-2}))
	return b
}

func TestBuild_eliminatesDirectLeftRecursion(t *testing.T) {
	b := newAdditionBuilder(t)
	tab, err := b.Build()
	require.NoError(t, err)

	// expr → primary exprPrime; exprPrime → plus primary exprPrime | ε.
	// The recursive tail "plus expr" was α-expanded to "plus primary".
	prods := b.Productions()
	require.Len(t, prods, 3)
	assert.Equal(t, [][]Token{{2, 3}}, prods[0].Alternatives)
	assert.Equal(t, [][]Token{{-2}}, prods[1].Alternatives)
	assert.Equal(t, Token(3), prods[2].LHS)
	assert.Equal(t, [][]Token{{-1, 2, 3}, {TokenEmpty}}, prods[2].Alternatives)

	assert.Equal(t, []Transformation{{Fresh: 3, Origin: 1}}, b.Transformations())
	assert.Equal(t, "exprPrime", b.TokenName(3))

	firstE, ok := b.First(1)
	require.True(t, ok)
	assert.ElementsMatch(t, []Token{-2}, firstE.Tokens())
	firstF, ok := b.First(3)
	require.True(t, ok)
	assert.ElementsMatch(t, []Token{-1, TokenEmpty}, firstF.Tokens())

	followP, ok := b.Follow(2)
	require.True(t, ok)
	assert.ElementsMatch(t, []Token{-1, -3}, followP.Tokens())
	followF, ok := b.Follow(3)
	require.True(t, ok)
	assert.ElementsMatch(t, []Token{-3}, followF.Tokens())

	assert.Equal(t, RuleID(1), tab.Action(1, -2))
	assert.Equal(t, RuleID(2), tab.Action(2, -2))
	assert.Equal(t, RuleID(3), tab.Action(3, -1))
	assert.Equal(t, RuleID(4), tab.Action(3, -3))
}

func TestBuild_leftRecursionFreePostcondition(t *testing.T) {
	b := newAdditionBuilder(t)
	_, err := b.Build()
	require.NoError(t, err)

	for _, prod := range b.Productions() {
		for _, alt := range prod.Alternatives {
			assert.NotEqual(t, prod.LHS, alt[0], "production of %v still begins with its own LHS", b.TokenName(prod.LHS))
		}
	}
}

func TestBuild_alphaExpansionKeepsNonRecursiveTails(t *testing.T) {
	// expr → expr plus expr | expr star primary | primary. The first tail
	// mentions expr and expands against primary; the second tail does not
	// mention expr and must survive the expansion unchanged.
	b := NewBuilder()
	require.NoError(t, b.AddTerminal("plus", -1))
	require.NoError(t, b.AddTerminal("star", -2))
	require.NoError(t, b.AddTerminal("one", -3))
	require.NoError(t, b.SetEOFToken(-4))
	require.NoError(t, b.AddNonTerminal("expr", 1))
	require.NoError(t, b.AddNonTerminal("primary", 2))
	require.NoError(t, b.AddRule(1, []Token{1, -1, 1}))
	require.NoError(t, b.AddRule(1, []Token{1, -2, 2}))
	require.NoError(t, b.AddRule(1, []Token{2}))
	require.NoError(t, b.AddRule(2, []Token{-3}))

	tab, err := b.Build()
	require.NoError(t, err)

	prods := b.Productions()
	require.Len(t, prods, 3)
	assert.Equal(t, [][]Token{{2, 3}}, prods[0].Alternatives)
	assert.Equal(t, [][]Token{{-1, 2, 3}, {-2, 2, 3}, {TokenEmpty}}, prods[2].Alternatives)

	firstF, ok := b.First(3)
	require.True(t, ok)
	assert.ElementsMatch(t, []Token{-1, -2, TokenEmpty}, firstF.Tokens())

	assert.Equal(t, RuleID(3), tab.Action(3, -1))
	assert.Equal(t, RuleID(4), tab.Action(3, -2))
	assert.Equal(t, RuleID(5), tab.Action(3, -4))
}

func TestBuild_rejectsIndirectLeftRecursion(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddTerminal("x", -1))
	require.NoError(t, b.AddTerminal("y", -2))
	require.NoError(t, b.SetEOFToken(-3))
	require.NoError(t, b.AddNonTerminal("a", 1))
	require.NoError(t, b.AddNonTerminal("b", 2))
	require.NoError(t, b.AddRule(1, []Token{2, -1}))
	require.NoError(t, b.AddRule(2, []Token{1, -2}))

	_, err := b.Build()
	assert.ErrorIs(t, err, ErrIndirectLeftRecursion)
}
