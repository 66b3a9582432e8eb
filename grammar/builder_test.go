package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newNullableChainBuilder declares the grammar
//
//	A → B C ω
//	B → b B | ε
//	C → c | ε
//
// over the terminals b, c, ω with a dedicated EOF terminal.
func newNullableChainBuilder(t *testing.T) *Builder {
	t.Helper()

	b := NewBuilder()
	require.NoError(t, b.AddTerminal("b", -1))
	require.NoError(t, b.AddTerminal("c", -2))
	require.NoError(t, b.AddTerminal("omega", -3))
	require.NoError(t, b.SetEOFToken(-4))
	require.NoError(t, b.AddNonTerminal("a", 1))
	require.NoError(t, b.AddNonTerminal("bs", 2))
	require.NoError(t, b.AddNonTerminal("cs", 3))
	require.NoError(t, b.AddRule(1, []Token{2, 3, -3}))
	require.NoError(t, b.AddRule(2, []Token{-1, 2}))
	require.NoError(t, b.AddRule(2, []Token{TokenEmpty}))
	require.NoError(t, b.AddRule(3, []Token{-2}))
	require.NoError(t, b.AddRule(3, []Token{TokenEmpty}))
	return b
}

func TestBuilder_buildLeavesNonRecursiveGrammarUntouched(t *testing.T) {
	b := newNullableChainBuilder(t)
	tab, err := b.Build()
	require.NoError(t, err)

	prods := b.Productions()
	require.Len(t, prods, 3)
	assert.Equal(t, Token(1), prods[0].LHS)
	assert.Equal(t, [][]Token{{2, 3, -3}}, prods[0].Alternatives)
	assert.Equal(t, [][]Token{{-1, 2}, {TokenEmpty}}, prods[1].Alternatives)
	assert.Equal(t, [][]Token{{-2}, {TokenEmpty}}, prods[2].Alternatives)
	assert.Empty(t, b.Transformations())

	firstA, ok := b.First(1)
	require.True(t, ok)
	assert.ElementsMatch(t, []Token{-1, -2, -3}, firstA.Tokens())
	firstB, ok := b.First(2)
	require.True(t, ok)
	assert.ElementsMatch(t, []Token{-1, TokenEmpty}, firstB.Tokens())
	firstC, ok := b.First(3)
	require.True(t, ok)
	assert.ElementsMatch(t, []Token{-2, TokenEmpty}, firstC.Tokens())

	followA, ok := b.Follow(1)
	require.True(t, ok)
	assert.ElementsMatch(t, []Token{-4}, followA.Tokens())
	followB, ok := b.Follow(2)
	require.True(t, ok)
	assert.ElementsMatch(t, []Token{-2, -3}, followB.Tokens())
	followC, ok := b.Follow(3)
	require.True(t, ok)
	assert.ElementsMatch(t, []Token{-3}, followC.Tokens())

	predicts := [][]Token{
		1: {-1, -2, -3},
		2: {-1},
		3: {-2, -3},
		4: {-2},
		5: {-3},
	}
	require.Equal(t, 5, tab.RuleCount())
	for r := RuleID(1); int(r) <= tab.RuleCount(); r++ {
		pred, ok := b.Predict(r)
		require.True(t, ok)
		assert.ElementsMatch(t, predicts[r], pred.Tokens(), "PREDICT(%v)", r)
	}

	wantCells := map[[2]Token]RuleID{
		{1, -1}: 1,
		{1, -2}: 1,
		{1, -3}: 1,
		{2, -1}: 2,
		{2, -2}: 3,
		{2, -3}: 3,
		{3, -2}: 4,
		{3, -3}: 5,
	}
	for _, n := range tab.NonTerminals() {
		for _, term := range tab.Terminals() {
			want := wantCells[[2]Token{n, term}]
			assert.Equal(t, want, tab.Action(n, term), "table[%v, %v]", n, term)
		}
	}

	assert.Equal(t, []Token{2, 3, -3}, tab.RHS(1))
	assert.Equal(t, Token(2), tab.LHS(2))
	assert.Nil(t, tab.RHS(RuleIDNil))
}

func TestBuilder_introspectionIsIdempotent(t *testing.T) {
	b := newNullableChainBuilder(t)
	_, err := b.Build()
	require.NoError(t, err)

	first1, ok := b.First(2)
	require.True(t, ok)
	first2, ok := b.First(2)
	require.True(t, ok)
	assert.True(t, first1.Equal(first2))

	follow1, ok := b.Follow(2)
	require.True(t, ok)
	follow2, ok := b.Follow(2)
	require.True(t, ok)
	assert.True(t, follow1.Equal(follow2))

	pred1, ok := b.Predict(3)
	require.True(t, ok)
	pred2, ok := b.Predict(3)
	require.True(t, ok)
	assert.True(t, pred1.Equal(pred2))

	// Mutating a returned set must not leak into the builder.
	first1.Add(Token(-99))
	first3, ok := b.First(2)
	require.True(t, ok)
	assert.False(t, first1.Equal(first3))
}

func TestBuilder_cloneKeepsPristineGrammar(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddTerminal("plus", -1))
	require.NoError(t, b.AddTerminal("one", -2))
	require.NoError(t, b.SetEOFToken(-3))
	require.NoError(t, b.AddNonTerminal("expr", 1))
	require.NoError(t, b.AddNonTerminal("primary", 2))
	require.NoError(t, b.AddRule(1, []Token{1, -1, 1}))
	require.NoError(t, b.AddRule(1, []Token{2}))
	require.NoError(t, b.AddRule(2, []Token{-2}))

	pristine := b.Clone()
	_, err := b.Build()
	require.NoError(t, err)

	// Build rewrote the original in place; the clone still holds the
	// left-recursive grammar.
	assert.Len(t, b.Productions(), 3)
	assert.Len(t, pristine.Productions(), 2)
	assert.Empty(t, pristine.Transformations())
	assert.Equal(t, [][]Token{{1, -1, 1}, {2}}, pristine.Productions()[0].Alternatives)

	// The clone builds to the same table.
	tab, err := pristine.Build()
	require.NoError(t, err)
	assert.Equal(t, RuleID(1), tab.Action(1, -2))
	assert.Equal(t, RuleID(4), tab.Action(3, -3))
}

func TestBuilder_declarationErrors(t *testing.T) {
	t.Run("duplicate terminal", func(t *testing.T) {
		b := NewBuilder()
		require.NoError(t, b.AddTerminal("x", -1))
		assert.ErrorIs(t, b.AddTerminal("y", -1), ErrDuplicateToken)
	})

	t.Run("duplicate non-terminal", func(t *testing.T) {
		b := NewBuilder()
		require.NoError(t, b.AddNonTerminal("x", 1))
		assert.ErrorIs(t, b.AddNonTerminal("y", 1), ErrDuplicateToken)
	})

	t.Run("terminal colliding with EOF", func(t *testing.T) {
		b := NewBuilder()
		require.NoError(t, b.SetEOFToken(-1))
		assert.ErrorIs(t, b.AddTerminal("x", -1), ErrDuplicateToken)
	})

	t.Run("terminal with a non-negative token", func(t *testing.T) {
		b := NewBuilder()
		assert.Error(t, b.AddTerminal("x", 1))
		assert.Error(t, b.AddTerminal("x", TokenEmpty))
	})

	t.Run("non-terminal with a non-positive token", func(t *testing.T) {
		b := NewBuilder()
		assert.Error(t, b.AddNonTerminal("x", -1))
		assert.Error(t, b.AddNonTerminal("x", TokenEmpty))
	})

	t.Run("start rule must be declared", func(t *testing.T) {
		b := NewBuilder()
		assert.ErrorIs(t, b.SetStartRule(1), ErrUndeclaredToken)
	})
}

func TestBuilder_ruleErrors(t *testing.T) {
	newB := func(t *testing.T) *Builder {
		b := NewBuilder()
		require.NoError(t, b.AddTerminal("x", -1))
		require.NoError(t, b.AddNonTerminal("s", 1))
		return b
	}

	t.Run("undeclared LHS", func(t *testing.T) {
		b := newB(t)
		assert.ErrorIs(t, b.AddRule(2, []Token{-1}), ErrUndeclaredToken)
	})

	t.Run("undeclared terminal on RHS", func(t *testing.T) {
		b := newB(t)
		assert.ErrorIs(t, b.AddRule(1, []Token{-2}), ErrUndeclaredToken)
	})

	t.Run("undeclared non-terminal on RHS", func(t *testing.T) {
		b := newB(t)
		assert.ErrorIs(t, b.AddRule(1, []Token{2}), ErrUndeclaredToken)
	})

	t.Run("empty RHS", func(t *testing.T) {
		b := newB(t)
		assert.Error(t, b.AddRule(1, nil))
	})

	t.Run("misplaced empty token", func(t *testing.T) {
		b := newB(t)
		assert.Error(t, b.AddRule(1, []Token{-1, TokenEmpty}))
	})

	t.Run("sole empty token is fine", func(t *testing.T) {
		b := newB(t)
		assert.NoError(t, b.AddRule(1, []Token{TokenEmpty}))
	})
}

func TestBuilder_noStartRule(t *testing.T) {
	t.Run("no non-terminals at all", func(t *testing.T) {
		b := NewBuilder()
		require.NoError(t, b.AddTerminal("x", -1))
		_, err := b.Build()
		assert.ErrorIs(t, err, ErrNoStartRule)
	})

	t.Run("start non-terminal has no production", func(t *testing.T) {
		b := NewBuilder()
		require.NoError(t, b.AddTerminal("x", -1))
		require.NoError(t, b.AddNonTerminal("s", 1))
		require.NoError(t, b.AddNonTerminal("other", 2))
		require.NoError(t, b.AddRule(2, []Token{-1}))
		_, err := b.Build()
		assert.ErrorIs(t, err, ErrNoStartRule)
	})
}

func TestBuilder_ambiguityAfterTransformIsAnError(t *testing.T) {
	// A → x | B and B → x leave both rules of A predicting x; neither
	// rewrite resolves that.
	b := NewBuilder()
	require.NoError(t, b.AddTerminal("x", -1))
	require.NoError(t, b.SetEOFToken(-2))
	require.NoError(t, b.AddNonTerminal("a", 1))
	require.NoError(t, b.AddNonTerminal("b", 2))
	require.NoError(t, b.AddRule(1, []Token{-1}))
	require.NoError(t, b.AddRule(1, []Token{2}))
	require.NoError(t, b.AddRule(2, []Token{-1}))

	_, err := b.Build()
	assert.ErrorIs(t, err, ErrAmbiguousAfterTransform)
}

func TestBuilder_tableCoverageMatchesPredict(t *testing.T) {
	b := newNullableChainBuilder(t)
	tab, err := b.Build()
	require.NoError(t, err)

	covered := map[[2]Token]bool{}
	for r := RuleID(1); int(r) <= tab.RuleCount(); r++ {
		pred, ok := b.Predict(r)
		require.True(t, ok)
		for _, term := range pred.Tokens() {
			covered[[2]Token{tab.LHS(r), term}] = true
		}
	}
	for _, n := range tab.NonTerminals() {
		for _, term := range tab.Terminals() {
			want := covered[[2]Token{n, term}]
			got := tab.Action(n, term) != RuleIDNil
			assert.Equal(t, want, got, "coverage of table[%v, %v]", n, term)
		}
	}

	entries := tab.Entries()
	assert.Len(t, entries, len(covered))
}
