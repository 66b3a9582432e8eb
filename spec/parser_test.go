package spec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	verr "github.com/trixie-lang/trixie/error"
)

func TestParse(t *testing.T) {
	src := `
%name calc

// The syntactic part.
expr
    : expr plus term
    | term
    ;
term
    : one
    |
    ;

plus: "\+";
one: "[0-9]+";

ws #skip
    : "[\t ]+";
`
	root, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	require.Len(t, root.MetaData, 1)
	assert.Equal(t, "name", root.MetaData[0].Name)
	assert.Equal(t, "calc", root.MetaData[0].Parameter)

	require.Len(t, root.Productions, 2)
	expr := root.Productions[0]
	assert.Equal(t, "expr", expr.LHS)
	require.Len(t, expr.RHS, 2)
	require.Len(t, expr.RHS[0].Elements, 3)
	assert.Equal(t, "expr", expr.RHS[0].Elements[0].ID)
	assert.Equal(t, "plus", expr.RHS[0].Elements[1].ID)
	assert.Equal(t, "term", expr.RHS[0].Elements[2].ID)

	term := root.Productions[1]
	assert.Equal(t, "term", term.LHS)
	require.Len(t, term.RHS, 2)
	assert.Empty(t, term.RHS[1].Elements, "the second alternative of term denotes ε")

	require.Len(t, root.LexProductions, 3)
	assert.Equal(t, "plus", root.LexProductions[0].LHS)
	assert.Equal(t, `\+`, root.LexProductions[0].RHS[0].Elements[0].Pattern)
	assert.Equal(t, "one", root.LexProductions[1].LHS)

	ws := root.LexProductions[2]
	assert.Equal(t, "ws", ws.LHS)
	require.NotNil(t, ws.Directive)
	assert.Equal(t, "skip", ws.Directive.Name)
}

func TestParse_positions(t *testing.T) {
	src := `expr
    : term
    ;
`
	root, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	require.Len(t, root.Productions, 1)
	assert.Equal(t, Position{Row: 1, Col: 1}, root.Productions[0].Pos)
	assert.Equal(t, Position{Row: 2, Col: 7}, root.Productions[0].RHS[0].Elements[0].Pos)
}

func TestParse_syntaxErrors(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		cause   error
	}{
		{
			caption: "a production needs a colon",
			src:     `expr term;`,
			cause:   synErrNoColon,
		},
		{
			caption: "a production needs a semicolon",
			src:     `expr : term`,
			cause:   synErrNoSemicolon,
		},
		{
			caption: "a directive needs a name",
			src:     `ws # : "[\t ]+";`,
			cause:   synErrNoDirectiveName,
		},
		{
			caption: "a metadata entry needs a name",
			src:     `% : term;`,
			cause:   synErrNoMetaDataName,
		},
		{
			caption: "a stray token is reported",
			src:     `| expr : term;`,
			cause:   synErrUnexpectedToken,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			require.Error(t, err)
			specErrs, ok := err.(verr.SpecErrors)
			require.True(t, ok, "want SpecErrors, got %T", err)
			require.NotEmpty(t, specErrs)
			assert.ErrorIs(t, specErrs[0], tt.cause)
		})
	}
}

func TestParse_collectsMultipleErrors(t *testing.T) {
	src := `expr term;
term one;
`
	_, err := Parse(strings.NewReader(src))
	require.Error(t, err)
	specErrs, ok := err.(verr.SpecErrors)
	require.True(t, ok)
	assert.Len(t, specErrs, 2)
}
