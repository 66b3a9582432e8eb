package driver

import (
	"fmt"
	"io"

	mldriver "github.com/nihei9/maleeni/driver"
	"github.com/trixie-lang/trixie/spec"
)

// Token is one lexeme of the source text mapped onto the terminal token the
// parse table is written in.
type Token struct {
	terminal int
	tok      *mldriver.Token
}

// Terminal returns the terminal token value, or the EOF token at the end of
// the input.
func (t *Token) Terminal() int {
	return t.terminal
}

func (t *Token) Lexeme() []byte {
	return t.tok.Lexeme
}

func (t *Token) Text() string {
	return string(t.tok.Lexeme)
}

func (t *Token) EOF() bool {
	return t.tok.EOF
}

func (t *Token) Invalid() bool {
	return t.tok.Invalid
}

func (t *Token) Position() (int, int) {
	return t.tok.Row + 1, t.tok.Col + 1
}

// TokenStream lexes source text with the compiled lexical specification
// embedded in a compiled grammar, dropping the kinds the grammar marked
// skipped.
type TokenStream struct {
	lex            *mldriver.Lexer
	kindToTerminal []int
	skip           []int
	eof            int
}

func NewTokenStream(g *spec.CompiledGrammar, src io.Reader) (*TokenStream, error) {
	if g.LexicalSpecification == nil || g.LexicalSpecification.Maleeni == nil {
		return nil, fmt.Errorf("the compiled grammar of %v carries no lexical specification", g.Name)
	}
	lex, err := mldriver.NewLexer(mldriver.NewLexSpec(g.LexicalSpecification.Maleeni.Spec), src)
	if err != nil {
		return nil, err
	}

	return &TokenStream{
		lex:            lex,
		kindToTerminal: g.LexicalSpecification.Maleeni.KindToTerminal,
		skip:           g.LexicalSpecification.Maleeni.Skip,
		eof:            g.ParseTable.EOFToken,
	}, nil
}

func (s *TokenStream) Next() (*Token, error) {
	for {
		tok, err := s.lex.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF {
			return &Token{
				terminal: s.eof,
				tok:      tok,
			}, nil
		}
		if tok.Invalid {
			return &Token{
				tok: tok,
			}, nil
		}
		if s.skip[tok.KindID] > 0 {
			continue
		}
		return &Token{
			terminal: s.kindToTerminal[tok.KindID],
			tok:      tok,
		}, nil
	}
}
