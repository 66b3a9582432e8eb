package spec

import (
	"io"
	"strings"
	"sync"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
	verr "github.com/trixie-lang/trixie/error"
)

type tokenKind string

const (
	tokenKindID              = tokenKind("id")
	tokenKindTerminalPattern = tokenKind("terminal pattern")
	tokenKindColon           = tokenKind(":")
	tokenKindOr              = tokenKind("|")
	tokenKindSemicolon       = tokenKind(";")
	tokenKindMetaDataMarker  = tokenKind("%")
	tokenKindDirectiveMarker = tokenKind("#")
	tokenKindEOF             = tokenKind("eof")
	tokenKindInvalid         = tokenKind("invalid")
)

type Position struct {
	Row int
	Col int
}

type token struct {
	kind tokenKind
	text string
	pos  Position
}

func newSymbolToken(kind tokenKind, pos Position) *token {
	return &token{
		kind: kind,
		pos:  pos,
	}
}

func newIDToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindID,
		text: text,
		pos:  pos,
	}
}

func newTerminalPatternToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindTerminalPattern,
		text: text,
		pos:  pos,
	}
}

func newEOFToken(pos Position) *token {
	return &token{
		kind: tokenKindEOF,
		pos:  pos,
	}
}

func newInvalidToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindInvalid,
		text: text,
		pos:  pos,
	}
}

// The lexical specification of the grammar description language itself. It
// is compiled on first use and shared by every lexer instance afterwards.
//
// Tab and newline are written into the patterns below as the characters
// themselves, not as regex escapes.
var dslLexSpec = &mlspec.LexSpec{
	Name: "grammar_dsl",
	Entries: []*mlspec.LexEntry{
		{
			Kind:    mlspec.LexKindName("white_space"),
			Pattern: mlspec.LexPattern("[\t" + `
 ]+`),
		},
		{
			Kind:    mlspec.LexKindName("line_comment"),
			Pattern: mlspec.LexPattern(`//[^
]*`),
		},
		{
			Kind:    mlspec.LexKindName("identifier"),
			Pattern: mlspec.LexPattern(`[A-Za-z_][0-9A-Za-z_]*`),
		},
		{
			Kind:    mlspec.LexKindName("terminal_pattern"),
			Pattern: mlspec.LexPattern(`"(\\[^
]|[^"\\
])*"`),
		},
		{
			Kind:    mlspec.LexKindName("colon"),
			Pattern: mlspec.LexPattern(`:`),
		},
		{
			Kind:    mlspec.LexKindName("or"),
			Pattern: mlspec.LexPattern(`\|`),
		},
		{
			Kind:    mlspec.LexKindName("semicolon"),
			Pattern: mlspec.LexPattern(`;`),
		},
		{
			Kind:    mlspec.LexKindName("metadata_marker"),
			Pattern: mlspec.LexPattern(`%`),
		},
		{
			Kind:    mlspec.LexKindName("directive_marker"),
			Pattern: mlspec.LexPattern(`#`),
		},
	},
}

var (
	compileDSLLexSpecOnce sync.Once
	compiledDSLLexSpec    *mlspec.CompiledLexSpec
	compileDSLLexSpecErr  error
)

func dslCompiledLexSpec() (*mlspec.CompiledLexSpec, error) {
	compileDSLLexSpecOnce.Do(func() {
		compiledDSLLexSpec, compileDSLLexSpecErr, _ = mlcompiler.Compile(dslLexSpec)
	})
	return compiledDSLLexSpec, compileDSLLexSpecErr
}

type lexer struct {
	d    *mldriver.Lexer
	spec mldriver.LexSpec
}

func newLexer(src io.Reader) (*lexer, error) {
	s, err := dslCompiledLexSpec()
	if err != nil {
		return nil, err
	}
	lspec := mldriver.NewLexSpec(s)
	d, err := mldriver.NewLexer(lspec, src)
	if err != nil {
		return nil, err
	}
	return &lexer{
		d:    d,
		spec: lspec,
	}, nil
}

func (l *lexer) next() (*token, error) {
	var tok *mldriver.Token
	for {
		var err error
		tok, err = l.d.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF {
			return newEOFToken(lexPosition(tok)), nil
		}
		if tok.Invalid {
			return newInvalidToken(string(tok.Lexeme), lexPosition(tok)), nil
		}
		_, kindName := l.spec.KindIDAndName(tok.ModeID, tok.ModeKindID)
		switch kindName {
		case "white_space":
			continue
		case "line_comment":
			continue
		}
		break
	}

	_, kindName := l.spec.KindIDAndName(tok.ModeID, tok.ModeKindID)
	pos := lexPosition(tok)
	switch kindName {
	case "identifier":
		return newIDToken(string(tok.Lexeme), pos), nil
	case "terminal_pattern":
		text := string(tok.Lexeme)
		// Remove the enclosing quotes, then restore the quotes the pattern
		// escaped. Every other escape sequence is maleeni's to interpret.
		pat := strings.ReplaceAll(text[1:len(text)-1], `\"`, `"`)
		return newTerminalPatternToken(pat, pos), nil
	case "colon":
		return newSymbolToken(tokenKindColon, pos), nil
	case "or":
		return newSymbolToken(tokenKindOr, pos), nil
	case "semicolon":
		return newSymbolToken(tokenKindSemicolon, pos), nil
	case "metadata_marker":
		return newSymbolToken(tokenKindMetaDataMarker, pos), nil
	case "directive_marker":
		return newSymbolToken(tokenKindDirectiveMarker, pos), nil
	default:
		return newInvalidToken(string(tok.Lexeme), pos), nil
	}
}

func lexPosition(tok *mldriver.Token) Position {
	return Position{
		Row: tok.Row + 1,
		Col: tok.Col + 1,
	}
}

func raiseSyntaxError(pos Position, synErr *SyntaxError) {
	panic(&verr.SpecError{
		Cause: synErr,
		Row:   pos.Row,
		Col:   pos.Col,
	})
}

func raiseSyntaxErrorWithDetail(pos Position, synErr *SyntaxError, detail string) {
	panic(&verr.SpecError{
		Cause:  synErr,
		Detail: detail,
		Row:    pos.Row,
		Col:    pos.Col,
	})
}
