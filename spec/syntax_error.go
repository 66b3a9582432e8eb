package spec

import "fmt"

type SyntaxError struct {
	message string
}

func newSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		message: message,
	}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s", e.message)
}

var (
	// lexical errors
	synErrInvalidToken = newSyntaxError("invalid token")

	// syntax errors
	synErrNoColon         = newSyntaxError("the colon must precede alternatives")
	synErrNoSemicolon     = newSyntaxError("the semicolon is missing at the last of an alternative")
	synErrNoDirectiveName = newSyntaxError("a directive needs a name")
	synErrNoMetaDataName  = newSyntaxError("a metadata entry needs a name")
	synErrUnexpectedToken = newSyntaxError("unexpected token")
)
