package grammar

import "errors"

var (
	ErrDuplicateToken          = errors.New("a token is already declared")
	ErrUndeclaredToken         = errors.New("a rule references an undeclared token")
	ErrNoStartRule             = errors.New("a grammar needs at least one production for the start rule")
	ErrAmbiguousAfterTransform = errors.New("the grammar is still ambiguous after left recursion elimination and left factoring")
	ErrIndirectLeftRecursion   = errors.New("the grammar contains indirect left recursion")

	semErrNoGrammarName    = errors.New("name is missing")
	semErrNoProduction     = errors.New("a grammar needs at least one production")
	semErrDuplicateName    = errors.New("duplicate names are not allowed between terminals and non-terminals")
	semErrUndefinedSym     = errors.New("undefined symbol")
	semErrPatternInAlt     = errors.New("a pattern cannot appear in an alternative; define a named terminal instead")
	semErrDirInvalidName   = errors.New("invalid directive name")
	semErrDirSyntacticSkip = errors.New("the skip directive applies only to terminals")

	errNotTerminal      = errors.New("a terminal token must be a negative integer")
	errNotNonTerminal   = errors.New("a non-terminal token must be a positive integer")
	errEmptyAlternative = errors.New("an alternative must contain at least one token")
	errMisplacedEmpty   = errors.New("the empty token must be the sole token of its alternative")
)
