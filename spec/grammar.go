package spec

import mlspec "github.com/nihei9/maleeni/spec"

type CompiledGrammar struct {
	Name                 string                `json:"name"`
	LexicalSpecification *LexicalSpecification `json:"lexical_specification"`
	ParseTable           *ParseTable           `json:"parse_table"`
}

type LexicalSpecification struct {
	Lexer   string   `json:"lexer"`
	Maleeni *Maleeni `json:"maleeni"`
}

type Maleeni struct {
	Spec           *mlspec.CompiledLexSpec `json:"spec"`
	KindToTerminal []int                   `json:"kind_to_terminal"`
	Skip           []int                   `json:"skip"`
}

// ParseTable is the portable form of the LL(1) table. Action is laid out
// densely: the cell of the i-th non-terminal and the j-th terminal is
// Action[i*len(Terminals)+j], and 0 means a syntax error. The terminal and
// non-terminal axes carry the token values the rules are written in;
// Predict, First, and Follow are retained for inspection tooling.
type ParseTable struct {
	Action           []int                  `json:"action"`
	Terminals        []int                  `json:"terminals"`
	TerminalNames    []string               `json:"terminal_names"`
	NonTerminals     []int                  `json:"non_terminals"`
	NonTerminalNames []string               `json:"non_terminal_names"`
	EOFToken         int                    `json:"eof_token"`
	StartRule        int                    `json:"start_rule"`
	RuleLHS          []int                  `json:"rule_lhs"`
	RuleRHS          [][]int                `json:"rule_rhs"`
	Predict          [][]int                `json:"predict"`
	First            [][]int                `json:"first"`
	Follow           [][]int                `json:"follow"`
	Transformations  []*TransformationEntry `json:"transformations"`
}

type TransformationEntry struct {
	Fresh  int `json:"fresh"`
	Origin int `json:"origin"`
}
