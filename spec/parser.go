package spec

import (
	"fmt"
	"io"

	verr "github.com/trixie-lang/trixie/error"
)

type RootNode struct {
	MetaData       []*MetaDataNode
	Productions    []*ProductionNode
	LexProductions []*ProductionNode
}

type MetaDataNode struct {
	Name      string
	Parameter string
	Pos       Position
}

type ProductionNode struct {
	Directive *DirectiveNode
	LHS       string
	RHS       []*AlternativeNode
	Pos       Position
}

// isLexical reports whether a production defines a terminal: a single
// alternative holding a single pattern element.
func (n *ProductionNode) isLexical() bool {
	return len(n.RHS) == 1 && len(n.RHS[0].Elements) == 1 && n.RHS[0].Elements[0].Pattern != ""
}

type AlternativeNode struct {
	Elements []*ElementNode
	Pos      Position
}

type ElementNode struct {
	ID      string
	Pattern string
	Pos     Position
}

type DirectiveNode struct {
	Name string
	Pos  Position
}

func Parse(src io.Reader) (*RootNode, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	return p.parse()
}

type parser struct {
	lex       *lexer
	peekedTok *token
	lastTok   *token
	errs      verr.SpecErrors

	// The position of the last token the parser read; used as additional
	// information in error messages.
	pos Position
}

func newParser(src io.Reader) (*parser, error) {
	lex, err := newLexer(src)
	if err != nil {
		return nil, err
	}
	return &parser{
		lex: lex,
	}, nil
}

func (p *parser) parse() (root *RootNode, retErr error) {
	root = p.parseRoot()
	if len(p.errs) > 0 {
		return nil, p.errs
	}
	return root, nil
}

func (p *parser) parseRoot() *RootNode {
	defer func() {
		err := recover()
		if err != nil {
			specErr, ok := err.(*verr.SpecError)
			if !ok {
				panic(fmt.Errorf("an unexpected error occurred: %v", err))
			}
			p.errs = append(p.errs, specErr)
		}
	}()

	var metadata []*MetaDataNode
	var prods []*ProductionNode
	var lexProds []*ProductionNode
	for {
		md := p.parseMetaData()
		if md != nil {
			metadata = append(metadata, md)
			continue
		}

		prod := p.parseProduction()
		if prod != nil {
			if prod.isLexical() {
				lexProds = append(lexProds, prod)
			} else {
				prods = append(prods, prod)
			}
			continue
		}

		if p.consume(tokenKindEOF) {
			break
		}
	}

	return &RootNode{
		MetaData:       metadata,
		Productions:    prods,
		LexProductions: lexProds,
	}
}

func (p *parser) parseMetaData() *MetaDataNode {
	defer func() {
		err := recover()
		if err == nil {
			return
		}
		specErr, ok := err.(*verr.SpecError)
		if !ok {
			panic(err)
		}
		p.errs = append(p.errs, specErr)
		p.skipOverTo(tokenKindSemicolon)
	}()

	if !p.consume(tokenKindMetaDataMarker) {
		return nil
	}
	mdPos := p.lastTok.pos

	if !p.consume(tokenKindID) {
		raiseSyntaxError(p.pos, synErrNoMetaDataName)
	}
	name := p.lastTok.text

	var param string
	if p.consume(tokenKindID) {
		param = p.lastTok.text
	}

	return &MetaDataNode{
		Name:      name,
		Parameter: param,
		Pos:       mdPos,
	}
}

func (p *parser) parseProduction() *ProductionNode {
	defer func() {
		err := recover()
		if err == nil {
			return
		}
		specErr, ok := err.(*verr.SpecError)
		if !ok {
			panic(err)
		}
		p.errs = append(p.errs, specErr)
		p.skipOverTo(tokenKindSemicolon)
	}()

	if p.peek().kind == tokenKindEOF {
		return nil
	}

	if !p.consume(tokenKindID) {
		tok := p.peek()
		p.shift()
		raiseSyntaxErrorWithDetail(tok.pos, synErrUnexpectedToken, tok.text)
	}
	lhs := p.lastTok.text
	lhsPos := p.lastTok.pos

	dir := p.parseDirective()

	if !p.consume(tokenKindColon) {
		raiseSyntaxError(p.pos, synErrNoColon)
	}

	alt := p.parseAlternative()
	rhs := []*AlternativeNode{alt}
	for p.consume(tokenKindOr) {
		rhs = append(rhs, p.parseAlternative())
	}

	if !p.consume(tokenKindSemicolon) {
		raiseSyntaxError(p.pos, synErrNoSemicolon)
	}

	return &ProductionNode{
		Directive: dir,
		LHS:       lhs,
		RHS:       rhs,
		Pos:       lhsPos,
	}
}

func (p *parser) parseDirective() *DirectiveNode {
	if !p.consume(tokenKindDirectiveMarker) {
		return nil
	}
	dirPos := p.lastTok.pos

	if !p.consume(tokenKindID) {
		raiseSyntaxError(p.pos, synErrNoDirectiveName)
	}

	return &DirectiveNode{
		Name: p.lastTok.text,
		Pos:  dirPos,
	}
}

func (p *parser) parseAlternative() *AlternativeNode {
	var elems []*ElementNode
	for {
		elem := p.parseElement()
		if elem == nil {
			break
		}
		elems = append(elems, elem)
	}

	// An empty alternative denotes ε and carries no position of its own.
	var firstElemPos Position
	if len(elems) > 0 {
		firstElemPos = elems[0].Pos
	}

	return &AlternativeNode{
		Elements: elems,
		Pos:      firstElemPos,
	}
}

func (p *parser) parseElement() *ElementNode {
	switch {
	case p.consume(tokenKindID):
		return &ElementNode{
			ID:  p.lastTok.text,
			Pos: p.lastTok.pos,
		}
	case p.consume(tokenKindTerminalPattern):
		return &ElementNode{
			Pattern: p.lastTok.text,
			Pos:     p.lastTok.pos,
		}
	}
	return nil
}

func (p *parser) consume(expected tokenKind) bool {
	tok := p.peek()
	if tok.kind == tokenKindInvalid && expected != tokenKindInvalid {
		p.shift()
		raiseSyntaxErrorWithDetail(tok.pos, synErrInvalidToken, tok.text)
	}
	if tok.kind == expected {
		p.shift()
		return true
	}
	return false
}

func (p *parser) peek() *token {
	if p.peekedTok != nil {
		return p.peekedTok
	}
	tok, err := p.lex.next()
	if err != nil {
		panic(&verr.SpecError{
			Cause: err,
		})
	}
	p.peekedTok = tok
	return tok
}

func (p *parser) shift() {
	tok := p.peek()
	p.lastTok = tok
	p.pos = tok.pos
	p.peekedTok = nil
}

func (p *parser) skipOverTo(kind tokenKind) {
	for {
		tok := p.peek()
		if tok.kind == kind || tok.kind == tokenKindEOF {
			p.shift()
			return
		}
		p.shift()
	}
}
