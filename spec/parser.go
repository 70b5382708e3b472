package spec

import (
	"io"

	verr "github.com/nihei9/terminus/error"
)

const (
	DeclNonTerminals = "nonterminals"
	DeclTerminals    = "terminals"
)

type RootNode struct {
	Directives   []*DirectiveNode
	Declarations []*DeclarationNode
}

type DirectiveNode struct {
	Name       string
	Parameters []*SymbolNode
	Pos        Position
}

type DeclarationNode struct {
	Name    string
	Symbols []*SymbolNode
	Pos     Position
}

type SymbolNode struct {
	Text string
	Pos  Position
}

func raiseSyntaxError(synErr *SyntaxError, pos Position) {
	panic(&verr.SpecError{
		Cause: synErr,
		Row:   pos.Row,
		Col:   pos.Col,
	})
}

// Parse reads an alphabet description such as:
//
//	#name three;
//	#start S;
//	#end eof;
//	nonterminals: S A B;
//	terminals: a b eof;
func Parse(src io.Reader) (*RootNode, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	root, err := p.parse()
	if err != nil {
		return nil, err
	}
	return root, nil
}

type parser struct {
	lex       *lexer
	peekedTok *token
	lastTok   *token
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
	defer func() {
		err := recover()
		if err != nil {
			var ok bool
			retErr, ok = err.(error)
			if !ok {
				panic(err)
			}
			return
		}
	}()
	return p.parseRoot(), nil
}

func (p *parser) parseRoot() *RootNode {
	root := &RootNode{}
	for {
		if p.consume(tokenKindEOF) {
			break
		}
		if dir := p.parseDirective(); dir != nil {
			root.Directives = append(root.Directives, dir)
			continue
		}
		root.Declarations = append(root.Declarations, p.parseDeclaration())
	}
	if len(root.Declarations) == 0 {
		raiseSyntaxError(synErrNoDeclaration, p.lastTok.pos)
	}
	return root
}

func (p *parser) parseDirective() *DirectiveNode {
	if !p.consume(tokenKindDirectiveMarker) {
		return nil
	}
	markerPos := p.lastTok.pos
	if !p.consume(tokenKindID) {
		raiseSyntaxError(synErrNoDirectiveName, markerPos)
	}
	dir := &DirectiveNode{
		Name: p.lastTok.text,
		Pos:  markerPos,
	}
	for {
		sym := p.parseSymbol()
		if sym == nil {
			break
		}
		dir.Parameters = append(dir.Parameters, sym)
	}
	if !p.consume(tokenKindSemicolon) {
		raiseSyntaxError(synErrNoSemicolon, p.peekPos())
	}
	return dir
}

func (p *parser) parseDeclaration() *DeclarationNode {
	if !p.consume(tokenKindID) {
		raiseSyntaxError(synErrNoDeclarationName, p.peekPos())
	}
	decl := &DeclarationNode{
		Name: p.lastTok.text,
		Pos:  p.lastTok.pos,
	}
	if decl.Name != DeclNonTerminals && decl.Name != DeclTerminals {
		raiseSyntaxError(synErrUnknownDeclaration, decl.Pos)
	}
	if !p.consume(tokenKindColon) {
		raiseSyntaxError(synErrNoColon, p.peekPos())
	}
	for {
		sym := p.parseSymbol()
		if sym == nil {
			break
		}
		decl.Symbols = append(decl.Symbols, sym)
	}
	if len(decl.Symbols) == 0 {
		raiseSyntaxError(synErrNoSymbol, p.peekPos())
	}
	if !p.consume(tokenKindSemicolon) {
		raiseSyntaxError(synErrNoSemicolon, p.peekPos())
	}
	return decl
}

func (p *parser) parseSymbol() *SymbolNode {
	if p.consume(tokenKindID) || p.consume(tokenKindQuotedSymbol) {
		return &SymbolNode{
			Text: p.lastTok.text,
			Pos:  p.lastTok.pos,
		}
	}
	return nil
}

// peekPos returns the position of the token the parser failed to consume.
func (p *parser) peekPos() Position {
	if p.peekedTok != nil {
		return p.peekedTok.pos
	}
	return Position{}
}

func (p *parser) consume(expected tokenKind) bool {
	var tok *token
	var err error
	if p.peekedTok != nil {
		tok = p.peekedTok
		p.peekedTok = nil
	} else {
		tok, err = p.lex.next()
		if err != nil {
			panic(err)
		}
	}
	p.lastTok = tok
	if tok.kind == tokenKindInvalid {
		raiseSyntaxError(synErrInvalidToken, tok.pos)
	}
	if tok.kind == expected {
		return true
	}
	p.peekedTok = tok
	p.lastTok = nil

	return false
}
