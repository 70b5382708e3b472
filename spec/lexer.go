package spec

import (
	"fmt"
	"io"
	"strings"
	"sync"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
	verr "github.com/nihei9/terminus/error"
)

type tokenKind string

const (
	tokenKindID              = tokenKind("id")
	tokenKindQuotedSymbol    = tokenKind("quoted symbol")
	tokenKindColon           = tokenKind(":")
	tokenKindSemicolon       = tokenKind(";")
	tokenKindDirectiveMarker = tokenKind("#")
	tokenKindEOF             = tokenKind("eof")
	tokenKindInvalid         = tokenKind("invalid")
)

type Position struct {
	Row int
	Col int
}

func newPosition(row, col int) Position {
	return Position{
		Row: row,
		Col: col,
	}
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

func newQuotedSymbolToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindQuotedSymbol,
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

// lexEntries is the lexical specification of an alphabet description.
// A quoted symbol allows names that are not identifiers, such as `'Æ'` or `'$'`.
var lexEntries = []*mlspec.LexEntry{
	{
		Kind:    mlspec.LexKindName("white_space"),
		Pattern: mlspec.LexPattern(`[\u{0009}\u{0020}]+`),
	},
	{
		Kind:    mlspec.LexKindName("newline"),
		Pattern: mlspec.LexPattern(`\u{000A}|\u{000D}|\u{000D}\u{000A}`),
	},
	{
		Kind:    mlspec.LexKindName("line_comment"),
		Pattern: mlspec.LexPattern(`//[^\u{000A}\u{000D}]*`),
	},
	{
		Kind:    mlspec.LexKindName("identifier"),
		Pattern: mlspec.LexPattern(`[0-9A-Z_a-z]+`),
	},
	{
		Kind:    mlspec.LexKindName("quoted_symbol"),
		Pattern: mlspec.LexPattern(`'[^'\u{000A}\u{000D}]*'`),
	},
	{
		Kind:    mlspec.LexKindName("colon"),
		Pattern: mlspec.LexPattern(`:`),
	},
	{
		Kind:    mlspec.LexKindName("semicolon"),
		Pattern: mlspec.LexPattern(`;`),
	},
	{
		Kind:    mlspec.LexKindName("directive_marker"),
		Pattern: mlspec.LexPattern(`#`),
	},
}

var (
	compiledLexSpec    *mlspec.CompiledLexSpec
	compiledLexSpecErr error
	compileLexSpecOnce sync.Once
)

// loadLexSpec compiles the lexical specification once per process.
func loadLexSpec() (*mlspec.CompiledLexSpec, error) {
	compileLexSpecOnce.Do(func() {
		clspec, err, cErrs := mlcompiler.Compile(&mlspec.LexSpec{
			Name:    "terminus_alphabet",
			Entries: lexEntries,
		}, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
		if err != nil {
			if len(cErrs) > 0 {
				var b strings.Builder
				fmt.Fprintf(&b, "%v: %v", cErrs[0].Kind, cErrs[0].Cause)
				for _, cerr := range cErrs[1:] {
					fmt.Fprintf(&b, "\n%v: %v", cerr.Kind, cerr.Cause)
				}
				compiledLexSpecErr = fmt.Errorf("cannot compile the lexical specification: %v", b.String())
				return
			}
			compiledLexSpecErr = err
			return
		}
		compiledLexSpec = clspec
	})
	return compiledLexSpec, compiledLexSpecErr
}

type lexer struct {
	s *mlspec.CompiledLexSpec
	d *mldriver.Lexer
}

func newLexer(src io.Reader) (*lexer, error) {
	s, err := loadLexSpec()
	if err != nil {
		return nil, err
	}
	d, err := mldriver.NewLexer(mldriver.NewLexSpec(s), src)
	if err != nil {
		return nil, err
	}
	return &lexer{
		s: s,
		d: d,
	}, nil
}

func (l *lexer) next() (*token, error) {
	var tok *mldriver.Token
	var kind string
	for {
		var err error
		tok, err = l.d.Next()
		if err != nil {
			return nil, err
		}
		if tok.Invalid {
			return newInvalidToken(string(tok.Lexeme), newPosition(tok.Row+1, tok.Col+1)), nil
		}
		if tok.EOF {
			return newEOFToken(newPosition(tok.Row+1, tok.Col+1)), nil
		}
		kind = l.s.KindNames[tok.KindID].String()
		switch kind {
		case "white_space", "newline", "line_comment":
			continue
		}

		break
	}

	pos := newPosition(tok.Row+1, tok.Col+1)
	text := string(tok.Lexeme)
	switch kind {
	case "identifier":
		return newIDToken(text, pos), nil
	case "quoted_symbol":
		// Remove the enclosing quotes.
		sym := text[1 : len(text)-1]
		if sym == "" {
			return nil, &verr.SpecError{
				Cause: synErrEmptyQuotedSymbol,
				Row:   pos.Row,
				Col:   pos.Col,
			}
		}
		return newQuotedSymbolToken(sym, pos), nil
	case "colon":
		return newSymbolToken(tokenKindColon, pos), nil
	case "semicolon":
		return newSymbolToken(tokenKindSemicolon, pos), nil
	case "directive_marker":
		return newSymbolToken(tokenKindDirectiveMarker, pos), nil
	default:
		return newInvalidToken(text, pos), nil
	}
}
