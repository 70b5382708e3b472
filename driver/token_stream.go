package driver

import (
	"fmt"
	"io"
	"strings"
	"sync"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
)

// A label stream is a sequence of labels separated by white spaces, such as `S-> aS$ S-> b$`.
var labelLexEntries = []*mlspec.LexEntry{
	{
		Kind:    mlspec.LexKindName("white_space"),
		Pattern: mlspec.LexPattern(`[\u{0009}\u{000A}\u{000D}\u{0020}]+`),
	},
	{
		Kind:    mlspec.LexKindName("label"),
		Pattern: mlspec.LexPattern(`[^\u{0009}\u{000A}\u{000D}\u{0020}]+`),
	},
}

var (
	labelLexSpec        *mlspec.CompiledLexSpec
	labelLexSpecErr     error
	compileLabelLexOnce sync.Once
)

func loadLabelLexSpec() (*mlspec.CompiledLexSpec, error) {
	compileLabelLexOnce.Do(func() {
		clspec, err, cErrs := mlcompiler.Compile(&mlspec.LexSpec{
			Name:    "terminus_labels",
			Entries: labelLexEntries,
		}, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
		if err != nil {
			if len(cErrs) > 0 {
				var b strings.Builder
				fmt.Fprintf(&b, "%v: %v", cErrs[0].Kind, cErrs[0].Cause)
				for _, cerr := range cErrs[1:] {
					fmt.Fprintf(&b, "\n%v: %v", cerr.Kind, cerr.Cause)
				}
				labelLexSpecErr = fmt.Errorf("cannot compile the label specification: %v", b.String())
				return
			}
			labelLexSpecErr = err
			return
		}
		labelLexSpec = clspec
	})
	return labelLexSpec, labelLexSpecErr
}

type LabelToken struct {
	// LabelID is the column of the label in a transition table. It is -1 when the automaton doesn't know the label.
	LabelID int
	Text    string
	Row     int
	Col     int
	EOF     bool
}

type tokenStream struct {
	lex  *mldriver.Lexer
	spec *mlspec.CompiledLexSpec
	aut  Automaton
}

func NewTokenStream(aut Automaton, src io.Reader) (TokenStream, error) {
	s, err := loadLabelLexSpec()
	if err != nil {
		return nil, err
	}
	lex, err := mldriver.NewLexer(mldriver.NewLexSpec(s), src)
	if err != nil {
		return nil, err
	}

	return &tokenStream{
		lex:  lex,
		spec: s,
		aut:  aut,
	}, nil
}

func (s *tokenStream) Next() (*LabelToken, error) {
	for {
		tok, err := s.lex.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF {
			return &LabelToken{
				LabelID: -1,
				Row:     tok.Row + 1,
				Col:     tok.Col + 1,
				EOF:     true,
			}, nil
		}
		if !tok.Invalid && s.spec.KindNames[tok.KindID].String() == "white_space" {
			continue
		}

		text := string(tok.Lexeme)
		id, ok := s.aut.LabelID(text)
		if !ok {
			id = -1
		}
		return &LabelToken{
			LabelID: id,
			Text:    text,
			Row:     tok.Row + 1,
			Col:     tok.Col + 1,
		}, nil
	}
}
