package symbol

import (
	"fmt"
	"sort"
)

type symbolKind string

const (
	symbolKindNonTerminal = symbolKind("non-terminal")
	symbolKindTerminal    = symbolKind("terminal")
)

func (t symbolKind) String() string {
	return string(t)
}

type SymbolNum uint16

func (n SymbolNum) Int() int {
	return int(n)
}

// Symbol packs a symbol kind, a start/end-marker flag, and a number into 16 bits.
// A start flag only appears on a non-terminal and an end-marker flag only on a terminal.
type Symbol uint16

func (s Symbol) String() string {
	kind, isStart, isEnd, num := s.describe()
	var prefix string
	switch {
	case isStart:
		prefix = "s"
	case isEnd:
		prefix = "e"
	case kind == symbolKindNonTerminal:
		prefix = "n"
	case kind == symbolKindTerminal:
		prefix = "t"
	default:
		prefix = "?"
	}
	return fmt.Sprintf("%v%v", prefix, num)
}

const (
	maskKindPart    = uint16(0x8000) // 1000 0000 0000 0000
	maskNonTerminal = uint16(0x0000) // 0000 0000 0000 0000
	maskTerminal    = uint16(0x8000) // 1000 0000 0000 0000

	maskSubKindpart    = uint16(0x4000) // 0100 0000 0000 0000
	maskNonStartAndEnd = uint16(0x0000) // 0000 0000 0000 0000
	maskStartOrEnd     = uint16(0x4000) // 0100 0000 0000 0000

	maskNumberPart = uint16(0x3fff) // 0011 1111 1111 1111

	SymbolNil = Symbol(0) // 0000 0000 0000 0000

	symbolNumMin = SymbolNum(1)           // The number 0 is used by the nil symbol.
	symbolNumMax = SymbolNum(0xffff) >> 2 // 0011 1111 1111 1111
)

func newSymbol(kind symbolKind, isStartOrEnd bool, num SymbolNum) (Symbol, error) {
	if num < symbolNumMin || num > symbolNumMax {
		return SymbolNil, fmt.Errorf("a symbol number must be between %v and %v; passed: %v", symbolNumMin, symbolNumMax, num)
	}

	kindMask := maskNonTerminal
	if kind == symbolKindTerminal {
		kindMask = maskTerminal
	}
	subKindMask := maskNonStartAndEnd
	if isStartOrEnd {
		subKindMask = maskStartOrEnd
	}
	return Symbol(kindMask | subKindMask | uint16(num)), nil
}

func (s Symbol) Num() SymbolNum {
	_, _, _, num := s.describe()
	return num
}

// Index returns a dense 0-based position of the symbol among the symbols of the same kind.
// The index follows declaration order.
func (s Symbol) Index() int {
	return s.Num().Int() - symbolNumMin.Int()
}

func (s Symbol) IsNil() bool {
	_, _, _, num := s.describe()
	return num == 0
}

func (s Symbol) IsStart() bool {
	if s.IsNil() {
		return false
	}
	_, isStart, _, _ := s.describe()
	return isStart
}

func (s Symbol) IsEndMarker() bool {
	if s.IsNil() {
		return false
	}
	_, _, isEnd, _ := s.describe()
	return isEnd
}

func (s Symbol) IsNonTerminal() bool {
	if s.IsNil() {
		return false
	}
	kind, _, _, _ := s.describe()
	return kind == symbolKindNonTerminal
}

func (s Symbol) IsTerminal() bool {
	if s.IsNil() {
		return false
	}
	return !s.IsNonTerminal()
}

func (s Symbol) describe() (symbolKind, bool, bool, SymbolNum) {
	kind := symbolKindNonTerminal
	if uint16(s)&maskKindPart > 0 {
		kind = symbolKindTerminal
	}
	isStart := false
	isEnd := false
	if uint16(s)&maskSubKindpart > 0 {
		if kind == symbolKindNonTerminal {
			isStart = true
		} else {
			isEnd = true
		}
	}
	num := SymbolNum(uint16(s) & maskNumberPart)
	return kind, isStart, isEnd, num
}

type SymbolTable struct {
	text2Sym     map[string]Symbol
	sym2Text     map[Symbol]string
	nonTermTexts []string
	termTexts    []string
	nonTermNum   SymbolNum
	termNum      SymbolNum
	start        Symbol
	end          Symbol
}

type SymbolTableWriter struct {
	*SymbolTable
}

type SymbolTableReader struct {
	*SymbolTable
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		text2Sym:   map[string]Symbol{},
		sym2Text:   map[Symbol]string{},
		nonTermNum: symbolNumMin,
		termNum:    symbolNumMin,
	}
}

func (t *SymbolTable) Writer() *SymbolTableWriter {
	return &SymbolTableWriter{
		SymbolTable: t,
	}
}

func (t *SymbolTable) Reader() *SymbolTableReader {
	return &SymbolTableReader{
		SymbolTable: t,
	}
}

func (w *SymbolTableWriter) RegisterStartSymbol(text string) (Symbol, error) {
	if !w.start.IsNil() {
		return SymbolNil, fmt.Errorf("a start symbol is already registered: %v", w.sym2Text[w.start])
	}
	sym, err := w.registerNonTerminal(text, true)
	if err != nil {
		return SymbolNil, err
	}
	w.start = sym
	return sym, nil
}

func (w *SymbolTableWriter) RegisterNonTerminalSymbol(text string) (Symbol, error) {
	return w.registerNonTerminal(text, false)
}

func (w *SymbolTableWriter) registerNonTerminal(text string, isStart bool) (Symbol, error) {
	if sym, ok := w.text2Sym[text]; ok {
		if !sym.IsNonTerminal() {
			return SymbolNil, fmt.Errorf("%v is already registered as a terminal symbol", text)
		}
		return sym, nil
	}
	sym, err := newSymbol(symbolKindNonTerminal, isStart, w.nonTermNum)
	if err != nil {
		return SymbolNil, err
	}
	w.nonTermNum++
	w.text2Sym[text] = sym
	w.sym2Text[sym] = text
	w.nonTermTexts = append(w.nonTermTexts, text)
	return sym, nil
}

func (w *SymbolTableWriter) RegisterEndMarker(text string) (Symbol, error) {
	if !w.end.IsNil() {
		return SymbolNil, fmt.Errorf("an end-marker is already registered: %v", w.sym2Text[w.end])
	}
	sym, err := w.registerTerminal(text, true)
	if err != nil {
		return SymbolNil, err
	}
	w.end = sym
	return sym, nil
}

func (w *SymbolTableWriter) RegisterTerminalSymbol(text string) (Symbol, error) {
	return w.registerTerminal(text, false)
}

func (w *SymbolTableWriter) registerTerminal(text string, isEnd bool) (Symbol, error) {
	if sym, ok := w.text2Sym[text]; ok {
		if !sym.IsTerminal() {
			return SymbolNil, fmt.Errorf("%v is already registered as a non-terminal symbol", text)
		}
		return sym, nil
	}
	sym, err := newSymbol(symbolKindTerminal, isEnd, w.termNum)
	if err != nil {
		return SymbolNil, err
	}
	w.termNum++
	w.text2Sym[text] = sym
	w.sym2Text[sym] = text
	w.termTexts = append(w.termTexts, text)
	return sym, nil
}

func (r *SymbolTableReader) ToSymbol(text string) (Symbol, bool) {
	if sym, ok := r.text2Sym[text]; ok {
		return sym, true
	}
	return SymbolNil, false
}

func (r *SymbolTableReader) ToText(sym Symbol) (string, bool) {
	text, ok := r.sym2Text[sym]
	return text, ok
}

func (r *SymbolTableReader) StartSymbol() Symbol {
	return r.start
}

func (r *SymbolTableReader) EndMarker() Symbol {
	return r.end
}

func (r *SymbolTableReader) NonTerminalCount() int {
	return len(r.nonTermTexts)
}

func (r *SymbolTableReader) TerminalCount() int {
	return len(r.termTexts)
}

// NonTerminalSymbols returns non-terminal symbols in declaration order.
func (r *SymbolTableReader) NonTerminalSymbols() []Symbol {
	syms := make([]Symbol, 0, len(r.nonTermTexts))
	for sym := range r.sym2Text {
		if !sym.IsNonTerminal() {
			continue
		}
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i].Num() < syms[j].Num()
	})
	return syms
}

// TerminalSymbols returns terminal symbols in declaration order.
func (r *SymbolTableReader) TerminalSymbols() []Symbol {
	syms := make([]Symbol, 0, len(r.termTexts))
	for sym := range r.sym2Text {
		if !sym.IsTerminal() {
			continue
		}
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i].Num() < syms[j].Num()
	})
	return syms
}

func (r *SymbolTableReader) NonTerminalTexts() ([]string, error) {
	if len(r.nonTermTexts) == 0 {
		return nil, fmt.Errorf("symbol table has no non-terminals")
	}
	return r.nonTermTexts, nil
}

func (r *SymbolTableReader) TerminalTexts() ([]string, error) {
	if len(r.termTexts) == 0 {
		return nil, fmt.Errorf("symbol table has no terminals")
	}
	return r.termTexts, nil
}
