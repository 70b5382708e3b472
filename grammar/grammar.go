package grammar

import (
	"fmt"

	"github.com/nihei9/terminus/compressor"
	verr "github.com/nihei9/terminus/error"
	"github.com/nihei9/terminus/grammar/symbol"
	"github.com/nihei9/terminus/spec"
	"github.com/nihei9/terminus/spec/automaton"
)

// Grammar is the alphabet of a right-linear grammar. Every production derives either a terminal
// or a terminal followed by a non-terminal, so the alphabet alone determines the automaton.
type Grammar struct {
	name        string
	symbolTable *symbol.SymbolTableReader
	nonTerms    []symbol.Symbol
	terms       []symbol.Symbol
	startSymbol symbol.Symbol
	endMarker   symbol.Symbol
}

// NewGrammar makes a grammar from symbol names. The start symbol must be one of nonTerms and
// the end-marker one of terms. An empty start symbol selects the first non-terminal.
func NewGrammar(name string, nonTerms []string, terms []string, start string, end string) (*Grammar, error) {
	b := &alphabetBuilder{
		name:  name,
		start: start,
		end:   end,
	}
	for _, t := range nonTerms {
		b.nonTerms = append(b.nonTerms, &spec.SymbolNode{Text: t})
	}
	for _, t := range terms {
		b.terms = append(b.terms, &spec.SymbolNode{Text: t})
	}
	gram, errs := b.build()
	if len(errs) > 0 {
		return nil, errs
	}
	return gram, nil
}

func (g *Grammar) Name() string {
	return g.name
}

func (g *Grammar) SymbolTable() *symbol.SymbolTableReader {
	return g.symbolTable
}

func (g *Grammar) NonTerminals() []symbol.Symbol {
	return append([]symbol.Symbol{}, g.nonTerms...)
}

func (g *Grammar) Terminals() []symbol.Symbol {
	return append([]symbol.Symbol{}, g.terms...)
}

func (g *Grammar) StartSymbol() symbol.Symbol {
	return g.startSymbol
}

func (g *Grammar) EndMarker() symbol.Symbol {
	return g.endMarker
}

// InitialNode returns the node in which every non-terminal is StatusNotSeen and the context is a rule start.
func (g *Grammar) InitialNode() Node {
	statuses := make([]Status, len(g.nonTerms))
	for i := range statuses {
		statuses[i] = StatusNotSeen
	}
	return newNode(g, statuses, symbol.SymbolNil)
}

// NewNode makes a node of the grammar. arrow is symbol.SymbolNil for a rule-start node.
func (g *Grammar) NewNode(statuses []Status, arrow symbol.Symbol) (Node, error) {
	if len(statuses) != len(g.nonTerms) {
		return Node{}, fmt.Errorf("a node needs %v statuses; got: %v", len(g.nonTerms), len(statuses))
	}
	for _, s := range statuses {
		if s < StatusNotSeen || s > StatusTerminates {
			return Node{}, fmt.Errorf("invalid status: %d", uint8(s))
		}
	}
	if !arrow.IsNil() {
		if _, ok := g.symbolTable.ToText(arrow); !ok || !arrow.IsNonTerminal() {
			return Node{}, fmt.Errorf("an arrow must be a non-terminal of the grammar: %v", arrow)
		}
	}
	return newNode(g, statuses, arrow), nil
}

func (g *Grammar) text(sym symbol.Symbol) string {
	text, ok := g.symbolTable.ToText(sym)
	if !ok {
		return sym.String()
	}
	return text
}

type GrammarBuilder struct {
	AST *spec.RootNode

	errs verr.SpecErrors
}

func (b *GrammarBuilder) Build() (*Grammar, error) {
	ab := &alphabetBuilder{}
	b.readDirectives(ab)
	for _, decl := range b.AST.Declarations {
		switch decl.Name {
		case spec.DeclNonTerminals:
			ab.nonTerms = append(ab.nonTerms, decl.Symbols...)
		case spec.DeclTerminals:
			ab.terms = append(ab.terms, decl.Symbols...)
		default:
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrUnknownDeclaration,
				Detail: decl.Name,
				Row:    decl.Pos.Row,
				Col:    decl.Pos.Col,
			})
		}
	}
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	gram, errs := ab.build()
	if len(errs) > 0 {
		b.errs = append(b.errs, errs...)
		return nil, b.errs
	}
	return gram, nil
}

func (b *GrammarBuilder) readDirectives(ab *alphabetBuilder) {
	seen := map[string]struct{}{}
	for _, dir := range b.AST.Directives {
		if _, ok := seen[dir.Name]; ok {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDuplicateDir,
				Detail: dir.Name,
				Row:    dir.Pos.Row,
				Col:    dir.Pos.Col,
			})
			continue
		}
		seen[dir.Name] = struct{}{}

		var dst *string
		var dstPos *spec.Position
		switch dir.Name {
		case "name":
			dst = &ab.name
		case "start":
			dst = &ab.start
			dstPos = &ab.startPos
		case "end":
			dst = &ab.end
			dstPos = &ab.endPos
		default:
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDirInvalidName,
				Detail: dir.Name,
				Row:    dir.Pos.Row,
				Col:    dir.Pos.Col,
			})
			continue
		}

		if len(dir.Parameters) != 1 {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDirInvalidParam,
				Detail: fmt.Sprintf("'%v' takes just one parameter", dir.Name),
				Row:    dir.Pos.Row,
				Col:    dir.Pos.Col,
			})
			continue
		}
		*dst = dir.Parameters[0].Text
		if dstPos != nil {
			*dstPos = dir.Parameters[0].Pos
		}
	}
	if ab.name == "" {
		if _, ok := seen["name"]; !ok {
			b.errs = append(b.errs, &verr.SpecError{
				Cause: semErrNoName,
			})
		}
	}
}

// alphabetBuilder validates an alphabet and registers it to a symbol table.
type alphabetBuilder struct {
	name     string
	nonTerms []*spec.SymbolNode
	terms    []*spec.SymbolNode
	start    string
	startPos spec.Position
	end      string
	endPos   spec.Position
}

func (b *alphabetBuilder) build() (*Grammar, verr.SpecErrors) {
	var errs verr.SpecErrors
	specErr := func(cause error, detail string, pos spec.Position) {
		errs = append(errs, &verr.SpecError{
			Cause:  cause,
			Detail: detail,
			Row:    pos.Row,
			Col:    pos.Col,
		})
	}

	if b.name == "" {
		specErr(semErrNoName, "", spec.Position{})
	}
	if len(b.nonTerms) == 0 {
		specErr(semErrNoNonTerminal, "", spec.Position{})
	}
	if len(b.terms) == 0 {
		specErr(semErrNoTerminal, "", spec.Position{})
	}
	if b.end == "" {
		specErr(semErrNoEndMarker, "", spec.Position{})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	start := b.start
	if start == "" {
		start = b.nonTerms[0].Text
	}

	kinds := map[string]string{}
	for _, sym := range b.nonTerms {
		if k, ok := kinds[sym.Text]; ok {
			if k == spec.DeclNonTerminals {
				specErr(semErrDuplicateNonTerminal, sym.Text, sym.Pos)
			} else {
				specErr(semErrDuplicateName, sym.Text, sym.Pos)
			}
			continue
		}
		kinds[sym.Text] = spec.DeclNonTerminals
	}
	for _, sym := range b.terms {
		if k, ok := kinds[sym.Text]; ok {
			if k == spec.DeclTerminals {
				specErr(semErrDuplicateTerminal, sym.Text, sym.Pos)
			} else {
				specErr(semErrDuplicateName, sym.Text, sym.Pos)
			}
			continue
		}
		kinds[sym.Text] = spec.DeclTerminals
	}
	if k := kinds[start]; k != spec.DeclNonTerminals {
		specErr(semErrUndefinedStartSym, start, b.startPos)
	}
	if k := kinds[b.end]; k != spec.DeclTerminals {
		specErr(semErrUndefinedEndMarker, b.end, b.endPos)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	// A label stream is matched by text, so two edges must never render the same label.
	labels := map[string]struct{}{}
	addLabel := func(label string, pos spec.Position) {
		if _, ok := labels[label]; ok {
			specErr(semErrDuplicateLabel, label, pos)
			return
		}
		labels[label] = struct{}{}
	}
	for _, nonTerm := range b.nonTerms {
		addLabel(arrowLabel(nonTerm.Text), nonTerm.Pos)
	}
	for _, nonTerm := range b.nonTerms {
		for _, term := range b.terms {
			if term.Text == b.end {
				continue
			}
			addLabel(continueLabel(term.Text, nonTerm.Text), term.Pos)
		}
	}
	for _, term := range b.terms {
		addLabel(completeLabel(term.Text), term.Pos)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	symTab := symbol.NewSymbolTable()
	w := symTab.Writer()
	for _, sym := range b.nonTerms {
		var err error
		if sym.Text == start {
			_, err = w.RegisterStartSymbol(sym.Text)
		} else {
			_, err = w.RegisterNonTerminalSymbol(sym.Text)
		}
		if err != nil {
			specErr(err, "", sym.Pos)
		}
	}
	for _, sym := range b.terms {
		var err error
		if sym.Text == b.end {
			_, err = w.RegisterEndMarker(sym.Text)
		} else {
			_, err = w.RegisterTerminalSymbol(sym.Text)
		}
		if err != nil {
			specErr(err, "", sym.Pos)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	r := symTab.Reader()
	return &Grammar{
		name:        b.name,
		symbolTable: r,
		nonTerms:    r.NonTerminalSymbols(),
		terms:       r.TerminalSymbols(),
		startSymbol: r.StartSymbol(),
		endMarker:   r.EndMarker(),
	}, nil
}

const (
	CompressionLevelMin = 0
	CompressionLevelMax = 2
)

type compileConfig struct {
	isReportingEnabled bool
	compLv             int
}

type CompileOption func(config *compileConfig)

func EnableReporting() CompileOption {
	return func(config *compileConfig) {
		config.isReportingEnabled = true
	}
}

func CompressionLevel(lv int) CompileOption {
	return func(config *compileConfig) {
		config.compLv = lv
	}
}

// Compile builds the automaton of a grammar and encodes it as a transition table whose rows are states
// and whose columns are labels. State IDs are node numbers plus automaton.StateIDMin.
func Compile(gram *Grammar, opts ...CompileOption) (*automaton.CompiledAutomaton, *automaton.Report, error) {
	config := &compileConfig{
		compLv: CompressionLevelMax,
	}
	for _, opt := range opts {
		opt(config)
	}
	if config.compLv < CompressionLevelMin || config.compLv > CompressionLevelMax {
		return nil, nil, fmt.Errorf("compression level must be %v..%v; got: %v", CompressionLevelMin, CompressionLevelMax, config.compLv)
	}

	a, err := Build(gram)
	if err != nil {
		return nil, nil, err
	}

	cols := newLabelColumns(gram)
	rowCount := a.NodeCount() + automaton.StateIDMin.Int()
	colCount := len(cols.labels)
	tran := make([]automaton.StateID, rowCount*colCount)
	accepting := make([]bool, rowCount)
	for i, n := range a.table.nodes {
		state := stateID(NodeNum(i))
		accepting[state] = n.IsFinal()
		for _, e := range a.Edges(n) {
			col, ok := cols.lookup(e)
			if !ok {
				return nil, nil, fmt.Errorf("a label column was not found: %v", e.Label)
			}
			target, ok := a.Num(e.Target)
			if !ok {
				return nil, nil, fmt.Errorf("a target node was not found: %v", e.Target.Summary())
			}
			tran[state.Int()*colCount+col] = stateID(target)
		}
	}

	tranTab := &automaton.TransitionTable{
		InitialStateID:         stateID(0),
		AcceptingStates:        accepting,
		Labels:                 cols.labels,
		RowCount:               rowCount,
		ColCount:               colCount,
		CompressionLevel:       config.compLv,
		UncompressedTransition: tran,
	}
	switch config.compLv {
	case 2:
		tranTab, err = compressTransitionTableLv2(tranTab)
	case 1:
		tranTab, err = compressTransitionTableLv1(tranTab)
	}
	if err != nil {
		return nil, nil, err
	}

	nonTermTexts, err := gram.symbolTable.NonTerminalTexts()
	if err != nil {
		return nil, nil, err
	}
	termTexts, err := gram.symbolTable.TerminalTexts()
	if err != nil {
		return nil, nil, err
	}

	var report *automaton.Report
	if config.isReportingEnabled {
		report = genReport(a, nonTermTexts, termTexts)
	}

	return &automaton.CompiledAutomaton{
		Name:         gram.name,
		NonTerminals: nonTermTexts,
		Terminals:    termTexts,
		StartSymbol:  gram.startSymbol.Index(),
		EndMarker:    gram.endMarker.Index(),
		Transition:   tranTab,
	}, report, nil
}

func stateID(num NodeNum) automaton.StateID {
	return automaton.StateID(num.Int() + automaton.StateIDMin.Int())
}

type labelColumnKey struct {
	kind        edgeKind
	terminal    symbol.Symbol
	nonTerminal symbol.Symbol
}

// labelColumns numbers every label a grammar can produce: arrows, continuations, and then completions.
type labelColumns struct {
	labels  []string
	key2Col map[labelColumnKey]int
}

func newLabelColumns(gram *Grammar) *labelColumns {
	cols := &labelColumns{
		key2Col: map[labelColumnKey]int{},
	}
	add := func(e Edge) {
		cols.key2Col[labelColumnKey{
			kind:        e.kind,
			terminal:    e.terminal,
			nonTerminal: e.nonTerminal,
		}] = len(cols.labels)
		cols.labels = append(cols.labels, e.Label)
	}
	for _, nonTerm := range gram.nonTerms {
		add(newArrowEdge(gram, Node{}, nonTerm))
	}
	for _, nonTerm := range gram.nonTerms {
		for _, term := range gram.terms {
			if term.IsEndMarker() {
				continue
			}
			add(newContinueEdge(gram, Node{}, term, nonTerm))
		}
	}
	for _, term := range gram.terms {
		add(newCompleteEdge(gram, Node{}, term))
	}
	return cols
}

func (c *labelColumns) lookup(e Edge) (int, bool) {
	col, ok := c.key2Col[labelColumnKey{
		kind:        e.kind,
		terminal:    e.terminal,
		nonTerminal: e.nonTerminal,
	}]
	return col, ok
}

func compressTransitionTableLv2(tranTab *automaton.TransitionTable) (*automaton.TransitionTable, error) {
	ueTab := compressor.NewUniqueEntriesTable()
	{
		m, err := compressor.NewMatrix(convertStateIDSliceToIntSlice(tranTab.UncompressedTransition), tranTab.ColCount)
		if err != nil {
			return nil, err
		}
		err = ueTab.Compress(m)
		if err != nil {
			return nil, err
		}
	}

	rdTab := compressor.NewRowDisplacementTable(automaton.StateIDNil.Int())
	{
		m, err := compressor.NewMatrix(ueTab.UniqueEntries, ueTab.OriginalColCount)
		if err != nil {
			return nil, err
		}
		err = rdTab.Compress(m)
		if err != nil {
			return nil, err
		}
	}

	tranTab.Transition = &automaton.UniqueEntriesTable{
		UniqueEntries: &automaton.RowDisplacementTable{
			OriginalRowCount: rdTab.OriginalRowCount,
			OriginalColCount: rdTab.OriginalColCount,
			EmptyValue:       automaton.StateIDNil,
			Entries:          convertIntSliceToStateIDSlice(rdTab.Entries),
			Bounds:           rdTab.Bounds,
			RowDisplacement:  rdTab.RowDisplacement,
		},
		RowNums:          ueTab.RowNums,
		OriginalRowCount: ueTab.OriginalRowCount,
		OriginalColCount: ueTab.OriginalColCount,
	}
	tranTab.UncompressedTransition = nil

	return tranTab, nil
}

func compressTransitionTableLv1(tranTab *automaton.TransitionTable) (*automaton.TransitionTable, error) {
	ueTab := compressor.NewUniqueEntriesTable()
	{
		m, err := compressor.NewMatrix(convertStateIDSliceToIntSlice(tranTab.UncompressedTransition), tranTab.ColCount)
		if err != nil {
			return nil, err
		}
		err = ueTab.Compress(m)
		if err != nil {
			return nil, err
		}
	}

	tranTab.Transition = &automaton.UniqueEntriesTable{
		UncompressedUniqueEntries: convertIntSliceToStateIDSlice(ueTab.UniqueEntries),
		RowNums:                   ueTab.RowNums,
		OriginalRowCount:          ueTab.OriginalRowCount,
		OriginalColCount:          ueTab.OriginalColCount,
	}
	tranTab.UncompressedTransition = nil

	return tranTab, nil
}

func convertStateIDSliceToIntSlice(s []automaton.StateID) []int {
	is := make([]int, len(s))
	for i, v := range s {
		is[i] = v.Int()
	}
	return is
}

func convertIntSliceToStateIDSlice(s []int) []automaton.StateID {
	ss := make([]automaton.StateID, len(s))
	for i, v := range s {
		ss[i] = automaton.StateID(v)
	}
	return ss
}

func genReport(a *Automaton, nonTermTexts, termTexts []string) *automaton.Report {
	gram := a.gram
	states := make([]*automaton.State, 0, a.NodeCount())
	for i, n := range a.table.nodes {
		var arrow string
		if !n.AtRuleStart() {
			arrow = gram.text(n.Arrow())
		}
		statuses := make([]string, 0, len(gram.nonTerms))
		for _, s := range n.Statuses() {
			statuses = append(statuses, s.String())
		}
		es := a.Edges(n)
		trans := make([]*automaton.Transition, 0, len(es))
		for _, e := range es {
			target, _ := a.Num(e.Target)
			trans = append(trans, &automaton.Transition{
				Label: e.Label,
				State: stateID(target).Int(),
			})
		}
		states = append(states, &automaton.State{
			Number:      stateID(NodeNum(i)).Int(),
			Arrow:       arrow,
			Statuses:    statuses,
			Final:       n.IsFinal(),
			Transitions: trans,
		})
	}

	return &automaton.Report{
		Name:         gram.name,
		NonTerminals: nonTermTexts,
		Terminals:    termTexts,
		StartSymbol:  gram.text(gram.startSymbol),
		EndMarker:    gram.text(gram.endMarker),
		States:       states,
	}
}
