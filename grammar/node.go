package grammar

import (
	"fmt"
	"strings"

	"github.com/nihei9/terminus/grammar/symbol"
)

// Node is a state of the termination automaton: one status per non-terminal plus a context.
// The context is either a rule start (arrow is nil) or the point right after the production
// arrow of a non-terminal. Nodes compare equal iff their grammars, statuses, and contexts are equal,
// so they can be used as map keys. The zero Node belongs to no grammar and is never final.
type Node struct {
	gram *Grammar

	// statuses holds one byte per non-terminal, indexed by symbol.Symbol.Index.
	statuses string
	arrow    symbol.Symbol
}

func newNode(gram *Grammar, statuses []Status, arrow symbol.Symbol) Node {
	b := make([]byte, len(statuses))
	for i, s := range statuses {
		s.validate()
		b[i] = byte(s)
	}
	return Node{
		gram:     gram,
		statuses: string(b),
		arrow:    arrow,
	}
}

func (n Node) Grammar() *Grammar {
	return n.gram
}

func (n Node) Status(nonTerm symbol.Symbol) Status {
	if !nonTerm.IsNonTerminal() {
		panic(fmt.Errorf("a status is defined only for non-terminals: %v", nonTerm))
	}
	return Status(n.statuses[nonTerm.Index()])
}

func (n Node) Statuses() []Status {
	ss := make([]Status, len(n.statuses))
	for i := 0; i < len(n.statuses); i++ {
		ss[i] = Status(n.statuses[i])
	}
	return ss
}

// Arrow returns the non-terminal whose production arrow was just consumed.
// It returns symbol.SymbolNil when the node is at a rule start.
func (n Node) Arrow() symbol.Symbol {
	return n.arrow
}

func (n Node) AtRuleStart() bool {
	return n.arrow.IsNil()
}

// withStatus returns a copy of the node whose non-terminal has the status and whose context is arrow.
func (n Node) withStatus(nonTerm symbol.Symbol, s Status, arrow symbol.Symbol) Node {
	s.validate()
	b := []byte(n.statuses)
	b[nonTerm.Index()] = byte(s)
	return Node{
		gram:     n.gram,
		statuses: string(b),
		arrow:    arrow,
	}
}

// enter advances the status of a non-terminal whose production begins.
func (n Node) enter(nonTerm symbol.Symbol, arrow symbol.Symbol) Node {
	return n.withStatus(nonTerm, n.Status(nonTerm).advance(), arrow)
}

// IsFinal reports whether the node accepts: it is at a rule start, the start symbol terminates,
// and no non-terminal is left in StatusHasToTerminate.
func (n Node) IsFinal() bool {
	if n.gram == nil || !n.AtRuleStart() {
		return false
	}
	if n.Status(n.gram.startSymbol) != StatusTerminates {
		return false
	}
	for i := 0; i < len(n.statuses); i++ {
		if Status(n.statuses[i]) == StatusHasToTerminate {
			return false
		}
	}
	return true
}

func (n Node) String() string {
	if n.gram == nil {
		return "[INVALID]"
	}
	var b strings.Builder
	if n.AtRuleStart() {
		fmt.Fprint(&b, "[START]")
	} else {
		fmt.Fprintf(&b, "[%v->]", n.gram.text(n.arrow))
	}
	for _, sym := range n.gram.nonTerms {
		fmt.Fprintf(&b, "\n%v: %v", n.gram.text(sym), n.Status(sym))
	}
	return b.String()
}

// Summary renders the node on a single line.
func (n Node) Summary() string {
	if n.gram == nil {
		return "INVALID"
	}
	var b strings.Builder
	if n.AtRuleStart() {
		fmt.Fprint(&b, "START")
	} else {
		fmt.Fprintf(&b, "%v->", n.gram.text(n.arrow))
	}
	for _, sym := range n.gram.nonTerms {
		fmt.Fprintf(&b, " %v=%v", n.gram.text(sym), n.Status(sym))
	}
	return b.String()
}
