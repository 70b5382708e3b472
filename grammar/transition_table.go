package grammar

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/nihei9/terminus/grammar/symbol"
)

type edgeKind int

const (
	// edgeKindArrow consumes the production arrow of a non-terminal: `X->`.
	edgeKindArrow edgeKind = iota + 1

	// edgeKindContinue consumes a terminal followed by a non-terminal: `cY$`.
	edgeKindContinue

	// edgeKindComplete consumes a terminal that ends the production: `c$`.
	edgeKindComplete
)

type Edge struct {
	Target Node
	Label  string

	kind        edgeKind
	terminal    symbol.Symbol
	nonTerminal symbol.Symbol
}

func arrowLabel(nonTerm string) string {
	return fmt.Sprintf("%v->", nonTerm)
}

func continueLabel(term, nonTerm string) string {
	return fmt.Sprintf("%v%v$", term, nonTerm)
}

func completeLabel(term string) string {
	return fmt.Sprintf("%v$", term)
}

func newArrowEdge(gram *Grammar, target Node, nonTerm symbol.Symbol) Edge {
	return Edge{
		Target:      target,
		Label:       arrowLabel(gram.text(nonTerm)),
		kind:        edgeKindArrow,
		nonTerminal: nonTerm,
	}
}

func newContinueEdge(gram *Grammar, target Node, term, nonTerm symbol.Symbol) Edge {
	return Edge{
		Target:      target,
		Label:       continueLabel(gram.text(term), gram.text(nonTerm)),
		kind:        edgeKindContinue,
		terminal:    term,
		nonTerminal: nonTerm,
	}
}

func newCompleteEdge(gram *Grammar, target Node, term symbol.Symbol) Edge {
	return Edge{
		Target:   target,
		Label:    completeLabel(gram.text(term)),
		kind:     edgeKindComplete,
		terminal: term,
	}
}

// compareEdges orders edges by kind, consumed symbols, and then target. Two edges compare
// equal only when they consume the same symbols and reach the same node.
func compareEdges(a, b interface{}) int {
	e1 := a.(Edge)
	e2 := b.(Edge)
	switch {
	case e1.kind != e2.kind:
		return int(e1.kind) - int(e2.kind)
	case e1.terminal != e2.terminal:
		return int(e1.terminal.Num()) - int(e2.terminal.Num())
	case e1.nonTerminal != e2.nonTerminal:
		return int(e1.nonTerminal.Num()) - int(e2.nonTerminal.Num())
	case e1.Target.arrow != e2.Target.arrow:
		return int(e1.Target.arrow.Num()) - int(e2.Target.arrow.Num())
	}
	return strings.Compare(e1.Target.statuses, e2.Target.statuses)
}

// transitionTable maps each discovered node to its outgoing edges.
// Nodes keep their discovery order.
type transitionTable struct {
	edges map[Node]*treeset.Set
	nodes []Node
}

func newTransitionTable() *transitionTable {
	return &transitionTable{
		edges: map[Node]*treeset.Set{},
	}
}

// addNode registers a node with an empty edge set. It returns false when the node is already known.
func (t *transitionTable) addNode(n Node) bool {
	if _, ok := t.edges[n]; ok {
		return false
	}
	t.edges[n] = treeset.NewWith(compareEdges)
	t.nodes = append(t.nodes, n)
	return true
}

func (t *transitionTable) addEdge(from Node, e Edge) {
	t.addNode(from)
	t.edges[from].Add(e)
}

func (t *transitionTable) has(n Node) bool {
	_, ok := t.edges[n]
	return ok
}

func (t *transitionTable) edgesFrom(n Node) []Edge {
	set, ok := t.edges[n]
	if !ok {
		return nil
	}
	es := make([]Edge, 0, set.Size())
	for _, v := range set.Values() {
		es = append(es, v.(Edge))
	}
	return es
}
