package grammar

import (
	"fmt"

	"github.com/nihei9/terminus/grammar/symbol"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to terminus.automaton .
func tracer() tracing.Trace {
	return tracing.Select("terminus.automaton")
}

// NodeNum is the discovery number of a node. The initial node is always 0.
type NodeNum int

func (n NodeNum) Int() int {
	return int(n)
}

type Automaton struct {
	gram     *Grammar
	initial  Node
	table    *transitionTable
	nodeNums map[Node]NodeNum
}

// Build explores every node reachable from the initial node of a grammar, in which all
// non-terminals are StatusNotSeen and the context is a rule start.
func Build(gram *Grammar) (*Automaton, error) {
	return BuildFrom(gram.InitialNode())
}

// BuildFrom explores every node reachable from a start node. The start node must be at a rule start.
// Either the whole automaton is returned or an error is.
func BuildFrom(start Node) (*Automaton, error) {
	if start.gram == nil {
		return nil, fmt.Errorf("a start node must belong to a grammar")
	}
	if !start.AtRuleStart() {
		return nil, fmt.Errorf("a start node must be at a rule start: %v", start.Summary())
	}

	b := newAutomatonBuilder(start.gram)
	b.visitRuleStart(start)

	nodeNums := make(map[Node]NodeNum, len(b.table.nodes))
	for i, n := range b.table.nodes {
		nodeNums[n] = NodeNum(i)
	}
	a := &Automaton{
		gram:     start.gram,
		initial:  start,
		table:    b.table,
		nodeNums: nodeNums,
	}

	err := a.Verify()
	if err != nil {
		return nil, err
	}

	tracer().P("grammar", start.gram.name).Infof("automaton built: %v nodes, %v final", len(a.table.nodes), len(a.FinalNodes()))

	return a, nil
}

type automatonBuilder struct {
	gram    *Grammar
	table   *transitionTable
	visited map[Node]bool

	// contTerms are the terminals that can be followed by a non-terminal; that is, all but the end-marker.
	contTerms []symbol.Symbol
}

func newAutomatonBuilder(gram *Grammar) *automatonBuilder {
	var contTerms []symbol.Symbol
	for _, term := range gram.terms {
		if term.IsEndMarker() {
			continue
		}
		contTerms = append(contTerms, term)
	}
	return &automatonBuilder{
		gram:      gram,
		table:     newTransitionTable(),
		visited:   map[Node]bool{},
		contTerms: contTerms,
	}
}

// visit marks a node as visited and registers it in the transition table.
// It returns false when the node was visited already.
func (b *automatonBuilder) visit(n Node) bool {
	if b.visited[n] {
		return false
	}
	b.visited[n] = true
	b.table.addNode(n)
	tracer().Debugf("node #%v: %v", len(b.table.nodes)-1, n.Summary())
	return true
}

// visitRuleStart expands a node at a rule start by consuming the production arrow of each non-terminal.
func (b *automatonBuilder) visitRuleStart(n Node) {
	if !n.AtRuleStart() {
		panic(fmt.Errorf("a node after an arrow was passed as a rule start: %v", n.Summary()))
	}
	if !b.visit(n) {
		return
	}

	for _, nonTerm := range b.gram.nonTerms {
		after := n.enter(nonTerm, nonTerm)
		b.table.addEdge(n, newArrowEdge(b.gram, after, nonTerm))
		b.visitAfterArrow(after)
	}
}

// visitAfterArrow expands a node right after the production arrow of X. A production either continues
// with a terminal and a non-terminal Y, entering Y, or ends with a terminal, which makes X terminate.
func (b *automatonBuilder) visitAfterArrow(n Node) {
	if n.AtRuleStart() {
		panic(fmt.Errorf("a node at a rule start was passed as an after-arrow node: %v", n.Summary()))
	}
	if !b.visit(n) {
		return
	}

	for _, nonTerm := range b.gram.nonTerms {
		cont := n.enter(nonTerm, symbol.SymbolNil)
		for _, term := range b.contTerms {
			b.table.addEdge(n, newContinueEdge(b.gram, cont, term, nonTerm))
			b.visitRuleStart(cont)
		}
	}

	fin := n.withStatus(n.arrow, StatusTerminates, symbol.SymbolNil)
	for _, term := range b.gram.terms {
		b.table.addEdge(n, newCompleteEdge(b.gram, fin, term))
		b.visitRuleStart(fin)
	}
}

func (a *Automaton) Grammar() *Grammar {
	return a.gram
}

func (a *Automaton) InitialNode() Node {
	return a.initial
}

// Nodes returns all nodes in discovery order.
func (a *Automaton) Nodes() []Node {
	ns := make([]Node, len(a.table.nodes))
	copy(ns, a.table.nodes)
	return ns
}

func (a *Automaton) NodeCount() int {
	return len(a.table.nodes)
}

func (a *Automaton) Num(n Node) (NodeNum, bool) {
	num, ok := a.nodeNums[n]
	return num, ok
}

func (a *Automaton) Node(num NodeNum) (Node, bool) {
	if num < 0 || num.Int() >= len(a.table.nodes) {
		return Node{}, false
	}
	return a.table.nodes[num], true
}

// Edges returns the outgoing edges of a node in a deterministic order.
func (a *Automaton) Edges(n Node) []Edge {
	return a.table.edgesFrom(n)
}

func (a *Automaton) IsFinal(n Node) bool {
	return n.IsFinal()
}

func (a *Automaton) FinalNodes() []Node {
	var ns []Node
	for _, n := range a.table.nodes {
		if n.IsFinal() {
			ns = append(ns, n)
		}
	}
	return ns
}
