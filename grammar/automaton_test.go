package grammar

import (
	"math"
	"strings"
	"testing"

	"github.com/nihei9/terminus/grammar/symbol"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/testconfig"
	"github.com/npillmayer/schuko/tracing"
)

func newTestGrammar(t *testing.T, nonTerms, terms []string, end string) *Grammar {
	t.Helper()
	gram, err := NewGrammar("test", nonTerms, terms, "", end)
	if err != nil {
		t.Fatal(err)
	}
	return gram
}

func mustSymbol(t *testing.T, gram *Grammar, text string) symbol.Symbol {
	t.Helper()
	sym, ok := gram.SymbolTable().ToSymbol(text)
	if !ok {
		t.Fatalf("symbol not found: %v", text)
	}
	return sym
}

func mustNode(t *testing.T, gram *Grammar, statuses []Status, arrow string) Node {
	t.Helper()
	arrowSym := symbol.SymbolNil
	if arrow != "" {
		arrowSym = mustSymbol(t, gram, arrow)
	}
	n, err := gram.NewNode(statuses, arrowSym)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestBuild_SingleNonTerminal(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)

	gram := newTestGrammar(t, []string{"S"}, []string{"a", "end"}, "end")
	a, err := Build(gram)
	if err != nil {
		t.Fatal(err)
	}

	initial := mustNode(t, gram, []Status{StatusNotSeen}, "")
	seenAfterS := mustNode(t, gram, []Status{StatusHasToTerminate}, "S")
	seenStart := mustNode(t, gram, []Status{StatusHasToTerminate}, "")
	termStart := mustNode(t, gram, []Status{StatusTerminates}, "")
	termAfterS := mustNode(t, gram, []Status{StatusTerminates}, "S")

	expectedNodes := []Node{initial, seenAfterS, seenStart, termStart, termAfterS}
	nodes := a.Nodes()
	if len(nodes) != len(expectedNodes) {
		t.Fatalf("unexpected node count; want: %v, got: %v", len(expectedNodes), len(nodes))
	}
	for i, n := range expectedNodes {
		if nodes[i] != n {
			t.Fatalf("unexpected node #%v; want: %v, got: %v", i, n.Summary(), nodes[i].Summary())
		}
		num, ok := a.Num(n)
		if !ok || num != NodeNum(i) {
			t.Fatalf("unexpected node number of %v; want: %v, got: %v", n.Summary(), i, num)
		}
	}
	if a.InitialNode() != initial {
		t.Fatalf("unexpected initial node: %v", a.InitialNode().Summary())
	}

	type edge struct {
		label  string
		target Node
	}
	expectedEdges := map[Node][]edge{
		initial: {
			{label: "S->", target: seenAfterS},
		},
		seenAfterS: {
			{label: "aS$", target: seenStart},
			{label: "a$", target: termStart},
			{label: "end$", target: termStart},
		},
		seenStart: {
			{label: "S->", target: seenAfterS},
		},
		termStart: {
			{label: "S->", target: termAfterS},
		},
		termAfterS: {
			{label: "aS$", target: termStart},
			{label: "a$", target: termStart},
			{label: "end$", target: termStart},
		},
	}
	for from, expected := range expectedEdges {
		es := a.Edges(from)
		if len(es) != len(expected) {
			t.Fatalf("unexpected edge count of %v; want: %v, got: %v", from.Summary(), len(expected), len(es))
		}
		for i, e := range expected {
			if es[i].Label != e.label || es[i].Target != e.target {
				t.Fatalf("unexpected edge #%v of %v; want: %v -> %v, got: %v -> %v", i, from.Summary(), e.label, e.target.Summary(), es[i].Label, es[i].Target.Summary())
			}
		}
	}

	finals := a.FinalNodes()
	if len(finals) != 1 || finals[0] != termStart {
		t.Fatalf("unexpected final nodes: %v", finals)
	}
	if seenStart.IsFinal() || termAfterS.IsFinal() {
		t.Fatal("a non-final node was reported as final")
	}
}

func TestBuild_EndMarkerOnly(t *testing.T) {
	gram := newTestGrammar(t, []string{"S"}, []string{"eof"}, "eof")
	a, err := Build(gram)
	if err != nil {
		t.Fatal(err)
	}
	if a.NodeCount() != 4 {
		t.Fatalf("unexpected node count; want: 4, got: %v", a.NodeCount())
	}
	for _, n := range a.Nodes() {
		if n.AtRuleStart() {
			continue
		}
		es := a.Edges(n)
		if len(es) != 1 || es[0].Label != "eof$" {
			t.Fatalf("an after-arrow node must have just an end-marker completion: %v", es)
		}
	}
}

func TestBuild_ThreeNonTerminals(t *testing.T) {
	gram := newTestGrammar(t, []string{"S", "A", "B"}, []string{"a", "b", "eof"}, "eof")
	a, err := Build(gram)
	if err != nil {
		t.Fatal(err)
	}

	nonTermCount := 3
	termCount := 3
	bound := int(math.Pow(3, float64(nonTermCount))) * (nonTermCount + 1)
	if a.NodeCount() > bound {
		t.Fatalf("too many nodes; limit: %v, got: %v", bound, a.NodeCount())
	}

	s := mustSymbol(t, gram, "S")
	allTerminated := false
	for _, n := range a.Nodes() {
		es := a.Edges(n)
		if n.AtRuleStart() {
			if len(es) != nonTermCount {
				t.Fatalf("unexpected fan-out of %v; want: %v, got: %v", n.Summary(), nonTermCount, len(es))
			}
		} else {
			expected := (termCount-1)*nonTermCount + termCount
			if len(es) != expected {
				t.Fatalf("unexpected fan-out of %v; want: %v, got: %v", n.Summary(), expected, len(es))
			}
		}
		for _, e := range es {
			if _, ok := a.Num(e.Target); !ok {
				t.Fatalf("an edge %v reaches an unknown node %v", e.Label, e.Target.Summary())
			}
			for _, sym := range gram.NonTerminals() {
				if e.Target.Status(sym) < n.Status(sym) {
					t.Fatalf("a status regressed along %v: %v -> %v", e.Label, n.Summary(), e.Target.Summary())
				}
			}
		}
		pending := false
		allTerminate := true
		for _, st := range n.Statuses() {
			if st == StatusHasToTerminate {
				pending = true
			}
			if st != StatusTerminates {
				allTerminate = false
			}
		}
		final := n.AtRuleStart() && n.Status(s) == StatusTerminates && !pending
		if n.IsFinal() != final {
			t.Fatalf("unexpected finality of %v; want: %v, got: %v", n.Summary(), final, n.IsFinal())
		}
		if n.AtRuleStart() && allTerminate {
			allTerminated = true
			if !n.IsFinal() {
				t.Fatalf("%v must be final", n.Summary())
			}
		}
	}
	if !allTerminated {
		t.Fatal("the rule-start node in which every non-terminal terminates was not found")
	}

	// S-> followed by eof$ terminates S without touching A and B.
	initial := a.InitialNode()
	afterS := a.Edges(initial)[0].Target
	var reached Node
	for _, e := range a.Edges(afterS) {
		if e.Label == "eof$" {
			reached = e.Target
		}
	}
	expected := mustNode(t, gram, []Status{StatusTerminates, StatusNotSeen, StatusNotSeen}, "")
	if reached != expected {
		t.Fatalf("unexpected node after S-> eof$; want: %v, got: %v", expected.Summary(), reached.Summary())
	}
	if !reached.IsFinal() {
		t.Fatalf("%v must be final", reached.Summary())
	}
	if len(a.FinalNodes()) == 0 {
		t.Fatal("no final node was found")
	}
}

func TestBuild_Idempotent(t *testing.T) {
	gram := newTestGrammar(t, []string{"S", "A"}, []string{"a", "eof"}, "eof")
	a1, err := Build(gram)
	if err != nil {
		t.Fatal(err)
	}
	a2, err := Build(gram)
	if err != nil {
		t.Fatal(err)
	}
	ns1 := a1.Nodes()
	ns2 := a2.Nodes()
	if len(ns1) != len(ns2) {
		t.Fatalf("node counts differ: %v, %v", len(ns1), len(ns2))
	}
	for i := range ns1 {
		if ns1[i] != ns2[i] {
			t.Fatalf("node #%v differs: %v, %v", i, ns1[i].Summary(), ns2[i].Summary())
		}
	}

	// Every node reachable from a discovered node is already discovered.
	for _, n := range ns1 {
		if !n.AtRuleStart() {
			continue
		}
		sub, err := BuildFrom(n)
		if err != nil {
			t.Fatal(err)
		}
		for _, m := range sub.Nodes() {
			if _, ok := a1.Num(m); !ok {
				t.Fatalf("%v is reachable from %v but missing", m.Summary(), n.Summary())
			}
		}
	}
}

func TestAutomatonBuilder_Revisit(t *testing.T) {
	gram := newTestGrammar(t, []string{"S", "A"}, []string{"a", "eof"}, "eof")
	b := newAutomatonBuilder(gram)
	b.visitRuleStart(gram.InitialNode())

	nodes := append([]Node{}, b.table.nodes...)
	edges := map[Node][]Edge{}
	for _, n := range nodes {
		edges[n] = b.table.edgesFrom(n)
	}

	for _, n := range nodes {
		if n.AtRuleStart() {
			b.visitRuleStart(n)
		} else {
			b.visitAfterArrow(n)
		}
	}

	if len(b.table.nodes) != len(nodes) {
		t.Fatalf("revisiting changed the node count; want: %v, got: %v", len(nodes), len(b.table.nodes))
	}
	for i, n := range nodes {
		if b.table.nodes[i] != n {
			t.Fatalf("revisiting changed node #%v; want: %v, got: %v", i, n.Summary(), b.table.nodes[i].Summary())
		}
		es := b.table.edgesFrom(n)
		if len(es) != len(edges[n]) {
			t.Fatalf("revisiting changed the edges of %v; want: %v, got: %v", n.Summary(), len(edges[n]), len(es))
		}
		for j, e := range edges[n] {
			if es[j] != e {
				t.Fatalf("revisiting changed edge #%v of %v; want: %v, got: %v", j, n.Summary(), e.Label, es[j].Label)
			}
		}
	}
}

func TestAutomaton_Verify(t *testing.T) {
	gram := newTestGrammar(t, []string{"S"}, []string{"a", "end"}, "end")
	s := mustSymbol(t, gram, "S")
	initial := gram.InitialNode()
	seenAfterS := mustNode(t, gram, []Status{StatusHasToTerminate}, "S")
	termStart := mustNode(t, gram, []Status{StatusTerminates}, "")

	tests := []struct {
		caption string
		table   func() *transitionTable
		err     string
	}{
		{
			caption: "a rule-start node lacking its arrow edge",
			table: func() *transitionTable {
				tab := newTransitionTable()
				tab.addNode(initial)
				return tab
			},
			err: "unexpected fan-out",
		},
		{
			caption: "an edge reaching an unregistered node",
			table: func() *transitionTable {
				tab := newTransitionTable()
				tab.addEdge(initial, newArrowEdge(gram, seenAfterS, s))
				return tab
			},
			err: "unknown node",
		},
		{
			caption: "a status going back from TERMINATES to SEEN",
			table: func() *transitionTable {
				tab := newTransitionTable()
				tab.addEdge(termStart, newArrowEdge(gram, seenAfterS, s))
				tab.addNode(seenAfterS)
				return tab
			},
			err: "regresses",
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			a := &Automaton{
				gram:    gram,
				initial: initial,
				table:   tt.table(),
			}
			err := a.Verify()
			if err == nil {
				t.Fatal("an expected error didn't occur")
			}
			if !strings.Contains(err.Error(), tt.err) {
				t.Fatalf("unexpected error; want: %v, got: %v", tt.err, err)
			}
		})
	}

	a, err := Build(gram)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Verify(); err != nil {
		t.Fatal(err)
	}
}

func TestNode_Zero(t *testing.T) {
	gram := newTestGrammar(t, []string{"S"}, []string{"a", "end"}, "end")
	a, err := Build(gram)
	if err != nil {
		t.Fatal(err)
	}
	var n Node
	if n.IsFinal() || a.IsFinal(n) {
		t.Fatal("the zero node was reported as final")
	}
	if n.Summary() != "INVALID" || n.String() != "[INVALID]" {
		t.Fatalf("unexpected rendering of the zero node: %q, %q", n.Summary(), n.String())
	}
	if _, ok := a.Num(n); ok {
		t.Fatal("the zero node was found in an automaton")
	}
}

func TestBuildFrom(t *testing.T) {
	gram := newTestGrammar(t, []string{"S", "A"}, []string{"a", "eof"}, "eof")

	if _, err := BuildFrom(mustNode(t, gram, []Status{StatusHasToTerminate, StatusNotSeen}, "S")); err == nil {
		t.Fatal("an after-arrow start node was accepted")
	}
	if _, err := BuildFrom(Node{}); err == nil {
		t.Fatal("a zero node was accepted")
	}

	start := mustNode(t, gram, []Status{StatusTerminates, StatusTerminates}, "")
	a, err := BuildFrom(start)
	if err != nil {
		t.Fatal(err)
	}
	if a.InitialNode() != start {
		t.Fatalf("unexpected initial node: %v", a.InitialNode().Summary())
	}
	// Nothing can regress from TERMINATES, so only the start node and one after-arrow node per non-terminal exist.
	if a.NodeCount() != 3 {
		t.Fatalf("unexpected node count; want: 3, got: %v", a.NodeCount())
	}
	if !start.IsFinal() {
		t.Fatalf("%v must be final", start.Summary())
	}
}

func TestNode_String(t *testing.T) {
	gram := newTestGrammar(t, []string{"S", "A"}, []string{"a", "eof"}, "eof")
	tests := []struct {
		node    Node
		str     string
		summary string
	}{
		{
			node:    mustNode(t, gram, []Status{StatusNotSeen, StatusNotSeen}, ""),
			str:     "[START]\nS: NOT SEEN\nA: NOT SEEN",
			summary: "START S=NOT SEEN A=NOT SEEN",
		},
		{
			node:    mustNode(t, gram, []Status{StatusHasToTerminate, StatusTerminates}, "A"),
			str:     "[A->]\nS: SEEN\nA: TERMINATES",
			summary: "A-> S=SEEN A=TERMINATES",
		},
	}
	for _, tt := range tests {
		if s := tt.node.String(); s != tt.str {
			t.Fatalf("unexpected string; want: %q, got: %q", tt.str, s)
		}
		if s := tt.node.Summary(); s != tt.summary {
			t.Fatalf("unexpected summary; want: %q, got: %q", tt.summary, s)
		}
	}
}

func TestGrammar_NewNode(t *testing.T) {
	gram := newTestGrammar(t, []string{"S"}, []string{"a", "eof"}, "eof")
	if _, err := gram.NewNode([]Status{StatusNotSeen, StatusNotSeen}, symbol.SymbolNil); err == nil {
		t.Fatal("too many statuses were accepted")
	}
	if _, err := gram.NewNode([]Status{statusNil}, symbol.SymbolNil); err == nil {
		t.Fatal("an invalid status was accepted")
	}
	if _, err := gram.NewNode([]Status{StatusNotSeen}, mustSymbol(t, gram, "a")); err == nil {
		t.Fatal("a terminal arrow was accepted")
	}
}
