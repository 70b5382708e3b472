package grammar

import (
	"fmt"
	"math"
)

// Verify checks the structural invariants of an automaton:
//   - the node count does not exceed 3^|N| × (|N|+1),
//   - a rule-start node has one arrow edge per non-terminal,
//   - an after-arrow node has (|T|-1)×|N| + |T| edges,
//   - every edge target is a node of the automaton,
//   - no status regresses along an edge.
//
// A violation is a defect of the builder, not of the input.
func (a *Automaton) Verify() error {
	nonTermCount := len(a.gram.nonTerms)
	termCount := len(a.gram.terms)

	maxNodes := math.Pow(3, float64(nonTermCount)) * float64(nonTermCount+1)
	if float64(len(a.table.nodes)) > maxNodes {
		return fmt.Errorf("too many nodes; limit: %v, got: %v", maxNodes, len(a.table.nodes))
	}

	for _, n := range a.table.nodes {
		es := a.table.edgesFrom(n)

		expected := nonTermCount
		if !n.AtRuleStart() {
			expected = (termCount-1)*nonTermCount + termCount
		}
		if len(es) != expected {
			return fmt.Errorf("unexpected fan-out of node %v; want: %v, got: %v", n.Summary(), expected, len(es))
		}

		for _, e := range es {
			if !a.table.has(e.Target) {
				return fmt.Errorf("an edge %v from node %v reaches an unknown node %v", e.Label, n.Summary(), e.Target.Summary())
			}
			if n.AtRuleStart() {
				if e.kind != edgeKindArrow || e.Target.Arrow() != e.nonTerminal {
					return fmt.Errorf("a rule-start node %v has a non-arrow edge %v", n.Summary(), e.Label)
				}
			} else if !e.Target.AtRuleStart() {
				return fmt.Errorf("an edge %v from node %v does not return to a rule start", e.Label, n.Summary())
			}
			for _, sym := range a.gram.nonTerms {
				if e.Target.Status(sym) < n.Status(sym) {
					return fmt.Errorf("the status of %v regresses along %v: %v -> %v", a.gram.text(sym), e.Label, n.Status(sym), e.Target.Status(sym))
				}
			}
		}
	}

	return nil
}
