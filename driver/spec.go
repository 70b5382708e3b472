package driver

import "github.com/nihei9/terminus/spec/automaton"

type automatonImpl struct {
	a         *automaton.CompiledAutomaton
	label2Col map[string]int
}

func NewAutomaton(a *automaton.CompiledAutomaton) *automatonImpl {
	label2Col := make(map[string]int, len(a.Transition.Labels))
	for col, l := range a.Transition.Labels {
		label2Col[l] = col
	}
	return &automatonImpl{
		a:         a,
		label2Col: label2Col,
	}
}

func (a *automatonImpl) Name() string {
	return a.a.Name
}

func (a *automatonImpl) InitialState() int {
	return a.a.Transition.InitialStateID.Int()
}

func (a *automatonImpl) LabelCount() int {
	return a.a.Transition.ColCount
}

func (a *automatonImpl) Label(label int) string {
	return a.a.Transition.Labels[label]
}

func (a *automatonImpl) LabelID(text string) (int, bool) {
	col, ok := a.label2Col[text]
	return col, ok
}

func (a *automatonImpl) Next(state int, label int) (int, bool) {
	next, ok := a.a.Transition.NextState(automaton.StateID(state), label)
	return next.Int(), ok
}

func (a *automatonImpl) Accepting(state int) bool {
	return a.a.Transition.IsAccepting(automaton.StateID(state))
}
