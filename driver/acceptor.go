package driver

import (
	"fmt"
	"io"
)

type Automaton interface {
	Name() string
	InitialState() int
	LabelCount() int
	Label(label int) string
	LabelID(text string) (int, bool)

	// Next returns the state reached from a state by a label. The second return value is false
	// when the transition is not defined.
	Next(state int, label int) (int, bool)

	Accepting(state int) bool
}

type TokenStream interface {
	Next() (*LabelToken, error)
}

type RunError struct {
	Row            int
	Col            int
	Message        string
	Token          *LabelToken
	ExpectedLabels []string
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%v:%v: %v", e.Row, e.Col, e.Message)
}

type AcceptorOption func(a *Acceptor) error

// StopOnError makes the acceptor return at the first undefined transition without reading the rest of the stream.
func StopOnError() AcceptorOption {
	return func(a *Acceptor) error {
		a.stopOnError = true
		return nil
	}
}

// Acceptor walks a label stream through a compiled automaton.
type Acceptor struct {
	aut         Automaton
	toks        TokenStream
	path        []int
	labels      []string
	errs        []*RunError
	stopOnError bool
}

func NewAcceptor(aut Automaton, toks TokenStream, opts ...AcceptorOption) (*Acceptor, error) {
	a := &Acceptor{
		aut:  aut,
		toks: toks,
	}

	for _, opt := range opts {
		err := opt(a)
		if err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Accept consumes the whole stream. It returns true when every label has a transition and the last
// state is accepting. Undefined transitions are collected in RunErrors.
func (a *Acceptor) Accept() (bool, error) {
	state := a.aut.InitialState()
	a.path = []int{state}
	a.labels = nil
	a.errs = nil
	for {
		tok, err := a.toks.Next()
		if err != nil {
			return false, err
		}
		if tok.EOF {
			if len(a.errs) > 0 {
				return false, nil
			}
			if !a.aut.Accepting(state) {
				a.errs = append(a.errs, &RunError{
					Row:     tok.Row,
					Col:     tok.Col,
					Message: "unexpected end of input",
					Token:   tok,
				})
				return false, nil
			}
			return true, nil
		}

		if len(a.errs) > 0 {
			continue
		}

		var next int
		var ok bool
		if tok.LabelID >= 0 {
			next, ok = a.aut.Next(state, tok.LabelID)
		}
		if !ok {
			msg := fmt.Sprintf("unexpected label: %v", tok.Text)
			if tok.LabelID < 0 {
				msg = fmt.Sprintf("unknown label: %v", tok.Text)
			}
			a.errs = append(a.errs, &RunError{
				Row:            tok.Row,
				Col:            tok.Col,
				Message:        msg,
				Token:          tok,
				ExpectedLabels: a.searchLabels(state),
			})
			if a.stopOnError {
				return false, nil
			}
			continue
		}
		state = next
		a.path = append(a.path, state)
		a.labels = append(a.labels, tok.Text)
	}
}

func (a *Acceptor) searchLabels(state int) []string {
	var labels []string
	for l := 0; l < a.aut.LabelCount(); l++ {
		if _, ok := a.aut.Next(state, l); ok {
			labels = append(labels, a.aut.Label(l))
		}
	}
	return labels
}

// Path returns the states visited so far, beginning with the initial state.
func (a *Acceptor) Path() []int {
	return a.path
}

// Labels returns the labels consumed so far. The i-th label leads from Path()[i] to Path()[i+1].
func (a *Acceptor) Labels() []string {
	return a.labels
}

func (a *Acceptor) RunErrors() []*RunError {
	return a.errs
}

// PrintPath writes the visited states and the labels between them.
func PrintPath(w io.Writer, aut Automaton, path []int, labels []string) {
	if len(path) == 0 {
		return
	}
	fmt.Fprintf(w, "%v", path[0])
	for i, s := range path[1:] {
		fmt.Fprintf(w, " --%v--> %v", labels[i], s)
	}
	if aut.Accepting(path[len(path)-1]) {
		fmt.Fprintf(w, " (accepted)")
	}
	fmt.Fprintln(w)
}
