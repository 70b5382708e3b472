package automaton

type CompiledAutomaton struct {
	Name         string           `json:"name"`
	NonTerminals []string         `json:"non_terminals"`
	Terminals    []string         `json:"terminals"`
	StartSymbol  int              `json:"start_symbol"`
	EndMarker    int              `json:"end_marker"`
	Transition   *TransitionTable `json:"transition"`
}

// StateID represents an ID of a state of a transition table.
type StateID int

const (
	// StateIDNil represents an empty entry of a transition table.
	// When the driver reads this value, it recognizes that the transition is not defined.
	StateIDNil = StateID(0)

	// StateIDMin is the minimum value of the state ID. All valid state IDs are represented as
	// sequential numbers starting from this value.
	StateIDMin = StateID(1)
)

func (id StateID) Int() int {
	return int(id)
}

func (id StateID) IsNil() bool {
	return id == StateIDNil
}

type RowDisplacementTable struct {
	OriginalRowCount int       `json:"original_row_count"`
	OriginalColCount int       `json:"original_col_count"`
	EmptyValue       StateID   `json:"empty_value"`
	Entries          []StateID `json:"entries"`
	Bounds           []int     `json:"bounds"`
	RowDisplacement  []int     `json:"row_displacement"`
}

type UniqueEntriesTable struct {
	UniqueEntries             *RowDisplacementTable `json:"unique_entries,omitempty"`
	UncompressedUniqueEntries []StateID             `json:"uncompressed_unique_entries,omitempty"`
	RowNums                   []int                 `json:"row_nums"`
	OriginalRowCount          int                   `json:"original_row_count"`
	OriginalColCount          int                   `json:"original_col_count"`
}

// TransitionTable maps a pair of a state and a label to the next state.
// Rows are states and columns are labels. Row 0 is reserved for StateIDNil.
type TransitionTable struct {
	InitialStateID         StateID             `json:"initial_state_id"`
	AcceptingStates        []bool              `json:"accepting_states"`
	Labels                 []string            `json:"labels"`
	RowCount               int                 `json:"row_count"`
	ColCount               int                 `json:"col_count"`
	CompressionLevel       int                 `json:"compression_level"`
	Transition             *UniqueEntriesTable `json:"transition,omitempty"`
	UncompressedTransition []StateID           `json:"uncompressed_transition,omitempty"`
}

// NextState looks up the state reached from a state by a label.
// The second return value is false when the transition is not defined.
func (t *TransitionTable) NextState(state StateID, label int) (StateID, bool) {
	if state.IsNil() || state.Int() >= t.RowCount || label < 0 || label >= t.ColCount {
		return StateIDNil, false
	}

	var next StateID
	switch t.CompressionLevel {
	case 2:
		tran := t.Transition
		rowNum := tran.RowNums[state]
		d := tran.UniqueEntries.RowDisplacement[rowNum]
		if tran.UniqueEntries.Bounds[d+label] != rowNum {
			return StateIDNil, false
		}
		next = tran.UniqueEntries.Entries[d+label]
	case 1:
		tran := t.Transition
		next = tran.UncompressedUniqueEntries[tran.RowNums[state]*tran.OriginalColCount+label]
	default:
		next = t.UncompressedTransition[state.Int()*t.ColCount+label]
	}
	if next.IsNil() {
		return StateIDNil, false
	}
	return next, true
}

// IsAccepting reports whether a state is a final state.
func (t *TransitionTable) IsAccepting(state StateID) bool {
	if state.IsNil() || state.Int() >= len(t.AcceptingStates) {
		return false
	}
	return t.AcceptingStates[state]
}

type Report struct {
	Name         string   `json:"name"`
	NonTerminals []string `json:"non_terminals"`
	Terminals    []string `json:"terminals"`
	StartSymbol  string   `json:"start_symbol"`
	EndMarker    string   `json:"end_marker"`
	States       []*State `json:"states"`
}

type State struct {
	Number int `json:"number"`

	// Arrow is the non-terminal whose production arrow was just consumed.
	// It is empty when the state is at a rule start.
	Arrow       string        `json:"arrow,omitempty"`
	Statuses    []string      `json:"statuses"`
	Final       bool          `json:"final"`
	Transitions []*Transition `json:"transitions"`
}

type Transition struct {
	Label string `json:"label"`
	State int    `json:"state"`
}
