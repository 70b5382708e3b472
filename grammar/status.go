package grammar

import "fmt"

// Status is the termination progress of a non-terminal.
// Statuses are ordered as StatusNotSeen < StatusHasToTerminate < StatusTerminates.
type Status uint8

const (
	statusNil Status = iota

	// StatusNotSeen means no production of the non-terminal has been started.
	StatusNotSeen

	// StatusHasToTerminate means a production has been started, but none has reached a terminal-only right-hand side.
	StatusHasToTerminate

	// StatusTerminates means a production of the non-terminal has ended the derivation.
	StatusTerminates
)

func (s Status) String() string {
	switch s {
	case StatusNotSeen:
		return "NOT SEEN"
	case StatusHasToTerminate:
		return "SEEN"
	case StatusTerminates:
		return "TERMINATES"
	}
	panic(fmt.Errorf("invalid status: %d", uint8(s)))
}

func (s Status) validate() {
	switch s {
	case StatusNotSeen, StatusHasToTerminate, StatusTerminates:
		return
	}
	panic(fmt.Errorf("invalid status: %d", uint8(s)))
}

// advance returns the status a non-terminal moves to when one of its productions begins.
// A status never regresses from StatusTerminates.
func (s Status) advance() Status {
	s.validate()
	if s == StatusTerminates {
		return StatusTerminates
	}
	return StatusHasToTerminate
}
