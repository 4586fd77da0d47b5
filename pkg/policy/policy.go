// Package policy decides what a supervisor does once its child has
// terminated: propagate an exit code or start the child again.
package policy

import (
	"github.com/undoio/waitstatus/pkg/waitstatus"
)

// Decision is the outcome of a Policy.
type Decision struct {
	// Restart asks the supervisor to launch the child again.
	Restart bool
	// Code is the exit code to propagate when Restart is false.
	Code int
}

// Policy decides what to do with a terminated child. restarts is the
// number of times the child has already been restarted.
type Policy interface {
	Decide(st waitstatus.Status, restarts int) (Decision, error)
}

// Default propagates the shell exit code of the child and never
// restarts it.
type Default struct{}

// fallbackCode is propagated when the status is neither an exit nor a
// signal termination.
const fallbackCode = 1

func (Default) Decide(st waitstatus.Status, restarts int) (Decision, error) {
	if code, ok := st.ShellCode(); ok {
		return Decision{Code: code}, nil
	}
	return Decision{Code: fallbackCode}, nil
}
