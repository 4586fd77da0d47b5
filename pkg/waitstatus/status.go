//go:build !plan9
// +build !plan9

// Package waitstatus decodes the status word a parent receives from
// wait4(2) and friends when a child process changes state.
//
// A Status is read-only: the kernel produced it and this package only
// projects bits out of it. Exited and Signaled gate the remaining
// queries. ExitCode is only meaningful after Exited returns true; Signal
// and CoreDumped are only meaningful after Signaled returns true. Calling
// them out of order returns whatever the host bit layout yields, it is
// not an error and it is not corrected.
package waitstatus

import (
	"fmt"
	"syscall"
)

// Status is the raw wait status word of a child process.
type Status int32

// Exited reports whether the process terminated through exit(3), _exit(2)
// or by returning from main.
func (s Status) Exited() bool {
	return exited(s)
}

// ExitCode returns the low-order 8 bits of the value the process passed
// to exit. Only valid if Exited is true.
func (s Status) ExitCode() int {
	return exitCode(s)
}

// Signaled reports whether the process was terminated by a signal.
func (s Status) Signaled() bool {
	return signaled(s)
}

// Signal returns the signal that terminated the process. Only valid if
// Signaled is true.
func (s Status) Signal() syscall.Signal {
	return termSignal(s)
}

// CoreDumped reports whether termination produced a core dump. Only valid
// if Signaled is true. Some hosts never set the flag.
func (s Status) CoreDumped() bool {
	return coreDumped(s)
}

// Cause gates the queries in order and returns the kind of termination.
func (s Status) Cause() Cause {
	switch {
	case s.Exited():
		return CauseExited
	case s.Signaled() && s.CoreDumped():
		return CauseCoreDumped
	case s.Signaled():
		return CauseSignaled
	default:
		return CauseUnknown
	}
}

// ShellCode returns the code a shell would report for the status: the
// exit code for a normal exit and 128 plus the signal number for a
// signal termination. The second result is false for any other status.
func (s Status) ShellCode() (int, bool) {
	switch {
	case s.Exited():
		return s.ExitCode(), true
	case s.Signaled():
		return signalOffset + int(s.Signal()), true
	}
	return 0, false
}

const signalOffset = 128

func (s Status) String() string {
	switch s.Cause() {
	case CauseExited:
		return fmt.Sprintf("exited with code %d", s.ExitCode())
	case CauseSignaled:
		return fmt.Sprintf("killed by signal %d (%v)", int(s.Signal()), s.Signal())
	case CauseCoreDumped:
		return fmt.Sprintf("killed by signal %d (%v) (core dumped)", int(s.Signal()), s.Signal())
	}
	return fmt.Sprintf("unknown status %#x", uint32(s))
}

// Cause classifies a terminated process.
type Cause uint32

const (
	// CauseUnknown is reported when neither Exited nor Signaled holds,
	// e.g. for stop and continue notifications.
	CauseUnknown Cause = iota
	// CauseExited process exited normally
	CauseExited
	// CauseSignaled process was terminated by a signal without a core dump
	CauseSignaled
	// CauseCoreDumped process was terminated by a signal and dumped core
	CauseCoreDumped
)

func (c Cause) String() string {
	switch c {
	case CauseExited:
		return "EXITED"
	case CauseSignaled:
		return "SIGNALED"
	case CauseCoreDumped:
		return "COREDUMPED"
	default:
		return "UNKNOWN"
	}
}
