package proc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/undoio/waitstatus/pkg/waitstatus"
)

// Process represents the low-level methods a supervisor uses to manage
// an operating system process.
//
// Signals are delivered to the process group the child leads, so
// descendants that did not leave the group receive them too.
type Process interface {
	Pid() int

	Signal(sig syscall.Signal) error
	Kill() error
	// Wait blocks until the process terminates or ctx is done.
	Wait(ctx context.Context) (waitstatus.Status, error)
	// Reaped records a status obtained by someone else's wait4 on the
	// process, e.g. a subreaper loop.
	Reaped(status waitstatus.Status)

	Exited() bool
	Status() (waitstatus.Status, bool)
}

// ErrProcessExited indicates that the process has exited and contains both
// process id and wait status.
type ErrProcessExited struct {
	Pid    int
	Status waitstatus.Status
}

func (pe ErrProcessExited) Error() string {
	return fmt.Sprintf("process %d has %v", pe.Pid, pe.Status)
}

// ErrSubreaperUnsupported is returned by SetSubreaper on hosts without
// PR_SET_CHILD_SUBREAPER.
var ErrSubreaperUnsupported = errors.New("child subreaper is only supported on linux")

// BasicProcess holds the state common to every platform.
type BasicProcess struct {
	pid int

	statusMut *sync.RWMutex
	status    *waitstatus.Status
}

func newBasicProcess(pid int) BasicProcess {
	return BasicProcess{
		pid:       pid,
		statusMut: &sync.RWMutex{},
	}
}

// LaunchOption customises how a child is started.
type LaunchOption func(*launchConfig)

type launchConfig struct {
	dir          string
	env          []string
	stdin        *os.File
	stdout       *os.File
	stderr       *os.File
	pollInterval time.Duration
}

// WithDir sets the working directory of the child.
func WithDir(dir string) LaunchOption {
	return func(c *launchConfig) { c.dir = dir }
}

// WithEnv adds KEY=VALUE entries to the environment the child inherits.
// Later entries win.
func WithEnv(env ...string) LaunchOption {
	return func(c *launchConfig) { c.env = append(c.env, env...) }
}

// WithStdio sets the child's standard streams. They must be files so
// that no copying goroutines outlive the child.
func WithStdio(stdin, stdout, stderr *os.File) LaunchOption {
	return func(c *launchConfig) {
		c.stdin, c.stdout, c.stderr = stdin, stdout, stderr
	}
}

// WithPollInterval sets how often Wait polls for the child's status.
func WithPollInterval(d time.Duration) LaunchOption {
	return func(c *launchConfig) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// Launch starts cmd in a new process group. The first entry in cmd is
// the program to run, the rest are its arguments.
func Launch(cmd []string, opts ...LaunchOption) (Process, error) {
	if len(cmd) == 0 {
		return nil, errors.New("no arguments passed to launch")
	}
	cfg := launchConfig{
		stdin:        os.Stdin,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		pollInterval: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return launch(cmd, &cfg)
}

func (p *BasicProcess) Pid() int {
	return p.pid
}

// Exited returns whether the process has terminated.
func (p *BasicProcess) Exited() bool {
	p.statusMut.RLock()
	defer p.statusMut.RUnlock()
	return p.status != nil
}

// Status returns the recorded wait status, if the process has
// terminated.
func (p *BasicProcess) Status() (waitstatus.Status, bool) {
	p.statusMut.RLock()
	defer p.statusMut.RUnlock()
	if p.status == nil {
		return 0, false
	}
	return *p.status, true
}

// Reaped records status unless one was recorded already.
func (p *BasicProcess) Reaped(status waitstatus.Status) {
	p.statusMut.Lock()
	defer p.statusMut.Unlock()
	if p.status == nil {
		p.status = &status
	}
}

func (p *BasicProcess) exitedError() error {
	if st, ok := p.Status(); ok {
		return ErrProcessExited{Pid: p.pid, Status: st}
	}
	return nil
}
