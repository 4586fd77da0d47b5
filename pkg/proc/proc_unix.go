//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris
// +build aix darwin dragonfly freebsd linux netbsd openbsd solaris

package proc

import (
	"context"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	sys "golang.org/x/sys/unix"

	"github.com/undoio/waitstatus/pkg/logflags"
	"github.com/undoio/waitstatus/pkg/waitstatus"
)

type UnixProcess struct {
	BasicProcess
	process      *os.Process
	pollInterval time.Duration

	// terminal the child's group was put in the foreground of, or -1
	ttyFd       int
	restoreOnce sync.Once
}

func (p *UnixProcess) Signal(sig syscall.Signal) error {
	if err := p.exitedError(); err != nil {
		return err
	}
	return sys.Kill(-p.pid, sig)
}

func (p *UnixProcess) Kill() error {
	return p.Signal(sys.SIGKILL)
}

// Reaped records status and hands the terminal back to our process
// group if the child owned it.
func (p *UnixProcess) Reaped(status waitstatus.Status) {
	p.BasicProcess.Reaped(status)
	if p.ttyFd < 0 {
		return
	}
	p.restoreOnce.Do(func() {
		if err := reclaimTerminal(p.ttyFd); err != nil {
			logrus.WithFields(logrus.Fields{"layer": "proc", "pid": p.pid}).Warnf("could not reclaim terminal: %v", err)
		}
	})
}

// Wait polls wait4 with WNOHANG until the child terminates. Once a
// status is recorded it is returned without calling wait4 again.
func (p *UnixProcess) Wait(ctx context.Context) (waitstatus.Status, error) {
	if st, ok := p.Status(); ok {
		return st, nil
	}
	for {
		st, done, err := wait(p.pid, 0)
		if err != nil {
			// Somebody else may have reaped the child in the meantime.
			if st, ok := p.Status(); ok {
				return st, nil
			}
			return 0, err
		}
		if done {
			p.Reaped(st)
			p.process.Release()
			st, _ = p.Status()
			return st, nil
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(p.pollInterval):
		}
	}
}

func launch(cmd []string, cfg *launchConfig) (Process, error) {
	proc := exec.Command(cmd[0])
	proc.Args = cmd
	proc.Dir = cfg.dir
	if len(cfg.env) > 0 {
		proc.Env = append(os.Environ(), cfg.env...)
	}
	// nil files must stay nil interfaces so exec falls back to /dev/null
	if cfg.stdin != nil {
		proc.Stdin = cfg.stdin
	}
	if cfg.stdout != nil {
		proc.Stdout = cfg.stdout
	}
	if cfg.stderr != nil {
		proc.Stderr = cfg.stderr
	}
	proc.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	// A background group reading our terminal would be stopped by
	// SIGTTIN, so the child takes the terminal over while it runs.
	ttyFd := foregroundTerminal(cfg.stdin)
	if ttyFd >= 0 {
		proc.SysProcAttr.Foreground = true
		proc.SysProcAttr.Ctty = ttyFd
	}
	if err := proc.Start(); err != nil {
		return nil, err
	}
	if ttyFd >= 0 && logflags.Proc() {
		logflags.ProcLogger().WithFields(logrus.Fields{"pid": proc.Process.Pid, "tty": ttyFd}).Debug("child owns the terminal")
	}
	return &UnixProcess{
		BasicProcess: newBasicProcess(proc.Process.Pid),
		process:      proc.Process,
		pollInterval: cfg.pollInterval,
		ttyFd:        ttyFd,
	}, nil
}

// wait calls wait4 once without blocking. done is false while the child
// is still running or only stopped; stops are logged.
func wait(pid, options int) (st waitstatus.Status, done bool, err error) {
	var s sys.WaitStatus
	for {
		wpid, err := sys.Wait4(pid, &s, sys.WNOHANG|sys.WUNTRACED|options, nil)
		if err == sys.EINTR {
			continue
		}
		if err != nil {
			return 0, false, err
		}
		if wpid == 0 {
			return 0, false, nil
		}
		st, _ = waitstatus.FromSys(s)
		if s.Stopped() {
			logrus.WithFields(logrus.Fields{"layer": "proc", "pid": wpid, "signal": s.StopSignal().String()}).Warnln("child stopped")
			return st, false, nil
		}
		if logflags.Proc() {
			logflags.ProcLogger().WithFields(logrus.Fields{"pid": wpid, "status": st.String(), "raw": uint32(s)}).Debug("wait4")
		}
		return st, st.Exited() || st.Signaled(), nil
	}
}
