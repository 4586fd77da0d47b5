//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris
// +build aix darwin dragonfly freebsd linux netbsd openbsd solaris

// Package supervisor runs a command, forwards signals to it and turns its
// wait status into the exit code wstat itself should return.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	sys "golang.org/x/sys/unix"

	"github.com/undoio/waitstatus/pkg/config"
	"github.com/undoio/waitstatus/pkg/logflags"
	"github.com/undoio/waitstatus/pkg/policy"
	"github.com/undoio/waitstatus/pkg/proc"
	"github.com/undoio/waitstatus/pkg/reaper"
	"github.com/undoio/waitstatus/pkg/waitstatus"
)

const signalBufferSize = 32

type Supervisor struct {
	cfg     *config.Config
	policy  policy.Policy
	signals []os.Signal
	log     *logrus.Entry

	// extra launch options such as the child's directory and environment
	launchOpts []proc.LaunchOption
	// runReaper drives the subreaper loop; replaced in tests
	runReaper func(ctx context.Context, r *reaper.Reaper) error
}

var errReaperStopped = errors.New("reaper stopped")

// New returns a supervisor for cfg. A nil pol means policy.Default.
func New(cfg *config.Config, pol policy.Policy, opts ...proc.LaunchOption) (*Supervisor, error) {
	if pol == nil {
		pol = policy.Default{}
	}
	signals, err := ParseSignals(cfg.ForwardSignals)
	if err != nil {
		return nil, err
	}
	return &Supervisor{
		cfg:        cfg,
		policy:     pol,
		signals:    signals,
		log:        logflags.SupervisorLogger(),
		launchOpts: opts,
		runReaper:  func(ctx context.Context, r *reaper.Reaper) error { return r.Run(ctx) },
	}, nil
}

// ParseSignals converts names like SIGTERM or HUP into signals.
func ParseSignals(names []string) ([]os.Signal, error) {
	signals := make([]os.Signal, 0, len(names))
	for _, name := range names {
		n := strings.ToUpper(strings.TrimSpace(name))
		if !strings.HasPrefix(n, "SIG") {
			n = "SIG" + n
		}
		sig := sys.SignalNum(n)
		if sig == 0 {
			return nil, fmt.Errorf("unknown signal %q", name)
		}
		signals = append(signals, sig)
	}
	return signals, nil
}

// Run starts cmd and supervises it until the exit policy settles on an
// exit code. When ctx is done the child is killed and ctx.Err() is
// returned together with the code for its final status.
func (s *Supervisor) Run(ctx context.Context, cmd []string) (int, error) {
	var (
		exits     <-chan reaper.Exit
		reaperErr chan error
	)
	if s.cfg.Subreaper {
		if err := proc.SetSubreaper(); err != nil {
			return 0, fmt.Errorf("could not become subreaper: %w", err)
		}
		r := reaper.New()
		exits = r.Subscribe()
		reaperCtx, cancel := context.WithCancel(context.Background())
		defer cancel()
		reaperErr = make(chan error, 1)
		go func() {
			reaperErr <- s.runReaper(reaperCtx, r)
		}()
		defer r.Close()
	}

	sigc := make(chan os.Signal, signalBufferSize)
	if len(s.signals) > 0 {
		signal.Notify(sigc, s.signals...)
		defer signal.Stop(sigc)
	}

	opts := append([]proc.LaunchOption{proc.WithPollInterval(s.cfg.PollInterval)}, s.launchOpts...)
	for restarts := 0; ; restarts++ {
		p, err := proc.Launch(cmd, opts...)
		if err != nil {
			return 0, err
		}
		if logflags.Supervisor() {
			s.log.WithFields(logrus.Fields{"pid": p.Pid(), "cmd": cmd[0], "restarts": restarts}).Debug("launched")
		}

		st, waitErr := s.wait(ctx, p, sigc, exits, reaperErr)
		if waitErr != nil && !p.Exited() {
			return 0, waitErr
		}
		s.log.WithFields(logrus.Fields{
			"pid":    p.Pid(),
			"cmd":    cmd[0],
			"status": st.String(),
			"cause":  st.Cause().String(),
			"raw":    fmt.Sprintf("%#x", uint32(st)),
		}).Info("child terminated")

		if waitErr != nil {
			d, _ := policy.Default{}.Decide(st, restarts)
			return d.Code, waitErr
		}

		d, err := s.policy.Decide(st, restarts)
		if err != nil {
			return 0, err
		}
		if d.Restart {
			if restarts < s.cfg.MaxRestarts {
				s.log.WithFields(logrus.Fields{"cmd": cmd[0], "restarts": restarts + 1}).Info("restarting child")
				continue
			}
			s.log.WithField("max-restarts", s.cfg.MaxRestarts).Warn("restart limit reached")
			d, _ = policy.Default{}.Decide(st, restarts)
		}
		return d.Code, nil
	}
}

type waitResult struct {
	st  waitstatus.Status
	err error
}

func (s *Supervisor) wait(ctx context.Context, p proc.Process, sigc <-chan os.Signal, exits <-chan reaper.Exit, reaperErr <-chan error) (waitstatus.Status, error) {
	var waited chan waitResult
	if exits == nil {
		waitCtx, cancel := context.WithCancel(context.Background())
		defer cancel()
		waited = make(chan waitResult, 1)
		go func() {
			st, err := p.Wait(waitCtx)
			waited <- waitResult{st, err}
		}()
	}

	done := ctx.Done()
	var cancelErr error
	for {
		select {
		case sig := <-sigc:
			s.forward(p, sig)
		case res := <-waited:
			if res.err != nil {
				return 0, res.err
			}
			return res.st, cancelErr
		case e := <-exits:
			if e.Pid != p.Pid() {
				s.log.WithFields(logrus.Fields{"pid": e.Pid, "status": e.Status.String()}).Debug("reaped orphan")
				continue
			}
			p.Reaped(e.Status)
			st, _ := p.Status()
			return st, cancelErr
		case err := <-reaperErr:
			// nothing would reap the child any more
			if err == nil {
				err = errReaperStopped
			} else {
				err = fmt.Errorf("%w: %v", errReaperStopped, err)
			}
			if kerr := p.Kill(); kerr != nil {
				s.log.WithField("error", kerr).Error("could not kill child")
			}
			return 0, err
		case <-done:
			done = nil
			cancelErr = ctx.Err()
			if err := p.Kill(); err != nil {
				s.log.WithField("error", err).Error("could not kill child")
			}
		}
	}
}

func (s *Supervisor) forward(p proc.Process, sig os.Signal) {
	sysSig, ok := sig.(syscall.Signal)
	if !ok {
		return
	}
	log := s.log.WithFields(logrus.Fields{"pid": p.Pid(), "comm": proc.Comm(p.Pid()), "signal": sysSig.String()})
	if err := p.Signal(sysSig); err != nil {
		if _, exited := err.(proc.ErrProcessExited); !exited {
			log.WithField("error", err).Error("could not forward signal")
		}
		return
	}
	if logflags.Supervisor() {
		log.Debug("forwarded signal")
	}
}
