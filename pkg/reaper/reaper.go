//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris
// +build aix darwin dragonfly freebsd linux netbsd openbsd solaris

// Package reaper collects terminated children with wait4(-1) and hands
// their decoded statuses to subscribers.
package reaper

import (
	"context"
	"os"
	"os/signal"
	"sync"

	"github.com/sirupsen/logrus"
	sys "golang.org/x/sys/unix"

	"github.com/undoio/waitstatus/pkg/logflags"
	"github.com/undoio/waitstatus/pkg/waitstatus"
)

const subscriberBufferSize = 32

// Exit describes a reaped child.
type Exit struct {
	Pid    int
	Status waitstatus.Status
}

// Reap waits for every child that has already terminated and returns
// their exits. It never blocks.
func Reap() (exits []Exit, err error) {
	var (
		ws  sys.WaitStatus
		rus sys.Rusage
	)
	for {
		pid, err := sys.Wait4(-1, &ws, sys.WNOHANG, &rus)
		if err != nil {
			if err == sys.EINTR {
				continue
			}
			if err == sys.ECHILD {
				return exits, nil
			}
			return exits, err
		}
		if pid <= 0 {
			return exits, nil
		}
		st, _ := waitstatus.FromSys(ws)
		exits = append(exits, Exit{Pid: pid, Status: st})
	}
}

// Reaper runs Reap whenever SIGCHLD arrives.
type Reaper struct {
	mu          sync.Mutex
	subscribers map[<-chan Exit]chan Exit

	done      chan struct{}
	closeOnce sync.Once
	log       *logrus.Entry
}

func New() *Reaper {
	return &Reaper{
		subscribers: make(map[<-chan Exit]chan Exit),
		done:        make(chan struct{}),
		log:         logflags.ReaperLogger(),
	}
}

// Subscribe returns a channel receiving every exit reaped from now on.
func (r *Reaper) Subscribe() <-chan Exit {
	ch := make(chan Exit, subscriberBufferSize)
	r.mu.Lock()
	r.subscribers[ch] = ch
	r.mu.Unlock()
	return ch
}

// Unsubscribe stops deliveries to ch.
func (r *Reaper) Unsubscribe(ch <-chan Exit) {
	r.mu.Lock()
	delete(r.subscribers, ch)
	r.mu.Unlock()
}

// Run reaps children until ctx is done or Close is called.
func (r *Reaper) Run(ctx context.Context) error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, sys.SIGCHLD)
	defer signal.Stop(signals)

	// children that exited before Notify was installed
	if err := r.reapAndNotify(ctx); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.done:
			return nil
		case <-signals:
			if err := r.reapAndNotify(ctx); err != nil {
				return err
			}
		}
	}
}

// Close stops Run.
func (r *Reaper) Close() {
	r.closeOnce.Do(func() { close(r.done) })
}

func (r *Reaper) reapAndNotify(ctx context.Context) error {
	exits, err := Reap()
	for _, e := range exits {
		if logflags.Reaper() {
			r.log.WithFields(logrus.Fields{"pid": e.Pid, "status": e.Status.String()}).Debug("reaped child")
		}
		r.notify(ctx, e)
	}
	if err != nil {
		r.log.WithField("error", err).Error("reaping child processes")
	}
	return err
}

func (r *Reaper) notify(ctx context.Context, e Exit) {
	r.mu.Lock()
	subs := make([]chan Exit, 0, len(r.subscribers))
	for _, ch := range r.subscribers {
		subs = append(subs, ch)
	}
	r.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- e:
		case <-ctx.Done():
			return
		case <-r.done:
			return
		}
	}
}
