//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris
// +build aix darwin dragonfly freebsd linux netbsd openbsd solaris

package proc

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	sys "golang.org/x/sys/unix"
)

// foregroundTerminal returns the descriptor of f if f is our controlling
// terminal and our process group is in its foreground, -1 otherwise.
func foregroundTerminal(f *os.File) int {
	if f == nil || !isatty.IsTerminal(f.Fd()) {
		return -1
	}
	fd := int(f.Fd())
	pgrp, err := sys.IoctlGetInt(fd, sys.TIOCGPGRP)
	if err != nil || pgrp != sys.Getpgrp() {
		return -1
	}
	return fd
}

// reclaimTerminal makes our process group the foreground group of fd
// again. We are a background group at this point, so SIGTTOU is ignored
// for the duration of the call.
func reclaimTerminal(fd int) error {
	signal.Ignore(syscall.SIGTTOU)
	defer signal.Reset(syscall.SIGTTOU)
	return sys.IoctlSetPointerInt(fd, sys.TIOCSPGRP, sys.Getpgrp())
}
