//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris
// +build aix darwin dragonfly freebsd linux netbsd openbsd solaris

package waitstatus

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// FromSys converts the value returned by os.ProcessState.Sys, or a
// unix.WaitStatus filled in by unix.Wait4, into a Status.
func FromSys(v interface{}) (Status, bool) {
	switch ws := v.(type) {
	case syscall.WaitStatus:
		return Status(int32(ws)), true
	case *syscall.WaitStatus:
		if ws == nil {
			return 0, false
		}
		return Status(int32(*ws)), true
	case unix.WaitStatus:
		return Status(int32(ws)), true
	case *unix.WaitStatus:
		if ws == nil {
			return 0, false
		}
		return Status(int32(*ws)), true
	case Status:
		return ws, true
	}
	return 0, false
}
