//go:build !aix && !plan9
// +build !aix,!plan9

package waitstatus

import "syscall"

func exitStatus(code int) Status {
	return Status(code&0xff) << 8
}

func signalStatus(sig syscall.Signal, core bool) Status {
	s := Status(sig)
	if core {
		s |= 0x80
	}
	return s
}

func stopStatus(sig syscall.Signal) Status {
	return Status(sig)<<8 | 0x7f
}

const continuedStatus Status = 0xffff
