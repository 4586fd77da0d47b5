//go:build aix
// +build aix

package waitstatus

import "syscall"

func exitStatus(code int) Status {
	return Status(code&0xff) << 8
}

func signalStatus(sig syscall.Signal, core bool) Status {
	s := Status(sig)<<16 | 0x01
	if core {
		s |= 0x80
	}
	return s
}

func stopStatus(sig syscall.Signal) Status {
	return Status(sig)<<8 | 0x40
}

const continuedStatus Status = 0x01000040
