//go:build !aix && !plan9
// +build !aix,!plan9

package waitstatus

import "syscall"

// Traditional Unix encoding shared by Linux, Darwin, the BSDs and
// Solaris/illumos:
//
//	bits 0-6   terminating signal, 0 for a normal exit, 0x7f when stopped
//	bit  7     core dump flag
//	bits 8-15  exit code, or stop signal when stopped
const (
	sigMask   = 0x7f
	coreFlag  = 0x80
	stopped   = 0x7f
	exitShift = 8
	byteMask  = 0xff
)

func exited(s Status) bool {
	return s&sigMask == 0
}

func exitCode(s Status) int {
	return int(s>>exitShift) & byteMask
}

func signaled(s Status) bool {
	return s&sigMask != stopped && s&sigMask != 0
}

func termSignal(s Status) syscall.Signal {
	return syscall.Signal(s & sigMask)
}

func coreDumped(s Status) bool {
	return s&coreFlag != 0
}
