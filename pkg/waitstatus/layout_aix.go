//go:build aix
// +build aix

package waitstatus

import "syscall"

// AIX keeps the terminating signal in the third byte:
//
//	bits 0-7    zero for a normal exit
//	bit  6      stopped flag
//	bit  7      core dump flag
//	bits 8-15   exit code
//	bits 16-23  terminating signal
const (
	lowByte     = 0xff
	stoppedFlag = 0x40
	coreFlag    = 0x80
	exitShift   = 8
	sigShift    = 16
)

func exited(s Status) bool {
	return s&lowByte == 0
}

func exitCode(s Status) int {
	return int(s>>exitShift) & lowByte
}

func signaled(s Status) bool {
	return s&stoppedFlag == 0 && s&lowByte != 0
}

func termSignal(s Status) syscall.Signal {
	return syscall.Signal(s>>sigShift) & lowByte
}

func coreDumped(s Status) bool {
	return s&coreFlag != 0
}
