//go:build !linux
// +build !linux

package proc

// Comm is only available on Linux.
func Comm(pid int) string {
	return ""
}
