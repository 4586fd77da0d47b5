package proc

import sys "golang.org/x/sys/unix"

// SetSubreaper makes the calling process the reaper of orphaned
// descendants instead of init.
func SetSubreaper() error {
	return sys.Prctl(sys.PR_SET_CHILD_SUBREAPER, 1, 0, 0, 0)
}
