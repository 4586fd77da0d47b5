//go:build !aix && !darwin && !dragonfly && !freebsd && !linux && !netbsd && !openbsd && !solaris && !plan9
// +build !aix,!darwin,!dragonfly,!freebsd,!linux,!netbsd,!openbsd,!solaris,!plan9

package waitstatus

// FromSys only understands Status values on hosts without a wait status
// word.
func FromSys(v interface{}) (Status, bool) {
	if s, ok := v.(Status); ok {
		return s, true
	}
	return 0, false
}
