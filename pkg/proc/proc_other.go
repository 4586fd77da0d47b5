//go:build !aix && !darwin && !dragonfly && !freebsd && !linux && !netbsd && !openbsd && !solaris
// +build !aix,!darwin,!dragonfly,!freebsd,!linux,!netbsd,!openbsd,!solaris

package proc

import "errors"

// ErrLaunchUnsupported is returned by Launch on hosts without wait4.
var ErrLaunchUnsupported = errors.New("launching supervised processes is not supported on this platform")

func launch(cmd []string, cfg *launchConfig) (Process, error) {
	return nil, ErrLaunchUnsupported
}
