//go:build !aix && !darwin && !dragonfly && !freebsd && !linux && !netbsd && !openbsd && !solaris
// +build !aix,!darwin,!dragonfly,!freebsd,!linux,!netbsd,!openbsd,!solaris

package cmds

import "github.com/spf13/cobra"

// run needs wait4, which this platform lacks.
func addRunCommand(rootCommand *cobra.Command) {}
