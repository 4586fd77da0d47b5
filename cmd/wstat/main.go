package main

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/undoio/waitstatus/cmd/wstat/cmds"
	"github.com/undoio/waitstatus/pkg/version"
)

// Build is the git sha of this binaries build.
var Build string

func main() {
	if Build != "" {
		version.WstatVersion.Build = Build
	}

	// Lets wrapper scripts pick a config file without touching the
	// command line they forward.
	const configEnv = "WSTAT_CONFIG"
	if path := os.Getenv(configEnv); path != "" {
		for _, arg := range os.Args[1:] {
			if arg == "--" {
				break
			}
			if arg == "--config" || strings.HasPrefix(arg, "--config=") {
				logrus.WithFields(logrus.Fields{"layer": "wstat"}).Warnln(configEnv + " ignored, --config given on the command line.")
				path = ""
				break
			}
		}
		if path != "" {
			os.Args = append([]string{os.Args[0], "--config=" + path}, os.Args[1:]...)
		}
	}

	if err := cmds.New(false).Execute(); err != nil {
		os.Exit(1)
	}
	os.Exit(cmds.ExitStatus())
}
