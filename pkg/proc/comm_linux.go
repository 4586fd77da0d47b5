package proc

import (
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/undoio/waitstatus/pkg/logflags"
)

// Comm returns the command name of pid as shown in /proc.
func Comm(pid int) string {
	comm, err := ioutil.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
	if err != nil {
		logflags.ProcLogger().Debugf("could not read process comm name: %v", err)
		return ""
	}
	// removes newline character
	return strings.TrimSuffix(string(comm), "\n")
}
