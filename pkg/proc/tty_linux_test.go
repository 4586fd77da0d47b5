package proc_test

import (
	"context"
	"io"
	"io/ioutil"
	"os"
	"os/exec"
	"syscall"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sys "golang.org/x/sys/unix"

	"github.com/undoio/waitstatus/pkg/proc"
)

const ttyHelperEnv = "WSTAT_TTY_HELPER"

// Exit codes of TestTerminalHelper other than the child's own.
const (
	helperLaunchFailed = 100 + iota
	helperWaitFailed
	helperTerminalLost
)

// TestTerminalHelper only does something when re-executed by
// TestChildReadsControllingTerminal. It then leads a session whose
// controlling terminal is its stdin and exits with the code of a child
// reading that terminal.
func TestTerminalHelper(t *testing.T) {
	if os.Getenv(ttyHelperEnv) != "1" {
		t.Skip("only runs as a helper process")
	}
	p, err := proc.Launch([]string{"/bin/sh", "-c", "read x; exit $x"}, proc.WithPollInterval(10*time.Millisecond))
	if err != nil {
		os.Exit(helperLaunchFailed)
	}
	st, err := p.Wait(context.Background())
	if err != nil || !st.Exited() {
		os.Exit(helperWaitFailed)
	}
	pgrp, err := sys.IoctlGetInt(0, sys.TIOCGPGRP)
	if err != nil || pgrp != sys.Getpgrp() {
		os.Exit(helperTerminalLost)
	}
	os.Exit(st.ExitCode())
}

func TestChildReadsControllingTerminal(t *testing.T) {
	ptmx, tty, err := pty.Open()
	require.NoError(t, err)
	defer ptmx.Close()
	defer tty.Close()

	cmd := exec.Command(os.Args[0], "-test.run=^TestTerminalHelper$")
	cmd.Env = append(os.Environ(), ttyHelperEnv+"=1")
	cmd.Stdin, cmd.Stdout, cmd.Stderr = tty, tty, tty
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true, Setctty: true, Ctty: 0}
	require.NoError(t, cmd.Start())
	go io.Copy(ioutil.Discard, ptmx)

	_, err = ptmx.Write([]byte("7\n"))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case err := <-done:
		exitErr, ok := err.(*exec.ExitError)
		require.True(t, ok, "unexpected error %v", err)
		assert.Equal(t, 7, exitErr.ExitCode())
	case <-time.After(10 * time.Second):
		cmd.Process.Kill()
		<-done
		t.Fatal("child reading the controlling terminal never terminated")
	}
}

func TestChildReadsOtherTerminal(t *testing.T) {
	ptmx, tty, err := pty.Open()
	require.NoError(t, err)
	defer ptmx.Close()
	defer tty.Close()
	go io.Copy(ioutil.Discard, ptmx)

	// not our controlling terminal, so the child stays a background group
	p, err := proc.Launch([]string{"/bin/sh", "-c", "read x; exit $x"},
		proc.WithStdio(tty, nil, nil),
		proc.WithPollInterval(10*time.Millisecond))
	require.NoError(t, err)

	_, err = ptmx.Write([]byte("3\n"))
	require.NoError(t, err)
	st := waitFor(t, p)
	require.True(t, st.Exited(), "%v", st)
	assert.Equal(t, 3, st.ExitCode())
}
