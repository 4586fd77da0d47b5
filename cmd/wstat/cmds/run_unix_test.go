//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris
// +build aix darwin dragonfly freebsd linux netbsd openbsd solaris

package cmds

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPropagatesExitStatus(t *testing.T) {
	_, err := execCommand(t, "run", "--", "/bin/sh", "-c", "exit 4")
	require.NoError(t, err)
	assert.Equal(t, 4, ExitStatus())

	_, err = execCommand(t, "run", "/bin/sh", "-c", "kill -15 $$")
	require.NoError(t, err)
	assert.Equal(t, 143, ExitStatus())
}

func TestRunWithPolicy(t *testing.T) {
	script := filepath.Join(t.TempDir(), "policy.star")
	require.NoError(t, ioutil.WriteFile(script, []byte(`
def on_exit(status):
    if status.restarts == 0:
        return "restart"
    return status.restarts + 10
`), 0644))

	_, err := execCommand(t, "run", "--policy", script, "--max-restarts", "1", "--", "/bin/sh", "-c", "exit 0")
	require.NoError(t, err)
	assert.Equal(t, 11, ExitStatus())
}

func TestRunBadPolicy(t *testing.T) {
	_, err := execCommand(t, "run", "--policy", filepath.Join(t.TempDir(), "missing.star"), "--", "/bin/true")
	assert.Error(t, err)
}

func TestRunDirAndEnv(t *testing.T) {
	dir := t.TempDir()
	_, err := execCommand(t, "run", "--chdir", dir, "--env", "WSTAT_TEST_CODE=9", "--",
		"/bin/sh", "-c", `test -f marker && exit $WSTAT_TEST_CODE; exit 1`)
	require.NoError(t, err)
	assert.Equal(t, 1, ExitStatus())

	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "marker"), nil, 0644))
	_, err = execCommand(t, "run", "-C", dir, "-e", "WSTAT_TEST_CODE=9", "--",
		"/bin/sh", "-c", `test -f marker && exit $WSTAT_TEST_CODE; exit 1`)
	require.NoError(t, err)
	assert.Equal(t, 9, ExitStatus())

	_, err = execCommand(t, "run", "--env", "NOEQUALS", "--", "/bin/true")
	assert.Error(t, err)
}
