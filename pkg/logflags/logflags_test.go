package logflags

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLayers(t *testing.T) {
	require.NoError(t, Setup(true, "proc,reaper", ""))
	defer Close()
	assert.True(t, Proc())
	assert.True(t, Reaper())
	assert.False(t, Supervisor())
	assert.False(t, Policy())
	assert.Equal(t, logrus.DebugLevel, ProcLogger().Logger.Level)
	assert.Equal(t, logrus.ErrorLevel, PolicyLogger().Logger.Level)
}

func TestSetupDefaultLayer(t *testing.T) {
	require.NoError(t, Setup(true, "", ""))
	defer Close()
	assert.True(t, Supervisor())
	assert.Equal(t, "supervisor", SupervisorLogger().Data["layer"])
}

func TestSetupErrors(t *testing.T) {
	assert.Equal(t, errLogstrWithoutLog, Setup(false, "proc", ""))
	assert.Error(t, Setup(true, "proc,nonsense", ""))
}

func TestSetupLogDest(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "wstat.log")
	require.NoError(t, Setup(true, "reaper", dest))
	ReaperLogger().WithField("pid", 42).Debug("reaped")
	Close()

	buf, err := ioutil.ReadFile(dest)
	require.NoError(t, err)
	out := string(buf)
	assert.True(t, strings.Contains(out, "layer=reaper"), out)
	assert.True(t, strings.Contains(out, "pid=42"), out)
	assert.True(t, strings.Contains(out, "msg=reaped"), out)
}
