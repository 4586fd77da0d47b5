package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOverridesDefaults(t *testing.T) {
	c, err := Parse([]byte(`
forward-signals: [SIGTERM, SIGUSR1]
max-restarts: 3
subreaper: true
policy: /etc/wstat/policy.star
poll-interval: 50ms
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"SIGTERM", "SIGUSR1"}, c.ForwardSignals)
	assert.Equal(t, 3, c.MaxRestarts)
	assert.True(t, c.Subreaper)
	assert.Equal(t, "/etc/wstat/policy.star", c.Policy)
	assert.Equal(t, 50*time.Millisecond, c.PollInterval)
}

func TestParseKeepsDefaults(t *testing.T) {
	c, err := Parse([]byte("max-restarts: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, Default().ForwardSignals, c.ForwardSignals)
	assert.Equal(t, Default().PollInterval, c.PollInterval)
	assert.Equal(t, 1, c.MaxRestarts)
}

func TestParseRejects(t *testing.T) {
	_, err := Parse([]byte("max-restarts: -1\n"))
	assert.Error(t, err)
	_, err = Parse([]byte("poll-interval: 0s\n"))
	assert.Error(t, err)
	_, err = Parse([]byte("no-such-option: true\n"))
	assert.Error(t, err)
}

func TestLoadAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	c := Default()
	c.MaxRestarts = 2
	written, err := c.Save(path)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	require.NoError(t, ioutil.WriteFile(path, []byte("max-restarts: [\n"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}
