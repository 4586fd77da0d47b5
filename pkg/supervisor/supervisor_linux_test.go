package supervisor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/undoio/waitstatus/pkg/policy"
	"github.com/undoio/waitstatus/pkg/reaper"
	"github.com/undoio/waitstatus/pkg/waitstatus"
)

func TestRunSubreaper(t *testing.T) {
	cfg := testConfig()
	cfg.Subreaper = true
	s := newSupervisor(t, cfg, nil)

	// the backgrounded subshell is orphaned and reparented to us
	code, err := run(t, s, "(sleep 0.1; exit 1) & exit 6")
	require.NoError(t, err)
	assert.Equal(t, 6, code)
}

func TestRunSubreaperDropsOrphans(t *testing.T) {
	cfg := testConfig()
	cfg.Subreaper = true
	pol := &countingPolicy{decide: func(st waitstatus.Status, restarts int) policy.Decision {
		d, _ := policy.Default{}.Decide(st, restarts)
		return d
	}}
	s := newSupervisor(t, cfg, pol)
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	s.log = logger.WithField("layer", "supervisor")

	// the inner shell exits at once, leaving sleep to us; it exits well
	// before the child does
	code, err := run(t, s, "sh -c 'sleep 0.05 & exit 1' & sleep 0.3; exit 6")
	require.NoError(t, err)
	assert.Equal(t, 6, code)
	assert.Equal(t, 1, pol.calls)

	var orphans int
	for _, e := range hook.AllEntries() {
		if e.Message == "reaped orphan" {
			orphans++
		}
	}
	assert.NotZero(t, orphans)
}

func TestRunReaperFailure(t *testing.T) {
	cfg := testConfig()
	cfg.Subreaper = true
	s := newSupervisor(t, cfg, nil)
	failure := errors.New("wait4 failed")
	s.runReaper = func(context.Context, *reaper.Reaper) error {
		return failure
	}

	start := time.Now()
	_, err := run(t, s, "sleep 30")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errReaperStopped), "%v", err)
	assert.Contains(t, err.Error(), failure.Error())
	assert.Less(t, time.Since(start), 10*time.Second)
}
