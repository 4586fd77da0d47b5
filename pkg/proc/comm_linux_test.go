package proc_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/undoio/waitstatus/pkg/proc"
)

func TestComm(t *testing.T) {
	p, err := proc.Launch([]string{"/bin/sleep", "30"}, proc.WithStdio(nil, nil, nil))
	if err != nil {
		t.Fatal("Launch():", err)
	}
	defer func() {
		p.Kill()
		waitFor(t, p)
	}()
	// comm changes once the child has called execve
	assert.Eventually(t, func() bool {
		return proc.Comm(p.Pid()) == "sleep"
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, "", proc.Comm(-1))
	assert.NotEqual(t, "", proc.Comm(os.Getpid()))
}
