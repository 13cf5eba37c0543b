//go:build linux

package runner

import (
	"bytes"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessGroupKillsBeforeReapingLeader(t *testing.T) {
	var stdout bytes.Buffer
	// The background sleep inherits stdout; cmd.Wait cannot return until it dies.
	cmd := exec.Command("sh", "-c", "sleep 30 &\necho $!\n")
	cmd.Stdout = &stdout
	group := newProcessGroup(cmd, time.Second)
	require.NoError(t, cmd.Start())

	done := make(chan error, 1)
	go func() { done <- group.wait() }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("wait blocked on a descendant holding the output pipe")
	}

	assert.Equal(t, 0, cmd.ProcessState.ExitCode())
	assert.False(t, group.cancelled())

	pid, err := strconv.Atoi(strings.TrimSpace(stdout.String()))
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return processGone(pid) }, 2*time.Second, 20*time.Millisecond)
}

func TestProcessGroupTerminateAfterReleaseIsNoop(t *testing.T) {
	cmd := exec.Command("sh", "-c", "exit 0")
	group := newProcessGroup(cmd, time.Second)
	require.NoError(t, cmd.Start())
	require.NoError(t, group.wait())

	assert.ErrorIs(t, group.terminate(), os.ErrProcessDone)
	assert.False(t, group.cancelled())
}
