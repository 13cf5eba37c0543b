//go:build windows

package runner

import (
	"os"
	"os/exec"
	"sync/atomic"
	"time"
)

type processGroup struct {
	cmd        *exec.Cmd
	terminated atomic.Bool
}

func newProcessGroup(cmd *exec.Cmd, _ time.Duration) *processGroup {
	return &processGroup{cmd: cmd}
}

func (g *processGroup) terminate() error {
	if g.cmd.Process == nil {
		return os.ErrProcessDone
	}
	g.terminated.Store(true)
	return g.cmd.Process.Kill()
}

func (g *processGroup) wait() error {
	return g.cmd.Wait()
}

func (g *processGroup) cancelled() bool {
	return g.terminated.Load()
}

func exitCode(state *os.ProcessState) int {
	return state.ExitCode()
}
