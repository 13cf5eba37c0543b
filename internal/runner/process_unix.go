//go:build unix

package runner

import (
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// processGroup owns the process group of one child so that the child and all
// of its descendants can be signalled together.
type processGroup struct {
	cmd   *exec.Cmd
	grace time.Duration

	mu         sync.Mutex
	timer      *time.Timer
	done       bool
	terminated bool
}

func newProcessGroup(cmd *exec.Cmd, grace time.Duration) *processGroup {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
	return &processGroup{cmd: cmd, grace: grace}
}

// terminate sends SIGTERM to the group and schedules SIGKILL after the grace
// period. It is installed as exec.Cmd.Cancel.
func (g *processGroup) terminate() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.done || g.cmd.Process == nil {
		return os.ErrProcessDone
	}

	g.terminated = true
	pgid := g.cmd.Process.Pid
	if err := syscall.Kill(-pgid, syscall.SIGTERM); err != nil {
		_ = g.cmd.Process.Kill()
	}
	g.timer = time.AfterFunc(g.grace, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if !g.done {
			_ = syscall.Kill(-pgid, syscall.SIGKILL)
		}
	})
	return nil
}

// release kills whatever is left of the group so no descendant outlives the
// execution. It is called once, from wait.
func (g *processGroup) release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.done || g.cmd.Process == nil {
		return
	}
	g.done = true
	if g.timer != nil {
		g.timer.Stop()
	}
	_ = syscall.Kill(-g.cmd.Process.Pid, syscall.SIGKILL)
}

// cancelled reports whether terminate ran, i.e. the deadline fired.
func (g *processGroup) cancelled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.terminated
}

// exitCode follows the shell convention of 128+signal for signalled children.
func exitCode(state *os.ProcessState) int {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return state.ExitCode()
}
