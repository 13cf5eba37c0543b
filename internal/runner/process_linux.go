//go:build linux

package runner

import (
	"errors"

	"golang.org/x/sys/unix"
)

// wait blocks until the group leader exits, kills the rest of the group and
// then reaps the leader. The leader stays a zombie until cmd.Wait, so its pid
// (the pgid) cannot be reused while the group is signalled.
func (g *processGroup) wait() error {
	var info unix.Siginfo
	for {
		err := unix.Waitid(unix.P_PID, g.cmd.Process.Pid, &info, unix.WEXITED|unix.WNOWAIT, nil)
		if !errors.Is(err, unix.EINTR) {
			break
		}
	}
	g.release()
	return g.cmd.Wait()
}
