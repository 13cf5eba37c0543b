//go:build unix && !linux

package runner

// wait reaps the leader and then kills the rest of the group. Without
// waitid(WNOWAIT) the pgid is free between the two steps; reuse needs the pid
// space to wrap within that window.
func (g *processGroup) wait() error {
	err := g.cmd.Wait()
	g.release()
	return err
}
