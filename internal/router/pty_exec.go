package router

import (
	"fmt"

	"shellgrid/internal/ptysession"
)

// RunPTY attaches a fresh PTY session to resolved's single stage, per
// spec.md's PTY execution path. The caller (the pane) owns the returned
// Session: it must Poll it each frame and route EventData bytes into the
// grid, and Close it on pane teardown or command cancellation.
func RunPTY(resolved Resolved, cwd string, env []string, rows, cols int) (*ptysession.Session, error) {
	if len(resolved.Argv) == 0 {
		return nil, fmt.Errorf("router: empty command")
	}
	return ptysession.Spawn(resolved.Argv[0], resolved.Argv[1:], cwd, env, rows, cols)
}
