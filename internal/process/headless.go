package process

import (
	"fmt"
	"os/exec"

	"github.com/termdeck/termdeck/internal/shared/id"
	"github.com/termdeck/termdeck/internal/shared/validate"
)

// Handle is a headless agent instance running detached from any
// terminal. stdin, stdout and stderr point at the null device; the
// session is observed through its session-state file and the registry.
type Handle struct {
	SessionID id.SessionID

	cmd *exec.Cmd
}

// SpawnHeadless starts a background agent instance in cwd. Every path is
// validated before the argument vector is built; extraArgs come from a
// preset whose name already passed validation.
func SpawnHeadless(agent, cwd string, addDirs, extraArgs []string) (*Handle, error) {
	if err := validate.Path(cwd); err != nil {
		return nil, err
	}
	for _, dir := range addDirs {
		if err := validate.Path(dir); err != nil {
			return nil, err
		}
	}

	sessionID := id.NewSessionID()

	var args []string
	for _, dir := range addDirs {
		args = append(args, "--add-dir", dir)
	}
	args = append(args, extraArgs...)
	args = append(args, "--session-id", sessionID.String())

	cmd := exec.Command(agent, args...)
	cmd.Dir = cwd
	// Stdin, Stdout and Stderr left nil: exec attaches the null device.

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to spawn headless agent: %w", err)
	}

	// Reap the child when it exits so liveness checks see it die.
	go cmd.Wait()

	return &Handle{SessionID: sessionID, cmd: cmd}, nil
}

// PID returns the process ID of the headless instance.
func (h *Handle) PID() int {
	if h.cmd.Process == nil {
		return 0
	}
	return h.cmd.Process.Pid
}

// Alive reports whether the instance is still running.
func (h *Handle) Alive() bool {
	return Alive(h.PID())
}

// Terminate kills the headless instance.
func (h *Handle) Terminate() error {
	if h.cmd.Process == nil {
		return nil
	}
	return h.cmd.Process.Kill()
}
