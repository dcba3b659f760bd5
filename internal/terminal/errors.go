package terminal

import "errors"

var (
	// ErrSessionClosed is returned by Write and Resize once a session
	// has exited or been stopped.
	ErrSessionClosed = errors.New("terminal session is closed")

	// ErrSpawnFailed wraps pty allocation and exec failures.
	ErrSpawnFailed = errors.New("failed to spawn terminal session")
)
