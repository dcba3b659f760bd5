package process

import (
	"errors"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// Alive reports whether pid refers to a live process, using signal 0
// against the OS process table. Policy for ambiguous results: EPERM
// means the process exists but belongs to someone else, so it is alive;
// any lookup failure other than ESRCH is treated as alive rather than
// risking the removal of a live session.
func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return true
	}

	err = proc.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	if errors.Is(err, os.ErrProcessDone) {
		return false
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case unix.ESRCH:
			return false
		case unix.EPERM:
			return true
		}
	}
	return true
}
