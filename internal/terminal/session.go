package terminal

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
	"go.uber.org/zap"

	"github.com/termdeck/termdeck/internal/logging"
	"github.com/termdeck/termdeck/internal/shared/id"
	"github.com/termdeck/termdeck/internal/shared/validate"
)

// State is a session lifecycle state. Transitions are irreversible:
// Created -> Running -> Exited or Stopped, both absorbing.
type State int

const (
	StateCreated State = iota
	StateRunning
	StateExited
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateExited:
		return "exited"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// terminal reports whether the state is absorbing.
func (s State) terminal() bool {
	return s == StateExited || s == StateStopped
}

// SpawnOptions configures a new PTY session.
type SpawnOptions struct {
	// Command is the argv of the child process. Every element must
	// already have passed validation where it originates from user
	// input.
	Command []string
	// Dir is the child's working directory; validated here.
	Dir string
	// Cols and Rows are the initial window size. Zero values default
	// to 80x24.
	Cols int
	Rows int
	// Env entries are appended to the inherited environment.
	Env []string

	SessionID id.SessionID
	Logger    *logging.Logger
}

// Session owns one pseudo-terminal pair, the child process attached to
// its slave side, and the emulator fed by a single background reader
// goroutine.
type Session struct {
	ID        id.SessionID
	StartedAt time.Time

	cmd  *exec.Cmd
	ptmx *os.File

	mu    sync.Mutex
	emu   *Emulator
	state State

	// done is closed after the reader loop has terminated and the
	// child has been reaped.
	done chan struct{}

	log *logging.Logger
}

// Spawn allocates a pseudo-terminal, starts the child process attached to
// its slave side at the given size, and launches the reader loop.
func Spawn(opts SpawnOptions) (*Session, error) {
	if len(opts.Command) == 0 {
		return nil, fmt.Errorf("%w: empty command", ErrSpawnFailed)
	}
	if opts.Dir != "" {
		if err := validate.Path(opts.Dir); err != nil {
			return nil, err
		}
	}
	if opts.Cols <= 0 {
		opts.Cols = 80
	}
	if opts.Rows <= 0 {
		opts.Rows = 24
	}
	if opts.SessionID == "" {
		opts.SessionID = id.NewSessionID()
	}
	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}

	cmd := exec.Command(opts.Command[0], opts.Command[1:]...)
	cmd.Dir = opts.Dir
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")
	cmd.Env = append(cmd.Env, opts.Env...)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(opts.Rows),
		Cols: uint16(opts.Cols),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSpawnFailed, err)
	}

	s := &Session{
		ID:        opts.SessionID,
		StartedAt: time.Now(),
		cmd:       cmd,
		ptmx:      ptmx,
		emu:       NewEmulator(opts.Cols, opts.Rows),
		state:     StateRunning,
		done:      make(chan struct{}),
		log:       log,
	}

	go s.readLoop()

	log.Debug("session spawned",
		zap.String("session_id", s.ID.String()),
		zap.Int("pid", s.PID()),
		zap.String("dir", opts.Dir),
	)

	return s, nil
}

// readLoop is the only writer of the emulator. It holds the session lock
// just long enough to parse each chunk, so Write and Snapshot callers are
// never blocked behind a pty read.
func (s *Session) readLoop() {
	buf := make([]byte, 4096)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			s.mu.Lock()
			s.emu.Feed(buf[:n])
			s.mu.Unlock()
		}
		if err != nil {
			break
		}
	}

	s.mu.Lock()
	if !s.state.terminal() {
		s.state = StateExited
	}
	s.mu.Unlock()

	s.ptmx.Close()
	s.cmd.Wait()
	close(s.done)

	s.log.Debug("session reader finished", zap.String("session_id", s.ID.String()))
}

// Write forwards raw bytes (keystrokes) to the pty master.
func (s *Session) Write(p []byte) (int, error) {
	s.mu.Lock()
	closed := s.state.terminal()
	s.mu.Unlock()
	if closed {
		return 0, ErrSessionClosed
	}
	return s.ptmx.Write(p)
}

// Resize propagates the new window size to the pty, so the child sees
// SIGWINCH, and to the emulator grid. Content is clipped or padded, never
// reflowed.
func (s *Session) Resize(cols, rows int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.terminal() {
		return ErrSessionClosed
	}

	if err := pty.Setsize(s.ptmx, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	}); err != nil {
		return fmt.Errorf("pty resize: %w", err)
	}

	s.emu.Resize(cols, rows)
	return nil
}

// Snapshot returns an immutable copy of the current grid, cursor and
// styles. Safe to call concurrently with the reader loop, and it keeps
// returning the last captured state after the session ends.
func (s *Session) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.emu.Snapshot()
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// PID returns the child process ID, or 0 before exec completed.
func (s *Session) PID() int {
	if s.cmd.Process == nil {
		return 0
	}
	return s.cmd.Process.Pid
}

// Done is closed once the reader loop has terminated and the child has
// been reaped.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Stop requests cooperative termination: the state flips to Stopped, the
// child receives SIGINT, and the reader loop winds down on EOF. Idempotent.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.state.terminal() {
		s.mu.Unlock()
		return
	}
	s.state = StateStopped
	s.mu.Unlock()

	if s.cmd.Process != nil {
		// Interrupt rather than kill: the agent flushes session state
		// on SIGINT.
		s.cmd.Process.Signal(syscall.SIGINT)
	}

	s.log.Debug("session stop requested", zap.String("session_id", s.ID.String()))
}
