package terminal

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/termdeck/termdeck/internal/infrastructure/monitoring"
	"github.com/termdeck/termdeck/internal/logging"
	"github.com/termdeck/termdeck/internal/shared/id"
	"github.com/termdeck/termdeck/internal/shared/validate"
)

// Registrar records spawned sessions in a durable store. Implemented by
// process.Registry; kept as an interface so manager tests run without a
// registry file.
type Registrar interface {
	RegisterSpawn(pid int, sessionID, presetName string, instanceIndex int, cwd string, addDirs []string) error
	MarkExited(pid int) error
}

// Meta carries the registry metadata for a spawn.
type Meta struct {
	PresetName    string
	InstanceIndex int
	AddDirs       []string
}

// Manager tracks live PTY sessions by session ID and keeps the process
// registry in sync with their lifecycle.
type Manager struct {
	mu       sync.RWMutex
	sessions map[id.SessionID]*Session

	registrar Registrar
	metrics   *monitoring.Metrics
	log       *logging.Logger
}

// NewManager creates a session manager. registrar and metrics may be nil.
func NewManager(registrar Registrar, metrics *monitoring.Metrics, log *logging.Logger) *Manager {
	if log == nil {
		log = logging.NewNop()
	}
	return &Manager{
		sessions:  make(map[id.SessionID]*Session),
		registrar: registrar,
		metrics:   metrics,
		log:       log,
	}
}

// Spawn starts a session, registers it, and watches it until it reaches a
// terminal state. The preset name and every directory in meta must pass
// validation before anything is executed.
func (m *Manager) Spawn(opts SpawnOptions, meta Meta) (*Session, error) {
	if meta.PresetName != "" {
		if err := validate.PresetName(meta.PresetName); err != nil {
			return nil, err
		}
	}
	for _, dir := range meta.AddDirs {
		if err := validate.Path(dir); err != nil {
			return nil, err
		}
	}

	if opts.Logger == nil {
		opts.Logger = m.log
	}

	sess, err := Spawn(opts)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()

	if m.registrar != nil {
		if err := m.registrar.RegisterSpawn(sess.PID(), sess.ID.String(), meta.PresetName, meta.InstanceIndex, opts.Dir, meta.AddDirs); err != nil {
			// The session is already running; registry trouble is
			// surfaced but does not tear it down.
			m.log.Warn("failed to register session",
				zap.String("session_id", sess.ID.String()),
				zap.Error(err),
			)
		}
	}

	if m.metrics != nil {
		m.metrics.SessionsSpawned.Inc()
		m.metrics.SessionsActive.Inc()
	}

	go m.watch(sess)

	return sess, nil
}

// watch lets the registry and metrics observe the session's exit.
func (m *Manager) watch(sess *Session) {
	<-sess.Done()

	if m.metrics != nil {
		m.metrics.SessionsActive.Dec()
		m.metrics.SessionsExited.Inc()
	}
	if m.registrar != nil {
		if err := m.registrar.MarkExited(sess.PID()); err != nil {
			m.log.Warn("failed to mark session exited",
				zap.String("session_id", sess.ID.String()),
				zap.Error(err),
			)
		}
	}

	m.log.Info("session ended",
		zap.String("session_id", sess.ID.String()),
		zap.String("state", sess.State().String()),
	)
}

// Get returns a tracked session.
func (m *Manager) Get(sessionID id.SessionID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[sessionID]
	return sess, ok
}

// List returns all tracked sessions, live and ended.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		out = append(out, sess)
	}
	return out
}

// Stop requests termination of one session.
func (m *Manager) Stop(sessionID id.SessionID) error {
	sess, ok := m.Get(sessionID)
	if !ok {
		return fmt.Errorf("session not found: %s", sessionID)
	}
	sess.Stop()
	return nil
}

// StopAll requests termination of every tracked session and waits for
// their reader loops to finish.
func (m *Manager) StopAll() {
	for _, sess := range m.List() {
		sess.Stop()
	}
	for _, sess := range m.List() {
		<-sess.Done()
	}
}
