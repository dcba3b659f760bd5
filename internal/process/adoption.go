package process

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/procfs"
	"go.uber.org/zap"

	"github.com/termdeck/termdeck/internal/infrastructure/monitoring"
	"github.com/termdeck/termdeck/internal/logging"
	"github.com/termdeck/termdeck/internal/shared/paths"
)

// SessionState is one entry of the external session-state directory: a
// file named <session-id>.state whose entire content is a status token.
type SessionState struct {
	ID     string
	Status string
}

// Orphan is a session whose external state says it is live but which the
// registry does not currently track. PID and Cwd are filled in when a
// running process carrying the session ID is found in the process table;
// both stay zero when no process is left and the session can only be
// resumed, not adopted in place.
type Orphan struct {
	SessionID string
	Status    string
	PID       int
	Cwd       string
}

// SessionProcess is a live process carrying a session ID on its command
// line.
type SessionProcess struct {
	PID int
	Cwd string
}

// adoptable is the set of status tokens that mark a session as live.
// Anything else (completed, unrecognized) is excluded unconditionally.
var adoptable = map[string]bool{
	"active":  true,
	"idle":    true,
	"working": true,
}

// ScanSessionStates lists the session-state directory. A missing
// directory yields zero results, not an error; entries without the
// .state suffix are ignored; an unreadable file scans as "unknown".
func ScanSessionStates(dir string) ([]SessionState, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var states []SessionState
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, paths.StateSuffix) {
			continue
		}
		sessionID := strings.TrimSuffix(name, paths.StateSuffix)
		if sessionID == "" {
			continue
		}

		status := "unknown"
		if data, err := os.ReadFile(filepath.Join(dir, name)); err == nil {
			status = strings.TrimSpace(string(data))
		}

		states = append(states, SessionState{ID: sessionID, Status: status})
	}
	return states, nil
}

// ScanSessionProcesses indexes the OS process table by the session ID
// found after a --session-id or --resume argument, so orphans can be
// traced back to a still-running process. Entries that vanish or cannot
// be read mid-scan are skipped.
func ScanSessionProcesses() map[string]SessionProcess {
	procs, err := procfs.AllProcs()
	if err != nil {
		return nil
	}

	found := make(map[string]SessionProcess)
	for _, p := range procs {
		args, err := p.CmdLine()
		if err != nil {
			continue
		}
		for i := 0; i+1 < len(args); i++ {
			if args[i] != "--session-id" && args[i] != "--resume" {
				continue
			}
			cwd, _ := p.Cwd()
			found[args[i+1]] = SessionProcess{PID: p.PID, Cwd: cwd}
			break
		}
	}
	return found
}

// ComputeOrphans returns the scanned sessions whose status token marks
// them live and which have no live registry record. A registry record
// whose process is dead does not block adoption: the registry entry is
// stale, the external session is not. procs (from ScanSessionProcesses)
// attaches the pid and working directory of a running process carrying
// the session ID; nil is accepted.
func ComputeOrphans(states []SessionState, records []Record, procs map[string]SessionProcess) []Orphan {
	live := make(map[string]bool, len(records))
	for _, rec := range records {
		if Alive(rec.PID) {
			live[rec.SessionID] = true
		}
	}

	var orphans []Orphan
	for _, state := range states {
		if !adoptable[state.Status] || live[state.ID] {
			continue
		}
		o := Orphan{SessionID: state.ID, Status: state.Status}
		if sp, ok := procs[state.ID]; ok {
			o.PID = sp.PID
			o.Cwd = sp.Cwd
		}
		orphans = append(orphans, o)
	}
	return orphans
}

// Watcher re-scans the session-state directory whenever it changes, with
// a periodic ticker as fallback for filesystems where notifications are
// unreliable. Results are delivered on Orphans.
type Watcher struct {
	dir      string
	interval time.Duration
	registry *Registry
	metrics  *monitoring.Metrics
	log      *logging.Logger

	orphans chan []Orphan
}

// NewWatcher creates an adoption watcher. metrics may be nil.
func NewWatcher(dir string, interval time.Duration, registry *Registry, metrics *monitoring.Metrics, log *logging.Logger) *Watcher {
	if log == nil {
		log = logging.NewNop()
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Watcher{
		dir:      dir,
		interval: interval,
		registry: registry,
		metrics:  metrics,
		log:      log,
		orphans:  make(chan []Orphan, 1),
	}
}

// Orphans delivers the result of each scan. Slow consumers only ever see
// the most recent result.
func (w *Watcher) Orphans() <-chan []Orphan {
	return w.orphans
}

// Run scans until the context is cancelled. It performs one scan up
// front so consumers see the initial state without waiting a full tick.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	// The directory may not exist yet; the ticker covers that case and
	// we retry the watch on each tick.
	watching := w.tryWatch(fsw)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.scan()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !watching {
				watching = w.tryWatch(fsw)
			}
			w.scan()
		case _, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.scan()
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("session-state watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) tryWatch(fsw *fsnotify.Watcher) bool {
	if err := fsw.Add(w.dir); err != nil {
		return false
	}
	return true
}

func (w *Watcher) scan() {
	states, err := ScanSessionStates(w.dir)
	if err != nil {
		w.log.Warn("session-state scan failed", zap.String("dir", w.dir), zap.Error(err))
		return
	}

	orphans := ComputeOrphans(states, w.registry.List(), ScanSessionProcesses())

	if w.metrics != nil {
		w.metrics.AdoptionScans.Inc()
		w.metrics.OrphansFound.Set(float64(len(orphans)))
	}

	// Replace a pending result rather than blocking the scan loop.
	select {
	case <-w.orphans:
	default:
	}
	w.orphans <- orphans
}
