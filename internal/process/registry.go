package process

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/termdeck/termdeck/internal/logging"
)

// ErrRegistryIO wraps failures to read or write the registry document.
// Surfaced to callers but never fatal to the running application.
var ErrRegistryIO = errors.New("registry io failure")

// Status is the recorded lifecycle state of a managed process.
type Status string

const (
	StatusRunning Status = "running"
	StatusExited  Status = "exited"
	StatusUnknown Status = "unknown"
)

// Record describes one spawned agent process. Identity key is PID.
type Record struct {
	PID           int       `json:"pid"`
	SessionID     string    `json:"session_id"`
	PresetName    string    `json:"preset_name"`
	InstanceIndex int       `json:"instance_index"`
	Cwd           string    `json:"cwd"`
	AddDirs       []string  `json:"add_dirs"`
	StartedAt     time.Time `json:"started_at"`
	Status        Status    `json:"status"`
}

// document is the persisted registry schema.
type document struct {
	Processes []Record `json:"processes"`
}

// Registry is the durable store of spawned processes. The document is
// loaded once at startup and rewritten after every mutation; all
// mutations are serialized through the internal mutex, making the
// Registry the single logical owner of the file.
type Registry struct {
	mu      sync.Mutex
	path    string
	records []Record
	log     *logging.Logger
}

// Load reads the registry document at path. A missing file yields an
// empty registry. A malformed document is logged and reset to empty:
// losing stale records is acceptable, crashing on startup is not. Only
// an I/O failure reading an existing file is returned as an error, and
// even then the returned registry is usable.
func Load(path string, log *logging.Logger) (*Registry, error) {
	if log == nil {
		log = logging.NewNop()
	}
	r := &Registry{path: path, log: log}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return r, fmt.Errorf("%w: reading %s: %v", ErrRegistryIO, path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Warn("corrupted process registry, resetting",
			zap.String("path", path),
			zap.Error(err),
		)
		return r, nil
	}

	// A document edited by another writer can carry duplicate pids;
	// keep only the last entry per pid so the one-record-per-pid
	// invariant holds for foreign documents too.
	seen := make(map[int]int, len(doc.Processes))
	for _, rec := range doc.Processes {
		if i, ok := seen[rec.PID]; ok {
			r.records[i] = rec
			continue
		}
		seen[rec.PID] = len(r.records)
		r.records = append(r.records, rec)
	}
	return r, nil
}

// save rewrites the document. Callers hold r.mu.
func (r *Registry) save() error {
	data, err := json.MarshalIndent(document{Processes: r.records}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRegistryIO, err)
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrRegistryIO, err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrRegistryIO, err)
	}
	return nil
}

// Register inserts or replaces the record with the same PID, then
// persists. A repeated PID replaces the prior record in place, so the
// record count is unchanged.
func (r *Registry) Register(rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now().UTC()
	}
	if rec.Status == "" {
		rec.Status = StatusRunning
	}

	replaced := false
	for i := range r.records {
		if r.records[i].PID == rec.PID {
			r.records[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		r.records = append(r.records, rec)
	}

	return r.save()
}

// RegisterSpawn records a freshly spawned session. Implements the
// terminal package's Registrar.
func (r *Registry) RegisterSpawn(pid int, sessionID, presetName string, instanceIndex int, cwd string, addDirs []string) error {
	return r.Register(Record{
		PID:           pid,
		SessionID:     sessionID,
		PresetName:    presetName,
		InstanceIndex: instanceIndex,
		Cwd:           cwd,
		AddDirs:       addDirs,
	})
}

// MarkExited flips a record's status to exited. Implements the terminal
// package's Registrar.
func (r *Registry) MarkExited(pid int) error {
	return r.UpdateStatus(pid, StatusExited)
}

// Unregister removes the record with the given PID, then persists.
func (r *Registry) Unregister(pid int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.records[:0]
	for _, rec := range r.records {
		if rec.PID != pid {
			kept = append(kept, rec)
		}
	}
	r.records = kept

	return r.save()
}

// List returns a copy of all records. Mutating the result does not touch
// registry state.
func (r *Registry) List() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// FindByPID returns the record for a PID.
func (r *Registry) FindByPID(pid int) (Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.records {
		if rec.PID == pid {
			return rec, true
		}
	}
	return Record{}, false
}

// FindBySession returns the record for a session ID.
func (r *Registry) FindBySession(sessionID string) (Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.records {
		if rec.SessionID == sessionID {
			return rec, true
		}
	}
	return Record{}, false
}

// UpdateStatus sets the status of the record with the given PID and
// persists. Unknown PIDs are a no-op.
func (r *Registry) UpdateStatus(pid int, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.records {
		if r.records[i].PID == pid {
			r.records[i].Status = status
			return r.save()
		}
	}
	return nil
}

// CleanupDead removes records whose process no longer exists and returns
// them so callers can react. A liveness check that cannot be performed
// counts as alive: dropping a live session on a transient lookup error
// is worse than keeping a dead record one sweep longer. PID reuse is a
// known hazard this sweep does not resolve.
func (r *Registry) CleanupDead() ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var dead []Record
	kept := r.records[:0]
	for _, rec := range r.records {
		if Alive(rec.PID) {
			kept = append(kept, rec)
		} else {
			dead = append(dead, rec)
		}
	}
	r.records = kept

	if len(dead) == 0 {
		return nil, nil
	}

	r.log.Info("removed dead process records", zap.Int("count", len(dead)))
	return dead, r.save()
}

// Len returns the number of records.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}
