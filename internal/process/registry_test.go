package process

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := Load(filepath.Join(t.TempDir(), "processes.json"), nil)
	require.NoError(t, err)
	return reg
}

func TestRegistryStartsEmpty(t *testing.T) {
	reg := testRegistry(t)
	assert.Empty(t, reg.List())
}

func TestRegistryRegisterAndList(t *testing.T) {
	reg := testRegistry(t)

	require.NoError(t, reg.Register(Record{
		PID:       12345,
		SessionID: "sess-1",
		Cwd:       "/tmp/project",
		AddDirs:   []string{"/tmp/lib"},
	}))

	records := reg.List()
	require.Len(t, records, 1)
	assert.Equal(t, 12345, records[0].PID)
	assert.Equal(t, StatusRunning, records[0].Status)
	assert.False(t, records[0].StartedAt.IsZero())
}

func TestRegistryRegisterReplacesByPID(t *testing.T) {
	reg := testRegistry(t)

	require.NoError(t, reg.Register(Record{PID: 100, SessionID: "old", Cwd: "/a"}))
	require.NoError(t, reg.Register(Record{PID: 100, SessionID: "new", Cwd: "/b"}))

	records := reg.List()
	require.Len(t, records, 1)
	assert.Equal(t, "new", records[0].SessionID)
	assert.Equal(t, "/b", records[0].Cwd)
}

func TestRegistryUnregister(t *testing.T) {
	reg := testRegistry(t)

	require.NoError(t, reg.Register(Record{PID: 1, SessionID: "a"}))
	require.NoError(t, reg.Register(Record{PID: 2, SessionID: "b"}))
	require.NoError(t, reg.Unregister(1))

	records := reg.List()
	require.Len(t, records, 1)
	assert.Equal(t, 2, records[0].PID)
}

func TestRegistryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processes.json")

	reg, err := Load(path, nil)
	require.NoError(t, err)

	started := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	for i := 1; i <= 3; i++ {
		require.NoError(t, reg.Register(Record{
			PID:           1000 + i,
			SessionID:     "sess",
			PresetName:    "demo",
			InstanceIndex: i,
			Cwd:           "/tmp",
			AddDirs:       []string{"/tmp/extra"},
			StartedAt:     started,
			Status:        StatusRunning,
		}))
	}

	reloaded, err := Load(path, nil)
	require.NoError(t, err)

	records := reloaded.List()
	require.Len(t, records, 3)
	assert.Equal(t, reg.List(), records)
	assert.True(t, records[0].StartedAt.Equal(started))
}

func TestLoadDeduplicatesByPID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processes.json")
	doc := `{"processes":[
		{"pid":5,"session_id":"stale"},
		{"pid":6,"session_id":"other"},
		{"pid":5,"session_id":"fresh"}
	]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	reg, err := Load(path, nil)
	require.NoError(t, err)

	require.Len(t, reg.List(), 2)
	rec, ok := reg.FindByPID(5)
	require.True(t, ok)
	assert.Equal(t, "fresh", rec.SessionID)
}

func TestRegistryCorruptDocumentResetsToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processes.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	reg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Empty(t, reg.List())
}

func TestRegistryUpdateStatus(t *testing.T) {
	reg := testRegistry(t)
	require.NoError(t, reg.Register(Record{PID: 7, SessionID: "s"}))

	require.NoError(t, reg.UpdateStatus(7, StatusExited))
	rec, ok := reg.FindByPID(7)
	require.True(t, ok)
	assert.Equal(t, StatusExited, rec.Status)

	// Unknown pid is a no-op.
	require.NoError(t, reg.UpdateStatus(404, StatusExited))
}

func TestRegistryFindBySession(t *testing.T) {
	reg := testRegistry(t)
	require.NoError(t, reg.Register(Record{PID: 11, SessionID: "wanted"}))

	rec, ok := reg.FindBySession("wanted")
	require.True(t, ok)
	assert.Equal(t, 11, rec.PID)

	_, ok = reg.FindBySession("missing")
	assert.False(t, ok)
}

func TestRegistryCleanupDead(t *testing.T) {
	reg := testRegistry(t)

	// The test process itself is alive; pid 999999 is far above any
	// default pid_max.
	require.NoError(t, reg.Register(Record{PID: os.Getpid(), SessionID: "live"}))
	require.NoError(t, reg.Register(Record{PID: 999999, SessionID: "dead"}))

	removed, err := reg.CleanupDead()
	require.NoError(t, err)

	require.Len(t, removed, 1)
	assert.Equal(t, "dead", removed[0].SessionID)

	records := reg.List()
	require.Len(t, records, 1)
	assert.Equal(t, "live", records[0].SessionID)
}

func TestRegistryCleanupDeadEmptyIsNoop(t *testing.T) {
	reg := testRegistry(t)
	removed, err := reg.CleanupDead()
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestAlive(t *testing.T) {
	assert.True(t, Alive(os.Getpid()))
	assert.False(t, Alive(999999))
	assert.False(t, Alive(0))
	assert.False(t, Alive(-5))
}
