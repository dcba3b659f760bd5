package terminal

import "sync"

// fakeRegistrar records the registrar calls the manager makes.
type fakeRegistrar struct {
	mu      sync.Mutex
	regPID  int
	exitPID int
}

func (f *fakeRegistrar) RegisterSpawn(pid int, sessionID, presetName string, instanceIndex int, cwd string, addDirs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regPID = pid
	return nil
}

func (f *fakeRegistrar) MarkExited(pid int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exitPID = pid
	return nil
}

func (f *fakeRegistrar) registered() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.regPID
}

func (f *fakeRegistrar) exited() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exitPID
}
