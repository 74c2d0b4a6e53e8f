// Package jobmgr runs named background jobs with cancellation. A job is a
// function tied to a context; starting a second job under the same name
// fails, stopping one cancels its context. Jobs remove themselves when done.
package jobmgr

import (
	"context"
	"fmt"
	"sync"
)

// StatusReporter receives job lifecycle messages like "running:idle-leave:1"
// or "error:idle-leave:1:timeout".
type StatusReporter func(string)

type job struct {
	cancel context.CancelFunc
}

// Manager tracks running jobs by name. Safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	jobs     map[string]*job
	reporter StatusReporter
}

// NewManager creates a Manager. The reporter may be nil.
func NewManager(reporter StatusReporter) *Manager {
	return &Manager{
		jobs:     make(map[string]*job),
		reporter: reporter,
	}
}

// StartAsync launches runner in its own goroutine under the given name and
// returns immediately. Fails if a job with that name is already running.
func (m *Manager) StartAsync(name string, runner func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(context.Background())

	m.mu.Lock()
	if _, exists := m.jobs[name]; exists {
		m.mu.Unlock()
		cancel()
		return fmt.Errorf("job '%s' is already running", name)
	}
	m.jobs[name] = &job{cancel: cancel}
	m.mu.Unlock()

	go func() {
		m.report("running:" + name)
		if err := runner(ctx); err != nil {
			m.report("error:" + name + ":" + err.Error())
		} else {
			m.report("done:" + name)
		}

		cancel()
		m.mu.Lock()
		delete(m.jobs, name)
		m.mu.Unlock()
	}()

	return nil
}

// Stop cancels the named job. Returns an error when no such job runs.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[name]
	if !ok {
		return fmt.Errorf("job '%s' not running", name)
	}
	j.cancel()
	delete(m.jobs, name)
	return nil
}

// Running reports whether a job with the given name is active.
func (m *Manager) Running(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.jobs[name]
	return ok
}

func (m *Manager) report(s string) {
	if m.reporter != nil {
		m.reporter(s)
	}
}
