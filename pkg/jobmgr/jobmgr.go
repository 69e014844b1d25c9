// Package jobmgr runs named background loops and deferred one-shots with
// cancellation and in-memory tracking.
//
// Typical usage:
//
//	jm := jobmgr.NewManager(func(msg string) {
//	    log.Println("JOB:", msg)
//	})
//
//	err := jm.StartLoop("troll-loop", func(ctx context.Context) error {
//	    // run until ctx is cancelled
//	    return nil
//	})
//
//	jm.After("nick-revert", 10*time.Minute, func() { ... })
//
//	// on shutdown...
//	jm.StopAll()
//
// The package is intentionally minimal: no retry logic, no workers, no
// persistence. Everything is cancelled together by StopAll.
package jobmgr

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Job represents a running unit of work.
// Jobs are added and removed by Manager automatically.
type Job struct {
	Name   string
	Cancel context.CancelFunc
}

// StatusReporter receives lifecycle events for jobs.
// Example messages:
//
//	running:troll-loop
//	error:troll-loop:connection reset
//	done:troll-loop
type StatusReporter func(string)

// Manager orchestrates starting, stopping and tracking jobs.
// It is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	jobs     map[string]*Job
	seq      uint64
	root     context.Context
	shutdown context.CancelFunc
	Reporter StatusReporter
}

// NewManager creates a new Manager.
// The reporter callback may be nil.
func NewManager(reporter StatusReporter) *Manager {
	root, shutdown := context.WithCancel(context.Background())
	return &Manager{
		jobs:     make(map[string]*Job),
		root:     root,
		shutdown: shutdown,
		Reporter: reporter,
	}
}

// StartLoop runs a long-lived job in a separate goroutine and returns
// immediately. If a job with the same name is already running, an error is
// returned. Jobs are removed automatically after completion.
func (m *Manager) StartLoop(name string, runner func(ctx context.Context) error) error {
	m.mu.Lock()
	if _, exists := m.jobs[name]; exists {
		m.mu.Unlock()
		return fmt.Errorf("job '%s' is already running", name)
	}
	m.mu.Unlock()

	ctx, cancel := context.WithCancel(m.root)
	m.track(name, &Job{Name: name, Cancel: cancel})

	go func() {
		m.report("running:" + name)

		if err := runner(ctx); err != nil && ctx.Err() == nil {
			m.report("error:" + name + ":" + err.Error())
		} else {
			m.report("done:" + name)
		}
		m.untrack(name)
	}()

	return nil
}

// After schedules fn to run once after d. Unlike loops, names need not be
// unique; each call is tracked under a fresh internal id so overlapping
// timers with the same purpose coexist. The timer is dropped without
// firing when the manager shuts down first.
func (m *Manager) After(name string, d time.Duration, fn func()) {
	m.mu.Lock()
	m.seq++
	id := name + "#" + strconv.FormatUint(m.seq, 10)
	m.mu.Unlock()

	ctx, cancel := context.WithCancel(m.root)
	m.track(id, &Job{Name: id, Cancel: cancel})

	go func() {
		defer m.untrack(id)
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
		case <-t.C:
			fn()
			m.report("done:" + id)
		}
	}()
}

// Stop cancels a running job by name.
// If the job is not running, an error is returned.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[name]
	if !ok {
		return fmt.Errorf("job '%s' not running", name)
	}

	job.Cancel()
	delete(m.jobs, name)
	return nil
}

// StopAll cancels every running loop and pending timer.
func (m *Manager) StopAll() {
	m.shutdown()

	m.mu.Lock()
	defer m.mu.Unlock()
	for name, job := range m.jobs {
		job.Cancel()
		delete(m.jobs, name)
	}
}

// List returns the list of active job names.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.jobs))
	for k := range m.jobs {
		out = append(out, k)
	}
	return out
}

// Status returns a human-readable summary of active jobs.
// Example:
//
//	"Running jobs: troll-loop, dead-chat"
//
// If none are running: "No jobs are running."
func (m *Manager) Status() string {
	active := m.List()
	if len(active) == 0 {
		return "No jobs are running."
	}
	return fmt.Sprintf("Running jobs: %s", strings.Join(active, ", "))
}

func (m *Manager) track(id string, j *Job) {
	m.mu.Lock()
	m.jobs[id] = j
	m.mu.Unlock()
}

func (m *Manager) untrack(id string) {
	m.mu.Lock()
	delete(m.jobs, id)
	m.mu.Unlock()
}

// report delivers lifecycle messages to the reporter if present.
func (m *Manager) report(s string) {
	if m.Reporter != nil {
		m.Reporter(s)
	}
}
