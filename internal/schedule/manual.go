package schedule

import (
	"sort"
	"sync"
	"time"
)

type manualTask struct {
	key string
	due time.Duration
	seq uint64
	fn  func()
}

// Manual is a Scheduler driven by an explicit virtual clock.
type Manual struct {
	mu    sync.Mutex
	now   time.Duration
	seq   uint64
	tasks map[string]*manualTask
}

// NewManual creates a manual scheduler with its clock at zero.
func NewManual() *Manual {
	return &Manual{tasks: make(map[string]*manualTask)}
}

// Schedule implements Scheduler
func (m *Manual) Schedule(key string, after time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	m.tasks[key] = &manualTask{key: key, due: m.now + after, seq: m.seq, fn: fn}
}

// Cancel implements Scheduler
func (m *Manual) Cancel(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.tasks[key]
	delete(m.tasks, key)
	return ok
}

// Pending implements Scheduler
func (m *Manual) Pending(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.tasks[key]
	return ok
}

// Now returns the virtual time elapsed since creation.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward and runs every task that falls due, in due
// order (ties in scheduling order). Tasks scheduled by a running task are
// eligible in the same call if they fall due within the window.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDue(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		delete(m.tasks, next.key)
		m.now = next.due
		m.mu.Unlock()

		// Run outside the lock so tasks can reschedule
		next.fn()
	}
}

// Flush runs every pending task regardless of its due time.
func (m *Manual) Flush() {
	for {
		m.mu.Lock()
		if len(m.tasks) == 0 {
			m.mu.Unlock()
			return
		}
		latest := m.now
		for _, t := range m.tasks {
			if t.due > latest {
				latest = t.due
			}
		}
		m.mu.Unlock()
		m.Advance(latest - m.Now())
	}
}

// nextDue returns the earliest task due at or before target. Caller holds mu.
func (m *Manual) nextDue(target time.Duration) *manualTask {
	due := make([]*manualTask, 0, len(m.tasks))
	for _, t := range m.tasks {
		if t.due <= target {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].seq < due[j].seq
	})
	return due[0]
}
