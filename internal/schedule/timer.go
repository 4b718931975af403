package schedule

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pakrecharge/topup/internal/logging"
)

type timerTask struct {
	gen   uint64
	timer *time.Timer
}

// Timer is a wall-clock Scheduler. When a timer fires, the callback is handed
// to post, which is expected to run it on the owner's event loop. A task that
// was cancelled or replaced after its timer fired is dropped when it reaches
// the loop.
type Timer struct {
	mu    sync.Mutex
	post  func(func())
	gen   uint64
	tasks map[string]*timerTask
}

// NewTimer creates a Timer that delivers callbacks through post.
// If post is nil, callbacks run on the timer goroutine.
func NewTimer(post func(func())) *Timer {
	if post == nil {
		post = func(fn func()) { fn() }
	}
	return &Timer{
		post:  post,
		tasks: make(map[string]*timerTask),
	}
}

// Schedule implements Scheduler
func (t *Timer) Schedule(key string, after time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.tasks[key]; ok {
		existing.timer.Stop()
	}

	t.gen++
	gen := t.gen
	task := &timerTask{gen: gen}
	task.timer = time.AfterFunc(after, func() {
		t.post(func() {
			if !t.claim(key, gen) {
				logging.Debug("Dropped stale scheduled task", zap.String("key", key))
				return
			}
			fn()
		})
	})
	t.tasks[key] = task
}

// claim removes the task if it is still the current one for key.
func (t *Timer) claim(key string, gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	task, ok := t.tasks[key]
	if !ok || task.gen != gen {
		return false
	}
	delete(t.tasks, key)
	return true
}

// Cancel implements Scheduler
func (t *Timer) Cancel(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	task, ok := t.tasks[key]
	if !ok {
		return false
	}
	task.timer.Stop()
	delete(t.tasks, key)
	return true
}

// Pending implements Scheduler
func (t *Timer) Pending(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.tasks[key]
	return ok
}

// Stop cancels every pending task.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for key, task := range t.tasks {
		task.timer.Stop()
		delete(t.tasks, key)
	}
}
