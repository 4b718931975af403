package form

import "sync"

// Executor decides where work runs. Post runs fn on the session's loop.
// Go runs work off the loop and posts the continuation it returns.
type Executor interface {
	Post(fn func())
	Go(work func() func())
}

// Inline runs everything immediately on the calling goroutine
type Inline struct{}

// Post implements Executor
func (Inline) Post(fn func()) {
	fn()
}

// Go implements Executor
func (Inline) Go(work func() func()) {
	if cont := work(); cont != nil {
		cont()
	}
}

// EventLoop queues calls for a single consumer goroutine, which drains
// Calls and runs each function in order.
type EventLoop struct {
	calls chan func()
	done  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup
}

// NewEventLoop creates a loop with a queue of the given size
func NewEventLoop(buffer int) *EventLoop {
	return &EventLoop{
		calls: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Calls is the queue the owning goroutine drains
func (l *EventLoop) Calls() <-chan func() {
	return l.calls
}

// Done is closed once the loop is closed
func (l *EventLoop) Done() <-chan struct{} {
	return l.done
}

// Post implements Executor. Calls posted after Close are dropped.
func (l *EventLoop) Post(fn func()) {
	select {
	case <-l.done:
		return
	default:
	}

	select {
	case l.calls <- fn:
	case <-l.done:
	}
}

// Go implements Executor
func (l *EventLoop) Go(work func() func()) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		if cont := work(); cont != nil {
			l.Post(cont)
		}
	}()
}

// Close stops accepting calls. Background work still running finishes but
// its continuation is dropped.
func (l *EventLoop) Close() {
	l.once.Do(func() { close(l.done) })
}

// Wait blocks until all work started with Go has returned
func (l *EventLoop) Wait() {
	l.wg.Wait()
}
