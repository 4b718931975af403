package schedule

import (
	"testing"
	"time"
)

func TestTimer_PostsCallback(t *testing.T) {
	posted := make(chan func(), 1)
	timer := NewTimer(func(fn func()) { posted <- fn })

	ran := make(chan struct{}, 1)
	timer.Schedule("reset", 10*time.Millisecond, func() { ran <- struct{}{} })

	select {
	case fn := <-posted:
		fn()
	case <-time.After(2 * time.Second):
		t.Fatal("callback was never posted")
	}

	select {
	case <-ran:
	default:
		t.Fatal("posted callback did not run the task")
	}

	if timer.Pending("reset") {
		t.Error("task should not be pending after running")
	}
}

func TestTimer_CancelBeforeFire(t *testing.T) {
	posted := make(chan func(), 1)
	timer := NewTimer(func(fn func()) { posted <- fn })

	timer.Schedule("reset", 50*time.Millisecond, func() { t.Error("cancelled task ran") })
	if !timer.Cancel("reset") {
		t.Fatal("Cancel() should report a pending task")
	}

	select {
	case fn := <-posted:
		fn()
	case <-time.After(150 * time.Millisecond):
	}
}

// TestTimer_StaleCallbackDropped tests that a task replaced after its timer
// fired (but before the loop ran it) does not run
func TestTimer_StaleCallbackDropped(t *testing.T) {
	posted := make(chan func(), 2)
	timer := NewTimer(func(fn func()) { posted <- fn })

	firstRan := false
	timer.Schedule("reset", time.Millisecond, func() { firstRan = true })

	var stale func()
	select {
	case stale = <-posted:
	case <-time.After(2 * time.Second):
		t.Fatal("first callback was never posted")
	}

	secondRan := false
	timer.Schedule("reset", time.Hour, func() { secondRan = true })

	stale()
	if firstRan {
		t.Error("stale callback ran after the task was replaced")
	}
	if !timer.Pending("reset") {
		t.Error("replacement task should still be pending")
	}

	timer.Stop()
	if timer.Pending("reset") || secondRan {
		t.Error("Stop() should cancel the replacement")
	}
}
