package form

import (
	"context"
	"testing"
	"time"

	"github.com/pakrecharge/topup/internal/payment"
	"github.com/pakrecharge/topup/internal/schedule"
)

func TestInline(t *testing.T) {
	var order []string
	Inline{}.Go(func() func() {
		order = append(order, "work")
		return func() { order = append(order, "continuation") }
	})
	Inline{}.Post(func() { order = append(order, "post") })

	want := []string{"work", "continuation", "post"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestEventLoop_ContinuationOnLoop(t *testing.T) {
	loop := NewEventLoop(4)
	defer loop.Close()

	loop.Go(func() func() {
		return func() {}
	})

	select {
	case fn := <-loop.Calls():
		fn()
	case <-time.After(time.Second):
		t.Fatal("continuation never posted")
	}
}

func TestEventLoop_PostAfterClose(t *testing.T) {
	loop := NewEventLoop(0)
	loop.Close()

	done := make(chan struct{})
	go func() {
		loop.Post(func() {})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Post blocked after Close")
	}
}

func TestApp_SubmitOnEventLoop(t *testing.T) {
	loop := NewEventLoop(8)
	defer loop.Close()

	view := NewMemoryView(DefaultCatalog())
	sched := schedule.NewManual()
	app := NewApp(Options{
		View:      view,
		Scheduler: sched,
		Executor:  loop,
		Gateway:   payment.NewSimulator(time.Millisecond, payment.Always(true)),
	})
	d := DefaultDispatcher()
	ctx := context.Background()

	for _, ev := range []Event{
		{Name: EventNetworkLogoClicked, Target: "logo-jazz"},
		{Name: EventPhoneInput, Value: "03001234567"},
		{Name: EventAmountTileClicked, Target: "tile-500"},
		{Name: EventPaymentOptionClicked, Target: "pay-card"},
		{Name: EventSubmit},
	} {
		if err := d.Dispatch(ctx, app, ev); err != nil {
			t.Fatalf("Dispatch(%s) error = %v", ev.Name, err)
		}
	}

	if view.Submit() != SubmitLoading {
		t.Fatalf("Submit = %v while payment in flight, want loading", view.Submit())
	}

	select {
	case fn := <-loop.Calls():
		fn()
	case <-time.After(time.Second):
		t.Fatal("payment continuation never posted")
	}

	if !view.Success().Visible {
		t.Error("success panel not visible after continuation ran")
	}
}
