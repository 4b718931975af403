package form

import (
	"context"
	"testing"

	"github.com/pakrecharge/topup/internal/payment"
	"github.com/pakrecharge/topup/internal/schedule"
	"github.com/pakrecharge/topup/internal/topup"
)

type testSession struct {
	app   *App
	view  *MemoryView
	sched *schedule.Manual
	d     *Dispatcher
}

func newTestSession(t *testing.T, succeed bool) *testSession {
	t.Helper()

	view := NewMemoryView(DefaultCatalog())
	sched := schedule.NewManual()
	app := NewApp(Options{
		View:      view,
		Scheduler: sched,
		Gateway:   payment.NewSimulator(0, payment.Always(succeed)),
	})
	return &testSession{app: app, view: view, sched: sched, d: DefaultDispatcher()}
}

func (s *testSession) dispatch(t *testing.T, ev Event) error {
	t.Helper()
	return s.d.Dispatch(context.Background(), s.app, ev)
}

func (s *testSession) mustDispatch(t *testing.T, ev Event) {
	t.Helper()
	if err := s.dispatch(t, ev); err != nil {
		t.Fatalf("Dispatch(%s) error = %v", ev.Name, err)
	}
}

// fillValid enters the canonical valid form: jazz, 0300-1234567, Rs. 500, easypaisa
func (s *testSession) fillValid(t *testing.T) {
	t.Helper()
	s.mustDispatch(t, Event{Name: EventNetworkLogoClicked, Target: "logo-jazz"})
	s.mustDispatch(t, Event{Name: EventPhoneInput, Value: "03001234567"})
	s.mustDispatch(t, Event{Name: EventAmountTileClicked, Target: "tile-500"})
	s.mustDispatch(t, Event{Name: EventPaymentOptionClicked, Target: "pay-easypaisa"})
}

type recordingObserver struct {
	invalid   int
	completed []*Outcome
}

func (r *recordingObserver) Invalid(topup.ValidationErrors) { r.invalid++ }
func (r *recordingObserver) Completed(out *Outcome) {
	r.completed = append(r.completed, out)
}
