package form

import (
	"context"
	"testing"

	"github.com/pakrecharge/topup/internal/payment"
	"github.com/pakrecharge/topup/internal/schedule"
	"github.com/pakrecharge/topup/internal/topup"
)

func TestSubmit_EmptyForm(t *testing.T) {
	s := newTestSession(t, true)

	err := s.dispatch(t, Event{Name: EventSubmit})
	if !topup.IsValidationError(err) {
		t.Fatalf("submit error = %v, want validation error", err)
	}

	snap, _ := s.app.Snapshot()
	want := map[topup.Field]string{
		topup.FieldNetwork:       topup.MsgNetworkRequired,
		topup.FieldPhone:         topup.MsgPhoneRequired,
		topup.FieldAmount:        topup.MsgAmountRequired,
		topup.FieldPaymentMethod: topup.MsgPaymentRequired,
	}
	if len(snap.Errors) != len(want) {
		t.Fatalf("errors = %v, want %d entries", snap.Errors, len(want))
	}
	for field, msg := range want {
		if snap.Errors[field] != msg {
			t.Errorf("error for %s = %q, want %q", field, snap.Errors[field], msg)
		}
	}
	if s.app.Submission.Phase() != PhaseIdle {
		t.Errorf("Phase = %v, want idle", s.app.Submission.Phase())
	}
	if snap.Submit != SubmitReady {
		t.Errorf("Submit = %v, want ready", snap.Submit)
	}
}

func TestSubmit_ForcedSuccess(t *testing.T) {
	s := newTestSession(t, true)
	s.fillValid(t)

	s.mustDispatch(t, Event{Name: EventSubmit})

	snap, _ := s.app.Snapshot()
	if !snap.Success.Visible {
		t.Fatal("success panel not visible")
	}
	if snap.Success.Phone != "03001234567" {
		t.Errorf("success phone = %q", snap.Success.Phone)
	}
	if snap.Success.Amount != "Rs. 500" {
		t.Errorf("success amount = %q, want Rs. 500", snap.Success.Amount)
	}
	if snap.Reveal != RevealSuccess {
		t.Errorf("Reveal = %q, want success", snap.Reveal)
	}
	if snap.Phase != PhaseSucceeded.String() {
		t.Errorf("Phase = %q, want succeeded", snap.Phase)
	}
	if !s.sched.Pending(KeyReset) {
		t.Fatal("reset not scheduled")
	}

	s.sched.Advance(s.app.Timing.Reset - 1)
	if !s.view.Success().Visible {
		t.Fatal("form reset before the reset delay elapsed")
	}

	s.sched.Advance(1)
	snap, _ = s.app.Snapshot()
	if snap.Success.Visible {
		t.Error("success panel still visible after reset")
	}
	if snap.Network != "" || snap.Phone != "" || snap.Amount != "" || snap.PaymentMethod != "" {
		t.Errorf("fields not cleared after reset: %+v", snap)
	}
	for _, g := range Groups {
		if len(snap.Selected[g]) != 0 {
			t.Errorf("group %s still selected after reset: %v", g, snap.Selected[g])
		}
	}
	if snap.Submit != SubmitReady {
		t.Errorf("Submit = %v after reset, want ready", snap.Submit)
	}
	if snap.Phase != PhaseIdle.String() {
		t.Errorf("Phase = %q after reset, want idle", snap.Phase)
	}
}

func TestSubmit_ForcedFailure(t *testing.T) {
	s := newTestSession(t, false)
	s.fillValid(t)

	s.mustDispatch(t, Event{Name: EventSubmit})

	snap, _ := s.app.Snapshot()
	if len(snap.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", snap.Errors)
	}
	if snap.Errors[topup.FieldSubmit] != topup.MsgPaymentFailed {
		t.Errorf("submit error = %q, want %q", snap.Errors[topup.FieldSubmit], topup.MsgPaymentFailed)
	}
	if snap.Submit != SubmitReady {
		t.Errorf("Submit = %v, want ready", snap.Submit)
	}
	if snap.Success.Visible {
		t.Error("success panel visible after failure")
	}
	if s.sched.Pending(KeyReset) {
		t.Error("reset scheduled after failure")
	}
	// Fields survive a failure so the user can retry
	if snap.Network != "jazz" || snap.Amount != "500" {
		t.Errorf("fields cleared after failure: %+v", snap)
	}
}

func TestSubmit_ResubmissionCancelsReset(t *testing.T) {
	s := newTestSession(t, true)
	s.fillValid(t)
	s.mustDispatch(t, Event{Name: EventSubmit})

	if !s.sched.Pending(KeyReset) {
		t.Fatal("reset not scheduled")
	}

	out, err := s.app.Submission.Submit(context.Background(), topup.FormState{
		Network:       "zong",
		Phone:         "03111234567",
		Amount:        "100",
		PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if !out.Succeeded() {
		t.Fatalf("Submit() outcome err = %v", out.Err)
	}

	// The old reset was cancelled; the new one is due a full delay later
	s.sched.Advance(s.app.Timing.Reset - 1)
	if !s.view.Success().Visible {
		t.Fatal("earlier reset task fired after resubmission")
	}
	if s.view.Success().Amount != "Rs. 100" {
		t.Errorf("success amount = %q, want Rs. 100", s.view.Success().Amount)
	}
	s.sched.Advance(1)
	if s.view.Success().Visible {
		t.Error("success panel still visible after new reset delay")
	}
}

func TestSubmit_BusyWhileSubmitting(t *testing.T) {
	view := NewMemoryView(DefaultCatalog())
	sched := schedule.NewManual()
	c := NewSubmissionController(view, NewSelectionController(view), sched,
		payment.NewSimulator(0, payment.Always(true)), DefaultTiming(), nil)

	state := topup.FormState{Network: "jazz", Phone: "03001234567", Amount: "500", PaymentMethod: "jazzcash"}
	attempt, err := c.Start(state)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if view.Submit() != SubmitLoading {
		t.Errorf("Submit = %v, want loading", view.Submit())
	}

	if _, err := c.Start(state); !topup.IsBusyError(err) {
		t.Errorf("second Start() error = %v, want busy", err)
	}

	c.Finish(c.Process(context.Background(), attempt))
	if c.Phase() != PhaseSucceeded {
		t.Errorf("Phase = %v, want succeeded", c.Phase())
	}
}

func TestFinish_IgnoresStaleOutcome(t *testing.T) {
	view := NewMemoryView(DefaultCatalog())
	c := NewSubmissionController(view, NewSelectionController(view), schedule.NewManual(),
		payment.NewSimulator(0, payment.Always(true)), DefaultTiming(), nil)

	state := topup.FormState{Network: "jazz", Phone: "03001234567", Amount: "500", PaymentMethod: "card"}
	attempt, err := c.Start(state)
	if err != nil {
		t.Fatal(err)
	}
	stale := &Outcome{Attempt: &Attempt{State: state, Request: payment.NewRequest(state)}}

	c.Finish(stale)
	if c.Phase() != PhaseSubmitting {
		t.Errorf("Phase = %v after stale outcome, want submitting", c.Phase())
	}

	c.Finish(c.Process(context.Background(), attempt))
	if c.Phase() != PhaseSucceeded {
		t.Errorf("Phase = %v, want succeeded", c.Phase())
	}
}

func TestSubmit_InvalidClearsEarlierErrors(t *testing.T) {
	s := newTestSession(t, false)
	s.fillValid(t)
	s.mustDispatch(t, Event{Name: EventSubmit})
	if s.view.FieldError(topup.FieldSubmit) == "" {
		t.Fatal("expected payment failure")
	}

	s.mustDispatch(t, Event{Name: EventCustomAmountInput, Value: "5"})
	err := s.dispatch(t, Event{Name: EventSubmit})
	if !topup.IsValidationError(err) {
		t.Fatalf("submit error = %v, want validation error", err)
	}
	if s.view.FieldError(topup.FieldSubmit) != "" {
		t.Error("payment error survived a new validation pass")
	}
	if s.view.FieldError(topup.FieldCustomAmount) != topup.MsgAmountMinimum {
		t.Errorf("customAmount error = %q", s.view.FieldError(topup.FieldCustomAmount))
	}
}

func TestDismiss(t *testing.T) {
	s := newTestSession(t, true)

	s.mustDispatch(t, Event{Name: EventDismissSuccess})
	if s.app.Submission.Phase() != PhaseIdle {
		t.Fatal("dismiss changed phase while idle")
	}

	s.fillValid(t)
	s.mustDispatch(t, Event{Name: EventSubmit})
	s.mustDispatch(t, Event{Name: EventDismissSuccess})

	if s.view.Success().Visible {
		t.Error("success panel visible after dismiss")
	}
	if s.sched.Pending(KeyReset) {
		t.Error("reset still pending after dismiss")
	}
	if s.view.Network() != "" {
		t.Errorf("Network = %q after dismiss, want empty", s.view.Network())
	}
}

func TestObserver(t *testing.T) {
	obs := &recordingObserver{}
	view := NewMemoryView(DefaultCatalog())
	app := NewApp(Options{
		View:     view,
		Gateway:  payment.NewSimulator(0, payment.Always(false)),
		Observer: obs,
	})

	if _, err := app.Submission.Submit(context.Background(), topup.FormState{}); err == nil {
		t.Fatal("expected validation error")
	}

	out, err := app.Submission.Submit(context.Background(), topup.FormState{
		Network: "jazz", Phone: "03001234567", Amount: "500", PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if out.Succeeded() {
		t.Fatal("forced failure succeeded")
	}
	if !topup.IsPaymentError(out.Err) {
		t.Errorf("outcome error = %v, want payment error", out.Err)
	}

	if obs.invalid != 1 {
		t.Errorf("invalid = %d, want 1", obs.invalid)
	}
	if len(obs.completed) != 1 || obs.completed[0] != out {
		t.Errorf("completed = %v, want [%p]", obs.completed, out)
	}
}

func TestLiveValidation(t *testing.T) {
	s := newTestSession(t, true)

	s.mustDispatch(t, Event{Name: EventPhoneInput, Value: "0400"})
	if got := s.view.FieldError(topup.FieldPhone); got != topup.MsgPhoneInvalidLive {
		t.Errorf("phone error = %q, want %q", got, topup.MsgPhoneInvalidLive)
	}

	s.mustDispatch(t, Event{Name: EventPhoneInput, Value: "03001234567"})
	if got := s.view.FieldError(topup.FieldPhone); got != "" {
		t.Errorf("phone error = %q after valid input, want none", got)
	}

	s.mustDispatch(t, Event{Name: EventCustomAmountInput, Value: "15000"})
	if got := s.view.FieldError(topup.FieldCustomAmount); got != topup.MsgAmountMaximum {
		t.Errorf("customAmount error = %q, want %q", got, topup.MsgAmountMaximum)
	}

	s.mustDispatch(t, Event{Name: EventAmountTileClicked, Target: "tile-100"})
	if got := s.view.FieldError(topup.FieldCustomAmount); got != "" {
		t.Errorf("customAmount error = %q after choosing a tile, want none", got)
	}
}

func TestReset_ClearsLiveErrors(t *testing.T) {
	s := newTestSession(t, true)
	s.fillValid(t)
	s.mustDispatch(t, Event{Name: EventSubmit})
	if s.app.Submission.Phase() != PhaseSucceeded {
		t.Fatalf("Phase = %v, want succeeded", s.app.Submission.Phase())
	}

	// Edits while the success panel shows still get live validation
	_ = s.dispatch(t, Event{Name: EventCustomAmountInput, Value: "5"})
	_ = s.dispatch(t, Event{Name: EventPhoneInput, Value: "12"})
	if s.view.FieldError(topup.FieldPhone) == "" || s.view.FieldError(topup.FieldCustomAmount) == "" {
		t.Fatal("expected live errors before reset")
	}

	s.sched.Advance(s.app.Timing.Reset)

	snap, _ := s.app.Snapshot()
	if snap.Success.Visible {
		t.Error("success panel still visible after reset")
	}
	if len(snap.Errors) != 0 {
		t.Errorf("errors after reset = %v, want none", snap.Errors)
	}
	if snap.Phone != "" || snap.CustomAmount != "" {
		t.Errorf("fields not cleared after reset: phone=%q customAmount=%q", snap.Phone, snap.CustomAmount)
	}
}
