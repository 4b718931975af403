package form

import (
	"context"
	"time"

	"github.com/pakrecharge/topup/internal/logging"
	"github.com/pakrecharge/topup/internal/payment"
	"github.com/pakrecharge/topup/internal/schedule"
	"github.com/pakrecharge/topup/internal/topup"
)

// Phase is the state of the submission lifecycle
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseSubmitting
	PhaseSucceeded
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSucceeded:
		return "succeeded"
	default:
		return "unknown"
	}
}

// Attempt is a validated submission waiting for its payment call
type Attempt struct {
	State     topup.FormState
	Request   *payment.Request
	StartedAt time.Time
}

// ID returns the payment reference of the attempt
func (a *Attempt) ID() string {
	return a.Request.Reference
}

// Outcome is the result of a payment call
type Outcome struct {
	Attempt *Attempt
	Receipt *payment.Receipt // Set on success
	Err     error            // Set on failure
	Elapsed time.Duration
}

// Succeeded reports whether the payment went through
func (o *Outcome) Succeeded() bool {
	return o.Err == nil && o.Receipt != nil
}

// Observer is told about submissions that leave the controller
type Observer interface {
	Invalid(errs topup.ValidationErrors)
	Completed(out *Outcome)
}

// SubmissionController validates the form, runs the payment call and
// renders the result.
type SubmissionController struct {
	view      FormView
	selection *SelectionController
	sched     schedule.Scheduler
	gateway   payment.Gateway
	timing    Timing
	observer  Observer

	phase   Phase
	current *Attempt

	// Now is used to time attempts. Defaults to time.Now.
	Now func() time.Time
}

// NewSubmissionController creates a controller. The observer may be nil.
func NewSubmissionController(view FormView, selection *SelectionController, sched schedule.Scheduler,
	gateway payment.Gateway, timing Timing, observer Observer) *SubmissionController {
	return &SubmissionController{
		view:      view,
		selection: selection,
		sched:     sched,
		gateway:   gateway,
		timing:    timing,
		observer:  observer,
		Now:       time.Now,
	}
}

// Phase returns the current lifecycle phase
func (c *SubmissionController) Phase() Phase {
	return c.phase
}

// CollectFormState reads the canonical field values. The phone is reduced
// to digits.
func (c *SubmissionController) CollectFormState() topup.FormState {
	return topup.FormState{
		Network:       c.view.Network(),
		Phone:         c.view.PhoneText(),
		Amount:        c.view.Amount(),
		PaymentMethod: c.view.PaymentMethod(),
		CustomAmount:  c.view.CustomAmount(),
	}.Normalized()
}

// Validate checks a form state without touching the view
func (c *SubmissionController) Validate(state topup.FormState) topup.ValidationErrors {
	return topup.Validate(state)
}

// Start validates state and, if it is valid, puts the form into the loading
// state. Returns topup.ValidationErrors for an invalid form (errors are
// rendered under their fields) and a busy error while a payment is in flight.
func (c *SubmissionController) Start(state topup.FormState) (*Attempt, error) {
	if c.phase == PhaseSubmitting {
		return nil, topup.NewBusyError()
	}

	c.sched.Cancel(KeyReset)
	if c.phase == PhaseSucceeded {
		c.view.HideSuccess()
		c.view.SetSubmitState(SubmitReady)
	}

	c.phase = PhaseValidating
	c.view.ClearAllErrors()

	state = state.Normalized()
	if errs := c.Validate(state); len(errs) > 0 {
		for _, e := range errs {
			c.view.ShowFieldError(e.Field, e.Message)
		}
		c.phase = PhaseIdle
		if c.observer != nil {
			c.observer.Invalid(errs)
		}
		return nil, errs
	}

	c.view.SetSubmitState(SubmitLoading)
	c.phase = PhaseSubmitting

	attempt := &Attempt{
		State:     state,
		Request:   payment.NewRequest(state),
		StartedAt: c.Now(),
	}
	c.current = attempt

	logging.LogSubmission(attempt.ID(), state.Network, state.Phone, state.Amount, state.PaymentMethod)
	return attempt, nil
}

// Process runs the payment call for an attempt. It does not touch the view
// and may run on any goroutine.
func (c *SubmissionController) Process(ctx context.Context, attempt *Attempt) *Outcome {
	start := time.Now()
	receipt, err := c.gateway.Charge(ctx, attempt.Request)
	out := &Outcome{
		Attempt: attempt,
		Receipt: receipt,
		Err:     err,
		Elapsed: time.Since(start),
	}
	if err == nil && receipt == nil {
		out.Err = topup.NewPaymentError(topup.MsgPaymentFailed, nil)
	}
	return out
}

// Finish renders an outcome. Outcomes for anything but the attempt in
// flight are ignored.
func (c *SubmissionController) Finish(out *Outcome) {
	if out == nil || c.phase != PhaseSubmitting || out.Attempt != c.current {
		return
	}
	c.current = nil

	logging.LogOutcome(out.Attempt.ID(), out.Succeeded(), out.Elapsed, out.Err)

	if out.Succeeded() {
		state := out.Attempt.State
		c.view.SetSuccessDetails(state.Phone, topup.DisplayAmount(state.Amount))
		c.view.ShowSuccess()
		c.view.SetSubmitState(SubmitDisabled)
		c.view.Reveal(RevealSuccess)
		c.phase = PhaseSucceeded
		c.sched.Schedule(KeyReset, c.timing.Reset, c.Reset)
	} else {
		c.view.ShowFieldError(topup.FieldSubmit, topup.MsgPaymentFailed)
		c.view.SetSubmitState(SubmitReady)
		c.phase = PhaseIdle
	}

	if c.observer != nil {
		c.observer.Completed(out)
	}
}

// Submit runs a whole submission on the calling goroutine. A declined
// payment is reported through Outcome.Err; the returned error is reserved
// for attempts that never reached the payment call.
func (c *SubmissionController) Submit(ctx context.Context, state topup.FormState) (*Outcome, error) {
	attempt, err := c.Start(state)
	if err != nil {
		return nil, err
	}
	out := c.Process(ctx, attempt)
	c.Finish(out)
	return out, nil
}

// Reset clears every field and selection, hides the success panel and
// re-enables submit.
func (c *SubmissionController) Reset() {
	c.sched.Cancel(KeyReset)
	c.view.ResetFields()
	c.view.ClearAllErrors()
	c.selection.ClearSelections()
	c.view.HideSuccess()
	c.view.SetSuccessDetails("", "")
	c.view.SetSubmitState(SubmitReady)
	c.phase = PhaseIdle
}

// Dismiss closes the success panel early. Returns false if no success
// panel was showing.
func (c *SubmissionController) Dismiss() bool {
	if c.phase != PhaseSucceeded {
		return false
	}
	c.Reset()
	return true
}

// ShowError renders a message under a field, replacing any earlier one
func (c *SubmissionController) ShowError(field topup.Field, message string) {
	c.view.ShowFieldError(field, message)
}

// ClearErrors removes every error message
func (c *SubmissionController) ClearErrors() {
	c.view.ClearAllErrors()
}

// ClearFieldError removes the error message of a single field
func (c *SubmissionController) ClearFieldError(field topup.Field) {
	c.view.ClearFieldError(field)
}

// ValidateLive runs the as-you-type check for one field.
func (c *SubmissionController) ValidateLive(field topup.Field, value string) {
	c.view.ClearFieldError(field)
	if err := topup.ValidateField(field, value); err != nil {
		c.view.ShowFieldError(err.Field, err.Message)
	}
}
