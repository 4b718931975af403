package form

import (
	"context"

	"github.com/google/uuid"

	"github.com/pakrecharge/topup/internal/payment"
	"github.com/pakrecharge/topup/internal/schedule"
)

// Options configures a new App. Zero values select defaults.
type Options struct {
	Catalog   Catalog            // Defaults to DefaultCatalog()
	Timing    Timing             // Zero delays fall back to DefaultTiming()
	Gateway   payment.Gateway    // Defaults to a Simulator with a 90% success rate
	Scheduler schedule.Scheduler // Defaults to a Manual scheduler
	Executor  Executor           // Defaults to Inline
	Observer  Observer           // Optional
	View      FormView           // Defaults to a MemoryView over Catalog
}

// App is the context of one form session. Handlers receive it explicitly.
type App struct {
	ID         string
	Catalog    Catalog
	Timing     Timing
	View       FormView
	Selection  *SelectionController
	Submission *SubmissionController
	Bundles    *BundleBridge
	Scheduler  schedule.Scheduler
	Executor   Executor
}

// NewApp wires a form session
func NewApp(opts Options) *App {
	if opts.Catalog.Networks == nil && opts.Catalog.Amounts == nil && opts.Catalog.PaymentMethods == nil {
		opts.Catalog = DefaultCatalog()
	}
	timing := DefaultTiming()
	if opts.Timing != (Timing{}) {
		timing = opts.Timing.withDefaults()
	}
	if opts.Gateway == nil {
		opts.Gateway = payment.NewSimulator(timing.Payment, payment.NewRandomOutcome(payment.DefaultSuccessRate))
	}
	if opts.Scheduler == nil {
		opts.Scheduler = schedule.NewManual()
	}
	if opts.Executor == nil {
		opts.Executor = Inline{}
	}
	if opts.View == nil {
		opts.View = NewMemoryView(opts.Catalog)
	}

	selection := NewSelectionController(opts.View)

	return &App{
		ID:         uuid.NewString(),
		Catalog:    opts.Catalog,
		Timing:     timing,
		View:       opts.View,
		Selection:  selection,
		Submission: NewSubmissionController(opts.View, selection, opts.Scheduler, opts.Gateway, timing, opts.Observer),
		Bundles:    NewBundleBridge(opts.View, opts.Scheduler, timing),
		Scheduler:  opts.Scheduler,
		Executor:   opts.Executor,
	}
}

// SubmitAsync validates the current form and hands the payment call to the
// executor. Validation and busy errors are returned immediately; the outcome
// is rendered when the executor runs the continuation.
func (a *App) SubmitAsync(ctx context.Context) error {
	attempt, err := a.Submission.Start(a.Submission.CollectFormState())
	if err != nil {
		return err
	}

	a.Executor.Go(func() func() {
		out := a.Submission.Process(ctx, attempt)
		return func() { a.Submission.Finish(out) }
	})
	return nil
}

// Snapshot copies the form document and the submission phase. Only
// available when the view is a MemoryView.
func (a *App) Snapshot() (Snapshot, bool) {
	mv, ok := a.View.(*MemoryView)
	if !ok {
		return Snapshot{}, false
	}
	snap := mv.Snapshot()
	snap.Phase = a.Submission.Phase().String()
	return snap, true
}
