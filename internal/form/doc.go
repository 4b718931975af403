// Package form implements the top-up form behaviour independently of any
// rendering technology.
//
// The controllers never touch a concrete UI. They read and write a FormView,
// a small capability interface covering field values, option selection, error
// slots, the submit control, the success panel and the notification banner.
// MemoryView is the in-memory document implementing it; the terminal form
// renders a MemoryView and the websocket server ships its Snapshot to the
// browser.
//
// # Components
//
//   - SelectionController: mutually exclusive option groups (amount tiles,
//     network logos, payment methods), the custom amount input, the network
//     dropdown and phone formatting.
//   - SubmissionController: collects and validates the form, runs the payment
//     call and renders success or failure. Moves through the phases
//     Idle, Validating, Submitting and Succeeded.
//   - BundleBridge: pre-fills the amount from a bundle and shows a
//     notification that dismisses itself.
//   - App: the per-session context holding the view, controllers, scheduler
//     and executor.
//   - Dispatcher: routes named UI events to handlers.
//
// # Threading
//
// A session is single threaded. Everything that mutates the view runs on one
// goroutine; the payment call is handed to an Executor, which runs it
// elsewhere and posts the continuation back. Inline executes everything on
// the calling goroutine, which makes handlers deterministic in tests:
//
//	sched := schedule.NewManual()
//	app := form.NewApp(form.Options{
//	    Scheduler: sched,
//	    Gateway:   payment.NewSimulator(0, payment.Always(true)),
//	})
//	d := form.DefaultDispatcher()
//	d.Dispatch(ctx, app, form.Event{Name: form.EventAmountTileClicked, Target: "tile-500"})
//	...
//	d.Dispatch(ctx, app, form.Event{Name: form.EventSubmit})
//	sched.Advance(app.Timing.Reset) // form is reset here
package form
