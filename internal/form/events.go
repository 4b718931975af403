package form

import (
	"context"
	"sort"

	"github.com/pakrecharge/topup/internal/logging"
	"github.com/pakrecharge/topup/internal/topup"
)

// Event names
const (
	EventAmountTileClicked      = "amount_tile_clicked"
	EventNetworkLogoClicked     = "network_logo_clicked"
	EventPaymentOptionClicked   = "payment_option_clicked"
	EventCustomAmountInput      = "custom_amount_input"
	EventCustomAmountBlur       = "custom_amount_blur"
	EventPhoneInput             = "phone_input"
	EventNetworkDropdownChanged = "network_dropdown_changed"
	EventSubmit                 = "submit"
	EventBundleChosen           = "bundle_chosen"
	EventDismissSuccess         = "dismiss_success"
)

// Event is a user interaction. Target names the control (option id or
// bundle name); Value carries typed text; Price is set for bundles.
type Event struct {
	Name   string `json:"name"`
	Target string `json:"target,omitempty"`
	Value  string `json:"value,omitempty"`
	Price  string `json:"price,omitempty"`
}

// Handler reacts to one kind of event
type Handler func(ctx context.Context, app *App, ev Event) error

// Dispatcher routes events to handlers by name
type Dispatcher struct {
	handlers map[string]Handler
}

// NewDispatcher creates a dispatcher with no handlers
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]Handler)}
}

// DefaultDispatcher creates a dispatcher with every form event registered
func DefaultDispatcher() *Dispatcher {
	d := NewDispatcher()

	d.On(EventAmountTileClicked, func(_ context.Context, app *App, ev Event) error {
		if err := app.Selection.SelectAmount(ev.Target); err != nil {
			return err
		}
		app.Submission.ClearFieldError(topup.FieldCustomAmount)
		return nil
	})

	d.On(EventNetworkLogoClicked, func(_ context.Context, app *App, ev Event) error {
		return app.Selection.SelectNetwork(ev.Target)
	})

	d.On(EventPaymentOptionClicked, func(_ context.Context, app *App, ev Event) error {
		return app.Selection.SelectPaymentMethod(ev.Target)
	})

	d.On(EventCustomAmountInput, func(_ context.Context, app *App, ev Event) error {
		app.Selection.OnCustomAmountInput(ev.Value)
		app.Submission.ValidateLive(topup.FieldCustomAmount, ev.Value)
		return nil
	})

	d.On(EventCustomAmountBlur, func(_ context.Context, app *App, _ Event) error {
		app.Submission.ValidateLive(topup.FieldCustomAmount, app.View.CustomAmount())
		return nil
	})

	d.On(EventPhoneInput, func(_ context.Context, app *App, ev Event) error {
		text := app.Selection.FormatPhoneInput(ev.Value)
		app.Submission.ValidateLive(topup.FieldPhone, text)
		return nil
	})

	d.On(EventNetworkDropdownChanged, func(_ context.Context, app *App, ev Event) error {
		app.Selection.OnNetworkDropdownChange(ev.Value)
		return nil
	})

	d.On(EventSubmit, func(ctx context.Context, app *App, _ Event) error {
		return app.SubmitAsync(ctx)
	})

	d.On(EventBundleChosen, func(_ context.Context, app *App, ev Event) error {
		price := ev.Price
		if price == "" {
			if b, ok := app.Catalog.Bundle(ev.Target); ok {
				price = b.Price
			}
		}
		app.Bundles.OnBundleChosen(ev.Target, price)
		return nil
	})

	d.On(EventDismissSuccess, func(_ context.Context, app *App, _ Event) error {
		app.Submission.Dismiss()
		return nil
	})

	return d
}

// On registers the handler for an event name, replacing any earlier one
func (d *Dispatcher) On(name string, h Handler) {
	d.handlers[name] = h
}

// Dispatch routes an event to its handler
func (d *Dispatcher) Dispatch(ctx context.Context, app *App, ev Event) error {
	h, ok := d.handlers[ev.Name]
	if !ok {
		return topup.NewUnknownEventError(ev.Name)
	}

	logging.LogEvent(app.ID, ev.Name, ev.Target)
	return h(ctx, app, ev)
}

// Events returns the registered event names in sorted order
func (d *Dispatcher) Events() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
