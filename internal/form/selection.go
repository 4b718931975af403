package form

import (
	"github.com/pakrecharge/topup/internal/logging"
	"github.com/pakrecharge/topup/internal/topup"
)

// SelectionController keeps the option groups, the custom amount input and
// the network dropdown in step with the canonical fields.
type SelectionController struct {
	view FormView
}

// NewSelectionController creates a controller for view
func NewSelectionController(view FormView) *SelectionController {
	return &SelectionController{view: view}
}

// SelectAmount selects a preset amount tile and clears the custom amount.
func (c *SelectionController) SelectAmount(tileID string) error {
	opt, err := c.selectExclusive(GroupAmount, tileID)
	if err != nil {
		return err
	}

	c.view.SetAmount(opt.Value)
	c.view.SetCustomAmount("")
	c.RefreshPreview()
	return nil
}

// SelectNetwork selects a network logo. The dropdown shares the canonical
// network field so it follows automatically.
func (c *SelectionController) SelectNetwork(logoID string) error {
	opt, err := c.selectExclusive(GroupNetwork, logoID)
	if err != nil {
		return err
	}

	c.view.SetNetwork(opt.Value)
	c.RefreshPreview()
	return nil
}

// SelectPaymentMethod selects a payment option.
func (c *SelectionController) SelectPaymentMethod(optionID string) error {
	opt, err := c.selectExclusive(GroupPayment, optionID)
	if err != nil {
		return err
	}

	c.view.SetPaymentMethod(opt.Value)
	return nil
}

// OnCustomAmountInput handles typing in the custom amount input. A non-empty
// value becomes the amount and deselects every tile; clearing the input
// leaves the amount alone.
func (c *SelectionController) OnCustomAmountInput(value string) {
	c.view.SetCustomAmount(value)
	if value == "" {
		return
	}

	c.deselectAll(GroupAmount)
	c.view.SetAmount(value)
	c.RefreshPreview()
}

// OnNetworkDropdownChange sets the network from the dropdown and highlights
// the matching logo, if any.
func (c *SelectionController) OnNetworkDropdownChange(value string) {
	c.view.SetNetwork(value)
	for _, opt := range c.view.Options(GroupNetwork) {
		c.view.SetSelected(GroupNetwork, opt.ID, value != "" && opt.Value == value)
	}
	logging.LogSelection(string(GroupNetwork), "dropdown", value)
}

// FormatPhoneInput reformats raw phone input, writes it back to the phone
// field and returns the displayed text.
func (c *SelectionController) FormatPhoneInput(raw string) string {
	text := topup.FormatPhone(raw)
	c.view.SetPhoneText(text)
	c.RefreshPreview()
	return text
}

// RefreshPreview fills in the success panel details once both a phone
// number and an amount are present. The panel itself stays hidden.
func (c *SelectionController) RefreshPreview() {
	phone := c.view.PhoneText()
	amount := c.view.Amount()
	if phone == "" || amount == "" {
		return
	}
	c.view.SetSuccessDetails(phone, topup.DisplayAmount(amount))
}

// ClearSelections deselects every option of every group.
func (c *SelectionController) ClearSelections() {
	for _, g := range Groups {
		c.deselectAll(g)
	}
}

func (c *SelectionController) selectExclusive(group Group, id string) (Option, error) {
	opts := c.view.Options(group)

	var chosen *Option
	for i := range opts {
		if opts[i].ID == id {
			chosen = &opts[i]
			break
		}
	}
	if chosen == nil {
		return Option{}, topup.NewUnknownOptionError(string(group), id)
	}

	c.deselectAll(group)
	c.view.SetSelected(group, chosen.ID, true)
	logging.LogSelection(string(group), chosen.ID, chosen.Value)
	return *chosen, nil
}

func (c *SelectionController) deselectAll(group Group) {
	for _, opt := range c.view.Options(group) {
		c.view.SetSelected(group, opt.ID, false)
	}
}
