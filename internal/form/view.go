package form

import "github.com/pakrecharge/topup/internal/topup"

// SubmitState is the state of the submit control
type SubmitState string

const (
	// SubmitReady means the control accepts a click
	SubmitReady SubmitState = "ready"
	// SubmitLoading means a payment is in flight; the control is disabled
	// and shows a loading indicator
	SubmitLoading SubmitState = "loading"
	// SubmitDisabled means the control is disabled without a loading
	// indicator (success panel showing)
	SubmitDisabled SubmitState = "disabled"
)

// Target is an area of the page that can be brought into view
type Target string

const (
	RevealNone    Target = ""
	RevealForm    Target = "form"
	RevealSuccess Target = "success"
)

// FormView is everything the controllers need from a rendered form.
//
// Phone text is the displayed (formatted) value; controllers normalize it.
// Network is shared by the logo group and the dropdown.
type FormView interface {
	Network() string
	SetNetwork(value string)
	PhoneText() string
	SetPhoneText(text string)
	Amount() string
	SetAmount(value string)
	CustomAmount() string
	SetCustomAmount(value string)
	PaymentMethod() string
	SetPaymentMethod(value string)

	// Options lists the members of a selection group
	Options(group Group) []Option
	IsSelected(group Group, id string) bool
	SetSelected(group Group, id string, selected bool)

	// Error slots hold at most one message per field
	FieldError(field topup.Field) string
	ShowFieldError(field topup.Field, message string)
	ClearFieldError(field topup.Field)
	ClearAllErrors()

	SetSubmitState(state SubmitState)

	SetSuccessDetails(phone, amount string)
	ShowSuccess()
	HideSuccess()

	ShowNotification(message string)
	HideNotification()

	Reveal(target Target)

	// ResetFields clears every field value
	ResetFields()
}
