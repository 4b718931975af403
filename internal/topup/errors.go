package topup

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeValidation indicates a user-correctable input defect
	ErrTypeValidation ErrorType = iota
	// ErrTypePayment indicates the payment call was declined or failed
	ErrTypePayment
	// ErrTypeBusy indicates a submission is already in flight
	ErrTypeBusy
	// ErrTypeUnknownOption indicates a selection referenced an option that does not exist
	ErrTypeUnknownOption
	// ErrTypeUnknownEvent indicates an event with no registered handler
	ErrTypeUnknownEvent
	// ErrTypeConfig indicates an invalid or unreadable settings file
	ErrTypeConfig
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeValidation:
		return "Validation Error"
	case ErrTypePayment:
		return "Payment Error"
	case ErrTypeBusy:
		return "Busy"
	case ErrTypeUnknownOption:
		return "Unknown Option"
	case ErrTypeUnknownEvent:
		return "Unknown Event"
	case ErrTypeConfig:
		return "Configuration Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Messages shown to the user
const (
	MsgNetworkRequired     = "Please select a network"
	MsgPhoneRequired       = "Phone number is required"
	MsgPhoneInvalid        = "Please enter a valid 11-digit Pakistani number starting with 03"
	MsgPhoneInvalidLive    = "Please enter a valid 11-digit Pakistani number"
	MsgAmountRequired      = "Please select or enter an amount"
	MsgAmountInvalid       = "Please enter a valid amount"
	MsgAmountMinimum       = "Minimum top-up amount is Rs. 10"
	MsgAmountMaximum       = "Maximum top-up amount is Rs. 10,000"
	MsgPaymentRequired     = "Please select a payment method"
	MsgPaymentFailed       = "Payment failed. Please try again."
	MsgSubmissionInFlight  = "A payment is already being processed"
	MsgBundleNotification  = "%q bundle selected! Please complete the top-up form."
	MsgUnknownOptionFormat = "unknown %s option %q"
)

// Error is a categorized top-up error
type Error struct {
	Type      ErrorType // Category of error
	Field     Field     // Field the error belongs to (if any)
	Message   string    // Human-readable error message
	Err       error     // Underlying error (if any)
	Retryable bool      // Whether resubmitting may succeed
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// NewPaymentError creates a payment failure. Payment failures are always
// retryable by the user; nothing retries automatically.
func NewPaymentError(message string, err error) *Error {
	return &Error{
		Type:      ErrTypePayment,
		Field:     FieldSubmit,
		Message:   message,
		Err:       err,
		Retryable: true,
	}
}

// NewBusyError creates an error for a submission attempted while another is in flight
func NewBusyError() *Error {
	return &Error{
		Type:      ErrTypeBusy,
		Field:     FieldSubmit,
		Message:   MsgSubmissionInFlight,
		Retryable: true,
	}
}

// NewUnknownOptionError creates an error for a selection of a missing option
func NewUnknownOptionError(group, id string) *Error {
	return &Error{
		Type:    ErrTypeUnknownOption,
		Message: fmt.Sprintf(MsgUnknownOptionFormat, group, id),
	}
}

// NewUnknownEventError creates an error for an event with no handler
func NewUnknownEventError(name string) *Error {
	return &Error{
		Type:    ErrTypeUnknownEvent,
		Message: fmt.Sprintf("no handler registered for event %q", name),
	}
}

// NewConfigError creates a settings error
func NewConfigError(message string, err error) *Error {
	return &Error{
		Type:    ErrTypeConfig,
		Message: message,
		Err:     err,
	}
}

// ValidationError is a single field defect
type ValidationError struct {
	Field   Field  `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is the full result of a validation pass.
// A nil or empty list means the submission is valid.
type ValidationErrors []*ValidationError

// Error implements the error interface
func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// For returns the error attached to field, or nil.
func (v ValidationErrors) For(field Field) *ValidationError {
	for _, e := range v {
		if e.Field == field {
			return e
		}
	}
	return nil
}

// Has reports whether field carries an error.
func (v ValidationErrors) Has(field Field) bool {
	return v.For(field) != nil
}

func typeOf(err error) (ErrorType, bool) {
	var topErr *Error
	if errors.As(err, &topErr) {
		return topErr.Type, true
	}
	return 0, false
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var list ValidationErrors
	if errors.As(err, &list) {
		return true
	}
	var single *ValidationError
	if errors.As(err, &single) {
		return true
	}
	t, ok := typeOf(err)
	return ok && t == ErrTypeValidation
}

// IsPaymentError checks if an error is a payment failure
func IsPaymentError(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrTypePayment
}

// IsBusyError checks if an error was caused by a submission already in flight
func IsBusyError(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrTypeBusy
}

// IsUnknownOption checks if an error references a missing option
func IsUnknownOption(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrTypeUnknownOption
}

// IsRetryable checks if resubmitting could succeed
func IsRetryable(err error) bool {
	var topErr *Error
	if errors.As(err, &topErr) {
		return topErr.Retryable
	}
	return false
}

// ShortMessage returns a concise, user-facing message for an error
func ShortMessage(err error) string {
	if err == nil {
		return ""
	}

	var list ValidationErrors
	if errors.As(err, &list) {
		if len(list) == 1 {
			return list[0].Message
		}
		return fmt.Sprintf("%d fields need attention", len(list))
	}

	var topErr *Error
	if !errors.As(err, &topErr) {
		return err.Error()
	}

	switch topErr.Type {
	case ErrTypePayment:
		return MsgPaymentFailed
	default:
		return topErr.Message
	}
}
