package topup

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorType_String(t *testing.T) {
	if got := ErrTypePayment.String(); got != "Payment Error" {
		t.Errorf("ErrTypePayment.String() = %q", got)
	}
	if got := ErrorType(99).String(); got != "ErrorType(99)" {
		t.Errorf("ErrorType(99).String() = %q", got)
	}
}

func TestNewPaymentError(t *testing.T) {
	cause := errors.New("payment processing failed")
	err := NewPaymentError(MsgPaymentFailed, cause)

	if err.Field != FieldSubmit {
		t.Errorf("Field = %v, want %v", err.Field, FieldSubmit)
	}
	if !IsPaymentError(err) {
		t.Error("expected payment error")
	}
	if !IsRetryable(err) {
		t.Error("payment errors should be retryable by the user")
	}
	if !errors.Is(err, cause) {
		t.Error("expected Unwrap to expose the cause")
	}
	if !strings.Contains(err.Error(), "caused by") {
		t.Errorf("Error() = %q, should mention the cause", err.Error())
	}
}

func TestClassificationThroughWrapping(t *testing.T) {
	err := fmt.Errorf("submit: %w", NewBusyError())

	if !IsBusyError(err) {
		t.Error("expected busy error through wrapping")
	}
	if IsPaymentError(err) {
		t.Error("busy error must not be a payment error")
	}
	if IsValidationError(err) {
		t.Error("busy error must not be a validation error")
	}
}

func TestShortMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"payment", NewPaymentError("declined", errors.New("x")), MsgPaymentFailed},
		{"single validation", ValidationErrors{{Field: FieldPhone, Message: MsgPhoneRequired}}, MsgPhoneRequired},
		{"many validation", Validate(FormState{}), "4 fields need attention"},
		{"unknown option", NewUnknownOptionError("amount", "x"), `unknown amount option "x"`},
		{"plain", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShortMessage(tt.err); got != tt.want {
				t.Errorf("ShortMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStripCurrency(t *testing.T) {
	tests := []struct {
		price string
		want  string
	}{
		{"Rs. 200", "200"},
		{"Rs.200", "200"},
		{"Rs 50", "50"},
		{"Rs. 1,200", "1200"},
		{"300", "300"},
	}

	for _, tt := range tests {
		if got := StripCurrency(tt.price); got != tt.want {
			t.Errorf("StripCurrency(%q) = %q, want %q", tt.price, got, tt.want)
		}
	}

	b := Bundle{Name: "Weekly", Price: "Rs. 200"}
	if b.Amount() != "200" {
		t.Errorf("Bundle.Amount() = %q, want 200", b.Amount())
	}
}
