package topup

import (
	"math"
	"strconv"
	"strings"
)

// Validate checks a complete form state. Every rule runs so that all defects
// surface together. The phone is normalized before it is checked.
// Returns nil if the state is valid.
func Validate(state FormState) ValidationErrors {
	var errs ValidationErrors

	if state.Network == "" {
		errs = append(errs, &ValidationError{Field: FieldNetwork, Message: MsgNetworkRequired})
	}

	if err := ValidatePhone(DigitsOnly(state.Phone)); err != nil {
		errs = append(errs, err)
	}

	if state.Amount == "" {
		errs = append(errs, &ValidationError{Field: FieldAmount, Message: MsgAmountRequired})
	} else if err := ValidateAmount(state.Amount); err != nil {
		errs = append(errs, err)
	}

	if state.PaymentMethod == "" {
		errs = append(errs, &ValidationError{Field: FieldPaymentMethod, Message: MsgPaymentRequired})
	}

	return errs
}

// ValidatePhone checks a digit-only phone number.
func ValidatePhone(digits string) *ValidationError {
	if digits == "" {
		return &ValidationError{Field: FieldPhone, Message: MsgPhoneRequired}
	}
	if !IsValidPhone(digits) {
		return &ValidationError{Field: FieldPhone, Message: MsgPhoneInvalid}
	}
	return nil
}

// ValidateAmount checks the range of a non-empty amount.
// Range errors belong to the custom amount field.
func ValidateAmount(amount string) *ValidationError {
	value, ok := ParseAmount(amount)
	if !ok {
		return &ValidationError{Field: FieldCustomAmount, Message: MsgAmountInvalid}
	}
	if value < MinAmount {
		return &ValidationError{Field: FieldCustomAmount, Message: MsgAmountMinimum}
	}
	if value > MaxAmount {
		return &ValidationError{Field: FieldCustomAmount, Message: MsgAmountMaximum}
	}
	return nil
}

// ValidateField runs the live check for a single input as the user types.
// Empty input and fields without a live rule return nil.
func ValidateField(field Field, value string) *ValidationError {
	if value == "" {
		return nil
	}

	switch field {
	case FieldPhone:
		if !IsValidPhone(DigitsOnly(value)) {
			return &ValidationError{Field: FieldPhone, Message: MsgPhoneInvalidLive}
		}
	case FieldCustomAmount:
		return ValidateAmount(value)
	}
	return nil
}

// ParseAmount parses an amount as a number.
func ParseAmount(amount string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}
