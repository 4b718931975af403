// Package topup holds the domain rules of a mobile airtime top-up.
//
// It defines the canonical form state, the logical field names used to
// attach error messages, phone number normalisation and display formatting,
// the validation rules applied before a payment is attempted, and the error
// taxonomy shared by the controllers and front ends.
//
// # Validation Rules
//
// Validate runs every check and never short-circuits, so a submission with
// several defects reports all of them at once:
//
//   - network must be chosen
//   - phone must be 11 digits starting with "03"
//   - amount must be present and between 10 and 10000 (inclusive)
//   - payment method must be chosen
//
// Range errors are attached to the custom amount field, where the user can
// correct them; a missing amount is attached to the amount field.
//
// # Phone Formatting
//
// Phone input is always re-derived from its digits. Up to four digits are
// shown as typed; longer input is shown as XXXX-XXXXXXX with at most eleven
// digits kept:
//
//	topup.FormatPhone("0300 123-4567") // "0300-1234567"
//	topup.FormatPhone("030")           // "030"
//
// # Usage Example
//
//	state := topup.FormState{
//	    Network:       "Jazz",
//	    Phone:         topup.DigitsOnly("0300-1234567"),
//	    Amount:        "500",
//	    PaymentMethod: "easypaisa",
//	}
//	if errs := topup.Validate(state); len(errs) > 0 {
//	    for _, e := range errs {
//	        fmt.Printf("%s: %s\n", e.Field, e.Message)
//	    }
//	}
package topup
