package topup

import "fmt"

// Field names a logical form field. Error messages are attached to fields.
type Field string

const (
	FieldNetwork       Field = "network"
	FieldPhone         Field = "phone"
	FieldAmount        Field = "amount"
	FieldCustomAmount  Field = "customAmount"
	FieldPaymentMethod Field = "paymentMethod"

	// FieldSubmit is the generic slot used for submission failures
	FieldSubmit Field = "submit"
)

// Fields lists every field that can carry an error, in display order.
var Fields = []Field{
	FieldNetwork,
	FieldPhone,
	FieldAmount,
	FieldCustomAmount,
	FieldPaymentMethod,
	FieldSubmit,
}

// Amount limits in rupees (inclusive)
const (
	MinAmount = 10
	MaxAmount = 10000
)

// PhoneDigits is the length of a complete mobile number
const PhoneDigits = 11

// PhonePrefix is the prefix every mobile number must start with
const PhonePrefix = "03"

// CurrencyPrefix is prepended to amounts shown to the user
const CurrencyPrefix = "Rs."

// FormState is the complete set of canonical field values at a point in time.
// Phone holds raw digits only.
type FormState struct {
	Network       string `json:"network" yaml:"network"`
	Phone         string `json:"phone" yaml:"phone"`
	Amount        string `json:"amount" yaml:"amount"`
	PaymentMethod string `json:"paymentMethod" yaml:"payment_method"`
	CustomAmount  string `json:"customAmount" yaml:"custom_amount"`
}

// Normalized returns a copy of the state with the phone reduced to digits.
func (s FormState) Normalized() FormState {
	s.Phone = DigitsOnly(s.Phone)
	return s
}

// IsEmpty reports whether no field has been filled in.
func (s FormState) IsEmpty() bool {
	return s == FormState{}
}

// DisplayAmount renders the amount the way the success panel shows it.
func DisplayAmount(amount string) string {
	return fmt.Sprintf("%s %s", CurrencyPrefix, amount)
}
