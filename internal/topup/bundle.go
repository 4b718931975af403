package topup

import "strings"

// Bundle is a packaged offer that can pre-fill the top-up form.
type Bundle struct {
	Name    string `json:"name" yaml:"name"`
	Price   string `json:"price" yaml:"price"` // Display price, e.g. "Rs. 200"
	Details string `json:"details,omitempty" yaml:"details,omitempty"`
}

// Amount returns the bundle price without its currency prefix.
func (b Bundle) Amount() string {
	return StripCurrency(b.Price)
}

// StripCurrency removes the "Rs." prefix and thousands separators from a
// display price. No validation is performed.
//
//	StripCurrency("Rs. 1,200") // "1200"
func StripCurrency(price string) string {
	s := strings.TrimSpace(price)
	s = strings.TrimPrefix(s, CurrencyPrefix)
	s = strings.TrimPrefix(s, "Rs")
	s = strings.ReplaceAll(s, ",", "")
	return strings.TrimSpace(s)
}
