package topup

import "strings"

// DigitsOnly strips every non-digit character from s.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatPhone derives the displayed phone text from raw input.
// Separators already present in raw are ignored, so the result never
// accumulates stale hyphens and repeated calls are idempotent.
func FormatPhone(raw string) string {
	digits := DigitsOnly(raw)
	if len(digits) <= 4 {
		return digits
	}
	rest := digits[4:]
	if len(rest) > PhoneDigits-4 {
		rest = rest[:PhoneDigits-4]
	}
	return digits[:4] + "-" + rest
}

// IsValidPhone reports whether digits is a complete mobile number.
func IsValidPhone(digits string) bool {
	return len(digits) == PhoneDigits && strings.HasPrefix(digits, PhonePrefix)
}
