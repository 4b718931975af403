package form

import (
	"time"

	"github.com/pakrecharge/topup/internal/payment"
)

// Scheduler keys
const (
	KeyReset        = "reset"
	KeyNotification = "notification-dismiss"
)

// Timing holds the delays used by a form session
type Timing struct {
	Payment      time.Duration `json:"payment" yaml:"payment"`           // Simulated payment call
	Reset        time.Duration `json:"reset" yaml:"reset"`               // Success panel to form reset
	Notification time.Duration `json:"notification" yaml:"notification"` // Bundle banner lifetime
}

// DefaultTiming returns the standard delays
func DefaultTiming() Timing {
	return Timing{
		Payment:      payment.DefaultDelay,
		Reset:        5 * time.Second,
		Notification: 3 * time.Second,
	}
}

// withDefaults fills zero delays. Payment may legitimately be zero, so only
// negative values are replaced there.
func (t Timing) withDefaults() Timing {
	d := DefaultTiming()
	if t.Payment < 0 {
		t.Payment = d.Payment
	}
	if t.Reset <= 0 {
		t.Reset = d.Reset
	}
	if t.Notification <= 0 {
		t.Notification = d.Notification
	}
	return t
}
