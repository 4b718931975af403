package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pakrecharge/topup/internal/topup"
)

// DefaultDelay is how long the simulated payment call takes
const DefaultDelay = 2 * time.Second

// ErrDeclined is wrapped by every simulated failure
var ErrDeclined = errors.New("payment declined by simulator")

// Request describes a single charge
type Request struct {
	Reference     string `json:"reference"`
	Network       string `json:"network"`
	Phone         string `json:"phone"`
	Amount        string `json:"amount"`
	PaymentMethod string `json:"paymentMethod"`
}

// NewRequest builds a request from a validated form state and assigns it a
// fresh reference.
func NewRequest(state topup.FormState) *Request {
	state = state.Normalized()
	return &Request{
		Reference:     uuid.NewString(),
		Network:       state.Network,
		Phone:         state.Phone,
		Amount:        state.Amount,
		PaymentMethod: state.PaymentMethod,
	}
}

// Receipt is returned for a successful charge
type Receipt struct {
	Reference     string    `json:"reference"`
	Network       string    `json:"network"`
	Phone         string    `json:"phone"`
	Amount        string    `json:"amount"`
	PaymentMethod string    `json:"paymentMethod"`
	ProcessedAt   time.Time `json:"processedAt"`
}

// Gateway charges a top-up. Implementations must be safe for concurrent use.
type Gateway interface {
	Charge(ctx context.Context, req *Request) (*Receipt, error)
}

// Simulator is a Gateway that waits Delay and then consults Outcomes.
type Simulator struct {
	Delay    time.Duration
	Outcomes OutcomeProvider

	// Now is used for receipt timestamps. Defaults to time.Now.
	Now func() time.Time
}

// NewSimulator creates a simulator. A nil provider always succeeds.
func NewSimulator(delay time.Duration, outcomes OutcomeProvider) *Simulator {
	if outcomes == nil {
		outcomes = Always(true)
	}
	return &Simulator{
		Delay:    delay,
		Outcomes: outcomes,
		Now:      time.Now,
	}
}

// Charge implements Gateway
func (s *Simulator) Charge(ctx context.Context, req *Request) (*Receipt, error) {
	if req == nil {
		return nil, fmt.Errorf("payment request is nil")
	}
	if req.Reference == "" {
		req.Reference = uuid.NewString()
	}

	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, topup.NewPaymentError("payment interrupted", ctx.Err())
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, topup.NewPaymentError("payment interrupted", err)
	}

	if !s.Outcomes.Succeed(req) {
		return nil, topup.NewPaymentError(topup.MsgPaymentFailed,
			fmt.Errorf("%w: reference %s", ErrDeclined, req.Reference))
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	return &Receipt{
		Reference:     req.Reference,
		Network:       req.Network,
		Phone:         req.Phone,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		ProcessedAt:   now(),
	}, nil
}
