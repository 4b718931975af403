package payment

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultSuccessRate is the share of simulated charges that succeed
const DefaultSuccessRate = 0.9

// OutcomeProvider decides whether a simulated charge succeeds.
type OutcomeProvider interface {
	Succeed(req *Request) bool
}

// OutcomeFunc adapts a function to OutcomeProvider
type OutcomeFunc func(req *Request) bool

// Succeed implements OutcomeProvider
func (f OutcomeFunc) Succeed(req *Request) bool {
	return f(req)
}

// Always returns a provider with a fixed answer
func Always(succeed bool) OutcomeProvider {
	return OutcomeFunc(func(*Request) bool { return succeed })
}

// RandomOutcome succeeds with a fixed probability
type RandomOutcome struct {
	mu   sync.Mutex
	rate float64
	rng  *rand.Rand
}

// NewRandomOutcome creates a provider seeded from the clock. Rates outside
// [0, 1] are clamped.
func NewRandomOutcome(rate float64) *RandomOutcome {
	return NewSeededOutcome(rate, time.Now().UnixNano())
}

// NewSeededOutcome creates a provider with a fixed seed
func NewSeededOutcome(rate float64, seed int64) *RandomOutcome {
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	return &RandomOutcome{
		rate: rate,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Rate returns the configured success probability
func (r *RandomOutcome) Rate() float64 {
	return r.rate
}

// Succeed implements OutcomeProvider
func (r *RandomOutcome) Succeed(*Request) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64() < r.rate
}
