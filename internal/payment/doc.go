// Package payment provides the simulated payment call used by top-up
// submissions.
//
// There is no real payment processor behind PakRecharge. The Simulator waits
// for a configurable delay and then asks an OutcomeProvider whether the
// charge succeeded. Production wiring uses RandomOutcome with a 90% success
// rate; tests inject Always(true) or Always(false) to make results
// deterministic.
//
// # Usage Example
//
//	gw := payment.NewSimulator(2*time.Second, payment.NewRandomOutcome(0.9))
//	receipt, err := gw.Charge(ctx, &payment.Request{
//	    Network:       "jazz",
//	    Phone:         "03001234567",
//	    Amount:        "500",
//	    PaymentMethod: "easypaisa",
//	})
//	if topup.IsPaymentError(err) {
//	    // show "Payment failed. Please try again."
//	}
//
// Charge honours context cancellation, so a shutting-down server does not
// wait out the simulated delay.
package payment
