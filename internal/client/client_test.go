package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pakrecharge/topup/internal/form"
	"github.com/pakrecharge/topup/internal/payment"
	"github.com/pakrecharge/topup/internal/server"
	"github.com/pakrecharge/topup/internal/topup"
)

var validState = topup.FormState{
	Network:       "zong",
	Phone:         "0312-7654321",
	Amount:        "500",
	PaymentMethod: "jazzcash",
}

func newClient(t *testing.T, succeed bool) *Client {
	t.Helper()

	srv, err := server.New(&server.Config{
		Catalog: form.DefaultCatalog(),
		Gateway: payment.NewSimulator(0, payment.Always(succeed)),
	})
	if err != nil {
		t.Fatalf("server.New() error = %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	c := New(ts.URL + "/")
	c.SetRetry(1, time.Millisecond)
	return c
}

func TestClient_PingAndCatalog(t *testing.T) {
	c := newClient(t, true)
	ctx := context.Background()

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	catalog, err := c.Catalog(ctx)
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}
	if len(catalog.Networks) != 4 || len(catalog.Bundles) != 3 {
		t.Errorf("Catalog() = %+v", catalog)
	}
	if problems := catalog.Validate(); len(problems) != 0 {
		t.Errorf("fetched catalog is invalid: %v", problems)
	}
	if _, ok := c.cached(); !ok {
		t.Error("catalog was not cached")
	}

	c.InvalidateCache()
	if _, ok := c.cached(); ok {
		t.Error("cache survived InvalidateCache()")
	}
}

func TestClient_Validate(t *testing.T) {
	c := newClient(t, true)
	ctx := context.Background()

	errs, err := c.Validate(ctx, validState)
	if err != nil || len(errs) != 0 {
		t.Fatalf("Validate(valid) = %v, %v", errs, err)
	}

	errs, err = c.Validate(ctx, topup.FormState{Network: "jazz", Phone: "03001234567", Amount: "3", PaymentMethod: "card"})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(errs) != 1 || errs[0].Message != topup.MsgAmountMinimum {
		t.Errorf("Validate(low amount) = %v", errs)
	}
}

func TestClient_TopUp(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid: receipt", func(t *testing.T) {
		receipt, err := newClient(t, true).TopUp(ctx, validState)
		if err != nil {
			t.Fatalf("TopUp() error = %v", err)
		}
		if receipt.Network != "zong" || receipt.Phone != "03127654321" || receipt.Reference == "" {
			t.Errorf("receipt = %+v", receipt)
		}
	})

	t.Run("Invalid: declined", func(t *testing.T) {
		_, err := newClient(t, false).TopUp(ctx, validState)
		if !topup.IsPaymentError(err) {
			t.Fatalf("TopUp() error = %v, want payment error", err)
		}
		if topup.ShortMessage(err) != topup.MsgPaymentFailed {
			t.Errorf("ShortMessage() = %q", topup.ShortMessage(err))
		}
	})

	t.Run("Invalid: empty form", func(t *testing.T) {
		_, err := newClient(t, true).TopUp(ctx, topup.FormState{})
		var errs topup.ValidationErrors
		if !errors.As(err, &errs) || len(errs) != 4 {
			t.Fatalf("TopUp() error = %v, want 4 validation errors", err)
		}
	})
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("OK"))
	}))
	defer ts.Close()

	c := New(ts.URL)
	c.SetRetry(3, time.Millisecond)

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestClient_GivesUp(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, `{"error":"broken"}`, http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := New(ts.URL)
	c.SetRetry(2, time.Millisecond)

	err := c.Ping(context.Background())
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("Ping() error = %v, want 500", err)
	}
	if httpErr.Message != "broken" {
		t.Errorf("Message = %q, want decoded error", httpErr.Message)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"Valid: network", &NetworkError{Op: "dial", Err: errors.New("refused")}, true},
		{"Valid: 503", &HTTPError{StatusCode: 503}, true},
		{"Valid: 429", &HTTPError{StatusCode: 429}, true},
		{"Invalid: 404", &HTTPError{StatusCode: 404}, false},
		{"Invalid: plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}
