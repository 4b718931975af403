package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/pakrecharge/topup/internal/form"
	"github.com/pakrecharge/topup/internal/payment"
	"github.com/pakrecharge/topup/internal/topup"
)

const validBody = `{"network":"jazz","phone":"0300-1234567","amount":"100","paymentMethod":"easypaisa"}`

func newTestServer(t *testing.T, succeed bool) (*Server, *httptest.Server) {
	t.Helper()

	srv, err := New(&Config{
		Catalog: form.DefaultCatalog(),
		Timing:  form.Timing{Payment: time.Millisecond, Reset: time.Hour, Notification: time.Hour},
		Gateway: payment.NewSimulator(0, payment.Always(succeed)),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func post(t *testing.T, url, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s error = %v", url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return resp, data
}

func TestNew_RequiresConfig(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("New(nil) should fail")
	}
}

func TestNew_RejectsBrokenCatalog(t *testing.T) {
	catalog := form.DefaultCatalog()
	catalog.Networks = append(catalog.Networks, catalog.Networks[0])
	if _, err := New(&Config{Catalog: catalog}); err == nil {
		t.Error("New() with duplicate network ids should fail")
	}
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, true)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK || string(body) != "OK" {
		t.Errorf("GET /health = %d %q, want 200 OK", resp.StatusCode, body)
	}
}

func TestCatalog(t *testing.T) {
	_, ts := newTestServer(t, true)

	resp, err := http.Get(ts.URL + "/api/catalog")
	if err != nil {
		t.Fatalf("GET /api/catalog error = %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var got CatalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decoding catalog: %v", err)
	}
	if len(got.Networks) != 4 || len(got.Amounts) != 5 || len(got.PaymentMethods) != 4 {
		t.Errorf("catalog sizes = %d/%d/%d, want 4/5/4",
			len(got.Networks), len(got.Amounts), len(got.PaymentMethods))
	}
	if len(got.Bundles) != 3 || got.Bundles[1].Price != "Rs. 200" {
		t.Errorf("bundles = %+v", got.Bundles)
	}
}

func TestValidate(t *testing.T) {
	_, ts := newTestServer(t, true)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantFields []topup.Field
	}{
		{"Valid: complete form", validBody, http.StatusOK, nil},
		{"Invalid: empty form", `{}`, http.StatusUnprocessableEntity,
			[]topup.Field{topup.FieldNetwork, topup.FieldPhone, topup.FieldAmount, topup.FieldPaymentMethod}},
		{"Invalid: short phone", `{"network":"jazz","phone":"0300","amount":"100","paymentMethod":"card"}`,
			http.StatusUnprocessableEntity, []topup.Field{topup.FieldPhone}},
		{"Invalid: malformed body", `{"network":`, http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := post(t, ts.URL+"/api/validate", tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", resp.StatusCode, tt.wantStatus, data)
			}
			if tt.wantStatus == http.StatusBadRequest {
				return
			}

			var got ValidateResponse
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if got.Valid != (len(tt.wantFields) == 0) {
				t.Errorf("valid = %v", got.Valid)
			}
			if len(got.Errors) != len(tt.wantFields) {
				t.Fatalf("errors = %+v, want fields %v", got.Errors, tt.wantFields)
			}
			for i, f := range tt.wantFields {
				if got.Errors[i].Field != f {
					t.Errorf("error %d field = %s, want %s", i, got.Errors[i].Field, f)
				}
			}
		})
	}
}

func TestTopup(t *testing.T) {
	tests := []struct {
		name       string
		succeed    bool
		body       string
		wantStatus int
	}{
		{"Valid: payment succeeds", true, validBody, http.StatusOK},
		{"Invalid: payment declined", false, validBody, http.StatusPaymentRequired},
		{"Invalid: form rejected", true, `{"phone":"123"}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, ts := newTestServer(t, tt.succeed)

			resp, data := post(t, ts.URL+"/api/topup", tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", resp.StatusCode, tt.wantStatus, data)
			}

			switch tt.wantStatus {
			case http.StatusOK:
				var receipt payment.Receipt
				if err := json.Unmarshal(data, &receipt); err != nil {
					t.Fatalf("decoding receipt: %v", err)
				}
				if receipt.Reference == "" || receipt.Phone != "03001234567" || receipt.Amount != "100" {
					t.Errorf("receipt = %+v", receipt)
				}
				if got := testutil.ToFloat64(srv.Metrics().Submissions.WithLabelValues(outcomeSucceeded)); got != 1 {
					t.Errorf("succeeded submissions = %v, want 1", got)
				}
			case http.StatusPaymentRequired:
				var e ErrorResponse
				_ = json.Unmarshal(data, &e)
				if e.Error != topup.MsgPaymentFailed {
					t.Errorf("error = %q, want %q", e.Error, topup.MsgPaymentFailed)
				}
				if got := testutil.ToFloat64(srv.Metrics().Submissions.WithLabelValues(outcomeFailed)); got != 1 {
					t.Errorf("failed submissions = %v, want 1", got)
				}
			case http.StatusUnprocessableEntity:
				if got := testutil.ToFloat64(srv.Metrics().ValidationErrors.WithLabelValues(string(topup.FieldNetwork))); got != 1 {
					t.Errorf("network validation errors = %v, want 1", got)
				}
			}
		})
	}
}

func TestWorkerScript(t *testing.T) {
	_, ts := newTestServer(t, true)

	resp, err := http.Get(ts.URL + WorkerPath)
	if err != nil {
		t.Fatalf("GET %s error = %v", WorkerPath, err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/javascript") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(string(body), "addEventListener('fetch'") {
		t.Error("worker script missing fetch handler")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer(t, true)
	post(t, ts.URL+"/api/topup", validBody)

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics error = %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{
		`pakrecharge_submissions_total{outcome="succeeded"} 1`,
		"pakrecharge_payment_duration_seconds_count 1",
		"pakrecharge_active_sessions 0",
		`pakrecharge_http_requests_total{code="200",route="/api/topup"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestUnknownRoute(t *testing.T) {
	_, ts := newTestServer(t, true)

	resp, err := http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatalf("GET /nope error = %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestServe_StopsOnCancel(t *testing.T) {
	srv, err := New(&Config{Gateway: payment.NewSimulator(0, payment.Always(true))})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)
	go func() { errChan <- srv.Serve(ctx, listener) }()

	url := "http://" + listener.Addr().String() + "/health"
	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := http.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server never answered: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-errChan:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}
