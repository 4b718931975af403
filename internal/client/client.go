package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pakrecharge/topup/internal/form"
	"github.com/pakrecharge/topup/internal/logging"
	"github.com/pakrecharge/topup/internal/payment"
	"github.com/pakrecharge/topup/internal/topup"
)

const (
	// DefaultTimeout bounds each request. A top-up waits for the simulated
	// payment, so this is well above the default payment delay.
	DefaultTimeout = 15 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed requests
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the default delay between retry attempts
	DefaultRetryDelay = 500 * time.Millisecond

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 10 * time.Second

	// DefaultCacheDuration is how long a fetched catalog is reused
	DefaultCacheDuration = 30 * time.Second
)

// Client is an API client for one server
type Client struct {
	// BaseURL is the server root (e.g., "http://192.168.1.20:8080")
	BaseURL string

	HTTPClient *http.Client

	MaxRetries            int
	RetryDelay            time.Duration
	MaxRetryDelay         time.Duration
	UseExponentialBackoff bool

	// CacheDuration is how long to cache the catalog (0 = no cache)
	CacheDuration time.Duration

	cacheMutex    sync.RWMutex
	cachedCatalog *form.Catalog
	cacheTime     time.Time
}

// New creates a client for the server at baseURL
func New(baseURL string) *Client {
	return &Client{
		BaseURL:               strings.TrimRight(baseURL, "/"),
		HTTPClient:            &http.Client{Timeout: DefaultTimeout},
		MaxRetries:            DefaultMaxRetries,
		RetryDelay:            DefaultRetryDelay,
		MaxRetryDelay:         DefaultMaxRetryDelay,
		UseExponentialBackoff: true,
		CacheDuration:         DefaultCacheDuration,
	}
}

// SetRetry configures retry behavior
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

// Ping checks that the server answers its health probe
func (c *Client) Ping(ctx context.Context) error {
	status, body, err := c.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK || strings.TrimSpace(string(body)) != "OK" {
		return &HTTPError{StatusCode: status, Message: "health check failed"}
	}
	return nil
}

// Catalog fetches the options the server offers, using the cache when fresh
func (c *Client) Catalog(ctx context.Context) (form.Catalog, error) {
	if cached, ok := c.cached(); ok {
		return cached, nil
	}

	var resp struct {
		Networks       []form.Option  `json:"networks"`
		Amounts        []form.Option  `json:"amounts"`
		PaymentMethods []form.Option  `json:"paymentMethods"`
		Bundles        []topup.Bundle `json:"bundles"`
	}
	status, body, err := c.do(ctx, http.MethodGet, "/api/catalog", nil)
	if err != nil {
		return form.Catalog{}, err
	}
	if status != http.StatusOK {
		return form.Catalog{}, statusError(status, body)
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return form.Catalog{}, &HTTPError{StatusCode: status, Message: "malformed catalog: " + err.Error()}
	}

	catalog := form.Catalog{
		Networks:       resp.Networks,
		Amounts:        resp.Amounts,
		PaymentMethods: resp.PaymentMethods,
		Bundles:        resp.Bundles,
	}
	if c.CacheDuration > 0 {
		c.cacheMutex.Lock()
		c.cachedCatalog = &catalog
		c.cacheTime = time.Now()
		c.cacheMutex.Unlock()
	}
	return catalog, nil
}

// Validate asks the server to validate state. An invalid form comes back
// as topup.ValidationErrors with a nil error.
func (c *Client) Validate(ctx context.Context, state topup.FormState) (topup.ValidationErrors, error) {
	status, body, err := c.do(ctx, http.MethodPost, "/api/validate", state)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
		return nil, nil
	case http.StatusUnprocessableEntity:
		return decodeValidation(status, body)
	default:
		return nil, statusError(status, body)
	}
}

// TopUp validates and charges in one call. Returns topup.ValidationErrors
// for an invalid form and a payment error when the charge is declined.
func (c *Client) TopUp(ctx context.Context, state topup.FormState) (*payment.Receipt, error) {
	status, body, err := c.do(ctx, http.MethodPost, "/api/topup", state)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
		var receipt payment.Receipt
		if err := json.Unmarshal(body, &receipt); err != nil {
			return nil, &HTTPError{StatusCode: status, Message: "malformed receipt: " + err.Error()}
		}
		return &receipt, nil
	case http.StatusUnprocessableEntity:
		errs, err := decodeValidation(status, body)
		if err != nil {
			return nil, err
		}
		if len(errs) == 0 {
			return nil, statusError(status, body)
		}
		return nil, errs
	case http.StatusPaymentRequired:
		return nil, topup.NewPaymentError(topup.MsgPaymentFailed, statusError(status, body))
	default:
		return nil, statusError(status, body)
	}
}

// InvalidateCache drops the cached catalog
func (c *Client) InvalidateCache() {
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()
	c.cachedCatalog = nil
	c.cacheTime = time.Time{}
}

func (c *Client) cached() (form.Catalog, bool) {
	if c.CacheDuration <= 0 {
		return form.Catalog{}, false
	}
	c.cacheMutex.RLock()
	defer c.cacheMutex.RUnlock()
	if c.cachedCatalog != nil && time.Since(c.cacheTime) < c.CacheDuration {
		return *c.cachedCatalog, true
	}
	return form.Catalog{}, false
}

// do sends a request, retrying network failures and 5xx answers.
// Any other status is returned to the caller with its body.
func (c *Client) do(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var data []byte
	if payload != nil {
		var err error
		if data, err = json.Marshal(payload); err != nil {
			return 0, nil, err
		}
	}

	var lastErr error
	currentDelay := c.RetryDelay

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return 0, nil, ctx.Err()
			case <-time.After(currentDelay):
			}

			if c.UseExponentialBackoff {
				currentDelay *= 2
				if currentDelay > c.MaxRetryDelay {
					currentDelay = c.MaxRetryDelay
				}
			}
		}

		status, body, err := c.attempt(ctx, method, path, data)
		if err == nil && status >= 500 {
			err = statusError(status, body)
		}
		if err == nil {
			return status, body, nil
		}

		lastErr = err
		if !IsRetryable(err) || ctx.Err() != nil {
			return 0, nil, err
		}
		logging.Debug("Retrying request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}

	return 0, nil, lastErr
}

// attempt performs a single request
func (c *Client) attempt(ctx context.Context, method, path string, data []byte) (int, []byte, error) {
	var reader io.Reader
	if data != nil {
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return 0, nil, &NetworkError{Op: "failed to create request", Err: err}
	}
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, &NetworkError{Op: method + " " + path + " failed", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &NetworkError{Op: "failed to read response body", Err: err}
	}
	return resp.StatusCode, body, nil
}

func decodeValidation(status int, body []byte) (topup.ValidationErrors, error) {
	var resp struct {
		Errors topup.ValidationErrors `json:"errors"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &HTTPError{StatusCode: status, Message: "malformed validation response: " + err.Error()}
	}
	return resp.Errors, nil
}

func statusError(status int, body []byte) error {
	var resp struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &resp) == nil && resp.Error != "" {
		msg = resp.Error
	}
	return &HTTPError{StatusCode: status, Message: msg}
}
