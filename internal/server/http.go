package server

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/pakrecharge/topup/internal/form"
	"github.com/pakrecharge/topup/internal/logging"
	"github.com/pakrecharge/topup/internal/topup"
)

// maxBodySize bounds API request bodies
const maxBodySize = 16 << 10

// CatalogResponse is the body of GET /api/catalog
type CatalogResponse struct {
	Networks       []form.Option  `json:"networks"`
	Amounts        []form.Option  `json:"amounts"`
	PaymentMethods []form.Option  `json:"paymentMethods"`
	Bundles        []topup.Bundle `json:"bundles"`
}

// ValidateResponse is the body of POST /api/validate
type ValidateResponse struct {
	Valid  bool                     `json:"valid"`
	Errors []*topup.ValidationError `json:"errors,omitempty"`
}

// ErrorResponse carries a single message
type ErrorResponse struct {
	Error string `json:"error"`
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	c := s.config.Catalog
	writeJSON(w, http.StatusOK, CatalogResponse{
		Networks:       c.Networks,
		Amounts:        c.Amounts,
		PaymentMethods: c.PaymentMethods,
		Bundles:        c.Bundles,
	})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	state, ok := decodeState(w, r)
	if !ok {
		return
	}
	if errs := topup.Validate(state); len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, ValidateResponse{Errors: errs})
		return
	}
	writeJSON(w, http.StatusOK, ValidateResponse{Valid: true})
}

// handleTopup validates and charges in one blocking call
func (s *Server) handleTopup(w http.ResponseWriter, r *http.Request) {
	state, ok := decodeState(w, r)
	if !ok {
		return
	}

	app := form.NewApp(form.Options{
		Catalog:  s.config.Catalog,
		Timing:   s.config.Timing,
		Gateway:  s.config.Gateway,
		Observer: s.metrics,
	})

	out, err := app.Submission.Submit(r.Context(), state)
	if err != nil {
		var errs topup.ValidationErrors
		if errors.As(err, &errs) {
			writeJSON(w, http.StatusUnprocessableEntity, ValidateResponse{Errors: errs})
			return
		}
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: topup.ShortMessage(err)})
		return
	}
	if !out.Succeeded() {
		writeJSON(w, http.StatusPaymentRequired, ErrorResponse{Error: topup.MsgPaymentFailed})
		return
	}
	writeJSON(w, http.StatusOK, out.Receipt)
}

// decodeState reads a FormState body, answering 400 itself on failure
func decodeState(w http.ResponseWriter, r *http.Request) (topup.FormState, bool) {
	var state topup.FormState
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(&state); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return state, false
	}
	return state, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("Failed to write response", zap.Int("status", status), zap.Error(err))
	}
}

// statusRecorder captures the status code for request logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrader take over the connection
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// logRequests logs each request and counts it by route template
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		s.metrics.Requests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
