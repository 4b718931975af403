package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/pakrecharge/topup/internal/discovery"
	"github.com/pakrecharge/topup/internal/form"
	"github.com/pakrecharge/topup/internal/logging"
	"github.com/pakrecharge/topup/internal/payment"
)

// DefaultListen is the address used when Config.Listen is empty
const DefaultListen = ":8080"

// shutdownTimeout bounds how long Start waits for sessions on exit
const shutdownTimeout = 10 * time.Second

// Config holds the server configuration
type Config struct {
	Listen      string // Address to listen on, e.g. ":8080"
	Advertise   bool   // Announce the service over mDNS at startup
	ServiceName string // mDNS instance name
	Version     string // Advertised in TXT records

	Catalog form.Catalog
	Timing  form.Timing
	Gateway payment.Gateway // Shared by every session and API call
}

// Server serves the top-up API and websocket form sessions
type Server struct {
	config     *Config
	router     *mux.Router
	metrics    *Metrics
	dispatcher *form.Dispatcher
	httpServer *http.Server
	listener   net.Listener
	advert     *discovery.Advertisement

	ctx    context.Context
	cancel context.CancelFunc

	wg       sync.WaitGroup
	mu       sync.Mutex
	sessions map[string]*session
}

// New creates a new Server instance
func New(config *Config) (*Server, error) {
	if config == nil {
		return nil, errors.New("server config is required")
	}
	if config.Listen == "" {
		config.Listen = DefaultListen
	}
	if len(config.Catalog.Networks) == 0 && len(config.Catalog.Amounts) == 0 {
		config.Catalog = form.DefaultCatalog()
	}
	if problems := config.Catalog.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid catalog: %w", errors.Join(problems...))
	}
	if config.Timing == (form.Timing{}) {
		config.Timing = form.DefaultTiming()
	}
	if config.Gateway == nil {
		config.Gateway = payment.NewSimulator(config.Timing.Payment,
			payment.NewRandomOutcome(payment.DefaultSuccessRate))
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		config:     config,
		metrics:    NewMetrics(),
		dispatcher: form.DefaultDispatcher(),
		ctx:        ctx,
		cancel:     cancel,
		sessions:   make(map[string]*session),
	}
	s.router = s.routes()
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// routes builds the router
func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/", handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/health", handleHealth).Methods(http.MethodGet)
	r.HandleFunc(WorkerPath, handleWorker).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/catalog", s.handleCatalog).Methods(http.MethodGet)
	api.HandleFunc("/validate", s.handleValidate).Methods(http.MethodPost)
	api.HandleFunc("/topup", s.handleTopup).Methods(http.MethodPost)

	return r
}

// Handler returns the root handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics returns the server's collectors
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Start listens and blocks until SIGINT/SIGTERM, then shuts down
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run listens and blocks until ctx is cancelled or the listener fails
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Listen, err)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is cancelled
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.listener = listener
	addr := listener.Addr().String()

	logging.Info("Starting PakRecharge server",
		zap.String("addr", addr),
		zap.Int("networks", len(s.config.Catalog.Networks)),
		zap.Int("bundles", len(s.config.Catalog.Bundles)),
		zap.Duration("payment_delay", s.config.Timing.Payment),
	)

	if s.config.Advertise {
		s.advertise(listener.Addr())
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		logging.Info("Shutdown signal received, stopping server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// advertise registers the mDNS service. Failures are logged only.
func (s *Server) advertise(addr net.Addr) {
	port, err := discovery.PortFromAddr(addr.String())
	if err != nil {
		logging.Warn("Skipping mDNS advertisement", zap.Error(err))
		return
	}
	name := s.config.ServiceName
	if name == "" {
		name = "PakRecharge"
	}
	ad, err := discovery.Advertise(name, port, s.config.Version)
	if err != nil {
		logging.Warn("mDNS advertisement failed", zap.String("service", name), zap.Error(err))
		return
	}
	s.advert = ad
	logging.Info("Advertising service over mDNS",
		zap.String("service", name),
		zap.String("type", discovery.ServiceType),
		zap.Int("port", port),
	)
}

// Shutdown stops accepting connections, closes sessions and waits for them
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	s.advert.Shutdown()
	s.cancel()

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		logging.Error("Error stopping HTTP server", zap.Error(err))
	}

	s.mu.Lock()
	for id, sess := range s.sessions {
		logging.Info("Closing active session", zap.String("session", id))
		sess.close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All sessions closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}

	logging.Sync()
	return err
}

// ActiveSessions returns the number of open websocket sessions
func (s *Server) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// addSession registers a session and its goroutine. Returns false once
// shutdown has begun.
func (s *Server) addSession(sess *session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		return false
	}
	s.wg.Add(1)
	s.sessions[sess.id] = sess
	s.metrics.ActiveSessions.Inc()
	return true
}

func (s *Server) removeSession(sess *session) {
	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()
	s.metrics.ActiveSessions.Dec()
	s.wg.Done()
}
