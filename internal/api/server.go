// Package api serves the 0xcrack HTTP API over HTTP/1.1 and cleartext
// HTTP/2.
package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/RowanDark/0xcrack/internal/logging"
	"github.com/RowanDark/0xcrack/internal/observability/metrics"
	"github.com/RowanDark/0xcrack/internal/service"
)

const (
	defaultMaxBodyBytes   = 1 << 20
	defaultRequestTimeout = 5 * time.Minute
)

// Config configures the HTTP server.
type Config struct {
	Addr    string
	Service *service.Service
	Logger  *slog.Logger
	// AuthToken, when set, is required as a bearer token on /api/ routes.
	AuthToken string
	// RequestTimeout bounds each crack request. Zero selects five minutes.
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// Server exposes the crack service over HTTP.
type Server struct {
	cfg        Config
	svc        *service.Service
	logger     *slog.Logger
	httpServer *http.Server
}

// NewServer validates cfg and builds a server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Service == nil {
		return nil, errors.New("crack service is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	cfg.AuthToken = strings.TrimSpace(cfg.AuthToken)
	return &Server{cfg: cfg, svc: cfg.Service, logger: cfg.Logger}, nil
}

// Handler returns the routed, instrumented handler without h2c.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/api/v1/ciphers", s.instrument("ciphers", s.requireToken(http.HandlerFunc(s.handleCiphers))))
	mux.Handle("/api/v1/crack", s.instrument("crack", s.requireToken(http.HandlerFunc(s.handleCrack))))
	mux.Handle("/api/v1/decrypt", s.instrument("decrypt", s.requireToken(http.HandlerFunc(s.handleDecrypt))))
	mux.Handle("/api/v1/detect", s.instrument("detect", s.requireToken(http.HandlerFunc(s.handleDetect))))
	mux.Handle("/api/v1/runs", s.instrument("runs", s.requireToken(http.HandlerFunc(s.handleRuns))))
	mux.Handle("/api/v1/runs/", s.instrument("run", s.requireToken(http.HandlerFunc(s.handleRunByID))))
	return mux
}

// Run listens on cfg.Addr and blocks until ctx is cancelled or the listener
// fails.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           h2c.NewHandler(s.Handler(), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("http api listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		err := s.httpServer.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		_ = s.httpServer.Shutdown(shutdownCtx)
		return <-errCh
	case err := <-errCh:
		return err
	}
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	if s.cfg.AuthToken == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
			s.writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		token := strings.TrimSpace(authHeader[7:])
		if subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.AuthToken)) != 1 {
			s.writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(method string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		metrics.RecordRequest("http", method)
		next.ServeHTTP(rec, r)

		code := strconv.Itoa(rec.status)
		if rec.status >= 400 {
			metrics.RecordRequestError("http", method, code)
		}
		elapsed := time.Since(start)
		metrics.ObserveRequestLatency("http", method, code, elapsed)
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", elapsed)
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		s.writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}
