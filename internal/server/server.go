// Package server exposes the ledger's read-only HTTP API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osse101/ItemLedger_Go/internal/handler"
	"github.com/osse101/ItemLedger_Go/internal/logger"
	"github.com/osse101/ItemLedger_Go/internal/metrics"
	"github.com/osse101/ItemLedger_Go/internal/sse"
)

// Options configures the HTTP server
type Options struct {
	Port        int
	Reader      handler.RegistryReader
	Checkers    []handler.HealthChecker
	ServiceName string
	Version     string
	Environment string
	// RateLimit is requests per client IP per RateLimitWindow; 0 uses DefaultRateLimit
	RateLimit int
	// Feed, when set, is served at /api/v1/events and stopped on shutdown
	Feed *sse.Hub
}

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(opts Options) *Server {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           NewRouter(opts),
		ReadHeaderTimeout: ReadHeaderTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}
	if opts.Feed != nil {
		// Open streams would otherwise hold Shutdown until its deadline.
		srv.RegisterOnShutdown(opts.Feed.Stop)
	}
	return &Server{httpServer: srv}
}

// NewRouter builds the chi router. Exposed so tests can drive it with httptest.
func NewRouter(opts Options) http.Handler {
	limit := opts.RateLimit
	if limit <= 0 {
		limit = DefaultRateLimit
	}

	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeadersMiddleware())
	r.Use(RateLimitMiddleware(NewRateLimiter(limit, RateLimitWindow)))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(opts.Checkers...))
	r.Get("/version", handler.HandleVersion(opts.ServiceName, opts.Version, opts.Environment))
	r.Handle("/metrics", promhttp.Handler())

	registryHandler := handler.NewRegistryHandler(opts.Reader)
	r.Route("/api/v1", func(r chi.Router) {
		registryHandler.Routes(r)
		if opts.Feed != nil {
			r.Get("/events", sse.Handler(opts.Feed))
		}
	})

	return r
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func isQuiet(path string) bool {
	for _, p := range QuietPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// loggingMiddleware assigns a request id (honouring an incoming X-Request-ID)
// and logs request start and completion.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isQuiet(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()

		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = logger.GenerateRequestID()
		}
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)
		w.Header().Set(HeaderRequestID, requestID)

		log := logger.FromContext(ctx)
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent())

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server. It returns http.ErrServerClosed after Stop.
func (s *Server) Start() error {
	logger.Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	logger.Info(LogMsgServerStopping)
	return s.httpServer.Shutdown(ctx)
}
