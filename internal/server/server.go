// Package server exposes the tracker over HTTP for `dcftracker serve`.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Adithya151/DCF---racker/internal/config"
	"github.com/Adithya151/DCF---racker/internal/logging"
	"github.com/Adithya151/DCF---racker/internal/tracker"
)

// TraceHeader carries the request trace ID in both directions.
const TraceHeader = "X-Trace-Id"

const (
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 15 * time.Second
)

// Server wires HTTP handlers to a tracker.Service.
type Server struct {
	svc     *tracker.Service
	metrics *Metrics
	base    zerolog.Logger
	logger  zerolog.Logger
	httpSrv *http.Server
}

// New builds a Server. metrics should also be the Service's Observer so the
// /metrics endpoint reflects tracker activity.
func New(cfg config.ServerConfig, svc *tracker.Service, metrics *Metrics, logger zerolog.Logger) *Server {
	s := &Server{
		svc:     svc,
		metrics: metrics,
		base:    logger,
		logger:  logging.ComponentLogger(logger, "server"),
	}

	s.httpSrv = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  idleTimeout,
	}
	return s
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	s.registerRoutes(r)
	return s.withLogging(r)
}

// Serve listens on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("address", ln.Addr().String()).Msg("listening")
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info().Msg("shutting down")
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// ListenAndServe binds the configured address and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpSrv.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging attaches a trace ID and a request-scoped logger to the context
// and logs each request on completion.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		traceID := r.Header.Get(TraceHeader)
		if traceID == "" {
			traceID = logging.NewTraceID()
		}
		w.Header().Set(TraceHeader, traceID)

		reqLogger := s.base.With().Str(logging.TraceIDField, traceID).Logger()
		ctx := logging.ContextWithTraceID(r.Context(), traceID)
		ctx = reqLogger.WithContext(ctx)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		reqLogger.Debug().
			Str("component", "server").
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}
