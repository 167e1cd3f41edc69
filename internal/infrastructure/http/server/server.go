// Package server provides the HTTP server of the kitchen API
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/net/http2"

	"github.com/multivarka/kitchen/internal/infrastructure/config"
	"github.com/multivarka/kitchen/internal/infrastructure/http/handlers"
	"github.com/multivarka/kitchen/internal/infrastructure/http/middleware"
	"github.com/multivarka/kitchen/internal/infrastructure/http/realtime"
	"github.com/multivarka/kitchen/internal/infrastructure/monitoring"
	"github.com/multivarka/kitchen/pkg/healthcheck"
)

// Server represents the HTTP server
type Server struct {
	config   *config.Config
	logger   *zap.Logger
	router   *chi.Mux
	server   *http.Server
	api      *handlers.APIHandlers
	hub      *realtime.Hub
	health   *healthcheck.HealthCheck
	metrics  *monitoring.Metrics
	limiter  *middleware.RateLimiter
	listener net.Listener
}

// NewServer creates a new HTTP server instance
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	api *handlers.APIHandlers,
	hub *realtime.Hub,
	health *healthcheck.HealthCheck,
	metrics *monitoring.Metrics,
	limiter *middleware.RateLimiter,
) *Server {
	s := &Server{
		config:  cfg,
		logger:  logger.Named("http"),
		api:     api,
		hub:     hub,
		health:  health,
		metrics: metrics,
		limiter: limiter,
	}

	s.router = s.setupRouter()

	var handler http.Handler = s.router
	if cfg.Monitoring.EnableTracing {
		handler = otelhttp.NewHandler(handler, cfg.App.Name,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
		ErrorLog:          zap.NewStdLog(s.logger),
	}

	return s
}

// Handler exposes the router for in-process tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRouter configures the HTTP router with middleware and routes
func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security())
	if s.metrics != nil {
		r.Use(middleware.Metrics(s.metrics))
	}

	healthPath := s.config.Monitoring.HealthCheckPath
	if healthPath == "" {
		healthPath = "/health"
	}
	r.Get(healthPath, s.health.Handler())
	r.Get(healthPath+"/live", s.health.LivenessHandler())

	if s.metrics != nil && s.config.Monitoring.EnableMetrics {
		r.Handle(s.config.Monitoring.MetricsPath, s.metrics.Handler())
	}

	// websocket connections are long-lived and must not be compressed or timed out
	if s.hub != nil {
		r.Get("/ws", s.hub.ServeHTTP)
	}

	r.Group(func(r chi.Router) {
		if s.config.RateLimit.Enable && s.limiter != nil {
			r.Use(s.limiter.Middleware)
		}
		r.Use(chimiddleware.Timeout(30 * time.Second))
		if s.config.Server.EnableCompression {
			r.Use(compressor().Handler)
		}
		r.Route("/api", s.api.Routes)
	})

	return r
}

// compressor prefers brotli, falling back to gzip and deflate
func compressor() *chimiddleware.Compressor {
	c := chimiddleware.NewCompressor(5, "application/json")
	c.SetEncoder("br", func(w io.Writer, level int) io.Writer {
		return brotli.NewWriterLevel(w, level)
	})
	return c
}

// Listen binds the server address without serving yet
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.server.Addr, err)
	}
	s.listener = ln
	return nil
}

// Start serves until Shutdown; Listen is called when it has not been
func (s *Server) Start() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	s.logger.Info("Starting HTTP server",
		zap.String("address", s.listener.Addr().String()),
		zap.String("environment", s.config.App.Environment),
	)

	if s.config.Server.EnableHTTP2 {
		if err := http2.ConfigureServer(s.server, nil); err != nil {
			s.logger.Error("Failed to configure HTTP/2", zap.Error(err))
		}
	}

	if err := s.server.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
