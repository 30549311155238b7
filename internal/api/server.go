// Package api serves prayer times over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/thurmanmarka/prayerglide"
	"github.com/thurmanmarka/prayerglide/internal/config"
)

type Server struct {
	router   *gin.Engine
	server   *http.Server
	addr     string
	defaults config.Resolved
	logger   zerolog.Logger
	now      func() time.Time
}

type ServerConfig struct {
	Address string
	// Defaults supplies the location, method, convention and method
	// registry used when a request does not override them.
	Defaults config.Resolved
	Logger   zerolog.Logger
	// Now is the clock used by /api/v1/next when no instant is given.
	// Defaults to time.Now.
	Now func() time.Time
}

func NewServer(cfg ServerConfig) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(cfg.Logger))

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	s := &Server{
		router:   router,
		addr:     cfg.Address,
		defaults: cfg.Defaults,
		logger:   cfg.Logger,
		now:      now,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthHandler)

	api := s.router.Group("/api/v1")
	{
		api.GET("/methods", s.methodsHandler)
		api.GET("/times", s.timesHandler)
		api.GET("/next", s.nextHandler)
		api.GET("/month", s.monthHandler)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until Shutdown is called. It returns nil after a clean
// shutdown.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info().Str("address", s.addr).Msg("API server starting")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ev := logger.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			ev = logger.Error()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, prayerglide.ErrUnknownMethod),
		errors.Is(err, prayerglide.ErrNonFinite),
		errors.Is(err, prayerglide.ErrOutOfRange),
		errors.Is(err, prayerglide.ErrUnknownConvention),
		errors.Is(err, prayerglide.ErrUnknownEvent),
		errors.Is(err, errBadQuery):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}
