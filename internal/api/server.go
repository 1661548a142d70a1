// Package api exposes the calculation engine over HTTP using gin.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rgehrsitz/roundup/internal/calculation"
	"github.com/rgehrsitz/roundup/internal/config"
	"github.com/rgehrsitz/roundup/internal/logging"
)

// BasePath is the prefix of every API route
const BasePath = "/blackrock/challenge/v1"

// Options configures a Server
type Options struct {
	// APIKey is compared with the X-API-Key header; config.DevAPIKey disables the check
	APIKey          string
	ShutdownTimeout time.Duration
}

// Server wires HTTP routes to the calculation engine
type Server struct {
	engine  *calculation.CalculationEngine
	parser  *config.InputParser
	logger  logging.Logger
	opts    Options
	started time.Time
	router  *gin.Engine
	actions map[string]gin.HandlerFunc
}

// NewServer builds the router. A nil logger discards request logs.
func NewServer(engine *calculation.CalculationEngine, opts Options, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		engine:  engine,
		parser:  config.NewInputParser(),
		logger:  logger,
		opts:    opts,
		started: time.Now(),
		router:  gin.New(),
	}
	s.actions = map[string]gin.HandlerFunc{
		"transactions:parse":     s.handleParse,
		"transactions:validator": s.handleValidator,
		"transactions:filter":    s.handleFilter,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(gin.Recovery(), requestLogger(s.logger))

	v1 := s.router.Group(BasePath, apiKeyAuth(s.opts.APIKey))
	v1.GET("/performance", s.handlePerformance)
	// Action paths contain a colon, which gin would read as a parameter
	// marker, so the whole segment is captured and dispatched here.
	v1.POST("/:action", s.dispatch)
}

// Handler returns the HTTP handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", logging.F("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
