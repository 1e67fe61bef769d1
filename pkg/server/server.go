// Package server exposes evaluation, lint and history over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/arthur-debert/cirules/pkg/evaluator"
	"github.com/arthur-debert/cirules/pkg/instrument"
	"github.com/arthur-debert/cirules/pkg/logging"
	"github.com/arthur-debert/cirules/pkg/store"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Store is the history the server records attempts into
type Store interface {
	SaveEvaluation(ctx context.Context, rec *store.Record) error
	GetEvaluation(ctx context.Context, id string) (*store.Record, error)
	ListEvaluations(ctx context.Context, limit int) ([]*store.Record, error)
}

// Options configure a Server. Store may be nil, which disables history.
type Options struct {
	Evaluator   *evaluator.Evaluator
	Store       Store
	MaxWarnings int

	InstrumentEnabled   bool
	InstrumentThreshold time.Duration
}

// Server is the HTTP front end
type Server struct {
	opts   Options
	router *gin.Engine
	logger zerolog.Logger
}

// New builds the router
func New(opts Options) *Server {
	if opts.Evaluator == nil {
		opts.Evaluator = evaluator.New(evaluator.DefaultOptions())
	}
	s := &Server{
		opts:   opts,
		router: gin.New(),
		logger: logging.GetLogger("server"),
	}
	s.router.Use(gin.Recovery(), s.requestLogger())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api/v1")
	api.POST("/evaluate", s.handleEvaluate)
	api.POST("/lint", s.handleLint)
	api.GET("/evaluations", s.handleListEvaluations)
	api.GET("/evaluations/:id", s.handleGetEvaluation)
}

// Handler returns the http.Handler serving every route
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string, readTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readTimeout,
		ReadTimeout:       readTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("address", addr).Msg("Listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info().Msg("Shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request")
	}
}

// instrument returns a fresh creation logger for one request, nil when
// instrumentation is off
func (s *Server) instrument() *instrument.Logger {
	if !s.opts.InstrumentEnabled {
		return nil
	}
	l := instrument.New(true)
	if s.opts.InstrumentThreshold > 0 {
		l.LogWhen(instrument.SlowerThan(s.opts.InstrumentThreshold))
	}
	return l
}
