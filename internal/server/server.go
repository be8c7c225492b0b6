// Package server exposes the assessment engine as a JSON HTTP API for an
// interactive front end.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/rshade/regenesis/internal/engine"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
	corsMaxAge        = 12 * time.Hour
)

// Config configures the HTTP server.
type Config struct {
	Addr           string
	AllowedOrigins []string
	// BatchConcurrency bounds parallel assessments in a batch request.
	BatchConcurrency int
}

// Server serves the regenesis API.
type Server struct {
	engine *engine.Engine
	cfg    Config
	log    zerolog.Logger
	val    *validator.Validate
	router *gin.Engine
}

// New builds a Server and its routes. The engine's reference data should be
// loaded before the server starts accepting requests.
func New(e *engine.Engine, cfg Config, log zerolog.Logger) *Server {
	s := &Server{
		engine: e,
		cfg:    cfg,
		log:    log.With().Str("component", "server").Logger(),
		val:    validator.New(validator.WithRequiredStructEnabled()),
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestContext(s.log))
	r.Use(requestLogger())
	r.Use(cors.New(corsConfig(s.cfg.AllowedOrigins)))

	r.GET("/healthz", s.handleHealth)

	v1 := r.Group("/api/v1")
	ref := v1.Group("/reference")
	ref.GET("/categories", s.handleCategories)
	ref.GET("/countries", s.handleCountries)
	ref.POST("/reload", s.handleReload)

	v1.POST("/assess", s.handleAssess)
	v1.POST("/assess/batch", s.handleAssessBatch)
	v1.POST("/roadmap/export", s.handleRoadmapExport)
	v1.GET("/explain", s.handleExplain)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", headerTraceID},
		ExposeHeaders: []string{headerTraceID, "Content-Disposition"},
		MaxAge:        corsMaxAge,
	}
	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
