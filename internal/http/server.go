// Package http provides the learnrag HTTP API.
package http

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"learnrag/internal/domain"
	"learnrag/internal/usecase"
)

// Engine is the part of the usecase layer the API exposes.
type Engine interface {
	Ingest(name, text string) (domain.Document, error)
	ListDocuments() ([]domain.Document, int)
	DeleteDocument(id string) error
	Retrieve(query string, topK int) ([]domain.ScoredChunk, error)
	BuildPrompt(req usecase.PromptRequest) (domain.PromptResult, error)
	Health() domain.Stats
}

// Server provides HTTP endpoints for learnrag.
type Server struct {
	echo    *echo.Echo
	engine  Engine
	metrics *Metrics
	logger  *zap.Logger
	config  *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host           string
	Port           int
	MaxUploadBytes int64
	RateLimit      float64 // requests per second per client, 0 = disabled
}

// multipartOverhead is headroom above MaxUploadBytes for multipart framing.
const multipartOverhead = 1 << 20

// NewServer creates a new HTTP server.
func NewServer(engine Engine, logger *zap.Logger, cfg *Config) (*Server, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "0.0.0.0",
			Port: 3001,
		}
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:   e,
		engine: engine,
		metrics: NewMetrics(func() (int, int) {
			st := engine.Health()
			return st.DocumentCount, st.TotalChunks
		}),
		logger: logger,
		config: cfg,
	}
	e.HTTPErrorHandler = s.handleError

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.observe)
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dK", (cfg.MaxUploadBytes+multipartOverhead)/1024)))
	if cfg.RateLimit > 0 {
		e.Use(newClientLimiter(cfg.RateLimit, logger).middleware)
	}

	s.registerRoutes()

	return s, nil
}

// observe logs and counts every request. Handler errors are rendered here so
// the recorded status is the one the client sees.
func (s *Server) observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		if err := next(c); err != nil {
			c.Error(err)
		}
		duration := time.Since(start)

		s.metrics.observeRequest(c, duration)
		s.logger.Info("http request",
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
			zap.Int("status", c.Response().Status),
			zap.Duration("duration", duration),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		)
		return nil
	}
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))

	api := s.echo.Group("/api")
	api.GET("/health", s.handleHealth)
	api.POST("/upload", s.handleUpload)
	api.POST("/documents", s.handleCreateDocument)
	api.GET("/documents", s.handleListDocuments)
	api.DELETE("/documents/:id", s.handleDeleteDocument)
	api.POST("/query", s.handleQuery)
	api.POST("/build-prompt", s.handleBuildPrompt)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
