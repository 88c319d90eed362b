// Package server exposes the recipe core over HTTP: a REST API under
// /api/v1, an MCP-style tool-call endpoint at /mcp, health and
// Prometheus metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/hammamikhairi/recipro/internal/auth"
	"github.com/hammamikhairi/recipro/internal/domain"
	"github.com/hammamikhairi/recipro/internal/logger"
	"github.com/hammamikhairi/recipro/internal/shopping"
)

// UserHeader names the request header carrying the caller's display name.
const UserHeader = "X-Recipro-User"

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// Option configures a Server.
type Option func(*Server)

// WithClock replaces time.Now for IDs, exports and shopping list footers.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// Server serves the recipe API.
type Server struct {
	echo    *echo.Echo
	store   domain.RecipeStore
	users   domain.UserProvider
	log     *logger.Logger
	zap     *zap.Logger
	metrics *metrics
	config  Config
	now     func() time.Time
}

// New creates the server. Requests may name their user with UserHeader;
// otherwise users supplies the fallback.
func New(store domain.RecipeStore, users domain.UserProvider, log *logger.Logger, cfg Config, opts ...Option) *Server {
	s := &Server{
		store:   store,
		users:   auth.NewContextProvider(users),
		log:     log,
		zap:     log.Zap(),
		metrics: newMetrics(),
		config:  cfg,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.requestLogger)
	e.Use(s.metrics.middleware)
	e.Use(userFromHeader)

	s.echo = e
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(s.metrics.handler()))

	v1 := s.echo.Group("/api/v1")
	v1.GET("/recipes", s.handleListRecipes)
	v1.POST("/recipes", s.handleCreateRecipe)
	v1.DELETE("/recipes", s.handleClearRecipes)
	v1.GET("/recipes/:id", s.handleGetRecipe)
	v1.PUT("/recipes/:id", s.handleUpdateRecipe)
	v1.DELETE("/recipes/:id", s.handleDeleteRecipe)
	v1.GET("/recipes/:id/scale", s.handleScaleRecipe)
	v1.GET("/stats", s.handleStats)
	v1.POST("/shopping-list", s.handleShoppingList)
	v1.GET("/export", s.handleExport)
	v1.POST("/import", s.handleImport)

	s.echo.GET("/mcp", s.handleMCPInfo)
	s.echo.POST("/mcp", s.handleMCP)
}

// ServeHTTP lets the server be driven by httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on the configured address. Blocks until shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.zap.Info("starting http server", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.zap.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		s.zap.Info("http request",
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
			zap.Int("status", statusOf(c, err)),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		)
		return err
	}
}

// userFromHeader attaches the named user to the request context.
func userFromHeader(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if name := c.Request().Header.Get(UserHeader); name != "" {
			ctx := auth.WithUser(c.Request().Context(), auth.NewUser(name))
			c.SetRequest(c.Request().WithContext(ctx))
		}
		return next(c)
	}
}

// statusOf reports the status a request will end with. Handler errors are
// turned into responses after middleware returns.
func statusOf(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

// httpError maps domain errors onto HTTP status codes.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrAlreadyExists):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) shoppingGenerator() *shopping.Generator {
	return shopping.New(shopping.WithClock(s.now))
}
