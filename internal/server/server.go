package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ksa-shopping-ranker/server/internal/agent/model"
	errx "github.com/ksa-shopping-ranker/server/internal/core/error"
	logx "github.com/ksa-shopping-ranker/server/pkg/logger"
)

const serviceName = "KSA Shopping Ranker API"
const serviceVersion = "0.1.0"

// Ranker is the agent loop surface the HTTP shell depends on.
type Ranker interface {
	Run(ctx context.Context, query string, trustedOnly bool) (*model.Result, error)
}

// HealthInfo reports configuration readiness for the health endpoint.
type HealthInfo struct {
	GeminiConfigured    bool
	SearchAPIConfigured bool
}

// Server is the HTTP shell around the agent loop.
type Server struct {
	e      *echo.Echo
	engine Ranker
	health HealthInfo
}

func New(engine Ranker, health HealthInfo) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	}))

	// Unified error handler: AppError carries its own status and safe message;
	// everything else collapses to a generic 500.
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := errx.SystemErrorMessage

		var appErr *errx.AppError
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			code = appErr.Status
			msg = appErr.Message
		case errors.As(err, &httpErr):
			code = httpErr.Code
			if m, ok := httpErr.Message.(string); ok {
				msg = m
			}
		}

		req := c.Request()
		logx.Error().Err(err).Int("status", code).Str("method", req.Method).
			Str("path", req.URL.Path).Msg("request failed")

		if !c.Response().Committed {
			_ = c.JSON(code, map[string]any{"error": msg})
		}
	}

	s := &Server{e: e, engine: engine, health: health}

	e.GET("/health", s.handleHealth)
	e.POST("/v1/rank", s.handleRank)

	return s
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

type rankRequest struct {
	Query       string `json:"query"`
	TrustedOnly bool   `json:"trusted_only"`
}

func (s *Server) handleRank(c echo.Context) error {
	var req rankRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	result, err := s.engine.Run(c.Request().Context(), req.Query, req.TrustedOnly)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleHealth(c echo.Context) error {
	var missing []string
	if !s.health.GeminiConfigured {
		missing = append(missing, "GEMINI_API_KEY is missing")
	}
	if !s.health.SearchAPIConfigured {
		missing = append(missing, "SEARCHAPI_KEY is missing")
	}

	if len(missing) > 0 {
		return c.JSON(http.StatusOK, map[string]any{
			"status":  "error",
			"message": strings.Join(missing, "; "),
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"service": serviceName,
		"version": serviceVersion,
		"keys_configured": map[string]bool{
			"gemini":    s.health.GeminiConfigured,
			"searchapi": s.health.SearchAPIConfigured,
		},
	})
}
