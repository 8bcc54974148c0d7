// Package server exposes the pipeline as a small job-intake HTTP API: a
// request is acknowledged immediately with a job ID while the pipeline runs in
// the background.
package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/fufufafaethon/clipper/internal/pipeline"
)

type GenerateRequest struct {
	VideoURL   string   `json:"videoUrl"`
	Categories []string `json:"categories"`
	UserPrompt string   `json:"userPrompt"`
}

type Server struct {
	base pipeline.Config
	logf func(format string, args ...any)

	// launch is swapped in tests; defaults to running the pipeline in a
	// goroutine.
	launch func(jobID string, cfg pipeline.Config)
}

func New(base pipeline.Config, logf func(format string, args ...any)) *Server {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	s := &Server{base: base, logf: logf}
	s.launch = s.runJob
	return s
}

func (s *Server) Handler() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.POST("/generate", s.generate)
	e.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return e
}

func (s *Server) ListenAndServe(addr string) error {
	s.logf("listening on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) generate(c echo.Context) error {
	var req GenerateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.VideoURL) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "videoUrl is required")
	}

	cfg := s.base
	cfg.Source = req.VideoURL
	cfg.Categories = req.Categories
	if strings.TrimSpace(req.UserPrompt) != "" {
		cfg.Intent = req.UserPrompt
	}
	if err := cfg.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	jobID := uuid.NewString()
	s.logf("starting new job (%s)", jobID)
	s.launch(jobID, cfg)

	return c.JSON(http.StatusAccepted, map[string]any{
		"data": map[string]any{"jobId": jobID},
	})
}

func (s *Server) runJob(jobID string, cfg pipeline.Config) {
	go func() {
		if err := pipeline.Run(context.Background(), cfg); err != nil {
			s.logf("job %s failed: %v", jobID, err)
			return
		}
		s.logf("job %s finished", jobID)
	}()
}
