// Package api exposes the latest pipeline run report over HTTP.
package api

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/synthlab/synth360/metrics"
	"github.com/synthlab/synth360/version"
)

// ReportHolder keeps the most recent run report for serving.
type ReportHolder struct {
	mu     sync.RWMutex
	report *metrics.RunReport
}

// Set stores the latest run report.
func (h *ReportHolder) Set(run metrics.RunReport) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.report = &run
}

// Get returns the latest run report, or false when none was recorded.
func (h *ReportHolder) Get() (metrics.RunReport, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.report == nil {
		return metrics.RunReport{}, false
	}
	return *h.report, true
}

// ServerOptions configure the API server.
type ServerOptions struct {
	Port    string
	Prefork bool
}

// Server holds the Fiber app instance and the report it serves.
type Server struct {
	app    *fiber.App
	holder *ReportHolder
	opts   ServerOptions
}

// NewServer initializes a new Fiber instance.
func NewServer(opts ServerOptions, holder *ReportHolder) *Server {
	if holder == nil {
		holder = &ReportHolder{}
	}
	app := fiber.New(fiber.Config{
		IdleTimeout:  10 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		Prefork:      opts.Prefork,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "synth360 API",
			"version": version.Version,
			"build":   version.BuildDate,
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	app.Get("/report", func(c *fiber.Ctx) error {
		run, ok := holder.Get()
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "no run report recorded",
			})
		}
		return c.JSON(run)
	})

	return &Server{app: app, holder: holder, opts: opts}
}

// GetApp exposes the underlying Fiber app, mainly for tests.
func (s *Server) GetApp() *fiber.App {
	return s.app
}

// Holder returns the report holder backing the /report route.
func (s *Server) Holder() *ReportHolder {
	return s.holder
}

// Start runs the Fiber server.
func (s *Server) Start() error {
	port := s.opts.Port
	if port == "" {
		port = "3000"
	}
	return s.app.Listen(":" + port)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
