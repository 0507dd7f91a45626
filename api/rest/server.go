// Package rest provides the REST API for the workflow orchestrator: submit a
// workflow definition, execute it and fetch the resulting report.
package rest

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"

	"agenthub/orchestrator/internal/engine"
	"agenthub/orchestrator/pkg/logger"
	"agenthub/orchestrator/pkg/types"
)

// Config holds the configuration for the REST API server.
type Config struct {
	// Address is the address to listen on (e.g. ":8080").
	Address string `yaml:"address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out response writes.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// EnableCORS enables Cross-Origin Resource Sharing.
	EnableCORS bool `yaml:"enable_cors"`
}

// DefaultConfig returns a default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:      ":8080",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		EnableCORS:   false,
	}
}

// run holds one submitted workflow and, once executed, its report.
type run struct {
	mu      sync.Mutex
	engine  *engine.Engine
	context map[string]any
	report  *types.WorkflowReport
}

// Server is the REST API server. Each submitted definition becomes its own
// single-use engine; executing it is a synchronous call.
type Server struct {
	app    *fiber.App
	config *Config
	log    *logger.Logger

	mu   sync.RWMutex
	runs map[string]*run
}

// NewServer creates a new REST API server.
func NewServer(config *Config, log *logger.Logger) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	if log == nil {
		log = logger.Default()
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		AppName:      "Agent Orchestrator API",
	})

	server := &Server{
		app:    app,
		config: config,
		log:    log,
		runs:   make(map[string]*run),
	}

	server.setupMiddleware()
	server.setupRoutes()
	return server
}

// setupMiddleware configures middleware for the server.
func (s *Server) setupMiddleware() {
	s.app.Use(fiberrecover.New())
	s.app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	if s.config.EnableCORS {
		s.app.Use(cors.New(cors.Config{
			AllowOrigins: "*",
			AllowMethods: "GET,POST,OPTIONS",
			AllowHeaders: "Origin,Content-Type,Accept",
		}))
	}
}

// setupRoutes registers all API routes.
func (s *Server) setupRoutes() {
	s.app.Get("/health", s.healthCheck)

	v1 := s.app.Group("/api/v1")
	v1.Post("/workflows", s.submitWorkflow)
	v1.Get("/workflows", s.listWorkflows)
	v1.Get("/workflows/:id", s.getWorkflow)
	v1.Post("/workflows/:id/execute", s.executeWorkflow)
	v1.Get("/workflows/:id/report", s.getReport)
}

// Start begins listening. It blocks until the server is shut down.
func (s *Server) Start() error {
	s.log.Info("REST API listening on %s", s.config.Address)
	return s.app.Listen(s.config.Address)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) getRun(id string) *run {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runs[id]
}

func (s *Server) addRun(id string, r *run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[id] = r
}
