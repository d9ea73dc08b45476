// Package server exposes the predictor over HTTP. Analysis errors are reported in the response
// body with status 200.
package server

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/denguelab/go-sarima/internal/config"
	"github.com/denguelab/go-sarima/internal/logging"
	"github.com/denguelab/go-sarima/internal/metrics"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Server is the fiber application and its dependencies
type Server struct {
	app     *fiber.App
	cfg     *config.Config
	logger  *logging.Logger
	metrics *metrics.Metrics
}

// New builds the application and registers the routes. A nil config uses the defaults, a nil
// logger the global logger and nil metrics disables /metrics.
func New(cfg *config.Config, logger *logging.Logger, m *metrics.Metrics) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = logging.Global()
	}

	app := fiber.New(fiber.Config{
		AppName:               "Dengue Forecast",
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(logger),
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
	})

	s := &Server{
		app:     app,
		cfg:     cfg,
		logger:  logger,
		metrics: m,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Use(recover.New())
	s.app.Use(logging.FiberMiddleware(s.logger, "/api/health", "/metrics"))

	api := s.app.Group("/api")
	api.Post("/analyze", s.Analyze)
	api.Get("/sample", s.Sample)
	api.Get("/sample/plot", s.SamplePlot)
	api.Get("/health", s.Health)

	if s.metrics != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(s.metrics.Handler()))
	}
}

// App returns the underlying fiber application
func (s *Server) App() *fiber.App {
	return s.app
}

// Addr is the configured listen address
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Server.Host, strconv.Itoa(s.cfg.Server.Port))
}

// Listen serves until Shutdown is called
func (s *Server) Listen() error {
	s.logger.Info("Starting http server", "addr", s.Addr())
	if err := s.app.Listen(s.Addr()); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Addr(), err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests until ctx is done
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Stopping http server")
	return s.app.ShutdownWithContext(ctx)
}
