package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NeuralTrust/ToxiGuard/pkg/config"
	"github.com/NeuralTrust/ToxiGuard/pkg/infra/prometheus"
	"github.com/NeuralTrust/ToxiGuard/pkg/server/router"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const MetricsPath = "/metrics"

type Server interface {
	Run() error
	Shutdown(ctx context.Context) error
}

type BaseServer struct {
	Config     *config.Config
	Logger     *logrus.Logger
	Router     *fiber.App
	metricsApp *fiber.App
}

func NewBaseServer(cfg *config.Config, logger *logrus.Logger) *BaseServer {
	r := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		Network:               fiber.NetworkTCP,
		BodyLimit:             cfg.Server.BodyLimit,
		ReadTimeout:           60 * time.Second,
		WriteTimeout:          60 * time.Second,
		IdleTimeout:           120 * time.Second,
		ErrorHandler:          errorHandler,
	})

	r.Server().NoDefaultServerHeader = true

	s := &BaseServer{
		Config: cfg,
		Logger: logger,
		Router: r,
	}
	if cfg.Metrics.Enabled {
		s.metricsApp = newMetricsApp()
	}
	return s
}

func newMetricsApp() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(recover.New())

	handler := fasthttpadaptor.NewFastHTTPHandler(prometheus.Handler())
	app.Get(MetricsPath, func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	})
	return app
}

// errorHandler keeps every error body in the {"error": "..."} shape.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func (s *BaseServer) WithRouters(routers ...router.ServerRouter) error {
	for _, r := range routers {
		if err := r.BuildRoutes(s.Router); err != nil {
			return fmt.Errorf("failed to build routes: %w", err)
		}
	}
	return nil
}

// RunMetrics serves /metrics on the metrics port and blocks until that server stops.
// It returns nil immediately when metrics are disabled.
func (s *BaseServer) RunMetrics() error {
	if s.metricsApp == nil {
		s.Logger.Info("prometheus metrics are disabled by configuration")
		return nil
	}

	addr := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.Config.Server.MetricsPort)
	s.Logger.WithField("addr", addr).Info("starting metrics server")
	return s.metricsApp.Listen(addr)
}

func (s *BaseServer) Shutdown(ctx context.Context) error {
	var errs []error
	if err := s.Router.ShutdownWithContext(ctx); err != nil {
		errs = append(errs, err)
	}
	if s.metricsApp != nil {
		if err := s.metricsApp.ShutdownWithContext(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
