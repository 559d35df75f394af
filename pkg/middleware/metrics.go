package middleware

import (
	"fmt"
	"time"

	"github.com/NeuralTrust/ToxiGuard/pkg/common"
	"github.com/NeuralTrust/ToxiGuard/pkg/infra/prometheus"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const unmatchedRoute = "unmatched"

type metricsMiddleware struct {
	logger *logrus.Logger
}

func NewMetricsMiddleware(logger *logrus.Logger) Middleware {
	return &metricsMiddleware{logger: logger}
}

func (m *metricsMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		startTime, ok := c.Locals(common.LatencyContextKey).(time.Time)
		if !ok {
			startTime = time.Now()
		}

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		// unmatched requests only ever saw the global "/" middleware route
		path := unmatchedRoute
		if route := c.Route(); route != nil && (route.Path != "/" || c.Path() == "/") {
			path = route.Path
		}

		prometheus.RequestTotal.WithLabelValues(c.Method(), path, statusClass(status)).Inc()

		m.logger.WithFields(logrus.Fields{
			"method":      c.Method(),
			"path":        c.Path(),
			"status":      status,
			"latency_ms":  time.Since(startTime).Milliseconds(),
			"request_id":  c.Locals(common.RequestIDContextKey),
			"remote_addr": c.IP(),
		}).Debug("request completed")

		return err
	}
}

func statusClass(code int) string {
	return fmt.Sprintf("%dxx", code/100)
}
