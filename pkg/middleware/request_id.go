package middleware

import (
	"context"
	"time"

	"github.com/NeuralTrust/ToxiGuard/pkg/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxRequestIDLength = 128

type requestIDMiddleware struct{}

// NewRequestIDMiddleware keeps a caller supplied X-Request-ID or generates one, and stamps
// the request start time used for latency metrics.
func NewRequestIDMiddleware() Middleware {
	return &requestIDMiddleware{}
}

func (m *requestIDMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(common.RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.New().String()
		}

		c.Locals(common.RequestIDContextKey, requestID)
		c.Locals(common.LatencyContextKey, time.Now())
		c.SetUserContext(context.WithValue(c.UserContext(), common.RequestIDContextKey, requestID))
		c.Set(common.RequestIDHeader, requestID)

		return c.Next()
	}
}
