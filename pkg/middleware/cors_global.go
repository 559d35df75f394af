package middleware

import (
	"strings"

	"github.com/NeuralTrust/ToxiGuard/pkg/config"
	"github.com/gofiber/fiber/v2"
)

type corsGlobalMiddleware struct {
	allowOrigins     []string
	allowMethods     []string
	allowCredentials bool
	exposeHeaders    []string
	maxAge           string
}

// NewCORSGlobalMiddleware answers preflight requests and decorates responses for allowed
// origins. Requests without an Origin header pass through untouched.
func NewCORSGlobalMiddleware(cfg config.CORSConfig) Middleware {
	return &corsGlobalMiddleware{
		allowOrigins:     cfg.AllowOrigins,
		allowMethods:     cfg.AllowMethods,
		allowCredentials: cfg.AllowCredentials,
		exposeHeaders:    cfg.ExposeHeaders,
		maxAge:           cfg.MaxAge,
	}
}

func (m *corsGlobalMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)
		if origin == "" || !m.allowed(origin) {
			return c.Next()
		}

		c.Vary(fiber.HeaderOrigin)
		if m.allowCredentials {
			c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
			c.Set(fiber.HeaderAccessControlAllowCredentials, "true")
		} else if hasStar(m.allowOrigins) {
			c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
		} else {
			c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
		}
		if len(m.exposeHeaders) > 0 {
			c.Set(fiber.HeaderAccessControlExposeHeaders, strings.Join(m.exposeHeaders, ", "))
		}

		if c.Method() != fiber.MethodOptions || c.Get(fiber.HeaderAccessControlRequestMethod) == "" {
			return c.Next()
		}

		c.Set(fiber.HeaderAccessControlAllowMethods, strings.Join(m.allowMethods, ", "))
		if reqHeaders := c.Get(fiber.HeaderAccessControlRequestHeaders); reqHeaders != "" {
			c.Set(fiber.HeaderAccessControlAllowHeaders, reqHeaders)
		} else {
			c.Set(fiber.HeaderAccessControlAllowHeaders, fiber.HeaderContentType)
		}
		if m.maxAge != "" {
			c.Set(fiber.HeaderAccessControlMaxAge, m.maxAge)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func (m *corsGlobalMiddleware) allowed(origin string) bool {
	for _, o := range m.allowOrigins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

func hasStar(arr []string) bool {
	for _, v := range arr {
		if v == "*" {
			return true
		}
	}
	return false
}
