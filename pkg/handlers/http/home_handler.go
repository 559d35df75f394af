package http

import (
	"github.com/NeuralTrust/ToxiGuard/pkg/version"
	"github.com/gofiber/fiber/v2"
)

type homeHandler struct{}

func NewHomeHandler() Handler {
	return &homeHandler{}
}

// Handle @Summary Liveness banner
// @Description Plain text banner, independent of model state
// @Tags Status
// @Produce plain
// @Success 200 {string} string "ToxiGuard API is running!"
// @Router / [get]
func (h *homeHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).SendString(version.AppName + " API is running!")
}
