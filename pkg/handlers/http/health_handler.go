package http

import (
	"time"

	"github.com/NeuralTrust/ToxiGuard/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
)

type healthHandler struct{}

func NewHealthHandler() Handler {
	return &healthHandler{}
}

// Handle @Summary Health check
// @Tags Status
// @Produce json
// @Success 200 {object} response.HealthResponse
// @Router /health [get]
func (h *healthHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(response.HealthResponse{
		Status: "ok",
		Time:   time.Now().Format(time.RFC3339),
	})
}
