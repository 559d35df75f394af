package http

import (
	"github.com/NeuralTrust/ToxiGuard/pkg/version"
	"github.com/gofiber/fiber/v2"
)

type getVersionHandler struct{}

func NewGetVersionHandler() Handler {
	return &getVersionHandler{}
}

// Handle @Summary Get ToxiGuard version
// @Description Returns the build information of the running service
// @Tags Status
// @Produce json
// @Success 200 {object} version.Info "Version information"
// @Router /version [get]
func (h *getVersionHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(version.GetInfo())
}
