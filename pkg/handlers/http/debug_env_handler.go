package http

import (
	"os"

	"github.com/NeuralTrust/ToxiGuard/pkg/common"
	"github.com/gofiber/fiber/v2"
)

const (
	envSet      = "set"
	envNotFound = "Not Found"
)

type debugEnvHandler struct {
	lookupEnv       func(string) (string, bool)
	configuredToken string
}

// NewDebugEnvHandler reports the token as set when either the environment or the loaded
// configuration provides one.
func NewDebugEnvHandler(configuredToken string) Handler {
	return &debugEnvHandler{
		lookupEnv:       os.LookupEnv,
		configuredToken: configuredToken,
	}
}

// Handle @Summary Credential diagnostics
// @Description Reports whether the inference token is present in the environment or configuration. The value itself is never returned.
// @Tags Status
// @Produce json
// @Success 200 {object} map[string]string
// @Router /debug-env [get]
func (h *debugEnvHandler) Handle(c *fiber.Ctx) error {
	status := envNotFound
	if value, ok := h.lookupEnv(common.InferenceTokenEnv); ok && value != "" {
		status = envSet
	} else if h.configuredToken != "" {
		status = envSet
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		common.InferenceTokenEnv: status,
	})
}
