package http

import (
	"github.com/NeuralTrust/ToxiGuard/pkg/app/prediction"
	"github.com/NeuralTrust/ToxiGuard/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
)

type listModelsHandler struct {
	predictor       prediction.Predictor
	defaultLanguage string
}

func NewListModelsHandler(predictor prediction.Predictor, defaultLanguage string) Handler {
	return &listModelsHandler{
		predictor:       predictor,
		defaultLanguage: defaultLanguage,
	}
}

// Handle @Summary List registered models
// @Tags Prediction
// @Produce json
// @Success 200 {object} response.ModelsResponse
// @Router /models [get]
func (h *listModelsHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(response.ModelsResponse{
		DefaultLanguage: h.defaultLanguage,
		Models:          h.predictor.Models(),
	})
}
