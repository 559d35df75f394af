package http

import (
	"errors"

	"github.com/NeuralTrust/ToxiGuard/pkg/app/prediction"
	"github.com/NeuralTrust/ToxiGuard/pkg/domain/toxicity"
	"github.com/NeuralTrust/ToxiGuard/pkg/handlers/http/request"
	"github.com/NeuralTrust/ToxiGuard/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type predictHandler struct {
	logger    *logrus.Logger
	predictor prediction.Predictor
}

func NewPredictHandler(logger *logrus.Logger, predictor prediction.Predictor) Handler {
	return &predictHandler{
		logger:    logger,
		predictor: predictor,
	}
}

// Handle @Summary Classify text toxicity
// @Description Scores the text with the model registered for lang (default hi)
// @Tags Prediction
// @Accept json
// @Produce json
// @Param request body request.PredictRequest true "Text to classify"
// @Success 200 {object} response.PredictResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /predict [post]
func (h *predictHandler) Handle(c *fiber.Ctx) error {
	var req request.PredictRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Debug("invalid predict request body")
		return c.Status(fiber.StatusBadRequest).JSON(response.ErrorResponse{Error: "invalid request body"})
	}

	result, err := h.predictor.Predict(c.UserContext(), req.ToDomain())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(response.ErrorResponse{Error: errorMessage(err)})
	}

	return c.Status(fiber.StatusOK).JSON(response.NewPredictResponse(result))
}

// errorMessage renders domain errors with the wording clients of the service depend on.
func errorMessage(err error) string {
	var langErr *toxicity.UnsupportedLanguageError
	var upstreamErr *toxicity.UpstreamError
	switch {
	case errors.Is(err, toxicity.ErrEmptyText):
		return "No text provided"
	case errors.As(err, &langErr):
		return "Model for language '" + langErr.Lang + "' not found"
	case errors.As(err, &upstreamErr):
		return "Error from " + upstreamErr.Provider + ": " + upstreamErr.Body
	default:
		return err.Error()
	}
}
