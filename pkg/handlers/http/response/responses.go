package response

import "github.com/NeuralTrust/ToxiGuard/pkg/domain/toxicity"

type ErrorResponse struct {
	Error string `json:"error" example:"No text provided"`
}

type PredictResponse struct {
	Toxicity float64 `json:"toxicity" example:"87.1"`
	IsToxic  bool    `json:"is_toxic" example:"true"`
}

func NewPredictResponse(r toxicity.Result) PredictResponse {
	return PredictResponse{Toxicity: r.Toxicity, IsToxic: r.IsToxic}
}

type ModelsResponse struct {
	DefaultLanguage string               `json:"default_language"`
	Models          []toxicity.ModelInfo `json:"models"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Time   string `json:"time"`
}
