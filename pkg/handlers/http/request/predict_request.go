package request

import "github.com/NeuralTrust/ToxiGuard/pkg/domain/toxicity"

type PredictRequest struct {
	Text string `json:"text" example:"tum bahut bure ho"`
	Lang string `json:"lang,omitempty" example:"hi"`
}

func (r PredictRequest) ToDomain() toxicity.Request {
	return toxicity.Request{Text: r.Text, Lang: r.Lang}
}
