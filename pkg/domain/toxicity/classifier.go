package toxicity

import (
	"context"
	"strings"

	"github.com/NeuralTrust/ToxiGuard/pkg/common"
)

// Prediction is the raw classifier output: the probability of Label in [0,1].
type Prediction struct {
	Score float64
	Label string
}

// Classifier is implemented by every inference backend.
type Classifier interface {
	Backend() string
	Classify(ctx context.Context, text string) (Prediction, error)
}

type Request struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
}

type Result struct {
	Toxicity float64 `json:"toxicity"`
	IsToxic  bool    `json:"is_toxic"`
}

// NewResult scales the score to a percentage and compares the label case-insensitively.
func NewResult(p Prediction) Result {
	return Result{
		Toxicity: p.Score * 100,
		IsToxic:  strings.EqualFold(p.Label, common.ToxicLabel),
	}
}
