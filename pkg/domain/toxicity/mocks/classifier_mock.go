package mocks

import (
	"context"

	"github.com/NeuralTrust/ToxiGuard/pkg/domain/toxicity"
	"github.com/stretchr/testify/mock"
)

type Classifier struct {
	mock.Mock
}

func (m *Classifier) Backend() string {
	args := m.Called()
	return args.String(0)
}

func (m *Classifier) Classify(ctx context.Context, text string) (toxicity.Prediction, error) {
	args := m.Called(ctx, text)
	p, ok := args.Get(0).(toxicity.Prediction)
	if !ok {
		return toxicity.Prediction{}, args.Error(1)
	}
	return p, args.Error(1)
}
