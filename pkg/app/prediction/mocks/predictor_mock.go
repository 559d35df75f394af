package mocks

import (
	"context"

	"github.com/NeuralTrust/ToxiGuard/pkg/domain/toxicity"
	"github.com/stretchr/testify/mock"
)

type Predictor struct {
	mock.Mock
}

func (_m *Predictor) Predict(ctx context.Context, req toxicity.Request) (toxicity.Result, error) {
	ret := _m.Called(ctx, req)
	var r0 toxicity.Result
	if rf, ok := ret.Get(0).(toxicity.Result); ok {
		r0 = rf
	}
	return r0, ret.Error(1)
}

func (_m *Predictor) Models() []toxicity.ModelInfo {
	ret := _m.Called()
	var r0 []toxicity.ModelInfo
	if rf, ok := ret.Get(0).([]toxicity.ModelInfo); ok {
		r0 = rf
	}
	return r0
}

func NewPredictor(t interface {
	mock.TestingT
	Cleanup(func())
}) *Predictor {
	m := &Predictor{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
