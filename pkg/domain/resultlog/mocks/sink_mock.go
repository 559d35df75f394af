package mocks

import (
	"context"

	"github.com/NeuralTrust/ToxiGuard/pkg/domain/resultlog"
	"github.com/stretchr/testify/mock"
)

type Sink struct {
	mock.Mock
}

func (_m *Sink) Name() string {
	ret := _m.Called()
	return ret.String(0)
}

func (_m *Sink) ValidateConfig(settings map[string]interface{}) error {
	ret := _m.Called(settings)
	return ret.Error(0)
}

func (_m *Sink) WithSettings(settings map[string]interface{}) (resultlog.Sink, error) {
	ret := _m.Called(settings)
	var r0 resultlog.Sink
	if rf, ok := ret.Get(0).(resultlog.Sink); ok {
		r0 = rf
	}
	return r0, ret.Error(1)
}

func (_m *Sink) Send(ctx context.Context, entry resultlog.Entry) error {
	ret := _m.Called(ctx, entry)
	return ret.Error(0)
}

func (_m *Sink) Close() {
	_m.Called()
}

func NewSink(t interface {
	mock.TestingT
	Cleanup(func())
}) *Sink {
	m := &Sink{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
