package mocks

import (
	"context"

	"github.com/NeuralTrust/ToxiGuard/pkg/domain/resultlog"
	"github.com/stretchr/testify/mock"
)

type Recorder struct {
	mock.Mock
}

func (_m *Recorder) Record(ctx context.Context, entry resultlog.Entry) resultlog.Outcome {
	ret := _m.Called(ctx, entry)
	return ret.Get(0).(resultlog.Outcome) //nolint:errcheck
}

func (_m *Recorder) Shutdown(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

func NewRecorder(t interface {
	mock.TestingT
	Cleanup(func())
}) *Recorder {
	m := &Recorder{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
