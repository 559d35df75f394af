package resultlog_test

import (
	"errors"
	"testing"

	"github.com/NeuralTrust/ToxiGuard/pkg/config"
	domain "github.com/NeuralTrust/ToxiGuard/pkg/domain/resultlog"
	"github.com/NeuralTrust/ToxiGuard/pkg/domain/resultlog/mocks"
	"github.com/NeuralTrust/ToxiGuard/pkg/infra/resultlog"
	"github.com/NeuralTrust/ToxiGuard/pkg/infra/resultlog/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkLocator_GetSink(t *testing.T) {
	t.Run("Unknown sink", func(t *testing.T) {
		locator := resultlog.NewSinkLocator()
		_, err := locator.GetSink(config.SinkConfig{Name: "s3"})
		assert.EqualError(t, err, "unknown result sink: s3")
	})

	t.Run("Invalid settings", func(t *testing.T) {
		locator := resultlog.NewSinkLocator(resultlog.WithSink(webhook.SinkName, webhook.NewWebhookSink(nil)))
		_, err := locator.GetSink(config.SinkConfig{Name: webhook.SinkName})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "webhook url is required")
	})

	t.Run("Configured sink", func(t *testing.T) {
		locator := resultlog.NewSinkLocator(resultlog.WithSink(webhook.SinkName, webhook.NewWebhookSink(nil)))
		sink, err := locator.GetSink(config.SinkConfig{
			Name:     webhook.SinkName,
			Settings: map[string]interface{}{"url": config.DefaultLogWebhookURL},
		})
		require.NoError(t, err)
		assert.Equal(t, webhook.SinkName, sink.Name())
	})
}

func TestSinkLocator_BuildSinks_ClosesOnFailure(t *testing.T) {
	good := mocks.NewSink(t)
	built := mocks.NewSink(t)
	bad := mocks.NewSink(t)

	good.On("ValidateConfig", map[string]interface{}(nil)).Return(nil)
	good.On("WithSettings", map[string]interface{}(nil)).Return(domain.Sink(built), nil)
	built.On("Close").Return().Once()
	bad.On("ValidateConfig", map[string]interface{}(nil)).Return(errors.New("broken"))

	locator := resultlog.NewSinkLocator(
		resultlog.WithSink("good", good),
		resultlog.WithSink("bad", bad),
	)
	_, err := locator.BuildSinks([]config.SinkConfig{{Name: "good"}, {Name: "bad"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}
