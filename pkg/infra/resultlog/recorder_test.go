package resultlog_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/NeuralTrust/ToxiGuard/pkg/config"
	domain "github.com/NeuralTrust/ToxiGuard/pkg/domain/resultlog"
	"github.com/NeuralTrust/ToxiGuard/pkg/domain/resultlog/mocks"
	"github.com/NeuralTrust/ToxiGuard/pkg/infra/resultlog"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testEntry = domain.Entry{Text: "tum bure ho", Lang: "hi", Toxicity: 87, IsToxic: true}

func TestRecorder_Disabled(t *testing.T) {
	sink := mocks.NewSink(t)

	r := resultlog.NewRecorder(logrus.New(), config.ResultLogConfig{Enabled: false}, []domain.Sink{sink})
	assert.Equal(t, domain.StatusDisabled, r.Record(context.Background(), testEntry).Status)

	r = resultlog.NewRecorder(logrus.New(), config.ResultLogConfig{Enabled: true}, nil)
	assert.Equal(t, domain.StatusDisabled, r.Record(context.Background(), testEntry).Status)
	assert.NoError(t, r.Shutdown(context.Background()))
}

func TestRecorder_Sync(t *testing.T) {
	t.Run("Delivered to every sink", func(t *testing.T) {
		first := mocks.NewSink(t)
		second := mocks.NewSink(t)
		first.On("Send", mock.Anything, testEntry).Return(nil).Once()
		second.On("Send", mock.Anything, testEntry).Return(nil).Once()

		r := resultlog.NewRecorder(logrus.New(), config.ResultLogConfig{Enabled: true}, []domain.Sink{first, second})
		outcome := r.Record(context.Background(), testEntry)

		assert.Equal(t, domain.StatusDelivered, outcome.Status)
		assert.NoError(t, outcome.Err)
	})

	t.Run("Failure is reported, not raised", func(t *testing.T) {
		failing := mocks.NewSink(t)
		working := mocks.NewSink(t)
		failing.On("Name").Return("webhook")
		failing.On("Send", mock.Anything, testEntry).Return(errors.New("status 500")).Once()
		working.On("Send", mock.Anything, testEntry).Return(nil).Once()

		r := resultlog.NewRecorder(logrus.New(), config.ResultLogConfig{Enabled: true}, []domain.Sink{failing, working})
		outcome := r.Record(context.Background(), testEntry)

		assert.True(t, outcome.Failed())
		require.Error(t, outcome.Err)
		assert.Contains(t, outcome.Err.Error(), "webhook: status 500")
	})

	t.Run("Cancelled request still delivers", func(t *testing.T) {
		sink := mocks.NewSink(t)
		sink.On("Send", mock.MatchedBy(func(ctx context.Context) bool {
			return ctx.Err() == nil
		}), testEntry).Return(nil).Once()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		r := resultlog.NewRecorder(logrus.New(), config.ResultLogConfig{Enabled: true}, []domain.Sink{sink})
		assert.Equal(t, domain.StatusDelivered, r.Record(ctx, testEntry).Status)
	})

	t.Run("Shutdown closes sinks", func(t *testing.T) {
		sink := mocks.NewSink(t)
		sink.On("Close").Return().Once()

		r := resultlog.NewRecorder(logrus.New(), config.ResultLogConfig{Enabled: true}, []domain.Sink{sink})
		assert.NoError(t, r.Shutdown(context.Background()))
		assert.NoError(t, r.Shutdown(context.Background()))
	})
}

func TestRecorder_Async(t *testing.T) {
	t.Run("Queued entries are drained on shutdown", func(t *testing.T) {
		var (
			mu        sync.Mutex
			delivered []domain.Entry
		)
		sink := mocks.NewSink(t)
		sink.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			mu.Lock()
			defer mu.Unlock()
			delivered = append(delivered, args.Get(1).(domain.Entry)) //nolint:errcheck
		}).Return(nil)
		sink.On("Close").Return().Once()

		r := resultlog.NewRecorder(logrus.New(), config.ResultLogConfig{
			Enabled:   true,
			Async:     true,
			Workers:   2,
			QueueSize: 10,
		}, []domain.Sink{sink})

		for i := 0; i < 5; i++ {
			assert.Equal(t, domain.StatusQueued, r.Record(context.Background(), testEntry).Status)
		}
		require.NoError(t, r.Shutdown(context.Background()))

		mu.Lock()
		defer mu.Unlock()
		assert.Len(t, delivered, 5)
	})

	t.Run("Full queue drops without blocking", func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{}, 1)
		sink := mocks.NewSink(t)
		sink.On("Send", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
			select {
			case started <- struct{}{}:
			default:
			}
			<-release
		}).Return(nil)
		sink.On("Close").Return().Once()

		r := resultlog.NewRecorder(logrus.New(), config.ResultLogConfig{
			Enabled:   true,
			Async:     true,
			Workers:   1,
			QueueSize: 1,
		}, []domain.Sink{sink})

		assert.Equal(t, domain.StatusQueued, r.Record(context.Background(), testEntry).Status)
		select {
		case <-started:
		case <-time.After(time.Second):
			t.Fatal("worker did not pick up the first entry")
		}
		assert.Equal(t, domain.StatusQueued, r.Record(context.Background(), testEntry).Status)

		outcome := r.Record(context.Background(), testEntry)
		assert.True(t, outcome.Failed())
		assert.ErrorIs(t, outcome.Err, resultlog.ErrQueueFull)

		close(release)
		require.NoError(t, r.Shutdown(context.Background()))

		outcome = r.Record(context.Background(), testEntry)
		assert.ErrorIs(t, outcome.Err, resultlog.ErrRecorderClosed)
	})
}
