package resultlog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/NeuralTrust/ToxiGuard/pkg/config"
	"github.com/NeuralTrust/ToxiGuard/pkg/domain/resultlog"
	"github.com/NeuralTrust/ToxiGuard/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

const (
	DefaultSendTimeout = 10 * time.Second

	queueLabel = "queue"
)

var (
	ErrQueueFull      = errors.New("result log queue is full")
	ErrRecorderClosed = errors.New("result log recorder is closed")
)

type recorder struct {
	logger      *logrus.Logger
	sinks       []resultlog.Sink
	async       bool
	sendTimeout time.Duration

	mu       sync.RWMutex
	closed   bool
	taskChan chan resultlog.Entry
	wg       sync.WaitGroup
}

// NewRecorder delivers entries to sinks. In async mode entries are queued for a fixed pool
// of workers and a full queue drops the entry instead of blocking.
func NewRecorder(logger *logrus.Logger, cfg config.ResultLogConfig, sinks []resultlog.Sink) resultlog.Recorder {
	if !cfg.Enabled || len(sinks) == 0 {
		return disabledRecorder{}
	}
	r := &recorder{
		logger:      logger,
		sinks:       sinks,
		async:       cfg.Async,
		sendTimeout: DefaultSendTimeout,
	}
	if r.async {
		r.taskChan = make(chan resultlog.Entry, max(cfg.QueueSize, 1))
		r.startWorkers(max(cfg.Workers, 1))
	}
	return r
}

func (r *recorder) Record(ctx context.Context, entry resultlog.Entry) resultlog.Outcome {
	if !r.async {
		return r.deliver(ctx, entry)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		prometheus.ResultLogFailures.WithLabelValues(queueLabel).Inc()
		return resultlog.Outcome{Status: resultlog.StatusFailed, Err: ErrRecorderClosed}
	}
	select {
	case r.taskChan <- entry:
		return resultlog.Outcome{Status: resultlog.StatusQueued}
	default:
		prometheus.ResultLogFailures.WithLabelValues(queueLabel).Inc()
		r.logger.WithField("lang", entry.Lang).Warn("result log queue is full, dropping entry")
		return resultlog.Outcome{Status: resultlog.StatusFailed, Err: ErrQueueFull}
	}
}

// deliver hands entry to every sink. Request cancellation does not abort delivery.
func (r *recorder) deliver(ctx context.Context, entry resultlog.Entry) resultlog.Outcome {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.sendTimeout)
	defer cancel()

	var errs []error
	for _, sink := range r.sinks {
		if err := sink.Send(ctx, entry); err != nil {
			prometheus.ResultLogFailures.WithLabelValues(sink.Name()).Inc()
			r.logger.WithError(err).WithFields(logrus.Fields{
				"sink": sink.Name(),
				"lang": entry.Lang,
			}).Warn("failed to record prediction result")
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
		}
	}
	if len(errs) > 0 {
		return resultlog.Outcome{Status: resultlog.StatusFailed, Err: errors.Join(errs...)}
	}
	return resultlog.Outcome{Status: resultlog.StatusDelivered}
}

func (r *recorder) startWorkers(n int) {
	r.logger.WithField("workers", n).Info("starting result log workers")
	for i := 0; i < n; i++ {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			for entry := range r.taskChan {
				r.deliver(context.Background(), entry)
			}
		}()
	}
}

// Shutdown stops accepting entries, drains the queue and closes the sinks. If ctx expires
// first the remaining entries are abandoned.
func (r *recorder) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	if r.async {
		close(r.taskChan)
	}
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = fmt.Errorf("draining result log queue: %w", ctx.Err())
	}

	for _, sink := range r.sinks {
		sink.Close()
	}
	r.logger.Info("result log recorder stopped")
	return err
}

type disabledRecorder struct{}

func (disabledRecorder) Record(context.Context, resultlog.Entry) resultlog.Outcome {
	return resultlog.Outcome{Status: resultlog.StatusDisabled}
}

func (disabledRecorder) Shutdown(context.Context) error {
	return nil
}
