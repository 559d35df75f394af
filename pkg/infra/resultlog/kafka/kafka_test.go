package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/NeuralTrust/ToxiGuard/pkg/domain/resultlog"
	sink "github.com/NeuralTrust/ToxiGuard/pkg/infra/resultlog/kafka"
	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducer struct {
	produced    []*kafka.Message
	produceErr  error
	deliveryErr error
	silent      bool
	flushed     bool
	closed      bool
}

func (p *fakeProducer) Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error {
	if p.produceErr != nil {
		return p.produceErr
	}
	p.produced = append(p.produced, msg)
	if p.silent {
		return nil
	}
	report := *msg
	report.TopicPartition.Error = p.deliveryErr
	deliveryChan <- &report
	return nil
}

func (p *fakeProducer) Flush(int) int {
	p.flushed = true
	return 0
}

func (p *fakeProducer) Close() {
	p.closed = true
}

func newSink(t *testing.T, producer *fakeProducer) resultlog.Sink {
	t.Helper()
	base := sink.NewKafkaSinkWithFactory(func(cfg *kafka.ConfigMap) (sink.Producer, error) {
		servers, err := cfg.Get("bootstrap.servers", "")
		require.NoError(t, err)
		assert.Equal(t, "localhost:9092", servers)
		return producer, nil
	})
	s, err := base.WithSettings(map[string]interface{}{"host": "localhost", "port": "9092", "topic": "toxiguard-results"})
	require.NoError(t, err)
	return s
}

func TestSink_ValidateConfig(t *testing.T) {
	s := sink.NewKafkaSink()
	assert.EqualError(t, s.ValidateConfig(map[string]interface{}{"port": "9092", "topic": "t"}), "kafka host is required")
	assert.EqualError(t, s.ValidateConfig(map[string]interface{}{"host": "h", "topic": "t"}), "kafka port is required")
	assert.EqualError(t, s.ValidateConfig(map[string]interface{}{"host": "h", "port": "9092"}), "kafka topic is required")
	assert.NoError(t, s.ValidateConfig(map[string]interface{}{"host": "h", "port": "9092", "topic": "t"}))
}

func TestSink_Send(t *testing.T) {
	entry := resultlog.Entry{Text: "hello", Lang: "te", Toxicity: 12.5, IsToxic: false}

	t.Run("Delivered", func(t *testing.T) {
		producer := &fakeProducer{}
		s := newSink(t, producer)

		require.NoError(t, s.Send(context.Background(), entry))
		require.Len(t, producer.produced, 1)

		msg := producer.produced[0]
		assert.Equal(t, "toxiguard-results", *msg.TopicPartition.Topic)
		assert.Equal(t, []byte("te"), msg.Key)
		var got resultlog.Entry
		require.NoError(t, json.Unmarshal(msg.Value, &got))
		assert.Equal(t, entry, got)

		s.Close()
		assert.True(t, producer.flushed)
		assert.True(t, producer.closed)
	})

	t.Run("Produce error", func(t *testing.T) {
		s := newSink(t, &fakeProducer{produceErr: errors.New("queue full")})
		err := s.Send(context.Background(), entry)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "queue full")
	})

	t.Run("Delivery error", func(t *testing.T) {
		s := newSink(t, &fakeProducer{deliveryErr: errors.New("broker down")})
		err := s.Send(context.Background(), entry)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "delivery failed")
	})

	t.Run("Context done before delivery", func(t *testing.T) {
		s := newSink(t, &fakeProducer{silent: true})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := s.Send(ctx, entry)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
