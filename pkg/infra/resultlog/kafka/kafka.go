package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/NeuralTrust/ToxiGuard/pkg/domain/resultlog"
	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/mitchellh/mapstructure"
)

const (
	SinkName = "kafka"

	flushTimeoutMs = 5000
)

type Config struct {
	Host  string `mapstructure:"host"`
	Port  string `mapstructure:"port"`
	Topic string `mapstructure:"topic"`
}

// Producer is the subset of *kafka.Producer the sink needs.
type Producer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Flush(timeoutMs int) int
	Close()
}

type ProducerFactory func(cfg *kafka.ConfigMap) (Producer, error)

func defaultProducerFactory(cfg *kafka.ConfigMap) (Producer, error) {
	p, err := kafka.NewProducer(cfg)
	if err != nil {
		return nil, err
	}
	return p, nil
}

type Sink struct {
	cfg         Config
	producer    Producer
	newProducer ProducerFactory
}

func NewKafkaSink() *Sink {
	return &Sink{newProducer: defaultProducerFactory}
}

// NewKafkaSinkWithFactory lets callers swap the producer implementation.
func NewKafkaSinkWithFactory(factory ProducerFactory) *Sink {
	return &Sink{newProducer: factory}
}

func (s *Sink) Name() string {
	return SinkName
}

func (s *Sink) ValidateConfig(settings map[string]interface{}) error {
	var conf Config
	if err := mapstructure.Decode(settings, &conf); err != nil {
		return fmt.Errorf("invalid kafka config: %w", err)
	}
	if conf.Host == "" {
		return errors.New("kafka host is required")
	}
	if conf.Port == "" {
		return errors.New("kafka port is required")
	}
	if conf.Topic == "" {
		return errors.New("kafka topic is required")
	}
	return nil
}

func (s *Sink) WithSettings(settings map[string]interface{}) (resultlog.Sink, error) {
	var conf Config
	if err := mapstructure.Decode(settings, &conf); err != nil {
		return nil, fmt.Errorf("invalid kafka config: %w", err)
	}
	producer, err := s.newProducer(&kafka.ConfigMap{
		"bootstrap.servers": fmt.Sprintf("%s:%s", conf.Host, conf.Port),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return &Sink{
		cfg:         conf,
		producer:    producer,
		newProducer: s.newProducer,
	}, nil
}

// Send produces the entry and waits for its delivery report or ctx.
func (s *Sink) Send(ctx context.Context, entry resultlog.Entry) error {
	if s.producer == nil {
		return errors.New("kafka producer is not initialized")
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	deliveryChan := make(chan kafka.Event, 1)
	err = s.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &s.cfg.Topic, Partition: kafka.PartitionAny},
		Key:            []byte(entry.Lang),
		Value:          data,
	}, deliveryChan)
	if err != nil {
		return fmt.Errorf("failed to produce message: %w", err)
	}

	select {
	case e := <-deliveryChan:
		m, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected delivery event %T", e)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("delivery failed: %w", m.TopicPartition.Error)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for kafka delivery: %w", ctx.Err())
	}
}

func (s *Sink) Close() {
	if s.producer != nil {
		s.producer.Flush(flushTimeoutMs)
		s.producer.Close()
	}
}
