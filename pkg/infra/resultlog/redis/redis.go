package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/NeuralTrust/ToxiGuard/pkg/domain/resultlog"
	"github.com/go-redis/redis/v8"
	"github.com/mitchellh/mapstructure"
)

const (
	SinkName = "redis"

	DefaultStream = "toxiguard:results"
	DefaultMaxLen = 100000
)

type Config struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Stream   string `mapstructure:"stream"`
	MaxLen   int64  `mapstructure:"max_len"`
}

type ClientFactory func(opts *redis.Options) *redis.Client

type Sink struct {
	cfg       Config
	client    *redis.Client
	newClient ClientFactory
}

func NewRedisSink() *Sink {
	return &Sink{newClient: redis.NewClient}
}

func NewRedisSinkWithFactory(factory ClientFactory) *Sink {
	return &Sink{newClient: factory}
}

func (s *Sink) Name() string {
	return SinkName
}

func (s *Sink) ValidateConfig(settings map[string]interface{}) error {
	var conf Config
	if err := mapstructure.Decode(settings, &conf); err != nil {
		return fmt.Errorf("invalid redis config: %w", err)
	}
	if conf.Addr == "" {
		return errors.New("redis addr is required")
	}
	if conf.MaxLen < 0 {
		return errors.New("redis max_len cannot be negative")
	}
	return nil
}

func (s *Sink) WithSettings(settings map[string]interface{}) (resultlog.Sink, error) {
	var conf Config
	if err := mapstructure.Decode(settings, &conf); err != nil {
		return nil, fmt.Errorf("invalid redis config: %w", err)
	}
	if conf.Stream == "" {
		conf.Stream = DefaultStream
	}
	if conf.MaxLen == 0 {
		conf.MaxLen = DefaultMaxLen
	}
	client := s.newClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})
	return &Sink{cfg: conf, client: client, newClient: s.newClient}, nil
}

// Send appends the entry to the stream, trimming it to roughly MaxLen entries.
func (s *Sink) Send(ctx context.Context, entry resultlog.Entry) error {
	if s.client == nil {
		return errors.New("redis client is not initialized")
	}
	err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.cfg.Stream,
		MaxLen: s.cfg.MaxLen,
		Approx: true,
		Values: []interface{}{
			"text", entry.Text,
			"lang", entry.Lang,
			"toxicity", strconv.FormatFloat(entry.Toxicity, 'f', -1, 64),
			"is_toxic", strconv.FormatBool(entry.IsToxic),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to append to stream %s: %w", s.cfg.Stream, err)
	}
	return nil
}

func (s *Sink) Close() {
	if s.client != nil {
		_ = s.client.Close()
	}
}
