package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/NeuralTrust/ToxiGuard/pkg/domain/resultlog"
	"github.com/NeuralTrust/ToxiGuard/pkg/infra/httpx"
	"github.com/mitchellh/mapstructure"
)

const (
	SinkName = "webhook"

	DefaultTimeout = 10 * time.Second
	maxErrorBody   = 512
)

type Config struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Sink struct {
	cfg    Config
	client httpx.Client
}

func NewWebhookSink(client httpx.Client) *Sink {
	if client == nil {
		client = &http.Client{}
	}
	return &Sink{client: client}
}

func (s *Sink) Name() string {
	return SinkName
}

func decode(settings map[string]interface{}) (Config, error) {
	var conf Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
		Result:     &conf,
	})
	if err != nil {
		return conf, err
	}
	if err := decoder.Decode(settings); err != nil {
		return conf, fmt.Errorf("invalid webhook config: %w", err)
	}
	return conf, nil
}

func (s *Sink) ValidateConfig(settings map[string]interface{}) error {
	conf, err := decode(settings)
	if err != nil {
		return err
	}
	if conf.URL == "" {
		return errors.New("webhook url is required")
	}
	return nil
}

func (s *Sink) WithSettings(settings map[string]interface{}) (resultlog.Sink, error) {
	conf, err := decode(settings)
	if err != nil {
		return nil, err
	}
	if conf.Timeout <= 0 {
		conf.Timeout = DefaultTimeout
	}
	return &Sink{cfg: conf, client: s.client}, nil
}

// Send posts the entry as JSON. Any non-2xx answer is a failure.
func (s *Sink) Send(ctx context.Context, entry resultlog.Entry) error {
	if s.cfg.URL == "" {
		return errors.New("webhook sink is not configured")
	}
	body, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func (s *Sink) Close() {}
