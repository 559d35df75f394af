package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/NeuralTrust/ToxiGuard/pkg/domain/toxicity"
	"github.com/NeuralTrust/ToxiGuard/pkg/infra/httpx"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fastjson"
)

const (
	BackendName  = "remote"
	ProviderName = "Hugging Face API"
)

var ErrEmptyResult = errors.New("inference api returned no predictions")

type Settings struct {
	URL   string `mapstructure:"url"`
	Token string `mapstructure:"token"`
}

func DecodeSettings(settings map[string]interface{}) (Settings, error) {
	var s Settings
	if err := mapstructure.Decode(settings, &s); err != nil {
		return s, fmt.Errorf("invalid remote model settings: %w", err)
	}
	if strings.TrimSpace(s.URL) == "" {
		return s, errors.New("remote model url is required")
	}
	return s, nil
}

type Classifier struct {
	client   httpx.Client
	logger   *logrus.Logger
	settings Settings
}

// NewClassifier builds a classifier for one hosted model. defaultToken is used when the
// model settings carry no token of their own.
func NewClassifier(
	logger *logrus.Logger,
	client httpx.Client,
	settings map[string]interface{},
	defaultToken string,
) (toxicity.Classifier, error) {
	s, err := DecodeSettings(settings)
	if err != nil {
		return nil, err
	}
	if s.Token == "" {
		s.Token = defaultToken
	}
	if s.Token == "" {
		logger.WithField("url", s.URL).Warn("no inference token configured, calls will be unauthenticated")
	}
	if client == nil {
		client = &http.Client{}
	}
	return &Classifier{
		client:   client,
		logger:   logger,
		settings: s,
	}, nil
}

func (c *Classifier) Backend() string {
	return BackendName
}

func (c *Classifier) Classify(ctx context.Context, text string) (toxicity.Prediction, error) {
	payload, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return toxicity.Prediction{}, fmt.Errorf("failed to marshal inference payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.settings.URL, bytes.NewReader(payload))
	if err != nil {
		return toxicity.Prediction{}, fmt.Errorf("failed to create inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.settings.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.settings.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.WithError(err).WithField("url", c.settings.URL).Error("failed to call inference api")
		}
		return toxicity.Prediction{}, fmt.Errorf("failed to call inference api: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return toxicity.Prediction{}, fmt.Errorf("failed to read inference response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{
			"url":         c.settings.URL,
			"status_code": resp.StatusCode,
		}).Warn("inference api returned non-200 status")
		return toxicity.Prediction{}, toxicity.NewUpstreamError(ProviderName, resp.StatusCode, string(body))
	}

	return ParsePrediction(body)
}

// ParsePrediction reads either [{"label","score"}, ...] or the nested [[{...}, ...]] shape.
// The flat form yields its first element; the nested form yields the top-scoring entry.
func ParsePrediction(body []byte) (toxicity.Prediction, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(body)
	if err != nil {
		return toxicity.Prediction{}, fmt.Errorf("invalid inference response: %w", err)
	}
	items, err := v.Array()
	if err != nil {
		return toxicity.Prediction{}, fmt.Errorf("invalid inference response: %w", err)
	}
	if len(items) == 0 {
		return toxicity.Prediction{}, ErrEmptyResult
	}

	first := items[0]
	if first.Type() != fastjson.TypeArray {
		return toPrediction(first)
	}

	candidates := first.GetArray()
	if len(candidates) == 0 {
		return toxicity.Prediction{}, ErrEmptyResult
	}
	var best toxicity.Prediction
	for i, candidate := range candidates {
		pred, err := toPrediction(candidate)
		if err != nil {
			return toxicity.Prediction{}, err
		}
		if i == 0 || pred.Score > best.Score {
			best = pred
		}
	}
	return best, nil
}

func toPrediction(v *fastjson.Value) (toxicity.Prediction, error) {
	if v.Type() != fastjson.TypeObject || !v.Exists("label") || !v.Exists("score") {
		return toxicity.Prediction{}, fmt.Errorf("invalid inference response: unexpected element %s", v.String())
	}
	return toxicity.Prediction{
		Label: string(v.GetStringBytes("label")),
		Score: v.GetFloat64("score"),
	}, nil
}
